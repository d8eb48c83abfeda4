package vcs

import (
	"strings"

	"github.com/google/go-github/v47/github"
	"github.com/xanzy/go-gitlab"

	"github.com/abapscan/abapscan/pkg/shared"
)

// safeString safely dereferences a string pointer, returning "" if the pointer is nil.
func safeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toGithubRepositoryParams converts GitHub repositories to the shared result shape.
// When language is non-empty, only repositories whose primary language matches
// it case-insensitively are kept.
func toGithubRepositoryParams(repos []*github.Repository, language string) []shared.RepositoryParams {
	params := []shared.RepositoryParams{}
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		if language != "" && !strings.EqualFold(safeString(repo.Language), language) {
			continue
		}

		namespace := ""
		if repo.Owner != nil {
			namespace = safeString(repo.Owner.Login)
		}
		params = append(params, shared.RepositoryParams{
			Namespace: namespace,
			RepoName:  safeString(repo.Name),
			HTTPLink:  safeString(repo.CloneURL),
			SSHLink:   safeString(repo.SSHURL),
		})
	}
	return params
}

// projectNamespace returns the full namespace path of a GitLab project,
// handling nil safely.
func projectNamespace(project *gitlab.Project) string {
	if project.Namespace != nil && project.Namespace.FullPath != "" {
		return project.Namespace.FullPath
	}
	return strings.TrimSuffix(project.PathWithNamespace, "/"+project.Path)
}

// toGitlabRepositoryParams converts GitLab projects to the shared result shape.
func toGitlabRepositoryParams(projects []*gitlab.Project) []shared.RepositoryParams {
	params := []shared.RepositoryParams{}
	for _, project := range projects {
		if project == nil {
			continue
		}
		params = append(params, shared.RepositoryParams{
			Namespace: projectNamespace(project),
			RepoName:  project.Path,
			HTTPLink:  project.HTTPURLToRepo,
			SSHLink:   project.SSHURLToRepo,
		})
	}
	return params
}

// filterProjectsByNamespace keeps projects whose path sits under the given namespace.
func filterProjectsByNamespace(projects []*gitlab.Project, namespace string) []*gitlab.Project {
	prefix := strings.ToLower(namespace) + "/"
	filtered := []*gitlab.Project{}
	for _, project := range projects {
		if project == nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(project.PathWithNamespace), prefix) {
			filtered = append(filtered, project)
		}
	}
	return filtered
}
