package vcs

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/xanzy/go-gitlab"

	"github.com/abapscan/abapscan/pkg/shared"
)

// GitlabProvider lists projects of a GitLab instance or group.
type GitlabProvider struct {
	logger hclog.Logger
	token  string
}

// NewGitlabProvider creates a GitLab provider. The API token is taken from
// ABAPSCAN_GITLAB_TOKEN or GITLAB_TOKEN.
func NewGitlabProvider(logger hclog.Logger) *GitlabProvider {
	return &GitlabProvider{
		logger: logger,
		token:  tokenFromEnv("ABAPSCAN_GITLAB_TOKEN", "GITLAB_TOKEN"),
	}
}

// newClient creates a GitLab API client for the given domain. An empty domain
// targets gitlab.com.
func (g *GitlabProvider) newClient(domain string) (*gitlab.Client, error) {
	if g.token == "" {
		g.logger.Warn("no token provided, anonymous API access will be used, only public projects are visible")
	}

	var opts []gitlab.ClientOptionFunc
	if domain != "" && domain != "gitlab.com" {
		opts = append(opts, gitlab.WithBaseURL(fmt.Sprintf("https://%s/api/v4", domain)))
	}
	return gitlab.NewClient(g.token, opts...)
}

// ListRepositories lists projects visible to the token. A namespace narrows the
// listing to a group including its subgroups. The language filter runs server
// side, but the group projects API has no language parameter, so a listing with
// both a namespace and a language goes through the instance-wide endpoint and
// keeps the projects under the namespace.
func (g *GitlabProvider) ListRepositories(ctx context.Context, req ListRequest) ([]shared.RepositoryParams, error) {
	client, err := g.newClient(req.Domain)
	if err != nil {
		return nil, fmt.Errorf("gitlab: failed to create API client: %w", err)
	}

	var projects []*gitlab.Project
	if req.Namespace != "" && req.Language == "" {
		projects, err = g.listGroupProjects(ctx, client, req.Namespace)
	} else {
		projects, err = g.listProjects(ctx, client, req.Language)
	}
	if err != nil {
		return nil, fmt.Errorf("gitlab: %w", err)
	}

	if req.Namespace != "" && req.Language != "" {
		projects = filterProjectsByNamespace(projects, req.Namespace)
	}

	params := toGitlabRepositoryParams(projects)
	g.logger.Info("gitlab project listing finished", "namespace", req.Namespace, "language", req.Language, "matched", len(params))
	return params, nil
}

func (g *GitlabProvider) listProjects(ctx context.Context, client *gitlab.Client, language string) ([]*gitlab.Project, error) {
	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: listPageSize},
		OrderBy:     gitlab.String("id"),
	}
	if language != "" {
		opts.WithProgrammingLanguage = gitlab.String(language)
	}

	var all []*gitlab.Project
	for {
		projects, _, err := client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing projects failed on page %d: %w", opts.Page, err)
		}
		all = append(all, projects...)

		if len(projects) < opts.PerPage {
			break
		}
		opts.Page++
		g.logger.Debug("gitlab project listing page fetched", "page", opts.Page, "collected", len(all))
	}
	return all, nil
}

func (g *GitlabProvider) listGroupProjects(ctx context.Context, client *gitlab.Client, namespace string) ([]*gitlab.Project, error) {
	opts := &gitlab.ListGroupProjectsOptions{
		ListOptions:      gitlab.ListOptions{Page: 1, PerPage: listPageSize},
		IncludeSubGroups: gitlab.Bool(true),
		WithShared:       gitlab.Bool(false),
	}

	var all []*gitlab.Project
	for {
		projects, _, err := client.Groups.ListGroupProjects(namespace, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing projects of group %q failed on page %d: %w", namespace, opts.Page, err)
		}
		all = append(all, projects...)

		if len(projects) < opts.PerPage {
			break
		}
		opts.Page++
		g.logger.Debug("gitlab group project listing page fetched", "namespace", namespace, "page", opts.Page, "collected", len(all))
	}
	return all, nil
}
