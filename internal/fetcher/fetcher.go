// Package fetcher orchestrates repository fetch operations: it turns raw URLs
// or listed repositories into clone requests and runs them with bounded
// concurrency.
package fetcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/git"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/vcsurl"
)

type Fetcher struct {
	authType string
	sshKey   string
	jobs     int
	branch   string
	rmExts   []string
	logger   hclog.Logger
}

func New(authType, sshKey string, jobs int, branch string, rmExts []string, logger hclog.Logger) Fetcher {
	if jobs < 1 {
		jobs = 1
	}
	return Fetcher{
		authType: authType,
		sshKey:   sshKey,
		jobs:     jobs,
		branch:   branch,
		rmExts:   rmExts,
		logger:   logger,
	}
}

// PrepRequestFromURL builds a clone request for a single raw repository URL.
// The target folder follows the projects home layout: <home>/<host>/<namespace>/<repo>.
func (f Fetcher) PrepRequestFromURL(cfg *config.Config, rawURL string) (git.CloneRequest, error) {
	info, err := vcsurl.Parse(rawURL)
	if err != nil {
		return git.CloneRequest{}, fmt.Errorf("failed to parse repository URL %q: %w", rawURL, err)
	}
	if info.Repository == "" {
		return git.CloneRequest{}, fmt.Errorf("URL does not reference a repository: %q", rawURL)
	}

	cloneURL := info.SSHRepoLink
	if f.authType == "http" {
		cloneURL = info.HTTPRepoLink
	}

	branch := f.branch
	if branch == "" {
		branch = info.Branch
	}

	return git.CloneRequest{
		CloneURL:     cloneURL,
		Branch:       branch,
		AuthType:     f.authType,
		SSHKey:       f.sshKey,
		TargetFolder: targetFolder(cfg, info.ParsedURL.Hostname(), info.Namespace, info.Repository),
	}, nil
}

// PrepRequests builds clone requests for repositories produced by the list
// command. The clone URL is chosen to match the authentication type.
func (f Fetcher) PrepRequests(cfg *config.Config, repos []shared.RepositoryParams) ([]git.CloneRequest, error) {
	var requests []git.CloneRequest

	for _, repo := range repos {
		cloneURL := repo.SSHLink
		if f.authType == "http" {
			cloneURL = repo.HTTPLink
		}
		if cloneURL == "" {
			return nil, fmt.Errorf("repository %q/%q has no clone link for auth type %q", repo.Namespace, repo.RepoName, f.authType)
		}

		info, err := vcsurl.Parse(cloneURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse clone link %q: %w", cloneURL, err)
		}

		requests = append(requests, git.CloneRequest{
			CloneURL:     cloneURL,
			Branch:       f.branch,
			AuthType:     f.authType,
			SSHKey:       f.sshKey,
			TargetFolder: targetFolder(cfg, info.ParsedURL.Hostname(), repo.Namespace, repo.RepoName),
		})
	}
	return requests, nil
}

// FetchRepos clones or updates every requested repository and reports one
// launch result per request, in request order.
func (f Fetcher) FetchRepos(cfg *config.Config, requests []git.CloneRequest, secrets map[string]string) shared.GenericLaunchesResult {
	f.logger.Info("fetching starting", "total", len(requests), "goroutines", f.jobs)

	launches := make([]shared.GenericResult, len(requests))
	values := make([]interface{}, len(requests))
	for i := range requests {
		values[i] = requests[i]
	}

	shared.ForEveryStringWithBoundedGoroutines(f.jobs, values, func(i int, value interface{}) {
		request := value.(git.CloneRequest)
		f.logger.Debug("goroutine started", "#", i+1, "cloneURL", request.CloneURL)

		targetFolder, err := f.fetchRepo(cfg, &request, secrets)
		if err != nil {
			f.logger.Error("repository fetch failed", "cloneURL", request.CloneURL, "error", err)
			launches[i] = shared.GenericResult{Args: request, Status: "FAILED", Message: err.Error()}
			return
		}
		launches[i] = shared.GenericResult{Args: request, Result: targetFolder, Status: "OK"}
	})

	return shared.GenericLaunchesResult{Launches: launches}
}

// fetchRepo performs a single clone or update, then strips unwanted extensions.
func (f Fetcher) fetchRepo(cfg *config.Config, request *git.CloneRequest, secrets map[string]string) (string, error) {
	client, err := git.New(f.logger, cfg, secrets, request)
	if err != nil {
		return "", err
	}

	targetFolder, err := client.CloneRepository(request, "")
	if err != nil {
		return "", err
	}

	if len(f.rmExts) > 0 {
		if err := files.FindByExtAndRemove(targetFolder, f.rmExts); err != nil {
			f.logger.Warn("failed to clean up extensions", "targetFolder", targetFolder, "error", err)
		}
	}
	return targetFolder, nil
}

// targetFolder resolves the on-disk location for a repository clone.
func targetFolder(cfg *config.Config, host, namespace, repoName string) string {
	return filepath.Join(
		config.GetProjectsHome(cfg),
		strings.ToLower(host),
		filepath.FromSlash(strings.ToLower(namespace)),
		strings.ToLower(repoName),
	)
}
