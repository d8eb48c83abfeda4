package vcs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/abapscan/abapscan/pkg/shared"
)

// GithubProvider lists repositories of a GitHub organization.
type GithubProvider struct {
	logger hclog.Logger
	token  string
}

// NewGithubProvider creates a GitHub provider. The API token is taken from
// ABAPSCAN_GITHUB_TOKEN or GITHUB_TOKEN; without a token anonymous access
// is used and API rate limits may apply.
func NewGithubProvider(logger hclog.Logger) *GithubProvider {
	return &GithubProvider{
		logger: logger,
		token:  tokenFromEnv("ABAPSCAN_GITHUB_TOKEN", "GITHUB_TOKEN"),
	}
}

// newClient creates a GitHub API client for the given domain. An empty domain
// or "github.com" targets the public API, anything else is treated as a
// GitHub Enterprise host.
func (g *GithubProvider) newClient(ctx context.Context, domain string) (*github.Client, error) {
	var httpClient *http.Client
	if g.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		g.logger.Warn("no token provided, anonymous API access will be used, rate limits may apply")
	}

	if domain != "" && domain != "github.com" {
		baseURL := fmt.Sprintf("https://%s/api/v3/", domain)
		return github.NewEnterpriseClient(baseURL, baseURL, httpClient)
	}
	return github.NewClient(httpClient), nil
}

// ListRepositories lists repositories of the requested organization, following
// pagination until the listing is exhausted. The GitHub repository API has no
// language parameter, so the language filter is applied to the primary
// language reported for each repository.
func (g *GithubProvider) ListRepositories(ctx context.Context, req ListRequest) ([]shared.RepositoryParams, error) {
	if req.Namespace == "" {
		return nil, fmt.Errorf("github: the 'namespace' option is required for listing")
	}

	client, err := g.newClient(ctx, req.Domain)
	if err != nil {
		return nil, fmt.Errorf("github: failed to create API client: %w", err)
	}

	repos, err := g.listByOrg(ctx, client, req.Namespace)
	if err != nil {
		return nil, fmt.Errorf("github: %w", err)
	}

	params := toGithubRepositoryParams(repos, req.Language)
	g.logger.Info("github repository listing finished", "namespace", req.Namespace, "total", len(repos), "matched", len(params))
	return params, nil
}

func (g *GithubProvider) listByOrg(ctx context.Context, client *github.Client, namespace string) ([]*github.Repository, error) {
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var all []*github.Repository
	for {
		repos, resp, err := client.Repositories.ListByOrg(ctx, namespace, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories of %q failed: %w", namespace, err)
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("github repository listing page fetched", "namespace", namespace, "page", opts.Page, "collected", len(all))
	}
	return all, nil
}
