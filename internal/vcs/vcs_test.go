package vcs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xanzy/go-gitlab"

	"github.com/abapscan/abapscan/pkg/shared"
)

func TestNewProvider(t *testing.T) {
	logger := hclog.NewNullLogger()

	t.Run("Github", func(t *testing.T) {
		p, err := NewProvider(ProviderGithub, logger)
		require.NoError(t, err)
		_, ok := p.(*GithubProvider)
		assert.True(t, ok)
	})

	t.Run("Gitlab", func(t *testing.T) {
		p, err := NewProvider(ProviderGitlab, logger)
		require.NoError(t, err)
		_, ok := p.(*GitlabProvider)
		assert.True(t, ok)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := NewProvider("bitbucket", logger)
		assert.EqualError(t, err, `unknown VCS provider: "bitbucket"`)
	})
}

func TestPrepListRequest(t *testing.T) {
	integrator := NewIntegrator(ProviderGitlab, VCSListing, hclog.NewNullLogger())
	req := integrator.PrepListRequest(&RunOptionsList{
		VCS:        ProviderGitlab,
		Domain:     "gitlab.example.com",
		Namespace:  "erp",
		Language:   "ABAP",
		OutputPath: "/tmp/repos.json",
	})

	assert.Equal(t, ListRequest{Domain: "gitlab.example.com", Namespace: "erp", Language: "ABAP"}, req)
}

func TestListActionUnknownProvider(t *testing.T) {
	integrator := NewIntegrator("svn", VCSListing, hclog.NewNullLogger())
	result, err := integrator.ListAction(context.Background(), ListRequest{})

	require.Error(t, err)
	require.Len(t, result.Launches, 1)
	assert.Equal(t, "FAILED", result.Launches[0].Status)
	assert.NotEmpty(t, result.Launches[0].Message)
}

func TestToGithubRepositoryParams(t *testing.T) {
	repos := []*github.Repository{
		nil,
		{
			Name:     github.String("abap-platform-rap-opensap"),
			Language: github.String("ABAP"),
			CloneURL: github.String("https://github.com/SAP-samples/abap-platform-rap-opensap.git"),
			SSHURL:   github.String("git@github.com:SAP-samples/abap-platform-rap-opensap.git"),
			Owner:    &github.User{Login: github.String("SAP-samples")},
		},
		{
			Name:     github.String("ui5-webcomponents"),
			Language: github.String("JavaScript"),
			CloneURL: github.String("https://github.com/SAP/ui5-webcomponents.git"),
			SSHURL:   github.String("git@github.com:SAP/ui5-webcomponents.git"),
			Owner:    &github.User{Login: github.String("SAP")},
		},
		{
			Name: github.String("no-owner"),
		},
	}

	t.Run("NoLanguageFilter", func(t *testing.T) {
		params := toGithubRepositoryParams(repos, "")
		require.Len(t, params, 3)
		assert.Equal(t, shared.RepositoryParams{
			Namespace: "SAP-samples",
			RepoName:  "abap-platform-rap-opensap",
			HTTPLink:  "https://github.com/SAP-samples/abap-platform-rap-opensap.git",
			SSHLink:   "git@github.com:SAP-samples/abap-platform-rap-opensap.git",
		}, params[0])
		assert.Equal(t, "", params[2].Namespace)
	})

	t.Run("LanguageFilterIsCaseInsensitive", func(t *testing.T) {
		params := toGithubRepositoryParams(repos, "abap")
		require.Len(t, params, 1)
		assert.Equal(t, "abap-platform-rap-opensap", params[0].RepoName)
	})
}

func TestToGitlabRepositoryParams(t *testing.T) {
	projects := []*gitlab.Project{
		nil,
		{
			Path:              "abap-cleanup",
			PathWithNamespace: "erp/abap-cleanup",
			Namespace:         &gitlab.ProjectNamespace{Path: "erp", FullPath: "erp"},
			HTTPURLToRepo:     "https://gitlab.example.com/erp/abap-cleanup.git",
			SSHURLToRepo:      "git@gitlab.example.com:erp/abap-cleanup.git",
		},
		{
			// Namespace missing in the payload, the full path is the fallback.
			Path:              "mm-reports",
			PathWithNamespace: "erp/mm/mm-reports",
			HTTPURLToRepo:     "https://gitlab.example.com/erp/mm/mm-reports.git",
			SSHURLToRepo:      "git@gitlab.example.com:erp/mm/mm-reports.git",
		},
	}

	params := toGitlabRepositoryParams(projects)
	require.Len(t, params, 2)
	assert.Equal(t, shared.RepositoryParams{
		Namespace: "erp",
		RepoName:  "abap-cleanup",
		HTTPLink:  "https://gitlab.example.com/erp/abap-cleanup.git",
		SSHLink:   "git@gitlab.example.com:erp/abap-cleanup.git",
	}, params[0])
	assert.Equal(t, "erp/mm", params[1].Namespace)
	assert.Equal(t, "mm-reports", params[1].RepoName)
}

func TestFilterProjectsByNamespace(t *testing.T) {
	projects := []*gitlab.Project{
		{PathWithNamespace: "erp/abap-cleanup"},
		{PathWithNamespace: "erp/mm/mm-reports"},
		{PathWithNamespace: "platform/erp-tools"},
		nil,
	}

	filtered := filterProjectsByNamespace(projects, "ERP")
	require.Len(t, filtered, 2)
	assert.Equal(t, "erp/abap-cleanup", filtered[0].PathWithNamespace)
	assert.Equal(t, "erp/mm/mm-reports", filtered[1].PathWithNamespace)
}

func TestGithubListByOrgPagination(t *testing.T) {
	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/SAP/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id":3,"name":"abap-file-formats","owner":{"login":"SAP"}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/SAP/repos?page=2>; rel="next", <%s/orgs/SAP/repos?page=2>; rel="last"`, baseURL, baseURL))
		fmt.Fprint(w, `[{"id":1,"name":"styleguides","owner":{"login":"SAP"}},{"id":2,"name":"code-pal-for-abap","owner":{"login":"SAP"}}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	baseURL = srv.URL

	client := github.NewClient(nil)
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	g := &GithubProvider{logger: hclog.NewNullLogger()}
	repos, err := g.listByOrg(context.Background(), client, "SAP")
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.Equal(t, "abap-file-formats", repos[2].GetName())
}

func TestGitlabListProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ABAP", r.URL.Query().Get("with_programming_language"))
		assert.Equal(t, "id", r.URL.Query().Get("order_by"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":1,"path":"abap-cleanup","path_with_namespace":"erp/abap-cleanup","namespace":{"path":"erp","full_path":"erp"},"http_url_to_repo":"https://gitlab.example.com/erp/abap-cleanup.git","ssh_url_to_repo":"git@gitlab.example.com:erp/abap-cleanup.git"},
			{"id":2,"path":"mm-reports","path_with_namespace":"erp/mm/mm-reports","namespace":{"path":"mm","full_path":"erp/mm"},"http_url_to_repo":"https://gitlab.example.com/erp/mm/mm-reports.git","ssh_url_to_repo":"git@gitlab.example.com:erp/mm/mm-reports.git"}
		]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := gitlab.NewClient("", gitlab.WithBaseURL(srv.URL+"/api/v4"))
	require.NoError(t, err)

	g := &GitlabProvider{logger: hclog.NewNullLogger()}
	projects, err := g.listProjects(context.Background(), client, "ABAP")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "erp/mm/mm-reports", projects[1].PathWithNamespace)
}

func TestGitlabListGroupProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/erp/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("include_subgroups"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"path":"abap-cleanup","path_with_namespace":"erp/abap-cleanup","namespace":{"path":"erp","full_path":"erp"},"http_url_to_repo":"https://gitlab.example.com/erp/abap-cleanup.git","ssh_url_to_repo":"git@gitlab.example.com:erp/abap-cleanup.git"}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := gitlab.NewClient("", gitlab.WithBaseURL(srv.URL+"/api/v4"))
	require.NoError(t, err)

	g := &GitlabProvider{logger: hclog.NewNullLogger()}
	projects, err := g.listGroupProjects(context.Background(), client, "erp")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "abap-cleanup", projects[0].Path)
}
