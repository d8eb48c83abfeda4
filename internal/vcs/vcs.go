// Package vcs lists candidate repositories through VCS provider APIs.
package vcs

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/pkg/shared"
)

// Supported provider names.
const (
	ProviderGithub = "github"
	ProviderGitlab = "gitlab"
)

// listPageSize is the page size used for provider API listing calls.
const listPageSize = 100

// ListRequest describes a repository listing call against a provider API.
type ListRequest struct {
	Domain    string `json:"domain,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Language  string `json:"language,omitempty"`
}

// Provider lists candidate repositories through a VCS provider API.
type Provider interface {
	ListRepositories(ctx context.Context, req ListRequest) ([]shared.RepositoryParams, error)
}

// NewProvider returns the provider implementation registered under name.
func NewProvider(name string, logger hclog.Logger) (Provider, error) {
	switch name {
	case ProviderGithub:
		return NewGithubProvider(logger), nil
	case ProviderGitlab:
		return NewGitlabProvider(logger), nil
	default:
		return nil, fmt.Errorf("unknown VCS provider: %q", name)
	}
}

// tokenFromEnv returns the first non-empty value among the given environment variables.
func tokenFromEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
