package vcs

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/pkg/shared"
)

// VCSListing is the repository listing action name used in results and logs.
const VCSListing = "list"

// Integrator represents the configuration and behavior of VCS provider actions.
type Integrator struct {
	ProviderName string       // Name of the VCS provider to use
	Action       string       // Action to perform
	logger       hclog.Logger // Logger for logging messages and errors
}

// RunOptionsList holds the arguments for the repository listing action.
type RunOptionsList struct {
	VCS        string `json:"vcs,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
	Language   string `json:"language,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// NewIntegrator creates a new Integrator instance with the provided configuration.
func NewIntegrator(providerName, action string, logger hclog.Logger) *Integrator {
	return &Integrator{
		ProviderName: providerName,
		Action:       action,
		logger:       logger,
	}
}

// PrepListRequest prepares the provider listing request from command options.
func (i *Integrator) PrepListRequest(options *RunOptionsList) ListRequest {
	return ListRequest{
		Domain:    options.Domain,
		Namespace: options.Namespace,
		Language:  options.Language,
	}
}

// ListAction executes the listing action using the VCS provider and collects
// the outcome in the generic launches shape.
func (i *Integrator) ListAction(ctx context.Context, req ListRequest) (shared.GenericLaunchesResult, error) {
	i.logger.Info("vcs integrator action starting", "action", i.Action, "provider", i.ProviderName)

	var result shared.GenericLaunchesResult
	provider, err := NewProvider(i.ProviderName, i.logger)
	if err != nil {
		result.Launches = append(result.Launches, shared.GenericResult{Args: req, Result: nil, Status: "FAILED", Message: err.Error()})
		return result, err
	}

	repos, err := provider.ListRepositories(ctx, req)
	if err != nil {
		result.Launches = append(result.Launches, shared.GenericResult{Args: req, Result: nil, Status: "FAILED", Message: err.Error()})
		i.logger.Error("VCS provider listing failed", "provider", i.ProviderName, "error", err)
		return result, fmt.Errorf("VCS provider listing failed: %w", err)
	}

	result.Launches = append(result.Launches, shared.GenericResult{Args: req, Result: repos, Status: "OK", Message: ""})
	return result, nil
}
