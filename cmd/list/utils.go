package list

import (
	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/ci"
	"github.com/abapscan/abapscan/internal/vcs"
)

// hydrateFromCI fills missing listing options from the CI environment so that
// pipeline jobs can run the command without spelling out the provider details.
// Explicitly provided flags always win.
func hydrateFromCI(log hclog.Logger, options *vcs.RunOptionsList) {
	resolution, err := ci.ResolveFromEnvironment(log, options.VCS)
	if err != nil {
		log.Warn("unable to resolve the CI environment", "error", err)
		return
	}

	if options.VCS == "" {
		options.VCS = resolution.Provider
	}
	if options.Domain == "" {
		options.Domain = resolution.Domain
	}
	if options.Namespace == "" {
		options.Namespace = resolution.Namespace
	}
}
