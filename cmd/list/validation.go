package list

import (
	"fmt"

	"github.com/abapscan/abapscan/internal/vcs"
	"github.com/abapscan/abapscan/pkg/shared"
)

// validateListArgs validates the arguments provided to the list command.
func validateListArgs(options *vcs.RunOptionsList, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the list command takes no positional arguments")
	}

	if options.VCS == "" {
		return fmt.Errorf("the 'vcs' flag must be specified")
	}

	providersList := []string{vcs.ProviderGithub, vcs.ProviderGitlab}
	if !shared.IsInList(options.VCS, providersList) {
		return fmt.Errorf("unknown VCS provider: %v", options.VCS)
	}

	if options.OutputPath == "" {
		return fmt.Errorf("the 'output' flag must be specified")
	}

	return nil
}
