package diff

import (
	"fmt"
	"os"
)

// validateDiffArgs validates the arguments provided to the diff command.
func validateDiffArgs(options *RunOptionsDiff, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the diff command takes no positional arguments")
	}

	if options.BaselineFile == "" {
		return fmt.Errorf("the 'baseline' flag must be specified")
	}

	if _, err := os.Stat(options.BaselineFile); os.IsNotExist(err) {
		return fmt.Errorf("the baseline report does not exist: %v", options.BaselineFile)
	}

	if options.CurrentFile == "" {
		return fmt.Errorf("the 'current' flag must be specified")
	}

	if _, err := os.Stat(options.CurrentFile); os.IsNotExist(err) {
		return fmt.Errorf("the current report does not exist: %v", options.CurrentFile)
	}

	return nil
}
