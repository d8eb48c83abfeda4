package remediate

import (
	"fmt"
	"net/url"
	"os"
)

// validateRemediateArgs validates the arguments provided to the remediate command.
func validateRemediateArgs(options *RunOptionsRemediate, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the remediate command takes no positional arguments")
	}

	if options.InputFile == "" {
		return fmt.Errorf("the 'input-file' flag must be specified")
	}

	if _, err := os.Stat(options.InputFile); os.IsNotExist(err) {
		return fmt.Errorf("the input file does not exist: %v", options.InputFile)
	}

	if options.ServerURL == "" {
		return fmt.Errorf("the 'server-url' flag must be specified")
	}

	if _, err := url.ParseRequestURI(options.ServerURL); err != nil {
		return fmt.Errorf("provided server URL is not valid: %w", err)
	}

	if options.OutputPath == "" {
		return fmt.Errorf("the 'output' flag must be specified")
	}

	return nil
}
