package analyse

import (
	"fmt"
	"os"
)

func validateAnalyseArgs(options *RunOptionsAnalyse, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if len(args) == 0 && options.InputFile == "" {
		return fmt.Errorf("either 'input-file' flag or a target path must be specified")
	}

	if len(args) == 1 {
		if options.InputFile != "" {
			return fmt.Errorf("you cannot use an 'input-file' flag and a target path at the same time")
		}
		if _, err := os.Stat(args[0]); os.IsNotExist(err) {
			return fmt.Errorf("the target path does not exist: %v", args[0])
		}
	}

	if options.ReportFormat != FormatJSON && options.ReportFormat != FormatSarif {
		return fmt.Errorf("unsupported report format: %v", options.ReportFormat)
	}

	if options.Threads <= 0 {
		return fmt.Errorf("the 'threads' flag must be a positive integer")
	}

	return nil
}
