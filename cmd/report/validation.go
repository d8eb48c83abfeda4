package report

import (
	"fmt"
	"os"
)

// validateReportArgs validates the arguments provided to the report command.
func validateReportArgs(options *RunOptionsReport, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the report command takes no positional arguments")
	}

	if options.InputFile == "" {
		return fmt.Errorf("the 'input-file' flag must be specified")
	}

	if options.OutputPath == "" {
		return fmt.Errorf("the 'output' flag must be specified")
	}

	if options.TemplatePath != "" {
		if _, err := os.Stat(options.TemplatePath); os.IsNotExist(err) {
			return fmt.Errorf("the template file does not exist: %v", options.TemplatePath)
		}
	}

	if options.SourceFolder != "" {
		if _, err := os.Stat(options.SourceFolder); os.IsNotExist(err) {
			return fmt.Errorf("the source folder does not exist: %v", options.SourceFolder)
		}
	}

	return nil
}
