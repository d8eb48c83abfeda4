package upload

import (
	"fmt"
	"os"
)

// validateUploadArgs validates the arguments provided to the upload command.
// Config level defaults are applied before validation.
func validateUploadArgs(options *RunOptionsUpload, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the upload command takes no positional arguments")
	}

	if options.InputFile == "" {
		return fmt.Errorf("the 'input-file' flag must be specified")
	}

	if _, err := os.Stat(options.InputFile); os.IsNotExist(err) {
		return fmt.Errorf("the input file does not exist: %v", options.InputFile)
	}

	if options.Bucket == "" {
		return fmt.Errorf("the 'bucket' flag or the aws.bucket config value must be specified")
	}

	return nil
}
