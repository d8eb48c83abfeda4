package fetch

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/vcsurl"
)

const (
	AuthTypeHTTP     = "http"
	AuthTypeSSHKey   = "ssh-key"
	AuthTypeSSHAgent = "ssh-agent"
)

// validateFetchArgs validates the arguments provided to the fetch command.
func validateFetchArgs(options *RunOptionsFetch, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if options.AuthType == "" {
		return fmt.Errorf("the 'auth-type' flag must be specified")
	}

	authTypesList := []string{AuthTypeHTTP, AuthTypeSSHKey, AuthTypeSSHAgent}
	if !shared.IsInList(options.AuthType, authTypesList) {
		return fmt.Errorf("unknown auth-type: %v", options.AuthType)
	}

	if options.AuthType == AuthTypeSSHKey {
		if options.SSHKey == "" {
			return fmt.Errorf("you must specify ssh-key with auth-type 'ssh-key'")
		}
		if err := validateSSHKey(options.SSHKey); err != nil {
			return err
		}
	}

	if options.Threads <= 0 {
		return fmt.Errorf("the 'threads' flag must be a positive integer")
	}

	if len(args) == 0 && options.InputFile == "" {
		return fmt.Errorf("either 'input-file' flag or a target URL must be specified")
	}

	if options.InputFile != "" && len(args) != 0 {
		return fmt.Errorf("you cannot use 'input-file' flag with a target URL")
	}

	if len(args) == 1 {
		if _, err := vcsurl.Parse(args[0]); err != nil {
			return fmt.Errorf("provided URL is not valid: %w", err)
		}
	}

	return nil
}

// validateRepoParams validates a repository description from an input file.
func validateRepoParams(repo shared.RepositoryParams) error {
	if repo.Namespace == "" {
		return fmt.Errorf("fetching all repositories across a VCS is not supported, use the list command first")
	}
	if repo.RepoName == "" {
		return fmt.Errorf("fetching an entire namespace is not supported, use the list command first")
	}
	return nil
}

// validateSSHKey checks that the key file exists and holds a parsable private
// key. Passphrase protected keys pass the check, the passphrase is requested
// from the environment when the key is used.
func validateSSHKey(sshKey string) error {
	expandedPath, err := files.ExpandPath(sshKey)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", sshKey, err)
	}

	if err := files.ValidatePath(expandedPath); err != nil {
		return fmt.Errorf("failed to validate path %q: %w", expandedPath, err)
	}

	keyData, err := os.ReadFile(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file: %w", err)
	}

	if _, err := ssh.ParsePrivateKey(keyData); err != nil {
		if _, ok := err.(*ssh.PassphraseMissingError); !ok {
			return fmt.Errorf("invalid SSH key format: %w", err)
		}
	}
	return nil
}
