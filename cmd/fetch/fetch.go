package fetch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/internal/fetcher"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/artifacts"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsFetch holds the arguments of the fetch command.
type RunOptionsFetch struct {
	InputFile string   `json:"input_file,omitempty"`
	AuthType  string   `json:"auth_type,omitempty"`
	SSHKey    string   `json:"ssh_key,omitempty"`
	Branch    string   `json:"branch,omitempty"`
	RmExts    []string `json:"rm_exts,omitempty"`
	Threads   int      `json:"threads,omitempty"`
}

var allArgumentsFetch RunOptionsFetch

var exampleFetchUsage = `  # Fetch a repository over SSH using the local ssh-agent
  abapscan fetch --auth-type ssh-agent git@github.com:erp/abap-cleanup.git

  # Fetch a single branch over HTTPS
  abapscan fetch --auth-type http --branch develop https://github.com/erp/abap-cleanup

  # Fetch every repository listed by the list command
  abapscan fetch --input-file repos.json --auth-type ssh-key --ssh-key ~/.ssh/id_rsa -j 4`

var FetchCmd = &cobra.Command{
	Use:                   "fetch [flags] [url]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleFetchUsage,
	Short:                 "Fetch ABAP repositories into the projects folder",
	RunE:                  runFetchCommand,
}

func runFetchCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-fetch")

	if err := validateFetchArgs(&allArgumentsFetch, args); err != nil {
		log.Error("invalid fetch arguments", "error", err)
		return errors.NewCommandError(allArgumentsFetch, nil, fmt.Errorf("invalid fetch arguments: %w", err), 1)
	}

	mode := determineMode(args)
	f := fetcher.New(
		allArgumentsFetch.AuthType,
		allArgumentsFetch.SSHKey,
		allArgumentsFetch.Threads,
		allArgumentsFetch.Branch,
		allArgumentsFetch.RmExts,
		log,
	)

	requests, err := prepareFetchRequests(f, &allArgumentsFetch, args, mode)
	if err != nil {
		log.Error("failed to prepare fetch requests", "error", err)
		return errors.NewCommandError(allArgumentsFetch, nil, err, 1)
	}

	result := f.FetchRepos(AppConfig, requests, gitSecrets())
	artifacts.WriteGenericResult(AppConfig, log, result, "fetch", "repositories")

	if err := launchesError(result); err != nil {
		log.Error("fetch command failed", "error", err)
		return errors.NewCommandErrorWithResult(result, err, 2)
	}

	log.Info("fetch command completed successfully", "repositories", len(result.Launches))
	return nil
}

func init() {
	FetchCmd.Flags().StringVarP(&allArgumentsFetch.InputFile, "input-file", "i", "", "path to a JSON file with repositories to fetch, the output of the list command")
	FetchCmd.Flags().StringVar(&allArgumentsFetch.AuthType, "auth-type", "", "type of authentication: 'http', 'ssh-agent' or 'ssh-key'")
	FetchCmd.Flags().StringVar(&allArgumentsFetch.SSHKey, "ssh-key", "", "path to an SSH private key")
	FetchCmd.Flags().StringVarP(&allArgumentsFetch.Branch, "branch", "b", "", "branch to checkout instead of the repository default")
	FetchCmd.Flags().StringSliceVar(&allArgumentsFetch.RmExts, "rm-ext", defaultRmExts, "comma separated list of file extensions removed after fetching")
	FetchCmd.Flags().IntVarP(&allArgumentsFetch.Threads, "threads", "j", 1, "number of repositories fetched in parallel")
	FetchCmd.Flags().BoolP("help", "h", false, "help for the fetch command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
