package list

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/internal/vcs"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/artifacts"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

var allArgumentsList vcs.RunOptionsList

var exampleListUsage = `  # List repositories of a GitHub organisation
  abapscan list --vcs github --namespace erp --output repos.json

  # List ABAP projects of a self-hosted GitLab group
  abapscan list --vcs gitlab --domain gitlab.example.com --namespace erp/abap --language ABAP --output repos.json`

var ListCmd = &cobra.Command{
	Use:                   "list [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleListUsage,
	Short:                 "List repositories available to the scan pipeline",
	RunE:                  runListCommand,
}

func runListCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-list")

	if config.IsCI(AppConfig) {
		hydrateFromCI(log, &allArgumentsList)
	}

	if err := validateListArgs(&allArgumentsList, args); err != nil {
		log.Error("invalid list arguments", "error", err)
		return errors.NewCommandError(allArgumentsList, nil, fmt.Errorf("invalid list arguments: %w", err), 1)
	}

	integrator := vcs.NewIntegrator(allArgumentsList.VCS, vcs.VCSListing, log)
	request := integrator.PrepListRequest(&allArgumentsList)

	resultList, listErr := integrator.ListAction(cmd.Context(), request)

	if config.IsCI(AppConfig) {
		if _, err := artifacts.SaveArtifactJSON(AppConfig, log, vcs.VCSListing, integrator.ProviderName, resultList); err != nil {
			log.Error("failed to write the CI artifact", "error", err)
		}
	}

	if listErr != nil {
		log.Error("list command failed", "error", listErr)
		return errors.NewCommandErrorWithResult(resultList, fmt.Errorf("list command failed: %w", listErr), 2)
	}

	repos, ok := resultList.Launches[0].Result.([]shared.RepositoryParams)
	if !ok {
		err := fmt.Errorf("failed to parse the listing results")
		log.Error("list command failed", "error", err)
		return errors.NewCommandErrorWithResult(resultList, err, 2)
	}

	resultData, err := json.MarshalIndent(repos, "", "    ")
	if err != nil {
		log.Error("failed to marshal the listing results", "error", err)
		return errors.NewCommandErrorWithResult(resultList, fmt.Errorf("error marshaling the result data: %w", err), 2)
	}
	if err := files.WriteJsonFile(allArgumentsList.OutputPath, resultData); err != nil {
		log.Error("failed to write the results file", "error", err)
		return errors.NewCommandErrorWithResult(resultList, err, 2)
	}

	if config.IsCI(AppConfig) {
		shared.PrintResultAsJSON(resultList)
	}

	log.Info("list command completed successfully")
	log.Info("results saved to file", "path", allArgumentsList.OutputPath)
	log.Info("statistic", "number_repositories", len(repos))
	return nil
}

func init() {
	ListCmd.Flags().StringVar(&allArgumentsList.VCS, "vcs", "", "VCS provider to query: 'github' or 'gitlab'")
	ListCmd.Flags().StringVar(&allArgumentsList.Domain, "domain", "", "domain of a self-hosted VCS installation, defaults to the provider cloud domain")
	ListCmd.Flags().StringVar(&allArgumentsList.Namespace, "namespace", "", "organisation or group whose repositories are listed")
	ListCmd.Flags().StringVar(&allArgumentsList.Language, "language", "", "only list repositories with the given main language, for example ABAP")
	ListCmd.Flags().StringVarP(&allArgumentsList.OutputPath, "output", "o", "", "path of the resulting file with the list of repositories")
	ListCmd.Flags().BoolP("help", "h", false, "help for the list command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
