// Package remediate submits development object units to a remediation server.
package remediate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/pkg/client"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/artifacts"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsRemediate holds the arguments of the remediate command.
type RunOptionsRemediate struct {
	InputFile  string `json:"input_file,omitempty"`
	ServerURL  string `json:"server_url,omitempty"`
	Token      string `json:"-"`
	OutputPath string `json:"output_path,omitempty"`
}

var allArgumentsRemediate RunOptionsRemediate

var exampleRemediateUsage = `  # Request remediation suggestions from a local server
  abapscan remediate --input-file units.json --server-url http://localhost:8080 --output results.json

  # Request suggestions from a protected server
  abapscan remediate -i units.json --server-url https://abapscan.example.com --token "$ABAPSCAN_SERVER_TOKEN" -o results.json`

var RemediateCmd = &cobra.Command{
	Use:                   "remediate [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleRemediateUsage,
	Short:                 "Request remediation suggestions for development object units",
	RunE:                  runRemediateCommand,
}

func runRemediateCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-remediate")

	if allArgumentsRemediate.Token == "" {
		allArgumentsRemediate.Token = os.Getenv("ABAPSCAN_SERVER_TOKEN")
	}

	if err := validateRemediateArgs(&allArgumentsRemediate, args); err != nil {
		log.Error("invalid remediate arguments", "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, fmt.Errorf("invalid remediate arguments: %w", err), 1)
	}

	expandedPath, err := files.ExpandPath(allArgumentsRemediate.InputFile)
	if err != nil {
		log.Error("failed to expand the input file path", "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, err, 1)
	}
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		log.Error("failed to read the input file", "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, fmt.Errorf("error reading the input file %v: %w", allArgumentsRemediate.InputFile, err), 1)
	}

	c := client.New(AppConfig, log, allArgumentsRemediate.ServerURL, allArgumentsRemediate.Token)

	if _, err := c.Health(); err != nil {
		log.Error("remediation server is not reachable", "server", allArgumentsRemediate.ServerURL, "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, fmt.Errorf("remediation server is not reachable: %w", err), 2)
	}

	results, err := c.RemediateRaw(data)
	if err != nil {
		log.Error("remediate command failed", "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, err, 2)
	}

	resultData, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		log.Error("failed to marshal the remediation results", "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, fmt.Errorf("error marshaling the result data: %w", err), 2)
	}
	if err := files.WriteJsonFile(allArgumentsRemediate.OutputPath, resultData); err != nil {
		log.Error("failed to write the results file", "error", err)
		return errors.NewCommandError(allArgumentsRemediate, nil, err, 2)
	}

	result := shared.GenericLaunchesResult{Launches: []shared.GenericResult{{
		Args:   allArgumentsRemediate,
		Result: allArgumentsRemediate.OutputPath,
		Status: "OK",
	}}}
	artifacts.WriteGenericResult(AppConfig, log, result, "remediate", "units")

	log.Info("remediate command completed successfully",
		"units", len(results), "output", allArgumentsRemediate.OutputPath)
	return nil
}

func init() {
	RemediateCmd.Flags().StringVarP(&allArgumentsRemediate.InputFile, "input-file", "i", "", "path to a JSON file with development object units")
	RemediateCmd.Flags().StringVar(&allArgumentsRemediate.ServerURL, "server-url", "", "base URL of the remediation server")
	RemediateCmd.Flags().StringVar(&allArgumentsRemediate.Token, "token", "", "bearer token for the remediation server, defaults to ABAPSCAN_SERVER_TOKEN")
	RemediateCmd.Flags().StringVarP(&allArgumentsRemediate.OutputPath, "output", "o", "", "path of the resulting file with remediation suggestions")
	RemediateCmd.Flags().BoolP("help", "h", false, "help for the remediate command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
