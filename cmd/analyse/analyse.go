package analyse

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/cmd/version"
	"github.com/abapscan/abapscan/internal/analyser"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/artifacts"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsAnalyse holds the arguments of the analyse command.
type RunOptionsAnalyse struct {
	InputFile    string `json:"input_file,omitempty"`
	ReportFormat string `json:"report_format,omitempty"`
	OutputPath   string `json:"output_path,omitempty"`
	Threads      int    `json:"threads,omitempty"`
}

var allArgumentsAnalyse RunOptionsAnalyse

var exampleAnalyseUsage = `  # Analyse a fetched repository and write a JSON report
  abapscan analyse ~/.abapscan/projects/github.com/erp/abap-cleanup

  # Analyse extracted development objects and produce SARIF
  abapscan analyse --input-file units.json --format sarif --output ./results.sarif

  # Analyse a working tree with four parallel workers
  abapscan analyse -j 4 ./src`

var AnalyseCmd = &cobra.Command{
	Use:                   "analyse [flags] [target]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAnalyseUsage,
	Short:                 "Scan ABAP sources for deprecated MM-IM table usage",
	RunE:                  runAnalyseCommand,
}

func runAnalyseCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-analyse")

	if err := validateAnalyseArgs(&allArgumentsAnalyse, args); err != nil {
		log.Error("invalid analyse arguments", "error", err)
		return errors.NewCommandError(allArgumentsAnalyse, nil, fmt.Errorf("invalid analyse arguments: %w", err), 1)
	}

	mode := determineMode(args)
	startTime := time.Now().UTC()

	a, err := analyser.New(allArgumentsAnalyse.ReportFormat, allArgumentsAnalyse.Threads, log)
	if err != nil {
		log.Error("failed to initialise the analyser", "error", err)
		return errors.NewCommandError(allArgumentsAnalyse, nil, err, 1)
	}

	report, sourceFolder, err := runScan(a, &allArgumentsAnalyse, args, mode)
	if err != nil {
		log.Error("analysis failed", "error", err)
		return errors.NewCommandError(allArgumentsAnalyse, nil, err, 2)
	}

	report.Tool = "abapscan"
	report.ToolVersion = version.Current()
	report.Provenance = analyser.ResolveProvenance(AppConfig, log, sourceFolder)

	resultPath, err := a.DetermineOutputPath(AppConfig, sourceFolder, allArgumentsAnalyse.OutputPath, startTime)
	if err != nil {
		log.Error("failed to determine the report path", "error", err)
		return errors.NewCommandError(allArgumentsAnalyse, nil, err, 2)
	}

	if err := writeReport(report, sourceFolder, resultPath, allArgumentsAnalyse.ReportFormat); err != nil {
		log.Error("failed to write the report", "error", err)
		return errors.NewCommandError(allArgumentsAnalyse, nil, err, 2)
	}

	result := shared.GenericLaunchesResult{Launches: []shared.GenericResult{{
		Args:   allArgumentsAnalyse,
		Result: resultPath,
		Status: "OK",
	}}}
	artifacts.WriteGenericResult(AppConfig, log, result, "analyse", analysisSubject(args, mode))

	log.Info("analyse command completed successfully",
		"files_scanned", report.FilesScanned, "findings", report.TotalFindings, "report", resultPath)
	return nil
}

func init() {
	AnalyseCmd.Flags().StringVarP(&allArgumentsAnalyse.InputFile, "input-file", "i", "", "path to a JSON file with development object units to analyse")
	AnalyseCmd.Flags().StringVarP(&allArgumentsAnalyse.ReportFormat, "format", "f", FormatJSON, "report format, either 'json' or 'sarif'")
	AnalyseCmd.Flags().StringVarP(&allArgumentsAnalyse.OutputPath, "output", "o", "", "path for the generated report, defaults to the results folder")
	AnalyseCmd.Flags().IntVarP(&allArgumentsAnalyse.Threads, "threads", "j", 1, "number of files analysed in parallel")
	AnalyseCmd.Flags().BoolP("help", "h", false, "help for the analyse command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
