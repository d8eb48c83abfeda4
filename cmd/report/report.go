// Package report renders findings reports as standalone HTML documents.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/cmd/version"
	"github.com/abapscan/abapscan/internal/findings"
	"github.com/abapscan/abapscan/internal/template"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsReport holds the arguments of the report command.
type RunOptionsReport struct {
	InputFile    string `json:"input_file,omitempty"`
	OutputPath   string `json:"output_path,omitempty"`
	TemplatePath string `json:"template_path,omitempty"`
	SourceFolder string `json:"source_folder,omitempty"`
	Title        string `json:"title,omitempty"`
}

var allArgumentsReport RunOptionsReport

var exampleReportUsage = `  # Render a findings report produced by the analyse command
  abapscan report --input-file findings.json --output report.html

  # Resolve line numbers and permalinks against the scanned sources
  abapscan report -i findings.json -o report.html --source-folder ~/.abapscan/projects/github.com/erp/abap-cleanup

  # Render with a custom template
  abapscan report -i findings.json -o report.html --template ./my-report.html`

var ReportCmd = &cobra.Command{
	Use:                   "report [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReportUsage,
	Short:                 "Render a findings report as an HTML document",
	RunE:                  runReportCommand,
}

func runReportCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-report")

	if err := validateReportArgs(&allArgumentsReport, args); err != nil {
		log.Error("invalid report arguments", "error", err)
		return errors.NewCommandError(allArgumentsReport, nil, fmt.Errorf("invalid report arguments: %w", err), 1)
	}

	scanReport, err := readFindingsReport(allArgumentsReport.InputFile)
	if err != nil {
		log.Error("failed to read the findings report", "error", err)
		return errors.NewCommandError(allArgumentsReport, nil, err, 1)
	}

	templatePath := template.ResolvePath(AppConfig, allArgumentsReport.TemplatePath)
	tmpl, err := template.NewTemplate(templatePath)
	if err != nil {
		log.Error("failed to load the report template", "template", templatePath, "error", err)
		return errors.NewCommandError(allArgumentsReport, nil, fmt.Errorf("error loading the report template: %w", err), 2)
	}

	view := template.BuildReportView(
		scanReport,
		allArgumentsReport.SourceFolder,
		allArgumentsReport.Title,
		version.Current(),
		time.Now(),
	)

	outputFile, err := os.Create(allArgumentsReport.OutputPath)
	if err != nil {
		log.Error("failed to create the output file", "error", err)
		return errors.NewCommandError(allArgumentsReport, nil, fmt.Errorf("error creating the output file: %w", err), 2)
	}
	defer outputFile.Close()

	if err := tmpl.Execute(outputFile, view); err != nil {
		log.Error("failed to render the report", "error", err)
		return errors.NewCommandError(allArgumentsReport, nil, fmt.Errorf("error rendering the report: %w", err), 2)
	}

	log.Info("report command completed successfully",
		"findings", scanReport.TotalFindings, "output", allArgumentsReport.OutputPath)
	return nil
}

// readFindingsReport loads a findings report written by the analyse command.
func readFindingsReport(inputFile string) (*findings.ScanReport, error) {
	expandedPath, err := files.ExpandPath(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %q: %w", inputFile, err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("error reading the input file %v: %w", inputFile, err)
	}

	var report findings.ScanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("error parsing the input file %v: %w", inputFile, err)
	}
	return &report, nil
}

func init() {
	ReportCmd.Flags().StringVarP(&allArgumentsReport.InputFile, "input-file", "i", "", "path to a JSON findings report produced by the analyse command")
	ReportCmd.Flags().StringVarP(&allArgumentsReport.OutputPath, "output", "o", "abapscan-report.html", "path of the rendered HTML report")
	ReportCmd.Flags().StringVar(&allArgumentsReport.TemplatePath, "template", "", "path to a custom report template")
	ReportCmd.Flags().StringVarP(&allArgumentsReport.SourceFolder, "source-folder", "s", "", "folder with the scanned sources, used to resolve line numbers")
	ReportCmd.Flags().StringVar(&allArgumentsReport.Title, "title", "ABAP MM-IM deprecation report", "title of the rendered report")
	ReportCmd.Flags().BoolP("help", "h", false, "help for the report command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
