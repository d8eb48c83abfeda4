// Package diff compares two findings reports and separates persisting
// findings from new and resolved ones.
package diff

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/internal/findings"
	"github.com/abapscan/abapscan/pkg/findingmatch"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsDiff holds the arguments of the diff command.
type RunOptionsDiff struct {
	BaselineFile string `json:"baseline_file,omitempty"`
	CurrentFile  string `json:"current_file,omitempty"`
	OutputPath   string `json:"output_path,omitempty"`
}

var allArgumentsDiff RunOptionsDiff

// Summary is the outcome of comparing two findings reports.
type Summary struct {
	New        []findingmatch.FindingMetadata `json:"new"`
	Resolved   []findingmatch.FindingMetadata `json:"resolved"`
	Persisting []findingmatch.Match           `json:"persisting"`
	Totals     SummaryTotals                  `json:"totals"`
}

// SummaryTotals carries the counters of a diff run.
type SummaryTotals struct {
	Baseline   int `json:"baseline"`
	Current    int `json:"current"`
	New        int `json:"new"`
	Resolved   int `json:"resolved"`
	Persisting int `json:"persisting"`
}

var exampleDiffUsage = `  # Compare two findings reports of the same repository
  abapscan diff --baseline last-week.json --current today.json

  # Write the comparison to a file for further processing
  abapscan diff --baseline last-week.json --current today.json --output diff.json`

var DiffCmd = &cobra.Command{
	Use:                   "diff [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleDiffUsage,
	Short:                 "Compare two findings reports and show new and resolved findings",
	RunE:                  runDiffCommand,
}

func runDiffCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-diff")

	if err := validateDiffArgs(&allArgumentsDiff, args); err != nil {
		log.Error("invalid diff arguments", "error", err)
		return errors.NewCommandError(allArgumentsDiff, nil, fmt.Errorf("invalid diff arguments: %w", err), 1)
	}

	baseline, err := readReport(allArgumentsDiff.BaselineFile)
	if err != nil {
		log.Error("failed to read the baseline report", "error", err)
		return errors.NewCommandError(allArgumentsDiff, nil, err, 1)
	}
	current, err := readReport(allArgumentsDiff.CurrentFile)
	if err != nil {
		log.Error("failed to read the current report", "error", err)
		return errors.NewCommandError(allArgumentsDiff, nil, err, 1)
	}

	summary := summarize(baseline, current)

	if allArgumentsDiff.OutputPath != "" {
		resultData, err := json.MarshalIndent(summary, "", "    ")
		if err != nil {
			log.Error("failed to marshal the diff summary", "error", err)
			return errors.NewCommandError(allArgumentsDiff, nil, fmt.Errorf("error marshaling the result data: %w", err), 2)
		}
		if err := files.WriteJsonFile(allArgumentsDiff.OutputPath, resultData); err != nil {
			log.Error("failed to write the results file", "error", err)
			return errors.NewCommandError(allArgumentsDiff, nil, err, 2)
		}
		log.Info("results saved to file", "path", allArgumentsDiff.OutputPath)
	} else {
		shared.PrintResultAsJSON(summary)
	}

	log.Info("diff command completed successfully",
		"new", summary.Totals.New, "resolved", summary.Totals.Resolved, "persisting", summary.Totals.Persisting)
	return nil
}

// summarize correlates the findings of the two reports. Baseline findings act
// as the known set, current findings as the new set, so unmatched baseline
// findings count as resolved and unmatched current findings as new.
func summarize(baseline, current *findings.ScanReport) Summary {
	correlator := findingmatch.NewCorrelator(collectMetadata(current), collectMetadata(baseline))
	correlator.Process()

	summary := Summary{
		New:        correlator.UnmatchedNew(),
		Resolved:   correlator.UnmatchedKnown(),
		Persisting: correlator.Matches(),
	}
	summary.Totals = SummaryTotals{
		Baseline:   baseline.TotalCount(),
		Current:    current.TotalCount(),
		New:        len(summary.New),
		Resolved:   len(summary.Resolved),
		Persisting: len(summary.Persisting),
	}
	return summary
}

// collectMetadata flattens a report into correlation metadata, one entry per
// finding. The file hash recorded at scan time enables position independent
// matching of findings in edited files.
func collectMetadata(report *findings.ScanReport) []findingmatch.FindingMetadata {
	var metadata []findingmatch.FindingMetadata
	for _, file := range report.Files {
		for _, finding := range file.Findings {
			metadata = append(metadata, findingmatch.FindingMetadata{
				Table:     finding.Table,
				File:      file.File,
				StartChar: finding.StartCharInUnit,
				EndChar:   finding.EndCharInUnit,
				FileHash:  file.Sha256,
			})
		}
	}
	return metadata
}

// readReport loads a findings report written by the analyse command.
func readReport(path string) (*findings.ScanReport, error) {
	expandedPath, err := files.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %q: %w", path, err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("error reading the report file %v: %w", path, err)
	}

	var report findings.ScanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("error parsing the report file %v: %w", path, err)
	}
	return &report, nil
}

func init() {
	DiffCmd.Flags().StringVar(&allArgumentsDiff.BaselineFile, "baseline", "", "path to the baseline findings report")
	DiffCmd.Flags().StringVar(&allArgumentsDiff.CurrentFile, "current", "", "path to the current findings report")
	DiffCmd.Flags().StringVarP(&allArgumentsDiff.OutputPath, "output", "o", "", "path of the resulting file, printed to stdout when omitted")
	DiffCmd.Flags().BoolP("help", "h", false, "help for the diff command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
