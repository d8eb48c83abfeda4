package analyse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abapscan/abapscan/cmd/version"
	"github.com/abapscan/abapscan/internal/analyser"
	"github.com/abapscan/abapscan/internal/findings"
	"github.com/abapscan/abapscan/internal/sarif"
	"github.com/abapscan/abapscan/pkg/shared/files"
)

const (
	ModeSinglePath = "single-path"
	ModeInputFile  = "input-file"

	FormatJSON  = "json"
	FormatSarif = "sarif"
)

func determineMode(args []string) string {
	if len(args) > 0 {
		return ModeSinglePath
	}
	return ModeInputFile
}

// runScan executes the analysis for the selected mode and returns the report
// together with the folder holding the scanned sources. The folder is empty
// in input-file mode where units carry their own pseudo paths.
func runScan(a *analyser.Analyser, options *RunOptionsAnalyse, args []string, mode string) (*findings.ScanReport, string, error) {
	switch mode {
	case ModeSinglePath:
		targetPath := args[0]
		targets, err := analyser.CollectTargets(AppConfig, targetPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to collect scan targets: %w", err)
		}
		return a.ScanTargets(targetPath, targets), targetPath, nil
	case ModeInputFile:
		units, err := analyser.LoadUnits(options.InputFile)
		if err != nil {
			return nil, "", fmt.Errorf("error parsing the input file %v: %w", options.InputFile, err)
		}
		return a.ScanUnits(options.InputFile, units), "", nil
	default:
		return nil, "", fmt.Errorf("invalid analysing mode: %v", mode)
	}
}

func writeReport(report *findings.ScanReport, sourceFolder, path, format string) error {
	if format == FormatSarif {
		doc, err := sarif.ConvertReport(report, sourceFolder, version.Current())
		if err != nil {
			return fmt.Errorf("error building the SARIF report: %w", err)
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("error creating the report file: %w", err)
		}
		defer file.Close()
		return doc.PrettyWrite(file)
	}

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling the report: %w", err)
	}
	return files.WriteJsonFile(path, data)
}

func analysisSubject(args []string, mode string) string {
	if mode == ModeSinglePath {
		return filepath.Base(args[0])
	}
	return "units"
}
