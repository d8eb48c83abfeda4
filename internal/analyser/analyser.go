// Package analyser orchestrates analyse runs: target collection, bounded
// parallel scanning and report assembly.
package analyser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/catalog"
	"github.com/abapscan/abapscan/internal/findings"
	"github.com/abapscan/abapscan/internal/remediate"
	"github.com/abapscan/abapscan/internal/scanner"
	"github.com/abapscan/abapscan/pkg/shared"
)

// Analyser represents the configuration and behavior of an analyse run.
type Analyser struct {
	reportFormat   string          // Format of the report to generate (json or sarif)
	concurrentJobs int             // Number of concurrent jobs to run
	scanner        *scanner.Scanner
	logger         hclog.Logger
}

// New creates a new Analyser instance with the provided configuration.
func New(reportFormat string, concurrentJobs int, logger hclog.Logger) (*Analyser, error) {
	s, err := scanner.New(catalog.MustBuild())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize the scanner: %w", err)
	}
	if concurrentJobs < 1 {
		concurrentJobs = 1
	}

	return &Analyser{
		reportFormat:   reportFormat,
		concurrentJobs: concurrentJobs,
		scanner:        s,
		logger:         logger,
	}, nil
}

// ScanTargets reads and scans the collected files with at most the configured
// number of goroutines in flight. Results land in index-stable slots, so the
// report order follows the collection order regardless of scheduling.
func (a *Analyser) ScanTargets(root string, targets []Target) *findings.ScanReport {
	a.logger.Info("analysis starting", "target", root, "files", len(targets), "goroutines", a.concurrentJobs)

	report := &findings.ScanReport{Target: root, StartedAt: time.Now().UTC()}

	slots := make([]*findings.FileReport, len(targets))
	values := make([]interface{}, len(targets))
	for i := range targets {
		values[i] = targets[i]
	}

	shared.ForEveryStringWithBoundedGoroutines(a.concurrentJobs, values, func(i int, value interface{}) {
		target, ok := value.(Target)
		if !ok {
			a.logger.Error("invalid scan target type")
			return
		}

		fileReport, err := a.scanFile(target)
		if err != nil {
			a.logger.Warn("skipping unreadable file", "path", target.Path, "error", err)
			return
		}
		slots[i] = fileReport
	})

	report.Files = make([]findings.FileReport, 0, len(slots))
	for _, fileReport := range slots {
		if fileReport != nil {
			report.Files = append(report.Files, *fileReport)
		}
	}
	report.Finalize(time.Now().UTC())

	a.logger.Info("analysis finished", "files", report.FilesScanned, "findings", report.TotalFindings)
	return report
}

// ScanUnits scans exported development units. Each unit appears in the report
// as a pseudo file named <pgm_name>/<inc_name>, hashed over its code.
func (a *Analyser) ScanUnits(inputFile string, units []remediate.Unit) *findings.ScanReport {
	a.logger.Info("unit analysis starting", "input", inputFile, "units", len(units), "goroutines", a.concurrentJobs)

	report := &findings.ScanReport{Target: inputFile, StartedAt: time.Now().UTC()}

	slots := make([]findings.FileReport, len(units))
	values := make([]interface{}, len(units))
	for i := range units {
		values[i] = units[i]
	}

	shared.ForEveryStringWithBoundedGoroutines(a.concurrentJobs, values, func(i int, value interface{}) {
		unit, ok := value.(remediate.Unit)
		if !ok {
			a.logger.Error("invalid unit type")
			return
		}

		code := unit.CodeText()
		sum := sha256.Sum256([]byte(code))
		slots[i] = findings.FileReport{
			File:     UnitPath(&unit),
			Sha256:   hex.EncodeToString(sum[:]),
			Findings: a.scanner.Scan(code),
		}
	})

	report.Files = slots
	report.Finalize(time.Now().UTC())

	a.logger.Info("unit analysis finished", "units", report.FilesScanned, "findings", report.TotalFindings)
	return report
}

// UnitPath returns the pseudo path identifying a unit in reports.
func UnitPath(unit *remediate.Unit) string {
	return fmt.Sprintf("%s/%s", unit.PgmName, unit.IncName)
}

func (a *Analyser) scanFile(target Target) (*findings.FileReport, error) {
	content, err := os.ReadFile(target.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", target.Path, err)
	}

	sum := sha256.Sum256(content)
	return &findings.FileReport{
		File:     target.Rel,
		Sha256:   hex.EncodeToString(sum[:]),
		Findings: a.scanner.Scan(string(content)),
	}, nil
}
