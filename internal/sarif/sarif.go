// Package sarif renders findings reports as SARIF 2.1.0 documents.
package sarif

import (
	"fmt"
	"sort"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/abapscan/abapscan/internal/catalog"
	"github.com/abapscan/abapscan/internal/findings"
)

const (
	toolName       = "abapscan"
	informationURI = "https://github.com/abapscan/abapscan"
	// resultLevel is fixed: table detection is purely lexical, so every
	// reference is reported at the same severity.
	resultLevel = "warning"
)

// RuleID returns the SARIF rule identifier for a deprecated table.
func RuleID(table string) string {
	return "ABAPSCAN-MM-IM-" + table
}

// ConvertReport renders a findings report as a SARIF document with one rule
// per catalog entry. When sourceFolder is set, result regions are computed
// from the source files; findings in files that cannot be read keep their
// artifact location without a region.
func ConvertReport(report *findings.ScanReport, sourceFolder, toolVersion string) (*sarif.Report, error) {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, informationURI)
	if toolVersion != "" {
		run.Tool.Driver.Version = &toolVersion
	}

	cat := catalog.MustBuild()
	addRules(run, cat)

	for _, file := range report.Files {
		index := findings.IndexSourceFile(sourceFolder, file.File)
		for _, finding := range file.Findings {
			addResult(run, file.File, finding, index)
		}
	}

	if prov := report.Provenance; prov != nil {
		details := &sarif.VersionControlDetails{}
		if prov.RepositoryURL != "" {
			url := prov.RepositoryURL
			details.RepositoryURI = &url
		}
		if prov.Revision != "" {
			revision := prov.Revision
			details.RevisionID = &revision
		}
		if prov.Branch != "" {
			branch := prov.Branch
			details.Branch = &branch
		}
		run.VersionControlProvenance = []*sarif.VersionControlDetails{details}
	}

	doc.AddRun(run)
	return doc, nil
}

// addRules registers one rule per catalog entry, in alphabetical order.
func addRules(run *sarif.Run, cat *catalog.Catalog) {
	keys := append([]string(nil), cat.Keys()...)
	sort.Strings(keys)

	for _, key := range keys {
		entry, ok := cat.Lookup(key)
		if !ok {
			continue
		}

		properties := sarif.Properties{"table": entry.Name}
		if entry.Note != "" {
			properties["note"] = entry.Note
		}

		run.AddRule(RuleID(entry.Name)).
			WithDescription(entry.SuggestedStatement()).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: resultLevel}).
			WithProperties(properties)
	}
}

func addResult(run *sarif.Run, file string, finding findings.Finding, index *findings.LineIndex) {
	physical := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file))

	if index != nil {
		startLine, startCol := index.Position(finding.StartCharInUnit)
		endLine, endCol := index.Position(finding.EndCharInUnit)
		physical = physical.WithRegion(sarif.NewRegion().
			WithStartLine(startLine).
			WithStartColumn(startCol).
			WithEndLine(endLine).
			WithEndColumn(endCol))
	}

	message := fmt.Sprintf("Deprecated MM-IM table %s referenced. %s", finding.Table, finding.SuggestedStatement)
	result := sarif.NewRuleResult(RuleID(finding.Table)).
		WithMessage(sarif.NewTextMessage(message)).
		WithLevel(resultLevel).
		WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(physical)})
	run.AddResult(result)
}
