package template

import (
	"sort"
	"time"

	"github.com/abapscan/abapscan/internal/findings"
	"github.com/abapscan/abapscan/pkg/shared/vcsurl"
)

// ReportView is the data handed to the HTML report template.
type ReportView struct {
	Title             string
	GeneratedAt       time.Time
	ToolVersion       string
	Report            *findings.ScanReport
	FilesWithFindings int
	TableTotals       []TableCount
	Files             []FileView
}

// FileView decorates a scanned file with resolved finding positions.
type FileView struct {
	File     string
	Sha256   string
	Findings []FindingView
}

// FindingView extends a finding with its source position and a permalink
// into the repository when provenance is known. Lines are zero when the
// source file was not available at render time.
type FindingView struct {
	findings.Finding
	StartLine int
	EndLine   int
	Permalink string
}

// TableCount pairs a deprecated table with its reference count.
type TableCount struct {
	Table string
	Count int
}

// BuildReportView prepares the template data for a findings report. When
// sourceFolder points at the scanned sources, finding offsets are resolved
// to line positions and provenance permalinks carry line anchors.
func BuildReportView(report *findings.ScanReport, sourceFolder, title, toolVersion string, generatedAt time.Time) *ReportView {
	view := &ReportView{
		Title:       title,
		GeneratedAt: generatedAt,
		ToolVersion: toolVersion,
		Report:      report,
		Files:       make([]FileView, 0, len(report.Files)),
	}

	totals := map[string]int{}
	for _, file := range report.Files {
		if len(file.Findings) > 0 {
			view.FilesWithFindings++
		}

		fileView := FileView{
			File:     file.File,
			Sha256:   file.Sha256,
			Findings: make([]FindingView, 0, len(file.Findings)),
		}

		index := findings.IndexSourceFile(sourceFolder, file.File)
		for _, finding := range file.Findings {
			totals[finding.Table]++

			fv := FindingView{Finding: finding}
			if index != nil {
				fv.StartLine, _ = index.Position(finding.StartCharInUnit)
				fv.EndLine, _ = index.Position(finding.EndCharInUnit)
			}
			fv.Permalink = findingPermalink(report.Provenance, file.File, fv.StartLine, fv.EndLine)
			fileView.Findings = append(fileView.Findings, fv)
		}
		view.Files = append(view.Files, fileView)
	}

	view.TableTotals = sortedTotals(totals)
	return view
}

// sortedTotals orders table counts by frequency, then name.
func sortedTotals(totals map[string]int) []TableCount {
	counts := make([]TableCount, 0, len(totals))
	for table, count := range totals {
		counts = append(counts, TableCount{Table: table, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Table < counts[j].Table
	})
	return counts
}

// findingPermalink builds a repository link for a finding. It returns an
// empty string when provenance is missing or the repository URL cannot be
// parsed into a link.
func findingPermalink(prov *findings.Provenance, file string, startLine, endLine int) string {
	if prov == nil || prov.RepositoryURL == "" {
		return ""
	}

	info, err := vcsurl.Parse(prov.RepositoryURL)
	if err != nil || info.Repository == "" {
		return ""
	}

	ref := prov.Revision
	if ref == "" {
		ref = prov.Branch
	}
	if ref == "" {
		return ""
	}

	link, err := vcsurl.BuildPermalink(vcsurl.PermalinkParams{
		VCSType:   info.VCSType,
		Host:      info.ParsedURL.Hostname(),
		Namespace: info.Namespace,
		Project:   info.Repository,
		Ref:       ref,
		File:      file,
		StartLine: startLine,
		EndLine:   endLine,
	})
	if err != nil {
		return ""
	}
	return link
}
