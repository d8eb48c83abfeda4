package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abapscan/abapscan/internal/findings"
)

func testReport(files ...findings.FileReport) *findings.ScanReport {
	report := &findings.ScanReport{Target: "/src", Files: files}
	report.FilesScanned = len(files)
	report.TotalFindings = report.TotalCount()
	return report
}

func TestSummarize(t *testing.T) {
	baseline := testReport(
		findings.FileReport{
			File:   "zread.abap",
			Sha256: "aaa",
			Findings: []findings.Finding{
				findings.NewTableFinding("MKPF", 28, 32, "Use MATDOC instead of MKPF.", ""),
			},
		},
		findings.FileReport{
			File:   "zold.abap",
			Sha256: "bbb",
			Findings: []findings.Finding{
				findings.NewTableFinding("MSEG", 10, 14, "Use MATDOC instead of MSEG.", ""),
			},
		},
	)

	// zread.abap was edited, the MKPF reference moved. zold.abap was cleaned
	// up and znew.abap introduces a fresh MARD reference.
	current := testReport(
		findings.FileReport{
			File:   "zread.abap",
			Sha256: "ccc",
			Findings: []findings.Finding{
				findings.NewTableFinding("MKPF", 40, 44, "Use MATDOC instead of MKPF.", ""),
			},
		},
		findings.FileReport{
			File:   "znew.abap",
			Sha256: "ddd",
			Findings: []findings.Finding{
				findings.NewTableFinding("MARD", 5, 9, "Use NSDM_V_MARD instead of MARD.", ""),
			},
		},
	)

	summary := summarize(baseline, current)

	assert.Equal(t, SummaryTotals{
		Baseline:   2,
		Current:    2,
		New:        1,
		Resolved:   1,
		Persisting: 1,
	}, summary.Totals)

	if assert.Len(t, summary.New, 1) {
		assert.Equal(t, "MARD", summary.New[0].Table)
		assert.Equal(t, "znew.abap", summary.New[0].File)
	}
	if assert.Len(t, summary.Resolved, 1) {
		assert.Equal(t, "MSEG", summary.Resolved[0].Table)
		assert.Equal(t, "zold.abap", summary.Resolved[0].File)
	}
	if assert.Len(t, summary.Persisting, 1) {
		assert.Equal(t, "MKPF", summary.Persisting[0].Known.Table)
		if assert.Len(t, summary.Persisting[0].New, 1) {
			assert.Equal(t, 40, summary.Persisting[0].New[0].StartChar)
		}
	}
}

func TestSummarizeIdenticalReports(t *testing.T) {
	report := testReport(
		findings.FileReport{
			File:   "zread.abap",
			Sha256: "aaa",
			Findings: []findings.Finding{
				findings.NewTableFinding("MKPF", 28, 32, "Use MATDOC instead of MKPF.", ""),
			},
		},
	)

	summary := summarize(report, report)

	assert.Empty(t, summary.New)
	assert.Empty(t, summary.Resolved)
	assert.Len(t, summary.Persisting, 1)
}

func TestCollectMetadata(t *testing.T) {
	report := testReport(
		findings.FileReport{
			File:   "zread.abap",
			Sha256: "aaa",
			Findings: []findings.Finding{
				findings.NewTableFinding("MKPF", 28, 32, "Use MATDOC instead of MKPF.", ""),
				findings.NewTableFinding("MSEG", 50, 54, "Use MATDOC instead of MSEG.", ""),
			},
		},
	)

	metadata := collectMetadata(report)

	assert.Len(t, metadata, 2)
	assert.Equal(t, "MKPF", metadata[0].Table)
	assert.Equal(t, "zread.abap", metadata[0].File)
	assert.Equal(t, 28, metadata[0].StartChar)
	assert.Equal(t, 32, metadata[0].EndChar)
	assert.Equal(t, "aaa", metadata[0].FileHash)
}
