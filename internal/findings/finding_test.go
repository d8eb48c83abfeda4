package findings

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewTableFindingWireShape(t *testing.T) {
	f := NewTableFinding("MSEG", 14, 18, "Use MATDOC instead of MSEG.", "Item + header + attributes merged. Proxy CDS: NSDM_DDL_MSEG.")

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	got := string(data)

	// Consumers rely on used_fields always being a list and suggested_fields
	// always being null.
	if !strings.Contains(got, `"used_fields":[]`) {
		t.Errorf("used_fields must serialize as an empty list: %s", got)
	}
	if !strings.Contains(got, `"suggested_fields":null`) {
		t.Errorf("suggested_fields must serialize as null: %s", got)
	}
	if !strings.Contains(got, `"table":"MSEG"`) || !strings.Contains(got, `"target_name":"MSEG"`) {
		t.Errorf("table and target_name must both carry the matched name: %s", got)
	}
	if !strings.Contains(got, `"start_char_in_unit":14`) || !strings.Contains(got, `"end_char_in_unit":18`) {
		t.Errorf("offsets missing: %s", got)
	}
}

func TestNoteOmittedWhenEmpty(t *testing.T) {
	f := NewTableFinding("MSSA", 0, 4, "Use NSDM_DDL_MSSA instead of MSSA.", "")

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if strings.Contains(string(data), `"note"`) {
		t.Fatalf("note must be omitted when empty: %s", data)
	}
}

func TestScanReportFinalize(t *testing.T) {
	report := ScanReport{
		Files: []FileReport{
			{File: "a.abap", Findings: []Finding{NewTableFinding("MSEG", 0, 4, "s", "")}},
			{File: "b.abap", Findings: []Finding{}},
			{File: "c.abap", Findings: []Finding{
				NewTableFinding("MKPF", 0, 4, "s", ""),
				NewTableFinding("MARD", 10, 14, "s", ""),
			}},
		},
	}
	report.Finalize(report.StartedAt)

	if report.FilesScanned != 3 {
		t.Errorf("FilesScanned = %d, want 3", report.FilesScanned)
	}
	if report.TotalFindings != 3 {
		t.Errorf("TotalFindings = %d, want 3", report.TotalFindings)
	}
}
