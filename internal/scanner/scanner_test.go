package scanner

import (
	"reflect"
	"testing"

	"github.com/abapscan/abapscan/internal/catalog"
	"github.com/abapscan/abapscan/internal/findings"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := New(catalog.MustBuild())
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return s
}

func TestScanFindsTables(t *testing.T) {
	s := newTestScanner(t)

	testCases := []struct {
		name      string
		input     string
		wantCount int
		wantTable string
	}{
		{name: "Uppercase", input: "SELECT * FROM MSEG.", wantCount: 1, wantTable: "MSEG"},
		{name: "Lowercase", input: "select * from mseg.", wantCount: 1, wantTable: "MSEG"},
		{name: "MixedCase", input: "select * from MsEg.", wantCount: 1, wantTable: "MSEG"},
		{name: "HistoryTable", input: "SELECT * FROM MARDH.", wantCount: 1, wantTable: "MARDH"},
		{name: "NoMatch", input: "DATA: lv_foo TYPE string.", wantCount: 0},
		{name: "SuffixedWord", input: "SELECT * FROM MSEGX.", wantCount: 0},
		{name: "PrefixedWord", input: "SELECT * FROM XMSEG.", wantCount: 0},
		{name: "UnderscoreSuffix", input: "DATA ls_row TYPE MSEG_KEY.", wantCount: 0},
		{name: "Empty", input: "", wantCount: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Scan(tc.input)
			if got == nil {
				t.Fatalf("Scan() returned nil, want empty slice")
			}
			if len(got) != tc.wantCount {
				t.Fatalf("Scan(%q) returned %d findings, want %d", tc.input, len(got), tc.wantCount)
			}
			if tc.wantCount > 0 && got[0].Table != tc.wantTable {
				t.Fatalf("Scan(%q) table = %q, want %q", tc.input, got[0].Table, tc.wantTable)
			}
		})
	}
}

func TestScanPrefersLongestName(t *testing.T) {
	s := newTestScanner(t)

	got := s.Scan("SELECT * FROM MARCH WHERE matnr = 'X'.")
	if len(got) != 1 {
		t.Fatalf("Scan() returned %d findings, want 1", len(got))
	}
	if got[0].Table != "MARCH" {
		t.Fatalf("table = %q, want MARCH", got[0].Table)
	}
}

func TestScanReportsMatchesInOrder(t *testing.T) {
	s := newTestScanner(t)

	got := s.Scan("MKPF and MSEG and MKPF")
	if len(got) != 3 {
		t.Fatalf("Scan() returned %d findings, want 3", len(got))
	}
	wantTables := []string{"MKPF", "MSEG", "MKPF"}
	wantStarts := []int{0, 9, 18}
	for i := range wantTables {
		if got[i].Table != wantTables[i] {
			t.Errorf("finding[%d].Table = %q, want %q", i, got[i].Table, wantTables[i])
		}
		if got[i].StartCharInUnit != wantStarts[i] {
			t.Errorf("finding[%d].StartCharInUnit = %d, want %d", i, got[i].StartCharInUnit, wantStarts[i])
		}
		if got[i].EndCharInUnit != wantStarts[i]+4 {
			t.Errorf("finding[%d].EndCharInUnit = %d, want %d", i, got[i].EndCharInUnit, wantStarts[i]+4)
		}
	}
}

func TestScanOffsets(t *testing.T) {
	s := newTestScanner(t)

	got := s.Scan("SELECT * FROM MSEG WHERE werks = '1000'.")
	if len(got) != 1 {
		t.Fatalf("Scan() returned %d findings, want 1", len(got))
	}
	f := got[0]
	if f.StartCharInUnit != 14 || f.EndCharInUnit != 18 {
		t.Fatalf("offsets = [%d, %d), want [14, 18)", f.StartCharInUnit, f.EndCharInUnit)
	}
}

func TestScanRuneOffsets(t *testing.T) {
	s := newTestScanner(t)

	// The comment line contains a two-byte rune, offsets must still count
	// characters, not bytes.
	got := s.Scan("* Prüfung\nSELECT * FROM mseg.")
	if len(got) != 1 {
		t.Fatalf("Scan() returned %d findings, want 1", len(got))
	}
	f := got[0]
	if f.StartCharInUnit != 24 || f.EndCharInUnit != 28 {
		t.Fatalf("offsets = [%d, %d), want [24, 28)", f.StartCharInUnit, f.EndCharInUnit)
	}
}

func TestScanFindingContract(t *testing.T) {
	s := newTestScanner(t)

	got := s.Scan("UPDATE mseg SET menge = 0.")
	if len(got) != 1 {
		t.Fatalf("Scan() returned %d findings, want 1", len(got))
	}

	f := got[0]
	if f.Table != "MSEG" || f.TargetName != "MSEG" {
		t.Errorf("table/target = %q/%q, want MSEG/MSEG", f.Table, f.TargetName)
	}
	if f.TargetType != "Table" {
		t.Errorf("TargetType = %q, want Table", f.TargetType)
	}
	if f.Ambiguous {
		t.Errorf("Ambiguous = true, want false")
	}
	if f.UsedFields == nil || len(f.UsedFields) != 0 {
		t.Errorf("UsedFields = %#v, want empty non-nil slice", f.UsedFields)
	}
	if f.SuggestedFields != nil {
		t.Errorf("SuggestedFields = %#v, want nil", f.SuggestedFields)
	}
	if f.SuggestedStatement != "Use MATDOC instead of MSEG." {
		t.Errorf("SuggestedStatement = %q", f.SuggestedStatement)
	}
	if f.Note != "Item + header + attributes merged. Proxy CDS: NSDM_DDL_MSEG." {
		t.Errorf("Note = %q", f.Note)
	}
}

func TestScanDeterministic(t *testing.T) {
	s := newTestScanner(t)

	input := "SELECT * FROM mkpf INNER JOIN mseg ON mkpf~mblnr = mseg~mblnr WHERE mseg~werks = '1000'."
	first := s.Scan(input)
	second := s.Scan(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Scan() is not deterministic:\nfirst:  %#v\nsecond: %#v", first, second)
	}
	if len(first) != 5 {
		t.Fatalf("Scan() returned %d findings, want 5", len(first))
	}
}

func TestScanTildeOperandMatches(t *testing.T) {
	s := newTestScanner(t)

	// Field references like mseg~mblnr still report the table, the tilde is
	// not a word character.
	got := s.Scan("WHERE mseg~mblnr = '1'")
	if len(got) != 1 || got[0].Table != "MSEG" {
		t.Fatalf("Scan() = %#v, want single MSEG finding", findingTables(got))
	}
}

func findingTables(list []findings.Finding) []string {
	tables := make([]string, len(list))
	for i, f := range list {
		tables[i] = f.Table
	}
	return tables
}
