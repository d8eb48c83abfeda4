package findingmatch

import "testing"

func TestCorrelator_ExactMatch(t *testing.T) {
	known := []FindingMetadata{{Table: "MSEG", File: "src/zmm_report.abap", StartChar: 14, EndChar: 18, FileHash: "h1"}}
	new := []FindingMetadata{{Table: "MSEG", File: "src/zmm_report.abap", StartChar: 14, EndChar: 18, FileHash: "h1"}}

	c := NewCorrelator(new, known)
	c.Process()

	matches := c.Matches()
	if len(matches) != 1 {
		t.Fatalf("expected 1 match got %d", len(matches))
	}
	if len(matches[0].New) != 1 {
		t.Fatalf("expected 1 new in match got %d", len(matches[0].New))
	}

	if got := len(c.UnmatchedNew()); got != 0 {
		t.Fatalf("expected 0 unmatched new, got %d", got)
	}
	if got := len(c.UnmatchedKnown()); got != 0 {
		t.Fatalf("expected 0 unmatched known, got %d", got)
	}
}

func TestCorrelator_OffsetMatchAfterEdit(t *testing.T) {
	// File content changed (hash differs) but the finding kept its offsets.
	known := []FindingMetadata{{Table: "MKPF", File: "f.abap", StartChar: 10, EndChar: 14, FileHash: "old"}}
	new := []FindingMetadata{{Table: "MKPF", File: "f.abap", StartChar: 10, EndChar: 14, FileHash: "new"}}

	c := NewCorrelator(new, known)
	c.Process()
	if len(c.Matches()) != 1 {
		t.Fatalf("expected match by offsets despite changed hash")
	}
}

func TestCorrelator_ShiftedOffsetsStillMatchByTable(t *testing.T) {
	// An edit above the finding shifted the offsets, table+file still match.
	known := []FindingMetadata{{Table: "MARD", File: "f.abap", StartChar: 100, EndChar: 104, FileHash: "old"}}
	new := []FindingMetadata{{Table: "MARD", File: "f.abap", StartChar: 130, EndChar: 134, FileHash: "new"}}

	c := NewCorrelator(new, known)
	c.Process()
	if len(c.Matches()) != 1 {
		t.Fatalf("expected fallback match by table and file")
	}
}

func TestCorrelator_Unmatched(t *testing.T) {
	known := []FindingMetadata{{Table: "MARC", File: "a.abap", StartChar: 1, EndChar: 5}}
	new := []FindingMetadata{{Table: "MCHB", File: "b.abap", StartChar: 1, EndChar: 5}}

	c := NewCorrelator(new, known)
	c.Process()

	if len(c.Matches()) != 0 {
		t.Fatalf("expected no matches")
	}
	if got := len(c.UnmatchedNew()); got != 1 {
		t.Fatalf("expected 1 unmatched new, got %d", got)
	}
	if got := len(c.UnmatchedKnown()); got != 1 {
		t.Fatalf("expected 1 unmatched known, got %d", got)
	}
}

func TestCorrelator_EarlierStageExcludesLater(t *testing.T) {
	// Two known findings on the same table and file. The first one matches
	// exactly; the second must not steal the same new finding in the
	// table+file fallback stage.
	known := []FindingMetadata{
		{FindingID: "exact", Table: "MSEG", File: "f.abap", StartChar: 14, EndChar: 18, FileHash: "h"},
		{FindingID: "gone", Table: "MSEG", File: "f.abap", StartChar: 50, EndChar: 54, FileHash: "h"},
	}
	new := []FindingMetadata{
		{Table: "MSEG", File: "f.abap", StartChar: 14, EndChar: 18, FileHash: "h"},
	}

	c := NewCorrelator(new, known)
	c.Process()

	matches := c.Matches()
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Known.FindingID != "exact" {
		t.Fatalf("matched known = %q, want exact", matches[0].Known.FindingID)
	}

	unmatched := c.UnmatchedKnown()
	if len(unmatched) != 1 || unmatched[0].FindingID != "gone" {
		t.Fatalf("unmatched known = %+v, want the resolved finding", unmatched)
	}
}

func TestCorrelator_RequiresTable(t *testing.T) {
	known := []FindingMetadata{{File: "f.abap", StartChar: 1, EndChar: 5}}
	new := []FindingMetadata{{File: "f.abap", StartChar: 1, EndChar: 5}}

	c := NewCorrelator(new, known)
	c.Process()
	if len(c.Matches()) != 0 {
		t.Fatalf("findings without a table must never match")
	}
}

func TestCorrelator_ManyToMany(t *testing.T) {
	known := []FindingMetadata{
		{FindingID: "k1", Table: "MSEG", File: "f.abap", StartChar: 10, EndChar: 14},
	}
	new := []FindingMetadata{
		{FindingID: "n1", Table: "MSEG", File: "f.abap", StartChar: 10, EndChar: 14},
		{FindingID: "n2", Table: "MSEG", File: "f.abap", StartChar: 10, EndChar: 14},
	}

	c := NewCorrelator(new, known)
	c.Process()

	matches := c.Matches()
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if len(matches[0].New) != 2 {
		t.Fatalf("expected both new findings correlated, got %d", len(matches[0].New))
	}
}
