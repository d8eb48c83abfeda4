// Package findingmatch correlates table findings between two scan reports,
// so unchanged findings can be separated from new and resolved ones even
// when files were edited between the runs.
package findingmatch

// FindingMetadata describes the minimal metadata required to correlate
// findings.
// Fields:
//   - FindingID: optional external identifier, not used by correlation logic.
//   - Table: the deprecated table name the finding reports.
//   - File: location of the finding, relative to the scan root.
//   - StartChar, EndChar: rune offsets inside the scanned unit.
//   - FileHash: content fingerprint of the file at scan time, used for
//     stronger matching.
type FindingMetadata struct {
	FindingID string `json:"finding_id,omitempty"`
	Table     string `json:"table"`
	File      string `json:"file"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	FileHash  string `json:"file_hash,omitempty"`
}

// Match groups a single known finding with the list of new findings that
// were correlated to it. A new finding may appear in multiple Match.New
// slices if it correlates to multiple known findings.
type Match struct {
	Known FindingMetadata   `json:"known"`
	New   []FindingMetadata `json:"new"`
}

// Correlator accepts slices of new and known findings and computes
// correlations between them. Use NewCorrelator to create an instance and
// call Process() to compute matches. After processing, use Matches(),
// UnmatchedNew() and UnmatchedKnown() to inspect results. The correlator
// preserves many-to-many relationships: a known finding may match multiple
// new findings and vice versa.
type Correlator struct {
	NewFindings   []FindingMetadata
	KnownFindings []FindingMetadata

	// internal indexes populated by Process()
	knownToNew map[int][]int // known index -> list of new indices
	newToKnown map[int][]int // new index -> list of known indices

	processed bool
}

// NewCorrelator constructs a Correlator with the provided slices of new and
// known findings. The correlator is inert until Process() is called.
func NewCorrelator(newFindings, knownFindings []FindingMetadata) *Correlator {
	return &Correlator{
		NewFindings:   newFindings,
		KnownFindings: knownFindings,
	}
}

// Process computes correlations between every known and every new finding
// using four ordered stages. Once a known or new finding has been matched in
// an earlier stage it is excluded from later stages. The stages are:
// 1) table+file+startchar+endchar+filehash
// 2) table+file+filehash
// 3) table+file+startchar+endchar
// 4) table+file
// The results are stored internally and can be retrieved via Matches(),
// UnmatchedNew() and UnmatchedKnown(). Process is idempotent.
func (c *Correlator) Process() {
	if c.processed {
		return
	}
	c.knownToNew = make(map[int][]int)
	c.newToKnown = make(map[int][]int)

	// matchedKnown/matchedNew track indices already matched in earlier
	// stages and therefore excluded from later stages. The *This maps
	// collect items matched during the current stage so that multiple
	// matches within the same stage are allowed.
	matchedKnown := make(map[int]bool)
	matchedNew := make(map[int]bool)

	stages := []int{1, 2, 3, 4}
	for _, stage := range stages {
		matchedKnownThis := make(map[int]bool)
		matchedNewThis := make(map[int]bool)

		for ki, k := range c.KnownFindings {
			if matchedKnown[ki] {
				continue
			}
			for ni, n := range c.NewFindings {
				if matchedNew[ni] {
					continue
				}

				if matchStage(k, n, stage) {
					c.knownToNew[ki] = append(c.knownToNew[ki], ni)
					c.newToKnown[ni] = append(c.newToKnown[ni], ki)
					matchedKnownThis[ki] = true
					matchedNewThis[ni] = true
				}
			}
		}

		for ki := range matchedKnownThis {
			matchedKnown[ki] = true
		}
		for ni := range matchedNewThis {
			matchedNew[ni] = true
		}
	}

	c.processed = true
}

// matchStage applies the specified stage matching rules. It returns true
// when the two FindingMetadata values should be considered a match for the
// given stage. The function enforces that Table is present for all stages.
//
// Stage details:
// 1: table + file + startchar + endchar + filehash
// 2: table + file + filehash
// 3: table + file + startchar + endchar
// 4: table + file
func matchStage(a, b FindingMetadata, stage int) bool {
	// require the table name for all stages
	if a.Table == "" || b.Table == "" {
		return false
	}

	if a.Table != b.Table {
		return false
	}

	if a.File != b.File {
		return false
	}

	switch stage {
	case 1:
		return a.StartChar == b.StartChar && a.EndChar == b.EndChar && a.FileHash == b.FileHash
	case 2:
		return a.FileHash == b.FileHash
	case 3:
		return a.StartChar == b.StartChar && a.EndChar == b.EndChar
	case 4:
		return true
	default:
		return false
	}
}

// UnmatchedNew returns the subset of new findings that were not correlated
// to any known finding after Process() has been executed. If Process() has
// not yet been run it will be invoked.
func (c *Correlator) UnmatchedNew() []FindingMetadata {
	if !c.processed {
		c.Process()
	}

	var out []FindingMetadata
	for ni, n := range c.NewFindings {
		if len(c.newToKnown[ni]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// UnmatchedKnown returns the subset of known findings that were not
// correlated to any new finding after Process() has been executed. If
// Process() has not yet been run it will be invoked.
func (c *Correlator) UnmatchedKnown() []FindingMetadata {
	if !c.processed {
		c.Process()
	}

	var out []FindingMetadata
	for ki, k := range c.KnownFindings {
		if len(c.knownToNew[ki]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// Matches returns a slice of Match entries. Each Match contains one known
// finding and the list of new findings that were correlated to it. Known
// findings without any correlation are omitted.
func (c *Correlator) Matches() []Match {
	if !c.processed {
		c.Process()
	}

	var out []Match
	for ki, k := range c.KnownFindings {
		newIndices := c.knownToNew[ki]
		if len(newIndices) == 0 {
			continue
		}
		match := Match{Known: k}
		for _, ni := range newIndices {
			match.New = append(match.New, c.NewFindings[ni])
		}
		out = append(out, match)
	}
	return out
}
