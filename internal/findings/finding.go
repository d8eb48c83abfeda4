// Package findings defines the remediation finding model shared by the
// scanner, the HTTP API, and the reporting commands.
package findings

// Finding describes a single usage of a deprecated table inside a unit of code.
// The field set and JSON names form the wire contract of the remediation API,
// so changes here are breaking changes for API consumers.
type Finding struct {
	Table              string   `json:"table"`
	TargetType         string   `json:"target_type"`
	TargetName         string   `json:"target_name"`
	StartCharInUnit    int      `json:"start_char_in_unit"`
	EndCharInUnit      int      `json:"end_char_in_unit"`
	UsedFields         []string `json:"used_fields"`
	Ambiguous          bool     `json:"ambiguous"`
	SuggestedStatement string   `json:"suggested_statement"`
	SuggestedFields    []string `json:"suggested_fields"`
	Note               string   `json:"note,omitempty"`
}

// NewTableFinding builds a finding for a deprecated table reference.
// Offsets are rune positions within the scanned unit, the end offset is
// exclusive. Field-level analysis is not part of table detection, so
// UsedFields is always an empty list and SuggestedFields stays null.
func NewTableFinding(table string, start, end int, suggestedStatement, note string) Finding {
	return Finding{
		Table:              table,
		TargetType:         "Table",
		TargetName:         table,
		StartCharInUnit:    start,
		EndCharInUnit:      end,
		UsedFields:         []string{},
		Ambiguous:          false,
		SuggestedStatement: suggestedStatement,
		Note:               note,
	}
}
