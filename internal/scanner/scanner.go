// Package scanner detects references to deprecated MM-IM tables in ABAP
// source text.
package scanner

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/abapscan/abapscan/internal/catalog"
	"github.com/abapscan/abapscan/internal/findings"
)

// Scanner matches deprecated table names against source text. It is
// stateless after construction and safe for concurrent use.
type Scanner struct {
	catalog *catalog.Catalog
	re      *regexp.Regexp
}

// New compiles the detection pattern for all catalog entries. Names are
// matched case-insensitively as whole words, meaning not flanked by ASCII
// letters, digits, or underscores. Longer names come first in the
// alternation so that MARCH is never reported as MARC.
func New(c *catalog.Catalog) (*Scanner, error) {
	keys := c.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("catalog has no entries")
	}

	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = regexp.QuoteMeta(key)
	}

	pattern := fmt.Sprintf(`(?i)\b(%s)\b`, strings.Join(quoted, "|"))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile detection pattern: %w", err)
	}

	return &Scanner{catalog: c, re: re}, nil
}

// Scan reports every deprecated table reference in text, in order of
// occurrence. Matches never overlap. Offsets in the returned findings are
// rune positions, not byte positions, so they stay meaningful for sources
// containing non-ASCII characters. The result is never nil.
func (s *Scanner) Scan(text string) []findings.Finding {
	results := []findings.Finding{}
	if text == "" {
		return results
	}

	matches := s.re.FindAllStringIndex(text, -1)
	if matches == nil {
		return results
	}

	// Byte offsets from the regexp engine are converted to rune offsets
	// incrementally, matches arrive in ascending order.
	lastByte, lastRune := 0, 0
	for _, m := range matches {
		start := lastRune + utf8.RuneCountInString(text[lastByte:m[0]])
		end := start + utf8.RuneCountInString(text[m[0]:m[1]])
		lastByte, lastRune = m[1], end

		name := strings.ToUpper(text[m[0]:m[1]])
		entry, ok := s.catalog.Lookup(name)
		if !ok {
			// The alternation is built from the catalog, so every match
			// must resolve.
			continue
		}

		results = append(results, findings.NewTableFinding(name, start, end, entry.SuggestedStatement(), entry.Note))
	}

	return results
}

// Pattern returns the compiled detection pattern, useful for diagnostics.
func (s *Scanner) Pattern() string {
	return s.re.String()
}
