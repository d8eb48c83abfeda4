// Package catalog holds the reference mapping of deprecated S/4HANA MM-IM
// tables to their replacement objects.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog provides case-insensitive lookup of deprecated table names.
type Catalog struct {
	entries map[string]Entry
	keys    []string
}

// Build merges all table groups into a single catalog. The groups must stay
// disjoint; a table name appearing in more than one group is a programming
// error and fails the build.
func Build() (*Catalog, error) {
	return build(Groups())
}

func build(groups []Group) (*Catalog, error) {
	entries := make(map[string]Entry)
	owner := make(map[string]string)

	for _, group := range groups {
		for _, entry := range group.Entries {
			name := strings.ToUpper(entry.Name)
			if name != entry.Name {
				return nil, fmt.Errorf("catalog entry %q in group %q is not uppercase", entry.Name, group.Name)
			}
			if previous, exists := owner[name]; exists {
				return nil, fmt.Errorf("catalog entry %q defined in both %q and %q groups", name, previous, group.Name)
			}
			entries[name] = entry
			owner[name] = group.Name
		}
	}

	keys := make([]string, 0, len(entries))
	for name := range entries {
		keys = append(keys, name)
	}
	// Longest names first so the scanner alternation prefers the longest match.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &Catalog{entries: entries, keys: keys}, nil
}

// MustBuild is like Build but panics on error. Intended for command wiring
// where a broken reference table must stop the program.
func MustBuild() *Catalog {
	c, err := Build()
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the entry for the given table name, matching case-insensitively.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	entry, ok := c.entries[strings.ToUpper(name)]
	return entry, ok
}

// Keys returns all deprecated table names ordered by descending length and
// then lexicographically. The returned slice is a copy.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// SuggestedStatement renders the remediation advice for the entry.
func (e Entry) SuggestedStatement() string {
	return fmt.Sprintf("Use %s instead of %s.", e.Replacement, e.Name)
}
