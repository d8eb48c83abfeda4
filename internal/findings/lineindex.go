package findings

import (
	"os"
	"path/filepath"
	"sort"
)

// LineIndex maps rune offsets within a scanned unit to 1-based line and
// column positions. Finding offsets count runes, so the index is built the
// same way.
type LineIndex struct {
	lineStarts []int // rune offset of each line start
}

// NewLineIndex builds a line index over the given text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	pos := 0
	for _, r := range text {
		pos++
		if r == '\n' {
			starts = append(starts, pos)
		}
	}
	return &LineIndex{lineStarts: starts}
}

// Position returns the 1-based line and column of a rune offset. Offsets past
// the end of the text land on the last line.
func (ix *LineIndex) Position(offset int) (line, column int) {
	i := sort.Search(len(ix.lineStarts), func(i int) bool { return ix.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - ix.lineStarts[i] + 1
}

// IndexSourceFile builds the line index of a scanned file below sourceFolder.
// It returns nil when the file cannot be resolved or read, e.g. for the
// pseudo paths of development object units.
func IndexSourceFile(sourceFolder, file string) *LineIndex {
	if sourceFolder == "" {
		return nil
	}

	content, err := os.ReadFile(filepath.Join(sourceFolder, filepath.FromSlash(file)))
	if err != nil {
		return nil
	}
	return NewLineIndex(string(content))
}
