package findings

import "testing"

func TestLineIndexPosition(t *testing.T) {
	index := NewLineIndex("abc\ndef\n\nxyz")

	tests := []struct {
		name   string
		offset int
		line   int
		column int
	}{
		{"start", 0, 1, 1},
		{"mid first line", 2, 1, 3},
		{"first of second line", 4, 2, 1},
		{"newline position", 3, 1, 4},
		{"empty line", 8, 3, 1},
		{"past end", 12, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column := index.Position(tt.offset)
			if line != tt.line || column != tt.column {
				t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, line, column, tt.line, tt.column)
			}
		})
	}
}

func TestLineIndexMultibyte(t *testing.T) {
	// Offsets count runes, not bytes. The umlaut occupies two bytes but a
	// single rune position.
	index := NewLineIndex("grün\nMKPF")

	line, column := index.Position(5)
	if line != 2 || column != 1 {
		t.Errorf("Position(5) = %d:%d, want 2:1", line, column)
	}
}
