package source

import (
	"fmt"
	"sort"
)

// Position is a human-readable position in a source text.
type Position struct {
	Line int // 1-based
	Col  int // 1-based, in bytes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// LineIndex maps byte offsets to line/column positions.
type LineIndex struct {
	starts []int // Offset of the first byte of each line.
	size   int
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(text)}
}

// Position converts offset into a line/column pair. Offsets past the end of
// the text are clamped to the end.
func (x *LineIndex) Position(offset int) Position {
	offset = max(min(offset, x.size), 0)
	line := sort.Search(len(x.starts), func(i int) bool {
		return x.starts[i] > offset
	}) - 1
	return Position{Line: line + 1, Col: offset - x.starts[line] + 1}
}

// Lines returns the number of lines in the text.
func (x *LineIndex) Lines() int {
	return len(x.starts)
}
