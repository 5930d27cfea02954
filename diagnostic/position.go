// Package diagnostic turns a parsed tree's byte spans into human-facing
// source positions and rendered error reports: line/column resolution,
// colorized span underlining, and Levenshtein-based "did you mean"
// suggestions for undefined names.
package diagnostic

import "sort"

// Position is a 1-indexed line/column pair.
type Position struct {
	Line   int
	Column int
}

// LineIndex resolves byte offsets into an input buffer to line/column
// positions in O(log n) per lookup, after one O(n) scan of the buffer.
type LineIndex struct {
	lineStarts []int
}

// NewLineIndex scans input once, recording the byte offset of every line's
// first character.
func NewLineIndex(input []byte) *LineIndex {
	li := &LineIndex{lineStarts: []int{0}}
	for i, b := range input {
		if b == '\n' {
			li.lineStarts = append(li.lineStarts, i+1)
		}
	}
	return li
}

// Resolve returns the 1-indexed line/column of byte offset.
func (li *LineIndex) Resolve(offset int) Position {
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	col := offset - li.lineStarts[line] + 1
	return Position{Line: line + 1, Column: col}
}
