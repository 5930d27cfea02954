package diagnostic

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/openllb/hclgo/ast"
)

// Pretty renders a single-span error report against input: the filename,
// line/column header, the offending source line, and a caret underline
// beneath the span, colorized when color is true. It is the sole
// rendering surface most callers need; multi-span reports can call
// Pretty once per span and join the results.
func Pretty(filename string, input []byte, sp ast.Span, message string, color bool) string {
	au := aurora.NewAurora(color)
	li := NewLineIndex(input)

	if !sp.Valid() {
		return fmt.Sprintf("%s: %s", au.Bold(au.Red("error")), message)
	}

	start := li.Resolve(sp.Start)
	end := li.Resolve(sp.End)

	lineStart := sp.Start - (start.Column - 1)
	lineEnd := lineStart
	for lineEnd < len(input) && input[lineEnd] != '\n' {
		lineEnd++
	}
	line := string(input[lineStart:lineEnd])

	underlineLen := end.Column - start.Column
	if end.Line != start.Line || underlineLen <= 0 {
		underlineLen = 1
	}
	padding := strings.Repeat(" ", start.Column-1)
	underline := strings.Repeat("^", underlineLen)

	header := fmt.Sprintf("%s:%d:%d:", filename, start.Line, start.Column)
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", au.Bold(au.Red("error")), message)
	fmt.Fprintf(&b, "  %s\n", au.Blue(header))
	fmt.Fprintf(&b, "  %s\n", line)
	fmt.Fprintf(&b, "  %s%s\n", padding, au.Red(underline))
	return b.String()
}
