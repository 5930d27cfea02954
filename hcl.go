// Package hcl is the library's front door: thin convenience wrappers over
// parser, printer, and eval so that a caller needing only the common path
// (parse a file, maybe edit it, encode it back out) doesn't need to import
// the subpackages directly.
package hcl

import (
	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/diagnostic"
	"github.com/openllb/hclgo/eval"
	"github.com/openllb/hclgo/hclerr"
	"github.com/openllb/hclgo/parser"
	"github.com/openllb/hclgo/printer"
)

// Parse parses input into the plain, decor-stripped AST.
func Parse(input []byte) (*ast.Body, error) {
	body, err := parser.ParseBody(input)
	if err != nil {
		return nil, err
	}
	return body.Plain(), nil
}

// ParseDecorated parses input into the lossless, span-and-decor-carrying
// AST. The returned tree's RawStrings reference input until Despan is
// called on it.
func ParseDecorated(input []byte) (*ast.DecoratedBody, error) {
	return parser.ParseDecorated(input)
}

// ParseTemplate parses a standalone bare template (e.g. to compile a
// user-provided format string once and evaluate it repeatedly).
func ParseTemplate(input []byte) (*ast.Template, error) {
	return parser.ParseTemplate(input)
}

// Encode renders body back to text per opts. When body carries spans into
// input (i.e. it came from ParseDecorated without a subsequent Despan),
// pass the same input so unedited regions round-trip byte-for-byte.
func Encode(body *ast.Body, input []byte, opts printer.Options) []byte {
	return printer.Encode(body, input, opts)
}

// EncodeDecorated renders a lossless parse result back to text, splicing
// unedited regions byte-for-byte from the buffer it was parsed from.
func EncodeDecorated(db *ast.DecoratedBody, opts printer.Options) []byte {
	return printer.Encode(db.Body, db.Input, opts)
}

// Context re-exports eval.Context so callers evaluating expressions don't
// need a second import for the common case.
type Context = eval.Context

// NewContext returns an empty root evaluation Context.
func NewContext() *Context { return eval.NewContext() }

// Evaluate reduces e to a Value under ctx.
func Evaluate(ctx *Context, e ast.Expression) (eval.Value, error) {
	return eval.Evaluate(ctx, e)
}

// EvaluateInPlace replaces every attribute value in body with its
// evaluated literal, collecting every error instead of stopping at the
// first.
func EvaluateInPlace(ctx *Context, body *ast.Body) error {
	return eval.EvaluateInPlace(ctx, body).Err()
}

// FormatError renders err for humans. When err carries a source span (any
// parse error or evaluator error kind does, once evaluation has enriched
// it), the report includes the line/column position, the offending source
// line, and a caret underline; otherwise just the message.
func FormatError(err error, filename string, input []byte, color bool) string {
	if err == nil {
		return ""
	}
	if errs, ok := err.(*hclerr.Errors); ok {
		out := ""
		for _, e := range errs.Errs {
			out += FormatError(e, filename, input, color)
		}
		return out
	}
	sp := ast.Span{}
	if pe, ok := err.(*parser.ParseError); ok {
		sp = pe.Span
	} else if s, ok := hclerr.SpanOf(err); ok {
		sp = s
	}
	return diagnostic.Pretty(filename, input, sp, err.Error(), color)
}
