// Package printer serialises an ast.Body back to text. Subtrees that
// still carry their parse-time spans are spliced verbatim from the
// original input, so unedited regions round-trip byte-for-byte; edited or
// constructed subtrees are rendered canonically under Options. The
// content-rewriting options (UnwrapInterpolations, NormalizeTypes) must
// reach inside parsed expressions, so enabling either switches the whole
// document to canonical rendering.
package printer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/openllb/hclgo/ast"
)

// Options controls the stylistic fallback the encoder uses for nodes
// without a usable source span, and a handful of content-level rewrites
// that apply even to parsed, unmodified expressions.
type Options struct {
	// Indent is repeated once per nesting depth. Default "  ".
	Indent string
	// Dense suppresses the blank line normally emitted between two
	// sibling blocks.
	Dense bool
	// CompactArrays renders array constructors on a single line.
	CompactArrays bool
	// CompactObjects renders object constructors on a single line.
	CompactObjects bool
	// PreferIdentKeys unquotes object keys that are valid identifiers.
	PreferIdentKeys bool
	// PreferOneline hints that a block with a single attribute should be
	// rendered `name { attr = value }` instead of spanning three lines.
	PreferOneline bool
	// UnwrapInterpolations rewrites a template that is exactly one
	// interpolation (e.g. `"${var.x}"`) to the bare expression `var.x`.
	UnwrapInterpolations bool
	// NormalizeTypes rewrites legacy Terraform-style quoted type names
	// (`"string"`, `"list"`, ...) to their HCL2 type expression form.
	NormalizeTypes bool
	// TerraformStyle is a convenience combining UnwrapInterpolations and
	// NormalizeTypes.
	TerraformStyle bool
}

// DefaultOptions returns the encoder's baseline stylistic options: two
// space indent, blank lines between blocks, expanded collections.
func DefaultOptions() Options {
	return Options{Indent: "  "}
}

func (o Options) unwrap() bool    { return o.UnwrapInterpolations || o.TerraformStyle }
func (o Options) normalize() bool { return o.NormalizeTypes || o.TerraformStyle }

// Encode renders body to text. input is the buffer body was parsed from
// (nil if body is entirely editor-constructed); it is consulted to
// materialise RawStrings and literal spans that have not been despanned.
func Encode(body *ast.Body, input []byte, opts Options) []byte {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	p := &printer{input: input, opts: opts, splice: spliceable(input, opts)}
	p.encodeBody(body, 0, false)
	return p.buf.Bytes()
}

// spliceable reports whether unedited subtrees may be reproduced verbatim
// from input. Content-rewriting options disable splicing because they must
// reach inside parsed expressions.
func spliceable(input []byte, opts Options) bool {
	return input != nil && !opts.unwrap() && !opts.normalize()
}

// EncodeExpr renders a single expression, for callers previewing an
// edited attribute value in isolation.
func EncodeExpr(e ast.Expression, input []byte, opts Options) []byte {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	p := &printer{input: input, opts: opts, splice: spliceable(input, opts)}
	p.encodeExpr(e, 0)
	return p.buf.Bytes()
}

type printer struct {
	buf    bytes.Buffer
	input  []byte
	opts   Options
	splice bool
}

func (p *printer) raw(r ast.RawString) {
	p.buf.Write(r.Bytes(p.input))
}

func (p *printer) slice(sp ast.Span) {
	if sp.Valid() && p.input != nil {
		p.buf.Write(sp.Slice(p.input))
	}
}

func (p *printer) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		p.buf.WriteString(p.opts.Indent)
	}
}

// encodeBody renders the structures of b. nested reports whether the body
// sits inside a block's braces, in which case the stylistic fallback must
// open with a newline (a preserved prefix already carries its own).
func (p *printer) encodeBody(b *ast.Body, depth int, nested bool) {
	if b == nil {
		return
	}
	for i, st := range b.Structures {
		prefix := st.Decor().Prefix
		switch {
		case prefix.IsSet():
			p.raw(prefix)
		case i == 0 && nested:
			p.buf.WriteByte('\n')
			p.writeIndent(depth)
		case i == 0:
			p.writeIndent(depth)
		default:
			p.buf.WriteByte('\n')
			// Blank-line separation only around blocks; consecutive
			// attributes stay adjacent.
			if !p.opts.Dense && (b.Structures[i-1].Block != nil || st.Block != nil) {
				p.buf.WriteByte('\n')
			}
			p.writeIndent(depth)
		}
		if p.splice && cleanStructure(st) {
			p.slice(st.Span())
			continue
		}
		p.encodeStructure(st, depth)
	}
	if b.Trailing.IsSet() {
		p.raw(b.Trailing)
	}
}

func (p *printer) encodeStructure(st ast.Structure, depth int) {
	switch {
	case st.Attribute != nil:
		p.encodeAttribute(st.Attribute, depth)
	case st.Block != nil:
		p.encodeBlock(st.Block, depth)
	}
}

func (p *printer) encodeAttribute(a *ast.Attribute, depth int) {
	p.buf.WriteString(string(a.Name.Value))
	p.buf.WriteString(" = ")
	p.encodeExpr(a.Value, depth)
}

func (p *printer) encodeBlock(b *ast.Block, depth int) {
	p.buf.WriteString(string(b.Name.Value))
	for _, l := range b.Labels {
		p.buf.WriteByte(' ')
		p.encodeLabel(l)
	}
	p.buf.WriteByte(' ')
	p.encodeBlockBody(b.Body, depth)
}

func (p *printer) encodeLabel(l ast.BlockLabel) {
	switch l.Kind() {
	case ast.LabelIdent:
		p.buf.WriteString(string(l.Ident.Value))
	case ast.LabelString:
		p.buf.WriteString(quoteString(l.Str.Value))
	}
}

func (p *printer) encodeBlockBody(b ast.BlockBody, depth int) {
	switch b.Kind() {
	case ast.BodyEmpty:
		p.buf.WriteByte('{')
		if b.Empty != nil {
			p.raw(*b.Empty)
		}
		p.buf.WriteByte('}')
	case ast.BodyOneline:
		p.buf.WriteString("{ ")
		p.encodeAttribute(b.Oneline, depth)
		p.buf.WriteString(" }")
	case ast.BodyMultiline:
		if p.onelineBody(b.Multiline) {
			p.buf.WriteString("{ ")
			p.encodeAttribute(b.Multiline.Structures[0].Attribute, depth)
			p.buf.WriteString(" }")
			return
		}
		p.buf.WriteByte('{')
		p.encodeBody(b.Multiline, depth+1, true)
		// A parsed body's trailing decor already ends the last line and
		// indents the closing brace; supply both only when it is absent.
		if !b.Multiline.Trailing.IsSet() {
			p.buf.WriteByte('\n')
			p.writeIndent(depth)
		}
		p.buf.WriteByte('}')
	}
}

// onelineBody reports whether a multiline body should collapse onto the
// opening brace's line: a single attribute, the oneline hint (either on
// the body or globally via Options), and no preserved decor that a
// one-line rendering would misplace.
func (p *printer) onelineBody(b *ast.Body) bool {
	if b == nil || len(b.Structures) != 1 || b.Structures[0].Attribute == nil {
		return false
	}
	if !p.opts.PreferOneline && !b.PreferOneline {
		return false
	}
	return !b.Structures[0].Decor().IsSet() && !b.Trailing.IsSet()
}

// encodeExpr renders e. When splicing is enabled, an expression whose whole
// subtree is unedited (see cleanExpr) is reproduced byte-for-byte
// (preserving original numeric formatting, spacing, string escaping, and,
// for templates, the exact interpolation source); everything else is
// rendered canonically.
func (p *printer) encodeExpr(e ast.Expression, depth int) {
	if e != nil && p.splice && cleanExpr(e) {
		p.slice(e.Span())
		return
	}
	switch v := e.(type) {
	case nil:
		return
	case *ast.NullLit:
		p.buf.WriteString("null")
	case *ast.BoolLit:
		p.buf.WriteString(strconv.FormatBool(v.Value))
	case *ast.NumberLit:
		p.buf.WriteString(v.Text())
	case *ast.StringLit:
		if p.opts.normalize() {
			if norm, ok := normalizeTypeName(v.Value); ok {
				p.buf.WriteString(norm)
				return
			}
		}
		p.buf.WriteString(quoteString(v.Value))
	case *ast.ArrayCons:
		p.encodeArray(v, depth)
	case *ast.ObjectCons:
		p.encodeObject(v, depth)
	case *ast.StringTemplate:
		if p.opts.unwrap() {
			if inner, ok := unwrapTemplate(v.Tmpl); ok {
				p.encodeExpr(inner, depth)
				return
			}
		}
		p.buf.WriteByte('"')
		p.encodeTemplate(v.Tmpl, quotedLiteral, depth)
		p.buf.WriteByte('"')
	case *ast.HeredocTemplate:
		p.encodeHeredoc(v, depth)
	case *ast.Parenthesis:
		p.buf.WriteByte('(')
		p.encodeExpr(v.Inner, depth)
		p.buf.WriteByte(')')
	case *ast.Variable:
		if p.opts.normalize() {
			if norm, ok := normalizeBareType(string(v.Name)); ok {
				p.buf.WriteString(norm)
				return
			}
		}
		p.buf.WriteString(string(v.Name))
	case *ast.Traversal:
		p.encodeExpr(v.Expr, depth)
		for _, op := range v.Operators {
			p.encodeTraversalOp(op.Value, depth)
		}
	case *ast.FuncCall:
		p.encodeFuncCall(v, depth)
	case *ast.UnaryOp:
		switch v.Op {
		case ast.OpNeg:
			p.buf.WriteByte('-')
		case ast.OpNot:
			p.buf.WriteByte('!')
		}
		p.encodeExpr(v.Expr, depth)
	case *ast.BinaryOp:
		p.encodeExpr(v.LHS, depth)
		p.buf.WriteByte(' ')
		p.buf.WriteString(v.Op.Value.String())
		p.buf.WriteByte(' ')
		p.encodeExpr(v.RHS, depth)
	case *ast.Conditional:
		p.encodeExpr(v.Cond, depth)
		p.buf.WriteString(" ? ")
		p.encodeExpr(v.True, depth)
		p.buf.WriteString(" : ")
		p.encodeExpr(v.False, depth)
	case *ast.ForExpr:
		p.encodeForExpr(v, depth)
	default:
		panic(fmt.Sprintf("printer: unhandled expression type %T", e))
	}
}

func (p *printer) encodeTraversalOp(op ast.TraversalOperator, depth int) {
	switch op.Kind {
	case ast.OpAttrSplat:
		p.buf.WriteString(".*")
	case ast.OpFullSplat:
		p.buf.WriteString("[*]")
	case ast.OpGetAttr:
		p.buf.WriteByte('.')
		p.buf.WriteString(string(op.GetAttr))
	case ast.OpIndex:
		p.buf.WriteByte('[')
		p.encodeExpr(op.Index, depth)
		p.buf.WriteByte(']')
	case ast.OpLegacyIndex:
		p.buf.WriteByte('.')
		p.buf.WriteString(strconv.FormatUint(op.LegacyIndex, 10))
	}
}

func (p *printer) encodeArray(v *ast.ArrayCons, depth int) {
	if len(v.Elems) == 0 {
		p.buf.WriteString("[]")
		return
	}
	if p.opts.CompactArrays {
		p.buf.WriteByte('[')
		for i, el := range v.Elems {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.encodeExpr(el, depth)
		}
		p.buf.WriteByte(']')
		return
	}
	p.buf.WriteString("[\n")
	for _, el := range v.Elems {
		p.writeIndent(depth + 1)
		p.encodeExpr(el, depth+1)
		p.buf.WriteString(",\n")
	}
	p.writeIndent(depth)
	p.buf.WriteByte(']')
}

func (p *printer) encodeObject(v *ast.ObjectCons, depth int) {
	if len(v.Items) == 0 {
		p.buf.WriteString("{}")
		return
	}
	if p.opts.CompactObjects {
		p.buf.WriteString("{ ")
		for i, it := range v.Items {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.encodeObjectItem(it, depth)
		}
		p.buf.WriteString(" }")
		return
	}
	p.buf.WriteString("{\n")
	for _, it := range v.Items {
		p.writeIndent(depth + 1)
		p.encodeObjectItem(it, depth+1)
		p.buf.WriteString("\n")
	}
	p.writeIndent(depth)
	p.buf.WriteByte('}')
}

func (p *printer) encodeObjectItem(it ast.ObjectItem, depth int) {
	p.encodeObjectKey(it.Key)
	p.buf.WriteString(" = ")
	p.encodeExpr(it.Value, depth)
}

func (p *printer) encodeObjectKey(k ast.ObjectKey) {
	if k.IsIdent() {
		p.buf.WriteString(string(k.Ident.Value))
		return
	}
	if p.opts.PreferIdentKeys {
		if lit, ok := k.Expr.(*ast.StringLit); ok && isValidIdent(lit.Value) {
			p.buf.WriteString(lit.Value)
			return
		}
	}
	p.encodeExpr(k.Expr, 0)
}

func (p *printer) encodeFuncCall(v *ast.FuncCall, depth int) {
	p.buf.WriteString(string(v.Name))
	p.buf.WriteByte('(')
	for i, a := range v.Args {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.encodeExpr(a, depth)
	}
	if v.ExpandFinal {
		if len(v.Args) > 0 {
			p.buf.WriteString("...")
		}
	}
	p.buf.WriteByte(')')
}

func (p *printer) encodeForExpr(v *ast.ForExpr, depth int) {
	isObject := v.KeyExpr != nil
	if isObject {
		p.buf.WriteByte('{')
	} else {
		p.buf.WriteByte('[')
	}
	p.buf.WriteString("for ")
	if v.Intro.KeyVar != nil {
		p.buf.WriteString(string(*v.Intro.KeyVar))
		p.buf.WriteString(", ")
	}
	p.buf.WriteString(string(v.Intro.ValueVar))
	p.buf.WriteString(" in ")
	p.encodeExpr(v.Intro.Collection, depth)
	p.buf.WriteString(" : ")
	if isObject {
		p.encodeExpr(v.KeyExpr, depth)
		p.buf.WriteString(" => ")
		p.encodeExpr(v.ValueExpr, depth)
		if v.Grouping {
			p.buf.WriteString("...")
		}
	} else {
		p.encodeExpr(v.ValueExpr, depth)
	}
	if v.Cond != nil {
		p.buf.WriteString(" if ")
		p.encodeExpr(v.Cond, depth)
	}
	if isObject {
		p.buf.WriteByte('}')
	} else {
		p.buf.WriteByte(']')
	}
}

type literalContext int

const (
	quotedLiteral literalContext = iota
	bareLiteral
)

// encodeTemplate renders a Template's elements canonically, re-escaping
// any literal occurrence of `${`/`%{` (produced by decoding a `$${`/`%%{`
// escape) so the output re-parses to the same template.
func (p *printer) encodeTemplate(t *ast.Template, ctx literalContext, depth int) {
	if t == nil {
		return
	}
	for _, el := range t.Elements {
		switch el.Kind() {
		case ast.ElemLiteral:
			p.encodeTemplateLiteral(el.Literal.Value, ctx)
		case ast.ElemInterpolation:
			p.encodeInterpolation(el.Interpolation, depth)
		case ast.ElemDirective:
			p.encodeDirective(el.Directive, ctx, depth)
		}
	}
}

func (p *printer) encodeTemplateLiteral(text string, ctx literalContext) {
	text = strings.ReplaceAll(text, "${", "$${")
	text = strings.ReplaceAll(text, "%{", "%%{")
	if ctx == quotedLiteral {
		text = escapeQuotedBody(text)
	}
	p.buf.WriteString(text)
}

func (p *printer) encodeInterpolation(in *ast.Interpolation, depth int) {
	p.buf.WriteString("${")
	if in.Strip.Prev {
		p.buf.WriteByte('~')
	}
	p.encodeExpr(in.Expr, depth)
	if in.Strip.Next {
		p.buf.WriteByte('~')
	}
	p.buf.WriteByte('}')
}

func (p *printer) encodeDirective(d *ast.Directive, ctx literalContext, depth int) {
	switch {
	case d.If != nil:
		p.encodeMarker(d.If.IfMarker, "if")
		p.encodeExpr(d.If.Cond, depth)
		p.encodeMarkerClose(d.If.IfMarker)
		p.encodeTemplate(d.If.Then, ctx, depth)
		if d.If.Else != nil {
			p.encodeMarker(*d.If.ElseMarker, "else")
			p.encodeMarkerClose(*d.If.ElseMarker)
			p.encodeTemplate(d.If.Else, ctx, depth)
		}
		p.encodeMarker(d.If.EndIfMarker, "endif")
		p.encodeMarkerClose(d.If.EndIfMarker)
	case d.For != nil:
		p.buf.WriteString("%{")
		if d.For.ForMarker.Strip.Prev {
			p.buf.WriteByte('~')
		}
		p.buf.WriteString(" for ")
		if d.For.KeyVar != nil {
			p.buf.WriteString(string(*d.For.KeyVar))
			p.buf.WriteString(", ")
		}
		p.buf.WriteString(string(d.For.ValueVar))
		p.buf.WriteString(" in ")
		p.encodeExpr(d.For.Collection, depth)
		p.encodeMarkerClose(d.For.ForMarker)
		p.encodeTemplate(d.For.Body, ctx, depth)
		p.encodeMarker(d.For.EndForMarker, "endfor")
		p.encodeMarkerClose(d.For.EndForMarker)
	}
}

func (p *printer) encodeMarker(m ast.DirectiveMarker, keyword string) {
	p.buf.WriteString("%{")
	if m.Strip.Prev {
		p.buf.WriteByte('~')
	}
	p.buf.WriteByte(' ')
	p.buf.WriteString(keyword)
	p.buf.WriteByte(' ')
}

func (p *printer) encodeMarkerClose(m ast.DirectiveMarker) {
	if m.Strip.Next {
		p.buf.WriteByte('~')
	}
	p.buf.WriteByte('}')
}

func (p *printer) encodeHeredoc(v *ast.HeredocTemplate, depth int) {
	dash := ""
	if v.Indent != nil {
		dash = "-"
	}
	p.buf.WriteString("<<")
	p.buf.WriteString(dash)
	p.buf.WriteString(string(v.Delimiter))
	p.buf.WriteByte('\n')
	p.encodeTemplate(v.Tmpl, bareLiteral, depth)
	p.writeIndent(depth)
	p.buf.WriteString(string(v.Delimiter))
	p.buf.WriteByte('\n')
}

func unwrapTemplate(t *ast.Template) (ast.Expression, bool) {
	if len(t.Elements) != 1 {
		return nil, false
	}
	el := t.Elements[0]
	if el.Kind() != ast.ElemInterpolation {
		return nil, false
	}
	if el.Interpolation.Strip.Prev || el.Interpolation.Strip.Next {
		return nil, false
	}
	return el.Interpolation.Expr, true
}

// normalizeTypeName implements the quoted arm of the NormalizeTypes
// rewrite table, covering the Terraform 0.11-era legacy type shorthand: a
// quoted `"list"`/`"map"` meant "list/map of strings", so they normalize
// to the corresponding parameterized type rather than `(any)`.
func normalizeTypeName(s string) (string, bool) {
	switch s {
	case "string", "number", "bool", "any":
		return s, true
	case "list":
		return "list(string)", true
	case "map":
		return "map(string)", true
	default:
		return "", false
	}
}

// normalizeBareType is the unquoted arm of the rewrite table: a bare
// collection type name carries no element type, so it gets `any`.
func normalizeBareType(s string) (string, bool) {
	switch s {
	case "list":
		return "list(any)", true
	case "map":
		return "map(any)", true
	case "set":
		return "set(any)", true
	default:
		return "", false
	}
}

func isValidIdent(s string) bool {
	if len(s) == 0 || !ast.IsIdentifierStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !ast.IsIdentifierByte(s[i]) {
			return false
		}
	}
	return true
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(escapeQuotedBody(s))
	b.WriteByte('"')
	return b.String()
}

func escapeQuotedBody(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
