// Package ast holds the decorated HCL syntax tree: every node carries both
// its source byte span and the prefix/suffix decor that preserves comments
// and insignificant whitespace around it, so a parsed document can be
// edited in memory and re-emitted byte-for-byte outside the edited regions.
package ast

// Span is a half-open [Start, End) byte range into the input a tree was
// parsed from. A zero Span (Start == End == 0 with Valid() false via the
// explicit flag) means the node was constructed rather than parsed.
type Span struct {
	Start, End int
	valid      bool
}

// NewSpan returns a valid Span covering [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end, valid: true}
}

// Valid reports whether the span refers to real input bytes.
func (s Span) Valid() bool { return s.valid && s.End >= s.Start }

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Union returns the smallest span covering both s and o. If either span is
// invalid, the other is returned unchanged.
func (s Span) Union(o Span) Span {
	switch {
	case !s.Valid():
		return o
	case !o.Valid():
		return s
	}
	start, end := s.Start, s.End
	if o.Start < start {
		start = o.Start
	}
	if o.End > end {
		end = o.End
	}
	return NewSpan(start, end)
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Valid() && o.Valid() && s.Start <= o.Start && o.End <= s.End
}

// Slice returns the bytes of the span from input. It does not check
// Valid(): an unset span yields an empty slice, and an out-of-range span
// panics.
func (s Span) Slice(input []byte) []byte {
	return input[s.Start:s.End]
}

// RawString is a back-reference to a byte range of the original input that
// is resolved lazily: Despan materializes an owned copy so the tree no
// longer depends on the input buffer staying alive.
type RawString struct {
	Span Span
	text []byte
}

// NewRawString returns a RawString referencing input[start:end).
func NewRawString(start, end int) RawString {
	return RawString{Span: NewSpan(start, end)}
}

// NewRawStringText returns an already-despanned RawString owning text,
// for editor code attaching decor that never existed in any input.
func NewRawStringText(text string) RawString {
	return RawString{text: []byte(text)}
}

// Despanned reports whether the RawString already owns its bytes.
func (r RawString) Despanned() bool { return r.text != nil }

// IsSet reports whether the RawString carries any content at all, either a
// span back-reference or despanned text.
func (r RawString) IsSet() bool { return r.text != nil || r.Span.Valid() }

// Bytes resolves the RawString's text, copying from input if it has not
// been despanned yet. Returns nil for an invalid, unset RawString.
func (r RawString) Bytes(input []byte) []byte {
	if r.text != nil {
		return r.text
	}
	if !r.Span.Valid() {
		return nil
	}
	return r.Span.Slice(input)
}

// String resolves the RawString's text, same rules as Bytes.
func (r RawString) String(input []byte) string {
	return string(r.Bytes(input))
}

// Despan materializes an owned copy of the referenced bytes from input,
// after which the RawString no longer depends on input staying alive.
func (r *RawString) Despan(input []byte) {
	if r.text != nil || !r.Span.Valid() {
		return
	}
	b := make([]byte, r.Span.Len())
	copy(b, r.Span.Slice(input))
	r.text = b
}

// Decor is the pair of whitespace+comment spans immediately surrounding a
// node within its parent's syntactic slot: prefix before it, suffix after.
type Decor struct {
	Prefix, Suffix RawString
}

// Despan despans both the prefix and suffix of d.
func (d *Decor) Despan(input []byte) {
	d.Prefix.Despan(input)
	d.Suffix.Despan(input)
}

// IsSet reports whether either side of the decor carries content.
func (d Decor) IsSet() bool { return d.Prefix.IsSet() || d.Suffix.IsSet() }

// node is embedded by every decorated AST type; it implements the common
// part of the Node interface.
type node struct {
	span  Span
	decor Decor
}

// Span returns the node's own source span, excluding decor.
func (n *node) Span() Span { return n.span }

// SetSpan sets the node's source span. Used by the parser; mutation
// through editor APIs may leave spans stale, which the encoder tolerates.
func (n *node) SetSpan(s Span) { n.span = s }

// Decor returns the node's prefix/suffix decor.
func (n *node) Decor() Decor { return n.decor }

// SetDecor sets the node's prefix/suffix decor.
func (n *node) SetDecor(d Decor) { n.decor = d }

func (n *node) despanSelf(input []byte) {
	n.decor.Despan(input)
}

// Node is implemented by every decorated AST node.
type Node interface {
	// Span returns the node's own byte range, excluding surrounding decor.
	Span() Span
	// Decor returns the prefix/suffix whitespace+comment spans attached to
	// the node within its parent's syntactic slot.
	Decor() Decor
}

// Spanned attaches a Span to a value without decor; used for simple leaves
// like template literal text where no prefix/suffix decor applies.
type Spanned[T any] struct {
	Value T
	Sp    Span
}

// NewSpanned returns a Spanned wrapping value with the given span.
func NewSpanned[T any](value T, sp Span) Spanned[T] {
	return Spanned[T]{Value: value, Sp: sp}
}

func (s Spanned[T]) Span() Span { return s.Sp }

// Decorated attaches both a Span and Decor to a value, e.g. a bare
// identifier object key or a traversal operator.
type Decorated[T any] struct {
	Value T
	Sp    Span
	Dec   Decor
}

// NewDecorated returns a Decorated wrapping value with the given span.
func NewDecorated[T any](value T, sp Span) Decorated[T] {
	return Decorated[T]{Value: value, Sp: sp}
}

func (d Decorated[T]) Span() Span   { return d.Sp }
func (d Decorated[T]) Decor() Decor { return d.Dec }

func (d *Decorated[T]) SetDecor(dec Decor) { d.Dec = dec }

func (d *Decorated[T]) Despan(input []byte) {
	d.Dec.Despan(input)
}
