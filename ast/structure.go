package ast

// Attribute is `name = value`.
type Attribute struct {
	node
	Name  Decorated[Identifier]
	Value Expression
}

// NewAttribute constructs an Attribute with no decor or span (for editor
// insertion); the encoder falls back to stylistic emission for it.
func NewAttribute(name Identifier, value Expression) *Attribute {
	return &Attribute{Name: NewDecorated(name, Span{}), Value: value}
}

// BlockLabelKind tags which field of BlockLabel is set.
type BlockLabelKind int

const (
	LabelIdent BlockLabelKind = iota
	LabelString
)

// BlockLabel is a block label: a bare identifier or a quoted string.
type BlockLabel struct {
	Ident *Decorated[Identifier]
	Str   *Decorated[string]
}

func (l BlockLabel) Kind() BlockLabelKind {
	if l.Ident != nil {
		return LabelIdent
	}
	return LabelString
}

// Value returns the label's textual value regardless of kind.
func (l BlockLabel) Value() string {
	if l.Ident != nil {
		return string(l.Ident.Value)
	}
	if l.Str != nil {
		return l.Str.Value
	}
	return ""
}

func (l BlockLabel) Span() Span {
	if l.Ident != nil {
		return l.Ident.Span()
	}
	return l.Str.Span()
}

// BlockBodyKind tags which field of BlockBody is set.
type BlockBodyKind int

const (
	BodyMultiline BlockBodyKind = iota
	BodyOneline
	BodyEmpty
)

// BlockBody is a block's `{ ... }` contents: a multi-line Body, a single
// inline Attribute, or empty (just interior whitespace/comments).
type BlockBody struct {
	Multiline *Body
	Oneline   *Attribute
	Empty     *RawString
}

func (b BlockBody) Kind() BlockBodyKind {
	switch {
	case b.Multiline != nil:
		return BodyMultiline
	case b.Oneline != nil:
		return BodyOneline
	default:
		return BodyEmpty
	}
}

// Block is a labelled, brace-delimited body: `ident label... { body }`.
type Block struct {
	node
	Name       Decorated[Identifier]
	Labels     []BlockLabel
	Body       BlockBody
	OpenBrace  Span
	CloseBrace Span
}

func NewBlock(name Identifier, body *Body, labels ...BlockLabel) *Block {
	return &Block{
		Name:   NewDecorated(name, Span{}),
		Labels: labels,
		Body:   BlockBody{Multiline: body},
	}
}

// Structure is either an Attribute or a Block.
type Structure struct {
	node
	Attribute *Attribute
	Block     *Block
}

func (s Structure) Span() Span {
	switch {
	case s.Attribute != nil:
		return s.Attribute.Span()
	case s.Block != nil:
		return s.Block.Span()
	default:
		return s.node.Span()
	}
}

// Ident returns the name of the attribute or block this structure wraps.
func (s Structure) Ident() Identifier {
	switch {
	case s.Attribute != nil:
		return s.Attribute.Name.Value
	case s.Block != nil:
		return s.Block.Name.Value
	default:
		return ""
	}
}

// Body is an ordered list of Structures (attributes and blocks).
type Body struct {
	node
	Structures    []Structure
	PreferOneline bool
	// Trailing holds the whitespace/comments after the last structure, up
	// to the body's closing brace or end of input.
	Trailing RawString
}

// NewBody returns an empty, unparsed Body ready for editor mutation.
func NewBody() *Body { return &Body{} }
