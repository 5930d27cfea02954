package ast

// BlockLabelSelector decides whether a Block's labels match, for use with
// GetLabeledBlocks. It is a polymorphic capability: one of an
// exact-prefix sequence, a single-label match, or an arbitrary predicate.
type BlockLabelSelector interface {
	Matches(labels []BlockLabel) bool
}

// LabelPrefix matches blocks whose leading labels equal prefix exactly
// (by Value()), regardless of any labels after it.
type LabelPrefix []string

func (p LabelPrefix) Matches(labels []BlockLabel) bool {
	if len(labels) < len(p) {
		return false
	}
	for i, want := range p {
		if labels[i].Value() != want {
			return false
		}
	}
	return true
}

// SingleLabel matches blocks whose first label equals the given value.
type SingleLabel string

func (s SingleLabel) Matches(labels []BlockLabel) bool {
	return len(labels) > 0 && labels[0].Value() == string(s)
}

// LabelPredicate matches blocks via an arbitrary function over their
// labels.
type LabelPredicate func(labels []BlockLabel) bool

func (f LabelPredicate) Matches(labels []BlockLabel) bool { return f(labels) }

// SetValue replaces a's value expression. The replacement adopts the old
// value's decor when it carries none of its own, so comments and spacing
// around the value survive the edit; the replacement's (absent) span makes
// the encoder re-render the attribute instead of splicing stale bytes.
func (a *Attribute) SetValue(e Expression) {
	type decorated interface {
		Decor() Decor
		SetDecor(Decor)
	}
	if old, ok := a.Value.(decorated); ok && a.Value != nil {
		if repl, ok := e.(decorated); ok && !repl.Decor().IsSet() {
			repl.SetDecor(old.Decor())
		}
	}
	a.Value = e
}

// GetAttribute returns the first top-level attribute named name, or nil.
func (b *Body) GetAttribute(name Identifier) *Attribute {
	for i := range b.Structures {
		if a := b.Structures[i].Attribute; a != nil && a.Name.Value == name {
			return a
		}
	}
	return nil
}

// GetAttributeMut returns a mutable pointer to the first top-level
// attribute named name, or nil.
func (b *Body) GetAttributeMut(name Identifier) *Attribute {
	return b.GetAttribute(name)
}

// Insert inserts structure at index i, shifting later structures right.
func (b *Body) Insert(i int, s Structure) {
	b.Structures = append(b.Structures, Structure{})
	copy(b.Structures[i+1:], b.Structures[i:])
	b.Structures[i] = s
}

// Push appends structure to the end of the body.
func (b *Body) Push(s Structure) {
	b.Structures = append(b.Structures, s)
}

// Pop removes and returns the last structure, or false if the body is
// empty.
func (b *Body) Pop() (Structure, bool) {
	if len(b.Structures) == 0 {
		return Structure{}, false
	}
	last := b.Structures[len(b.Structures)-1]
	b.Structures = b.Structures[:len(b.Structures)-1]
	return last, true
}

// Remove removes and returns the structure at index i.
func (b *Body) Remove(i int) Structure {
	s := b.Structures[i]
	b.Structures = append(b.Structures[:i], b.Structures[i+1:]...)
	return s
}

// RemoveAttribute removes and returns the first top-level attribute named
// name, or false if none exists.
func (b *Body) RemoveAttribute(name Identifier) (*Attribute, bool) {
	for i := range b.Structures {
		if a := b.Structures[i].Attribute; a != nil && a.Name.Value == name {
			b.Remove(i)
			return a, true
		}
	}
	return nil, false
}

// GetBlocks returns every top-level block named ident, in order.
func (b *Body) GetBlocks(ident Identifier) []*Block {
	var blocks []*Block
	for i := range b.Structures {
		if bl := b.Structures[i].Block; bl != nil && bl.Name.Value == ident {
			blocks = append(blocks, bl)
		}
	}
	return blocks
}

// GetBlocksMut is GetBlocks, returning mutable pointers.
func (b *Body) GetBlocksMut(ident Identifier) []*Block {
	return b.GetBlocks(ident)
}

// GetLabeledBlocks returns every top-level block named ident whose labels
// satisfy selector.
func (b *Body) GetLabeledBlocks(ident Identifier, selector BlockLabelSelector) []*Block {
	var blocks []*Block
	for _, bl := range b.GetBlocks(ident) {
		if selector.Matches(bl.Labels) {
			blocks = append(blocks, bl)
		}
	}
	return blocks
}

// RemoveBlocks removes and returns every top-level block named ident.
func (b *Body) RemoveBlocks(ident Identifier) []*Block {
	var removed []*Block
	kept := b.Structures[:0]
	for _, s := range b.Structures {
		if s.Block != nil && s.Block.Name.Value == ident {
			removed = append(removed, s.Block)
			continue
		}
		kept = append(kept, s)
	}
	b.Structures = kept
	return removed
}

// Attributes iterates over every top-level attribute in order.
func (b *Body) Attributes() []*Attribute {
	var attrs []*Attribute
	for i := range b.Structures {
		if a := b.Structures[i].Attribute; a != nil {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Blocks iterates over every top-level block in order.
func (b *Body) Blocks() []*Block {
	var blocks []*Block
	for i := range b.Structures {
		if bl := b.Structures[i].Block; bl != nil {
			blocks = append(blocks, bl)
		}
	}
	return blocks
}
