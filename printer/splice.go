package printer

import "github.com/openllb/hclgo/ast"

// Splicing: a node whose whole subtree still carries valid, properly
// nested, properly ordered spans has not been edited since it was parsed,
// so the encoder reproduces its original bytes verbatim instead of
// re-rendering it. Any edit breaks the chain somewhere (constructed nodes
// have no span; moved or inserted nodes break the ordering), and the
// encoder falls back to stylistic emission for exactly that subtree.
//
// Content-rewriting options (UnwrapInterpolations, NormalizeTypes) disable
// splicing entirely, because they must apply inside parsed, unmodified
// expressions too.

// spanSeq verifies that a sequence of child spans is valid, in source
// order, and contained in the parent span.
type spanSeq struct {
	outer ast.Span
	prev  int
	ok    bool
}

func newSpanSeq(outer ast.Span) *spanSeq {
	return &spanSeq{outer: outer, prev: outer.Start, ok: outer.Valid()}
}

func (q *spanSeq) check(sp ast.Span) {
	if !q.ok {
		return
	}
	if !sp.Valid() || sp.Start < q.prev || sp.End > q.outer.End {
		q.ok = false
		return
	}
	q.prev = sp.End
}

func cleanStructure(st ast.Structure) bool {
	switch {
	case st.Attribute != nil:
		return cleanAttribute(st.Attribute)
	case st.Block != nil:
		return cleanBlock(st.Block)
	default:
		return false
	}
}

func cleanAttribute(a *ast.Attribute) bool {
	q := newSpanSeq(a.Span())
	q.check(a.Name.Span())
	q.check(a.Value.Span())
	return q.ok && cleanExpr(a.Value)
}

func cleanBlock(b *ast.Block) bool {
	q := newSpanSeq(b.Span())
	q.check(b.Name.Span())
	for _, l := range b.Labels {
		q.check(l.Span())
	}
	q.check(b.OpenBrace)
	if !q.ok {
		return false
	}
	switch b.Body.Kind() {
	case ast.BodyMultiline:
		if !cleanBodyWithin(b.Body.Multiline, b.Span(), b.OpenBrace.End) {
			return false
		}
	case ast.BodyOneline:
		if !cleanAttribute(b.Body.Oneline) || !b.Span().Contains(b.Body.Oneline.Span()) {
			return false
		}
	case ast.BodyEmpty:
		if b.Body.Empty == nil || !b.Body.Empty.Span.Valid() {
			return false
		}
	}
	return b.CloseBrace.Valid() && b.Span().Contains(b.CloseBrace)
}

// cleanBodyWithin checks a nested body's structures against the enclosing
// block's span, starting at the byte after the opening brace.
func cleanBodyWithin(body *ast.Body, outer ast.Span, from int) bool {
	if body == nil {
		return false
	}
	q := newSpanSeq(outer)
	q.prev = from
	for _, st := range body.Structures {
		q.check(st.Decor().Prefix.Span)
		q.check(st.Span())
		if !q.ok || !cleanStructure(st) {
			return false
		}
	}
	q.check(body.Trailing.Span)
	return q.ok
}

func cleanExpr(e ast.Expression) bool {
	if e == nil {
		return false
	}
	sp := e.Span()
	if !sp.Valid() {
		return false
	}
	switch v := e.(type) {
	case *ast.NullLit, *ast.BoolLit, *ast.NumberLit, *ast.StringLit, *ast.Variable:
		return true

	case *ast.ArrayCons:
		q := newSpanSeq(sp)
		for _, el := range v.Elems {
			q.check(el.Span())
			if !q.ok || !cleanExpr(el) {
				return false
			}
		}
		q.check(v.Trailing.Span)
		return q.ok

	case *ast.ObjectCons:
		q := newSpanSeq(sp)
		for i := range v.Items {
			it := &v.Items[i]
			q.check(it.Span())
			if !q.ok || !cleanObjectItem(it) {
				return false
			}
		}
		q.check(v.Trailing.Span)
		return q.ok

	case *ast.StringTemplate:
		return cleanTemplate(v.Tmpl, sp)

	case *ast.HeredocTemplate:
		return cleanTemplate(v.Tmpl, sp)

	case *ast.Parenthesis:
		return sp.Contains(v.Inner.Span()) && cleanExpr(v.Inner)

	case *ast.Traversal:
		q := newSpanSeq(sp)
		q.check(v.Expr.Span())
		if !q.ok || !cleanExpr(v.Expr) {
			return false
		}
		for i := range v.Operators {
			op := &v.Operators[i]
			q.check(op.Span())
			if !q.ok {
				return false
			}
			if op.Value.Kind == ast.OpIndex && !cleanExpr(op.Value.Index) {
				return false
			}
		}
		return q.ok

	case *ast.FuncCall:
		q := newSpanSeq(sp)
		for _, a := range v.Args {
			q.check(a.Span())
			if !q.ok || !cleanExpr(a) {
				return false
			}
		}
		q.check(v.Trailing.Span)
		return q.ok

	case *ast.UnaryOp:
		return sp.Contains(v.Expr.Span()) && cleanExpr(v.Expr)

	case *ast.BinaryOp:
		q := newSpanSeq(sp)
		q.check(v.LHS.Span())
		q.check(v.Op.Span())
		q.check(v.RHS.Span())
		return q.ok && cleanExpr(v.LHS) && cleanExpr(v.RHS)

	case *ast.Conditional:
		q := newSpanSeq(sp)
		q.check(v.Cond.Span())
		q.check(v.True.Span())
		q.check(v.False.Span())
		return q.ok && cleanExpr(v.Cond) && cleanExpr(v.True) && cleanExpr(v.False)

	case *ast.ForExpr:
		q := newSpanSeq(sp)
		q.check(v.Intro.Collection.Span())
		if !q.ok || !cleanExpr(v.Intro.Collection) {
			return false
		}
		if v.KeyExpr != nil {
			q.check(v.KeyExpr.Span())
			if !q.ok || !cleanExpr(v.KeyExpr) {
				return false
			}
		}
		q.check(v.ValueExpr.Span())
		if !q.ok || !cleanExpr(v.ValueExpr) {
			return false
		}
		if v.Cond != nil {
			q.check(v.Cond.Span())
			if !q.ok || !cleanExpr(v.Cond) {
				return false
			}
		}
		return q.ok

	default:
		return false
	}
}

func cleanObjectItem(it *ast.ObjectItem) bool {
	q := newSpanSeq(it.Span())
	q.check(it.Key.Span())
	if !q.ok {
		return false
	}
	if !it.Key.IsIdent() && !cleanExpr(it.Key.Expr) {
		return false
	}
	q.check(it.Value.Span())
	return q.ok && cleanExpr(it.Value)
}

func cleanTemplate(t *ast.Template, outer ast.Span) bool {
	if t == nil {
		return false
	}
	q := newSpanSeq(outer)
	for i := range t.Elements {
		el := &t.Elements[i]
		switch el.Kind() {
		case ast.ElemLiteral:
			q.check(el.Literal.Span())
		case ast.ElemInterpolation:
			q.check(el.Interpolation.Span())
			if !q.ok || !cleanExpr(el.Interpolation.Expr) {
				return false
			}
		case ast.ElemDirective:
			d := el.Directive
			q.check(d.Span())
			if !q.ok || !cleanDirective(d) {
				return false
			}
		}
		if !q.ok {
			return false
		}
	}
	return q.ok
}

func cleanDirective(d *ast.Directive) bool {
	switch {
	case d.If != nil:
		if !cleanExpr(d.If.Cond) || !cleanTemplate(d.If.Then, d.Span()) {
			return false
		}
		if d.If.Else != nil && !cleanTemplate(d.If.Else, d.Span()) {
			return false
		}
		return true
	case d.For != nil:
		return cleanExpr(d.For.Collection) && cleanTemplate(d.For.Body, d.Span())
	default:
		return false
	}
}
