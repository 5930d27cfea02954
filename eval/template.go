package eval

import (
	"strings"

	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/hclerr"
)

// EvaluateTemplate expands t to its final string, resolving interpolations
// and if/for directives under ctx.
func EvaluateTemplate(ctx *Context, t *ast.Template) (string, error) {
	return evalTemplate(ctx, t, 0)
}

func evalTemplate(ctx *Context, t *ast.Template, depth int) (string, error) {
	if depth > MaxDepth {
		return "", &hclerr.RecursionLimit{Limit: MaxDepth}
	}
	return expandSequence(ctx, t.Elements, false, false, depth)
}

// expandSequence concatenates elems, applying the strip-marker whitespace
// trims at each literal boundary. leadTrim/trailTrim are the trims demanded
// by the enclosing directive marker on the sequence's first/last literal
// (false for the outermost template, which has no enclosing marker).
func expandSequence(ctx *Context, elems []ast.TemplateElement, leadTrim, trailTrim bool, depth int) (string, error) {
	var b strings.Builder
	n := len(elems)
	for i, el := range elems {
		switch el.Kind() {
		case ast.ElemLiteral:
			text := el.Literal.Value
			trimLeft := leadTrim
			if i > 0 {
				trimLeft = stripsFollowingLiteral(elems[i-1])
			}
			trimRight := trailTrim
			if i < n-1 {
				trimRight = stripsPrecedingLiteral(elems[i+1])
			}
			if trimLeft {
				text = strings.TrimLeft(text, " \t\r\n")
			}
			if trimRight {
				text = strings.TrimRight(text, " \t\r\n")
			}
			b.WriteString(text)

		case ast.ElemInterpolation:
			v, err := evalDepth(ctx, el.Interpolation.Expr, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(v.String())

		case ast.ElemDirective:
			s, err := expandDirective(ctx, el.Directive, depth)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

// stripsPrecedingLiteral reports whether el, when it immediately follows a
// literal, requires trimming that literal's trailing whitespace: el's own
// `~` on the side facing the preceding text.
func stripsPrecedingLiteral(el ast.TemplateElement) bool {
	switch el.Kind() {
	case ast.ElemInterpolation:
		return el.Interpolation.Strip.Prev
	case ast.ElemDirective:
		d := el.Directive
		if d.If != nil {
			return d.If.IfMarker.Strip.Prev
		}
		if d.For != nil {
			return d.For.ForMarker.Strip.Prev
		}
	}
	return false
}

// stripsFollowingLiteral reports whether el, when it immediately precedes a
// literal, requires trimming that literal's leading whitespace: el's own
// `~` on the side facing the following text.
func stripsFollowingLiteral(el ast.TemplateElement) bool {
	switch el.Kind() {
	case ast.ElemInterpolation:
		return el.Interpolation.Strip.Next
	case ast.ElemDirective:
		d := el.Directive
		if d.If != nil {
			return d.If.EndIfMarker.Strip.Next
		}
		if d.For != nil {
			return d.For.EndForMarker.Strip.Next
		}
	}
	return false
}

func expandDirective(ctx *Context, d *ast.Directive, depth int) (string, error) {
	if depth > MaxDepth {
		return "", &hclerr.RecursionLimit{Limit: MaxDepth}
	}

	if d.If != nil {
		return expandIf(ctx, d.If, depth)
	}
	return expandFor(ctx, d.For, depth)
}

func expandIf(ctx *Context, d *ast.IfDirective, depth int) (string, error) {
	cond, err := evalDepth(ctx, d.Cond, depth+1)
	if err != nil {
		return "", err
	}
	if cond.Kind != KindBool {
		return "", withSpan(&hclerr.ConditionType{Got: cond.TypeName()}, d.Cond.Span())
	}

	if cond.Bool {
		trail := d.EndIfMarker.Strip.Prev
		if d.ElseMarker != nil {
			trail = d.ElseMarker.Strip.Prev
		}
		return expandSequence(ctx, d.Then.Elements, d.IfMarker.Strip.Next, trail, depth+1)
	}
	if d.Else != nil {
		return expandSequence(ctx, d.Else.Elements, d.ElseMarker.Strip.Next, d.EndIfMarker.Strip.Prev, depth+1)
	}
	return "", nil
}

func expandFor(ctx *Context, d *ast.ForDirective, depth int) (string, error) {
	coll, err := evalDepth(ctx, d.Collection, depth+1)
	if err != nil {
		return "", err
	}

	type kv struct {
		key, val Value
	}
	var items []kv
	switch coll.Kind {
	case KindArray:
		for i, v := range coll.Array {
			items = append(items, kv{key: Num(ast.NewIntNumber(int64(i))), val: v})
		}
	case KindObject:
		coll.Object.ForEach(func(k string, v Value) {
			items = append(items, kv{key: Str(k), val: v})
		})
	default:
		return "", withSpan(&hclerr.ForExprCollection{Got: coll.TypeName()}, d.Collection.Span())
	}

	var b strings.Builder
	for _, it := range items {
		child := ctx.Child()
		if d.KeyVar != nil {
			child.DeclareVar(string(*d.KeyVar), it.key)
			child.DeclareVar(string(d.ValueVar), it.val)
		} else {
			child.DeclareVar(string(d.ValueVar), it.val)
		}
		s, err := expandSequence(child, d.Body.Elements, d.ForMarker.Strip.Next, d.EndForMarker.Strip.Prev, depth+1)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}
