package eval

import (
	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/hclerr"
	"github.com/openllb/hclgo/internal/omap"
)

// EvaluateBody reduces body to an Object Value: each attribute becomes a
// key, and each block's name becomes a key holding the block's own
// evaluated body. A block name that repeats collects into an array of its
// bodies, so callers can distinguish a singleton block from a repeated one
// without a schema.
func EvaluateBody(ctx *Context, body *ast.Body) (Value, error) {
	result := omap.New[string, Value]()
	if body == nil {
		return Obj(result), nil
	}
	for _, st := range body.Structures {
		switch {
		case st.Attribute != nil:
			v, err := Evaluate(ctx, st.Attribute.Value)
			if err != nil {
				return Value{}, err
			}
			result.Set(string(st.Attribute.Name.Value), v)

		case st.Block != nil:
			bv, err := evalBlockBody(ctx, st.Block.Body)
			if err != nil {
				return Value{}, err
			}
			name := string(st.Block.Name.Value)
			result.Update(name, func(cur Value, existed bool) Value {
				if !existed {
					return bv
				}
				if cur.Kind == KindArray {
					return Arr(append(cur.Array, bv))
				}
				return Arr([]Value{cur, bv})
			})
		}
	}
	return Obj(result), nil
}

func evalBlockBody(ctx *Context, bb ast.BlockBody) (Value, error) {
	switch bb.Kind() {
	case ast.BodyMultiline:
		return EvaluateBody(ctx, bb.Multiline)
	case ast.BodyOneline:
		v, err := Evaluate(ctx, bb.Oneline.Value)
		if err != nil {
			return Value{}, err
		}
		m := omap.New[string, Value]()
		m.Set(string(bb.Oneline.Name.Value), v)
		return Obj(m), nil
	default:
		return Obj(omap.New[string, Value]()), nil
	}
}

// valueToExpr converts an evaluated Value back into a plain AST literal
// Expression, for EvaluateInPlace to splice in as a replacement.
func valueToExpr(v Value) ast.Expression {
	switch v.Kind {
	case KindNull:
		return ast.NewNullLit()
	case KindBool:
		return ast.NewBoolLit(v.Bool)
	case KindNumber:
		return ast.NewNumberLit(v.Number)
	case KindString:
		return ast.NewStringLit(v.Str)
	case KindArray:
		elems := make([]ast.Expression, len(v.Array))
		for i, e := range v.Array {
			elems[i] = valueToExpr(e)
		}
		return ast.NewArrayCons(elems...)
	case KindObject:
		var items []ast.ObjectItem
		v.Object.ForEach(func(k string, val Value) {
			items = append(items, ast.ObjectItem{
				Key:   objectKeyFor(k),
				Sep:   ast.SepEquals,
				Value: valueToExpr(val),
				Term:  ast.TermNewline,
			})
		})
		return ast.NewObjectCons(items...)
	default:
		return ast.NewNullLit()
	}
}

func objectKeyFor(k string) ast.ObjectKey {
	if id, err := ast.NewIdentifier(k); err == nil {
		d := ast.NewDecorated(id, ast.Span{})
		return ast.ObjectKey{Ident: &d}
	}
	return ast.ObjectKey{Expr: ast.NewStringLit(k)}
}

func evaluateAttrInPlace(ctx *Context, attr *ast.Attribute, errs *hclerr.Errors) {
	if isLiteral(attr.Value) {
		return
	}
	v, err := Evaluate(ctx, attr.Value)
	if err != nil {
		errs.Add(err)
		return
	}
	attr.SetValue(valueToExpr(v))
}

// isLiteral reports whether e is already a literal value; such values are
// left in place untouched rather than cloned through Evaluate.
func isLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.NullLit, *ast.BoolLit, *ast.NumberLit, *ast.StringLit:
		return true
	default:
		return false
	}
}

// EvaluateInPlace walks body and replaces every attribute's value
// expression with its evaluated literal form, recursing into nested block
// bodies. Unlike Evaluate, it does not stop at the first error: every
// failing attribute is recorded and the walk continues, so a caller sees
// every problem in one pass.
func EvaluateInPlace(ctx *Context, body *ast.Body) *hclerr.Errors {
	errs := &hclerr.Errors{}
	evaluateBodyInPlace(ctx, body, errs)
	return errs
}

func evaluateBodyInPlace(ctx *Context, body *ast.Body, errs *hclerr.Errors) {
	if body == nil {
		return
	}
	for i := range body.Structures {
		st := &body.Structures[i]
		switch {
		case st.Attribute != nil:
			evaluateAttrInPlace(ctx, st.Attribute, errs)

		case st.Block != nil:
			switch st.Block.Body.Kind() {
			case ast.BodyMultiline:
				evaluateBodyInPlace(ctx, st.Block.Body.Multiline, errs)
			case ast.BodyOneline:
				evaluateAttrInPlace(ctx, st.Block.Body.Oneline, errs)
			}
		}
	}
}
