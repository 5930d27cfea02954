package eval

import (
	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/diagnostic"
	"github.com/openllb/hclgo/hclerr"
	"github.com/openllb/hclgo/internal/omap"
)

// MaxDepth is the default recursion ceiling for Evaluate, guarding against
// unbounded expansion of self-referential for-expressions and traversals.
const MaxDepth = 512

// Evaluate reduces e to a Value under ctx, using MaxDepth as the recursion
// ceiling.
func Evaluate(ctx *Context, e ast.Expression) (Value, error) {
	return evalDepth(ctx, e, 0)
}

func withSpan(err error, sp ast.Span) error {
	return hclerr.WithSpan(err, sp)
}

func evalDepth(ctx *Context, e ast.Expression, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, &hclerr.RecursionLimit{Span: e.Span(), Limit: MaxDepth}
	}

	switch n := e.(type) {
	case *ast.NullLit:
		return Null(), nil

	case *ast.BoolLit:
		return Bool(n.Value), nil

	case *ast.NumberLit:
		return Num(n.Value), nil

	case *ast.StringLit:
		return Str(n.Value), nil

	case *ast.Parenthesis:
		return evalDepth(ctx, n.Inner, depth+1)

	case *ast.ArrayCons:
		vs := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := evalDepth(ctx, el, depth+1)
			if err != nil {
				return Value{}, err
			}
			vs[i] = v
		}
		return Arr(vs), nil

	case *ast.ObjectCons:
		m := omap.New[string, Value]()
		for _, item := range n.Items {
			key, err := evalObjectKey(ctx, item.Key, depth)
			if err != nil {
				return Value{}, err
			}
			v, err := evalDepth(ctx, item.Value, depth+1)
			if err != nil {
				return Value{}, err
			}
			m.Set(key, v)
		}
		return Obj(m), nil

	case *ast.StringTemplate:
		// Interpolation unwrapping: `"${x}"` with nothing around the
		// interpolation yields x's value uncoerced, not its string form.
		if inner, ok := singleInterpolation(n.Tmpl); ok {
			return evalDepth(ctx, inner, depth+1)
		}
		s, err := evalTemplate(ctx, n.Tmpl, depth)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil

	case *ast.HeredocTemplate:
		s, err := evalTemplate(ctx, n.Tmpl, depth)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil

	case *ast.Variable:
		v, ok := ctx.LookupVar(string(n.Name))
		if !ok {
			return Value{}, &hclerr.UndefinedVar{
				Name:       string(n.Name),
				Span:       n.Span(),
				Suggestion: diagnostic.Suggestion(string(n.Name), ctx.VarNames()),
			}
		}
		return v, nil

	case *ast.Traversal:
		return evalTraversal(ctx, n, depth)

	case *ast.FuncCall:
		return evalFuncCall(ctx, n, depth)

	case *ast.UnaryOp:
		return evalUnaryOp(ctx, n, depth)

	case *ast.BinaryOp:
		return evalBinaryOp(ctx, n, depth)

	case *ast.Conditional:
		cond, err := evalDepth(ctx, n.Cond, depth+1)
		if err != nil {
			return Value{}, err
		}
		if cond.Kind != KindBool {
			return Value{}, withSpan(&hclerr.ConditionType{Got: cond.TypeName()}, n.Cond.Span())
		}
		if cond.Bool {
			return evalDepth(ctx, n.True, depth+1)
		}
		return evalDepth(ctx, n.False, depth+1)

	case *ast.ForExpr:
		return evalForExpr(ctx, n, depth)

	default:
		return Value{}, withSpan(&hclerr.TraversalType{Got: "unknown expression"}, e.Span())
	}
}

func singleInterpolation(t *ast.Template) (ast.Expression, bool) {
	if t == nil || len(t.Elements) != 1 || t.Elements[0].Kind() != ast.ElemInterpolation {
		return nil, false
	}
	return t.Elements[0].Interpolation.Expr, true
}

func evalObjectKey(ctx *Context, key ast.ObjectKey, depth int) (string, error) {
	if key.IsIdent() {
		return string(key.Ident.Value), nil
	}
	v, err := evalDepth(ctx, key.Expr, depth+1)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func evalUnaryOp(ctx *Context, n *ast.UnaryOp, depth int) (Value, error) {
	v, err := evalDepth(ctx, n.Expr, depth+1)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.OpNeg:
		if v.Kind != KindNumber {
			return Value{}, withSpan(&hclerr.UnaryOpType{Op: "-", Got: v.TypeName()}, n.Span())
		}
		neg, err := v.Number.Mul(ast.NewIntNumber(-1))
		if err != nil {
			return Value{}, err
		}
		return Num(neg), nil
	case ast.OpNot:
		if v.Kind != KindBool {
			return Value{}, withSpan(&hclerr.UnaryOpType{Op: "!", Got: v.TypeName()}, n.Span())
		}
		return Bool(!v.Bool), nil
	default:
		return Value{}, withSpan(&hclerr.UnaryOpType{Op: "?", Got: v.TypeName()}, n.Span())
	}
}

func evalBinaryOp(ctx *Context, n *ast.BinaryOp, depth int) (Value, error) {
	lhs, err := evalDepth(ctx, n.LHS, depth+1)
	if err != nil {
		return Value{}, err
	}

	op := n.Op.Value

	// Short-circuit && and ||: the RHS is only evaluated when it can
	// affect the result.
	if op == ast.OpAnd || op == ast.OpOr {
		if lhs.Kind != KindBool {
			return Value{}, withSpan(&hclerr.BinaryOpType{Op: op.String(), LHS: lhs.TypeName(), RHS: "?"}, n.Span())
		}
		if op == ast.OpAnd && !lhs.Bool {
			return Bool(false), nil
		}
		if op == ast.OpOr && lhs.Bool {
			return Bool(true), nil
		}
		rhs, err := evalDepth(ctx, n.RHS, depth+1)
		if err != nil {
			return Value{}, err
		}
		if rhs.Kind != KindBool {
			return Value{}, withSpan(&hclerr.BinaryOpType{Op: op.String(), LHS: lhs.TypeName(), RHS: rhs.TypeName()}, n.Span())
		}
		return rhs, nil
	}

	rhs, err := evalDepth(ctx, n.RHS, depth+1)
	if err != nil {
		return Value{}, err
	}

	switch op {
	case ast.OpEq:
		return Bool(lhs.Equal(rhs)), nil
	case ast.OpNotEq:
		return Bool(!lhs.Equal(rhs)), nil
	}

	if lhs.Kind != KindNumber || rhs.Kind != KindNumber {
		return Value{}, withSpan(&hclerr.BinaryOpType{Op: op.String(), LHS: lhs.TypeName(), RHS: rhs.TypeName()}, n.Span())
	}

	switch op {
	case ast.OpMul:
		v, err := lhs.Number.Mul(rhs.Number)
		return Num(v), err
	case ast.OpDiv:
		v, err := lhs.Number.Div(rhs.Number)
		if err != nil {
			return Value{}, withSpan(&hclerr.DivideByZero{Op: "/"}, n.Span())
		}
		return Num(v), nil
	case ast.OpMod:
		v, err := lhs.Number.Mod(rhs.Number)
		if err != nil {
			return Value{}, withSpan(&hclerr.DivideByZero{Op: "%"}, n.Span())
		}
		return Num(v), nil
	case ast.OpPlus:
		v, err := lhs.Number.Add(rhs.Number)
		return Num(v), err
	case ast.OpMinus:
		v, err := lhs.Number.Sub(rhs.Number)
		return Num(v), err
	case ast.OpLess:
		return Bool(lhs.Number.Less(rhs.Number)), nil
	case ast.OpLessEq:
		return Bool(lhs.Number.LessEqual(rhs.Number)), nil
	case ast.OpGreater:
		return Bool(!lhs.Number.LessEqual(rhs.Number)), nil
	case ast.OpGreaterEq:
		return Bool(!lhs.Number.Less(rhs.Number)), nil
	default:
		return Value{}, withSpan(&hclerr.BinaryOpType{Op: op.String(), LHS: lhs.TypeName(), RHS: rhs.TypeName()}, n.Span())
	}
}

func evalFuncCall(ctx *Context, n *ast.FuncCall, depth int) (Value, error) {
	def, ok := ctx.LookupFunc(string(n.Name))
	if !ok {
		return Value{}, &hclerr.UndefinedFunc{
			Name:       string(n.Name),
			Span:       n.Span(),
			Suggestion: diagnostic.Suggestion(string(n.Name), ctx.FuncNames()),
		}
	}

	var args []Value
	for i, a := range n.Args {
		v, err := evalDepth(ctx, a, depth+1)
		if err != nil {
			return Value{}, err
		}
		if n.ExpandFinal && i == len(n.Args)-1 {
			if v.Kind != KindArray {
				return Value{}, withSpan(&hclerr.FuncArgType{Name: string(n.Name), Index: i, Expected: "array", Got: v.TypeName()}, a.Span())
			}
			args = append(args, v.Array...)
			continue
		}
		args = append(args, v)
	}

	if !def.arity(len(args)) {
		expected := len(def.Params)
		return Value{}, &hclerr.FuncArity{Name: string(n.Name), Span: n.Span(), Expected: expected, Got: len(args)}
	}
	for i, a := range args {
		pt := def.paramAt(i)
		if !pt.matches(a) {
			return Value{}, &hclerr.FuncArgType{Name: string(n.Name), Span: n.Span(), Index: i, Expected: pt.String(), Got: a.TypeName()}
		}
	}

	v, err := def.Impl(args)
	if err != nil {
		return Value{}, &hclerr.FuncCall{Name: string(n.Name), Span: n.Span(), Err: err}
	}
	return v, nil
}

func evalTraversal(ctx *Context, n *ast.Traversal, depth int) (Value, error) {
	v, err := evalDepth(ctx, n.Expr, depth+1)
	if err != nil {
		return Value{}, err
	}
	for i := 0; i < len(n.Operators); i++ {
		op := n.Operators[i].Value
		switch op.Kind {
		case ast.OpGetAttr:
			if v.Kind != KindObject {
				return Value{}, withSpan(&hclerr.TraversalType{Got: v.TypeName()}, n.Operators[i].Span())
			}
			name := string(op.GetAttr)
			nv, ok := v.Object.Get(name)
			if !ok {
				return Value{}, withSpan(&hclerr.NoSuchKey{Key: name, Suggestion: diagnostic.Suggestion(name, v.Object.Keys())}, n.Operators[i].Span())
			}
			v = nv

		case ast.OpIndex:
			idx, err := evalDepth(ctx, op.Index, depth+1)
			if err != nil {
				return Value{}, err
			}
			v, err = indexValue(v, idx, n.Operators[i].Span())
			if err != nil {
				return Value{}, err
			}

		case ast.OpLegacyIndex:
			v, err = indexValue(v, Num(ast.NewUintNumber(op.LegacyIndex)), n.Operators[i].Span())
			if err != nil {
				return Value{}, err
			}

		case ast.OpAttrSplat, ast.OpFullSplat:
			rest := n.Operators[i+1:]
			return evalSplat(ctx, v, op.Kind, rest, depth)
		}
	}
	return v, nil
}

// indexValue applies a single `[idx]`/legacy `.N` index operator to v.
func indexValue(v, idx Value, sp ast.Span) (Value, error) {
	switch v.Kind {
	case KindArray:
		if idx.Kind != KindNumber {
			return Value{}, withSpan(&hclerr.TraversalType{Got: idx.TypeName()}, sp)
		}
		i := int64(idx.Number.Float())
		if i < 0 || i >= int64(len(v.Array)) {
			return Value{}, withSpan(&hclerr.IndexOutOfRange{Index: i, Len: len(v.Array)}, sp)
		}
		return v.Array[i], nil
	case KindObject:
		key := idx.String()
		nv, ok := v.Object.Get(key)
		if !ok {
			return Value{}, withSpan(&hclerr.NoSuchKey{Key: key, Suggestion: diagnostic.Suggestion(key, v.Object.Keys())}, sp)
		}
		return nv, nil
	default:
		return Value{}, withSpan(&hclerr.TraversalType{Got: v.TypeName()}, sp)
	}
}

// evalSplat applies a `.*`/`[*]` splat: an array is used as is, null
// becomes an empty array, and any other value is treated as a one-element
// array of itself, for both splat kinds. Every operator after the splat is
// applied per-element, and the splat's result is always an array.
func evalSplat(ctx *Context, v Value, kind ast.TraversalOperatorKind, rest []ast.Decorated[ast.TraversalOperator], depth int) (Value, error) {
	var elems []Value
	switch v.Kind {
	case KindArray:
		elems = v.Array
	case KindNull:
		return Arr(nil), nil
	default:
		// A single non-null value splats as a one-element array.
		elems = []Value{v}
	}

	out := make([]Value, len(elems))
	for i, e := range elems {
		cur := e
		for j := 0; j < len(rest); j++ {
			op := rest[j].Value
			var err error
			switch op.Kind {
			case ast.OpGetAttr:
				if cur.Kind != KindObject {
					return Value{}, withSpan(&hclerr.TraversalType{Got: cur.TypeName()}, rest[j].Span())
				}
				name := string(op.GetAttr)
				nv, ok := cur.Object.Get(name)
				if !ok {
					return Value{}, withSpan(&hclerr.NoSuchKey{Key: name, Suggestion: diagnostic.Suggestion(name, cur.Object.Keys())}, rest[j].Span())
				}
				cur = nv
			case ast.OpIndex:
				idx, ierr := evalDepth(ctx, op.Index, depth+1)
				if ierr != nil {
					return Value{}, ierr
				}
				cur, err = indexValue(cur, idx, rest[j].Span())
			case ast.OpLegacyIndex:
				cur, err = indexValue(cur, Num(ast.NewUintNumber(op.LegacyIndex)), rest[j].Span())
			case ast.OpAttrSplat, ast.OpFullSplat:
				// A nested splat absorbs the rest of the chain for this
				// element only.
				cur, err = evalSplat(ctx, cur, op.Kind, rest[j+1:], depth)
				j = len(rest)
			}
			if err != nil {
				return Value{}, err
			}
		}
		out[i] = cur
	}
	return Arr(out), nil
}

func evalForExpr(ctx *Context, n *ast.ForExpr, depth int) (Value, error) {
	coll, err := evalDepth(ctx, n.Intro.Collection, depth+1)
	if err != nil {
		return Value{}, err
	}

	type kv struct {
		key Value
		val Value
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
		return Value{}, withSpan(&hclerr.ForExprCollection{Got: coll.TypeName()}, n.Intro.Collection.Span())
	}

	if n.KeyExpr != nil {
		result := omap.New[string, Value]()
		for _, it := range items {
			child := ctx.Child()
			bindForVars(child, n.Intro, it.key, it.val)
			if n.Cond != nil {
				ok, err := evalCond(child, n.Cond, depth)
				if err != nil {
					return Value{}, err
				}
				if !ok {
					continue
				}
			}
			key, err := evalDepth(child, n.KeyExpr, depth+1)
			if err != nil {
				return Value{}, err
			}
			val, err := evalDepth(child, n.ValueExpr, depth+1)
			if err != nil {
				return Value{}, err
			}
			ks := key.String()
			if n.Grouping {
				result.Update(ks, func(cur Value, existed bool) Value {
					if !existed {
						return Arr([]Value{val})
					}
					return Arr(append(cur.Array, val))
				})
			} else {
				if result.Has(ks) {
					return Value{}, withSpan(&hclerr.KeyExists{Key: ks}, n.Span())
				}
				result.Set(ks, val)
			}
		}
		return Obj(result), nil
	}

	var out []Value
	for _, it := range items {
		child := ctx.Child()
		bindForVars(child, n.Intro, it.key, it.val)
		if n.Cond != nil {
			ok, err := evalCond(child, n.Cond, depth)
			if err != nil {
				return Value{}, err
			}
			if !ok {
				continue
			}
		}
		val, err := evalDepth(child, n.ValueExpr, depth+1)
		if err != nil {
			return Value{}, err
		}
		out = append(out, val)
	}
	return Arr(out), nil
}

func bindForVars(ctx *Context, intro ast.ForIntro, key, val Value) {
	if intro.KeyVar != nil {
		ctx.DeclareVar(string(*intro.KeyVar), key)
		ctx.DeclareVar(string(intro.ValueVar), val)
	} else {
		ctx.DeclareVar(string(intro.ValueVar), val)
	}
}

func evalCond(ctx *Context, cond ast.Expression, depth int) (bool, error) {
	v, err := evalDepth(ctx, cond, depth+1)
	if err != nil {
		return false, err
	}
	if v.Kind != KindBool {
		return false, withSpan(&hclerr.ConditionType{Got: v.TypeName()}, cond.Span())
	}
	return v.Bool, nil
}
