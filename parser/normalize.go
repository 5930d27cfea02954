package parser

import "github.com/openllb/hclgo/ast"

// Normalize reshapes every BinaryOp chain reachable from e into the
// unique left-associative, precedence-correct tree implied by
// BinaryOperator.Precedence, recursing into every structural child
// expression (array elements, object values, call arguments, traversal
// indices, conditional branches, for-expression parts, and template
// interpolations/directives). It is idempotent: normalizing an
// already-normalized tree returns an equivalent tree.
func Normalize(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.BinaryOp:
		operands, ops := flattenBinaryChain(v)
		for i := range operands {
			operands[i] = Normalize(operands[i])
		}
		return rebuildByPrecedence(operands, ops)
	case *ast.UnaryOp:
		v.Expr = Normalize(v.Expr)
		return v
	case *ast.Parenthesis:
		v.Inner = Normalize(v.Inner)
		return v
	case *ast.ArrayCons:
		for i := range v.Elems {
			v.Elems[i] = Normalize(v.Elems[i])
		}
		return v
	case *ast.ObjectCons:
		for i := range v.Items {
			if v.Items[i].Key.Expr != nil {
				v.Items[i].Key.Expr = Normalize(v.Items[i].Key.Expr)
			}
			v.Items[i].Value = Normalize(v.Items[i].Value)
		}
		return v
	case *ast.FuncCall:
		for i := range v.Args {
			v.Args[i] = Normalize(v.Args[i])
		}
		return v
	case *ast.Traversal:
		v.Expr = Normalize(v.Expr)
		for i := range v.Operators {
			if v.Operators[i].Value.Kind == ast.OpIndex && v.Operators[i].Value.Index != nil {
				v.Operators[i].Value.Index = Normalize(v.Operators[i].Value.Index)
			}
		}
		return v
	case *ast.Conditional:
		v.Cond = Normalize(v.Cond)
		v.True = Normalize(v.True)
		v.False = Normalize(v.False)
		return v
	case *ast.ForExpr:
		v.Intro.Collection = Normalize(v.Intro.Collection)
		if v.KeyExpr != nil {
			v.KeyExpr = Normalize(v.KeyExpr)
		}
		v.ValueExpr = Normalize(v.ValueExpr)
		if v.Cond != nil {
			v.Cond = Normalize(v.Cond)
		}
		return v
	case *ast.StringTemplate:
		normalizeTemplate(v.Tmpl)
		return v
	case *ast.HeredocTemplate:
		normalizeTemplate(v.Tmpl)
		return v
	default:
		return e
	}
}

func normalizeTemplate(t *ast.Template) {
	if t == nil {
		return
	}
	for i := range t.Elements {
		el := &t.Elements[i]
		switch {
		case el.Interpolation != nil:
			el.Interpolation.Expr = Normalize(el.Interpolation.Expr)
		case el.Directive != nil && el.Directive.If != nil:
			el.Directive.If.Cond = Normalize(el.Directive.If.Cond)
			normalizeTemplate(el.Directive.If.Then)
			normalizeTemplate(el.Directive.If.Else)
		case el.Directive != nil && el.Directive.For != nil:
			el.Directive.For.Collection = Normalize(el.Directive.For.Collection)
			normalizeTemplate(el.Directive.For.Body)
		}
	}
}

// flattenBinaryChain decomposes v into its sequence of operands and the
// operators between them. Because the parser's lhs is always built from
// parseUnary (never another BinaryOp), flattening only ever needs to walk
// down the rhs side.
func flattenBinaryChain(v *ast.BinaryOp) ([]ast.Expression, []ast.Decorated[ast.BinaryOperator]) {
	var operands []ast.Expression
	var ops []ast.Decorated[ast.BinaryOperator]
	cur := ast.Expression(v)
	for {
		b, ok := cur.(*ast.BinaryOp)
		if !ok {
			operands = append(operands, cur)
			return operands, ops
		}
		operands = append(operands, b.LHS)
		ops = append(ops, b.Op)
		cur = b.RHS
	}
}

// rebuildByPrecedence is the standard precedence-climbing reconstruction:
// operands[i] and operands[i+1] are joined by ops[i], and every operator
// in this grammar is left-associative.
func rebuildByPrecedence(operands []ast.Expression, ops []ast.Decorated[ast.BinaryOperator]) ast.Expression {
	i := 0
	var climb func(minPrec int) ast.Expression
	climb = func(minPrec int) ast.Expression {
		lhs := operands[i]
		i++
		for i-1 < len(ops) && ops[i-1].Value.Precedence() >= minPrec {
			op := ops[i-1]
			rhs := climb(op.Value.Precedence() + 1)
			node := &ast.BinaryOp{LHS: lhs, Op: op, RHS: rhs}
			node.SetSpan(lhs.Span().Union(rhs.Span()))
			lhs = node
		}
		return lhs
	}
	return climb(0)
}
