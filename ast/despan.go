package ast

// DecoratedBody pairs a parsed Body with the input buffer it was parsed
// from, so RawStrings that have not been despanned yet can still be
// resolved by the encoder.
type DecoratedBody struct {
	Body  *Body
	Input []byte
}

// Despan detaches db's tree from its input buffer by materializing every
// RawString's referenced bytes into an owned copy, after which the
// original input slice may be released.
func (db *DecoratedBody) Despan() {
	DespanBody(db.Body, db.Input)
}

// DespanBody recursively despans every Decor/RawString reachable from b.
func DespanBody(b *Body, input []byte) {
	if b == nil {
		return
	}
	b.node.despanSelf(input)
	b.Trailing.Despan(input)
	for i := range b.Structures {
		despanStructure(&b.Structures[i], input)
	}
}

func despanStructure(s *Structure, input []byte) {
	s.node.despanSelf(input)
	switch {
	case s.Attribute != nil:
		despanAttribute(s.Attribute, input)
	case s.Block != nil:
		despanBlock(s.Block, input)
	}
}

func despanAttribute(a *Attribute, input []byte) {
	a.node.despanSelf(input)
	a.Name.Despan(input)
	DespanExpr(a.Value, input)
}

func despanBlock(blk *Block, input []byte) {
	blk.node.despanSelf(input)
	blk.Name.Despan(input)
	for i := range blk.Labels {
		l := &blk.Labels[i]
		if l.Ident != nil {
			l.Ident.Despan(input)
		}
		if l.Str != nil {
			l.Str.Despan(input)
		}
	}
	switch blk.Body.Kind() {
	case BodyMultiline:
		DespanBody(blk.Body.Multiline, input)
	case BodyOneline:
		despanAttribute(blk.Body.Oneline, input)
	case BodyEmpty:
		if blk.Body.Empty != nil {
			blk.Body.Empty.Despan(input)
		}
	}
}

// DespanExpr recursively despans every Decor/RawString reachable from e.
func DespanExpr(e Expression, input []byte) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *NullLit:
		v.node.despanSelf(input)
	case *BoolLit:
		v.node.despanSelf(input)
	case *NumberLit:
		v.node.despanSelf(input)
	case *StringLit:
		v.node.despanSelf(input)
	case *ArrayCons:
		v.node.despanSelf(input)
		v.Trailing.Despan(input)
		for _, el := range v.Elems {
			DespanExpr(el, input)
		}
	case *ObjectCons:
		v.node.despanSelf(input)
		v.Trailing.Despan(input)
		for i := range v.Items {
			it := &v.Items[i]
			it.node.despanSelf(input)
			if it.Key.Ident != nil {
				it.Key.Ident.Despan(input)
			} else {
				DespanExpr(it.Key.Expr, input)
			}
			DespanExpr(it.Value, input)
		}
	case *StringTemplate:
		v.node.despanSelf(input)
		despanTemplate(v.Tmpl, input)
	case *HeredocTemplate:
		v.node.despanSelf(input)
		v.Trailing.Despan(input)
		despanTemplate(v.Tmpl, input)
	case *Parenthesis:
		v.node.despanSelf(input)
		DespanExpr(v.Inner, input)
	case *Variable:
		v.node.despanSelf(input)
	case *Traversal:
		v.node.despanSelf(input)
		DespanExpr(v.Expr, input)
		for i := range v.Operators {
			op := &v.Operators[i]
			op.Despan(input)
			if op.Value.Kind == OpIndex {
				DespanExpr(op.Value.Index, input)
			}
		}
	case *FuncCall:
		v.node.despanSelf(input)
		v.Trailing.Despan(input)
		for _, a := range v.Args {
			DespanExpr(a, input)
		}
	case *UnaryOp:
		v.node.despanSelf(input)
		DespanExpr(v.Expr, input)
	case *BinaryOp:
		v.node.despanSelf(input)
		v.Op.Despan(input)
		DespanExpr(v.LHS, input)
		DespanExpr(v.RHS, input)
	case *Conditional:
		v.node.despanSelf(input)
		DespanExpr(v.Cond, input)
		DespanExpr(v.True, input)
		DespanExpr(v.False, input)
	case *ForExpr:
		v.node.despanSelf(input)
		DespanExpr(v.Intro.Collection, input)
		DespanExpr(v.KeyExpr, input)
		DespanExpr(v.ValueExpr, input)
		DespanExpr(v.Cond, input)
	}
}

func despanMarker(m *DirectiveMarker, input []byte) {
	m.Preamble.Despan(input)
	m.Trailing.Despan(input)
}

func despanTemplate(t *Template, input []byte) {
	if t == nil {
		return
	}
	for i := range t.Elements {
		el := &t.Elements[i]
		switch el.Kind() {
		case ElemInterpolation:
			el.Interpolation.node.despanSelf(input)
			DespanExpr(el.Interpolation.Expr, input)
		case ElemDirective:
			d := el.Directive
			d.node.despanSelf(input)
			switch {
			case d.If != nil:
				despanMarker(&d.If.IfMarker, input)
				if d.If.ElseMarker != nil {
					despanMarker(d.If.ElseMarker, input)
				}
				despanMarker(&d.If.EndIfMarker, input)
				DespanExpr(d.If.Cond, input)
				despanTemplate(d.If.Then, input)
				despanTemplate(d.If.Else, input)
			case d.For != nil:
				despanMarker(&d.For.ForMarker, input)
				despanMarker(&d.For.EndForMarker, input)
				DespanExpr(d.For.Collection, input)
				despanTemplate(d.For.Body, input)
			}
		}
	}
}

// Plain returns a deep copy of b with every node's Decor zeroed, i.e. the
// lossy evaluator-facing view of the tree. Spans are retained so that
// evaluation errors still carry source provenance.
func (b *Body) Plain() *Body {
	if b == nil {
		return nil
	}
	cp := &Body{node: node{span: b.span}, PreferOneline: b.PreferOneline}
	for _, s := range b.Structures {
		cp.Structures = append(cp.Structures, plainStructure(s))
	}
	return cp
}

func plainStructure(s Structure) Structure {
	out := Structure{node: node{span: s.node.span}}
	switch {
	case s.Attribute != nil:
		out.Attribute = plainAttribute(s.Attribute)
	case s.Block != nil:
		out.Block = plainBlock(s.Block)
	}
	return out
}

func plainAttribute(a *Attribute) *Attribute {
	return &Attribute{
		node:  node{span: a.node.span},
		Name:  Decorated[Identifier]{Value: a.Name.Value, Sp: a.Name.Sp},
		Value: PlainExpr(a.Value),
	}
}

func plainBlock(blk *Block) *Block {
	out := &Block{
		node: node{span: blk.node.span},
		Name: Decorated[Identifier]{Value: blk.Name.Value, Sp: blk.Name.Sp},
	}
	for _, l := range blk.Labels {
		var pl BlockLabel
		if l.Ident != nil {
			pl.Ident = &Decorated[Identifier]{Value: l.Ident.Value, Sp: l.Ident.Sp}
		}
		if l.Str != nil {
			pl.Str = &Decorated[string]{Value: l.Str.Value, Sp: l.Str.Sp}
		}
		out.Labels = append(out.Labels, pl)
	}
	switch blk.Body.Kind() {
	case BodyMultiline:
		out.Body = BlockBody{Multiline: blk.Body.Multiline.Plain()}
	case BodyOneline:
		out.Body = BlockBody{Oneline: plainAttribute(blk.Body.Oneline)}
	case BodyEmpty:
		out.Body = BlockBody{}
	}
	return out
}

// PlainExpr returns a deep copy of e with every node's Decor zeroed.
func PlainExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *NullLit:
		return &NullLit{node: node{span: v.span}}
	case *BoolLit:
		return &BoolLit{node: node{span: v.span}, Value: v.Value}
	case *NumberLit:
		return &NumberLit{node: node{span: v.span}, Value: v.Value, Raw: v.Raw}
	case *StringLit:
		return &StringLit{node: node{span: v.span}, Value: v.Value}
	case *ArrayCons:
		out := &ArrayCons{node: node{span: v.span}, TrailingComma: v.TrailingComma}
		for _, el := range v.Elems {
			out.Elems = append(out.Elems, PlainExpr(el))
		}
		return out
	case *ObjectCons:
		out := &ObjectCons{node: node{span: v.span}}
		for _, it := range v.Items {
			key := ObjectKey{Expr: PlainExpr(it.Key.Expr)}
			if it.Key.Ident != nil {
				id := Decorated[Identifier]{Value: it.Key.Ident.Value, Sp: it.Key.Ident.Sp}
				key.Ident = &id
			}
			out.Items = append(out.Items, ObjectItem{
				node:  node{span: it.node.span},
				Key:   key,
				Sep:   it.Sep,
				Value: PlainExpr(it.Value),
				Term:  it.Term,
			})
		}
		return out
	case *StringTemplate:
		return &StringTemplate{node: node{span: v.span}, Tmpl: plainTemplate(v.Tmpl)}
	case *HeredocTemplate:
		var indent *int
		if v.Indent != nil {
			i := *v.Indent
			indent = &i
		}
		return &HeredocTemplate{node: node{span: v.span}, Delimiter: v.Delimiter, Tmpl: plainTemplate(v.Tmpl), Indent: indent}
	case *Parenthesis:
		return &Parenthesis{node: node{span: v.span}, Inner: PlainExpr(v.Inner)}
	case *Variable:
		return &Variable{node: node{span: v.span}, Name: v.Name}
	case *Traversal:
		out := &Traversal{node: node{span: v.span}, Expr: PlainExpr(v.Expr)}
		for _, op := range v.Operators {
			plainOp := op.Value
			if plainOp.Kind == OpIndex {
				plainOp.Index = PlainExpr(plainOp.Index)
			}
			out.Operators = append(out.Operators, Decorated[TraversalOperator]{Value: plainOp, Sp: op.Sp})
		}
		return out
	case *FuncCall:
		out := &FuncCall{node: node{span: v.span}, Name: v.Name, ExpandFinal: v.ExpandFinal, TrailingComma: v.TrailingComma}
		for _, a := range v.Args {
			out.Args = append(out.Args, PlainExpr(a))
		}
		return out
	case *UnaryOp:
		return &UnaryOp{node: node{span: v.span}, Op: v.Op, Expr: PlainExpr(v.Expr)}
	case *BinaryOp:
		return &BinaryOp{
			node: node{span: v.span},
			LHS:  PlainExpr(v.LHS),
			Op:   Decorated[BinaryOperator]{Value: v.Op.Value, Sp: v.Op.Sp},
			RHS:  PlainExpr(v.RHS),
		}
	case *Conditional:
		return &Conditional{node: node{span: v.span}, Cond: PlainExpr(v.Cond), True: PlainExpr(v.True), False: PlainExpr(v.False)}
	case *ForExpr:
		out := &ForExpr{
			node: node{span: v.span},
			Intro: ForIntro{
				KeyVar:     v.Intro.KeyVar,
				ValueVar:   v.Intro.ValueVar,
				Collection: PlainExpr(v.Intro.Collection),
			},
			KeyExpr:   PlainExpr(v.KeyExpr),
			ValueExpr: PlainExpr(v.ValueExpr),
			Grouping:  v.Grouping,
			Cond:      PlainExpr(v.Cond),
		}
		return out
	default:
		return nil
	}
}

func plainTemplate(t *Template) *Template {
	if t == nil {
		return nil
	}
	out := &Template{}
	for _, el := range t.Elements {
		switch el.Kind() {
		case ElemLiteral:
			lit := Spanned[string]{Value: el.Literal.Value, Sp: el.Literal.Sp}
			out.Elements = append(out.Elements, TemplateElement{Literal: &lit})
		case ElemInterpolation:
			interp := &Interpolation{
				node:  node{span: el.Interpolation.span},
				Expr:  PlainExpr(el.Interpolation.Expr),
				Strip: el.Interpolation.Strip,
			}
			out.Elements = append(out.Elements, TemplateElement{Interpolation: interp})
		case ElemDirective:
			d := el.Directive
			plain := &Directive{node: node{span: d.span}}
			switch {
			case d.If != nil:
				var elseTmpl *Template
				if d.If.Else != nil {
					elseTmpl = plainTemplate(d.If.Else)
				}
				plain.If = &IfDirective{
					Cond:        PlainExpr(d.If.Cond),
					Then:        plainTemplate(d.If.Then),
					Else:        elseTmpl,
					IfMarker:    DirectiveMarker{Strip: d.If.IfMarker.Strip},
					EndIfMarker: DirectiveMarker{Strip: d.If.EndIfMarker.Strip},
				}
				if d.If.ElseMarker != nil {
					em := DirectiveMarker{Strip: d.If.ElseMarker.Strip}
					plain.If.ElseMarker = &em
				}
			case d.For != nil:
				plain.For = &ForDirective{
					KeyVar:       d.For.KeyVar,
					ValueVar:     d.For.ValueVar,
					Collection:   PlainExpr(d.For.Collection),
					Body:         plainTemplate(d.For.Body),
					ForMarker:    DirectiveMarker{Strip: d.For.ForMarker.Strip},
					EndForMarker: DirectiveMarker{Strip: d.For.EndForMarker.Strip},
				}
			}
			out.Elements = append(out.Elements, TemplateElement{Directive: plain})
		}
	}
	return out
}
