package parser

import (
	"strconv"

	"github.com/openllb/hclgo/ast"
)

// ParseExpression parses a standalone expression, for callers that only
// need the expression grammar (e.g. evaluating a single attribute value
// in isolation).
func ParseExpression(input []byte) (ast.Expression, error) {
	s := newScanner(input)
	e, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	s.ws()
	if !s.eof() {
		return nil, errorf(s.pos, "expression", "unexpected trailing input")
	}
	return Normalize(e), nil
}

// parseExpr parses a full expression, including the trailing
// `? true_expr : false_expr` of a Conditional.
func (s *scanner) parseExpr() (ast.Expression, error) {
	s.sp()
	cond, err := s.parseBinaryChain()
	if err != nil {
		return nil, err
	}
	save := s.pos
	s.sp()
	if s.peek() != '?' {
		s.pos = save
		return cond, nil
	}
	s.pos++
	s.ws()
	trueExpr, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	s.ws()
	if s.peek() != ':' {
		return nil, errorf(s.pos, "conditional expression", "expected ':'")
	}
	s.pos++
	s.ws()
	falseExpr, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	c := &ast.Conditional{Cond: cond, True: trueExpr, False: falseExpr}
	c.SetSpan(cond.Span().Union(falseExpr.Span()))
	return c, nil
}

// parseBinaryChain builds a flat, right-leaning BinaryOp chain with no
// regard for operator precedence: `a + b * c` parses as `a + (b * c)`
// only by accident of this being a two-element chain, and
// `a + b - c` parses as `a + (b - c)`. Normalize reshapes the result into
// the unique precedence-correct, left-associative tree.
func (s *scanner) parseBinaryChain() (ast.Expression, error) {
	lhs, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	save := s.pos
	s.sp()
	opStart := s.pos
	op, ok := s.scanBinaryOp()
	if !ok {
		s.pos = save
		return lhs, nil
	}
	s.pos += opLen(op)
	opSpan := s.span(opStart)
	s.ws()
	rhs, err := s.parseBinaryChain()
	if err != nil {
		return nil, err
	}
	decOp := ast.NewDecorated(op, opSpan)
	bop := &ast.BinaryOp{LHS: lhs, Op: decOp, RHS: rhs}
	bop.SetSpan(lhs.Span().Union(rhs.Span()))
	return bop, nil
}

func (s *scanner) scanBinaryOp() (ast.BinaryOperator, bool) {
	switch s.peek() {
	case '&':
		if s.peekAt(1) == '&' {
			return ast.OpAnd, true
		}
	case '|':
		if s.peekAt(1) == '|' {
			return ast.OpOr, true
		}
	case '=':
		if s.peekAt(1) == '=' {
			return ast.OpEq, true
		}
	case '!':
		if s.peekAt(1) == '=' {
			return ast.OpNotEq, true
		}
	case '<':
		if s.peekAt(1) == '=' {
			return ast.OpLessEq, true
		}
		return ast.OpLess, true
	case '>':
		if s.peekAt(1) == '=' {
			return ast.OpGreaterEq, true
		}
		return ast.OpGreater, true
	case '+':
		return ast.OpPlus, true
	case '-':
		return ast.OpMinus, true
	case '*':
		return ast.OpMul, true
	case '/':
		// `//` and `/*` open comments, never division.
		if s.peekAt(1) == '/' || s.peekAt(1) == '*' {
			return 0, false
		}
		return ast.OpDiv, true
	case '%':
		return ast.OpMod, true
	}
	return 0, false
}

func opLen(op ast.BinaryOperator) int {
	switch op {
	case ast.OpAnd, ast.OpOr, ast.OpEq, ast.OpNotEq, ast.OpLessEq, ast.OpGreaterEq:
		return 2
	default:
		return 1
	}
}

func (s *scanner) parseUnary() (ast.Expression, error) {
	s.sp()
	start := s.pos
	switch s.peek() {
	case '-':
		s.pos++
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		u := &ast.UnaryOp{Op: ast.OpNeg, Expr: inner}
		u.SetSpan(s.span(start))
		return u, nil
	case '!':
		s.pos++
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		u := &ast.UnaryOp{Op: ast.OpNot, Expr: inner}
		u.SetSpan(s.span(start))
		return u, nil
	default:
		return s.parseExprTerm()
	}
}

func (s *scanner) parseExprTerm() (ast.Expression, error) {
	base, err := s.parseOperand()
	if err != nil {
		return nil, err
	}
	return s.parseTraversalSuffix(base)
}

func (s *scanner) parseOperand() (ast.Expression, error) {
	s.sp()
	switch {
	case s.eof():
		return nil, errorf(s.pos, "expression", "unexpected end of input")
	case s.peek() == '"':
		return s.parseQuotedStringOperand()
	case s.peek() == '<' && s.peekAt(1) == '<':
		return s.parseHeredoc()
	case s.peek() == '[':
		return s.parseArrayOrForExpr()
	case s.peek() == '{':
		return s.parseObjectOrForExpr()
	case s.peek() == '(':
		return s.parseParenthesis()
	case isDigit(s.peek()):
		return s.parseNumberOperand()
	case ast.IsIdentifierStart(s.peek()):
		return s.parseIdentOperand()
	default:
		return nil, errorf(s.pos, "expression", "unexpected character %q", string(s.peek()))
	}
}

// parseTraversalSuffix consumes a (possibly empty) run of `.name`, `.N`,
// `.*`, `[expr]`, `[*]` operators following base.
func (s *scanner) parseTraversalSuffix(base ast.Expression) (ast.Expression, error) {
	var ops []ast.Decorated[ast.TraversalOperator]
loop:
	for {
		save := s.pos
		s.sp()
		switch {
		case s.peek() == '.' && s.peekAt(1) == '.':
			// `..` is never a traversal: it belongs to `...` (for-grouping
			// or expand-final), which the enclosing parser consumes.
			s.pos = save
			break loop
		case s.peek() == '.' && s.peekAt(1) == '*':
			start := s.pos
			s.pos += 2
			ops = append(ops, ast.NewDecorated(ast.TraversalOperator{Kind: ast.OpAttrSplat}, s.span(start)))
		case s.peek() == '.' && isDigit(s.peekAt(1)):
			start := s.pos
			s.pos++
			numStart := s.pos
			for isDigit(s.peek()) {
				s.pos++
			}
			n, _ := strconv.ParseUint(string(s.input[numStart:s.pos]), 10, 64)
			ops = append(ops, ast.NewDecorated(ast.TraversalOperator{Kind: ast.OpLegacyIndex, LegacyIndex: n}, s.span(start)))
		case s.peek() == '.':
			start := s.pos
			s.pos++
			id, err := s.scanIdent()
			if err != nil {
				return nil, err
			}
			ops = append(ops, ast.NewDecorated(ast.TraversalOperator{Kind: ast.OpGetAttr, GetAttr: id.Value}, s.span(start)))
		case s.peek() == '[':
			start := s.pos
			save2 := s.pos
			s.pos++
			s.ws()
			if s.peek() == '*' {
				s.pos++
				s.ws()
				if s.peek() == ']' {
					s.pos++
					ops = append(ops, ast.NewDecorated(ast.TraversalOperator{Kind: ast.OpFullSplat}, s.span(start)))
					continue loop
				}
			}
			s.pos = save2
			s.pos++ // '['
			s.ws()
			idx, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			s.ws()
			if s.peek() != ']' {
				return nil, errorf(s.pos, "index", "expected ']'")
			}
			s.pos++
			ops = append(ops, ast.NewDecorated(ast.TraversalOperator{Kind: ast.OpIndex, Index: idx}, s.span(start)))
		default:
			s.pos = save
			break loop
		}
	}
	if len(ops) == 0 {
		return base, nil
	}
	t := &ast.Traversal{Expr: base, Operators: ops}
	t.SetSpan(base.Span().Union(ops[len(ops)-1].Span()))
	return t, nil
}

func (s *scanner) parseQuotedStringOperand() (ast.Expression, error) {
	start := s.pos
	s.pos++ // opening quote
	tmpl, err := s.parseTemplateElements(modeQuoted, "", nil)
	if err != nil {
		return nil, err
	}
	if s.peek() != '"' {
		return nil, errorf(s.pos, "string", "unterminated quoted string")
	}
	s.pos++
	if len(tmpl.Elements) == 0 {
		lit := ast.NewStringLit("")
		lit.SetSpan(s.span(start))
		return lit, nil
	}
	if len(tmpl.Elements) == 1 && tmpl.Elements[0].Kind() == ast.ElemLiteral {
		lit := ast.NewStringLit(tmpl.Elements[0].Literal.Value)
		lit.SetSpan(s.span(start))
		return lit, nil
	}
	st := &ast.StringTemplate{Tmpl: tmpl}
	st.SetSpan(s.span(start))
	return st, nil
}

func (s *scanner) parseHeredoc() (ast.Expression, error) {
	start := s.pos
	s.pos += 2 // `<<`
	dash := false
	if s.peek() == '-' {
		dash = true
		s.pos++
	}
	delimText, ok := s.scanIdentBytes()
	if !ok {
		return nil, errorf(s.pos, "heredoc", "expected heredoc delimiter")
	}
	s.sp()
	if s.peek() != '\n' {
		return nil, errorf(s.pos, "heredoc", "expected newline after heredoc delimiter")
	}
	s.pos++
	tmpl, err := s.parseTemplateElements(modeHeredoc, delimText, nil)
	if err != nil {
		return nil, err
	}
	if _, ok := s.atHeredocEnd(delimText); !ok {
		return nil, errorf(s.pos, "heredoc", "unterminated heredoc")
	}
	for s.peek() == ' ' || s.peek() == '\t' {
		s.pos++
	}
	s.pos += len(delimText)

	h := &ast.HeredocTemplate{Delimiter: ast.Identifier(delimText), Tmpl: tmpl}
	if dash {
		indent := dedentTemplate(tmpl)
		h.Indent = &indent
	}
	h.SetSpan(s.span(start))
	return h, nil
}

func (s *scanner) parseArrayOrForExpr() (ast.Expression, error) {
	start := s.pos
	s.pos++ // '['
	s.ws()
	if s.isForKeywordAhead() {
		return s.parseForExpr(start, ']', false)
	}
	arr := &ast.ArrayCons{}
	for {
		s.ws()
		if s.peek() == ']' {
			break
		}
		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, e)
		s.ws()
		if s.peek() == ',' {
			s.pos++
			arr.TrailingComma = true
			continue
		}
		arr.TrailingComma = false
		break
	}
	arr.Trailing = s.ws()
	if s.peek() != ']' {
		return nil, errorf(s.pos, "array", "expected ']'")
	}
	s.pos++
	arr.SetSpan(s.span(start))
	return arr, nil
}

func (s *scanner) parseObjectOrForExpr() (ast.Expression, error) {
	start := s.pos
	s.pos++ // '{'
	s.ws()
	if s.isForKeywordAhead() {
		return s.parseForExpr(start, '}', true)
	}
	obj := &ast.ObjectCons{}
	for {
		s.ws()
		if s.peek() == '}' {
			break
		}
		item, err := s.parseObjectItem()
		if err != nil {
			return nil, err
		}
		obj.Items = append(obj.Items, item)
		if item.Term == ast.TermNone {
			break
		}
	}
	obj.Trailing = s.ws()
	if s.peek() != '}' {
		return nil, errorf(s.pos, "object", "expected '}'")
	}
	s.pos++
	obj.SetSpan(s.span(start))
	return obj, nil
}

func (s *scanner) parseObjectKey() (ast.ObjectKey, error) {
	if ast.IsIdentifierStart(s.peek()) {
		save := s.pos
		id, err := s.scanIdent()
		if err == nil {
			s.sp()
			if s.peek() != '(' && s.peek() != '.' && s.peek() != '[' {
				return ast.ObjectKey{Ident: &id}, nil
			}
		}
		s.pos = save
	}
	expr, err := s.parseExpr()
	if err != nil {
		return ast.ObjectKey{}, err
	}
	return ast.ObjectKey{Expr: expr}, nil
}

func (s *scanner) parseObjectItem() (ast.ObjectItem, error) {
	start := s.pos
	key, err := s.parseObjectKey()
	if err != nil {
		return ast.ObjectItem{}, err
	}
	s.sp()
	var sep ast.ObjectItemSep
	switch {
	case s.peek() == '=':
		sep = ast.SepEquals
		s.pos++
	case s.peek() == ':':
		sep = ast.SepColon
		s.pos++
	default:
		return ast.ObjectItem{}, errorf(s.pos, "object item", "expected '=' or ':'")
	}
	s.ws()
	val, err := s.parseExpr()
	if err != nil {
		return ast.ObjectItem{}, err
	}
	term := s.parseObjectItemTerm()
	item := ast.ObjectItem{Key: key, Sep: sep, Value: val, Term: term}
	item.SetSpan(s.span(start))
	return item, nil
}

func (s *scanner) parseObjectItemTerm() ast.ObjectItemTerm {
	s.sp()
	switch {
	case s.peek() == ',':
		s.pos++
		return ast.TermComma
	case s.peek() == '\n':
		s.pos++
		return ast.TermNewline
	case s.peek() == '\r':
		s.pos++
		if s.peek() == '\n' {
			s.pos++
		}
		return ast.TermNewline
	case s.peek() == '#':
		s.skipLineComment()
		return ast.TermNewline
	case s.peek() == '/' && s.peekAt(1) == '/':
		s.skipLineComment()
		return ast.TermNewline
	default:
		return ast.TermNone
	}
}

func (s *scanner) parseParenthesis() (ast.Expression, error) {
	start := s.pos
	s.pos++ // '('
	s.ws()
	inner, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	s.ws()
	if s.peek() != ')' {
		return nil, errorf(s.pos, "parenthesized expression", "expected ')'")
	}
	s.pos++
	p := ast.NewParenthesis(inner)
	p.SetSpan(s.span(start))
	return p, nil
}

func (s *scanner) parseNumberOperand() (ast.Expression, error) {
	start := s.pos
	raw, isFloat, ok := s.scanNumber()
	if !ok {
		return nil, errorf(s.pos, "number", "expected number")
	}
	num, err := parseNumberText(raw, isFloat)
	if err != nil {
		return nil, errorf(start, "number", "%s", err)
	}
	lit := &ast.NumberLit{Value: num, Raw: raw}
	lit.SetSpan(s.span(start))
	return lit, nil
}

func parseNumberText(raw string, isFloat bool) (ast.Number, error) {
	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ast.Number{}, err
		}
		return ast.NewFloatNumber(f)
	}
	if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return ast.NewUintNumber(u), nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ast.NewIntNumber(i), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ast.Number{}, err
	}
	return ast.NewFloatNumber(f)
}

func (s *scanner) parseIdentOperand() (ast.Expression, error) {
	start := s.pos
	name, ok := s.scanIdentBytes()
	if !ok {
		return nil, errorf(s.pos, "expression", "expected expression")
	}
	switch name {
	case "null":
		n := ast.NewNullLit()
		n.SetSpan(s.span(start))
		return n, nil
	case "true":
		b := ast.NewBoolLit(true)
		b.SetSpan(s.span(start))
		return b, nil
	case "false":
		b := ast.NewBoolLit(false)
		b.SetSpan(s.span(start))
		return b, nil
	}
	save := s.pos
	s.sp()
	if s.peek() == '(' {
		return s.parseFuncCall(start, name)
	}
	s.pos = save
	v := ast.NewVariable(ast.Identifier(name))
	v.SetSpan(s.span(start))
	return v, nil
}

func (s *scanner) parseFuncCall(start int, name string) (ast.Expression, error) {
	s.pos++ // '('
	fc := &ast.FuncCall{Name: ast.Identifier(name)}
	for {
		s.ws()
		if s.peek() == ')' {
			break
		}
		arg, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		fc.Args = append(fc.Args, arg)
		s.ws()
		if s.peekStr("...") {
			s.pos += 3
			fc.ExpandFinal = true
			break
		}
		if s.peek() == ',' {
			s.pos++
			fc.TrailingComma = true
			continue
		}
		fc.TrailingComma = false
		break
	}
	fc.Trailing = s.ws()
	if s.peek() != ')' {
		return nil, errorf(s.pos, "function call", "expected ')'")
	}
	s.pos++
	fc.SetSpan(s.span(start))
	return fc, nil
}

// isForKeywordAhead reports whether the cursor sits on the `for` keyword
// of a for-expression. `for` must be followed by space, tab, `#`, or `/`
// so that an identifier merely starting with "for" (e.g. `format`) is
// never mistaken for the keyword.
func (s *scanner) isForKeywordAhead() bool {
	save := s.pos
	text, ok := s.scanIdentBytes()
	next := s.peek()
	s.pos = save
	return ok && text == "for" &&
		(next == ' ' || next == '\t' || next == '#' || next == '/')
}

func (s *scanner) expectKeyword(kw string) bool {
	save := s.pos
	text, ok := s.scanIdentBytes()
	if !ok || text != kw {
		s.pos = save
		return false
	}
	return true
}

// parseForIntro parses the `for v [, v2] in collection` clause shared by
// array-for, object-for, and the `%{for}` template directive.
func (s *scanner) parseForIntro() (ast.ForIntro, error) {
	if !s.expectKeyword("for") {
		return ast.ForIntro{}, errorf(s.pos, "for expression", "expected 'for'")
	}
	s.ws()
	first, err := s.scanIdent()
	if err != nil {
		return ast.ForIntro{}, err
	}
	var intro ast.ForIntro
	save := s.pos
	s.sp()
	if s.peek() == ',' {
		s.pos++
		s.ws()
		second, err := s.scanIdent()
		if err != nil {
			return ast.ForIntro{}, err
		}
		kv := first.Value
		intro.KeyVar = &kv
		intro.ValueVar = second.Value
	} else {
		s.pos = save
		intro.ValueVar = first.Value
	}
	s.ws()
	if !s.expectKeyword("in") {
		return ast.ForIntro{}, errorf(s.pos, "for expression", "expected 'in'")
	}
	s.ws()
	coll, err := s.parseExpr()
	if err != nil {
		return ast.ForIntro{}, err
	}
	intro.Collection = coll
	return intro, nil
}

// parseForExpr parses the `for intro : valueExpr` (array) or
// `for intro : keyExpr => valueExpr [...]` (object) body following the
// already-consumed opening `[` or `{`, through and including closeCh.
func (s *scanner) parseForExpr(start int, closeCh byte, isObject bool) (ast.Expression, error) {
	intro, err := s.parseForIntro()
	if err != nil {
		return nil, err
	}
	s.ws()
	if s.peek() != ':' {
		return nil, errorf(s.pos, "for expression", "expected ':'")
	}
	s.pos++
	s.ws()

	fe := &ast.ForExpr{Intro: intro}
	if isObject {
		keyExpr, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		s.ws()
		if !(s.peek() == '=' && s.peekAt(1) == '>') {
			return nil, errorf(s.pos, "object for expression", "expected '=>'")
		}
		s.pos += 2
		s.ws()
		valExpr, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		fe.KeyExpr = keyExpr
		fe.ValueExpr = valExpr
		s.ws()
		if s.peek() == '.' && s.peekAt(1) == '.' && s.peekAt(2) == '.' {
			fe.Grouping = true
			s.pos += 3
			s.ws()
		}
	} else {
		valExpr, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		fe.ValueExpr = valExpr
		s.ws()
	}

	if s.peek() == 'i' && s.peekAt(1) == 'f' && !ast.IsIdentifierByte(s.peekAt(2)) {
		s.pos += 2
		s.ws()
		cond, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		fe.Cond = cond
		s.ws()
	}
	if s.peek() != closeCh {
		return nil, errorf(s.pos, "for expression", "expected closing bracket")
	}
	s.pos++
	fe.SetSpan(s.span(start))
	return fe, nil
}
