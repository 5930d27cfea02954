package parser

import "github.com/openllb/hclgo/ast"

// parseBodyUntil parses a sequence of Structures (attributes and blocks)
// up to, but not including, closeCh. closeCh == 0 means "parse to EOF",
// used for a top-level file body.
func (s *scanner) parseBodyUntil(closeCh byte) (*ast.Body, error) {
	body := &ast.Body{}
	for {
		prefix := s.ws()
		if s.eof() {
			if closeCh != 0 {
				return nil, errorf(s.pos, "body", "unexpected end of input")
			}
			body.Trailing = prefix
			break
		}
		if closeCh != 0 && s.peek() == closeCh {
			body.Trailing = prefix
			break
		}
		st, err := s.parseStructure()
		if err != nil {
			return nil, err
		}
		if st.Attribute != nil {
			if err := s.expectLineEnding(closeCh); err != nil {
				return nil, err
			}
		}
		st.SetDecor(ast.Decor{Prefix: prefix})
		body.Structures = append(body.Structures, st)
	}
	return body, nil
}

// expectLineEnding verifies that an attribute is followed by a newline,
// a comment, the enclosing body's closing brace, or end of input, without
// consuming anything: the whitespace stays in the next structure's prefix.
func (s *scanner) expectLineEnding(closeCh byte) error {
	save := s.pos
	defer func() { s.pos = save }()
	s.sp()
	switch {
	case s.eof():
		return nil
	case s.peek() == '\n' || s.peek() == '\r':
		return nil
	case s.peek() == '#':
		return nil
	case s.peek() == '/' && (s.peekAt(1) == '/' || s.peekAt(1) == '*'):
		return nil
	case closeCh != 0 && s.peek() == closeCh:
		return nil
	default:
		return errorf(s.pos, "attribute", "expected newline after attribute")
	}
}

// parseStructure parses one Attribute (`name = expr`) or Block
// (`name label... { body }`), disambiguated by whether `=` follows the
// leading identifier.
func (s *scanner) parseStructure() (ast.Structure, error) {
	start := s.pos
	name, err := s.scanIdent()
	if err != nil {
		return ast.Structure{}, err
	}

	save := s.pos
	s.sp()
	// One-byte lookahead keeps `==` from being read as an attribute's `=`.
	if s.peek() == '=' && s.peekAt(1) != '=' {
		s.pos++
		s.ws()
		val, err := s.parseExpr()
		if err != nil {
			return ast.Structure{}, err
		}
		attr := &ast.Attribute{Name: name, Value: val}
		attr.SetSpan(s.span(start))
		st := ast.Structure{Attribute: attr}
		st.SetSpan(attr.Span())
		return st, nil
	}
	s.pos = save

	var labels []ast.BlockLabel
labels:
	for {
		s.sp()
		switch {
		case ast.IsIdentifierStart(s.peek()):
			id, err := s.scanIdent()
			if err != nil {
				return ast.Structure{}, err
			}
			labels = append(labels, ast.BlockLabel{Ident: &id})
		case s.peek() == '"':
			lblStart := s.pos
			s.pos++
			tmpl, err := s.parseTemplateElements(modeQuoted, "", nil)
			if err != nil {
				return ast.Structure{}, err
			}
			if s.peek() != '"' {
				return ast.Structure{}, errorf(s.pos, "block label", "unterminated quoted label")
			}
			s.pos++
			text, ok := templateLiteralText(tmpl)
			if !ok {
				return ast.Structure{}, errorf(lblStart, "block label", "block labels may not contain interpolations")
			}
			lbl := ast.NewDecorated(text, s.span(lblStart))
			labels = append(labels, ast.BlockLabel{Str: &lbl})
		default:
			break labels
		}
	}

	s.sp()
	if s.peek() != '{' {
		return ast.Structure{}, errorf(s.pos, "block", "expected '{'")
	}
	body, openSpan, closeSpan, err := s.parseBlockBody()
	if err != nil {
		return ast.Structure{}, err
	}
	blk := &ast.Block{Name: name, Labels: labels, Body: body, OpenBrace: openSpan, CloseBrace: closeSpan}
	blk.SetSpan(s.span(start))
	st := ast.Structure{Block: blk}
	st.SetSpan(blk.Span())
	return st, nil
}

// parseBlockBody parses a block's brace-delimited body, having already
// verified (but not consumed) the opening `{`. It distinguishes the three
// BlockBodyKinds: an empty body, a single attribute written on the
// opening brace's line (Oneline), and the general multi-structure body.
func (s *scanner) parseBlockBody() (ast.BlockBody, ast.Span, ast.Span, error) {
	openStart := s.pos
	s.pos++ // `{`
	openSpan := s.span(openStart)

	save := s.pos
	prefix := s.sp()
	switch {
	case s.peek() == '}':
		closeStart := s.pos
		s.pos++
		empty := prefix
		return ast.BlockBody{Empty: &empty}, openSpan, s.span(closeStart), nil
	case s.peek() == '\n':
		// Definitely a multi-line body; fall through to the general parse.
	default:
		attemptPos := s.pos
		attr, attrErr := s.parseAttribute()
		if attrErr == nil {
			s.sp()
			if s.peek() == '}' {
				closeStart := s.pos
				s.pos++
				return ast.BlockBody{Oneline: attr}, openSpan, s.span(closeStart), nil
			}
		}
		s.pos = attemptPos
	}

	s.pos = save
	body, err := s.parseBodyUntil('}')
	if err != nil {
		return ast.BlockBody{}, ast.Span{}, ast.Span{}, err
	}
	if s.peek() != '}' {
		return ast.BlockBody{}, ast.Span{}, ast.Span{}, errorf(s.pos, "block", "expected '}'")
	}
	closeStart := s.pos
	s.pos++
	return ast.BlockBody{Multiline: body}, openSpan, s.span(closeStart), nil
}

// parseAttribute parses a single `name = expr`, used both by the general
// structure parser and by parseBlockBody's oneline-body lookahead.
func (s *scanner) parseAttribute() (*ast.Attribute, error) {
	start := s.pos
	name, err := s.scanIdent()
	if err != nil {
		return nil, err
	}
	s.sp()
	if s.peek() != '=' {
		return nil, errorf(s.pos, "attribute", "expected '='")
	}
	s.pos++
	s.ws()
	val, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	attr := &ast.Attribute{Name: name, Value: val}
	attr.SetSpan(s.span(start))
	return attr, nil
}

func templateLiteralText(t *ast.Template) (string, bool) {
	if len(t.Elements) == 0 {
		return "", true
	}
	if len(t.Elements) == 1 && t.Elements[0].Kind() == ast.ElemLiteral {
		return t.Elements[0].Literal.Value, true
	}
	return "", false
}
