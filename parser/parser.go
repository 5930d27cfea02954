package parser

import "github.com/openllb/hclgo/ast"

// ParseBody parses input as a complete HCL document body and returns its
// decorated, precedence-normalized tree. The returned tree still carries
// spans and decor (nothing is despanned); callers that only need the
// lossy evaluator view should call Body.Plain() on the result.
func ParseBody(input []byte) (*ast.Body, error) {
	s := newScanner(input)
	body, err := s.parseBodyUntil(0)
	if err != nil {
		return nil, err
	}
	s.ws()
	if !s.eof() {
		return nil, errorf(s.pos, "body", "unexpected trailing input")
	}
	normalizeBody(body)
	return body, nil
}

// ParseDecorated parses input and pairs the result with the input buffer,
// ready for DecoratedBody.Despan once the caller no longer needs the tree
// to track back into input.
func ParseDecorated(input []byte) (*ast.DecoratedBody, error) {
	body, err := ParseBody(input)
	if err != nil {
		return nil, err
	}
	return &ast.DecoratedBody{Body: body, Input: input}, nil
}

func normalizeBody(b *ast.Body) {
	if b == nil {
		return
	}
	for i := range b.Structures {
		st := &b.Structures[i]
		switch {
		case st.Attribute != nil:
			st.Attribute.Value = Normalize(st.Attribute.Value)
		case st.Block != nil:
			switch {
			case st.Block.Body.Multiline != nil:
				normalizeBody(st.Block.Body.Multiline)
			case st.Block.Body.Oneline != nil:
				st.Block.Body.Oneline.Value = Normalize(st.Block.Body.Oneline.Value)
			}
		}
	}
}
