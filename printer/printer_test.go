package printer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/parser"
	"github.com/openllb/hclgo/printer"
	"github.com/stretchr/testify/require"
)

// roundTripInputs is the fidelity corpus: every input must re-encode
// byte-for-byte, including non-canonical spacing, comments, heredocs, and
// templates.
var roundTripInputs = []struct {
	name  string
	input string
}{
	{"attribute with comment", "a = 1 # hi\nb = 2\n"},
	{"no spaces", "a=1\n"},
	{"extra spaces", "x   =   [1 , 2 ,3]\n"},
	{"hash and slash comments", "# top\na = 1\n// middle\nb = 2\n/* inline */ c = 3\n"},
	{"block", "resource \"aws_instance\" web {\n  ami   = \"abc\"\n  count = 2\n}\n"},
	{"oneline block", "svc { count = 2 }\n"},
	{"empty block", "svc { /* todo */ }\n"},
	{"nested blocks", "a {\n  b {\n    c = 1\n  }\n}\n"},
	{"dense body", "a = 1\nb = 2\nc { d = 3 }\n"},
	{"blank lines", "a = 1\n\n\nb = 2\n"},
	{"object", "o = {\n  a = 1\n  b = \"two\", c = true\n}\n"},
	{"array trailing comma", "xs = [\n  1,\n  2,\n]\n"},
	{"string template", "name = \"pre ${var.x} post\"\n"},
	{"template strip", "t = \"a ${~ x ~} b\"\n"},
	{"template directive", "t = \"%{ if c }y%{ else }n%{ endif }\"\n"},
	{"heredoc", "x = <<EOT\nfoo\n  bar\nEOT\n"},
	{"heredoc dedent", "x = <<-EOT\n  foo\n    bar\n  baz\nEOT\n"},
	{"conditional", "v = a == 1 ? \"yes\" : \"no\"\n"},
	{"binary spacing", "v = 1   +2*  3\n"},
	{"for expressions", "a = [for v in xs : v if v > 0]\nb = {for k, v in m : k => v...}\n"},
	{"function call", "v = max(1, 2, rest...)\n"},
	{"traversal", "v = xs[*].n[0].attr.0\n"},
	{"escapes preserved", "s = \"a\\nb\\u0041\"\n"},
	{"dollar escape", "s = \"lit $${not_interp}\"\n"},
	{"no trailing newline", "a = 1"},
	{"unicode content", "s = \"héllo wörld\"\n"},
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range roundTripInputs {
		t.Run(tc.name, func(t *testing.T) {
			input := []byte(tc.input)
			db, err := parser.ParseDecorated(input)
			require.NoError(t, err)
			out := printer.Encode(db.Body, db.Input, printer.DefaultOptions())
			require.Empty(t, cmp.Diff(tc.input, string(out)))
		})
	}
}

func TestDespanIndependence(t *testing.T) {
	for _, tc := range roundTripInputs {
		t.Run(tc.name, func(t *testing.T) {
			input := []byte(tc.input)
			db, err := parser.ParseDecorated(input)
			require.NoError(t, err)
			before := printer.Encode(db.Body, db.Input, printer.DefaultOptions())
			db.Despan()
			after := printer.Encode(db.Body, db.Input, printer.DefaultOptions())
			require.Equal(t, string(before), string(after))
		})
	}
}

func TestEditPreservesSurroundings(t *testing.T) {
	input := []byte("a = 1 # keep me\nb = 2\nc = 3\n")
	db, err := parser.ParseDecorated(input)
	require.NoError(t, err)

	attr := db.Body.GetAttribute("b")
	require.NotNil(t, attr)
	attr.SetValue(ast.NewNumberLit(ast.NewIntNumber(42)))

	out := printer.Encode(db.Body, db.Input, printer.DefaultOptions())
	require.Equal(t, "a = 1 # keep me\nb = 42\nc = 3\n", string(out))
}

func TestEditAppendedStructure(t *testing.T) {
	input := []byte("a = 1\nb = 2\n")
	db, err := parser.ParseDecorated(input)
	require.NoError(t, err)

	db.Body.Push(ast.Structure{Attribute: ast.NewAttribute("c", ast.NewBoolLit(true))})
	db.Body.Push(ast.Structure{Block: ast.NewBlock("svc", ast.NewBody())})

	// Appended structures have no decor: attributes join the previous
	// line run, blocks get a stylistic blank line. Parsed structures
	// still splice verbatim.
	out := printer.Encode(db.Body, db.Input, printer.DefaultOptions())
	require.Equal(t, "a = 1\nb = 2\nc = true\n\nsvc {\n}\n", string(out))

	dense := printer.Encode(db.Body, db.Input, printer.Options{Dense: true})
	require.Equal(t, "a = 1\nb = 2\nc = true\nsvc {\n}\n", string(dense))
}

func TestUnwrapInterpolations(t *testing.T) {
	t.Run("single interpolation unwraps", func(t *testing.T) {
		body, err := parser.ParseBody([]byte("name = \"${var.x}\"\n"))
		require.NoError(t, err)
		out := printer.Encode(body, []byte("name = \"${var.x}\"\n"), printer.Options{UnwrapInterpolations: true})
		require.Equal(t, "name = var.x\n", string(out))
	})

	t.Run("option off preserves the original form", func(t *testing.T) {
		input := []byte("name = \"${var.x}\"\n")
		body, err := parser.ParseBody(input)
		require.NoError(t, err)
		out := printer.Encode(body, input, printer.DefaultOptions())
		require.Equal(t, string(input), string(out))
	})

	t.Run("mixed template never unwraps", func(t *testing.T) {
		input := []byte("name = \"pre ${var.x} post\"\n")
		body, err := parser.ParseBody(input)
		require.NoError(t, err)
		out := printer.Encode(body, input, printer.Options{UnwrapInterpolations: true})
		require.Equal(t, string(input), string(out))
	})
}

func TestNormalizeTypes(t *testing.T) {
	t.Run("quoted legacy type names", func(t *testing.T) {
		input := []byte("a = \"list\"\nb = \"string\"\nc = \"other\"\n")
		body, err := parser.ParseBody(input)
		require.NoError(t, err)
		out := printer.Encode(body, input, printer.Options{NormalizeTypes: true})
		require.Equal(t, "a = list(string)\nb = string\nc = \"other\"\n", string(out))
	})

	t.Run("bare collection types get any", func(t *testing.T) {
		input := []byte("a = list\nb = map\nc = set\nd = other\n")
		body, err := parser.ParseBody(input)
		require.NoError(t, err)
		out := printer.Encode(body, input, printer.Options{NormalizeTypes: true})
		require.Equal(t, "a = list(any)\nb = map(any)\nc = set(any)\nd = other\n", string(out))
	})

	t.Run("quoted and bare arms differ", func(t *testing.T) {
		input := []byte("q = \"list\"\nb = list\n")
		body, err := parser.ParseBody(input)
		require.NoError(t, err)
		out := printer.Encode(body, input, printer.Options{NormalizeTypes: true})
		require.Equal(t, "q = list(string)\nb = list(any)\n", string(out))
	})

	t.Run("option off leaves both forms alone", func(t *testing.T) {
		input := []byte("q = \"list\"\nb = list\n")
		body, err := parser.ParseBody(input)
		require.NoError(t, err)
		out := printer.Encode(body, input, printer.DefaultOptions())
		require.Equal(t, string(input), string(out))
	})
}

func TestTerraformStyle(t *testing.T) {
	input := []byte("t = \"map\"\nu = set\nv = \"${var.x}\"\n")
	body, err := parser.ParseBody(input)
	require.NoError(t, err)
	out := printer.Encode(body, input, printer.Options{TerraformStyle: true})
	require.Equal(t, "t = map(string)\nu = set(any)\nv = var.x\n", string(out))
}

func TestStylisticFallback(t *testing.T) {
	num := func(n int64) ast.Expression { return ast.NewNumberLit(ast.NewIntNumber(n)) }

	t.Run("compact array", func(t *testing.T) {
		out := printer.EncodeExpr(ast.NewArrayCons(num(1), num(2)), nil, printer.Options{CompactArrays: true})
		require.Equal(t, "[1, 2]", string(out))
	})

	t.Run("expanded array", func(t *testing.T) {
		out := printer.EncodeExpr(ast.NewArrayCons(num(1), num(2)), nil, printer.DefaultOptions())
		require.Equal(t, "[\n  1,\n  2,\n]", string(out))
	})

	t.Run("empty collections", func(t *testing.T) {
		require.Equal(t, "[]", string(printer.EncodeExpr(ast.NewArrayCons(), nil, printer.DefaultOptions())))
		require.Equal(t, "{}", string(printer.EncodeExpr(ast.NewObjectCons(), nil, printer.DefaultOptions())))
	})

	t.Run("prefer ident keys", func(t *testing.T) {
		obj := ast.NewObjectCons(ast.ObjectItem{
			Key:   ast.ObjectKey{Expr: ast.NewStringLit("key")},
			Sep:   ast.SepEquals,
			Value: num(1),
		})
		out := printer.EncodeExpr(obj, nil, printer.Options{PreferIdentKeys: true, CompactObjects: true})
		require.Equal(t, "{ key = 1 }", string(out))

		quoted := printer.EncodeExpr(obj, nil, printer.Options{CompactObjects: true})
		require.Equal(t, `{ "key" = 1 }`, string(quoted))
	})

	t.Run("body fallback separates blocks", func(t *testing.T) {
		inner1 := ast.NewBody()
		inner1.Push(ast.Structure{Attribute: ast.NewAttribute("a", num(1))})
		inner2 := ast.NewBody()
		inner2.Push(ast.Structure{Attribute: ast.NewAttribute("b", num(2))})

		body := ast.NewBody()
		body.Push(ast.Structure{Block: ast.NewBlock("one", inner1)})
		body.Push(ast.Structure{Block: ast.NewBlock("two", inner2)})

		out := printer.Encode(body, nil, printer.DefaultOptions())
		require.Equal(t, "one {\n  a = 1\n}\n\ntwo {\n  b = 2\n}", string(out))

		dense := printer.Encode(body, nil, printer.Options{Dense: true})
		require.Equal(t, "one {\n  a = 1\n}\ntwo {\n  b = 2\n}", string(dense))
	})

	t.Run("prefer oneline", func(t *testing.T) {
		inner := ast.NewBody()
		inner.Push(ast.Structure{Attribute: ast.NewAttribute("a", num(1))})
		body := ast.NewBody()
		body.Push(ast.Structure{Block: ast.NewBlock("svc", inner)})

		out := printer.Encode(body, nil, printer.Options{PreferOneline: true})
		require.Equal(t, "svc { a = 1 }", string(out))

		inner.PreferOneline = true
		out = printer.Encode(body, nil, printer.DefaultOptions())
		require.Equal(t, "svc { a = 1 }", string(out))
	})

	t.Run("custom indent", func(t *testing.T) {
		inner := ast.NewBody()
		inner.Push(ast.Structure{Attribute: ast.NewAttribute("a", num(1))})
		body := ast.NewBody()
		body.Push(ast.Structure{Block: ast.NewBlock("svc", inner)})

		out := printer.Encode(body, nil, printer.Options{Indent: "\t"})
		require.Equal(t, "svc {\n\ta = 1\n}", string(out))
	})

	t.Run("constructed template re-escapes", func(t *testing.T) {
		lit := ast.NewSpanned("has ${marker}", ast.Span{})
		st := &ast.StringTemplate{Tmpl: &ast.Template{Elements: []ast.TemplateElement{{Literal: &lit}}}}
		out := printer.EncodeExpr(st, nil, printer.DefaultOptions())
		require.Equal(t, `"has $${marker}"`, string(out))
	})
}
