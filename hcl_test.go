package hcl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/eval"
	"github.com/openllb/hclgo/printer"
	"github.com/stretchr/testify/require"
)

var agreementInputs = []string{
	"a = 1\n",
	"a = 1 # hi\nb = 2\n",
	"svc \"web\" {\n  port = 80\n  tags = [\"a\", \"b\"]\n}\n",
	"v = 1 + 2 * 3 == 7 && !false\n",
	"t = \"pre ${var.x} post\"\n",
	"h = <<-EOT\n  line\nEOT\n",
	"f = {for k, v in m : k => v...}\n",
}

// The plain view of a decorated parse must agree with a direct plain
// parse: one grammar, two representations.
func TestPlainDecoratedAgreement(t *testing.T) {
	for _, input := range agreementInputs {
		plain, err := Parse([]byte(input))
		require.NoError(t, err, input)

		db, err := ParseDecorated([]byte(input))
		require.NoError(t, err, input)

		require.Empty(t, cmp.Diff(ast.Dump(plain), ast.Dump(db.Body.Plain())), input)
	}
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte("a = (1\n"))
	require.Error(t, err)
	_, err = ParseDecorated([]byte("}"))
	require.Error(t, err)
}

func TestParseTemplateRoot(t *testing.T) {
	tmpl, err := ParseTemplate([]byte("x ${y}"))
	require.NoError(t, err)
	require.Len(t, tmpl.Elements, 2)
}

func TestEndToEndEditAndEncode(t *testing.T) {
	input := []byte(`# infrastructure
region = "us-east-1"

svc "web" {
  port  = 80
  count = var_count
}
`)
	db, err := ParseDecorated(input)
	require.NoError(t, err)

	blocks := db.Body.GetBlocks("svc")
	require.Len(t, blocks, 1)
	port := blocks[0].Body.Multiline.GetAttribute("port")
	require.NotNil(t, port)
	port.SetValue(ast.NewNumberLit(ast.NewIntNumber(8080)))

	// The edited attribute re-renders canonically (losing its alignment
	// padding); everything else splices from the original bytes.
	out := EncodeDecorated(db, printer.DefaultOptions())
	require.Equal(t, `# infrastructure
region = "us-east-1"

svc "web" {
  port = 8080
  count = var_count
}
`, string(out))
}

func TestEndToEndEvaluate(t *testing.T) {
	body, err := Parse([]byte("greeting = \"Hello, ${who}!\"\n"))
	require.NoError(t, err)

	ctx := NewContext()
	ctx.DeclareVar("who", eval.Str("World"))

	v, err := Evaluate(ctx, body.GetAttribute("greeting").Value)
	require.NoError(t, err)
	require.Equal(t, eval.Str("Hello, World!"), v)
}

func TestEndToEndEvaluateInPlace(t *testing.T) {
	body, err := Parse([]byte("a = 1 + 1\nb = missing\n"))
	require.NoError(t, err)

	ctx := NewContext()
	err = EvaluateInPlace(ctx, body)
	require.Error(t, err)
	require.Contains(t, err.Error(), `undefined variable "missing"`)

	a, ok := body.GetAttribute("a").Value.(*ast.NumberLit)
	require.True(t, ok)
	require.True(t, a.Value.Equal(ast.NewIntNumber(2)))
}

func TestFormatError(t *testing.T) {
	input := []byte("a = missing\n")
	body, err := Parse(input)
	require.NoError(t, err)

	_, err = Evaluate(NewContext(), body.GetAttribute("a").Value)
	require.Error(t, err)

	out := FormatError(err, "main.hcl", input, false)
	require.Contains(t, out, `undefined variable "missing"`)
	require.Contains(t, out, "main.hcl:1:5:")
	require.Contains(t, out, "a = missing")
	require.Contains(t, out, "^^^^^^^")

	t.Run("parse errors format too", func(t *testing.T) {
		_, perr := Parse([]byte("a = (1\n"))
		require.Error(t, perr)
		require.Contains(t, FormatError(perr, "main.hcl", []byte("a = (1\n"), false), "main.hcl:")
	})

	t.Run("nil is empty", func(t *testing.T) {
		require.Equal(t, "", FormatError(nil, "f", nil, false))
	})
}
