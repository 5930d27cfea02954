package eval_test

import (
	"testing"

	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/eval"
	"github.com/openllb/hclgo/hclerr"
	"github.com/openllb/hclgo/parser"
	"github.com/stretchr/testify/require"
)

func mustTemplate(t *testing.T, input string) *ast.Template {
	t.Helper()
	tmpl, err := parser.ParseTemplate([]byte(input))
	require.NoError(t, err, input)
	return tmpl
}

func expand(t *testing.T, ctx *eval.Context, input string) string {
	t.Helper()
	out, err := eval.EvaluateTemplate(ctx, mustTemplate(t, input))
	require.NoError(t, err, input)
	return out
}

func TestTemplateExpansion(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("name", eval.Str("World"))
	ctx.DeclareVar("n", num(3))

	require.Equal(t, "Hello, World!", expand(t, ctx, "Hello, ${name}!"))
	require.Equal(t, "3 items", expand(t, ctx, "${n} items"))
	require.Equal(t, "plain", expand(t, ctx, "plain"))
}

func TestTemplateStringification(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("b", eval.Bool(true))
	ctx.DeclareVar("nul", eval.Null())
	ctx.DeclareVar("xs", eval.Arr([]eval.Value{num(1), num(2)}))
	ctx.DeclareVar("m", obj("a", num(1)))

	require.Equal(t, "true", expand(t, ctx, "${b}"))
	require.Equal(t, "", expand(t, ctx, "${nul}"))
	require.Equal(t, "[1, 2]", expand(t, ctx, "${xs}"))
	require.Equal(t, "{a = 1}", expand(t, ctx, "${m}"))
}

func TestTemplateStripMarkers(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("x", eval.Str("X"))

	require.Equal(t, "a X b", expand(t, ctx, "a ${x} b"))
	require.Equal(t, "aX b", expand(t, ctx, "a ${~x} b"))
	require.Equal(t, "a Xb", expand(t, ctx, "a ${x~} b"))
	require.Equal(t, "aXb", expand(t, ctx, "a ${~x~} b"))
	require.Equal(t, "aXb", expand(t, ctx, "a\n\t${~x~}\n b"))
}

func TestTemplateStripIdempotence(t *testing.T) {
	// Without strip markers, expansion is exactly the concatenation of
	// literals and stringified interpolations.
	ctx := eval.NewContext()
	ctx.DeclareVar("x", eval.Str("X"))
	input := "  a  ${x}\n\tb "
	require.Equal(t, "  a  X\n\tb ", expand(t, ctx, input))
}

func TestTemplateIfDirective(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("yes", eval.Bool(true))
	ctx.DeclareVar("no", eval.Bool(false))

	require.Equal(t, "on", expand(t, ctx, "%{ if yes }on%{ endif }"))
	require.Equal(t, "", expand(t, ctx, "%{ if no }on%{ endif }"))
	require.Equal(t, "off", expand(t, ctx, "%{ if no }on%{ else }off%{ endif }"))

	_, err := eval.EvaluateTemplate(ctx, mustTemplate(t, "%{ if 1 }x%{ endif }"))
	require.IsType(t, &hclerr.ConditionType{}, err)
}

func TestTemplateIfDirectiveStrips(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("yes", eval.Bool(true))

	// The if marker's trailing strip trims the branch's leading newline;
	// the endif marker's leading strip trims its trailing newline.
	out := expand(t, ctx, "%{ if yes ~}\n  on\n%{~ endif }")
	require.Equal(t, "on", out)
}

func TestTemplateForDirective(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("xs", eval.Arr([]eval.Value{eval.Str("a"), eval.Str("b")}))
	ctx.DeclareVar("m", obj("k1", num(1), "k2", num(2)))

	require.Equal(t, "[a][b]", expand(t, ctx, "%{ for v in xs }[${v}]%{ endfor }"))
	require.Equal(t, "0=a 1=b ", expand(t, ctx, "%{ for i, v in xs }${i}=${v} %{ endfor }"))
	require.Equal(t, "k1:1,k2:2,", expand(t, ctx, "%{ for k, v in m }${k}:${v},%{ endfor }"))

	t.Run("strip markers inside iterations", func(t *testing.T) {
		out := expand(t, ctx, "%{ for v in xs ~}\n${v}%{ endfor ~}\n")
		require.Equal(t, "ab", out)
	})

	t.Run("collection errors", func(t *testing.T) {
		_, err := eval.EvaluateTemplate(ctx, mustTemplate(t, "%{ for v in 1 }x%{ endfor }"))
		require.IsType(t, &hclerr.ForExprCollection{}, err)
	})
}

func TestTemplateNestedDirectives(t *testing.T) {
	ctx := eval.NewContext()
	ctx.DeclareVar("xs", eval.Arr([]eval.Value{num(1), num(2), num(3)}))

	out := expand(t, ctx, "%{ for v in xs }%{ if v % 2 == 1 }${v}%{ endif }%{ endfor }")
	require.Equal(t, "13", out)
}

func TestTemplateHeredocEvaluation(t *testing.T) {
	body, err := parser.ParseBody([]byte("greeting = <<-EOT\n  Hello, ${name}!\nEOT\n"))
	require.NoError(t, err)

	ctx := eval.NewContext()
	ctx.DeclareVar("name", eval.Str("World"))
	v, err := eval.EvaluateBody(ctx, body)
	require.NoError(t, err)

	g, ok := v.Object.Get("greeting")
	require.True(t, ok)
	require.Equal(t, eval.Str("Hello, World!\n"), g)
}
