package eval_test

import (
	"testing"

	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/eval"
	"github.com/openllb/hclgo/hclerr"
	"github.com/openllb/hclgo/parser"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBody(t *testing.T) {
	body, err := parser.ParseBody([]byte(`
name = "app"
svc {
  port = 80
}
svc {
  port = 81
}
job { retries = 2 }
empty {}
`))
	require.NoError(t, err)

	v, err := eval.EvaluateBody(eval.NewContext(), body)
	require.NoError(t, err)

	name, ok := v.Object.Get("name")
	require.True(t, ok)
	require.Equal(t, eval.Str("app"), name)

	// Repeated block names collect into an array of bodies.
	svcs, ok := v.Object.Get("svc")
	require.True(t, ok)
	require.Equal(t, eval.KindArray, svcs.Kind)
	require.Len(t, svcs.Array, 2)
	p0, _ := svcs.Array[0].Object.Get("port")
	require.True(t, p0.Equal(num(80)))

	// A singleton block stays an object.
	job, ok := v.Object.Get("job")
	require.True(t, ok)
	require.Equal(t, eval.KindObject, job.Kind)
	r, _ := job.Object.Get("retries")
	require.True(t, r.Equal(num(2)))

	empty, ok := v.Object.Get("empty")
	require.True(t, ok)
	require.Equal(t, eval.KindObject, empty.Kind)
	require.Equal(t, 0, empty.Object.Len())
}

func TestEvaluateBodyStopsAtFirstError(t *testing.T) {
	body, err := parser.ParseBody([]byte("a = missing\nb = 2\n"))
	require.NoError(t, err)
	_, err = eval.EvaluateBody(eval.NewContext(), body)
	require.IsType(t, &hclerr.UndefinedVar{}, err)
}

func TestEvaluateInPlace(t *testing.T) {
	body, err := parser.ParseBody([]byte(`
a = 1
b = 2 + 3
c = missing_one
nested {
  d = missing_two
  e = upper("ok")
}
`))
	require.NoError(t, err)

	ctx := eval.NewContext()
	strParam := eval.ParamString
	ctx.DeclareFunc("upper", &eval.FuncDef{
		Params: []eval.ParamType{strParam},
		Impl: func(args []eval.Value) (eval.Value, error) {
			return eval.Str("OK"), nil
		},
	})

	before := body.GetAttribute("a").Value

	errs := eval.EvaluateInPlace(ctx, body)
	require.Error(t, errs.Err())
	require.Len(t, errs.Errs, 2)
	require.IsType(t, &hclerr.UndefinedVar{}, errs.Errs[0])
	require.IsType(t, &hclerr.UndefinedVar{}, errs.Errs[1])

	// A literal value is left untouched, not cloned.
	require.Same(t, before, body.GetAttribute("a").Value)

	bNum, ok := body.GetAttribute("b").Value.(*ast.NumberLit)
	require.True(t, ok)
	require.True(t, bNum.Value.Equal(ast.NewIntNumber(5)))

	// Failed attributes keep their original expression.
	require.IsType(t, &ast.Variable{}, body.GetAttribute("c").Value)

	nested := body.GetBlocks("nested")[0].Body.Multiline
	eVal, ok := nested.GetAttribute("e").Value.(*ast.StringLit)
	require.True(t, ok)
	require.Equal(t, "OK", eVal.Value)
}

func TestEvaluateInPlaceValueShapes(t *testing.T) {
	body, err := parser.ParseBody([]byte("o = {for v in [1, 2] : v => v}\nl = [1 + 1, 2]\n"))
	require.NoError(t, err)

	errs := eval.EvaluateInPlace(eval.NewContext(), body)
	require.NoError(t, errs.Err())

	o, ok := body.GetAttribute("o").Value.(*ast.ObjectCons)
	require.True(t, ok)
	require.Len(t, o.Items, 2)
	// Numeric keys are not valid identifiers, so they stay expressions.
	require.False(t, o.Items[0].Key.IsIdent())

	l, ok := body.GetAttribute("l").Value.(*ast.ArrayCons)
	require.True(t, ok)
	require.Len(t, l.Elems, 2)
}
