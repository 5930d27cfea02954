package eval_test

import (
	"testing"

	"github.com/openllb/hclgo/eval"
	"github.com/openllb/hclgo/internal/omap"
	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	require.Equal(t, "", eval.Null().String())
	require.Equal(t, "true", eval.Bool(true).String())
	require.Equal(t, "false", eval.Bool(false).String())
	require.Equal(t, "1.5", num(1.5).String())
	require.Equal(t, "s", eval.Str("s").String())
	require.Equal(t, "[1, 2]", eval.Arr([]eval.Value{num(1), num(2)}).String())
	require.Equal(t, "{a = 1, b = [true]}", obj(
		"a", num(1),
		"b", eval.Arr([]eval.Value{eval.Bool(true)}),
	).String())
}

func TestValueTypeName(t *testing.T) {
	require.Equal(t, "null", eval.Null().TypeName())
	require.Equal(t, "bool", eval.Bool(true).TypeName())
	require.Equal(t, "number", num(0).TypeName())
	require.Equal(t, "string", eval.Str("").TypeName())
	require.Equal(t, "array", eval.Arr(nil).TypeName())
	require.Equal(t, "object", eval.Obj(omap.New[string, eval.Value]()).TypeName())
}

func TestValueEqual(t *testing.T) {
	require.True(t, eval.Null().Equal(eval.Null()))
	require.False(t, eval.Null().Equal(eval.Bool(false)))
	require.True(t, eval.Str("x").Equal(eval.Str("x")))
	require.False(t, eval.Str("x").Equal(eval.Str("y")))

	t.Run("arrays are order sensitive", func(t *testing.T) {
		a := eval.Arr([]eval.Value{num(1), num(2)})
		b := eval.Arr([]eval.Value{num(2), num(1)})
		require.False(t, a.Equal(b))
		require.True(t, a.Equal(eval.Arr([]eval.Value{num(1), num(2)})))
	})

	t.Run("objects ignore key order", func(t *testing.T) {
		a := obj("x", num(1), "y", num(2))
		b := obj("y", num(2), "x", num(1))
		require.True(t, a.Equal(b))
		require.False(t, a.Equal(obj("x", num(1))))
	})
}
