package hclerr

import (
	"testing"

	"github.com/openllb/hclgo/ast"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{&UndefinedVar{Name: "foo"}, `undefined variable "foo"`},
		{&UndefinedVar{Name: "fo", Suggestion: "foo"}, `undefined variable "fo"; did you mean "foo"?`},
		{&UndefinedFunc{Name: "max"}, `undefined function "max"`},
		{&FuncArity{Name: "f", Expected: 2, Got: 1}, `function "f" expects 2 argument(s), got 1`},
		{&FuncArgType{Name: "f", Index: 0, Expected: "string", Got: "number"}, `function "f" argument 0: expected string, got number`},
		{&FuncCall{Name: "f", Err: &NoSuchKey{Key: "k"}}, `error calling function "f": object has no attribute "k"`},
		{&UnaryOpType{Op: "!", Got: "number"}, `unary operator "!": unsupported operand type number`},
		{&BinaryOpType{Op: "+", LHS: "string", RHS: "number"}, `binary operator "+": unsupported operand types string and number`},
		{&DivideByZero{Op: "/"}, "/ by zero"},
		{&IndexOutOfRange{Index: 5, Len: 3}, "index 5 out of range for array of length 3"},
		{&NoSuchKey{Key: "k"}, `object has no attribute "k"`},
		{&KeyExists{Key: "k"}, `duplicate object key "k" (use the grouping ... form to collect all values)`},
		{&TraversalType{Got: "number"}, "cannot traverse value of type number"},
		{&ForExprCollection{Got: "string"}, "for expression collection must be an array or object, got string"},
		{&ConditionType{Got: "number"}, "condition must be a bool, got number"},
		{&RecursionLimit{Limit: 512}, "exceeded maximum evaluation depth of 512"},
		{&UTF8{}, "invalid UTF-8 sequence"},
	} {
		require.Equal(t, tc.want, tc.err.Error())
	}
}

func TestWithSpan(t *testing.T) {
	sp := ast.NewSpan(3, 7)

	t.Run("attaches a missing span", func(t *testing.T) {
		err := &UndefinedVar{Name: "x"}
		WithSpan(err, sp)
		require.Equal(t, sp, err.Span)
	})

	t.Run("keeps an existing span", func(t *testing.T) {
		orig := ast.NewSpan(0, 1)
		err := &NoSuchKey{Key: "k", Span: orig}
		WithSpan(err, sp)
		require.Equal(t, orig, err.Span)
	})

	t.Run("ignores invalid spans and foreign errors", func(t *testing.T) {
		err := &UndefinedVar{Name: "x"}
		WithSpan(err, ast.Span{})
		require.False(t, err.Span.Valid())
		require.Nil(t, WithSpan(nil, sp))
	})
}

func TestSpanOf(t *testing.T) {
	sp := ast.NewSpan(1, 4)
	got, ok := SpanOf(&KeyExists{Key: "k", Span: sp})
	require.True(t, ok)
	require.Equal(t, sp, got)

	_, ok = SpanOf(&KeyExists{Key: "k"})
	require.False(t, ok)
}

func TestErrors(t *testing.T) {
	t.Run("empty accumulator is not an error", func(t *testing.T) {
		var errs Errors
		require.NoError(t, errs.Err())
	})

	t.Run("add and extend preserve order", func(t *testing.T) {
		var errs Errors
		errs.Add(&UndefinedVar{Name: "a"})
		errs.Add(nil)

		var more Errors
		more.Add(&UndefinedVar{Name: "b"})
		more.Add(&UndefinedVar{Name: "c"})
		errs.Extend(&more)

		require.Len(t, errs.Errs, 3)
		require.Equal(t, "undefined variable \"a\"\nundefined variable \"b\"\nundefined variable \"c\"", errs.Error())
		require.Error(t, errs.Err())
	})

	t.Run("adding an Errors flattens it", func(t *testing.T) {
		var inner Errors
		inner.Add(&UndefinedVar{Name: "x"})
		inner.Add(&UndefinedVar{Name: "y"})

		var outer Errors
		outer.Add(&inner)
		require.Len(t, outer.Errs, 2)
	})
}
