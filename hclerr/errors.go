// Package hclerr defines one struct per evaluation error kind, plus
// Errors, a multi-error accumulator used by in-place evaluation to collect
// every error in a body instead of stopping at the first.
package hclerr

import (
	"fmt"
	"strings"

	"github.com/openllb/hclgo/ast"
)

// UndefinedVar reports a reference to a variable not present in the
// current or any enclosing Context.
type UndefinedVar struct {
	Name       string
	Span       ast.Span
	Suggestion string
}

func (e *UndefinedVar) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("undefined variable %q; did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// UndefinedFunc reports a call to a function name with no FuncDef bound in
// the Context.
type UndefinedFunc struct {
	Name       string
	Span       ast.Span
	Suggestion string
}

func (e *UndefinedFunc) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("undefined function %q; did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("undefined function %q", e.Name)
}

// FuncArity reports a function call with the wrong number of arguments for
// its FuncDef's ParamTypes (accounting for expand_final spreading).
type FuncArity struct {
	Name     string
	Span     ast.Span
	Expected int
	Got      int
}

func (e *FuncArity) Error() string {
	return fmt.Sprintf("function %q expects %d argument(s), got %d", e.Name, e.Expected, e.Got)
}

// FuncArgType reports a function argument whose runtime type does not
// match its ParamType.
type FuncArgType struct {
	Name     string
	Span     ast.Span
	Index    int
	Expected string
	Got      string
}

func (e *FuncArgType) Error() string {
	return fmt.Sprintf("function %q argument %d: expected %s, got %s", e.Name, e.Index, e.Expected, e.Got)
}

// FuncCall wraps a failure raised by a function's own implementation,
// attaching the call's name and site.
type FuncCall struct {
	Name string
	Span ast.Span
	Err  error
}

func (e *FuncCall) Error() string {
	return fmt.Sprintf("error calling function %q: %s", e.Name, e.Err)
}

func (e *FuncCall) Unwrap() error { return e.Err }

// UnaryOpType reports a unary operator applied to a value of the wrong
// type (`-` needs a number, `!` needs a bool).
type UnaryOpType struct {
	Op   string
	Span ast.Span
	Got  string
}

func (e *UnaryOpType) Error() string {
	return fmt.Sprintf("unary operator %q: unsupported operand type %s", e.Op, e.Got)
}

// BinaryOpType reports a binary operator applied to operands whose types
// it does not support.
type BinaryOpType struct {
	Op       string
	Span     ast.Span
	LHS, RHS string
}

func (e *BinaryOpType) Error() string {
	return fmt.Sprintf("binary operator %q: unsupported operand types %s and %s", e.Op, e.LHS, e.RHS)
}

// DivideByZero reports `/` or `%` with a zero RHS.
type DivideByZero struct {
	Op   string
	Span ast.Span
}

func (e *DivideByZero) Error() string {
	return fmt.Sprintf("%s by zero", e.Op)
}

// IndexOutOfRange reports an array index traversal (`[N]` or legacy `.N`)
// outside the array's bounds.
type IndexOutOfRange struct {
	Span  ast.Span
	Index int64
	Len   int
}

func (e *IndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for array of length %d", e.Index, e.Len)
}

// NoSuchKey reports a `.name` or `[key]` traversal against an object with
// no matching key.
type NoSuchKey struct {
	Key        string
	Span       ast.Span
	Suggestion string
}

func (e *NoSuchKey) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("object has no attribute %q; did you mean %q?", e.Key, e.Suggestion)
	}
	return fmt.Sprintf("object has no attribute %q", e.Key)
}

// KeyExists reports a duplicate key produced by an object-for expression
// with grouping disabled.
type KeyExists struct {
	Key  string
	Span ast.Span
}

func (e *KeyExists) Error() string {
	return fmt.Sprintf("duplicate object key %q (use the grouping ... form to collect all values)", e.Key)
}

// TraversalType reports a GetAttr/Index/Splat operator applied to a value
// of a type it cannot operate on (e.g. `.attr` on a number).
type TraversalType struct {
	Span ast.Span
	Got  string
}

func (e *TraversalType) Error() string {
	return fmt.Sprintf("cannot traverse value of type %s", e.Got)
}

// ForExprCollection reports a for-expression whose collection expression
// did not evaluate to an array or object.
type ForExprCollection struct {
	Span ast.Span
	Got  string
}

func (e *ForExprCollection) Error() string {
	return fmt.Sprintf("for expression collection must be an array or object, got %s", e.Got)
}

// ConditionType reports a `cond ? a : b` whose condition was not a bool.
type ConditionType struct {
	Span ast.Span
	Got  string
}

func (e *ConditionType) Error() string {
	return fmt.Sprintf("condition must be a bool, got %s", e.Got)
}

// RecursionLimit reports that evaluation exceeded the configured maximum
// call/traversal depth.
type RecursionLimit struct {
	Span  ast.Span
	Limit int
}

func (e *RecursionLimit) Error() string {
	return fmt.Sprintf("exceeded maximum evaluation depth of %d", e.Limit)
}

// IO wraps an I/O failure encountered while resolving an external
// collaborator (e.g. reading a referenced file); kept distinct from parse
// and evaluation errors per the exhaustive error-kind taxonomy.
type IO struct {
	Span ast.Span
	Err  error
}

func (e *IO) Error() string { return fmt.Sprintf("io error: %s", e.Err) }
func (e *IO) Unwrap() error { return e.Err }

// UTF8 reports a `\u`/`\U` escape whose value is not a Unicode scalar
// value (a surrogate half, or past U+10FFFF) and so has no UTF-8 encoding.
type UTF8 struct {
	Span ast.Span
}

func (e *UTF8) Error() string { return "invalid UTF-8 sequence" }

// SpanOf returns the source span attached to err, when err is one of this
// package's kinds and carries a valid span.
func SpanOf(err error) (ast.Span, bool) {
	switch e := err.(type) {
	case *UndefinedVar:
		return e.Span, e.Span.Valid()
	case *UndefinedFunc:
		return e.Span, e.Span.Valid()
	case *FuncArity:
		return e.Span, e.Span.Valid()
	case *FuncArgType:
		return e.Span, e.Span.Valid()
	case *FuncCall:
		return e.Span, e.Span.Valid()
	case *UnaryOpType:
		return e.Span, e.Span.Valid()
	case *BinaryOpType:
		return e.Span, e.Span.Valid()
	case *DivideByZero:
		return e.Span, e.Span.Valid()
	case *IndexOutOfRange:
		return e.Span, e.Span.Valid()
	case *NoSuchKey:
		return e.Span, e.Span.Valid()
	case *KeyExists:
		return e.Span, e.Span.Valid()
	case *TraversalType:
		return e.Span, e.Span.Valid()
	case *ForExprCollection:
		return e.Span, e.Span.Valid()
	case *ConditionType:
		return e.Span, e.Span.Valid()
	case *RecursionLimit:
		return e.Span, e.Span.Valid()
	case *IO:
		return e.Span, e.Span.Valid()
	case *UTF8:
		return e.Span, e.Span.Valid()
	}
	return ast.Span{}, false
}

// WithSpan attaches sp to err when err is one of this package's kinds and
// does not already carry a span: errors enrich themselves on propagation,
// adopting the innermost frame that knows where it is. Unknown error types
// pass through unchanged.
func WithSpan(err error, sp ast.Span) error {
	if err == nil || !sp.Valid() {
		return err
	}
	switch e := err.(type) {
	case *UndefinedVar:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *UndefinedFunc:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *FuncArity:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *FuncArgType:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *FuncCall:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *UnaryOpType:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *BinaryOpType:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *DivideByZero:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *IndexOutOfRange:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *NoSuchKey:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *KeyExists:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *TraversalType:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *ForExprCollection:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *ConditionType:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *RecursionLimit:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *IO:
		if !e.Span.Valid() {
			e.Span = sp
		}
	case *UTF8:
		if !e.Span.Valid() {
			e.Span = sp
		}
	}
	return err
}

// Errors accumulates every error encountered during evaluate_in_place
// instead of failing at the first one.
type Errors struct {
	Errs []error
}

// Add appends err to the accumulator, if non-nil.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	if sub, ok := err.(*Errors); ok {
		e.Extend(sub)
		return
	}
	e.Errs = append(e.Errs, err)
}

// Extend appends every error from other.
func (e *Errors) Extend(other *Errors) {
	if other == nil {
		return
	}
	e.Errs = append(e.Errs, other.Errs...)
}

// Err returns e as an error if it holds at least one error, else nil.
func (e *Errors) Err() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}
