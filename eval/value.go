// Package eval is the tree-walking expression evaluator: lexically scoped
// Context, the Value runtime representation, FuncDef argument validation,
// and Evaluate/EvaluateInPlace, the two operations that turn a parsed
// Expression or Body into Values.
package eval

import (
	"strings"

	"github.com/openllb/hclgo/ast"
	"github.com/openllb/hclgo/internal/omap"
)

// Kind tags which field of a Value holds its data.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is the evaluator's runtime representation of an HCL value: a
// tagged union of null, bool, number, string, array, and object (an
// insertion-ordered string-keyed map).
type Value struct {
	Kind   Kind
	Bool   bool
	Number ast.Number
	Str    string
	Array  []Value
	Object *omap.Map[string, Value]
}

func Null() Value                        { return Value{Kind: KindNull} }
func Bool(b bool) Value                  { return Value{Kind: KindBool, Bool: b} }
func Num(n ast.Number) Value             { return Value{Kind: KindNumber, Number: n} }
func Str(s string) Value                 { return Value{Kind: KindString, Str: s} }
func Arr(vs []Value) Value               { return Value{Kind: KindArray, Array: vs} }
func Obj(m *omap.Map[string, Value]) Value { return Value{Kind: KindObject, Object: m} }

// TypeName returns v's type name as used in error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// String renders v for template interpolation, following the array/object
// stringification rules.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Number.String()
	case KindString:
		return v.Str
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		var parts []string
		v.Object.ForEach(func(k string, val Value) {
			parts = append(parts, k+" = "+val.String())
		})
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same value, recursively for
// arrays and objects. Objects compare equal regardless of key order.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number.Equal(o.Number)
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.Object.Len() != o.Object.Len() {
			return false
		}
		eq := true
		v.Object.ForEach(func(k string, val Value) {
			ov, ok := o.Object.Get(k)
			if !ok || !val.Equal(ov) {
				eq = false
			}
		})
		return eq
	default:
		return false
	}
}
