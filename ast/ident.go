package ast

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Identifier is a non-empty byte string matching [A-Za-z_][A-Za-z0-9_-]*.
// It is immutable once constructed.
type Identifier string

// IsIdentifierByte reports whether b may appear in an identifier body
// (everything but the required leading letter/underscore).
func IsIdentifierByte(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// IsIdentifierStart reports whether b may start an identifier.
func IsIdentifierStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// NewIdentifier validates name and returns it as an Identifier.
func NewIdentifier(name string) (Identifier, error) {
	if len(name) == 0 {
		return "", errors.New("identifier must be non-empty")
	}
	if !IsIdentifierStart(name[0]) {
		return "", errors.Errorf("identifier %q must start with a letter or underscore", name)
	}
	for i := 1; i < len(name); i++ {
		if !IsIdentifierByte(name[i]) {
			return "", errors.Errorf("identifier %q contains invalid byte %q", name, name[i])
		}
	}
	return Identifier(name), nil
}

func (i Identifier) String() string { return string(i) }

// NumberKind tags the representation a Number carries.
type NumberKind int

const (
	// NumberUint is an unsigned 64-bit integer.
	NumberUint NumberKind = iota
	// NumberInt is a signed 64-bit integer.
	NumberInt
	// NumberFloat is a finite 64-bit float.
	NumberFloat
)

// Number is a tagged union of {unsigned-64, signed-64, finite-64-bit-float}.
type Number struct {
	Kind NumberKind
	U    uint64
	I    int64
	F    float64
}

// NewUintNumber returns a Number holding an unsigned 64-bit integer.
func NewUintNumber(u uint64) Number { return Number{Kind: NumberUint, U: u} }

// NewIntNumber returns a Number holding a signed 64-bit integer.
func NewIntNumber(i int64) Number { return Number{Kind: NumberInt, I: i} }

// NewFloatNumber returns a Number holding a finite 64-bit float. Construction
// fails for NaN and +/-Inf.
func NewFloatNumber(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, errors.Errorf("number %v is not finite", f)
	}
	return Number{Kind: NumberFloat, F: f}, nil
}

// Float returns the Number's common numeric interpretation as a float64.
func (n Number) Float() float64 {
	switch n.Kind {
	case NumberUint:
		return float64(n.U)
	case NumberInt:
		return float64(n.I)
	default:
		return n.F
	}
}

// Equal compares n and o numerically within their tag, or by common
// numeric interpretation across tags.
func (n Number) Equal(o Number) bool {
	if n.Kind == o.Kind {
		switch n.Kind {
		case NumberUint:
			return n.U == o.U
		case NumberInt:
			return n.I == o.I
		default:
			return n.F == o.F
		}
	}
	return n.Float() == o.Float()
}

// String renders the number's canonical decimal text.
func (n Number) String() string {
	switch n.Kind {
	case NumberUint:
		return fmt.Sprintf("%d", n.U)
	case NumberInt:
		return fmt.Sprintf("%d", n.I)
	default:
		return formatFloat(n.F)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%g", f)
}

// Arithmetic helpers used by the evaluator's binary operators. All
// arithmetic is performed in float64, matching HCL's untyped "number" type.

// Add returns n + o.
func (n Number) Add(o Number) (Number, error) { return NewFloatNumber(n.Float() + o.Float()) }

// Sub returns n - o.
func (n Number) Sub(o Number) (Number, error) { return NewFloatNumber(n.Float() - o.Float()) }

// Mul returns n * o.
func (n Number) Mul(o Number) (Number, error) { return NewFloatNumber(n.Float() * o.Float()) }

// Div returns n / o. Returns an error if o is zero.
func (n Number) Div(o Number) (Number, error) {
	if o.Float() == 0 {
		return Number{}, errors.New("division by zero")
	}
	return NewFloatNumber(n.Float() / o.Float())
}

// Mod returns n % o. Returns an error if o is zero.
func (n Number) Mod(o Number) (Number, error) {
	if o.Float() == 0 {
		return Number{}, errors.New("division by zero")
	}
	return NewFloatNumber(math.Mod(n.Float(), o.Float()))
}

// Less reports whether n < o.
func (n Number) Less(o Number) bool { return n.Float() < o.Float() }

// LessEqual reports whether n <= o.
func (n Number) LessEqual(o Number) bool { return n.Float() <= o.Float() }
