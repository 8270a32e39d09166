// Package value implements the (CType, value) pair at the heart of the
// evaluator: Number, and the arithmetic usual-conversions built on top of
// ctype.CombineTypes.
package value

import (
	"fmt"
	"math"

	"github.com/cinth/cinth/ctype"
)

// Number is a C value: a CType paired with either an integer or a floating
// point representation, consistent with the CType's storage class. A
// pointer-shaped Number (Type.Pointer == true) stores its address in the
// integer slot.
type Number struct {
	Type ctype.CType
	i    int64
	f    float64
}

// NewInt builds a Number of an integer (or pointer) CType, wrapping v into
// the type's representable range by modular arithmetic.
func NewInt(t ctype.CType, v int64) Number {
	if t.IsFloat() {
		return NewFloat(t, float64(v))
	}
	if t.Pointer {
		return Number{Type: t, i: v}
	}
	lo, hi := t.Limits()
	span := hi - lo + 1
	if span == 0 {
		// a signed 64-bit range covers every int64; hi-lo+1 overflowed to 0
		return Number{Type: t, i: v}
	}
	w := (v-lo)%span + lo
	if w < lo {
		w += span
	}
	return Number{Type: t, i: w}
}

// NewFloat builds a Number of a floating point CType.
func NewFloat(t ctype.CType, v float64) Number {
	if !t.IsFloat() {
		return NewInt(t, int64(v))
	}
	return Number{Type: t, f: v}
}

// Default returns the fixed in-range value used for uninitialized storage.
// Spec permits any representable default; 0 is chosen for determinism
// rather than true randomness, so traces and tests stay reproducible.
func Default(t ctype.CType) Number {
	if t.IsFloat() {
		return NewFloat(t, 0)
	}
	return NewInt(t, 0)
}

// IntValue returns the integer (or address) representation, converting from
// float by truncation if necessary.
func (n Number) IntValue() int64 {
	if n.Type.IsFloat() {
		return int64(n.f)
	}
	return n.i
}

// FloatValue returns the floating point representation, converting from
// int if necessary.
func (n Number) FloatValue() float64 {
	if n.Type.IsFloat() {
		return n.f
	}
	return float64(n.i)
}

// Address returns the pointer's address; panics if Type is not a pointer.
func (n Number) Address() uint {
	if !n.Type.Pointer {
		panic("value: Address() called on non-pointer Number")
	}
	return uint(n.i)
}

// Truthy implements C's `value != 0` truthiness test.
func (n Number) Truthy() bool {
	if n.Type.IsFloat() {
		return n.f != 0
	}
	return n.i != 0
}

func (n Number) String() string {
	if n.Type.IsFloat() {
		return fmt.Sprintf("%v (%v)", n.Type, n.f)
	}
	return fmt.Sprintf("%v (%v)", n.Type, n.i)
}

// Cast converts n to a new CType, per the evaluator's explicit-cast and
// implicit-assignment-cast semantics.
func (n Number) Cast(t ctype.CType) Number {
	if t.Pointer {
		return Number{Type: t, i: n.IntValue()}
	}
	if t.IsFloat() {
		return NewFloat(t, n.FloatValue())
	}
	return NewInt(t, n.IntValue())
}

func binNumeric(a, b Number, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	if rt.IsFloat() {
		return NewFloat(rt, floatOp(a.FloatValue(), b.FloatValue()))
	}
	return NewInt(rt, intOp(a.IntValue(), b.IntValue()))
}

// Add implements `a + b`, including pointer + integer scaling.
func Add(a, b Number) (Number, error) {
	if a.Type.Pointer {
		pointee, err := a.Type.Dereference()
		if err != nil {
			return Number{}, err
		}
		return Number{Type: a.Type, i: a.i + b.IntValue()*int64(pointee.SizeBytes())}, nil
	}
	if b.Type.Pointer {
		pointee, err := b.Type.Dereference()
		if err != nil {
			return Number{}, err
		}
		return Number{Type: b.Type, i: b.i + a.IntValue()*int64(pointee.SizeBytes())}, nil
	}
	return binNumeric(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y }), nil
}

// Sub implements `a - b`, including pointer - integer scaling.
func Sub(a, b Number) (Number, error) {
	if a.Type.Pointer {
		pointee, err := a.Type.Dereference()
		if err != nil {
			return Number{}, err
		}
		return Number{Type: a.Type, i: a.i - b.IntValue()*int64(pointee.SizeBytes())}, nil
	}
	return binNumeric(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y }), nil
}

// Mul implements `a * b`.
func Mul(a, b Number) Number {
	return binNumeric(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

// Div implements `a / b`: truncating integer division, real float division.
func Div(a, b Number) (Number, error) {
	rt := ctype.CombineTypes(a.Type, b.Type)
	if rt.IsFloat() {
		return NewFloat(rt, a.FloatValue()/b.FloatValue()), nil
	}
	if b.IntValue() == 0 {
		return Number{}, fmt.Errorf("division by zero")
	}
	return NewInt(rt, a.IntValue()/b.IntValue()), nil
}

// Mod implements `a % b`; both operands must be integer CTypes.
func Mod(a, b Number) (Number, error) {
	if a.Type.IsFloat() || b.Type.IsFloat() {
		return Number{}, fmt.Errorf("invalid operands of types %q and %q to binary operator %%", a.Type, b.Type)
	}
	if b.IntValue() == 0 {
		return Number{}, fmt.Errorf("modulo by zero")
	}
	rt := ctype.CombineTypes(a.Type, b.Type)
	return NewInt(rt, a.IntValue()%b.IntValue()), nil
}

func compare(a, b Number, intCmp func(x, y int64) bool, floatCmp func(x, y float64) bool) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	var result bool
	if rt.IsFloat() {
		result = floatCmp(a.FloatValue(), b.FloatValue())
	} else {
		result = intCmp(a.IntValue(), b.IntValue())
	}
	return NewInt(ctype.IntType, boolToInt(result))
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func Lt(a, b Number) Number { return compare(a, b, func(x, y int64) bool { return x < y }, func(x, y float64) bool { return x < y }) }
func Gt(a, b Number) Number { return compare(a, b, func(x, y int64) bool { return x > y }, func(x, y float64) bool { return x > y }) }
func Le(a, b Number) Number {
	return compare(a, b, func(x, y int64) bool { return x <= y }, func(x, y float64) bool { return x <= y })
}
func Ge(a, b Number) Number {
	return compare(a, b, func(x, y int64) bool { return x >= y }, func(x, y float64) bool { return x >= y })
}
func Eq(a, b Number) Number {
	return compare(a, b, func(x, y int64) bool { return x == y }, func(x, y float64) bool { return x == y })
}
func Ne(a, b Number) Number {
	return compare(a, b, func(x, y int64) bool { return x != y }, func(x, y float64) bool { return x != y })
}

// And, Or, Xor implement the bitwise operators; callers (the semantic
// analyzer) are responsible for rejecting non-int operands beforehand.
func And(a, b Number) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	return NewInt(rt, a.IntValue()&b.IntValue())
}
func Or(a, b Number) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	return NewInt(rt, a.IntValue()|b.IntValue())
}
func Xor(a, b Number) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	return NewInt(rt, a.IntValue()^b.IntValue())
}

// Shl, Shr implement `<<`/`>>`; callers are responsible for rejecting
// non-int operands and negative shift counts beforehand.
func Shl(a, b Number) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	return NewInt(rt, a.IntValue()<<uint(b.IntValue()))
}
func Shr(a, b Number) Number {
	rt := ctype.CombineTypes(a.Type, b.Type)
	return NewInt(rt, a.IntValue()>>uint(b.IntValue()))
}

// Neg implements unary `-`.
func Neg(a Number) Number {
	if a.Type.IsFloat() {
		return NewFloat(a.Type, -a.FloatValue())
	}
	return NewInt(a.Type, -a.IntValue())
}

// LogNeg implements unary `!`.
func LogNeg(a Number) Number {
	if a.Truthy() {
		return NewInt(ctype.IntType, 0)
	}
	return NewInt(ctype.IntType, 1)
}

// LogAnd/LogOr implement `&&`/`||`; both sides are always evaluated by the
// caller (spec permits but does not require short-circuiting).
func LogAnd(a, b Number) Number { return NewInt(ctype.IntType, boolToInt(a.Truthy() && b.Truthy())) }
func LogOr(a, b Number) Number  { return NewInt(ctype.IntType, boolToInt(a.Truthy() || b.Truthy())) }

// IsNaN reports whether a float-valued Number holds NaN.
func (n Number) IsNaN() bool { return n.Type.IsFloat() && math.IsNaN(n.f) }
