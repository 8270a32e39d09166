package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/ctype"
)

func charType(t *testing.T) ctype.CType {
	ct, err := ctype.FromString("char")
	require.NoError(t, err)
	return ct
}

func ucharType(t *testing.T) ctype.CType {
	ct, err := ctype.FromString("unsigned char")
	require.NoError(t, err)
	return ct
}

func TestNewIntWraps(t *testing.T) {
	c := charType(t)
	n := NewInt(c, 200)
	require.Equal(t, int64(-56), n.IntValue())

	u := ucharType(t)
	n2 := NewInt(u, -1)
	require.Equal(t, int64(255), n2.IntValue())

	n3 := NewInt(u, 256)
	require.Equal(t, int64(0), n3.IntValue())
}

func TestNewFloatIgnoresIntType(t *testing.T) {
	n := NewFloat(ctype.IntType, 3.9)
	require.Equal(t, int64(3), n.IntValue())
}

func TestDefaultIsDeterministic(t *testing.T) {
	require.Equal(t, Default(ctype.IntType), Default(ctype.IntType))
	require.Equal(t, int64(0), Default(ctype.IntType).IntValue())
}

func TestAddPointerScalesByPointeeSize(t *testing.T) {
	ptr := ctype.CType{TypeSpec: ctype.Int, Pointer: true}
	base := NewInt(ptr, 1000)
	off := NewInt(ctype.IntType, 3)
	sum, err := Add(base, off)
	require.NoError(t, err)
	require.True(t, sum.Type.Pointer)
	require.Equal(t, int64(1000+3*4), sum.IntValue())
}

func TestSubPointerScalesByPointeeSize(t *testing.T) {
	ptr := ctype.CType{TypeSpec: ctype.Char, Pointer: true}
	base := NewInt(ptr, 1000)
	off := NewInt(ctype.IntType, 3)
	diff, err := Sub(base, off)
	require.NoError(t, err)
	require.Equal(t, int64(997), diff.IntValue())
}

func TestDivByZeroIsError(t *testing.T) {
	a := NewInt(ctype.IntType, 4)
	b := NewInt(ctype.IntType, 0)
	_, err := Div(a, b)
	require.Error(t, err)
}

func TestDivFloatIsReal(t *testing.T) {
	d, err := ctype.FromString("double")
	require.NoError(t, err)
	a := NewFloat(d, 7)
	b := NewFloat(d, 2)
	r, err := Div(a, b)
	require.NoError(t, err)
	require.InDelta(t, 3.5, r.FloatValue(), 1e-9)
}

func TestModRejectsFloat(t *testing.T) {
	d, err := ctype.FromString("double")
	require.NoError(t, err)
	a := NewFloat(d, 7)
	b := NewInt(ctype.IntType, 2)
	_, err = Mod(a, b)
	require.Error(t, err)
}

func TestComparisonsReturnIntType(t *testing.T) {
	a := NewInt(ctype.IntType, 3)
	b := NewInt(ctype.IntType, 5)
	require.Equal(t, int64(1), Lt(a, b).IntValue())
	require.True(t, Lt(a, b).Type.Equal(ctype.IntType))
	require.Equal(t, int64(0), Gt(a, b).IntValue())
}

func TestLogicalOperators(t *testing.T) {
	zero := NewInt(ctype.IntType, 0)
	one := NewInt(ctype.IntType, 1)
	require.Equal(t, int64(1), LogNeg(zero).IntValue())
	require.Equal(t, int64(0), LogNeg(one).IntValue())
	require.Equal(t, int64(0), LogAnd(one, zero).IntValue())
	require.Equal(t, int64(1), LogOr(one, zero).IntValue())
}

func TestCastIntToFloatAndBack(t *testing.T) {
	d, err := ctype.FromString("double")
	require.NoError(t, err)
	n := NewInt(ctype.IntType, 7)
	f := n.Cast(d)
	require.InDelta(t, 7.0, f.FloatValue(), 1e-9)
	back := f.Cast(ctype.IntType)
	require.Equal(t, int64(7), back.IntValue())
}

func TestCombineTypesPromotesToWiderOperand(t *testing.T) {
	d, err := ctype.FromString("double")
	require.NoError(t, err)
	a := NewInt(ctype.IntType, 3)
	b := NewFloat(d, 2)
	sum, err := Add(a, b)
	require.NoError(t, err)
	require.True(t, sum.Type.IsFloat())
	require.InDelta(t, 5.0, sum.FloatValue(), 1e-9)
}
