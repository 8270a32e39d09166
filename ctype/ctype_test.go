package ctype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/ctype"
)

func TestFromStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"char",
		"unsigned char",
		"short int",
		"unsigned short int",
		"int",
		"unsigned int",
		"long int",
		"unsigned long int",
		"long long int",
		"unsigned long long int",
		"float",
		"double",
		"long double",
		"int *",
		"struct foo",
		"struct foo *",
	} {
		t.Run(s, func(t *testing.T) {
			ty, err := ctype.FromString(s)
			require.NoError(t, err)
			require.Equal(t, s, ty.String())
		})
	}
}

func TestFromStringRejectsBadCombos(t *testing.T) {
	for _, s := range []string{
		"unsigned signed int",
		"long short int",
		"long char",
		"bogus",
		"long long double",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := ctype.FromString(s)
			require.Error(t, err)
		})
	}
}

func TestCombineTypesFloorsAtInt(t *testing.T) {
	char, _ := ctype.FromString("char")
	result := ctype.CombineTypes(char, char)
	require.Equal(t, "int", result.String())
}

func TestCombineTypesIsCommutative(t *testing.T) {
	a, _ := ctype.FromString("unsigned long int")
	b, _ := ctype.FromString("float")
	require.Equal(t, ctype.CombineTypes(a, b).String(), ctype.CombineTypes(b, a).String())
}

func TestSizeBytes(t *testing.T) {
	cases := map[string]uint{
		"char":                    1,
		"unsigned char":           1,
		"short int":               2,
		"unsigned short int":      2,
		"int":                     4,
		"unsigned int":            4,
		"long int":                4,
		"long long int":           8,
		"float":                   4,
		"double":                  4,
		"long double":             8,
		"int *":                   4,
		"unsigned long long int *": 4,
	}
	for s, want := range cases {
		t.Run(s, func(t *testing.T) {
			ty, err := ctype.FromString(s)
			require.NoError(t, err)
			require.Equal(t, want, ty.SizeBytes())
		})
	}
}

func TestLimits(t *testing.T) {
	ty, err := ctype.FromString("char")
	require.NoError(t, err)
	lo, hi := ty.Limits()
	require.Equal(t, int64(-128), lo)
	require.Equal(t, int64(127), hi)

	ty, err = ctype.FromString("unsigned char")
	require.NoError(t, err)
	lo, hi = ty.Limits()
	require.Equal(t, int64(0), lo)
	require.Equal(t, int64(255), hi)

	ty, err = ctype.FromString("int")
	require.NoError(t, err)
	lo, hi = ty.Limits()
	require.Equal(t, int64(-2147483648), lo)
	require.Equal(t, int64(2147483647), hi)
}

func TestDereference(t *testing.T) {
	ptr, err := ctype.FromString("int *")
	require.NoError(t, err)
	pointee, err := ptr.Dereference()
	require.NoError(t, err)
	require.Equal(t, "int", pointee.String())

	notPtr, _ := ctype.FromString("int")
	_, err = notPtr.Dereference()
	require.Error(t, err)
}
