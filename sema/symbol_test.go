package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/ctype"
)

func TestScopeInsertAndLookupWalksOutward(t *testing.T) {
	global := NewScope("global", nil)
	global.Insert(VarSymbol{Name: "g", Type: ctype.IntType})

	inner := NewScope("fn", global)
	inner.Insert(VarSymbol{Name: "x", Type: ctype.CType{TypeSpec: ctype.Double}})

	_, ok := inner.Lookup("g")
	require.True(t, ok)
	sym, ok := inner.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "double", sym.(VarSymbol).Type.String())

	_, ok = global.Lookup("x")
	require.False(t, ok, "outer scope must not see inner bindings")
}

func TestDeclaredHereDoesNotSeeParentScope(t *testing.T) {
	global := NewScope("global", nil)
	global.Insert(VarSymbol{Name: "g", Type: ctype.IntType})
	inner := NewScope("fn", global)

	require.False(t, inner.DeclaredHere("g"))
	require.True(t, global.DeclaredHere("g"))
}

func TestInsertOverwritesSameNameInSameScope(t *testing.T) {
	s := NewScope("s", nil)
	s.Insert(VarSymbol{Name: "x", Type: ctype.IntType})
	s.Insert(VarSymbol{Name: "x", Type: ctype.CType{TypeSpec: ctype.Double}})
	sym, _ := s.Lookup("x")
	require.Equal(t, "double", sym.(VarSymbol).Type.String())
}
