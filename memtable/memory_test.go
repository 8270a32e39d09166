package memtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/value"
)

func TestDeclareAndReadGlobal(t *testing.T) {
	m := New(0)
	m.Declare(ctype.IntType, "x")
	v, err := m.Read("x")
	require.NoError(t, err)
	n, ok := v.(value.Number)
	require.True(t, ok)
	require.Equal(t, int64(0), n.IntValue())
}

func TestWriteThenRead(t *testing.T) {
	m := New(0)
	m.Declare(ctype.IntType, "x")
	require.NoError(t, m.Write("x", value.NewInt(ctype.IntType, 42)))
	v, err := m.Read("x")
	require.NoError(t, err)
	require.Equal(t, int64(42), v.(value.Number).IntValue())
}

func TestFrameShadowsGlobal(t *testing.T) {
	m := New(0)
	m.Declare(ctype.IntType, "x")
	require.NoError(t, m.Write("x", value.NewInt(ctype.IntType, 1)))

	m.NewFrame("f")
	m.Declare(ctype.IntType, "x")
	require.NoError(t, m.Write("x", value.NewInt(ctype.IntType, 2)))
	v, err := m.Read("x")
	require.NoError(t, err)
	require.Equal(t, int64(2), v.(value.Number).IntValue())
	m.DelFrame()

	v, err = m.Read("x")
	require.NoError(t, err)
	require.Equal(t, int64(1), v.(value.Number).IntValue())
}

func TestBlockScopeNestingInFrame(t *testing.T) {
	m := New(0)
	m.NewFrame("f")
	m.Declare(ctype.IntType, "y")
	require.NoError(t, m.Write("y", value.NewInt(ctype.IntType, 10)))

	m.NewScope()
	m.Declare(ctype.IntType, "z")
	require.NoError(t, m.Write("z", value.NewInt(ctype.IntType, 20)))
	v, err := m.Read("y")
	require.NoError(t, err)
	require.Equal(t, int64(10), v.(value.Number).IntValue())
	m.DelScope()

	_, err = m.Read("z")
	require.Error(t, err)
	m.DelFrame()
}

func TestDeclareConstantHasNoAddress(t *testing.T) {
	m := New(0)
	m.DeclareConstant("NULL", value.NewInt(ctype.IntType, 0))
	_, err := m.GetAddress("NULL")
	require.Error(t, err)
	v, err := m.Read("NULL")
	require.NoError(t, err)
	require.Equal(t, int64(0), v.(value.Number).IntValue())
}

func TestLoadUninitializedAddressReadsDefaultInt(t *testing.T) {
	m := New(0)
	v, err := m.Load(999)
	require.NoError(t, err)
	require.Equal(t, int64(0), v.(value.Number).IntValue())
}

func TestFreeMakesAddressUninitializedAgain(t *testing.T) {
	m := New(0)
	addr := m.Allocate(4)
	require.NoError(t, m.Store(addr, value.NewInt(ctype.IntType, 7)))
	m.MarkLive(addr)
	require.True(t, m.IsLive(addr))

	m.Free(addr)
	m.Unlive(addr)
	require.False(t, m.IsLive(addr))

	v, err := m.Load(addr)
	require.NoError(t, err)
	require.Equal(t, int64(0), v.(value.Number).IntValue())
}

func TestPagedStoreAcrossPageBoundary(t *testing.T) {
	s := NewPagedStore[int](0)
	require.NoError(t, s.Store(0, 1))
	require.NoError(t, s.Store(5000, 2))
	v, ok, err := s.Load(5000)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok, err = s.Load(10)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPagedStoreMemLimit(t *testing.T) {
	s := NewPagedStore[int](100)
	err := s.Store(200, 1)
	require.Error(t, err)
	var limErr LimitError
	require.ErrorAs(t, err, &limErr)
}
