package builtin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/value"
)

func newTestRegistry(stdin string) (*Registry, *bytes.Buffer) {
	var out bytes.Buffer
	r := NewRegistry(strings.NewReader(stdin), &out)
	return r, &out
}

func TestRegistryRegistersAllLibraries(t *testing.T) {
	r, _ := newTestRegistry("")
	for _, name := range []string{"stdio", "stdlib", "math", "limits"} {
		_, ok := r.Library(name)
		require.Truef(t, ok, "missing library %q", name)
	}
}

func TestPrintfFormatsAndCountsBytes(t *testing.T) {
	r, out := newTestRegistry("")
	lib, _ := r.Library("stdio")
	var printf Func
	for _, f := range lib.Funcs {
		if f.Name == "printf" {
			printf = f
		}
	}
	n, err := printf.Call(r, nil, []interface{}{"x=%d y=%s\n", value.NewInt(ctype.IntType, 7), "hi"})
	require.NoError(t, err)
	require.Equal(t, "x=7 y=hi\n", out.String())
	require.Equal(t, int64(len(out.String())), n.IntValue())
}

func TestScanfStoresThroughPointer(t *testing.T) {
	r, _ := newTestRegistry("42 9.5\n")
	lib, _ := r.Library("stdio")
	var scanf Func
	for _, f := range lib.Funcs {
		if f.Name == "scanf" {
			scanf = f
		}
	}
	mem := memtable.New(1 << 20)
	addr := mem.Declare(ctype.IntType, "x")
	ptrVal := value.NewInt(ctype.CType{TypeSpec: ctype.Int, Pointer: true}, int64(addr))

	n, err := scanf.Call(r, mem, []interface{}{"%d", ptrVal})
	require.NoError(t, err)
	require.Equal(t, int64(1), n.IntValue())

	got, err := mem.Load(addr)
	require.NoError(t, err)
	require.Equal(t, int64(42), got.(value.Number).IntValue())
}

func TestMallocThenFreeThenDoubleFreeErrors(t *testing.T) {
	r, _ := newTestRegistry("")
	lib, _ := r.Library("stdlib")
	funcs := map[string]Func{}
	for _, f := range lib.Funcs {
		funcs[f.Name] = f
	}
	mem := memtable.New(1 << 20)

	addr, err := funcs["malloc"].Call(r, mem, []interface{}{value.NewInt(ctype.IntType, 4)})
	require.NoError(t, err)
	require.NotZero(t, addr.IntValue())

	_, err = funcs["free"].Call(r, mem, []interface{}{addr})
	require.NoError(t, err)

	_, err = funcs["free"].Call(r, mem, []interface{}{addr})
	require.Error(t, err)
}

func TestFreeOfNeverAllocatedAddressErrors(t *testing.T) {
	r, _ := newTestRegistry("")
	lib, _ := r.Library("stdlib")
	var free Func
	for _, f := range lib.Funcs {
		if f.Name == "free" {
			free = f
		}
	}
	mem := memtable.New(1 << 20)
	_, err := free.Call(r, mem, []interface{}{value.NewInt(ctype.IntType, 123456)})
	require.Error(t, err)
}

func TestRandIsDeterministicAfterSrand(t *testing.T) {
	r, _ := newTestRegistry("")
	lib, _ := r.Library("stdlib")
	funcs := map[string]Func{}
	for _, f := range lib.Funcs {
		funcs[f.Name] = f
	}
	mem := memtable.New(1 << 20)

	_, err := funcs["srand"].Call(r, mem, []interface{}{value.NewInt(ctype.IntType, 99)})
	require.NoError(t, err)
	a, err := funcs["rand"].Call(r, mem, nil)
	require.NoError(t, err)

	_, err = funcs["srand"].Call(r, mem, []interface{}{value.NewInt(ctype.IntType, 99)})
	require.NoError(t, err)
	b, err := funcs["rand"].Call(r, mem, nil)
	require.NoError(t, err)

	require.Equal(t, a.IntValue(), b.IntValue())
}

func TestAbsNegatesNegativeNumbers(t *testing.T) {
	r, _ := newTestRegistry("")
	lib, _ := r.Library("stdlib")
	var abs Func
	for _, f := range lib.Funcs {
		if f.Name == "abs" {
			abs = f
		}
	}
	got, err := abs.Call(r, nil, []interface{}{value.NewInt(ctype.IntType, -5)})
	require.NoError(t, err)
	require.Equal(t, int64(5), got.IntValue())
}

func TestMathSqrtAndTwoArgFunctions(t *testing.T) {
	r, _ := newTestRegistry("")
	lib, _ := r.Library("math")
	funcs := map[string]Func{}
	for _, f := range lib.Funcs {
		funcs[f.Name] = f
	}

	sq, err := funcs["sqrt"].Call(r, nil, []interface{}{value.NewFloat(doubleType(), 9)})
	require.NoError(t, err)
	require.InDelta(t, 3.0, sq.FloatValue(), 1e-9)

	p, err := funcs["pow"].Call(r, nil, []interface{}{value.NewFloat(doubleType(), 2), value.NewFloat(doubleType(), 10)})
	require.NoError(t, err)
	require.InDelta(t, 1024.0, p.FloatValue(), 1e-9)

	a2, err := funcs["atan2"].Call(r, nil, []interface{}{value.NewFloat(doubleType(), 1), value.NewFloat(doubleType(), 1)})
	require.NoError(t, err)
	require.InDelta(t, 0.7853981633974483, a2.FloatValue(), 1e-9)
}

func TestLimitsConstantsMatchSizes(t *testing.T) {
	lib := limitsLibrary()
	consts := map[string]value.Number{}
	for _, c := range lib.Consts {
		consts[c.Name] = c.Value
	}
	require.Equal(t, int64(127), consts["SCHAR_MAX"].IntValue())
	require.Equal(t, int64(-128), consts["SCHAR_MIN"].IntValue())
	require.Equal(t, int64(255), consts["UCHAR_MAX"].IntValue())
	require.Equal(t, int64(2147483647), consts["INT_MAX"].IntValue())
	require.Equal(t, int64(-2147483648), consts["INT_MIN"].IntValue())
	require.Equal(t, int64(8), consts["CHAR_BIT"].IntValue())
}
