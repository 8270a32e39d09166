package builtin

import (
	"fmt"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/value"
)

func stdlibLibrary() *Library {
	return &Library{
		Name: "stdlib",
		Consts: []Const{
			{Name: "RAND_MAX", Value: value.NewInt(ctype.IntType, 32767)},
			{Name: "NULL", Value: value.NewInt(ctype.IntType, 0)},
		},
		Funcs: []Func{
			{Name: "rand", ReturnType: ctype.IntType, ParamTypes: []ctype.CType{}, Call: callRand},
			{Name: "srand", ReturnType: ctype.IntType, ParamTypes: []ctype.CType{unsignedIntType()}, Call: callSrand},
			{Name: "abs", ReturnType: ctype.IntType, ParamTypes: []ctype.CType{ctype.IntType}, Call: callAbs},
			{Name: "malloc", ReturnType: ctype.IntType, ParamTypes: []ctype.CType{ctype.IntType}, Call: callMalloc},
			{Name: "free", ReturnType: ctype.IntType, ParamTypes: []ctype.CType{ctype.IntType}, Call: callFree},
		},
	}
}

func unsignedIntType() ctype.CType { return ctype.CType{TypeSpec: ctype.Int, SignSpec: ctype.Unsigned} }

func callRand(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	return value.NewInt(ctype.IntType, int64(r.rng.Intn(32768))), nil
}

func callSrand(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) != 1 {
		return value.Number{}, fmt.Errorf("srand: expected 1 argument")
	}
	n, ok := asNumber(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("srand: expected a numeric argument")
	}
	r.Seed(n.IntValue())
	return value.NewInt(ctype.IntType, 0), nil
}

func callAbs(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) != 1 {
		return value.Number{}, fmt.Errorf("abs: expected 1 argument")
	}
	n, ok := asNumber(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("abs: expected a numeric argument")
	}
	v := n.IntValue()
	if v < 0 {
		v = -v
	}
	return value.NewInt(ctype.IntType, v), nil
}

// callMalloc allocates sz fresh addresses and records them as a live
// dynamic allocation, so a matching free can be validated and a repeat
// free rejected as a double-free.
func callMalloc(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) != 1 {
		return value.Number{}, fmt.Errorf("malloc: expected 1 argument")
	}
	n, ok := asNumber(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("malloc: expected a numeric argument")
	}
	sz := n.IntValue()
	if sz <= 0 {
		return value.NewInt(ctype.IntType, 0), nil
	}
	addr := mem.Allocate(uint(sz))
	mem.MarkLive(addr)
	return value.NewInt(ctype.IntType, int64(addr)), nil
}

// callFree errors if addr was never returned by malloc or was already
// freed, fixing the original's non-terminating double-free behavior.
func callFree(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) != 1 {
		return value.Number{}, fmt.Errorf("free: expected 1 argument")
	}
	n, ok := asNumber(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("free: expected a numeric argument")
	}
	addr := uint(n.IntValue())
	if !mem.IsLive(addr) {
		return value.Number{}, fmt.Errorf("free: address %d was not dynamically allocated (or was already freed)", addr)
	}
	mem.Unlive(addr)
	mem.Free(addr)
	return value.NewInt(ctype.IntType, 0), nil
}
