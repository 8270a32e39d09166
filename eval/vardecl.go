package eval

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/value"
)

// execVarDecl declares n in the current scope. A by-value struct variable
// is allocated manually as the sum of its fields' sizes (ctype.CType's own
// SizeBytes is a placeholder for struct types — see its doc comment — so
// the evaluator, which already tracks struct layouts, computes the real
// size here instead of asking Memory.Declare to do it blind).
func (e *Evaluator) execVarDecl(n *ast.VarDecl) {
	if n.Type.TypeSpec == ctype.Struct && !n.Type.Pointer {
		e.declareStructVar(n)
		return
	}

	addr := e.mem.Declare(n.Type, n.Name)
	e.declTy[addr] = n.Type
	if n.Init != nil {
		v := e.evalExpr(n.Init)
		if err := e.mem.Store(addr, v.Cast(n.Type)); err != nil {
			e.fatalf(n.Line(), "%s", err)
		}
	}
}

func (e *Evaluator) declareStructVar(n *ast.VarDecl) {
	layout, ok := e.structs[n.Type.StructName]
	if !ok {
		e.fatalf(n.Line(), "unknown struct %q", n.Type.StructName)
	}
	addr := e.mem.Allocate(structByteSize(layout))
	e.mem.BindAddress(n.Name, addr)
	// declTy records the struct's own type at its base address, consulted
	// by fieldAddress to resolve `z.field`; per-field slots are never
	// looked up by address through declTy (fieldAddress gets a field's
	// CType from the struct layout itself), so recording one here would
	// only risk overwriting this entry for a field at offset 0.
	e.declTy[addr] = n.Type

	offset := uint(0)
	for _, fname := range layout.FieldOrder {
		ft := layout.Fields[fname]
		fieldAddr := addr + offset
		if err := e.mem.Store(fieldAddr, value.Default(ft)); err != nil {
			e.fatalf(n.Line(), "%s", err)
		}
		offset += ft.SizeBytes()
	}
}

func structByteSize(layout *ast.StructDecl) uint {
	var sz uint
	for _, fname := range layout.FieldOrder {
		sz += layout.Fields[fname].SizeBytes()
	}
	return sz
}
