// Package sema implements the static semantic pass: it walks the AST once,
// builds a chain of scoped symbol tables, and rejects ill-typed programs
// before the evaluator ever runs. Fatal violations panic with a
// *clierr.Error (caught by the caller via clierr.Recover); warnings are
// appended to the Analyzer's Warnings slice and do not stop the walk.
package sema

import "github.com/cinth/cinth/ctype"

// VarSymbol is a declared variable binding.
type VarSymbol struct {
	Name string
	Type ctype.CType
}

// ConstSymbol is a declared constant binding (no storage, from #include).
type ConstSymbol struct {
	Name string
	Type ctype.CType
}

// FunctionSymbol is a declared function's signature. Params == nil marks a
// variadic/unknown-arity builtin (printf, scanf); arity is not checked
// against such a function.
type FunctionSymbol struct {
	Name       string
	ReturnType ctype.CType
	Params     []VarSymbol
}

// StructSymbol is a declared struct type's field layout, in declaration
// order.
type StructSymbol struct {
	Name       string
	FieldOrder []string
	Fields     map[string]ctype.CType
}

// Symbol is any of the four symbol kinds bound in a scope.
type Symbol interface{ symbolName() string }

func (s VarSymbol) symbolName() string      { return s.Name }
func (s ConstSymbol) symbolName() string    { return s.Name }
func (s FunctionSymbol) symbolName() string { return s.Name }
func (s StructSymbol) symbolName() string   { return s.Name }

// ScopedSymbolTable is name -> Symbol, chained to an enclosing scope.
type ScopedSymbolTable struct {
	Name    string
	Parent  *ScopedSymbolTable
	order   []string
	symbols map[string]Symbol
}

// NewScope builds a table nested under parent (nil for the global scope).
func NewScope(name string, parent *ScopedSymbolTable) *ScopedSymbolTable {
	return &ScopedSymbolTable{Name: name, Parent: parent, symbols: make(map[string]Symbol)}
}

// DeclaredHere reports whether name is bound directly in this scope, not an
// enclosing one -- used for the uniqueness check.
func (t *ScopedSymbolTable) DeclaredHere(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// Insert binds name in this scope. Callers must check DeclaredHere first to
// raise a proper uniqueness error instead of silently shadowing.
func (t *ScopedSymbolTable) Insert(sym Symbol) {
	name := sym.symbolName()
	if _, exists := t.symbols[name]; !exists {
		t.order = append(t.order, name)
	}
	t.symbols[name] = sym
}

// Lookup walks outward from this scope to the global root.
func (t *ScopedSymbolTable) Lookup(name string) (Symbol, bool) {
	for cur := t; cur != nil; cur = cur.Parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
