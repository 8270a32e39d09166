package sema

import (
	"fmt"

	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/builtin"
	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/internal/clierr"
)

// Analyzer walks a parsed Program once, building the scope chain and
// rejecting ill-typed programs. Non-fatal issues (numeric-assignment
// narrowing, ternary branch mismatch, call argument mismatch) are collected
// in Warnings rather than aborting the walk.
type Analyzer struct {
	registry *builtin.Registry
	global   *ScopedSymbolTable
	scope    *ScopedSymbolTable
	structs  map[string]*StructSymbol

	loopDepth   int
	switchDepth int
	blockDepth  int

	curFunc *FunctionSymbol

	Warnings []string
}

// New builds an Analyzer that resolves #include against reg.
func New(reg *builtin.Registry) *Analyzer {
	global := NewScope("global", nil)
	return &Analyzer{
		registry: reg,
		global:   global,
		scope:    global,
		structs:  make(map[string]*StructSymbol),
	}
}

func (a *Analyzer) warn(format string, args ...interface{}) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

func (a *Analyzer) fatal(line int, format string, args ...interface{}) {
	panic(clierr.Semanticf(line, format, args...))
}

// Analyze runs the full semantic pass over prog, recovering any fatal
// violation into a returned error.
func Analyze(prog *ast.Program, reg *builtin.Registry) (*Analyzer, error) {
	a := New(reg)
	err := clierr.Recover("sema.Analyze", func() error {
		a.analyzeProgram(prog)
		return nil
	})
	return a, err
}

func (a *Analyzer) analyzeProgram(prog *ast.Program) {
	var funcDecls []*ast.FunctionDecl

	// Pass 1: registry includes, struct decls and function signatures, so
	// mutually-recursive calls and forward references resolve regardless
	// of source order.
	for _, child := range flattenTopLevel(prog.Children) {
		switch n := child.(type) {
		case *ast.IncludeLibrary:
			a.handleInclude(n)
		case *ast.StructDecl:
			a.declareStruct(n)
		case *ast.FunctionDecl:
			a.declareFunctionSignature(n)
			funcDecls = append(funcDecls, n)
		}
	}

	// Struct field types referencing an undeclared struct, or a struct
	// embedding itself by value, are rejected once every struct name is
	// known.
	for _, s := range a.structs {
		a.checkStructFields(s)
	}

	if _, ok := a.global.Lookup("main"); !ok {
		a.fatal(0, "program has no main function")
	}

	// Pass 2: top-level var decls (in source order, interleaved with
	// pass-1 kinds is irrelevant since those were already handled) and
	// function bodies.
	for _, child := range flattenTopLevel(prog.Children) {
		if vd, ok := child.(*ast.VarDecl); ok {
			a.declareVar(vd)
		}
	}
	for _, fn := range funcDecls {
		a.analyzeFunctionBody(fn)
	}
}

// flattenTopLevel expands the CompoundStmt wrapper the parser uses to group
// a multi-declarator top-level decl_list (`int a, b;`) into its VarDecls.
func flattenTopLevel(children []ast.Node) []ast.Node {
	var out []ast.Node
	for _, c := range children {
		if grp, ok := c.(*ast.CompoundStmt); ok {
			out = append(out, grp.Stmts...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (a *Analyzer) handleInclude(n *ast.IncludeLibrary) {
	lib, ok := a.registry.Library(n.Name)
	if !ok {
		a.fatal(n.Line(), "unknown library %q", n.Name)
	}
	for _, f := range lib.Funcs {
		var params []VarSymbol
		if f.ParamTypes != nil {
			// A non-nil ParamTypes (even length 0, e.g. rand()) means arity
			// is checked; keep the slice non-nil so it isn't confused with
			// the nil-means-variadic marker below.
			params = make([]VarSymbol, 0, len(f.ParamTypes))
			for i, pt := range f.ParamTypes {
				params = append(params, VarSymbol{Name: fmt.Sprintf("arg%d", i), Type: pt})
			}
		}
		a.global.Insert(FunctionSymbol{Name: f.Name, ReturnType: f.ReturnType, Params: params})
	}
	for _, c := range lib.Consts {
		a.global.Insert(ConstSymbol{Name: c.Name, Type: c.Value.Type})
	}
}

func (a *Analyzer) declareStruct(n *ast.StructDecl) {
	if _, exists := a.structs[n.Name]; exists {
		a.fatal(n.Line(), "duplicate struct %q", n.Name)
	}
	sym := &StructSymbol{Name: n.Name, FieldOrder: n.FieldOrder, Fields: n.Fields}
	a.structs[n.Name] = sym
}

func (a *Analyzer) checkStructFields(s *StructSymbol) {
	for _, name := range s.FieldOrder {
		ft := s.Fields[name]
		if ft.TypeSpec != ctype.Struct {
			continue
		}
		if _, ok := a.structs[ft.StructName]; !ok {
			a.fatal(0, "struct %q field %q has unknown struct type %q", s.Name, name, ft.StructName)
		}
		// No by-value struct field, self-referential or not: the
		// evaluator lays out a struct variable's fields from CType's own
		// SizeBytes, which is a placeholder for Struct types (see its doc
		// comment) rather than a real recursive size, so a nested by-value
		// struct field can't be allocated or addressed correctly yet. A
		// pointer-to-struct field is fine — it's just an address.
		if !ft.Pointer {
			a.fatal(0, "struct %q field %q cannot be a struct by value; use a pointer", s.Name, name)
		}
	}
}

func (a *Analyzer) declareFunctionSignature(n *ast.FunctionDecl) {
	if a.global.DeclaredHere(n.Name) {
		a.fatal(n.Line(), "duplicate identifier %q", n.Name)
	}
	// User functions are never variadic in this subset, so Params is always
	// non-nil (even for a zero-parameter function) to keep the arity check
	// active; nil is reserved for builtin variadics (printf, scanf).
	params := make([]VarSymbol, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, VarSymbol{Name: p.Name, Type: p.Type})
	}
	a.global.Insert(FunctionSymbol{Name: n.Name, ReturnType: n.ReturnType, Params: params})
}

func (a *Analyzer) declareVar(n *ast.VarDecl) {
	if a.scope.DeclaredHere(n.Name) {
		a.fatal(n.Line(), "duplicate identifier %q", n.Name)
	}
	if n.Type.TypeSpec == ctype.Struct {
		if _, ok := a.structs[n.Type.StructName]; !ok {
			a.fatal(n.Line(), "unknown struct %q", n.Type.StructName)
		}
	}
	a.scope.Insert(VarSymbol{Name: n.Name, Type: n.Type})
	if n.Init != nil {
		initType := a.checkExpr(n.Init)
		a.checkAssignable(n.Line(), n.Type, initType)
	}
}

func (a *Analyzer) analyzeFunctionBody(fn *ast.FunctionDecl) {
	sym, _ := a.global.Lookup(fn.Name)
	fsym := sym.(FunctionSymbol)
	a.curFunc = &fsym

	fnScope := NewScope(fn.Name, a.global)
	a.scope = fnScope
	for _, p := range fn.Params {
		if fnScope.DeclaredHere(p.Name) {
			a.fatal(p.Line(), "duplicate parameter %q", p.Name)
		}
		fnScope.Insert(VarSymbol{Name: p.Name, Type: p.Type})
	}

	for _, stmt := range fn.Body.Stmts {
		a.checkStmt(stmt)
	}

	a.scope = a.global
	a.curFunc = nil
}
