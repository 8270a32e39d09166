// Package eval is the tree-walking evaluator: it walks an *ast.Program
// against a memtable.Memory and a builtin.Registry and produces the
// integer exit status returned by main, per the control-flow-sentinel
// design in the interpreter's error-handling notes.
package eval

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/builtin"
	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/internal/clierr"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/value"
)

// signalKind distinguishes the four ways a statement can hand control back
// to its caller, per the design's "{Normal, Break, Continue, Return(Value)}"
// sentinel.
type signalKind int

const (
	sigNormal signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// flow is the sentinel value every statement-execution method returns.
type flow struct {
	kind signalKind
	ret  value.Number
}

var normalFlow = flow{kind: sigNormal}

// Evaluator holds everything a running program needs beyond the immutable
// AST: the simulated memory, the builtin registry, struct layouts collected
// while visiting the program, and a side table of declared types for
// addresses that hold a struct (whose slots are plain Numbers with no
// struct tag of their own).
type Evaluator struct {
	mem     *memtable.Memory
	reg     *builtin.Registry
	structs map[string]*ast.StructDecl
	funcs   map[string]*ast.FunctionDecl
	declTy  map[uint]ctype.CType

	// Trace, if set, is called once per function call with the function
	// name and argument count; nil by default, matching the teacher's
	// injected-logfn convention rather than a baked-in logger.
	Trace func(format string, args ...interface{})
}

// New builds an Evaluator over mem and reg.
func New(mem *memtable.Memory, reg *builtin.Registry) *Evaluator {
	return &Evaluator{
		mem:     mem,
		reg:     reg,
		structs: make(map[string]*ast.StructDecl),
		funcs:   make(map[string]*ast.FunctionDecl),
		declTy:  make(map[uint]ctype.CType),
	}
}

func (e *Evaluator) trace(format string, args ...interface{}) {
	if e.Trace != nil {
		e.Trace(format, args...)
	}
}

func (e *Evaluator) fatalf(line int, format string, args ...interface{}) {
	panic(clierr.Runtimef(line, format, args...))
}

// Run executes prog's global declarations and then calls main, returning
// the value main returned as the process exit status. Any RuntimeError
// raised during evaluation is recovered and returned as err.
func Run(prog *ast.Program, mem *memtable.Memory, reg *builtin.Registry) (status int, err error) {
	return New(mem, reg).Run(prog)
}

// Run is the method form of the package-level Run, for a caller (like
// interp) that already built its Evaluator and may have set Trace on it.
func (e *Evaluator) Run(prog *ast.Program) (status int, err error) {
	err = clierr.Recover("eval.Run", func() error {
		status = e.run(prog)
		return nil
	})
	return status, err
}

func (e *Evaluator) run(prog *ast.Program) int {
	e.evalProgram(prog)
	mainDecl, ok := e.funcs["main"]
	if !ok {
		e.fatalf(prog.Line(), "no main function bound")
	}
	result := e.callUserFunction(mainDecl, nil)
	return int(result.IntValue())
}

// evalProgram registers every #include, struct decl, function decl and
// top-level var decl in source order, exactly as §4.6 specifies for the
// Program node.
func (e *Evaluator) evalProgram(prog *ast.Program) {
	for _, child := range flattenTopLevel(prog.Children) {
		switch n := child.(type) {
		case *ast.IncludeLibrary:
			e.evalInclude(n)
		case *ast.StructDecl:
			e.structs[n.Name] = n
		case *ast.FunctionDecl:
			e.funcs[n.Name] = n
			e.mem.DeclareConstant(n.Name, n)
		case *ast.VarDecl:
			e.execVarDecl(n)
		}
	}
}

// flattenTopLevel mirrors sema's expansion of the parser's CompoundStmt
// wrapper around a multi-declarator top-level decl_list.
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

// evalInclude binds every constant of the named library in memory, so a
// bare name-lookup can find it later. The library's functions are not bound
// here; a call looks them up in the registry by name each time.
func (e *Evaluator) evalInclude(n *ast.IncludeLibrary) {
	lib, ok := e.reg.Library(n.Name)
	if !ok {
		e.fatalf(n.Line(), "unknown library %q", n.Name)
	}
	for _, c := range lib.Consts {
		e.mem.DeclareConstant(c.Name, c.Value)
	}
	// Functions are resolved by name against the registry directly at call
	// time (see callByName); nothing further to bind here.
}

// callByName resolves name to either a builtin.Func or a user
// *ast.FunctionDecl and invokes it with already-evaluated args.
func (e *Evaluator) callByName(line int, name string, args []interface{}) value.Number {
	if fn, ok := e.findBuiltin(name); ok {
		e.trace("call builtin %s/%d args", name, len(args))
		result, err := fn.Call(e.reg, e.mem, args)
		if err != nil {
			e.fatalf(line, "%s", err)
		}
		return result.Cast(fn.ReturnType)
	}
	decl, ok := e.funcs[name]
	if !ok {
		e.fatalf(line, "call to unbound function %q", name)
	}
	nums := make([]value.Number, len(args))
	for i, a := range args {
		n, ok := a.(value.Number)
		if !ok {
			e.fatalf(line, "argument %d to %q is not a numeric value", i+1, name)
		}
		nums[i] = n
	}
	e.trace("call %s/%d args", name, len(nums))
	return e.callUserFunction(decl, nums)
}

func (e *Evaluator) findBuiltin(name string) (builtin.Func, bool) {
	for _, libName := range []string{"stdio", "stdlib", "math", "limits"} {
		lib, ok := e.reg.Library(libName)
		if !ok {
			continue
		}
		for _, f := range lib.Funcs {
			if f.Name == name {
				return f, true
			}
		}
	}
	return builtin.Func{}, false
}

// callUserFunction pushes a frame, binds parameters, walks the body and
// pops the frame on every exit path (normal fall-off or an explicit
// return), per §4.5's "every new_frame is paired with a del_frame" rule.
func (e *Evaluator) callUserFunction(decl *ast.FunctionDecl, args []value.Number) value.Number {
	e.mem.NewFrame(decl.Name)
	defer e.mem.DelFrame()

	for i, p := range decl.Params {
		addr := e.mem.Declare(p.Type, p.Name)
		e.declTy[addr] = p.Type
		if i < len(args) {
			_ = e.mem.Store(addr, args[i].Cast(p.Type))
		}
	}

	f := e.execStmts(decl.Body.Stmts)
	if f.kind == sigReturn {
		return f.ret.Cast(decl.ReturnType)
	}
	return value.Default(decl.ReturnType).Cast(decl.ReturnType)
}
