package eval

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/value"
)

// execStmts runs stmts in order, stopping (and propagating) at the first
// non-Normal signal, so a break/continue/return inside a block short-
// circuits the rest of that block exactly once.
func (e *Evaluator) execStmts(stmts []ast.Node) flow {
	for _, s := range stmts {
		if f := e.execStmt(s); f.kind != sigNormal {
			return f
		}
	}
	return normalFlow
}

// execStmt executes one statement node and returns its control-flow
// signal.
func (e *Evaluator) execStmt(n ast.Node) flow {
	switch v := n.(type) {
	case *ast.VarDecl:
		e.execVarDecl(v)
		return normalFlow
	case *ast.CompoundStmt:
		return e.execBlock(v.Stmts)
	case *ast.IfStmt:
		if e.evalExpr(v.Cond).Truthy() {
			return e.execStmt(v.Then)
		}
		if v.Else != nil {
			return e.execStmt(v.Else)
		}
		return normalFlow
	case *ast.WhileStmt:
		return e.execWhile(v)
	case *ast.DoWhileStmt:
		return e.execDoWhile(v)
	case *ast.ForStmt:
		return e.execFor(v)
	case *ast.SwitchStmt:
		return e.execSwitch(v)
	case *ast.ReturnStmt:
		if v.Expr == nil {
			return flow{kind: sigReturn}
		}
		return flow{kind: sigReturn, ret: e.evalExpr(v.Expr)}
	case *ast.BreakStmt:
		return flow{kind: sigBreak}
	case *ast.ContinueStmt:
		return flow{kind: sigContinue}
	case *ast.NoOp:
		return normalFlow
	default:
		e.evalExpr(v)
		return normalFlow
	}
}

// execBlock pushes a new block scope, runs stmts, and pops the scope on
// every exit path (normal, break, continue or return), per §4.5's
// new_scope/del_scope pairing rule.
func (e *Evaluator) execBlock(stmts []ast.Node) flow {
	e.mem.NewScope()
	defer e.mem.DelScope()
	return e.execStmts(stmts)
}

func (e *Evaluator) execWhile(v *ast.WhileStmt) flow {
	for e.evalExpr(v.Cond).Truthy() {
		f := e.execStmt(v.Body)
		switch f.kind {
		case sigBreak:
			return normalFlow
		case sigReturn:
			return f
		}
	}
	return normalFlow
}

func (e *Evaluator) execDoWhile(v *ast.DoWhileStmt) flow {
	for {
		f := e.execStmt(v.Body)
		switch f.kind {
		case sigBreak:
			return normalFlow
		case sigReturn:
			return f
		}
		if !e.evalExpr(v.Cond).Truthy() {
			return normalFlow
		}
	}
}

// execFor implements the §9-fixed semantics: a `continue` inside the body
// still runs Inc before the condition is re-tested. Setup runs once;
// Setup and Cond are expr-or-NoOp statements from the parser's exprStmt(),
// and Inc is an expression or nil.
func (e *Evaluator) execFor(v *ast.ForStmt) flow {
	e.execStmt(v.Setup)
	for truthyCond(e, v.Cond) {
		f := e.execStmt(v.Body)
		switch f.kind {
		case sigBreak:
			return normalFlow
		case sigReturn:
			return f
		}
		// sigContinue and sigNormal both fall through to the increment.
		if v.Inc != nil {
			e.evalExpr(v.Inc)
		}
	}
	return normalFlow
}

// truthyCond evaluates a for-loop condition that may be the NoOp produced
// by an omitted `for(;;)` clause, which is always true.
func truthyCond(e *Evaluator, cond ast.Node) bool {
	if _, ok := cond.(*ast.NoOp); ok {
		return true
	}
	return e.evalExpr(cond).Truthy()
}

// execSwitch evaluates the switch expression once, then runs every item
// from the matching case label (or default) onward, stopping at the first
// break; falling off the end of the items list without a break is
// fallthrough, matching plain C switch semantics.
func (e *Evaluator) execSwitch(v *ast.SwitchStmt) flow {
	e.mem.NewScope()
	defer e.mem.DelScope()

	switchVal := e.evalExpr(v.Expr)
	start := matchingIndex(e, v.Items, switchVal)
	if start < 0 {
		return normalFlow
	}
	for _, item := range v.Items[start:] {
		switch lbl := item.(type) {
		case *ast.SwitchCaseLabel, *ast.SwitchDefaultLabel:
			continue
		case *ast.VarDecl:
			e.execVarDecl(lbl)
		default:
			f := e.execStmt(item)
			switch f.kind {
			case sigBreak:
				return normalFlow
			case sigReturn, sigContinue:
				return f
			}
		}
	}
	return normalFlow
}

// matchingIndex finds the first case label equal to switchVal, or the
// default label if no case matches, or -1 if neither is present.
func matchingIndex(e *Evaluator, items []ast.Node, switchVal value.Number) int {
	defaultIdx := -1
	for i, item := range items {
		switch lbl := item.(type) {
		case *ast.SwitchCaseLabel:
			if e.evalExpr(lbl.Expr).IntValue() == switchVal.IntValue() {
				return i
			}
		case *ast.SwitchDefaultLabel:
			defaultIdx = i
		}
	}
	return defaultIdx
}
