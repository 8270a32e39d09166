package sema

import (
	"fmt"

	"github.com/cinth/cinth/ast"
)

// checkStmt type-checks one statement node, recursing into nested blocks
// and maintaining the loop/switch nesting counters that gate break/continue.
func (a *Analyzer) checkStmt(n ast.Node) {
	switch v := n.(type) {
	case *ast.VarDecl:
		a.declareVar(v)
	case *ast.CompoundStmt:
		a.checkBlock(v.Stmts)
	case *ast.IfStmt:
		a.checkExpr(v.Cond)
		a.checkStmt(v.Then)
		if v.Else != nil {
			a.checkStmt(v.Else)
		}
	case *ast.WhileStmt:
		a.checkExpr(v.Cond)
		a.loopDepth++
		a.checkStmt(v.Body)
		a.loopDepth--
	case *ast.DoWhileStmt:
		a.loopDepth++
		a.checkStmt(v.Body)
		a.loopDepth--
		a.checkExpr(v.Cond)
	case *ast.ForStmt:
		a.checkStmt(v.Setup)
		a.checkStmt(v.Cond)
		if v.Inc != nil {
			a.checkExpr(v.Inc)
		}
		a.loopDepth++
		a.checkStmt(v.Body)
		a.loopDepth--
	case *ast.SwitchStmt:
		a.checkSwitch(v)
	case *ast.ReturnStmt:
		if v.Expr != nil {
			retType := a.checkExpr(v.Expr)
			if a.curFunc != nil {
				a.checkAssignable(v.Line(), a.curFunc.ReturnType, retType)
			}
		}
	case *ast.BreakStmt:
		if a.loopDepth == 0 && a.switchDepth == 0 {
			a.fatal(v.Line(), "break outside loop or switch")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.fatal(v.Line(), "continue outside loop")
		}
	case *ast.NoOp:
		// nothing to check
	default:
		// every other statement form is an expression used for its side
		// effect (Assignment, FunctionCall, Expression, bare Var, ...)
		a.checkExpr(v)
	}
}

func (a *Analyzer) checkBlock(stmts []ast.Node) {
	a.blockDepth++
	parent := a.scope
	a.scope = NewScope(fmt.Sprintf("%s.block%d", parent.Name, a.blockDepth), parent)
	for _, s := range stmts {
		a.checkStmt(s)
	}
	a.scope = parent
	a.blockDepth--
}

// checkSwitch enforces the case/default label rules: every case expression
// must share the switch expression's CType, and at most one default label
// may appear, and only as the last label (statements may follow it).
func (a *Analyzer) checkSwitch(v *ast.SwitchStmt) {
	switchType := a.checkExpr(v.Expr)
	a.switchDepth++
	a.blockDepth++
	parent := a.scope
	a.scope = NewScope(fmt.Sprintf("%s.block%d", parent.Name, a.blockDepth), parent)
	defer func() {
		a.switchDepth--
		a.scope = parent
		a.blockDepth--
	}()

	seenDefault := false
	for i, item := range v.Items {
		switch lbl := item.(type) {
		case *ast.SwitchCaseLabel:
			if seenDefault {
				a.fatal(lbl.Line(), "default label must be the last item in a switch")
			}
			caseType := a.checkExpr(lbl.Expr)
			if !caseType.Equal(switchType) {
				a.fatal(lbl.Line(), "case label type %s does not match switch expression type %s", caseType, switchType)
			}
		case *ast.SwitchDefaultLabel:
			if seenDefault {
				a.fatal(lbl.Line(), "duplicate default label")
			}
			if i != len(v.Items)-1 {
				if !onlyLabelsOrStmtsAfterDefaultOK(v.Items, i) {
					a.fatal(lbl.Line(), "default label must be the last item in a switch")
				}
			}
			seenDefault = true
		default:
			a.checkStmt(item)
		}
	}
}

// onlyLabelsOrStmtsAfterDefaultOK allows statements to trail a default
// label's colon (fallthrough body) but no further case/default labels.
func onlyLabelsOrStmtsAfterDefaultOK(items []ast.Node, defaultIdx int) bool {
	for _, it := range items[defaultIdx+1:] {
		switch it.(type) {
		case *ast.SwitchCaseLabel, *ast.SwitchDefaultLabel:
			return false
		}
	}
	return true
}
