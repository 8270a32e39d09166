package sema

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/ctype"
)

// stringPseudoType marks the static type of a string literal. No real
// CType in this subset stores text, so string-typed expressions may only
// ever flow into a variadic builtin's argument list (printf/scanf); every
// other consumer of checkExpr treats it as "skip further checking" rather
// than erroring, since the grammar only produces a String node at a
// function-call argument position in practice.
var stringPseudoType = ctype.CType{TypeSpec: ctype.TypeSpec("__string__")}

func isStringType(t ctype.CType) bool { return t.TypeSpec == stringPseudoType.TypeSpec }

func charType() ctype.CType   { return ctype.CType{TypeSpec: ctype.Char} }
func doubleType() ctype.CType { return ctype.CType{TypeSpec: ctype.Double} }

func isLvalue(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Var:
		return true
	case *ast.FieldAccess:
		return true
	case *ast.UnOp:
		return v.Op == "*" && v.CastTo == nil
	}
	return false
}

// checkExpr type-checks n and returns its static CType.
func (a *Analyzer) checkExpr(n ast.Node) ctype.CType {
	switch v := n.(type) {
	case *ast.Num:
		switch v.Kind {
		case ast.CharLit:
			return charType()
		case ast.RealLit:
			return doubleType()
		default:
			return ctype.IntType
		}
	case *ast.String:
		return stringPseudoType
	case *ast.NoOp:
		return ctype.IntType
	case *ast.Var:
		sym, ok := a.scope.Lookup(v.Name)
		if !ok {
			a.fatal(v.Line(), "undeclared identifier %q", v.Name)
		}
		switch s := sym.(type) {
		case VarSymbol:
			return s.Type
		case ConstSymbol:
			return s.Type
		default:
			a.fatal(v.Line(), "%q is not a variable", v.Name)
		}
	case *ast.FieldAccess:
		return a.checkFieldAccess(v)
	case *ast.UnOp:
		return a.checkUnOp(v)
	case *ast.BinOp:
		return a.checkBinOp(v)
	case *ast.TerOp:
		a.checkExpr(v.Cond)
		trueType := a.checkExpr(v.True)
		falseType := a.checkExpr(v.False)
		if !isStringType(trueType) && !isStringType(falseType) && !trueType.Equal(falseType) {
			a.warn("line %d: ternary branches have different types (%s vs %s)", v.Line(), trueType, falseType)
		}
		return falseType
	case *ast.FunctionCall:
		return a.checkFunctionCall(v)
	case *ast.Assignment:
		return a.checkAssignment(v)
	case *ast.Expression:
		var last ctype.CType
		for _, child := range v.Children {
			last = a.checkExpr(child)
		}
		return last
	default:
		a.fatal(n.Line(), "unsupported expression node %T", n)
	}
	return ctype.CType{}
}

func (a *Analyzer) checkFieldAccess(v *ast.FieldAccess) ctype.CType {
	objType := a.checkExpr(v.Expr)
	var structName string
	switch v.Op {
	case ".":
		if objType.Pointer || objType.TypeSpec != ctype.Struct {
			a.fatal(v.Line(), "%q requires a non-pointer struct operand, got %s", ".", objType)
		}
		structName = objType.StructName
	case "->":
		if !objType.Pointer || objType.TypeSpec != ctype.Struct {
			a.fatal(v.Line(), "%q requires a pointer-to-struct operand, got %s", "->", objType)
		}
		structName = objType.StructName
	default:
		a.fatal(v.Line(), "unknown field access operator %q", v.Op)
	}
	sdef, ok := a.structs[structName]
	if !ok {
		a.fatal(v.Line(), "unknown struct %q", structName)
	}
	ft, ok := sdef.Fields[v.Field]
	if !ok {
		a.fatal(v.Line(), "struct %q has no field %q", structName, v.Field)
	}
	return ft
}

func (a *Analyzer) checkUnOp(v *ast.UnOp) ctype.CType {
	if v.CastTo != nil {
		a.checkExpr(v.Expr)
		return *v.CastTo
	}
	switch v.Op {
	case "&":
		vr, ok := v.Expr.(*ast.Var)
		if !ok {
			a.fatal(v.Line(), "'&' requires a plain variable operand")
		}
		a.checkExpr(vr)
		return ctype.IntType
	case "*":
		t := a.checkExpr(v.Expr)
		if !t.Pointer {
			a.fatal(v.Line(), "cannot dereference non-pointer type %s", t)
		}
		d, _ := t.Dereference()
		return d
	case "++", "--":
		if !isLvalue(v.Expr) {
			a.fatal(v.Line(), "%s requires an lvalue operand", v.Op)
		}
		return a.checkExpr(v.Expr)
	case "-", "+":
		t := a.checkExpr(v.Expr)
		if t.Pointer || !t.IsNumeric() {
			a.fatal(v.Line(), "unary %q requires a numeric operand, got %s", v.Op, t)
		}
		return t
	case "!":
		a.checkExpr(v.Expr)
		return ctype.IntType
	default:
		a.fatal(v.Line(), "unknown unary operator %q", v.Op)
	}
	return ctype.CType{}
}

func (a *Analyzer) checkBinOp(v *ast.BinOp) ctype.CType {
	lt := a.checkExpr(v.Left)
	rt := a.checkExpr(v.Right)

	switch v.Op {
	case "&", "|", "^", "<<", ">>":
		if !lt.Equal(ctype.IntType) || !rt.Equal(ctype.IntType) {
			a.fatal(v.Line(), "bitwise %q requires int operands, got %s and %s", v.Op, lt, rt)
		}
		return ctype.IntType
	case "+", "-":
		if lt.Pointer && rt.Pointer {
			a.fatal(v.Line(), "cannot add or subtract two pointers")
		}
		if lt.Pointer {
			if !rt.Equal(ctype.IntType) {
				a.fatal(v.Line(), "pointer arithmetic requires an int operand, got %s", rt)
			}
			return lt
		}
		if rt.Pointer {
			if v.Op == "-" {
				a.fatal(v.Line(), "cannot subtract a pointer from a non-pointer")
			}
			if !lt.Equal(ctype.IntType) {
				a.fatal(v.Line(), "pointer arithmetic requires an int operand, got %s", lt)
			}
			return rt
		}
		return ctype.CombineTypes(lt, rt)
	case "*", "/", "%":
		if lt.Pointer || rt.Pointer {
			a.fatal(v.Line(), "operator %q does not admit a pointer operand", v.Op)
		}
		return ctype.CombineTypes(lt, rt)
	case "<", ">", "<=", ">=", "==", "!=":
		return ctype.IntType
	case "&&", "||":
		return ctype.IntType
	default:
		a.fatal(v.Line(), "unknown binary operator %q", v.Op)
	}
	return ctype.CType{}
}

func (a *Analyzer) checkFunctionCall(v *ast.FunctionCall) ctype.CType {
	sym, ok := a.global.Lookup(v.Name)
	if !ok {
		a.fatal(v.Line(), "call to undeclared function %q", v.Name)
	}
	fn, ok := sym.(FunctionSymbol)
	if !ok {
		a.fatal(v.Line(), "%q is not a function", v.Name)
	}

	argTypes := make([]ctype.CType, len(v.Args))
	for i, arg := range v.Args {
		argTypes[i] = a.checkExpr(arg)
	}

	if fn.Params == nil {
		return fn.ReturnType
	}
	if len(argTypes) != len(fn.Params) {
		a.fatal(v.Line(), "%q expects %d argument(s), got %d", v.Name, len(fn.Params), len(argTypes))
	}
	for i, p := range fn.Params {
		if isStringType(argTypes[i]) {
			continue
		}
		a.checkAssignable(v.Line(), p.Type, argTypes[i])
	}
	return fn.ReturnType
}

func (a *Analyzer) checkAssignment(v *ast.Assignment) ctype.CType {
	if !isLvalue(v.Left) {
		a.fatal(v.Line(), "left side of assignment must be an lvalue")
	}
	lt := a.checkExpr(v.Left)
	rt := a.checkExpr(v.Right)

	if lt.Pointer {
		switch v.Op {
		case ast.Assign:
			if !(rt.Pointer && rt.Equal(lt)) && !rt.Equal(ctype.IntType) {
				a.fatal(v.Line(), "cannot assign %s to pointer type %s", rt, lt)
			}
		case ast.AddAssign, ast.SubAssign:
			if !rt.Equal(ctype.IntType) {
				a.fatal(v.Line(), "%s on a pointer requires an int right-hand side", assignOpName(v.Op))
			}
		default:
			a.fatal(v.Line(), "%s is not valid on a pointer operand", assignOpName(v.Op))
		}
		return lt
	}

	if v.Op != ast.Assign && (lt.TypeSpec == ctype.Struct || isStringType(rt)) {
		a.fatal(v.Line(), "%s is not valid on a struct operand", assignOpName(v.Op))
	}

	if isBitwiseAssignOp(v.Op) && (!lt.Equal(ctype.IntType) || !rt.Equal(ctype.IntType)) {
		a.fatal(v.Line(), "%s requires int operands, got %s and %s", assignOpName(v.Op), lt, rt)
	}

	if !isStringType(rt) {
		a.checkAssignable(v.Line(), lt, rt)
	}
	return lt
}

// isBitwiseAssignOp reports whether op is one of the compound bitwise
// assignment forms, which spec.md's "bitwise op with non-int" rule applies
// to exactly as it does to the plain BinOp forms in checkBinOp.
func isBitwiseAssignOp(op ast.AssignOp) bool {
	switch op {
	case ast.AndAssign, ast.OrAssign, ast.XorAssign, ast.ShlAssign, ast.ShrAssign:
		return true
	}
	return false
}

func assignOpName(op ast.AssignOp) string {
	switch op {
	case ast.Assign:
		return "="
	case ast.AddAssign:
		return "+="
	case ast.SubAssign:
		return "-="
	case ast.MulAssign:
		return "*="
	case ast.DivAssign:
		return "/="
	case ast.ModAssign:
		return "%="
	case ast.AndAssign:
		return "&="
	case ast.OrAssign:
		return "|="
	case ast.XorAssign:
		return "^="
	case ast.ShlAssign:
		return "<<="
	case ast.ShrAssign:
		return ">>="
	}
	return "?="
}

// checkAssignable enforces the pointer-assignment rule and warns (without
// failing) on a narrowing/widening numeric assignment; struct-to-
// same-struct assignment is permitted silently.
func (a *Analyzer) checkAssignable(line int, lhsType, rhsType ctype.CType) {
	if isStringType(rhsType) {
		return
	}
	if lhsType.Pointer || rhsType.Pointer {
		if lhsType.Pointer && rhsType.Pointer && lhsType.Equal(rhsType) {
			return
		}
		if lhsType.Pointer && rhsType.Equal(ctype.IntType) {
			return
		}
		a.fatal(line, "assignment from incompatible pointer types (%s vs %s)", lhsType, rhsType)
	}
	if lhsType.TypeSpec == ctype.Struct || rhsType.TypeSpec == ctype.Struct {
		if lhsType.Equal(rhsType) {
			return
		}
		a.fatal(line, "cannot assign %s to %s", rhsType, lhsType)
	}
	if !lhsType.Equal(rhsType) {
		a.warn("line %d: assignment narrows or widens %s to %s", line, rhsType, lhsType)
	}
}
