package eval

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/value"
)

func charTypeEval() ctype.CType   { return ctype.CType{TypeSpec: ctype.Char} }
func doubleTypeEval() ctype.CType { return ctype.CType{TypeSpec: ctype.Double} }

// evalExpr evaluates n and returns its runtime value.Number.
func (e *Evaluator) evalExpr(n ast.Node) value.Number {
	switch v := n.(type) {
	case *ast.Num:
		switch v.Kind {
		case ast.CharLit:
			return value.NewInt(charTypeEval(), v.IVal)
		case ast.RealLit:
			return value.NewFloat(doubleTypeEval(), v.FVal)
		default:
			return value.NewInt(ctype.IntType, v.IVal)
		}
	case *ast.String:
		e.fatalf(v.Line(), "string literal used outside a function-call argument")
	case *ast.NoOp:
		return value.NewInt(ctype.IntType, 0)
	case *ast.Var:
		return e.evalVar(v)
	case *ast.FieldAccess:
		addr, ft := e.fieldAddress(v)
		cell, err := e.mem.Load(addr)
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		n, ok := cell.(value.Number)
		if !ok {
			e.fatalf(v.Line(), "field %q does not hold a numeric value", v.Field)
		}
		return n.Cast(ft)
	case *ast.UnOp:
		return e.evalUnOp(v)
	case *ast.BinOp:
		return e.evalBinOp(v)
	case *ast.TerOp:
		if e.evalExpr(v.Cond).Truthy() {
			return e.evalExpr(v.True)
		}
		return e.evalExpr(v.False)
	case *ast.FunctionCall:
		return e.evalFunctionCall(v)
	case *ast.Assignment:
		return e.evalAssignment(v)
	case *ast.Expression:
		var last value.Number
		for _, c := range v.Children {
			last = e.evalExpr(c)
		}
		return last
	default:
		e.fatalf(n.Line(), "unsupported expression node %T", n)
	}
	return value.Number{}
}

func (e *Evaluator) evalVar(v *ast.Var) value.Number {
	cell, ok := e.mem.Lookup(v.Name)
	if !ok {
		e.fatalf(v.Line(), "undeclared identifier %q", v.Name)
	}
	n, ok := cell.(value.Number)
	if !ok {
		e.fatalf(v.Line(), "%q does not hold a numeric value", v.Name)
	}
	return n
}

// lhsInfo resolves n to its address and declared CType for an lvalue
// target: a plain Var, a dereferenced pointer `*Var`, or a FieldAccess.
func (e *Evaluator) lhsInfo(n ast.Node) (uint, ctype.CType) {
	switch v := n.(type) {
	case *ast.Var:
		addr, err := e.mem.GetAddress(v.Name)
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		return addr, e.declTy[addr]
	case *ast.UnOp:
		if v.Op != "*" || v.CastTo != nil {
			e.fatalf(v.Line(), "not an lvalue")
		}
		ptr := e.evalExpr(v.Expr)
		pointee, err := ptr.Type.Dereference()
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		return ptr.Address(), pointee
	case *ast.FieldAccess:
		return e.fieldAddress(v)
	}
	e.fatalf(n.Line(), "not an lvalue")
	return 0, ctype.CType{}
}

func (e *Evaluator) addressOf(n ast.Node) uint {
	addr, _ := e.lhsInfo(n)
	return addr
}

// fieldAddress resolves a.f or p->f to the field's address and CType,
// using the struct layout recorded when the struct variable (or the
// pointee it was taken from) was declared.
func (e *Evaluator) fieldAddress(fa *ast.FieldAccess) (uint, ctype.CType) {
	var baseAddr uint
	var structName string

	switch fa.Op {
	case ".":
		baseAddr = e.addressOf(fa.Expr)
		baseType, ok := e.declTy[baseAddr]
		if !ok || baseType.TypeSpec != ctype.Struct {
			e.fatalf(fa.Line(), "%q is not a struct variable", fa.Field)
		}
		structName = baseType.StructName
	case "->":
		ptr := e.evalExpr(fa.Expr)
		if !ptr.Type.Pointer || ptr.Type.TypeSpec != ctype.Struct {
			e.fatalf(fa.Line(), "'->' requires a pointer-to-struct operand")
		}
		baseAddr = ptr.Address()
		structName = ptr.Type.StructName
	default:
		e.fatalf(fa.Line(), "unknown field access operator %q", fa.Op)
	}

	layout, ok := e.structs[structName]
	if !ok {
		e.fatalf(fa.Line(), "unknown struct %q", structName)
	}
	var offset uint
	ft, ok := layout.Fields[fa.Field]
	if !ok {
		e.fatalf(fa.Line(), "struct %q has no field %q", structName, fa.Field)
	}
	for _, fname := range layout.FieldOrder {
		if fname == fa.Field {
			break
		}
		offset += layout.Fields[fname].SizeBytes()
	}
	addr := baseAddr + offset
	// Not memoized into declTy: a field at offset 0 shares its address with
	// the struct itself, and this subset's structs only ever hold scalar or
	// pointer fields (the semantic analyzer rejects every by-value struct
	// field), so there is no
	// address whose declared type this would need to override safely.
	return addr, ft
}

func (e *Evaluator) evalUnOp(v *ast.UnOp) value.Number {
	if v.CastTo != nil {
		return e.evalExpr(v.Expr).Cast(*v.CastTo)
	}
	switch v.Op {
	case "&":
		// Statically typed plain `int` by the semantic analyzer (the
		// pointer-assignment rule accepts an int RHS precisely so this
		// works), but carrying the operand's real CType here lets a
		// variadic builtin call (scanf) that receives `&x` directly, with
		// no intervening assignment-cast to a declared pointer variable,
		// still dereference it correctly.
		addr, operandType := e.lhsInfo(v.Expr)
		ptrType := operandType
		ptrType.Pointer = true
		return value.NewInt(ptrType, int64(addr))
	case "*":
		ptr := e.evalExpr(v.Expr)
		pointee, err := ptr.Type.Dereference()
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		cell, err := e.mem.Load(ptr.Address())
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		n, ok := cell.(value.Number)
		if !ok {
			e.fatalf(v.Line(), "dereferenced address does not hold a numeric value")
		}
		return n.Cast(pointee)
	case "++", "--":
		addr, lhsType := e.lhsInfo(v.Expr)
		cell, err := e.mem.Load(addr)
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		cur, ok := cell.(value.Number)
		if !ok {
			e.fatalf(v.Line(), "%s requires a numeric lvalue", v.Op)
		}
		delta := int64(1)
		if v.Op == "--" {
			delta = -1
		}
		var next value.Number
		if delta > 0 {
			next, err = value.Add(cur, value.NewInt(ctype.IntType, 1))
		} else {
			next, err = value.Sub(cur, value.NewInt(ctype.IntType, 1))
		}
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		casted := next.Cast(lhsType)
		if err := e.mem.Store(addr, casted); err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		if v.Prefix {
			return casted
		}
		return cur
	case "-":
		return value.Neg(e.evalExpr(v.Expr))
	case "+":
		return e.evalExpr(v.Expr)
	case "!":
		return value.LogNeg(e.evalExpr(v.Expr))
	}
	e.fatalf(v.Line(), "unknown unary operator %q", v.Op)
	return value.Number{}
}

func (e *Evaluator) evalBinOp(v *ast.BinOp) value.Number {
	l := e.evalExpr(v.Left)
	r := e.evalExpr(v.Right)
	n, err := e.binNumeric(v.Op, l, r)
	if err != nil {
		e.fatalf(v.Line(), "%s", err)
	}
	return n
}

// binNumeric is shared between BinOp evaluation and compound-assignment
// evaluation.
func (e *Evaluator) binNumeric(op string, l, r value.Number) (value.Number, error) {
	switch op {
	case "+":
		return value.Add(l, r)
	case "-":
		return value.Sub(l, r)
	case "*":
		return value.Mul(l, r), nil
	case "/":
		return value.Div(l, r)
	case "%":
		return value.Mod(l, r)
	case "<":
		return value.Lt(l, r), nil
	case ">":
		return value.Gt(l, r), nil
	case "<=":
		return value.Le(l, r), nil
	case ">=":
		return value.Ge(l, r), nil
	case "==":
		return value.Eq(l, r), nil
	case "!=":
		return value.Ne(l, r), nil
	case "&":
		return value.And(l, r), nil
	case "|":
		return value.Or(l, r), nil
	case "^":
		return value.Xor(l, r), nil
	case "<<":
		return value.Shl(l, r), nil
	case ">>":
		return value.Shr(l, r), nil
	case "&&":
		return value.LogAnd(l, r), nil
	case "||":
		return value.LogOr(l, r), nil
	}
	return value.Number{}, unknownOpError(op)
}

func (e *Evaluator) evalAssignment(v *ast.Assignment) value.Number {
	addr, lhsType := e.lhsInfo(v.Left)
	rhs := e.evalExpr(v.Right)

	var result value.Number
	if v.Op == ast.Assign {
		result = rhs
	} else {
		cell, err := e.mem.Load(addr)
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		cur, ok := cell.(value.Number)
		if !ok {
			e.fatalf(v.Line(), "compound assignment target does not hold a numeric value")
		}
		op := compoundOpSymbol(v.Op)
		r, err := e.binNumeric(op, cur, rhs)
		if err != nil {
			e.fatalf(v.Line(), "%s", err)
		}
		result = r
	}

	casted := result.Cast(lhsType)
	if err := e.mem.Store(addr, casted); err != nil {
		e.fatalf(v.Line(), "%s", err)
	}
	return casted
}

func compoundOpSymbol(op ast.AssignOp) string {
	switch op {
	case ast.AddAssign:
		return "+"
	case ast.SubAssign:
		return "-"
	case ast.MulAssign:
		return "*"
	case ast.DivAssign:
		return "/"
	case ast.ModAssign:
		return "%"
	case ast.AndAssign:
		return "&"
	case ast.OrAssign:
		return "|"
	case ast.XorAssign:
		return "^"
	case ast.ShlAssign:
		return "<<"
	case ast.ShrAssign:
		return ">>"
	}
	return "?"
}

func (e *Evaluator) evalFunctionCall(v *ast.FunctionCall) value.Number {
	args := make([]interface{}, len(v.Args))
	for i, a := range v.Args {
		if s, ok := a.(*ast.String); ok {
			args[i] = s.Value
			continue
		}
		args[i] = e.evalExpr(a)
	}
	return e.callByName(v.Line(), v.Name, args)
}

type unknownOpError string

func (u unknownOpError) Error() string { return "unknown operator " + string(u) }
