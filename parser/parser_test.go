package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	p, err := New(src)
	require.NoError(t, err)
	prog, err := p.Parse()
	require.NoError(t, err)
	return prog
}

func TestParseMinimalMain(t *testing.T) {
	prog := parse(t, "int main() { return 0; }")
	require.Len(t, prog.Children, 1)
	fn, ok := prog.Children[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok = fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
}

func TestParseIncludeAndCall(t *testing.T) {
	prog := parse(t, `#include <stdio.h>
int main() { printf("%d", 1); return 0; }`)
	require.Len(t, prog.Children, 2)
	_, ok := prog.Children[0].(*ast.IncludeLibrary)
	require.True(t, ok)
}

func TestParseVarDeclWithInitAndMultiple(t *testing.T) {
	prog := parse(t, "int main() { int a = 1, b, c = 2; return a; }")
	fn := prog.Children[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Stmts, 4) // three decls + return
	d0 := fn.Body.Stmts[0].(*ast.VarDecl)
	require.Equal(t, "a", d0.Name)
	require.NotNil(t, d0.Init)
	d1 := fn.Body.Stmts[1].(*ast.VarDecl)
	require.Equal(t, "b", d1.Name)
	require.Nil(t, d1.Init)
}

func TestParseStructDeclAndFieldAccess(t *testing.T) {
	prog := parse(t, `struct S{int a,b;};
int main(){struct S z; z.a=3; struct S* p=&z; p->b=4; return 0;}`)
	sd, ok := prog.Children[0].(*ast.StructDecl)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, sd.FieldOrder)

	fn := prog.Children[1].(*ast.FunctionDecl)
	assignStmt := fn.Body.Stmts[1].(*ast.Assignment)
	fa := assignStmt.Left.(*ast.FieldAccess)
	require.Equal(t, ".", fa.Op)
	require.Equal(t, "a", fa.Field)

	pDecl := fn.Body.Stmts[2].(*ast.VarDecl)
	require.True(t, pDecl.Type.Pointer)

	arrowAssign := fn.Body.Stmts[3].(*ast.Assignment)
	fa2 := arrowAssign.Left.(*ast.FieldAccess)
	require.Equal(t, "->", fa2.Op)
}

func TestParseForLoopWithContinue(t *testing.T) {
	prog := parse(t, `int main(){
		int i; int s = 0;
		for (i = 0; i < 10; i = i + 1) {
			if (i == 3) continue;
			s = s + i;
		}
		return s;
	}`)
	fn := prog.Children[0].(*ast.FunctionDecl)
	var forStmt *ast.ForStmt
	for _, s := range fn.Body.Stmts {
		if f, ok := s.(*ast.ForStmt); ok {
			forStmt = f
		}
	}
	require.NotNil(t, forStmt)
	require.NotNil(t, forStmt.Inc)
}

func TestParseCastExpression(t *testing.T) {
	prog := parse(t, "int main(){ double d = 3.5; int x = (int)d; return x; }")
	fn := prog.Children[0].(*ast.FunctionDecl)
	decl := fn.Body.Stmts[1].(*ast.VarDecl)
	unop, ok := decl.Init.(*ast.UnOp)
	require.True(t, ok)
	require.NotNil(t, unop.CastTo)
	require.Equal(t, "int", unop.CastTo.String())
}

func TestParseTernaryAndLogical(t *testing.T) {
	prog := parse(t, "int main(){ int x = 1 ? 2 : 3; int y = x && 1 || 0; return y; }")
	fn := prog.Children[0].(*ast.FunctionDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	_, ok := decl.Init.(*ast.TerOp)
	require.True(t, ok)
}

func TestParseSwitchStmt(t *testing.T) {
	prog := parse(t, `int main(){
		int x = 1;
		switch (x) {
			case 1: break;
			default: break;
		}
		return 0;
	}`)
	fn := prog.Children[0].(*ast.FunctionDecl)
	var sw *ast.SwitchStmt
	for _, s := range fn.Body.Stmts {
		if v, ok := s.(*ast.SwitchStmt); ok {
			sw = v
		}
	}
	require.NotNil(t, sw)
	require.Len(t, sw.Items, 4) // case label, break, default label, break
	_, ok := sw.Items[0].(*ast.SwitchCaseLabel)
	require.True(t, ok)
	_, ok = sw.Items[2].(*ast.SwitchDefaultLabel)
	require.True(t, ok)
}

func TestParseMultiplicativeBindsTighterThanAdditive(t *testing.T) {
	prog := parse(t, "int main(){ int a = 1 + 2 * 3; return a; }")
	fn := prog.Children[0].(*ast.FunctionDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	bin := decl.Init.(*ast.BinOp)
	require.Equal(t, "+", bin.Op)
	rhs := bin.Right.(*ast.BinOp)
	require.Equal(t, "*", rhs.Op)
}

func TestParseCommaExpression(t *testing.T) {
	prog := parse(t, "int main(){ int a; int b; a = 1, b = 2; return a; }")
	fn := prog.Children[0].(*ast.FunctionDecl)
	expr, ok := fn.Body.Stmts[2].(*ast.Expression)
	require.True(t, ok)
	require.Len(t, expr.Children, 2)
}
