package parser

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/token"
)

// expr := assignment (',' assignment)*
// A single element is returned unwrapped; two or more are collected into an
// Expression (comma) node.
func (p *Parser) expr() (ast.Node, error) {
	line := p.cur.Line
	first, err := p.assignmentExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Comma) {
		return first, nil
	}
	children := []ast.Node{first}
	for p.at(token.Comma) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.assignmentExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	n := &ast.Expression{Children: children}
	n.SetLine(line)
	return n, nil
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:        ast.Assign,
	token.PlusAssign:    ast.AddAssign,
	token.MinusAssign:   ast.SubAssign,
	token.StarAssign:    ast.MulAssign,
	token.SlashAssign:   ast.DivAssign,
	token.PercentAssign: ast.ModAssign,
	token.AmpAssign:     ast.AndAssign,
	token.PipeAssign:    ast.OrAssign,
	token.CaretAssign:   ast.XorAssign,
	token.ShlAssign:     ast.ShlAssign,
	token.ShrAssign:     ast.ShrAssign,
}

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

// assignment := unary assign_op assignment | conditional
//
// Rather than a genuine two-way backtrack, the conditional chain is parsed
// first (it already subsumes unary); if what comes back is lvalue-shaped
// and an assignment operator follows, it is reinterpreted as the left side
// of an Assignment. This accepts exactly the same language since every
// unary production is reachable through conditional's precedence chain.
func (p *Parser) assignmentExpr() (ast.Node, error) {
	line := p.cur.Line
	left, err := p.conditional()
	if err != nil {
		return nil, err
	}
	op, ok := assignOps[p.cur.Kind]
	if !ok {
		return left, nil
	}
	if !isLvalue(left) {
		return nil, p.errorf("left-hand side of assignment is not an lvalue")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.assignmentExpr()
	if err != nil {
		return nil, err
	}
	n := &ast.Assignment{Left: left, Op: op, Right: right}
	n.SetLine(line)
	return n, nil
}

// conditional := log_or ('?' expr ':' conditional)?
func (p *Parser) conditional() (ast.Node, error) {
	line := p.cur.Line
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Question) {
		return cond, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	trueExpr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	falseExpr, err := p.conditional()
	if err != nil {
		return nil, err
	}
	n := &ast.TerOp{Cond: cond, True: trueExpr, False: falseExpr}
	n.SetLine(line)
	return n, nil
}

func (p *Parser) binOpChain(next func() (ast.Node, error), ops map[token.Kind]string) (ast.Node, error) {
	line := p.cur.Line
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		opStr, ok := ops[p.cur.Kind]
		if !ok {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		n := &ast.BinOp{Op: opStr, Left: left, Right: right}
		n.SetLine(line)
		left = n
	}
}

func (p *Parser) logicalOr() (ast.Node, error) {
	return p.binOpChain(p.logicalAnd, map[token.Kind]string{token.LogOr: "||"})
}
func (p *Parser) logicalAnd() (ast.Node, error) {
	return p.binOpChain(p.bitOr, map[token.Kind]string{token.LogAnd: "&&"})
}
func (p *Parser) bitOr() (ast.Node, error) {
	return p.binOpChain(p.bitXor, map[token.Kind]string{token.Pipe: "|"})
}
func (p *Parser) bitXor() (ast.Node, error) {
	return p.binOpChain(p.bitAnd, map[token.Kind]string{token.Caret: "^"})
}
func (p *Parser) bitAnd() (ast.Node, error) {
	return p.binOpChain(p.equality, map[token.Kind]string{token.Amp: "&"})
}
func (p *Parser) equality() (ast.Node, error) {
	return p.binOpChain(p.relational, map[token.Kind]string{token.Eq: "==", token.Ne: "!="})
}
func (p *Parser) relational() (ast.Node, error) {
	return p.binOpChain(p.shift, map[token.Kind]string{
		token.Lt: "<", token.Gt: ">", token.Le: "<=", token.Ge: ">=",
	})
}
func (p *Parser) shift() (ast.Node, error) {
	return p.binOpChain(p.additive, map[token.Kind]string{token.Shl: "<<", token.Shr: ">>"})
}
func (p *Parser) additive() (ast.Node, error) {
	return p.binOpChain(p.multiplicative, map[token.Kind]string{token.Plus: "+", token.Minus: "-"})
}
func (p *Parser) multiplicative() (ast.Node, error) {
	return p.binOpChain(p.castExpr, map[token.Kind]string{
		token.Star: "*", token.Slash: "/", token.Percent: "%",
	})
}

// castExpr := '(' type_spec ')' cast | unary
//
// A type keyword can never start an ordinary parenthesized expression (this
// subset has no typedefs), so the lookahead is unambiguous; the checkpoint
// is still taken to keep the trial-parse shape the grammar calls for, and
// to fail safely if typeSpec partially consumes before erroring.
func (p *Parser) castExpr() (ast.Node, error) {
	if p.at(token.LParen) && token.TypeKeywords[peekAfterLParenKind(p)] {
		line := p.cur.Line
		mark := p.mark()
		if node, ok, err := p.tryCast(line); err != nil {
			return nil, err
		} else if ok {
			return node, nil
		} else {
			p.reset(mark)
		}
	}
	return p.unary()
}

func peekAfterLParenKind(p *Parser) token.Kind {
	mark := p.mark()
	defer p.reset(mark)
	if err := p.advance(); err != nil {
		return token.EOF
	}
	return p.cur.Kind
}

func (p *Parser) tryCast(line int) (ast.Node, bool, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, false, err
	}
	ct, err := p.typeSpec()
	if err != nil {
		return nil, false, nil
	}
	if !p.at(token.RParen) {
		return nil, false, nil
	}
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	inner, err := p.castExpr()
	if err != nil {
		return nil, false, err
	}
	n := &ast.UnOp{Expr: inner, Prefix: true, CastTo: &ct}
	n.SetLine(line)
	return n, true, nil
}

// unary := ('++'|'--') primary | '&' variable | ('*'|'+'|'-'|'!') cast | postfix
func (p *Parser) unary() (ast.Node, error) {
	line := p.cur.Line
	switch p.cur.Kind {
	case token.Inc, token.Dec:
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		n := &ast.UnOp{Op: op, Expr: operand, Prefix: true}
		n.SetLine(line)
		return n, nil
	case token.Amp:
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		v := &ast.Var{Name: nameTok.Text}
		v.SetLine(line)
		n := &ast.UnOp{Op: "&", Expr: v, Prefix: true}
		n.SetLine(line)
		return n, nil
	case token.Star, token.Plus, token.Minus, token.Bang:
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.castExpr()
		if err != nil {
			return nil, err
		}
		n := &ast.UnOp{Op: op, Expr: operand, Prefix: true}
		n.SetLine(line)
		return n, nil
	}
	return p.postfix()
}

// postfix := primary (('.'|'->') ID | '++' | '--' | '(' args? ')')*
func (p *Parser) postfix() (ast.Node, error) {
	line := p.cur.Line
	node, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.Dot, token.Arrow:
			op := p.cur.Text
			if err := p.advance(); err != nil {
				return nil, err
			}
			fieldTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			fa := &ast.FieldAccess{Op: op, Expr: node, Field: fieldTok.Text}
			fa.SetLine(line)
			node = fa
		case token.Inc, token.Dec:
			op := p.cur.Text
			if err := p.advance(); err != nil {
				return nil, err
			}
			n := &ast.UnOp{Op: op, Expr: node, Prefix: false}
			n.SetLine(line)
			node = n
		case token.LParen:
			v, ok := node.(*ast.Var)
			if !ok {
				return node, nil
			}
			args, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			call := &ast.FunctionCall{Name: v.Name, Args: args}
			call.SetLine(line)
			node = call
		default:
			return node, nil
		}
	}
}

func (p *Parser) callArgs() ([]ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []ast.Node
	if !p.at(token.RParen) {
		for {
			a, err := p.assignmentExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.at(token.Comma) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

// primary := '(' expr ')' | constant | string | variable
func (p *Parser) primary() (ast.Node, error) {
	line := p.cur.Line
	switch p.cur.Kind {
	case token.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return e, nil
	case token.IntConst:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.Num{Kind: ast.IntLit, IVal: tok.IVal}
		n.SetLine(line)
		return n, nil
	case token.CharConst:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.Num{Kind: ast.CharLit, IVal: tok.IVal}
		n.SetLine(line)
		return n, nil
	case token.RealConst:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.Num{Kind: ast.RealLit, FVal: tok.FVal}
		n.SetLine(line)
		return n, nil
	case token.StringConst:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.String{Value: tok.Text}
		n.SetLine(line)
		return n, nil
	case token.Ident:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.Var{Name: tok.Text}
		n.SetLine(line)
		return n, nil
	}
	return nil, p.errorf("unexpected token %v in expression", p.cur.Kind)
}
