package parser

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/token"
)

// blockStmts consumes `'{' (decl_list ';' | statement)* '}'` and returns the
// flat statement list in source order.
func (p *Parser) blockStmts() ([]ast.Node, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.at(token.RBrace) {
		if p.looksLikeTypeSpec() {
			line := p.cur.Line
			ct, err := p.typeSpec()
			if err != nil {
				return nil, err
			}
			nameTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			decls, err := p.declListRest(line, ct, nameTok.Text)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, decls...)
			continue
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) block() (*ast.CompoundStmt, error) {
	line := p.cur.Line
	stmts, err := p.blockStmts()
	if err != nil {
		return nil, err
	}
	b := &ast.CompoundStmt{Stmts: stmts}
	b.SetLine(line)
	return b, nil
}

func (p *Parser) funcBody() (*ast.FunctionBody, error) {
	line := p.cur.Line
	stmts, err := p.blockStmts()
	if err != nil {
		return nil, err
	}
	b := &ast.FunctionBody{Stmts: stmts}
	b.SetLine(line)
	return b, nil
}

// statement := iteration | selection | jump | block | expr? ';'
func (p *Parser) statement() (ast.Node, error) {
	line := p.cur.Line
	switch p.cur.Kind {
	case token.LBrace:
		return p.block()
	case token.KwWhile:
		return p.whileStmt(line)
	case token.KwDo:
		return p.doWhileStmt(line)
	case token.KwFor:
		return p.forStmt(line)
	case token.KwIf:
		return p.ifStmt(line)
	case token.KwSwitch:
		return p.switchStmt(line)
	case token.KwReturn:
		return p.returnStmt(line)
	case token.KwBreak:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		n := &ast.BreakStmt{}
		n.SetLine(line)
		return n, nil
	case token.KwContinue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		n := &ast.ContinueStmt{}
		n.SetLine(line)
		return n, nil
	case token.Semicolon:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.NoOp{}
		n.SetLine(line)
		return n, nil
	default:
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return expr, nil
	}
}

func (p *Parser) whileStmt(line int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	n := &ast.WhileStmt{Cond: cond, Body: body}
	n.SetLine(line)
	return n, nil
}

func (p *Parser) doWhileStmt(line int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	n := &ast.DoWhileStmt{Body: body, Cond: cond}
	n.SetLine(line)
	return n, nil
}

// exprStmt parses `expr? ';'`, returning a NoOp for the empty form; used by
// for's setup/cond clauses, which are themselves expr_stmt per the grammar.
func (p *Parser) exprStmt() (ast.Node, error) {
	line := p.cur.Line
	if p.at(token.Semicolon) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &ast.NoOp{}
		n.SetLine(line)
		return n, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) forStmt(line int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	setup, err := p.exprStmt()
	if err != nil {
		return nil, err
	}
	cond, err := p.exprStmt()
	if err != nil {
		return nil, err
	}
	var inc ast.Node
	if !p.at(token.RParen) {
		inc, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	n := &ast.ForStmt{Setup: setup, Cond: cond, Inc: inc, Body: body}
	n.SetLine(line)
	return n, nil
}

func (p *Parser) ifStmt(line int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.at(token.KwElse) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	n := &ast.IfStmt{Cond: cond, Then: then, Else: els}
	n.SetLine(line)
	return n, nil
}

func (p *Parser) switchStmt(line int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var items []ast.Node
	for !p.at(token.RBrace) {
		switch p.cur.Kind {
		case token.KwCase:
			cline := p.cur.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			ce, err := p.assignmentExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			lbl := &ast.SwitchCaseLabel{Expr: ce}
			lbl.SetLine(cline)
			items = append(items, lbl)
		case token.KwDefault:
			dline := p.cur.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			lbl := &ast.SwitchDefaultLabel{}
			lbl.SetLine(dline)
			items = append(items, lbl)
		case token.KwChar, token.KwInt, token.KwFloat, token.KwDouble,
			token.KwShort, token.KwLong, token.KwSigned, token.KwUnsigned, token.KwStruct:
			dline := p.cur.Line
			ct, err := p.typeSpec()
			if err != nil {
				return nil, err
			}
			nameTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			decls, err := p.declListRest(dline, ct, nameTok.Text)
			if err != nil {
				return nil, err
			}
			items = append(items, decls...)
		default:
			stmt, err := p.statement()
			if err != nil {
				return nil, err
			}
			items = append(items, stmt)
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	n := &ast.SwitchStmt{Expr: expr, Items: items}
	n.SetLine(line)
	return n, nil
}

func (p *Parser) returnStmt(line int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var expr ast.Node
	if !p.at(token.Semicolon) {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		expr = e
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	n := &ast.ReturnStmt{Expr: expr}
	n.SetLine(line)
	return n, nil
}
