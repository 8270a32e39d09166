// Package parser implements a recursive-descent parser over the lexer's
// token stream, producing an ast.Program. A handful of productions need
// multi-token lookahead (cast-expression detection, struct-definition vs.
// struct-variable-declaration); those checkpoint the lexer and current
// token and restore them on a failed trial parse.
package parser

import (
	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/internal/clierr"
	"github.com/cinth/cinth/lexer"
	"github.com/cinth/cinth/token"
)

// Parser consumes a lexer.Lexer one token of lookahead at a time.
type Parser struct {
	lex *lexer.Lexer
	cur token.Token
}

// New builds a Parser over already-preprocessed source text.
func New(src string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// checkpoint is a saved parser position for backtracking trial parses.
type checkpoint struct {
	lex lexer.Lexer
	cur token.Token
}

func (p *Parser) mark() checkpoint {
	return checkpoint{lex: *p.lex, cur: p.cur}
}

func (p *Parser) reset(c checkpoint) {
	*p.lex = c.lex
	p.cur = c.cur
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return clierr.Syntaxf(p.cur.Line, format, args...)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, p.errorf("expected %v, got %v", k, p.cur.Kind)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

// Parse consumes the whole token stream and returns the AST root.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		node, err := p.topLevel()
		if err != nil {
			return nil, err
		}
		prog.Children = append(prog.Children, node)
	}
	return prog, nil
}

func (p *Parser) topLevel() (ast.Node, error) {
	line := p.cur.Line
	if p.at(token.Hash) {
		return p.include()
	}

	if p.at(token.KwStruct) {
		mark := p.mark()
		decl, ok, err := p.tryStructDecl(line)
		if err != nil {
			return nil, err
		}
		if ok {
			return decl, nil
		}
		p.reset(mark)
	}

	ct, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if p.at(token.LParen) {
		return p.functionDeclRest(line, ct, nameTok.Text)
	}
	decls, err := p.declListRest(line, ct, nameTok.Text)
	if err != nil {
		return nil, err
	}
	if len(decls) == 1 {
		return decls[0], nil
	}
	grp := &ast.CompoundStmt{Stmts: decls}
	grp.SetLine(line)
	return grp, nil
}

// tryStructDecl attempts `struct ID '{' ... '}' ';'`; returns ok=false
// (with the parser position unmoved by the caller's reset) if this turns
// out to be a struct-typed declaration instead (`struct ID ['*'] ID ...`).
func (p *Parser) tryStructDecl(line int) (ast.Node, bool, error) {
	if _, err := p.expect(token.KwStruct); err != nil {
		return nil, false, err
	}
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, false, err
	}
	if !p.at(token.LBrace) {
		return nil, false, nil
	}
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	decl := &ast.StructDecl{Name: nameTok.Text, Fields: map[string]ctype.CType{}}
	decl.SetLine(line)
	for !p.at(token.RBrace) {
		fct, err := p.typeSpec()
		if err != nil {
			return nil, false, err
		}
		for {
			fnTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, false, err
			}
			decl.FieldOrder = append(decl.FieldOrder, fnTok.Text)
			decl.Fields[fnTok.Text] = fct
			if p.at(token.Comma) {
				if err := p.advance(); err != nil {
					return nil, false, err
				}
				continue
			}
			break
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, false, err
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, false, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, false, err
	}
	return decl, true, nil
}

func (p *Parser) include() (ast.Node, error) {
	line := p.cur.Line
	if _, err := p.expect(token.Hash); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwInclude); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Lt); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Dot); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Ident); err != nil { // "h"
		return nil, err
	}
	if _, err := p.expect(token.Gt); err != nil {
		return nil, err
	}
	n := &ast.IncludeLibrary{Name: nameTok.Text}
	n.SetLine(line)
	return n, nil
}

func (p *Parser) functionDeclRest(line int, ret ctype.CType, name string) (ast.Node, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.Param
	if !p.at(token.RParen) {
		for {
			pline := p.cur.Line
			pct, err := p.typeSpec()
			if err != nil {
				return nil, err
			}
			pnTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			pr := &ast.Param{Type: pct, Name: pnTok.Text}
			pr.SetLine(pline)
			params = append(params, pr)
			if p.at(token.Comma) {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.funcBody()
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDecl{ReturnType: ret, Name: name, Params: params, Body: body}
	fn.SetLine(line)
	return fn, nil
}

// declListRest parses the `init_decl (',' init_decl)* ';'` tail of a
// decl_list, given the type_spec and first identifier already consumed.
func (p *Parser) declListRest(line int, ct ctype.CType, firstName string) ([]ast.Node, error) {
	var decls []ast.Node
	name := firstName
	for {
		var init ast.Node
		if p.at(token.Assign) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr, err := p.assignmentExpr()
			if err != nil {
				return nil, err
			}
			init = expr
		}
		d := &ast.VarDecl{Type: ct, Name: name, Init: init}
		d.SetLine(line)
		decls = append(decls, d)
		if !p.at(token.Comma) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		nTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		name = nTok.Text
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return decls, nil
}

// typeSpec parses `(sign|len)* (char|int|float|double) '*'?` or
// `struct ID '*'?`.
func (p *Parser) typeSpec() (ctype.CType, error) {
	if p.at(token.KwStruct) {
		if err := p.advance(); err != nil {
			return ctype.CType{}, err
		}
		nameTok, err := p.expect(token.Ident)
		if err != nil {
			return ctype.CType{}, err
		}
		pointer := false
		if p.at(token.Star) {
			pointer = true
			if err := p.advance(); err != nil {
				return ctype.CType{}, err
			}
		}
		return ctype.NewStruct(nameTok.Text, pointer), nil
	}

	var words []string
	for {
		switch p.cur.Kind {
		case token.KwSigned, token.KwUnsigned, token.KwShort, token.KwLong,
			token.KwChar, token.KwInt, token.KwFloat, token.KwDouble:
			words = append(words, p.cur.Text)
			if err := p.advance(); err != nil {
				return ctype.CType{}, err
			}
			continue
		}
		break
	}
	if len(words) == 0 {
		return ctype.CType{}, p.errorf("expected type specifier, got %v", p.cur.Kind)
	}
	pointer := false
	if p.at(token.Star) {
		pointer = true
		if err := p.advance(); err != nil {
			return ctype.CType{}, err
		}
	}
	ct, err := ctype.FromString(joinWords(words))
	if err != nil {
		return ctype.CType{}, p.errorf("%v", err)
	}
	ct.Pointer = pointer
	return ct, nil
}

func joinWords(words []string) string {
	out := words[0]
	for _, w := range words[1:] {
		out += " " + w
	}
	return out
}

// looksLikeTypeSpec reports whether the current token could start a
// type_spec, used to disambiguate a declaration from a statement inside a
// block (this subset has no typedefs, so a type keyword is unambiguous).
func (p *Parser) looksLikeTypeSpec() bool {
	return token.TypeKeywords[p.cur.Kind]
}
