package parser

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
)

// parseStatements reads statements separated by newlines or semicolons until
// the end token, which is left unconsumed.
func (p *Parser) parseStatements(end token.TokenType) ([]ast.Node, error) {
	var stmts []ast.Node
	for {
		for p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) {
			p.next()
		}
		if p.curIs(end) || p.curIs(token.EOF) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !atStatementEnd(p.cur().Type) {
			return nil, p.unexpected("end of statement")
		}
	}
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur().Type {
	case token.RET:
		return p.parseReturn()
	case token.DEFER:
		return p.parseDefer()
	case token.DEL:
		return p.parseDelete()
	case token.PUB, token.CONST, token.INST:
		return p.parseFlaggedDeclaration()
	default:
		return p.parseExpression()
	}
}

func (p *Parser) parseReturn() (ast.Node, error) {
	kwd := p.next()
	ret := &ast.Return{KwdPos: kwd.SpanRef()}
	if atStatementEnd(p.cur().Type) {
		return ret, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	ret.Value = value
	return ret, nil
}

// parseDefer accepts either a block or a single expression, which is wrapped
// into a block.
func (p *Parser) parseDefer() (ast.Node, error) {
	kwd := p.next()
	if p.curIs(token.LBRACE) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Defer{KwdPos: kwd.SpanRef(), Body: body}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Defer{KwdPos: kwd.SpanRef(), Body: &ast.Block{Statements: []ast.Node{expr}}}, nil
}

func (p *Parser) parseDelete() (ast.Node, error) {
	kwd := p.next()
	del := &ast.Delete{KwdPos: kwd.SpanRef()}
	for {
		name, err := p.expect(token.IDENT, "variable name")
		if err != nil {
			return nil, err
		}
		del.Names = append(del.Names, &ast.Ident{Name: name.Lexeme, NamePos: name.SpanRef()})
		if !p.curIs(token.COMMA) {
			return del, nil
		}
		p.next()
	}
}

// parseFlaggedDeclaration handles `pub`, `const` and `inst` prefixes. Only an
// inst declaration may omit its content, and then it needs a type.
func (p *Parser) parseFlaggedDeclaration() (ast.Node, error) {
	var flags []ast.FlagEntry
	for {
		tok := p.cur()
		f, ok := flagOf(tok.Type)
		if !ok {
			break
		}
		p.next()
		flags = append(flags, ast.FlagEntry{Flag: f, Pos: tok.SpanRef()})
	}
	variable, err := p.parseBinary(LOWEST)
	if err != nil {
		return nil, err
	}
	decl := &ast.Declare{Variable: variable, Flags: flags}
	if p.curIs(token.COLON) {
		p.next()
		if decl.Type, err = p.parseBinary(LOWEST); err != nil {
			return nil, err
		}
	}
	if !p.curIs(token.DECLARE_ASSIGN) {
		if ast.HasFlag(flags, ast.FlagInst) && decl.Type != nil && atStatementEnd(p.cur().Type) {
			return decl, nil
		}
		return nil, p.unexpected("`:=`")
	}
	eq := p.next()
	decl.EqPos = eq.SpanRef()
	if decl.Content, err = p.parseExpression(); err != nil {
		return nil, err
	}
	return decl, nil
}

func flagOf(t token.TokenType) (ast.Flag, bool) {
	switch t {
	case token.PUB:
		return ast.FlagPub, true
	case token.CONST:
		return ast.FlagConst, true
	case token.INST:
		return ast.FlagInst, true
	}
	return 0, false
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBRACE, "`{`")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(token.RBRACE)
	if err != nil {
		return nil, err
	}
	rbrace, err := p.expect(token.RBRACE, "`}`")
	if err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts, Open: open.SpanRef(), Close: rbrace.SpanRef()}, nil
}

// parseBody accepts a block or a single expression (`fn |x| x + 1`).
func (p *Parser) parseBody() (*ast.Block, error) {
	if p.curIs(token.LBRACE) {
		return p.parseBlock()
	}
	if atStatementEnd(p.cur().Type) {
		return nil, p.unexpected("body")
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Statements: []ast.Node{expr}}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	node := &ast.If{}
	kwd := p.next()
	for {
		cond, err := p.parseBinary(LOWEST)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Conditions = append(node.Conditions, &ast.Condition{KwdPos: kwd.SpanRef(), Cond: cond, Body: body})

		switch p.peekPastNewlines().Type {
		case token.ELIF:
			p.skipNewlines()
			kwd = p.next()
		case token.ELSE:
			p.skipNewlines()
			kwd = p.next()
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			node.Conditions = append(node.Conditions, &ast.Condition{KwdPos: kwd.SpanRef(), Body: body})
			return node, nil
		default:
			return node, nil
		}
	}
}

func (p *Parser) checkDepth() error {
	if p.depth > MaxRecursionDepth {
		return diagnostics.Syntax("Expression too complex: nesting limit exceeded").
			WithSpan(p.cur().SpanRef(), p.cur().Lexeme)
	}
	return nil
}
