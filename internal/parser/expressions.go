package parser

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/token"
)

// parseExpression parses an expression that may also be a declaration or an
// assignment. Both are right-associative: `a := b := 1`.
func (p *Parser) parseExpression() (ast.Node, error) {
	left, err := p.parseBinary(LOWEST)
	if err != nil {
		return nil, err
	}
	switch p.cur().Type {
	case token.COLON:
		p.next()
		typ, err := p.parseBinary(LOWEST)
		if err != nil {
			return nil, err
		}
		if !p.curIs(token.DECLARE_ASSIGN) {
			return nil, p.unexpected("`:=`")
		}
		eq := p.next()
		content, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Declare{Variable: left, Type: typ, Content: content, EqPos: eq.SpanRef()}, nil
	case token.DECLARE_ASSIGN:
		eq := p.next()
		content, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Declare{Variable: left, Content: content, EqPos: eq.SpanRef()}, nil
	case token.ASSIGN:
		eq := p.next()
		content, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Set{Variable: left, Content: content, EqPos: eq.SpanRef()}, nil
	}
	return left, nil
}

func (p *Parser) parseBinary(precedence int) (ast.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if err := p.checkDepth(); err != nil {
		return nil, err
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		prec, ok := precedences[tok.Type]
		if !ok || precedence >= prec {
			return left, nil
		}
		switch tok.Type {
		case token.LPAREN:
			left, err = p.parseCall(left)
		case token.DOT:
			left, err = p.parseMember(left)
		default:
			p.next()
			var right ast.Node
			right, err = p.parseBinary(prec)
			left = &ast.BinaryOpr{Op: binaryOps[tok.Type], OprPos: tok.SpanRef(), Left: left, Right: right}
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePrefix() (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		p.next()
		return &ast.Literal{Kind: ast.IntLit, Value: tok.Lexeme, Pos: tok.SpanRef()}, nil
	case token.FLOAT:
		p.next()
		return &ast.Literal{Kind: ast.FloatLit, Value: tok.Lexeme, Pos: tok.SpanRef()}, nil
	case token.STRING:
		p.next()
		return &ast.Literal{Kind: ast.StringLit, Value: tok.Lexeme, Pos: tok.SpanRef()}, nil
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.Literal{Kind: ast.BoolLit, Value: tok.Lexeme, Pos: tok.SpanRef()}, nil
	case token.IDENT:
		p.next()
		return &ast.Ident{Name: tok.Lexeme, NamePos: tok.SpanRef()}, nil
	case token.LPAREN:
		return p.parseGrouped()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.PROC, token.FN, token.BAR, token.OR:
		return p.parseProcedure()
	case token.CLASS, token.STRUCT:
		return p.parseClass()
	case token.MINUS, token.PLUS, token.BANG:
		p.next()
		operand, err := p.parseBinary(PREFIX)
		if err != nil {
			return nil, err
		}
		op := ast.OpUnMinus
		switch tok.Type {
		case token.PLUS:
			op = ast.OpUnPlus
		case token.BANG:
			op = ast.OpNot
		}
		return &ast.UnaryOpr{Op: op, OprPos: tok.SpanRef(), Operand: operand}, nil
	}
	return nil, p.unexpected("expression")
}

// parseGrouped handles `( expr )` and the unit literal `()`.
func (p *Parser) parseGrouped() (ast.Node, error) {
	open := p.next()
	p.skipNewlines()
	if p.curIs(token.RPAREN) {
		rparen := p.next()
		return &ast.Literal{Kind: ast.UnitLit, Pos: token.Merge(open.SpanRef(), rparen.SpanRef())}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.RPAREN, "`)`"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseCall(called ast.Node) (ast.Node, error) {
	open := p.next()
	call := &ast.Call{Called: called}
	p.skipNewlines()
	for !p.curIs(token.RPAREN) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.next()
			p.skipNewlines()
			continue
		}
		if !p.curIs(token.RPAREN) {
			return nil, p.unexpected("`,` or `)`")
		}
	}
	rparen := p.next()
	call.ParenPos = token.Merge(open.SpanRef(), rparen.SpanRef())
	return call, nil
}

func (p *Parser) parseMember(parent ast.Node) (ast.Node, error) {
	dot := p.next()
	name, err := p.expect(token.IDENT, "attribute name")
	if err != nil {
		return nil, err
	}
	return &ast.Ident{Name: name.Lexeme, NamePos: name.SpanRef(), DotPos: dot.SpanRef(), Parent: parent}, nil
}

// parseProcedure handles `proc`/`fn` with optional parameters, the bare
// parameter form `|a: i32| ...` and the empty form `|| ...`.
func (p *Parser) parseProcedure() (ast.Node, error) {
	proc := &ast.Procedure{}
	tok := p.cur()
	if tok.Type == token.PROC || tok.Type == token.FN {
		p.next()
		proc.IsFn = tok.Type == token.FN
		proc.KwdPos = tok.SpanRef()
	}
	switch p.cur().Type {
	case token.OR:
		bars := p.next()
		if proc.KwdPos == nil {
			proc.KwdPos = bars.SpanRef()
		}
	case token.BAR:
		bar := p.cur()
		if proc.KwdPos == nil {
			proc.KwdPos = bar.SpanRef()
		}
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		proc.Params = params
	}
	if p.curIs(token.COLON) {
		p.next()
		rt, err := p.parseBinary(LOWEST)
		if err != nil {
			return nil, err
		}
		proc.ReturnType = rt
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	proc.Body = body
	return proc, nil
}

// parseParams reads `|name: type: default, ...|`.
func (p *Parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.BAR, "`|`"); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.curIs(token.BAR) {
		name, err := p.expect(token.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		param := &ast.Param{Name: name.Lexeme, NamePos: name.SpanRef()}
		if p.curIs(token.COLON) {
			p.next()
			if param.Type, err = p.parseBinary(LOWEST); err != nil {
				return nil, err
			}
			if p.curIs(token.COLON) {
				p.next()
				if param.Default, err = p.parseBinary(LOWEST); err != nil {
					return nil, err
				}
			}
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		if !p.curIs(token.BAR) {
			return nil, p.unexpected("`,` or `|`")
		}
	}
	p.next()
	return params, nil
}

func (p *Parser) parseClass() (ast.Node, error) {
	kwd := p.next()
	class := &ast.Class{IsStruct: kwd.Type == token.STRUCT, KwdPos: kwd.SpanRef()}
	if class.IsStruct && p.curIs(token.BAR) {
		fields, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		class.Fields = fields
	}
	if class.IsStruct && !p.curIs(token.LBRACE) {
		class.Body = &ast.Block{}
		return class, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	class.Body = body
	return class, nil
}
