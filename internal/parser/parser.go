package parser

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
)

// MaxRecursionDepth bounds expression nesting so hostile input cannot blow the
// Go stack.
const MaxRecursionDepth = 1000

const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	CONCAT      // ..
	SUM         // + -
	PRODUCT     // * / %
	CAST        // @
	PREFIX      // -x !x
	CALL        // f(x) a.b
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GT:       LESSGREATER,
	token.GTE:      LESSGREATER,
	token.CONCAT:   CONCAT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.AT:       CAST,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
}

var binaryOps = map[token.TokenType]ast.OprType{
	token.OR:       ast.OpOr,
	token.AND:      ast.OpAnd,
	token.EQ:       ast.OpEq,
	token.NOT_EQ:   ast.OpNotEq,
	token.LT:       ast.OpLt,
	token.LTE:      ast.OpLe,
	token.GT:       ast.OpGt,
	token.GTE:      ast.OpGe,
	token.CONCAT:   ast.OpConcat,
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.ASTERISK: ast.OpMul,
	token.SLASH:    ast.OpDiv,
	token.PERCENT:  ast.OpRem,
	token.AT:       ast.OpTypeCast,
}

// Parser builds an ast.Program from a token slice. Parsing stops at the first
// error.
type Parser struct {
	tokens []token.Token
	pos    int
	file   string
	depth  int
}

// New creates a parser over tokens, which must end with an EOF token.
func New(tokens []token.Token, file string) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF, Span: token.Span{File: file}})
	}
	return &Parser{tokens: tokens, file: file}
}

// ParseProgram parses the whole token stream.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	stmts, err := p.parseStatements(token.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.Program{File: p.file, Statements: stmts}, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) curIs(t token.TokenType) bool {
	return p.cur().Type == t
}

// peekPastNewlines returns the first non-newline token after the current one
// without consuming anything.
func (p *Parser) peekPastNewlines() token.Token {
	i := p.pos
	for i < len(p.tokens)-1 && p.tokens[i].Type == token.NEWLINE {
		i++
	}
	return p.tokens[i]
}

func (p *Parser) next() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.next()
	}
}

func (p *Parser) expect(t token.TokenType, what string) (token.Token, error) {
	if !p.curIs(t) {
		return token.Token{}, p.unexpected(what)
	}
	return p.next(), nil
}

func (p *Parser) unexpected(expected string) error {
	tok := p.cur()
	if tok.Type == token.EOF {
		return diagnostics.Syntax("Unexpected end of file, expected %s", expected).
			WithSpan(tok.SpanRef(), "")
	}
	return diagnostics.Syntax("Unexpected ident `%s`, expected %s", describe(tok), expected).
		WithSpan(tok.SpanRef(), tok.Lexeme)
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.NEWLINE:
		return "\\n"
	case token.STRING:
		return "\"" + tok.Lexeme + "\""
	}
	return tok.Lexeme
}

func atStatementEnd(t token.TokenType) bool {
	switch t {
	case token.NEWLINE, token.SEMICOLON, token.RBRACE, token.EOF:
		return true
	}
	return false
}
