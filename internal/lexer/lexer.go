package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
)

type Lexer struct {
	file         string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
}

func New(file, input string) *Lexer {
	l := &Lexer{file: file, input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() token.Position {
	offset := l.position
	if offset > len(l.input) {
		offset = len(l.input)
	}
	return token.Position{Offset: offset, Line: l.line, Column: l.column}
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Tokenize lexes the whole input. The returned slice always ends with EOF.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	start := l.pos()
	if l.atEOF() {
		return l.finish(token.EOF, start, ""), nil
	}

	switch l.ch {
	case '\n':
		l.readChar()
		return l.finish(token.NEWLINE, start, "\n"), nil
	case '"':
		return l.readString(start)
	case ':':
		if l.peekChar() == '=' {
			return l.two(token.DECLARE_ASSIGN, start)
		}
		return l.one(token.COLON, start)
	case '=':
		if l.peekChar() == '=' {
			return l.two(token.EQ, start)
		}
		return l.one(token.ASSIGN, start)
	case '!':
		if l.peekChar() == '=' {
			return l.two(token.NOT_EQ, start)
		}
		return l.one(token.BANG, start)
	case '<':
		if l.peekChar() == '=' {
			return l.two(token.LTE, start)
		}
		return l.one(token.LT, start)
	case '>':
		if l.peekChar() == '=' {
			return l.two(token.GTE, start)
		}
		return l.one(token.GT, start)
	case '&':
		if l.peekChar() == '&' {
			return l.two(token.AND, start)
		}
	case '|':
		if l.peekChar() == '|' {
			return l.two(token.OR, start)
		}
		return l.one(token.BAR, start)
	case '.':
		if l.peekChar() == '.' {
			return l.two(token.CONCAT, start)
		}
		return l.one(token.DOT, start)
	case ';':
		return l.one(token.SEMICOLON, start)
	case ',':
		return l.one(token.COMMA, start)
	case '+':
		return l.one(token.PLUS, start)
	case '-':
		return l.one(token.MINUS, start)
	case '*':
		return l.one(token.ASTERISK, start)
	case '/':
		return l.one(token.SLASH, start)
	case '%':
		return l.one(token.PERCENT, start)
	case '@':
		return l.one(token.AT, start)
	case '(':
		return l.one(token.LPAREN, start)
	case ')':
		return l.one(token.RPAREN, start)
	case '{':
		return l.one(token.LBRACE, start)
	case '}':
		return l.one(token.RBRACE, start)
	default:
		if isLetter(l.ch) {
			ident := l.readWhile(func(r rune) bool { return isLetter(r) || unicode.IsDigit(r) })
			return l.finish(token.LookupIdent(ident), start, ident), nil
		}
		if unicode.IsDigit(l.ch) {
			return l.readNumber(start), nil
		}
	}

	bad := string(l.ch)
	l.readChar()
	return token.Token{}, diagnostics.Syntax("Ident `%s` not recognised by lexer", bad).
		WithSpan(l.span(start), bad)
}

func (l *Lexer) span(start token.Position) *token.Span {
	return &token.Span{File: l.file, Start: start, End: l.pos()}
}

func (l *Lexer) finish(t token.TokenType, start token.Position, lexeme string) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Span: *l.span(start)}
}

func (l *Lexer) one(t token.TokenType, start token.Position) (token.Token, error) {
	lexeme := string(l.ch)
	l.readChar()
	return l.finish(t, start, lexeme), nil
}

func (l *Lexer) two(t token.TokenType, start token.Position) (token.Token, error) {
	lexeme := string(l.ch) + string(l.peekChar())
	l.readChar()
	l.readChar()
	return l.finish(t, start, lexeme), nil
}

func (l *Lexer) readWhile(pred func(rune) bool) string {
	begin := l.position
	for !l.atEOF() && pred(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.position]
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	digits := func(r rune) bool { return unicode.IsDigit(r) || r == '_' }
	text := l.readWhile(digits)
	kind := token.INT
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar()
		text += "." + l.readWhile(digits)
		kind = token.FLOAT
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if unicode.IsDigit(next) || next == '-' || next == '+' {
			l.readChar()
			exp := string(l.ch)
			l.readChar()
			text += "e" + exp + l.readWhile(digits)
			kind = token.FLOAT
		}
	}
	return l.finish(kind, start, strings.ReplaceAll(text, "_", ""))
}

func (l *Lexer) readString(start token.Position) (token.Token, error) {
	var sb strings.Builder
	l.readChar() // opening quote
	for {
		if l.atEOF() {
			return token.Token{}, diagnostics.Syntax("String literal not closed").WithSpan(l.span(start), "\"")
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '0':
				sb.WriteRune(0)
			case '"', '\\':
				sb.WriteRune(l.ch)
			default:
				sb.WriteRune('\\')
				sb.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.finish(token.STRING, start, sb.String()), nil
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.pos()
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.atEOF() {
					return diagnostics.Syntax("Stray unclosed/unopened `/*`").WithSpan(l.span(start), "/*")
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return nil
		}
	}
	return nil
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}
