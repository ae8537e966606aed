package token

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"

	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"

	DECLARE_ASSIGN TokenType = ":="
	ASSIGN         TokenType = "="
	COLON          TokenType = ":"
	SEMICOLON      TokenType = ";"
	COMMA          TokenType = ","
	DOT            TokenType = "."
	CONCAT         TokenType = ".."
	BAR            TokenType = "|"

	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	AT       TokenType = "@"
	BANG     TokenType = "!"

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	LTE    TokenType = "<="
	GT     TokenType = ">"
	GTE    TokenType = ">="
	AND    TokenType = "&&"
	OR     TokenType = "||"

	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"

	// Keywords
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"
	IF     TokenType = "IF"
	ELIF   TokenType = "ELIF"
	ELSE   TokenType = "ELSE"
	PROC   TokenType = "PROC"
	FN     TokenType = "FN"
	RET    TokenType = "RET"
	DEFER  TokenType = "DEFER"
	DEL    TokenType = "DEL"
	CLASS  TokenType = "CLASS"
	STRUCT TokenType = "STRUCT"
	PUB    TokenType = "PUB"
	CONST  TokenType = "CONST"
	INST   TokenType = "INST"
)

var keywords = map[string]TokenType{
	"true":   TRUE,
	"false":  FALSE,
	"if":     IF,
	"elif":   ELIF,
	"else":   ELSE,
	"proc":   PROC,
	"fn":     FN,
	"ret":    RET,
	"defer":  DEFER,
	"del":    DEL,
	"class":  CLASS,
	"struct": STRUCT,
	"pub":    PUB,
	"const":  CONST,
	"inst":   INST,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a lexeme together with the source range it was read from.
type Token struct {
	Type   TokenType
	Lexeme string
	Span   Span
}

// SpanRef returns a pointer to a copy of the token's span, for use as an
// optional AST span.
func (t Token) SpanRef() *Span {
	s := t.Span
	return &s
}
