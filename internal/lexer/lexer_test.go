package lexer

import (
	"strings"
	"testing"

	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `x: i32 := 1_000 + 2.5e-1
pub const f := proc |a, b: str: "d\"q\n"| { ret a .. b }
if x >= 1 && !y || z != 2 { del x } elif a <= b { } else { defer {} }
c := class { inst v := 0 }; s := struct |x| {}
p.q(1) @ f64 == () % 3 / 4 * 5 - -6 < 7 > 8 = fn true false`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "i32"},
		{token.DECLARE_ASSIGN, ":="},
		{token.INT, "1000"},
		{token.PLUS, "+"},
		{token.FLOAT, "2.5e-1"},
		{token.NEWLINE, "\n"},

		{token.PUB, "pub"},
		{token.CONST, "const"},
		{token.IDENT, "f"},
		{token.DECLARE_ASSIGN, ":="},
		{token.PROC, "proc"},
		{token.BAR, "|"},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.IDENT, "str"},
		{token.COLON, ":"},
		{token.STRING, "d\"q\n"},
		{token.BAR, "|"},
		{token.LBRACE, "{"},
		{token.RET, "ret"},
		{token.IDENT, "a"},
		{token.CONCAT, ".."},
		{token.IDENT, "b"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},

		{token.IF, "if"},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.INT, "1"},
		{token.AND, "&&"},
		{token.BANG, "!"},
		{token.IDENT, "y"},
		{token.OR, "||"},
		{token.IDENT, "z"},
		{token.NOT_EQ, "!="},
		{token.INT, "2"},
		{token.LBRACE, "{"},
		{token.DEL, "del"},
		{token.IDENT, "x"},
		{token.RBRACE, "}"},
		{token.ELIF, "elif"},
		{token.IDENT, "a"},
		{token.LTE, "<="},
		{token.IDENT, "b"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.DEFER, "defer"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},

		{token.IDENT, "c"},
		{token.DECLARE_ASSIGN, ":="},
		{token.CLASS, "class"},
		{token.LBRACE, "{"},
		{token.INST, "inst"},
		{token.IDENT, "v"},
		{token.DECLARE_ASSIGN, ":="},
		{token.INT, "0"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "s"},
		{token.DECLARE_ASSIGN, ":="},
		{token.STRUCT, "struct"},
		{token.BAR, "|"},
		{token.IDENT, "x"},
		{token.BAR, "|"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},

		{token.IDENT, "p"},
		{token.DOT, "."},
		{token.IDENT, "q"},
		{token.LPAREN, "("},
		{token.INT, "1"},
		{token.RPAREN, ")"},
		{token.AT, "@"},
		{token.IDENT, "f64"},
		{token.EQ, "=="},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.PERCENT, "%"},
		{token.INT, "3"},
		{token.SLASH, "/"},
		{token.INT, "4"},
		{token.ASTERISK, "*"},
		{token.INT, "5"},
		{token.MINUS, "-"},
		{token.MINUS, "-"},
		{token.INT, "6"},
		{token.LT, "<"},
		{token.INT, "7"},
		{token.GT, ">"},
		{token.INT, "8"},
		{token.ASSIGN, "="},
		{token.FN, "fn"},
		{token.TRUE, "true"},
		{token.FALSE, "false"},
		{token.EOF, ""},
	}

	l := New("test.zx", input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestComments(t *testing.T) {
	tokens, err := New("test.zx", "a // line\n/* block\nstill */ b").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var types []string
	for _, tok := range tokens {
		types = append(types, string(tok.Type))
	}
	if got := strings.Join(types, " "); got != "IDENT NEWLINE IDENT EOF" {
		t.Errorf("tokens = %s", got)
	}
	if tokens[2].Span.Start.Line != 3 {
		t.Errorf("b on line %d, want 3", tokens[2].Span.Start.Line)
	}
}

func TestSpans(t *testing.T) {
	tokens, err := New("test.zx", "ab := \"c\"\n  xyz").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		idx                                int
		line, col, endCol, offset, endOffs int
	}{
		{0, 1, 1, 3, 0, 2},
		{1, 1, 4, 6, 3, 5},
		{2, 1, 7, 10, 6, 9},
		{4, 2, 3, 6, 12, 15},
	}
	for _, tt := range tests {
		s := tokens[tt.idx].Span
		if s.File != "test.zx" {
			t.Errorf("token %d file = %q", tt.idx, s.File)
		}
		if s.Start.Line != tt.line || s.Start.Column != tt.col || s.End.Column != tt.endCol {
			t.Errorf("token %d (%q) span = %d:%d-%d, want %d:%d-%d", tt.idx, tokens[tt.idx].Lexeme,
				s.Start.Line, s.Start.Column, s.End.Column, tt.line, tt.col, tt.endCol)
		}
		if s.Start.Offset != tt.offset || s.End.Offset != tt.endOffs {
			t.Errorf("token %d offsets = %d-%d, want %d-%d", tt.idx, s.Start.Offset, s.End.Offset, tt.offset, tt.endOffs)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
		col   int
	}{
		{"a := $", "Ident `$` not recognised by lexer", 6},
		{"a & b", "Ident `&` not recognised by lexer", 3},
		{`x := "open`, "String literal not closed", 6},
		{"x /* never closed", "Stray unclosed/unopened `/*`", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New("test.zx", tt.input).Tokenize()
			de, ok := diagnostics.As(err)
			if !ok {
				t.Fatalf("expected DiagnosticError, got %v", err)
			}
			if de.Code != diagnostics.ErrSyntax {
				t.Errorf("code = %s, want %s", de.Code, diagnostics.ErrSyntax)
			}
			if de.Message != tt.msg {
				t.Errorf("message = %q, want %q", de.Message, tt.msg)
			}
			if len(de.Trace) == 0 || de.Trace[0].Span.Start.Column != tt.col {
				t.Errorf("trace = %+v, want column %d", de.Trace, tt.col)
			}
		})
	}
}
