package parser_test

import (
	"strings"
	"testing"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/lexer"
	"github.com/zyxt-lang/zyxt/internal/parser"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewContext("test.zx", input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, err := range ctx.Errors {
			msgs = append(msgs, err.Error())
		}
		t.Fatalf("parsing failed with errors:\n%s", strings.Join(msgs, "\n"))
	}
	return ctx.AstRoot
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"declaration", "x := 5", "x := 5"},
		{"annotated_declaration", "x: i64 := 5", "x: i64 := 5"},
		{"flags", "pub const x := 5", "pub const x := 5"},
		{"assignment", "x = y", "x = y"},
		{"chained_declaration", "a := b := 1", "a := b := 1"},
		{"precedence", "1 + 2 * 3 - 4", "((1 + (2 * 3)) - 4)"},
		{"comparison_and_logic", "a < b && c >= d || e", "(((a < b) && (c >= d)) || e)"},
		{"concat", `"a" .. b + 1`, `("a" .. (b + 1))`},
		{"cast_binds_tight", "a + b @ i32", "(a + (b @ i32))"},
		{"prefix", "-a * !b", "(-a * !b)"},
		{"grouping", "(1 + 2) * 3", "((1 + 2) * 3)"},
		{"unit", "()", "()"},
		{"call", "f(1, g(2), x.y)", "f(1, g(2), x.y)"},
		{"member_call", "a.b.c(1)", "a.b.c(1)"},
		{"call_on_group", "(a + b).c()", "(a + b).c()"},
		{"if_elif_else", "if a { 1 } elif b { 2 } else { 3 }", "if a { 1 } elif b { 2 } else { 3 }"},
		{"if_else_newline", "if a { 1 }\nelse { 2 }", "if a { 1 } else { 2 }"},
		{"procedure", "proc |a: i32, b: i32: 1|: i32 { a + b }", "proc |a: i32, b: i32: 1|: i32 { (a + b) }"},
		{"procedure_no_params", "fn { 1 }", "fn { 1 }"},
		{"procedure_bars", "|a: i32| a", "proc |a: i32| { a }"},
		{"procedure_empty_bars", "|| 1", "proc { 1 }"},
		{"class", "class { inst x: i32 := 0; f := proc |self| { self.x } }", "class { inst x: i32 := 0; f := proc |self| { self.x } }"},
		{"inst_without_value", "class { inst x: i32 }", "class { inst x: i32 :=  }"},
		{"struct", "struct |x: i32, y: i32: 2|", "struct |x: i32, y: i32: 2| {}"},
		{"return", "ret", "ret"},
		{"return_value", "ret 1 + 2", "ret (1 + 2)"},
		{"defer_block", "defer { f() }", "defer { f() }"},
		{"defer_expression", "defer f()", "defer { f() }"},
		{"delete", "del a, b", "del a, b"},
		{"statements", "a := 1\nb := 2; c := 3\n\n", "a := 1; b := 2; c := 3"},
		{"comments", "a := 1 // one\n/* two\nlines */ b := 2", "a := 1; b := 2"},
		{"numbers", "1_000 + 1.5e3", "(1000 + 1.5e3)"},
		{"escapes", `"a\n\"b\""`, `"a\n\"b\""`},
		{"multiline_call", "f(\n  1,\n  2\n)", "f(1, 2)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			program := parseProgram(t, tc.input)
			actual := ast.Format(program)
			if actual != tc.expected {
				t.Errorf("expected=%q, got=%q", tc.expected, actual)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	program := parseProgram(t, "x := 1\nfoo := bar(2, 3)")
	call := program.Statements[1].(*ast.Declare).Content.(*ast.Call)
	span := call.Span()
	if span.Start.Line != 2 || span.Start.Column != 8 {
		t.Errorf("call starts at %d:%d, want 2:8", span.Start.Line, span.Start.Column)
	}
	if span.End.Line != 2 || span.End.Column != 17 {
		t.Errorf("call ends at %d:%d, want 2:17", span.End.Line, span.End.Column)
	}
	if program.File != "test.zx" || span.File != "test.zx" {
		t.Errorf("file not recorded: program %q, span %q", program.File, span.File)
	}
}

func TestParserErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		msg   string
	}{
		{"unclosed_paren", "f(1, 2", "Unexpected end of file"},
		{"unclosed_block", "{ a := 1", "Unexpected end of file"},
		{"missing_declare", "const x = 1", "expected `:=`"},
		{"two_expressions", "a b", "Unexpected ident `b`, expected end of statement"},
		{"bad_param", "proc |1| {}", "expected parameter name"},
		{"bad_token", "a := $", "not recognised by lexer"},
		{"unclosed_string", `a := "abc`, "String literal not closed"},
		{"unclosed_comment", "/* abc", "unclosed"},
		{"del_expression", "del 1", "expected variable name"},
		{"empty_body", "proc |a: i32|\n", "expected body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := pipeline.NewContext("test.zx", tc.input)
			ctx = (&lexer.LexerProcessor{}).Process(ctx)
			ctx = (&parser.ParserProcessor{}).Process(ctx)
			if len(ctx.Errors) == 0 {
				t.Fatalf("expected error containing %q, got none", tc.msg)
			}
			err := ctx.Errors[0]
			if err.Code != diagnostics.ErrSyntax {
				t.Errorf("code = %s, want %s", err.Code, diagnostics.ErrSyntax)
			}
			if !strings.Contains(err.Message, tc.msg) {
				t.Errorf("message %q does not contain %q", err.Message, tc.msg)
			}
			if len(err.Trace) == 0 {
				t.Error("syntax error has no span")
			}
		})
	}
}

func TestNestingLimit(t *testing.T) {
	input := strings.Repeat("(", parser.MaxRecursionDepth+10) + "1" + strings.Repeat(")", parser.MaxRecursionDepth+10)
	ctx := pipeline.NewContext("test.zx", input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) == 0 || !strings.Contains(ctx.Errors[0].Message, "nesting limit") {
		t.Fatalf("expected nesting limit error, got %v", ctx.Errors)
	}
}
