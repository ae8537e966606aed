package desugar_test

import (
	"testing"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/desugar"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/lexer"
	"github.com/zyxt-lang/zyxt/internal/parser"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New("test.zx", input).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	program, err := parser.New(tokens, "test.zx").ParseProgram()
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	return program
}

func TestDesugared(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-x", "x._un_minus()"},
		{"+x", "x._un_plus()"},
		{"!x", "x._not()"},
		{"a + b * c", "a._add(b._mul(c))"},
		{"a - b - c", "a._sub(b)._sub(c)"},
		{"a / b % c", "a._div(b)._rem(c)"},
		{"a == b != c", "a._eq(b)._neq(c)"},
		{"a < b; a <= b; a > b; a >= b", "a._lt(b); a._le(b); a._gt(b); a._ge(b)"},
		{`"a" .. b`, `"a"._concat(b)`},
		{"x @ i64", "x._typecast(i64)"},
		{"a && b || !c", "((a && b) || c._not())"},
		{"f(-1, a.b + 2)", "f(1._un_minus(), a.b._add(2))"},
		{"x: i32 := 1 + 2", "x: i32 := 1._add(2)"},
		{"x = -y", "x = y._un_minus()"},
		{"if a == 1 { -b } else { c }", "if a._eq(1) { b._un_minus() } else { c }"},
		{"proc |a: i32: 1 + 1|: i32 { ret -a }", "proc |a: i32: 1._add(1)|: i32 { ret a._un_minus() }"},
		{"struct |x: i32: -1|", "struct |x: i32: 1._un_minus()| {}"},
		{"defer { -a }", "defer { a._un_minus() }"},
		{"del a, b", "del a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := desugar.Desugared(parse(t, tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ast.Format(out); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDesugaredIsIdempotent(t *testing.T) {
	inputs := []string{
		"x := -a + b * (c - d)",
		"C := class { inst v: i32 := 1 + 1; f := proc |self| { !(self.v > 0) } }",
		`if x @ bool && y { "a" .. "b" } elif !z { 1 } else { 2 }`,
	}
	for _, input := range inputs {
		once, err := desugar.Desugared(parse(t, input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		twice, err := desugar.Desugared(once)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ast.Format(once) != ast.Format(twice) {
			t.Errorf("second pass changed %q:\nonce:  %s\ntwice: %s", input, ast.Format(once), ast.Format(twice))
		}
	}
}

func TestDesugaredLeavesInputUntouched(t *testing.T) {
	program := parse(t, "x := a + -b")
	before := ast.Format(program)
	if _, err := desugar.Desugared(program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after := ast.Format(program); after != before {
		t.Errorf("input modified: %q became %q", before, after)
	}
}

func TestDesugaredKeepsSpans(t *testing.T) {
	program := parse(t, "a + b")
	bin := program.Statements[0].(*ast.BinaryOpr)
	out, err := desugar.Desugared(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := out.(*ast.Program).Statements[0].(*ast.Call)
	member := call.Called.(*ast.Ident)
	if member.NamePos != bin.OprPos {
		t.Error("member call does not point at the operator")
	}
	got, want := call.Span(), bin.Span()
	if got.Start != want.Start || got.End != want.End {
		t.Errorf("span = %v..%v, want %v..%v", got.Start, got.End, want.Start, want.End)
	}
}

func TestDesugarProcessor(t *testing.T) {
	ctx := pipeline.NewContext("test.zx", "x := 1 + 2")
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, &desugar.DesugarProcessor{}).Run(ctx)
	if ctx.Failed() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if got := ast.Format(ctx.AstRoot); got != "x := 1._add(2)" {
		t.Errorf("got %q", got)
	}

	failed := pipeline.NewContext("test.zx", "")
	failed.AddError(diagnostics.Syntax("earlier failure"))
	if out := (&desugar.DesugarProcessor{}).Process(failed); out.AstRoot != nil || len(out.Errors) != 1 {
		t.Error("processor ran on a failed context")
	}
}
