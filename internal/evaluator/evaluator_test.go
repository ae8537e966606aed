package evaluator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/zyxt-lang/zyxt/internal/analyzer"
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/desugar"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/lexer"
	"github.com/zyxt-lang/zyxt/internal/parser"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

func prepare(t *testing.T, input string) ast.Node {
	t.Helper()
	tokens, err := lexer.New("test.zx", input).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	program, err := parser.New(tokens, "test.zx").ParseProgram()
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	lowered, err := desugar.Desugared(program)
	if err != nil {
		t.Fatalf("desugar error: %v", err)
	}
	checked, _, err := analyzer.Typecheck(lowered, analyzer.NewSymTable())
	if err != nil {
		t.Fatalf("typecheck error: %v", err)
	}
	return checked
}

func run(t *testing.T, e *Evaluator, input string) (typesystem.Value, string, error) {
	t.Helper()
	var out bytes.Buffer
	v, err := e.Interpret(prepare(t, input), e.NewSymTable(&out))
	return v, out.String(), err
}

func testEvaluator() *Evaluator {
	return New(context.Background(), 200)
}

func TestOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"arithmetic", "println(1 + 2 * 3, 7 / 2, 7 % 2, -4)", "7 3 1 -4\n"},
		{"float promotion", "println(1 + 0.5)", "1.5\n"},
		{"concat", `println("a" .. 1 .. true)`, "a1true\n"},
		{"print", `print("a"); print("b")`, "ab"},
		{"compare", `println(1 < 2, "b" > "a", 2 == 2.0)`, "true true true\n"},
		{"casts", `println(3.9 @ i32, 300 @ u8, "42" @ i32, 1 @ bool)`, "3 44 42 true\n"},
		{"annotation coerces", "x: f64 := 2; println(x)", "2\n"},
		{"if chain", "x := 2; if x == 1 { println(1) } elif x == 2 { println(2) } else { println(3) }", "2\n"},
		{"if value", `println(if false { "a" } else { "b" })`, "b\n"},
		{"first true branch only", `if false { println("A") } elif true { println("B") } else { println("C") }`, "B\n"},
		{"set then read", "x := 5; x = 6; println(x)", "6\n"},
		{"unit signature", "f := proc: _unit { 5 }; x := f(); println(x)", "()\n"},
		{"block scope", "x := 1; { x := 2; println(x) }; println(x)", "2\n1\n"},
		{"set outer", "x := 1; { x = 2 }; println(x)", "2\n"},
		{"procedure", "add := proc |a: i32, b: i32| { a + b }; println(add(2, 3))", "5\n"},
		{"default argument", "f := proc |a: i32, b: i32: 10| { a + b }; println(f(1), f(1, 2))", "11 3\n"},
		{"early return", "f := proc |n: i32|: i32 { if n > 0 { ret 1 }; ret 0 }; println(f(5), f(-5))", "1 0\n"},
		{"recursion", "const fact := proc |n: i32|: i32 { if n <= 1 { ret 1 }; ret n * fact(n - 1) }; println(fact(10))", "3628800\n"},
		{"short circuit", `f := proc { println("called"); true }; println(false && f(), true || f())`, "false true\n"},
		{"defer order", `{ defer println("a"); defer println("b"); println("c") }`, "c\na\nb\n"},
		{"defer in procedure", `f := proc { defer println("done"); println("body") }; f()`, "body\ndone\n"},
		{"struct", "Point := struct |x: i32, y: i32: 0|; p := Point(1); println(p.x, p.y)", "1 0\n"},
		{"struct field set", "Point := struct |x: i32, y: i32|; p := Point(1, 2); p.x = 5; println(p.x, p.y)", "5 2\n"},
		{"class method", "C := class { inst v: i32 := 4; get := proc |self| { self.v } }; println(C().get())", "4\n"},
		{"static member", "C := class { make := proc |n: i32| { n * 2 } }; println(C.make(21))", "42\n"},
		{"class default", "C := class { inst v: i32 }; println(C().v)", "0\n"},
		{"object equality", "P := struct |x: i32|; println(P(1) == P(1), P(1) != P(2))", "true true\n"},
		{"type values", `println(5 @ type, i32, "s" @ type)`, "i32 i32 str\n"},
		{"primitive default", "println(i32._default, str._default == \"\")", "0 true\n"},
		{"delete", "x := 1; y := 2; del x; println(y)", "2\n"},
		{"const", "const c := 3; f := proc { c }; println(f())", "3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := run(t, testEvaluator(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("output = %q, want %q", out, tt.expected)
			}
		})
	}
}

func TestDeferredReturnOverrides(t *testing.T) {
	_, out, err := run(t, testEvaluator(), "f := proc: i32 { defer { ret 2 }; ret 1 }; println(f())")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2\n" {
		t.Errorf("output = %q, want %q", out, "2\n")
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
		msg   string
	}{
		{"overflow", "x: i8 := 127; x + 1", diagnostics.ErrOperation, "overflow"},
		{"division by zero", "x := 0; 1 / x", diagnostics.ErrOperation, "zero"},
		{"bad parse", `"abc" @ i32`, diagnostics.ErrOperation, "abc"},
		{"call depth", "const f := proc |n: i32|: i32 { ret f(n) }; f(1)", diagnostics.ErrOperation, "maximum call depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, testEvaluator(), tt.input)
			if err == nil {
				t.Fatalf("expected error %s, got none", tt.code)
			}
			de, ok := diagnostics.As(err)
			if !ok {
				t.Fatalf("expected DiagnosticError, got %T: %v", err, err)
			}
			if de.Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", de.Code, tt.code, err)
			}
			if !strings.Contains(de.Message, tt.msg) {
				t.Errorf("message %q does not contain %q", de.Message, tt.msg)
			}
		})
	}
}

func TestErrorTraceFollowsCalls(t *testing.T) {
	_, _, err := run(t, testEvaluator(), "f := proc |a: i32| { a / 0 }\ng := proc |b: i32| { f(b) }\ng(1)")
	de, ok := diagnostics.As(err)
	if !ok {
		t.Fatalf("expected DiagnosticError, got %v", err)
	}
	// the failing division, then f(b), then g(1)
	if len(de.Trace) != 3 {
		t.Fatalf("trace has %d entries, want 3: %+v", len(de.Trace), de.Trace)
	}
	if de.Trace[2].Raw != "g(1)" {
		t.Errorf("outermost frame = %q, want g(1)", de.Trace[2].Raw)
	}
}

func TestFramesRestoredAfterError(t *testing.T) {
	e := testEvaluator()
	var out bytes.Buffer
	sym := e.NewSymTable(&out)
	depth := sym.Depth()
	_, err := e.Interpret(prepare(t, "f := proc |a: i32| { { a / 0 } }; f(1)"), sym)
	if err == nil {
		t.Fatal("expected error")
	}
	if sym.Depth() != depth {
		t.Errorf("depth = %d, want %d", sym.Depth(), depth)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := run(t, New(ctx, 100), "f := proc { 1 }; f()")
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Errorf("expected interruption, got %v", err)
	}
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		input   string
		code    int
		wantErr bool
	}{
		{"1", 0, false},
		{"ret 3", 3, false},
		{"ret", 0, false},
		{`println("x"); ret 7; println("y")`, 7, false},
		{`ret "s"`, 0, true},
		{"ret 5000000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, _, err := run(t, testEvaluator(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			code, err := ExitStatus(v)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got code %d", code)
				}
				de, _ := diagnostics.As(err)
				if de.Code != diagnostics.ErrReturnValue {
					t.Errorf("code = %s, want %s", de.Code, diagnostics.ErrReturnValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestSharedTableFollowsEvaluator(t *testing.T) {
	var out bytes.Buffer
	sym := NewSymTable(&out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pctx := pipeline.NewContext("test.zx", "")
	pctx.Out = &out
	pctx.AstRoot = prepare(t, "f := proc { 1 }; { defer f() }").(*ast.Program)
	pctx.ValueTable = sym
	pctx = (&EvaluatorProcessor{Context: ctx, MaxCallDepth: 10}).Process(pctx)

	if !pctx.Failed() || !strings.Contains(pctx.Errors[0].Message, "interrupted") {
		t.Errorf("deferred call ignored the cancelled context: %v", pctx.Errors)
	}
}
