package prettyprinter_test

import (
	"testing"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/lexer"
	"github.com/zyxt-lang/zyxt/internal/parser"
	"github.com/zyxt-lang/zyxt/internal/prettyprinter"
)

// FuzzRoundTrip checks that printed code parses back to the same tree:
// parse(print(parse(code))) == parse(code).
func FuzzRoundTrip(f *testing.F) {
	f.Add("x := 1 + 2 * 3")
	f.Add("if (a := 1) { b } else { c }")
	f.Add("(a = b) = c")
	f.Add("if struct { 1 } { 2 }")
	f.Add("x := -(-a).b(c @ i32, |y: i32| y)")
	f.Add(`s := "tab\there\\"`)

	f.Fuzz(func(t *testing.T, input string) {
		// keeps the added parentheses well inside the nesting limit
		if len(input) > 256 {
			return
		}
		tokens, err := lexer.New("fuzz.zx", input).Tokenize()
		if err != nil {
			return
		}
		first, err := parser.New(tokens, "fuzz.zx").ParseProgram()
		if err != nil {
			return
		}

		printer := prettyprinter.NewCodePrinter()
		printer.Print(first)
		printed := printer.String()

		tokens, err = lexer.New("fuzz.zx", printed).Tokenize()
		if err != nil {
			t.Fatalf("printed code does not lex: %v\ninput: %q\nprinted:\n%s", err, input, printed)
		}
		second, err := parser.New(tokens, "fuzz.zx").ParseProgram()
		if err != nil {
			t.Fatalf("printed code does not parse: %v\ninput: %q\nprinted:\n%s", err, input, printed)
		}
		if got, want := ast.Format(second), ast.Format(first); got != want {
			t.Fatalf("round trip changed the program\ninput: %q\nprinted:\n%s\ngot:  %s\nwant: %s", input, printed, got, want)
		}
	})
}
