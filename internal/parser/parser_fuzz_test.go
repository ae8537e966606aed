package parser_test

import (
	"testing"

	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/lexer"
	"github.com/zyxt-lang/zyxt/internal/parser"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

// FuzzParser feeds arbitrary text through the lexer and parser. Neither may
// panic, and every failure must be a located syntax error.
func FuzzParser(f *testing.F) {
	f.Add("x := 1 + 2")
	f.Add("if true { x } elif y { 1 } else { z }")
	f.Add("f := proc |a: i32, b: i32: 1|: i32 { ret a + b }")
	f.Add("C := class { inst v: i32 := 0; get := proc |self| { self.v } }")
	f.Add("defer { println(\"x\") }; del a, b")
	f.Add("((((")
	f.Add("\"unterminated")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 4096 {
			return
		}
		ctx := pipeline.NewContext("fuzz.zx", input)
		ctx = (&lexer.LexerProcessor{}).Process(ctx)
		ctx = (&parser.ParserProcessor{}).Process(ctx)
		if !ctx.Failed() {
			if ctx.AstRoot == nil {
				t.Fatal("no program and no error")
			}
			return
		}
		err := ctx.Errors[0]
		if err.Code != diagnostics.ErrSyntax {
			t.Fatalf("non-syntax error from the front end: %v", err)
		}
		if len(err.Trace) == 0 {
			t.Fatalf("syntax error without a location: %v", err)
		}
	})
}
