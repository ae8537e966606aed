package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zyxt-lang/zyxt/internal/token"
)

func span(line, col int) *token.Span {
	return &token.Span{
		File:  "test.zx",
		Start: token.Position{Line: line, Column: col},
		End:   token.Position{Line: line, Column: col + 1},
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err      *DiagnosticError
		category Category
		code     ErrorCode
		message  string
	}{
		{Undefined("x"), CategoryUndefined, ErrUndefined, "Undefined variable `x`"},
		{NoAttribute("p", "Point", "z"), CategoryUndefined, ErrNoAttribute, "`p` (type `Point`) has no attribute `z`"},
		{OperatorMissing("_add", "str"), CategoryOperator, ErrNoOperator, "Operator _add not implemented for type `str`"},
		{OperatorMissing("_add", "str", "i32"), CategoryOperator, ErrNoOperator, "Operator _add not implemented for types `str`, `i32`"},
		{OperationFailed("_div", "division by zero"), CategoryOperator, ErrOperation, "Operator _div unsuccessful: division by zero"},
		{TypeMismatch("i32", "str"), CategoryTypeMismatch, ErrTypeMismatch, "Expected type `i32`, got `str`"},
		{AssignMismatch("x", "i32", "str"), CategoryTypeMismatch, ErrTypeMismatch, "Value of type `str` assigned to variable `x` of type `i32`"},
		{TooManyArgs("f", 1, 2), CategoryTypeMismatch, ErrTypeMismatch, "Too many arguments for `f`: expected at most 1, got 2"},
		{UnfilledArg("b"), CategoryTypeMismatch, ErrUnfilledArg, "Unfilled argument `b`"},
		{ReturnValue("s"), CategoryTypeMismatch, ErrReturnValue, "Non-i32 script return value detected (got `s`)"},
		{Immutable("c"), CategoryImmutable, ErrImmutableConst, "Cannot change constant `c`"},
		{Pattern("1"), CategoryPattern, ErrPattern, "Assignment without variable name (got `1`)"},
		{FileMissing("a.zx"), CategoryFile, ErrFileMissing, "File `a.zx` does not exist"},
		{Syntax("Unexpected %s", "x"), CategorySyntax, ErrSyntax, "Unexpected x"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code)+" "+tt.message, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("category = %s, want %s", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("message = %q, want %q", tt.err.Message, tt.message)
			}
		})
	}
}

func TestInternalCapturesStack(t *testing.T) {
	err := Internal("bad state %d", 3)
	if err.Message != "Internal error: bad state 3" {
		t.Errorf("message = %q", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("internal error has no stack")
	}
	if Syntax("x").Stack != nil {
		t.Error("syntax error carries a stack")
	}
}

func TestErrorString(t *testing.T) {
	err := Undefined("x")
	if got := err.Error(); got != "error 3.0: Undefined variable `x`" {
		t.Errorf("Error() = %q", got)
	}
	err.WithSpan(span(2, 5), "x")
	if got := err.Error(); got != "test.zx:2:5: error 3.0: Undefined variable `x`" {
		t.Errorf("Error() = %q", got)
	}
}

func TestTraceAppendsOutward(t *testing.T) {
	var err error = OperationFailed("_div", "division by zero").WithSpan(span(1, 10), " a / 0 ")
	err = Trace(err, span(2, 1), "f(b)")
	err = Trace(err, nil, "ignored")
	err = Trace(err, span(3, 1), "g(1)")

	de, ok := As(err)
	if !ok {
		t.Fatalf("As failed for %T", err)
	}
	if len(de.Trace) != 3 {
		t.Fatalf("trace has %d entries, want 3", len(de.Trace))
	}
	if de.Trace[0].Raw != "a / 0" {
		t.Errorf("raw not trimmed: %q", de.Trace[0].Raw)
	}
	if de.Trace[2].Raw != "g(1)" || de.Trace[2].Span.Start.Line != 3 {
		t.Errorf("outermost entry = %+v", de.Trace[2])
	}
	if Trace(nil, span(1, 1), "x") != nil {
		t.Error("Trace(nil) should be nil")
	}
}

func TestForeignErrorsBecomeInternal(t *testing.T) {
	err := Trace(errors.New("boom"), span(1, 1), "x")
	de, ok := As(err)
	if !ok {
		t.Fatalf("As failed for %T", err)
	}
	if de.Code != ErrInternal || CategoryOf(err) != CategoryInternal {
		t.Errorf("code = %s, category = %s", de.Code, CategoryOf(err))
	}
}

func TestIsMatchesCategoryAndCode(t *testing.T) {
	wrapped := fmt.Errorf("while running: %w", Immutable("c"))
	if !errors.Is(wrapped, &DiagnosticError{Category: CategoryImmutable}) {
		t.Error("category match failed")
	}
	if !errors.Is(wrapped, &DiagnosticError{Category: CategoryImmutable, Code: ErrImmutableConst}) {
		t.Error("code match failed")
	}
	if errors.Is(wrapped, &DiagnosticError{Category: CategorySyntax}) {
		t.Error("matched the wrong category")
	}
	if CategoryOf(wrapped) != CategoryImmutable {
		t.Errorf("CategoryOf = %s", CategoryOf(wrapped))
	}
	if CategoryOf(errors.New("x")) != CategoryInternal {
		t.Error("foreign error should be internal")
	}
}
