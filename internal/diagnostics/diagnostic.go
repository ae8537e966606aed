package diagnostics

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/token"
)

// Category groups error codes into the families reported to the user.
type Category int

const (
	CategoryInternal Category = iota
	CategoryFile
	CategorySyntax
	CategoryPattern
	CategoryUndefined
	CategoryTypeMismatch
	CategoryOperator
	CategoryImmutable
)

func (c Category) String() string {
	switch c {
	case CategoryInternal:
		return "Internal"
	case CategoryFile:
		return "File"
	case CategorySyntax:
		return "Syntax"
	case CategoryPattern:
		return "Pattern"
	case CategoryUndefined:
		return "Name"
	case CategoryTypeMismatch:
		return "Type"
	case CategoryOperator:
		return "Operator"
	case CategoryImmutable:
		return "Mutability"
	default:
		return "Unknown"
	}
}

// ErrorCode is the stable, user-visible code of an error.
type ErrorCode string

const (
	ErrInternal       ErrorCode = "0.0"
	ErrNoFile         ErrorCode = "0.1"
	ErrFileMissing    ErrorCode = "1.0"
	ErrFileOpen       ErrorCode = "1.1"
	ErrSyntax         ErrorCode = "2.1"
	ErrPattern        ErrorCode = "2.2"
	ErrUnfilledArg    ErrorCode = "2.3"
	ErrUndefined      ErrorCode = "3.0"
	ErrNoAttribute    ErrorCode = "3.1"
	ErrNoOperator     ErrorCode = "4.0"
	ErrOperation      ErrorCode = "4.1"
	ErrReturnValue    ErrorCode = "4.2"
	ErrTypeMismatch   ErrorCode = "4.3"
	ErrImmutableConst ErrorCode = "5.0"
)

// Annotation is one (span, source text) entry of an error's trace.
// Raw may be empty; printers fill it from the source cache.
type Annotation struct {
	Span token.Span
	Raw  string
}

// DiagnosticError is the structured error returned by every stage.
type DiagnosticError struct {
	Category Category
	Code     ErrorCode
	Message  string
	Trace    []Annotation
	Stack    []byte // only set for internal errors
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	if len(e.Trace) > 0 {
		sb.WriteString(e.Trace[0].Span.String())
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "error %s: %s", e.Code, e.Message)
	return sb.String()
}

// WithSpan appends an annotation. A nil span is ignored so callers can pass
// node spans directly.
func (e *DiagnosticError) WithSpan(span *token.Span, raw string) *DiagnosticError {
	if span == nil {
		return e
	}
	e.Trace = append(e.Trace, Annotation{Span: *span, Raw: strings.TrimSpace(raw)})
	return e
}

// Is reports category equality so errors.Is(err, &DiagnosticError{Category: ...})
// works as a category check.
func (e *DiagnosticError) Is(target error) bool {
	t, ok := target.(*DiagnosticError)
	if !ok {
		return false
	}
	return t.Category == e.Category && (t.Code == "" || t.Code == e.Code)
}

// As extracts a DiagnosticError from err.
func As(err error) (*DiagnosticError, bool) {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CategoryOf returns the category of err, or CategoryInternal for foreign errors.
func CategoryOf(err error) Category {
	if de, ok := As(err); ok {
		return de.Category
	}
	return CategoryInternal
}

// Trace appends a call-site annotation while an error propagates. Foreign
// errors are wrapped as internal errors first.
func Trace(err error, span *token.Span, raw string) error {
	if err == nil {
		return nil
	}
	de, ok := As(err)
	if !ok {
		de = Internal("%v", err)
	}
	return de.WithSpan(span, raw)
}

func newError(cat Category, code ErrorCode, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Category: cat,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Internal reports a violated interpreter invariant; the Go stack is captured.
func Internal(format string, args ...interface{}) *DiagnosticError {
	e := newError(CategoryInternal, ErrInternal, "Internal error: "+format, args...)
	e.Stack = debug.Stack()
	return e
}

func NoFile() *DiagnosticError {
	return newError(CategoryInternal, ErrNoFile, "No file given")
}

func FileMissing(name string) *DiagnosticError {
	return newError(CategoryFile, ErrFileMissing, "File `%s` does not exist", name)
}

func FileOpen(name string, err error) *DiagnosticError {
	return newError(CategoryFile, ErrFileOpen, "File `%s` cannot be opened: %v", name, err)
}

func Syntax(format string, args ...interface{}) *DiagnosticError {
	return newError(CategorySyntax, ErrSyntax, format, args...)
}

func Pattern(raw string) *DiagnosticError {
	return newError(CategoryPattern, ErrPattern, "Assignment without variable name (got `%s`)", raw)
}

func UnfilledArg(name string) *DiagnosticError {
	return newError(CategoryTypeMismatch, ErrUnfilledArg, "Unfilled argument `%s`", name)
}

func Undefined(name string) *DiagnosticError {
	return newError(CategoryUndefined, ErrUndefined, "Undefined variable `%s`", name)
}

func NoAttribute(parent, parentType, attr string) *DiagnosticError {
	return newError(CategoryUndefined, ErrNoAttribute, "`%s` (type `%s`) has no attribute `%s`", parent, parentType, attr)
}

func OperatorMissing(op string, types ...string) *DiagnosticError {
	if len(types) == 1 {
		return newError(CategoryOperator, ErrNoOperator, "Operator %s not implemented for type `%s`", op, types[0])
	}
	return newError(CategoryOperator, ErrNoOperator, "Operator %s not implemented for types `%s`", op, strings.Join(types, "`, `"))
}

func OperationFailed(op string, reason string) *DiagnosticError {
	return newError(CategoryOperator, ErrOperation, "Operator %s unsuccessful: %s", op, reason)
}

func ReturnValue(value string) *DiagnosticError {
	return newError(CategoryTypeMismatch, ErrReturnValue, "Non-i32 script return value detected (got `%s`)", value)
}

func TypeMismatch(expected, got string) *DiagnosticError {
	return newError(CategoryTypeMismatch, ErrTypeMismatch, "Expected type `%s`, got `%s`", expected, got)
}

func AssignMismatch(variable, varType, valueType string) *DiagnosticError {
	return newError(CategoryTypeMismatch, ErrTypeMismatch, "Value of type `%s` assigned to variable `%s` of type `%s`", valueType, variable, varType)
}

func TooManyArgs(callee string, want, got int) *DiagnosticError {
	return newError(CategoryTypeMismatch, ErrTypeMismatch, "Too many arguments for `%s`: expected at most %d, got %d", callee, want, got)
}

func Immutable(name string) *DiagnosticError {
	return newError(CategoryImmutable, ErrImmutableConst, "Cannot change constant `%s`", name)
}
