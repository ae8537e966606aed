// Package analyzer is the type phase. It walks a desugared tree against a
// SymTable of types, reports the first type error, and inserts the
// `_typecast` calls that annotated declarations need.
package analyzer

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/desugar"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

type TypeTable = symbols.SymTable[typesystem.Type]

// returnScope collects the `ret` types of the procedure being checked.
type returnScope struct {
	declared typesystem.Type
	seen     []typesystem.Type
}

type Analyzer struct {
	classes []*typesystem.Definition
	returns []*returnScope
}

func New() *Analyzer {
	return &Analyzer{}
}

// NewSymTable returns a type table whose constants frame holds the
// primitive types and the builtin procedures.
func NewSymTable() *TypeTable {
	consts := make(map[string]typesystem.Type, len(typesystem.PrimNames)+len(typesystem.BuiltinNames))
	for _, name := range typesystem.PrimNames {
		t, _ := typesystem.Prim(name)
		consts[name] = t
	}
	for _, name := range typesystem.BuiltinNames {
		consts[name] = typesystem.Builtins[name].Type
	}
	return symbols.New[typesystem.Type](nil, consts, nil)
}

// Typecheck is a convenience wrapper around New().Typecheck.
func Typecheck(n ast.Node, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	return New().Typecheck(n, sym)
}

// Typecheck returns the static type of n. The returned node replaces n in
// its parent; children are rewritten in place.
func (a *Analyzer) Typecheck(n ast.Node, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	switch n := n.(type) {
	case nil:
		return nil, unit(), nil
	case *ast.Program:
		t, err := a.statements(n.Statements, sym)
		return n, t, err
	case *ast.Literal:
		t, err := typesystem.LiteralType(n)
		return n, t, err
	case *ast.Ident:
		return a.ident(n, sym)
	case *ast.Block:
		t, err := a.block(n, sym)
		return n, t, err
	case *ast.Declare:
		return a.declare(n, sym)
	case *ast.Set:
		return a.set(n, sym)
	case *ast.If:
		return a.ifExpr(n, sym)
	case *ast.Procedure:
		return a.procedure(n, sym)
	case *ast.Call:
		return a.call(n, sym)
	case *ast.BinaryOpr:
		if n.Op == ast.OpAnd || n.Op == ast.OpOr {
			return a.logical(n, sym)
		}
		return a.sugared(n, sym)
	case *ast.UnaryOpr:
		return a.sugared(n, sym)
	case *ast.Return:
		return a.ret(n, sym)
	case *ast.Class:
		return a.class(n, sym)
	case *ast.Defer:
		return a.deferStmt(n, sym)
	case *ast.Delete:
		for _, id := range n.Names {
			if err := sym.DeleteVal(id.Name, id.Span()); err != nil {
				return n, nil, err
			}
		}
		return n, unit(), nil
	}
	return n, nil, diagnostics.Internal("typecheck: unexpected node %T", n)
}

// sugared handles operators that reach the type phase without a desugar
// pass.
func (a *Analyzer) sugared(n ast.Node, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	lowered, err := desugar.Desugared(n)
	if err != nil {
		return n, nil, err
	}
	return a.Typecheck(lowered, sym)
}

// statements checks stmts in the current frame, replacing each with its
// checked form. The result is the type of the last statement.
func (a *Analyzer) statements(stmts []ast.Node, sym *TypeTable) (typesystem.Type, error) {
	result := unit()
	for i, stmt := range stmts {
		out, t, err := a.Typecheck(stmt, sym)
		if err != nil {
			return nil, err
		}
		stmts[i] = out
		result = t
	}
	return result, nil
}

func (a *Analyzer) block(b *ast.Block, sym *TypeTable) (typesystem.Type, error) {
	var result typesystem.Type
	err := scoped(sym, nil, symbols.Normal, func() error {
		t, err := a.statements(b.Statements, sym)
		result = t
		return err
	})
	return result, err
}

// scoped runs body in a fresh frame and always pops it, so a failed
// statement leaves the table as it found it.
func scoped(sym *TypeTable, call *symbols.CallContext[typesystem.Type], kind symbols.FrameKind, body func() error) error {
	sym.AddFrame(call, kind)
	err := body()
	if _, _, popErr := sym.PopFrame(); err == nil {
		err = popErr
	}
	return err
}

func unit() typesystem.Type {
	return typesystem.UnitDef.Instance()
}

func boolean() typesystem.Type {
	return typesystem.BoolDef.Instance()
}

func mismatch(want, got typesystem.Type, n ast.Node) *diagnostics.DiagnosticError {
	return diagnostics.TypeMismatch(want.String(), got.String()).WithSpan(n.Span(), ast.Format(n))
}
