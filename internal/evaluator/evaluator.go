// Package evaluator is the value phase: a tree-walking interpreter over a
// typechecked tree and a SymTable of runtime values.
package evaluator

import (
	"context"
	"io"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/desugar"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

type ValueTable = symbols.SymTable[typesystem.Value]

type Evaluator struct {
	// Context for cancellation; checked on every procedure call.
	Context context.Context
	// MaxCallDepth bounds nested procedure calls.
	MaxCallDepth int

	classes []*typesystem.Definition
}

func New(ctx context.Context, maxCallDepth int) *Evaluator {
	if ctx == nil {
		ctx = context.Background()
	}
	if maxCallDepth <= 0 {
		maxCallDepth = config.DefaultMaxCallDepth
	}
	return &Evaluator{Context: ctx, MaxCallDepth: maxCallDepth}
}

// NewSymTable returns a value table whose constants frame holds the
// primitive types and the builtins. Deferred blocks run through e.
func (e *Evaluator) NewSymTable(out io.Writer) *ValueTable {
	consts := make(map[string]typesystem.Value, len(typesystem.PrimNames)+len(typesystem.BuiltinNames))
	for _, name := range typesystem.PrimNames {
		t, _ := typesystem.Prim(name)
		consts[name] = &typesystem.TypeVal{T: t}
	}
	for _, name := range typesystem.BuiltinNames {
		consts[name] = typesystem.Builtins[name]
	}
	return symbols.New[typesystem.Value](out, consts, e.runDeferred)
}

// NewSymTable is a value table driven by a default evaluator.
func NewSymTable(out io.Writer) *ValueTable {
	return New(context.Background(), config.DefaultMaxCallDepth).NewSymTable(out)
}

// Interpret evaluates n with a default evaluator.
func Interpret(n ast.Node, sym *ValueTable) (typesystem.Value, error) {
	return New(context.Background(), config.DefaultMaxCallDepth).Interpret(n, sym)
}

// Interpret evaluates n. A *typesystem.Return result means a `ret` is
// unwinding towards the nearest procedure call.
func (e *Evaluator) Interpret(n ast.Node, sym *ValueTable) (typesystem.Value, error) {
	switch n := n.(type) {
	case nil:
		return typesystem.UNIT, nil
	case *ast.Program:
		return e.statements(n.Statements, sym)
	case *ast.Literal:
		return typesystem.LiteralValue(n)
	case *ast.Ident:
		return e.ident(n, sym)
	case *ast.Block:
		return e.block(n, sym)
	case *ast.Declare:
		return e.declare(n, sym)
	case *ast.Set:
		return e.set(n, sym)
	case *ast.If:
		return e.ifExpr(n, sym)
	case *ast.Procedure:
		return e.procedure(n, sym)
	case *ast.Call:
		return e.call(n, sym)
	case *ast.BinaryOpr:
		if n.Op == ast.OpAnd || n.Op == ast.OpOr {
			return e.logical(n, sym)
		}
		return e.sugared(n, sym)
	case *ast.UnaryOpr:
		return e.sugared(n, sym)
	case *ast.Return:
		return e.ret(n, sym)
	case *ast.Class:
		return e.class(n, sym)
	case *ast.Defer:
		sym.AddDefer(n.Body)
		return typesystem.UNIT, nil
	case *ast.Delete:
		for _, id := range n.Names {
			if err := sym.DeleteVal(id.Name, id.Span()); err != nil {
				return nil, err
			}
		}
		return typesystem.UNIT, nil
	}
	return nil, diagnostics.Internal("interpret: unexpected node %T", n)
}

func (e *Evaluator) sugared(n ast.Node, sym *ValueTable) (typesystem.Value, error) {
	lowered, err := desugar.Desugared(n)
	if err != nil {
		return nil, err
	}
	return e.Interpret(lowered, sym)
}

// statements runs stmts in the current frame and yields the last value, or
// the pending return that stopped them.
func (e *Evaluator) statements(stmts []ast.Node, sym *ValueTable) (typesystem.Value, error) {
	var result typesystem.Value = typesystem.UNIT
	for _, stmt := range stmts {
		v, err := e.Interpret(stmt, sym)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(*typesystem.Return); ok {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) block(b *ast.Block, sym *ValueTable) (typesystem.Value, error) {
	sym.AddFrame(nil, symbols.Normal)
	v, err := e.statements(b.Statements, sym)
	return e.pop(sym, v, err)
}

// pop removes the innermost frame, running its defers. A defer that
// returns overrides v; the first error wins.
func (e *Evaluator) pop(sym *ValueTable, v typesystem.Value, err error) (typesystem.Value, error) {
	ret, returned, popErr := sym.PopFrame()
	if err != nil {
		return nil, err
	}
	if popErr != nil {
		return nil, popErr
	}
	if returned {
		return ret, nil
	}
	return v, nil
}

// runDeferred executes a deferred block directly in the frame being popped.
func (e *Evaluator) runDeferred(block *ast.Block, sym *ValueTable) (typesystem.Value, bool, error) {
	v, err := e.statements(block.Statements, sym)
	if err != nil {
		return nil, false, err
	}
	if _, ok := v.(*typesystem.Return); ok {
		return v, true, nil
	}
	return v, false, nil
}
