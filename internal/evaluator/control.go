package evaluator

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

func truthy(v typesystem.Value, n ast.Node) (bool, error) {
	b, ok := v.(*typesystem.Bool)
	if !ok {
		return false, diagnostics.TypeMismatch("bool", v.RuntimeType().String()).WithSpan(n.Span(), ast.Format(n))
	}
	return b.V, nil
}

func (e *Evaluator) ifExpr(n *ast.If, sym *ValueTable) (typesystem.Value, error) {
	for _, c := range n.Conditions {
		if c.Cond != nil {
			v, err := e.Interpret(c.Cond, sym)
			if err != nil {
				return nil, err
			}
			if _, ok := v.(*typesystem.Return); ok {
				return v, nil
			}
			ok, err := truthy(v, c.Cond)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		return e.block(c.Body, sym)
	}
	return typesystem.UNIT, nil
}

// logical evaluates `&&` and `||`; the right operand is skipped when the
// left one decides the result.
func (e *Evaluator) logical(n *ast.BinaryOpr, sym *ValueTable) (typesystem.Value, error) {
	lv, err := e.Interpret(n.Left, sym)
	if err != nil {
		return nil, err
	}
	if _, ok := lv.(*typesystem.Return); ok {
		return lv, nil
	}
	left, err := truthy(lv, n.Left)
	if err != nil {
		return nil, err
	}
	if (n.Op == ast.OpAnd && !left) || (n.Op == ast.OpOr && left) {
		return typesystem.NativeBool(left), nil
	}

	rv, err := e.Interpret(n.Right, sym)
	if err != nil {
		return nil, err
	}
	if _, ok := rv.(*typesystem.Return); ok {
		return rv, nil
	}
	right, err := truthy(rv, n.Right)
	if err != nil {
		return nil, err
	}
	return typesystem.NativeBool(right), nil
}

func (e *Evaluator) ret(n *ast.Return, sym *ValueTable) (typesystem.Value, error) {
	if n.Value == nil {
		return &typesystem.Return{Value: typesystem.UNIT}, nil
	}
	v, err := e.Interpret(n.Value, sym)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(*typesystem.Return); ok {
		return v, nil
	}
	return &typesystem.Return{Value: v}, nil
}
