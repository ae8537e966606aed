package analyzer

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

// paramTypes resolves parameter annotations in the declaring scope. An
// unannotated `self` inside a class body is an instance of that class.
func (a *Analyzer) paramTypes(params []*ast.Param, sym *TypeTable) ([]typesystem.Type, error) {
	types := make([]typesystem.Type, len(params))
	for i, p := range params {
		if p.Type == nil {
			if p.Name == config.SelfParamName && len(a.classes) > 0 {
				types[i] = a.classes[len(a.classes)-1].Instance()
				continue
			}
			return nil, diagnostics.Syntax("Parameter `%s` needs a type", p.Name).WithSpan(p.NamePos, p.Name)
		}
		t, err := a.annotation(p.Type, sym)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// minArgs is the number of leading parameters a call must supply.
func minArgs(params []*ast.Param) int {
	n := 0
	for i, p := range params {
		if p.Default == nil {
			n = i + 1
		}
	}
	return n
}

func paramNames(params []*ast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// procType builds a procedure's type from its annotations alone. The
// return type must be annotated.
func (a *Analyzer) procType(n *ast.Procedure, sym *TypeTable) (*typesystem.Instance, error) {
	params, err := a.paramTypes(n.Params, sym)
	if err != nil {
		return nil, err
	}
	ret, err := a.annotation(n.ReturnType, sym)
	if err != nil {
		return nil, err
	}
	t := typesystem.NewProcType(params, ret, minArgs(n.Params))
	t.Names = paramNames(n.Params)
	return t, nil
}

func (a *Analyzer) procedure(n *ast.Procedure, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	params, err := a.paramTypes(n.Params, sym)
	if err != nil {
		return n, nil, err
	}
	var declared typesystem.Type
	if n.ReturnType != nil {
		if declared, err = a.annotation(n.ReturnType, sym); err != nil {
			return n, nil, err
		}
	}

	scope := &returnScope{declared: declared}
	a.returns = append(a.returns, scope)
	defer func() { a.returns = a.returns[:len(a.returns)-1] }()

	var bodyType typesystem.Type
	call := &symbols.CallContext[typesystem.Type]{Span: n.Span(), Raw: ast.Format(n)}
	err = scoped(sym, call, symbols.FunctionBoundary, func() error {
		for i, p := range n.Params {
			if p.Default != nil {
				def, t, err := a.Typecheck(p.Default, sym)
				if err != nil {
					return err
				}
				p.Default = def
				if !typesystem.Accepts(params[i], t) {
					return mismatch(params[i], t, p.Default)
				}
			}
			sym.DeclareVal(p.Name, params[i])
		}
		t, err := a.statements(n.Body.Statements, sym)
		bodyType = t
		return err
	})
	if err != nil {
		return n, nil, err
	}

	last := lastStatement(n.Body)
	_, endsInReturn := last.(*ast.Return)
	ret := declared
	if ret != nil {
		if !endsInReturn && !typesystem.Equal(ret, unit()) && !typesystem.Accepts(ret, bodyType) {
			return n, nil, mismatch(ret, bodyType, last)
		}
	} else {
		candidates := scope.seen
		if !endsInReturn {
			candidates = append(candidates, bodyType)
		}
		if ret, err = unify(candidates, n); err != nil {
			return n, nil, err
		}
	}

	t := typesystem.NewProcType(params, ret, minArgs(n.Params))
	t.Names = paramNames(n.Params)
	return n, t, nil
}

func lastStatement(b *ast.Block) ast.Node {
	if len(b.Statements) == 0 {
		return b
	}
	return b.Statements[len(b.Statements)-1]
}

// unify picks the inferred return type from every value a procedure can
// produce. Any absorbs the others.
func unify(ts []typesystem.Type, n ast.Node) (typesystem.Type, error) {
	if len(ts) == 0 {
		return unit(), nil
	}
	result := ts[0]
	for _, t := range ts[1:] {
		switch {
		case typesystem.Equal(result, t):
		case typesystem.Equal(result, typesystem.Any) || typesystem.Equal(t, typesystem.Any):
			result = typesystem.Any
		default:
			return nil, mismatch(result, t, n)
		}
	}
	return result, nil
}
