package analyzer

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

// ifExpr checks every arm. With an else arm whose bodies all agree, the if
// has that type; otherwise it is unit.
func (a *Analyzer) ifExpr(n *ast.If, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	var (
		common  typesystem.Type
		agree   = true
		hasElse bool
	)
	for _, c := range n.Conditions {
		if c.Cond != nil {
			cond, t, err := a.Typecheck(c.Cond, sym)
			if err != nil {
				return n, nil, err
			}
			c.Cond = cond
			if !typesystem.Accepts(boolean(), t) && !typesystem.Equal(t, typesystem.Any) {
				return n, nil, mismatch(boolean(), t, c.Cond)
			}
		} else {
			hasElse = true
		}
		t, err := a.block(c.Body, sym)
		if err != nil {
			return n, nil, err
		}
		switch {
		case common == nil:
			common = t
		case !typesystem.Equal(common, t):
			agree = false
		}
	}
	if hasElse && agree && common != nil {
		return n, common, nil
	}
	return n, unit(), nil
}

func (a *Analyzer) ret(n *ast.Return, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	t := unit()
	if n.Value != nil {
		value, vt, err := a.Typecheck(n.Value, sym)
		if err != nil {
			return n, nil, err
		}
		n.Value = value
		t = vt
	}
	if len(a.returns) == 0 {
		// top level: the exit code is checked when the program runs
		return n, t, nil
	}
	scope := a.returns[len(a.returns)-1]
	if scope.declared != nil {
		if !typesystem.Accepts(scope.declared, t) {
			return n, nil, mismatch(scope.declared, t, n)
		}
		return n, t, nil
	}
	scope.seen = append(scope.seen, t)
	return n, t, nil
}

// deferStmt checks the deferred block where it is written; it runs later in
// the same frame.
func (a *Analyzer) deferStmt(n *ast.Defer, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	err := scoped(sym, nil, symbols.Normal, func() error {
		_, err := a.statements(n.Body.Statements, sym)
		return err
	})
	if err != nil {
		return n, nil, err
	}
	sym.AddDefer(n.Body)
	return n, unit(), nil
}
