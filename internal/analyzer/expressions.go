package analyzer

import (
	"strconv"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

func (a *Analyzer) ident(n *ast.Ident, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	if n.Parent == nil {
		t, err := sym.GetVal(n.Name, n.Span())
		return n, t, err
	}
	parent, parentType, err := a.Typecheck(n.Parent, sym)
	if err != nil {
		return n, nil, err
	}
	n.Parent = parent
	t, _, err := memberType(n, parentType)
	return n, t, err
}

// memberType resolves `parent.name` given the parent's type. selfArg is set
// when the member is a procedure reached through an instance, so a call
// passes the receiver as its first argument.
func memberType(n *ast.Ident, parentType typesystem.Type) (t typesystem.Type, selfArg bool, err error) {
	switch pt := parentType.(type) {
	case *typesystem.Definition:
		if m, ok := pt.Member(n.Name); ok {
			return m.Type, false, nil
		}
	case *typesystem.Instance:
		if pt.Def == typesystem.TypeDef {
			return typesystem.Any, false, nil
		}
		if f, ok := pt.Def.Field(n.Name); ok {
			return f.Type, false, nil
		}
		if m, ok := pt.Def.Member(n.Name); ok {
			return m.Type, true, nil
		}
	default:
		if typesystem.Equal(parentType, typesystem.Any) {
			return typesystem.Any, false, nil
		}
	}
	return nil, false, diagnostics.NoAttribute(ast.Format(n.Parent), parentType.String(), n.Name).
		WithSpan(n.Span(), ast.Format(n))
}

func (a *Analyzer) call(n *ast.Call, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	var (
		callee typesystem.Type
		args   []typesystem.Type
		name   = ast.Format(n.Called)
	)
	if id, ok := n.Called.(*ast.Ident); ok && id.Parent != nil {
		parent, parentType, err := a.Typecheck(id.Parent, sym)
		if err != nil {
			return n, nil, err
		}
		id.Parent = parent
		t, selfArg, err := memberType(id, parentType)
		if err != nil {
			return n, nil, err
		}
		callee = t
		name = id.Name
		if selfArg {
			args = append(args, parentType)
		}
	} else {
		called, t, err := a.Typecheck(n.Called, sym)
		if err != nil {
			return n, nil, err
		}
		n.Called = called
		callee = t
		if def, ok := t.(*typesystem.Definition); ok {
			m, ok := def.Member(config.InitMember)
			if !ok {
				return n, nil, diagnostics.NoAttribute(name, t.String(), config.InitMember).WithSpan(n.Span(), ast.Format(n))
			}
			callee = m.Type
			name = def.Name
		}
	}

	for i, arg := range n.Args {
		out, t, err := a.Typecheck(arg, sym)
		if err != nil {
			return n, nil, err
		}
		n.Args[i] = out
		args = append(args, t)
	}

	result, err := callResult(callee, args, name)
	if err != nil {
		if de, ok := diagnostics.As(err); ok {
			return n, nil, de.WithSpan(n.Span(), ast.Format(n))
		}
		return n, nil, err
	}
	return n, result, nil
}

// callResult computes the type produced by calling a value of type callee
// with arguments of the given types. name is used in diagnostics.
func callResult(callee typesystem.Type, args []typesystem.Type, name string) (typesystem.Type, error) {
	if typesystem.Equal(callee, typesystem.Any) {
		return typesystem.Any, nil
	}
	inst, ok := callee.(*typesystem.Instance)
	if !ok || inst.Def != typesystem.ProcDef {
		return nil, diagnostics.OperatorMissing("()", callee.String())
	}
	if inst.Sig != nil {
		result, ok := inst.Sig(args)
		if !ok {
			return nil, diagnostics.OperatorMissing(name, typeNames(args)...)
		}
		return result, nil
	}

	params, ret, _ := typesystem.ProcSignature(inst)
	if len(args) > len(params) {
		return nil, diagnostics.TooManyArgs(name, len(params), len(args))
	}
	if len(args) < inst.MinArgs {
		missing := "#" + strconv.Itoa(len(args)+1)
		if len(args) < len(inst.Names) {
			missing = inst.Names[len(args)]
		}
		return nil, diagnostics.UnfilledArg(missing)
	}
	for i, arg := range args {
		if !typesystem.Accepts(params[i], arg) {
			return nil, diagnostics.TypeMismatch(params[i].String(), arg.String())
		}
	}
	return ret, nil
}

func typeNames(ts []typesystem.Type) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return names
}

// logical checks `&&` and `||`, which stay binary so they can short-circuit.
func (a *Analyzer) logical(n *ast.BinaryOpr, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	for _, side := range []*ast.Node{&n.Left, &n.Right} {
		out, t, err := a.Typecheck(*side, sym)
		if err != nil {
			return n, nil, err
		}
		*side = out
		if !typesystem.Accepts(boolean(), t) && !typesystem.Equal(t, typesystem.Any) {
			return n, nil, diagnostics.OperatorMissing(n.Op.String(), t.String()).WithSpan(n.Span(), ast.Format(n))
		}
	}
	return n, boolean(), nil
}
