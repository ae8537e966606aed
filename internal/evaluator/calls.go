package evaluator

import (
	"fmt"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

func (e *Evaluator) ident(n *ast.Ident, sym *ValueTable) (typesystem.Value, error) {
	if n.Parent == nil {
		return sym.GetVal(n.Name, n.Span())
	}
	pv, err := e.Interpret(n.Parent, sym)
	if err != nil {
		return nil, err
	}
	v, _, err := member(n, pv)
	return v, err
}

// member resolves `parent.name` on the value pv. Type values expose their
// definition's members statically; other values expose fields first, then
// members, which take the receiver as their first argument (self is true).
func member(n *ast.Ident, pv typesystem.Value) (v typesystem.Value, self bool, err error) {
	missing := func() error {
		return diagnostics.NoAttribute(ast.Format(n.Parent), pv.RuntimeType().String(), n.Name).WithSpan(n.Span(), ast.Format(n))
	}
	if tv, ok := pv.(*typesystem.TypeVal); ok {
		def, ok := tv.Definition()
		if !ok {
			return nil, false, missing()
		}
		m, ok := def.Member(n.Name)
		if !ok || m.Value == nil {
			return nil, false, missing()
		}
		return m.Value, false, nil
	}
	if obj, ok := pv.(*typesystem.Object); ok {
		if fv, ok := obj.Fields[n.Name]; ok {
			return fv, false, nil
		}
	}
	def, ok := typesystem.DefinitionOf(pv.RuntimeType())
	if !ok {
		return nil, false, missing()
	}
	m, ok := def.Member(n.Name)
	if !ok || m.Value == nil {
		return nil, false, missing()
	}
	return m.Value, true, nil
}

func (e *Evaluator) call(n *ast.Call, sym *ValueTable) (typesystem.Value, error) {
	var (
		callee typesystem.Value
		args   []typesystem.Value
	)
	if id, ok := n.Called.(*ast.Ident); ok && id.Parent != nil {
		pv, err := e.Interpret(id.Parent, sym)
		if err != nil {
			return nil, err
		}
		if _, ok := pv.(*typesystem.Return); ok {
			return pv, nil
		}
		v, self, err := member(id, pv)
		if err != nil {
			return nil, err
		}
		callee = v
		if self {
			args = append(args, pv)
		}
	} else {
		v, err := e.Interpret(n.Called, sym)
		if err != nil {
			return nil, err
		}
		callee = v
		if tv, ok := v.(*typesystem.TypeVal); ok {
			ctor, _, err := member(&ast.Ident{Name: config.InitMember, NamePos: n.ParenPos, Parent: n.Called}, tv)
			if err != nil {
				return nil, err
			}
			callee = ctor
		}
	}

	for _, arg := range n.Args {
		v, err := e.Interpret(arg, sym)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(*typesystem.Return); ok {
			return v, nil
		}
		args = append(args, v)
	}
	v, err := e.apply(callee, args, n, sym)
	if err != nil {
		return nil, diagnostics.Trace(err, n.Span(), ast.Format(n))
	}
	return v, nil
}

// apply calls a procedure or native value with already evaluated
// arguments.
func (e *Evaluator) apply(callee typesystem.Value, args []typesystem.Value, site *ast.Call, sym *ValueTable) (typesystem.Value, error) {
	switch fn := callee.(type) {
	case *typesystem.Native:
		return fn.Fn(typesystem.NativeCall{Args: args, Out: sym.Out})
	case *typesystem.Proc:
		return e.callProc(fn, args, site, sym)
	}
	return nil, diagnostics.OperatorMissing("()", callee.RuntimeType().String())
}

func (e *Evaluator) callProc(fn *typesystem.Proc, args []typesystem.Value, site *ast.Call, sym *ValueTable) (typesystem.Value, error) {
	if err := e.Context.Err(); err != nil {
		return nil, diagnostics.OperationFailed("()", "interrupted: "+err.Error())
	}
	if sym.CallDepth() >= e.MaxCallDepth {
		return nil, diagnostics.OperationFailed("()", fmt.Sprintf("maximum call depth of %d exceeded", e.MaxCallDepth))
	}
	if len(args) > len(fn.Params) {
		return nil, diagnostics.TooManyArgs(ast.Format(site.Called), len(fn.Params), len(args))
	}

	bound := make(map[string]typesystem.Value, len(fn.Params))
	sym.AddFrame(&symbols.CallContext[typesystem.Value]{Span: site.Span(), Raw: ast.Format(site), Args: bound}, symbols.FunctionBoundary)
	for i, p := range fn.Params {
		var v typesystem.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			dv, err := e.Interpret(p.Default, sym)
			if err != nil {
				return e.pop(sym, nil, err)
			}
			v = dv
		default:
			return e.pop(sym, nil, diagnostics.UnfilledArg(p.Name))
		}
		bound[p.Name] = v
		sym.DeclareVal(p.Name, v)
	}

	v, err := e.statements(fn.Body.Statements, sym)
	v, err = e.pop(sym, v, err)
	if err != nil {
		return nil, err
	}
	if r, ok := v.(*typesystem.Return); ok {
		return r.Value, nil
	}
	// the body's last value is discarded by a `_unit` signature
	if typesystem.Equal(fn.Ret, typesystem.UnitDef.Instance()) {
		return typesystem.UNIT, nil
	}
	return v, nil
}

func (e *Evaluator) procedure(n *ast.Procedure, sym *ValueTable) (typesystem.Value, error) {
	params := make([]typesystem.ProcParam, len(n.Params))
	types := make([]typesystem.Type, len(n.Params))
	names := make([]string, len(n.Params))
	minArgs := 0
	for i, p := range n.Params {
		var t typesystem.Type
		switch {
		case p.Type != nil:
			pt, err := e.typeOf(p.Type, sym)
			if err != nil {
				return nil, err
			}
			t = pt
		case p.Name == config.SelfParamName && len(e.classes) > 0:
			t = e.classes[len(e.classes)-1].Instance()
		default:
			t = typesystem.Any
		}
		params[i] = typesystem.ProcParam{Name: p.Name, Type: t, Default: p.Default}
		types[i], names[i] = t, p.Name
		if p.Default == nil {
			minArgs = i + 1
		}
	}

	// The inferred return type is only known statically.
	ret := typesystem.Any
	if n.ReturnType != nil {
		t, err := e.typeOf(n.ReturnType, sym)
		if err != nil {
			return nil, err
		}
		ret = t
	}
	sig := typesystem.NewProcType(types, ret, minArgs)
	sig.Names = names
	return &typesystem.Proc{IsFn: n.IsFn, Params: params, Ret: ret, Body: n.Body, Sig: sig}, nil
}
