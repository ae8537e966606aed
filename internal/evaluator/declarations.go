package evaluator

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

func target(variable ast.Node) (*ast.Ident, bool) {
	id, ok := variable.(*ast.Ident)
	if !ok || id.Parent != nil {
		return nil, false
	}
	return id, true
}

func patternError(n ast.Node) error {
	return diagnostics.Pattern(ast.Format(n)).WithSpan(ast.SpanOf(n), ast.Format(n))
}

func (e *Evaluator) declare(n *ast.Declare, sym *ValueTable) (typesystem.Value, error) {
	id, ok := target(n.Variable)
	if !ok {
		return nil, patternError(n.Variable)
	}
	v, err := e.Interpret(n.Content, sym)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(*typesystem.Return); ok {
		return v, nil
	}
	if tv, ok := v.(*typesystem.TypeVal); ok {
		if def, ok := tv.T.(*typesystem.Definition); ok && def.Kind != typesystem.PrimitiveDef &&
			(def.Name == "class" || def.Name == "struct") {
			def.Name = id.Name
		}
	}

	if ast.HasFlag(n.Flags, ast.FlagConst) {
		if err := sym.DeclareConst(id.Name, v, id.Span()); err != nil {
			return nil, err
		}
		return v, nil
	}
	sym.DeclareVal(id.Name, v)
	return v, nil
}

func (e *Evaluator) set(n *ast.Set, sym *ValueTable) (typesystem.Value, error) {
	id, ok := n.Variable.(*ast.Ident)
	if !ok {
		return nil, patternError(n.Variable)
	}
	v, err := e.Interpret(n.Content, sym)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(*typesystem.Return); ok {
		return v, nil
	}
	if id.Parent == nil {
		return v, sym.SetVal(id.Name, v, id.Span())
	}
	return v, e.setField(id, v, sym)
}

// setField stores v in field id.Name of the object id.Parent evaluates to.
// Objects are immutable, so the updated object is written back to the
// parent expression, recursively up to a variable.
func (e *Evaluator) setField(id *ast.Ident, v typesystem.Value, sym *ValueTable) error {
	parent, ok := id.Parent.(*ast.Ident)
	if !ok {
		return patternError(id)
	}
	pv, err := e.Interpret(parent, sym)
	if err != nil {
		return err
	}
	obj, ok := pv.(*typesystem.Object)
	if !ok {
		return diagnostics.NoAttribute(ast.Format(parent), pv.RuntimeType().String(), id.Name).WithSpan(id.Span(), ast.Format(id))
	}
	if _, ok := obj.Def.Field(id.Name); !ok {
		return diagnostics.NoAttribute(ast.Format(parent), obj.Def.Name, id.Name).WithSpan(id.Span(), ast.Format(id))
	}
	updated := obj.With(id.Name, v)
	if parent.Parent == nil {
		return sym.SetVal(parent.Name, updated, parent.Span())
	}
	return e.setField(parent, updated, sym)
}

// typeOf evaluates a type annotation to the type of the values it
// describes.
func (e *Evaluator) typeOf(n ast.Node, sym *ValueTable) (typesystem.Type, error) {
	v, err := e.Interpret(n, sym)
	if err != nil {
		return nil, err
	}
	tv, ok := v.(*typesystem.TypeVal)
	if !ok {
		return nil, diagnostics.TypeMismatch("type", v.RuntimeType().String()).WithSpan(n.Span(), ast.Format(n))
	}
	t, ok := typesystem.AsInstance(tv.T)
	if !ok {
		// already an instance, such as a procedure type
		return tv.T, nil
	}
	return t, nil
}
