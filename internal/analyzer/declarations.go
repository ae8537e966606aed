package analyzer

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

// target returns the plain identifier a declaration binds.
func target(variable ast.Node) (*ast.Ident, bool) {
	id, ok := variable.(*ast.Ident)
	if !ok || id.Parent != nil {
		return nil, false
	}
	return id, true
}

func (a *Analyzer) declare(n *ast.Declare, sym *TypeTable) (_ ast.Node, _ typesystem.Type, err error) {
	id, ok := target(n.Variable)
	if !ok {
		return n, nil, diagnostics.Pattern(ast.Format(n.Variable)).WithSpan(ast.SpanOf(n.Variable), ast.Format(n.Variable))
	}
	if ast.HasFlag(n.Flags, ast.FlagInst) {
		return n, nil, diagnostics.Syntax("`inst` declaration of `%s` outside a class body", id.Name).WithSpan(n.Span(), ast.Format(n))
	}
	if n.Content == nil {
		return n, nil, diagnostics.Syntax("Declaration of `%s` has no value", id.Name).WithSpan(n.Span(), ast.Format(n))
	}
	isConst := ast.HasFlag(n.Flags, ast.FlagConst)

	// A constant procedure with a full signature is bound before its body is
	// checked so that it can call itself.
	prebound := false
	if proc, ok := n.Content.(*ast.Procedure); ok && isConst && n.Type == nil && proc.ReturnType != nil {
		sig, err := a.procType(proc, sym)
		if err != nil {
			return n, nil, err
		}
		if err := sym.DeclareConst(id.Name, sig, id.Span()); err != nil {
			return n, nil, err
		}
		prebound = true
		defer func() {
			if err != nil {
				sym.DropConst(id.Name)
			}
		}()
	}

	content, contentType, err := a.Typecheck(n.Content, sym)
	if err != nil {
		return n, nil, err
	}
	n.Content = content

	bound := contentType
	if n.Type != nil {
		annotated, err := a.annotation(n.Type, sym)
		if err != nil {
			return n, nil, err
		}
		if !typesystem.Accepts(annotated, contentType) {
			cast, err := a.coerce(n, annotated, contentType, sym)
			if err != nil {
				return n, nil, err
			}
			n.Content = cast
		}
		bound = annotated
	}

	if def, ok := bound.(*typesystem.Definition); ok {
		if def.Kind != typesystem.PrimitiveDef && isAnonymous(def) {
			def.Name = id.Name
		}
		sym.DeclareTypedef(id.Name, def.Instance())
	}

	switch {
	case prebound:
	case isConst:
		if err := sym.DeclareConst(id.Name, bound, id.Span()); err != nil {
			return n, nil, err
		}
	default:
		sym.DeclareVal(id.Name, bound)
	}
	return n, bound, nil
}

func isAnonymous(d *typesystem.Definition) bool {
	return d.Name == "class" || d.Name == "struct"
}

// annotation resolves a type annotation to the type of the values it
// describes.
func (a *Analyzer) annotation(n ast.Node, sym *TypeTable) (typesystem.Type, error) {
	if id, ok := target(n); ok {
		if t, ok := sym.GetTypedef(id.Name); ok {
			return t, nil
		}
	}
	_, t, err := a.Typecheck(n, sym)
	if err != nil {
		return nil, err
	}
	inst, ok := typesystem.AsInstance(t)
	if !ok {
		return nil, diagnostics.TypeMismatch("type", t.String()).WithSpan(n.Span(), ast.Format(n))
	}
	return inst, nil
}

// coerce wraps a declaration's content in a `_typecast` call to the
// annotated type. The content itself is not checked again.
func (a *Analyzer) coerce(n *ast.Declare, want, got typesystem.Type, sym *TypeTable) (ast.Node, error) {
	fail := func() error { return mismatch(want, got, n) }
	wantDef, ok := typesystem.DefinitionOf(want)
	if !ok {
		return nil, fail()
	}
	gotDef, ok := typesystem.DefinitionOf(got)
	if !ok {
		return nil, fail()
	}
	m, ok := gotDef.Member(config.OpTypecast)
	if !ok {
		return nil, fail()
	}
	result, err := callResult(m.Type, []typesystem.Type{got, wantDef}, config.OpTypecast)
	if err != nil || !typesystem.Accepts(want, result) {
		return nil, fail()
	}
	return &ast.Call{
		Called: &ast.Ident{Name: config.OpTypecast, NamePos: n.EqPos, Parent: n.Content},
		Args:   []ast.Node{ast.Clone(n.Type)},
	}, nil
}

func (a *Analyzer) set(n *ast.Set, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	id, ok := n.Variable.(*ast.Ident)
	if !ok {
		return n, nil, diagnostics.Pattern(ast.Format(n.Variable)).WithSpan(ast.SpanOf(n.Variable), ast.Format(n.Variable))
	}
	content, contentType, err := a.Typecheck(n.Content, sym)
	if err != nil {
		return n, nil, err
	}
	n.Content = content

	if id.Parent != nil {
		fieldType, err := a.settableField(id, sym)
		if err != nil {
			return n, nil, err
		}
		if fieldType != nil && !typesystem.Equal(fieldType, contentType) {
			return n, nil, diagnostics.AssignMismatch(ast.Format(id), fieldType.String(), contentType.String()).
				WithSpan(n.Span(), ast.Format(n))
		}
		return n, contentType, nil
	}

	current, err := sym.GetVal(id.Name, id.Span())
	if err != nil {
		return n, nil, err
	}
	if !typesystem.Equal(current, contentType) {
		return n, nil, diagnostics.AssignMismatch(id.Name, current.String(), contentType.String()).
			WithSpan(n.Span(), ast.Format(n))
	}
	if err := sym.SetVal(id.Name, current, id.Span()); err != nil {
		return n, nil, err
	}
	return n, contentType, nil
}

// settableField checks an assignment target `a.b...x` and returns the type
// of field x. The chain must start at a variable and name instance fields
// all the way down. A nil type means the parent is only known at run time.
func (a *Analyzer) settableField(id *ast.Ident, sym *TypeTable) (typesystem.Type, error) {
	var parentType typesystem.Type
	switch parent := id.Parent.(type) {
	case *ast.Ident:
		if parent.Parent == nil {
			t, err := sym.GetVal(parent.Name, parent.Span())
			if err != nil {
				return nil, err
			}
			if sym.IsConst(parent.Name) {
				return nil, diagnostics.Immutable(parent.Name).WithSpan(parent.Span(), parent.Name)
			}
			parentType = t
		} else {
			t, err := a.settableField(parent, sym)
			if err != nil {
				return nil, err
			}
			parentType = t
		}
	default:
		return nil, diagnostics.Pattern(ast.Format(id)).WithSpan(id.Span(), ast.Format(id))
	}

	if parentType == nil || typesystem.Equal(parentType, typesystem.Any) {
		return nil, nil
	}
	def, ok := typesystem.DefinitionOf(parentType)
	if ok {
		if f, ok := def.Field(id.Name); ok {
			return f.Type, nil
		}
	}
	return nil, diagnostics.NoAttribute(ast.Format(id.Parent), parentType.String(), id.Name).
		WithSpan(id.Span(), ast.Format(id))
}
