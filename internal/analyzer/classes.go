package analyzer

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

// IsInstDecl reports whether stmt declares an instance field.
func IsInstDecl(stmt ast.Node) (*ast.Declare, bool) {
	d, ok := stmt.(*ast.Declare)
	if !ok || !ast.HasFlag(d.Flags, ast.FlagInst) {
		return nil, false
	}
	return d, true
}

// class checks a class or struct body in two passes: instance fields first,
// so that every procedure in the body sees the complete field schema, then
// everything else. Bindings made by the body become members.
func (a *Analyzer) class(n *ast.Class, sym *TypeTable) (ast.Node, typesystem.Type, error) {
	kind, name := typesystem.ClassDef, "class"
	if n.IsStruct {
		kind, name = typesystem.StructDef, "struct"
	}
	def := typesystem.NewDefinition(name, kind)

	a.classes = append(a.classes, def)
	defer func() { a.classes = a.classes[:len(a.classes)-1] }()

	err := scoped(sym, nil, symbols.Normal, func() error {
		if err := a.structFields(n, def, sym); err != nil {
			return err
		}
		if err := a.instFields(n, def, sym); err != nil {
			return err
		}
		typesystem.InstallClassMembers(def)

		frame := sym.Innermost()
		for i, stmt := range n.Body.Statements {
			if _, ok := IsInstDecl(stmt); ok {
				continue
			}
			out, _, err := a.Typecheck(stmt, sym)
			if err != nil {
				return err
			}
			n.Body.Statements[i] = out
			for name, t := range frame.Heap {
				def.SetMember(name, t, nil)
			}
		}
		return nil
	})
	if err != nil {
		return n, nil, err
	}
	return n, def, nil
}

func (a *Analyzer) structFields(n *ast.Class, def *typesystem.Definition, sym *TypeTable) error {
	for _, p := range n.Fields {
		if p.Type == nil {
			return diagnostics.Syntax("Field `%s` needs a type", p.Name).WithSpan(p.NamePos, p.Name)
		}
		t, err := a.annotation(p.Type, sym)
		if err != nil {
			return err
		}
		if p.Default != nil {
			out, dt, err := a.Typecheck(p.Default, sym)
			if err != nil {
				return err
			}
			p.Default = out
			if !typesystem.Accepts(t, dt) {
				return mismatch(t, dt, p.Default)
			}
		}
		def.Fields = append(def.Fields, &typesystem.Field{Name: p.Name, Type: t, HasDefault: p.Default != nil})
	}
	return nil
}

func (a *Analyzer) instFields(n *ast.Class, def *typesystem.Definition, sym *TypeTable) error {
	for _, stmt := range n.Body.Statements {
		d, ok := IsInstDecl(stmt)
		if !ok {
			continue
		}
		if n.IsStruct && len(n.Fields) > 0 {
			return diagnostics.Syntax("Struct with a field list cannot declare `inst` fields").WithSpan(d.Span(), ast.Format(d))
		}
		id, ok := target(d.Variable)
		if !ok {
			return diagnostics.Pattern(ast.Format(d.Variable)).WithSpan(ast.SpanOf(d.Variable), ast.Format(d.Variable))
		}

		var fieldType typesystem.Type
		if d.Type != nil {
			t, err := a.annotation(d.Type, sym)
			if err != nil {
				return err
			}
			fieldType = t
		}
		if d.Content != nil {
			out, ct, err := a.Typecheck(d.Content, sym)
			if err != nil {
				return err
			}
			d.Content = out
			switch {
			case fieldType == nil:
				fieldType = ct
			case !typesystem.Accepts(fieldType, ct):
				cast, err := a.coerce(d, fieldType, ct, sym)
				if err != nil {
					return err
				}
				d.Content = cast
			}
		}
		def.Fields = append(def.Fields, &typesystem.Field{Name: id.Name, Type: fieldType, HasDefault: d.Content != nil})
	}
	return nil
}
