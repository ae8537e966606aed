package evaluator

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

func isInstDecl(stmt ast.Node) (*ast.Declare, bool) {
	d, ok := stmt.(*ast.Declare)
	if !ok || !ast.HasFlag(d.Flags, ast.FlagInst) {
		return nil, false
	}
	return d, true
}

// class builds the runtime definition of a class or struct. Fields are
// collected before the rest of the body runs; every other binding the body
// makes becomes a member.
func (e *Evaluator) class(n *ast.Class, sym *ValueTable) (typesystem.Value, error) {
	kind, name := typesystem.ClassDef, "class"
	if n.IsStruct {
		kind, name = typesystem.StructDef, "struct"
	}
	def := typesystem.NewDefinition(name, kind)

	e.classes = append(e.classes, def)
	defer func() { e.classes = e.classes[:len(e.classes)-1] }()

	sym.AddFrame(nil, symbols.Normal)
	err := e.classBody(n, def, sym)
	if _, err = e.pop(sym, typesystem.UNIT, err); err != nil {
		return nil, err
	}
	return &typesystem.TypeVal{T: def}, nil
}

func (e *Evaluator) classBody(n *ast.Class, def *typesystem.Definition, sym *ValueTable) error {
	for _, p := range n.Fields {
		f, err := e.field(p.Name, p.Type, p.Default, sym)
		if err != nil {
			return err
		}
		def.Fields = append(def.Fields, f)
	}
	for _, stmt := range n.Body.Statements {
		d, ok := isInstDecl(stmt)
		if !ok {
			continue
		}
		id, ok := target(d.Variable)
		if !ok {
			return patternError(d.Variable)
		}
		f, err := e.field(id.Name, d.Type, d.Content, sym)
		if err != nil {
			return err
		}
		def.Fields = append(def.Fields, f)
	}
	typesystem.InstallClassMembers(def)

	frame := sym.Innermost()
	for _, stmt := range n.Body.Statements {
		if _, ok := isInstDecl(stmt); ok {
			continue
		}
		v, err := e.Interpret(stmt, sym)
		if err != nil {
			return err
		}
		if _, ok := v.(*typesystem.Return); ok {
			return diagnostics.Syntax("`ret` in a class body").WithSpan(stmt.Span(), ast.Format(stmt))
		}
		for name, mv := range frame.Heap {
			def.SetMember(name, mv.RuntimeType(), mv)
		}
	}
	return nil
}

// field evaluates one instance field's type and default. Without an
// annotation the type is taken from the default.
func (e *Evaluator) field(name string, typ, dflt ast.Node, sym *ValueTable) (*typesystem.Field, error) {
	f := &typesystem.Field{Name: name}
	if dflt != nil {
		v, err := e.Interpret(dflt, sym)
		if err != nil {
			return nil, err
		}
		f.Default, f.HasDefault, f.Type = v, true, v.RuntimeType()
	}
	if typ != nil {
		t, err := e.typeOf(typ, sym)
		if err != nil {
			return nil, err
		}
		f.Type = t
	}
	if f.Type == nil {
		return nil, diagnostics.Syntax("Field `%s` needs a type or a default", name)
	}
	return f, nil
}
