package typesystem

import (
	"strings"
)

// Type is the static type of an expression: Any, a *Definition (the
// expression denotes a type) or an *Instance of a definition (the expression
// denotes a value of that type).
type Type interface {
	String() string
	isType()
}

type anyType struct{}

func (anyType) String() string { return "_any" }
func (anyType) isType()        {}

// Any matches every type. Only Any is equal to Any.
var Any Type = anyType{}

type DefKind int

const (
	PrimitiveDef DefKind = iota
	ClassDef
	StructDef
)

// Field is an instance field of a class or struct. Default holds the runtime
// default value; the type phase only records HasDefault.
type Field struct {
	Name       string
	Type       Type
	HasDefault bool
	Default    Value
}

// Member is a named implementation of a definition. The type phase fills
// Type; the value phase fills Value. Primitive members carry both.
type Member struct {
	Type  Type
	Value Value
}

// Definition describes a class, struct or primitive: its member table and
// instance-field schema. Definitions are shared by pointer and compared by
// identity.
type Definition struct {
	Name     string
	Kind     DefKind
	Generics []string
	Members  map[string]*Member
	Fields   []*Field

	num  *numInfo
	inst *Instance
}

func NewDefinition(name string, kind DefKind) *Definition {
	d := &Definition{Name: name, Kind: kind, Members: make(map[string]*Member)}
	d.inst = &Instance{Def: d}
	return d
}

func (d *Definition) String() string { return d.Name }
func (d *Definition) isType()        {}

// Instance returns the type of values of d.
func (d *Definition) Instance() *Instance {
	return d.inst
}

func (d *Definition) Member(name string) (*Member, bool) {
	m, ok := d.Members[name]
	return m, ok
}

func (d *Definition) SetMember(name string, typ Type, value Value) {
	d.Members[name] = &Member{Type: typ, Value: value}
}

// Field returns the instance field called name.
func (d *Definition) Field(name string) (*Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// IsNumeric reports whether d is one of the integer or float primitives.
func (d *Definition) IsNumeric() bool { return d.num != nil }

// Instance is a concrete instantiation of a Definition. Procedure types are
// instances of ProcDef whose Generics are the parameter types followed by
// the return type. Native procedures carry Sig instead, which computes the
// result type from the argument types.
type Instance struct {
	Def      *Definition
	Generics []Type
	MinArgs  int
	// Names are the parameter names of a procedure type, for diagnostics.
	Names []string
	Sig   func(args []Type) (Type, bool)
}

func (i *Instance) isType() {}

func (i *Instance) String() string {
	if i.Def == ProcDef {
		if i.Sig != nil {
			return "proc|..|"
		}
		params, ret, _ := ProcSignature(i)
		names := make([]string, len(params))
		for k, p := range params {
			names[k] = p.String()
		}
		return "proc|" + strings.Join(names, ", ") + "|: " + ret.String()
	}
	if len(i.Generics) == 0 {
		return i.Def.Name
	}
	names := make([]string, len(i.Generics))
	for k, g := range i.Generics {
		names[k] = g.String()
	}
	return i.Def.Name + "<" + strings.Join(names, ", ") + ">"
}

// NewProcType builds the type of a procedure taking params and returning ret.
// The first minArgs parameters have no default.
func NewProcType(params []Type, ret Type, minArgs int) *Instance {
	generics := make([]Type, 0, len(params)+1)
	generics = append(generics, params...)
	return &Instance{Def: ProcDef, Generics: append(generics, ret), MinArgs: minArgs}
}

// NativeType is the type of a native procedure checked by sig.
func NativeType(sig func(args []Type) (Type, bool)) *Instance {
	return &Instance{Def: ProcDef, Sig: sig}
}

// ProcSignature splits a procedure type into parameter and return types.
func ProcSignature(t Type) (params []Type, ret Type, ok bool) {
	inst, isInst := t.(*Instance)
	if !isInst || inst.Def != ProcDef || inst.Sig != nil || len(inst.Generics) == 0 {
		return nil, nil, false
	}
	n := len(inst.Generics)
	return inst.Generics[:n-1], inst.Generics[n-1], true
}

// Equal reports type identity: both Any, the same Definition, or instances of
// the same Definition with equal generics. Native signatures are only equal
// to themselves.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case anyType:
		_, ok := b.(anyType)
		return ok
	case *Definition:
		bd, ok := b.(*Definition)
		return ok && a == bd
	case *Instance:
		bi, ok := b.(*Instance)
		if !ok || a.Def != bi.Def || len(a.Generics) != len(bi.Generics) {
			return false
		}
		if a.Sig != nil || bi.Sig != nil {
			return a == bi
		}
		for k := range a.Generics {
			if !Equal(a.Generics[k], bi.Generics[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// Accepts reports whether a binding of type target can hold a value of type
// got without coercion. It extends Equal with two cases: an `_any` binding
// takes anything, and a `type` binding takes any type expression.
func Accepts(target, got Type) bool {
	if Equal(target, got) || Equal(target, Any) {
		return true
	}
	if inst, ok := target.(*Instance); ok && inst.Def == TypeDef {
		_, isDef := got.(*Definition)
		return isDef || Equal(got, Any)
	}
	return false
}

// AsInstance converts a type expression's type to the type of its values:
// a Definition becomes its instance, Any stays Any.
func AsInstance(t Type) (Type, bool) {
	switch t := t.(type) {
	case *Definition:
		return t.Instance(), true
	case anyType:
		return Any, true
	case *Instance:
		// a variable of type `type`; its value is only known at run time
		if t.Def == TypeDef {
			return Any, true
		}
	}
	return nil, false
}

// DefinitionOf returns the definition behind an instance type.
func DefinitionOf(t Type) (*Definition, bool) {
	if inst, ok := t.(*Instance); ok {
		return inst.Def, true
	}
	return nil, false
}
