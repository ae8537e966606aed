package typesystem

import (
	"fmt"

	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
)

// InstallClassMembers adds the reserved members of a class or struct:
// `_init`, `_default`, `_typecast`, `_concat`, `_eq` and `_neq`. In the type
// phase only member types are meaningful; field defaults are values in the
// value phase.
func InstallClassMembers(d *Definition) {
	d.setNative(config.InitMember, initSig(d), func(call NativeCall) (Value, error) {
		return construct(d, call.Args)
	})
	if obj, err := construct(d, nil); err == nil {
		d.SetMember(config.DefaultMember, d.Instance(), obj)
	} else if canDefault(d) {
		d.SetMember(config.DefaultMember, d.Instance(), nil)
	}
	for _, key := range []string{config.OpEq, config.OpNeq} {
		equal := key == config.OpEq
		d.setNative(key, sameTypeSig(d), func(call NativeCall) (Value, error) {
			return NativeBool(ValuesEqual(call.Args[0], call.Args[1]) == equal), nil
		})
	}
	installCommon(d, func(*Definition) bool { return false })
}

// initSig checks positional constructor arguments against the fields in
// declaration order. Fields left out need a default.
func initSig(d *Definition) func(args []Type) (Type, bool) {
	return func(args []Type) (Type, bool) {
		if len(args) > len(d.Fields) {
			return nil, false
		}
		for i, f := range d.Fields {
			if i < len(args) {
				if !Accepts(f.Type, args[i]) {
					return nil, false
				}
				continue
			}
			if !f.HasDefault && !HasDefault(f.Type) {
				return nil, false
			}
		}
		return d.Instance(), true
	}
}

func canDefault(d *Definition) bool {
	for _, f := range d.Fields {
		if !f.HasDefault && !HasDefault(f.Type) {
			return false
		}
	}
	return true
}

func construct(d *Definition, args []Value) (*Object, error) {
	if len(args) > len(d.Fields) {
		return nil, diagnostics.OperationFailed(config.InitMember, fmt.Sprintf("%s takes at most %d arguments, got %d", d.Name, len(d.Fields), len(args)))
	}
	fields := make(map[string]Value, len(d.Fields))
	for i, f := range d.Fields {
		switch {
		case i < len(args):
			fields[f.Name] = args[i]
		case f.Default != nil:
			fields[f.Name] = f.Default
		default:
			v, ok := DefaultOf(f.Type)
			if !ok {
				return nil, diagnostics.UnfilledArg(f.Name)
			}
			fields[f.Name] = v
		}
	}
	return &Object{Def: d, Fields: fields}, nil
}

// HasDefault reports whether values of type t have a `_default`.
func HasDefault(t Type) bool {
	d, ok := DefinitionOf(t)
	if !ok {
		return false
	}
	_, ok = d.Member(config.DefaultMember)
	return ok
}

// DefaultOf returns the `_default` value of type t.
func DefaultOf(t Type) (Value, bool) {
	d, ok := DefinitionOf(t)
	if !ok {
		return nil, false
	}
	m, ok := d.Member(config.DefaultMember)
	if !ok || m.Value == nil {
		return nil, false
	}
	return m.Value, true
}

// ValuesEqual compares two values structurally; numbers compare by value
// across numeric types.
func ValuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case *Int, *Float:
		if _, ok := numericOf(b.RuntimeType()); !ok {
			return false
		}
		c, ok := compareNumbers(a, b)
		return ok && c == 0
	case *Str:
		y, ok := b.(*Str)
		return ok && x.V == y.V
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.V == y.V
	case *Unit:
		_, ok := b.(*Unit)
		return ok
	case *TypeVal:
		y, ok := b.(*TypeVal)
		return ok && Equal(x.T, y.T)
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Def != y.Def {
			return false
		}
		for name, v := range x.Fields {
			w, ok := y.Fields[name]
			if !ok || !ValuesEqual(v, w) {
				return false
			}
		}
		return true
	}
	return a == b
}
