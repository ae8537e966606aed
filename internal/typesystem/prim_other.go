package typesystem

import (
	"fmt"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
)

func installStr() {
	StrDef.SetMember(config.DefaultMember, StrDef.Instance(), &Str{})
	installOrdering(StrDef, func(a, b Value) int {
		return strings.Compare(a.(*Str).V, b.(*Str).V)
	})
	installCommon(StrDef, func(to *Definition) bool {
		return to.num != nil || to == BoolDef
	})
}

func installBool() {
	BoolDef.SetMember(config.DefaultMember, BoolDef.Instance(), FALSE)
	BoolDef.setNative(config.OpNot, unarySig(BoolDef.Instance()), func(call NativeCall) (Value, error) {
		return NativeBool(!call.Args[0].(*Bool).V), nil
	})
	installOrdering(BoolDef, func(a, b Value) int {
		x, y := a.(*Bool).V, b.(*Bool).V
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	})
	installCommon(BoolDef, func(to *Definition) bool {
		return to.num != nil
	})
}

func installUnit() {
	UnitDef.SetMember(config.DefaultMember, UnitDef.Instance(), UNIT)
	for _, key := range []string{config.OpEq, config.OpNeq} {
		equal := key == config.OpEq
		UnitDef.setNative(key, sameTypeSig(UnitDef), func(NativeCall) (Value, error) {
			return NativeBool(equal), nil
		})
	}
	installCommon(UnitDef, func(*Definition) bool { return false })
}

func sameTypeSig(d *Definition) func(args []Type) (Type, bool) {
	return binarySig(func(other Type) (Type, bool) {
		if !Equal(other, d.Instance()) {
			return nil, false
		}
		return BoolDef.Instance(), true
	})
}

// installOrdering adds the six comparison members for a totally ordered
// primitive whose operands must have the same type.
func installOrdering(d *Definition, cmp func(a, b Value) int) {
	for _, op := range compareOps {
		test := op.test
		d.setNative(op.key, sameTypeSig(d), func(call NativeCall) (Value, error) {
			return NativeBool(test(cmp(call.Args[0], call.Args[1]))), nil
		})
	}
}

func typecast(call NativeCall) (Value, error) {
	tv, ok := call.Args[1].(*TypeVal)
	if !ok {
		return nil, diagnostics.TypeMismatch("type", call.Args[1].RuntimeType().String())
	}
	if Equal(tv.T, Any) {
		return call.Args[0], nil
	}
	to, ok := tv.Definition()
	if !ok {
		return nil, diagnostics.Internal("typecast target %s has no definition", tv.T)
	}
	return Cast(call.Args[0], to)
}

// TypeOf returns the type value describing v, as produced by `v @ type`.
func TypeOf(v Value) *TypeVal {
	t := v.RuntimeType()
	if inst, ok := t.(*Instance); ok && len(inst.Generics) == 0 && inst.Sig == nil {
		t = inst.Def
	}
	return &TypeVal{T: t}
}

// Cast converts v to a value of type to.
func Cast(v Value, to *Definition) (Value, error) {
	switch to {
	case TypeDef:
		if tv, ok := v.(*TypeVal); ok {
			return tv, nil
		}
		return TypeOf(v), nil
	case StrDef:
		return &Str{V: v.Inspect()}, nil
	}
	if d, ok := DefinitionOf(v.RuntimeType()); ok && d == to {
		return v, nil
	}
	if s, ok := v.(*Str); ok && to == BoolDef {
		switch strings.TrimSpace(s.V) {
		case "true":
			return TRUE, nil
		case "false":
			return FALSE, nil
		}
		return nil, diagnostics.OperationFailed("@", fmt.Sprintf("`%s` is not a valid bool", s.V))
	}
	if to.num != nil || to == BoolDef {
		return castNumber(v, to)
	}
	return nil, diagnostics.OperationFailed("@", fmt.Sprintf("cannot cast %s to %s", v.RuntimeType(), to.Name))
}
