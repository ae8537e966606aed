package typesystem

import (
	"math/big"

	"github.com/zyxt-lang/zyxt/internal/config"
)

// numInfo describes a numeric primitive. Unbounded integer types (ibig, ubig)
// have bits == 0; ubig still has a lower bound.
type numInfo struct {
	float  bool
	bits   int
	signed bool
	min    *big.Int
	max    *big.Int
}

func newIntDef(name string, bits int, signed bool) *Definition {
	d := NewDefinition(name, PrimitiveDef)
	info := &numInfo{bits: bits, signed: signed}
	switch {
	case bits > 0 && signed:
		info.max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
		info.min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	case bits > 0:
		info.max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
		info.min = new(big.Int)
	case !signed:
		info.min = new(big.Int)
	}
	d.num = info
	return d
}

func newFloatDef(name string, bits int) *Definition {
	d := NewDefinition(name, PrimitiveDef)
	d.num = &numInfo{float: true, bits: bits, signed: true}
	return d
}

var (
	StrDef  = NewDefinition("str", PrimitiveDef)
	BoolDef = NewDefinition("bool", PrimitiveDef)
	UnitDef = NewDefinition("_unit", PrimitiveDef)
	TypeDef = NewDefinition("type", PrimitiveDef)
	ProcDef = NewDefinition("proc", PrimitiveDef)

	I8Def    = newIntDef("i8", 8, true)
	I16Def   = newIntDef("i16", 16, true)
	I32Def   = newIntDef("i32", 32, true)
	I64Def   = newIntDef("i64", 64, true)
	I128Def  = newIntDef("i128", 128, true)
	IsizeDef = newIntDef("isize", 64, true)
	IBigDef  = newIntDef("ibig", 0, true)
	U8Def    = newIntDef("u8", 8, false)
	U16Def   = newIntDef("u16", 16, false)
	U32Def   = newIntDef("u32", 32, false)
	U64Def   = newIntDef("u64", 64, false)
	U128Def  = newIntDef("u128", 128, false)
	UsizeDef = newIntDef("usize", 64, false)
	UBigDef  = newIntDef("ubig", 0, false)
	F32Def   = newFloatDef("f32", 32)
	F64Def   = newFloatDef("f64", 64)
)

// PrimNames lists, in order, the names seeded into every constants frame.
var PrimNames = []string{
	"str", "bool", "i8", "i16", "i32", "i64", "i128", "isize", "ibig",
	"u8", "u16", "u32", "u64", "u128", "usize", "ubig", "f32", "f64",
	"_unit", "_any", "type",
}

var prims = map[string]*Definition{
	"str":   StrDef,
	"bool":  BoolDef,
	"_unit": UnitDef,
	"type":  TypeDef,
	"i8":    I8Def,
	"i16":   I16Def,
	"i32":   I32Def,
	"i64":   I64Def,
	"i128":  I128Def,
	"isize": IsizeDef,
	"ibig":  IBigDef,
	"u8":    U8Def,
	"u16":   U16Def,
	"u32":   U32Def,
	"u64":   U64Def,
	"u128":  U128Def,
	"usize": UsizeDef,
	"ubig":  UBigDef,
	"f32":   F32Def,
	"f64":   F64Def,
}

// Prim returns the type a primitive name denotes: its *Definition, or Any
// for `_any`.
func Prim(name string) (Type, bool) {
	if name == "_any" {
		return Any, true
	}
	d, ok := prims[name]
	return d, ok
}

func init() {
	for _, d := range prims {
		switch {
		case d.num != nil:
			installNumeric(d)
		case d == StrDef:
			installStr()
		case d == BoolDef:
			installBool()
		case d == UnitDef:
			installUnit()
		}
	}
}

func (d *Definition) setNative(name string, sig func(args []Type) (Type, bool), fn NativeFn) {
	n := NewNative(d.Name+"."+name, sig, fn)
	d.SetMember(name, n.Type, n)
}

// installCommon adds the members every primitive value has: concatenation,
// equality and the typecast.
func installCommon(d *Definition, castable func(to *Definition) bool) {
	d.setNative(config.OpConcat, binarySig(func(Type) (Type, bool) { return StrDef.Instance(), true }), concat)
	d.setNative(config.OpTypecast, castSig(d, castable), typecast)
}

func binarySig(rhs func(other Type) (Type, bool)) func(args []Type) (Type, bool) {
	return func(args []Type) (Type, bool) {
		if len(args) != 2 {
			return nil, false
		}
		return rhs(args[1])
	}
}

func unarySig(result Type) func(args []Type) (Type, bool) {
	return func(args []Type) (Type, bool) {
		if len(args) != 1 {
			return nil, false
		}
		return result, true
	}
}

// castSig accepts `(self, T)` where T is a type expression. Casting to
// `type` yields the definition itself; a target only known at run time
// yields Any.
func castSig(from *Definition, castable func(to *Definition) bool) func(args []Type) (Type, bool) {
	return binarySig(func(target Type) (Type, bool) {
		switch t := target.(type) {
		case *Definition:
			switch {
			case t == TypeDef:
				return from, true
			case t == StrDef || t == from:
				return t.Instance(), true
			case castable(t):
				return t.Instance(), true
			}
			return nil, false
		case *Instance:
			if t.Def == TypeDef {
				return Any, true
			}
		}
		if Equal(target, Any) {
			return Any, true
		}
		return nil, false
	})
}

func concat(call NativeCall) (Value, error) {
	return &Str{V: call.Args[0].Inspect() + call.Args[1].Inspect()}, nil
}
