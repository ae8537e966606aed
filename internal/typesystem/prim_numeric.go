package typesystem

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
)

var arithOps = []struct{ key, sym string }{
	{config.OpAdd, "+"},
	{config.OpSub, "-"},
	{config.OpMul, "*"},
	{config.OpDiv, "/"},
	{config.OpRem, "%"},
}

var compareOps = []struct {
	key  string
	test func(c int) bool
}{
	{config.OpEq, func(c int) bool { return c == 0 }},
	{config.OpNeq, func(c int) bool { return c != 0 }},
	{config.OpLt, func(c int) bool { return c < 0 }},
	{config.OpLe, func(c int) bool { return c <= 0 }},
	{config.OpGt, func(c int) bool { return c > 0 }},
	{config.OpGe, func(c int) bool { return c >= 0 }},
}

func numericOf(t Type) (*Definition, bool) {
	d, ok := DefinitionOf(t)
	if !ok || d.num == nil {
		return nil, false
	}
	return d, true
}

// promote picks the result type of a mixed numeric operation: a float side
// wins, otherwise the receiver's type.
func promote(self, other *Definition) *Definition {
	if self.num.float || !other.num.float {
		return self
	}
	return other
}

func installNumeric(d *Definition) {
	if d.num.float {
		d.SetMember(config.DefaultMember, d.Instance(), &Float{Def: d})
	} else {
		d.SetMember(config.DefaultMember, d.Instance(), &Int{Def: d, V: new(big.Int)})
	}

	for _, op := range arithOps {
		sym := op.sym
		d.setNative(op.key, binarySig(func(other Type) (Type, bool) {
			od, ok := numericOf(other)
			if !ok {
				return nil, false
			}
			return promote(d, od).Instance(), true
		}), func(call NativeCall) (Value, error) {
			return arith(sym, call.Args[0], call.Args[1])
		})
	}

	for _, op := range compareOps {
		test := op.test
		eq := op.key == config.OpEq || op.key == config.OpNeq
		d.setNative(op.key, binarySig(func(other Type) (Type, bool) {
			if _, ok := numericOf(other); !ok {
				return nil, false
			}
			return BoolDef.Instance(), true
		}), func(call NativeCall) (Value, error) {
			c, ok := compareNumbers(call.Args[0], call.Args[1])
			if !ok {
				// NaN compares unequal to everything
				return NativeBool(eq && !test(0)), nil
			}
			return NativeBool(test(c)), nil
		})
	}

	d.setNative(config.OpUnPlus, unarySig(d.Instance()), func(call NativeCall) (Value, error) {
		return call.Args[0], nil
	})
	if d.num.signed {
		d.setNative(config.OpUnMinus, unarySig(d.Instance()), func(call NativeCall) (Value, error) {
			switch v := call.Args[0].(type) {
			case *Float:
				return &Float{Def: v.Def, V: -v.V}, nil
			case *Int:
				r := new(big.Int).Neg(v.V)
				if !v.Def.num.contains(r) {
					return nil, diagnostics.OperationFailed("-", "result overflows "+v.Def.Name)
				}
				return &Int{Def: v.Def, V: r}, nil
			}
			return nil, diagnostics.Internal("_un_minus on %s", call.Args[0].Kind())
		})
	}

	installCommon(d, func(to *Definition) bool {
		return to.num != nil || to == BoolDef
	})
}

func (n *numInfo) contains(v *big.Int) bool {
	if n.min != nil && v.Cmp(n.min) < 0 {
		return false
	}
	if n.max != nil && v.Cmp(n.max) > 0 {
		return false
	}
	return true
}

// wrap truncates v to the type's width in two's complement, as a bit cast.
func (n *numInfo) wrap(v *big.Int) *big.Int {
	if n.bits == 0 {
		return new(big.Int).Set(v)
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(n.bits))
	r := new(big.Int).Mod(v, m)
	if n.signed && r.Cmp(n.max) > 0 {
		r.Sub(r, m)
	}
	return r
}

func roundFloat(d *Definition, f float64) *Float {
	if d.num.bits == 32 {
		f = float64(float32(f))
	}
	return &Float{Def: d, V: f}
}

func toFloat(v Value) float64 {
	switch v := v.(type) {
	case *Float:
		return v.V
	case *Int:
		f, _ := new(big.Float).SetInt(v.V).Float64()
		return f
	}
	return math.NaN()
}

func arith(sym string, a, b Value) (Value, error) {
	ad, ok1 := numericOf(a.RuntimeType())
	bd, ok2 := numericOf(b.RuntimeType())
	if !ok1 || !ok2 {
		return nil, diagnostics.OperatorMissing(sym, a.RuntimeType().String(), b.RuntimeType().String())
	}
	target := promote(ad, bd)

	if target.num.float {
		x, y := toFloat(a), toFloat(b)
		var r float64
		switch sym {
		case "+":
			r = x + y
		case "-":
			r = x - y
		case "*":
			r = x * y
		case "/":
			r = x / y
		case "%":
			r = math.Mod(x, y)
		}
		return roundFloat(target, r), nil
	}

	x, y := a.(*Int).V, b.(*Int).V
	if !target.num.contains(y) {
		return nil, diagnostics.OperationFailed(sym, fmt.Sprintf("operand %s does not fit in %s", y, target.Name))
	}
	r := new(big.Int)
	switch sym {
	case "+":
		r.Add(x, y)
	case "-":
		r.Sub(x, y)
	case "*":
		r.Mul(x, y)
	case "/", "%":
		if y.Sign() == 0 {
			return nil, diagnostics.OperationFailed(sym, "division by zero")
		}
		if sym == "/" {
			r.Quo(x, y)
		} else {
			r.Rem(x, y)
		}
	}
	if !target.num.contains(r) {
		return nil, diagnostics.OperationFailed(sym, "result overflows "+target.Name)
	}
	return &Int{Def: target, V: r}, nil
}

// compareNumbers orders two numeric values. ok is false when a NaN is
// involved.
func compareNumbers(a, b Value) (int, bool) {
	ai, aInt := a.(*Int)
	bi, bInt := b.(*Int)
	if aInt && bInt {
		return ai.V.Cmp(bi.V), true
	}
	x, y := toFloat(a), toFloat(b)
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return 0, false
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}

// castNumber converts a numeric value following the usual bit-cast rules:
// integers wrap, floats saturate towards integers (NaN becomes 0).
func castNumber(v Value, to *Definition) (Value, error) {
	switch v := v.(type) {
	case *Int:
		switch {
		case to == BoolDef:
			return NativeBool(v.V.Sign() != 0), nil
		case to.num.float:
			return roundFloat(to, toFloat(v)), nil
		case to.num.bits == 0 && !to.num.contains(v.V):
			return nil, diagnostics.OperationFailed("@", fmt.Sprintf("%s does not fit in %s", v.V, to.Name))
		}
		return &Int{Def: to, V: to.num.wrap(v.V)}, nil
	case *Float:
		switch {
		case to == BoolDef:
			return NativeBool(v.V != 0), nil
		case to.num.float:
			return roundFloat(to, v.V), nil
		case math.IsNaN(v.V):
			return &Int{Def: to, V: new(big.Int)}, nil
		case math.IsInf(v.V, 0) && to.num.bits == 0:
			return nil, diagnostics.OperationFailed("@", "infinite value to "+to.Name)
		}
		r := new(big.Int)
		if !math.IsInf(v.V, 0) {
			big.NewFloat(math.Trunc(v.V)).Int(r)
		} else if v.V > 0 {
			r.Set(to.num.max)
		} else if to.num.min != nil {
			r.Set(to.num.min)
		}
		if to.num.max != nil && r.Cmp(to.num.max) > 0 {
			r.Set(to.num.max)
		}
		if to.num.min != nil && r.Cmp(to.num.min) < 0 {
			r.Set(to.num.min)
		}
		return &Int{Def: to, V: r}, nil
	case *Bool:
		if to == BoolDef {
			return v, nil
		}
		n := int64(0)
		if v.V {
			n = 1
		}
		if to.num.float {
			return roundFloat(to, float64(n)), nil
		}
		return NewInt(to, n), nil
	case *Str:
		return parseNumber(v.V, to)
	}
	return nil, diagnostics.OperationFailed("@", fmt.Sprintf("cannot cast %s to %s", v.RuntimeType(), to.Name))
}

func parseNumber(text string, to *Definition) (Value, error) {
	text = strings.TrimSpace(text)
	if to.num.float {
		f, err := strconv.ParseFloat(text, to.num.bits)
		if err != nil {
			return nil, diagnostics.OperationFailed("@", fmt.Sprintf("`%s` is not a valid %s", text, to.Name))
		}
		return roundFloat(to, f), nil
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok || !to.num.contains(n) {
		return nil, diagnostics.OperationFailed("@", fmt.Sprintf("`%s` is not a valid %s", text, to.Name))
	}
	return &Int{Def: to, V: n}, nil
}
