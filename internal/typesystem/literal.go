package typesystem

import (
	"math/big"
	"strconv"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
)

// LiteralValue converts a literal node to its value. Integer literals are
// i32, widening to i64 and then ibig when they do not fit; float literals are
// f64.
func LiteralValue(l *ast.Literal) (Value, error) {
	switch l.Kind {
	case ast.IntLit:
		n, ok := new(big.Int).SetString(l.Value, 10)
		if !ok {
			return nil, diagnostics.Syntax("Invalid integer literal `%s`", l.Value).WithSpan(l.Pos, l.Value)
		}
		for _, d := range []*Definition{I32Def, I64Def} {
			if d.num.contains(n) {
				return &Int{Def: d, V: n}, nil
			}
		}
		return &Int{Def: IBigDef, V: n}, nil
	case ast.FloatLit:
		f, err := strconv.ParseFloat(l.Value, 64)
		if err != nil {
			return nil, diagnostics.Syntax("Invalid float literal `%s`", l.Value).WithSpan(l.Pos, l.Value)
		}
		return &Float{Def: F64Def, V: f}, nil
	case ast.StringLit:
		return &Str{V: l.Value}, nil
	case ast.BoolLit:
		return NativeBool(l.Value == "true"), nil
	}
	return UNIT, nil
}

// LiteralType is the static type of a literal node.
func LiteralType(l *ast.Literal) (Type, error) {
	v, err := LiteralValue(l)
	if err != nil {
		return nil, err
	}
	return v.RuntimeType(), nil
}
