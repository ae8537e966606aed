// Package desugar lowers operator sugar into member calls before the later
// passes run. Unary and arithmetic/comparison operators become calls to
// reserved members of the left operand; `&&` and `||` stay binary so they
// can short-circuit.
package desugar

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
)

var binaryMembers = map[ast.OprType]string{
	ast.OpAdd:      config.OpAdd,
	ast.OpSub:      config.OpSub,
	ast.OpMul:      config.OpMul,
	ast.OpDiv:      config.OpDiv,
	ast.OpRem:      config.OpRem,
	ast.OpEq:       config.OpEq,
	ast.OpNotEq:    config.OpNeq,
	ast.OpLt:       config.OpLt,
	ast.OpLe:       config.OpLe,
	ast.OpGt:       config.OpGt,
	ast.OpGe:       config.OpGe,
	ast.OpConcat:   config.OpConcat,
	ast.OpTypeCast: config.OpTypecast,
}

var unaryMembers = map[ast.OprType]string{
	ast.OpNot:     config.OpNot,
	ast.OpUnPlus:  config.OpUnPlus,
	ast.OpUnMinus: config.OpUnMinus,
}

// Desugared returns a rewritten copy of n. The input tree is not modified.
// Running it on its own output is a no-op.
func Desugared(n ast.Node) (ast.Node, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case *ast.Program:
		stmts, err := desugarAll(n.Statements)
		if err != nil {
			return nil, err
		}
		return &ast.Program{File: n.File, Statements: stmts}, nil
	case *ast.Literal:
		c := *n
		return &c, nil
	case *ast.Ident:
		parent, err := Desugared(n.Parent)
		if err != nil {
			return nil, err
		}
		return &ast.Ident{Name: n.Name, NamePos: n.NamePos, DotPos: n.DotPos, Parent: parent}, nil
	case *ast.Block:
		return desugarBlock(n)
	case *ast.Declare:
		d := &ast.Declare{Flags: append([]ast.FlagEntry(nil), n.Flags...), EqPos: n.EqPos}
		var err error
		if d.Variable, err = Desugared(n.Variable); err != nil {
			return nil, err
		}
		if d.Content, err = Desugared(n.Content); err != nil {
			return nil, err
		}
		if d.Type, err = Desugared(n.Type); err != nil {
			return nil, err
		}
		return d, nil
	case *ast.Set:
		s := &ast.Set{EqPos: n.EqPos}
		var err error
		if s.Variable, err = Desugared(n.Variable); err != nil {
			return nil, err
		}
		if s.Content, err = Desugared(n.Content); err != nil {
			return nil, err
		}
		return s, nil
	case *ast.If:
		out := &ast.If{Conditions: make([]*ast.Condition, len(n.Conditions))}
		for i, c := range n.Conditions {
			cond, err := Desugared(c.Cond)
			if err != nil {
				return nil, err
			}
			body, err := desugarBlock(c.Body)
			if err != nil {
				return nil, err
			}
			out.Conditions[i] = &ast.Condition{KwdPos: c.KwdPos, Cond: cond, Body: body}
		}
		return out, nil
	case *ast.Procedure:
		params, err := desugarParams(n.Params)
		if err != nil {
			return nil, err
		}
		ret, err := Desugared(n.ReturnType)
		if err != nil {
			return nil, err
		}
		body, err := desugarBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Procedure{IsFn: n.IsFn, KwdPos: n.KwdPos, Params: params, ReturnType: ret, Body: body}, nil
	case *ast.Call:
		called, err := Desugared(n.Called)
		if err != nil {
			return nil, err
		}
		args, err := desugarAll(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Called: called, Args: args, ParenPos: n.ParenPos}, nil
	case *ast.BinaryOpr:
		left, err := Desugared(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Desugared(n.Right)
		if err != nil {
			return nil, err
		}
		if n.Op == ast.OpAnd || n.Op == ast.OpOr {
			return &ast.BinaryOpr{Op: n.Op, OprPos: n.OprPos, Left: left, Right: right}, nil
		}
		member, ok := binaryMembers[n.Op]
		if !ok {
			return nil, diagnostics.Internal("no member for binary operator %s", n.Op).WithSpan(n.Span(), ast.Format(n))
		}
		return &ast.Call{
			Called:   &ast.Ident{Name: member, NamePos: n.OprPos, Parent: left},
			Args:     []ast.Node{right},
			ParenPos: n.OprPos,
		}, nil
	case *ast.UnaryOpr:
		operand, err := Desugared(n.Operand)
		if err != nil {
			return nil, err
		}
		member, ok := unaryMembers[n.Op]
		if !ok {
			return nil, diagnostics.Internal("no member for unary operator %s", n.Op).WithSpan(n.Span(), ast.Format(n))
		}
		return &ast.Call{
			Called:   &ast.Ident{Name: member, NamePos: n.OprPos, Parent: operand},
			ParenPos: n.OprPos,
		}, nil
	case *ast.Return:
		v, err := Desugared(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{KwdPos: n.KwdPos, Value: v}, nil
	case *ast.Class:
		fields, err := desugarParams(n.Fields)
		if err != nil {
			return nil, err
		}
		body, err := desugarBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Class{IsStruct: n.IsStruct, KwdPos: n.KwdPos, Fields: fields, Body: body}, nil
	case *ast.Defer:
		body, err := desugarBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Defer{KwdPos: n.KwdPos, Body: body}, nil
	case *ast.Delete:
		return ast.Clone(n), nil
	}
	return nil, diagnostics.Internal("desugar: unknown node %T", n)
}

func desugarAll(nodes []ast.Node) ([]ast.Node, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		d, err := Desugared(n)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func desugarBlock(b *ast.Block) (*ast.Block, error) {
	if b == nil {
		return nil, nil
	}
	stmts, err := desugarAll(b.Statements)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts, Open: b.Open, Close: b.Close}, nil
}

func desugarParams(params []*ast.Param) ([]*ast.Param, error) {
	if params == nil {
		return nil, nil
	}
	out := make([]*ast.Param, len(params))
	for i, p := range params {
		typ, err := Desugared(p.Type)
		if err != nil {
			return nil, err
		}
		def, err := Desugared(p.Default)
		if err != nil {
			return nil, err
		}
		out[i] = &ast.Param{Name: p.Name, NamePos: p.NamePos, Type: typ, Default: def}
	}
	return out, nil
}
