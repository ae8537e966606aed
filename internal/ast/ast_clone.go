package ast

// Clone returns a deep copy of n. Spans are shared; they are never mutated.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Program:
		return &Program{File: n.File, Statements: cloneAll(n.Statements)}
	case *Literal:
		c := *n
		return &c
	case *Ident:
		return &Ident{Name: n.Name, NamePos: n.NamePos, DotPos: n.DotPos, Parent: Clone(n.Parent)}
	case *Block:
		return CloneBlock(n)
	case *Declare:
		return &Declare{
			Variable: Clone(n.Variable),
			Content:  Clone(n.Content),
			Flags:    append([]FlagEntry(nil), n.Flags...),
			Type:     Clone(n.Type),
			EqPos:    n.EqPos,
		}
	case *Set:
		return &Set{Variable: Clone(n.Variable), Content: Clone(n.Content), EqPos: n.EqPos}
	case *If:
		conds := make([]*Condition, len(n.Conditions))
		for i, c := range n.Conditions {
			conds[i] = &Condition{KwdPos: c.KwdPos, Cond: Clone(c.Cond), Body: CloneBlock(c.Body)}
		}
		return &If{Conditions: conds}
	case *Procedure:
		return &Procedure{
			IsFn:       n.IsFn,
			KwdPos:     n.KwdPos,
			Params:     cloneParams(n.Params),
			ReturnType: Clone(n.ReturnType),
			Body:       CloneBlock(n.Body),
		}
	case *Call:
		return &Call{Called: Clone(n.Called), Args: cloneAll(n.Args), ParenPos: n.ParenPos}
	case *BinaryOpr:
		return &BinaryOpr{Op: n.Op, OprPos: n.OprPos, Left: Clone(n.Left), Right: Clone(n.Right)}
	case *UnaryOpr:
		return &UnaryOpr{Op: n.Op, OprPos: n.OprPos, Operand: Clone(n.Operand)}
	case *Return:
		return &Return{KwdPos: n.KwdPos, Value: Clone(n.Value)}
	case *Class:
		return &Class{IsStruct: n.IsStruct, KwdPos: n.KwdPos, Fields: cloneParams(n.Fields), Body: CloneBlock(n.Body)}
	case *Defer:
		return &Defer{KwdPos: n.KwdPos, Body: CloneBlock(n.Body)}
	case *Delete:
		names := make([]*Ident, len(n.Names))
		for i, id := range n.Names {
			names[i] = Clone(id).(*Ident)
		}
		return &Delete{KwdPos: n.KwdPos, Names: names}
	}
	panic("ast.Clone: unknown node kind")
}

func CloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return &Block{Statements: cloneAll(b.Statements), Open: b.Open, Close: b.Close}
}

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

func cloneParams(params []*Param) []*Param {
	if params == nil {
		return nil
	}
	out := make([]*Param, len(params))
	for i, p := range params {
		out[i] = &Param{Name: p.Name, NamePos: p.NamePos, Type: Clone(p.Type), Default: Clone(p.Default)}
	}
	return out
}
