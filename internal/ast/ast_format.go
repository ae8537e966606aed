package ast

import (
	"strconv"
	"strings"
)

// Format renders n as source text. It is used for call contexts and error
// annotations when the original text is not at hand.
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
	case *Program:
		formatStatements(sb, n.Statements, "; ")
	case *Literal:
		switch n.Kind {
		case StringLit:
			sb.WriteString(strconv.Quote(n.Value))
		case UnitLit:
			sb.WriteString("()")
		default:
			sb.WriteString(n.Value)
		}
	case *Ident:
		if n.Parent != nil {
			format(sb, n.Parent)
			sb.WriteString(".")
		}
		sb.WriteString(n.Name)
	case *Block:
		sb.WriteString("{")
		if len(n.Statements) > 0 {
			sb.WriteString(" ")
			formatStatements(sb, n.Statements, "; ")
			sb.WriteString(" ")
		}
		sb.WriteString("}")
	case *Declare:
		for _, f := range n.Flags {
			sb.WriteString(f.Flag.String())
			sb.WriteString(" ")
		}
		format(sb, n.Variable)
		if n.Type != nil {
			sb.WriteString(": ")
			format(sb, n.Type)
		}
		sb.WriteString(" := ")
		format(sb, n.Content)
	case *Set:
		format(sb, n.Variable)
		sb.WriteString(" = ")
		format(sb, n.Content)
	case *If:
		for i, c := range n.Conditions {
			switch {
			case i == 0:
				sb.WriteString("if ")
			case c.Cond != nil:
				sb.WriteString(" elif ")
			default:
				sb.WriteString(" else ")
			}
			if c.Cond != nil {
				format(sb, c.Cond)
				sb.WriteString(" ")
			}
			format(sb, c.Body)
		}
	case *Procedure:
		if n.IsFn {
			sb.WriteString("fn")
		} else {
			sb.WriteString("proc")
		}
		if len(n.Params) > 0 {
			sb.WriteString(" ")
			formatParams(sb, n.Params)
		}
		if n.ReturnType != nil {
			sb.WriteString(": ")
			format(sb, n.ReturnType)
		}
		sb.WriteString(" ")
		format(sb, n.Body)
	case *Call:
		format(sb, n.Called)
		sb.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, a)
		}
		sb.WriteString(")")
	case *BinaryOpr:
		sb.WriteString("(")
		format(sb, n.Left)
		sb.WriteString(" " + n.Op.String() + " ")
		format(sb, n.Right)
		sb.WriteString(")")
	case *UnaryOpr:
		sb.WriteString(n.Op.String())
		format(sb, n.Operand)
	case *Return:
		sb.WriteString("ret")
		if n.Value != nil {
			sb.WriteString(" ")
			format(sb, n.Value)
		}
	case *Class:
		if n.IsStruct {
			sb.WriteString("struct ")
		} else {
			sb.WriteString("class ")
		}
		if len(n.Fields) > 0 {
			formatParams(sb, n.Fields)
			sb.WriteString(" ")
		}
		format(sb, n.Body)
	case *Defer:
		sb.WriteString("defer ")
		format(sb, n.Body)
	case *Delete:
		sb.WriteString("del ")
		for i, id := range n.Names {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, id)
		}
	}
}

func formatStatements(sb *strings.Builder, stmts []Node, sep string) {
	for i, s := range stmts {
		if i > 0 {
			sb.WriteString(sep)
		}
		format(sb, s)
	}
}

func formatParams(sb *strings.Builder, params []*Param) {
	sb.WriteString("|")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.Type != nil {
			sb.WriteString(": ")
			format(sb, p.Type)
		}
		if p.Default != nil {
			sb.WriteString(": ")
			format(sb, p.Default)
		}
	}
	sb.WriteString("|")
}
