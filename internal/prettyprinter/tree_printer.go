package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/zyxt-lang/zyxt/internal/ast"
)

// --- Tree Printer (Output looks like an indented node dump) ---

type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

// Print dumps n, one node per line, children indented by two spaces.
func (p *TreePrinter) Print(n ast.Node) {
	p.node(n)
}

func (p *TreePrinter) line(format string, args ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

// child prints n under a label, one level deeper.
func (p *TreePrinter) child(label string, n ast.Node) {
	if n == nil {
		return
	}
	p.indent++
	p.line("%s:", label)
	p.indent++
	p.node(n)
	p.indent -= 2
}

func (p *TreePrinter) children(nodes []ast.Node) {
	p.indent++
	for _, n := range nodes {
		p.node(n)
	}
	p.indent--
}

func (p *TreePrinter) node(n ast.Node) {
	switch n := n.(type) {
	case nil:
		p.line("<nil>")
	case *ast.Program:
		p.line("Program %s", n.File)
		p.children(n.Statements)
	case *ast.Literal:
		value := n.Value
		if n.Kind == ast.StringLit {
			value = strconv.Quote(value)
		}
		p.line("Literal(%s) %s", n.Kind, value)
	case *ast.Ident:
		p.line("Ident %s", n.Name)
		p.child("parent", n.Parent)
	case *ast.Block:
		p.line("Block")
		p.children(n.Statements)
	case *ast.Declare:
		flags := ""
		for _, f := range n.Flags {
			flags += " " + f.Flag.String()
		}
		p.line("Declare%s", flags)
		p.child("variable", n.Variable)
		p.child("type", n.Type)
		p.child("content", n.Content)
	case *ast.Set:
		p.line("Set")
		p.child("variable", n.Variable)
		p.child("content", n.Content)
	case *ast.If:
		p.line("If")
		for _, c := range n.Conditions {
			p.indent++
			if c.Cond == nil {
				p.line("else")
			} else {
				p.line("when")
				p.child("cond", c.Cond)
			}
			p.child("body", c.Body)
			p.indent--
		}
	case *ast.Procedure:
		if n.IsFn {
			p.line("Procedure fn")
		} else {
			p.line("Procedure")
		}
		p.params(n.Params)
		p.child("returns", n.ReturnType)
		p.child("body", n.Body)
	case *ast.Call:
		p.line("Call")
		p.child("called", n.Called)
		if len(n.Args) > 0 {
			p.indent++
			p.line("args:")
			p.children(n.Args)
			p.indent--
		}
	case *ast.BinaryOpr:
		p.line("BinaryOpr %s", n.Op)
		p.child("left", n.Left)
		p.child("right", n.Right)
	case *ast.UnaryOpr:
		p.line("UnaryOpr %s", n.Op)
		p.child("operand", n.Operand)
	case *ast.Return:
		p.line("Return")
		p.child("value", n.Value)
	case *ast.Class:
		if n.IsStruct {
			p.line("Class struct")
		} else {
			p.line("Class")
		}
		p.params(n.Fields)
		p.child("body", n.Body)
	case *ast.Defer:
		p.line("Defer")
		p.child("body", n.Body)
	case *ast.Delete:
		names := make([]ast.Node, len(n.Names))
		for i, id := range n.Names {
			names[i] = id
		}
		p.line("Delete")
		p.children(names)
	}
}

func (p *TreePrinter) params(params []*ast.Param) {
	p.indent++
	for _, param := range params {
		p.line("Param %s", param.Name)
		p.child("type", param.Type)
		p.child("default", param.Default)
	}
	p.indent--
}
