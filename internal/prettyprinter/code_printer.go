package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter). All binary operators are
// left-associative.
var operatorPrecedence = map[ast.OprType]int{
	ast.OpOr:       1,
	ast.OpAnd:      2,
	ast.OpEq:       3,
	ast.OpNotEq:    3,
	ast.OpLt:       4,
	ast.OpLe:       4,
	ast.OpGt:       4,
	ast.OpGe:       4,
	ast.OpConcat:   5,
	ast.OpAdd:      6,
	ast.OpSub:      6,
	ast.OpMul:      7,
	ast.OpDiv:      7,
	ast.OpRem:      7,
	ast.OpTypeCast: 8,
}

const (
	prefixPrec = 9
	memberPrec = 10
)

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders n. Programs and blocks put one statement per line.
func (p *CodePrinter) Print(n ast.Node) {
	p.printNode(n)
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) printNode(n ast.Node) {
	switch n := n.(type) {
	case nil:
		p.write("<???>")
	case *ast.Program:
		for _, stmt := range n.Statements {
			p.writeIndent()
			p.printNode(stmt)
			p.writeln()
		}
	case *ast.Literal:
		if n.Kind == ast.StringLit {
			p.write(quote(n.Value))
		} else {
			p.write(ast.Format(n))
		}
	case *ast.Ident:
		if n.Parent != nil {
			p.printExpr(n.Parent, memberPrec)
			p.write(".")
		}
		p.write(n.Name)
	case *ast.Block:
		p.printBlock(n)
	case *ast.Declare:
		for _, f := range n.Flags {
			p.write(f.Flag.String() + " ")
		}
		p.printExpr(n.Variable, 0)
		if n.Type != nil {
			p.write(": ")
			p.printExpr(n.Type, 0)
		}
		if n.Content != nil {
			p.write(" := ")
			p.printNode(n.Content)
		}
	case *ast.Set:
		p.printExpr(n.Variable, 0)
		p.write(" = ")
		p.printNode(n.Content)
	case *ast.If:
		for i, c := range n.Conditions {
			switch {
			case i == 0:
				p.write("if ")
			case c.Cond != nil:
				p.write(" elif ")
			default:
				p.write(" else ")
			}
			if c.Cond != nil {
				p.printExpr(c.Cond, 0)
				p.write(" ")
			}
			p.printBlock(c.Body)
		}
	case *ast.Procedure:
		if n.IsFn {
			p.write("fn")
		} else {
			p.write("proc")
		}
		if len(n.Params) > 0 {
			p.write(" ")
			p.printParams(n.Params)
		}
		if n.ReturnType != nil {
			p.write(": ")
			p.printExpr(n.ReturnType, 0)
		}
		p.write(" ")
		p.printBlock(n.Body)
	case *ast.Call:
		p.printExpr(n.Called, memberPrec)
		p.write("(")
		for i, arg := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printNode(arg)
		}
		p.write(")")
	case *ast.BinaryOpr, *ast.UnaryOpr:
		p.printExpr(n, 0)
	case *ast.Return:
		p.write("ret")
		if n.Value != nil {
			p.write(" ")
			p.printNode(n.Value)
		}
	case *ast.Class:
		if n.IsStruct {
			p.write("struct")
		} else {
			p.write("class")
		}
		if len(n.Fields) > 0 {
			p.write(" ")
			p.printParams(n.Fields)
		}
		p.write(" ")
		p.printBlock(n.Body)
	case *ast.Defer:
		p.write("defer ")
		p.printBlock(n.Body)
	case *ast.Delete:
		p.write("del ")
		for i, id := range n.Names {
			if i > 0 {
				p.write(", ")
			}
			p.write(id.Name)
		}
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(n ast.Node, parentPrec int) {
	switch e := n.(type) {
	case *ast.BinaryOpr:
		prec := operatorPrecedence[e.Op]
		needParens := prec <= parentPrec
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec-1)
		p.write(" " + e.Op.String() + " ")
		p.printExpr(e.Right, prec)
		if needParens {
			p.write(")")
		}
	case *ast.UnaryOpr:
		needParens := parentPrec >= prefixPrec
		if needParens {
			p.write("(")
		}
		p.write(e.Op.String())
		p.printExpr(e.Operand, prefixPrec)
		if needParens {
			p.write(")")
		}
	case *ast.Ident, *ast.Literal, *ast.Call, nil:
		p.printNode(n)
	case *ast.Declare, *ast.Set:
		// only statements and arguments take a bare assignment
		p.write("(")
		p.printNode(n)
		p.write(")")
	default:
		if parentPrec == 0 {
			p.printNode(n)
			return
		}
		p.write("(")
		p.printNode(n)
		p.write(")")
	}
}

func (p *CodePrinter) printBlock(b *ast.Block) {
	if b == nil || len(b.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	for _, stmt := range b.Statements {
		p.writeIndent()
		p.printNode(stmt)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printParams(params []*ast.Param) {
	p.write("|")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name)
		if param.Type != nil {
			p.write(": ")
			p.printExpr(param.Type, 0)
		}
		if param.Default != nil {
			p.write(": ")
			p.printExpr(param.Default, 0)
		}
	}
	p.write("|")
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`, "\x00", `\0`)

// quote renders s with the escapes the lexer understands.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
