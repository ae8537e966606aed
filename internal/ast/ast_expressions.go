package ast

import (
	"github.com/zyxt-lang/zyxt/internal/token"
)

// Declare binds Variable in the innermost frame (or the constants frame for
// `const`). Type is the optional annotation.
type Declare struct {
	Variable Node
	Content  Node
	Flags    []FlagEntry
	Type     Node
	EqPos    *token.Span
}

func (d *Declare) Span() *token.Span {
	spans := []*token.Span{SpanOf(d.Variable)}
	for _, f := range d.Flags {
		spans = append(spans, f.Pos)
	}
	return token.Merge(append(spans, SpanOf(d.Type), SpanOf(d.Content), d.EqPos)...)
}
func (d *Declare) IsPattern() bool { return false }
func (d *Declare) astNode()        {}

// Set assigns to an existing binding.
type Set struct {
	Variable Node
	Content  Node
	EqPos    *token.Span
}

func (s *Set) Span() *token.Span {
	return token.Merge(SpanOf(s.Variable), s.EqPos, SpanOf(s.Content))
}
func (s *Set) IsPattern() bool { return false }
func (s *Set) astNode()        {}

// Condition is one arm of an If. A nil Cond is the else arm.
type Condition struct {
	KwdPos *token.Span
	Cond   Node
	Body   *Block
}

func (c *Condition) span() *token.Span {
	return token.Merge(c.KwdPos, SpanOf(c.Cond), c.Body.Span())
}

type If struct {
	Conditions []*Condition
}

func (i *If) Span() *token.Span {
	spans := make([]*token.Span, 0, len(i.Conditions))
	for _, c := range i.Conditions {
		spans = append(spans, c.span())
	}
	return token.Merge(spans...)
}
func (i *If) IsPattern() bool { return false }
func (i *If) astNode()        {}

// Param is a procedure parameter `name: type: default`. Type is nil only for
// an unannotated `self`.
type Param struct {
	Name    string
	NamePos *token.Span
	Type    Node
	Default Node
}

func (p *Param) span() *token.Span {
	return token.Merge(p.NamePos, SpanOf(p.Type), SpanOf(p.Default))
}

type Procedure struct {
	IsFn       bool
	KwdPos     *token.Span
	Params     []*Param
	ReturnType Node
	Body       *Block
}

func (p *Procedure) Span() *token.Span {
	spans := []*token.Span{p.KwdPos}
	for _, a := range p.Params {
		spans = append(spans, a.span())
	}
	return token.Merge(append(spans, SpanOf(p.ReturnType), p.Body.Span())...)
}
func (p *Procedure) IsPattern() bool { return false }
func (p *Procedure) astNode()        {}

// Call invokes Called with positional Args. A Called identifier with a parent
// is a member call (`parent.name(args)`).
type Call struct {
	Called   Node
	Args     []Node
	ParenPos *token.Span
}

func (c *Call) Span() *token.Span {
	spans := append([]*token.Span{SpanOf(c.Called)}, spansOf(c.Args)...)
	return token.Merge(append(spans, c.ParenPos)...)
}
func (c *Call) IsPattern() bool { return false }
func (c *Call) astNode()        {}

type OprType int

const (
	OpAdd OprType = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNotEq
	OpLt
	OpLe
	OpGt
	OpGe
	OpConcat
	OpTypeCast
	OpAnd
	OpOr
	OpNot
	OpUnPlus
	OpUnMinus
)

var oprSymbols = map[OprType]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpRem:      "%",
	OpEq:       "==",
	OpNotEq:    "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpConcat:   "..",
	OpTypeCast: "@",
	OpAnd:      "&&",
	OpOr:       "||",
	OpNot:      "!",
	OpUnPlus:   "+",
	OpUnMinus:  "-",
}

func (o OprType) String() string { return oprSymbols[o] }

type BinaryOpr struct {
	Op     OprType
	OprPos *token.Span
	Left   Node
	Right  Node
}

func (b *BinaryOpr) Span() *token.Span {
	return token.Merge(SpanOf(b.Left), b.OprPos, SpanOf(b.Right))
}
func (b *BinaryOpr) IsPattern() bool { return false }
func (b *BinaryOpr) astNode()        {}

type UnaryOpr struct {
	Op      OprType
	OprPos  *token.Span
	Operand Node
}

func (u *UnaryOpr) Span() *token.Span { return token.Merge(u.OprPos, SpanOf(u.Operand)) }
func (u *UnaryOpr) IsPattern() bool   { return false }
func (u *UnaryOpr) astNode()          {}

// Return leaves the nearest enclosing procedure. A nil Value returns unit.
type Return struct {
	KwdPos *token.Span
	Value  Node
}

func (r *Return) Span() *token.Span { return token.Merge(r.KwdPos, SpanOf(r.Value)) }
func (r *Return) IsPattern() bool   { return false }
func (r *Return) astNode()          {}

// Class is `class { ... }` or `struct |fields| { ... }`. Struct fields are
// instance fields declared ahead of the body.
type Class struct {
	IsStruct bool
	KwdPos   *token.Span
	Fields   []*Param
	Body     *Block
}

func (c *Class) Span() *token.Span {
	spans := []*token.Span{c.KwdPos}
	for _, f := range c.Fields {
		spans = append(spans, f.span())
	}
	return token.Merge(append(spans, c.Body.Span())...)
}
func (c *Class) IsPattern() bool { return false }
func (c *Class) astNode()        {}

// Defer schedules Body to run when the innermost frame is popped.
type Defer struct {
	KwdPos *token.Span
	Body   *Block
}

func (d *Defer) Span() *token.Span { return token.Merge(d.KwdPos, d.Body.Span()) }
func (d *Defer) IsPattern() bool   { return false }
func (d *Defer) astNode()          {}

// Delete removes names from the innermost frame.
type Delete struct {
	KwdPos *token.Span
	Names  []*Ident
}

func (d *Delete) Span() *token.Span {
	spans := []*token.Span{d.KwdPos}
	for _, n := range d.Names {
		spans = append(spans, n.Span())
	}
	return token.Merge(spans...)
}
func (d *Delete) IsPattern() bool { return false }
func (d *Delete) astNode()        {}
