package ast

import (
	"github.com/zyxt-lang/zyxt/internal/token"
)

// Node is the closed set of AST node kinds. Every kind lives in this package;
// the unexported marker keeps the set sealed so passes can dispatch with an
// exhaustive type switch.
type Node interface {
	// Span merges the node's own span with its direct children's spans.
	Span() *token.Span
	// IsPattern reports whether the node may be a declaration or assignment target.
	IsPattern() bool
	astNode()
}

// SpanOf returns n's span, tolerating a nil node.
func SpanOf(n Node) *token.Span {
	if n == nil {
		return nil
	}
	return n.Span()
}

func spansOf(nodes []Node) []*token.Span {
	out := make([]*token.Span, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, SpanOf(n))
	}
	return out
}

// Program is the root of a parsed file or REPL line. Its statements run in the
// current (global) frame.
type Program struct {
	File       string
	Statements []Node
}

func (p *Program) Span() *token.Span { return token.Merge(spansOf(p.Statements)...) }
func (p *Program) IsPattern() bool   { return false }
func (p *Program) astNode()          {}

type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	UnitLit
)

func (k LiteralKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case BoolLit:
		return "bool"
	default:
		return "unit"
	}
}

// Literal is a constant written in the source. Value holds the literal text
// (string literals already unescaped).
type Literal struct {
	Kind  LiteralKind
	Value string
	Pos   *token.Span
}

func (l *Literal) Span() *token.Span { return l.Pos }
func (l *Literal) IsPattern() bool   { return false }
func (l *Literal) astNode()          {}

// Ident is a name, optionally qualified by a parent expression (parent.name).
type Ident struct {
	Name    string
	NamePos *token.Span
	DotPos  *token.Span
	Parent  Node
}

func (i *Ident) Span() *token.Span {
	return token.Merge(SpanOf(i.Parent), i.DotPos, i.NamePos)
}
func (i *Ident) IsPattern() bool { return true }
func (i *Ident) astNode()        {}

// Block is a braced statement list. Evaluating it pushes a Normal frame.
type Block struct {
	Statements []Node
	Open       *token.Span
	Close      *token.Span
}

func (b *Block) Span() *token.Span {
	spans := append([]*token.Span{b.Open}, spansOf(b.Statements)...)
	return token.Merge(append(spans, b.Close)...)
}
func (b *Block) IsPattern() bool { return false }
func (b *Block) astNode()        {}

type Flag int

const (
	FlagPub Flag = iota
	FlagConst
	FlagInst
)

func (f Flag) String() string {
	switch f {
	case FlagPub:
		return "pub"
	case FlagConst:
		return "const"
	default:
		return "inst"
	}
}

type FlagEntry struct {
	Flag Flag
	Pos  *token.Span
}

// HasFlag reports whether flags contains f.
func HasFlag(flags []FlagEntry, f Flag) bool {
	for _, e := range flags {
		if e.Flag == f {
			return true
		}
	}
	return false
}
