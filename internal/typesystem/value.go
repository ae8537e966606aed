package typesystem

import (
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/ast"
)

type ValueKind string

const (
	INT_VAL    = "INT"
	FLOAT_VAL  = "FLOAT"
	STR_VAL    = "STR"
	BOOL_VAL   = "BOOL"
	UNIT_VAL   = "UNIT"
	TYPE_VAL   = "TYPE"
	PROC_VAL   = "PROC"
	NATIVE_VAL = "NATIVE"
	OBJECT_VAL = "OBJECT"
	RETURN_VAL = "RETURN"
)

// Value is a runtime value.
type Value interface {
	Kind() ValueKind
	Inspect() string
	RuntimeType() Type
}

// Int is a value of one of the integer primitives. V always lies within the
// range of Def.
type Int struct {
	Def *Definition
	V   *big.Int
}

func (i *Int) Kind() ValueKind   { return INT_VAL }
func (i *Int) Inspect() string   { return i.V.String() }
func (i *Int) RuntimeType() Type { return i.Def.Instance() }

func NewInt(def *Definition, v int64) *Int {
	return &Int{Def: def, V: big.NewInt(v)}
}

// Float is an f32 or f64 value; f32 values are kept rounded to float32.
type Float struct {
	Def *Definition
	V   float64
}

func (f *Float) Kind() ValueKind { return FLOAT_VAL }
func (f *Float) Inspect() string {
	bits := 64
	if f.Def == F32Def {
		bits = 32
	}
	return strconv.FormatFloat(f.V, 'f', -1, bits)
}
func (f *Float) RuntimeType() Type { return f.Def.Instance() }

type Str struct {
	V string
}

func (s *Str) Kind() ValueKind   { return STR_VAL }
func (s *Str) Inspect() string   { return s.V }
func (s *Str) RuntimeType() Type { return StrDef.Instance() }

type Bool struct {
	V bool
}

func (b *Bool) Kind() ValueKind   { return BOOL_VAL }
func (b *Bool) Inspect() string   { return strconv.FormatBool(b.V) }
func (b *Bool) RuntimeType() Type { return BoolDef.Instance() }

type Unit struct{}

func (u *Unit) Kind() ValueKind   { return UNIT_VAL }
func (u *Unit) Inspect() string   { return "()" }
func (u *Unit) RuntimeType() Type { return UnitDef.Instance() }

var (
	TRUE  = &Bool{V: true}
	FALSE = &Bool{V: false}
	UNIT  = &Unit{}
)

func NativeBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}

// TypeVal is a type used as a value, such as `i32` or a class.
type TypeVal struct {
	T Type
}

func (t *TypeVal) Kind() ValueKind { return TYPE_VAL }
func (t *TypeVal) Inspect() string { return t.T.String() }

// RuntimeType mirrors the static typing of type expressions: the value
// `i32` has the type *Definition(i32).
func (t *TypeVal) RuntimeType() Type {
	switch tt := t.T.(type) {
	case *Instance:
		return tt.Def
	default:
		return tt
	}
}

// Definition returns the definition the type value denotes, if any.
func (t *TypeVal) Definition() (*Definition, bool) {
	switch tt := t.T.(type) {
	case *Definition:
		return tt, true
	case *Instance:
		return tt.Def, true
	}
	return nil, false
}

// ProcParam is a resolved procedure parameter. Default is evaluated in the
// call frame when the argument is omitted.
type ProcParam struct {
	Name    string
	Type    Type
	Default ast.Node
}

// Proc is a user procedure. Body statements run directly in the call frame.
type Proc struct {
	IsFn   bool
	Params []ProcParam
	Ret    Type
	Body   *ast.Block
	Sig    *Instance
}

func (p *Proc) Kind() ValueKind   { return PROC_VAL }
func (p *Proc) RuntimeType() Type { return p.Sig }
func (p *Proc) Inspect() string {
	kw := "proc"
	if p.IsFn {
		kw = "fn"
	}
	names := make([]string, len(p.Params))
	for i, param := range p.Params {
		names[i] = param.Name + ": " + param.Type.String()
	}
	return kw + "|" + strings.Join(names, ", ") + "|: " + p.Ret.String()
}

// NativeCall is the argument bundle of a native procedure. For members,
// Args[0] is the receiver.
type NativeCall struct {
	Args []Value
	Out  io.Writer
}

type NativeFn func(call NativeCall) (Value, error)

// Native is a procedure implemented in Go: builtins and primitive members.
type Native struct {
	Name string
	Fn   NativeFn
	Type *Instance
}

func (n *Native) Kind() ValueKind   { return NATIVE_VAL }
func (n *Native) Inspect() string   { return "<native " + n.Name + ">" }
func (n *Native) RuntimeType() Type { return n.Type }

func NewNative(name string, sig func(args []Type) (Type, bool), fn NativeFn) *Native {
	return &Native{Name: name, Fn: fn, Type: NativeType(sig)}
}

// Object is an instance of a class or struct. Objects are never mutated in
// place; setting a field builds a new object.
type Object struct {
	Def    *Definition
	Fields map[string]Value
}

func (o *Object) Kind() ValueKind   { return OBJECT_VAL }
func (o *Object) RuntimeType() Type { return o.Def.Instance() }
func (o *Object) Inspect() string {
	parts := make([]string, 0, len(o.Def.Fields))
	for _, f := range o.Def.Fields {
		if v, ok := o.Fields[f.Name]; ok {
			parts = append(parts, f.Name+": "+v.Inspect())
		}
	}
	return o.Def.Name + "{" + strings.Join(parts, ", ") + "}"
}

// With returns a copy of o with field name set to v.
func (o *Object) With(name string, v Value) *Object {
	fields := make(map[string]Value, len(o.Fields))
	for k, fv := range o.Fields {
		fields[k] = fv
	}
	fields[name] = v
	return &Object{Def: o.Def, Fields: fields}
}

// Return wraps the value of a `ret` while it unwinds to the nearest
// procedure call.
type Return struct {
	Value Value
}

func (r *Return) Kind() ValueKind   { return RETURN_VAL }
func (r *Return) Inspect() string   { return r.Value.Inspect() }
func (r *Return) RuntimeType() Type { return r.Value.RuntimeType() }
