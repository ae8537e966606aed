package symbols

import (
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

type FrameKind int

const (
	Normal FrameKind = iota
	Constants
	// FunctionBoundary frames hold the arguments of one procedure call. Name
	// resolution that walks past one only considers Constants frames.
	FunctionBoundary
)

func (k FrameKind) String() string {
	switch k {
	case Constants:
		return "constants"
	case FunctionBoundary:
		return "function"
	default:
		return "normal"
	}
}

// CallContext records where a procedure call came from, for diagnostics.
type CallContext[T any] struct {
	Span *token.Span
	Raw  string
	Args map[string]T
}

// Frame is one scope: its bindings and the blocks deferred until it pops.
// Typedefs is only populated by the type phase.
type Frame[T any] struct {
	Heap     map[string]T
	Defer    []*ast.Block
	Call     *CallContext[T]
	Typedefs map[string]typesystem.Type
	Kind     FrameKind
}

func newFrame[T any](call *CallContext[T], kind FrameKind) *Frame[T] {
	return &Frame[T]{
		Heap:     make(map[string]T),
		Call:     call,
		Typedefs: make(map[string]typesystem.Type),
		Kind:     kind,
	}
}

// DeferRunner executes a deferred block in the frame being popped. It reports
// whether the block ended in an early return, and the returned value.
type DeferRunner[T any] func(block *ast.Block, sym *SymTable[T]) (T, bool, error)

// SymTable is a stack of frames. The outermost frame is the Constants frame
// and the one above it is the global Normal frame; neither is ever popped.
type SymTable[T any] struct {
	frames   []*Frame[T]
	runDefer DeferRunner[T]

	// Out receives program output (println, print).
	Out io.Writer
}

// New creates a table whose constants frame holds constants. A nil runDefer
// discards deferred blocks when frames pop.
func New[T any](out io.Writer, constants map[string]T, runDefer DeferRunner[T]) *SymTable[T] {
	st := &SymTable[T]{Out: out, runDefer: runDefer}
	consts := newFrame[T](nil, Constants)
	for name, v := range constants {
		consts.Heap[name] = v
	}
	st.frames = append(st.frames, consts, newFrame[T](nil, Normal))
	return st
}

// SetDeferRunner replaces the runner used for deferred blocks, so a table
// that outlives one evaluator follows the one currently using it.
func (st *SymTable[T]) SetDeferRunner(runDefer DeferRunner[T]) {
	st.runDefer = runDefer
}

type frameState[T any] struct {
	heap     map[string]T
	typedefs map[string]typesystem.Type
	defers   int
}

func saveFrame[T any](f *Frame[T]) frameState[T] {
	return frameState[T]{heap: maps.Clone(f.Heap), typedefs: maps.Clone(f.Typedefs), defers: len(f.Defer)}
}

func (s frameState[T]) restore(f *Frame[T]) {
	f.Heap = maps.Clone(s.heap)
	f.Typedefs = maps.Clone(s.typedefs)
	f.Defer = f.Defer[:s.defers]
}

// Checkpoint is a copy of the bindings of the constants and global frames.
type Checkpoint[T any] struct {
	consts, global frameState[T]
}

// Checkpoint records the constants and global frames.
func (st *SymTable[T]) Checkpoint() *Checkpoint[T] {
	return &Checkpoint[T]{consts: saveFrame(st.frames[0]), global: saveFrame(st.frames[1])}
}

// Restore puts the constants and global frames back to cp and drops any
// frames above them without running their defers.
func (st *SymTable[T]) Restore(cp *Checkpoint[T]) {
	st.frames = st.frames[:2]
	cp.consts.restore(st.frames[0])
	cp.global.restore(st.frames[1])
}

// AddFrame pushes a new innermost frame.
func (st *SymTable[T]) AddFrame(call *CallContext[T], kind FrameKind) *Frame[T] {
	if kind == Constants {
		panic(diagnostics.Internal("a second constants frame was requested"))
	}
	f := newFrame(call, kind)
	st.frames = append(st.frames, f)
	return f
}

func (st *SymTable[T]) innermost() *Frame[T] {
	return st.frames[len(st.frames)-1]
}

// Innermost returns the frame declarations currently go to.
func (st *SymTable[T]) Innermost() *Frame[T] {
	return st.innermost()
}

func (st *SymTable[T]) constants() *Frame[T] {
	return st.frames[0]
}

// Depth is the number of frames, including the constants and global frames.
func (st *SymTable[T]) Depth() int {
	return len(st.frames)
}

// CallDepth counts the procedure calls currently on the stack.
func (st *SymTable[T]) CallDepth() int {
	n := 0
	for _, f := range st.frames {
		if f.Kind == FunctionBoundary {
			n++
		}
	}
	return n
}

// Call returns the context of the innermost procedure call, if any.
func (st *SymTable[T]) Call() *CallContext[T] {
	for i := len(st.frames) - 1; i >= 0; i-- {
		if st.frames[i].Call != nil {
			return st.frames[i].Call
		}
	}
	return nil
}

// resolve walks frames innermost first. Once a FunctionBoundary frame has
// been searched, only the Constants frame remains eligible.
func (st *SymTable[T]) resolve(found func(f *Frame[T]) bool) *Frame[T] {
	onlyConsts := false
	for i := len(st.frames) - 1; i >= 0; i-- {
		f := st.frames[i]
		if onlyConsts && f.Kind != Constants {
			continue
		}
		if found(f) {
			return f
		}
		if f.Kind == FunctionBoundary {
			onlyConsts = true
		}
	}
	return nil
}

func (st *SymTable[T]) lookup(name string) *Frame[T] {
	return st.resolve(func(f *Frame[T]) bool {
		_, ok := f.Heap[name]
		return ok
	})
}

// DeclareVal binds name in the innermost frame, shadowing outer bindings.
func (st *SymTable[T]) DeclareVal(name string, v T) {
	st.innermost().Heap[name] = v
}

// DeclareConst binds name in the constants frame. Constants cannot be
// redeclared.
func (st *SymTable[T]) DeclareConst(name string, v T, span *token.Span) error {
	consts := st.constants()
	if _, ok := consts.Heap[name]; ok {
		return diagnostics.Immutable(name).WithSpan(span, name)
	}
	consts.Heap[name] = v
	return nil
}

// DropConst removes a constant binding. It undoes a DeclareConst whose
// declaration turned out to be invalid.
func (st *SymTable[T]) DropConst(name string) {
	delete(st.constants().Heap, name)
}

// IsConst reports whether name resolves to a binding in the constants frame.
func (st *SymTable[T]) IsConst(name string) bool {
	f := st.lookup(name)
	return f != nil && f.Kind == Constants
}

// GetVal resolves name from the innermost frame outwards.
func (st *SymTable[T]) GetVal(name string, span *token.Span) (T, error) {
	if f := st.lookup(name); f != nil {
		return f.Heap[name], nil
	}
	var zero T
	return zero, diagnostics.Undefined(name).WithSpan(span, name)
}

// SetVal overwrites the binding GetVal would find. Constants cannot be set.
func (st *SymTable[T]) SetVal(name string, v T, span *token.Span) error {
	f := st.lookup(name)
	if f == nil {
		return diagnostics.Undefined(name).WithSpan(span, name)
	}
	if f.Kind == Constants {
		return diagnostics.Immutable(name).WithSpan(span, name)
	}
	f.Heap[name] = v
	return nil
}

// DeleteVal removes name from the innermost frame only.
func (st *SymTable[T]) DeleteVal(name string, span *token.Span) error {
	f := st.innermost()
	if _, ok := f.Heap[name]; !ok {
		return diagnostics.Undefined(name).WithSpan(span, name)
	}
	delete(f.Heap, name)
	return nil
}

// AddDefer schedules block to run when the innermost frame pops.
func (st *SymTable[T]) AddDefer(block *ast.Block) {
	f := st.innermost()
	f.Defer = append(f.Defer, block)
}

// PopFrame runs the innermost frame's deferred blocks in declaration order
// and removes the frame. If a deferred block returns early, the remaining
// defers are skipped and the returned value is reported with ok set.
func (st *SymTable[T]) PopFrame() (ret T, ok bool, err error) {
	if len(st.frames) <= 2 {
		return ret, false, diagnostics.Internal("attempted to pop the global frame")
	}
	f := st.innermost()
	if st.runDefer != nil {
		for _, block := range append([]*ast.Block(nil), f.Defer...) {
			ret, ok, err = st.runDefer(block, st)
			if err != nil || ok {
				break
			}
		}
	}
	st.frames = st.frames[:len(st.frames)-1]
	return ret, ok, err
}

// DeclareTypedef registers a type name in the innermost frame.
func (st *SymTable[T]) DeclareTypedef(name string, t typesystem.Type) {
	st.innermost().Typedefs[name] = t
}

// GetTypedef resolves a type name with the same visibility rule as GetVal.
func (st *SymTable[T]) GetTypedef(name string) (typesystem.Type, bool) {
	f := st.resolve(func(f *Frame[T]) bool {
		_, ok := f.Typedefs[name]
		return ok
	})
	if f == nil {
		return nil, false
	}
	return f.Typedefs[name], true
}

// Dump renders every frame, innermost first, one binding per line.
func (st *SymTable[T]) Dump(format func(T) string) string {
	parts := make([]string, 0, len(st.frames))
	for i := len(st.frames) - 1; i >= 0; i-- {
		f := st.frames[i]
		names := make([]string, 0, len(f.Heap))
		for name := range f.Heap {
			names = append(names, name)
		}
		sort.Strings(names)
		var sb strings.Builder
		fmt.Fprintf(&sb, "[%s]", f.Kind)
		for _, name := range names {
			fmt.Fprintf(&sb, "\n%s = %s", name, format(f.Heap[name]))
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "\n-------\n")
}
