package symbols

import (
	"errors"
	"strings"
	"testing"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
)

var (
	errUndefined = &diagnostics.DiagnosticError{Category: diagnostics.CategoryUndefined}
	errImmutable = &diagnostics.DiagnosticError{Category: diagnostics.CategoryImmutable}
)

func newTable() *SymTable[int] {
	return New[int](nil, map[string]int{"limit": 100}, nil)
}

func TestDeclareThenGet(t *testing.T) {
	st := newTable()
	st.DeclareVal("x", 5)
	v, err := st.GetVal("x", nil)
	if err != nil || v != 5 {
		t.Fatalf("GetVal(x) = %d, %v; want 5", v, err)
	}
}

func TestShadowingRestoresOuter(t *testing.T) {
	st := newTable()
	st.DeclareVal("x", 1)
	st.AddFrame(nil, Normal)
	st.DeclareVal("x", 2)
	if v, _ := st.GetVal("x", nil); v != 2 {
		t.Fatalf("inner x = %d, want 2", v)
	}
	if _, _, err := st.PopFrame(); err != nil {
		t.Fatal(err)
	}
	if v, _ := st.GetVal("x", nil); v != 1 {
		t.Fatalf("outer x = %d after pop, want 1", v)
	}
}

func TestFunctionBoundaryIsolation(t *testing.T) {
	st := newTable()
	st.DeclareVal("y", 1)
	st.AddFrame(&CallContext[int]{Raw: "f()"}, FunctionBoundary)
	st.DeclareVal("arg", 3)
	st.AddFrame(nil, Normal)

	if _, err := st.GetVal("y", nil); !errors.Is(err, errUndefined) {
		t.Fatalf("caller local visible inside procedure: %v", err)
	}
	if err := st.SetVal("y", 2, nil); !errors.Is(err, errUndefined) {
		t.Fatalf("caller local settable inside procedure: %v", err)
	}
	if v, err := st.GetVal("arg", nil); err != nil || v != 3 {
		t.Fatalf("argument not visible from nested block: %d %v", v, err)
	}
	if v, err := st.GetVal("limit", nil); err != nil || v != 100 {
		t.Fatalf("constant not visible inside procedure: %d %v", v, err)
	}
	if st.Call() == nil || st.Call().Raw != "f()" {
		t.Fatal("call context not found")
	}
}

func TestSetVal(t *testing.T) {
	st := newTable()
	st.DeclareVal("x", 5)
	st.AddFrame(nil, Normal)
	if err := st.SetVal("x", 6, nil); err != nil {
		t.Fatal(err)
	}
	st.PopFrame()
	if v, _ := st.GetVal("x", nil); v != 6 {
		t.Fatalf("x = %d, want 6", v)
	}
	if err := st.SetVal("missing", 1, nil); !errors.Is(err, errUndefined) {
		t.Fatalf("expected undefined, got %v", err)
	}
	if err := st.SetVal("limit", 1, nil); !errors.Is(err, errImmutable) {
		t.Fatalf("expected immutable, got %v", err)
	}
}

func TestDeclareConst(t *testing.T) {
	st := newTable()
	st.AddFrame(nil, Normal)
	if err := st.DeclareConst("pi", 3, nil); err != nil {
		t.Fatal(err)
	}
	st.PopFrame()
	if !st.IsConst("pi") {
		t.Fatal("pi should be a constant")
	}
	if err := st.DeclareConst("pi", 4, nil); !errors.Is(err, errImmutable) {
		t.Fatalf("redeclaring a constant: %v", err)
	}
}

func TestDeleteOnlyInnermost(t *testing.T) {
	st := newTable()
	st.DeclareVal("x", 1)
	st.AddFrame(nil, Normal)
	if _, err := st.GetVal("x", nil); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteVal("x", nil); !errors.Is(err, errUndefined) {
		t.Fatalf("deleting an outer name: %v", err)
	}
	st.DeclareVal("z", 1)
	if err := st.DeleteVal("z", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := st.GetVal("z", nil); !errors.Is(err, errUndefined) {
		t.Fatalf("z still visible after delete: %v", err)
	}
}

func TestPopFrameRunsDefers(t *testing.T) {
	var order []string
	runner := func(block *ast.Block, sym *SymTable[int]) (int, bool, error) {
		lit := block.Statements[0].(*ast.Literal)
		order = append(order, lit.Value)
		if strings.HasPrefix(lit.Value, "ret") {
			return len(order), true, nil
		}
		return 0, false, nil
	}
	deferred := func(text string) *ast.Block {
		return &ast.Block{Statements: []ast.Node{&ast.Literal{Kind: ast.StringLit, Value: text}}}
	}

	st := New[int](nil, nil, runner)
	st.AddFrame(nil, Normal)
	st.AddDefer(deferred("a"))
	st.AddDefer(deferred("b"))
	if _, ok, err := st.PopFrame(); ok || err != nil {
		t.Fatalf("unexpected early return: %v %v", ok, err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Fatalf("defer order = %v", order)
	}

	order = nil
	st.AddFrame(nil, Normal)
	st.AddDefer(deferred("a"))
	st.AddDefer(deferred("ret"))
	st.AddDefer(deferred("c"))
	v, ok, err := st.PopFrame()
	if err != nil || !ok || v != 2 {
		t.Fatalf("PopFrame() = %d, %v, %v; want 2, true", v, ok, err)
	}
	if strings.Join(order, ",") != "a,ret" {
		t.Fatalf("later defers ran: %v", order)
	}
	if st.Depth() != 2 {
		t.Fatalf("depth = %d after pops", st.Depth())
	}
}

func TestPopGlobalFrameFails(t *testing.T) {
	st := newTable()
	_, _, err := st.PopFrame()
	if diagnostics.CategoryOf(err) != diagnostics.CategoryInternal || err == nil {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestTypedefs(t *testing.T) {
	st := newTable()
	st.DeclareTypedef("num", nil)
	st.AddFrame(nil, FunctionBoundary)
	if _, ok := st.GetTypedef("num"); ok {
		t.Fatal("global typedef visible across a function boundary")
	}
}

func TestDump(t *testing.T) {
	st := newTable()
	st.DeclareVal("b", 2)
	st.DeclareVal("a", 1)
	out := st.Dump(func(v int) string { return strings.Repeat("*", v) })
	if !strings.HasPrefix(out, "[normal]\na = *\nb = **") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
	if !strings.Contains(out, "[constants]") {
		t.Fatalf("constants frame missing:\n%s", out)
	}
}

func TestCheckpointRestore(t *testing.T) {
	st := newTable()
	st.DeclareVal("x", 1)
	cp := st.Checkpoint()

	st.DeclareVal("x", 2)
	st.DeclareVal("y", 3)
	if err := st.DeclareConst("c", 4, nil); err != nil {
		t.Fatal(err)
	}
	st.AddDefer(&ast.Block{})
	st.AddFrame(nil, Normal)
	st.Restore(cp)

	if st.Depth() != 2 {
		t.Errorf("depth = %d after restore, want 2", st.Depth())
	}
	if v, _ := st.GetVal("x", nil); v != 1 {
		t.Errorf("x = %d after restore, want 1", v)
	}
	if _, err := st.GetVal("y", nil); !errors.Is(err, errUndefined) {
		t.Errorf("y survived restore: %v", err)
	}
	if st.IsConst("c") {
		t.Error("constant c survived restore")
	}
	if v, _ := st.GetVal("limit", nil); v != 100 {
		t.Errorf("seeded constant = %d, want 100", v)
	}
	if n := len(st.Innermost().Defer); n != 0 {
		t.Errorf("%d defers survived restore", n)
	}
}

func TestDropConst(t *testing.T) {
	st := newTable()
	if err := st.DeclareConst("f", 1, nil); err != nil {
		t.Fatal(err)
	}
	st.DropConst("f")
	if err := st.DeclareConst("f", 2, nil); err != nil {
		t.Fatalf("redeclaring a dropped constant: %v", err)
	}
}
