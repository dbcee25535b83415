package backend

import (
	"testing"

	"github.com/c3d/elfe/pkg/tree"
)

func TestNoneAlwaysDeclinesToCompile(t *testing.T) {
	var b None
	_, err := b.Compile(nil, tree.NewInteger(1, tree.NoPos))
	if err == nil {
		t.Fatal("expected None.Compile to always return an error")
	}
}

func TestNoneBoxUnboxRoundTrip(t *testing.T) {
	var b None
	boxed := b.Box(int64(7))
	i, ok := tree.AsInteger(boxed)
	if !ok || i.Value != 7 {
		t.Fatalf("Box(int64) = %s", tree.Sprint(boxed))
	}
	raw, err := b.Unbox(boxed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.(int64) != 7 {
		t.Errorf("got %v, want 7", raw)
	}
}

func TestCSymbolNameBareC(t *testing.T) {
	sym, ok := CSymbolName(tree.NewName("C", tree.NoPos))
	if !ok || sym != "" {
		t.Errorf("got %q ok=%v", sym, ok)
	}
}

func TestCSymbolNameWithExplicitSymbol(t *testing.T) {
	body := tree.NewPrefix(tree.NewName("C", tree.NoPos), tree.NewQuotedText("sqrt", tree.NoPos), tree.NoPos)
	sym, ok := CSymbolName(body)
	if !ok || sym != "sqrt" {
		t.Errorf("got %q ok=%v", sym, ok)
	}
}

func TestCSymbolNameRejectsUnrelatedPrefix(t *testing.T) {
	body := tree.NewPrefix(tree.NewName("square", tree.NoPos), tree.NewName("x", tree.NoPos), tree.NoPos)
	_, ok := CSymbolName(body)
	if ok {
		t.Error("expected CSymbolName to reject an unrelated prefix")
	}
}

func TestBuiltinName(t *testing.T) {
	body := tree.NewPrefix(tree.NewName("builtin", tree.NoPos), tree.NewName("Add", tree.NoPos), tree.NoPos)
	name, ok := BuiltinName(body)
	if !ok || name != "Add" {
		t.Errorf("got %q ok=%v", name, ok)
	}
}

func TestDynamicCompileUnknownSymbolFails(t *testing.T) {
	d := NewDynamic(nil)
	body := tree.NewPrefix(tree.NewName("C", tree.NoPos), tree.NewQuotedText("missing", tree.NoPos), tree.NoPos)
	_, err := d.Compile(nil, body)
	if err == nil {
		t.Fatal("expected an error for an unregistered symbol")
	}
}

func TestDynamicInvokeIsUnimplemented(t *testing.T) {
	d := NewDynamic(map[string]any{"sqrt": struct{}{}})
	body := tree.NewPrefix(tree.NewName("C", tree.NoPos), tree.NewQuotedText("sqrt", tree.NoPos), tree.NoPos)
	handle, err := d.Compile(nil, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = d.Invoke(handle)
	if err == nil {
		t.Fatal("expected Invoke to report FFI as unimplemented")
	}
}

func TestDynamicInvokesBuiltinArithmetic(t *testing.T) {
	d := NewDynamic(nil)
	body := tree.NewPrefix(tree.NewName("builtin", tree.NoPos), tree.NewName("Add", tree.NoPos), tree.NoPos)
	handle, err := d.Compile(nil, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := d.Invoke(handle, tree.NewInteger(3, tree.NoPos), tree.NewInteger(4, tree.NoPos))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := tree.AsInteger(result)
	if !ok || i.Value != 7 {
		t.Errorf("got %s, want Integer(7)", tree.Sprint(result))
	}
}

func TestDynamicCompileUnknownBuiltinFails(t *testing.T) {
	d := NewDynamic(nil)
	body := tree.NewPrefix(tree.NewName("builtin", tree.NoPos), tree.NewName("Frobnicate", tree.NoPos), tree.NoPos)
	if _, err := d.Compile(nil, body); err == nil {
		t.Fatal("expected an error for an unregistered builtin")
	}
}

func TestArithmeticBuiltinsFallBackToRealWhenEitherOperandIsReal(t *testing.T) {
	builtins := ArithmeticBuiltins()
	result, err := builtins["Mul"]([]tree.Node{tree.NewInteger(2, tree.NoPos), tree.NewReal(1.5, tree.NoPos)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := tree.AsReal(result)
	if !ok || r.Value != 3.0 {
		t.Errorf("got %s, want Real(3)", tree.Sprint(result))
	}
}

func TestComparisonBuiltinsReturnBooleanName(t *testing.T) {
	builtins := ArithmeticBuiltins()
	result, err := builtins["Lt"]([]tree.Node{tree.NewInteger(1, tree.NoPos), tree.NewInteger(2, tree.NoPos)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name, ok := tree.AsName(result)
	if !ok || name.Value != "true" {
		t.Errorf("got %s, want Name(true)", tree.Sprint(result))
	}
}
