// Package backend defines the abstract contract the evaluator may
// delegate a sub-tree to, per spec §4.8: compile an expression to an
// opaque handle, invoke that handle with bound arguments, and box/unbox
// values crossing the native/tree boundary. Two implementations ship:
// None, which always declines (the pure-interpreter path, what the
// `-interpret` CLI flag selects), and Dynamic, which actually computes
// `builtin NAME` arithmetic/comparison bodies natively and stubs out
// `C "symbol"` rule bodies over a dynamic symbol table.
//
// Grounded on original_source's compiler/native-code delegation notes and
// on original_source/src/basics.h's registration of native opcodes into
// the root Context; since no actual native code generator is in scope
// (spec.md §1's Non-goals), the `C` side of this package only needs to
// express the shape of the contract, not a working FFI backend — but the
// `builtin` side has to compute real results, since spec.md §8's worked
// scenarios (`2 + 3 * 4`, `abs X:real is if X < 0.0 then -X else X`, ...)
// depend on it.
package backend

import (
	"fmt"

	"github.com/c3d/elfe/pkg/context"
	"github.com/c3d/elfe/pkg/tree"
)

// Handle is whatever opaque value a Backend's Compile step produces;
// its only contract is that the same Backend's Invoke can consume it.
type Handle any

// Backend is the contract a native code generator implements so the
// evaluator can delegate builtin and C-call rule bodies to it instead of
// interpreting them.
type Backend interface {
	// Compile turns expr into an invocable handle, or returns an error if
	// this backend cannot handle it (the evaluator then falls back to
	// interpreting expr directly).
	Compile(scope *context.Scope, expr tree.Node) (Handle, error)

	// Invoke calls a previously compiled handle with already-bound
	// argument trees, returning the result tree.
	Invoke(handle Handle, args ...tree.Node) (tree.Node, error)

	// Box wraps a raw native value as a tree (e.g. a Go int64 as an
	// *tree.Integer).
	Box(value any) tree.Node

	// Unbox extracts the raw native value a tree leaf denotes.
	Unbox(value tree.Node) (any, error)
}

// None always declines to compile, forcing every expression through the
// evaluator's interpreter path. This is the backend the `-interpret` CLI
// flag selects.
type None struct{}

func (None) Compile(*context.Scope, tree.Node) (Handle, error) {
	return nil, fmt.Errorf("backend: no native backend configured")
}

func (None) Invoke(Handle, ...tree.Node) (tree.Node, error) {
	return nil, fmt.Errorf("backend: no native backend configured")
}

func (None) Box(value any) tree.Node {
	switch v := value.(type) {
	case int64:
		return tree.NewInteger(v, tree.NoPos)
	case float64:
		return tree.NewReal(v, tree.NoPos)
	case string:
		return tree.NewQuotedText(v, tree.NoPos)
	default:
		return tree.NewName(fmt.Sprintf("%v", v), tree.NoPos)
	}
}

func (None) Unbox(value tree.Node) (any, error) {
	switch v := value.(type) {
	case *tree.Integer:
		return v.Value, nil
	case *tree.Real:
		return v.Value, nil
	case *tree.Text:
		return v.Value, nil
	default:
		return nil, fmt.Errorf("backend: cannot unbox %s", tree.Sprint(value))
	}
}

// symbolHandle is the handle Dynamic hands back from Compile: the symbol
// name a rule's body named via `C "symbol"`, resolved lazily at Invoke
// time against the dynamic-library table.
type symbolHandle struct {
	symbol string
}

// builtinHandle is the handle Dynamic hands back for a `builtin NAME` rule
// body recognized in its Builtins table; Invoke dispatches straight to the
// registered Go function, no FFI boundary involved.
type builtinHandle struct {
	name string
}

// Builtin is a native operation a `builtin NAME` rule body can delegate
// to: it receives the rule's already-bound argument values, in pattern
// order, and returns the result tree.
type Builtin func(args []tree.Node) (tree.Node, error)

// Dynamic resolves `builtin NAME` rule bodies against a table of native Go
// functions, and `C "symbol"` rule bodies against a caller-supplied table
// of native symbol addresses. Builtins actually compute a result; crossing
// the `C` FFI boundary is out of scope (spec.md §1), so Invoke on a
// symbolHandle always returns a typed "unimplemented" error, which the
// evaluator surfaces as an ordinary runtime error value rather than a
// panic, per spec §7.
type Dynamic struct {
	// Symbols maps an external symbol name to its address in a loaded
	// dynamic library. Kept as unsafe.Pointer-shaped (any) because this
	// package never dereferences it — only a real native backend would.
	Symbols map[string]any

	// Builtins maps a `builtin NAME` name to the Go function that
	// implements it. NewDynamic populates this with ArithmeticBuiltins()
	// by default; callers may add or replace entries before first use.
	Builtins map[string]Builtin
}

// NewDynamic creates a Dynamic backend over the given symbol table, seeded
// with the standard arithmetic and comparison builtins.
func NewDynamic(symbols map[string]any) *Dynamic {
	if symbols == nil {
		symbols = map[string]any{}
	}
	return &Dynamic{Symbols: symbols, Builtins: ArithmeticBuiltins()}
}

func (d *Dynamic) Compile(_ *context.Scope, expr tree.Node) (Handle, error) {
	if name, ok := BuiltinName(expr); ok {
		if _, known := d.Builtins[name]; !known {
			return nil, fmt.Errorf("backend: unknown builtin %q", name)
		}
		return builtinHandle{name: name}, nil
	}

	symbol, ok := CSymbolName(expr)
	if !ok {
		return nil, fmt.Errorf("backend: not a builtin or C call: %s", tree.Sprint(expr))
	}
	if _, known := d.Symbols[symbol]; !known {
		return nil, fmt.Errorf("backend: unknown symbol %q", symbol)
	}
	return symbolHandle{symbol: symbol}, nil
}

func (d *Dynamic) Invoke(handle Handle, args ...tree.Node) (tree.Node, error) {
	switch h := handle.(type) {
	case builtinHandle:
		fn, known := d.Builtins[h.name]
		if !known {
			return nil, fmt.Errorf("backend: unknown builtin %q", h.name)
		}
		return fn(args)
	case symbolHandle:
		return nil, fmt.Errorf("backend: FFI invocation of %q is unimplemented", h.symbol)
	}
	return nil, fmt.Errorf("backend: invalid handle %#v", handle)
}

func (d *Dynamic) Box(value any) tree.Node { return None{}.Box(value) }

func (d *Dynamic) Unbox(value tree.Node) (any, error) { return None{}.Unbox(value) }

// numberValue extracts n's value as a float64 regardless of whether it is
// an Integer or a Real, the common representation arithmetic builtins
// compare and combine operands in before deciding the result's own kind.
func numberValue(n tree.Node) (float64, bool) {
	if i, ok := tree.AsInteger(n); ok {
		return float64(i.Value), true
	}
	if r, ok := tree.AsReal(n); ok {
		return r.Value, true
	}
	return 0, false
}

// boolName boxes a Go bool as the Name the evaluator's guard-condition
// check and spec §8's boolean scenarios expect ("true"/"false").
func boolName(b bool) tree.Node {
	if b {
		return tree.NewName("true", tree.NoPos)
	}
	return tree.NewName("false", tree.NoPos)
}

// arithmetic builds a two-argument Builtin that stays in Integer
// arithmetic when both operands are Integer, and falls back to Real
// arithmetic (matching original_source/src/basics.h's native opcode
// registration, which keeps separate integer and real opcodes) the
// moment either operand is a Real.
func arithmetic(name string, intOp func(a, b int64) int64, realOp func(a, b float64) float64) Builtin {
	return func(args []tree.Node) (tree.Node, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("backend: builtin %s expects 2 arguments, got %d", name, len(args))
		}
		if ai, ok := tree.AsInteger(args[0]); ok {
			if bi, ok := tree.AsInteger(args[1]); ok {
				return tree.NewInteger(intOp(ai.Value, bi.Value), tree.NoPos), nil
			}
		}
		a, aok := numberValue(args[0])
		b, bok := numberValue(args[1])
		if !aok || !bok {
			return nil, fmt.Errorf("backend: builtin %s: not a number: %s, %s", name, tree.Sprint(args[0]), tree.Sprint(args[1]))
		}
		return tree.NewReal(realOp(a, b), tree.NoPos), nil
	}
}

// comparison builds a two-argument Builtin returning a boolean Name,
// with the same integer-preserving/real-fallback rule as arithmetic.
func comparison(name string, intOp func(a, b int64) bool, realOp func(a, b float64) bool) Builtin {
	return func(args []tree.Node) (tree.Node, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("backend: builtin %s expects 2 arguments, got %d", name, len(args))
		}
		if ai, ok := tree.AsInteger(args[0]); ok {
			if bi, ok := tree.AsInteger(args[1]); ok {
				return boolName(intOp(ai.Value, bi.Value)), nil
			}
		}
		a, aok := numberValue(args[0])
		b, bok := numberValue(args[1])
		if !aok || !bok {
			return nil, fmt.Errorf("backend: builtin %s: not a number: %s, %s", name, tree.Sprint(args[0]), tree.Sprint(args[1]))
		}
		return boolName(realOp(a, b)), nil
	}
}

// ArithmeticBuiltins returns the native Add/Sub/Mul/Div/Neg and
// Lt/Le/Gt/Ge/Eq/Ne operations that back spec.md §8's worked arithmetic
// and comparison scenarios (`2 + 3 * 4`, `N*2`, `abs X:real is if X < 0.0
// then -X else X`, ...). These are the language's own operators, grounded
// on original_source/src/basics.h's registration of native opcodes into
// the root Context at startup — distinct from the out-of-scope
// math/io/temperature/time_functions/text standard library modules.
func ArithmeticBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"Add": arithmetic("Add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }),
		"Sub": arithmetic("Sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
		"Mul": arithmetic("Mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
		"Div": func(args []tree.Node) (tree.Node, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("backend: builtin Div expects 2 arguments, got %d", len(args))
			}
			a, aok := numberValue(args[0])
			b, bok := numberValue(args[1])
			if !aok || !bok {
				return nil, fmt.Errorf("backend: builtin Div: not a number: %s, %s", tree.Sprint(args[0]), tree.Sprint(args[1]))
			}
			if b == 0 {
				return nil, fmt.Errorf("backend: builtin Div: division by zero")
			}
			if ai, ok := tree.AsInteger(args[0]); ok {
				if bi, ok := tree.AsInteger(args[1]); ok && ai.Value%bi.Value == 0 {
					return tree.NewInteger(ai.Value/bi.Value, tree.NoPos), nil
				}
			}
			return tree.NewReal(a/b, tree.NoPos), nil
		},
		"Neg": func(args []tree.Node) (tree.Node, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("backend: builtin Neg expects 1 argument, got %d", len(args))
			}
			if i, ok := tree.AsInteger(args[0]); ok {
				return tree.NewInteger(-i.Value, tree.NoPos), nil
			}
			a, ok := numberValue(args[0])
			if !ok {
				return nil, fmt.Errorf("backend: builtin Neg: not a number: %s", tree.Sprint(args[0]))
			}
			return tree.NewReal(-a, tree.NoPos), nil
		},
		"Lt": comparison("Lt", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b }),
		"Le": comparison("Le", func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b }),
		"Gt": comparison("Gt", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b }),
		"Ge": comparison("Ge", func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b }),
		"Eq": comparison("Eq", func(a, b int64) bool { return a == b }, func(a, b float64) bool { return a == b }),
		"Ne": comparison("Ne", func(a, b int64) bool { return a != b }, func(a, b float64) bool { return a != b }),
	}
}

// CSymbolName reports whether body is a `C` or `C "symbol"` rule body and,
// if so, the symbol name to resolve (empty when the rule just says `C`
// with no explicit name; Dynamic.Compile then looks up that empty name
// as given).
func CSymbolName(body tree.Node) (string, bool) {
	switch b := body.(type) {
	case *tree.Name:
		return "", b.Value == "C"
	case *tree.Prefix:
		name, ok := tree.AsName(b.Left)
		if !ok || name.Value != "C" {
			return "", false
		}
		text, ok := tree.AsText(b.Right)
		if !ok {
			return "", false
		}
		return text.Value, true
	}
	return "", false
}

// BuiltinName reports whether body is a `builtin NAME` rule body and, if
// so, the builtin's name.
func BuiltinName(body tree.Node) (string, bool) {
	p, ok := tree.AsPrefix(body)
	if !ok {
		return "", false
	}
	head, ok := tree.AsName(p.Left)
	if !ok || head.Value != "builtin" {
		return "", false
	}
	name, ok := tree.AsName(p.Right)
	if !ok {
		return "", false
	}
	return name.Value, true
}
