package context

import "github.com/c3d/elfe/pkg/tree"

// DeclarePrelude enters the native arithmetic and comparison rules spec
// §8's worked scenarios depend on (`2 + 3 * 4`, `N is N*2`, `abs X:real is
// if X < 0.0 then -X else X`, ...) into s, one `X:kind op Y:kind is
// builtin Name`-shaped rule per operator per numeric kind. Each rule's
// body names the same builtin regardless of kind, so which kind-annotated
// candidate the binder actually selects never matters: backend.Dynamic's
// builtin itself inspects the bound operands' runtime kind. Mirrors
// original_source/src/basics.h's registration of native opcodes into the
// root Context at startup; kept separate from the out-of-scope
// math/io/temperature/time_functions/text standard library modules, since
// these are the language's own operators, not library functions.
func DeclarePrelude(s *Scope) {
	for _, kind := range []string{"integer", "real"} {
		declareBinaryOp(s, "+", kind, "Add")
		declareBinaryOp(s, "-", kind, "Sub")
		declareBinaryOp(s, "*", kind, "Mul")
		declareBinaryOp(s, "/", kind, "Div")
		declareBinaryOp(s, "<", kind, "Lt")
		declareBinaryOp(s, "<=", kind, "Le")
		declareBinaryOp(s, ">", kind, "Gt")
		declareBinaryOp(s, ">=", kind, "Ge")
		declareBinaryOp(s, "=", kind, "Eq")
		declareBinaryOp(s, "<>", kind, "Ne")
		declareUnaryOp(s, "-", kind, "Neg")
	}
}

// typed builds the `Name:kind` pattern a prelude rule binds an operand
// with, e.g. typed("X", "integer") for `X:integer`.
func typed(name, kind string) tree.Node {
	return tree.NewInfix(":", tree.NewName(name, tree.NoPos), tree.NewName(kind, tree.NoPos), tree.NoPos)
}

// builtinBody builds the `builtin Name` rule body a prelude rule
// delegates to.
func builtinBody(name string) tree.Node {
	return tree.NewPrefix(tree.NewName("builtin", tree.NoPos), tree.NewName(name, tree.NoPos), tree.NoPos)
}

func declareBinaryOp(s *Scope, symbol, kind, builtin string) {
	pattern := tree.NewInfix(symbol, typed("X", kind), typed("Y", kind), tree.NoPos)
	Enter(s, tree.NewInfix("is", pattern, builtinBody(builtin), tree.NoPos), false)
}

func declareUnaryOp(s *Scope, symbol, kind, builtin string) {
	pattern := tree.NewPrefix(tree.NewName(symbol, tree.NoPos), typed("X", kind), tree.NoPos)
	Enter(s, tree.NewInfix("is", pattern, builtinBody(builtin), tree.NoPos), false)
}
