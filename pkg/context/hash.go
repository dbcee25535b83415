package context

import (
	"math"

	"github.com/c3d/elfe/pkg/tree"
)

// Hash computes the bucket index used to place/find n in a scope's rewrite
// tree. Grounded exactly on original_source/src/context.cpp's
// Context::Hash: a 32-bit hash seeded per node kind, mixed with a
// kind-specific contribution, using uint32 throughout so Rehash's rotate
// matches the original's 32-bit unsigned arithmetic bit for bit.
func Hash(n tree.Node) uint32 {
	const base = 0xC0DED
	const mult = 0x29912837

	h := uint32(base) + uint32(mult)*uint32(n.Kind())

	switch t := n.(type) {
	case *tree.Integer:
		h += uint32(t.Value)
	case *tree.Real:
		bits := math.Float64bits(t.Value)
		h += uint32(bits) + uint32(bits>>32)
	case *tree.Text:
		h += HashText(t.Value)
	case *tree.Name:
		h += HashText(t.Value)
	case *tree.Block:
		h += HashText(t.Opening)
	case *tree.Infix:
		h += HashText(t.Name)
	case *tree.Prefix:
		if name, ok := tree.AsName(t.Left); ok {
			h += HashText(name.Value)
		}
	case *tree.Postfix:
		if name, ok := tree.AsName(t.Right); ok {
			h += HashText(name.Value)
		}
	}

	return h
}

// HashText folds at most the first eight bytes of t into a running hash,
// matching Context::HashText's byte-at-a-time multiply-xor.
func HashText(t string) uint32 {
	var h uint32
	n := len(t)
	if n > 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		h = (h * 0x301) ^ uint32(t[i])
	}
	return h
}

// Rehash advances h to the value consulted for the next tree level: a
// 32-bit rotate-right-by-one, matching Context::Rehash.
func Rehash(h uint32) uint32 {
	return (h >> 1) | (h << 31)
}

// RewriteDefined extracts the form actually being named by a declaration's
// left-hand side: it repeatedly strips outer "as"/":" type annotations
// and "when" guards (keeping the left side) and outer Blocks (keeping
// their child), in any nesting order, until none is left. Mirrors
// original_source/src/context.h's RewriteDefined.
func RewriteDefined(form tree.Node) tree.Node {
	for {
		if infix, ok := tree.AsInfix(form); ok && (infix.Name == "as" || infix.Name == ":" || infix.Name == "when") {
			form = infix.Left
			continue
		}
		if block, ok := tree.AsBlock(form); ok {
			form = block.Child
			continue
		}
		return form
	}
}

// RewriteType extracts the declared type from a form's outer "as"
// annotation, or nil if there is none. Mirrors
// original_source/src/context.h's RewriteType.
func RewriteType(form tree.Node) tree.Node {
	if infix, ok := tree.AsInfix(form); ok && infix.Name == "as" {
		return infix.Right
	}
	return nil
}
