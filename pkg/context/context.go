// Package context implements the scope-as-tree symbol table described in
// spec §4.4: each scope is a binary rewrite tree reached by hashing the
// defined form, nested scopes chain to their parent, and lookup walks
// outward from the innermost scope. Grounded on
// original_source/src/context.cpp's Context class; the binary-tree-of-
// rewrites storage is kept deliberately close to the original rather than
// replaced with a Go map, because the hash-guided left/right descent is
// itself part of the spec's contract (a pattern's hash path must match a
// query's hash path).
package context

import (
	"github.com/c3d/elfe/pkg/tree"
)

// rewrite is one entry of a scope's binary lookup tree: a declaration
// (Infix("is", pattern, body)) plus the two children reached by the next
// bit of the rehashed hash, mirroring the original's Rewrite/
// RewriteChildren pair.
type rewrite struct {
	decl        *tree.Infix
	left, right *rewrite
}

// Scope is one level of nested declarations. Scopes form a singly linked
// list toward their parent; the root scope has a nil Parent.
type Scope struct {
	Parent *Scope
	root   *rewrite
	data   []tree.Node
}

// NewScope creates a fresh, empty top-level scope.
func NewScope() *Scope { return &Scope{} }

// CreateScope pushes a new, empty scope in front of parent.
func CreateScope(parent *Scope) *Scope { return &Scope{Parent: parent} }

// PopScope returns s's parent, or s itself if it has none (mirrors
// Context::PopScope's no-op at the top level).
func PopScope(s *Scope) *Scope {
	if s.Parent != nil {
		return s.Parent
	}
	return s
}

// Enter inserts decl (an Infix("is", pattern, body)) into s's local rewrite
// tree, guided by the hash of the form it defines. It returns the existing
// declaration's Infix node, left unchanged, if the same name was already
// bound and overwrite is false; with overwrite true, the existing body is
// replaced in place. Enter itself reports nothing.
func Enter(s *Scope, decl *tree.Infix, overwrite bool) *tree.Infix {
	defined := RewriteDefined(decl.Left)
	definedName, definedIsName := tree.AsName(defined)
	h := Hash(defined)

	parent := &s.root
	for {
		if *parent == nil {
			*parent = &rewrite{decl: decl}
			return decl
		}

		entry := *parent
		if definedIsName {
			existingDefined := RewriteDefined(entry.decl.Left)
			if existingName, ok := tree.AsName(existingDefined); ok && existingName.Value == definedName.Value {
				if overwrite {
					entry.decl.Right = decl.Right
					return entry.decl
				}
				return entry.decl
			}
		}

		if h&1 != 0 {
			parent = &entry.right
		} else {
			parent = &entry.left
		}
		h = Rehash(h)
	}
}

// Define is the Name/value convenience wrapper around Enter, building the
// Infix("is", form, value) declaration itself.
func Define(s *Scope, form, value tree.Node, overwrite bool) *tree.Infix {
	decl := tree.NewInfix("is", form, value, form.Position())
	return Enter(s, decl, overwrite)
}

// lookupFunc is called once per candidate whose hash bucket matches the
// query; returning a non-nil result short-circuits the walk, matching
// Context::lookup_fn.
type lookupFunc func(evalScope, declScope *Scope, what tree.Node, decl *tree.Infix) tree.Node

// Lookup walks scopes from s outward (if recurse), and within each scope
// follows the hash path of what, calling fn on every candidate whose
// declaration hash matches. The first non-nil result from fn is returned.
func Lookup(s *Scope, what tree.Node, fn lookupFunc, recurse bool) tree.Node {
	h0 := Hash(what)

	for scope := s; scope != nil; scope = scope.Parent {
		entry := scope.root
		h := h0
		for entry != nil {
			defined := RewriteDefined(entry.decl.Left)
			if Hash(defined) == h0 {
				if result := fn(s, scope, what, entry.decl); result != nil {
					return result
				}
			}
			if h&1 != 0 {
				entry = entry.right
			} else {
				entry = entry.left
			}
			h = Rehash(h)
		}
		if !recurse {
			break
		}
	}
	return nil
}

// Bound returns the right-hand side of the first declaration in s (walking
// outward if recurse) whose defined form has the same hash as form, or
// nil. The defined form must also equal form when form is a constant or a
// name; for other forms the hash match alone decides.
func Bound(s *Scope, form tree.Node, recurse bool) tree.Node {
	return Lookup(s, form, func(_, _ *Scope, what tree.Node, decl *tree.Infix) tree.Node {
		if tree.IsConstant(what) || what.Kind() == tree.NameKind {
			if !tree.Equal(what, RewriteDefined(decl.Left)) {
				return nil
			}
		}
		return decl.Right
	}, recurse)
}

// Reference returns the declaration Infix bound to form, or nil.
func Reference(s *Scope, form tree.Node, recurse bool) *tree.Infix {
	result := Lookup(s, form, func(_, _ *Scope, what tree.Node, decl *tree.Infix) tree.Node {
		return decl
	}, recurse)
	if decl, ok := result.(*tree.Infix); ok {
		return decl
	}
	return nil
}

// Named is the common case of Bound for a plain identifier.
func Named(s *Scope, name string, recurse bool) tree.Node {
	return Bound(s, tree.NewName(name, tree.NoPos), recurse)
}

// Assign implements `ref := value`: if ref is already declared, its bound
// value is replaced in place, with no check against an `as Type`
// annotation; otherwise a new declaration is created in the innermost
// scope.
func Assign(s *Scope, ref, value tree.Node) tree.Node {
	decl := Reference(s, ref, true)
	if decl == nil {
		if block, ok := tree.AsBlock(ref); ok {
			ref = block.Child
		}
		if typed, ok := tree.AsInfix(ref); ok && typed.Name == ":" {
			typed.Name = "as"
		}
		Define(s, ref, value, true)
		return value
	}
	decl.Right = value
	return value
}

// SetAttribute defines a named attribute (e.g. a pragma or a compiler
// option) in s's innermost scope, the context-level analogue of Define for
// non-pattern declarations.
func SetAttribute(s *Scope, name string, value tree.Node, overwrite bool) *tree.Infix {
	return Define(s, tree.NewName(name, tree.NoPos), value, overwrite)
}

// Attribute looks up a named attribute without recursing into parent
// scopes by default, matching the usual "attributes are scope-local"
// convention; pass recurse=true to search enclosing scopes too.
func Attribute(s *Scope, name string, recurse bool) (tree.Node, bool) {
	v := Named(s, name, recurse)
	return v, v != nil
}

// IsEmpty reports whether s has no local declarations.
func (s *Scope) IsEmpty() bool { return s.root == nil }
