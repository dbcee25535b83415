// Package types implements the Hindley-Milner-style type environment
// described in spec §4.5: an expression-to-type map plus a union-find over
// type names, generic type variables spelled with a leading "#", and the
// universal "tree" type whose unification against a specialized kind
// (integer, real, text, name, block, prefix, postfix, infix) never fails
// but records a runtime kind condition for the evaluator/backend to check.
//
// Grounded on original_source's type-inference design notes (context.h,
// "types map expr to Tree, unifications map Tree to Tree via union-find").
// github.com/chewxy/hm was considered (it appears in the example pack) and
// rejected: its Substitutable interface has no notion of a kind condition
// against a closed tree-variant set, so reusing it would mean fighting its
// model rather than using it — this package is hand-rolled union-find on
// the standard library only, documented in DESIGN.md with that
// justification.
package types

import (
	"fmt"

	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/tree"
)

// specializedKinds maps a builtin type name to the tree.Kind it constrains
// values to when unified against the universal "tree" type.
var specializedKinds = map[string]tree.Kind{
	"integer": tree.IntegerKind,
	"real":    tree.RealKind,
	"text":    tree.TextKind,
	"name":    tree.NameKind,
	"block":   tree.BlockKind,
	"prefix":  tree.PrefixKind,
	"postfix": tree.PostfixKind,
	"infix":   tree.InfixKind,
}

// treeTypeName is the universal type that matches any tree kind.
const treeTypeName = "tree"

// KindCondition records that a call site matched the universal "tree" type
// against a specialized kind: the evaluator/backend must check at runtime
// that the actual value has that kind.
type KindCondition struct {
	TypeKey string
	Kind    tree.Kind
}

// Env is one type environment: the expr→type cache plus the union-find of
// type names. Scoped the same way evaluation is (a fresh Env per top-level
// unit is typical; nothing here is tied to a lexical scope).
type Env struct {
	exprTypes map[tree.Node]tree.Node
	parent    map[string]string
	rep       map[string]tree.Node
	kindConds map[string]tree.Kind
	sink      *errs.Sink
	fresh     int
}

// NewEnv creates an empty type environment reporting unification failures
// into sink.
func NewEnv(sink *errs.Sink) *Env {
	return &Env{
		exprTypes: map[tree.Node]tree.Node{},
		parent:    map[string]string{},
		rep:       map[string]tree.Node{},
		kindConds: map[string]tree.Kind{},
		sink:      sink,
	}
}

// Fresh returns a new generic type variable, distinct from every other
// variable this Env has produced.
func (e *Env) Fresh() tree.Node {
	e.fresh++
	return tree.NewName(fmt.Sprintf("#%d", e.fresh), tree.NoPos)
}

// IsGeneric reports whether t is a generic type variable (its name begins
// with "#").
func IsGeneric(t tree.Node) bool {
	n, ok := tree.AsName(t)
	return ok && len(n.Value) > 0 && n.Value[0] == '#'
}

// key canonicalizes a type tree to the string the union-find is keyed on.
// Type trees in this core are always flat Name nodes (builtin names,
// generic variables, or user type names); a structural Sprint is exact and
// cheap for that shape, and is what lets two distinct tree.Node pointers
// spelling the same type name compare equal, per Design Notes §9.
func key(t tree.Node) string { return tree.Sprint(t) }

func (e *Env) find(k string) string {
	parent, ok := e.parent[k]
	if !ok {
		e.parent[k] = k
		e.rep[k] = nil
		return k
	}
	if parent == k {
		return k
	}
	root := e.find(parent)
	e.parent[k] = root
	return root
}

// representative returns the canonical tree for t's union-find root,
// registering t itself the first time its key is seen.
func (e *Env) representative(t tree.Node) tree.Node {
	k := key(t)
	root := e.find(k)
	if e.rep[root] == nil {
		e.rep[root] = t
	}
	return e.rep[root]
}

// Unify merges t1 and t2's type classes, applying the kind-condition rule
// when one side is the universal "tree" type and the other is a
// specialized kind name. Two distinct non-generic, non-"tree" names fail
// to unify; any pairing involving a generic variable succeeds by joining
// the generic into the other side's class (or, if both are generic, into
// either — both already denote "some type", so the choice is arbitrary).
func (e *Env) Unify(t1, t2 tree.Node) bool {
	k1, k2 := key(t1), key(t2)
	r1, r2 := e.find(k1), e.find(k2)
	if e.rep[r1] == nil {
		e.rep[r1] = t1
	}
	if e.rep[r2] == nil {
		e.rep[r2] = t2
	}
	if r1 == r2 {
		return true
	}

	rep1, rep2 := e.rep[r1], e.rep[r2]
	n1, isName1 := tree.AsName(rep1)
	n2, isName2 := tree.AsName(rep2)

	switch {
	case isName1 && n1.Value == treeTypeName && isName2:
		if kind, ok := specializedKinds[n2.Value]; ok {
			e.kindConds[r2] = kind
		}
		e.union(r1, r2, rep2)
		return true

	case isName2 && n2.Value == treeTypeName && isName1:
		if kind, ok := specializedKinds[n1.Value]; ok {
			e.kindConds[r1] = kind
		}
		e.union(r2, r1, rep1)
		return true

	case IsGeneric(rep1):
		e.union(r1, r2, rep2)
		return true

	case IsGeneric(rep2):
		e.union(r2, r1, rep1)
		return true

	case tree.Equal(rep1, rep2):
		e.union(r1, r2, rep2)
		return true

	default:
		if e.sink != nil {
			e.sink.Report(errs.Type, errs.Error, t2.Position(),
				"type mismatch: cannot unify $1 with $2").Arg(rep1).Arg(rep2)
		}
		return false
	}
}

// union makes newRoot's class point at oldRoot's class, with canonical
// representative rep.
func (e *Env) union(newRoot, oldRoot string, rep tree.Node) {
	e.parent[newRoot] = oldRoot
	e.rep[oldRoot] = rep
}

// KindConditionFor reports the runtime kind check recorded for t's type
// class, if unifying it against "tree" ever narrowed it to a specialized
// kind.
func (e *Env) KindConditionFor(t tree.Node) (tree.Kind, bool) {
	root := e.find(key(t))
	kind, ok := e.kindConds[root]
	return kind, ok
}

// AssignType records T as expr's type if expr has none yet, or unifies
// expr's existing type with T otherwise.
func (e *Env) AssignType(expr, t tree.Node) bool {
	existing, ok := e.exprTypes[expr]
	if !ok {
		e.exprTypes[expr] = t
		return true
	}
	return e.Unify(existing, t)
}

// Type returns expr's inferred type, computing it lazily: literals get
// their builtin type, names get their cached type or a fresh generic.
// Compound expressions (Block/Prefix/Postfix/Infix) are typed by the
// rewrite-call binder, which calls AssignType once it has bound candidate
// bodies; Type only returns what has already been recorded for them.
func (e *Env) Type(expr tree.Node) tree.Node {
	if t, ok := e.exprTypes[expr]; ok {
		return e.representative(t)
	}

	var t tree.Node
	switch expr.(type) {
	case *tree.Integer:
		t = tree.NewName("integer", tree.NoPos)
	case *tree.Real:
		t = tree.NewName("real", tree.NoPos)
	case *tree.Text:
		t = tree.NewName("text", tree.NoPos)
	case *tree.Name:
		t = e.Fresh()
	default:
		// A compound expression (Block/Prefix/Postfix/Infix) not yet typed
		// by the binder gets the universal "tree" type, per this package's
		// own contract: unifying it against a specialized kind never fails,
		// it just narrows via a kind condition.
		t = tree.NewName(treeTypeName, tree.NoPos)
	}

	e.exprTypes[expr] = t
	return t
}

// KindOf reports the tree.Kind a builtin type name constrains values to
// (e.g. "integer" -> tree.IntegerKind), or false for a generic variable or
// a user-defined type name with no fixed kind.
func KindOf(name string) (tree.Kind, bool) {
	kind, ok := specializedKinds[name]
	return kind, ok
}
