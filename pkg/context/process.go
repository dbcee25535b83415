package context

import "github.com/c3d/elfe/pkg/tree"

// AddData marks form as inert in s: evaluating it should return it
// unchanged rather than reporting a lookup error, per spec §4.7's
// reference to `data A` declarations. Mirrors
// original_source/src/context.h's "data A declares A as a form that
// cannot be reduced further".
func AddData(s *Scope, form tree.Node) { s.data = append(s.data, form) }

// IsData reports whether form was declared inert in s (walking outward
// if recurse).
func IsData(s *Scope, form tree.Node, recurse bool) bool {
	for scope := s; scope != nil; scope = scope.Parent {
		for _, d := range scope.data {
			if tree.Equal(d, form) {
				return true
			}
		}
		if !recurse {
			break
		}
	}
	return false
}

// isSequence reports whether n is a statement-separator infix (";" or
// "\n"), the two operators the parser uses to chain top-level statements.
func isSequence(n tree.Node) (*tree.Infix, bool) {
	infix, ok := tree.AsInfix(n)
	if !ok {
		return nil, false
	}
	if infix.Name == ";" || infix.Name == "\n" {
		return infix, true
	}
	return nil, false
}

// ProcessDeclarations walks root's top-level ";"/"\n" statement chain,
// entering every `Pattern is Body` rewrite rule into s and recording every
// `data Form` statement as inert. It returns whether every statement in
// root was declarative (so a caller evaluating a file can skip straight
// to "nothing left to run" when true). Mirrors
// original_source/src/context.cpp's Context::ProcessDeclarations.
func ProcessDeclarations(s *Scope, root tree.Node) bool {
	if seq, ok := isSequence(root); ok {
		left := ProcessDeclarations(s, seq.Left)
		right := ProcessDeclarations(s, seq.Right)
		return left && right
	}
	return processStatement(s, root)
}

func processStatement(s *Scope, stmt tree.Node) bool {
	switch n := stmt.(type) {
	case *tree.Infix:
		if n.Name == "is" {
			Enter(s, n, false)
			return true
		}
	case *tree.Prefix:
		if head, ok := tree.AsName(n.Left); ok && head.Value == "data" {
			AddData(s, n.Right)
			return true
		}
	}
	return false
}

// Instructions returns the sub-tree of root's top-level ";"/"\n" statement
// chain made up of everything that is not a declaration (neither `Pattern
// is Body` nor `data Form`), rechained in original order, or nil if every
// statement in root was declarative. A caller that already ran
// ProcessDeclarations over root uses this to find what is actually left to
// evaluate, so a `rule is body` statement is never itself re-evaluated as
// an ordinary expression.
func Instructions(root tree.Node) tree.Node {
	if seq, ok := isSequence(root); ok {
		left := Instructions(seq.Left)
		right := Instructions(seq.Right)
		switch {
		case left == nil:
			return right
		case right == nil:
			return left
		default:
			return tree.NewInfix(seq.Name, left, right, seq.Position())
		}
	}
	if isDeclaration(root) {
		return nil
	}
	return root
}

// isDeclaration reports whether stmt has the shape ProcessDeclarations
// treats as declarative, without requiring a *Scope the way
// processStatement does (it never calls Enter/AddData).
func isDeclaration(stmt tree.Node) bool {
	switch n := stmt.(type) {
	case *tree.Infix:
		return n.Name == "is"
	case *tree.Prefix:
		head, ok := tree.AsName(n.Left)
		return ok && head.Value == "data"
	}
	return false
}
