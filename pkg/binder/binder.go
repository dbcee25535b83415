// Package binder implements the rewrite-call binder described in spec
// §4.6: for a given expression, enumerate the rule declarations whose
// defined form could match it (via context.Lookup under the
// expression's hash bucket), and for each one recursively structurally
// match the pattern against the actual value, producing a binding
// strength, captured argument bindings, and any runtime conditions that
// must hold before the rule is allowed to fire.
//
// Grounded on original_source/src/context.cpp's candidate-matching walk
// (the part of Context::Lookup that existing XL interpreters call
// "form matching") and on pkg/context's Lookup/RewriteDefined, which this
// package composes rather than duplicates.
package binder

import (
	"github.com/c3d/elfe/pkg/context"
	"github.com/c3d/elfe/pkg/tree"
	"github.com/c3d/elfe/pkg/types"
)

// Strength ranks how confidently a candidate's pattern matched.
type Strength int

const (
	Failed Strength = iota
	Possible
	Perfect
)

func (s Strength) String() string {
	switch s {
	case Failed:
		return "failed"
	case Possible:
		return "possible"
	default:
		return "perfect"
	}
}

// weaker returns the lesser of two strengths, used when a compound
// pattern's match strength is the combination of its parts.
func weaker(a, b Strength) Strength {
	if a < b {
		return a
	}
	return b
}

// RewriteBinding captures one pattern variable's bound value.
type RewriteBinding struct {
	Name  string
	Value tree.Node
}

// ConditionKind distinguishes the two shapes of runtime condition a
// candidate can impose.
type ConditionKind int

const (
	// EqualCondition requires two values to be equal at evaluation time
	// (e.g. a repeated pattern variable, or a literal matched against a
	// value whose type only unifies rather than being identical).
	EqualCondition ConditionKind = iota
	// GuardCondition requires a guard expression (`when G`) to evaluate
	// to boolean true.
	GuardCondition
	// KindCondition requires a value to have a specific tree.Kind,
	// produced when a pattern's static shape unified with the generic
	// "infix"/"prefix"/"postfix"/etc. type rather than matching literally.
	KindCondition
)

// RuntimeCondition is one condition that must hold for a candidate to be
// allowed to fire, checked by the evaluator after binding.
type RuntimeCondition struct {
	Kind  ConditionKind
	Left  tree.Node // EqualCondition: first operand. KindCondition: the value to check.
	Right tree.Node // EqualCondition: second operand. GuardCondition: the guard expression.
	Want  tree.Kind // KindCondition: the required kind.
}

// RewriteCandidate is one rule declaration's match result against a call
// site's actual value.
type RewriteCandidate struct {
	Decl       *tree.Infix
	Strength   Strength
	Bindings   []RewriteBinding
	Conditions []RuntimeCondition
	ReturnType tree.Node
}

func (c *RewriteCandidate) bind(name string, value tree.Node) {
	for _, b := range c.Bindings {
		if b.Name == name {
			return
		}
	}
	c.Bindings = append(c.Bindings, RewriteBinding{Name: name, Value: value})
}

func (c *RewriteCandidate) lookupBinding(name string) (tree.Node, bool) {
	for _, b := range c.Bindings {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

// Candidates enumerates every rule declaration in scope (innermost first)
// whose defined form hashes to the same bucket as expr, and binds each
// one against expr's actual value. Enumeration stops as soon as a Perfect
// candidate is produced, per spec §4.6 ("candidates of strength Perfect
// short-circuit further candidate enumeration for that call site").
func Candidates(scope *context.Scope, expr tree.Node, env *types.Env) []*RewriteCandidate {
	var out []*RewriteCandidate

	context.Lookup(scope, expr, func(_, _ *context.Scope, what tree.Node, decl *tree.Infix) tree.Node {
		candidate := &RewriteCandidate{Decl: decl}
		// Bind against decl.Left as written, not context.RewriteDefined's
		// stripped form: the "as"/":"/"when" wrappers RewriteDefined
		// peels off for hashing purposes still carry real type-check and
		// guard-condition semantics that Bind itself must see.
		candidate.Strength = bind(candidate, decl.Left, what, env, true)
		if candidate.Strength != Failed {
			out = append(out, candidate)
		}
		if candidate.Strength == Perfect {
			return decl // non-nil short-circuits context.Lookup's walk
		}
		return nil
	}, true)

	return out
}

// Bind is the recursive structural matcher of spec §4.6's table: it walks
// form (a rule's pattern, or a piece of one) against value (the actual
// tree being evaluated), recording bindings and conditions into candidate,
// and returns the strength of the match. Called directly (as opposed to
// through Candidates), form is treated as an argument-position pattern,
// never as a rule's own head symbol — see bind's atHead parameter for the
// distinction.
func Bind(candidate *RewriteCandidate, form, value tree.Node, env *types.Env) Strength {
	return bind(candidate, form, value, env, false)
}

// bind is Bind's actual implementation. atHead is true only for the very
// first call Candidates makes against a rule's full pattern: it is what
// lets a bare `Name n` pattern be told apart from an ordinary parameter
// — at the head, `n` must be the declared symbol's own name (spec §4.6:
// "if n is the defined-name of the rule... PERFECT"); everywhere else a
// bare name is a parameter to bind. The as/when/block wrappers are
// transparent to this distinction, so they propagate atHead unchanged;
// Prefix/Infix/Postfix always bind their operand positions with
// atHead=false.
func bind(candidate *RewriteCandidate, form, value tree.Node, env *types.Env, atHead bool) Strength {
	switch f := form.(type) {
	case *tree.Integer:
		if v, ok := tree.AsInteger(value); ok {
			if v.Value == f.Value {
				return Perfect
			}
			return Failed
		}
		return bindAgainstUnifiableLiteral(candidate, form, value, env)

	case *tree.Real:
		if v, ok := tree.AsReal(value); ok {
			if v.Value == f.Value {
				return Perfect
			}
			return Failed
		}
		return bindAgainstUnifiableLiteral(candidate, form, value, env)

	case *tree.Text:
		if v, ok := tree.AsText(value); ok {
			if v.Value == f.Value {
				return Perfect
			}
			return Failed
		}
		return bindAgainstUnifiableLiteral(candidate, form, value, env)

	case *tree.Name:
		if atHead {
			return bindHeadName(f, value)
		}
		return bindName(candidate, f, value, env)

	case *tree.Infix:
		switch f.Name {
		case "as", ":":
			// A concrete type annotation (":integer", ":real", ...) must
			// reject a value of the wrong kind outright rather than fall
			// through to bindName's unconditional Perfect: an un-reduced
			// compound sub-expression (e.g. `3 * 4` bound against `Y:integer`)
			// needs to come back Failed here so step 6 of evaluation reduces
			// it first, instead of being accepted as-is.
			if typeName, ok := tree.AsName(f.Right); ok {
				if want, concrete := types.KindOf(typeName.Value); concrete && value.Kind() != want {
					return Failed
				}
			}
			if env != nil {
				env.AssignType(f.Left, f.Right)
			}
			strength := bind(candidate, f.Left, value, env, atHead)
			if strength == Failed {
				return Failed
			}
			if env != nil && !env.Unify(env.Type(value), f.Right) {
				return Failed
			}
			return strength

		case "when":
			strength := bind(candidate, f.Left, value, env, atHead)
			if strength == Failed {
				return Failed
			}
			candidate.Conditions = append(candidate.Conditions, RuntimeCondition{
				Kind:  GuardCondition,
				Right: f.Right,
			})
			return weaker(strength, Possible)

		default:
			return bindInfix(candidate, f, value, env)
		}

	case *tree.Prefix:
		if v, ok := tree.AsPrefix(value); ok {
			if headsMatch(f.Left, v.Left) {
				return bind(candidate, f.Right, v.Right, env, false)
			}
		}
		return Failed

	case *tree.Postfix:
		if v, ok := tree.AsPostfix(value); ok {
			if headsMatch(f.Right, v.Right) {
				return bind(candidate, f.Left, v.Left, env, false)
			}
		}
		return Failed

	case *tree.Block:
		return bind(candidate, f.Child, value, env, atHead)
	}

	return Failed
}

// bindHeadName matches a rule's own bare-name pattern against the call
// site's value: they must literally be the same name, since the hash
// bucket that brought this candidate into play was computed from that
// name in the first place.
func bindHeadName(f *tree.Name, value tree.Node) Strength {
	v, ok := tree.AsName(value)
	if !ok || v.Value != f.Value {
		return Failed
	}
	return Perfect
}

// headsMatch reports whether two prefix/postfix "operator" sides are the
// same literal name, the condition spec §4.6 calls "the same head name".
func headsMatch(a, b tree.Node) bool {
	an, aok := tree.AsName(a)
	bn, bok := tree.AsName(b)
	return aok && bok && an.Value == bn.Value
}

// bindName implements the Name-pattern row of spec §4.6's table: a bare
// name in a pattern is either an already-bound pattern variable (an
// equality condition against the new value) or a fresh binding. The
// rule's own head symbol is matched by bindHeadName, not here.
func bindName(candidate *RewriteCandidate, f *tree.Name, value tree.Node, env *types.Env) Strength {
	if prior, ok := candidate.lookupBinding(f.Value); ok {
		candidate.Conditions = append(candidate.Conditions, RuntimeCondition{
			Kind:  EqualCondition,
			Left:  prior,
			Right: value,
		})
		return Possible
	}

	candidate.bind(f.Value, value)
	if env != nil {
		env.AssignType(f, env.Type(value))
	}
	return Perfect
}

// bindAgainstUnifiableLiteral handles a literal pattern matched against a
// non-literal value: if the value's inferred type unifies with the
// literal's own type, the match is allowed but becomes Possible and gains
// a runtime equality condition; otherwise it fails outright.
func bindAgainstUnifiableLiteral(candidate *RewriteCandidate, form, value tree.Node, env *types.Env) Strength {
	if env == nil {
		return Failed
	}
	if !env.Unify(env.Type(form), env.Type(value)) {
		return Failed
	}
	candidate.Conditions = append(candidate.Conditions, RuntimeCondition{
		Kind:  EqualCondition,
		Left:  form,
		Right: value,
	})
	return Possible
}

// bindInfix implements the `L op R` row: if value is literally that same
// infix shape, bind both sides and combine strengths. Otherwise, if the
// generic "infix" type can unify with value's type, fall back to a
// runtime kind check plus extraction of value's own left/name/right.
func bindInfix(candidate *RewriteCandidate, f *tree.Infix, value tree.Node, env *types.Env) Strength {
	if v, ok := tree.AsInfix(value); ok && v.Name == f.Name {
		left := Bind(candidate, f.Left, v.Left, env)
		if left == Failed {
			return Failed
		}
		right := Bind(candidate, f.Right, v.Right, env)
		if right == Failed {
			return Failed
		}
		return weaker(left, right)
	}

	if env == nil {
		return Failed
	}
	if !env.Unify(env.Type(tree.NewName("infix", tree.NoPos)), env.Type(value)) {
		return Failed
	}
	candidate.Conditions = append(candidate.Conditions, RuntimeCondition{
		Kind:  KindCondition,
		Left:  value,
		Want:  tree.InfixKind,
	})
	left := Bind(candidate, f.Left, value, env)
	right := Bind(candidate, f.Right, value, env)
	return weaker(Possible, weaker(left, right))
}

// isEagerShape reports whether a bound value's syntactic shape is one
// spec §4.6 says must not be evaluated eagerly: an indent/braces block, a
// statement sequence, or a function literal.
func isEagerShape(value tree.Node) bool {
	switch v := value.(type) {
	case *tree.Block:
		return true
	case *tree.Infix:
		return v.Name == ";" || v.Name == "\n" || v.Name == "is"
	}
	return false
}

// Closure wraps binding in a closure over scope if its value's shape
// demands lazy evaluation, per spec §4.6's Closure(binding) rule;
// otherwise it returns the value unchanged.
func Closure(scope *context.Scope, binding RewriteBinding) tree.Node {
	if !isEagerShape(binding.Value) {
		return binding.Value
	}
	closed := tree.NewPrefix(tree.NewName("#scope", tree.NoPos), binding.Value, binding.Value.Position())
	closed.SetInfo(&tree.ClosureInfo{Scope: scope})
	return closed
}
