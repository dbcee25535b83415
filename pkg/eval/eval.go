// Package eval implements the tree-rewriting interpreter described in
// spec §4.7: Evaluate(scope, tree) repeatedly looks up candidate rewrite
// rules for a tree, binds and evaluates the first one whose runtime
// conditions hold, and recurses into a compound tree's children when no
// rule matches at all. Grounded on original_source/src/context.cpp's
// evaluation loop and spec.md §4.7's seven-step algorithm; composes
// pkg/context (scope/lookup), pkg/binder (candidate matching), pkg/types
// (type bookkeeping) and pkg/backend (native delegation) rather than
// duplicating any of them.
package eval

import (
	"github.com/c3d/elfe/pkg/backend"
	"github.com/c3d/elfe/pkg/binder"
	"github.com/c3d/elfe/pkg/context"
	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/logger"
	"github.com/c3d/elfe/pkg/tree"
	"github.com/c3d/elfe/pkg/types"
)

// State names the evaluator's call-site state machine, per spec §4.7:
// Unresolved → Bindings-computed → Candidate-selected → Body-evaluated →
// Result-returned, with Evaluation-error as the alternative terminal.
type State int

const (
	Unresolved State = iota
	BindingsComputed
	CandidateSelected
	BodyEvaluated
	ResultReturned
	EvaluationError
)

// Evaluator bundles the pieces Evaluate needs to thread through recursive
// calls: the type environment, the error sink, and the backend a rule
// body may delegate to. Mirrors Design Notes' "thread them through a
// Session value" rather than relying on globals.
type Evaluator struct {
	Types   *types.Env
	Sink    *errs.Sink
	Backend backend.Backend
}

// New creates an Evaluator. backend may be nil, in which case it behaves
// as backend.None (always interpret, never delegate).
func New(env *types.Env, sink *errs.Sink, be backend.Backend) *Evaluator {
	if be == nil {
		be = backend.None{}
	}
	return &Evaluator{Types: env, Sink: sink, Backend: be}
}

// Evaluate runs tree against scope's rewrite rules, following spec
// §4.7's seven steps, and returns the result tree (if no rule ever
// matched, the tree as it stands after step 6 evaluated its children,
// with a lookup error reported unless a data declaration excuses it).
func (e *Evaluator) Evaluate(scope *context.Scope, expr tree.Node) tree.Node {
	result, _ := e.EvaluateState(scope, expr)
	return result
}

// EvaluateState is Evaluate plus the terminal State of the call site's
// state machine (ResultReturned or EvaluationError), for callers — tests,
// a debugger, a REPL — that want to tell "reduced to itself on purpose"
// apart from "no rule ever matched".
func (e *Evaluator) EvaluateState(scope *context.Scope, expr tree.Node) (tree.Node, State) {
	for {
		// Step 1: constants evaluate to themselves.
		if tree.IsConstant(expr) {
			return expr, ResultReturned
		}

		// Step 2: unwrap a closure, switching to its frozen scope.
		if closed, inner, ok := unwrapClosure(expr); ok {
			scope = closed
			expr = inner
			continue
		}

		// `ref := value` is an assignment, not a rewrite call: it has no
		// declared rule to look up, so it is recognized here rather than
		// through the ordinary candidate path (spec §8's declaration
		// scenario: `X:=3` then `Y:=X+1` must see X's stored value).
		if assign, ok := tree.AsInfix(expr); ok && assign.Name == ":=" {
			return e.Assign(scope, assign.Left, assign.Right), ResultReturned
		}

		// "A;B"/"A\nB" is a statement sequence, not a rewrite call: evaluate
		// A for its side effects (assignments, declarations already entered
		// by ProcessDeclarations), then continue with B — the sequence's
		// value is B's.
		if seq, ok := tree.AsInfix(expr); ok && (seq.Name == ";" || seq.Name == "\n") {
			e.Evaluate(scope, seq.Left)
			expr = seq.Right
			continue
		}

		// Step 3/4: enumerate and select a candidate.
		candidates := binder.Candidates(scope, expr, e.Types)
		candidate := e.selectCandidate(scope, candidates)

		if candidate == nil {
			// Step 6: no rule matched outright; recurse into a compound's
			// children and retry once if that changed anything.
			if rewritten, changed := e.evaluateChildren(scope, expr); changed {
				expr = rewritten
				continue
			}

			// Step 7: nothing left to try. A `data` declaration makes an
			// unreduced form legitimate; otherwise report a lookup error.
			if context.IsData(scope, expr, true) {
				return expr, ResultReturned
			}
			if e.Sink != nil {
				e.Sink.Report(errs.Lookup, errs.Error, expr.Position(), "no rewrite rule matches $1").Arg(expr)
			}
			return expr, EvaluationError
		}

		// Delegate to the backend when the body says so; otherwise bind
		// and recurse into the pure-interpreter path.
		if handled, result := e.tryBackend(scope, candidate); handled {
			return result, BodyEvaluated
		}

		childScope := context.CreateScope(scope)
		for _, b := range candidate.Bindings {
			// A value that is not deferred in a closure is evaluated in the
			// caller's scope, so binding n to n-1 never refers to itself
			// once the body runs in childScope.
			value := binder.Closure(scope, b)
			if value == b.Value {
				value = e.Evaluate(scope, b.Value)
			}
			context.Define(childScope, tree.NewName(b.Name, tree.NoPos), value, true)
		}

		scope = childScope
		expr = candidate.Decl.Right
		// loop back around: Evaluate the body in the fresh scope.
	}
}

// unwrapClosure reports whether expr is a ClosureInfo-marked Prefix and,
// if so, its frozen scope and inner value.
func unwrapClosure(expr tree.Node) (*context.Scope, tree.Node, bool) {
	p, ok := tree.AsPrefix(expr)
	if !ok {
		return nil, nil, false
	}
	info, ok := p.Info(tree.ClosureInfoKind).(*tree.ClosureInfo)
	if !ok {
		return nil, nil, false
	}
	scope, ok := info.Scope.(*context.Scope)
	if !ok {
		return nil, nil, false
	}
	return scope, p.Right, true
}

// selectCandidate walks candidates in declaration order and returns the
// first one whose runtime conditions all hold, short-circuiting on a
// Perfect candidate without checking its conditions against later ones
// first (a Perfect match, by construction, has only guard conditions left
// to check, never an equality mismatch).
func (e *Evaluator) selectCandidate(scope *context.Scope, candidates []*binder.RewriteCandidate) *binder.RewriteCandidate {
	for _, c := range candidates {
		logger.LogBind(tree.Sprint(c.Decl.Left), c.Strength.String())
		if c.Strength == binder.Failed {
			continue
		}
		if e.conditionsHold(scope, c) {
			return c
		}
	}
	return nil
}

// conditionsHold checks every runtime condition a candidate imposed:
// equality checks compare two already-bound trees structurally, kind
// checks compare a value's tree.Kind, and guard conditions evaluate the
// guard expression and require it to reduce to the boolean name "true".
// scope is the call site's scope, so a guard expression (`when n>0`) can
// still see the rules visible there (arithmetic, comparisons, other
// declarations) rather than only the candidate's own bindings.
func (e *Evaluator) conditionsHold(scope *context.Scope, c *binder.RewriteCandidate) bool {
	for _, cond := range c.Conditions {
		switch cond.Kind {
		case binder.EqualCondition:
			if !tree.Equal(cond.Left, cond.Right) {
				return false
			}
		case binder.KindCondition:
			if cond.Left.Kind() != cond.Want {
				return false
			}
		case binder.GuardCondition:
			guardScope := context.CreateScope(scope)
			for _, b := range c.Bindings {
				context.Define(guardScope, tree.NewName(b.Name, tree.NoPos), e.Evaluate(scope, b.Value), true)
			}
			result := e.Evaluate(guardScope, cond.Right)
			name, ok := tree.AsName(result)
			if !ok || name.Value != "true" {
				return false
			}
		}
	}
	return true
}

// evaluateChildren implements spec §4.7 step 6: when no rule matches a
// compound tree outright, evaluate its children and report whether doing
// so changed the tree (by pointer identity of the children), in which
// case the caller should retry rule lookup against the rewritten form.
func (e *Evaluator) evaluateChildren(scope *context.Scope, expr tree.Node) (tree.Node, bool) {
	switch n := expr.(type) {
	case *tree.Prefix:
		left := e.Evaluate(scope, n.Left)
		right := e.Evaluate(scope, n.Right)
		if left == n.Left && right == n.Right {
			return expr, false
		}
		return tree.NewPrefix(left, right, n.Position()), true

	case *tree.Postfix:
		left := e.Evaluate(scope, n.Left)
		right := e.Evaluate(scope, n.Right)
		if left == n.Left && right == n.Right {
			return expr, false
		}
		return tree.NewPostfix(left, right, n.Position()), true

	case *tree.Infix:
		left := e.Evaluate(scope, n.Left)
		right := e.Evaluate(scope, n.Right)
		if left == n.Left && right == n.Right {
			return expr, false
		}
		return tree.NewInfix(n.Name, left, right, n.Position()), true

	case *tree.Block:
		child := e.Evaluate(scope, n.Child)
		if child == n.Child {
			return expr, false
		}
		return tree.NewBlock(child, n.Opening, n.Closing, n.Position()), true
	}
	return expr, false
}

// tryBackend checks whether a candidate's body names a builtin or a C
// call and, if the evaluator's backend can compile it, invokes it;
// handled is false when the body is an ordinary rule body that must be
// interpreted instead.
func (e *Evaluator) tryBackend(scope *context.Scope, c *binder.RewriteCandidate) (handled bool, result tree.Node) {
	body := c.Decl.Right
	if _, isBuiltin := backend.BuiltinName(body); !isBuiltin {
		if _, isCCall := backend.CSymbolName(body); !isCCall {
			return false, nil
		}
	}

	handle, err := e.Backend.Compile(scope, body)
	if err != nil {
		// The backend declined; fall back to interpreting the rule body
		// normally (it will likely itself error, but that is a lookup
		// failure the usual path reports).
		return false, nil
	}

	args := make([]tree.Node, len(c.Bindings))
	for i, b := range c.Bindings {
		args[i] = b.Value
	}
	out, err := e.Backend.Invoke(handle, args...)
	if err != nil {
		if e.Sink != nil {
			e.Sink.Report(errs.Runtime, errs.Error, body.Position(), "native call failed: $1").
				Arg(tree.NewQuotedText(err.Error(), tree.NoPos))
		}
		return true, body
	}
	return true, out
}

// Assign evaluates value in scope, then assigns the result to ref via
// Context.Assign, implementing the `ref := value` end-to-end scenario
// (spec §8.3).
func (e *Evaluator) Assign(scope *context.Scope, ref, value tree.Node) tree.Node {
	result := e.Evaluate(scope, value)
	return context.Assign(scope, ref, result)
}
