package binder

import (
	"testing"

	"github.com/c3d/elfe/pkg/context"
	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/tree"
	"github.com/c3d/elfe/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv() *types.Env { return types.NewEnv(errs.NewSink()) }

func TestBindLiteralExactMatchIsPerfect(t *testing.T) {
	c := &RewriteCandidate{}
	strength := Bind(c, tree.NewInteger(5, tree.NoPos), tree.NewInteger(5, tree.NoPos), newEnv())
	assert.Equal(t, Perfect, strength)
}

func TestBindLiteralMismatchIsFailed(t *testing.T) {
	c := &RewriteCandidate{}
	strength := Bind(c, tree.NewInteger(5, tree.NoPos), tree.NewInteger(6, tree.NoPos), newEnv())
	assert.Equal(t, Failed, strength)
}

func TestBindNameCreatesBinding(t *testing.T) {
	c := &RewriteCandidate{}
	value := tree.NewInteger(42, tree.NoPos)
	strength := Bind(c, tree.NewName("x", tree.NoPos), value, newEnv())

	require.Equal(t, Perfect, strength)
	require.Len(t, c.Bindings, 1)
	assert.Equal(t, "x", c.Bindings[0].Name)
	assert.Same(t, value, c.Bindings[0].Value)
}

func TestBindRepeatedNameAddsEqualityCondition(t *testing.T) {
	c := &RewriteCandidate{}
	env := newEnv()
	pattern := tree.NewInfix("+", tree.NewName("x", tree.NoPos), tree.NewName("x", tree.NoPos), tree.NoPos)
	value := tree.NewInfix("+", tree.NewInteger(1, tree.NoPos), tree.NewInteger(2, tree.NoPos), tree.NoPos)

	strength := Bind(c, pattern, value, env)

	assert.Equal(t, Possible, strength)
	require.Len(t, c.Conditions, 1)
	assert.Equal(t, EqualCondition, c.Conditions[0].Kind)
}

func TestBindPrefixSameHeadRecurses(t *testing.T) {
	c := &RewriteCandidate{}
	pattern := tree.NewPrefix(tree.NewName("square", tree.NoPos), tree.NewName("x", tree.NoPos), tree.NoPos)
	value := tree.NewPrefix(tree.NewName("square", tree.NoPos), tree.NewInteger(5, tree.NoPos), tree.NoPos)

	strength := Bind(c, pattern, value, newEnv())

	require.Equal(t, Perfect, strength)
	require.Len(t, c.Bindings, 1)
	assert.Equal(t, "x", c.Bindings[0].Name)
}

func TestBindPrefixDifferentHeadFails(t *testing.T) {
	c := &RewriteCandidate{}
	pattern := tree.NewPrefix(tree.NewName("square", tree.NoPos), tree.NewName("x", tree.NoPos), tree.NoPos)
	value := tree.NewPrefix(tree.NewName("cube", tree.NoPos), tree.NewInteger(5, tree.NoPos), tree.NoPos)

	strength := Bind(c, pattern, value, newEnv())
	assert.Equal(t, Failed, strength)
}

func TestBindBlockIsTransparent(t *testing.T) {
	c := &RewriteCandidate{}
	inner := tree.NewName("x", tree.NoPos)
	pattern := tree.NewBlock(inner, "(", ")", tree.NoPos)
	value := tree.NewInteger(7, tree.NoPos)

	strength := Bind(c, pattern, value, newEnv())
	require.Equal(t, Perfect, strength)
	assert.Same(t, value, c.Bindings[0].Value)
}

func TestBindWhenGuardDegradesToPossible(t *testing.T) {
	c := &RewriteCandidate{}
	pattern := tree.NewInfix("when", tree.NewName("x", tree.NoPos), tree.NewName("positive_x", tree.NoPos), tree.NoPos)
	value := tree.NewInteger(5, tree.NoPos)

	strength := Bind(c, pattern, value, newEnv())
	require.Equal(t, Possible, strength)
	require.Len(t, c.Conditions, 1)
	assert.Equal(t, GuardCondition, c.Conditions[0].Kind)
}

func TestBindAsAnnotationUnifiesType(t *testing.T) {
	c := &RewriteCandidate{}
	env := newEnv()
	pattern := tree.NewInfix("as", tree.NewName("x", tree.NoPos), tree.NewName("integer", tree.NoPos), tree.NoPos)
	value := tree.NewInteger(3, tree.NoPos)

	strength := Bind(c, pattern, value, env)
	assert.Equal(t, Perfect, strength)
}

func TestCandidatesStopsAtFirstPerfect(t *testing.T) {
	s := context.NewScope()
	p1 := tree.NewPrefix(tree.NewName("f", tree.NoPos), tree.NewInteger(1, tree.NoPos), tree.NoPos)
	b1 := tree.NewInteger(100, tree.NoPos)
	context.Enter(s, tree.NewInfix("is", p1, b1, tree.NoPos), false)

	p2 := tree.NewPrefix(tree.NewName("f", tree.NoPos), tree.NewName("n", tree.NoPos), tree.NoPos)
	b2 := tree.NewInteger(200, tree.NoPos)
	context.Enter(s, tree.NewInfix("is", p2, b2, tree.NoPos), false)

	call := tree.NewPrefix(tree.NewName("f", tree.NoPos), tree.NewInteger(1, tree.NoPos), tree.NoPos)
	candidates := Candidates(s, call, newEnv())

	require.NotEmpty(t, candidates)
	assert.Equal(t, Perfect, candidates[0].Strength)
}

func TestCandidatesMatchesZeroArgRuleByNameNotByBinding(t *testing.T) {
	s := context.NewScope()
	context.Enter(s, tree.NewInfix("is", tree.NewName("pi", tree.NoPos), tree.NewReal(3.14, tree.NoPos), tree.NoPos), false)

	call := tree.NewName("pi", tree.NoPos)
	candidates := Candidates(s, call, newEnv())

	require.Len(t, candidates, 1)
	assert.Equal(t, Perfect, candidates[0].Strength)
	assert.Empty(t, candidates[0].Bindings, "a zero-arg rule's own name must not become a parameter binding")
}

func TestClosureWrapsBlockButNotPlainValue(t *testing.T) {
	s := context.NewScope()
	blockValue := tree.NewBlock(tree.NewInteger(1, tree.NoPos), "(", ")", tree.NoPos)
	wrapped := Closure(s, RewriteBinding{Name: "b", Value: blockValue})
	_, isPrefix := tree.AsPrefix(wrapped)
	assert.True(t, isPrefix)

	plainValue := tree.NewInteger(9, tree.NoPos)
	unwrapped := Closure(s, RewriteBinding{Name: "p", Value: plainValue})
	assert.Same(t, plainValue, unwrapped)
}
