package fsm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerDeterministicTrace(t *testing.T) {
	a := mustDFA(t, []string{"A", "B"}, "ab", "A", []string{"B"},
		r("A", 'a', "B"), r("A", 'b', "A"), r("B", 'a', "A"), r("B", 'b', "B"))

	runner := NewRunner(a)
	assert.Equal(t, "A", runner.CurrentState())

	trace, err := runner.Run("abb")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "B", "B"}, trace)
	assert.True(t, runner.IsAccepting())

	history := runner.History()
	require.Len(t, history, 3)
	assert.Equal(t, "{A}", history[0].From.String())
	assert.Equal(t, 'a', history[0].Symbol)
	assert.Equal(t, "{B}", history[0].To.String())

	runner.Reset()
	assert.Equal(t, "A", runner.CurrentState())
	assert.Empty(t, runner.History())
}

func TestRunnerUnknownSymbol(t *testing.T) {
	a := mustDFA(t, []string{"A"}, "a", "A", nil, r("A", 'a', "A"))

	runner := NewRunner(a)
	trace, err := runner.Run("aaz")
	assert.True(t, errors.Is(err, ErrUnknownSymbol))
	assert.Equal(t, []string{"A", "A"}, trace)
	assert.Len(t, runner.History(), 2)

	_, err = Accepts(a, "z")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestRunnerMultipleTargets(t *testing.T) {
	// s0 on a may go to either s1 or s2.
	a := mustNFA(t, []string{"s0", "s1", "s2"}, "abc", "s0", []string{"s2"},
		r("s0", 'a', "s1", "s2"), r("s1", 'b', "s0"), r("s2", 'c', "s0"))

	runner := NewRunner(a)
	require.NoError(t, runner.Step('a'))
	assert.Equal(t, []string{"s1", "s2"}, runner.Current().Members())
	assert.Equal(t, "{s1, s2}", runner.CurrentState())
	assert.True(t, runner.IsAccepting())
	assert.Equal(t, []rune{'b', 'c'}, runner.AvailableSymbols())

	// No move from either state on a: the set empties.
	require.NoError(t, runner.Step('a'))
	assert.Equal(t, 0, runner.Current().Len())
	assert.Equal(t, "{}", runner.CurrentState())
	assert.False(t, runner.IsAccepting())
	assert.Empty(t, runner.AvailableSymbols())
}

func TestAcceptsEmptyInput(t *testing.T) {
	a := mustDFA(t, []string{"A", "B"}, "a", "A", []string{"A"}, r("A", 'a', "B"), r("B", 'a', "A"))

	ok, err := Accepts(a, "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Accepts(a, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
