package fsm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rule is a test shorthand for from --symbol--> to.
type rule struct {
	from   string
	symbol rune
	to     []string
}

func r(from string, symbol rune, to ...string) rule {
	return rule{from, symbol, to}
}

func buildDelta(t *testing.T, mode Mode, rules ...rule) Delta {
	t.Helper()
	b := NewDeltaBuilder(mode)
	for _, x := range rules {
		require.NoError(t, b.Add(x.from, x.symbol, x.to...))
	}
	return b.Build()
}

func mustDFA(t *testing.T, states []string, alphabet string, start string, finals []string, rules ...rule) *Automaton {
	t.Helper()
	a, err := New(states, []rune(alphabet), buildDelta(t, Deterministic, rules...), start, finals)
	require.NoError(t, err)
	return a
}

func mustNFA(t *testing.T, states []string, alphabet string, start string, finals []string, rules ...rule) *Automaton {
	t.Helper()
	a, err := New(states, []rune(alphabet), buildDelta(t, NonDeterministic, rules...), start, finals)
	require.NoError(t, err)
	return a
}

func TestNewMovesStartStateToFront(t *testing.T) {
	rules := []rule{
		r("S0", 'a', "S1"), r("S1", 'a', "S2"), r("S2", 'a', "S0"),
	}

	tests := []struct {
		name   string
		states []string
		start  string
		want   []string
	}{
		{"already first", []string{"S0", "S1", "S2"}, "S0", []string{"S0", "S1", "S2"}},
		{"middle", []string{"S0", "S1", "S2"}, "S1", []string{"S1", "S0", "S2"}},
		{"last", []string{"S0", "S1", "S2"}, "S2", []string{"S2", "S1", "S0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustDFA(t, tt.states, "a", tt.start, nil, rules...)
			assert.Equal(t, tt.want, a.States())
			assert.Equal(t, tt.start, a.States()[0])
			assert.Equal(t, 0, a.StateIndex(tt.start))
		})
	}
}

func TestNewDoesNotAliasInput(t *testing.T) {
	states := []string{"B", "A"}
	a := mustDFA(t, states, "x", "A", []string{"A"}, r("A", 'x', "B"), r("B", 'x', "A"))

	assert.Equal(t, []string{"B", "A"}, states, "input slice must not be reordered")
	got := a.States()
	got[0] = "Z"
	assert.Equal(t, "A", a.States()[0])
}

func TestNewDeduplicatesAndSorts(t *testing.T) {
	a := mustDFA(t, []string{"A", "B", "A"}, "bab", "A", []string{"B", "B"},
		r("A", 'a', "B"), r("A", 'b', "A"), r("B", 'a', "A"), r("B", 'b', "B"))

	assert.Equal(t, []string{"A", "B"}, a.States())
	assert.Equal(t, []rune{'a', 'b'}, a.Alphabet())
	assert.Equal(t, []string{"B"}, a.Finals())
	assert.True(t, a.InAlphabet('b'))
	assert.False(t, a.InAlphabet('c'))
}

func TestNewFailsWithoutPartialValue(t *testing.T) {
	a, err := New([]string{"A"}, []rune("a"), buildDelta(t, Deterministic), "A", nil)
	assert.Nil(t, a)

	var semErr *SemanticError
	require.True(t, errors.As(err, &semErr))
	assert.Equal(t, MissingStateTransitions, semErr.Reason)
}

func TestDeltaBuilderDuplicateDeterministic(t *testing.T) {
	b := NewDeltaBuilder(Deterministic)
	require.NoError(t, b.Add("A", 'a', "B"))

	err := b.Add("A", 'a', "A")
	var semErr *SemanticError
	require.True(t, errors.As(err, &semErr))
	assert.Equal(t, DuplicateTransition, semErr.Reason)
	assert.Equal(t, "A", semErr.State)
	assert.Equal(t, 'a', semErr.Symbol)

	assert.Error(t, b.Add("B", 'a'), "deterministic rule without target")
	assert.Error(t, b.Add("B", 'b', "A", "B"), "deterministic rule with two targets")
}

func TestDeltaBuilderNonDeterministicUnion(t *testing.T) {
	b := NewDeltaBuilder(NonDeterministic)
	require.NoError(t, b.Add("A", 'a', "B"))
	require.NoError(t, b.Add("A", 'a', "A", "B"))
	require.NoError(t, b.Add("C", 'a'))
	d := b.Build()

	assert.Equal(t, []string{"A", "B"}, d.Targets("A", 'a'))
	assert.True(t, d.Has("C", 'a'))
	assert.Empty(t, d.Targets("C", 'a'))
	assert.True(t, d.HasState("C"))
	assert.False(t, d.Has("B", 'a'))
	assert.Equal(t, NonDeterministic, d.Mode())
	assert.Equal(t, []Key{{"A", 'a'}, {"C", 'a'}}, d.Keys())
}

func TestTransitionsCanonicalOrder(t *testing.T) {
	a := mustDFA(t, []string{"A", "B"}, "ab", "B", []string{"A"},
		r("A", 'b', "A"), r("A", 'a', "B"), r("B", 'a', "A"), r("B", 'b', "B"))

	want := []Transition{
		{"B", 'a', "A"}, {"B", 'b', "B"},
		{"A", 'a', "B"}, {"A", 'b', "A"},
	}
	assert.Equal(t, want, a.Transitions())

	to, ok := a.Target("B", 'a')
	assert.True(t, ok)
	assert.Equal(t, "A", to)
	_, ok = a.Target("B", 'z')
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("NFA")
	require.NoError(t, err)
	assert.Equal(t, NonDeterministic, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Deterministic, m)

	_, err = ParseMode("moore")
	assert.Error(t, err)
	assert.Equal(t, "nfa", NonDeterministic.String())
}
