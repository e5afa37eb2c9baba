package fsm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterminizeSingleSymbol(t *testing.T) {
	nfa := mustNFA(t, []string{"A", "B"}, "a", "A", []string{"B"}, r("A", 'a', "A", "B"))

	dfa := Determinize(nfa)

	assert.Equal(t, Deterministic, dfa.Mode())
	assert.Equal(t, "{A}", dfa.Start())
	assert.Equal(t, "{A}", dfa.States()[0])
	assert.Len(t, dfa.States(), 4)

	to, ok := dfa.Target("{A}", 'a')
	require.True(t, ok)
	assert.Equal(t, "{A, B}", to)

	assert.True(t, dfa.IsAccepting("{A, B}"))
	to, _ = dfa.Target("{A, B}", 'a')
	assert.Equal(t, "{A, B}", to)

	assert.Contains(t, dfa.States(), "{}")
	assert.False(t, dfa.IsAccepting("{}"))
	to, _ = dfa.Target("{}", 'a')
	assert.Equal(t, "{}", to)

	// B has no rule on a.
	assert.True(t, dfa.IsAccepting("{B}"))
	to, _ = dfa.Target("{B}", 'a')
	assert.Equal(t, "{}", to)

	assert.False(t, dfa.IsAccepting("{A}"))
}

func TestDeterminizeStateOrder(t *testing.T) {
	nfa := mustNFA(t, []string{"A", "B"}, "a", "A", []string{"B"}, r("A", 'a', "A", "B"))

	// Index order {}, {B}, {A}, {A, B} with the start swapped to the front.
	assert.Equal(t, []string{"{A}", "{B}", "{}", "{A, B}"}, Determinize(nfa).States())
}

func TestDeterminizePowerSetSize(t *testing.T) {
	for n := 1; n <= 6; n++ {
		states := make([]string, n)
		var rules []rule
		for i := range states {
			states[i] = string(rune('A' + i))
		}
		for i := range states {
			rules = append(rules, r(states[i], 'x', states[(i+1)%n], states[0]))
		}
		nfa := mustNFA(t, states, "xy", "A", []string{states[n-1]}, rules...)

		dfa := Determinize(nfa)
		assert.Len(t, dfa.States(), 1<<n, "n=%d", n)
		assert.NoError(t, Validate(Deterministic, dfa.Alphabet(), dfa.States(), dfa.Delta(), dfa.Start(), dfa.Finals()))
	}
}

func TestDeterminizeDoesNotMutateInput(t *testing.T) {
	nfa := mustNFA(t, []string{"A", "B"}, "a", "A", []string{"B"}, r("A", 'a', "A", "B"))
	before := nfa.String()

	_ = Determinize(nfa)

	assert.Equal(t, before, nfa.String())
	assert.Equal(t, NonDeterministic, nfa.Mode())
	assert.Equal(t, []string{"A", "B"}, nfa.Targets("A", 'a'))
}

func TestSubsetBitMapping(t *testing.T) {
	names := []string{"q0", "q1", "q2"}

	want := [][]string{
		{},
		{"q2"},
		{"q1"},
		{"q1", "q2"},
		{"q0"},
		{"q0", "q2"},
		{"q0", "q1"},
		{"q0", "q1", "q2"},
	}
	for i, members := range want {
		got := Subset(names, uint(i))
		assert.True(t, NewStateSet(members...).Equal(got), "index %d: got %s", i, got)
		assert.Equal(t, uint(i), subsetIndex(subsetBits(uint(i), len(names)), len(names)))
	}
}

// randomNFA builds a random automaton over {a, b} with n states.
func randomNFA(t *testing.T, rng *rand.Rand, n int) *Automaton {
	states := make([]string, n)
	for i := range states {
		states[i] = string(rune('P' + i))
	}
	b := NewDeltaBuilder(NonDeterministic)
	for _, s := range states {
		for _, c := range "ab" {
			var to []string
			for _, target := range states {
				if rng.Intn(3) == 0 {
					to = append(to, target)
				}
			}
			if len(to) > 0 {
				require.NoError(t, b.Add(s, c, to...))
			}
		}
	}
	var finals []string
	for _, s := range states {
		if rng.Intn(2) == 0 {
			finals = append(finals, s)
		}
	}
	a, err := New(states, []rune("ab"), b.Build(), states[rng.Intn(n)], finals)
	require.NoError(t, err)
	return a
}

func randomString(rng *rand.Rand, alphabet string, max int) string {
	buf := make([]byte, rng.Intn(max+1))
	for i := range buf {
		buf[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(buf)
}

func TestDeterminizeLanguageEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 30; trial++ {
		nfa := randomNFA(t, rng, 1+rng.Intn(5))
		dfa := Determinize(nfa)

		for i := 0; i < 50; i++ {
			input := randomString(rng, "ab", 12)
			want, err := Accepts(nfa, input)
			require.NoError(t, err)
			got, err := Accepts(dfa, input)
			require.NoError(t, err)
			require.Equal(t, want, got, "trial %d, input %q\n%s", trial, input, nfa)
		}
	}
}

func TestDeterminizeSingletonTargets(t *testing.T) {
	rules := []rule{
		r("E", '0', "E"), r("E", '1', "O"),
		r("O", '0', "O"), r("O", '1', "E"),
	}
	dfa := mustDFA(t, []string{"E", "O"}, "01", "E", []string{"E"}, rules...)
	nfa := mustNFA(t, []string{"E", "O"}, "01", "E", []string{"E"}, rules...)

	fromNFA := Determinize(nfa)
	fromDFA := Determinize(dfa)
	assert.Equal(t, fromNFA.States(), fromDFA.States())

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		input := randomString(rng, "01", 16)
		want, err := Accepts(dfa, input)
		require.NoError(t, err)
		got, err := Accepts(fromNFA, input)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}
}
