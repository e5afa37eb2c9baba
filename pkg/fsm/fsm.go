// Package fsm provides the finite automaton model, its validation and the
// subset construction that turns a non-deterministic automaton into a
// deterministic one.
package fsm

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects how strictly an automaton's transition function is checked.
type Mode int

const (
	Deterministic Mode = iota
	NonDeterministic
)

func (m Mode) String() string {
	switch m {
	case Deterministic:
		return "dfa"
	case NonDeterministic:
		return "nfa"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "dfa" and "nfa" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "dfa", "":
		return Deterministic, nil
	case "nfa":
		return NonDeterministic, nil
	}
	return Deterministic, fmt.Errorf("unknown automaton mode %q", s)
}

// Key identifies one entry of a transition function.
type Key struct {
	State  string
	Symbol rune
}

// Transition is a single (from, symbol) -> to edge.
type Transition struct {
	From   string
	Symbol rune
	To     string
}

// Automaton is a validated finite automaton. It is immutable once built.
// States[0] is always the start state.
type Automaton struct {
	states   []string
	alphabet []rune
	start    string
	finals   []string
	delta    Delta
}

// New validates the given fields and builds an Automaton. The mode is taken
// from the transition table. States are deduplicated keeping the first
// occurrence, the alphabet is sorted, and the start state is swapped into
// position 0.
func New(states []string, alphabet []rune, delta Delta, start string, finals []string) (*Automaton, error) {
	states = uniqueStrings(states)
	finals = uniqueStrings(finals)
	alphabet = uniqueRunes(alphabet)

	if err := Validate(delta.Mode(), alphabet, states, delta, start, finals); err != nil {
		return nil, err
	}

	if states[0] != start {
		i := indexOf(states, start)
		states[i] = states[0]
		states[0] = start
	}

	return &Automaton{
		states:   states,
		alphabet: alphabet,
		start:    start,
		finals:   finals,
		delta:    delta,
	}, nil
}

// Mode reports whether the automaton is deterministic.
func (a *Automaton) Mode() Mode { return a.delta.Mode() }

// States returns the canonical state ordering.
func (a *Automaton) States() []string { return append([]string(nil), a.states...) }

// Alphabet returns the sorted input symbols.
func (a *Automaton) Alphabet() []rune { return append([]rune(nil), a.alphabet...) }

// Start returns the start state.
func (a *Automaton) Start() string { return a.start }

// Finals returns the accepting states in declaration order.
func (a *Automaton) Finals() []string { return append([]string(nil), a.finals...) }

// Delta returns the transition table.
func (a *Automaton) Delta() Delta { return a.delta }

// StateIndex returns the first position of state in the canonical ordering,
// or -1 if not found.
func (a *Automaton) StateIndex(state string) int {
	return indexOf(a.states, state)
}

// IsAccepting returns true if the state is an accepting state.
func (a *Automaton) IsAccepting(state string) bool {
	return indexOf(a.finals, state) >= 0
}

// InAlphabet reports whether symbol is an input symbol of the automaton.
func (a *Automaton) InAlphabet(symbol rune) bool {
	i := sort.Search(len(a.alphabet), func(i int) bool { return a.alphabet[i] >= symbol })
	return i < len(a.alphabet) && a.alphabet[i] == symbol
}

// Target returns the single successor of state on symbol. It is meant for
// deterministic automata; for non-deterministic ones it reports the first
// target only.
func (a *Automaton) Target(state string, symbol rune) (string, bool) {
	targets := a.delta.Targets(state, symbol)
	if len(targets) == 0 {
		return "", false
	}
	return targets[0], true
}

// Targets returns every successor of state on symbol.
func (a *Automaton) Targets(state string, symbol rune) []string {
	return a.delta.Targets(state, symbol)
}

// Transitions lists every edge in canonical state order, then alphabet
// order, then target order.
func (a *Automaton) Transitions() []Transition {
	var result []Transition
	for _, state := range a.states {
		for _, symbol := range a.alphabet {
			for _, to := range a.delta.Targets(state, symbol) {
				result = append(result, Transition{From: state, Symbol: symbol, To: to})
			}
		}
	}
	return result
}

// String returns a string representation of the automaton.
func (a *Automaton) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Automaton[%s]\n", a.Mode()))
	sb.WriteString(fmt.Sprintf("  States: %v\n", a.states))
	sb.WriteString(fmt.Sprintf("  Alphabet: %s\n", string(a.alphabet)))
	sb.WriteString(fmt.Sprintf("  Start: %s\n", a.start))
	sb.WriteString(fmt.Sprintf("  Finals: %v\n", a.finals))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", a.delta.Len()))
	return sb.String()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func uniqueRunes(in []rune) []rune {
	seen := make(map[rune]bool, len(in))
	out := make([]rune, 0, len(in))
	for _, r := range in {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
