package fsm

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSymbol is returned when an input symbol is not in the alphabet.
var ErrUnknownSymbol = errors.New("symbol not in alphabet")

// Runner executes an automaton one symbol at a time.
// For non-deterministic automata it tracks all current states simultaneously.
type Runner struct {
	a       *Automaton
	current map[string]bool
	history []Step
}

// Step records one step of execution.
type Step struct {
	From   StateSet
	Symbol rune
	To     StateSet
}

// NewRunner creates a runner positioned at the start state.
func NewRunner(a *Automaton) *Runner {
	r := &Runner{a: a}
	r.Reset()
	return r
}

// Reset returns the runner to the start state and clears the history.
func (r *Runner) Reset() {
	r.current = map[string]bool{r.a.start: true}
	r.history = r.history[:0]
}

// Current returns the current state set.
func (r *Runner) Current() StateSet {
	names := make([]string, 0, len(r.current))
	for s := range r.current {
		names = append(names, s)
	}
	return NewStateSet(names...)
}

// CurrentState returns the current state as a display string. A single
// state is shown bare; anything else uses set notation.
func (r *Runner) CurrentState() string {
	set := r.Current()
	if set.Len() == 1 {
		return set.members[0]
	}
	return set.String()
}

// IsAccepting returns true if any current state is accepting.
func (r *Runner) IsAccepting() bool {
	for s := range r.current {
		if r.a.IsAccepting(s) {
			return true
		}
	}
	return false
}

// Step consumes one symbol. A symbol outside the alphabet leaves the runner
// unchanged and returns ErrUnknownSymbol.
func (r *Runner) Step(symbol rune) error {
	if !r.a.InAlphabet(symbol) {
		return fmt.Errorf("state %s, input %q: %w", r.CurrentState(), symbol, ErrUnknownSymbol)
	}

	from := r.Current()
	next := make(map[string]bool)
	for s := range r.current {
		for _, to := range r.a.delta.Targets(s, symbol) {
			next[to] = true
		}
	}
	r.current = next

	r.history = append(r.history, Step{From: from, Symbol: symbol, To: r.Current()})
	return nil
}

// Run consumes every symbol of input and returns the state shown after each
// step. It stops at the first unknown symbol.
func (r *Runner) Run(input string) ([]string, error) {
	var trace []string
	for _, c := range input {
		if err := r.Step(c); err != nil {
			return trace, err
		}
		trace = append(trace, r.CurrentState())
	}
	return trace, nil
}

// History returns the execution history.
func (r *Runner) History() []Step {
	return append([]Step(nil), r.history...)
}

// AvailableSymbols returns the symbols with at least one move from any
// current state, sorted.
func (r *Runner) AvailableSymbols() []rune {
	var symbols []rune
	for _, c := range r.a.alphabet {
		for s := range r.current {
			if len(r.a.delta.Targets(s, c)) > 0 {
				symbols = append(symbols, c)
				break
			}
		}
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// Accepts runs input from the start state and reports acceptance.
func Accepts(a *Automaton, input string) (bool, error) {
	r := NewRunner(a)
	if _, err := r.Run(input); err != nil {
		return false, err
	}
	return r.IsAccepting(), nil
}
