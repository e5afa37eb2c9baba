package fsm

import "fmt"

// Warning is a non-fatal observation about an automaton.
type Warning struct {
	Type    string // "unreachable", "dead", "unused_symbol"
	Message string
}

func (w Warning) String() string { return w.Type + ": " + w.Message }

// UnreachableStates returns states that cannot be reached from the start
// state, in canonical order.
func (a *Automaton) UnreachableStates() []string {
	reached := map[string]bool{a.start: true}
	queue := []string{a.start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, c := range a.alphabet {
			for _, to := range a.delta.Targets(s, c) {
				if !reached[to] {
					reached[to] = true
					queue = append(queue, to)
				}
			}
		}
	}

	var result []string
	for _, s := range a.states {
		if !reached[s] {
			result = append(result, s)
		}
	}
	return result
}

// DeadStates returns states from which no accepting state is reachable.
func (a *Automaton) DeadStates() []string {
	// Walk backwards from the accepting states.
	reverse := make(map[string][]string)
	for _, t := range a.Transitions() {
		reverse[t.To] = append(reverse[t.To], t.From)
	}

	live := make(map[string]bool)
	var queue []string
	for _, f := range a.finals {
		live[f] = true
		queue = append(queue, f)
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, from := range reverse[s] {
			if !live[from] {
				live[from] = true
				queue = append(queue, from)
			}
		}
	}

	var result []string
	for _, s := range a.states {
		if !live[s] {
			result = append(result, s)
		}
	}
	return result
}

// UnusedSymbols returns alphabet symbols that label no transition.
func (a *Automaton) UnusedSymbols() []rune {
	used := make(map[rune]bool)
	for _, k := range a.delta.Keys() {
		if len(a.delta.Targets(k.State, k.Symbol)) > 0 {
			used[k.Symbol] = true
		}
	}
	var result []rune
	for _, c := range a.alphabet {
		if !used[c] {
			result = append(result, c)
		}
	}
	return result
}

// Analyse collects every warning for the automaton.
func (a *Automaton) Analyse() []Warning {
	var warnings []Warning
	for _, s := range a.UnreachableStates() {
		warnings = append(warnings, Warning{"unreachable", fmt.Sprintf("state %s is not reachable from %s", s, a.start)})
	}
	for _, s := range a.DeadStates() {
		warnings = append(warnings, Warning{"dead", fmt.Sprintf("state %s cannot reach an accepting state", s)})
	}
	for _, c := range a.UnusedSymbols() {
		warnings = append(warnings, Warning{"unused_symbol", fmt.Sprintf("symbol %c labels no transition", c)})
	}
	return warnings
}
