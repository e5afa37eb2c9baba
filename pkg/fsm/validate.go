package fsm

import (
	"fmt"
	"strings"
)

// Reason tags the kind of semantic failure found in an automaton definition.
type Reason int

const (
	MissingStateTransitions Reason = iota + 1
	MissingSymbolTransition
	InvalidTarget
	UnknownStartState
	UnknownFinalStates
	DuplicateTransition
)

func (r Reason) String() string {
	switch r {
	case MissingStateTransitions:
		return "missing state transitions"
	case MissingSymbolTransition:
		return "missing symbol transition"
	case InvalidTarget:
		return "invalid target"
	case UnknownStartState:
		return "unknown start state"
	case UnknownFinalStates:
		return "unknown final states"
	case DuplicateTransition:
		return "duplicate transition"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// SemanticError reports a structurally invalid automaton. Only the fields
// relevant to Reason are set.
type SemanticError struct {
	Reason Reason
	State  string
	Symbol rune
	Target string
	Finals []string
}

func (e *SemanticError) Error() string {
	switch e.Reason {
	case MissingStateTransitions:
		return fmt.Sprintf("semantic error: no transition specified for state %s", e.State)
	case MissingSymbolTransition:
		return fmt.Sprintf("semantic error: no transition specified for state %s with character %c", e.State, e.Symbol)
	case InvalidTarget:
		return fmt.Sprintf("semantic error: target state %s for initial state %s with symbol %c invalid", e.Target, e.State, e.Symbol)
	case UnknownStartState:
		return fmt.Sprintf("semantic error: initial state %s not in set of states", e.State)
	case UnknownFinalStates:
		return fmt.Sprintf("semantic error: invalid set of final states {%s}", strings.Join(e.Finals, ", "))
	case DuplicateTransition:
		return fmt.Sprintf("semantic error: %c appeared more than once for the same initial state %s", e.Symbol, e.State)
	}
	return "semantic error: " + e.Reason.String()
}

// Validate checks an automaton definition and returns the first violation as
// a *SemanticError, or nil.
//
// In Deterministic mode, states are visited in order; for each one the
// presence of any entry is checked, then for each symbol the presence of the
// entry and the validity of its target. Non-deterministic mode skips the
// totality checks. Both modes then check every remaining target, the start
// state and the final states.
func Validate(mode Mode, alphabet []rune, states []string, delta Delta, start string, finals []string) error {
	declared := make(map[string]bool, len(states))
	for _, s := range states {
		declared[s] = true
	}

	if mode == Deterministic {
		for _, state := range states {
			if !delta.HasState(state) {
				return &SemanticError{Reason: MissingStateTransitions, State: state}
			}
			for _, symbol := range alphabet {
				to := delta.Targets(state, symbol)
				if len(to) == 0 {
					return &SemanticError{Reason: MissingSymbolTransition, State: state, Symbol: symbol}
				}
				if !declared[to[0]] {
					return &SemanticError{Reason: InvalidTarget, State: state, Symbol: symbol, Target: to[0]}
				}
			}
		}
	}

	for _, k := range delta.Keys() {
		for _, to := range delta.Targets(k.State, k.Symbol) {
			if !declared[to] {
				return &SemanticError{Reason: InvalidTarget, State: k.State, Symbol: k.Symbol, Target: to}
			}
		}
	}

	if !declared[start] {
		return &SemanticError{Reason: UnknownStartState, State: start}
	}

	var unknown []string
	for _, f := range finals {
		if !declared[f] {
			unknown = append(unknown, f)
		}
	}
	if len(unknown) > 0 {
		return &SemanticError{Reason: UnknownFinalStates, Finals: unknown}
	}

	return nil
}
