// Package codegen generates simulator programs from automata.
//
// Every generator emits a standalone program that reads one line from
// standard input, prints the current state name after each character, and
// finally prints "Accept" (exit 0) or "Not Accept" (exit 1). A character
// with no transition from the current state exits with status 2.
package codegen

import (
	"github.com/ha1tch/tocc/pkg/fsm"
)

// Table is the index form of a deterministic automaton shared by all
// generators. State i is a.States()[i]; state 0 is the start state.
type Table struct {
	Names   []string
	Symbols []rune
	// Next[i][k] is the index of the successor of state i on Symbols[k].
	Next [][]int
	// Accepting lists StateIndex of each final state, in declaration order.
	Accepting []int
}

// NewTable indexes the automaton. A non-deterministic automaton is
// determinized first.
func NewTable(a *fsm.Automaton) *Table {
	if a.Mode() == fsm.NonDeterministic {
		a = fsm.Determinize(a)
	}

	t := &Table{
		Names:   a.States(),
		Symbols: a.Alphabet(),
	}
	t.Next = make([][]int, len(t.Names))
	for i, name := range t.Names {
		t.Next[i] = make([]int, len(t.Symbols))
		for k, c := range t.Symbols {
			to, _ := a.Target(name, c)
			t.Next[i][k] = a.StateIndex(to)
		}
	}
	for _, f := range a.Finals() {
		t.Accepting = append(t.Accepting, a.StateIndex(f))
	}
	return t
}

func (t *Table) longestName() int {
	n := 0
	for _, name := range t.Names {
		if len(name) > n {
			n = len(name)
		}
	}
	return n
}
