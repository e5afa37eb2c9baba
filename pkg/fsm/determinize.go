package fsm

import (
	"fmt"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

// Determinize converts an automaton to an equivalent deterministic one using
// the powerset construction. Every subset of the input's states becomes a
// state of the result, reachable or not, so the result always has 2^n
// states. State names are the canonical StateSet renderings, e.g. "{A, B}".
//
// The input is assumed to be valid; it is not modified. A deterministic
// input is treated as an automaton whose targets are singleton sets.
func Determinize(nfa *Automaton) *Automaton {
	names := nfa.states
	n := len(names)
	if n >= bits.UintSize-1 {
		panic(fmt.Sprintf("fsm: power set of %d states cannot be enumerated", n))
	}

	position := make(map[string]uint, n)
	for j, name := range names {
		position[name] = uint(j)
	}

	// Successor bitsets of each input state, one per symbol.
	succ := make(map[Key]*bitset.BitSet)
	for _, name := range names {
		for _, symbol := range nfa.alphabet {
			targets := nfa.delta.Targets(name, symbol)
			if len(targets) == 0 {
				continue
			}
			b := bitset.New(uint(n))
			for _, t := range targets {
				b.Set(position[t])
			}
			succ[Key{name, symbol}] = b
		}
	}

	accepting := bitset.New(uint(n))
	for _, f := range nfa.finals {
		accepting.Set(position[f])
	}

	total := uint(1) << uint(n)
	subsets := make([]*bitset.BitSet, total)
	dstates := make([]string, total)
	for i := uint(0); i < total; i++ {
		subsets[i] = subsetBits(i, n)
		dstates[i] = stateSetFromBits(subsets[i], names).String()
	}

	builder := NewDeltaBuilder(Deterministic)
	var finals []string
	for i := uint(0); i < total; i++ {
		current := subsets[i]
		if current.IntersectionCardinality(accepting) > 0 {
			finals = append(finals, dstates[i])
		}

		for _, symbol := range nfa.alphabet {
			union := bitset.New(uint(n))
			for j, ok := current.NextSet(0); ok; j, ok = current.NextSet(j + 1) {
				if s, found := succ[Key{names[j], symbol}]; found {
					union.InPlaceUnion(s)
				}
			}
			if err := builder.Add(dstates[i], symbol, dstates[subsetIndex(union, n)]); err != nil {
				panic(fmt.Sprintf("fsm: subset construction: %v", err))
			}
		}
	}

	// names[0] is the start state, so its singleton is the top bit.
	start := dstates[uint(1)<<uint(n-1)]

	dfa, err := New(dstates, nfa.alphabet, builder.Build(), start, finals)
	if err != nil {
		panic(fmt.Sprintf("fsm: subset construction produced an invalid automaton: %v", err))
	}
	return dfa
}
