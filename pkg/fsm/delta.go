package fsm

import (
	"fmt"
	"sort"
)

// Delta is an immutable transition function. Deterministic tables hold
// exactly one target per key; non-deterministic tables hold a sorted,
// deduplicated target set which may be empty.
type Delta struct {
	mode    Mode
	entries map[Key][]string
	sources map[string]bool
}

// Mode returns the determinism mode the table was built for.
func (d Delta) Mode() Mode { return d.mode }

// Len returns the number of (state, symbol) entries.
func (d Delta) Len() int { return len(d.entries) }

// Has reports whether an entry exists for (state, symbol).
func (d Delta) Has(state string, symbol rune) bool {
	_, ok := d.entries[Key{state, symbol}]
	return ok
}

// HasState reports whether state has any outgoing entry.
func (d Delta) HasState(state string) bool {
	return d.sources[state]
}

// Targets returns a copy of the targets for (state, symbol).
func (d Delta) Targets(state string, symbol rune) []string {
	to, ok := d.entries[Key{state, symbol}]
	if !ok {
		return nil
	}
	return append([]string(nil), to...)
}

// Keys returns every key in a stable order (state, then symbol).
func (d Delta) Keys() []Key {
	keys := make([]Key, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Symbol < keys[j].Symbol
	})
	return keys
}

// DeltaBuilder accumulates transitions before they are frozen into a Delta.
type DeltaBuilder struct {
	mode    Mode
	entries map[Key][]string
	sources map[string]bool
}

// NewDeltaBuilder creates a builder for the given mode.
func NewDeltaBuilder(mode Mode) *DeltaBuilder {
	return &DeltaBuilder{
		mode:    mode,
		entries: make(map[Key][]string),
		sources: make(map[string]bool),
	}
}

// Add records from --symbol--> to. A deterministic builder takes exactly one
// target and rejects a second rule for the same (from, symbol) pair. A
// non-deterministic builder unions the targets; passing no target declares
// an explicit empty move.
func (b *DeltaBuilder) Add(from string, symbol rune, to ...string) error {
	k := Key{from, symbol}
	existing, ok := b.entries[k]

	if b.mode == Deterministic {
		if ok {
			return &SemanticError{Reason: DuplicateTransition, State: from, Symbol: symbol}
		}
		if len(to) != 1 {
			return fmt.Errorf("deterministic transition %s --%c--> needs exactly one target, got %d", from, symbol, len(to))
		}
		b.entries[k] = []string{to[0]}
		b.sources[from] = true
		return nil
	}

	merged := append(existing, to...)
	sort.Strings(merged)
	b.entries[k] = compactSorted(merged)
	if b.entries[k] == nil {
		b.entries[k] = []string{}
	}
	b.sources[from] = true
	return nil
}

// Build freezes the builder. The builder must not be used afterwards.
func (b *DeltaBuilder) Build() Delta {
	d := Delta{mode: b.mode, entries: b.entries, sources: b.sources}
	b.entries = nil
	b.sources = nil
	return d
}

func compactSorted(s []string) []string {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
