package fsm

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// StateSet is an immutable set of state names kept sorted and deduplicated.
// Two sets with the same members are Equal and render identically.
type StateSet struct {
	members []string
}

// NewStateSet builds a set from names in any order.
func NewStateSet(names ...string) StateSet {
	members := append([]string(nil), names...)
	sort.Strings(members)
	return StateSet{members: compactSorted(members)}
}

// Members returns the sorted member names.
func (s StateSet) Members() []string {
	return append([]string(nil), s.members...)
}

// Len returns the number of members.
func (s StateSet) Len() int { return len(s.members) }

// Contains reports whether name is a member.
func (s StateSet) Contains(name string) bool {
	i := sort.SearchStrings(s.members, name)
	return i < len(s.members) && s.members[i] == name
}

// Equal reports structural equality.
func (s StateSet) Equal(o StateSet) bool {
	if len(s.members) != len(o.members) {
		return false
	}
	for i := range s.members {
		if s.members[i] != o.members[i] {
			return false
		}
	}
	return true
}

// Union returns the set of names in s or o.
func (s StateSet) Union(o StateSet) StateSet {
	return NewStateSet(append(s.Members(), o.members...)...)
}

// String renders the canonical name, e.g. "{A, B}" or "{}".
func (s StateSet) String() string {
	return "{" + strings.Join(s.members, ", ") + "}"
}

// Subset returns the i-th member of the power set of names. Bit j of i,
// counted from the most significant of len(names) bits, selects names[j].
func Subset(names []string, i uint) StateSet {
	return stateSetFromBits(subsetBits(i, len(names)), names)
}

// subsetBits expands a power-set index into a bitset over name positions.
func subsetBits(i uint, n int) *bitset.BitSet {
	b := bitset.New(uint(n))
	for j := 0; j < n; j++ {
		if i>>uint(n-1-j)&1 == 1 {
			b.Set(uint(j))
		}
	}
	return b
}

// subsetIndex is the inverse of subsetBits.
func subsetIndex(b *bitset.BitSet, n int) uint {
	var i uint
	for j, ok := b.NextSet(0); ok; j, ok = b.NextSet(j + 1) {
		i |= 1 << uint(n-1-int(j))
	}
	return i
}

func stateSetFromBits(b *bitset.BitSet, names []string) StateSet {
	members := make([]string, 0, b.Count())
	for j, ok := b.NextSet(0); ok; j, ok = b.NextSet(j + 1) {
		members = append(members, names[j])
	}
	return NewStateSet(members...)
}
