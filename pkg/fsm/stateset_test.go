package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSet(t *testing.T) {
	s := NewStateSet("B", "A", "B")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"A", "B"}, s.Members())
	assert.Equal(t, "{A, B}", s.String())
	assert.True(t, s.Contains("A"))
	assert.False(t, s.Contains("C"))

	assert.True(t, s.Equal(NewStateSet("A", "B")))
	assert.False(t, s.Equal(NewStateSet("A")))
	assert.False(t, s.Equal(NewStateSet("A", "C")))

	assert.Equal(t, "{A, B, C}", s.Union(NewStateSet("C", "A")).String())
}

func TestStateSetEmpty(t *testing.T) {
	var zero StateSet
	empty := NewStateSet()

	assert.Equal(t, "{}", empty.String())
	assert.Equal(t, "{}", zero.String())
	assert.True(t, zero.Equal(empty))
	assert.False(t, empty.Contains(""))
}

func TestStateSetOrderIndependent(t *testing.T) {
	a := NewStateSet("q2", "q0", "q1")
	b := NewStateSet("q1", "q2", "q0")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
}
