package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternAssignsDensePositionsFirstSeenOrder(t *testing.T) {
	x := NewIndex()
	assert.Equal(t, 0, x.Intern("a"))
	assert.Equal(t, 1, x.Intern("b"))
	assert.Equal(t, 0, x.Intern("a")) // re-interning returns the same slot
	assert.Equal(t, 2, x.Len())
}

func TestLookupMissingKey(t *testing.T) {
	x := NewIndex()
	x.Intern("a")
	_, ok := x.Lookup("missing")
	assert.False(t, ok)
	i, ok := x.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestKeyRoundTripAndOutOfRange(t *testing.T) {
	x := NewIndex()
	x.Intern("a")
	x.Intern("b")
	assert.Equal(t, "a", x.Key(0))
	assert.Equal(t, "b", x.Key(1))
	assert.Equal(t, "", x.Key(-1))
	assert.Equal(t, "", x.Key(5))
}
