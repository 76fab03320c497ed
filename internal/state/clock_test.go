package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionGate(t *testing.T) {
	g := NewActionGate(3)
	assert.False(t, g.Changed(3), "mount token must not fire")
	assert.True(t, g.Changed(4))
	assert.False(t, g.Changed(4), "same token twice fires once")
	assert.True(t, g.Changed(2), "any difference fires, not only increases")
	assert.False(t, g.Changed(2))
}

func TestActionClockFeedsGate(t *testing.T) {
	var c ActionClock
	g := NewActionGate(c.Current())
	for i := 0; i < 3; i++ {
		assert.True(t, g.Changed(c.Tick()))
	}
	assert.Equal(t, uint64(3), c.Current())
}
