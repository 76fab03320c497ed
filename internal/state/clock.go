package state

import "sync/atomic"

// ActionClock hands out action tokens. The side issuing commands bumps it
// once per command so that repeating the same selection ("undo", "undo")
// still reaches the canvas.
type ActionClock struct {
	counter uint64
}

// Tick returns the next token.
func (c *ActionClock) Tick() uint64 {
	return atomic.AddUint64(&c.counter, 1)
}

func (c *ActionClock) Current() uint64 {
	return atomic.LoadUint64(&c.counter)
}

// ActionGate remembers the last token it has seen. A command runs only
// when its token differs from that value.
type ActionGate struct {
	last uint64
}

// NewActionGate starts the gate at the token present when the canvas
// was mounted, so the initial selection is not replayed as a command.
func NewActionGate(initial uint64) ActionGate {
	return ActionGate{last: initial}
}

// Changed records token and reports whether it differs from the previous one.
func (g *ActionGate) Changed(token uint64) bool {
	if token == g.last {
		return false
	}
	g.last = token
	return true
}
