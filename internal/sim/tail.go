package sim

import "github.com/chungwong/snakey/internal/grid"

// LastTail holds the tail position sampled by the most recent movement tick.
// It is cleared at the start of every movement tick and on reset, so growth
// never sees a value from an earlier tick.
type LastTail struct {
	pos grid.Position
	set bool
}

// Record stores the pre-move tail position.
func (t *LastTail) Record(pos grid.Position) {
	t.pos = pos
	t.set = true
}

// Get returns the recorded position, or false if no movement has recorded one.
func (t *LastTail) Get() (grid.Position, bool) {
	return t.pos, t.set
}

// Clear empties the slot.
func (t *LastTail) Clear() {
	t.pos = grid.Position{}
	t.set = false
}
