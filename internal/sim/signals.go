package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/chungwong/snakey/internal/grid"
)

// GrowthSignal is raised once per food eaten in a movement tick.
type GrowthSignal struct {
	Food ecs.Entity
	At   grid.Position
}

// GameOverSignal is raised when the head leaves the arena.
type GameOverSignal struct {
	Head grid.Position
}

// Queue is a FIFO of signals drained once per tick by the phase that consumes them.
type Queue[T any] struct {
	items []T
}

// Push appends a signal.
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Drain returns all pending signals in FIFO order and empties the queue.
func (q *Queue[T]) Drain() []T {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending signals.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Clear drops all pending signals.
func (q *Queue[T]) Clear() {
	q.items = nil
}

// Signals groups the queues shared between the phases of one session.
type Signals struct {
	Growth   Queue[GrowthSignal]
	GameOver Queue[GameOverSignal]
}
