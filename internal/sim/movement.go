package sim

import (
	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
)

// MoveResult is the outcome of one movement step.
type MoveResult struct {
	Skipped   bool
	Direction grid.Direction
	Before    []grid.Position // segment positions before the step, head first
	Head      grid.Position   // head position after the step
}

// Move advances the snake one cell along the head's heading.
//
// Every segment position is snapshot before anything is written; the head is
// translated and segment i takes before[i-1]. The pre-move tail is recorded in
// tail for the growth phase.
//
// Without a head the step is skipped and tail stays empty.
func Move(reg *entity.Registry, tail *LastTail) MoveResult {
	tail.Clear()

	head, ok := reg.Head()
	if !ok {
		return MoveResult{Skipped: true}
	}
	dir, _ := reg.Direction()

	segments := reg.Segments()
	before := reg.SegmentPositions()
	tail.Record(before[len(before)-1])

	next := before[0].Translate(dir)
	reg.SetPosition(head, next)
	for i := 1; i < len(segments); i++ {
		reg.SetPosition(segments[i], before[i-1])
	}

	return MoveResult{
		Direction: dir,
		Before:    before,
		Head:      next,
	}
}
