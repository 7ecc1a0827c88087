package sim

import (
	"math/rand"

	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
)

// GrowthResult counts what the growth phase did with the pending signals.
type GrowthResult struct {
	Added   int
	Ignored int
}

// Grow drains the growth queue and appends one trailing segment per signal,
// all at the tail position recorded by this tick's movement.
// Signals that arrive while the slot is empty are dropped and counted as ignored.
func Grow(reg *entity.Registry, tail *LastTail, growth *Queue[GrowthSignal]) GrowthResult {
	pending := growth.Drain()
	if len(pending) == 0 {
		return GrowthResult{}
	}

	pos, ok := tail.Get()
	if !ok {
		return GrowthResult{Ignored: len(pending)}
	}

	for range pending {
		reg.AppendSegment(pos)
	}
	return GrowthResult{Added: len(pending)}
}

// SpawnFood places one food entity on a uniformly random arena cell.
// Cells already holding food or snake are not avoided.
func SpawnFood(reg *entity.Registry, arena grid.Arena, rng *rand.Rand) entity.FoodItem {
	pos := arena.RandomCell(rng)
	return entity.FoodItem{ID: reg.SpawnFood(pos), Position: pos}
}
