package sim

import (
	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
)

// Resolution contains the outcome of resolving one movement step.
type Resolution struct {
	GameOver bool
	Eaten    []entity.FoodItem
}

// Resolver checks the moved head against the arena walls and the live food.
// The snake's own body is not an obstacle.
type Resolver struct {
	arena grid.Arena
}

// NewResolver creates a resolver for the given arena.
func NewResolver(arena grid.Arena) *Resolver {
	return &Resolver{arena: arena}
}

// Resolve runs the wall check and then the food check for head.
// A head outside the arena raises a single GameOverSignal and nothing else.
// Otherwise every food at head is despawned and raises its own GrowthSignal.
func (r *Resolver) Resolve(reg *entity.Registry, head grid.Position, signals *Signals) Resolution {
	if !r.arena.Contains(head) {
		signals.GameOver.Push(GameOverSignal{Head: head})
		return Resolution{GameOver: true}
	}

	var eaten []entity.FoodItem
	for _, food := range reg.Foods() {
		if food.Position != head {
			continue
		}
		reg.DespawnFood(food.ID)
		signals.Growth.Push(GrowthSignal{Food: food.ID, At: head})
		eaten = append(eaten, food)
	}

	return Resolution{Eaten: eaten}
}
