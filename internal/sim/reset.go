package sim

import (
	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
)

// Start describes the snake a fresh game begins with.
type Start struct {
	Head       grid.Position
	BodyOffset grid.Position
	Direction  grid.Direction
}

// DefaultStart is a head at (3,3) facing up with one body segment below it.
func DefaultStart() Start {
	return Start{
		Head:       grid.DefaultPosition,
		BodyOffset: grid.Position{X: 0, Y: -1},
		Direction:  grid.Up,
	}
}

// ProcessGameOver drains the game-over queue. If any signal was pending it
// removes every segment and food entity and respawns the starting snake.
// It returns true if a reset happened.
func ProcessGameOver(reg *entity.Registry, tail *LastTail, signals *Signals, start Start) bool {
	if len(signals.GameOver.Drain()) == 0 {
		return false
	}

	reg.DespawnAllBodiesAndFood()
	reg.Reset(start.Head, start.BodyOffset, start.Direction)

	tail.Clear()
	signals.Growth.Clear()
	return true
}
