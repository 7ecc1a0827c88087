package grid

import "math/rand"

const (
	// DefaultWidth and DefaultHeight are the reference arena dimensions in cells.
	DefaultWidth  = 10
	DefaultHeight = 10
)

// Arena holds the fixed bounds of the playing field.
type Arena struct {
	Width  int
	Height int
}

// NewArena creates an arena of the given size in cells.
func NewArena(width, height int) Arena {
	return Arena{Width: width, Height: height}
}

// Contains returns true if the position lies inside [0, Width) x [0, Height).
func (a Arena) Contains(p Position) bool {
	return p.X >= 0 && p.X < a.Width && p.Y >= 0 && p.Y < a.Height
}

// RandomCell returns a uniformly random cell inside the arena.
func (a Arena) RandomCell(rng *rand.Rand) Position {
	return Position{
		X: rng.Intn(a.Width),
		Y: rng.Intn(a.Height),
	}
}

// Cells returns the number of cells in the arena.
func (a Arena) Cells() int {
	return a.Width * a.Height
}
