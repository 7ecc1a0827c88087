// Package entity provides the snake and food entities and the registry that owns them.
package entity

import "github.com/chungwong/snakey/internal/grid"

// Logical sprite sizes as a fraction of one cell.
const (
	HeadSize = 0.8
	BodySize = 0.65
	FoodSize = 0.6
)

// Head marks the leading segment and carries the current heading.
type Head struct {
	Direction grid.Direction
}

// Segment marks every cell of the snake, head included.
type Segment struct{}

// Food marks a consumable cell.
type Food struct{}

// Size is the logical extent of an entity, in cells.
type Size struct {
	Width  float64
	Height float64
}

// Square returns a Size with equal sides.
func Square(side float64) Size {
	return Size{Width: side, Height: side}
}

// Kind is the drawing category of an entity.
type Kind string

const (
	KindHead Kind = "head"
	KindBody Kind = "body"
	KindFood Kind = "food"
)
