// Package grid provides arena coordinates, headings and bounds queries.
package grid

import "fmt"

// Position is a cell coordinate in arena units.
type Position struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// DefaultPosition is where a fresh snake head is placed.
var DefaultPosition = Position{X: 3, Y: 3}

// Translate returns the position one cell away in the given direction.
func (p Position) Translate(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Add returns p offset by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a snake heading.
type Direction int

const (
	// Up moves toward +y.
	Up Direction = iota
	// Down moves toward -y.
	Down
	// Left moves toward -x.
	Left
	// Right moves toward +x.
	Right
)

// Directions lists every heading in declaration order.
var Directions = [...]Direction{Up, Down, Left, Right}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the one-cell step for the heading.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// String returns a human-readable heading name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a heading name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return Up, fmt.Errorf("unknown direction %q", s)
}

// MarshalText encodes the heading by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a heading name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
