package sim

import (
	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
)

// Intent is a sampled directional request. IntentNone keeps the current heading.
type Intent int

const (
	IntentNone Intent = iota
	IntentUp
	IntentDown
	IntentLeft
	IntentRight
)

// IntentFor returns the intent that requests dir.
func IntentFor(dir grid.Direction) Intent {
	switch dir {
	case grid.Up:
		return IntentUp
	case grid.Down:
		return IntentDown
	case grid.Left:
		return IntentLeft
	case grid.Right:
		return IntentRight
	default:
		return IntentNone
	}
}

// Direction returns the requested heading, or false for IntentNone.
func (i Intent) Direction() (grid.Direction, bool) {
	switch i {
	case IntentUp:
		return grid.Up, true
	case IntentDown:
		return grid.Down, true
	case IntentLeft:
		return grid.Left, true
	case IntentRight:
		return grid.Right, true
	default:
		return grid.Up, false
	}
}

// String returns a human-readable intent name.
func (i Intent) String() string {
	if dir, ok := i.Direction(); ok {
		return dir.String()
	}
	return "none"
}

// Steer applies an intent to the head's heading.
// Requests for the exact opposite of the current heading are refused.
// It returns true if the heading was updated.
func Steer(reg *entity.Registry, intent Intent) bool {
	want, ok := intent.Direction()
	if !ok {
		return false
	}
	current, ok := reg.Direction()
	if !ok {
		return false
	}
	if want == current.Opposite() {
		return false
	}
	return reg.SetDirection(want)
}
