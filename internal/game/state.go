// Package game runs the scheduler loop that drives a session from the terminal.
package game

// State represents whether the simulation is advancing.
type State int

const (
	// StatePlaying advances movement and food spawning on their timers.
	StatePlaying State = iota
	// StatePaused freezes the session; input other than resume and quit is dropped.
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
