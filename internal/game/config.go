package game

import "time"

// Config holds the scheduler timing.
type Config struct {
	// FrameInterval is how often input is sampled and the screen redrawn.
	FrameInterval time.Duration
	// MoveInterval is the period of the movement tick.
	MoveInterval time.Duration
	// SpawnInterval is the period of the food-spawn tick.
	SpawnInterval time.Duration
}

// DefaultConfig returns the reference timing.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 16 * time.Millisecond,
		MoveInterval:  150 * time.Millisecond,
		SpawnInterval: time.Second,
	}
}
