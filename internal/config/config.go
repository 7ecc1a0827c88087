// Package config loads snakey settings from embedded defaults, an optional
// JSON file, a .env file and SNAKEY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/chungwong/snakey/internal/grid"
	"github.com/chungwong/snakey/internal/sim"
)

// Environment variables read by Load.
const (
	EnvConfigFile    = "SNAKEY_CONFIG"
	EnvWidth         = "SNAKEY_WIDTH"
	EnvHeight        = "SNAKEY_HEIGHT"
	EnvStartX        = "SNAKEY_START_X"
	EnvStartY        = "SNAKEY_START_Y"
	EnvMoveInterval  = "SNAKEY_MOVE_INTERVAL"
	EnvSpawnInterval = "SNAKEY_SPAWN_INTERVAL"
	EnvFrameInterval = "SNAKEY_FRAME_INTERVAL"
	EnvSeed          = "SNAKEY_SEED"
	EnvReplayPath    = "SNAKEY_REPLAY"
	EnvStreamAddr    = "SNAKEY_STREAM_ADDR"
	EnvLogFile       = "SNAKEY_LOG_FILE"
	EnvLogVerbosity  = "SNAKEY_LOG_VERBOSITY"
	EnvTelemetry     = "SNAKEY_TELEMETRY"
)

var (
	// ErrInvalidArena is returned when the arena or start position cannot host a game.
	ErrInvalidArena = errors.New("invalid arena")
	// ErrInvalidInterval is returned for non-positive or inconsistent timer intervals.
	ErrInvalidInterval = errors.New("invalid interval")
)

// Arena is the playing field size in cells.
type Arena struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Duration is a time.Duration written as a Go duration string in JSON ("150ms").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds every runtime setting.
type Config struct {
	Arena      Arena          `json:"arena"`
	Start      grid.Position  `json:"start"`
	BodyOffset grid.Position  `json:"bodyOffset"`
	Direction  grid.Direction `json:"direction"`

	MoveInterval  Duration `json:"moveInterval"`
	SpawnInterval Duration `json:"spawnInterval"`
	FrameInterval Duration `json:"frameInterval"`

	// Seed for food placement. A seed of 0 means a random seed will be generated.
	Seed int64 `json:"seed"`

	ReplayPath string `json:"replayPath"`
	StreamAddr string `json:"streamAddr"`

	LogFile          string `json:"logFile"`
	LogVerbosity     int    `json:"logVerbosity"`
	TelemetryEnabled bool   `json:"telemetryEnabled"`
}

// Default returns the embedded default configuration.
func Default() (Config, error) {
	return loadEmbedded[Config](defaultsFile)
}

// Load builds the configuration: embedded defaults, then the JSON file named
// by SNAKEY_CONFIG, then SNAKEY_* variables from the environment or a .env file.
// The result is validated.
func Load() (Config, error) {
	// Not fatal - variables might be set directly
	_ = godotenv.Load()

	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := overlayFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from variables found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvWidth, &c.Arena.Width},
		{EnvHeight, &c.Arena.Height},
		{EnvStartX, &c.Start.X},
		{EnvStartY, &c.Start.Y},
		{EnvLogVerbosity, &c.LogVerbosity},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = n
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{EnvMoveInterval, &c.MoveInterval},
		{EnvSpawnInterval, &c.SpawnInterval},
		{EnvFrameInterval, &c.FrameInterval},
	}
	for _, f := range durations {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		if err := f.dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}

	if v, ok := lookup(EnvTelemetry); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTelemetry, err)
		}
		c.TelemetryEnabled = enabled
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvReplayPath, &c.ReplayPath},
		{EnvStreamAddr, &c.StreamAddr},
		{EnvLogFile, &c.LogFile},
	}
	for _, f := range strs {
		if v, ok := lookup(f.key); ok {
			*f.dst = v
		}
	}

	return nil
}

// Validate reports whether the configuration can run a game.
func (c Config) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidArena, c.Arena.Width, c.Arena.Height)
	}
	arena := grid.NewArena(c.Arena.Width, c.Arena.Height)
	if !arena.Contains(c.Start) {
		return fmt.Errorf("%w: start %v outside %dx%d", ErrInvalidArena, c.Start, c.Arena.Width, c.Arena.Height)
	}
	if c.BodyOffset == (grid.Position{}) {
		return fmt.Errorf("%w: body offset is zero", ErrInvalidArena)
	}
	if body := c.Start.Add(c.BodyOffset); !arena.Contains(body) {
		return fmt.Errorf("%w: body %v outside %dx%d", ErrInvalidArena, body, c.Arena.Width, c.Arena.Height)
	}
	if !c.Direction.Valid() {
		return fmt.Errorf("%w: start direction %d", ErrInvalidArena, c.Direction)
	}

	for _, iv := range []struct {
		name string
		d    Duration
	}{
		{"move", c.MoveInterval},
		{"spawn", c.SpawnInterval},
		{"frame", c.FrameInterval},
	} {
		if iv.d <= 0 {
			return fmt.Errorf("%w: %s interval %v", ErrInvalidInterval, iv.name, iv.d.Std())
		}
	}
	if c.SpawnInterval < c.MoveInterval {
		return fmt.Errorf("%w: spawn interval %v shorter than move interval %v",
			ErrInvalidInterval, c.SpawnInterval.Std(), c.MoveInterval.Std())
	}
	return nil
}

// Session converts the settings into a simulation configuration.
func (c Config) Session() sim.Config {
	return sim.Config{
		Arena: grid.NewArena(c.Arena.Width, c.Arena.Height),
		Start: sim.Start{
			Head:       c.Start,
			BodyOffset: c.BodyOffset,
			Direction:  c.Direction,
		},
		Seed: c.Seed,
	}
}
