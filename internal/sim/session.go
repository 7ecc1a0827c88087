// Package sim runs the snake simulation: movement, collision, growth, food spawning and reset.
package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
	"github.com/chungwong/snakey/internal/telemetry"
)

// Config holds the fixed parameters of a session.
type Config struct {
	Arena grid.Arena
	Start Start

	// Seed for food placement. A seed of 0 means a time-based seed.
	Seed int64
}

// DefaultConfig returns the reference 10x10 arena with the default starting snake.
func DefaultConfig() Config {
	return Config{
		Arena: grid.NewArena(grid.DefaultWidth, grid.DefaultHeight),
		Start: DefaultStart(),
	}
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger logr.Logger) Option {
	return func(s *Session) { s.log = logger }
}

// WithTracer sets the tracer used for phase spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) { s.tracer = tracer }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Session) { s.id = id }
}

// TickReport describes one movement tick.
type TickReport struct {
	Tick          uint64         `json:"tick" msgpack:"tick"`
	Skipped       bool           `json:"skipped,omitempty" msgpack:"skipped"`
	Direction     grid.Direction `json:"direction" msgpack:"direction"`
	HeadBefore    grid.Position  `json:"headBefore" msgpack:"headBefore"`
	HeadAfter     grid.Position  `json:"headAfter" msgpack:"headAfter"`
	GameOver      bool           `json:"gameOver,omitempty" msgpack:"gameOver"`
	FoodEaten     int            `json:"foodEaten,omitempty" msgpack:"foodEaten"`
	Grown         int            `json:"grown,omitempty" msgpack:"grown"`
	GrowthIgnored int            `json:"growthIgnored,omitempty" msgpack:"growthIgnored"`
	Length        int            `json:"length" msgpack:"length"`
}

// Session is the complete state of one running simulation.
// All methods must be called from a single goroutine; phase order is the caller's contract.
type Session struct {
	id       string
	arena    grid.Arena
	start    Start
	registry *entity.Registry
	resolver *Resolver
	tail     LastTail
	signals  Signals
	rng      *rand.Rand

	log    logr.Logger
	tracer trace.Tracer

	tick   uint64
	games  int
	spawns uint64
}

// NewSession creates a session and performs the startup reset.
func NewSession(cfg Config, opts ...Option) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		id:       uuid.New().String(),
		arena:    cfg.Arena,
		start:    cfg.Start,
		registry: entity.NewRegistry(),
		resolver: NewResolver(cfg.Arena),
		rng:      rand.New(rand.NewSource(seed)),
		log:      logr.Discard(),
		tracer:   telemetry.Tracer("sim"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithValues("session", s.id)

	s.registry.Reset(s.start.Head, s.start.BodyOffset, s.start.Direction)
	s.games = 1

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Registry exposes the entity registry.
func (s *Session) Registry() *entity.Registry {
	return s.registry
}

// Arena returns the arena bounds.
func (s *Session) Arena() grid.Arena {
	return s.arena
}

// Ticks returns the number of movement ticks run so far.
func (s *Session) Ticks() uint64 {
	return s.tick
}

// Games returns how many games have started, the current one included.
func (s *Session) Games() int {
	return s.games
}

// Steer samples one direction intent. The last accepted intent before a
// movement tick is the heading that tick uses.
func (s *Session) Steer(intent Intent) bool {
	return Steer(s.registry, intent)
}

// MovementTick runs movement, collision and consumption, then growth.
func (s *Session) MovementTick(ctx context.Context) TickReport {
	ctx, span := s.tracer.Start(ctx, "snake.move")
	defer span.End()

	s.tick++
	report := TickReport{Tick: s.tick}

	moved := Move(s.registry, &s.tail)
	if moved.Skipped {
		report.Skipped = true
		span.SetAttributes(
			attribute.Int64("tick", int64(s.tick)),
			attribute.Bool("skipped", true),
		)
		s.log.Info("no snake head, skipping movement tick", "tick", s.tick)
		return report
	}

	report.Direction = moved.Direction
	report.HeadBefore = moved.Before[0]
	report.HeadAfter = moved.Head

	resolution := s.resolver.Resolve(s.registry, moved.Head, &s.signals)
	report.GameOver = resolution.GameOver
	report.FoodEaten = len(resolution.Eaten)

	growth := s.grow(ctx)
	report.Grown = growth.Added
	report.GrowthIgnored = growth.Ignored
	report.Length = s.registry.Len()

	span.SetAttributes(
		attribute.Int64("tick", int64(s.tick)),
		attribute.String("direction", moved.Direction.String()),
		attribute.Int("head.x", moved.Head.X),
		attribute.Int("head.y", moved.Head.Y),
		attribute.Int("length", report.Length),
		attribute.Bool("game_over", report.GameOver),
		attribute.Int("food_eaten", report.FoodEaten),
	)
	return report
}

// grow runs the growth phase for the current tick.
func (s *Session) grow(ctx context.Context) GrowthResult {
	if s.signals.Growth.Len() == 0 {
		return GrowthResult{}
	}

	_, span := s.tracer.Start(ctx, "snake.growth")
	defer span.End()

	result := Grow(s.registry, &s.tail, &s.signals.Growth)
	if result.Ignored > 0 {
		s.log.Info("growth ignored, no tail position recorded this tick", "tick", s.tick, "signals", result.Ignored)
	}

	span.SetAttributes(
		attribute.Int("segments_added", result.Added),
		attribute.Int("signals_ignored", result.Ignored),
	)
	return result
}

// ProcessGameOver resets the game if a game-over signal is pending.
func (s *Session) ProcessGameOver(ctx context.Context) bool {
	pending := s.signals.GameOver.Len()
	if pending == 0 {
		return false
	}

	_, span := s.tracer.Start(ctx, "snake.gameover")
	defer span.End()

	length := s.registry.Len()
	head := s.headPosition()

	if !ProcessGameOver(s.registry, &s.tail, &s.signals, s.start) {
		return false
	}
	s.games++

	span.SetAttributes(
		attribute.Int("head.x", head.X),
		attribute.Int("head.y", head.Y),
		attribute.Int("length", length),
		attribute.Int("games", s.games),
	)
	s.log.V(1).Info("game over, snake reset", "head", head.String(), "length", length, "games", s.games)
	return true
}

// SpawnTick places one food entity on a random cell.
func (s *Session) SpawnTick(ctx context.Context) entity.FoodItem {
	_, span := s.tracer.Start(ctx, "food.spawn")
	defer span.End()

	food := SpawnFood(s.registry, s.arena, s.rng)
	s.spawns++

	span.SetAttributes(
		attribute.Int("food.x", food.Position.X),
		attribute.Int("food.y", food.Position.Y),
		attribute.Int("food.count", s.registry.FoodCount()),
	)
	s.log.V(2).Info("food spawned", "at", food.Position.String(), "spawns", s.spawns)
	return food
}

// FrameInput is everything sampled during one scheduler pass.
type FrameInput struct {
	Intents []Intent
	Move    bool
	Spawn   bool
}

// FrameReport describes one scheduler pass.
type FrameReport struct {
	Move    *TickReport
	Reset   bool
	Spawned *entity.FoodItem
}

// Frame runs one scheduler pass in fixed phase order:
// intents, movement tick (if due), reset, food spawn (if due).
func (s *Session) Frame(ctx context.Context, in FrameInput) FrameReport {
	var report FrameReport

	for _, intent := range in.Intents {
		s.Steer(intent)
	}

	if in.Move {
		move := s.MovementTick(ctx)
		report.Move = &move
	}

	report.Reset = s.ProcessGameOver(ctx)

	if in.Spawn {
		food := s.SpawnTick(ctx)
		report.Spawned = &food
	}

	return report
}

// headPosition returns the head's position, or the zero position without a head.
func (s *Session) headPosition() grid.Position {
	head, ok := s.registry.Head()
	if !ok {
		return grid.Position{}
	}
	pos, _ := s.registry.Position(head)
	return pos
}
