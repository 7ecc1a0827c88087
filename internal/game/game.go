package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chungwong/snakey/internal/replay"
	"github.com/chungwong/snakey/internal/sim"
	"github.com/chungwong/snakey/internal/stream"
	"github.com/chungwong/snakey/internal/telemetry"
	"github.com/chungwong/snakey/internal/ui"
)

// Option customizes a Game.
type Option func(*Game)

// WithRecorder records every movement tick.
func WithRecorder(rec *replay.Recorder) Option {
	return func(g *Game) { g.recorder = rec }
}

// WithHub broadcasts snapshots to spectators and accepts their steering.
func WithHub(hub *stream.Hub) Option {
	return func(g *Game) { g.hub = hub }
}

// WithLogger sets the game logger.
func WithLogger(logger logr.Logger) Option {
	return func(g *Game) { g.log = logger }
}

// WithTracer sets the tracer used for the init span.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Game) { g.tracer = tracer }
}

// Game drives one session from the terminal.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *sim.Session
	sched    *Scheduler
	cfg      Config

	recorder *replay.Recorder
	hub      *stream.Hub
	log      logr.Logger
	tracer   trace.Tracer

	state   State
	running bool
	pending []sim.Intent
}

// New creates a game that draws session to screen.
func New(screen *ui.Screen, session *sim.Session, cfg Config, opts ...Option) *Game {
	g := &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		session:  session,
		sched:    NewScheduler(cfg.MoveInterval, cfg.SpawnInterval),
		cfg:      cfg,
		log:      logr.Discard(),
		tracer:   telemetry.Tracer("game"),
		state:    StatePlaying,
		running:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns whether the game is playing or paused.
func (g *Game) State() State {
	return g.state
}

// Run executes the scheduler loop until the player quits or ctx is cancelled.
// The screen is closed on return.
func (g *Game) Run(ctx context.Context) error {
	_, initSpan := g.tracer.Start(ctx, "game.init")
	arena := g.session.Arena()
	initSpan.SetAttributes(
		attribute.String("session.id", g.session.ID()),
		attribute.Int("arena.width", arena.Width),
		attribute.Int("arena.height", arena.Height),
		attribute.Int64("frame_interval_ms", g.cfg.FrameInterval.Milliseconds()),
		attribute.Int64("move_interval_ms", g.cfg.MoveInterval.Milliseconds()),
		attribute.Int64("spawn_interval_ms", g.cfg.SpawnInterval.Milliseconds()),
	)
	initSpan.End()

	done := make(chan struct{})
	events := g.pollEvents(done)
	defer func() {
		close(done)
		g.screen.Close()
	}()

	var spectators <-chan sim.Intent
	if g.hub != nil {
		spectators = g.hub.Intents()
	}

	ticker := time.NewTicker(g.cfg.FrameInterval)
	defer ticker.Stop()

	g.sched.Reset(time.Now())
	g.render()
	g.log.Info("game started", "session", g.session.ID())

	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ev)
		case intent := <-spectators:
			if g.state == StatePlaying {
				g.pending = append(g.pending, intent)
			}
		case now := <-ticker.C:
			g.frame(ctx, now)
		}
	}

	g.log.Info("game stopped", "ticks", g.session.Ticks(), "games", g.session.Games())
	return nil
}

// pollEvents forwards terminal events until the screen closes or done is closed.
func (g *Game) pollEvents(done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// handleEvent processes a single terminal event.
func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	cmd, intent := KeyCommand(ev)
	switch cmd {
	case CommandQuit:
		g.running = false
	case CommandPause:
		g.togglePause()
	case CommandSteer:
		if g.state == StatePlaying {
			g.pending = append(g.pending, intent)
		}
	}
}

// togglePause switches between playing and paused. Resuming restarts both timers.
func (g *Game) togglePause() {
	if g.state == StatePlaying {
		g.state = StatePaused
		g.pending = g.pending[:0]
	} else {
		g.state = StatePlaying
		g.sched.Reset(time.Now())
	}
	g.log.V(1).Info("state changed", "state", g.state.String())
	g.render()
}

// frame runs one scheduler pass and redraws.
func (g *Game) frame(ctx context.Context, now time.Time) {
	if g.state != StatePlaying {
		return
	}

	move, spawn := g.sched.Due(now)
	report := g.session.Frame(ctx, sim.FrameInput{Intents: g.pending, Move: move, Spawn: spawn})
	g.pending = g.pending[:0]

	if report.Move == nil && report.Spawned == nil && !report.Reset {
		return
	}

	snap := g.session.Snapshot()
	if g.recorder != nil && report.Move != nil {
		if _, err := g.recorder.Record(*report.Move, report.Reset, snap); err != nil {
			g.log.Error(err, "recording failed, disabling replay")
			g.recorder = nil
		}
	}
	if g.hub != nil {
		if err := g.hub.Broadcast(snap); err != nil {
			g.log.Error(err, "broadcast failed")
		}
	}
	g.draw(snap)
}

func (g *Game) render() {
	g.draw(g.session.Snapshot())
}

func (g *Game) draw(snap sim.Snapshot) {
	status := ui.Status{Paused: g.state == StatePaused}
	if g.hub != nil {
		status.Spectators = g.hub.Clients()
	}
	g.renderer.Render(snap, status)
}
