// Package replay records movement ticks to a msgpack stream and verifies recordings.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chungwong/snakey/internal/sim"
)

// FormatVersion is written in every recording header.
const FormatVersion = 1

// DefaultBuffer is how many frames may wait for the writer before new ones are dropped.
const DefaultBuffer = 1024

// ErrClosed is returned when recording into a closed Recorder.
var ErrClosed = errors.New("replay: recorder closed")

// Header opens every recording.
type Header struct {
	Version   int       `msgpack:"version"`
	SessionID string    `msgpack:"sessionId"`
	Width     int       `msgpack:"width"`
	Height    int       `msgpack:"height"`
	Seed      int64     `msgpack:"seed"`
	Created   time.Time `msgpack:"created"`
}

// Frame is one recorded movement tick and the state it left behind.
type Frame struct {
	Tick     uint64         `msgpack:"tick"`
	Report   sim.TickReport `msgpack:"report"`
	Reset    bool           `msgpack:"reset"`
	Snapshot sim.Snapshot   `msgpack:"snapshot"`
	Digest   uint64         `msgpack:"digest"`
}

// Recorder writes frames asynchronously so the scheduler never waits on disk.
type Recorder struct {
	out    io.WriteCloser
	writer *bufio.Writer
	frames chan Frame
	log    logr.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool

	written atomic.Uint64
	dropped atomic.Uint64
	err     error
}

// Create opens path for writing, creating parent directories as needed.
func Create(path string, header Header, logger logr.Logger) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create replay dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}

	r, err := NewRecorder(f, header, DefaultBuffer, logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewRecorder writes the header to out and starts the background writer.
// The recorder owns out and closes it on Close.
func NewRecorder(out io.WriteCloser, header Header, buffer int, logger logr.Logger) (*Recorder, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	header.Version = FormatVersion
	if header.Created.IsZero() {
		header.Created = time.Now().UTC()
	}

	r := &Recorder{
		out:    out,
		writer: bufio.NewWriter(out),
		frames: make(chan Frame, buffer),
		log:    logger.WithName("replay"),
	}

	enc := msgpack.NewEncoder(r.writer)
	if err := enc.Encode(&header); err != nil {
		return nil, fmt.Errorf("failed to write replay header: %w", err)
	}

	r.wg.Add(1)
	go r.writeLoop(enc)

	return r, nil
}

// Record queues a frame for the movement tick in report. It never blocks:
// if the writer has fallen behind the frame is dropped and false is returned.
func (r *Recorder) Record(report sim.TickReport, reset bool, snap sim.Snapshot) (bool, error) {
	digest, err := snap.Digest()
	if err != nil {
		return false, fmt.Errorf("failed to digest snapshot: %w", err)
	}
	frame := Frame{Tick: report.Tick, Report: report, Reset: reset, Snapshot: snap, Digest: digest}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrClosed
	}

	select {
	case r.frames <- frame:
		return true, nil
	default:
		if r.dropped.Add(1) == 1 {
			r.log.Info("replay writer behind, dropping frames", "tick", frame.Tick)
		}
		return false, nil
	}
}

// Written returns how many frames reached the encoder.
func (r *Recorder) Written() uint64 {
	return r.written.Load()
}

// Dropped returns how many frames were discarded because the buffer was full.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Close drains queued frames, flushes and closes the output.
// It returns the first write error seen. Closing twice is a no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.frames)
	r.mu.Unlock()

	r.wg.Wait()

	if err := r.writer.Flush(); err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to flush replay: %w", err)
	}
	if err := r.out.Close(); err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to close replay: %w", err)
	}

	r.log.V(1).Info("replay closed", "written", r.Written(), "dropped", r.Dropped())
	return r.err
}

func (r *Recorder) writeLoop(enc *msgpack.Encoder) {
	defer r.wg.Done()

	for frame := range r.frames {
		if r.err != nil {
			continue
		}
		if err := enc.Encode(&frame); err != nil {
			r.err = fmt.Errorf("failed to write frame %d: %w", frame.Tick, err)
			r.log.Error(err, "replay write failed", "tick", frame.Tick)
			continue
		}
		r.written.Add(1)
	}
}
