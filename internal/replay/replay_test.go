package replay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chungwong/snakey/internal/sim"
	"github.com/chungwong/snakey/internal/telemetry"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

// recordGame plays a fixed game into rec and returns how many frames were queued.
func recordGame(t *testing.T, rec *Recorder, moves int) int {
	t.Helper()

	cfg := sim.DefaultConfig()
	cfg.Seed = 11
	s := sim.NewSession(cfg, sim.WithSessionID("replay-test"), sim.WithTracer(telemetry.NoopTracer()))
	ctx := context.Background()

	queued := 0
	for i := 0; i < moves; i++ {
		report := s.Frame(ctx, sim.FrameInput{
			Intents: []sim.Intent{sim.IntentRight},
			Move:    true,
			Spawn:   i%2 == 0,
		})
		ok, err := rec.Record(*report.Move, report.Reset, s.Snapshot())
		if err != nil {
			t.Fatalf("Record() error: %v", err)
		}
		if ok {
			queued++
		}
	}
	return queued
}

func TestRecordAndVerify(t *testing.T) {
	out := &bufferCloser{}
	rec, err := NewRecorder(out, Header{SessionID: "replay-test", Width: 10, Height: 10, Seed: 11}, 64, logr.Discard())
	if err != nil {
		t.Fatalf("NewRecorder() error: %v", err)
	}

	queued := recordGame(t, rec, 20)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !out.closed {
		t.Error("Close() should close the output")
	}
	if queued != 20 || rec.Written() != 20 || rec.Dropped() != 0 {
		t.Errorf("queued %d, written %d, dropped %d; want 20, 20, 0", queued, rec.Written(), rec.Dropped())
	}

	summary, err := Verify(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if summary.Frames != 20 {
		t.Errorf("Frames = %d, want 20", summary.Frames)
	}
	if summary.LastTick != 20 {
		t.Errorf("LastTick = %d, want 20", summary.LastTick)
	}
	// Heading right from (3,3) leaves the 10-wide arena on the seventh move.
	if summary.Resets < 1 {
		t.Errorf("Resets = %d, want at least 1", summary.Resets)
	}
	if summary.Header.SessionID != "replay-test" || summary.Header.Version != FormatVersion {
		t.Errorf("Header = %+v, want session replay-test, version %d", summary.Header, FormatVersion)
	}
}

func TestReaderFrames(t *testing.T) {
	out := &bufferCloser{}
	rec, err := NewRecorder(out, Header{SessionID: "replay-test"}, 0, logr.Discard())
	if err != nil {
		t.Fatalf("NewRecorder() error: %v", err)
	}
	recordGame(t, rec, 3)
	rec.Close()

	reader, err := NewReader(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}

	for want := uint64(1); want <= 3; want++ {
		frame, err := reader.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if frame.Tick != want {
			t.Errorf("frame tick = %d, want %d", frame.Tick, want)
		}
		head, ok := frame.Snapshot.Head()
		if !ok {
			t.Fatal("frame snapshot should have a head")
		}
		if head.Position != frame.Report.HeadAfter {
			t.Errorf("snapshot head %v, report head %v", head.Position, frame.Report.HeadAfter)
		}
	}

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after last frame = %v, want io.EOF", err)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(&Header{Version: FormatVersion}); err != nil {
		t.Fatal(err)
	}

	s := sim.NewSession(sim.DefaultConfig(), sim.WithTracer(telemetry.NoopTracer()))
	snap := s.Snapshot()
	digest, _ := snap.Digest()
	snap.Tick = 500
	if err := enc.Encode(&Frame{Tick: 1, Snapshot: snap, Digest: digest}); err != nil {
		t.Fatal(err)
	}

	if _, err := Verify(&buf); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("Verify() = %v, want %v", err, ErrDigestMismatch)
	}
}

func TestVerifyRejectsVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&Header{Version: FormatVersion + 1}); err != nil {
		t.Fatal(err)
	}

	if _, err := Verify(&buf); err == nil {
		t.Error("Verify() should reject an unknown version")
	}
}

func TestRecordAfterClose(t *testing.T) {
	rec, err := NewRecorder(&bufferCloser{}, Header{}, 1, logr.Discard())
	if err != nil {
		t.Fatalf("NewRecorder() error: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}

	s := sim.NewSession(sim.DefaultConfig(), sim.WithTracer(telemetry.NoopTracer()))
	if _, err := rec.Record(sim.TickReport{Tick: 1}, false, s.Snapshot()); !errors.Is(err, ErrClosed) {
		t.Errorf("Record() after Close = %v, want %v", err, ErrClosed)
	}
}

func TestCreateAndVerifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records", "game.snakey")

	rec, err := Create(path, Header{SessionID: "file-test"}, logr.Discard())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	recordGame(t, rec, 5)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	summary, err := VerifyFile(path)
	if err != nil {
		t.Fatalf("VerifyFile() error: %v", err)
	}
	if summary.Frames != 5 {
		t.Errorf("Frames = %d, want 5", summary.Frames)
	}
}
