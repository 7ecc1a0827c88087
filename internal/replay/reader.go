package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrDigestMismatch is returned by Verify when a frame's snapshot does not hash to its recorded digest.
var ErrDigestMismatch = errors.New("replay: digest mismatch")

// Reader iterates the frames of a recording.
type Reader struct {
	dec    *msgpack.Decoder
	header Header
}

// NewReader reads the recording header from r.
func NewReader(r io.Reader) (*Reader, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))

	var header Header
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("failed to read replay header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported replay version %d", header.Version)
	}
	return &Reader{dec: dec, header: header}, nil
}

// Header returns the recording header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	var frame Frame
	if err := r.dec.Decode(&frame); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}
	return frame, nil
}

// Summary describes a verified recording.
type Summary struct {
	Header    Header
	Frames    int
	Resets    int
	FoodEaten int
	MaxLength int
	LastTick  uint64
}

// Verify reads every frame from r and recomputes its digest.
// It stops at the first mismatch and returns ErrDigestMismatch.
func Verify(r io.Reader) (Summary, error) {
	reader, err := NewReader(r)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Header: reader.Header()}
	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		digest, err := frame.Snapshot.Digest()
		if err != nil {
			return summary, fmt.Errorf("failed to digest frame %d: %w", frame.Tick, err)
		}
		if digest != frame.Digest {
			return summary, fmt.Errorf("%w: tick %d recorded %016x, computed %016x",
				ErrDigestMismatch, frame.Tick, frame.Digest, digest)
		}

		summary.Frames++
		summary.LastTick = frame.Tick
		summary.FoodEaten += frame.Report.FoodEaten
		if frame.Reset {
			summary.Resets++
		}
		if frame.Report.Length > summary.MaxLength {
			summary.MaxLength = frame.Report.Length
		}
	}
}

// VerifyFile opens path and verifies it.
func VerifyFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open replay: %w", err)
	}
	defer f.Close()

	return Verify(f)
}
