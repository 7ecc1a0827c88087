// Package main verifies snakey replay recordings and prints a summary.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chungwong/snakey/internal/replay"
)

func main() {
	frames := flag.Bool("frames", false, "print one line per recorded tick")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-frames] <replay-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *frames {
		if err := printFrames(os.Stdout, path); err != nil {
			log.Fatalf("Failed to read replay: %v", err)
		}
	}

	summary, err := replay.VerifyFile(path)
	if err != nil {
		if errors.Is(err, replay.ErrDigestMismatch) {
			log.Printf("Replay %s is corrupt after %d frames", path, summary.Frames)
		}
		log.Fatalf("Verification failed: %v", err)
	}

	h := summary.Header
	fmt.Printf("session   %s\n", h.SessionID)
	fmt.Printf("recorded  %s\n", h.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("arena     %dx%d (seed %d)\n", h.Width, h.Height, h.Seed)
	fmt.Printf("frames    %d (last tick %d)\n", summary.Frames, summary.LastTick)
	fmt.Printf("resets    %d\n", summary.Resets)
	fmt.Printf("eaten     %d\n", summary.FoodEaten)
	fmt.Printf("longest   %d\n", summary.MaxLength)
	fmt.Println("digests   ok")
}

// printFrames writes one line per frame in the recording.
func printFrames(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader, err := replay.NewReader(f)
	if err != nil {
		return err
	}
	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		r := frame.Report
		line := fmt.Sprintf("%6d  %-5s %v -> %v  len %d", r.Tick, r.Direction, r.HeadBefore, r.HeadAfter, r.Length)
		if r.FoodEaten > 0 {
			line += fmt.Sprintf("  ate %d", r.FoodEaten)
		}
		if frame.Reset {
			line += "  reset"
		}
		fmt.Fprintf(w, "%s  %016x\n", line, frame.Digest)
	}
}
