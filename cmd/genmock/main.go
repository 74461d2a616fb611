// Command genmock writes a deterministic synthetic data tree with the same
// layout and file names as the packaged satellite statistics, for local
// development and tests. Re-running with the same flags produces identical
// files.
//
// Usage:
//
//	go run ./cmd/genmock -out data -samples 12 -seed 20241101
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/couchcryptid/division-data-service/internal/mockdata"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := mockdata.DefaultOptions()

	out := flag.String("out", "data", "output root; one directory per division is created")
	samples := flag.Int("samples", defaults.Samples, "samples per file")
	start := flag.String("start", defaults.Start.Format(time.DateOnly), "date of the first sample (YYYY-MM-DD)")
	interval := flag.Duration("interval", defaults.Interval, "time between samples")
	seed := flag.Uint64("seed", defaults.Seed, "noise seed")
	flag.Parse()

	startDate, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *samples < 1 {
		return fmt.Errorf("invalid -samples %d: must be positive", *samples)
	}

	written, err := mockdata.WriteTree(*out, mockdata.Options{
		Start:    startDate,
		Samples:  *samples,
		Interval: *interval,
		Seed:     *seed,
	})
	if err != nil {
		return err
	}

	log.Printf("wrote %d files under %s (%d samples each)", len(written), *out, *samples)
	return nil
}
