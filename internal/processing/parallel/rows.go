// Package parallel splits per-row image work into bands processed
// concurrently.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps tiny images on a single goroutine.
const minBandRows = 16

// Workers normalizes a requested worker count; non-positive values mean one
// worker per CPU.
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

// Band is a half-open row range [Y0, Y1) together with its index in the split.
type Band struct {
	Index int
	Y0    int
	Y1    int
}

// Split divides height rows into at most workers contiguous bands.
func Split(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	workers = Workers(workers)
	if max := (height + minBandRows - 1) / minBandRows; workers > max {
		workers = max
	}

	bands := make([]Band, 0, workers)
	step := height / workers
	extra := height % workers
	y := 0
	for i := 0; i < workers; i++ {
		n := step
		if i < extra {
			n++
		}
		bands = append(bands, Band{Index: i, Y0: y, Y1: y + n})
		y += n
	}
	return bands
}

// Rows runs fn over every band of the split, at most workers at a time, and
// returns the first error encountered.
func Rows(height, workers int, fn func(b Band) error) error {
	bands := Split(height, workers)
	if len(bands) == 1 {
		return fn(bands[0])
	}

	var g errgroup.Group
	g.SetLimit(Workers(workers))
	for _, b := range bands {
		g.Go(func() error {
			return fn(b)
		})
	}
	return g.Wait()
}
