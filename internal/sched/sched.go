// Package sched drives batched, cooperatively-yielding parse work:
// process one fixed-size batch of units, suspend briefly, resume.
package sched

import (
	"context"
	"time"
)

const (
	// DefaultBatchSize is the number of units processed between yields.
	DefaultBatchSize = 500
	// DefaultYieldDelay is the constant suspension between batches.
	DefaultYieldDelay = time.Millisecond
)

// Cursor tracks progress through fixed-size batches of units.
// The parse is complete iff Completed == Units.
type Cursor struct {
	Units     int
	BatchSize int
	Completed int
}

// NewCursor returns a cursor over units with the given batch size.
// A non-positive batch size falls back to DefaultBatchSize.
func NewCursor(units, batchSize int) Cursor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return Cursor{Units: units, BatchSize: batchSize}
}

// Next returns the half-open unit window [start, end) of the next batch
// and advances the cursor. ok is false once all units are completed;
// the final batch may be partial.
func (c *Cursor) Next() (start, end int, ok bool) {
	if c.Completed >= c.Units {
		return 0, 0, false
	}
	start = c.Completed
	end = start + c.BatchSize
	if end > c.Units {
		end = c.Units
	}
	c.Completed = end
	return start, end, true
}

// Done reports whether every unit has been processed.
func (c *Cursor) Done() bool {
	return c.Completed >= c.Units
}

// Runner executes batched work with a yield between batches.
// The zero value uses the defaults.
type Runner struct {
	BatchSize  int
	YieldDelay time.Duration
}

// Run processes units in batches, calling fn with each [start, end) window
// in strictly increasing order. Between batches it suspends for the yield
// delay and honors ctx cancellation; there is no suspension after the
// final batch. An fn error aborts the run.
func (r Runner) Run(ctx context.Context, units int, fn func(start, end int) error) error {
	delay := r.YieldDelay
	if delay <= 0 {
		delay = DefaultYieldDelay
	}
	cur := NewCursor(units, r.BatchSize)
	for {
		start, end, ok := cur.Next()
		if !ok {
			return nil
		}
		if err := fn(start, end); err != nil {
			return err
		}
		if cur.Done() {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
