package parallel

import (
	"context"
	"sync/atomic"
)

// DefaultBandRows is the number of rows per band when none is given.
const DefaultBandRows = 64

// Band is a horizontal strip of rows [Y0, Y1) processed by one work item.
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// SplitRows cuts height rows into consecutive bands of at most rows rows.
// A non-positive rows value selects DefaultBandRows.
func SplitRows(height, rows int) []Band {
	if height <= 0 {
		return nil
	}
	if rows <= 0 {
		rows = DefaultBandRows
	}
	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{Y0: y, Y1: min(y+rows, height)})
	}
	return bands
}

// ForEachBand runs fn for every band on the pool and waits for all of them.
// Bands that have not started when ctx is canceled are skipped, and the
// context error is returned. A closed pool runs nothing and reports
// ErrPoolClosed.
func (p *WorkerPool) ForEachBand(ctx context.Context, bands []Band, fn func(Band)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.IsRunning() {
		return ErrPoolClosed
	}

	var done atomic.Int64
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() {
			if ctx.Err() != nil {
				return
			}
			fn(b)
			done.Add(1)
		}
	}
	p.ExecuteAll(work)

	if err := ctx.Err(); err != nil {
		return err
	}
	if int(done.Load()) != len(bands) {
		return ErrPoolClosed
	}
	return nil
}
