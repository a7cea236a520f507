package smaa

import (
	"context"
	"fmt"

	"github.com/gogpu/smaa/internal/parallel"
)

// CPUExecutor runs passes on a worker pool, one work item per band of rows.
// Bands write disjoint rows of the output, so no locking is needed inside a
// pass; the pool's ExecuteAll is the barrier at the end of each pass.
type CPUExecutor struct {
	pool     *parallel.WorkerPool
	bandRows int
}

// NewCPUExecutor creates a CPU executor with its own pool of workers
// goroutines. workers <= 0 selects GOMAXPROCS.
func NewCPUExecutor(workers int) *CPUExecutor {
	return &CPUExecutor{
		pool:     parallel.NewWorkerPool(workers),
		bandRows: parallel.DefaultBandRows,
	}
}

// Name returns "cpu".
func (e *CPUExecutor) Name() string { return "cpu" }

// Init is a no-op; the pool starts in NewCPUExecutor.
func (e *CPUExecutor) Init() error { return nil }

// Close stops the worker pool.
func (e *CPUExecutor) Close() {
	e.pool.Close()
}

// Workers returns the number of pool workers.
func (e *CPUExecutor) Workers() int { return e.pool.Workers() }

// Submit runs job on the pool and waits for every band.
func (e *CPUExecutor) Submit(ctx context.Context, job *PassJob) error {
	var rows func(y0, y1 int)

	switch job.Pass {
	case PassEdgeDetection:
		d := newEdgeDetector(job.Color, job.Aux, &job.Config)
		rows = func(y0, y1 int) { d.rows(job.Edges, y0, y1) }
	case PassBlendingWeight:
		w := newWeightPass(job.Edges, job.Tables, &job.Config)
		rows = func(y0, y1 int) { w.rows(job.Weights, y0, y1) }
	case PassNeighborhoodBlending:
		b := newBlender(job.Color, job.Weights, &job.Config)
		rows = func(y0, y1 int) { b.rows(job.Output, y0, y1) }
	default:
		return fmt.Errorf("smaa: cpu executor: unknown pass %d", job.Pass)
	}

	bands := parallel.SplitRows(jobHeight(job), e.bandRows)
	if err := e.pool.ForEachBand(ctx, bands, func(b parallel.Band) { rows(b.Y0, b.Y1) }); err != nil {
		return fmt.Errorf("smaa: %s pass: %w", job.Pass, err)
	}
	return nil
}

func jobHeight(job *PassJob) int {
	switch job.Pass {
	case PassEdgeDetection:
		return job.Edges.height
	case PassBlendingWeight:
		return job.Weights.height
	default:
		return job.Output.height
	}
}
