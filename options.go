package smaa

import "github.com/gogpu/smaa/tables"

// Option configures a Filter during creation.
//
// Example:
//
//	// Default: registered executor if any, CPU otherwise
//	f, err := smaa.NewFilter(smaa.DefaultConfig())
//
//	// CPU only, four workers
//	f, err := smaa.NewFilter(cfg, smaa.WithCPUOnly(), smaa.WithWorkers(4))
type Option func(*filterOptions)

type filterOptions struct {
	workers  int
	bandRows int
	tables   *tables.Set
	executor Executor
	cpuOnly  bool

	bufferSizes int
}

// defaultBufferSizes is how many frame geometries a filter keeps buffers
// for.
const defaultBufferSizes = 2

func defaultOptions() filterOptions {
	return filterOptions{bufferSizes: defaultBufferSizes}
}

// WithWorkers sets the number of CPU worker goroutines.
// Zero or negative selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *filterOptions) {
		o.workers = n
	}
}

// WithBandRows sets the number of rows each CPU work item processes.
func WithBandRows(n int) Option {
	return func(o *filterOptions) {
		o.bandRows = n
	}
}

// WithTables uses a preloaded table set, for example one decoded from a
// bundled asset with tables.Decode, instead of generating the tables.
func WithTables(s *tables.Set) Option {
	return func(o *filterOptions) {
		o.tables = s
	}
}

// WithExecutor uses e for every pass instead of the registered executor.
// The filter does not call Init or Close on e.
func WithExecutor(e Executor) Option {
	return func(o *filterOptions) {
		o.executor = e
	}
}

// WithCPUOnly ignores any registered executor.
func WithCPUOnly() Option {
	return func(o *filterOptions) {
		o.cpuOnly = true
	}
}

// WithBufferCache sets how many frame geometries (size and format) the
// filter keeps intermediate buffers for. Streams that alternate between a
// few resolutions avoid reallocating on every frame. n <= 0 keeps one.
func WithBufferCache(n int) Option {
	return func(o *filterOptions) {
		o.bufferSizes = max(n, 1)
	}
}
