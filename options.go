package fastscan

import "runtime"

// Internal tunables. Named and commented the way the teacher's options.go
// documents its own constants — correctness boundaries are called out as
// such; everything else is a tunable with a stated rationale.
const (
	// defaultSmallFileThreshold is the region-size cutoff below which
	// Execute runs the raw scanner directly instead of partitioning into
	// workers. Not a correctness boundary (§4.4): any value is safe, this
	// one just amortizes worker-spawn overhead against the small-file
	// case where it isn't worth paying for.
	defaultSmallFileThreshold = 256 * 1024

	// defaultWorkerInitialCapacity is the starting capacity of each
	// worker's growable local result buffer (§4.4), doubling from there
	// up to the global cap.
	defaultWorkerInitialCapacity = 4096

	// maxPathLen and maxPatternLen are bridge-layer marshalling limits
	// (§6), not core-algorithm limits: rawscan.go and partition.go have
	// no intrinsic bound on pattern length.
	maxPathLen    = 1024
	maxPatternLen = 4096
)

// Option configures a [Context] created by [NewContext].
type Option func(*config)

type config struct {
	workers               int
	smallFileThreshold    int64
	workerInitialCapacity int
	mmapHints             bool
}

func defaultConfig() config {
	return config{
		workers:               defaultWorkerCount(),
		smallFileThreshold:    defaultSmallFileThreshold,
		workerInitialCapacity: defaultWorkerInitialCapacity,
		mmapHints:             true,
	}
}

// defaultWorkerCount returns max(1, NumCPU-1), leaving one core for the
// host runtime's other work, per §4.4.
func defaultWorkerCount() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		return 1
	}

	return n
}

// WithWorkers overrides the parallel worker count W (default
// max(1, NumCPU-1)). Values <= 0 are ignored (default retained).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithSmallFileThreshold overrides the region-size cutoff (in bytes) below
// which Execute scans single-threaded instead of partitioning into
// workers. Default 256 KiB. Values <= 0 are ignored.
func WithSmallFileThreshold(bytes int64) Option {
	return func(c *config) {
		if bytes > 0 {
			c.smallFileThreshold = bytes
		}
	}
}

// WithWorkerInitialCapacity overrides each worker's starting local result
// buffer capacity (default 4096 offsets). Values <= 0 are ignored.
func WithWorkerInitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workerInitialCapacity = n
		}
	}
}

// WithMmapHints toggles the optional populate/sequential mmap hints
// (§4.2). Disabling them never changes a scan's result, only page-fault
// latency while it runs. Default enabled.
func WithMmapHints(enabled bool) Option {
	return func(c *config) {
		c.mmapHints = enabled
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
