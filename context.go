package fastscan

import (
	"context"
	"sync"
	"unicode/utf8"
)

// Context is the scan coordinator (§4.4). It owns a borrowed reference to
// the pattern bytes, the Region once loaded, the cap, and — after a
// successful Execute — the final match list.
//
// Lifecycle: NewContext (validates pattern+cap) → Load (opens a Region) →
// Execute (populates the match list) → Destroy (frees everything) or
// Detach (transfers match-list ownership to the caller, then Destroy frees
// only the Region).
//
// A Context is not safe for concurrent use by multiple goroutines calling
// its methods simultaneously; the concurrency this package provides is
// internal to a single Execute call.
type Context struct {
	pattern []byte
	cap     int
	cfg     config

	region *Region

	matches  []uint64
	detached bool
}

// NewContext validates pattern and cap and returns an initialized Context.
// pattern must be non-empty and shorter than the bridge-layer marshalling
// limit (4096 bytes, §6); cap must be positive. Neither limit is a
// property of the scanning algorithm itself (see DESIGN.md Open Question
// 4) — a caller embedding this package directly, rather than through a
// size-constrained bridge, is free to fork a variant with larger limits.
func NewContext(pattern []byte, cap int, opts ...Option) (*Context, error) {
	if pattern == nil {
		return nil, newScanError("init", "", StatusNullArg)
	}

	if len(pattern) == 0 || len(pattern) >= maxPatternLen {
		return nil, newScanError("init", "", StatusInvalidArg)
	}

	if cap <= 0 {
		return nil, newScanError("init", "", StatusInvalidArg)
	}

	return &Context{
		pattern: pattern,
		cap:     cap,
		cfg:     applyOptions(opts),
	}, nil
}

// Load opens a Region for path. path must be valid UTF-8 and shorter than
// the bridge-layer path limit (1024 bytes, §6).
//
// Calling Load on a Context that already has a Region open replaces it,
// closing the previous one first.
func (c *Context) Load(path string) error {
	if len(path) >= maxPathLen || !utf8.ValidString(path) {
		return newScanError("load", path, StatusInvalidArg)
	}

	if c.region != nil {
		c.region.Close()
		c.region = nil
	}

	region, status := openRegion(path, c.cfg.mmapHints)
	if status != StatusSuccess {
		return newScanError("load", path, status)
	}

	c.region = region

	return nil
}

// ExecuteSync performs the scan synchronously, populating the Context's
// match list. Equivalent to Execute(context.Background()).
func (c *Context) ExecuteSync() error {
	return c.Execute(context.Background())
}

// Execute performs the scan, populating the Context's match list.
// Execute requires a prior successful Load.
//
// ctx is checked on entry (for both the direct and the parallel path),
// before spawning workers, and again once they've all joined, before the
// merged result is attached to the Context; if it is done at any of these
// checks, Execute returns nil and leaves the match list unset. It is not
// checked mid-scan: per §5, cancellation is not part of the
// core contract, and this is a coarse short-circuit for callers running
// Execute on a goroutine they can abandon, not a guarantee that in-flight
// worker ranges stop early.
func (c *Context) Execute(ctx context.Context) error {
	if c.region == nil {
		return newScanError("execute", "", StatusNullArg)
	}

	if ctx.Err() != nil {
		return nil
	}

	size := c.region.Size()
	data := c.region.Bytes()

	if size < c.cfg.smallFileThreshold {
		out, status := allocOut(c.cap)
		if status != StatusSuccess {
			return newScanError("execute", "", status)
		}

		n := scanRaw(data, c.pattern, c.cap, out)
		c.matches = out[:n]

		return nil
	}

	if ctx.Err() != nil {
		return nil
	}

	matches, status := c.executeParallel(data, size)
	if status != StatusSuccess {
		return newScanError("execute", "", status)
	}

	if ctx.Err() != nil {
		return nil
	}

	c.matches = matches

	return nil
}

// executeParallel implements the §4.4 partition/scan/merge pipeline.
func (c *Context) executeParallel(data []byte, size int64) ([]uint64, Status) {
	workers := c.cfg.workers
	parts := partitionWork(size, len(c.pattern), workers)

	results := make([][]uint64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup

	wg.Add(workers)

	for w := range parts {
		go func(i int, part workerPartition) {
			defer wg.Done()

			res, err := scanPartition(data, c.pattern, part, c.cap, c.cfg.workerInitialCapacity)
			results[i] = res
			errs[i] = err
		}(w, parts[w])
	}

	wg.Wait()

	// A worker that could not grow its buffer is fatal for the whole
	// scan (DESIGN.md Open Question 1): no partial results are returned.
	for _, err := range errs {
		if err != nil {
			return nil, StatusOutOfBounds
		}
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}

	n := total
	if n > c.cap {
		n = c.cap
	}

	merged, status := allocMerged(n)
	if status != StatusSuccess {
		return nil, status
	}

	// Worker index order equals ascending file-offset order, because each
	// worker only emits offsets >= its ownedStart (§4.4 step 3).
	for _, r := range results {
		remaining := n - len(merged)
		if remaining <= 0 {
			break
		}

		if len(r) > remaining {
			r = r[:remaining]
		}

		merged = append(merged, r...)
	}

	return merged, StatusSuccess
}

// allocOut allocates the direct (single-threaded) path's fixed-size output
// buffer, recovering from an allocation panic the same way allocMerged
// does for the parallel path's merge buffer.
func allocOut(cap int) (buf []uint64, status Status) {
	defer func() {
		if recover() != nil {
			buf, status = nil, StatusOutOfBounds
		}
	}()

	return make([]uint64, cap), StatusSuccess
}

// allocMerged allocates the coordinator's final buffer, recovering from an
// allocation panic (there is no error-returning make()) to surface
// StatusOutOfBounds per §4.4's merge-allocation-failure clause rather than
// crashing the process.
func allocMerged(n int) (buf []uint64, status Status) {
	defer func() {
		if recover() != nil {
			buf, status = nil, StatusOutOfBounds
		}
	}()

	return make([]uint64, 0, n), StatusSuccess
}

// Matches returns the Context's match list. Valid after a successful
// Execute and before Destroy/Detach.
func (c *Context) Matches() []uint64 {
	return c.matches
}

// MatchCount returns len(Matches()).
func (c *Context) MatchCount() int {
	return len(c.matches)
}

// Detach transfers ownership of the match list to the caller: it returns a
// [ResultBuffer] whose backing memory Destroy will never free, and whose
// lifetime is the caller's responsibility (via [ResultBuffer.Release] or
// its finalizer). The Context forgets its match list; calling Detach twice
// or calling it before Execute returns an error.
func (c *Context) Detach() (*ResultBuffer, error) {
	// c.matches stays nil until an Execute completes (a completed Execute
	// always leaves a non-nil, possibly empty, slice).
	if c.detached || c.matches == nil {
		return nil, newScanError("detach", "", StatusInvalidArg)
	}

	rb, status := newResultBuffer(c.matches)
	if status != StatusSuccess {
		return nil, newScanError("detach", "", status)
	}

	c.matches = nil
	c.detached = true

	return rb, nil
}

// Destroy frees the match list (unless detached) and closes the Region.
// Idempotent: calling Destroy more than once is legal and frees nothing
// the second time.
func (c *Context) Destroy() {
	if c.region != nil {
		c.region.Close()
		c.region = nil
	}

	if !c.detached {
		c.matches = nil
	}
}
