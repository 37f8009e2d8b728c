package fastscan

import (
	"bytes"
	"errors"
)

// errGrowFailed is returned by scanPartition when a worker's local result
// buffer could not grow to hold a match that was not yet at the local cap.
// The coordinator treats this as fatal for the whole scan (StatusOutOfBounds).
var errGrowFailed = errors.New("fastscan: worker result buffer allocation failed")

// workerPartition describes one worker's share of a parallel scan: the
// absolute byte range it reads (scanStart, scanEnd — including the overlap
// prefix/suffix needed to catch matches straddling a logical chunk
// boundary) and the absolute offset at which its *owned* range begins
// (ownedStart). Any match whose absolute offset is < ownedStart belongs to
// the previous worker and must be discarded.
//
// Exists only for the duration of a parallel Execute call.
type workerPartition struct {
	scanStart  int64
	scanEnd    int64
	ownedStart int64
}

// partitionWork splits a region of size bytes into workers contiguous
// logical chunks of roughly size/workers bytes each (the last chunk
// absorbs the remainder), then widens each chunk's scan range by patLen-1
// bytes on the appropriate side(s) so that a pattern occurrence straddling
// a logical boundary is found by exactly one worker: the one whose owned
// range contains the match's starting offset.
//
// workers must be >= 1. Returns exactly workers partitions.
func partitionWork(size int64, patLen, workers int) []workerPartition {
	overlap := int64(patLen - 1)
	chunkSize := size / int64(workers)

	parts := make([]workerPartition, workers)

	for w := 0; w < workers; w++ {
		logicalStart := int64(w) * chunkSize

		var logicalEnd int64
		if w == workers-1 {
			logicalEnd = size
		} else {
			logicalEnd = logicalStart + chunkSize
		}

		scanStart := logicalStart
		if w > 0 {
			scanStart = logicalStart - overlap
		}

		scanEnd := logicalEnd
		if w < workers-1 {
			scanEnd = logicalEnd + overlap
			if scanEnd > size {
				scanEnd = size
			}
		}

		parts[w] = workerPartition{
			scanStart:  scanStart,
			scanEnd:    scanEnd,
			ownedStart: logicalStart,
		}
	}

	return parts
}

// growableU64 is a typed dynamic array of uint64 offsets with doubling
// growth, bounded by a local cap. Mirrors the per-thread result buffer in
// the native source (fastscan.c's thread_data_t + grow_buffer), expressed
// as a Go slice instead of a manual realloc.
type growableU64 struct {
	data []uint64
	cap  int
}

// newGrowableU64 allocates a buffer starting at initialCap (clamped to
// localCap), growing by doubling up to localCap.
func newGrowableU64(initialCap, localCap int) *growableU64 {
	if initialCap > localCap {
		initialCap = localCap
	}

	if initialCap < 0 {
		initialCap = 0
	}

	return &growableU64{
		data: make([]uint64, 0, initialCap),
		cap:  localCap,
	}
}

// append adds offset to the buffer. Returns false if the local cap has
// been reached (the caller should stop scanning) or if growth failed.
//
// Growth failure is modeled explicitly (rather than left to an
// unrecoverable runtime OOM panic) per the Open Question decision in
// DESIGN.md: a worker that cannot grow its buffer reports that as a
// genuine failure rather than silently truncating its results.
func (b *growableU64) append(offset uint64) (ok bool) {
	if len(b.data) >= b.cap {
		return false
	}

	if len(b.data) == cap(b.data) {
		if !b.grow() {
			return false
		}
	}

	b.data = append(b.data, offset)

	return true
}

// grow doubles the buffer's capacity (a zero-capacity buffer grows to
// 4096), clamped to the local cap. Returns false if the allocation itself fails
// (recovered from a runtime panic, since Go's make has no error-returning
// form).
func (b *growableU64) grow() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	newCap := cap(b.data) * 2
	if newCap == 0 {
		newCap = 4096
	}

	if newCap > b.cap {
		newCap = b.cap
	}

	grown := make([]uint64, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown

	return true
}

// scanPartition runs the literal-match algorithm over region's bytes
// restricted to part's scan range, discarding any match whose absolute
// offset falls before part.ownedStart, and appending survivors to a
// growable buffer capped at maxCollect. Returns the collected offsets (in
// ascending order, by construction) or a non-nil error if the buffer could
// not grow to hold a result that must be reported.
func scanPartition(data []byte, pattern []byte, part workerPartition, maxCollect, initialCap int) ([]uint64, error) {
	scanSlice := data[part.scanStart:part.scanEnd]

	patLen := len(pattern)
	if int64(len(scanSlice)) < int64(patLen) {
		return nil, nil
	}

	limit := len(scanSlice) - patLen
	first := pattern[0]

	buf := newGrowableU64(initialCap, maxCollect)

	pos := 0
	for pos <= limit {
		idx := bytes.IndexByte(scanSlice[pos:limit+1], first)
		if idx < 0 {
			break
		}

		candidate := pos + idx

		if verifyMatch(scanSlice, candidate, pattern) {
			abs := part.scanStart + int64(candidate)

			if abs >= part.ownedStart {
				if !buf.append(uint64(abs)) {
					if len(buf.data) >= maxCollect {
						break
					}

					return buf.data, errGrowFailed
				}
			}
		}

		pos = candidate + 1
	}

	return buf.data, nil
}
