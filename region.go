package fastscan

// region.go defines the platform-independent Region contract. Its backend
// is split by build tag, following fileproc's io_contract.go convention:
//
//   - region_linux.go: Linux fast path (populate + sequential hints).
//   - region_unix.go:  darwin/bsd family (mmap without MAP_POPULATE).
//   - region_other.go: everything else; a heap-backed fallback that
//     satisfies the same contract without a real OS mapping.
//
// A Region is an immutable, read-only view of a file's bytes. While a
// Region is open, region.Bytes()[0:region.Size()) is safe to read
// concurrently from any number of goroutines; nothing in this package ever
// writes through it.
//
// Region does not embed a platform-specific field: openRegion returns a
// *Region whose data/size/closer fields were populated by the build-tagged
// backend. This keeps the cross-platform surface (openRegion/Close/Bytes/Size)
// in one place while letting each backend decide how bytes got there.
type Region struct {
	data   []byte
	size   int64
	closer func() error
}

// openRegion opens path read-only and establishes the backend's mapping (or
// fallback) over its full contents. hints controls whether the backend
// applies optional mmap hints (populate/sequential, see §4.2) — disabling
// them never changes correctness, only page-fault latency during the scan.
// Returns a *Region and StatusSuccess on success; on failure returns a
// nil *Region and the most specific applicable status (StatusOpenFailed or
// StatusMmapFailed).
//
// Implemented per-platform in region_linux.go / region_unix.go /
// region_other.go.
func openRegion(path string, hints bool) (*Region, Status) {
	return openRegionImpl(path, hints)
}

// Bytes returns the region's bytes. The returned slice is read-only by
// convention (the package never writes through it); callers must not
// retain it beyond the Region's Close.
//
// For an empty file, Bytes returns a non-nil, zero-length slice.
func (r *Region) Bytes() []byte {
	if r.size == 0 {
		return r.data[:0]
	}

	return r.data
}

// Size returns the region's byte count.
func (r *Region) Size() int64 {
	return r.size
}

// Close unmaps (or releases) the region and closes any backing descriptor.
// Idempotent: calling Close on an already-closed or zero-value Region is a
// no-op.
func (r *Region) Close() Status {
	if r == nil || r.closer == nil {
		return StatusSuccess
	}

	err := r.closer()
	r.closer = nil
	r.data = nil
	r.size = 0

	if err != nil {
		return StatusMmapFailed
	}

	return StatusSuccess
}

// RegionSize returns a file's size without mapping it, mirroring the
// native implementation's separate fs_get_file_size entry point
// (original_source/native/src/mmap_reader.c). Useful for callers (e.g. the
// CLI) that want to decide whether a scan is worth attempting before
// paying for a mapping.
func RegionSize(path string) (int64, Status) {
	return regionSizeImpl(path)
}
