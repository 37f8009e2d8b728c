// Package snippet extracts human-readable context around a byte-pattern
// match.
//
// It is a thin, external collaborator to the fastscan core: it takes and
// returns plain
// Go values — never a [fastscan.Status] — and has no notion of mmap,
// workers, or ownership transfer. It exists because the single most common
// reason a caller wants a match offset is to show what surrounds it.
package snippet

// Around returns the bytes surrounding a match: up to radius bytes before
// offset and up to radius bytes after offset+patternLen, clamped to
// region's bounds. The match itself is included in the returned slice.
//
// Around does not copy region; the returned slice aliases it. Callers that
// need the snippet to outlive region (e.g. a memory-mapped [fastscan.Region])
// must copy it themselves.
//
// Panics if offset or patternLen are negative, or if offset+patternLen
// exceeds len(region) — both indicate a caller bug (an offset that didn't
// come from a real match), not a runtime condition to recover from.
func Around(region []byte, offset, patternLen, radius int) []byte {
	if offset < 0 || patternLen < 0 || offset+patternLen > len(region) {
		panic("snippet: offset/patternLen out of range for region")
	}

	if radius < 0 {
		radius = 0
	}

	start := offset - radius
	if start < 0 {
		start = 0
	}

	end := offset + patternLen + radius
	if end > len(region) {
		end = len(region)
	}

	return region[start:end]
}

// Line extends Around to the enclosing line: it widens the returned slice
// outward to the nearest preceding '\n' (exclusive) and the nearest
// following '\n' (exclusive), falling back to region's bounds if no
// newline is found in either direction.
func Line(region []byte, offset, patternLen int) []byte {
	if offset < 0 || patternLen < 0 || offset+patternLen > len(region) {
		panic("snippet: offset/patternLen out of range for region")
	}

	start := offset
	for start > 0 && region[start-1] != '\n' {
		start--
	}

	end := offset + patternLen
	for end < len(region) && region[end] != '\n' {
		end++
	}

	return region[start:end]
}
