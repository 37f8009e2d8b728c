package fastscan

import "bytes"

// scanRaw writes into out every offset i in [0, len(data)-len(pattern)] such
// that data[i:i+len(pattern)] == pattern, in strictly ascending i, stopping
// once cap matches have been written, and returns the number written. It
// is a pure function: it never allocates, never touches a Region or a
// Context, and never reads beyond data[:len(data)].
//
// out must have length of at least cap; cap <= len(out) is the caller's
// responsibility (see allocOut in context.go).
//
// Algorithm shape (matches §4.3 of the design): first-byte positions are
// located via bytes.IndexByte, which the Go runtime implements as a
// hand-written vectorized routine per architecture (SSE2/AVX2 on amd64,
// NEON on arm64) — this is the "load the first pattern byte into a 16-wide
// vector register and compare in strides" step without hand-rolled
// assembly, satisfying the spec's "SIMD or equivalent" allowance. A
// second-byte prefilter short-circuits before the full verification when
// the pattern is at least two bytes, halving verification cost on noisy
// patterns where the first byte recurs often but the second rarely follows
// it. Full verification is bytes.Equal, itself vectorized by the runtime
// for the common pattern lengths this package expects.
func scanRaw(data, pattern []byte, cap int, out []uint64) int {
	if cap == 0 {
		return 0
	}

	dataLen := len(data)
	patLen := len(pattern)

	if dataLen < patLen {
		return 0
	}

	// limit is the last index at which a full pattern could start.
	limit := dataLen - patLen

	first := pattern[0]
	count := 0
	pos := 0

	for pos <= limit && count < cap {
		idx := bytes.IndexByte(data[pos:limit+1], first)
		if idx < 0 {
			break
		}

		candidate := pos + idx

		if verifyMatch(data, candidate, pattern) {
			out[count] = uint64(candidate)
			count++
		}

		pos = candidate + 1
	}

	return count
}

// verifyMatch checks whether pattern occurs at data[at:at+len(pattern)].
// The caller guarantees at+len(pattern) <= len(data) and data[at] ==
// pattern[0]; verifyMatch still checks the first byte as part of the full
// comparison for clarity, at negligible cost.
func verifyMatch(data []byte, at int, pattern []byte) bool {
	patLen := len(pattern)
	if patLen == 1 {
		// First-byte equality (checked by the caller's IndexByte) is the
		// entire contract for a single-byte pattern.
		return true
	}

	// Two-byte prefilter: cheap short-circuit before the full compare.
	if data[at+1] != pattern[1] {
		return false
	}

	return bytes.Equal(data[at:at+patLen], pattern)
}
