package fastscan

import (
	"runtime"
	"sync/atomic"
)

// ResultBuffer is the ownership-transfer hook described in §4.5: once a
// Context's match list is detached into a ResultBuffer, the Context must
// not free it, and the ResultBuffer guarantees its backing memory is
// released exactly once — either by an explicit call to Release, or, if
// the caller forgets, by a finalizer the Go runtime invokes when the
// ResultBuffer becomes unreachable.
//
// This is the Go-native shape of the same contract the original N-API
// addon implements via napi_create_external_arraybuffer plus a
// FreeMatchesCallback (original_source/native/src/addon.c): a host runtime
// that manages memory via its own collector (there, V8's; here, a cgo/
// c-shared caller, or simply a long-lived Go caller that wants to control
// exactly when the backing pages are released) takes ownership of a buffer
// the core allocated, and the core forgets it.
//
// The backing memory for a detached buffer is allocated outside the normal
// Go heap (an anonymous mmap on platforms that support it — see
// externalalloc_unix.go) specifically so that "release" is a real,
// observable action (an munmap) rather than just "let the GC collect it
// eventually," matching the native contract's free() semantics.
type ResultBuffer struct {
	matches  []uint64
	freeFn   func()
	released atomic.Bool
}

// Matches returns the detached offsets. Valid until Release is called (or
// the ResultBuffer is collected); callers that need the data to outlive
// that point must copy it.
func (rb *ResultBuffer) Matches() []uint64 {
	return rb.matches
}

// Release frees the backing buffer immediately. Safe to call multiple
// times and safe to call even if the ResultBuffer is later collected by
// the GC — the finalizer installed by Detach checks the same flag and is
// a no-op if Release already ran.
func (rb *ResultBuffer) Release() {
	if rb.released.CompareAndSwap(false, true) {
		rb.freeFn()
		runtime.SetFinalizer(rb, nil)
	}
}

// newResultBuffer copies matches into externally-allocated memory and
// returns a ResultBuffer with a finalizer installed, satisfying "the host
// guarantees the finalizer will eventually be invoked, freeing it exactly
// once" even if the host never calls Release explicitly.
func newResultBuffer(matches []uint64) (*ResultBuffer, Status) {
	if len(matches) == 0 {
		return &ResultBuffer{matches: matches, freeFn: func() {}}, StatusSuccess
	}

	external, free, ok := allocateExternal(len(matches))
	if !ok {
		return nil, StatusOutOfBounds
	}

	copy(external, matches)

	rb := &ResultBuffer{matches: external, freeFn: free}
	runtime.SetFinalizer(rb, func(rb *ResultBuffer) { rb.Release() })

	return rb, StatusSuccess
}
