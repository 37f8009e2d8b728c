//go:build linux || (darwin && !ios) || freebsd || openbsd || netbsd || dragonfly

// externalalloc_unix.go allocates the backing memory for a detached
// ResultBuffer as an anonymous mmap, grounded on the same New/Free shape
// as other_examples' boulder mmap package: allocate with
// MAP_ANON|MAP_PRIVATE (no backing file — this memory holds results, not
// file contents), free with munmap. Using a real OS mapping (rather than a
// plain Go slice) makes "release" an observable syscall, matching the
// native addon's free()-on-finalize contract instead of just relying on
// GC timing.
package fastscan

import "golang.org/x/sys/unix"

func allocateExternal(n int) (buf []uint64, free func(), ok bool) {
	byteLen := n * 8

	data, err := unix.Mmap(-1, 0, byteLen, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, false
	}

	buf = bytesToUint64Slice(data, n)

	return buf, func() { _ = unix.Munmap(data) }, true
}
