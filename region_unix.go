//go:build (darwin && !ios) || freebsd || openbsd || netbsd || dragonfly

// region_unix.go implements the Region backend contract (see region.go) for
// "mainstream" non-Linux Unix platforms: macOS (excluding iOS) and the BSD
// family. Shares fileproc's io_unix.go rationale: a reasonably fast,
// syscall-oriented implementation without the unusual Unix variants
// (solaris/illumos/aix), which fall to region_other.go.
//
// MAP_POPULATE is Linux-only; this backend omits the pre-fault hint and
// relies on MADV_SEQUENTIAL alone.
package fastscan

import (
	"golang.org/x/sys/unix"
)

func regionSizeImpl(path string) (int64, Status) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, StatusOpenFailed
	}

	return st.Size, StatusSuccess
}

func openRegionImpl(path string, hints bool) (*Region, Status) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, StatusOpenFailed
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)

		return nil, StatusOpenFailed
	}

	size := st.Size
	if size == 0 {
		return &Region{
			data: []byte{},
			size: 0,
			closer: func() error {
				return unix.Close(fd)
			},
		}, StatusSuccess
	}

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)

		return nil, StatusMmapFailed
	}

	if hints {
		_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	}

	return &Region{
		data: data,
		size: size,
		closer: func() error {
			if uerr := unix.Munmap(data); uerr != nil {
				_ = unix.Close(fd)

				return uerr
			}

			return unix.Close(fd)
		},
	}, StatusSuccess
}
