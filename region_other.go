//go:build windows || android || ios || solaris || illumos || aix

// region_other.go implements the Region backend contract (see region.go)
// for platforms where this package does not maintain a real mmap fast
// path: windows, android, ios, solaris/illumos, aix. Matches fileproc's
// io_other.go intent ("portable stdlib APIs only") but the fallback here
// goes further: since there's no portable mmap in the standard library at
// all, this backend reads the whole file into a heap buffer and presents
// it through the same Region contract.
//
// This is a portability fallback, not a correctness compromise: the raw
// scanner (rawscan.go) only ever sees a []byte and has no notion of where
// the bytes came from. StatusMmapFailed is never returned by this backend
// since no mapping syscall is attempted.
package fastscan

import "os"

func regionSizeImpl(path string) (int64, Status) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, StatusOpenFailed
	}

	return st.Size(), StatusSuccess
}

func openRegionImpl(path string, _ bool) (*Region, Status) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, StatusOpenFailed
	}

	return &Region{
		data:   data,
		size:   int64(len(data)),
		closer: func() error { return nil },
	}, StatusSuccess
}
