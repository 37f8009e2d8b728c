package fastscan_test

import (
	"os"
	"testing"

	"github.com/okba14/fastscan"
)

func Test_Context_Execute_Finds_Expected_Offsets_When_GivenVariousInputs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		pattern string
		cap     int
		want    []uint64
	}{
		{
			name:    "single_match",
			content: "the quick brown fox",
			pattern: "fox",
			cap:     10,
			want:    []uint64{16},
		},
		{
			name:    "overlapping_pair",
			content: "aaa",
			pattern: "aa",
			cap:     10,
			want:    []uint64{0, 1},
		},
		{
			name:    "pattern_at_start",
			content: "NEEDLEhaystack",
			pattern: "NEEDLE",
			cap:     10,
			want:    []uint64{0},
		},
		{
			name:    "pattern_at_end",
			content: "haystackNEEDLE",
			pattern: "NEEDLE",
			cap:     10,
			want:    []uint64{8},
		},
		{
			name:    "pattern_is_whole_file",
			content: "NEEDLE",
			pattern: "NEEDLE",
			cap:     10,
			want:    []uint64{0},
		},
		{
			name:    "no_match",
			content: "haystack",
			pattern: "NEEDLE",
			cap:     10,
			want:    nil,
		},
		{
			name:    "pattern_longer_than_file",
			content: "hi",
			pattern: "NEEDLE",
			cap:     10,
			want:    nil,
		},
		{
			name:    "single_byte_pattern",
			content: "banana",
			pattern: "a",
			cap:     10,
			want:    []uint64{1, 3, 5},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeScanFile(t, tc.content)

			got := scanFile(t, path, tc.pattern, tc.cap)

			assertMatches(t, got, tc.want)
		})
	}
}

func Benchmark_Context_Execute_Sequential(b *testing.B) {
	benchmarkExecute(b, fastscan.WithWorkers(1))
}

func Benchmark_Context_Execute_Parallel(b *testing.B) {
	benchmarkExecute(b, fastscan.WithWorkers(4))
}

func benchmarkExecute(b *testing.B, opts ...fastscan.Option) {
	b.ReportAllocs()

	content := make([]byte, 8<<20)
	for i := range content {
		content[i] = byte('a' + i%26)
	}

	copy(content[len(content)/2:], []byte("NEEDLE"))

	path := b.TempDir() + "/bench.bin"
	if err := os.WriteFile(path, content, 0o600); err != nil {
		b.Fatalf("write fixture: %v", err)
	}

	allOpts := append([]fastscan.Option{fastscan.WithSmallFileThreshold(1)}, opts...)

	for i := 0; i < b.N; i++ {
		ctx, err := fastscan.NewContext([]byte("NEEDLE"), 10, allOpts...)
		if err != nil {
			b.Fatalf("NewContext: %v", err)
		}

		if err := ctx.Load(path); err != nil {
			b.Fatalf("Load: %v", err)
		}

		if err := ctx.ExecuteSync(); err != nil {
			b.Fatalf("ExecuteSync: %v", err)
		}

		ctx.Destroy()
	}
}
