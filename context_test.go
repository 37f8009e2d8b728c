package fastscan_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okba14/fastscan"
)

func Test_Context_Execute_Finds_Offsets_When_LogLikeFile(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "INFO: starting up\nERROR: disk full\nINFO: retry\nERROR: disk full\n")

	matches := scanFile(t, path, "ERROR", 10)

	assertMatches(t, matches, []uint64{18, 47})
}

func Test_Context_Execute_Finds_Overlapping_Matches_When_Adjacent(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "aaaa")

	matches := scanFile(t, path, "aa", 10)

	assertMatches(t, matches, []uint64{0, 1, 2})
}

func Test_Context_Execute_Respects_Cap_When_MoreMatchesExist(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "abcabcabc")

	matches := scanFile(t, path, "abc", 2)

	assertMatches(t, matches, []uint64{0, 3})
}

func Test_Context_Execute_Returns_Empty_When_NoMatch(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "x")

	matches := scanFile(t, path, "xx", 10)

	if len(matches) != 0 {
		t.Fatalf("matches = %v, want empty", matches)
	}
}

func Test_Context_Execute_Returns_Empty_When_FileEmpty(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "")

	matches := scanFile(t, path, "x", 10)

	if len(matches) != 0 {
		t.Fatalf("matches = %v, want empty", matches)
	}
}

func Test_Context_Execute_Matches_Sequential_When_LargeFile_Parallel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	for i := 0; i < 20_000; i++ {
		buf.WriteString("the quick brown fox jumps over the lazy dog. ")
	}

	content := buf.String()
	const pattern = "fox"

	path := writeScanFile(t, content)

	sequential := scanFileWithOptions(t, path, pattern, 1_000_000, fastscan.WithWorkers(1), fastscan.WithSmallFileThreshold(1))
	parallel := scanFileWithOptions(t, path, pattern, 1_000_000, fastscan.WithWorkers(8), fastscan.WithSmallFileThreshold(1))

	assertMatches(t, parallel, sequential)

	if len(parallel) != 20_000 {
		t.Fatalf("len(parallel) = %d, want 20000", len(parallel))
	}
}

func Test_Context_Execute_Finds_Match_When_StraddlingWorkerPartition(t *testing.T) {
	t.Parallel()

	size := 1 << 16
	data := make([]byte, size)

	for i := range data {
		data[i] = 'x'
	}

	pattern := []byte("BOUNDARY-NEEDLE")

	// Worker boundaries fall at multiples of size/workers (16384 here);
	// planting a few bytes before one forces the pattern to straddle it.
	plantAt := size/4 - 7

	copy(data[plantAt:], pattern)

	path := writeScanBytes(t, data)

	matches := scanFileWithOptions(t, path, string(pattern), 10, fastscan.WithWorkers(4), fastscan.WithSmallFileThreshold(1))

	assertMatches(t, matches, []uint64{uint64(plantAt)})
}

func Test_NewContext_Returns_Error_When_PatternEmpty(t *testing.T) {
	t.Parallel()

	_, err := fastscan.NewContext([]byte(""), 10)
	if err == nil {
		t.Fatal("expected error for empty pattern")
	}
}

func Test_NewContext_Returns_Error_When_CapNotPositive(t *testing.T) {
	t.Parallel()

	_, err := fastscan.NewContext([]byte("x"), 0)
	if err == nil {
		t.Fatal("expected error for zero cap")
	}
}

func Test_Context_Load_Returns_Error_When_PathDoesNotExist(t *testing.T) {
	t.Parallel()

	ctx, err := fastscan.NewContext([]byte("x"), 10)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	defer ctx.Destroy()

	if loadErr := ctx.Load(filepath.Join(t.TempDir(), "missing.txt")); loadErr == nil {
		t.Fatal("expected error loading a nonexistent file")
	}
}

func Test_Context_Destroy_Is_Idempotent_When_CalledTwice(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "hello world")

	ctx, err := fastscan.NewContext([]byte("hello"), 10)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	if err := ctx.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ctx.ExecuteSync(); err != nil {
		t.Fatalf("ExecuteSync: %v", err)
	}

	ctx.Destroy()
	ctx.Destroy()
}

func Test_Context_Detach_Transfers_Ownership_When_CalledOnce(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "aaaa")

	ctx, err := fastscan.NewContext([]byte("aa"), 10)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	if err := ctx.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ctx.ExecuteSync(); err != nil {
		t.Fatalf("ExecuteSync: %v", err)
	}

	rb, detachErr := ctx.Detach()
	if detachErr != nil {
		t.Fatalf("Detach: %v", detachErr)
	}

	assertMatches(t, rb.Matches(), []uint64{0, 1, 2})

	rb.Release()
	rb.Release() // must be safe to call twice

	ctx.Destroy() // must not double-free the detached buffer
}

func Test_Context_Detach_Returns_Error_When_CalledTwice(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "aaaa")

	ctx, err := fastscan.NewContext([]byte("aa"), 10)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	defer ctx.Destroy()

	if err := ctx.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ctx.ExecuteSync(); err != nil {
		t.Fatalf("ExecuteSync: %v", err)
	}

	if _, err := ctx.Detach(); err != nil {
		t.Fatalf("first Detach: %v", err)
	}

	if _, err := ctx.Detach(); err == nil {
		t.Fatal("expected error on second Detach")
	}
}

func Test_Context_Execute_Returns_Nil_When_ContextAlreadyCancelled(t *testing.T) {
	t.Parallel()

	path := writeScanFile(t, "aaaa")

	ctx, err := fastscan.NewContext([]byte("aa"), 10)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	defer ctx.Destroy()

	if err := ctx.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ctx.Execute(cancelled); err != nil {
		t.Fatalf("Execute with cancelled context: %v", err)
	}

	if len(ctx.Matches()) != 0 {
		t.Fatalf("expected no matches when context was already cancelled, got %v", ctx.Matches())
	}
}

func writeScanFile(t *testing.T, content string) string {
	t.Helper()

	return writeScanBytes(t, []byte(content))
}

func writeScanBytes(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scan.bin")

	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}

func scanFile(t *testing.T, path, pattern string, cap int) []uint64 {
	t.Helper()

	return scanFileWithOptions(t, path, pattern, cap)
}

func scanFileWithOptions(t *testing.T, path, pattern string, cap int, opts ...fastscan.Option) []uint64 {
	t.Helper()

	ctx, err := fastscan.NewContext([]byte(pattern), cap, opts...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	defer ctx.Destroy()

	if err := ctx.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ctx.ExecuteSync(); err != nil {
		t.Fatalf("ExecuteSync: %v", err)
	}

	out := make([]uint64, len(ctx.Matches()))
	copy(out, ctx.Matches())

	return out
}

func assertMatches(t *testing.T, got, want []uint64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("matches = %v, want %v", got, want)
	}

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("matches = %v, want %v", got, want)
		}
	}
}
