package fastscan_test

import (
	"testing"

	"github.com/okba14/fastscan"
)

func Test_PartitionWork_Returns_One_Partition_Per_Worker(t *testing.T) {
	t.Parallel()

	parts := fastscan.PartitionWork(1000, 4, 4)

	if len(parts) != 4 {
		t.Fatalf("len(parts) = %d, want 4", len(parts))
	}
}

func Test_ScanPartition_Finds_Nothing_When_PatternAbsentFromAllPartitions(t *testing.T) {
	t.Parallel()

	const size, patLen, workers = 997, 5, 4

	parts := fastscan.PartitionWork(size, patLen, workers)

	data := make([]byte, size)
	for i := range data {
		data[i] = 'x'
	}

	pattern := []byte("needl")

	results := make([][]uint64, workers)

	for i, part := range parts {
		res, err := fastscan.ScanPartition(data, pattern, part, 1000, 16)
		if err != nil {
			t.Fatalf("ScanPartition(%d): %v", i, err)
		}

		results[i] = res
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}

	if total != 0 {
		t.Fatalf("expected no matches in all-'x' data, got %d", total)
	}
}

func Test_ScanPartition_Finds_Match_When_StraddlingWorkerBoundary(t *testing.T) {
	t.Parallel()

	data := make([]byte, 20)
	for i := range data {
		data[i] = 'x'
	}

	pattern := []byte("NEEDLE")
	copy(data[7:], pattern)

	parts := fastscan.PartitionWork(int64(len(data)), len(pattern), 2)

	var found []uint64

	for _, part := range parts {
		res, err := fastscan.ScanPartition(data, pattern, part, 1000, 16)
		if err != nil {
			t.Fatalf("ScanPartition: %v", err)
		}

		found = append(found, res...)
	}

	if len(found) != 1 || found[0] != 7 {
		t.Fatalf("found = %v, want [7]", found)
	}
}

func Test_ScanPartition_Discards_Match_When_BelowOwnedStart(t *testing.T) {
	t.Parallel()

	data := make([]byte, 20)
	for i := range data {
		data[i] = 'x'
	}

	pattern := []byte("NEEDLE")
	copy(data[7:], pattern)

	parts := fastscan.PartitionWork(int64(len(data)), len(pattern), 2)

	// The second worker's scan range includes the overlap prefix, which
	// contains byte 7's match, but its owned range starts later — the
	// match must be attributed to worker 0 only, not double-counted.
	secondWorkerResults, err := fastscan.ScanPartition(data, pattern, parts[1], 1000, 16)
	if err != nil {
		t.Fatalf("ScanPartition: %v", err)
	}

	for _, offset := range secondWorkerResults {
		if offset == 7 {
			t.Fatalf("worker 1 reported offset 7, which belongs to worker 0's owned range")
		}
	}
}

func Test_ScanPartition_Returns_Nil_When_RangeShorterThanPattern(t *testing.T) {
	t.Parallel()

	data := []byte("ab")
	parts := fastscan.PartitionWork(int64(len(data)), 5, 1)

	res, err := fastscan.ScanPartition(data, []byte("abcde"), parts[0], 10, 16)
	if err != nil {
		t.Fatalf("ScanPartition: %v", err)
	}

	if len(res) != 0 {
		t.Fatalf("res = %v, want empty", res)
	}
}
