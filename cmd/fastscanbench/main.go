// Fastscanbench benchmarks the fastscan package: it runs the scanner over a
// generated or supplied file at several worker counts, cross-checks each
// run against a single-worker run of the same scan, emits a JSON report,
// and can diff that report against a previously saved baseline.
//
// Grounded on cmd/fileprocbench's flag-based runner and result struct, and
// cmd/benchreport's {types,compare}.go JSON report and regression-diff
// shape.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okba14/fastscan"
)

// BenchResult mirrors cmd/benchreport/types.go's BenchResult shape, adapted
// from wall-clock-per-run fields to a single timed scan per (file, workers)
// pair plus a throughput figure.
type BenchResult struct {
	Timestamp time.Time `json:"ts"`

	File    string `json:"file"`
	Pattern string `json:"pattern"`
	Cap     int    `json:"cap"`
	Workers int    `json:"workers"`

	FileBytes   int64         `json:"file_bytes"`
	Matches     int           `json:"matches"`
	Duration    time.Duration `json:"duration"`
	BytesPerSec float64       `json:"bytes_per_sec"`

	SequentialMatch bool `json:"sequential_match"`

	GoVersion  string `json:"go"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	NumCPU     int    `json:"numcpu"`
}

type Report struct {
	Results []BenchResult `json:"results"`
}

type benchFlags struct {
	file       string
	pattern    string
	cap        int
	workerSets string
	repeat     int
	out        string
	baseline   string
	quiet      bool
}

func parseFlags() *benchFlags {
	flags := &benchFlags{}

	flag.StringVar(&flags.file, "file", "", "file to scan (required)")
	flag.StringVar(&flags.pattern, "pattern", "", "literal pattern to search for (required)")
	flag.IntVar(&flags.cap, "cap", 1_000_000, "maximum matches to collect")
	flag.StringVar(&flags.workerSets, "workers", "1,2,4,8", "comma-separated worker counts to benchmark")
	flag.IntVar(&flags.repeat, "repeat", 3, "repetitions per worker count (min duration kept)")
	flag.StringVar(&flags.out, "out", "", "optional path to write the JSON report")
	flag.StringVar(&flags.baseline, "baseline", "", "optional prior JSON report to compare against")
	flag.BoolVar(&flags.quiet, "q", false, "quiet: suppress the human-readable table")

	return flags
}

func main() {
	flags := parseFlags()
	flag.Parse()

	os.Exit(run(flags))
}

func run(flags *benchFlags) int {
	if flags.file == "" || flags.pattern == "" {
		fmt.Fprintln(os.Stderr, "-file and -pattern are required")

		return 2
	}

	workerCounts, err := parseWorkerSets(flags.workerSets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 2
	}

	info, statErr := os.Stat(flags.file)
	if statErr != nil {
		fmt.Fprintf(os.Stderr, "error: stat %s: %v\n", flags.file, statErr)

		return 1
	}

	sequential, seqErr := sequentialMatches(flags.file, flags.pattern, flags.cap)
	if seqErr != nil {
		fmt.Fprintf(os.Stderr, "error: sequential baseline scan: %v\n", seqErr)

		return 1
	}

	report := &Report{}

	for _, workers := range workerCounts {
		best, benchErr := benchOne(flags, workers, info.Size(), sequential)
		if benchErr != nil {
			fmt.Fprintf(os.Stderr, "error: workers=%d: %v\n", workers, benchErr)

			return 1
		}

		report.Results = append(report.Results, *best)
	}

	if !flags.quiet {
		printTable(report)
	}

	if flags.out != "" {
		if writeErr := writeReport(flags.out, report); writeErr != nil {
			fmt.Fprintf(os.Stderr, "error: write report: %v\n", writeErr)

			return 1
		}
	}

	if flags.baseline != "" {
		if cmpErr := compareToBaseline(flags.baseline, report); cmpErr != nil {
			fmt.Fprintf(os.Stderr, "error: compare baseline: %v\n", cmpErr)

			return 1
		}
	}

	return 0
}

// sequentialMatches scans with a single worker (forcing the parallel path's
// worker count to 1 collapses it to a single partition spanning the whole
// file, which is sufficient as the "ground truth" arm of the parallel ≡
// sequential cross-check — the raw single-threaded path itself is already
// exercised directly for small files below the threshold).
func sequentialMatches(path, pattern string, cap int) ([]uint64, error) {
	ctx, err := fastscan.NewContext([]byte(pattern), cap, fastscan.WithWorkers(1))
	if err != nil {
		return nil, err
	}

	defer ctx.Destroy()

	if err := ctx.Load(path); err != nil {
		return nil, err
	}

	if err := ctx.ExecuteSync(); err != nil {
		return nil, err
	}

	out := make([]uint64, len(ctx.Matches()))
	copy(out, ctx.Matches())

	return out, nil
}

func benchOne(flags *benchFlags, workers int, fileBytes int64, sequential []uint64) (*BenchResult, error) {
	var best *BenchResult

	for r := 0; r < flags.repeat; r++ {
		ctx, err := fastscan.NewContext([]byte(flags.pattern), flags.cap, fastscan.WithWorkers(workers))
		if err != nil {
			return nil, err
		}

		if err := ctx.Load(flags.file); err != nil {
			ctx.Destroy()

			return nil, err
		}

		start := time.Now()
		execErr := ctx.ExecuteSync()
		elapsed := time.Since(start)

		if execErr != nil {
			ctx.Destroy()

			return nil, execErr
		}

		matches := ctx.Matches()
		matchEqual := equalUint64(matches, sequential)

		result := &BenchResult{
			Timestamp:       time.Now(),
			File:            flags.file,
			Pattern:         flags.pattern,
			Cap:             flags.cap,
			Workers:         workers,
			FileBytes:       fileBytes,
			Matches:         len(matches),
			Duration:        elapsed,
			BytesPerSec:     float64(fileBytes) / elapsed.Seconds(),
			SequentialMatch: matchEqual,
			GoVersion:       runtime.Version(),
			GOOS:            runtime.GOOS,
			GOARCH:          runtime.GOARCH,
			GOMAXPROCS:      runtime.GOMAXPROCS(0),
			NumCPU:          runtime.NumCPU(),
		}

		ctx.Destroy()

		if best == nil || result.Duration < best.Duration {
			best = result
		}
	}

	return best, nil
}

func equalUint64(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func printTable(report *Report) {
	fmt.Printf("%-10s %-12s %-10s %-10s %s\n", "workers", "bytes/sec", "matches", "duration", "seq_match")

	for _, r := range report.Results {
		fmt.Printf("%-10d %-12.0f %-10d %-10s %v\n", r.Workers, r.BytesPerSec, r.Matches, r.Duration, r.SequentialMatch)
	}
}

func writeReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// compareToBaseline mirrors cmd/benchreport/compare.go's "latest vs target"
// diff: it matches baseline entries to the current report by (workers)
// and prints the throughput delta, following the same percent-change
// idiom.
func compareToBaseline(path string, report *Report) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}

	var baseline Report
	if err := json.Unmarshal(data, &baseline); err != nil {
		return fmt.Errorf("parse baseline: %w", err)
	}

	byWorkers := make(map[int]BenchResult, len(baseline.Results))
	for _, r := range baseline.Results {
		byWorkers[r.Workers] = r
	}

	fmt.Println("--- baseline comparison ---")

	for _, cur := range report.Results {
		base, ok := byWorkers[cur.Workers]
		if !ok {
			fmt.Printf("workers=%d: no baseline entry\n", cur.Workers)

			continue
		}

		pct := 0.0
		if base.BytesPerSec != 0 {
			pct = (cur.BytesPerSec - base.BytesPerSec) / base.BytesPerSec * 100
		}

		sign := "+"
		if pct < 0 {
			sign = ""
		}

		fmt.Printf("workers=%d: %.0f -> %.0f bytes/sec (%s%.1f%%)\n", cur.Workers, base.BytesPerSec, cur.BytesPerSec, sign, pct)
	}

	return nil
}

func parseWorkerSets(s string) ([]int, error) {
	var counts []int

	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i == start {
				return nil, errors.New("empty worker count in -workers")
			}

			n, err := parseInt(s[start:i])
			if err != nil {
				return nil, err
			}

			if n <= 0 {
				return nil, fmt.Errorf("worker count must be > 0: %d", n)
			}

			counts = append(counts, n)
			start = i + 1
		}
	}

	if len(counts) == 0 {
		return nil, errors.New("-workers must list at least one count")
	}

	return counts, nil
}

func parseInt(s string) (int, error) {
	n := 0

	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid worker count: %q", s)
		}

		n = n*10 + int(c-'0')
	}

	return n, nil
}
