// Fastscan is the reference CLI driver for the fastscan package: a thin
// bridge layer in the same sense as original_source/native/src/addon.c, but
// talking to a terminal instead of a host runtime.
//
// Usage:
//
//	fastscan <path> <pattern> [-cap=100] [-workers=N]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/okba14/fastscan"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fastscan", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	cap := fs.Int("cap", 100, "maximum number of match offsets to return")
	workers := fs.Int("workers", 0, "worker goroutine count (0=auto)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Flags may also follow the two positional arguments.
	positional := fs.Args()
	if len(positional) > 2 {
		if err := fs.Parse(positional[2:]); err != nil {
			return 2
		}

		positional = append(positional[:2:2], fs.Args()...)
	}

	if len(positional) != 2 {
		fs.Usage()

		return 2
	}

	path := positional[0]
	pattern := positional[1]

	if *cap <= 0 {
		fmt.Fprintln(os.Stderr, "error: -cap must be > 0")

		return 2
	}

	opts := []fastscan.Option{}
	if *workers > 0 {
		opts = append(opts, fastscan.WithWorkers(*workers))
	}

	ctx, err := fastscan.NewContext([]byte(pattern), *cap, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", categorize(err))

		return 1
	}

	defer ctx.Destroy()

	if err := ctx.Load(path); err != nil {
		fmt.Fprintln(os.Stderr, "error:", categorize(err))

		return 1
	}

	if err := ctx.ExecuteSync(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", categorize(err))

		return 1
	}

	matches := ctx.Matches()
	for _, offset := range matches {
		fmt.Println(offset)
	}

	fmt.Fprintf(os.Stderr, "matches: %d\n", len(matches))

	return 0
}

// categorize maps a *fastscan.ScanError's Status to the bridge-layer error
// category a host binding would surface, per the error-mapping table.
func categorize(err error) string {
	var scanErr *fastscan.ScanError
	if !errors.As(err, &scanErr) {
		return err.Error()
	}

	switch {
	case errors.Is(err, fastscan.ErrOpenFailed):
		return "File not found"
	case errors.Is(err, fastscan.ErrMmapFailed):
		return "Memory mapping failed"
	case errors.Is(err, fastscan.ErrOutOfBounds):
		return "Buffer allocation failed"
	case errors.Is(err, fastscan.ErrInvalidArg), errors.Is(err, fastscan.ErrNullArg):
		return "Invalid argument"
	default:
		return scanErr.Error()
	}
}

const usage = `fastscan - locate a byte pattern in a large file

Usage:
  fastscan <path> <pattern> [-cap=N] [-workers=N]

Options:
  -cap N       maximum number of match offsets to return (default 100)
  -workers N   worker goroutine count, 0 = max(1, runtime.NumCPU()-1) (default 0)

Prints one matching byte offset per line to stdout, followed by a match
count summary on stderr. Exit code is 0 on success, 1 on any scan error,
2 on bad arguments.
`
