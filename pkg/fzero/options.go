package fzero

import "fmt"

// Options is the configuration contract for one compilation run.
type Options struct {
	// Seed is the initial xorshift state of the artifact's default stream.
	Seed uint64

	// MaxDepth bounds recursive expansion; it is the only thing standing
	// between a self-recursive grammar and non-termination. Must be
	// positive.
	MaxDepth int

	// OutputPath receives the emitted Go source, empty to skip emission.
	OutputPath string

	// BinaryPath, when set, has the emitted source built with the external
	// Go toolchain.
	BinaryPath string

	// Count generates that many discrete cases instead of the unbounded
	// benchmarking loop.
	Count int

	// Bench runs the benchmarking driver; BenchIters bounds it, zero for
	// unbounded.
	Bench      bool
	BenchIters uint64
}

func Defaults() Options {
	return Options{
		Seed:     DefaultSeed,
		MaxDepth: 64,
	}
}

func (o Options) Validate() error {
	if o.MaxDepth < 1 {
		return fmt.Errorf("max-depth must be positive, got %d", o.MaxDepth)
	}
	if o.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", o.Count)
	}
	if o.BinaryPath != "" && o.OutputPath == "" {
		return fmt.Errorf("building a binary requires an output path for the emitted source")
	}
	return nil
}
