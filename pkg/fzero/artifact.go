package fzero

import (
	"fmt"
	"io"
	"slices"
	"time"
)

// reportMask fixes how often the benchmarking loop prints throughput:
// every time the iteration count wraps this mask.
const reportMask uint64 = 0xfffff

// genFunc is one specialized expansion routine. Each fragment of the
// optimized grammar compiles to exactly one; generation never inspects
// grammar structure, it only calls routines.
type genFunc func(s *Stream, depth int)

// Artifact is a compiled generator for one grammar: a routine table fixed at
// compile time, the start routine, and the depth bound. An Artifact is
// immutable and safe to share; all mutable generation state lives in
// Streams.
type Artifact struct {
	funcs    []genFunc
	start    FragmentID
	maxDepth int
	seed     uint64
	ir       *grammarIR

	main *Stream
}

// Stream is one independent generation stream: one PRNG state and one output
// buffer, owned exclusively by the stream. Streams from the same Artifact
// never share mutable state, so they can run on separate goroutines without
// synchronization.
type Stream struct {
	a   *Artifact
	rng *rng
	buf []byte
}

// compileArtifact specializes the optimized IR into one routine per
// fragment. Routines resolve their children through the shared table, which
// is fully populated before any routine can run; cycles in the grammar are
// therefore fine.
func compileArtifact(g *grammarIR, opts Options) *Artifact {
	funcs := make([]genFunc, len(g.fragments))
	maxDepth := opts.MaxDepth

	for idx, f := range g.fragments {
		switch f.kind {
		case fragNonTerminal:
			options := append([]FragmentID(nil), f.children...)
			n := uint64(len(options))
			if n == 0 {
				funcs[idx] = func(s *Stream, depth int) {}
				continue
			}
			funcs[idx] = func(s *Stream, depth int) {
				if depth >= maxDepth {
					return
				}
				// Modulo pick; biased when n does not divide 2^64, and the
				// bias is part of the output contract.
				s.a.funcs[options[s.rng.rand()%n]](s, depth+1)
			}

		case fragExpression:
			steps := append([]FragmentID(nil), f.children...)
			funcs[idx] = func(s *Stream, depth int) {
				if depth >= maxDepth {
					return
				}
				for _, step := range steps {
					s.a.funcs[step](s, depth+1)
				}
			}

		case fragTerminal:
			value := f.bytes
			funcs[idx] = func(s *Stream, depth int) {
				if depth >= maxDepth {
					return
				}
				// One capacity check, then a raw copy.
				s.buf = slices.Grow(s.buf, len(value))
				s.buf = append(s.buf, value...)
			}

		case fragNop:
			funcs[idx] = func(s *Stream, depth int) {}
		}
	}

	a := &Artifact{
		funcs:    funcs,
		start:    g.start,
		maxDepth: opts.MaxDepth,
		seed:     opts.Seed,
		ir:       g,
	}
	a.main = a.NewStream(a.seed)
	return a
}

// Routines reports the number of specialized routines in the artifact, one
// per fragment of the optimized grammar.
func (a *Artifact) Routines() int {
	return len(a.funcs)
}

// NewStream creates an independent generation stream seeded with seed.
func (a *Artifact) NewStream(seed uint64) *Stream {
	return &Stream{a: a, rng: newRNG(seed)}
}

// GenerateOne produces one fuzz case from the artifact's own stream. The
// returned slice is the caller's to keep.
func (a *Artifact) GenerateOne() []byte {
	return a.main.GenerateOne()
}

// GenerateOne produces one fuzz case: clear the buffer, expand the start
// fragment at depth 0, hand back a copy. Output past the depth bound is
// silently truncated and need not be a well-formed prefix of the language.
func (s *Stream) GenerateOne() []byte {
	n := s.generate()
	out := make([]byte, n)
	copy(out, s.buf)
	return out
}

// generate runs one expansion into the stream buffer and reports its size.
// The buffer is reused across calls; this is the hot path.
func (s *Stream) generate() int {
	s.buf = s.buf[:0]
	s.a.funcs[s.a.start](s, 0)
	return len(s.buf)
}

// Bench runs the benchmarking driver on this stream: generate continuously
// and report a running MiB/sec figure at a fixed iteration interval. A zero
// maxIters runs until the process is stopped; stopping is the caller's
// concern.
func (s *Stream) Bench(w io.Writer, maxIters uint64) {
	var generated uint64
	start := time.Now()

	for iters := uint64(1); ; iters++ {
		generated += uint64(s.generate())

		if iters&reportMask == 0 {
			elapsed := time.Since(start).Seconds()
			bytesPerSec := float64(generated) / elapsed
			fmt.Fprintf(w, "MiB/sec: %12.4f\n", bytesPerSec/1024./1024.)
		}
		if maxIters > 0 && iters >= maxIters {
			return
		}
	}
}

// Bench runs the benchmarking driver on the artifact's own stream.
func (a *Artifact) Bench(w io.Writer, maxIters uint64) {
	a.main.Bench(w, maxIters)
}
