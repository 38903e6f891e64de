package fzero

import (
	"fmt"
	"os"
)

// DefaultSeed is the fixed driver seed. Generation is reproducible across
// runs given the same seed and grammar.
const DefaultSeed uint64 = 0x34cc028e11b4f89c

// rng is a 64-bit xorshift generator. The exact recurrence (shift 13 left,
// 17 right, 43 left, in that order, returning the new state) is part of the
// output contract: changing it changes every generated corpus.
type rng struct {
	state uint64

	trace     bool
	traceFile string
	tracePos  uint64
}

func newRNG(seed uint64) *rng {
	r := &rng{state: seed}
	if os.Getenv("FZERO_TRACE_RNG") != "" {
		r.trace = true
		r.traceFile = os.Getenv("FZERO_TRACE_RNG_FILE")
		if r.traceFile == "" {
			r.traceFile = "/tmp/fzero-rng.trace"
		}
		_ = os.WriteFile(r.traceFile, []byte(fmt.Sprintf("# seed=%#x\n", seed)), 0644)
	}
	return r
}

func (r *rng) rand() uint64 {
	s := r.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 43
	r.state = s
	if r.trace {
		r.traceDraw(s)
	}
	return s
}

func (r *rng) traceDraw(v uint64) {
	r.tracePos++
	f, err := os.OpenFile(r.traceFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err == nil {
		_, _ = fmt.Fprintf(f, "%d %#x\n", r.tracePos, v)
		_ = f.Close()
	}
}
