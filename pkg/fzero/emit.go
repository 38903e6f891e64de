package fzero

import (
	"fmt"
	"os"
	"strings"
)

// Source serializes the artifact's specialized routines into a standalone
// compilable Go program: one method per fragment plus the benchmarking main.
// The program depends only on the standard library and is meant to be handed
// to `go build`.
func (a *Artifact) Source() string {
	var b strings.Builder

	writeLine(&b, 0, "// Code generated by fzero-go; specialized fuzzer for one grammar. DO NOT EDIT.")
	writeLine(&b, 0, "package main")
	writeLine(&b, 0, "")
	writeLine(&b, 0, "import (")
	writeLine(&b, 1, `"fmt"`)
	writeLine(&b, 1, `"slices"`)
	writeLine(&b, 1, `"time"`)
	writeLine(&b, 0, ")")
	writeLine(&b, 0, "")
	writeLine(&b, 0, fmt.Sprintf("const maxDepth = %d", a.maxDepth))
	writeLine(&b, 0, "")
	writeLine(&b, 0, "type fuzzer struct {")
	writeLine(&b, 1, "seed uint64")
	writeLine(&b, 1, "buf  []byte")
	writeLine(&b, 0, "}")
	writeLine(&b, 0, "")
	writeLine(&b, 0, "func (f *fuzzer) rand() uint64 {")
	writeLine(&b, 1, "f.seed ^= f.seed << 13")
	writeLine(&b, 1, "f.seed ^= f.seed >> 17")
	writeLine(&b, 1, "f.seed ^= f.seed << 43")
	writeLine(&b, 1, "return f.seed")
	writeLine(&b, 0, "}")
	writeLine(&b, 0, "")
	writeLine(&b, 0, "func (f *fuzzer) emit(v string) {")
	writeLine(&b, 1, "f.buf = slices.Grow(f.buf, len(v))")
	writeLine(&b, 1, "f.buf = append(f.buf, v...)")
	writeLine(&b, 0, "}")
	writeLine(&b, 0, "")

	for id, frag := range a.ir.fragments {
		emitFragmentFunc(&b, id, frag)
	}

	emitDriverMain(&b, a.start, a.seed)
	return b.String()
}

// EmitSource writes the generated program to path for handoff to an external
// toolchain.
func (a *Artifact) EmitSource(path string) error {
	return os.WriteFile(path, []byte(a.Source()), 0o644)
}

func emitFragmentFunc(b *strings.Builder, id int, frag fragment) {
	writeLine(b, 0, fmt.Sprintf("func (f *fuzzer) fragment%d(depth int) {", id))
	writeLine(b, 1, "if depth >= maxDepth {")
	writeLine(b, 2, "return")
	writeLine(b, 1, "}")

	switch frag.kind {
	case fragNonTerminal:
		// Pick one option at random; the modulo bias is intentional.
		if len(frag.children) > 0 {
			writeLine(b, 1, fmt.Sprintf("switch f.rand() %% %d {", len(frag.children)))
			for i, opt := range frag.children {
				writeLine(b, 1, fmt.Sprintf("case %d:", i))
				writeLine(b, 2, fmt.Sprintf("f.fragment%d(depth + 1)", opt))
			}
			writeLine(b, 1, "}")
		}
	case fragExpression:
		for _, step := range frag.children {
			writeLine(b, 1, fmt.Sprintf("f.fragment%d(depth + 1)", step))
		}
	case fragTerminal:
		writeLine(b, 1, fmt.Sprintf("f.emit(%q)", string(frag.bytes)))
	case fragNop:
	}

	writeLine(b, 0, "}")
	writeLine(b, 0, "")
}

func emitDriverMain(b *strings.Builder, start FragmentID, seed uint64) {
	writeLine(b, 0, "func main() {")
	writeLine(b, 1, fmt.Sprintf("f := &fuzzer{seed: %#x}", seed))
	writeLine(b, 0, "")
	writeLine(b, 1, "var generated uint64")
	writeLine(b, 1, "start := time.Now()")
	writeLine(b, 0, "")
	writeLine(b, 1, "for iters := uint64(1); ; iters++ {")
	writeLine(b, 2, "f.buf = f.buf[:0]")
	writeLine(b, 2, fmt.Sprintf("f.fragment%d(0)", start))
	writeLine(b, 2, "generated += uint64(len(f.buf))")
	writeLine(b, 0, "")
	writeLine(b, 2, fmt.Sprintf("if iters&%#x == 0 {", reportMask))
	writeLine(b, 3, "elapsed := time.Since(start).Seconds()")
	writeLine(b, 3, "fmt.Printf(\"MiB/sec: %12.4f\\n\", float64(generated)/elapsed/1024./1024.)")
	writeLine(b, 2, "}")
	writeLine(b, 1, "}")
	writeLine(b, 0, "}")
}

func writeLine(b *strings.Builder, indent int, s string) {
	for i := 0; i < indent; i++ {
		b.WriteByte('\t')
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
