package fzero

import (
	"errors"
	"fmt"
)

// Configuration errors surfaced while building the IR. Everything here is
// fatal before any generation code exists.
var (
	ErrDuplicateProduction = errors.New("duplicate production name")
	ErrMissingStart        = errors.New("grammar has no " + StartName + " production")
)

// FragmentID is a stable index into a grammar's fragment table. An id is
// never reused; optimization replaces fragments in place but the id keeps
// meaning for the whole compilation run.
type FragmentID int

type fragmentKind int

const (
	// fragNonTerminal picks exactly one of its options at random.
	fragNonTerminal fragmentKind = iota
	// fragExpression expands every step in order.
	fragExpression
	// fragTerminal appends its bytes verbatim.
	fragTerminal
	// fragNop expands to nothing; produced only by the optimizer.
	fragNop
)

// fragment is one node of the grammar graph. children is the option list for
// a non-terminal or the step list for an expression; bytes is the terminal
// payload. The graph may contain cycles; termination is a generation-time
// concern (depth bound), not a structural one.
type fragment struct {
	kind     fragmentKind
	children []FragmentID
	bytes    []byte
}

func (f fragment) clone() fragment {
	c := fragment{kind: f.kind, bytes: f.bytes}
	if f.children != nil {
		c.children = append([]FragmentID(nil), f.children...)
	}
	return c
}

// grammarIR is the in-memory compilation form of a grammar: an arena of
// fragments addressed by index, a name table, and the cached start id.
// It is built once, mutated in place by optimize, then read-only.
type grammarIR struct {
	fragments []fragment
	names     map[string]FragmentID
	start     FragmentID
}

func (g *grammarIR) allocate(f fragment) FragmentID {
	id := FragmentID(len(g.fragments))
	g.fragments = append(g.fragments, f)
	return id
}

// buildIR converts ordered productions into a grammarIR.
//
// The first pass allocates an empty non-terminal per production so that
// references resolve regardless of declaration order. The second pass wraps
// every resolvable symbol occurrence in its own single-option non-terminal
// (one id per occurrence, so the optimizer can simplify each independently),
// turns unresolvable symbols into terminal bytes, and overwrites each
// production's placeholder with its alternative list.
func buildIR(prods []Production) (*grammarIR, error) {
	g := &grammarIR{names: make(map[string]FragmentID, len(prods))}

	for _, p := range prods {
		if _, ok := g.names[p.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProduction, p.Name)
		}
		g.names[p.Name] = g.allocate(fragment{kind: fragNonTerminal})
	}

	for _, p := range prods {
		variants := make([]FragmentID, 0, len(p.Alternatives))
		for _, alt := range p.Alternatives {
			steps := make([]FragmentID, 0, len(alt))
			for _, sym := range alt {
				if ref, ok := g.names[sym]; ok {
					steps = append(steps, g.allocate(fragment{
						kind:     fragNonTerminal,
						children: []FragmentID{ref},
					}))
				} else {
					// Unresolvable names are data, not typos.
					steps = append(steps, g.allocate(fragment{
						kind:  fragTerminal,
						bytes: []byte(sym),
					}))
				}
			}
			variants = append(variants, g.allocate(fragment{
				kind:     fragExpression,
				children: steps,
			}))
		}
		g.fragments[g.names[p.Name]] = fragment{kind: fragNonTerminal, children: variants}
	}

	start, ok := g.names[StartName]
	if !ok {
		return nil, ErrMissingStart
	}
	g.start = start
	return g, nil
}

// checkRefs verifies that every child id lands inside the fragment table.
// A violation is a builder bug, not a user error.
func (g *grammarIR) checkRefs() error {
	for id, f := range g.fragments {
		for _, child := range f.children {
			if child < 0 || int(child) >= len(g.fragments) {
				return fmt.Errorf("internal: fragment %d references %d outside table of %d",
					id, child, len(g.fragments))
			}
		}
	}
	return nil
}
