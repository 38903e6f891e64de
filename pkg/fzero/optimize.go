package fzero

import "bytes"

// optimize simplifies the fragment table in place until a full pass changes
// nothing. The rewrite never alters the language reachable from the start
// fragment, nor option order inside a surviving non-terminal.
//
// Rules, in the order applied to each fragment:
//   - a non-terminal with one option becomes a copy of that option
//   - an empty expression becomes a nop, and its id is remembered so that
//     references to it can be pruned
//   - a one-step expression becomes a copy of that step
//   - known-nop steps are dropped from expressions
//
// Plain fixed-point iteration, polynomial in fragment count. A rule counts
// as fired only when it actually changes the fragment; a self-referential
// single-option chain rewrites to itself and must not keep the loop alive.
// The rewrite order is observable through fragment numbering, so it stays
// exactly as written.
func (g *grammarIR) optimize() {
	nops := make(map[FragmentID]struct{})

	for changed := true; changed; {
		changed = false

		for idx := range g.fragments {
			switch f := g.fragments[idx].clone(); f.kind {
			case fragNonTerminal:
				if len(f.children) == 1 {
					inlined := g.fragments[f.children[0]].clone()
					if !fragmentsEqual(g.fragments[idx], inlined) {
						g.fragments[idx] = inlined
						changed = true
					}
				}

			case fragExpression:
				if len(f.children) == 0 {
					g.fragments[idx] = fragment{kind: fragNop}
					changed = true
					nops[FragmentID(idx)] = struct{}{}
				}
				if len(f.children) == 1 {
					inlined := g.fragments[f.children[0]].clone()
					if !fragmentsEqual(g.fragments[idx], inlined) {
						g.fragments[idx] = inlined
						changed = true
					}
				}

				if cur := &g.fragments[idx]; cur.kind == fragExpression {
					kept := cur.children[:0]
					for _, step := range cur.children {
						if _, nop := nops[step]; nop {
							changed = true
							continue
						}
						kept = append(kept, step)
					}
					cur.children = kept
				}

			case fragTerminal, fragNop:
				// Already maximally simplified.
			}
		}
	}
}

func fragmentsEqual(a, b fragment) bool {
	if a.kind != b.kind || !bytes.Equal(a.bytes, b.bytes) {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if a.children[i] != b.children[i] {
			return false
		}
	}
	return true
}
