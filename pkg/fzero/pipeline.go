package fzero

// Compile runs the whole pipeline: build the IR from the grammar, simplify
// it to a fixed point, specialize it into an Artifact. All configuration and
// structural errors surface here, before any generation code exists, so the
// expansion routines themselves never check anything but depth.
func Compile(g Grammar, opts Options) (*Artifact, error) {
	return CompileProductions(g.Productions(), opts)
}

// CompileProductions is Compile over an explicitly ordered production list.
// Fragment numbering, and therefore seed-stable output, follows this order.
func CompileProductions(prods []Production, opts Options) (*Artifact, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ir, err := buildIR(prods)
	if err != nil {
		return nil, err
	}
	if err := ir.checkRefs(); err != nil {
		return nil, err
	}

	ir.optimize()

	return compileArtifact(ir, opts), nil
}
