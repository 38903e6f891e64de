package fzero

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// StartName is the reserved entry-point production. A grammar without it
// cannot be compiled.
const StartName = "<start>"

// Grammar maps a production name to an ordered list of alternatives, each
// alternative an ordered list of symbols. A symbol matching a declared
// production name is a reference; anything else is literal terminal text.
type Grammar map[string][][]string

// Production is one named entry of a Grammar in a defined position. Builders
// consume productions rather than the map so that fragment numbering is
// deterministic and duplicate names are observable.
type Production struct {
	Name         string
	Alternatives [][]string
}

// Productions returns the grammar entries ordered by name. Go map iteration
// is randomized, so sorted keys are the canonical order for everything
// downstream; seed-stable output depends on it.
func (g Grammar) Productions() []Production {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	prods := make([]Production, 0, len(names))
	for _, name := range names {
		prods = append(prods, Production{Name: name, Alternatives: g[name]})
	}
	return prods
}

// LoadGrammarFile reads a grammar from a JSON file, or from YAML when the
// file extension is .yaml or .yml.
func LoadGrammarFile(path string) (Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseGrammarYAML(data)
	default:
		return ParseGrammarJSON(data)
	}
}

// ParseGrammarJSON decodes a JSON grammar. Duplicate top-level keys are
// rejected: a plain map decode would keep only the last definition and the
// author would never hear about it.
func ParseGrammarJSON(data []byte) (Grammar, error) {
	if err := checkDuplicateKeys(data); err != nil {
		return nil, err
	}
	var g Grammar
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse grammar json: %w", err)
	}
	return g, nil
}

// ParseGrammarYAML decodes a YAML grammar. yaml.v3 rejects duplicate mapping
// keys on its own.
func ParseGrammarYAML(data []byte) (Grammar, error) {
	var g Grammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse grammar yaml: %w", err)
	}
	return g, nil
}

// checkDuplicateKeys walks the token stream and reports the first repeated
// top-level object key.
func checkDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parse grammar json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parse grammar json: top-level value must be an object")
	}

	seen := make(map[string]struct{})
	depth := 0
	expectKey := true
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse grammar json: %w", err)
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
			expectKey = depth == 0
			continue
		}
		if depth == 0 && expectKey {
			key, ok := tok.(string)
			if !ok {
				return fmt.Errorf("parse grammar json: object key must be a string")
			}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateProduction, key)
			}
			seen[key] = struct{}{}
			expectKey = false
			continue
		}
		if depth == 0 {
			// Value for the current key was a scalar.
			expectKey = true
		}
	}
}
