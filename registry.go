package earleygo

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// GrammarSpec is one named entry in a Registry: the start symbol and the
// EBNF source text to compile it from.
type GrammarSpec struct {
	Start  string `toml:"start"`
	Source string `toml:"source"`
}

// registryFile is the on-disk shape: a table of named grammars, e.g.
//
//	[grammars.arithmetic]
//	start = "Sum"
//	source = "Sum := Product {'+' Product} ; ..."
type registryFile struct {
	Grammars map[string]GrammarSpec `toml:"grammars"`
}

// Registry is a loaded set of named GrammarSpecs, letting a host application
// keep a library of EBNF grammars on disk instead of embedding Go string
// literals (SPEC_FULL.md's domain-stack rationale for BurntSushi/toml).
type Registry struct {
	specs map[string]GrammarSpec
}

// LoadRegistry reads and parses a TOML registry file from path.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("earleygo: loading registry %q: %w", path, err)
	}
	var rf registryFile
	if err := toml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("earleygo: parsing registry %q: %w", path, err)
	}
	return &Registry{specs: rf.Grammars}, nil
}

// Spec looks up a named grammar.
func (r *Registry) Spec(name string) (GrammarSpec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns every grammar name in the registry, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	return names
}

// Build compiles the named grammar's spec into a Parser using pb, which
// should already carry any plug-in terminals the grammar source references.
func (r *Registry) Build(pb *ParserBuilder, name string) (*Parser, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("earleygo: no grammar named %q in registry", name)
	}
	return pb.IntoParser(spec.Start, spec.Source)
}
