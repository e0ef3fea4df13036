package index

import (
	"fmt"

	"github.com/citl/factassist/internal/models"
	"github.com/citl/factassist/pkg/config"
)

// Registry maps corpus names to their artifact locations and preserves
// configuration order, which is also multi-corpus query order.
type Registry struct {
	corpora []config.Corpus
}

func NewRegistry(corpora []config.Corpus) *Registry {
	return &Registry{corpora: corpora}
}

// Names returns the corpus names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.corpora))
	for _, c := range r.corpora {
		names = append(names, c.Name)
	}
	return names
}

// Lookup returns the registry entry for name.
func (r *Registry) Lookup(name string) (config.Corpus, bool) {
	for _, c := range r.corpora {
		if c.Name == name {
			return c, true
		}
	}
	return config.Corpus{}, false
}

// Resolve expands a corpus selector: "all" means every registered
// corpus in order, anything else must name a single registered corpus.
func (r *Registry) Resolve(selector string) ([]config.Corpus, error) {
	if selector == "all" {
		out := make([]config.Corpus, len(r.corpora))
		copy(out, r.corpora)
		return out, nil
	}

	c, ok := r.Lookup(selector)
	if !ok {
		return nil, fmt.Errorf("unknown corpus %q (registered: %v)", selector, r.Names())
	}
	return []config.Corpus{c}, nil
}

// Load reads the index for a registered corpus name.
func (r *Registry) Load(name string) ([][]float32, []models.Chunk, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown corpus %q", name)
	}
	return ReadIndex(c.Index)
}
