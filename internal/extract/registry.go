package extract

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
)

// DefaultExtractor is used when a LaunchSpec leaves the selector empty.
const DefaultExtractor = "gcc"

// Registry maps extractor names to implementations.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Default returns a registry holding the built-in extractors.
func Default() *Registry {
	r := NewRegistry()
	gcc := NewGCC()
	r.Register("gcc", gcc)
	r.Register("clang", gcc)
	r.Register("go", NewGo())
	r.Register("generic", NewGeneric())
	return r
}

// Register adds or replaces the extractor for name.
func (r *Registry) Register(name string, x Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[name] = x
}

// Lookup returns the extractor registered under name.
// An empty name selects DefaultExtractor.
func (r *Registry) Lookup(name string) (Extractor, error) {
	if name == "" {
		name = DefaultExtractor
	}

	r.mu.RLock()
	x, ok := r.extractors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(domain.ErrUnknownExtractor, "%q", name),
			"supported: %s", strings.Join(r.Names(), ", "),
		)
	}
	return x, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
