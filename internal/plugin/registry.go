package plugin

import (
	"fmt"
	"sort"
	"sync"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

type entry struct {
	meta    Metadata
	factory Factory
}

// Registry manages plugin registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	plugins map[Kind]map[string]entry
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[Kind]map[string]entry),
	}
}

// Register adds a plugin factory to the registry.
// Returns an error if a plugin with the same kind and name already exists.
func (r *Registry) Register(meta Metadata, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for %s", meta.Name)
	}
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plugins[meta.Kind] == nil {
		r.plugins[meta.Kind] = make(map[string]entry)
	}
	if _, exists := r.plugins[meta.Kind][meta.Name]; exists {
		return fmt.Errorf("plugin %s already registered", meta)
	}
	r.plugins[meta.Kind][meta.Name] = entry{meta: meta, factory: factory}
	return nil
}

// MustRegister is Register for static catalogs; it panics on error.
func (r *Registry) MustRegister(meta Metadata, factory Factory) {
	if err := r.Register(meta, factory); err != nil {
		panic(err)
	}
}

// Has checks if a plugin of the given kind and name exists.
func (r *Registry) Has(kind Kind, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[kind][name]
	return ok
}

// List returns the metadata of every plugin of a kind, sorted by name.
func (r *Registry) List(kind Kind) []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Metadata, 0, len(r.plugins[kind]))
	for _, e := range r.plugins[kind] {
		result = append(result, e.meta)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Count returns the total number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, byName := range r.plugins {
		count += len(byName)
	}
	return count
}

// New instantiates the named plugin with its options.
func (r *Registry) New(kind Kind, name string, opts Options) (pipeline.Plugin, error) {
	r.mu.RLock()
	e, ok := r.plugins[kind][name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.ConfigError("unknown plugin").
			WithContext("kind", string(kind)).
			WithContext("plugin", name).
			Build()
	}

	p, err := e.factory(opts)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("plugin", name)
		}
		return nil, errors.ConfigError("cannot create plugin").WithCause(err).WithContext("plugin", name).Build()
	}
	return p, nil
}
