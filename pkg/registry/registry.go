// Package registry holds the complete set of known handlers and resolves
// names to handler instances.
//
// A Registry is populated once at process start (explicit initialization,
// no package-level side effects) and is read-only afterward; the internal
// lock only guards against misuse during startup wiring.
package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Entry describes a registered handler. Tier and Category are metadata for
// introspection only; routing never consults them.
type Entry struct {
	Name     string
	Factory  ports.HandlerFactory
	Tier     string
	Category string
}

// Registry manages the available handlers.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a handler factory under a unique name.
// Returns *domain.DuplicateNameError if the name is already taken; a
// duplicate registration is a programming error, not a condition to
// recover from at runtime.
func (r *Registry) Register(name string, factory ports.HandlerFactory, tier, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return &domain.DuplicateNameError{Name: name}
	}
	r.entries[name] = Entry{
		Name:     name,
		Factory:  factory,
		Tier:     tier,
		Category: category,
	}
	return nil
}

// MustRegister is Register for startup wiring where a duplicate name is
// unrecoverable anyway.
func (r *Registry) MustRegister(name string, factory ports.HandlerFactory, tier, category string) {
	if err := r.Register(name, factory, tier, category); err != nil {
		panic(err)
	}
}

// Resolve looks up a handler by name and constructs an instance.
// Returns *domain.UnknownHandlerError if the name was never registered.
// This is a pure lookup with no side effects beyond instance construction,
// since resolution happens on the hot path of graph compilation.
func (r *Registry) Resolve(name string) (ports.Handler, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.UnknownHandlerError{Name: name}
	}
	return entry.Factory(), nil
}

// Has reports whether a handler name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns all registered handler names in deterministic order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListByTier returns the entries registered under a tier, sorted by name.
// Introspection only; the execution path never calls this.
func (r *Registry) ListByTier(tier string) []Entry {
	return r.list(func(e Entry) bool { return e.Tier == tier })
}

// ListByCategory returns the entries registered under a category, sorted
// by name. Introspection only.
func (r *Registry) ListByCategory(category string) []Entry {
	return r.list(func(e Entry) bool { return e.Category == category })
}

func (r *Registry) list(match func(Entry) bool) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
