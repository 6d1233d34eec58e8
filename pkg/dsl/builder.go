package dsl

import (
	"fmt"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
)

// Builder manages the graph construction.
type Builder struct {
	name     string
	entry    string
	handlers map[string]*HandlerBuilder
	order    []string
	edges    []routing.Edge
	errs     []error
}

// New creates a new graph builder.
func New(name string) *Builder {
	return &Builder{
		name:     name,
		handlers: make(map[string]*HandlerBuilder),
	}
}

// Entry declares the entry handler. There must be exactly one.
func (b *Builder) Entry(name string, factory ports.HandlerFactory) *HandlerBuilder {
	if b.entry != "" && b.entry != name {
		b.errs = append(b.errs, fmt.Errorf("entry already set to %q", b.entry))
	}
	b.entry = name
	return b.Handler(name, factory)
}

// Handler declares a participant handler. Declaring the same name twice
// returns the existing builder.
func (b *Builder) Handler(name string, factory ports.HandlerFactory) *HandlerBuilder {
	if hb, ok := b.handlers[name]; ok {
		return hb
	}
	hb := &HandlerBuilder{
		name:    name,
		factory: factory,
		builder: b,
	}
	b.handlers[name] = hb
	b.order = append(b.order, name)
	return hb
}

// Route adds a token-to-handler edge.
func (b *Builder) Route(token, target string) *Builder {
	b.edges = append(b.edges, routing.Edge{FromToken: token, To: target})
	return b
}

// Build populates a registry and returns the compile inputs: entry name,
// participant names in declaration order, and the routing edges.
func (b *Builder) Build() (*registry.Registry, string, []string, []routing.Edge, error) {
	if len(b.errs) > 0 {
		return nil, "", nil, nil, b.errs[0]
	}
	if b.entry == "" {
		return nil, "", nil, nil, fmt.Errorf("graph %q: no entry handler declared", b.name)
	}

	reg := registry.New()
	for _, name := range b.order {
		hb := b.handlers[name]
		if err := reg.Register(name, hb.factory, hb.tier, hb.category); err != nil {
			return nil, "", nil, nil, err
		}
	}

	return reg, b.entry, append([]string(nil), b.order...), append([]routing.Edge(nil), b.edges...), nil
}

// Compile builds the registry and compiles the engine in one step.
func (b *Builder) Compile(opts ...switchboard.Option) (*switchboard.Engine, error) {
	reg, entry, participants, edges, err := b.Build()
	if err != nil {
		return nil, err
	}
	if b.name != "" {
		opts = append([]switchboard.Option{switchboard.WithName(b.name)}, opts...)
	}
	return switchboard.New(reg, entry, participants, edges, opts...)
}
