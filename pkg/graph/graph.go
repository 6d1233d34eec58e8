// Package graph compiles registry entries and a routing table into an
// executable directed graph: one entry handler, N reachable handlers, one
// implicit terminal.
package graph

import (
	"sort"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
)

// CompiledGraph is the immutable, pre-validated structure the execution
// engine runs without further lookups per hop. All participant names are
// resolved to handler instances at build time, so it is safe to share
// across arbitrarily many concurrent conversations (handlers themselves
// must be stateless or internally synchronized).
type CompiledGraph struct {
	entry    string
	handlers map[string]ports.Handler
	table    routing.Table
	edges    []routing.Edge
	scope    routing.Scope
}

// Build validates and compiles a graph from a chosen entry handler name, a
// set of participating handler names, and the routing edges between them.
//
// Validation is eager, at startup, never mid-conversation:
//   - *domain.MissingEntryError if entryName is not registered.
//   - *domain.DanglingEdgeError if an edge targets a non-participant.
//   - *domain.UnknownHandlerError if any participant is not registered.
//
// The entry handler is always a participant, listed or not.
func Build(reg *registry.Registry, entryName string, participants []string, edges []routing.Edge) (*CompiledGraph, error) {
	if !reg.Has(entryName) {
		return nil, &domain.MissingEntryError{Name: entryName}
	}

	names := make(map[string]bool, len(participants)+1)
	names[entryName] = true
	for _, p := range participants {
		names[p] = true
	}

	for _, e := range edges {
		if !names[e.To] {
			return nil, &domain.DanglingEdgeError{Token: e.FromToken, Target: e.To}
		}
	}

	handlers := make(map[string]ports.Handler, len(names))
	for name := range names {
		h, err := reg.Resolve(name)
		if err != nil {
			return nil, err
		}
		handlers[name] = h
	}

	reachable := make(map[string]bool, len(names))
	for name := range names {
		reachable[name] = true
	}

	return &CompiledGraph{
		entry:    entryName,
		handlers: handlers,
		table:    routing.NewTable(edges),
		edges:    append([]routing.Edge(nil), edges...),
		scope: routing.Scope{
			Reachable:     reachable,
			HasEscalation: names[routing.EscalationHandler],
		},
	}, nil
}

// Entry returns the entry handler name.
func (g *CompiledGraph) Entry() string {
	return g.entry
}

// Handler returns the pre-resolved handler instance for a participant.
func (g *CompiledGraph) Handler(name string) (ports.Handler, bool) {
	h, ok := g.handlers[name]
	return h, ok
}

// Scope returns the routing scope of this subgraph: the participant set
// plus escalation availability.
func (g *CompiledGraph) Scope() routing.Scope {
	return g.scope
}

// Table returns the token-to-handler routing table.
func (g *CompiledGraph) Table() routing.Table {
	return g.table
}

// Edges returns a copy of the routing edges, for introspection and
// visualization.
func (g *CompiledGraph) Edges() []routing.Edge {
	return append([]routing.Edge(nil), g.edges...)
}

// Participants returns the participant handler names in deterministic
// order.
func (g *CompiledGraph) Participants() []string {
	out := make([]string, 0, len(g.handlers))
	for name := range g.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
