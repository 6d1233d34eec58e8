package dsl

import "github.com/aretw0/switchboard/pkg/ports"

// HandlerBuilder provides a fluent API for configuring one participant.
type HandlerBuilder struct {
	name     string
	factory  ports.HandlerFactory
	tier     string
	category string
	builder  *Builder
}

// Tier sets the introspection tier metadata.
func (h *HandlerBuilder) Tier(tier string) *HandlerBuilder {
	h.tier = tier
	return h
}

// Category sets the introspection category metadata.
func (h *HandlerBuilder) Category(category string) *HandlerBuilder {
	h.category = category
	return h
}

// On routes the given token to this handler.
func (h *HandlerBuilder) On(token string) *HandlerBuilder {
	h.builder.Route(token, h.name)
	return h
}

// Factory returns the underlying factory. Primarily used by the Builder,
// but exposed for advanced usage.
func (h *HandlerBuilder) Factory() ports.HandlerFactory {
	return h.factory
}
