package switchboard

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/internal/runtime"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/graph"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
)

// Engine is the high-level entry point for the Switchboard library.
// It compiles a graph out of a registry and drives conversations through
// it. The compiled graph is built once and read-only afterward, so one
// Engine serves arbitrarily many concurrent conversations.
type Engine struct {
	registry *registry.Registry
	graph    *graph.CompiledGraph
	runtime  *runtime.Engine
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	maxTurns int
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxTurns sets the default hop ceiling for conversations started via
// StartConversation.
func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		e.maxTurns = n
	}
}

// WithName labels the engine for log enrichment.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New compiles the routing graph and initializes a Switchboard Engine.
// Graph validation is eager: a missing entry, a dangling edge, or an
// unregistered participant fails here, at startup, never mid-conversation.
func New(reg *registry.Registry, entry string, participants []string, edges []routing.Edge, opts ...Option) (*Engine, error) {
	eng := &Engine{
		registry: reg,
		maxTurns: domain.DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("graph", eng.Name)
	}

	g, err := graph.Build(reg, entry, participants, edges)
	if err != nil {
		return nil, err
	}
	eng.graph = g

	eng.runtime = runtime.NewEngine(g,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

// StartConversation creates a fresh conversation state using the engine's
// default hop ceiling.
func (e *Engine) StartConversation() *domain.ConversationState {
	return domain.NewState(e.maxTurns)
}

// Run drives one conversation turn through the compiled graph until it
// terminates, escalates, or aborts. The initial state must be active with
// TurnCount below its ceiling.
func (e *Engine) Run(ctx context.Context, state *domain.ConversationState) (*domain.RunResult, error) {
	return e.runtime.Run(ctx, state)
}

// Graph returns the compiled graph for introspection and visualization.
func (e *Engine) Graph() *graph.CompiledGraph {
	return e.graph
}

// Registry returns the underlying handler registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}
