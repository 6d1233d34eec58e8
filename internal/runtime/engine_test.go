package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/switchboard/internal/runtime"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/graph"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a factory for a handler that emits a fixed token and
// optionally sets a terminal status.
func scripted(token string, status domain.Status) ports.HandlerFactory {
	return func() ports.Handler {
		return ports.HandlerFunc(func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
			state.NextStep = token
			if status != "" {
				state.Status = status
			}
			return state, nil
		})
	}
}

func buildGraph(t *testing.T, entry string, participants []string, edges []routing.Edge, factories map[string]ports.HandlerFactory) *graph.CompiledGraph {
	t.Helper()
	reg := registry.New()
	for name, f := range factories {
		require.NoError(t, reg.Register(name, f, "specialist", "support"))
	}
	g, err := graph.Build(reg, entry, participants, edges)
	require.NoError(t, err)
	return g
}

func TestRun_BillingScenario(t *testing.T) {
	// router classifies as billing, billing answers directly.
	g := buildGraph(t, "router",
		[]string{"billing", "technical", "escalation"},
		nil,
		map[string]ports.HandlerFactory{
			"router":     scripted("billing", ""),
			"billing":    scripted("", domain.StatusResolved),
			"technical":  scripted("", domain.StatusResolved),
			"escalation": scripted("", domain.StatusEscalated),
		},
	)

	state := domain.NewState(5)
	res, err := runtime.NewEngine(g).Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeTerminated, res.Outcome)
	assert.Equal(t, domain.StatusResolved, res.State.Status)
	assert.Equal(t, 2, res.State.TurnCount)
	assert.Equal(t, []string{"router", "billing"}, res.State.HandlerHistory)
}

func TestRun_FallbackScenario(t *testing.T) {
	// router emits a token naming a handler that is not wired into the
	// subgraph; the very next hop must invoke the escalation handler.
	g := buildGraph(t, "router",
		[]string{"billing", "escalation"},
		nil,
		map[string]ports.HandlerFactory{
			"router":     scripted("nonexistent", ""),
			"billing":    scripted("", domain.StatusResolved),
			"escalation": scripted("", domain.StatusEscalated),
		},
	)

	res, err := runtime.NewEngine(g).Run(context.Background(), domain.NewState(5))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeEscalated, res.Outcome)
	assert.Equal(t, domain.StatusEscalated, res.State.Status)
	assert.Equal(t, 2, res.State.TurnCount)
	assert.Equal(t, []string{"router", "escalation"}, res.State.HandlerHistory)
}

func TestRun_FallbackWithoutEscalationTerminates(t *testing.T) {
	g := buildGraph(t, "router",
		[]string{"billing"},
		nil,
		map[string]ports.HandlerFactory{
			"router":  scripted("nonexistent", ""),
			"billing": scripted("", domain.StatusResolved),
		},
	)

	res, err := runtime.NewEngine(g).Run(context.Background(), domain.NewState(5))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeTerminated, res.Outcome)
	assert.Equal(t, 1, res.State.TurnCount)
	assert.Equal(t, []string{"router"}, res.State.HandlerHistory)
}

func TestRun_CyclicGraphAbortsAtCeiling(t *testing.T) {
	// Misconfigured routing table: A -> B and B -> A indefinitely.
	g := buildGraph(t, "a",
		[]string{"b"},
		[]routing.Edge{
			{FromToken: "to-b", To: "b"},
			{FromToken: "to-a", To: "a"},
		},
		map[string]ports.HandlerFactory{
			"a": scripted("to-b", ""),
			"b": scripted("to-a", ""),
		},
	)

	res, err := runtime.NewEngine(g).Run(context.Background(), domain.NewState(5))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeAborted, res.Outcome)
	assert.NoError(t, res.Err) // ceiling exhaustion is expected, not an error
	assert.Equal(t, domain.StatusActive, res.State.Status)
	assert.Equal(t, 5, res.State.TurnCount)
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, res.State.HandlerHistory)
}

func TestRun_HistoryInvariant(t *testing.T) {
	// len(HandlerHistory) == TurnCount after every hop.
	var observed []int
	hooks := domain.LifecycleHooks{
		OnHopEnd: func(ctx context.Context, ev *domain.HopEvent) {
			observed = append(observed, ev.TurnCount)
		},
	}

	g := buildGraph(t, "a",
		[]string{"b"},
		[]routing.Edge{{FromToken: "to-b", To: "b"}, {FromToken: "to-a", To: "a"}},
		map[string]ports.HandlerFactory{
			"a": scripted("to-b", ""),
			"b": scripted("to-a", ""),
		},
	)

	engine := runtime.NewEngine(g, runtime.WithLifecycleHooks(hooks))
	res, err := engine.Run(context.Background(), domain.NewState(4))
	require.NoError(t, err)

	assert.Equal(t, len(res.State.HandlerHistory), res.State.TurnCount)
	assert.Equal(t, []int{1, 2, 3, 4}, observed)
}

func TestRun_HandlerErrorAborts(t *testing.T) {
	boom := errors.New("llm unavailable")
	g := buildGraph(t, "router",
		[]string{"billing"},
		nil,
		map[string]ports.HandlerFactory{
			"router": scripted("billing", ""),
			"billing": func() ports.Handler {
				return ports.HandlerFunc(func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
					return state, boom
				})
			},
		},
	)

	res, err := runtime.NewEngine(g).Run(context.Background(), domain.NewState(5))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeAborted, res.Outcome)
	assert.ErrorIs(t, res.Err, boom)
	// Routing history up to the failure is preserved.
	assert.Equal(t, []string{"router", "billing"}, res.State.HandlerHistory)
	assert.Equal(t, 2, res.State.TurnCount)
}

func TestRun_HandlerPanicAborts(t *testing.T) {
	g := buildGraph(t, "router",
		nil,
		nil,
		map[string]ports.HandlerFactory{
			"router": func() ports.Handler {
				return ports.HandlerFunc(func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
					panic("nil map write")
				})
			},
		},
	)

	res, err := runtime.NewEngine(g).Run(context.Background(), domain.NewState(5))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeAborted, res.Outcome)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "panicked")
	assert.Equal(t, []string{"router"}, res.State.HandlerHistory)
}

func TestRun_CancellationAbortsPreservingState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := buildGraph(t, "a",
		[]string{"b"},
		[]routing.Edge{{FromToken: "to-b", To: "b"}, {FromToken: "to-a", To: "a"}},
		map[string]ports.HandlerFactory{
			"a": func() ports.Handler {
				return ports.HandlerFunc(func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
					if state.TurnCount >= 2 {
						cancel()
					}
					state.NextStep = "to-b"
					return state, nil
				})
			},
			"b": scripted("to-a", ""),
		},
	)

	res, err := runtime.NewEngine(g).Run(ctx, domain.NewState(50))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeAborted, res.Outcome)
	assert.ErrorIs(t, res.Err, context.Canceled)
	// Partial results are not swallowed.
	assert.Equal(t, 3, res.State.TurnCount)
	assert.Equal(t, len(res.State.HandlerHistory), res.State.TurnCount)
}

func TestRun_InFlightHandlerObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := buildGraph(t, "slow",
		nil,
		nil,
		map[string]ports.HandlerFactory{
			"slow": func() ports.Handler {
				return ports.HandlerFunc(func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
					select {
					case <-ctx.Done():
						return state, ctx.Err()
					case <-time.After(5 * time.Second):
						return state, nil
					}
				})
			},
		},
	)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := runtime.NewEngine(g).Run(ctx, domain.NewState(5))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeAborted, res.Outcome)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 1, res.State.TurnCount)
}

func TestRun_RejectsTerminalState(t *testing.T) {
	g := buildGraph(t, "router", nil, nil, map[string]ports.HandlerFactory{
		"router": scripted("", domain.StatusResolved),
	})

	state := domain.NewState(5)
	state.Status = domain.StatusResolved

	_, err := runtime.NewEngine(g).Run(context.Background(), state)
	assert.Error(t, err)
}

func TestRun_EscalationHookFires(t *testing.T) {
	var escalations []string
	hooks := domain.LifecycleHooks{
		OnEscalation: func(ctx context.Context, ev *domain.HopEvent) {
			escalations = append(escalations, ev.HandlerName)
		},
	}

	g := buildGraph(t, "router",
		[]string{"escalation"},
		nil,
		map[string]ports.HandlerFactory{
			"router":     scripted("nowhere", ""),
			"escalation": scripted("", domain.StatusEscalated),
		},
	)

	_, err := runtime.NewEngine(g, runtime.WithLifecycleHooks(hooks)).Run(context.Background(), domain.NewState(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"router"}, escalations)
}
