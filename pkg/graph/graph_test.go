package graph_test

import (
	"context"
	"testing"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/graph"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop() ports.Handler {
	return ports.HandlerFunc(func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
		return state, nil
	})
}

func testRegistry(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, n := range names {
		require.NoError(t, r.Register(n, noop, "specialist", "support"))
	}
	return r
}

func TestBuild_CompilesParticipantsAndEdges(t *testing.T) {
	reg := testRegistry(t, "router", "billing", "technical", "escalation")

	g, err := graph.Build(reg, "router",
		[]string{"billing", "technical", "escalation"},
		[]routing.Edge{
			{FromToken: "billing", To: "billing"},
			{FromToken: "tech", To: "technical"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "router", g.Entry())
	assert.Equal(t, []string{"billing", "escalation", "router", "technical"}, g.Participants())

	h, ok := g.Handler("billing")
	assert.True(t, ok)
	assert.NotNil(t, h)

	scope := g.Scope()
	assert.True(t, scope.HasEscalation)
	assert.True(t, scope.Reachable["technical"])
	assert.False(t, scope.Reachable["ghost"])

	assert.Equal(t, "technical", g.Table().Target("tech"))
}

func TestBuild_MissingEntry(t *testing.T) {
	reg := testRegistry(t, "billing")

	_, err := graph.Build(reg, "router", []string{"billing"}, nil)
	require.Error(t, err)

	var missing *domain.MissingEntryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "router", missing.Name)
}

func TestBuild_DanglingEdge(t *testing.T) {
	reg := testRegistry(t, "router", "billing")

	_, err := graph.Build(reg, "router", []string{"billing"}, []routing.Edge{
		{FromToken: "tech", To: "technical"},
	})
	require.Error(t, err)

	var dangling *domain.DanglingEdgeError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "technical", dangling.Target)
}

func TestBuild_UnregisteredParticipant(t *testing.T) {
	reg := testRegistry(t, "router")

	_, err := graph.Build(reg, "router", []string{"billing"}, nil)
	require.Error(t, err)

	var unknown *domain.UnknownHandlerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "billing", unknown.Name)
}

func TestBuild_EntryIsImplicitParticipant(t *testing.T) {
	reg := testRegistry(t, "router")

	g, err := graph.Build(reg, "router", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"router"}, g.Participants())
	assert.False(t, g.Scope().HasEscalation)
}
