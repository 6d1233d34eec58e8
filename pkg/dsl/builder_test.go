package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/dsl"
	"github.com/aretw0/switchboard/pkg/ports"
)

func route(token string) ports.HandlerFactory {
	return func() ports.Handler {
		return ports.HandlerFunc(func(_ context.Context, s *domain.ConversationState) (*domain.ConversationState, error) {
			s.NextStep = token
			return s, nil
		})
	}
}

func resolve() ports.HandlerFactory {
	return func() ports.Handler {
		return ports.HandlerFunc(func(_ context.Context, s *domain.ConversationState) (*domain.ConversationState, error) {
			s.Status = domain.StatusResolved
			s.NextStep = ""
			return s, nil
		})
	}
}

func TestBuilder_Compile(t *testing.T) {
	b := dsl.New("support")
	b.Entry("router", route("billing")).Tier("entry")
	b.Handler("billing", resolve()).Category("billing").On("billing")

	engine, err := b.Compile()
	require.NoError(t, err)
	assert.Equal(t, "support", engine.Name)

	result, err := engine.Run(context.Background(), engine.StartConversation())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeTerminated, result.Outcome)
	assert.Equal(t, []string{"router", "billing"}, result.State.HandlerHistory)
}

func TestBuilder_RequiresEntry(t *testing.T) {
	b := dsl.New("empty")
	b.Handler("billing", resolve())

	_, _, _, _, err := b.Build()
	assert.ErrorContains(t, err, "no entry handler")
}

func TestBuilder_DuplicateDeclarationReturnsSameBuilder(t *testing.T) {
	b := dsl.New("g")
	first := b.Entry("router", route(""))
	second := b.Handler("router", route(""))
	assert.Same(t, first, second)

	reg, entry, participants, _, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "router", entry)
	assert.Equal(t, []string{"router"}, participants)
	assert.True(t, reg.Has("router"))
}

func TestBuilder_DanglingEdgeFailsCompile(t *testing.T) {
	b := dsl.New("g")
	b.Entry("router", route("ghost"))
	b.Route("ghost", "nowhere")

	_, err := b.Compile()
	var dangling *domain.DanglingEdgeError
	assert.ErrorAs(t, err, &dangling)
}
