package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/handlers"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticCompleter always returns the same reply.
func staticCompleter(reply string) ports.Completer {
	return ports.CompleterFunc(func(ctx context.Context, req ports.CompletionRequest) (string, error) {
		return reply, nil
	})
}

// failingCompleter always errors.
var failingCompleter = ports.CompleterFunc(func(ctx context.Context, req ports.CompletionRequest) (string, error) {
	return "", errors.New("llm unavailable")
})

type staticKB struct {
	docs []domain.Document
	err  error
}

func (s *staticKB) Search(ctx context.Context, query, category string, limit int) ([]domain.Document, error) {
	return s.docs, s.err
}

func stateWithMessage(msg string) *domain.ConversationState {
	state := domain.NewState(5)
	state.Payload[handlers.KeyMessage] = msg
	return state
}

func TestRouter_ClassifierTokenWins(t *testing.T) {
	r := handlers.NewRouter(staticCompleter("billing"), handlers.RouterConfig{}, nil)

	// Message keywords say technical, but the classifier names billing.
	state, err := r.Process(context.Background(), stateWithMessage("there is an error in this month's statement"))
	require.NoError(t, err)

	assert.Equal(t, "billing", state.NextStep)
	assert.Equal(t, domain.StatusActive, state.Status)
}

func TestRouter_KeywordFallbackWhenLLMFails(t *testing.T) {
	r := handlers.NewRouter(failingCompleter, handlers.RouterConfig{}, nil)

	state, err := r.Process(context.Background(), stateWithMessage("I was double charged on my invoice"))
	require.NoError(t, err)

	assert.Equal(t, "billing", state.NextStep)
	assert.Equal(t, "billing", state.Payload[handlers.KeyPrimaryDomain])
}

func TestRouter_UnknownClassifierTokenFallsBackToKeywords(t *testing.T) {
	r := handlers.NewRouter(staticCompleter("philosophy"), handlers.RouterConfig{}, nil)

	state, err := r.Process(context.Background(), stateWithMessage("webhook keeps timing out"))
	require.NoError(t, err)

	assert.Equal(t, "technical", state.NextStep)
}

func TestRouter_NoSignalResolvesToEscalation(t *testing.T) {
	// No completer, no matching keywords: the generic support token must
	// resolve to the escalation handler, never stall.
	r := handlers.NewRouter(nil, handlers.RouterConfig{}, nil)

	state, err := r.Process(context.Background(), stateWithMessage("hello there"))
	require.NoError(t, err)

	assert.Equal(t, "escalation", state.NextStep)
}

func TestSpecialist_GroundedReply(t *testing.T) {
	kb := &staticKB{docs: []domain.Document{
		{Title: "Refund policy", Content: "Refunds take 5 days.", Score: 0.9},
	}}
	s := handlers.NewSpecialist(kb, staticCompleter("Refunds take five business days."), handlers.SpecialistConfig{
		Name: "billing", Category: "billing",
	}, nil)

	state, err := s.Process(context.Background(), stateWithMessage("when will my refund arrive?"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusResolved, state.Status)
	assert.Empty(t, state.NextStep)
	assert.Equal(t, "Refunds take five business days.", state.Payload[handlers.KeyReply])
	assert.Equal(t, []string{"Refund policy"}, state.Payload[handlers.KeySources])
}

func TestSpecialist_DegradesWhenCollaboratorsFail(t *testing.T) {
	kb := &staticKB{err: errors.New("kb down")}
	s := handlers.NewSpecialist(kb, failingCompleter, handlers.SpecialistConfig{
		Name: "technical", Category: "technical",
	}, nil)

	state, err := s.Process(context.Background(), stateWithMessage("my webhook crashes"))
	require.NoError(t, err, "collaborator failures must never propagate past Process")

	assert.Equal(t, domain.StatusResolved, state.Status)
	reply, _ := state.Payload[handlers.KeyReply].(string)
	assert.NotEmpty(t, reply)
}

func TestSpecialist_HandsOffToEscalationOnHumanRequest(t *testing.T) {
	s := handlers.NewSpecialist(nil, nil, handlers.SpecialistConfig{Name: "billing"}, nil)

	state, err := s.Process(context.Background(), stateWithMessage("let me speak to a human please"))
	require.NoError(t, err)

	assert.Equal(t, "escalation", state.NextStep)
	assert.Equal(t, domain.StatusActive, state.Status)
}

func TestEscalation_MarksConversationEscalated(t *testing.T) {
	e := handlers.NewEscalation(nil)

	state, err := e.Process(context.Background(), stateWithMessage("anything"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusEscalated, state.Status)
	assert.Empty(t, state.NextStep)
	assert.NotEmpty(t, state.Payload[handlers.KeyReply])
}

func TestBuildRegistry_WiresDefaultSet(t *testing.T) {
	reg, err := handlers.BuildRegistry(handlers.Deps{})
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "billing", "escalation", "router", "technical", "usage"}, reg.Names())

	specialists := reg.ListByTier("specialist")
	assert.Len(t, specialists, 4)

	h, err := reg.Resolve("router")
	require.NoError(t, err)
	assert.NotNil(t, h)
}
