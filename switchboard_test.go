package switchboard_test

import (
	"context"
	"testing"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/handlers"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
)

func TestFacade_Integration(t *testing.T) {
	// Full built-in handler set without external collaborators: the
	// router falls back to keywords, specialists to canned replies.
	reg, err := handlers.BuildRegistry(handlers.Deps{})
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	edges := []routing.Edge{
		{FromToken: "billing", To: "billing"},
		{FromToken: "technical", To: "technical"},
		{FromToken: "usage", To: "usage"},
		{FromToken: "api", To: "api"},
	}
	engine, err := switchboard.New(reg, "router", handlers.DefaultParticipants(), edges,
		switchboard.WithName("support"),
		switchboard.WithMaxTurns(5),
	)
	if err != nil {
		t.Fatalf("Failed to compile engine: %v", err)
	}

	state := engine.StartConversation()
	if state.MaxTurns != 5 {
		t.Errorf("Expected MaxTurns 5, got %d", state.MaxTurns)
	}
	state.Payload[handlers.KeyMessage] = "I need a refund for a duplicate charge"

	result, err := engine.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Outcome != domain.OutcomeTerminated {
		t.Errorf("Expected terminated outcome, got %s", result.Outcome)
	}
	if got := result.State.HandlerHistory; len(got) != 2 || got[0] != "router" || got[1] != "billing" {
		t.Errorf("Expected history [router billing], got %v", got)
	}
	if result.State.Status != domain.StatusResolved {
		t.Errorf("Expected resolved status, got %s", result.State.Status)
	}
	if result.State.Payload[handlers.KeyReply] == "" {
		t.Error("Expected a reply in the payload")
	}
}

func TestFacade_EagerValidation(t *testing.T) {
	reg := registry.New()
	reg.MustRegister("router", func() ports.Handler {
		return ports.HandlerFunc(func(_ context.Context, s *domain.ConversationState) (*domain.ConversationState, error) {
			return s, nil
		})
	}, "entry", "triage")

	// Unregistered participant fails at New, not mid-conversation.
	_, err := switchboard.New(reg, "router", []string{"ghost"}, nil)
	if err == nil {
		t.Fatal("Expected compile error for unknown participant")
	}

	// Dangling edge fails at New.
	_, err = switchboard.New(reg, "router", nil, []routing.Edge{{FromToken: "x", To: "nowhere"}})
	if err == nil {
		t.Fatal("Expected compile error for dangling edge")
	}
}

func TestFacade_EscalationFallback(t *testing.T) {
	reg := registry.New()
	reg.MustRegister("router", func() ports.Handler {
		return ports.HandlerFunc(func(_ context.Context, s *domain.ConversationState) (*domain.ConversationState, error) {
			s.NextStep = "unroutable-token"
			return s, nil
		})
	}, "entry", "triage")
	reg.MustRegister(routing.EscalationHandler, func() ports.Handler {
		return handlers.NewEscalation(nil)
	}, "fallback", "support")

	engine, err := switchboard.New(reg, "router", []string{routing.EscalationHandler}, nil)
	if err != nil {
		t.Fatalf("Failed to compile engine: %v", err)
	}

	result, err := engine.Run(context.Background(), engine.StartConversation())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome != domain.OutcomeEscalated {
		t.Errorf("Expected escalated outcome, got %s", result.Outcome)
	}
	if result.State.Status != domain.StatusEscalated {
		t.Errorf("Expected escalated status, got %s", result.State.Status)
	}
}
