package handlers

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
)

// Escalation is the designated fallback handler. It ends the conversation
// with an escalated status; the actual hand-off to a person happens
// outside the routing core.
type Escalation struct {
	logger *slog.Logger
}

// NewEscalation creates the escalation handler.
func NewEscalation(logger *slog.Logger) *Escalation {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Escalation{logger: logger}
}

// Process implements ports.Handler.
func (e *Escalation) Process(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
	if state.Payload == nil {
		state.Payload = make(map[string]any)
	}
	state.Payload[KeyReply] = "Your request has been escalated to a support specialist. Someone will reach out shortly."
	state.NextStep = ""
	state.Status = domain.StatusEscalated

	e.logger.Info("conversation escalated",
		"conversation", state.ConversationID,
		"turns", state.TurnCount,
	)
	return state, nil
}
