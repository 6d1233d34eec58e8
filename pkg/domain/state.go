package domain

import "github.com/google/uuid"

// Status defines the business-level resolution of a conversation.
type Status string

const (
	StatusActive    Status = "active"    // Conversation still needs work
	StatusResolved  Status = "resolved"  // A handler answered the user directly
	StatusEscalated Status = "escalated" // Handed off to the escalation path
)

// Terminal reports whether the status represents a finished conversation.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusEscalated
}

// ConversationState is the single mutable object threaded through every hop.
// It is exclusively owned by one run at a time; the engine never shares it
// across goroutines.
type ConversationState struct {
	// ConversationID is an opaque identifier, stable for the lifetime of a
	// multi-turn session.
	ConversationID string `json:"conversation_id"`

	// TurnCount is incremented once per hop. The engine guarantees
	// TurnCount <= MaxTurns after every hop.
	TurnCount int `json:"turn_count"`

	// MaxTurns is the hop ceiling, set at creation and immutable afterward.
	MaxTurns int `json:"max_turns"`

	// HandlerHistory records the names of handlers actually invoked, in
	// order. Append-only; used for observability, never for routing.
	HandlerHistory []string `json:"handler_history"`

	// NextStep is the routing token set by the most recently invoked
	// handler. The engine reads it exactly once per hop and clears it.
	// Empty means "no further handler" (direct termination).
	NextStep string `json:"next_step,omitempty"`

	// Status is the business-level resolution of the conversation.
	Status Status `json:"status"`

	// Payload holds business data owned entirely by handlers. The routing
	// core never inspects it.
	Payload map[string]any `json:"payload,omitempty"`
}

// DefaultMaxTurns bounds a run when the caller does not specify a ceiling.
const DefaultMaxTurns = 10

// NewState creates a clean conversation state with a fresh ID.
func NewState(maxTurns int) *ConversationState {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &ConversationState{
		ConversationID: uuid.NewString(),
		MaxTurns:       maxTurns,
		Status:         StatusActive,
		Payload:        make(map[string]any),
	}
}

// Clone creates a copy of the state with independent history and payload
// maps, safe for mutation by the caller.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	next := *s
	next.HandlerHistory = append([]string(nil), s.HandlerHistory...)
	next.Payload = make(map[string]any, len(s.Payload))
	for k, v := range s.Payload {
		next.Payload[k] = v
	}
	return &next
}

// ConsumeNextStep returns the pending routing token and clears it.
// The engine calls this exactly once per hop.
func (s *ConversationState) ConsumeNextStep() string {
	token := s.NextStep
	s.NextStep = ""
	return token
}
