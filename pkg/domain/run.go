package domain

// RunOutcome describes how a run through the compiled graph ended.
type RunOutcome string

const (
	// OutcomeRunning is the transient state while hops are in flight.
	OutcomeRunning RunOutcome = "running"
	// OutcomeTerminated means a handler answered directly or emitted the
	// terminal token.
	OutcomeTerminated RunOutcome = "terminated"
	// OutcomeEscalated means routing fell back to the escalation handler
	// and that handler finished the conversation.
	OutcomeEscalated RunOutcome = "escalated"
	// OutcomeAborted means the hop ceiling was reached, the context was
	// canceled, or a handler failed uncaught. Partial state is preserved.
	OutcomeAborted RunOutcome = "aborted"
)

// RunResult is handed back to the caller at the end of a run.
// State is always non-nil and carries the handler history and turn count
// accumulated so far, even when the run aborted.
type RunResult struct {
	State   *ConversationState `json:"state"`
	Outcome RunOutcome         `json:"outcome"`

	// Err is set only when Outcome is OutcomeAborted for a reason other
	// than the hop ceiling (handler failure, cancellation).
	Err error `json:"-"`
}
