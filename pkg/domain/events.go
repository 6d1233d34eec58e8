package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventHopStart   EventType = "hop_start"
	EventHopEnd     EventType = "hop_end"
	EventEscalation EventType = "escalation"
	EventAbort      EventType = "abort"
)

// HopEvent describes one handler invocation inside a run.
type HopEvent struct {
	Timestamp      time.Time     `json:"timestamp"`
	Type           EventType     `json:"type"`
	ConversationID string        `json:"conversation_id"`
	HandlerName    string        `json:"handler_name"`
	TurnCount      int           `json:"turn_count"`
	Duration       time.Duration `json:"duration,omitempty"`
	Err            error         `json:"-"`
}

// RunEvent describes the end of a run.
type RunEvent struct {
	Timestamp      time.Time     `json:"timestamp"`
	ConversationID string        `json:"conversation_id"`
	Outcome        RunOutcome    `json:"outcome"`
	TurnCount      int           `json:"turn_count"`
	Duration       time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil; the engine checks before calling.
type LifecycleHooks struct {
	OnHopStart   func(context.Context, *HopEvent)
	OnHopEnd     func(context.Context, *HopEvent)
	OnEscalation func(context.Context, *HopEvent)
	OnRunEnd     func(context.Context, *RunEvent)
}

// Merge combines hook sets so that every non-nil callback in both fires.
// Used to stack metrics hooks on top of caller-provided hooks.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnHopStart:   mergeHop(h.OnHopStart, other.OnHopStart),
		OnHopEnd:     mergeHop(h.OnHopEnd, other.OnHopEnd),
		OnEscalation: mergeHop(h.OnEscalation, other.OnEscalation),
		OnRunEnd:     mergeRun(h.OnRunEnd, other.OnRunEnd),
	}
}

func mergeHop(a, b func(context.Context, *HopEvent)) func(context.Context, *HopEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, ev *HopEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}

func mergeRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, ev *RunEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
