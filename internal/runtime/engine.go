// Package runtime contains the execution engine that drives one
// conversation's state through a compiled graph to completion.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/graph"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/routing"
)

// Engine drives conversations through a compiled graph. It performs no I/O
// itself; the only operations that may block are inside a handler's
// Process call. One Engine is safe for arbitrarily many concurrent runs,
// since every run exclusively owns its ConversationState.
type Engine struct {
	graph  *graph.CompiledGraph
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an execution engine for a compiled graph.
func NewEngine(g *graph.CompiledGraph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  g,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drives the state through the graph until a terminal condition.
//
// Per hop: check the ceiling, increment TurnCount, append the handler name
// to HandlerHistory, invoke the handler, consume NextStep, apply the
// routing decision. The ceiling check happens before invocation, so a
// state that would exceed MaxTurns is aborted instead of executing one
// more handler.
//
// The returned result always carries the state with the history and turn
// count accumulated so far, including on aborts. Run returns an error only
// for unusable input (nil or already-terminal state).
func (e *Engine) Run(ctx context.Context, state *domain.ConversationState) (*domain.RunResult, error) {
	if state == nil {
		return nil, fmt.Errorf("initial state is required")
	}
	if state.Status.Terminal() {
		return nil, fmt.Errorf("conversation %s is already %s", state.ConversationID, state.Status)
	}
	if state.MaxTurns <= 0 {
		state.MaxTurns = domain.DefaultMaxTurns
	}

	log := e.logger.With("conversation", state.ConversationID)
	started := time.Now()

	current := e.graph.Entry()
	escalated := false

	result := &domain.RunResult{State: state, Outcome: domain.OutcomeRunning}

loop:
	for {
		if state.TurnCount >= state.MaxTurns {
			log.Warn("hop ceiling reached", "max_turns", state.MaxTurns, "next", current)
			result.Outcome = domain.OutcomeAborted
			break
		}
		if err := ctx.Err(); err != nil {
			result.Outcome = domain.OutcomeAborted
			result.Err = err
			break
		}

		handler, ok := e.graph.Handler(current)
		if !ok {
			// Build-time validation makes this unreachable; guard anyway
			// so a broken graph aborts instead of panicking mid-run.
			result.Outcome = domain.OutcomeAborted
			result.Err = &domain.UnknownHandlerError{Name: current}
			break
		}

		state.TurnCount++
		state.HandlerHistory = append(state.HandlerHistory, current)

		hopStarted := time.Now()
		e.emitHop(ctx, domain.EventHopStart, current, state, 0, nil)
		log.Debug("hop start", "handler", current, "turn", state.TurnCount)

		next, err := e.invoke(ctx, handler, state)
		e.emitHop(ctx, domain.EventHopEnd, current, state, time.Since(hopStarted), err)

		if err != nil {
			log.Error("handler failed", "handler", current, "turn", state.TurnCount, "err", err)
			result.Outcome = domain.OutcomeAborted
			result.Err = fmt.Errorf("handler %s: %w", current, err)
			break
		}
		if next != nil {
			state = next
			result.State = state
		}
		if err := ctx.Err(); err != nil {
			result.Outcome = domain.OutcomeAborted
			result.Err = err
			break
		}

		token := state.ConsumeNextStep()
		decision := routing.Decide(e.graph.Table(), token, e.graph.Scope())

		switch decision.Kind {
		case routing.KindTerminate:
			if escalated {
				result.Outcome = domain.OutcomeEscalated
			} else {
				result.Outcome = domain.OutcomeTerminated
			}
			break loop

		case routing.KindEscalate:
			log.Debug("routing fallback", "handler", current, "token", token)
			escalated = true
			e.emitHop(ctx, domain.EventEscalation, current, state, 0, nil)
			current = decision.Target

		case routing.KindRoute:
			current = decision.Target
		}
	}

	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			Timestamp:      time.Now(),
			ConversationID: state.ConversationID,
			Outcome:        result.Outcome,
			TurnCount:      state.TurnCount,
			Duration:       time.Since(started),
		})
	}
	log.Info("run finished",
		"outcome", result.Outcome,
		"status", state.Status,
		"turns", state.TurnCount,
	)
	return result, nil
}

// invoke calls a handler, converting panics into errors so a misbehaving
// specialist aborts the run at the hop boundary without losing the state
// accumulated so far.
func (e *Engine) invoke(ctx context.Context, handler ports.Handler, state *domain.ConversationState) (next *domain.ConversationState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Process(ctx, state)
}

func (e *Engine) emitHop(ctx context.Context, typ domain.EventType, handlerName string, state *domain.ConversationState, dur time.Duration, err error) {
	var fn func(context.Context, *domain.HopEvent)
	switch typ {
	case domain.EventHopStart:
		fn = e.hooks.OnHopStart
	case domain.EventHopEnd:
		fn = e.hooks.OnHopEnd
	case domain.EventEscalation:
		fn = e.hooks.OnEscalation
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.HopEvent{
		Timestamp:      time.Now(),
		Type:           typ,
		ConversationID: state.ConversationID,
		HandlerName:    handlerName,
		TurnCount:      state.TurnCount,
		Duration:       dur,
		Err:            err,
	})
}
