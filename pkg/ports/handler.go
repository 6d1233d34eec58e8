package ports

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Handler is a single unit of conversational work. The execution engine
// treats every concrete specialist uniformly through this contract.
//
// Process must be total: it always returns a state, sets NextStep (or
// leaves it empty to signal direct termination) and Status. Handlers own
// any retry policy around their collaborators; an error returned here is
// treated as unrecoverable and aborts the run at the hop boundary.
//
// Handlers must be stateless or internally safe for concurrent use, since
// a compiled graph is shared across conversations.
type Handler interface {
	Process(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error)

// Process implements Handler.
func (f HandlerFunc) Process(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
	return f(ctx, state)
}

// HandlerFactory constructs a Handler instance. Factories run on the hot
// path of graph compilation and registry resolution, so they must have no
// side effects beyond instance construction.
type HandlerFactory func() Handler
