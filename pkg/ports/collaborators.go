package ports

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// KnowledgeBase is the search collaborator consumed by handlers.
// Results are advisory: a failing or empty search must never prevent a
// handler from returning a usable state.
type KnowledgeBase interface {
	Search(ctx context.Context, query, category string, limit int) ([]domain.Document, error)
}

// CompletionRequest is a system/user prompt pair with a token budget.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Completer is the LLM collaborator consumed by handlers. It is a black
// box with unspecified latency; handlers are responsible for any retry
// policy around it.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
