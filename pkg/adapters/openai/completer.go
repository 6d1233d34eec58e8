// Package openai adapts the OpenAI chat completion API to the Completer
// port consumed by handlers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/switchboard/pkg/ports"
	goopenai "github.com/sashabaranov/go-openai"
)

// Completer implements ports.Completer over the OpenAI chat API.
type Completer struct {
	client     *goopenai.Client
	model      string
	maxRetries int
	backoff    time.Duration
}

// Option configures the Completer.
type Option func(*Completer)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Completer) {
		c.model = model
	}
}

// WithMaxRetries sets how many times a transient API failure is retried.
// The routing core never retries; the retry policy lives here, on the
// handler side of the contract.
func WithMaxRetries(n int) Option {
	return func(c *Completer) {
		c.maxRetries = n
	}
}

// WithBackoff sets the base delay between retries.
func WithBackoff(d time.Duration) Option {
	return func(c *Completer) {
		c.backoff = d
	}
}

// New creates a Completer using the given API token.
func New(token string, opts ...Option) *Completer {
	return NewFromClient(goopenai.NewClient(token), opts...)
}

// NewFromClient creates a Completer from a preconfigured client. Useful
// for tests and OpenAI-compatible gateways (custom base URL).
func NewFromClient(client *goopenai.Client, opts ...Option) *Completer {
	c := &Completer{
		client:     client,
		model:      goopenai.GPT4oMini,
		maxRetries: 2,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	chatReq := goopenai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: req.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			lastErr = err
			if !retryable(err) {
				break
			}
			continue
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("chat completion failed: %w", lastErr)
}

// retryable reports whether an API error is worth retrying (rate limits
// and server-side failures).
func retryable(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// Transport-level errors are retried; context cancellation is not.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
