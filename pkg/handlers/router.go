package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/routing"
)

// RouterConfig tunes the classification step.
type RouterConfig struct {
	// Targets are the tokens the classifier may emit. Defaults to the
	// built-in specialist set.
	Targets []string `mapstructure:"targets"`
	// MaxTokens is the completion budget for the classifier call.
	MaxTokens int `mapstructure:"max_tokens"`
}

// Router classifies the inbound message and emits the next-step token for
// the matching specialist. It asks the LLM collaborator first and falls
// back to keyword matching when the call fails or returns garbage, so a
// dead LLM never blocks routing.
type Router struct {
	completer ports.Completer
	cfg       RouterConfig
	logger    *slog.Logger
}

// NewRouter creates a router handler. completer may be nil; classification
// then relies on keywords alone.
func NewRouter(completer ports.Completer, cfg RouterConfig, logger *slog.Logger) *Router {
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{"billing", "technical", "usage", "api"}
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Router{completer: completer, cfg: cfg, logger: logger}
}

// Process implements ports.Handler.
func (r *Router) Process(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
	msg := message(state.Payload)

	token := r.classify(ctx, msg)
	primaryDomain := inferDomain(msg)

	if state.Payload == nil {
		state.Payload = make(map[string]any)
	}
	state.Payload[KeyPrimaryDomain] = primaryDomain

	// The explicit classifier token wins; the inferred domain only
	// resolves a generic "support" answer.
	state.NextStep = routing.ResolveDomain(token, primaryDomain)
	state.Status = domain.StatusActive

	r.logger.Debug("classified message",
		"conversation", state.ConversationID,
		"token", token,
		"primary_domain", primaryDomain,
		"next_step", state.NextStep,
	)
	return state, nil
}

// classify asks the completer for a single-word target, validated against
// the configured token set.
func (r *Router) classify(ctx context.Context, msg string) string {
	if r.completer == nil || msg == "" {
		return r.keywordToken(msg)
	}

	reply, err := r.completer.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: "Classify the support request into exactly one of: " +
			strings.Join(r.cfg.Targets, ", ") +
			". Answer with the single category word and nothing else.",
		UserPrompt: msg,
		MaxTokens:  r.cfg.MaxTokens,
	})
	if err != nil {
		r.logger.Warn("classifier call failed, using keywords", "err", err)
		return r.keywordToken(msg)
	}

	token := strings.ToLower(strings.TrimSpace(reply))
	for _, t := range r.cfg.Targets {
		if token == t {
			return token
		}
	}
	r.logger.Debug("classifier returned unknown token, using keywords", "token", token)
	return r.keywordToken(msg)
}

func (r *Router) keywordToken(msg string) string {
	if dom := inferDomain(msg); dom != "" {
		for _, t := range r.cfg.Targets {
			if t == dom {
				return dom
			}
		}
	}
	return routing.GenericSupportToken
}

var domainKeywords = map[string][]string{
	"billing":   {"invoice", "charge", "refund", "payment", "billed", "subscription"},
	"technical": {"error", "bug", "crash", "broken", "webhook", "timeout", "fail"},
	"usage":     {"quota", "limit", "usage", "rate limit", "overage"},
	"api":       {"api", "endpoint", "sdk", "integration", "authentication"},
}

// inferDomain is the secondary routing signal: a coarse keyword scan over
// the message. Returns "" when nothing matches.
func inferDomain(msg string) string {
	lower := strings.ToLower(msg)
	for _, dom := range []string{"billing", "technical", "usage", "api"} {
		for _, kw := range domainKeywords[dom] {
			if strings.Contains(lower, kw) {
				return dom
			}
		}
	}
	return ""
}
