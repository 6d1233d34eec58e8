package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/routing"
)

// SpecialistConfig describes one knowledge-grounded specialist.
type SpecialistConfig struct {
	// Name is the handler name; it doubles as the token other handlers
	// emit to reach it.
	Name string `mapstructure:"name"`
	// Category scopes knowledge-base searches.
	Category string `mapstructure:"category"`
	// SystemPrompt frames the reply generation.
	SystemPrompt string `mapstructure:"system_prompt"`
	// MaxTokens is the completion budget per reply.
	MaxTokens int `mapstructure:"max_tokens"`
	// KBLimit caps the number of knowledge-base hits per search.
	KBLimit int `mapstructure:"kb_limit"`
}

// Specialist answers the user inside one domain. It searches the knowledge
// base for grounding (advisory: failures are logged and ignored), drafts a
// reply through the completer, and resolves the conversation directly. A
// user asking for a human hands off to escalation instead.
type Specialist struct {
	kb        ports.KnowledgeBase
	completer ports.Completer
	cfg       SpecialistConfig
	logger    *slog.Logger
}

// NewSpecialist creates a specialist handler. Both collaborators may be
// nil; the handler then falls back to a canned acknowledgement.
func NewSpecialist(kb ports.KnowledgeBase, completer ports.Completer, cfg SpecialistConfig, logger *slog.Logger) *Specialist {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}
	if cfg.KBLimit <= 0 {
		cfg.KBLimit = 3
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Specialist{kb: kb, completer: completer, cfg: cfg, logger: logger}
}

// Process implements ports.Handler.
func (s *Specialist) Process(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
	msg := message(state.Payload)
	if state.Payload == nil {
		state.Payload = make(map[string]any)
	}

	if wantsHuman(msg) {
		state.NextStep = routing.EscalationHandler
		state.Status = domain.StatusActive
		return state, nil
	}

	docs := s.search(ctx, msg)
	reply := s.draft(ctx, msg, docs)

	state.Payload[KeyReply] = reply
	if len(docs) > 0 {
		titles := make([]string, len(docs))
		for i, d := range docs {
			titles[i] = d.Title
		}
		state.Payload[KeySources] = titles
	}

	// Direct answer: no token, conversation resolved.
	state.NextStep = ""
	state.Status = domain.StatusResolved
	return state, nil
}

// search queries the knowledge base. Results are advisory; an error or an
// empty result set never prevents a reply.
func (s *Specialist) search(ctx context.Context, msg string) []domain.Document {
	if s.kb == nil || msg == "" {
		return nil
	}
	docs, err := s.kb.Search(ctx, msg, s.cfg.Category, s.cfg.KBLimit)
	if err != nil {
		s.logger.Warn("knowledge base search failed", "handler", s.cfg.Name, "err", err)
		return nil
	}
	return docs
}

func (s *Specialist) draft(ctx context.Context, msg string, docs []domain.Document) string {
	if s.completer == nil {
		return s.degradedReply()
	}

	var sb strings.Builder
	sb.WriteString(msg)
	if len(docs) > 0 {
		sb.WriteString("\n\nRelevant documentation:\n")
		for _, d := range docs {
			fmt.Fprintf(&sb, "- %s: %s\n", d.Title, d.Content)
		}
	}

	reply, err := s.completer.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: s.cfg.SystemPrompt,
		UserPrompt:   sb.String(),
		MaxTokens:    s.cfg.MaxTokens,
	})
	if err != nil {
		s.logger.Warn("reply generation failed", "handler", s.cfg.Name, "err", err)
		return s.degradedReply()
	}
	return strings.TrimSpace(reply)
}

func (s *Specialist) degradedReply() string {
	return fmt.Sprintf("Our %s team has received your request and will follow up shortly.", s.cfg.Name)
}

func wantsHuman(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range []string{"human", "real person", "manager", "speak to someone", "agent"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
