package handlers

import (
	"log/slog"

	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
)

// Deps holds the collaborators shared by the built-in handler set.
type Deps struct {
	KB        ports.KnowledgeBase
	Completer ports.Completer
	Logger    *slog.Logger
}

// defaultSpecialists is the built-in specialist set. The prose here is a
// placeholder frame; real deployments override it via configuration.
var defaultSpecialists = []SpecialistConfig{
	{Name: "billing", Category: "billing", SystemPrompt: "You are a billing support specialist. Answer concisely using the provided documentation."},
	{Name: "technical", Category: "technical", SystemPrompt: "You are a technical support specialist. Answer concisely using the provided documentation."},
	{Name: "usage", Category: "usage", SystemPrompt: "You are a product usage specialist. Answer concisely using the provided documentation."},
	{Name: "api", Category: "api", SystemPrompt: "You are an API integration specialist. Answer concisely using the provided documentation."},
}

// BuildRegistry registers the built-in handler set and returns the
// registry. This is the single explicit initialization call made at
// process start; there is no package-level side-effecting registration, so
// wiring never depends on import order.
func BuildRegistry(deps Deps) (*registry.Registry, error) {
	reg := registry.New()

	router := func() ports.Handler {
		return NewRouter(deps.Completer, RouterConfig{}, deps.Logger)
	}
	if err := reg.Register("router", router, "entry", "triage"); err != nil {
		return nil, err
	}

	for _, cfg := range defaultSpecialists {
		cfg := cfg
		factory := func() ports.Handler {
			return NewSpecialist(deps.KB, deps.Completer, cfg, deps.Logger)
		}
		if err := reg.Register(cfg.Name, factory, "specialist", cfg.Category); err != nil {
			return nil, err
		}
	}

	escalation := func() ports.Handler {
		return NewEscalation(deps.Logger)
	}
	if err := reg.Register(routing.EscalationHandler, escalation, "fallback", "support"); err != nil {
		return nil, err
	}

	return reg, nil
}

// DefaultParticipants lists the handlers wired into the default graph
// alongside the router entry.
func DefaultParticipants() []string {
	out := make([]string, 0, len(defaultSpecialists)+1)
	for _, cfg := range defaultSpecialists {
		out = append(out, cfg.Name)
	}
	return append(out, routing.EscalationHandler)
}
