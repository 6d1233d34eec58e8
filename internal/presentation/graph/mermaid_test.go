package graph_test

import (
	"context"
	"strings"
	"testing"

	mermaid "github.com/aretw0/switchboard/internal/presentation/graph"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/graph"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
)

func compiled(t *testing.T) *graph.CompiledGraph {
	t.Helper()

	reg := registry.New()
	noop := func() ports.Handler {
		return ports.HandlerFunc(func(_ context.Context, s *domain.ConversationState) (*domain.ConversationState, error) {
			return s, nil
		})
	}

	for _, name := range []string{"router", "billing", "tech-support", "escalation"} {
		reg.MustRegister(name, noop, "", "")
	}

	g, err := graph.Build(reg, "router",
		[]string{"billing", "tech-support", "escalation"},
		[]routing.Edge{
			{FromToken: "billing", To: "billing"},
			{FromToken: "tech", To: "tech-support"},
		})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return g
}

func TestGenerateMermaid(t *testing.T) {
	got := mermaid.GenerateMermaid(compiled(t), nil)

	wants := []string{
		"graph TD",
		`router(("router"))`,           // entry is a circle
		`escalation[/"escalation"/]`,   // escalation is a parallelogram
		`tech_support["tech-support"]`, // sanitized ID keeps the raw label
		`router -- "tech" --> tech_support`,
		`billing --> __end`,
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := mermaid.GenerateMermaid(compiled(t), &mermaid.Overlay{
		VisitedHandlers: []string{"router", "router", "billing"},
		CurrentHandler:  "billing",
	})

	if strings.Count(got, "class router visited;") != 1 {
		t.Errorf("visited handlers must be deduplicated:\n%v", got)
	}
	if !strings.Contains(got, "class billing current;") {
		t.Errorf("current handler must be styled:\n%v", got)
	}
}
