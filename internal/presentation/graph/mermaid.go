package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/switchboard/pkg/graph"
	"github.com/aretw0/switchboard/pkg/routing"
)

// Overlay contains dynamic conversation data to visualize on the graph.
type Overlay struct {
	VisitedHandlers []string
	CurrentHandler  string
}

// GenerateMermaid produces a Mermaid flowchart for a compiled graph.
// Semantic shapes:
//   - Entry handler: ((Circle))
//   - Escalation handler: [/Parallelogram/]
//   - Terminal: ((end))
//   - Default: [Rectangle]
//
// Token edges are drawn from the entry handler, where classification
// happens; specialists are drawn flowing into the terminal. Overlay
// styles (Visited/Current) are applied if provided.
func GenerateMermaid(g *graph.CompiledGraph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	entry := g.Entry()
	for _, name := range g.Participants() {
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		switch {
		case name == entry:
			opener, closer = "((", "))" // Circle
		case name == routing.EscalationHandler:
			opener, closer = "[/", "/]" // Parallelogram
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))
	}

	sb.WriteString("    __end((\"end\"))\n")

	safeEntry := sanitizeMermaidID(entry)
	for _, e := range g.Edges() {
		safeTo := sanitizeMermaidID(e.To)
		safeToken := strings.ReplaceAll(e.FromToken, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeEntry, safeToken, safeTo))
	}

	// Every non-entry participant can resolve the conversation.
	for _, name := range g.Participants() {
		if name == entry {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> __end\n", sanitizeMermaidID(name)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedHandlers {
			safeID := sanitizeMermaidID(name)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentHandler != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentHandler)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
