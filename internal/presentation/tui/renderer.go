package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders specialist replies
// (markdown) for the terminal using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to raw text when the terminal cannot be probed.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
