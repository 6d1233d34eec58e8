package domain

// Document is a knowledge-base search hit. Results are advisory: handlers
// must produce a usable state even when no documents come back.
type Document struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
