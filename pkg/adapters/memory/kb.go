package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
)

// KBEntry is one seeded knowledge-base article.
type KBEntry struct {
	Title    string
	Content  string
	Category string
}

// KnowledgeBase implements ports.KnowledgeBase over a static article set
// with naive term-overlap scoring. Good enough for tests and demos; real
// deployments plug in a search backend behind the same port.
type KnowledgeBase struct {
	entries []KBEntry
}

// NewKnowledgeBase creates an in-memory knowledge base.
func NewKnowledgeBase(entries ...KBEntry) *KnowledgeBase {
	return &KnowledgeBase{entries: entries}
}

// Search implements ports.KnowledgeBase.
func (kb *KnowledgeBase) Search(ctx context.Context, query, category string, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 3
	}
	terms := strings.Fields(strings.ToLower(query))

	var hits []domain.Document
	for _, e := range kb.entries {
		if category != "" && e.Category != category {
			continue
		}
		score := score(terms, e)
		if score > 0 {
			hits = append(hits, domain.Document{
				Title:   e.Title,
				Content: e.Content,
				Score:   score,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// score counts the fraction of query terms present in the article.
func score(terms []string, e KBEntry) float64 {
	if len(terms) == 0 {
		return 0
	}
	haystack := strings.ToLower(e.Title + " " + e.Content)
	matched := 0
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
