// Package news fetches RSS/Atom feeds and stores news items.
package news

import "time"

// Item is one news article, keyed by URL.
type Item struct {
	ID          int64      `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	SummaryAI   string     `json:"summary_ai,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// Entity is a named entity extracted from one news item.
type Entity struct {
	ID     int64   `json:"id"`
	NewsID int64   `json:"news_id"`
	Type   string  `json:"type"` // ORG, GPE or PRODUCT
	Value  string  `json:"value"`
	Score  float64 `json:"score"`
}
