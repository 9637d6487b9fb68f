package enrich

import (
	"regexp"
	"strings"
)

// capitalizedPhrase matches runs of capitalized or all-caps words, the rough
// shape of company and index names in headlines ("Hapag Lloyd", "ZIM").
var capitalizedPhrase = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&\.\-]*(?:\s+[A-Z][A-Za-z0-9&\.\-]*)*\b`)

// stopwords are sentence-initial words that look like entities but aren't.
var stopwords = map[string]bool{
	"The": true, "A": true, "An": true, "This": true, "That": true,
	"It": true, "In": true, "On": true, "At": true, "As": true,
	"New": true, "After": true, "Before": true, "With": true, "From": true,
}

// HeuristicExtractor is the offline fallback used when no API key is
// configured. The summary falls back to the raw summary (or the title), and
// entities are guessed from capitalization with a flat score of 1.0.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates the fallback extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract derives a summary and capitalization-based ORG entities.
func (h *HeuristicExtractor) Extract(title, summary string) (*Extraction, error) {
	derived := strings.TrimSpace(summary)
	if derived == "" {
		derived = strings.TrimSpace(title)
	}

	text := title + ". " + summary
	seen := make(map[string]bool)
	var entities []ExtractedEntity
	for _, match := range capitalizedPhrase.FindAllString(text, -1) {
		match = strings.TrimSpace(match)
		if len(match) < 2 || stopwords[match] || seen[match] {
			continue
		}
		seen[match] = true
		entities = append(entities, ExtractedEntity{Type: "ORG", Value: match, Score: 1.0})
	}

	return &Extraction{Summary: derived, Entities: entities}, nil
}
