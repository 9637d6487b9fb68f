package news

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
)

// Fetcher downloads and normalizes RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
	log    zerolog.Logger
}

// NewFetcher creates a feed fetcher with a bounded request timeout.
func NewFetcher(log zerolog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 15 * time.Second}
	return &Fetcher{
		parser: parser,
		log:    log.With().Str("client", "rss").Logger(),
	}
}

// Fetch downloads one feed and returns its normalized items.
func (f *Fetcher) Fetch(feedURL string) ([]Item, error) {
	feed, err := f.parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	return Normalize(feed, feedURL), nil
}

// Normalize converts a parsed feed into news items. The source label is the
// feed title, falling back to the feed URL. Unparseable publish timestamps
// become nil rather than dropping the item.
func Normalize(feed *gofeed.Feed, feedURL string) []Item {
	source := feed.Title
	if source == "" {
		source = feedURL
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil || entry.Link == "" {
			continue
		}
		var published *time.Time
		if entry.PublishedParsed != nil {
			t := entry.PublishedParsed.UTC()
			published = &t
		}
		items = append(items, Item{
			URL:         entry.Link,
			Title:       entry.Title,
			Summary:     entry.Description,
			PublishedAt: published,
			Source:      source,
		})
	}
	return items
}

// DedupeByURL keeps the first occurrence of each URL within a batch.
func DedupeByURL(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		out = append(out, item)
	}
	return out
}
