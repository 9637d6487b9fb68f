package news

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/database"
)

// Repository handles news and entity database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new news repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "news").Logger(),
	}
}

// unixOrNil converts an optional publish time to a nullable unix timestamp.
func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}

// timeOrNil converts a nullable unix timestamp back to a *time.Time.
func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

// Upsert inserts or updates items keyed by URL and returns the number of
// newly inserted rows. The whole batch runs in one transaction.
func (r *Repository) Upsert(items []Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}
	existing, err := r.existingURLs(urls)
	if err != nil {
		return 0, err
	}

	err = database.WithTransaction(r.db, func(tx *sql.Tx) error {
		for _, item := range items {
			_, err := tx.Exec(`
				INSERT INTO news (url, title, summary, source, published_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (url) DO UPDATE SET
					title = excluded.title,
					summary = excluded.summary,
					source = excluded.source,
					published_at = excluded.published_at`,
				item.URL, item.Title, item.Summary, item.Source, unixOrNil(item.PublishedAt))
			if err != nil {
				return fmt.Errorf("failed to upsert news %s: %w", item.URL, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, url := range urls {
		if !existing[url] {
			inserted++
		}
	}
	return inserted, nil
}

// existingURLs returns the subset of urls already present in the news table.
func (r *Repository) existingURLs(urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return map[string]bool{}, nil
	}

	placeholders := strings.Repeat("?,", len(urls)-1) + "?"
	args := make([]interface{}, len(urls))
	for i, u := range urls {
		args[i] = u
	}

	rows, err := r.db.Query("SELECT url FROM news WHERE url IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing news urls: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan news url: %w", err)
		}
		existing[url] = true
	}
	return existing, rows.Err()
}

// scanItems reads news rows in column order
// id, url, title, summary, summary_ai, published_at, source.
func scanItems(rows *sql.Rows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		var item Item
		var summary, summaryAI, source sql.NullString
		var published sql.NullInt64
		if err := rows.Scan(&item.ID, &item.URL, &item.Title, &summary, &summaryAI, &published, &source); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		item.Summary = summary.String
		item.SummaryAI = summaryAI.String
		item.Source = source.String
		item.PublishedAt = timeOrNil(published)
		out = append(out, item)
	}
	return out, rows.Err()
}

// All returns every news item.
func (r *Repository) All() ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT id, url, title, summary, summary_ai, published_at, source FROM news`)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Latest returns the most recently published items, newest first.
func (r *Repository) Latest(limit int) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT id, url, title, summary, summary_ai, published_at, source
		FROM news
		ORDER BY published_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest news: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// PendingEnrichment returns items with no derived summary and no extracted
// entities, newest first.
func (r *Repository) PendingEnrichment(limit int) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT n.id, n.url, n.title, n.summary, n.summary_ai, n.published_at, n.source
		FROM news n
		WHERE (n.summary_ai IS NULL OR n.summary_ai = '')
		  AND NOT EXISTS (SELECT 1 FROM entities e WHERE e.news_id = n.id)
		ORDER BY n.published_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query news pending enrichment: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// SaveEnrichment stores the derived summary and replaces the item's
// entities in one transaction. Replace-on-rerun keeps repeated enrichment
// idempotent, mirroring the linker's delete-then-insert policy.
func (r *Repository) SaveEnrichment(newsID int64, summaryAI string, entities []Entity) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE news SET summary_ai = ? WHERE id = ?", summaryAI, newsID); err != nil {
			return fmt.Errorf("failed to update summary for news %d: %w", newsID, err)
		}
		if _, err := tx.Exec("DELETE FROM entities WHERE news_id = ?", newsID); err != nil {
			return fmt.Errorf("failed to delete entities for news %d: %w", newsID, err)
		}
		for _, e := range entities {
			_, err := tx.Exec(
				"INSERT INTO entities (news_id, type, value, score) VALUES (?, ?, ?, ?)",
				newsID, e.Type, e.Value, e.Score)
			if err != nil {
				return fmt.Errorf("failed to insert entity for news %d: %w", newsID, err)
			}
		}
		return nil
	})
}

// Entities returns the entities extracted for one news item.
func (r *Repository) Entities(newsID int64) ([]Entity, error) {
	rows, err := r.db.Query(
		"SELECT id, news_id, type, value, score FROM entities WHERE news_id = ?", newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities for news %d: %w", newsID, err)
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		var e Entity
		var score sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.NewsID, &e.Type, &e.Value, &score); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		e.Score = score.Float64
		out = append(out, e)
	}
	return out, rows.Err()
}

// IntensityRow carries the two news columns the intensity aggregation needs.
type IntensityRow struct {
	PublishedAt *time.Time
	SummaryAI   string
}

// IntensityRows returns (published_at, summary_ai) for every news item.
func (r *Repository) IntensityRows() ([]IntensityRow, error) {
	rows, err := r.db.Query("SELECT published_at, summary_ai FROM news")
	if err != nil {
		return nil, fmt.Errorf("failed to query news for intensity: %w", err)
	}
	defer rows.Close()

	var out []IntensityRow
	for rows.Next() {
		var published sql.NullInt64
		var summaryAI sql.NullString
		if err := rows.Scan(&published, &summaryAI); err != nil {
			return nil, fmt.Errorf("failed to scan intensity row: %w", err)
		}
		out = append(out, IntensityRow{
			PublishedAt: timeOrNil(published),
			SummaryAI:   summaryAI.String,
		})
	}
	return out, rows.Err()
}
