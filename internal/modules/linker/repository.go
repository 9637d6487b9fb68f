package linker

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository answers read queries over stored links.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new link repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "links").Logger(),
	}
}

// ByNews returns the links for one news item.
func (r *Repository) ByNews(newsID int64) ([]Link, error) {
	rows, err := r.db.Query(
		"SELECT id, news_id, asset_ticker, index_code, score FROM links WHERE news_id = ?", newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links for news %d: %w", newsID, err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

// All returns every stored link.
func (r *Repository) All() ([]Link, error) {
	rows, err := r.db.Query("SELECT id, news_id, asset_ticker, index_code, score FROM links")
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

func scanLinks(rows *sql.Rows) ([]Link, error) {
	var out []Link
	for rows.Next() {
		var link Link
		var assetTicker, indexCode sql.NullString
		if err := rows.Scan(&link.ID, &link.NewsID, &assetTicker, &indexCode, &link.Score); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		switch {
		case assetTicker.Valid:
			link.Kind = TargetAsset
			link.Key = assetTicker.String
		case indexCode.Valid:
			link.Kind = TargetIndex
			link.Key = indexCode.String
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

// LinkedPublishTimes returns the publish timestamps of news items linked to
// the given ticker. Items without a publish time are skipped.
func (r *Repository) LinkedPublishTimes(ticker string) ([]time.Time, error) {
	rows, err := r.db.Query(`
		SELECT n.published_at
		FROM news n
		JOIN links l ON l.news_id = n.id
		WHERE l.asset_ticker = ? AND n.published_at IS NOT NULL`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked news for %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var unix int64
		if err := rows.Scan(&unix); err != nil {
			return nil, fmt.Errorf("failed to scan publish time: %w", err)
		}
		out = append(out, time.Unix(unix, 0).UTC())
	}
	return out, rows.Err()
}
