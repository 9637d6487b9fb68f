// Package linker scores news items against keyword dictionaries to produce
// weighted associations to watchlist assets and freight indices.
package linker

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/config"
	"github.com/akordas/tidemark/internal/database"
)

// TargetKind discriminates what a link points at.
type TargetKind string

const (
	// TargetAsset links a news item to an equity ticker.
	TargetAsset TargetKind = "asset"
	// TargetIndex links a news item to a freight index code.
	TargetIndex TargetKind = "index"
)

// Link associates one news item with exactly one asset ticker or index code.
type Link struct {
	ID     int64
	NewsID int64
	Kind   TargetKind
	Key    string // Ticker for TargetAsset, index code for TargetIndex
	Score  float64
}

// Linker recomputes news-to-asset and news-to-index associations.
type Linker struct {
	db          *sql.DB
	assetGroups []config.AssetGroup
	indexGroups []config.IndexKeywordGroup
	log         zerolog.Logger
}

// New creates a linker over the given keyword configuration.
func New(db *sql.DB, assetGroups []config.AssetGroup, indexGroups []config.IndexKeywordGroup, log zerolog.Logger) *Linker {
	return &Linker{
		db:          db,
		assetGroups: assetGroups,
		indexGroups: indexGroups,
		log:         log.With().Str("module", "linker").Logger(),
	}
}

// MatchScore counts how many keywords occur in haystack as case-insensitive
// substrings. The haystack must already be lower-cased.
func MatchScore(haystack string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

// Haystack joins a news item's title, summary and entity values with spaces
// and case-folds the result.
func Haystack(title, summary string, entityValues []string) string {
	parts := []string{title, summary, strings.Join(entityValues, " ")}
	return strings.ToLower(strings.Join(parts, " "))
}

// ScoreItem computes the links a single haystack produces under the
// configured keyword groups. An asset group with a positive score emits one
// link per alias ticker; an index group emits one link per code.
func (l *Linker) ScoreItem(newsID int64, haystack string) []Link {
	var links []Link

	for _, group := range l.assetGroups {
		keywords := append([]string{group.Name}, group.Tickers...)
		score := MatchScore(haystack, keywords)
		if score == 0 {
			continue
		}
		for _, ticker := range group.Tickers {
			links = append(links, Link{
				NewsID: newsID,
				Kind:   TargetAsset,
				Key:    ticker,
				Score:  float64(score),
			})
		}
	}

	for _, group := range l.indexGroups {
		score := MatchScore(haystack, group.Keywords)
		if score == 0 {
			continue
		}
		links = append(links, Link{
			NewsID: newsID,
			Kind:   TargetIndex,
			Key:    group.Code,
			Score:  float64(score),
		})
	}

	return links
}

// Relink recomputes the links for every news item. The whole pass runs in
// one transaction: existing links for each item are deleted before its new
// links are inserted, and any failure rolls the entire pass back.
func (l *Linker) Relink() error {
	linked := 0
	err := database.WithTransaction(l.db, func(tx *sql.Tx) error {
		items, err := loadHaystacks(tx)
		if err != nil {
			return err
		}

		for _, item := range items {
			if _, err := tx.Exec("DELETE FROM links WHERE news_id = ?", item.newsID); err != nil {
				return fmt.Errorf("failed to delete links for news %d: %w", item.newsID, err)
			}

			for _, link := range l.ScoreItem(item.newsID, item.haystack) {
				if err := insertLink(tx, link); err != nil {
					return err
				}
				linked++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.log.Info().Int("links", linked).Msg("Relink complete")
	return nil
}

// haystackRow pairs a news id with its pre-built, case-folded search text.
type haystackRow struct {
	newsID   int64
	haystack string
}

// loadHaystacks reads every news item and its entity values inside the
// linking transaction.
func loadHaystacks(tx *sql.Tx) ([]haystackRow, error) {
	rows, err := tx.Query("SELECT id, title, COALESCE(summary, '') FROM news")
	if err != nil {
		return nil, fmt.Errorf("failed to query news for linking: %w", err)
	}
	defer rows.Close()

	type newsRow struct {
		id             int64
		title, summary string
	}
	var items []newsRow
	for rows.Next() {
		var n newsRow
		if err := rows.Scan(&n.id, &n.title, &n.summary); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entityValues := make(map[int64][]string)
	entityRows, err := tx.Query("SELECT news_id, value FROM entities")
	if err != nil {
		return nil, fmt.Errorf("failed to query entities for linking: %w", err)
	}
	defer entityRows.Close()
	for entityRows.Next() {
		var newsID int64
		var value string
		if err := entityRows.Scan(&newsID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		entityValues[newsID] = append(entityValues[newsID], value)
	}
	if err := entityRows.Err(); err != nil {
		return nil, err
	}

	out := make([]haystackRow, 0, len(items))
	for _, n := range items {
		out = append(out, haystackRow{
			newsID:   n.id,
			haystack: Haystack(n.title, n.summary, entityValues[n.id]),
		})
	}
	return out, nil
}

// insertLink writes one link row, mapping the tagged union onto the two
// nullable target columns.
func insertLink(tx *sql.Tx, link Link) error {
	var assetTicker, indexCode interface{}
	switch link.Kind {
	case TargetAsset:
		assetTicker = link.Key
	case TargetIndex:
		indexCode = link.Key
	default:
		return fmt.Errorf("unknown link target kind %q", link.Kind)
	}

	_, err := tx.Exec(
		"INSERT INTO links (news_id, asset_ticker, index_code, score) VALUES (?, ?, ?, ?)",
		link.NewsID, assetTicker, indexCode, link.Score)
	if err != nil {
		return fmt.Errorf("failed to insert link for news %d: %w", link.NewsID, err)
	}
	return nil
}
