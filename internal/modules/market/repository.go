package market

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/database"
)

// Repository handles asset and price database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new market repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "market").Logger(),
	}
}

// EnsureAsset returns the id for ticker, inserting the asset when missing.
func EnsureAsset(tx *sql.Tx, ticker string) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM assets WHERE ticker = ?", ticker).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query asset %s: %w", ticker, err)
	}

	res, err := tx.Exec("INSERT INTO assets (ticker) VALUES (?)", ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset %s: %w", ticker, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get asset id for %s: %w", ticker, err)
	}
	return id, nil
}

// UpsertPrices inserts or updates price bars keyed by (asset, date).
// The whole batch runs in one transaction.
func (r *Repository) UpsertPrices(bars []PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		assetIDs := make(map[string]int64)
		for _, bar := range bars {
			id, ok := assetIDs[bar.Ticker]
			if !ok {
				var err error
				id, err = EnsureAsset(tx, bar.Ticker)
				if err != nil {
					return err
				}
				assetIDs[bar.Ticker] = id
			}

			_, err := tx.Exec(`
				INSERT INTO prices (asset_id, date, open, high, low, close, volume)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (asset_id, date) DO UPDATE SET
					open = excluded.open,
					high = excluded.high,
					low = excluded.low,
					close = excluded.close,
					volume = excluded.volume`,
				id, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
			if err != nil {
				return fmt.Errorf("failed to upsert price %s %s: %w", bar.Ticker, bar.Date, err)
			}
		}
		return nil
	})
}

// CloseSeries returns (ticker, date, close) rows for the given tickers,
// ordered by ticker then date. Empty ticker list yields no rows.
func (r *Repository) CloseSeries(tickers []string) ([]ClosePrice, error) {
	if len(tickers) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(tickers)-1) + "?"
	args := make([]interface{}, len(tickers))
	for i, t := range tickers {
		args[i] = t
	}

	query := fmt.Sprintf(`
		SELECT a.ticker, p.date, p.close
		FROM assets a
		JOIN prices p ON a.id = p.asset_id
		WHERE a.ticker IN (%s) AND p.close IS NOT NULL
		ORDER BY a.ticker, p.date`, placeholders)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query close prices: %w", err)
	}
	defer rows.Close()

	var out []ClosePrice
	for rows.Next() {
		var cp ClosePrice
		if err := rows.Scan(&cp.Ticker, &cp.Date, &cp.Close); err != nil {
			return nil, fmt.Errorf("failed to scan close price: %w", err)
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

// OHLCSeries returns all price bars ordered by ticker then date.
// Used by the report builder for candlestick charts.
func (r *Repository) OHLCSeries() ([]PriceBar, error) {
	rows, err := r.db.Query(`
		SELECT a.ticker, p.date, p.open, p.high, p.low, p.close, p.volume
		FROM assets a
		JOIN prices p ON a.id = p.asset_id
		ORDER BY a.ticker, p.date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var out []PriceBar
	for rows.Next() {
		var b PriceBar
		var open, high, low, closePx, volume sql.NullFloat64
		if err := rows.Scan(&b.Ticker, &b.Date, &open, &high, &low, &closePx, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		b.Open = open.Float64
		b.High = high.Float64
		b.Low = low.Float64
		b.Close = closePx.Float64
		b.Volume = volume.Float64
		out = append(out, b)
	}
	return out, rows.Err()
}

// CloseSeriesSince returns close rows for all assets on or after the given
// date (YYYY-MM-DD), ordered by ticker then date. Used for report insights.
func (r *Repository) CloseSeriesSince(date string) ([]ClosePrice, error) {
	rows, err := r.db.Query(`
		SELECT a.ticker, p.date, p.close
		FROM assets a
		JOIN prices p ON a.id = p.asset_id
		WHERE p.date >= ? AND p.close IS NOT NULL
		ORDER BY a.ticker, p.date`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query close prices since %s: %w", date, err)
	}
	defer rows.Close()

	var out []ClosePrice
	for rows.Next() {
		var cp ClosePrice
		if err := rows.Scan(&cp.Ticker, &cp.Date, &cp.Close); err != nil {
			return nil, fmt.Errorf("failed to scan close price: %w", err)
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}
