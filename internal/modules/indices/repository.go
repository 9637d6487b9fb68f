package indices

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/database"
)

// Repository handles index and index point database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new indices repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "indices").Logger(),
	}
}

// ensureIndex returns the id for code, inserting the index when missing.
func ensureIndex(tx *sql.Tx, code string) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM indices WHERE code = ?", code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query index %s: %w", code, err)
	}

	res, err := tx.Exec("INSERT INTO indices (code) VALUES (?)", code)
	if err != nil {
		return 0, fmt.Errorf("failed to insert index %s: %w", code, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get index id for %s: %w", code, err)
	}
	return id, nil
}

// UpsertPoints inserts or updates index points keyed by (index, date)
// within one transaction.
func (r *Repository) UpsertPoints(points []Point) error {
	if len(points) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		indexIDs := make(map[string]int64)
		for _, p := range points {
			id, ok := indexIDs[p.Code]
			if !ok {
				var err error
				id, err = ensureIndex(tx, p.Code)
				if err != nil {
					return err
				}
				indexIDs[p.Code] = id
			}

			_, err := tx.Exec(`
				INSERT INTO index_points (index_id, date, value, source)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (index_id, date) DO UPDATE SET
					value = excluded.value,
					source = excluded.source`,
				id, p.Date, p.Value, p.Source)
			if err != nil {
				return fmt.Errorf("failed to upsert index point %s %s: %w", p.Code, p.Date, err)
			}
		}
		return nil
	})
}

// Series returns all index points ordered by code then date.
func (r *Repository) Series() ([]Point, error) {
	rows, err := r.db.Query(`
		SELECT i.code, p.date, p.value, p.source
		FROM indices i
		JOIN index_points p ON i.id = p.index_id
		ORDER BY i.code, p.date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query index points: %w", err)
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var p Point
		var source sql.NullString
		if err := rows.Scan(&p.Code, &p.Date, &p.Value, &source); err != nil {
			return nil, fmt.Errorf("failed to scan index point: %w", err)
		}
		p.Source = source.String
		out = append(out, p)
	}
	return out, rows.Err()
}
