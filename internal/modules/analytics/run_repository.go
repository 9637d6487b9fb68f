package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Run records one analysis invocation in the append-only audit log.
type Run struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      string     `json:"status,omitempty"` // JSON result snapshot
}

// RunRepository persists analysis runs.
type RunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("repo", "runs").Logger(),
	}
}

// runSnapshot is the JSON shape stored in the status column.
type runSnapshot struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

// SaveSnapshot appends a completed run whose status column holds the result
// serialized as JSON. Returns the new run id.
func (r *RunRepository) SaveSnapshot(name string, data interface{}) (string, error) {
	payload, err := json.Marshal(runSnapshot{Name: name, Data: data})
	if err != nil {
		return "", fmt.Errorf("failed to marshal run snapshot %s: %w", name, err)
	}

	id := uuid.NewString()
	now := time.Now().UTC().Unix()
	_, err = r.db.Exec(
		"INSERT INTO runs (id, name, started_at, completed_at, status) VALUES (?, ?, ?, ?, ?)",
		id, name, now, now, string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to insert run %s: %w", name, err)
	}

	r.log.Debug().Str("run_id", id).Str("name", name).Msg("Run snapshot saved")
	return id, nil
}

// Latest returns the most recent run for a name, or nil when none exists.
func (r *RunRepository) Latest(name string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT id, name, started_at, completed_at, status
		FROM runs WHERE name = ?
		ORDER BY started_at DESC LIMIT 1`, name)

	var run Run
	var started int64
	var completed sql.NullInt64
	var status sql.NullString
	err := row.Scan(&run.ID, &run.Name, &started, &completed, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run %s: %w", name, err)
	}

	run.StartedAt = time.Unix(started, 0).UTC()
	if completed.Valid {
		t := time.Unix(completed.Int64, 0).UTC()
		run.CompletedAt = &t
	}
	run.Status = status.String
	return &run, nil
}
