package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := New("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())

	// Schema is in place: the core tables accept writes.
	_, err := db.Conn().Exec("INSERT INTO assets (ticker) VALUES ('ZIM')")
	require.NoError(t, err)
}

func TestLinksCheckConstraint(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrate())

	conn := db.Conn()
	_, err := conn.Exec("INSERT INTO news (url, title) VALUES ('https://example.com/a', 'a')")
	require.NoError(t, err)

	// Exactly one of asset_ticker and index_code must be set.
	_, err = conn.Exec("INSERT INTO links (news_id, asset_ticker, score) VALUES (1, 'ZIM', 1.0)")
	assert.NoError(t, err)
	_, err = conn.Exec("INSERT INTO links (news_id, index_code, score) VALUES (1, 'SCFI', 1.0)")
	assert.NoError(t, err)
	_, err = conn.Exec("INSERT INTO links (news_id, score) VALUES (1, 1.0)")
	assert.Error(t, err)
	_, err = conn.Exec(
		"INSERT INTO links (news_id, asset_ticker, index_code, score) VALUES (1, 'ZIM', 'SCFI', 1.0)")
	assert.Error(t, err)
}

func TestWithTransaction_Commit(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO assets (ticker) VALUES ('ZIM')")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM assets").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrate())

	sentinel := errors.New("boom")
	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO assets (ticker) VALUES ('ZIM')"); err != nil {
			return err
		}
		return sentinel
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM assets").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO assets (ticker) VALUES ('ZIM')"); err != nil {
			return err
		}
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in transaction")

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM assets").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction_NilDB(t *testing.T) {
	err := WithTransaction(nil, func(tx *sql.Tx) error { return nil })
	assert.Error(t, err)
}
