package news

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akordas/tidemark/internal/database"
)

func setupTestRepo(t *testing.T) *Repository {
	db, err := database.New("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewRepository(db.Conn(), log)
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func TestUpsert_IdempotentByURL(t *testing.T) {
	repo := setupTestRepo(t)

	items := []Item{
		{URL: "https://example.com/a", Title: "A", PublishedAt: ts("2026-03-01T10:00:00Z")},
		{URL: "https://example.com/b", Title: "B", PublishedAt: ts("2026-03-02T10:00:00Z")},
	}

	inserted, err := repo.Upsert(items)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Second pass with one existing and one new URL.
	items[0].Title = "A updated"
	inserted, err = repo.Upsert([]Item{
		items[0],
		{URL: "https://example.com/c", Title: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 3)

	latest, err := repo.Latest(1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "B", latest[0].Title)
}

func TestSaveEnrichment_ReplacesEntities(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Upsert([]Item{{URL: "https://example.com/a", Title: "A"}})
	require.NoError(t, err)
	all, err := repo.All()
	require.NoError(t, err)
	newsID := all[0].ID

	err = repo.SaveEnrichment(newsID, "first summary", []Entity{
		{NewsID: newsID, Type: "ORG", Value: "Maersk", Score: 0.9},
		{NewsID: newsID, Type: "GPE", Value: "Rotterdam", Score: 0.7},
	})
	require.NoError(t, err)

	// Re-enrichment replaces, never accumulates.
	err = repo.SaveEnrichment(newsID, "second summary", []Entity{
		{NewsID: newsID, Type: "ORG", Value: "ZIM", Score: 0.8},
	})
	require.NoError(t, err)

	entities, err := repo.Entities(newsID)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "ZIM", entities[0].Value)

	all, err = repo.All()
	require.NoError(t, err)
	assert.Equal(t, "second summary", all[0].SummaryAI)
}

func TestPendingEnrichment_SkipsEnrichedItems(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Upsert([]Item{
		{URL: "https://example.com/a", Title: "A", PublishedAt: ts("2026-03-01T10:00:00Z")},
		{URL: "https://example.com/b", Title: "B", PublishedAt: ts("2026-03-02T10:00:00Z")},
	})
	require.NoError(t, err)

	pending, err := repo.PendingEnrichment(10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Newest first.
	assert.Equal(t, "B", pending[0].Title)

	require.NoError(t, repo.SaveEnrichment(pending[0].ID, "done", nil))

	pending, err = repo.PendingEnrichment(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "A", pending[0].Title)
}
