package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akordas/tidemark/internal/database"
	"github.com/akordas/tidemark/internal/modules/indices"
	"github.com/akordas/tidemark/internal/modules/market"
	"github.com/akordas/tidemark/internal/modules/news"
)

func setupTestSite(t *testing.T) (*Service, *market.Repository, *indices.Repository, *news.Repository) {
	db, err := database.New("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.New(nil).Level(zerolog.Disabled)
	conn := db.Conn()
	marketRepo := market.NewRepository(conn, log)
	indicesRepo := indices.NewRepository(conn, log)
	newsRepo := news.NewRepository(conn, log)

	svc := NewService(marketRepo, indicesRepo, newsRepo, t.TempDir(), log)
	svc.now = func() time.Time {
		return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, marketRepo, indicesRepo, newsRepo
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuildSite_EmptyDatabase(t *testing.T) {
	svc, _, _, _ := setupTestSite(t)

	indexPath, err := svc.BuildSite()
	require.NoError(t, err)

	assert.FileExists(t, indexPath)
	assert.FileExists(t, filepath.Join(svc.docsDir, "style.css"))
	assert.FileExists(t, filepath.Join(svc.docsDir, "assets", "news.html"))
	assert.FileExists(t, filepath.Join(svc.docsDir, "assets", "insights.html"))

	newsPage := readFile(t, filepath.Join(svc.docsDir, "assets", "news.html"))
	assert.Contains(t, newsPage, "No news available")
}

func TestBuildSite_GeneratesChartsAndPages(t *testing.T) {
	svc, marketRepo, indicesRepo, newsRepo := setupTestSite(t)

	require.NoError(t, marketRepo.UpsertPrices([]market.PriceBar{
		{Ticker: "ZIM", Date: "2026-01-05", Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Ticker: "ZIM", Date: "2026-01-06", Open: 10.5, High: 12, Low: 10, Close: 11.2, Volume: 120},
	}))
	require.NoError(t, indicesRepo.UpsertPoints([]indices.Point{
		{Code: "BDIY", Date: "2026-01-05", Value: 1500, Source: "manual"},
	}))
	published := time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)
	_, err := newsRepo.Upsert([]news.Item{{
		URL:         "https://example.com/a",
		Title:       "ZIM beats estimates",
		Summary:     "raw summary",
		PublishedAt: &published,
	}})
	require.NoError(t, err)

	indexPath, err := svc.BuildSite()
	require.NoError(t, err)

	index := readFile(t, indexPath)
	assert.Contains(t, index, "assets/price_ZIM.html")
	assert.Contains(t, index, "assets/index_BDIY.html")

	price := readFile(t, filepath.Join(svc.docsDir, "assets", "price_ZIM.html"))
	assert.Contains(t, price, "candlestick")
	assert.Contains(t, price, "2026-01-05")
	assert.Contains(t, price, "cdn.plot.ly")

	indexChart := readFile(t, filepath.Join(svc.docsDir, "assets", "index_BDIY.html"))
	assert.Contains(t, indexChart, "BDIY")
	assert.Contains(t, indexChart, "1500")

	newsPage := readFile(t, filepath.Join(svc.docsDir, "assets", "news.html"))
	assert.Contains(t, newsPage, "ZIM beats estimates")
	assert.Contains(t, newsPage, "raw summary")

	insights := readFile(t, filepath.Join(svc.docsDir, "assets", "insights.html"))
	assert.Contains(t, insights, "News: 1")
	assert.Contains(t, insights, "ZIM")
}

func TestBuildSite_PrefersDerivedSummary(t *testing.T) {
	svc, _, _, newsRepo := setupTestSite(t)

	_, err := newsRepo.Upsert([]news.Item{{
		URL:     "https://example.com/a",
		Title:   "Headline",
		Summary: "raw summary",
	}})
	require.NoError(t, err)
	all, err := newsRepo.All()
	require.NoError(t, err)
	require.NoError(t, newsRepo.SaveEnrichment(all[0].ID, "derived summary", nil))

	_, err = svc.BuildSite()
	require.NoError(t, err)

	newsPage := readFile(t, filepath.Join(svc.docsDir, "assets", "news.html"))
	assert.Contains(t, newsPage, "derived summary")
	assert.NotContains(t, newsPage, "raw summary")
}

func TestTopMover(t *testing.T) {
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	matrix := map[string][]float64{
		"AAA": {100, 101, 102}, // +2%
		"BBB": {50, 48, 45},    // -10%
	}

	ticker, pct := topMover(dates, matrix, "")
	assert.Equal(t, "BBB", ticker)
	assert.InDelta(t, -10.0, pct, 1e-9)

	// Cutoff after the first date narrows the comparison window.
	ticker, pct = topMover(dates, matrix, "2026-01-06")
	assert.Equal(t, "BBB", ticker)
	assert.InDelta(t, -6.25, pct, 1e-9)

	ticker, _ = topMover(dates, matrix, "2026-01-07")
	assert.Equal(t, "n/a", ticker)

	ticker, _ = topMover(nil, nil, "")
	assert.Equal(t, "n/a", ticker)
}
