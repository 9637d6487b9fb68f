package analytics

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akordas/tidemark/internal/database"
	"github.com/akordas/tidemark/internal/modules/linker"
	"github.com/akordas/tidemark/internal/modules/market"
	"github.com/akordas/tidemark/internal/modules/news"
)

func setupTestService(t *testing.T, watchlist []string) (*Service, *sql.DB) {
	db, err := database.New("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.New(nil).Level(zerolog.Disabled)
	conn := db.Conn()
	svc := NewService(
		market.NewRepository(conn, log),
		news.NewRepository(conn, log),
		linker.NewRepository(conn, log),
		NewRunRepository(conn, log),
		watchlist,
		log,
	)
	return svc, conn
}

func seedPrices(t *testing.T, conn *sql.DB, ticker string, dates []string, closes []float64) {
	require.Equal(t, len(dates), len(closes))

	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := market.NewRepository(conn, log)
	bars := make([]market.PriceBar, len(dates))
	for i := range dates {
		bars[i] = market.PriceBar{Ticker: ticker, Date: dates[i], Close: closes[i]}
	}
	require.NoError(t, repo.UpsertPrices(bars))
}

func TestDailyReturns_DropsFirstObservationPerTicker(t *testing.T) {
	svc, conn := setupTestService(t, []string{"AAA", "BBB"})

	seedPrices(t, conn, "AAA", []string{"2026-01-05", "2026-01-06", "2026-01-07"}, []float64{100, 110, 99})
	seedPrices(t, conn, "BBB", []string{"2026-01-05", "2026-01-06"}, []float64{50, 51})

	returns, err := svc.DailyReturns([]string{"AAA", "BBB"})
	require.NoError(t, err)
	require.Len(t, returns, 3)

	assert.Equal(t, "AAA", returns[0].Ticker)
	assert.Equal(t, "2026-01-06", returns[0].Date)
	assert.InDelta(t, 0.10, returns[0].Ret, 1e-9)
	assert.InDelta(t, -0.10, returns[1].Ret, 1e-9)

	assert.Equal(t, "BBB", returns[2].Ticker)
	assert.InDelta(t, 0.02, returns[2].Ret, 1e-9)
}

func TestDailyReturns_TwoTickersSameMove(t *testing.T) {
	svc, conn := setupTestService(t, []string{"AAA", "BBB"})

	seedPrices(t, conn, "AAA", []string{"2024-01-01", "2024-01-02"}, []float64{100, 110})
	seedPrices(t, conn, "BBB", []string{"2024-01-01", "2024-01-02"}, []float64{200, 220})

	returns, err := svc.DailyReturns([]string{"AAA", "BBB"})
	require.NoError(t, err)
	require.Len(t, returns, 2)
	for _, r := range returns {
		assert.Equal(t, "2024-01-02", r.Date)
		assert.InDelta(t, 0.10, r.Ret, 1e-12)
	}
}

func TestDailyReturns_EmptyInputs(t *testing.T) {
	svc, _ := setupTestService(t, nil)

	returns, err := svc.DailyReturns(nil)
	require.NoError(t, err)
	assert.Empty(t, returns)

	returns, err = svc.DailyReturns([]string{"NOPE"})
	require.NoError(t, err)
	assert.Empty(t, returns)
}

func TestDailyReturns_SkipsZeroPreviousClose(t *testing.T) {
	svc, conn := setupTestService(t, []string{"AAA"})

	seedPrices(t, conn, "AAA", []string{"2026-01-05", "2026-01-06", "2026-01-07"}, []float64{0, 10, 11})

	returns, err := svc.DailyReturns([]string{"AAA"})
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, "2026-01-07", returns[0].Date)
	assert.InDelta(t, 0.10, returns[0].Ret, 1e-9)
}

func insertNewsItem(t *testing.T, conn *sql.DB, url, summaryAI string, publishedAt interface{}) int64 {
	res, err := conn.Exec(
		"INSERT INTO news (url, title, summary_ai, published_at) VALUES (?, 'title', ?, ?)",
		url, summaryAI, publishedAt)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestNewsIntensity_GroupsByUTCDate(t *testing.T) {
	svc, conn := setupTestService(t, nil)

	// Two items on 2026-03-01 (summary lengths 4 and 10), one on 2026-03-02
	// (length 3), one undated item excluded from the grouping.
	day1a := int64(1772359200) // 2026-03-01 10:00:00 UTC
	day1b := int64(1772373600) // 2026-03-01 14:00:00 UTC
	day2 := int64(1772445600)  // 2026-03-02 10:00:00 UTC
	insertNewsItem(t, conn, "https://example.com/a", "abcd", day1a)
	insertNewsItem(t, conn, "https://example.com/b", "abcdefghij", day1b)
	insertNewsItem(t, conn, "https://example.com/c", "abc", day2)
	insertNewsItem(t, conn, "https://example.com/d", "ignored", nil)

	points, err := svc.NewsIntensity()
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-03-01", points[0].Date)
	assert.Equal(t, 2, points[0].NewsCount)
	assert.InDelta(t, 7.0, points[0].AvgSentiment, 1e-9)

	assert.Equal(t, "2026-03-02", points[1].Date)
	assert.Equal(t, 1, points[1].NewsCount)
	assert.InDelta(t, 3.0, points[1].AvgSentiment, 1e-9)
}

func TestNewsIntensity_NoNews(t *testing.T) {
	svc, _ := setupTestService(t, nil)

	points, err := svc.NewsIntensity()
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestMeanStd(t *testing.T) {
	mean, std, n := meanStd([]float64{2, 4, 6})
	assert.InDelta(t, 4.0, mean, 1e-9)
	require.NotNil(t, std)
	assert.InDelta(t, 2.0, *std, 1e-9)
	assert.Equal(t, 3, n)

	mean, std, n = meanStd([]float64{5})
	assert.Equal(t, 5.0, mean)
	assert.Nil(t, std)
	assert.Equal(t, 1, n)

	_, std, n = meanStd(nil)
	assert.Nil(t, std)
	assert.Equal(t, 0, n)
}
