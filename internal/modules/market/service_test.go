package market

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akordas/tidemark/internal/clients/yahoo"
)

// stubSource serves canned bars per symbol and fails for unknown ones.
type stubSource struct {
	bars    map[string][]yahoo.Bar
	periods []string
}

func (s *stubSource) DailyHistory(symbol, period string) ([]yahoo.Bar, error) {
	s.periods = append(s.periods, period)
	bars, ok := s.bars[symbol]
	if !ok {
		return nil, errors.New("symbol not found")
	}
	return bars, nil
}

func TestRefreshPrices_SkipsFailedTickers(t *testing.T) {
	repo := setupTestRepo(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	source := &stubSource{bars: map[string][]yahoo.Bar{
		"ZIM": {{
			Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100,
		}},
	}}

	svc := NewService(repo, source, []string{"ZIM", "MISSING"}, 0, log)
	rows, err := svc.RefreshPrices("1y")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	closes, err := repo.CloseSeries([]string{"ZIM", "MISSING"})
	require.NoError(t, err)
	require.Len(t, closes, 1)
	assert.Equal(t, "ZIM", closes[0].Ticker)
	assert.Equal(t, "2026-01-05", closes[0].Date)
}

func TestRefreshPrices_DefaultPeriod(t *testing.T) {
	repo := setupTestRepo(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	source := &stubSource{bars: map[string][]yahoo.Bar{}}
	svc := NewService(repo, source, []string{"ZIM"}, 0, log)

	_, err := svc.RefreshPrices("")
	require.NoError(t, err)
	require.Len(t, source.periods, 1)
	assert.Equal(t, "5y", source.periods[0])
}

func TestPeriodSince(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "1y", yahoo.PeriodSince(now.AddDate(0, -6, 0), now))
	assert.Equal(t, "2y", yahoo.PeriodSince(now.AddDate(-2, 0, 1), now))
	assert.Equal(t, "5y", yahoo.PeriodSince(now.AddDate(-3, 0, 0), now))
	assert.Equal(t, "10y", yahoo.PeriodSince(now.AddDate(-8, 0, 0), now))
	assert.Equal(t, "max", yahoo.PeriodSince(now.AddDate(-20, 0, 0), now))
}
