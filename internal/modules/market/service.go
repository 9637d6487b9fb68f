package market

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/clients/yahoo"
)

// PriceSource fetches daily bars for one symbol.
type PriceSource interface {
	DailyHistory(symbol, period string) ([]yahoo.Bar, error)
}

// Service refreshes watchlist prices from an external source.
type Service struct {
	repo       *Repository
	source     PriceSource
	watchlist  []string
	fetchDelay time.Duration
	log        zerolog.Logger
}

// NewService creates a new market service.
func NewService(repo *Repository, source PriceSource, watchlist []string, fetchDelay time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		source:     source,
		watchlist:  watchlist,
		fetchDelay: fetchDelay,
		log:        log.With().Str("service", "market").Logger(),
	}
}

// RefreshPrices fetches history for every watchlist ticker and upserts it.
// Tickers are fetched sequentially with a fixed sleep between requests.
// A failed ticker is logged and skipped; only database errors propagate.
func (s *Service) RefreshPrices(period string) (int, error) {
	if period == "" {
		period = "5y" // Yahoo has no exact 3y period; 5y covers the 3-year default
	}

	var bars []PriceBar
	for i, symbol := range s.watchlist {
		if i > 0 {
			time.Sleep(s.fetchDelay)
		}
		history, err := s.source.DailyHistory(symbol, period)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to download prices")
			continue
		}
		for _, bar := range history {
			bars = append(bars, PriceBar{
				Ticker: symbol,
				Date:   bar.Date.UTC().Format("2006-01-02"),
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: bar.Volume,
			})
		}
	}

	if err := s.repo.UpsertPrices(bars); err != nil {
		return 0, err
	}

	s.log.Info().Int("rows", len(bars)).Str("period", period).Msg("Prices refreshed")
	return len(bars), nil
}
