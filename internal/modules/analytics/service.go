package analytics

import (
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/akordas/tidemark/internal/modules/linker"
	"github.com/akordas/tidemark/internal/modules/market"
	"github.com/akordas/tidemark/internal/modules/news"
)

// Service runs the read-then-compute analytics operations.
type Service struct {
	market    *market.Repository
	newsRepo  *news.Repository
	links     *linker.Repository
	runs      *RunRepository
	watchlist []string
	log       zerolog.Logger
}

// NewService creates a new analytics service.
func NewService(
	marketRepo *market.Repository,
	newsRepo *news.Repository,
	links *linker.Repository,
	runs *RunRepository,
	watchlist []string,
	log zerolog.Logger,
) *Service {
	return &Service{
		market:    marketRepo,
		newsRepo:  newsRepo,
		links:     links,
		runs:      runs,
		watchlist: watchlist,
		log:       log.With().Str("service", "analytics").Logger(),
	}
}

// DailyReturns computes simple daily returns close[t]/close[t-1] - 1 for
// the given tickers, ordered by (ticker, date). The first observation per
// ticker is dropped. Empty input or no matching rows yield an empty result.
func (s *Service) DailyReturns(tickers []string) ([]Return, error) {
	if len(tickers) == 0 {
		return []Return{}, nil
	}

	rows, err := s.market.CloseSeries(tickers)
	if err != nil {
		return nil, err
	}

	out := []Return{}
	var prevTicker string
	var prevClose float64
	for _, row := range rows {
		if row.Ticker != prevTicker {
			prevTicker = row.Ticker
			prevClose = row.Close
			continue
		}
		if prevClose != 0 {
			out = append(out, Return{
				Date:   row.Date,
				Ticker: row.Ticker,
				Ret:    row.Close/prevClose - 1,
			})
		}
		prevClose = row.Close
	}
	return out, nil
}

// NewsIntensity aggregates news per UTC calendar date: item count plus the
// mean derived-summary length as a sentiment proxy. Items without a publish
// timestamp are excluded from the grouping.
func (s *Service) NewsIntensity() ([]IntensityPoint, error) {
	rows, err := s.newsRepo.IntensityRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []IntensityPoint{}, nil
	}

	type agg struct {
		count    int
		totalLen int
	}
	byDate := make(map[string]*agg)
	for _, row := range rows {
		if row.PublishedAt == nil {
			continue
		}
		date := row.PublishedAt.UTC().Format("2006-01-02")
		a, ok := byDate[date]
		if !ok {
			a = &agg{}
			byDate[date] = a
		}
		a.count++
		a.totalLen += len(row.SummaryAI)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]IntensityPoint, 0, len(dates))
	for _, date := range dates {
		a := byDate[date]
		out = append(out, IntensityPoint{
			Date:         date,
			NewsCount:    a.count,
			AvgSentiment: float64(a.totalLen) / float64(a.count),
		})
	}
	return out, nil
}

// meanStd returns the mean, sample standard deviation and count of values.
// The stddev pointer is nil when fewer than two values contributed.
func meanStd(values []float64) (float64, *float64, int) {
	n := len(values)
	if n == 0 {
		return 0, nil, 0
	}
	mean := stat.Mean(values, nil)
	if n < 2 {
		return mean, nil, n
	}
	std := stat.StdDev(values, nil)
	return mean, &std, n
}
