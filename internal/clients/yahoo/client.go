// Package yahoo fetches daily price history from Yahoo Finance.
package yahoo

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Client wraps the go-yfinance ticker API.
type Client struct {
	log zerolog.Logger
}

// Bar is one day of OHLCV data as returned by Yahoo Finance.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// NewClient creates a new Yahoo Finance client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// DailyHistory fetches auto-adjusted daily bars for symbol over the given
// period ("1y", "3y", "max", ...).
func (c *Client) DailyHistory(symbol, period string) ([]Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker for %s: %w", symbol, err)
	}
	defer t.Close()

	params := models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	}

	bars, err := t.History(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
	}

	out := make([]Bar, 0, len(bars))
	for _, bar := range bars {
		out = append(out, Bar{
			Date:   bar.Date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: float64(bar.Volume),
		})
	}
	return out, nil
}

// PeriodSince maps a start date to the coarse lookback period strings the
// Yahoo history endpoint accepts. The returned period always covers the
// requested start date.
func PeriodSince(since time.Time, now time.Time) string {
	years := now.Sub(since).Hours() / (24 * 365)
	switch {
	case years <= 1:
		return "1y"
	case years <= 2:
		return "2y"
	case years <= 5:
		return "5y"
	case years <= 10:
		return "10y"
	default:
		return "max"
	}
}
