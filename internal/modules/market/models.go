// Package market stores and refreshes daily equity prices for the watchlist.
package market

// Asset is a tracked equity, keyed by ticker.
type Asset struct {
	ID     int64  `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
}

// PriceBar is one day of OHLCV data for a ticker.
// Date uses YYYY-MM-DD, matching the prices table.
type PriceBar struct {
	Ticker string  `json:"ticker"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// ClosePrice is a (ticker, date, close) row used by the analytics queries.
type ClosePrice struct {
	Ticker string
	Date   string
	Close  float64
}
