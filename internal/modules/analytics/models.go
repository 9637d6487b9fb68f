// Package analytics computes returns, correlations, news intensity and
// event studies over the stored market and news data.
//
// All four operations treat "no data" as a first-class empty result; they
// only return errors for database failures.
package analytics

// Return is one daily simple return for a ticker.
type Return struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Ticker string  `json:"ticker"`
	Ret    float64 `json:"ret"`
}

// IntensityPoint aggregates news activity for one UTC calendar date.
// AvgSentiment is the mean character length of the derived summaries, a
// crude proxy rather than true sentiment analysis.
type IntensityPoint struct {
	Date         string  `json:"date"`
	NewsCount    int     `json:"news_count"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// CorrPoint is one rolling-correlation observation for a ticker pair.
// Corr is nil while the trailing window has fewer than `window` complete
// overlapping observations.
type CorrPoint struct {
	Date string   `json:"date"`
	Pair string   `json:"pair"` // "A-B"
	Corr *float64 `json:"corr"`
}

// EventStudyPoint aggregates abnormal returns at one offset relative to the
// event dates. AbretStd is nil when only a single observation contributed.
type EventStudyPoint struct {
	RelDay    int      `json:"rel_day"`
	AbretMean float64  `json:"abret_mean"`
	AbretStd  *float64 `json:"abret_std"`
	NEvents   int      `json:"n_events"`
}

// EventWindow is the inclusive range of calendar-day offsets around an
// event date.
type EventWindow struct {
	Before int // Typically negative, e.g. -3
	After  int // Typically positive, e.g. 3
}

// DefaultEventWindow matches the (-3, +3) day span used by the reports.
var DefaultEventWindow = EventWindow{Before: -3, After: 3}
