package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultCorrWindow is the trailing window length for rolling correlations.
const DefaultCorrWindow = 30

// RollingCorr computes trailing-window Pearson correlations for every
// unordered ticker pair in the returns table.
//
// The tidy returns are pivoted to a date-by-ticker matrix (both axes
// sorted). For each pair "A-B" one row is emitted per date; the correlation
// is nil until the window holds `window` complete overlapping observations,
// and nil again whenever either series has a gap inside the window.
func RollingCorr(returns []Return, window int) []CorrPoint {
	if len(returns) == 0 {
		return []CorrPoint{}
	}
	if window <= 0 {
		window = DefaultCorrWindow
	}

	dates, tickers, matrix := pivotReturns(returns)
	if len(tickers) < 2 {
		return []CorrPoint{}
	}

	out := []CorrPoint{}
	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			pair := tickers[i] + "-" + tickers[j]
			a := matrix[tickers[i]]
			b := matrix[tickers[j]]
			for idx := range dates {
				out = append(out, CorrPoint{
					Date: dates[idx],
					Pair: pair,
					Corr: windowCorr(a, b, idx, window),
				})
			}
		}
	}
	return out
}

// pivotReturns builds a date-by-ticker matrix with NaN for missing cells.
// Dates and tickers are sorted ascending.
func pivotReturns(returns []Return) ([]string, []string, map[string][]float64) {
	dateSet := make(map[string]bool)
	tickerSet := make(map[string]bool)
	for _, r := range returns {
		dateSet[r.Date] = true
		tickerSet[r.Ticker] = true
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	dateIdx := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}

	matrix := make(map[string][]float64, len(tickers))
	for _, t := range tickers {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		matrix[t] = col
	}
	for _, r := range returns {
		matrix[r.Ticker][dateIdx[r.Date]] = r.Ret
	}

	return dates, tickers, matrix
}

// windowCorr computes the Pearson correlation of the trailing window ending
// at idx, or nil when the window is short, has gaps, or is degenerate.
func windowCorr(a, b []float64, idx, window int) *float64 {
	if idx < window-1 {
		return nil
	}
	start := idx - window + 1
	x := make([]float64, 0, window)
	y := make([]float64, 0, window)
	for k := start; k <= idx; k++ {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			return nil
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}

	corr := stat.Correlation(x, y, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return nil
	}
	return &corr
}
