package report

import (
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/akordas/tidemark/internal/modules/market"
)

// insightsData feeds insightsPageTmpl.
type insightsData struct {
	WeekNews       int
	WeekTopTicker  string
	WeekTopPct     float64
	MonthNews      int
	MonthTopTicker string
	MonthTopPct    float64
}

// buildInsightsPage renders news activity and the top absolute price mover
// over the trailing 7 and 30 calendar days.
func (s *Service) buildInsightsPage(assetsDir string) error {
	now := s.now().UTC()
	weekCutoff := now.AddDate(0, 0, -7)
	monthCutoff := now.AddDate(0, 0, -30)

	weekNews, monthNews, err := s.newsCounts(weekCutoff, monthCutoff)
	if err != nil {
		return err
	}

	closes, err := s.market.CloseSeriesSince(monthCutoff.Format("2006-01-02"))
	if err != nil {
		return err
	}
	dates, matrix := pivotCloses(closes)

	data := insightsData{
		WeekNews:  weekNews,
		MonthNews: monthNews,
	}
	data.WeekTopTicker, data.WeekTopPct = topMover(dates, matrix, weekCutoff.Format("2006-01-02"))
	data.MonthTopTicker, data.MonthTopPct = topMover(dates, matrix, "")

	return renderToFile(filepath.Join(assetsDir, "insights.html"), insightsPageTmpl, data)
}

// newsCounts returns the number of items published on or after each cutoff.
func (s *Service) newsCounts(weekCutoff, monthCutoff time.Time) (int, int, error) {
	items, err := s.newsRepo.All()
	if err != nil {
		return 0, 0, err
	}

	week, month := 0, 0
	for _, item := range items {
		if item.PublishedAt == nil {
			continue
		}
		ts := item.PublishedAt.Unix()
		if ts >= monthCutoff.Unix() {
			month++
		}
		if ts >= weekCutoff.Unix() {
			week++
		}
	}
	return week, month, nil
}

// pivotCloses builds a forward-filled date-by-ticker close matrix. Cells
// before a ticker's first observation stay NaN.
func pivotCloses(closes []market.ClosePrice) ([]string, map[string][]float64) {
	dateSet := make(map[string]bool)
	tickerSet := make(map[string]bool)
	for _, c := range closes {
		dateSet[c.Date] = true
		tickerSet[c.Ticker] = true
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	dateIdx := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}

	matrix := make(map[string][]float64, len(tickerSet))
	for t := range tickerSet {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		matrix[t] = col
	}
	for _, c := range closes {
		matrix[c.Ticker][dateIdx[c.Date]] = c.Close
	}

	for _, col := range matrix {
		last := math.NaN()
		for i := range col {
			if math.IsNaN(col[i]) {
				col[i] = last
			} else {
				last = col[i]
			}
		}
	}
	return dates, matrix
}

// topMover returns the ticker with the largest absolute percent change from
// the first row at or after cutoff (empty cutoff means the first row) to the
// last row. Returns ("n/a", 0) when no ticker has two usable observations.
func topMover(dates []string, matrix map[string][]float64, cutoff string) (string, float64) {
	if len(dates) < 2 {
		return "n/a", 0
	}

	start := 0
	if cutoff != "" {
		start = sort.SearchStrings(dates, cutoff)
	}
	end := len(dates) - 1
	if start >= end {
		return "n/a", 0
	}

	tickers := make([]string, 0, len(matrix))
	for t := range matrix {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	topTicker := "n/a"
	topPct := 0.0
	found := false
	for _, t := range tickers {
		col := matrix[t]
		first, last := col[start], col[end]
		if math.IsNaN(first) || math.IsNaN(last) || first == 0 {
			continue
		}
		pct := (last/first - 1) * 100
		if !found || math.Abs(pct) > math.Abs(topPct) {
			topTicker = t
			topPct = pct
			found = true
		}
	}
	return topTicker, topPct
}
