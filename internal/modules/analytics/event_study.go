package analytics

import (
	"fmt"
	"sort"
	"time"
)

// EventStudy aggregates abnormal returns around the news events linked to
// ticker.
//
// The market return on a day is the equal-weight mean return across the
// whole watchlist; the abnormal return is the ticker's return minus it.
// Every distinct UTC calendar date with at least one linked news item is an
// event. For each event, abnormal returns over the inclusive calendar-day
// window are tagged with their day offset from the event; offsets are then
// aggregated across events (mean, sample stddev, count). Offsets with no
// contributing observations are absent from the output.
//
// The aggregated result is persisted as a run snapshot named
// "event_study_<ticker>".
func (s *Service) EventStudy(ticker string, window EventWindow) ([]EventStudyPoint, error) {
	returns, err := s.DailyReturns(s.watchlist)
	if err != nil {
		return nil, err
	}
	if len(returns) == 0 {
		return []EventStudyPoint{}, nil
	}

	abnormal, err := abnormalReturns(returns, ticker)
	if err != nil {
		return nil, err
	}

	publishTimes, err := s.links.LinkedPublishTimes(ticker)
	if err != nil {
		return nil, err
	}
	if len(publishTimes) == 0 {
		return []EventStudyPoint{}, nil
	}

	eventDates := uniqueDates(publishTimes)

	byOffset := make(map[int][]float64)
	for _, event := range eventDates {
		start := event.AddDate(0, 0, window.Before)
		end := event.AddDate(0, 0, window.After)
		for date, abret := range abnormal {
			if date.Before(start) || date.After(end) {
				continue
			}
			offset := int(date.Sub(event).Hours() / 24)
			byOffset[offset] = append(byOffset[offset], abret)
		}
	}
	if len(byOffset) == 0 {
		return []EventStudyPoint{}, nil
	}

	offsets := make([]int, 0, len(byOffset))
	for offset := range byOffset {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	out := make([]EventStudyPoint, 0, len(offsets))
	for _, offset := range offsets {
		mean, std, n := meanStd(byOffset[offset])
		out = append(out, EventStudyPoint{
			RelDay:    offset,
			AbretMean: mean,
			AbretStd:  std,
			NEvents:   n,
		})
	}

	if _, err := s.runs.SaveSnapshot("event_study_"+ticker, out); err != nil {
		return nil, err
	}
	return out, nil
}

// abnormalReturns maps each date with a return for ticker to the ticker's
// return minus the equal-weight watchlist mean on that date.
func abnormalReturns(returns []Return, ticker string) (map[time.Time]float64, error) {
	type agg struct {
		sum   float64
		count int
	}
	marketByDate := make(map[string]*agg)
	tickerByDate := make(map[string]float64)
	for _, r := range returns {
		a, ok := marketByDate[r.Date]
		if !ok {
			a = &agg{}
			marketByDate[r.Date] = a
		}
		a.sum += r.Ret
		a.count++
		if r.Ticker == ticker {
			tickerByDate[r.Date] = r.Ret
		}
	}

	out := make(map[time.Time]float64, len(tickerByDate))
	for date, ret := range tickerByDate {
		t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse return date %q: %w", date, err)
		}
		market := marketByDate[date]
		out[t] = ret - market.sum/float64(market.count)
	}
	return out, nil
}

// uniqueDates truncates timestamps to their UTC calendar date and
// de-duplicates them.
func uniqueDates(times []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(times))
	out := make([]time.Time, 0, len(times))
	for _, t := range times {
		date := time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
		if seen[date] {
			continue
		}
		seen[date] = true
		out = append(out, date)
	}
	return out
}
