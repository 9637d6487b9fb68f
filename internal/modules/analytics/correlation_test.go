package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReturns(ticker string, dates []string, rets []float64) []Return {
	out := make([]Return, len(dates))
	for i := range dates {
		out[i] = Return{Date: dates[i], Ticker: ticker, Ret: rets[i]}
	}
	return out
}

var corrDates = []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08"}

func TestRollingCorr_PairLabelsSorted(t *testing.T) {
	returns := append(
		makeReturns("BBB", corrDates, []float64{0.01, 0.02, -0.01, 0.03}),
		makeReturns("AAA", corrDates, []float64{0.02, 0.04, -0.02, 0.06})...,
	)

	points := RollingCorr(returns, 3)
	require.Len(t, points, len(corrDates))
	for _, p := range points {
		assert.Equal(t, "AAA-BBB", p.Pair)
	}
}

func TestRollingCorr_NullPrefixThenValues(t *testing.T) {
	// AAA returns are exactly twice BBB's, so every full window correlates
	// at 1.0.
	returns := append(
		makeReturns("AAA", corrDates, []float64{0.02, 0.04, -0.02, 0.06}),
		makeReturns("BBB", corrDates, []float64{0.01, 0.02, -0.01, 0.03})...,
	)

	points := RollingCorr(returns, 3)
	require.Len(t, points, 4)

	assert.Nil(t, points[0].Corr)
	assert.Nil(t, points[1].Corr)
	require.NotNil(t, points[2].Corr)
	assert.InDelta(t, 1.0, *points[2].Corr, 1e-9)
	require.NotNil(t, points[3].Corr)
	assert.InDelta(t, 1.0, *points[3].Corr, 1e-9)
}

func TestRollingCorr_WindowLargerThanHistory(t *testing.T) {
	returns := append(
		makeReturns("AAA", corrDates, []float64{0.02, 0.04, -0.02, 0.06}),
		makeReturns("BBB", corrDates, []float64{0.01, 0.02, -0.01, 0.03})...,
	)

	points := RollingCorr(returns, 30)
	require.Len(t, points, 4)
	for _, p := range points {
		assert.Nil(t, p.Corr)
	}
}

func TestRollingCorr_GapInsideWindowIsNull(t *testing.T) {
	// BBB is missing 2026-01-06, so windows covering that date stay null.
	returns := append(
		makeReturns("AAA", corrDates, []float64{0.02, 0.04, -0.02, 0.06}),
		makeReturns("BBB",
			[]string{"2026-01-05", "2026-01-07", "2026-01-08"},
			[]float64{0.01, -0.01, 0.03})...,
	)

	points := RollingCorr(returns, 2)
	require.Len(t, points, 4)
	assert.Nil(t, points[0].Corr)
	assert.Nil(t, points[1].Corr)
	assert.Nil(t, points[2].Corr)
	assert.NotNil(t, points[3].Corr)
}

func TestRollingCorr_DegenerateInputs(t *testing.T) {
	assert.Empty(t, RollingCorr(nil, 3))

	// A single ticker has no pairs.
	points := RollingCorr(makeReturns("AAA", corrDates, []float64{0.02, 0.04, -0.02, 0.06}), 3)
	assert.Empty(t, points)
}

func TestRollingCorr_ConstantSeriesIsNull(t *testing.T) {
	// Zero-variance windows have no defined correlation.
	returns := append(
		makeReturns("AAA", corrDates, []float64{0.01, 0.01, 0.01, 0.01}),
		makeReturns("BBB", corrDates, []float64{0.01, 0.02, -0.01, 0.03})...,
	)

	points := RollingCorr(returns, 3)
	for _, p := range points {
		assert.Nil(t, p.Corr)
	}
}
