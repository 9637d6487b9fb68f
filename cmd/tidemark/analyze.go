package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akordas/tidemark/internal/config"
	"github.com/akordas/tidemark/internal/modules/analytics"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run analytics over stored data and print CSV to stdout",
	}
	cmd.AddCommand(
		newReturnsCmd(),
		newNewsIntensityCmd(),
		newRollingCorrCmd(),
		newEventStudyCmd(),
	)
	return cmd
}

// writeCSV prints a header plus rows to stdout, or "No data found" when
// there are no rows.
func writeCSV(header []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Println("No data found")
		return nil
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// formatFloat renders a float with enough precision for downstream tools.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// formatNullable renders an optional float, empty when nil.
func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// tickersOrWatchlist returns args when given, the full watchlist otherwise.
func tickersOrWatchlist(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return config.WatchlistTickers
}

func newReturnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "returns [tickers...]",
		Short: "Daily simple returns per ticker",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			returns, err := a.analytics.DailyReturns(tickersOrWatchlist(args))
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(returns))
			for _, r := range returns {
				rows = append(rows, []string{r.Date, r.Ticker, formatFloat(r.Ret)})
			}
			return writeCSV([]string{"date", "ticker", "ret"}, rows)
		},
	}
}

func newNewsIntensityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news-intensity",
		Short: "Daily news count and mean summary length",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			points, err := a.analytics.NewsIntensity()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{
					p.Date,
					strconv.Itoa(p.NewsCount),
					formatFloat(p.AvgSentiment),
				})
			}
			return writeCSV([]string{"date", "news_count", "avg_sentiment"}, rows)
		},
	}
}

func newRollingCorrCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "rolling-corr [tickers...]",
		Short: "Rolling pairwise return correlations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			returns, err := a.analytics.DailyReturns(tickersOrWatchlist(args))
			if err != nil {
				return err
			}
			points := analytics.RollingCorr(returns, window)

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{p.Date, p.Pair, formatNullable(p.Corr)})
			}
			return writeCSV([]string{"date", "pair", "corr"}, rows)
		},
	}

	cmd.Flags().IntVar(&window, "window", analytics.DefaultCorrWindow, "Trailing window length in trading days")
	return cmd
}

func newEventStudyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event-study TICKER",
		Short: "Abnormal returns around linked news events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			points, err := a.analytics.EventStudy(args[0], analytics.DefaultEventWindow)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{
					strconv.Itoa(p.RelDay),
					formatFloat(p.AbretMean),
					formatNullable(p.AbretStd),
					strconv.Itoa(p.NEvents),
				})
			}
			return writeCSV([]string{"rel_day", "abret_mean", "abret_std", "n_events"}, rows)
		},
	}
}
