package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

// manualIndicesCSV is the default drop location for hand-collected index
// values, relative to the data directory.
const manualIndicesCSV = "indices_manual.csv"

func newRefreshCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh prices, indices and news, then enrich and relink",
		Long: `Runs the full ingestion pipeline in order: watchlist prices, freight
indices (manual CSV plus scrapers), RSS news, enrichment, and news
linking. External fetch failures are logged and skipped; only database
errors abort the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.market.RefreshPrices(period); err != nil {
				return err
			}
			csvPath := filepath.Join(cfg.DataDir, manualIndicesCSV)
			if err := a.indices.Refresh(csvPath); err != nil {
				return err
			}
			if _, err := a.news.Refresh(); err != nil {
				return err
			}
			if _, err := a.enrich.Enrich(0); err != nil {
				return err
			}
			if err := a.linker.Relink(); err != nil {
				return err
			}

			log.Info().Msg("Refresh complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "Price history period (1y, 2y, 5y, 10y, max)")
	return cmd
}

func newImportIndicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-indices [path]",
		Short: "Import freight index points from a CSV file",
		Long: `Imports index points from a CSV with columns date, index_code, value
and optional source. Defaults to indices_manual.csv in the data
directory. A missing file is not an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			path := filepath.Join(cfg.DataDir, manualIndicesCSV)
			if len(args) > 0 {
				path = args[0]
			}
			return a.indices.ImportCSV(path)
		},
	}
}
