// Package main is the entry point for the tidemark maritime market data
// tool. It ingests shipping equity prices, freight indices and industry
// news into a local SQLite database, links news to watchlist assets, and
// publishes a static report site.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/akordas/tidemark/internal/config"
	"github.com/akordas/tidemark/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tidemark",
		Short: "Maritime shipping market data and news tracker",
		Long: `Tidemark ingests shipping equity prices, freight indices and industry
news into a local SQLite database, links news to watchlist assets via
keyword matching, and publishes analytics plus a static report site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log = logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Pretty: true,
			})
			return nil
		},
	}

	rootCmd.AddCommand(
		newRefreshCmd(),
		newImportIndicesCmd(),
		newBuildSiteCmd(),
		newOpenSiteCmd(),
		newServeCmd(),
		newAnalyzeCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tidemark version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tidemark", version)
		},
	}
}
