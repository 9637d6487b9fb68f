package main

import (
	"time"

	"github.com/akordas/tidemark/internal/clients/yahoo"
	"github.com/akordas/tidemark/internal/config"
	"github.com/akordas/tidemark/internal/database"
	"github.com/akordas/tidemark/internal/modules/analytics"
	"github.com/akordas/tidemark/internal/modules/enrich"
	"github.com/akordas/tidemark/internal/modules/indices"
	"github.com/akordas/tidemark/internal/modules/linker"
	"github.com/akordas/tidemark/internal/modules/market"
	"github.com/akordas/tidemark/internal/modules/news"
	"github.com/akordas/tidemark/internal/modules/report"
)

// app wires the database, repositories and services for one command run.
type app struct {
	db *database.DB

	market    *market.Service
	indices   *indices.Service
	news      *news.Service
	enrich    *enrich.Service
	linker    *linker.Linker
	analytics *analytics.Service
	report    *report.Service
}

// newApp opens the database, applies the schema and builds the full
// service graph.
func newApp() (*app, error) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	conn := db.Conn()
	fetchDelay := time.Duration(cfg.FetchDelay * float64(time.Second))

	marketRepo := market.NewRepository(conn, log)
	indicesRepo := indices.NewRepository(conn, log)
	newsRepo := news.NewRepository(conn, log)
	linksRepo := linker.NewRepository(conn, log)
	runsRepo := analytics.NewRunRepository(conn, log)

	var extractor enrich.Extractor
	if cfg.AnthropicAPIKey != "" {
		extractor = enrich.NewAnthropicExtractor(cfg.AnthropicAPIKey)
	} else {
		extractor = enrich.NewHeuristicExtractor()
	}

	return &app{
		db: db,
		market: market.NewService(
			marketRepo,
			yahoo.NewClient(log),
			config.WatchlistTickers,
			fetchDelay,
			log,
		),
		indices: indices.NewService(
			indicesRepo,
			indices.NewScraper(fetchDelay, log),
			config.ScraperDisabled,
			log,
		),
		news:   news.NewService(newsRepo, news.NewFetcher(log), cfg.Feeds, log),
		enrich: enrich.NewService(newsRepo, extractor, log),
		linker: linker.New(conn, config.AssetGroups, config.IndexKeywordGroups, log),
		analytics: analytics.NewService(
			marketRepo,
			newsRepo,
			linksRepo,
			runsRepo,
			config.WatchlistTickers,
			log,
		),
		report: report.NewService(marketRepo, indicesRepo, newsRepo, cfg.DocsDir, log),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database")
	}
}
