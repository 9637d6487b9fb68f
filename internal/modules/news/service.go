package news

import (
	"github.com/rs/zerolog"
)

// Service refreshes news from the configured feeds.
type Service struct {
	repo    *Repository
	fetcher *Fetcher
	feeds   []string
	log     zerolog.Logger
}

// NewService creates a new news service.
func NewService(repo *Repository, fetcher *Fetcher, feeds []string, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		feeds:   feeds,
		log:     log.With().Str("service", "news").Logger(),
	}
}

// Refresh fetches every configured feed and upserts its items by URL.
// Feed failures are logged and skipped; only database errors propagate.
// Returns the total number of newly inserted articles.
func (s *Service) Refresh() (int, error) {
	totalNew := 0
	for _, feed := range s.feeds {
		items, err := s.fetcher.Fetch(feed)
		if err != nil {
			s.log.Error().Err(err).Str("feed", feed).Msg("Failed to fetch feed")
			continue
		}
		if len(items) == 0 {
			s.log.Info().Str("feed", feed).Msg("No articles fetched")
			continue
		}

		inserted, err := s.repo.Upsert(DedupeByURL(items))
		if err != nil {
			return totalNew, err
		}
		s.log.Info().Str("feed", feed).Int("new", inserted).Msg("Feed refreshed")
		totalNew += inserted
	}

	s.log.Info().Int("total_new", totalNew).Msg("News refresh complete")
	return totalNew, nil
}
