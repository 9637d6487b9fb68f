package enrich

import (
	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/modules/news"
)

// DefaultLimit caps how many items one enrichment pass processes.
const DefaultLimit = 200

// Service enriches stored news with derived summaries and entities.
type Service struct {
	repo      *news.Repository
	extractor Extractor
	log       zerolog.Logger
}

// NewService creates a new enrichment service.
func NewService(repo *news.Repository, extractor Extractor, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		extractor: extractor,
		log:       log.With().Str("service", "enrich").Logger(),
	}
}

// Enrich processes up to limit unenriched items, newest first. Extraction
// failures are logged and the item is skipped; database errors propagate.
// Returns the number of items enriched.
func (s *Service) Enrich(limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	items, err := s.repo.PendingEnrichment(limit)
	if err != nil {
		return 0, err
	}

	enriched := 0
	for _, item := range items {
		extraction, err := s.extractor.Extract(item.Title, item.Summary)
		if err != nil {
			s.log.Warn().Err(err).Str("url", item.URL).Msg("Extraction failed")
			continue
		}

		entities := make([]news.Entity, 0, len(extraction.Entities))
		for _, e := range extraction.Entities {
			entities = append(entities, news.Entity{
				NewsID: item.ID,
				Type:   e.Type,
				Value:  e.Value,
				Score:  e.Score,
			})
		}

		if err := s.repo.SaveEnrichment(item.ID, extraction.Summary, entities); err != nil {
			return enriched, err
		}
		enriched++
	}

	s.log.Info().Int("enriched", enriched).Int("pending", len(items)).Msg("Enrichment pass complete")
	return enriched, nil
}
