package indices

import (
	"github.com/rs/zerolog"
)

// SkipChecker reports whether a named scraper has been disabled.
type SkipChecker func(name string) bool

// Service orchestrates the manual CSV import and the index scrapers.
type Service struct {
	repo     *Repository
	scraper  *Scraper
	disabled SkipChecker
	log      zerolog.Logger
}

// NewService creates a new indices service.
func NewService(repo *Repository, scraper *Scraper, disabled SkipChecker, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		scraper:  scraper,
		disabled: disabled,
		log:      log.With().Str("service", "indices").Logger(),
	}
}

// ImportCSV imports index points from the manual CSV drop.
func (s *Service) ImportCSV(path string) error {
	return s.repo.ImportCSV(path)
}

// Refresh imports the manual CSV first, then attempts every scraper.
// Scraper failures are logged and never abort the pass; only database
// errors propagate.
func (s *Service) Refresh(csvPath string) error {
	if err := s.repo.ImportCSV(csvPath); err != nil {
		return err
	}

	scrapers := []struct {
		name  string
		fetch func() (*Point, error)
	}{
		{"harpex", s.scraper.ScrapeHarpex},
		{"wci", s.scraper.ScrapeWCI},
		{"scfi", s.scraper.ScrapeSCFI},
		{"fbx", s.scraper.ScrapeFBX},
	}

	for _, sc := range scrapers {
		if s.disabled != nil && s.disabled(sc.name) {
			s.log.Info().Str("scraper", sc.name).Msg("Scraper disabled via env")
			continue
		}

		point, err := sc.fetch()
		if err != nil {
			s.log.Warn().Err(err).Str("scraper", sc.name).Msg("Scraper failed")
			continue
		}

		if err := s.repo.UpsertPoints([]Point{*point}); err != nil {
			return err
		}
		s.log.Info().Str("scraper", sc.name).Str("date", point.Date).
			Float64("value", point.Value).Msg("Index point scraped")
	}

	return nil
}
