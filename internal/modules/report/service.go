package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/akordas/tidemark/internal/modules/indices"
	"github.com/akordas/tidemark/internal/modules/market"
	"github.com/akordas/tidemark/internal/modules/news"
)

// maPeriod is the moving-average overlay length on price charts.
const maPeriod = 20

// newsPageLimit caps the rows on the generated news page.
const newsPageLimit = 50

// Service builds the static report site. Every build regenerates the whole
// docs tree from current database state; there is no incremental diffing.
type Service struct {
	market   *market.Repository
	indices  *indices.Repository
	newsRepo *news.Repository
	docsDir  string
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a new report service writing into docsDir.
func NewService(
	marketRepo *market.Repository,
	indicesRepo *indices.Repository,
	newsRepo *news.Repository,
	docsDir string,
	log zerolog.Logger,
) *Service {
	return &Service{
		market:   marketRepo,
		indices:  indicesRepo,
		newsRepo: newsRepo,
		docsDir:  docsDir,
		log:      log.With().Str("service", "report").Logger(),
		now:      time.Now,
	}
}

// chartLink is one landing-page entry.
type chartLink struct {
	File  string
	Label string
}

// BuildSite regenerates the site and returns the path of index.html.
func (s *Service) BuildSite() (string, error) {
	assetsDir := filepath.Join(s.docsDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create site directory: %w", err)
	}

	priceCharts, err := s.buildPriceCharts(assetsDir)
	if err != nil {
		return "", err
	}
	indexCharts, err := s.buildIndexCharts(assetsDir)
	if err != nil {
		return "", err
	}
	if err := s.buildNewsPage(assetsDir); err != nil {
		return "", err
	}
	if err := s.buildInsightsPage(assetsDir); err != nil {
		return "", err
	}

	stylePath := filepath.Join(s.docsDir, "style.css")
	if err := os.WriteFile(stylePath, []byte(styleCSS), 0o644); err != nil {
		return "", fmt.Errorf("failed to write stylesheet: %w", err)
	}

	indexPath := filepath.Join(s.docsDir, "index.html")
	err = renderToFile(indexPath, indexPageTmpl, struct {
		PriceCharts []chartLink
		IndexCharts []chartLink
	}{priceCharts, indexCharts})
	if err != nil {
		return "", err
	}

	s.log.Info().
		Int("price_charts", len(priceCharts)).
		Int("index_charts", len(indexCharts)).
		Str("path", indexPath).
		Msg("Site built")
	return indexPath, nil
}

// chartPage is the data fed to chartPageTmpl. Data and Layout hold
// pre-marshalled Plotly JSON.
type chartPage struct {
	Title  string
	Data   template.JS
	Layout template.JS
}

// renderChart writes one Plotly page with the given traces and layout.
func renderChart(path, title string, traces []map[string]interface{}, layout map[string]interface{}) error {
	data, err := json.Marshal(traces)
	if err != nil {
		return fmt.Errorf("failed to marshal chart data for %s: %w", title, err)
	}
	lay, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to marshal chart layout for %s: %w", title, err)
	}
	return renderToFile(path, chartPageTmpl, chartPage{
		Title:  title,
		Data:   template.JS(data),
		Layout: template.JS(lay),
	})
}

// renderToFile executes tmpl into a freshly truncated file.
func renderToFile(path string, tmpl *template.Template, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

// buildPriceCharts writes one candlestick page per ticker with price data,
// overlaid with a 20-day simple moving average.
func (s *Service) buildPriceCharts(assetsDir string) ([]chartLink, error) {
	bars, err := s.market.OHLCSeries()
	if err != nil {
		return nil, err
	}

	byTicker := make(map[string][]market.PriceBar)
	order := []string{}
	for _, bar := range bars {
		if _, ok := byTicker[bar.Ticker]; !ok {
			order = append(order, bar.Ticker)
		}
		byTicker[bar.Ticker] = append(byTicker[bar.Ticker], bar)
	}

	links := []chartLink{}
	for _, ticker := range order {
		series := byTicker[ticker]
		file := "price_" + ticker + ".html"
		if err := s.writePriceChart(filepath.Join(assetsDir, file), ticker, series); err != nil {
			return nil, err
		}
		links = append(links, chartLink{File: file, Label: ticker})
	}
	return links, nil
}

func (s *Service) writePriceChart(path, ticker string, series []market.PriceBar) error {
	n := len(series)
	dates := make([]string, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	for i, bar := range series {
		dates[i] = bar.Date
		open[i] = bar.Open
		high[i] = bar.High
		low[i] = bar.Low
		closes[i] = bar.Close
	}

	traces := []map[string]interface{}{{
		"type":  "candlestick",
		"name":  ticker,
		"x":     dates,
		"open":  open,
		"high":  high,
		"low":   low,
		"close": closes,
	}}

	if n >= maPeriod {
		sma := talib.Sma(closes, maPeriod)
		ma := make([]interface{}, n)
		for i := range sma {
			if i < maPeriod-1 {
				ma[i] = nil
			} else {
				ma[i] = sma[i]
			}
		}
		traces = append(traces, map[string]interface{}{
			"type": "scatter",
			"mode": "lines",
			"name": fmt.Sprintf("MA%d", maPeriod),
			"x":    dates,
			"y":    ma,
		})
	}

	layout := map[string]interface{}{
		"title":  ticker,
		"xaxis":  map[string]interface{}{"rangeslider": map[string]interface{}{"visible": false}},
		"margin": map[string]interface{}{"t": 40},
	}
	return renderChart(path, ticker, traces, layout)
}

// buildIndexCharts writes one line-chart page per freight index with data.
func (s *Service) buildIndexCharts(assetsDir string) ([]chartLink, error) {
	points, err := s.indices.Series()
	if err != nil {
		return nil, err
	}

	byCode := make(map[string][]indices.Point)
	order := []string{}
	for _, p := range points {
		if _, ok := byCode[p.Code]; !ok {
			order = append(order, p.Code)
		}
		byCode[p.Code] = append(byCode[p.Code], p)
	}

	links := []chartLink{}
	for _, code := range order {
		series := byCode[code]
		dates := make([]string, len(series))
		values := make([]float64, len(series))
		for i, p := range series {
			dates[i] = p.Date
			values[i] = p.Value
		}

		traces := []map[string]interface{}{{
			"type": "scatter",
			"mode": "lines",
			"name": code,
			"x":    dates,
			"y":    values,
		}}
		layout := map[string]interface{}{
			"title":  code,
			"margin": map[string]interface{}{"t": 40},
		}

		file := "index_" + code + ".html"
		if err := renderChart(filepath.Join(assetsDir, file), code, traces, layout); err != nil {
			return nil, err
		}
		links = append(links, chartLink{File: file, Label: code})
	}
	return links, nil
}

// newsRow is one rendered row on the news page.
type newsRow struct {
	Date   string
	Source string
	Title  string
	URL    string
	Text   string
}

// buildNewsPage renders the latest items, preferring the derived summary
// over the raw feed summary.
func (s *Service) buildNewsPage(assetsDir string) error {
	items, err := s.newsRepo.Latest(newsPageLimit)
	if err != nil {
		return err
	}

	rows := make([]newsRow, 0, len(items))
	for _, item := range items {
		date := ""
		if item.PublishedAt != nil {
			date = item.PublishedAt.UTC().Format("2006-01-02")
		}
		text := item.SummaryAI
		if text == "" {
			text = item.Summary
		}
		rows = append(rows, newsRow{
			Date:   date,
			Source: item.Source,
			Title:  item.Title,
			URL:    item.URL,
			Text:   text,
		})
	}

	return renderToFile(filepath.Join(assetsDir, "news.html"), newsPageTmpl, struct {
		Rows []newsRow
	}{rows})
}
