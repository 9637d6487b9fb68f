package indices

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const scraperUserAgent = "Mozilla/5.0 (compatible; TidemarkBot/0.1; +https://example.com)"

var (
	decimalPattern  = regexp.MustCompile(`([0-9]+(?:,[0-9]{3})*\.[0-9]+)`)
	scfiPattern     = regexp.MustCompile(`SCFI[^0-9]*([0-9]+(?:,[0-9]{3})*\.[0-9]+)`)
	fbxPattern      = regexp.MustCompile(`FBX[\s:]*([0-9,\.]+)`)
	isoDatePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	harpexClassAttr = regexp.MustCompile(`(?i)harpex`)
)

// Scraper fetches the latest value of one freight index from a public page.
// The selectors are brittle by nature; every scraper failure is treated as
// "no data", never as a fatal error.
type Scraper struct {
	client *http.Client
	delay  time.Duration
	log    zerolog.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewScraper creates a scraper with the fixed inter-request delay.
func NewScraper(delay time.Duration, log zerolog.Logger) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 15 * time.Second},
		delay:  delay,
		log:    log.With().Str("client", "index-scraper").Logger(),
		now:    time.Now,
	}
}

// fetchDocument sleeps the fixed delay, then fetches and parses url.
func (s *Scraper) fetchDocument(url string) (*goquery.Document, error) {
	time.Sleep(s.delay)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request for %s returned status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}

// today returns the current UTC date in YYYY-MM-DD.
func (s *Scraper) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// parseValue converts "1,234.56"-style text to a float.
func parseValue(text string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

// ScrapeHarpex scrapes the current HARPEX value from harperpetersen.com.
func (s *Scraper) ScrapeHarpex() (*Point, error) {
	doc, err := s.fetchDocument("https://www.harperpetersen.com/en/harpex")
	if err != nil {
		return nil, err
	}
	return ParseHarpex(doc, s.today())
}

// ParseHarpex extracts the HARPEX value and date from a parsed page.
func ParseHarpex(doc *goquery.Document, today string) (*Point, error) {
	var valueText string
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, ok := sel.Attr("class")
		if ok && harpexClassAttr.MatchString(class) {
			valueText = sel.Text()
			return false
		}
		return true
	})
	if valueText == "" {
		return nil, fmt.Errorf("HARPEX value element not found")
	}

	match := decimalPattern.FindString(valueText)
	if match == "" {
		match = strings.TrimSpace(valueText)
	}
	value, err := parseValue(match)
	if err != nil {
		return nil, fmt.Errorf("HARPEX parsing failed: %w", err)
	}

	date := today
	if d := isoDatePattern.FindString(doc.Text()); d != "" {
		date = d
	}

	return &Point{Code: "HARPEX", Date: date, Value: value, Source: "harperpetersen.com"}, nil
}

// ScrapeWCI scrapes the latest World Container Index value from drewry.co.uk.
func (s *Scraper) ScrapeWCI() (*Point, error) {
	doc, err := s.fetchDocument("https://www.drewry.co.uk/supply-chain-expertise/world-container-index-drewry")
	if err != nil {
		return nil, err
	}
	return ParseWCI(doc, s.today())
}

// ParseWCI extracts the first decimal number from the page text.
func ParseWCI(doc *goquery.Document, today string) (*Point, error) {
	match := decimalPattern.FindStringSubmatch(doc.Text())
	if match == nil {
		return nil, fmt.Errorf("WCI value not found")
	}
	value, err := parseValue(match[1])
	if err != nil {
		return nil, fmt.Errorf("WCI parsing failed: %w", err)
	}
	return &Point{Code: "WCI", Date: today, Value: value, Source: "drewry.co.uk"}, nil
}

// ScrapeSCFI scrapes the latest SCFI value from sse.net.cn.
func (s *Scraper) ScrapeSCFI() (*Point, error) {
	doc, err := s.fetchDocument("https://en.sse.net.cn/indices/")
	if err != nil {
		return nil, err
	}
	return ParseSCFI(doc, s.today())
}

// ParseSCFI extracts the number following an "SCFI" label in the page text.
func ParseSCFI(doc *goquery.Document, today string) (*Point, error) {
	match := scfiPattern.FindStringSubmatch(doc.Text())
	if match == nil {
		return nil, fmt.Errorf("SCFI value not found")
	}
	value, err := parseValue(match[1])
	if err != nil {
		return nil, fmt.Errorf("SCFI parsing failed: %w", err)
	}
	return &Point{Code: "SCFI", Date: today, Value: value, Source: "sse.net.cn"}, nil
}

// ScrapeFBX scrapes the latest Freightos Baltic Index value.
func (s *Scraper) ScrapeFBX() (*Point, error) {
	doc, err := s.fetchDocument("https://fbx.freightos.com")
	if err != nil {
		return nil, err
	}
	return ParseFBX(doc, s.today())
}

// ParseFBX extracts the number following an "FBX" label in the page text.
func ParseFBX(doc *goquery.Document, today string) (*Point, error) {
	label := fbxPattern.FindString(doc.Text())
	if label == "" {
		return nil, fmt.Errorf("FBX value not found")
	}
	match := decimalPattern.FindStringSubmatch(label)
	if match == nil {
		return nil, fmt.Errorf("FBX value not found")
	}
	value, err := parseValue(match[1])
	if err != nil {
		return nil, fmt.Errorf("FBX parsing failed: %w", err)
	}
	return &Point{Code: "FBX", Date: today, Value: value, Source: "fbx.freightos.com"}, nil
}
