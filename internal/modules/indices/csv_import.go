package indices

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// csv date formats accepted by the manual import, tried in order.
var csvDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// parseCSVDate returns the normalized YYYY-MM-DD form, or false when the
// value cannot be parsed.
func parseCSVDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range csvDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// ImportCSV reads index values from a CSV file with columns
// date,index_code,value,source and upserts them.
//
// A missing file is a logged no-op. A file without the expected columns is a
// logged error with no writes. Rows with empty or malformed fields are
// dropped. Only database errors propagate.
func (r *Repository) ImportCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Info().Str("path", path).Msg("CSV not found, skipping")
			return nil
		}
		return fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("Failed to parse CSV")
		return nil
	}
	if len(records) == 0 {
		r.log.Info().Str("path", path).Msg("CSV is empty")
		return nil
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, required := range []string{"date", "index_code", "value", "source"} {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		r.log.Error().Str("path", path).Strs("missing", missing).Msg("CSV missing columns")
		return nil
	}

	var points []Point
	for _, record := range records[1:] {
		point, ok := parseCSVRow(record, cols)
		if !ok {
			continue
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		r.log.Info().Str("path", path).Msg("No valid rows in CSV")
		return nil
	}

	if err := r.UpsertPoints(points); err != nil {
		return err
	}
	r.log.Info().Int("rows", len(points)).Str("path", path).Msg("Imported index points")
	return nil
}

// parseCSVRow validates one record; rows with any null or malformed field
// are rejected.
func parseCSVRow(record []string, cols map[string]int) (Point, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}

	rawDate, ok := field("date")
	if !ok {
		return Point{}, false
	}
	code, ok := field("index_code")
	if !ok {
		return Point{}, false
	}
	rawValue, ok := field("value")
	if !ok {
		return Point{}, false
	}
	source, ok := field("source")
	if !ok {
		return Point{}, false
	}

	date, ok := parseCSVDate(rawDate)
	if !ok {
		return Point{}, false
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return Point{}, false
	}

	return Point{Code: code, Date: date, Value: value, Source: source}, true
}
