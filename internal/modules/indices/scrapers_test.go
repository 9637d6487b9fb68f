package indices

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseHarpex_ValueAndEmbeddedDate(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<div class="harpex-value">1,234.56</div>
		<span>Updated 2026-02-13</span>
	</body></html>`)

	point, err := ParseHarpex(doc, "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "HARPEX", point.Code)
	assert.Equal(t, 1234.56, point.Value)
	assert.Equal(t, "2026-02-13", point.Date)
}

func TestParseHarpex_FallsBackToToday(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="HarpexIndex">987.6</div></body></html>`)

	point, err := ParseHarpex(doc, "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, 987.6, point.Value)
	assert.Equal(t, "2026-02-14", point.Date)
}

func TestParseHarpex_NoElement(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>nothing here</p></body></html>`)

	_, err := ParseHarpex(doc, "2026-02-14")
	assert.Error(t, err)
}

func TestParseWCI_FirstDecimal(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<p>The composite index stands at 3,456.78 per 40ft container.</p>
	</body></html>`)

	point, err := ParseWCI(doc, "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "WCI", point.Code)
	assert.Equal(t, 3456.78, point.Value)
	assert.Equal(t, "2026-02-14", point.Date)
}

func TestParseSCFI_LabelledValue(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<td>SCFI</td><td>2,510.82</td>
	</body></html>`)

	point, err := ParseSCFI(doc, "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "SCFI", point.Code)
	assert.Equal(t, 2510.82, point.Value)
}

func TestParseSCFI_NotFound(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>no index today</p></body></html>`)

	_, err := ParseSCFI(doc, "2026-02-14")
	assert.Error(t, err)
}

func TestParseFBX_LabelledValue(t *testing.T) {
	doc := docFromHTML(t, `<html><body><h2>FBX: 2,345.60</h2></body></html>`)

	point, err := ParseFBX(doc, "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "FBX", point.Code)
	assert.Equal(t, 2345.60, point.Value)
}

func TestParseValue_StripsThousandsSeparators(t *testing.T) {
	v, err := parseValue(" 12,345.67 ")
	require.NoError(t, err)
	assert.Equal(t, 12345.67, v)
}
