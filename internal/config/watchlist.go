package config

// WatchlistTickers is the fixed set of tracked shipping-sector equities.
var WatchlistTickers = []string{
	"ZIM",
	"MATX",
	"SBLK",
	"GOGL",
	"GNK",
	"FRO",
	"DHT",
	"EURN",
	"GSL",
	"DAC",
	"CMRE",
	"TRMD",
	"BDRY",
	"BOAT",
}

// IndexCodes lists the tracked freight-rate indices.
var IndexCodes = []string{
	"BDIY",
	"HARPEX",
	"SCFI",
	"WCI",
	"FBX",
}

// DefaultFeeds are the RSS/Atom feeds polled by the news fetcher.
// Extra feeds can be appended via TIDEMARK_EXTRA_FEEDS.
var DefaultFeeds = []string{
	"https://example.com/feed1",
	"https://example.com/feed2",
}

// AssetGroup maps a canonical company name to its ticker aliases.
// The group name and every alias all count as link keywords.
type AssetGroup struct {
	Name    string
	Tickers []string
}

// AssetGroups is the ordered keyword configuration for news-to-asset linking.
var AssetGroups = []AssetGroup{
	{Name: "MAERSK", Tickers: []string{"MAERSK-B.CO"}},
	{Name: "ZIM", Tickers: []string{"ZIM"}},
	{Name: "HAPAG", Tickers: []string{"HLAG.DE", "HLAG.F"}},
	{Name: "COSCO", Tickers: []string{"1919.HK"}},
}

// IndexKeywordGroup maps an index code to the phrases that identify it in text.
type IndexKeywordGroup struct {
	Code     string
	Keywords []string
}

// IndexKeywordGroups is the ordered keyword configuration for news-to-index linking.
var IndexKeywordGroups = []IndexKeywordGroup{
	{Code: "SCFI", Keywords: []string{"SCFI"}},
	{Code: "HARPEX", Keywords: []string{"HARPEX"}},
	{Code: "WCI", Keywords: []string{"Drewry", "World Container Index"}},
	{Code: "FBX", Keywords: []string{"FBX", "Freightos"}},
}
