package symbols

import (
	"sort"
	"strings"

	"StockPulse/internal/domain/models"
)

// MaxResults caps Search output.
const MaxResults = 10

// DefaultSymbols are the major US indices followed by popular large caps.
// For stocks Type holds the sector.
var DefaultSymbols = []models.SymbolInfo{
	{Symbol: "^GSPC", Name: "S&P 500", Type: "Index"},
	{Symbol: "^DJI", Name: "Dow Jones Industrial Average", Type: "Index"},
	{Symbol: "^IXIC", Name: "NASDAQ Composite", Type: "Index"},
	{Symbol: "^RUT", Name: "Russell 2000", Type: "Index"},
	{Symbol: "^VIX", Name: "CBOE Volatility Index", Type: "Index"},

	{Symbol: "AAPL", Name: "Apple Inc.", Type: "Technology"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "Technology"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "Technology"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Type: "Consumer Cyclical"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Type: "Technology"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Type: "Automotive"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Type: "Technology"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Type: "Financial Services"},
	{Symbol: "V", Name: "Visa Inc.", Type: "Financial Services"},
	{Symbol: "WMT", Name: "Walmart Inc.", Type: "Consumer Defensive"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Type: "Healthcare"},
	{Symbol: "PG", Name: "Procter & Gamble Co.", Type: "Consumer Defensive"},
	{Symbol: "MA", Name: "Mastercard Inc.", Type: "Financial Services"},
	{Symbol: "HD", Name: "Home Depot Inc.", Type: "Consumer Cyclical"},
	{Symbol: "BAC", Name: "Bank of America Corp.", Type: "Financial Services"},
}

// Catalog is a static, read-only symbol list.
type Catalog struct {
	items []models.SymbolInfo
}

func NewCatalog(items []models.SymbolInfo) *Catalog {
	if items == nil {
		items = DefaultSymbols
	}
	return &Catalog{items: items}
}

// Search matches query case-insensitively against symbol and name, or any
// query word against the name. Results are ranked exact, then prefix, then
// the rest, keeping catalog order within a rank.
func (c *Catalog) Search(query string) []models.SymbolInfo {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.SymbolInfo{}
	}
	words := strings.Fields(q)

	type hit struct {
		item models.SymbolInfo
		rank int
	}
	hits := make([]hit, 0, len(c.items))
	for _, it := range c.items {
		sym, name := strings.ToLower(it.Symbol), strings.ToLower(it.Name)
		if !matches(q, words, sym, name) {
			continue
		}
		hits = append(hits, hit{item: it, rank: rank(q, sym, name)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })

	out := make([]models.SymbolInfo, 0, min(len(hits), MaxResults))
	for i := 0; i < len(hits) && i < MaxResults; i++ {
		out = append(out, hits[i].item)
	}
	return out
}

func matches(q string, words []string, sym, name string) bool {
	if strings.Contains(sym, q) || strings.Contains(name, q) {
		return true
	}
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

func rank(q, sym, name string) int {
	switch {
	case sym == q || name == q:
		return 0
	case strings.HasPrefix(sym, q) || strings.HasPrefix(name, q):
		return 1
	default:
		return 2
	}
}
