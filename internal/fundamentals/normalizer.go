// Package fundamentals retrieves and normalizes scraped fundamentals data.
package fundamentals

import (
	"strconv"
	"strings"

	"stock-analyzer/internal/models"
)

// Normalize converts a raw scraped label->string table into a typed
// snapshot. Every field is parsed independently: a missing or malformed
// entry resolves to unknown (nil) for that field alone and never aborts
// parsing of the rest. An empty table yields an all-unknown snapshot.
func Normalize(raw map[string]string) models.FundamentalsSnapshot {
	return models.FundamentalsSnapshot{
		PERatio:        parseNumber(raw["P/E"]),
		ForwardPE:      parseNumber(raw["Forward P/E"]),
		PEGRatio:       parseNumber(raw["PEG"]),
		PSRatio:        parseNumber(raw["P/S"]),
		PBRatio:        parseNumber(raw["P/B"]),
		Beta:           parseNumber(raw["Beta"]),
		DividendYield:  parseNumber(raw["Dividend %"]),
		RSI:            parseNumber(raw["RSI (14)"]),
		SMA20:          parseNumber(raw["SMA20"]),
		SMA50:          parseNumber(raw["SMA50"]),
		SMA200:         parseNumber(raw["SMA200"]),
		Volatility:     raw["Volatility"],
		TargetPrice:    parseNumber(raw["Target Price"]),
		Recommendation: parseNumber(raw["Recom"]),
		ROE:            parseNumber(raw["ROE"]),
		ROA:            parseNumber(raw["ROA"]),
		ProfitMargin:   parseNumber(raw["Profit Margin"]),
		DebtEquity:     parseNumber(raw["Debt/Eq"]),
		EPSttm:         parseNumber(raw["EPS (ttm)"]),
		MarketCap:      raw["Market Cap"],
		PerfWeek:       parseNumber(raw["Perf Week"]),
		PerfMonth:      parseNumber(raw["Perf Month"]),
		PerfQuarter:    parseNumber(raw["Perf Quarter"]),
		PerfYear:       parseNumber(raw["Perf Year"]),
	}
}

// parseNumber reduces a raw display string to a decimal value. Thousands
// separators, percent signs, and B/M magnitude suffixes are stripped; only
// the first whitespace-separated token is considered. A literal "-", an
// empty string, or anything that still fails to parse resolves to nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}

	s = strings.NewReplacer(",", "", "%", "", "B", "", "M", "").Replace(s)
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" || s == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
