// Package ingest reads uploaded options-flow exports into trade records.
// Header resolution is alias-driven so exports from different vendors map
// onto the same canonical columns, and all per-cell parsing is fail-soft:
// a bad premium becomes 0, a bad price or date becomes nil. Only missing
// required columns or an unreadable file abort the run.
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/omen/internal/models"
)

// ParsePremium converts free-text premium amounts ("$1.2M", "350K",
// "500,000") into a numeric value. Unparseable input yields 0 rather
// than an error; missing premium must never abort a scan.
func ParsePremium(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "m")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}

// ParsePrice parses a stock price cell. Unlike premiums, an unparseable
// price is nil, not 0: a zero price would silently land the ticker in the
// small-cap bucket.
func ParsePrice(text string) *float64 {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &value
}

// ParseNumber parses optional numeric cells (trade size, open interest).
func ParseNumber(text string) *float64 {
	return ParsePrice(text)
}

// NormalizeSymbol upper-cases and trims a ticker symbol. Grouping,
// filtering and allowlist matching all operate on the normalized form.
func NormalizeSymbol(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}

// expirationLayouts are tried in order when parsing expiration cells.
var expirationLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"Jan 2, 2006",
	"02-Jan-2006",
}

// ParseExpiration parses an expiration date cell, nil on failure.
func ParseExpiration(text string) *time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseContractType maps call/put cells onto the contract enum,
// case-insensitively. Single-letter forms ("C", "P") are accepted.
func ParseContractType(text string) (models.ContractType, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "CALL", "CALLS", "C":
		return models.ContractCall, true
	case "PUT", "PUTS", "P":
		return models.ContractPut, true
	}
	return "", false
}
