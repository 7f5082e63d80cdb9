// Package scanner implements the trade scoring and ranking pipeline:
// per-row classification, per-ticker aggregation, and top-N selection.
// Every stage is a pure function of its inputs; the pipeline holds no
// state between runs.
package scanner

import (
	"strings"

	"github.com/ternarybob/omen/internal/models"
)

// stealthRanks orders spread descriptors by buy-side aggressiveness.
// Rank 1 is the most aggressive; anything outside the table gets the
// unranked sentinel and sorts last.
var stealthRanks = map[string]int{
	"above ask": 1,
	"askish":    2,
	"at bid":    3,
	"bidish":    4,
}

// StealthRank returns the aggressiveness tier for a spread descriptor.
// Unknown or empty text maps to models.StealthUnranked.
func StealthRank(spread string) int {
	if rank, ok := stealthRanks[strings.ToLower(strings.TrimSpace(spread))]; ok {
		return rank
	}
	return models.StealthUnranked
}

// SentimentFromSpread derives the per-row directional read from spread
// keywords. "above ask" must match before the bare "ask" substring.
// Empty or unknown text is Neutral.
func SentimentFromSpread(spread string) models.Sentiment {
	s := strings.ToLower(strings.TrimSpace(spread))
	switch {
	case s == "":
		return models.SentimentNeutral
	case strings.Contains(s, "above ask"):
		return models.SentimentAggressiveBullish
	case strings.Contains(s, "at bid"):
		return models.SentimentAggressiveBearish
	case strings.Contains(s, "bidish"):
		return models.SentimentBearish
	case strings.Contains(s, "ask"):
		return models.SentimentBullish
	default:
		return models.SentimentNeutral
	}
}

// IsSweep reports whether the flags text marks a sweep execution.
func IsSweep(flags string) bool {
	return strings.Contains(strings.ToLower(flags), "sweep")
}

// IsBlock reports whether the flags text marks a block trade.
func IsBlock(flags string) bool {
	return strings.Contains(strings.ToLower(flags), "block")
}

// Classify populates the derived fields of every record in place.
// Repeater detection needs the whole row set, so it runs as a pre-pass:
// a contract traded at least twice flags all of its rows.
func Classify(rows []models.TradeRecord) {
	contractCounts := make(map[string]int, len(rows))
	for i := range rows {
		contractCounts[rows[i].ContractKey()]++
	}

	for i := range rows {
		r := &rows[i]
		r.StealthRank = StealthRank(r.Spread)
		r.Sentiment = SentimentFromSpread(r.Spread)
		r.IsSweep = IsSweep(r.Flags)
		r.IsBlock = IsBlock(r.Flags)
		r.IsLarge = r.Premium >= models.LargeTradeThreshold
		r.IsRepeater = contractCounts[r.ContractKey()] >= 2
		r.IsHighConviction = r.IsLarge && r.StealthRank <= 2 && r.IsRepeater
	}
}
