package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/omen/internal/models"
)

func TestApplyScope(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	near := now.AddDate(0, 0, 30)
	far := now.AddDate(0, 0, 90)

	rows := []models.TradeRecord{
		{Symbol: "SMALL", StockLast: fptr(12.0), Expiration: &near, Row: 0},
		{Symbol: "MID", StockLast: fptr(55.0), Expiration: &far, Row: 1},
		{Symbol: "LARGE", StockLast: fptr(250.0), Expiration: &far, Row: 2},
		{Symbol: "NOPRICE", StockLast: nil, Expiration: &near, Row: 3},
		{Symbol: "EDGE20", StockLast: fptr(20.0), Expiration: &near, Row: 4},
		{Symbol: "EDGE100", StockLast: fptr(100.0), Expiration: &near, Row: 5},
	}

	symbols := func(filtered []models.TradeRecord) []string {
		out := make([]string, len(filtered))
		for i, r := range filtered {
			out[i] = r.Symbol
		}
		return out
	}

	tests := []struct {
		name string
		opts models.ScanOptions
		want []string
	}{
		{
			name: "full market keeps everything",
			opts: models.ScanOptions{Scope: models.ScopeFullMarket, Now: now},
			want: []string{"SMALL", "MID", "LARGE", "NOPRICE", "EDGE20", "EDGE100"},
		},
		{
			name: "small cap excludes boundary and priceless rows",
			opts: models.ScanOptions{Scope: models.ScopeSmallCap, Now: now},
			want: []string{"SMALL"},
		},
		{
			name: "mid cap includes both boundaries",
			opts: models.ScanOptions{Scope: models.ScopeMidCap, Now: now},
			want: []string{"MID", "EDGE20", "EDGE100"},
		},
		{
			name: "large cap",
			opts: models.ScanOptions{Scope: models.ScopeLargeCap, Now: now},
			want: []string{"LARGE"},
		},
		{
			name: "long term keeps expirations past the horizon",
			opts: models.ScanOptions{Scope: models.ScopeLongTerm, Now: now},
			want: []string{"MID", "LARGE"},
		},
		{
			name: "targeted matches allowlist case-insensitively",
			opts: models.ScanOptions{Scope: models.ScopeTargeted, Allowlist: []string{"mid", " Large "}, Now: now},
			want: []string{"MID", "LARGE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbols(ApplyScope(rows, tt.opts)))
		})
	}
}

func TestApplyScopeLongTermHorizon(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exact := now.AddDate(0, 0, 60)
	rows := []models.TradeRecord{
		{Symbol: "EXACT", Expiration: &exact, Row: 0},
		{Symbol: "NODATE", Expiration: nil, Row: 1},
	}

	// Exactly at the horizon is in scope; a missing expiration never is.
	filtered := ApplyScope(rows, models.ScanOptions{Scope: models.ScopeLongTerm, Now: now})
	require.Len(t, filtered, 1)
	assert.Equal(t, "EXACT", filtered[0].Symbol)

	// A custom horizon moves the boundary.
	filtered = ApplyScope(rows, models.ScanOptions{
		Scope: models.ScopeLongTerm, Now: now, LongTermHorizonDays: 90,
	})
	assert.Empty(t, filtered)
}

func TestRankTickers(t *testing.T) {
	aggregates := map[string]*models.TickerAggregate{
		"AAA": {Symbol: "AAA", TotalPremium: 3_000_000, FirstRow: 5},
		"BBB": {Symbol: "BBB", TotalPremium: 5_000_000, FirstRow: 2},
		"CCC": {Symbol: "CCC", TotalPremium: 3_000_000, FirstRow: 1},
		"DDD": {Symbol: "DDD", TotalPremium: 1_000_000, FirstRow: 0},
	}

	ranked := RankTickers(aggregates, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "BBB", ranked[0].Symbol)
	// Equal premium resolves by first-seen row order.
	assert.Equal(t, "CCC", ranked[1].Symbol)
	assert.Equal(t, "AAA", ranked[2].Symbol)
}

func TestRankTickersDeterministic(t *testing.T) {
	aggregates := map[string]*models.TickerAggregate{
		"A": {Symbol: "A", TotalPremium: 100, FirstRow: 0},
		"B": {Symbol: "B", TotalPremium: 100, FirstRow: 1},
		"C": {Symbol: "C", TotalPremium: 100, FirstRow: 2},
	}

	// Map iteration order must not leak into the ranking.
	first := RankTickers(aggregates, 0)
	for i := 0; i < 20; i++ {
		again := RankTickers(aggregates, 0)
		for j := range first {
			assert.Equal(t, first[j].Symbol, again[j].Symbol)
		}
	}
	assert.Equal(t, "A", first[0].Symbol)
}

func TestPriorityScore(t *testing.T) {
	rank1Small := &models.TradeRecord{StealthRank: 1, Premium: 10_000}
	rank2Huge := &models.TradeRecord{StealthRank: 2, Premium: 900_000}

	// A more aggressive tier always beats a bigger premium in a lower tier.
	assert.Less(t, PriorityScore(rank1Small), PriorityScore(rank2Huge))

	rank1Big := &models.TradeRecord{StealthRank: 1, Premium: 500_000}
	assert.Less(t, PriorityScore(rank1Big), PriorityScore(rank1Small))
}

func TestSelectTopTrades(t *testing.T) {
	rows := []models.TradeRecord{
		{Strike: "A", StealthRank: 3, Premium: 900_000, Row: 0},
		{Strike: "B", StealthRank: 1, Premium: 100_000, Row: 1},
		{Strike: "C", StealthRank: 1, Premium: 400_000, Row: 2},
		{Strike: "D", StealthRank: models.StealthUnranked, Premium: 5_000_000, Row: 3},
		{Strike: "E", StealthRank: 1, Premium: 400_000, Row: 4},
	}

	selected := SelectTopTrades(rows, 3)
	require.Len(t, selected, 3)
	assert.Equal(t, "C", selected[0].Strike)
	// Equal rank and premium falls back to original row order.
	assert.Equal(t, "E", selected[1].Strike)
	assert.Equal(t, "B", selected[2].Strike)
}

func TestSelectTopTradesUnrankedLast(t *testing.T) {
	rows := []models.TradeRecord{
		{Strike: "A", StealthRank: models.StealthUnranked, Premium: 9_000_000, Row: 0},
		{Strike: "B", StealthRank: 4, Premium: 1_000, Row: 1},
	}

	selected := SelectTopTrades(rows, 0)
	require.Len(t, selected, 2)
	assert.Equal(t, "B", selected[0].Strike)
	assert.Equal(t, "A", selected[1].Strike)
}

func TestTradeMarker(t *testing.T) {
	assert.Equal(t, "Top Pick", TradeMarker(0))
	assert.Equal(t, "Runner Up", TradeMarker(1))
	assert.Equal(t, "Third", TradeMarker(2))
}
