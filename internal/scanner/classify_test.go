package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/omen/internal/models"
)

func TestStealthRank(t *testing.T) {
	tests := []struct {
		spread string
		want   int
	}{
		{spread: "Above Ask", want: 1},
		{spread: "above ask", want: 1},
		{spread: "Askish", want: 2},
		{spread: "At Bid", want: 3},
		{spread: "Bidish", want: 4},
		{spread: "  bidish  ", want: 4},
		{spread: "Midpoint", want: models.StealthUnranked},
		{spread: "", want: models.StealthUnranked},
	}

	for _, tt := range tests {
		t.Run(tt.spread, func(t *testing.T) {
			assert.Equal(t, tt.want, StealthRank(tt.spread))
		})
	}
}

func TestSentimentFromSpread(t *testing.T) {
	tests := []struct {
		spread string
		want   models.Sentiment
	}{
		{spread: "Above Ask", want: models.SentimentAggressiveBullish},
		{spread: "above ask sweep", want: models.SentimentAggressiveBullish},
		{spread: "At Bid", want: models.SentimentAggressiveBearish},
		{spread: "Bidish", want: models.SentimentBearish},
		{spread: "Askish", want: models.SentimentBullish},
		{spread: "near the ask", want: models.SentimentBullish},
		{spread: "Midpoint", want: models.SentimentNeutral},
		{spread: "", want: models.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.spread, func(t *testing.T) {
			assert.Equal(t, tt.want, SentimentFromSpread(tt.spread))
		})
	}
}

func TestIsSweepIsBlock(t *testing.T) {
	assert.True(t, IsSweep("Sweep"))
	assert.True(t, IsSweep("Multi-Sweep"))
	assert.False(t, IsSweep("Block"))
	assert.True(t, IsBlock("Block Trade"))
	assert.False(t, IsBlock("Sweep"))
	assert.False(t, IsSweep(""))
}

func TestClassify(t *testing.T) {
	exp := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	rows := []models.TradeRecord{
		{Symbol: "AAPL", Strike: "190", ContractType: models.ContractCall, Expiration: &exp,
			Premium: 1_500_000, Spread: "Above Ask", Flags: "Sweep", Row: 0},
		{Symbol: "AAPL", Strike: "190", ContractType: models.ContractCall, Expiration: &exp,
			Premium: 800_000, Spread: "Askish", Flags: "Block", Row: 1},
		{Symbol: "TSLA", Strike: "300", ContractType: models.ContractPut, Expiration: &exp,
			Premium: 50_000, Spread: "At Bid", Flags: "", Row: 2},
	}

	Classify(rows)

	// Same contract traded twice flags both rows as repeaters.
	assert.True(t, rows[0].IsRepeater)
	assert.True(t, rows[1].IsRepeater)
	assert.False(t, rows[2].IsRepeater)

	// High conviction needs all three: large premium, aggressive fill,
	// repeated contract.
	assert.True(t, rows[0].IsLarge)
	assert.True(t, rows[0].IsHighConviction)
	assert.False(t, rows[1].IsLarge)
	assert.False(t, rows[1].IsHighConviction)
	assert.False(t, rows[2].IsHighConviction)

	assert.Equal(t, 1, rows[0].StealthRank)
	assert.Equal(t, models.SentimentAggressiveBullish, rows[0].Sentiment)
	assert.True(t, rows[0].IsSweep)
	assert.True(t, rows[1].IsBlock)
	assert.Equal(t, 3, rows[2].StealthRank)
}

func TestClassifyStealthRankDomain(t *testing.T) {
	// Every classified row lands in a known tier or the sentinel.
	spreads := []string{"Above Ask", "Askish", "At Bid", "Bidish", "weird", ""}
	rows := make([]models.TradeRecord, len(spreads))
	for i, s := range spreads {
		rows[i] = models.TradeRecord{Symbol: "X", ContractType: models.ContractCall, Spread: s, Row: i}
	}

	Classify(rows)

	valid := map[int]bool{1: true, 2: true, 3: true, 4: true, models.StealthUnranked: true}
	for _, r := range rows {
		assert.True(t, valid[r.StealthRank], r.Spread)
	}
}

func TestContractKeyDistinguishesContracts(t *testing.T) {
	exp1 := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	exp2 := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	rows := []models.TradeRecord{
		{Symbol: "AAPL", Strike: "190", ContractType: models.ContractCall, Expiration: &exp1},
		{Symbol: "AAPL", Strike: "190", ContractType: models.ContractPut, Expiration: &exp1},
		{Symbol: "AAPL", Strike: "190", ContractType: models.ContractCall, Expiration: &exp2},
	}

	Classify(rows)

	// Same strike but different side or expiration never counts as a repeat.
	for _, r := range rows {
		assert.False(t, r.IsRepeater)
	}
}
