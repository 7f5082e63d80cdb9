package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/models"
)

func TestRun(t *testing.T) {
	logger := arbor.NewLogger()
	exp := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	rows := []models.TradeRecord{
		{Symbol: "AAA", StockLast: fptr(50.0), Strike: "55", ContractType: models.ContractCall,
			Expiration: &exp, Premium: 2_000_000, Spread: "Above Ask", Flags: "Sweep", Row: 0},
		{Symbol: "BBB", StockLast: fptr(30.0), Strike: "25", ContractType: models.ContractPut,
			Expiration: &exp, Premium: 3_000_000, Spread: "At Bid", Flags: "Block", Row: 1},
		{Symbol: "AAA", StockLast: fptr(50.0), Strike: "60", ContractType: models.ContractCall,
			Expiration: &exp, Premium: 500_000, Spread: "Askish", Flags: "Sweep", Row: 2},
	}

	opts := models.ScanOptions{
		Scope:   models.ScopeFullMarket,
		Summary: models.SummaryStandard,
		Now:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	result, err := Run(rows, opts, logger)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.FilteredRows)

	require.Len(t, result.Tickers, 2)
	assert.Equal(t, "BBB", result.Tickers[0].Symbol)
	assert.Equal(t, "AAA", result.Tickers[1].Symbol)

	// Puts carry more premium than calls across the scan.
	assert.Equal(t, models.BiasBearish, result.OverallBias)

	aaa := result.Tickers[1]
	require.Len(t, aaa.TopTrades, 2)
	assert.Equal(t, "55", aaa.TopTrades[0].Strike)
	assert.Equal(t, "60", aaa.TopTrades[1].Strike)
}

func TestRunFiveRowScenario(t *testing.T) {
	logger := arbor.NewLogger()
	exp := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	row := func(symbol string, premium float64, i int) models.TradeRecord {
		return models.TradeRecord{
			Symbol: symbol, StockLast: fptr(50.0), Strike: "55",
			ContractType: models.ContractCall, Expiration: &exp,
			Premium: premium, Row: i,
		}
	}
	rows := []models.TradeRecord{
		row("AAA", 2_000_000, 0),
		row("AAA", 500_000, 1),
		row("AAA", 100_000, 2),
		row("BBB", 1_000_000, 3),
		row("BBB", 1_000_000, 4),
	}

	result, err := Run(rows, models.ScanOptions{Scope: models.ScopeFullMarket}, logger)
	require.NoError(t, err)

	require.Len(t, result.Tickers, 2)
	assert.Equal(t, "AAA", result.Tickers[0].Symbol)
	assert.Equal(t, 2_600_000.0, result.Tickers[0].TotalPremium)
	assert.Equal(t, "BBB", result.Tickers[1].Symbol)
	assert.Equal(t, 2_000_000.0, result.Tickers[1].TotalPremium)

	// The $2M row leads AAA's top-trade list.
	require.NotEmpty(t, result.Tickers[0].TopTrades)
	assert.Equal(t, 2_000_000.0, result.Tickers[0].TopTrades[0].Premium)
}

func TestRunScopeNarrowsResult(t *testing.T) {
	logger := arbor.NewLogger()
	exp := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	rows := []models.TradeRecord{
		{Symbol: "SMALL", StockLast: fptr(10.0), Strike: "12", ContractType: models.ContractCall,
			Expiration: &exp, Premium: 100_000, Row: 0},
		{Symbol: "BIG", StockLast: fptr(500.0), Strike: "510", ContractType: models.ContractCall,
			Expiration: &exp, Premium: 9_000_000, Row: 1},
	}

	result, err := Run(rows, models.ScanOptions{Scope: models.ScopeSmallCap}, logger)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.FilteredRows)
	require.Len(t, result.Tickers, 1)
	assert.Equal(t, "SMALL", result.Tickers[0].Symbol)
}

func TestRunTargetedRequiresAllowlist(t *testing.T) {
	logger := arbor.NewLogger()

	_, err := Run(nil, models.ScanOptions{Scope: models.ScopeTargeted}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowlist")
}

func TestRunDeterministicRanking(t *testing.T) {
	logger := arbor.NewLogger()
	exp := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	var rows []models.TradeRecord
	for i, symbol := range []string{"AAA", "BBB", "CCC", "DDD", "EEE"} {
		rows = append(rows, models.TradeRecord{
			Symbol: symbol, StockLast: fptr(50.0), Strike: "55",
			ContractType: models.ContractCall, Expiration: &exp,
			Premium: 1_000_000, Row: i,
		})
	}

	opts := models.ScanOptions{Scope: models.ScopeFullMarket, TopTickers: 3}

	first, err := Run(rows, opts, logger)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Run(rows, opts, logger)
		require.NoError(t, err)
		require.Len(t, again.Tickers, 3)
		for j := range first.Tickers {
			assert.Equal(t, first.Tickers[j].Symbol, again.Tickers[j].Symbol)
		}
	}
	// Equal premiums rank by first appearance.
	assert.Equal(t, "AAA", first.Tickers[0].Symbol)
}
