package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/omen/internal/models"
)

func price(v float64) *float64 {
	return &v
}

func sampleResult() *models.ScanResult {
	exp := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	return &models.ScanResult{
		RunID:       "run-123",
		GeneratedAt: time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC),
		Options: models.ScanOptions{
			Scope:   models.ScopeFullMarket,
			Summary: models.SummaryStandard,
		},
		TotalRows:    120,
		FilteredRows: 87,
		OverallBias:  models.BiasBullish,
		Tickers: []*models.TickerAggregate{
			{
				Symbol:         "AAPL",
				TotalPremium:   2_600_000,
				StockPrice:     price(185.20),
				CapBucket:      models.CapLarge,
				TradeType:      "Sweep",
				StealthSummary: "Above Ask",
				AlertLabel:     "High Conviction",
				Bias:           models.BiasBullish,
				TopTrades: []models.TradeRecord{
					{Strike: "190", ContractType: models.ContractCall, Expiration: &exp,
						Premium: 1_200_000, Spread: "Above Ask"},
					{Strike: "195", ContractType: models.ContractCall, Expiration: &exp,
						Premium: 800_000, Spread: "Askish"},
				},
			},
			{
				Symbol:         "TSLA",
				TotalPremium:   900_000,
				StockPrice:     nil,
				CapBucket:      models.CapUnknown,
				TradeType:      "Block Trade",
				StealthSummary: "None",
				AlertLabel:     "None",
				Bias:           models.BiasBearish,
			},
		},
		Summaries: map[string]string{
			"AAPL": "AAPL drew heavy aggressive call buying.",
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleResult(), "OMEN Smart Money Report")

	assert.True(t, strings.HasPrefix(md, "# OMEN Smart Money Report\n"))
	assert.Contains(t, md, "Scope: Full Market | Rows scanned: 120 | Rows in scope: 87")

	// Ticker header carries symbol, cap bucket and price on one line.
	assert.Contains(t, md, "## AAPL - Large Cap ($185.20)")
	assert.Contains(t, md, "## TSLA - Unknown (n/a)")

	assert.Contains(t, md, "- Trade type: Sweep")
	assert.Contains(t, md, "- Alerts: High Conviction")
	assert.Contains(t, md, "- Total premium: $2.6M")

	// Trade table with positional markers.
	assert.Contains(t, md, "| Rank | Strike | Type | Expiration | Spread | Premium |")
	assert.Contains(t, md, "| Top Pick | 190 | CALL | 2026-01-16 | Above Ask | $1.2M |")
	assert.Contains(t, md, "| Runner Up | 195 | CALL | 2026-01-16 | Askish | $800K |")

	assert.Contains(t, md, "AAPL drew heavy aggressive call buying.")
	assert.Contains(t, md, "## Verdict")
	assert.Contains(t, md, "**Bullish**")
	assert.Contains(t, md, "Run run-123")

	// Ticker order in the document follows rank order.
	require.Less(t, strings.Index(md, "## AAPL"), strings.Index(md, "## TSLA"))
}

func TestRenderMarkdownEmptyResult(t *testing.T) {
	result := sampleResult()
	result.Tickers = nil

	md := RenderMarkdown(result, "")

	assert.Contains(t, md, "# OMEN Smart Money Report")
	assert.Contains(t, md, "No tickers matched the selected scope.")
	assert.NotContains(t, md, "## Verdict")
	assert.Contains(t, md, "Run run-123")
}

func TestRenderMarkdownDefaultTitle(t *testing.T) {
	md := RenderMarkdown(sampleResult(), "")
	assert.True(t, strings.HasPrefix(md, "# OMEN Smart Money Report\n"))
}
