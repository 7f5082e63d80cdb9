// Package report renders a completed scan into its user-facing forms:
// a markdown document and a PDF generated from that markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/ternarybob/omen/internal/models"
	"github.com/ternarybob/omen/internal/scanner"
	"github.com/ternarybob/omen/internal/services/summary"
)

// RenderMarkdown produces the full report document for a scan result.
// The layout is one section per selected ticker: header line, info block,
// trade table and narrative, followed by the overall verdict.
func RenderMarkdown(result *models.ScanResult, title string) string {
	var b strings.Builder

	if title == "" {
		title = "OMEN Smart Money Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Scope: %s | Rows scanned: %d | Rows in scope: %d\n\n",
		result.Options.Scope, result.TotalRows, result.FilteredRows)

	if len(result.Tickers) == 0 {
		b.WriteString("No tickers matched the selected scope.\n")
		writeFooter(&b, result)
		return b.String()
	}

	for _, agg := range result.Tickers {
		writeTickerSection(&b, agg, result.Summaries[agg.Symbol])
	}

	fmt.Fprintf(&b, "## Verdict\n\nOverall flow bias across the scan: **%s**.\n", result.OverallBias)
	writeFooter(&b, result)
	return b.String()
}

// writeTickerSection emits one ticker block. The header keeps the
// symbol, cap bucket and representative price on a single line.
func writeTickerSection(b *strings.Builder, agg *models.TickerAggregate, narrative string) {
	price := "n/a"
	if agg.StockPrice != nil {
		price = fmt.Sprintf("$%.2f", *agg.StockPrice)
	}
	fmt.Fprintf(b, "## %s - %s (%s)\n\n", agg.Symbol, agg.CapBucket, price)

	fmt.Fprintf(b, "- Trade type: %s\n", agg.TradeType)
	fmt.Fprintf(b, "- Sentiment: %s\n", agg.Bias)
	fmt.Fprintf(b, "- Stealth: %s\n", agg.StealthSummary)
	fmt.Fprintf(b, "- Alerts: %s\n", agg.AlertLabel)
	fmt.Fprintf(b, "- Total premium: %s\n\n", summary.FormatPremium(agg.TotalPremium))

	if len(agg.TopTrades) > 0 {
		b.WriteString("| Rank | Strike | Type | Expiration | Spread | Premium |\n")
		b.WriteString("|------|--------|------|------------|--------|--------|\n")
		for i, trade := range agg.TopTrades {
			exp := "n/a"
			if trade.Expiration != nil {
				exp = trade.Expiration.Format("2006-01-02")
			}
			spread := trade.Spread
			if spread == "" {
				spread = "-"
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
				scanner.TradeMarker(i), trade.Strike, trade.ContractType, exp,
				spread, summary.FormatPremium(trade.Premium))
		}
		b.WriteString("\n")
	}

	if narrative != "" {
		fmt.Fprintf(b, "%s\n\n", narrative)
	}
}

func writeFooter(b *strings.Builder, result *models.ScanResult) {
	fmt.Fprintf(b, "\n---\n\nRun %s | Generated %s\n",
		result.RunID, result.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
}
