// Package summary produces the per-ticker narrative for the report.
// Standard mode renders a deterministic template; AI mode asks the llm
// collaborator and falls back to the template on any failure or timeout,
// so a summary can never fail a report run.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/models"
	"github.com/ternarybob/omen/internal/services/llm"
)

// TextGenerator is the slice of the llm provider factory the summary
// service depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error)
	Timeout(provider llm.ProviderType) time.Duration
	DetectProvider(model string) llm.ProviderType
}

// Service generates ticker narratives.
type Service struct {
	generator TextGenerator
	logger    arbor.ILogger
}

// NewService creates a new summary service. generator may be nil, in
// which case AI mode silently degrades to the standard template.
func NewService(generator TextGenerator, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

const systemInstruction = "You are a financial analyst writing one short paragraph " +
	"about unusual options activity for a single ticker. Be factual and concise, " +
	"state the directional read and the conviction signals, and do not give advice."

// Generate returns the narrative for one ticker aggregate.
func (s *Service) Generate(ctx context.Context, agg *models.TickerAggregate, mode models.SummaryMode) string {
	if mode != models.SummaryAI || s.generator == nil {
		return Template(agg)
	}

	provider := s.generator.DetectProvider("")
	callCtx, cancel := context.WithTimeout(ctx, s.generator.Timeout(provider))
	defer cancel()

	resp, err := s.generator.GenerateText(callCtx, &llm.ContentRequest{
		Prompt:            BuildPrompt(agg),
		SystemInstruction: systemInstruction,
	})
	if err != nil {
		s.logger.Warn().
			Str("symbol", agg.Symbol).
			Err(err).
			Msg("AI summary failed, using standard template")
		return Template(agg)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Template(agg)
	}
	return text
}

// BuildPrompt assembles the structured prompt handed to the provider:
// the aggregate fields and the selected trades in a stable,
// line-oriented layout.
func BuildPrompt(agg *models.TickerAggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticker: %s (%s)\n", agg.Symbol, agg.CapBucket)
	fmt.Fprintf(&b, "Total premium: %s\n", FormatPremium(agg.TotalPremium))
	fmt.Fprintf(&b, "Trade type: %s\n", agg.TradeType)
	fmt.Fprintf(&b, "Sentiment: %s\n", agg.Bias)
	fmt.Fprintf(&b, "Stealth indicators: %s\n", agg.StealthSummary)
	fmt.Fprintf(&b, "Alerts: %s\n", agg.AlertLabel)
	b.WriteString("Top trades:\n")
	for _, trade := range agg.TopTrades {
		exp := "n/a"
		if trade.Expiration != nil {
			exp = trade.Expiration.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s %s exp %s via %s for %s\n",
			trade.Strike, trade.ContractType, exp, orNone(trade.Spread), FormatPremium(trade.Premium))
	}
	b.WriteString("Write one short paragraph summarizing what this flow suggests.\n")
	return b.String()
}

// Template is the deterministic narrative used in Standard mode and as
// the AI fallback.
func Template(agg *models.TickerAggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s drew %s in options premium across %d qualifying trades, dominated by %s activity.",
		agg.Symbol, FormatPremium(agg.TotalPremium), agg.RowCount, strings.ToLower(agg.TradeType))
	if agg.StealthSummary != "" && agg.StealthSummary != "None" {
		fmt.Fprintf(&b, " Execution leaned %s.", agg.StealthSummary)
	}
	if agg.AlertLabel != "" && agg.AlertLabel != "None" {
		fmt.Fprintf(&b, " Signal: %s.", agg.AlertLabel)
	}
	fmt.Fprintf(&b, " Call/put premium balance reads %s.", agg.Bias)
	return b.String()
}

// FormatPremium renders a premium value for display: "$2.6M", "$500K",
// "$950".
func FormatPremium(value float64) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return "$" + trimZero(humanize.FtoaWithDigits(value/1_000_000, 2)) + "M"
	case abs >= 1_000:
		return "$" + trimZero(humanize.FtoaWithDigits(value/1_000, 1)) + "K"
	default:
		return "$" + humanize.CommafWithDigits(value, 0)
	}
}

// trimZero drops a trailing zero fraction ("2.60" -> "2.6", "1.00" -> "1")
// but must leave integer strings alone: trimming "500" would misstate the
// value tenfold.
func trimZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func orNone(s string) string {
	if s == "" {
		return "unmarked spread"
	}
	return s
}
