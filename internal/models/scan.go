package models

import (
	"strings"
	"time"
)

// ScopeFilter is the pre-aggregation row filter selected by the user.
type ScopeFilter string

const (
	ScopeFullMarket ScopeFilter = "Full Market"
	ScopeSmallCap   ScopeFilter = "Small Cap"
	ScopeMidCap     ScopeFilter = "Mid Cap"
	ScopeLargeCap   ScopeFilter = "Large Cap"
	ScopeLongTerm   ScopeFilter = "Long Term"
	ScopeTargeted   ScopeFilter = "Targeted"
)

// ParseScopeFilter maps user input to a ScopeFilter, case-insensitively.
// Empty input defaults to Full Market.
func ParseScopeFilter(s string) (ScopeFilter, bool) {
	switch normalizeChoice(s) {
	case "", "full market", "full":
		return ScopeFullMarket, true
	case "small cap", "small":
		return ScopeSmallCap, true
	case "mid cap", "mid":
		return ScopeMidCap, true
	case "large cap", "large":
		return ScopeLargeCap, true
	case "long term", "long":
		return ScopeLongTerm, true
	case "targeted":
		return ScopeTargeted, true
	}
	return ScopeFullMarket, false
}

// SummaryMode selects the narrative generator.
type SummaryMode string

const (
	SummaryStandard SummaryMode = "Standard"
	SummaryAI       SummaryMode = "AI"
)

// ParseSummaryMode maps user input to a SummaryMode. Empty input defaults
// to the standard templated summary.
func ParseSummaryMode(s string) (SummaryMode, bool) {
	switch normalizeChoice(s) {
	case "", "standard", "template":
		return SummaryStandard, true
	case "ai", "ai-generated", "generated":
		return SummaryAI, true
	}
	return SummaryStandard, false
}

func normalizeChoice(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ScanOptions is the full configuration of one pipeline run. The pipeline
// is a pure function of (rows, options); handlers and the CLI build this
// struct per invocation and never share it between runs.
type ScanOptions struct {
	Scope     ScopeFilter `validate:"required"`
	Allowlist []string    // Targeted scope only; symbols are matched case-insensitively
	Summary   SummaryMode `validate:"required"`

	// TopTickers is the number of tickers selected (0 means the scope
	// default: 3, or 5 for Long Term).
	TopTickers int `validate:"gte=0,lte=50"`
	// TopTrades is the number of trades listed per ticker (0 means 3).
	TopTrades int `validate:"gte=0,lte=50"`

	// NeutralBand is the call/put premium tolerance for a Neutral bias.
	// 0 gives the two-way verdict (call >= put reads Bullish).
	NeutralBand float64 `validate:"gte=0,lte=1"`

	// LongTermHorizonDays is the minimum days to expiration for the
	// Long Term scope (0 means 60).
	LongTermHorizonDays int `validate:"gte=0"`

	// Now anchors expiration-horizon checks; the zero value means
	// time.Now, fixed once at the start of the run.
	Now time.Time
}

// EffectiveTopTickers resolves the ticker count for the active scope.
func (o *ScanOptions) EffectiveTopTickers() int {
	if o.TopTickers > 0 {
		return o.TopTickers
	}
	if o.Scope == ScopeLongTerm {
		return 5
	}
	return 3
}

// EffectiveTopTrades resolves the per-ticker trade count.
func (o *ScanOptions) EffectiveTopTrades() int {
	if o.TopTrades > 0 {
		return o.TopTrades
	}
	return 3
}

// EffectiveHorizonDays resolves the Long Term expiration horizon.
func (o *ScanOptions) EffectiveHorizonDays() int {
	if o.LongTermHorizonDays > 0 {
		return o.LongTermHorizonDays
	}
	return 60
}

// ScanResult is the complete output of one pipeline run, handed to the
// report renderer. Everything here is transient and owned by the run.
type ScanResult struct {
	RunID       string
	GeneratedAt time.Time
	Options     ScanOptions

	TotalRows    int
	FilteredRows int

	// Tickers are the selected aggregates in rank order.
	Tickers []*TickerAggregate

	// OverallBias is the verdict across all filtered rows.
	OverallBias Bias

	// Summaries maps symbol to narrative text, filled by the summary
	// service after the pipeline completes.
	Summaries map[string]string
}
