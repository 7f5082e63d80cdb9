package models

import "time"

// ContractType is the option contract side.
type ContractType string

const (
	ContractCall ContractType = "CALL"
	ContractPut  ContractType = "PUT"
)

// Sentiment is the per-row directional read derived from the trade spread.
type Sentiment string

const (
	SentimentAggressiveBullish Sentiment = "Aggressive Bullish"
	SentimentBullish           Sentiment = "Bullish"
	SentimentNeutral           Sentiment = "Neutral"
	SentimentBearish           Sentiment = "Bearish"
	SentimentAggressiveBearish Sentiment = "Aggressive Bearish"
)

// Bias is the per-ticker (or whole-scan) call/put premium verdict.
type Bias string

const (
	BiasBullish Bias = "Bullish"
	BiasBearish Bias = "Bearish"
	BiasNeutral Bias = "Neutral"
)

// CapBucket is the market-cap band derived from the representative stock price.
type CapBucket string

const (
	CapSmall   CapBucket = "Small Cap"
	CapMid     CapBucket = "Mid Cap"
	CapLarge   CapBucket = "Large Cap"
	CapUnknown CapBucket = "Unknown"
)

// StealthUnranked is the sentinel rank for spread text outside the known
// aggressiveness table. It sorts after every ranked tier.
const StealthUnranked = 99

// LargeTradeThreshold is the premium value at or above which a trade is
// flagged as large.
const LargeTradeThreshold = 1_000_000.0

// TradeRecord is one parsed row of the uploaded options-flow export.
// Parsing is fail-soft at the row level: Premium falls back to 0,
// StockLast and Expiration to nil. Row preserves the original file order
// and is the tiebreaker for every stable sort downstream.
type TradeRecord struct {
	Symbol       string
	StockLast    *float64
	Strike       string
	ContractType ContractType
	Expiration   *time.Time
	PremiumText  string
	Premium      float64
	Spread       string
	Flags        string
	Alerts       string
	TradeSize    *float64
	OpenInterest *float64
	Row          int

	// Derived by the classifier pass.
	StealthRank      int
	Sentiment        Sentiment
	IsSweep          bool
	IsBlock          bool
	IsLarge          bool
	IsRepeater       bool
	IsHighConviction bool
}

// IsCall reports whether the record is a call contract.
func (r *TradeRecord) IsCall() bool {
	return r.ContractType == ContractCall
}

// ContractKey identifies a distinct contract for repeater detection:
// same symbol, strike, expiration and side.
func (r *TradeRecord) ContractKey() string {
	exp := ""
	if r.Expiration != nil {
		exp = r.Expiration.Format("2006-01-02")
	}
	return r.Symbol + "|" + r.Strike + "|" + exp + "|" + string(r.ContractType)
}

// TickerAggregate is the per-ticker rollup built after scope filtering.
type TickerAggregate struct {
	Symbol         string
	TotalPremium   float64
	CallPremium    float64
	PutPremium     float64
	StockPrice     *float64
	CapBucket      CapBucket
	TradeType      string
	StealthSummary string
	AlertLabel     string
	Bias           Bias
	FirstRow       int

	// TopTrades holds the selected trades in priority order.
	TopTrades []TradeRecord
	// RowCount is the number of rows that survived filtering for this symbol.
	RowCount int
}
