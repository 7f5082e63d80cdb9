package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/omen/internal/models"
)

// CapBucketForPrice maps a representative stock price to its market-cap
// band. Boundaries are inclusive on the mid band: exactly 20 and exactly
// 100 are both Mid Cap.
func CapBucketForPrice(price *float64) models.CapBucket {
	if price == nil {
		return models.CapUnknown
	}
	switch {
	case *price < 20:
		return models.CapSmall
	case *price <= 100:
		return models.CapMid
	default:
		return models.CapLarge
	}
}

// OverallBias compares call premium against put premium across rows.
// With a zero neutral band the verdict is two-way: call premium at or
// above put premium reads Bullish. A positive band introduces Neutral
// when neither side exceeds the other by the band fraction.
func OverallBias(rows []models.TradeRecord, neutralBand float64) models.Bias {
	var callSum, putSum float64
	for i := range rows {
		if rows[i].IsCall() {
			callSum += rows[i].Premium
		} else {
			putSum += rows[i].Premium
		}
	}

	if neutralBand > 0 {
		switch {
		case callSum > putSum*(1+neutralBand):
			return models.BiasBullish
		case putSum > callSum*(1+neutralBand):
			return models.BiasBearish
		default:
			return models.BiasNeutral
		}
	}

	if callSum >= putSum {
		return models.BiasBullish
	}
	return models.BiasBearish
}

// AggregateByTicker rolls filtered, classified rows up per symbol.
// Rows must already be classified. The representative stock price is the
// first non-nil price in original row order.
func AggregateByTicker(rows []models.TradeRecord, neutralBand float64) map[string]*models.TickerAggregate {
	aggregates := make(map[string]*models.TickerAggregate)
	grouped := make(map[string][]models.TradeRecord)

	for i := range rows {
		r := rows[i]
		agg, ok := aggregates[r.Symbol]
		if !ok {
			agg = &models.TickerAggregate{
				Symbol:   r.Symbol,
				FirstRow: r.Row,
			}
			aggregates[r.Symbol] = agg
		}
		agg.TotalPremium += r.Premium
		if r.IsCall() {
			agg.CallPremium += r.Premium
		} else {
			agg.PutPremium += r.Premium
		}
		if agg.StockPrice == nil && r.StockLast != nil {
			price := *r.StockLast
			agg.StockPrice = &price
		}
		agg.RowCount++
		grouped[r.Symbol] = append(grouped[r.Symbol], r)
	}

	for symbol, agg := range aggregates {
		symbolRows := grouped[symbol]
		agg.CapBucket = CapBucketForPrice(agg.StockPrice)
		agg.TradeType = dominantTradeType(symbolRows)
		agg.StealthSummary = stealthSummary(symbolRows)
		agg.AlertLabel = alertLabel(symbolRows)
		agg.Bias = OverallBias(symbolRows, neutralBand)
	}

	return aggregates
}

// dominantTradeType is Sweep when any row swept, otherwise Block Trade.
func dominantTradeType(rows []models.TradeRecord) string {
	for i := range rows {
		if rows[i].IsSweep {
			return "Sweep"
		}
	}
	return "Block Trade"
}

// stealthSummary joins the distinct spread descriptors of the symbol's
// top stealth tier. Tiers are ordered by rank ascending, then by summed
// premium descending; only descriptors in the winning tier appear.
func stealthSummary(rows []models.TradeRecord) string {
	type group struct {
		rank    int
		premium float64
		order   int
	}
	groups := make(map[string]*group)

	for i := range rows {
		r := rows[i]
		spread := r.Spread
		if spread == "" {
			continue
		}
		g, ok := groups[spread]
		if !ok {
			g = &group{rank: r.StealthRank, order: r.Row}
			groups[spread] = g
		}
		g.premium += r.Premium
	}
	if len(groups) == 0 {
		return "None"
	}

	bestRank := models.StealthUnranked
	for _, g := range groups {
		if g.rank < bestRank {
			bestRank = g.rank
		}
	}

	type entry struct {
		spread string
		g      *group
	}
	var winners []entry
	for spread, g := range groups {
		if g.rank == bestRank {
			winners = append(winners, entry{spread, g})
		}
	}
	sort.SliceStable(winners, func(i, j int) bool {
		if winners[i].g.premium != winners[j].g.premium {
			return winners[i].g.premium > winners[j].g.premium
		}
		return winners[i].g.order < winners[j].g.order
	})

	names := make([]string, 0, len(winners))
	for _, w := range winners {
		names = append(names, w.spread)
	}
	return strings.Join(names, ", ")
}

// alertLabel picks the strongest signal observed for the symbol:
// High Conviction > Large Trade > Repeater (citing the highest-premium
// repeated contract) > None.
func alertLabel(rows []models.TradeRecord) string {
	for i := range rows {
		if rows[i].IsHighConviction {
			return "High Conviction"
		}
	}
	for i := range rows {
		if rows[i].IsLarge {
			return "Large Trade"
		}
	}

	var best *models.TradeRecord
	premiums := make(map[string]float64)
	for i := range rows {
		if rows[i].IsRepeater {
			premiums[rows[i].ContractKey()] += rows[i].Premium
		}
	}
	var bestPremium float64
	for i := range rows {
		r := &rows[i]
		if !r.IsRepeater {
			continue
		}
		if p := premiums[r.ContractKey()]; best == nil || p > bestPremium {
			best = r
			bestPremium = p
		}
	}
	if best != nil {
		exp := "n/a"
		if best.Expiration != nil {
			exp = best.Expiration.Format("2006-01-02")
		}
		return fmt.Sprintf("Repeater %s %s", best.Strike, exp)
	}

	return "None"
}
