package scanner

import (
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/omen/internal/models"
)

// ApplyScope filters rows before aggregation. Price-band scopes read the
// row's own stock price; rows without a price fall outside every price
// band. Long Term keeps expirations at or beyond the configured horizon.
// Targeted keeps symbols in the allowlist, matched case-insensitively.
func ApplyScope(rows []models.TradeRecord, opts models.ScanOptions) []models.TradeRecord {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	horizon := now.AddDate(0, 0, opts.EffectiveHorizonDays())

	allowed := make(map[string]bool, len(opts.Allowlist))
	for _, symbol := range opts.Allowlist {
		if s := strings.ToUpper(strings.TrimSpace(symbol)); s != "" {
			allowed[s] = true
		}
	}

	keep := func(r *models.TradeRecord) bool {
		switch opts.Scope {
		case models.ScopeSmallCap:
			return r.StockLast != nil && *r.StockLast < 20
		case models.ScopeMidCap:
			return r.StockLast != nil && *r.StockLast >= 20 && *r.StockLast <= 100
		case models.ScopeLargeCap:
			return r.StockLast != nil && *r.StockLast > 100
		case models.ScopeLongTerm:
			return r.Expiration != nil && !r.Expiration.Before(horizon)
		case models.ScopeTargeted:
			return allowed[r.Symbol]
		default:
			return true
		}
	}

	filtered := make([]models.TradeRecord, 0, len(rows))
	for i := range rows {
		if keep(&rows[i]) {
			filtered = append(filtered, rows[i])
		}
	}
	return filtered
}

// RankTickers orders aggregates by total premium descending and keeps the
// top N. The sort is stable with first-seen row order as the tiebreak, so
// identical input always yields the identical ranking.
func RankTickers(aggregates map[string]*models.TickerAggregate, topN int) []*models.TickerAggregate {
	ranked := make([]*models.TickerAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		ranked = append(ranked, agg)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalPremium != ranked[j].TotalPremium {
			return ranked[i].TotalPremium > ranked[j].TotalPremium
		}
		return ranked[i].FirstRow < ranked[j].FirstRow
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// PriorityScore is the composite trade sort key: the stealth tier is the
// coarse term and premium the fine-grained tiebreak. Lower scores sort
// first: rank 1 beats rank 2 regardless of premium, and within a tier
// the larger premium wins.
func PriorityScore(r *models.TradeRecord) float64 {
	return float64(r.StealthRank)*1_000_000 - r.Premium
}

// SelectTopTrades picks the k highest-priority trades for one ticker:
// stealth rank ascending, premium descending, original order as the final
// tiebreak.
func SelectTopTrades(rows []models.TradeRecord, k int) []models.TradeRecord {
	selected := make([]models.TradeRecord, len(rows))
	copy(selected, rows)
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].StealthRank != selected[j].StealthRank {
			return selected[i].StealthRank < selected[j].StealthRank
		}
		if selected[i].Premium != selected[j].Premium {
			return selected[i].Premium > selected[j].Premium
		}
		return selected[i].Row < selected[j].Row
	})
	if k > 0 && len(selected) > k {
		selected = selected[:k]
	}
	return selected
}

// tradeMarkers decorate the selected trades in output order.
var tradeMarkers = []string{"Top Pick", "Runner Up", "Third"}

// TradeMarker returns the display marker for a trade's position in the
// selected list.
func TradeMarker(position int) string {
	return tradeMarkers[position%len(tradeMarkers)]
}
