package ingest

import (
	"fmt"
	"strings"
)

// NormalizeColumn canonicalizes a header cell: trim, lower-case, and
// spaces/hyphens to underscores.
func NormalizeColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Canonical column names used by the reader.
const (
	ColSymbol       = "symbol"
	ColPremium      = "premium"
	ColContractType = "call_or_put"
	ColStrike       = "strike"
	ColExpiration   = "expiration_date"
	ColSpread       = "trade_spread"
	ColFlags        = "flags"
	ColAlerts       = "alerts"
	ColTradeSize    = "trade_size"
	ColOpenInterest = "open_interest"
	ColStockLast    = "stock_last"
)

// columnAliases maps each canonical column to its accepted header names,
// in resolution order. The first alias present in the file wins.
var columnAliases = map[string][]string{
	ColSymbol:       {"symbol", "ticker", "underlying"},
	ColPremium:      {"premium", "prems", "total_premium", "premium_value"},
	ColContractType: {"call_or_put", "put_call", "call_put", "type", "side", "option_type"},
	ColStrike:       {"strike", "strike_price"},
	ColExpiration:   {"expiration_date", "expiry", "expiration", "exp_date"},
	ColSpread:       {"trade_spread", "spread", "aggressiveness"},
	ColFlags:        {"flags", "trade_flags", "trade_type"},
	ColAlerts:       {"alerts", "alert"},
	ColTradeSize:    {"trade_size", "size", "contracts"},
	ColOpenInterest: {"open_interest", "oi"},
	ColStockLast:    {"stock_last", "price", "underlying_price", "last", "stock_price"},
}

// requiredColumns must resolve or the run fails before any row is read.
var requiredColumns = []string{
	ColSymbol,
	ColPremium,
	ColContractType,
	ColStrike,
	ColExpiration,
}

// ColumnMap maps canonical column names to their zero-based index in the
// header row. Optional columns that are absent are simply not present in
// the map.
type ColumnMap map[string]int

// Index returns the column index for a canonical name, or -1 when the
// column was not present in the file.
func (m ColumnMap) Index(name string) int {
	if idx, ok := m[name]; ok {
		return idx
	}
	return -1
}

// ResolveColumns matches a header row against the alias table. Every
// required column must resolve through some alias; the error message names
// the missing column and the aliases that were tried so the user can fix
// the export.
func ResolveColumns(headers []string) (ColumnMap, error) {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		normalized := NormalizeColumn(h)
		if _, seen := byName[normalized]; !seen {
			byName[normalized] = i
		}
	}

	resolved := make(ColumnMap)
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byName[alias]; ok {
				resolved[canonical] = idx
				break
			}
		}
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := resolved[required]; !ok {
			missing = append(missing, fmt.Sprintf("%s (accepted headers: %s)",
				required, strings.Join(columnAliases[required], ", ")))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("input file is missing required columns: %s", strings.Join(missing, "; "))
	}

	return resolved, nil
}
