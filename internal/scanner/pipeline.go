package scanner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/models"
)

// Run executes the full pipeline: scope filter, classification,
// aggregation and selection. It is a pure function of (rows, opts) apart
// from the generated run ID and timestamp; two runs over identical input
// produce identical rankings.
func Run(rows []models.TradeRecord, opts models.ScanOptions, logger arbor.ILogger) (*models.ScanResult, error) {
	if opts.Scope == models.ScopeTargeted && len(opts.Allowlist) == 0 {
		return nil, fmt.Errorf("targeted scope requires at least one ticker in the allowlist")
	}

	runID := uuid.New().String()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
		opts.Now = now
	}

	filtered := ApplyScope(rows, opts)
	Classify(filtered)

	aggregates := AggregateByTicker(filtered, opts.NeutralBand)
	ranked := RankTickers(aggregates, opts.EffectiveTopTickers())

	bySymbol := make(map[string][]models.TradeRecord)
	for i := range filtered {
		bySymbol[filtered[i].Symbol] = append(bySymbol[filtered[i].Symbol], filtered[i])
	}
	for _, agg := range ranked {
		agg.TopTrades = SelectTopTrades(bySymbol[agg.Symbol], opts.EffectiveTopTrades())
	}

	result := &models.ScanResult{
		RunID:        runID,
		GeneratedAt:  now,
		Options:      opts,
		TotalRows:    len(rows),
		FilteredRows: len(filtered),
		Tickers:      ranked,
		OverallBias:  OverallBias(filtered, opts.NeutralBand),
		Summaries:    make(map[string]string),
	}

	logger.Info().
		Str("run_id", runID).
		Str("scope", string(opts.Scope)).
		Int("rows_in", len(rows)).
		Int("rows_filtered", len(filtered)).
		Int("tickers_selected", len(ranked)).
		Msg("Scan pipeline completed")

	return result, nil
}
