// Package scan orchestrates one full report run: ingest, pipeline,
// narratives, rendering. Both the CLI and the HTTP handler go through
// Execute so a scan behaves identically on either surface.
package scan

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/common"
	"github.com/ternarybob/omen/internal/ingest"
	"github.com/ternarybob/omen/internal/models"
	"github.com/ternarybob/omen/internal/scanner"
	"github.com/ternarybob/omen/internal/services/report"
	"github.com/ternarybob/omen/internal/services/summary"
)

// Service runs scans. It is safe for concurrent use: every Execute call
// builds its own rows, result and report.
type Service struct {
	config   *common.Config
	summary  *summary.Service
	logger   arbor.ILogger
	validate *validator.Validate
}

// NewService creates a new scan service.
func NewService(config *common.Config, summarySvc *summary.Service, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		summary:  summarySvc,
		logger:   logger,
		validate: validator.New(),
	}
}

// Output is the rendered outcome of one scan.
type Output struct {
	Result   *models.ScanResult
	Markdown string
}

// ApplyDefaults fills unset option fields from configuration.
func (s *Service) ApplyDefaults(opts *models.ScanOptions) {
	if opts.Scope == "" {
		opts.Scope = models.ScopeFullMarket
	}
	if opts.Summary == "" {
		opts.Summary = models.SummaryStandard
	}
	if opts.TopTickers == 0 {
		opts.TopTickers = s.config.Scan.TopTickers
	}
	if opts.TopTrades == 0 {
		opts.TopTrades = s.config.Scan.TopTrades
	}
	if opts.NeutralBand == 0 {
		opts.NeutralBand = s.config.Scan.NeutralBand
	}
	if opts.LongTermHorizonDays == 0 {
		opts.LongTermHorizonDays = s.config.Scan.LongTermHorizonDays
	}
}

// Execute reads the upload, runs the pipeline, fills narratives and
// renders the markdown report. Any error here is a run-level failure:
// no partial report is returned.
func (s *Service) Execute(ctx context.Context, r io.Reader, format ingest.Format, opts models.ScanOptions) (*Output, error) {
	s.ApplyDefaults(&opts)
	if err := s.validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid scan options: %w", err)
	}

	rows, err := ingest.Read(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input file contains no usable trade rows")
	}

	result, err := scanner.Run(rows, opts, s.logger)
	if err != nil {
		return nil, err
	}

	for _, agg := range result.Tickers {
		result.Summaries[agg.Symbol] = s.summary.Generate(ctx, agg, opts.Summary)
	}

	return &Output{
		Result:   result,
		Markdown: report.RenderMarkdown(result, s.config.Report.Title),
	}, nil
}
