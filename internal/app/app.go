package app

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/common"
	"github.com/ternarybob/omen/internal/handlers"
	"github.com/ternarybob/omen/internal/services/llm"
	"github.com/ternarybob/omen/internal/services/report"
	"github.com/ternarybob/omen/internal/services/scan"
	"github.com/ternarybob/omen/internal/services/summary"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Services
	LLMFactory     *llm.ProviderFactory
	SummaryService *summary.Service
	ScanService    *scan.Service
	PDFService     *report.PDFService

	// Handlers
	PageHandler *handlers.PageHandler
	ScanHandler *handlers.ScanHandler
	APIHandler  *handlers.APIHandler
}

// New wires the application. There is no storage layer: every scan is
// transient and owned by its request.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	llmFactory := llm.NewProviderFactory(config, logger)
	summaryService := summary.NewService(llmFactory, logger)
	scanService := scan.NewService(config, summaryService, logger)
	pdfService := report.NewPDFService(logger)

	a := &App{
		Config:         config,
		Logger:         logger,
		LLMFactory:     llmFactory,
		SummaryService: summaryService,
		ScanService:    scanService,
		PDFService:     pdfService,
		PageHandler:    handlers.NewPageHandler(logger),
		ScanHandler:    handlers.NewScanHandler(config, scanService, pdfService, logger),
		APIHandler:     handlers.NewAPIHandler(logger),
	}

	return a, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.LLMFactory != nil {
		return a.LLMFactory.Close()
	}
	return nil
}
