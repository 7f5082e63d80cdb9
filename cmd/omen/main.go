package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/app"
	"github.com/ternarybob/omen/internal/common"
	"github.com/ternarybob/omen/internal/ingest"
	"github.com/ternarybob/omen/internal/models"
	"github.com/ternarybob/omen/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// One-shot mode. When -input is set the scan runs once and the
	// process exits without starting the HTTP server.
	inputFile   = flag.String("input", "", "Scan a single export file and exit")
	scanScope   = flag.String("scope", "", "Scope filter for one-shot scans")
	scanTickers = flag.String("tickers", "", "Comma-separated allowlist for the Targeted scope")
	summaryMode = flag.String("summary", "", "Summary mode for one-shot scans (standard or ai)")
	outputFile  = flag.String("out", "", "Write the report to a file instead of stdout")
	outputPDF   = flag.Bool("pdf", false, "Render the one-shot report as PDF (requires -out)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Omen version %s\n", common.GetVersion())
		os.Exit(0)
	}

	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	if len(configFiles) == 0 {
		if _, err := os.Stat("omen.toml"); err == nil {
			configFiles = append(configFiles, "omen.toml")
		} else if _, err := os.Stat("deployments/local/omen.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/omen.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, finalPort, *serverHost)

	logger := common.InitLogger(config)

	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if *inputFile != "" {
		if err := runOnce(application, logger); err != nil {
			logger.Fatal().Err(err).Msg("Scan failed")
		}
		return
	}

	logger.Info().
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Msg("Starting Omen server")

	srv := server.New(application)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Server goroutine panicked")
			}
		}()

		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	time.Sleep(100 * time.Millisecond)

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("Interrupt signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}

// runOnce executes a single scan from the command line and writes the
// report to stdout or the -out path.
func runOnce(application *app.App, logger arbor.ILogger) error {
	opts := models.ScanOptions{}

	if *scanScope != "" {
		scope, ok := models.ParseScopeFilter(*scanScope)
		if !ok {
			return fmt.Errorf("unknown scope %q", *scanScope)
		}
		opts.Scope = scope
	}
	if *scanTickers != "" {
		for _, t := range strings.Split(*scanTickers, ",") {
			if t = strings.TrimSpace(t); t != "" {
				opts.Allowlist = append(opts.Allowlist, t)
			}
		}
	}
	if *summaryMode != "" {
		mode, ok := models.ParseSummaryMode(*summaryMode)
		if !ok {
			return fmt.Errorf("unknown summary mode %q", *summaryMode)
		}
		opts.Summary = mode
	}
	if *outputPDF && *outputFile == "" {
		return fmt.Errorf("-pdf requires -out")
	}

	f, err := os.Open(*inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	format := ingest.DetectFormat(*inputFile)

	out, err := application.ScanService.Execute(context.Background(), f, format, opts)
	if err != nil {
		return err
	}

	logger.Info().
		Str("run_id", out.Result.RunID).
		Int("tickers", len(out.Result.Tickers)).
		Msg("Scan complete")

	if *outputPDF {
		pdfBytes, err := application.PDFService.ConvertMarkdownToPDF(out.Markdown, "Omen Smart Money Report")
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		return os.WriteFile(*outputFile, pdfBytes, 0644)
	}

	if *outputFile != "" {
		return os.WriteFile(*outputFile, []byte(out.Markdown), 0644)
	}

	fmt.Println(out.Markdown)
	return nil
}
