package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/common"
	"github.com/ternarybob/omen/internal/ingest"
	"github.com/ternarybob/omen/internal/models"
	"github.com/ternarybob/omen/internal/services/report"
	"github.com/ternarybob/omen/internal/services/scan"
)

// ScanHandler serves the upload-and-scan endpoint.
type ScanHandler struct {
	config     *common.Config
	scanSvc    *scan.Service
	pdfService *report.PDFService
	logger     arbor.ILogger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(config *common.Config, scanSvc *scan.Service, pdfService *report.PDFService, logger arbor.ILogger) *ScanHandler {
	return &ScanHandler{
		config:     config,
		scanSvc:    scanSvc,
		pdfService: pdfService,
		logger:     logger,
	}
}

// ScanFileHandler handles POST /api/scan: a multipart upload with the
// trade export plus form fields scope, tickers, summary and format.
// The whole run is synchronous; the response is the finished report as
// markdown text or a PDF attachment. Any failure returns one error
// message and no partial report.
func (h *ScanHandler) ScanFileHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file field in upload")
		return
	}
	defer file.Close()

	opts, err := h.parseOptions(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := ingest.DetectFormat(header.Filename)
	h.logger.Info().
		Str("filename", header.Filename).
		Str("format", string(format)).
		Str("scope", string(opts.Scope)).
		Msg("Scan upload received")

	output, err := h.scanSvc.Execute(r.Context(), file, format, opts)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("Scan failed")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.EqualFold(r.FormValue("format"), "pdf") {
		pdfBytes, err := h.pdfService.ConvertMarkdownToPDF(output.Markdown, h.config.Report.Title)
		if err != nil {
			h.logger.Error().Err(err).Msg("PDF generation failed")
			WriteError(w, http.StatusInternalServerError, "failed to generate PDF report")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="omen-report.pdf"`)
		w.Write(pdfBytes)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(output.Markdown))
}

// parseOptions builds ScanOptions from form fields; unknown enum values
// are rejected rather than silently defaulted.
func (h *ScanHandler) parseOptions(r *http.Request) (models.ScanOptions, error) {
	var opts models.ScanOptions

	scope, ok := models.ParseScopeFilter(r.FormValue("scope"))
	if !ok {
		return opts, fmt.Errorf("unknown scope filter %q", r.FormValue("scope"))
	}
	opts.Scope = scope

	mode, ok := models.ParseSummaryMode(r.FormValue("summary"))
	if !ok {
		return opts, fmt.Errorf("unknown summary mode %q", r.FormValue("summary"))
	}
	opts.Summary = mode

	if tickers := r.FormValue("tickers"); tickers != "" {
		for _, t := range strings.Split(tickers, ",") {
			if t = strings.TrimSpace(t); t != "" {
				opts.Allowlist = append(opts.Allowlist, t)
			}
		}
	}
	if opts.Scope == models.ScopeTargeted && len(opts.Allowlist) == 0 {
		return opts, fmt.Errorf("targeted scope requires a comma-separated ticker list")
	}

	return opts, nil
}
