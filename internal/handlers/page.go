package handlers

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/omen/internal/common"
)

//go:embed index.html
var indexHTML string

// PageHandler serves the upload form.
type PageHandler struct {
	logger   arbor.ILogger
	template *template.Template
}

// NewPageHandler creates a new page handler from the embedded template.
func NewPageHandler(logger arbor.ILogger) *PageHandler {
	return &PageHandler{
		logger:   logger,
		template: template.Must(template.New("index").Parse(indexHTML)),
	}
}

// IndexHandler renders the upload form.
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := map[string]interface{}{
		"Version": common.GetVersion(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render index page")
	}
}
