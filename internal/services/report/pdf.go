package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// PDFService converts the markdown report into a paginated PDF.
type PDFService struct {
	logger arbor.ILogger
}

// NewPDFService creates a new PDF service.
func NewPDFService(logger arbor.ILogger) *PDFService {
	return &PDFService{logger: logger}
}

// ConvertMarkdownToPDF renders markdown content to a PDF byte slice.
func (s *PDFService) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	s.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Converting report to PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader([]byte(markdown)))

	renderer := &pdfRenderer{
		pdf:    pdf,
		source: []byte(markdown),
		font:   "Arial",
		size:   9,
	}
	if err := ast.Walk(doc, renderer.walk); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render PDF")
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated")
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	font      string
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(6)
			size := 14.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			r.pdf.SetFont(r.font, "B", size)
		} else {
			r.pdf.Ln(6)
			r.updateFont()
		}
	case *ast.Paragraph:
		if !entering && r.listLevel == 0 {
			r.pdf.Ln(7)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, string(node.Text(r.source)))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.List:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(6)
			}
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(12 + float64(r.listLevel)*4)
			r.pdf.Write(5, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(4)
			r.pdf.Line(10, r.pdf.GetY(), 200, r.pdf.GetY())
			r.pdf.Ln(4)
		}
	case *extast.Table:
		if entering {
			r.renderTable(collectTableRows(node, r.source))
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

// collectTableRows flattens a goldmark table node into cell text.
func collectTableRows(table *extast.Table, source []byte) [][]string {
	var rows [][]string
	var visit func(node ast.Node)
	visit = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *extast.TableHeader:
				visit(c)
			case *extast.TableRow:
				var row []string
				for cell := c.FirstChild(); cell != nil; cell = cell.NextSibling() {
					row = append(row, string(cell.Text(source)))
				}
				rows = append(rows, row)
			}
		}
	}
	visit(table)
	return rows
}

// renderTable draws a bordered table with content-measured column widths
// scaled to the page. The first row is treated as the header.
func (r *pdfRenderer) renderTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	numCols := len(rows[0])
	pageWidth := 190.0
	fontSize := 8.0
	lineHeight := 5.0

	r.pdf.SetFont(r.font, "", fontSize)
	widths := make([]float64, numCols)
	for _, row := range rows {
		for i, cell := range row {
			if i >= numCols {
				break
			}
			if w := r.pdf.GetStringWidth(cell) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0.0
	for i := range widths {
		if widths[i] < 12 {
			widths[i] = 12
		}
		total += widths[i]
	}
	if total > pageWidth {
		scale := pageWidth / total
		for i := range widths {
			widths[i] *= scale
		}
	}

	r.pdf.Ln(2)
	for rowIdx, row := range rows {
		if rowIdx == 0 {
			r.pdf.SetFont(r.font, "B", fontSize)
			r.pdf.SetFillColor(230, 230, 230)
		} else {
			r.pdf.SetFont(r.font, "", fontSize)
			r.pdf.SetFillColor(255, 255, 255)
		}

		startX := r.pdf.GetX()
		startY := r.pdf.GetY()
		if startY+lineHeight+2 > 285 {
			r.pdf.AddPage()
			startY = r.pdf.GetY()
		}

		x := startX
		for i := 0; i < numCols; i++ {
			cellText := ""
			if i < len(row) {
				cellText = truncateToWidth(r.pdf, row[i], widths[i]-2)
			}
			r.pdf.SetXY(x, startY)
			r.pdf.CellFormat(widths[i], lineHeight+2, cellText, "1", 0, "L", rowIdx == 0, 0, "")
			x += widths[i]
		}
		r.pdf.SetXY(startX, startY+lineHeight+2)
	}
	r.pdf.Ln(3)
	r.updateFont()
}

// truncateToWidth shortens cell text to fit its column, adding an
// ellipsis when anything was cut. Trimming is rune-wise so multibyte
// text is never split mid-sequence.
func truncateToWidth(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = []rune(strings.TrimSpace(string(runes[:len(runes)-1])))
	}
	return string(runes) + "..."
}
