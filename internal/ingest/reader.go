package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/omen/internal/models"
)

// Format identifies the tabular file layout.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat guesses the format from a file name, defaulting to CSV.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Read parses a tabular export into trade records. The header row is
// resolved through the column alias table; rows that cannot supply a
// symbol or a recognizable call/put side are skipped, everything else is
// recovered cell by cell.
func Read(r io.Reader, format Format) ([]models.TradeRecord, error) {
	rows, err := readRaw(r, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}

	columns, err := ResolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.TradeRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rec, ok := buildRecord(row, columns, len(records)); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// readRaw loads all rows of the file into memory. Scans are single-pass
// and bounded by the upload size, so there is no need to stream.
func readRaw(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatTSV:
		return readDelimited(r, '\t')
	default:
		return readDelimited(r, ',')
	}
}

func readDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// buildRecord converts one data row. A row without a symbol or with an
// unrecognizable call/put cell carries no signal and is dropped; every
// other parse failure falls back to the documented default.
func buildRecord(row []string, columns ColumnMap, index int) (models.TradeRecord, bool) {
	symbol := NormalizeSymbol(cell(row, columns.Index(ColSymbol)))
	if symbol == "" {
		return models.TradeRecord{}, false
	}

	contractType, ok := ParseContractType(cell(row, columns.Index(ColContractType)))
	if !ok {
		return models.TradeRecord{}, false
	}

	premiumText := strings.TrimSpace(cell(row, columns.Index(ColPremium)))

	rec := models.TradeRecord{
		Symbol:       symbol,
		StockLast:    ParsePrice(cell(row, columns.Index(ColStockLast))),
		Strike:       strings.TrimSpace(cell(row, columns.Index(ColStrike))),
		ContractType: contractType,
		Expiration:   ParseExpiration(cell(row, columns.Index(ColExpiration))),
		PremiumText:  premiumText,
		Premium:      ParsePremium(premiumText),
		Spread:       strings.TrimSpace(cell(row, columns.Index(ColSpread))),
		Flags:        strings.TrimSpace(cell(row, columns.Index(ColFlags))),
		Alerts:       strings.TrimSpace(cell(row, columns.Index(ColAlerts))),
		TradeSize:    ParseNumber(cell(row, columns.Index(ColTradeSize))),
		OpenInterest: ParseNumber(cell(row, columns.Index(ColOpenInterest))),
		Row:          index,
	}
	return rec, true
}
