// Package importer turns uploaded CSV files into catalog products. The
// files come from spreadsheets kept by hand, so headers arrive in
// Spanish or English, with or without accents, in any casing.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cazuela-chapina/cazuela/internal/catalog"
)

// Creator is the slice of the catalog service the importer needs.
type Creator interface {
	Create(ctx context.Context, product catalog.Product) (catalog.Product, error)
}

// RowError records one failed row. Row numbers count from 1 and include
// the header line, matching what the spreadsheet shows.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarises an import run.
type Result struct {
	Total  int        `json:"total"`
	Done   int        `json:"done"`
	Failed int        `json:"failed"`
	Errors []RowError `json:"errors"`
}

// Importer feeds CSV rows through the ingestion adapter into the
// catalog, one row at a time. A failed row is recorded and skipped;
// the rest of the file still imports.
type Importer struct {
	logger  *slog.Logger
	catalog Creator
}

// New constructs an Importer.
func New(logger *slog.Logger, creator Creator) *Importer {
	return &Importer{logger: logger, catalog: creator}
}

// headerAliases maps normalized header spellings to the canonical
// record key the ingestion adapter understands.
var headerAliases = map[string]string{
	"nombre_producto": "name",
	"nombre":          "name",
	"name":            "name",
	"tipo_producto":   "kind",
	"tipo":            "kind",
	"type":            "kind",
	"kind":            "kind",
	"precio_base":     "price",
	"precio":          "price",
	"price":           "price",
	"descripcion":     "description",
	"description":     "description",
	"disponible":      "available",
	"available":       "available",
	"personalizable":  "customizable",
	"customizable":    "customizable",
	"atributos":       "attributes",
	"attributes":      "attributes",
}

// accentStripper removes combining marks so "Descripción" and
// "descripcion" normalize to the same header.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeHeader(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	raw = strings.ToLower(strings.TrimSpace(raw))
	if stripped, _, err := transform.String(accentStripper, raw); err == nil {
		raw = stripped
	}
	return strings.ReplaceAll(raw, " ", "_")
}

// ImportCSV reads the whole file and creates one product per data row.
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, fmt.Errorf("empty file")
	}
	if err != nil {
		return Result{}, err
	}

	columns := make([]string, len(header))
	known := 0
	for i, h := range header {
		if key, ok := headerAliases[normalizeHeader(h)]; ok {
			columns[i] = key
			known++
		}
	}
	if known == 0 {
		return Result{}, fmt.Errorf("no recognizable columns in header")
	}

	var result Result
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		result.Total++

		record := make(map[string]any, known)
		for i, value := range fields {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			record[columns[i]] = value
		}

		product := catalog.FromRecord(record)
		if _, err := imp.catalog.Create(ctx, product); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
			imp.logger.Warn("import row failed", slog.Int("row", row), slog.Any("error", err))
			continue
		}
		result.Done++
	}
	return result, nil
}
