package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"studentlens/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM so spreadsheets detect the encoding
}

// WriteCSV writes headers and records to w
func (c *CSVWriter) WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes every row of t in column order. Missing cells are empty.
func (c *CSVWriter) WriteTable(w io.Writer, t *domain.Table, bom bool) error {
	headers, records := TableRecords(t)

	c.logger.Debug("Writing table as CSV",
		slog.Int("columns", len(headers)),
		slog.Int("record_count", len(records)))

	return c.WriteCSV(w, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: bom,
	})
}

// TableRecords flattens t into a header row and string records.
func TableRecords(t *domain.Table) ([]string, [][]string) {
	headers := t.Columns()
	records := make([][]string, t.Len())
	for i := range records {
		record := make([]string, len(headers))
		for j, col := range headers {
			record[j] = formatValue(t.Value(i, col))
		}
		records[i] = record
	}
	return headers, records
}
