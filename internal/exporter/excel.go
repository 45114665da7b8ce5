package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"studentlens/pkg/contracts/domain"
)

// Sheet names used in exported workbooks.
const (
	DataSheet       = "Dados"
	StatisticsSheet = "Estatisticas"
	SummarySheet    = "Resumo"
)

// Workbook is the content of an exported spreadsheet. Statistics and Summary
// are optional; their sheets are omitted when nil.
type Workbook struct {
	Table      *domain.Table
	Statistics *domain.ColumnStatistics
	Summary    *domain.DescribeTable
}

// ExcelWriter writes cleaned tables as .xlsx workbooks
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_exporter"))}
}

// Write renders wb and streams the workbook to w.
func (e *ExcelWriter) Write(w io.Writer, wb Workbook) error {
	if wb.Table == nil {
		return fmt.Errorf("workbook has no table")
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), DataSheet)
	if err := writeTableSheet(f, DataSheet, wb.Table); err != nil {
		return err
	}

	if wb.Statistics != nil {
		if err := writeStatisticsSheet(f, wb.Statistics); err != nil {
			return err
		}
	}

	if wb.Summary != nil {
		if err := writeSummarySheet(f, wb.Summary); err != nil {
			return err
		}
	}

	e.logger.Debug("Writing workbook",
		slog.Int("rows", wb.Table.Len()),
		slog.Bool("statistics", wb.Statistics != nil),
		slog.Bool("summary", wb.Summary != nil))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTableSheet(f *excelize.File, sheet string, t *domain.Table) error {
	columns := t.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, len(columns))
		for j, c := range columns {
			row[j] = cellValue(t.Value(i, c))
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeStatisticsSheet(f *excelize.File, stats *domain.ColumnStatistics) error {
	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	var stdDev interface{} = "-"
	if stats.StdDev != nil {
		stdDev = formatFloat(*stats.StdDev)
	}

	rows := [][]interface{}{
		{"Coluna", stats.Column},
		{"Contagem", stats.Count},
		{"Média", formatFloat(stats.Mean)},
		{"Mediana", formatFloat(stats.Median)},
		{"Moda", formatFloat(stats.Mode)},
		{"Desvio padrão", stdDev},
	}
	for i, row := range rows {
		if err := setRow(f, StatisticsSheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary *domain.DescribeTable) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	all := append([][]string{summary.Header}, summary.Rows...)
	for i, rec := range all {
		row := make([]interface{}, len(rec))
		for j, s := range rec {
			row[j] = s
		}
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}
