// Package exporter writes cleaned student tables for download.
//
// CSVWriter produces CSV with an optional UTF-8 BOM so spreadsheet
// programs detect the encoding. ExcelWriter produces an .xlsx workbook
// with a data sheet and, when given, statistics and summary sheets.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(logger)
//	err := csvWriter.WriteTable(w, cleaned, true)
//
//	xlsx := exporter.NewExcelWriter(logger)
//	err = xlsx.Write(w, exporter.Workbook{Table: cleaned, Statistics: stats})
package exporter
