// Package exporter writes the cleaned vaccination table to disk.
//
// This package contains two writers:
//
// CSVWriter: Core CSV writing functionality with support for headers and a
// UTF-8 BOM for Excel compatibility. WriteTable lays out the input columns in
// their original order followed by the derived columns.
//
// XLSXWriter: Writes the same header and rows to a single "Cleaned" sheet
// with excelize, keeping numbers as numeric cells.
//
// Output formatting: nulls are empty cells, booleans are True/False, dates
// are 2006-01-02 and floats use the shortest representation that reads back
// to the same value.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	err := writer.WriteTable(ctx, "COVID19_Vaccination_Outcomes_Cleaned.csv", table, false)
//
//	err = exporter.NewXLSXWriter(logger).WriteTable(ctx, "cleaned.xlsx", table)
package exporter
