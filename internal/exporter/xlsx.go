package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"vaxclean/internal/errors"
	"vaxclean/pkg/contracts/domain"
)

// CleanedSheet is the name of the worksheet holding the cleaned table
const CleanedSheet = "Cleaned"

// XLSXWriter exports a cleaned table as an Excel workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteTable writes table to a single-sheet workbook at path. Numbers are
// stored as numeric cells and nulls as empty cells.
func (w *XLSXWriter) WriteTable(ctx context.Context, path string, table *domain.VaccinationTable) error {
	w.logger.InfoContext(ctx, "Writing XLSX file",
		slog.String("path", path),
		slog.Int("record_count", table.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err).WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CleanedSheet); err != nil {
		return errors.NewStorageError("failed to name sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.NewStorageError("failed to create header style", err)
	}

	sw, err := f.NewStreamWriter(CleanedSheet)
	if err != nil {
		return errors.NewStorageError("failed to create stream writer", err)
	}

	header := TableHeader(table)
	if err := sw.SetColWidth(1, len(header), 16); err != nil {
		return errors.NewStorageError("failed to set column width", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return errors.NewStorageError("failed to freeze header row", err)
	}

	headerCells := make([]interface{}, len(header))
	for i, name := range header {
		headerCells[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return errors.NewStorageError("failed to write header row", err)
	}

	for i, row := range tableValues(table) {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("invalid cell reference", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return errors.NewStorageError("failed to write row", err).WithContext("row", i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.NewStorageError("failed to flush workbook", err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}
	return nil
}
