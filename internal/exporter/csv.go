package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vaxclean/internal/config"
	"vaxclean/internal/errors"
	"vaxclean/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. Relative file names are
// resolved against the cleaned data directory when paths is set.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(ctx context.Context, filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return errors.NewStorageError("failed to create file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return errors.NewStorageError("failed to write BOM", err).WithContext("path", fullPath)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write headers", err).WithContext("path", fullPath)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err).
				WithContext("path", fullPath)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV", err).WithContext("path", fullPath)
	}
	if err := file.Close(); err != nil {
		return errors.NewStorageError("failed to close file", err).WithContext("path", fullPath)
	}
	return nil
}

// WriteTable writes a cleaned table with its derived columns
func (w *CSVWriter) WriteTable(ctx context.Context, filePath string, table *domain.VaccinationTable, bom bool) error {
	return w.WriteCSV(ctx, filePath, WriteOptions{
		Headers:   TableHeader(table),
		Records:   TableRows(table),
		BOMPrefix: bom,
	})
}

// ResolvePath returns the path a file name will be written to
func (w *CSVWriter) ResolvePath(filePath string) string {
	return w.resolvePath(filePath)
}

// resolvePath resolves bare file names to the cleaned data directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	if filepath.Base(filePath) == filePath {
		return w.paths.GetCleanedPath(filePath)
	}
	return w.paths.Resolve(filePath)
}
