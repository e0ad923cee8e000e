package validation

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vaxclean/internal/errors"
)

// FileValidator checks input and output paths before a cleaning run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is a readable, non-empty CSV file
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if stderrors.Is(err, os.ErrNotExist) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return errors.NewNotFoundError("input file", err).WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return errors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		v.logger.Error("Input file is not a CSV file",
			slog.String("file", path))
		return errors.NewValidationError(fmt.Sprintf("%s is not a .csv file", path), nil)
	}
	if info.Size() == 0 {
		v.logger.Error("Input file is empty",
			slog.String("file", path))
		return errors.NewValidationError(fmt.Sprintf("%s is empty", path), nil)
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("input file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFiles checks that every output can be written and none of
// them would overwrite the input or each other. Empty entries are skipped.
func (v *FileValidator) ValidateOutputFiles(input string, outputs ...string) error {
	seen := map[string]bool{cleanPath(input): true}

	for _, out := range outputs {
		if out == "" {
			continue
		}
		p := cleanPath(out)
		if seen[p] {
			v.logger.Error("Output path collides with another file of this run",
				slog.String("path", out))
			return errors.NewValidationError(fmt.Sprintf("output %s would overwrite the input or another output", out), nil)
		}
		seen[p] = true

		if err := v.ValidateOutputDirectory(filepath.Dir(out)); err != nil {
			return err
		}
	}
	return nil
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
