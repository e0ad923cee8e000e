package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
type Paths struct {
	BaseDir    string
	DataDir    string
	RawDir     string
	CleanedDir string
	LogsDir    string

	// Well-known dataset files
	RawCSV     string
	CleanedCSV string
}

// ExecutableDir returns the directory of the running binary with symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// NewPaths lays out the directory tree under baseDir. Relative dataDir and
// logsDir are joined to baseDir; absolute ones are used as-is.
//
//	<base>/
//	  ├── data/
//	  │   ├── raw/        (input datasets)
//	  │   └── cleaned/    (pipeline output)
//	  └── logs/
func NewPaths(baseDir, dataDir, logsDir string) *Paths {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(baseDir, dataDir)
	}
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(baseDir, logsDir)
	}

	rawDir := filepath.Join(dataDir, DefaultRawDir)
	cleanedDir := filepath.Join(dataDir, DefaultCleanedDir)

	return &Paths{
		BaseDir:    baseDir,
		DataDir:    dataDir,
		RawDir:     rawDir,
		CleanedDir: cleanedDir,
		LogsDir:    logsDir,
		RawCSV:     filepath.Join(rawDir, RawDatasetFile),
		CleanedCSV: filepath.Join(cleanedDir, CleanedDatasetFile),
	}
}

// EnsureDirectories creates the data, raw, cleaned and logs directories
func (p *Paths) EnsureDirectories(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	directories := []string{
		p.DataDir,
		p.RawDir,
		p.CleanedDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetCleanedPath returns the path for a file in the cleaned directory
func (p *Paths) GetCleanedPath(filename string) string {
	return filepath.Join(p.CleanedDir, filename)
}

// Resolve makes a relative path absolute against the base directory
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("cleaned", p.CleanedDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("dataset_files",
			slog.String("raw_csv", p.RawCSV),
			slog.String("cleaned_csv", p.CleanedCSV),
		))
}
