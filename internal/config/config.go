package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. VAXCLEAN_LOGGING_LEVEL.
const EnvPrefix = "VAXCLEAN"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// BaseDir overrides the executable directory as the root for relative paths.
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// CleaningConfig controls the cleaning pipeline
type CleaningConfig struct {
	// StrictAgeGroups drops rows whose age label has no known bucket instead
	// of passing the label through.
	StrictAgeGroups bool   `yaml:"strict_age_groups" envconfig:"STRICT_AGE_GROUPS"`
	EarlyCutoff     string `yaml:"early_cutoff" envconfig:"EARLY_CUTOFF" validate:"required,datetime=2006-01-02"`
	MidCutoff       string `yaml:"mid_cutoff" envconfig:"MID_CUTOFF" validate:"required,datetime=2006-01-02"`
	WriteBOM        bool   `yaml:"write_bom" envconfig:"WRITE_BOM"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty
// filePath searches the usual locations.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath == "" {
		filePath = getConfigFilePath()
	} else if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", filePath, err)
	}

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching env var are left untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	early, mid, err := c.Cleaning.Cutoffs()
	if err != nil {
		return err
	}
	if !early.Before(mid) {
		return fmt.Errorf("early cutoff %s must be before mid cutoff %s",
			c.Cleaning.EarlyCutoff, c.Cleaning.MidCutoff)
	}

	return nil
}

// Cutoffs returns the parsed vaccination period thresholds
func (c CleaningConfig) Cutoffs() (early, mid time.Time, err error) {
	early, err = time.Parse(DateLayout, c.EarlyCutoff)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid early cutoff: %w", err)
	}
	mid, err = time.Parse(DateLayout, c.MidCutoff)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid mid cutoff: %w", err)
	}
	return early, mid, nil
}

// ResolvePaths builds the Paths for this configuration. The base directory
// is made absolute so resolved paths do not depend on the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		exeDir, err := ExecutableDir()
		if err != nil {
			return nil, err
		}
		base = exeDir
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	return NewPaths(base, c.Paths.DataDir, c.Paths.LogsDir), nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"vaxclean.yaml",
		"configs/vaxclean.yaml",
		"../configs/vaxclean.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/vaxclean.log",
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
		Cleaning: CleaningConfig{
			StrictAgeGroups: false,
			EarlyCutoff:     DefaultEarlyCutoff,
			MidCutoff:       DefaultMidCutoff,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			EnableMetrics: true,
			SampleRatio:   1.0,
			Environment:   "development",
		},
	}
}
