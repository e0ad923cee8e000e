package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaxclean.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with empty file",
			file: "{}\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, DefaultEarlyCutoff, cfg.Cleaning.EarlyCutoff)
				assert.Equal(t, DefaultMidCutoff, cfg.Cleaning.MidCutoff)
				assert.False(t, cfg.Cleaning.StrictAgeGroups)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "file overrides defaults",
			file: "logging:\n  level: debug\ncleaning:\n  strict_age_groups: true\n  mid_cutoff: \"2022-07-01\"\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.True(t, cfg.Cleaning.StrictAgeGroups)
				assert.Equal(t, "2022-07-01", cfg.Cleaning.MidCutoff)
				// untouched keys keep defaults
				assert.Equal(t, DefaultEarlyCutoff, cfg.Cleaning.EarlyCutoff)
			},
		},
		{
			name: "env overrides file",
			file: "logging:\n  level: debug\n",
			env: map[string]string{
				"VAXCLEAN_LOGGING_LEVEL":              "warn",
				"VAXCLEAN_CLEANING_STRICT_AGE_GROUPS": "true",
				"VAXCLEAN_PATHS_BASE_DIR":             "/srv/vaxclean",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.True(t, cfg.Cleaning.StrictAgeGroups)
				assert.Equal(t, "/srv/vaxclean", cfg.Paths.BaseDir)
			},
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "cutoffs out of order",
			file:    "cleaning:\n  early_cutoff: \"2022-06-01\"\n  mid_cutoff: \"2021-12-01\"\n",
			wantErr: true,
		},
		{
			name:    "malformed cutoff",
			env:     map[string]string{"VAXCLEAN_CLEANING_EARLY_CUTOFF": "12/01/2021"},
			file:    "{}\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "logging: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfigFile(t, tt.file)

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_FileOutputRequiresPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""
	assert.Error(t, cfg.Validate())

	cfg.Logging.FilePath = "logs/app.log"
	assert.NoError(t, cfg.Validate())
}

func TestCleaningConfig_Cutoffs(t *testing.T) {
	early, mid, err := Default().Cleaning.Cutoffs()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC), early)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), mid)
}

func TestConfig_ResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data", "raw", RawDatasetFile), paths.RawCSV)
	assert.Equal(t, filepath.Join(base, "data", "cleaned", CleanedDatasetFile), paths.CleanedCSV)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
}

func TestConfig_ResolvePaths_RelativeBase(t *testing.T) {
	cfg := Default()
	cfg.Paths.BaseDir = "run"

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "run"), paths.BaseDir)
	assert.True(t, filepath.IsAbs(paths.CleanedCSV))
}
