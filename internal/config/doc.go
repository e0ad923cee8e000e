// Package config provides configuration management for vaxclean.
// It handles loading configuration from multiple sources, validation, and
// path resolution.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (vaxclean.yaml or configs/vaxclean.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern VAXCLEAN_<SECTION>_<FIELD>:
//
//	VAXCLEAN_LOGGING_LEVEL=debug
//	VAXCLEAN_PATHS_BASE_DIR=/srv/vaxclean
//	VAXCLEAN_CLEANING_STRICT_AGE_GROUPS=true
//	VAXCLEAN_CLEANING_EARLY_CUTOFF=2021-12-01
//	VAXCLEAN_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Struct tags are checked with go-playground/validator, followed by
// cross-field rules such as the early cutoff preceding the mid cutoff.
//
// # Path Management
//
// Paths lays out data/raw, data/cleaned and logs under a base directory,
// which defaults to the executable's directory:
//
//	paths, err := cfg.ResolvePaths()
//	input := paths.RawCSV
package config
