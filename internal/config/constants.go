package config

import "vaxclean/pkg/contracts"

// Application constants
const (
	AppName    = "vaxclean"
	AppVersion = contracts.Version

	// DateLayout is used for cutoffs and for dates written to output files
	DateLayout = "2006-01-02"

	// Vaccination period thresholds
	DefaultEarlyCutoff = "2021-12-01"
	DefaultMidCutoff   = "2022-06-01"

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultRawDir     = "raw"
	DefaultCleanedDir = "cleaned"

	// Well-known dataset files
	RawDatasetFile     = "COVID19_Vaccination_Outcomes.csv"
	CleanedDatasetFile = "COVID19_Vaccination_Outcomes_Cleaned.csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
