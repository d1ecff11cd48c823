// Package config provides configuration management for GNveg.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Analysis: bootstrap_resamples, bootstrap_seed, include_zero_changes,
//     min_species_observations, alpha
//   - Ingest: normalize_names
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Ingest.DatasetNames, Export.CSVDir, Export.SkipDatabase (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNVEG_ prefix with underscores for nesting:
//
//	GNVEG_DATABASE_HOST=localhost
//	GNVEG_DATABASE_PORT=5432
//	GNVEG_ANALYSIS_BOOTSTRAP_RESAMPLES=1000
//	GNVEG_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNveg configuration.
type Config struct {
	// Database contains PostgreSQL connection settings for result export.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Ingest contains settings for reading observation sources.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	// Analysis contains tunables of the change and inequality engines.
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Export contains settings of the result export step.
	Export ExportConfig `mapstructure:"export" yaml:"export"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations. Default value is set according to the number of
	// available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records per bulk insert during
	// export. Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// IngestConfig contains settings for reading observation sources.
type IngestConfig struct {
	// DatasetNames limits the run to the named datasets from
	// datasets.yaml. Empty slice means process all datasets.
	// Runtime-only field - not in ToOptions().
	DatasetNames []string `mapstructure:"dataset_names" yaml:"dataset_names"`

	// NormalizeNames canonicalizes species name strings with gnparser
	// during ingestion, so the same taxon recorded with and without
	// authorship aggregates under one name.
	NormalizeNames *bool `mapstructure:"normalize_names" yaml:"normalize_names"`
}

// AnalysisConfig contains tunables of the change and inequality engines.
type AnalysisConfig struct {
	// BootstrapResamples is the number of bootstrap resamples behind the
	// Gini confidence intervals. The reference value is 1000.
	BootstrapResamples int `mapstructure:"bootstrap_resamples" yaml:"bootstrap_resamples"`

	// BootstrapSeed feeds the bootstrap RNG. With a fixed seed reruns on
	// identical input produce byte-identical output tables.
	BootstrapSeed int64 `mapstructure:"bootstrap_seed" yaml:"bootstrap_seed"`

	// IncludeZeroChanges counts exactly-zero cover changes as trials of
	// the per-species binomial test instead of treating them as
	// uninformative.
	IncludeZeroChanges *bool `mapstructure:"include_zero_changes" yaml:"include_zero_changes"`

	// MinSpeciesObservations is the minimal number of observations a
	// species needs to qualify as a significant mover.
	MinSpeciesObservations int `mapstructure:"min_species_observations" yaml:"min_species_observations"`

	// Alpha is the family-wise significance level for the significant
	// mover flag.
	Alpha float64 `mapstructure:"alpha" yaml:"alpha"`
}

// ExportConfig contains settings of the result export step.
type ExportConfig struct {
	// CSVDir, when set, writes the result tables as CSV files into the
	// given directory. Runtime-only field - not in ToOptions().
	CSVDir string `mapstructure:"csv_dir" yaml:"csv_dir"`

	// SkipDatabase suppresses the PostgreSQL export; useful together
	// with CSVDir when no database is available.
	// Runtime-only field - not in ToOptions().
	SkipDatabase bool `mapstructure:"skip_database" yaml:"skip_database"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnveg",
			SSLMode:   "disable",
			BatchSize: 50_000,
		},
		Analysis: AnalysisConfig{
			BootstrapResamples:     1000,
			BootstrapSeed:          1,
			MinSpeciesObservations: 100,
			Alpha:                  0.05,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
