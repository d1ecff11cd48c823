package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records per bulk insert during
// export.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptIngestDatasetNames limits the run to the named datasets from
// datasets.yaml. Empty slice means process all datasets.
// Runtime-only field - not in ToOptions().
func OptIngestDatasetNames(ss []string) Option {
	return func(c *Config) {
		if len(ss) > 0 {
			c.Ingest.DatasetNames = ss
		}
	}
}

// OptIngestNormalizeNames enables species name canonicalization with
// gnparser during ingestion.
// Uses pointer to distinguish between unset (nil) and false.
func OptIngestNormalizeNames(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Ingest.NormalizeNames = b
		}
	}
}

// OptAnalysisBootstrapResamples sets the number of bootstrap resamples for
// the Gini confidence intervals.
func OptAnalysisBootstrapResamples(i int) Option {
	return func(c *Config) {
		if isValidInt("Bootstrap Resamples", i) {
			c.Analysis.BootstrapResamples = i
		}
	}
}

// OptAnalysisBootstrapSeed sets the bootstrap RNG seed. Any value is valid;
// a fixed seed keeps reruns byte-identical.
func OptAnalysisBootstrapSeed(i int64) Option {
	return func(c *Config) {
		c.Analysis.BootstrapSeed = i
	}
}

// OptAnalysisIncludeZeroChanges counts exactly-zero cover changes as trials
// of the per-species binomial test.
// Uses pointer to distinguish between unset (nil) and false.
func OptAnalysisIncludeZeroChanges(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Analysis.IncludeZeroChanges = b
		}
	}
}

// OptAnalysisMinSpeciesObservations sets the minimal number of observations
// a species needs to qualify as a significant mover.
func OptAnalysisMinSpeciesObservations(i int) Option {
	return func(c *Config) {
		if isValidInt("Min Species Observations", i) {
			c.Analysis.MinSpeciesObservations = i
		}
	}
}

// OptAnalysisAlpha sets the family-wise significance level.
// Valid values are in (0,1).
func OptAnalysisAlpha(f float64) Option {
	return func(c *Config) {
		if isValidProbability("Alpha", f) {
			c.Analysis.Alpha = f
		}
	}
}

// OptExportCSVDir sets the directory for CSV result export.
// Runtime-only field - not in ToOptions().
func OptExportCSVDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.Export.CSVDir = s
		}
	}
}

// OptExportSkipDatabase suppresses the PostgreSQL export.
// Runtime-only field - not in ToOptions().
func OptExportSkipDatabase(b bool) Option {
	return func(c *Config) {
		c.Export.SkipDatabase = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel
// operations. Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
