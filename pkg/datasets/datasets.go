// Package datasets provides configuration and validation for observation
// sources.
//
// This package defines the schema for datasets.yaml, which users provide to
// point GNveg at the observation and survey tables of their resurvey
// campaigns. Sources come either as a pair of CSV files or as tables inside
// a SQLite database.
package datasets

// Loader abstracts loading of the datasets.yaml configuration.
type Loader interface {
	Load() (*DatasetsConfig, error)
}

// Format identifies the physical form of an observation source.
type Format string

const (
	// FormatCSV is a pair of CSV files: observations and surveys.
	FormatCSV Format = "csv"

	// FormatSQLite is a SQLite database holding both tables.
	FormatSQLite Format = "sqlite"
)

// DatasetsConfig represents the complete datasets.yaml configuration file.
type DatasetsConfig struct {
	// Datasets is the list of observation sources to process.
	Datasets []DatasetConfig `yaml:"datasets"`

	// Warnings holds non-fatal validation warnings (not serialized).
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Dataset    string // Name of the dataset
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// DatasetConfig describes one observation source.
//
// The observation table needs columns equivalent to (project_id,
// survey_id, series_survey_id, layer, species, cover_percent); the survey
// table needs (survey_id, project_id, year, plot_code, project_name).
// Column order follows the embedded example in datasets.yaml.
type DatasetConfig struct {
	// Name identifies the dataset in logs, flags and messages.
	Name string `yaml:"name"`

	// Format is "csv" or "sqlite". Defaults to "csv" when omitted.
	Format Format `yaml:"format,omitempty"`

	// ObservationsFile and SurveysFile locate the CSV tables.
	// Used when Format is "csv".
	ObservationsFile string `yaml:"observations_file,omitempty"`
	SurveysFile      string `yaml:"surveys_file,omitempty"`

	// DBFile locates the SQLite database. Used when Format is "sqlite".
	DBFile string `yaml:"db_file,omitempty"`

	// ObservationsTable and SurveysTable name the tables inside the
	// SQLite database. Default to "observations" and "surveys".
	ObservationsTable string `yaml:"observations_table,omitempty"`
	SurveysTable      string `yaml:"surveys_table,omitempty"`
}

// Filter returns the datasets matching the given names, or all datasets
// when names is empty. Unknown names are reported as missing.
func (dc *DatasetsConfig) Filter(names []string) (
	matched []DatasetConfig, missing []string,
) {
	if len(names) == 0 {
		return dc.Datasets, nil
	}

	byName := make(map[string]DatasetConfig, len(dc.Datasets))
	for _, d := range dc.Datasets {
		byName[d.Name] = d
	}
	for _, name := range names {
		if d, ok := byName[name]; ok {
			matched = append(matched, d)
		} else {
			missing = append(missing, name)
		}
	}
	return matched, missing
}
