package lifecycle

import (
	"context"

	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/datasets"
	"github.com/gnames/gnveg/pkg/obs"
)

// Ingestor defines the interface for reading survey observations from
// configured datasets. Datasets come as CSV file pairs or SQLite
// databases; the ingestor normalizes them into one observation stream.
//
// Ingestion is tolerant of malformed rows: bad rows are skipped and
// counted, not fatal. A dataset whose files cannot be opened at all is
// an error.
type Ingestor interface {
	// Ingest reads all given datasets and returns their surveys and
	// observations. Species names are canonicalized when name
	// normalization is enabled in the configuration.
	Ingest(
		ctx context.Context,
		cfg *config.Config,
		ds []datasets.DatasetConfig,
	) ([]obs.Survey, []obs.Observation, error)
}
