package lifecycle

import (
	"context"

	"github.com/gnames/gnveg/pkg/config"
)

// Exporter defines the interface for persisting analysis results.
// Results go to PostgreSQL result tables, to CSV files, or both,
// depending on the export configuration.
//
// Database export always rebuilds from scratch: result tables are
// truncated before bulk loading, so a re-run never leaves stale rows.
type Exporter interface {
	// Export writes the analysis results to the configured destinations.
	Export(ctx context.Context, cfg *config.Config, res *Results) error
}
