// Package ioexport implements the Exporter interface: it persists
// analysis results to PostgreSQL result tables and to CSV files.
package ioexport

import (
	"context"

	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/db"
	"github.com/gnames/gnveg/pkg/lifecycle"
)

// resultTables lists the result tables in load order.
var resultTables = []string{
	"species_changes",
	"plot_changes",
	"species_summaries",
	"lorenz_points",
	"gini_stats",
}

// exporter implements the lifecycle.Exporter interface.
type exporter struct {
	operator db.Operator
}

// NewExporter creates a new Exporter over the given database
// operator. The operator may stay disconnected when the run skips
// the database.
func NewExporter(op db.Operator) lifecycle.Exporter {
	return &exporter{operator: op}
}

// Export writes the analysis results to the configured destinations:
// CSV files when CSVDir is set, PostgreSQL unless SkipDatabase is set.
func (e *exporter) Export(
	ctx context.Context,
	cfg *config.Config,
	res *lifecycle.Results,
) error {
	if cfg.Export.CSVDir != "" {
		if err := e.exportCSV(cfg.Export.CSVDir, res); err != nil {
			return err
		}
	}

	if cfg.Export.SkipDatabase {
		return nil
	}

	return e.exportDatabase(ctx, cfg, res)
}
