package lifecycle

import (
	"context"

	"github.com/gnames/gnveg/pkg/change"
	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/inequality"
	"github.com/gnames/gnveg/pkg/obs"
	"github.com/gnames/gnveg/pkg/species"
)

// Results holds the complete output of one analysis run. All slices are
// sorted by their natural keys, so identical inputs produce identical
// results regardless of worker scheduling.
type Results struct {
	// SpeciesChanges has one row per species per consecutive survey pair.
	SpeciesChanges []change.IntervalChangeRecord

	// PlotChanges has one row per plot per consecutive survey pair.
	PlotChanges []change.PlotChangeRecord

	// SpeciesSummaries aggregates interval changes across all plots,
	// one row per species.
	SpeciesSummaries []species.Aggregate

	// Inequality holds Lorenz curves and Gini coefficients for the
	// negative/positive change magnitude distributions, both raw and
	// averaged per species.
	Inequality []inequality.Analysis
}

// Analyzer defines the interface for running the change analysis over
// ingested observations: layer merging, time series assembly, interval
// changes, species aggregation, and inequality statistics.
type Analyzer interface {
	// Analyze runs the full pipeline. Plots with fewer than two survey
	// years are dropped. Individual series failures are logged and
	// skipped rather than aborting the run.
	Analyze(
		ctx context.Context,
		cfg *config.Config,
		surveys []obs.Survey,
		observations []obs.Observation,
	) (*Results, error)
}
