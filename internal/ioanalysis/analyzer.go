// Package ioanalysis implements the Analyzer interface: it orchestrates
// the change pipeline over all series of the corpus and assembles the
// result tables. The numeric work itself lives in the pure packages
// obs, series, change, species and inequality.
package ioanalysis

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnveg/pkg/change"
	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/inequality"
	"github.com/gnames/gnveg/pkg/lifecycle"
	"github.com/gnames/gnveg/pkg/obs"
	"github.com/gnames/gnveg/pkg/series"
	"github.com/gnames/gnveg/pkg/species"
	"golang.org/x/sync/errgroup"
)

// analyzer implements the lifecycle.Analyzer interface.
type analyzer struct {
	// withProgress switches the terminal progress bar; disabled in
	// tests.
	withProgress bool
}

// NewAnalyzer creates a new Analyzer with a terminal progress bar.
func NewAnalyzer() lifecycle.Analyzer {
	return &analyzer{withProgress: true}
}

// NewQuietAnalyzer creates an Analyzer without a progress bar.
func NewQuietAnalyzer() lifecycle.Analyzer {
	return &analyzer{}
}

// seriesResult carries the per-series change records from a worker to
// the collector.
type seriesResult struct {
	speciesRecs []change.IntervalChangeRecord
	plotRecs    []change.PlotChangeRecord
}

// Analyze runs the full pipeline: layer merging, series construction,
// per-series change metrics in parallel, species aggregation and
// inequality statistics.
func (a *analyzer) Analyze(
	ctx context.Context,
	cfg *config.Config,
	surveys []obs.Survey,
	observations []obs.Observation,
) (*lifecycle.Results, error) {
	merged := obs.MergeLayers(observations)

	allSeries := series.Build(surveys, merged)
	if len(allSeries) == 0 {
		return nil, NoSeriesError()
	}

	slog.Info("Built time series",
		"series", humanize.Comma(int64(len(allSeries))),
		"merged_observations", humanize.Comma(int64(len(merged))))

	speciesRecs, plotRecs, err := a.seriesChanges(ctx, cfg, allSeries)
	if err != nil {
		return nil, err
	}

	sortSpeciesRecords(speciesRecs)
	sortPlotRecords(plotRecs)

	res := &lifecycle.Results{
		SpeciesChanges: speciesRecs,
		PlotChanges:    plotRecs,
	}

	res.SpeciesSummaries = species.Build(speciesRecs, speciesOptions(cfg))
	res.Inequality = inequalityAnalyses(res, inequalityOptions(cfg))

	slog.Info("Analysis finished",
		"species_changes", humanize.Comma(int64(len(res.SpeciesChanges))),
		"plot_changes", humanize.Comma(int64(len(res.PlotChanges))),
		"species", humanize.Comma(int64(len(res.SpeciesSummaries))))

	return res, nil
}

// seriesChanges computes change records for every series on a worker
// pool. Series are independent, so workers take them in any order; the
// final sort restores determinism.
func (a *analyzer) seriesChanges(
	ctx context.Context,
	cfg *config.Config,
	allSeries []series.Series,
) ([]change.IntervalChangeRecord, []change.PlotChangeRecord, error) {
	jobs := cfg.JobsNumber
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}

	chIn := make(chan series.Series)
	chOut := make(chan seriesResult)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, ser := range allSeries {
			select {
			case chIn <- ser:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers errgroup.Group
	for range jobs {
		workers.Go(func() error {
			for ser := range chIn {
				res, err := changesForSeries(ser)
				if err != nil {
					// A failed series aborts only its own partition.
					slog.Warn("Skipping series",
						"project", ser.ProjectID,
						"plot", ser.PlotCode,
						"error", err)
					continue
				}
				select {
				case chOut <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(chOut)
		return workers.Wait()
	})

	var bar *pb.ProgressBar
	if a.withProgress {
		bar = newProgressBar(len(allSeries), "series ")
		defer bar.Finish()
	}

	var speciesRecs []change.IntervalChangeRecord
	var plotRecs []change.PlotChangeRecord
	for res := range chOut {
		speciesRecs = append(speciesRecs, res.speciesRecs...)
		plotRecs = append(plotRecs, res.plotRecs...)
		if bar != nil {
			bar.Increment()
		}
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return speciesRecs, plotRecs, nil
}

// changesForSeries wraps the pure change computation, converting a
// structural violation (panic) into a diagnosable error for this
// series only.
func changesForSeries(
	ser series.Series,
) (res seriesResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = SeriesError(ser.ProjectID, ser.PlotCode, r)
		}
	}()

	res.speciesRecs, res.plotRecs = change.Changes(ser)
	return res, err
}

func speciesOptions(cfg *config.Config) species.Options {
	opts := species.NewOptions()
	if cfg.Analysis.IncludeZeroChanges != nil {
		opts.IncludeZeros = *cfg.Analysis.IncludeZeroChanges
	}
	if cfg.Analysis.Alpha > 0 {
		opts.Alpha = cfg.Analysis.Alpha
	}
	if cfg.Analysis.MinSpeciesObservations > 0 {
		opts.MinObservations = cfg.Analysis.MinSpeciesObservations
	}
	return opts
}

func inequalityOptions(cfg *config.Config) inequality.Options {
	opts := inequality.NewOptions()
	if cfg.Analysis.BootstrapResamples > 0 {
		opts.Resamples = cfg.Analysis.BootstrapResamples
	}
	opts.Seed = cfg.Analysis.BootstrapSeed
	return opts
}

// inequalityAnalyses computes the four Lorenz/Gini summaries: raw
// change magnitudes and per-species mean magnitudes, each split into
// losses and gains.
func inequalityAnalyses(
	res *lifecycle.Results,
	opts inequality.Options,
) []inequality.Analysis {
	var raw []float64
	for _, rec := range res.SpeciesChanges {
		if rec.AbsoluteChange.Valid {
			raw = append(raw, rec.AbsoluteChange.Float64)
		}
	}
	rawNeg, rawPos := inequality.Split(raw)

	var speciesMeans []float64
	for _, agg := range res.SpeciesSummaries {
		speciesMeans = append(speciesMeans, agg.MeanAbsoluteChange)
	}
	meanNeg, meanPos := inequality.Split(speciesMeans)

	return []inequality.Analysis{
		inequality.Analyze("raw_negative", rawNeg, opts),
		inequality.Analyze("raw_positive", rawPos, opts),
		inequality.Analyze("species_mean_negative", meanNeg, opts),
		inequality.Analyze("species_mean_positive", meanPos, opts),
	}
}

func sortSpeciesRecords(recs []change.IntervalChangeRecord) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.PlotCode != b.PlotCode {
			return a.PlotCode < b.PlotCode
		}
		if a.YearTo != b.YearTo {
			return a.YearTo > b.YearTo
		}
		return a.Species < b.Species
	})
}

func sortPlotRecords(recs []change.PlotChangeRecord) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.PlotCode != b.PlotCode {
			return a.PlotCode < b.PlotCode
		}
		return a.YearTo > b.YearTo
	})
}
