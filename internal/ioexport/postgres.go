package ioexport

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnuuid"
	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/lifecycle"
	"github.com/jackc/pgx/v5"
)

// exportDatabase truncates the result tables and bulk-loads the fresh
// results with pgx CopyFrom. The load is batched so one oversized
// campaign does not pin all rows in a single copy buffer.
func (e *exporter) exportDatabase(
	ctx context.Context,
	cfg *config.Config,
	res *lifecycle.Results,
) error {
	if err := e.operator.TruncateTables(ctx, resultTables); err != nil {
		return err
	}

	batchSize := cfg.Database.BatchSize
	if batchSize == 0 {
		batchSize = 50_000
	}

	loads := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{
			"species_changes",
			[]string{
				"project_id", "plot_code", "year_from", "year_to",
				"n_from", "n_to", "species_id", "species",
				"absolute_change", "relative_change",
				"relative_rank_change", "colonizer_change",
				"extinction_change",
			},
			speciesChangeRows(res),
		},
		{
			"plot_changes",
			[]string{
				"project_id", "plot_code", "year_from", "year_to",
				"n_from", "n_to", "log_richness_change",
				"log_shannon_change", "log_evenness_change",
				"curve_diff", "log_rank_change", "log_rank_change_sum",
				"mean_cover_change", "median_cover_change",
				"gains_minus_losses",
			},
			plotChangeRows(res),
		},
		{
			"species_summaries",
			[]string{
				"species_id", "species", "n_observations",
				"n_positive", "n_negative", "n_zero",
				"increase_probability", "increase_probability_ci_low",
				"increase_probability_ci_high", "p_value",
				"adjusted_p_value", "mean_absolute_change",
				"significant",
			},
			speciesSummaryRows(res),
		},
		{
			"lorenz_points",
			[]string{
				"analysis", "point_index", "cum_units",
				"cum_magnitude",
			},
			lorenzPointRows(res),
		},
		{
			"gini_stats",
			[]string{
				"analysis", "n", "coefficient", "ci_low", "ci_high",
				"resamples", "seed",
			},
			giniStatRows(res, cfg),
		},
	}

	for _, load := range loads {
		if err := e.copyRows(
			ctx, load.table, load.columns, load.rows, batchSize,
		); err != nil {
			return err
		}
		slog.Info("Exported table",
			"table", load.table,
			"rows", humanize.Comma(int64(len(load.rows))))
	}

	return nil
}

// copyRows performs batched bulk inserts using pgx CopyFrom.
func (e *exporter) copyRows(
	ctx context.Context,
	table string,
	columns []string,
	rows [][]any,
	batchSize int,
) error {
	pool := e.operator.Pool()

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))

		_, err := pool.CopyFrom(
			ctx,
			pgx.Identifier{table},
			columns,
			pgx.CopyFromRows(rows[i:end]),
		)
		if err != nil {
			return CopyError(table, err)
		}
	}

	return nil
}

func speciesChangeRows(res *lifecycle.Results) [][]any {
	rows := make([][]any, len(res.SpeciesChanges))
	for i, rec := range res.SpeciesChanges {
		rows[i] = []any{
			rec.ProjectID, rec.PlotCode, rec.YearFrom, rec.YearTo,
			rec.NFrom, rec.NTo,
			gnuuid.New(rec.Species).String(), rec.Species,
			nullable(rec.AbsoluteChange),
			nullable(rec.RelativeChange),
			rec.RelativeRankChange,
			nullable(rec.ColonizerChange),
			nullable(rec.ExtinctionChange),
		}
	}
	return rows
}

func plotChangeRows(res *lifecycle.Results) [][]any {
	rows := make([][]any, len(res.PlotChanges))
	for i, rec := range res.PlotChanges {
		rows[i] = []any{
			rec.ProjectID, rec.PlotCode, rec.YearFrom, rec.YearTo,
			rec.NFrom, rec.NTo,
			rec.LogRichnessChange, rec.LogShannonChange,
			rec.LogEvennessChange, rec.CurveDiff,
			rec.LogRankChange, rec.LogRankChangeSum,
			rec.MeanCoverChange, rec.MedianCoverChange,
			rec.GainsMinusLosses,
		}
	}
	return rows
}

func speciesSummaryRows(res *lifecycle.Results) [][]any {
	rows := make([][]any, len(res.SpeciesSummaries))
	for i, agg := range res.SpeciesSummaries {
		rows[i] = []any{
			gnuuid.New(agg.Species).String(), agg.Species,
			agg.Observations, agg.Positive, agg.Negative, agg.Zero,
			agg.Estimate, agg.CILow, agg.CIHigh,
			agg.PValue, agg.AdjustedPValue,
			agg.MeanAbsoluteChange, agg.Significant,
		}
	}
	return rows
}

func lorenzPointRows(res *lifecycle.Results) [][]any {
	var rows [][]any
	for _, a := range res.Inequality {
		for i, p := range a.Curve {
			rows = append(rows, []any{
				a.Name, i, p.Units, p.Magnitude,
			})
		}
	}
	return rows
}

func giniStatRows(
	res *lifecycle.Results,
	cfg *config.Config,
) [][]any {
	rows := make([][]any, len(res.Inequality))
	for i, a := range res.Inequality {
		rows[i] = []any{
			a.Name, a.N, a.Gini.Coefficient,
			a.Gini.CILow, a.Gini.CIHigh,
			a.Gini.Resamples, cfg.Analysis.BootstrapSeed,
		}
	}
	return rows
}

// nullable converts sql.NullFloat64 to the nil-or-value form CopyFrom
// expects.
func nullable(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
