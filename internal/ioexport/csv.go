package ioexport

import (
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gnames/gnveg/pkg/lifecycle"
)

// exportCSV writes one CSV file per result table into dir. Null fields
// render as empty strings; non-finite values render as NaN, Inf and
// -Inf so re-imports preserve the degeneracy information.
func (e *exporter) exportCSV(
	dir string,
	res *lifecycle.Results,
) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CSVExportError(dir, err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{
			"species_changes.csv",
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
			"plot_changes.csv",
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
			"species_summaries.csv",
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
			"lorenz_points.csv",
			[]string{
				"analysis", "point_index", "cum_units",
				"cum_magnitude",
			},
			lorenzPointRows(res),
		},
		{
			"gini_stats.csv",
			[]string{
				"analysis", "n", "coefficient", "ci_low", "ci_high",
				"resamples",
			},
			giniCSVRows(res),
		},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSVFile(path, f.header, f.rows); err != nil {
			return err
		}
		slog.Info("Wrote CSV file",
			"file", path, "rows", len(f.rows))
	}

	return nil
}

// giniCSVRows mirrors giniStatRows without the seed column, which is a
// run parameter rather than a statistic.
func giniCSVRows(res *lifecycle.Results) [][]any {
	rows := make([][]any, len(res.Inequality))
	for i, a := range res.Inequality {
		rows[i] = []any{
			a.Name, a.N, a.Gini.Coefficient,
			a.Gini.CILow, a.Gini.CIHigh,
			a.Gini.Resamples,
		}
	}
	return rows
}

func writeCSVFile(
	path string,
	header []string,
	rows [][]any,
) error {
	f, err := os.Create(path)
	if err != nil {
		return CSVExportError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return CSVExportError(path, err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatField(v)
		}
		if err := w.Write(record); err != nil {
			return CSVExportError(path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return CSVExportError(path, err)
	}

	return nil
}

func formatField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
