package ioexport

import (
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnveg/pkg/change"
	"github.com/gnames/gnveg/pkg/inequality"
	"github.com/gnames/gnveg/pkg/lifecycle"
	"github.com/gnames/gnveg/pkg/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResults() *lifecycle.Results {
	return &lifecycle.Results{
		SpeciesChanges: []change.IntervalChangeRecord{
			{
				ProjectID: 1, PlotCode: "p1",
				YearFrom: 1990, YearTo: 2020,
				NFrom: 1, NTo: 1,
				Species: "Carex flacca",
				AbsoluteChange: sql.NullFloat64{
					Float64: -45, Valid: true},
				RelativeChange: sql.NullFloat64{
					Float64: -0.6, Valid: true},
				RelativeRankChange: 0.5,
			},
			{
				ProjectID: 1, PlotCode: "p1",
				YearFrom: 1990, YearTo: 2020,
				NFrom: 1, NTo: 1,
				Species: "Urtica dioica",
				AbsoluteChange: sql.NullFloat64{
					Float64: 10, Valid: true},
				ColonizerChange: sql.NullFloat64{
					Float64: 10, Valid: true},
			},
		},
		PlotChanges: []change.PlotChangeRecord{
			{
				ProjectID: 1, PlotCode: "p1",
				YearFrom: 1990, YearTo: 2020,
				NFrom: 1, NTo: 1,
				LogRichnessChange: -0.405,
				LogEvennessChange: math.NaN(),
				LogRankChange:     math.Inf(1),
				GainsMinusLosses:  -1,
			},
		},
		SpeciesSummaries: []species.Aggregate{
			{
				Species: "Carex flacca", Observations: 1,
				Negative: 1, Estimate: 0, PValue: 1,
				AdjustedPValue: 1, MeanAbsoluteChange: -45,
			},
		},
		Inequality: []inequality.Analysis{
			{
				Name: "raw_negative", N: 1,
				Curve: inequality.Curve{{Units: 1, Magnitude: 1}},
				Gini: inequality.GiniResult{
					Coefficient: 0, CILow: 0, CIHigh: 0,
					Resamples: 50,
				},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	e := &exporter{}

	err := e.exportCSV(dir, testResults())
	require.NoError(t, err)

	for _, name := range []string{
		"species_changes.csv", "plot_changes.csv",
		"species_summaries.csv", "lorenz_points.csv",
		"gini_stats.csv",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	rows := readCSV(t, filepath.Join(dir, "species_changes.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "species", rows[0][7])
	assert.Equal(t, "Carex flacca", rows[1][7])
	assert.Equal(t, "-45", rows[1][8])
	// Invalid colonizer change renders empty
	assert.Equal(t, "", rows[1][11])
	// Valid colonizer change on the second record
	assert.Equal(t, "10", rows[2][11])
}

func TestExportCSV_NonFinite(t *testing.T) {
	dir := t.TempDir()
	e := &exporter{}

	err := e.exportCSV(dir, testResults())
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "plot_changes.csv"))
	require.Len(t, rows, 2)

	header, row := rows[0], rows[1]
	byName := make(map[string]string, len(header))
	for i, h := range header {
		byName[h] = row[i]
	}

	assert.Equal(t, "NaN", byName["log_evenness_change"])
	assert.Equal(t, "Inf", byName["log_rank_change"])
	assert.Equal(t, "-1", byName["gains_minus_losses"])
}

func TestExportCSV_Deterministic(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	e := &exporter{}

	require.NoError(t, e.exportCSV(dir1, testResults()))
	require.NoError(t, e.exportCSV(dir2, testResults()))

	for _, name := range []string{
		"species_changes.csv", "gini_stats.csv",
	} {
		b1, err := os.ReadFile(filepath.Join(dir1, name))
		require.NoError(t, err)
		b2, err := os.ReadFile(filepath.Join(dir2, name))
		require.NoError(t, err)
		assert.Equal(t, b1, b2, name)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		msg string
		val float64
		res string
	}{
		{"plain", 1.5, "1.5"},
		{"nan", math.NaN(), "NaN"},
		{"pos inf", math.Inf(1), "Inf"},
		{"neg inf", math.Inf(-1), "-Inf"},
		{"zero", 0, "0"},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, formatFloat(v.val), v.msg)
	}
}
