package change_test

import (
	"math"
	"testing"

	"github.com/gnames/gnveg/pkg/change"
	"github.com/gnames/gnveg/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoSnapshots builds a minimal descending-year series from two cover maps.
func twoSnapshots(later, earlier map[string]float64) series.Series {
	speciesSet := make(map[string]struct{})
	for sp := range later {
		speciesSet[sp] = struct{}{}
	}
	for sp := range earlier {
		speciesSet[sp] = struct{}{}
	}
	var species []string
	for sp := range speciesSet {
		species = append(species, sp)
	}

	richL, shanL, evenL := diversityOf(later)
	richE, shanE, evenE := diversityOf(earlier)

	return series.Series{
		ProjectID: 1,
		PlotCode:  "p",
		Species:   species,
		Snapshots: []series.Snapshot{
			{Year: 2020, Cover: later, Richness: richL,
				Shannon: shanL, Evenness: evenL, Replicates: 1},
			{Year: 1990, Cover: earlier, Richness: richE,
				Shannon: shanE, Evenness: evenE, Replicates: 1},
		},
	}
}

func diversityOf(cover map[string]float64) (float64, float64, float64) {
	var vals []float64
	for _, c := range cover {
		vals = append(vals, c)
	}
	return series.Diversity(vals)
}

func TestChangesTooShortSeries(t *testing.T) {
	ser := series.Series{
		ProjectID: 1,
		PlotCode:  "p",
		Species:   []string{"x"},
		Snapshots: []series.Snapshot{
			{Year: 2020, Cover: map[string]float64{"x": 5}, Replicates: 1},
		},
	}
	speciesRecs, plotRecs := change.Changes(ser)
	assert.Empty(t, speciesRecs)
	assert.Empty(t, plotRecs)
}

func TestChangesColonizerAndExtinction(t *testing.T) {
	// Species A grows from 10 to 30; species B disappears from 20 to 0.
	ser := twoSnapshots(
		map[string]float64{"A": 30},
		map[string]float64{"A": 10, "B": 20},
	)

	speciesRecs, plotRecs := change.Changes(ser)
	require.Len(t, plotRecs, 1)

	recs := make(map[string]change.IntervalChangeRecord)
	for _, r := range speciesRecs {
		recs[r.Species] = r
	}
	require.Len(t, recs, 2)

	a := recs["A"]
	require.True(t, a.AbsoluteChange.Valid)
	assert.InDelta(t, 20.0, a.AbsoluteChange.Float64, 1e-9)
	assert.False(t, a.ColonizerChange.Valid)
	assert.False(t, a.ExtinctionChange.Valid)
	assert.Equal(t, 1990, a.YearFrom)
	assert.Equal(t, 2020, a.YearTo)

	b := recs["B"]
	require.True(t, b.ExtinctionChange.Valid)
	assert.InDelta(t, -20.0, b.ExtinctionChange.Float64, 1e-9)
	assert.False(t, b.ColonizerChange.Valid)
}

func TestChangesColonizer(t *testing.T) {
	// Species C appears between the two surveys.
	ser := twoSnapshots(
		map[string]float64{"A": 10, "C": 5},
		map[string]float64{"A": 10},
	)

	speciesRecs, _ := change.Changes(ser)
	var c change.IntervalChangeRecord
	for _, r := range speciesRecs {
		if r.Species == "C" {
			c = r
		}
	}
	require.True(t, c.ColonizerChange.Valid)
	assert.InDelta(t, 5.0, c.ColonizerChange.Float64, 1e-9)
	assert.False(t, c.ExtinctionChange.Valid)
}

func TestChangesAbsentFromBothNotEmitted(t *testing.T) {
	// Species "gone" has positive cover only in a third snapshot; in the
	// most recent pair it is absent on both sides.
	ser := series.Series{
		ProjectID: 1,
		PlotCode:  "p",
		Species:   []string{"gone", "stay"},
		Snapshots: []series.Snapshot{
			{Year: 2020, Cover: map[string]float64{"stay": 10},
				Richness: 1, Replicates: 1},
			{Year: 2000, Cover: map[string]float64{"stay": 12},
				Richness: 1, Replicates: 1},
			{Year: 1990, Cover: map[string]float64{"gone": 7, "stay": 9},
				Richness: 2, Replicates: 1},
		},
	}

	speciesRecs, plotRecs := change.Changes(ser)
	require.Len(t, plotRecs, 2)
	require.Len(t, speciesRecs, 4)

	for _, r := range speciesRecs {
		if r.Species == "gone" && r.YearTo == 2020 {
			assert.False(t, r.AbsoluteChange.Valid)
			assert.False(t, r.RelativeChange.Valid)
		}
		if r.Species == "gone" && r.YearTo == 2000 {
			require.True(t, r.AbsoluteChange.Valid)
			assert.InDelta(t, -7.0, r.AbsoluteChange.Float64, 1e-9)
		}
	}
}

func TestChangesRelativeChangeSeriesScaled(t *testing.T) {
	// Max cover of A across the series is 40 (in the earliest snapshot),
	// so relative change in the later pair uses 40, not the pair maximum.
	ser := series.Series{
		ProjectID: 1,
		PlotCode:  "p",
		Species:   []string{"A"},
		Snapshots: []series.Snapshot{
			{Year: 2020, Cover: map[string]float64{"A": 30},
				Richness: 1, Replicates: 1},
			{Year: 2000, Cover: map[string]float64{"A": 10},
				Richness: 1, Replicates: 1},
			{Year: 1990, Cover: map[string]float64{"A": 40},
				Richness: 1, Replicates: 1},
		},
	}

	speciesRecs, _ := change.Changes(ser)
	for _, r := range speciesRecs {
		if r.YearTo == 2020 {
			require.True(t, r.RelativeChange.Valid)
			assert.InDelta(t, (30.0-10.0)/40.0, r.RelativeChange.Float64, 1e-9)
		}
	}
}

func TestChangesGainsMinusLosses(t *testing.T) {
	// Three increasing species, one decreasing: +2.
	ser := twoSnapshots(
		map[string]float64{"a": 5, "b": 6, "c": 7, "d": 1},
		map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4},
	)
	_, plotRecs := change.Changes(ser)
	require.Len(t, plotRecs, 1)
	assert.Equal(t, 2, plotRecs[0].GainsMinusLosses)
}

func TestChangesCommunityLogRatios(t *testing.T) {
	ser := twoSnapshots(
		map[string]float64{"a": 40, "b": 40},
		map[string]float64{"a": 10, "b": 10, "c": 10, "d": 10},
	)
	_, plotRecs := change.Changes(ser)
	require.Len(t, plotRecs, 1)
	rec := plotRecs[0]

	assert.InDelta(t, math.Log(2.0/4.0), rec.LogRichnessChange, 1e-9)
	assert.InDelta(t, math.Log(40.0/10.0), rec.MeanCoverChange, 1e-9)
	assert.InDelta(t, math.Log(40.0/10.0), rec.MedianCoverChange, 1e-9)
	// Both communities are perfectly even, so evenness ratio is 1.
	assert.InDelta(t, 0.0, rec.LogEvennessChange, 1e-9)
}

func TestChangesNonFiniteRetained(t *testing.T) {
	// The earlier snapshot has a single species: its Shannon index is 0
	// and evenness NaN, so the log ratios are non-finite but present.
	ser := twoSnapshots(
		map[string]float64{"a": 10, "b": 10},
		map[string]float64{"a": 20},
	)
	_, plotRecs := change.Changes(ser)
	require.Len(t, plotRecs, 1)
	rec := plotRecs[0]

	assert.True(t, math.IsInf(rec.LogShannonChange, 1))
	assert.True(t, math.IsNaN(rec.LogEvennessChange))
}
