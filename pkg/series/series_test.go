package series_test

import (
	"math"
	"testing"

	"github.com/gnames/gnveg/pkg/obs"
	"github.com/gnames/gnveg/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDropsSingleYearPlots(t *testing.T) {
	surveys := []obs.Survey{
		{SurveyID: "a", ProjectID: 1, Year: 2020, PlotCode: "p1"},
		{SurveyID: "b", ProjectID: 1, Year: 2020, PlotCode: "p1"},
	}
	merged := []obs.MergedObservation{
		{ProjectID: 1, SurveyID: "a", Species: "x", CoverPercent: 10},
		{ProjectID: 1, SurveyID: "b", Species: "x", CoverPercent: 30},
	}

	// Two replicate surveys of the same year are not a resurvey.
	res := series.Build(surveys, merged)
	assert.Empty(t, res)
}

func TestBuildAveragesReplicateYears(t *testing.T) {
	surveys := []obs.Survey{
		{SurveyID: "a", ProjectID: 1, Year: 2020, PlotCode: "p1"},
		{SurveyID: "b", ProjectID: 1, Year: 2020, PlotCode: "p1"},
		{SurveyID: "c", ProjectID: 1, Year: 1990, PlotCode: "p1"},
	}
	merged := []obs.MergedObservation{
		{ProjectID: 1, SurveyID: "a", Species: "x", CoverPercent: 10},
		{ProjectID: 1, SurveyID: "b", Species: "x", CoverPercent: 30},
		{ProjectID: 1, SurveyID: "c", Species: "x", CoverPercent: 5},
	}

	res := series.Build(surveys, merged)
	require.Len(t, res, 1)
	ser := res[0]
	require.Len(t, ser.Snapshots, 2)

	// Descending year order: index 0 is the most recent.
	assert.Equal(t, 2020, ser.Snapshots[0].Year)
	assert.Equal(t, 1990, ser.Snapshots[1].Year)

	// The two 2020 replicates are averaged into one snapshot.
	assert.Equal(t, 2, ser.Snapshots[0].Replicates)
	assert.InDelta(t, 20.0, ser.Snapshots[0].Cover["x"], 1e-9)
	assert.InDelta(t, 5.0, ser.Snapshots[1].Cover["x"], 1e-9)
}

func TestBuildDropsZeroCoverSpecies(t *testing.T) {
	surveys := []obs.Survey{
		{SurveyID: "a", ProjectID: 3, Year: 2010, PlotCode: "q"},
		{SurveyID: "b", ProjectID: 3, Year: 2000, PlotCode: "q"},
	}
	merged := []obs.MergedObservation{
		{ProjectID: 3, SurveyID: "a", Species: "alive", CoverPercent: 40},
		{ProjectID: 3, SurveyID: "a", Species: "ghost", CoverPercent: 0},
		{ProjectID: 3, SurveyID: "b", Species: "alive", CoverPercent: 15},
	}

	res := series.Build(surveys, merged)
	require.Len(t, res, 1)
	assert.Equal(t, []string{"alive"}, res[0].Species)
}

func TestDiversity(t *testing.T) {
	tests := []struct {
		msg      string
		cover    []float64
		richness float64
		shannon  float64
	}{
		{"empty snapshot", []float64{0, 0}, 0, 0},
		{"single species", []float64{42}, 1, 0},
		{"two equal species", []float64{50, 50}, 2, math.Log(2)},
		{"zeros are ignored", []float64{50, 0, 50}, 2, math.Log(2)},
	}

	for _, v := range tests {
		richness, shannon, _ := series.Diversity(v.cover)
		assert.InDelta(t, v.richness, richness, 1e-9, v.msg)
		assert.InDelta(t, v.shannon, shannon, 1e-9, v.msg)
	}
}

func TestDiversityEvenness(t *testing.T) {
	// Perfectly even community: evenness is 1.
	_, _, evenness := series.Diversity([]float64{25, 25, 25, 25})
	assert.InDelta(t, 1.0, evenness, 1e-9)

	// Richness <= 1 has no defined evenness.
	_, _, evenness = series.Diversity([]float64{42})
	assert.True(t, math.IsNaN(evenness))

	_, _, evenness = series.Diversity(nil)
	assert.True(t, math.IsNaN(evenness))
}

func TestBuildSortsSeries(t *testing.T) {
	surveys := []obs.Survey{
		{SurveyID: "a1", ProjectID: 2, Year: 2001, PlotCode: "z"},
		{SurveyID: "a2", ProjectID: 2, Year: 2011, PlotCode: "z"},
		{SurveyID: "b1", ProjectID: 1, Year: 2002, PlotCode: "a"},
		{SurveyID: "b2", ProjectID: 1, Year: 2012, PlotCode: "a"},
	}
	merged := []obs.MergedObservation{
		{ProjectID: 2, SurveyID: "a1", Species: "x", CoverPercent: 1},
		{ProjectID: 2, SurveyID: "a2", Species: "x", CoverPercent: 2},
		{ProjectID: 1, SurveyID: "b1", Species: "x", CoverPercent: 3},
		{ProjectID: 1, SurveyID: "b2", Species: "x", CoverPercent: 4},
	}

	res := series.Build(surveys, merged)
	require.Len(t, res, 2)
	assert.Equal(t, 1, res[0].ProjectID)
	assert.Equal(t, 2, res[1].ProjectID)
}
