// Package series turns merged observations into resurveyed time series:
// ordered, replicate-averaged sequences of community composition snapshots.
// This is a pure package - no I/O.
package series

import (
	"math"
	"sort"

	"github.com/gnames/gnveg/pkg/obs"
	"gonum.org/v1/gonum/stat"
)

// Snapshot is one time point of a Series: the replicate-averaged species
// cover composition of a plot in one survey year, together with averaged
// per-survey diversity scalars.
type Snapshot struct {
	// Year is the survey year.
	Year int

	// Cover maps species to cover percent, averaged across all replicate
	// surveys of the year.
	Cover map[string]float64

	// Richness is the number of species with nonzero cover, averaged
	// across replicates.
	Richness float64

	// Shannon is the Shannon diversity index over relative abundances,
	// averaged across replicates. Zero for empty or single-species
	// surveys.
	Shannon float64

	// Evenness is Pielou evenness (Shannon / ln(richness)), averaged
	// across replicates. NaN when richness <= 1.
	Evenness float64

	// Replicates is the number of surveys averaged into this snapshot.
	Replicates int
}

// Series is a resurveyed plot tracked across at least two distinct survey
// years under one (project, plot code) identity.
type Series struct {
	// ProjectID identifies the study design.
	ProjectID int

	// PlotCode identifies the plot within the project.
	PlotCode string

	// Species lists, in lexical order, all species with nonzero total
	// cover anywhere in the series. Snapshot cover maps are restricted to
	// this set.
	Species []string

	// Snapshots is ordered descending by year: index 0 is the most
	// recent survey year.
	Snapshots []Snapshot
}

// Key returns a stable identifier for the series.
type Key struct {
	ProjectID int
	PlotCode  string
}

// Build partitions the given surveys into series keyed by plot identity and
// constructs the year-ordered snapshot sequence of each. Plot codes with
// fewer than two distinct survey years carry no change information and are
// dropped, even when several replicate surveys exist for the single year.
//
// The result is sorted by (project, plot code).
func Build(
	surveys []obs.Survey,
	merged []obs.MergedObservation,
) []Series {
	// Index cover records by survey.
	bySurvey := make(map[string]map[string]float64)
	for _, m := range merged {
		sp := bySurvey[m.SurveyID]
		if sp == nil {
			sp = make(map[string]float64)
			bySurvey[m.SurveyID] = sp
		}
		sp[m.Species] = m.CoverPercent
	}

	// Group surveys by plot identity.
	plots := make(map[Key][]obs.Survey)
	for _, s := range surveys {
		k := Key{ProjectID: s.ProjectID, PlotCode: s.PlotCode}
		plots[k] = append(plots[k], s)
	}

	var res []Series
	for k, plotSurveys := range plots {
		ser, ok := buildSeries(k, plotSurveys, bySurvey)
		if !ok {
			continue
		}
		res = append(res, ser)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].ProjectID != res[j].ProjectID {
			return res[i].ProjectID < res[j].ProjectID
		}
		return res[i].PlotCode < res[j].PlotCode
	})
	return res
}

// buildSeries constructs one Series from the surveys of a single plot.
// Returns ok=false when the plot has fewer than two distinct years.
func buildSeries(
	k Key,
	plotSurveys []obs.Survey,
	bySurvey map[string]map[string]float64,
) (Series, bool) {
	years := make(map[int][]obs.Survey)
	for _, s := range plotSurveys {
		years[s.Year] = append(years[s.Year], s)
	}
	// A duplicate record of an unchanged year is not a resurvey.
	if len(years) < 2 {
		return Series{}, false
	}

	// Species with nonzero total cover across the whole plot subset.
	totals := make(map[string]float64)
	for _, s := range plotSurveys {
		for sp, cover := range bySurvey[s.SurveyID] {
			totals[sp] += cover
		}
	}
	var species []string
	for sp, total := range totals {
		if total > 0 {
			species = append(species, sp)
		}
	}
	sort.Strings(species)

	var snapshots []Snapshot
	for year, replicates := range years {
		snapshots = append(snapshots,
			buildSnapshot(year, replicates, species, bySurvey))
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Year > snapshots[j].Year
	})

	return Series{
		ProjectID: k.ProjectID,
		PlotCode:  k.PlotCode,
		Species:   species,
		Snapshots: snapshots,
	}, true
}

// buildSnapshot averages cover and per-survey diversity scalars across the
// replicate surveys of one year. Diversity is computed per survey first and
// then averaged, not recomputed from the averaged cover.
func buildSnapshot(
	year int,
	replicates []obs.Survey,
	species []string,
	bySurvey map[string]map[string]float64,
) Snapshot {
	n := len(replicates)
	cover := make(map[string]float64, len(species))
	richness := make([]float64, n)
	shannon := make([]float64, n)
	evenness := make([]float64, n)

	for i, s := range replicates {
		row := make([]float64, len(species))
		for j, sp := range species {
			row[j] = bySurvey[s.SurveyID][sp]
			cover[sp] += row[j] / float64(n)
		}
		richness[i], shannon[i], evenness[i] = Diversity(row)
	}

	return Snapshot{
		Year:       year,
		Cover:      cover,
		Richness:   stat.Mean(richness, nil),
		Shannon:    stat.Mean(shannon, nil),
		Evenness:   stat.Mean(evenness, nil),
		Replicates: n,
	}
}

// Diversity computes richness, Shannon diversity and Pielou evenness for
// one cover vector. Shannon is zero for empty or single-species vectors;
// evenness is NaN when richness <= 1 (ln of a non-positive number), which
// is expected and propagated rather than treated as an error.
func Diversity(cover []float64) (richness, shannon, evenness float64) {
	var total float64
	var count int
	for _, c := range cover {
		if c > 0 {
			total += c
			count++
		}
	}
	richness = float64(count)

	if count > 1 {
		p := make([]float64, 0, count)
		for _, c := range cover {
			if c > 0 {
				p = append(p, c/total)
			}
		}
		shannon = stat.Entropy(p)
		evenness = shannon / math.Log(richness)
		return richness, shannon, evenness
	}

	return richness, 0, math.NaN()
}
