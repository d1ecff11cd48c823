// Package obs defines the raw observation model for resurvey campaigns and
// the merging of layer-specific cover records.
// This is a pure package - no I/O.
package obs

import "sort"

// Observation is one raw cover record: a species observed in one vegetation
// layer of one survey. The same species may appear in several layers of the
// same survey (tree, shrub, herb...).
type Observation struct {
	// ProjectID identifies the study design the survey belongs to.
	ProjectID int

	// SurveyID identifies the survey (one plot visit) within the campaign.
	SurveyID string

	// Species is the species name string as recorded in the source,
	// optionally canonicalized during ingestion.
	Species string

	// Layer is the vegetation layer code the cover refers to.
	Layer string

	// CoverPercent is the recorded cover in [0,100].
	CoverPercent float64
}

// Survey holds per-survey metadata from the campaign's survey table.
type Survey struct {
	// SurveyID identifies the survey within the campaign.
	SurveyID string

	// ProjectID identifies the study design the survey belongs to.
	ProjectID int

	// Year is the survey year.
	Year int

	// PlotCode identifies the resurveyed plot (or plot group) within the
	// project. Surveys sharing (ProjectID, PlotCode) form a time series.
	PlotCode string

	// ProjectName is the display name of the project.
	ProjectName string
}

// MergedObservation is a cover record after layer merging: at most one
// record per (survey, species).
type MergedObservation struct {
	ProjectID    int
	SurveyID     string
	Species      string
	CoverPercent float64
}

// MergeCover collapses several layer covers of one species within one survey
// into a single cover percentage. Layers are treated as independent random
// spatial overlaps: an accumulator c is updated with
// c = c + (100-c)*v/100 for every additional layer value v.
//
// The formula is mathematically commutative and bounded in [0,100]; under
// floating point the order-invariance is approximate, not exact. A single
// value passes through unchanged.
func MergeCover(values []float64) float64 {
	var c float64
	for _, v := range values {
		c += (100 - c) * v / 100
	}
	return c
}

// MergeLayers collapses layer-specific records of the same species within
// the same survey into one MergedObservation per (survey, species).
// The output is sorted by (project, survey, species) so that downstream
// processing is deterministic regardless of input order.
func MergeLayers(observations []Observation) []MergedObservation {
	type key struct {
		surveyID string
		species  string
	}
	covers := make(map[key][]float64)
	projects := make(map[key]int)
	for _, o := range observations {
		k := key{surveyID: o.SurveyID, species: o.Species}
		covers[k] = append(covers[k], o.CoverPercent)
		projects[k] = o.ProjectID
	}

	res := make([]MergedObservation, 0, len(covers))
	for k, vals := range covers {
		res = append(res, MergedObservation{
			ProjectID:    projects[k],
			SurveyID:     k.surveyID,
			Species:      k.species,
			CoverPercent: MergeCover(vals),
		})
	}

	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.SurveyID != b.SurveyID {
			return a.SurveyID < b.SurveyID
		}
		return a.Species < b.Species
	})
	return res
}
