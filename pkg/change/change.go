// Package change computes species-level and community-level change records
// for consecutive snapshot pairs of a resurveyed series, including the
// rank-abundance-curve-shift statistic.
//
// All computations are pure numeric derivations. Divide-by-zero and log of
// a non-positive number produce non-finite values that are preserved in the
// output records rather than raised as errors; callers filter or tolerate
// them as needed.
package change

import (
	"database/sql"
	"math"
	"sort"

	"github.com/gnames/gnveg/pkg/series"
	"gonum.org/v1/gonum/stat"
)

// IntervalChangeRecord is one species' change between the two snapshots of
// an interval. "To" is the chronologically later snapshot, "from" the
// earlier one; all signed changes are later minus earlier.
type IntervalChangeRecord struct {
	// ProjectID and PlotCode identify the series.
	ProjectID int
	PlotCode  string

	// YearFrom and YearTo bound the interval.
	YearFrom int
	YearTo   int

	// NFrom and NTo are the replicate survey counts behind each snapshot.
	NFrom int
	NTo   int

	// Species is the species name.
	Species string

	// AbsoluteChange is the raw cover difference. Invalid (not emitted)
	// when the species is absent from both snapshots.
	AbsoluteChange sql.NullFloat64

	// RelativeChange is the difference of covers scaled by the species'
	// maximum cover across the entire series. Invalid when the species is
	// absent from both snapshots.
	RelativeChange sql.NullFloat64

	// RelativeRankChange is the difference in relative abundance rank.
	RelativeRankChange float64

	// ColonizerChange holds AbsoluteChange only when the species was
	// absent from the earlier snapshot (it appeared during the interval).
	ColonizerChange sql.NullFloat64

	// ExtinctionChange holds AbsoluteChange only when the species is
	// absent from the later snapshot (it disappeared during the interval).
	ExtinctionChange sql.NullFloat64
}

// PlotChangeRecord is the community-level change between the two snapshots
// of an interval. Log-ratio metrics are ln(later/earlier); non-finite
// values from degenerate inputs are retained.
type PlotChangeRecord struct {
	ProjectID int
	PlotCode  string
	YearFrom  int
	YearTo    int
	NFrom     int
	NTo       int

	LogRichnessChange float64
	LogShannonChange  float64
	LogEvennessChange float64

	// CurveDiff is the rank-abundance-curve shift (Avolio et al. 2019).
	CurveDiff float64

	// LogRankChange is ln(mean positive rank change / -mean negative rank
	// change); LogRankChangeSum is the same over sums. Either side being
	// empty yields a non-finite value, which is retained. This happens at
	// a small but nonzero rate in real campaigns.
	LogRankChange    float64
	LogRankChangeSum float64

	// MeanCoverChange and MedianCoverChange are log ratios of per-snapshot
	// mean/median cover over nonzero-cover species.
	MeanCoverChange   float64
	MedianCoverChange float64

	// GainsMinusLosses counts species with positive raw cover change minus
	// species with negative raw cover change.
	GainsMinusLosses int
}

// Changes emits one IntervalChangeRecord per species per consecutive
// snapshot pair of the series and one PlotChangeRecord per pair. A series
// with fewer than two snapshots contributes no records.
func Changes(ser series.Series) ([]IntervalChangeRecord, []PlotChangeRecord) {
	if len(ser.Snapshots) < 2 {
		return nil, nil
	}

	maxCover := seriesMaxCover(ser)

	var speciesRecs []IntervalChangeRecord
	var plotRecs []PlotChangeRecord
	for k := 0; k+1 < len(ser.Snapshots); k++ {
		// Snapshots are ordered descending by year: index k is the later
		// ("to") side of the pair, k+1 the earlier ("from") side.
		to, from := ser.Snapshots[k], ser.Snapshots[k+1]
		sp, plot := pairChanges(ser, to, from, maxCover)
		speciesRecs = append(speciesRecs, sp...)
		plotRecs = append(plotRecs, plot)
	}
	return speciesRecs, plotRecs
}

// pairChanges computes all records for one (to, from) snapshot pair.
func pairChanges(
	ser series.Series,
	to, from series.Snapshot,
	maxCover map[string]float64,
) ([]IntervalChangeRecord, PlotChangeRecord) {
	n := len(ser.Species)
	coverTo := make([]float64, n)
	coverFrom := make([]float64, n)
	for i, sp := range ser.Species {
		coverTo[i] = to.Cover[sp]
		coverFrom[i] = from.Cover[sp]
	}

	relAbundTo := relativeAbundance(coverTo)
	relAbundFrom := relativeAbundance(coverFrom)
	relRankTo := relativeRanks(rankDescending(relAbundTo))
	relRankFrom := relativeRanks(rankDescending(relAbundFrom))

	speciesRecs := make([]IntervalChangeRecord, 0, n)
	rankDiffs := make([]float64, n)
	gains, losses := 0, 0

	for i, sp := range ser.Species {
		rankDiffs[i] = relRankTo[i] - relRankFrom[i]

		rec := IntervalChangeRecord{
			ProjectID:          ser.ProjectID,
			PlotCode:           ser.PlotCode,
			YearFrom:           from.Year,
			YearTo:             to.Year,
			NFrom:              from.Replicates,
			NTo:                to.Replicates,
			Species:            sp,
			RelativeRankChange: rankDiffs[i],
		}

		if coverTo[i] != 0 || coverFrom[i] != 0 {
			abs := coverTo[i] - coverFrom[i]
			rec.AbsoluteChange = sql.NullFloat64{Float64: abs, Valid: true}
			rel := coverTo[i]/maxCover[sp] - coverFrom[i]/maxCover[sp]
			rec.RelativeChange = sql.NullFloat64{Float64: rel, Valid: true}

			if coverFrom[i] == 0 {
				rec.ColonizerChange = rec.AbsoluteChange
			}
			if coverTo[i] == 0 {
				rec.ExtinctionChange = rec.AbsoluteChange
			}
			if abs > 0 {
				gains++
			}
			if abs < 0 {
				losses++
			}
		}
		speciesRecs = append(speciesRecs, rec)
	}

	logRank, logRankSum := logRankChanges(rankDiffs)

	plotRec := PlotChangeRecord{
		ProjectID:         ser.ProjectID,
		PlotCode:          ser.PlotCode,
		YearFrom:          from.Year,
		YearTo:            to.Year,
		NFrom:             from.Replicates,
		NTo:               to.Replicates,
		LogRichnessChange: math.Log(to.Richness / from.Richness),
		LogShannonChange:  math.Log(to.Shannon / from.Shannon),
		LogEvennessChange: math.Log(to.Evenness / from.Evenness),
		CurveDiff: curveShift(
			relRankTo, relAbundTo, relRankFrom, relAbundFrom),
		LogRankChange:     logRank,
		LogRankChangeSum:  logRankSum,
		MeanCoverChange:   math.Log(meanNonzero(coverTo) / meanNonzero(coverFrom)),
		MedianCoverChange: math.Log(medianNonzero(coverTo) / medianNonzero(coverFrom)),
		GainsMinusLosses:  gains - losses,
	}
	return speciesRecs, plotRec
}

// seriesMaxCover returns each species' maximum cover across all snapshots
// of the series. Used for the series-relative scaling of RelativeChange,
// which is independent per species.
func seriesMaxCover(ser series.Series) map[string]float64 {
	res := make(map[string]float64, len(ser.Species))
	for _, snap := range ser.Snapshots {
		for _, sp := range ser.Species {
			if c := snap.Cover[sp]; c > res[sp] {
				res[sp] = c
			}
		}
	}
	return res
}

// relativeAbundance divides each cover by the vector's total. A zero total
// produces NaN values, which downstream metrics tolerate.
func relativeAbundance(cover []float64) []float64 {
	var total float64
	for _, c := range cover {
		total += c
	}
	res := make([]float64, len(cover))
	for i, c := range cover {
		res[i] = c / total
	}
	return res
}

// logRankChanges splits per-species relative-rank differences into the
// strictly-positive and strictly-negative subsets and forms
// ln(mean_pos / -mean_neg) and ln(sum_pos / -sum_neg). Empty subsets make
// the result non-finite, which is retained.
func logRankChanges(diffs []float64) (logMean, logSum float64) {
	var pos, neg []float64
	for _, d := range diffs {
		switch {
		case d > 0:
			pos = append(pos, d)
		case d < 0:
			neg = append(neg, d)
		}
	}
	logMean = math.Log(stat.Mean(pos, nil) / -stat.Mean(neg, nil))

	var sumPos, sumNeg float64
	for _, d := range pos {
		sumPos += d
	}
	for _, d := range neg {
		sumNeg += d
	}
	logSum = math.Log(sumPos / -sumNeg)
	return logMean, logSum
}

func meanNonzero(cover []float64) float64 {
	var vals []float64
	for _, c := range cover {
		if c != 0 {
			vals = append(vals, c)
		}
	}
	return stat.Mean(vals, nil)
}

func medianNonzero(cover []float64) float64 {
	var vals []float64
	for _, c := range cover {
		if c != 0 {
			vals = append(vals, c)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
