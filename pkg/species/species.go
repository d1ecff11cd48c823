// Package species aggregates species-level interval change records across
// the whole corpus into per-species summaries with a directional
// significance test.
// This is a pure package - no I/O.
package species

import (
	"sort"

	"github.com/gnames/gnveg/pkg/change"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Options tunes the aggregation.
type Options struct {
	// IncludeZeros counts exactly-zero changes as trials in the binomial
	// test. The default treats them as uninformative and excludes them
	// from the trial denominator; this is a modeling choice, not the only
	// valid interpretation, hence the switch.
	IncludeZeros bool

	// Alpha is the family-wise significance level for the significant
	// mover flag.
	Alpha float64

	// MinObservations is the minimal number of observations a species
	// needs to qualify as a significant mover.
	MinObservations int
}

// NewOptions returns the reference configuration: zeros excluded,
// alpha 0.05, at least 100 observations.
func NewOptions() Options {
	return Options{
		IncludeZeros:    false,
		Alpha:           0.05,
		MinObservations: 100,
	}
}

// Aggregate is the per-species summary over all valid absolute-change
// observations in the corpus.
type Aggregate struct {
	// Species is the species name.
	Species string

	// Observations counts valid absolute-change records.
	Observations int

	// Positive, Negative and Zero count strictly-positive,
	// strictly-negative and exactly-zero absolute changes.
	Positive int
	Negative int
	Zero     int

	// Estimate is the point estimate of the probability to increase, with
	// its Clopper-Pearson 95% confidence interval.
	Estimate float64
	CILow    float64
	CIHigh   float64

	// PValue is the two-sided exact binomial test of equal probability of
	// increase vs decrease; AdjustedPValue is its Holm step-down
	// adjustment across all species.
	PValue         float64
	AdjustedPValue float64

	// MeanAbsoluteChange is the arithmetic mean of valid absolute changes.
	MeanAbsoluteChange float64

	// Significant marks species with adjusted p below alpha and at least
	// MinObservations observations.
	Significant bool
}

// Build groups all interval change records by species and computes the
// per-species summaries. Records without a valid absolute change are
// excluded. The result is sorted by species name.
func Build(records []change.IntervalChangeRecord, opts Options) []Aggregate {
	type bucket struct {
		changes []float64
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		if !r.AbsoluteChange.Valid {
			continue
		}
		b := buckets[r.Species]
		if b == nil {
			b = &bucket{}
			buckets[r.Species] = b
		}
		b.changes = append(b.changes, r.AbsoluteChange.Float64)
	}

	res := make([]Aggregate, 0, len(buckets))
	for sp, b := range buckets {
		agg := Aggregate{Species: sp, Observations: len(b.changes)}
		for _, c := range b.changes {
			switch {
			case c > 0:
				agg.Positive++
			case c < 0:
				agg.Negative++
			default:
				agg.Zero++
			}
		}
		agg.MeanAbsoluteChange = stat.Mean(b.changes, nil)

		trials := agg.Positive + agg.Negative
		if opts.IncludeZeros {
			trials += agg.Zero
		}
		if trials == 0 {
			// Degenerate input guard: a species seen only with zero
			// changes still gets a well-formed (uninformative) test.
			trials = 1
		}
		agg.Estimate, agg.CILow, agg.CIHigh, agg.PValue =
			binomTest(agg.Positive, trials, 0.95)

		res = append(res, agg)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Species < res[j].Species
	})

	adjustHolm(res)
	for i := range res {
		res[i].Significant = res[i].AdjustedPValue < opts.Alpha &&
			res[i].Observations >= opts.MinObservations
	}
	return res
}

// binomTest runs a two-sided exact binomial test of successes out of trials
// against probability 0.5, with a Clopper-Pearson confidence interval at
// the given level. Semantics follow R's binom.test: the p-value sums the
// probabilities of all outcomes no more likely than the observed one.
func binomTest(
	successes, trials int,
	level float64,
) (estimate, ciLow, ciHigh, pValue float64) {
	n := float64(trials)
	k := float64(successes)
	estimate = k / n

	dist := distuv.Binomial{N: n, P: 0.5}
	observed := dist.Prob(k)
	// Tolerance against floating-point noise in the density comparison,
	// same as R's binom.test.
	const relErr = 1 + 1e-7
	for i := 0.0; i <= n; i++ {
		if d := dist.Prob(i); d <= observed*relErr {
			pValue += d
		}
	}
	if pValue > 1 {
		pValue = 1
	}

	alpha := 1 - level
	ciLow, ciHigh = 0, 1
	if successes > 0 {
		beta := distuv.Beta{Alpha: k, Beta: n - k + 1}
		ciLow = beta.Quantile(alpha / 2)
	}
	if successes < trials {
		beta := distuv.Beta{Alpha: k + 1, Beta: n - k}
		ciHigh = beta.Quantile(1 - alpha/2)
	}
	return estimate, ciLow, ciHigh, pValue
}

// adjustHolm applies the Holm step-down multiple-comparison adjustment to
// the raw p-values of all aggregates jointly.
func adjustHolm(aggs []Aggregate) {
	m := len(aggs)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return aggs[order[a]].PValue < aggs[order[b]].PValue
	})

	running := 0.0
	for rank, idx := range order {
		adj := float64(m-rank) * aggs[idx].PValue
		if adj > 1 {
			adj = 1
		}
		// Enforce monotonicity: adjusted values never decrease along the
		// sorted order.
		if adj < running {
			adj = running
		}
		running = adj
		aggs[idx].AdjustedPValue = adj
	}
}
