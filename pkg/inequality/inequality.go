// Package inequality quantifies the skew of change-magnitude distributions
// with Lorenz curves and bias-corrected Gini coefficients, the latter with
// percentile bootstrap confidence intervals.
// This is a pure package - no I/O; randomness comes from an explicit seed
// so that runs are reproducible.
package inequality

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Point is one step of a Lorenz curve: the cumulative proportion of units
// against the cumulative proportion of summed magnitude.
type Point struct {
	Units     float64
	Magnitude float64
}

// Curve is an observation-level Lorenz curve over raw magnitudes ordered
// ascending. It starts implicitly at (0,0) and its final point is exactly
// (1,1): both axes are rescaled by their final cumulative totals.
type Curve []Point

// GiniResult is a bias-corrected Gini coefficient with its percentile
// bootstrap confidence interval.
type GiniResult struct {
	Coefficient float64
	CILow       float64
	CIHigh      float64

	// Resamples is the number of bootstrap resamples behind the interval.
	Resamples int
}

// Options tunes the bootstrap.
type Options struct {
	// Resamples is the number of bootstrap resamples; the reference value
	// is 1000.
	Resamples int

	// Seed feeds the resampling RNG. A fixed seed makes results
	// deterministic.
	Seed int64
}

// NewOptions returns the reference bootstrap configuration.
func NewOptions() Options {
	return Options{Resamples: 1000, Seed: 1}
}

// Analysis is the pair of interchangeable summary forms over one magnitude
// subset.
type Analysis struct {
	// Name identifies the unit population and sign, e.g. "raw_positive".
	Name  string
	N     int
	Curve Curve
	Gini  GiniResult
}

// Split divides a multiset of signed magnitudes into its strictly-negative
// and strictly-positive subsets as absolute values. Zeros belong to
// neither.
func Split(values []float64) (negative, positive []float64) {
	for _, v := range values {
		switch {
		case v < 0:
			negative = append(negative, -v)
		case v > 0:
			positive = append(positive, v)
		}
	}
	return negative, positive
}

// Lorenz builds the observation-level Lorenz curve over the given
// magnitudes. The input need not be sorted; NaN values are dropped.
func Lorenz(magnitudes []float64) Curve {
	vals := finite(magnitudes)
	if len(vals) == 0 {
		return nil
	}
	sort.Float64s(vals)

	var total float64
	for _, v := range vals {
		total += v
	}

	curve := make(Curve, len(vals))
	var cum float64
	for i, v := range vals {
		cum += v
		curve[i] = Point{
			Units:     float64(i+1) / float64(len(vals)),
			Magnitude: cum / total,
		}
	}
	// Guard against floating-point drift on the final point.
	curve[len(curve)-1] = Point{Units: 1, Magnitude: 1}
	return curve
}

// Gini computes the bias-corrected Gini coefficient of the magnitudes with
// a percentile bootstrap confidence interval (2.5th/97.5th percentiles).
func Gini(magnitudes []float64, opts Options) GiniResult {
	vals := finite(magnitudes)
	res := GiniResult{
		Coefficient: giniCoefficient(vals),
		Resamples:   opts.Resamples,
	}
	if len(vals) < 2 || opts.Resamples < 1 {
		res.CILow = math.NaN()
		res.CIHigh = math.NaN()
		return res
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	ginis := make([]float64, opts.Resamples)
	resample := make([]float64, len(vals))
	for b := range ginis {
		for i := range resample {
			resample[i] = vals[rng.Intn(len(vals))]
		}
		ginis[b] = giniCoefficient(resample)
	}
	sort.Float64s(ginis)
	res.CILow = stat.Quantile(0.025, stat.Empirical, ginis, nil)
	res.CIHigh = stat.Quantile(0.975, stat.Empirical, ginis, nil)
	return res
}

// Analyze produces the named curve/coefficient pair for one subset.
func Analyze(name string, magnitudes []float64, opts Options) Analysis {
	vals := finite(magnitudes)
	return Analysis{
		Name:  name,
		N:     len(vals),
		Curve: Lorenz(vals),
		Gini:  Gini(vals, opts),
	}
}

// giniCoefficient is the standard rank-weighted formula over sorted values,
// corrected for finite sample size by the n/(n-1) factor.
func giniCoefficient(magnitudes []float64) float64 {
	n := len(magnitudes)
	if n < 2 {
		return math.NaN()
	}
	vals := make([]float64, n)
	copy(vals, magnitudes)
	sort.Float64s(vals)

	var total, weighted float64
	for i, v := range vals {
		total += v
		weighted += float64(i+1) * v
	}
	nf := float64(n)
	g := 2*weighted/(nf*total) - (nf+1)/nf
	return g * nf / (nf - 1)
}

// finite drops NaN and infinite values.
func finite(values []float64) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}
