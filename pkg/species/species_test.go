package species_test

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/gnames/gnveg/pkg/change"
	"github.com/gnames/gnveg/pkg/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(sp string, abs float64, valid bool) change.IntervalChangeRecord {
	return change.IntervalChangeRecord{
		Species:        sp,
		AbsoluteChange: sql.NullFloat64{Float64: abs, Valid: valid},
	}
}

func TestBuildCounts(t *testing.T) {
	records := []change.IntervalChangeRecord{
		rec("a", 2, true),
		rec("a", -1, true),
		rec("a", 0, true),
		rec("a", 3, true),
		rec("a", 0, false), // invalid records are excluded
		rec("b", -5, true),
	}

	res := species.Build(records, species.NewOptions())
	require.Len(t, res, 2)

	a := res[0]
	assert.Equal(t, "a", a.Species)
	assert.Equal(t, 4, a.Observations)
	assert.Equal(t, 2, a.Positive)
	assert.Equal(t, 1, a.Negative)
	assert.Equal(t, 1, a.Zero)
	assert.InDelta(t, 1.0, a.MeanAbsoluteChange, 1e-9)

	// Zeros are excluded from the trial denominator by default.
	assert.InDelta(t, 2.0/3.0, a.Estimate, 1e-9)

	b := res[1]
	assert.Equal(t, "b", b.Species)
	assert.InDelta(t, 0.0, b.Estimate, 1e-9)
}

func TestBuildIncludeZeros(t *testing.T) {
	records := []change.IntervalChangeRecord{
		rec("a", 2, true),
		rec("a", 0, true),
		rec("a", 0, true),
		rec("a", 0, true),
	}
	opts := species.NewOptions()
	opts.IncludeZeros = true

	res := species.Build(records, opts)
	require.Len(t, res, 1)
	assert.InDelta(t, 0.25, res[0].Estimate, 1e-9)
}

func TestBuildAllZeroChanges(t *testing.T) {
	// Both counts zero: the denominator falls back to 1 so the test input
	// stays well-formed.
	records := []change.IntervalChangeRecord{
		rec("a", 0, true),
		rec("a", 0, true),
	}
	res := species.Build(records, species.NewOptions())
	require.Len(t, res, 1)
	assert.InDelta(t, 0.0, res[0].Estimate, 1e-9)
	assert.False(t, res[0].Significant)
}

func TestBinomialPValue(t *testing.T) {
	// A balanced species is clearly not significant.
	var records []change.IntervalChangeRecord
	for range 50 {
		records = append(records, rec("even", 1, true))
		records = append(records, rec("even", -1, true))
	}
	res := species.Build(records, species.NewOptions())
	require.Len(t, res, 1)
	assert.Greater(t, res[0].PValue, 0.9)

	// A one-sided species has a vanishing p-value.
	records = nil
	for range 100 {
		records = append(records, rec("up", 1, true))
	}
	res = species.Build(records, species.NewOptions())
	require.Len(t, res, 1)
	assert.Less(t, res[0].PValue, 1e-20)
	assert.True(t, res[0].Significant)
	assert.InDelta(t, 1.0, res[0].Estimate, 1e-9)
	assert.Less(t, res[0].CILow, 1.0)
	assert.Equal(t, 1.0, res[0].CIHigh)
}

func TestSignificantNeedsObservations(t *testing.T) {
	// Strongly directional but below the observation threshold.
	var records []change.IntervalChangeRecord
	for range 30 {
		records = append(records, rec("rare", 1, true))
	}
	res := species.Build(records, species.NewOptions())
	require.Len(t, res, 1)
	assert.Less(t, res[0].AdjustedPValue, 0.05)
	assert.False(t, res[0].Significant)
}

func TestHolmAdjustment(t *testing.T) {
	// Many species with varying directionality.
	rng := rand.New(rand.NewSource(42))
	var records []change.IntervalChangeRecord
	for i := range 20 {
		sp := string(rune('a' + i))
		for range 120 {
			v := 1.0
			if rng.Float64() < 0.3+float64(i)*0.02 {
				v = -1.0
			}
			records = append(records, rec(sp, v, true))
		}
	}

	res := species.Build(records, species.NewOptions())
	require.Len(t, res, 20)

	type pp struct{ raw, adj float64 }
	var ps []pp
	for _, a := range res {
		// Holm-adjusted p-values are pointwise >= their raw counterparts.
		assert.GreaterOrEqual(t, a.AdjustedPValue, a.PValue, a.Species)
		assert.LessOrEqual(t, a.AdjustedPValue, 1.0)
		ps = append(ps, pp{raw: a.PValue, adj: a.AdjustedPValue})
	}

	// The adjusted ordering preserves the raw ordering.
	for i := range ps {
		for j := range ps {
			if ps[i].raw < ps[j].raw {
				assert.LessOrEqual(t, ps[i].adj, ps[j].adj)
			}
		}
	}
}
