package change

import "sort"

// rankDescending assigns 1-based ranks to v ordered by descending value,
// with ties resolved by average rank. The returned slice is parallel to v.
func rankDescending(v []float64) []float64 {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return v[idx[a]] > v[idx[b]]
	})

	ranks := make([]float64, len(v))
	i := 0
	for i < len(idx) {
		j := i
		for j+1 < len(idx) && v[idx[j+1]] == v[idx[i]] {
			j++
		}
		// Positions i..j (0-based) share ranks i+1..j+1.
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// relativeRanks normalizes average ranks to (0,1] by the maximum rank value
// occurring in the vector.
func relativeRanks(ranks []float64) []float64 {
	var maxRank float64
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	res := make([]float64, len(ranks))
	for i, r := range ranks {
		res[i] = r / maxRank
	}
	return res
}

// curveShift computes the rank-abundance-curve difference between two
// snapshots of an interval, following Avolio et al. (2019).
//
// Bin boundaries are the union of both snapshots' distinct relative-rank
// values, prefixed with 0. Alternate binning schemes change the scale of
// the statistic, so this choice is kept exactly. For each bin the relative
// abundances of species whose relative rank falls in the bin are summed per
// snapshot; the running difference of the two cumulative sums (later minus
// earlier) is accumulated across bins and the final value returned.
func curveShift(
	relRankTo, relAbundTo, relRankFrom, relAbundFrom []float64,
) float64 {
	edges := binEdges(relRankTo, relRankFrom)

	var acc, cumTo, cumFrom float64
	for b := 1; b < len(edges); b++ {
		lo, hi := edges[b-1], edges[b]
		for i, r := range relRankTo {
			if r > lo && r <= hi {
				cumTo += relAbundTo[i]
			}
		}
		for i, r := range relRankFrom {
			if r > lo && r <= hi {
				cumFrom += relAbundFrom[i]
			}
		}
		acc += cumTo - cumFrom
	}
	return acc
}

// binEdges returns the sorted distinct relative-rank values of both
// snapshots, prefixed with 0.
func binEdges(relRankTo, relRankFrom []float64) []float64 {
	seen := make(map[float64]struct{}, len(relRankTo)+len(relRankFrom))
	edges := []float64{0}
	for _, rr := range [][]float64{relRankTo, relRankFrom} {
		for _, r := range rr {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			edges = append(edges, r)
		}
	}
	sort.Float64s(edges)
	return edges
}
