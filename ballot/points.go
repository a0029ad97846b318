// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

// MaxSelections is the number of ranked candidates a voter may pick per category.
const MaxSelections = 5

var pointsByRank = [MaxSelections]float64{5, 3, 2, 1, 0.5}

// Points returns the score awarded for a 1-based rank. Unranked positions score 0.
func Points(rank int) float64 {
	if rank < 1 || rank > MaxSelections {
		return 0
	}
	return pointsByRank[rank-1]
}

// PointsTable returns rank -> points for every scoring rank.
func PointsTable() map[int]float64 {
	table := make(map[int]float64, MaxSelections)
	for i, p := range pointsByRank {
		table[i+1] = p
	}
	return table
}
