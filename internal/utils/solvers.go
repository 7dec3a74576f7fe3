package utils

import (
	"math"
	"sort"
)

// SearchInterval returns i such that grid[i] <= v < grid[i+1], clamped to [0, len(grid)-2].
// grid must be non-decreasing and have at least two points.
func SearchInterval(grid []float64, v float64) int {
	i := sort.Search(len(grid), func(k int) bool { return grid[k] > v }) - 1
	return max(0, min(i, len(grid)-2))
}

// LinearDensityInverse solves r = s0*x + k*x*x/2 for x >= 0, i.e. inverts the integral
// of a linear density s0 + k*x starting at x = 0.
func LinearDensityInverse(s0, k, r float64) float64 {
	if r <= 0 {
		return 0
	}
	d := s0*s0 + 2*k*r
	if d < 0 {
		d = 0
	}
	den := s0 + math.Sqrt(d)
	if den <= 0 {
		return 0
	}
	return 2 * r / den
}
