package utils

import (
	"cmp"
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

func Argmax[T cmp.Ordered](arr []T) (argmax int) {
	for i := range arr {
		if cmp.Compare(arr[i], arr[argmax]) == 1 {
			argmax = i
		}
	}
	return
}

func Average[T Number](s []T) (mean float64) {
	for i := range s {
		mean += float64(s[i])
	}
	mean /= float64(len(s))
	return
}

func IsNonDecreasing[T cmp.Ordered](s []T) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}

func AllFinite[T constraints.Float](s []T) bool {
	for _, v := range s {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

// Trapezoid integrates tabulated y over the (possibly non-uniform) grid x.
func Trapezoid[T constraints.Float](x, y []T) (sum T) {
	for i := 1; i < len(x) && i < len(y); i++ {
		sum += (x[i] - x[i-1]) * (y[i] + y[i-1]) * 0.5
	}
	return
}

func Linspace(a, b float64, n int) []float64 {
	if n == 1 {
		return []float64{a}
	}
	grid := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range grid {
		grid[i] = math.FMA(step, float64(i), a)
	}
	grid[n-1] = b
	return grid
}

// Geomspace requires 0 < a < b.
func Geomspace(a, b float64, n int) []float64 {
	grid := Linspace(math.Log(a), math.Log(b), n)
	for i := range grid {
		grid[i] = math.Exp(grid[i])
	}
	grid[0], grid[n-1] = a, b
	return grid
}

// Interpolate evaluates the piecewise-linear function (x, y) at v, clamping to the end values.
func Interpolate(x, y []float64, v float64) float64 {
	n := len(x)
	if v <= x[0] {
		return y[0]
	}
	if v >= x[n-1] {
		return y[n-1]
	}
	i := SearchInterval(x, v)
	h := x[i+1] - x[i]
	if h <= 0 {
		return y[i]
	}
	t := (v - x[i]) / h
	return math.FMA(t, y[i+1]-y[i], y[i])
}
