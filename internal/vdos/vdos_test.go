package vdos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/bzscope/internal/knl"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

// spectrum vanishes at its cutoff so every n-phonon term is exactly normalized.
func spectrum() *VDOSData {
	return &VDOSData{
		EGrid:       []float64{0.01, 0.05},
		Density:     []float64{1, 2, 3, 4, 3, 2, 1, 0},
		Temperature: 300,
		BoundXS:     1.5,
		MassAMU:     27,
	}
}

func column(g *knl.KernelGrids, i int) []float64 {
	na := len(g.Alpha)
	col := make([]float64, len(g.Beta))
	for j := range col {
		col[j] = g.SAB[j*na+i]
	}
	return col
}

func poisson(mean float64, n int) float64 {
	lg, _ := math.Lgamma(float64(n + 1))
	return math.Exp(float64(n)*math.Log(mean) - mean - lg)
}

func TestCreateScatteringKernelShape(t *testing.T) {
	for lux := range MaxLux + 1 {
		settings := luxTable[lux]
		g, err := CreateScatteringKernel(spectrum(), lux, nil)
		require.NoError(t, err, "lux %d", lux)
		assert.Len(t, g.Alpha, settings.alphaCount)
		assert.Len(t, g.Beta, 2*settings.maxOrder*settings.betaPoints+1)
		assert.Len(t, g.SAB, len(g.Alpha)*len(g.Beta))
		assert.Zero(t, g.Alpha[0])
		assert.True(t, utils.IsNonDecreasing(g.Alpha))
		assert.True(t, utils.IsNonDecreasing(g.Beta))
		assert.InDelta(t, -g.Beta[0], g.Beta[len(g.Beta)-1], 1e-12)
		for _, v := range g.SAB {
			require.GreaterOrEqual(t, v, 0.)
		}
		assert.Equal(t, knl.SAB, g.Type)
		assert.Equal(t, 300., g.Temperature)
		assert.Equal(t, 1.5, g.BoundXS)
		assert.Equal(t, 27., g.MassAMU)

		k, err := knl.Validate(g, knl.DefaultPolicy("@DYNINFO"))
		require.NoError(t, err)
		assert.Greater(t, k.SuggestedEmax, 0.)
	}
}

func TestCreateScatteringKernelSumRule(t *testing.T) {
	// at the largest alpha, alpha*lambda = 2N and the beta integral of S is the
	// Poisson weight of orders 1..N
	g, err := CreateScatteringKernel(spectrum(), 0, nil)
	require.NoError(t, err)
	n := luxTable[0].maxOrder
	mean := 2 * float64(n)
	want := 0.
	for k := 1; k <= n; k++ {
		want += poisson(mean, k)
	}
	last := len(g.Alpha) - 1
	assert.InEpsilon(t, want, utils.Trapezoid(g.Beta, column(g, last)), 1e-9)
	assert.Zero(t, utils.Trapezoid(g.Beta, column(g, 0)))
}

func TestCreateScatteringKernelScale(t *testing.T) {
	const oneFraction = 0.25
	g, err := CreateScatteringKernel(spectrum(), 1, func(order int) float64 {
		if order == 1 {
			return oneFraction
		}
		return 1
	})
	require.NoError(t, err)
	n := luxTable[1].maxOrder
	mean := 2 * float64(n)
	want := oneFraction * poisson(mean, 1)
	for k := 2; k <= n; k++ {
		want += poisson(mean, k)
	}
	assert.InEpsilon(t, want, utils.Trapezoid(g.Beta, column(g, len(g.Alpha)-1)), 1e-9)

	_, err = CreateScatteringKernel(spectrum(), 1, func(int) float64 { return -1 })
	require.ErrorIs(t, err, knl.ErrBadInput)
}

func TestCreateScatteringKernelDetailedBalance(t *testing.T) {
	g, err := CreateScatteringKernel(spectrum(), 2, nil)
	require.NoError(t, err)
	nb := len(g.Beta)
	for _, i := range []int{1, len(g.Alpha) / 2, len(g.Alpha) - 1} {
		col := column(g, i)
		for j := nb/2 + 1; j < nb; j++ {
			if col[j] < 1e-200 {
				continue
			}
			assert.InEpsilon(t, col[j]*math.Exp(g.Beta[j]), col[nb-1-j], 1e-9)
		}
	}
}

func TestCreateScatteringKernelErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*VDOSData)
		lux    int
	}{
		{"lux too high", func(*VDOSData) {}, MaxLux + 1},
		{"lux negative", func(*VDOSData) {}, -1},
		{"one density point", func(v *VDOSData) { v.Density = []float64{1} }, 0},
		{"grid size mismatch", func(v *VDOSData) { v.EGrid = []float64{0.01, 0.02, 0.03} }, 0},
		{"zero temperature", func(v *VDOSData) { v.Temperature = 0 }, 0},
		{"non-positive energy", func(v *VDOSData) { v.EGrid = []float64{0, 0.05} }, 0},
		{"negative density", func(v *VDOSData) { v.Density[2] = -1 }, 0},
		{"zero density", func(v *VDOSData) { v.Density = make([]float64, 8) }, 0},
		{"zero mass", func(v *VDOSData) { v.MassAMU = 0 }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := spectrum()
			tt.mutate(v)
			g, err := CreateScatteringKernel(v, tt.lux, nil)
			require.ErrorIs(t, err, knl.ErrBadInput)
			assert.Nil(t, g)
		})
	}
}

func TestExplicitEnergyGrid(t *testing.T) {
	v := spectrum()
	v.EGrid = utils.Linspace(0.01, 0.05, len(v.Density))
	a, err := CreateScatteringKernel(v, 0, nil)
	require.NoError(t, err)
	b, err := CreateScatteringKernel(spectrum(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Beta, b.Beta)
	for i := range a.SAB {
		assert.InDelta(t, b.SAB[i], a.SAB[i], 1e-12*max(1, b.SAB[i]))
	}
}
