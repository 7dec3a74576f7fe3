package knl

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/bzscope/internal/constants"
)

func TestParseAndValidateEndToEnd(t *testing.T) {
	p := DefaultPolicy("@CUSTOM_TEST")

	k, err := ParseAndValidate(lines("alphagrid 0.0r2 1.0r2\nbetagrid -1.0 0.0 1.0\nsab 0.1r12\ntemperature 300"), p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 1}, k.Alpha)
	assert.Equal(t, []float64{-1, 0, 1}, k.Beta)
	assert.Len(t, k.SAB, 12)
	assert.Equal(t, 300., k.Temperature)
	kT := constants.KBoltzmann * 300
	assert.InDelta(t, kT, k.SuggestedEmax, 1e-12) // (betaMin - alphaMax)^2 / (4 alphaMax) = 1
	assert.Equal(t, 0.1, k.At(3, 2))

	k, err = ParseAndValidate(lines("alphagrid 0.0r2 1.0r2\nbetagrid -1.0 0.0 1.0\nsab 0.1r11\ntemperature 300"), p)
	require.ErrorIs(t, err, ErrBadInput)
	assert.Nil(t, k)
	assert.Contains(t, err.Error(), "grid size mismatch")
	assert.Contains(t, err.Error(), "@CUSTOM_TEST")
}

func validGrids() *KernelGrids {
	g := NewKernelGrids()
	g.Alpha = []float64{0, 1, 2}
	g.Beta = []float64{-2, 0, 2}
	g.SAB = []float64{1, 1, 1, 2, 2, 2, 1, 1, 1}
	g.Temperature = 300
	g.Type = SAB
	g.BoundXS = 1
	g.MassAMU = 1
	return g
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*KernelGrids)
		contains string
	}{
		{"no temperature", func(g *KernelGrids) { g.Temperature = unsetTemperature }, "temperature is not set"},
		{"zero temperature", func(g *KernelGrids) { g.Temperature = 0 }, "not positive"},
		{"no table", func(g *KernelGrids) { g.Type = Unspecified }, "no sab table"},
		{"short alpha", func(g *KernelGrids) { g.Alpha = g.Alpha[:1]; g.SAB = g.SAB[:3] }, "at least two points"},
		{"size mismatch", func(g *KernelGrids) { g.SAB = g.SAB[:8] }, "grid size mismatch"},
		{"nan", func(g *KernelGrids) { g.SAB[4] = math.NaN() }, "sab contains non-finite"},
		{"negative alpha", func(g *KernelGrids) { g.Alpha[0] = -1 }, "alphagrid must be"},
		{"descending beta", func(g *KernelGrids) { g.Beta = []float64{2, 0, -2} }, "betagrid must be ascending"},
		{"negative sab", func(g *KernelGrids) { g.SAB[5] = -0.5 }, "index 5 is negative"},
		{"zero alpha", func(g *KernelGrids) { g.Alpha = []float64{0, 0, 0} }, "largest alpha"},
		{"symmetric with negative beta", func(g *KernelGrids) { g.Type = ScaledSymSAB }, "symmetric table"},
		{"zero bound xs", func(g *KernelGrids) { g.BoundXS = 0 }, "bound cross section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGrids()
			tt.mutate(g)
			k, err := Validate(g, DefaultPolicy("@CUSTOM_TEST"))
			require.ErrorIs(t, err, ErrBadInput)
			assert.Nil(t, k)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateEmaxPolicy(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		p := DefaultPolicy("@CUSTOM_TEST")
		p.Emax = 5
		k, err := Validate(validGrids(), p)
		require.NoError(t, err)
		assert.Equal(t, 5., k.SuggestedEmax)
	})

	t.Run("explicit above ceiling", func(t *testing.T) {
		p := DefaultPolicy("@CUSTOM_TEST")
		p.Emax = 101
		_, err := Validate(validGrids(), p)
		require.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("negative", func(t *testing.T) {
		p := DefaultPolicy("@CUSTOM_TEST")
		p.Emax = -1
		_, err := Validate(validGrids(), p)
		require.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("derived", func(t *testing.T) {
		k, err := Validate(validGrids(), DefaultPolicy("@CUSTOM_TEST"))
		require.NoError(t, err)
		kT := constants.KBoltzmann * 300
		assert.InDelta(t, kT*16/8, k.SuggestedEmax, 1e-12)
	})

	t.Run("derived for symmetric table uses mirrored beta", func(t *testing.T) {
		g := validGrids()
		g.Type = ScaledSymSAB
		g.Beta = []float64{0, 1, 4}
		k, err := Validate(g, DefaultPolicy("@CUSTOM_TEST"))
		require.NoError(t, err)
		kT := constants.KBoltzmann * 300
		assert.InDelta(t, kT*36/8, k.SuggestedEmax, 1e-12)
	})

	t.Run("derived is clamped", func(t *testing.T) {
		g := validGrids()
		g.Beta = []float64{-1e6, 0, 2}
		k, err := Validate(g, DefaultPolicy("@CUSTOM_TEST"))
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultEmaxCeiling, k.SuggestedEmax)
	})

	t.Run("ceiling above the hard limit", func(t *testing.T) {
		g := NewKernelGrids()
		g.Alpha = []float64{0, 1e-3}
		g.Beta = []float64{-1e6, 0}
		g.SAB = []float64{1, 1, 1, 1}
		g.Temperature = 300
		g.Type = SAB
		g.BoundXS = 1
		g.MassAMU = 1
		p := DefaultPolicy("@CUSTOM_TEST")
		p.EmaxCeiling = 1000
		k, err := Validate(g, p)
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultEmaxCeiling, k.SuggestedEmax)

		p.Emax = 500
		_, err = Validate(validGrids(), p)
		require.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("scaled table from zero beta is symmetric", func(t *testing.T) {
		g := validGrids()
		g.Type = ScaledSAB
		g.Beta = []float64{0, 1, 4}
		k, err := Validate(g, DefaultPolicy("@CUSTOM_TEST"))
		require.NoError(t, err)
		assert.Equal(t, ScaledSymSAB, k.Type)
		kT := constants.KBoltzmann * 300
		assert.InDelta(t, kT*36/8, k.SuggestedEmax, 1e-12)

		g = validGrids()
		g.Type = ScaledSAB
		k, err = Validate(g, DefaultPolicy("@CUSTOM_TEST"))
		require.NoError(t, err)
		assert.Equal(t, ScaledSAB, k.Type)
	})

	t.Run("grids are moved", func(t *testing.T) {
		g := validGrids()
		_, err := Validate(g, DefaultPolicy("@CUSTOM_TEST"))
		require.NoError(t, err)
		assert.Nil(t, g.SAB)
	})
}

func TestEmaxUpperBoundRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for range 10000 {
		temperature := r.Float64() * 3000
		betaMin := (r.Float64() - 0.5) * 2e3
		alphaMax := math.Pow(10, r.Float64()*12-6)
		bound := EmaxUpperBound(temperature, betaMin, alphaMax, constants.DefaultEmaxCeiling)
		require.GreaterOrEqual(t, bound, 0.)
		require.LessOrEqual(t, bound, constants.DefaultEmaxCeiling)
	}
	assert.Equal(t, 0., EmaxUpperBound(300, -1, 0, 100))
	assert.Equal(t, 0., EmaxUpperBound(0, -1, 1, 100))
}
