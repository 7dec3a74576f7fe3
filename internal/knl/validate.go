package knl

import (
	"fmt"
	"math"
	"slices"

	"github.com/wildstyl3r/bzscope/internal/constants"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

// EmaxUpperBound is the largest neutron energy for which the kinematically
// allowed region still reaches into the tabulated grid:
//
//	kT * (betaMin - alphaMax)^2 / (4 * alphaMax)
//
// clamped to [0, ceiling]. It is zero when alphaMax is not positive.
func EmaxUpperBound(temperature, betaMin, alphaMax, ceiling float64) float64 {
	if !(alphaMax > 0) || !(temperature > 0) {
		return 0
	}
	kT := constants.KBoltzmann * temperature
	d := betaMin - alphaMax
	emax := kT * d * d / (4 * alphaMax)
	if math.IsNaN(emax) || emax < 0 {
		return 0
	}
	return min(emax, ceiling)
}

// Validate checks a populated KernelGrids and moves its tables into a Kernel.
// The grids must not be used afterwards.
func Validate(g *KernelGrids, p Policy) (*Kernel, error) {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s in the %s section", ErrBadInput, fmt.Sprintf(format, args...), p.Section)
	}

	if !g.HasTemperature() {
		return nil, bad("temperature is not set")
	}
	if !(g.Temperature > 0) || math.IsInf(g.Temperature, 0) {
		return nil, bad("temperature %g K is not positive", g.Temperature)
	}
	if g.Type == Unspecified {
		return nil, bad("no sab table given")
	}
	if len(g.Alpha) < 2 || len(g.Beta) < 2 {
		return nil, bad("alphagrid and betagrid need at least two points each (got %d and %d)", len(g.Alpha), len(g.Beta))
	}
	if len(g.Alpha)*len(g.Beta) != len(g.SAB) {
		return nil, bad("grid size mismatch: %d alpha x %d beta values require %d table values, got %d",
			len(g.Alpha), len(g.Beta), len(g.Alpha)*len(g.Beta), len(g.SAB))
	}
	for _, named := range []struct {
		name string
		grid []float64
	}{{"alphagrid", g.Alpha}, {"betagrid", g.Beta}, {"sab", g.SAB}} {
		if !utils.AllFinite(named.grid) {
			return nil, bad("%s contains non-finite values", named.name)
		}
	}
	if !utils.IsNonDecreasing(g.Alpha) || g.Alpha[0] < 0 {
		return nil, bad("alphagrid must be non-negative and ascending")
	}
	if !utils.IsNonDecreasing(g.Beta) {
		return nil, bad("betagrid must be ascending")
	}
	// a scaled table starting at beta = 0 holds only the energy-gain half
	if g.Type == ScaledSAB && g.Beta[0] == 0 {
		g.Type = ScaledSymSAB
	}
	if g.Type == ScaledSymSAB && g.Beta[0] < 0 {
		return nil, bad("symmetric table needs a non-negative betagrid")
	}
	if i := slices.IndexFunc(g.SAB, func(v float64) bool { return v < 0 }); i >= 0 {
		return nil, bad("sab value %g at index %d is negative", g.SAB[i], i)
	}
	alphaMax := g.Alpha[len(g.Alpha)-1]
	if !(alphaMax > 0) {
		return nil, bad("largest alpha must be positive")
	}
	if !(g.BoundXS > 0) || !(g.MassAMU > 0) {
		return nil, bad("bound cross section %g b and mass %g u must be positive", g.BoundXS, g.MassAMU)
	}

	ceiling := constants.DefaultEmaxCeiling
	if p.EmaxCeiling > 0 {
		ceiling = min(p.EmaxCeiling, constants.DefaultEmaxCeiling)
	}
	emax := p.Emax
	switch {
	case emax > ceiling:
		return nil, bad("suggested Emax %g eV exceeds the ceiling of %g eV", emax, ceiling)
	case emax < 0:
		return nil, bad("suggested Emax %g eV is negative", emax)
	case emax == 0:
		betaMin := g.Beta[0]
		if g.Type == ScaledSymSAB {
			betaMin = -g.Beta[len(g.Beta)-1]
		}
		emax = EmaxUpperBound(g.Temperature, betaMin, alphaMax, ceiling)
		if !(emax > 0) {
			return nil, bad("grids support no neutron energy range (betaMin %g, alphaMax %g)", betaMin, alphaMax)
		}
	}

	k := &Kernel{
		Alpha:         g.Alpha,
		Beta:          g.Beta,
		SAB:           g.SAB,
		Type:          g.Type,
		Temperature:   g.Temperature,
		BoundXS:       g.BoundXS,
		MassAMU:       g.MassAMU,
		SuggestedEmax: emax,
	}
	g.Alpha, g.Beta, g.SAB = nil, nil, nil
	return k, nil
}

// ParseAndValidate runs Parse and Validate on one section.
func ParseAndValidate(lines [][]string, p Policy) (*Kernel, error) {
	g, err := Parse(lines, p)
	if err != nil {
		return nil, err
	}
	return Validate(g, p)
}
