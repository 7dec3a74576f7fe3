// Package vdos expands a vibrational density of states into a scattering
// kernel S(alpha,beta) through the incoherent phonon expansion.
package vdos

import (
	"fmt"
	"math"
	"slices"

	"github.com/wildstyl3r/bzscope/internal/constants"
	"github.com/wildstyl3r/bzscope/internal/knl"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

// VDOSData is a phonon spectrum of one atom species.
type VDOSData struct {
	EGrid       []float64 // [eV] either {emin, emax} or one energy per density value
	Density     []float64 // arbitrary normalization
	Temperature float64   // [K]
	BoundXS     float64   // [b]
	MassAMU     float64   // [u]
}

// ScaleFunc returns the factor applied to the n-phonon contribution.
type ScaleFunc func(order int) float64

type luxSettings struct {
	maxOrder   int
	betaPoints int // uniform points between zero and the spectrum cutoff
	alphaCount int
}

var luxTable = []luxSettings{
	{maxOrder: 2, betaPoints: 50, alphaCount: 30},
	{maxOrder: 3, betaPoints: 80, alphaCount: 50},
	{maxOrder: 4, betaPoints: 100, alphaCount: 80},
	{maxOrder: 5, betaPoints: 150, alphaCount: 100},
	{maxOrder: 6, betaPoints: 200, alphaCount: 150},
	{maxOrder: 8, betaPoints: 300, alphaCount: 200},
}

const MaxLux = 5

func (v *VDOSData) energies() ([]float64, error) {
	switch {
	case len(v.Density) < 2:
		return nil, fmt.Errorf("%w: vdos density needs at least two points", knl.ErrBadInput)
	case len(v.EGrid) == 2:
		return utils.Linspace(v.EGrid[0], v.EGrid[1], len(v.Density)), nil
	case len(v.EGrid) == len(v.Density):
		return v.EGrid, nil
	}
	return nil, fmt.Errorf("%w: vdos energy grid has %d points for %d density values", knl.ErrBadInput, len(v.EGrid), len(v.Density))
}

func (v *VDOSData) check(egrid []float64) error {
	switch {
	case !(v.Temperature > 0):
		return fmt.Errorf("%w: vdos temperature %g K is not positive", knl.ErrBadInput, v.Temperature)
	case !(egrid[0] > 0) || !utils.IsNonDecreasing(egrid) || egrid[len(egrid)-1] <= egrid[0]:
		return fmt.Errorf("%w: vdos energy grid must be positive and ascending", knl.ErrBadInput)
	case !utils.AllFinite(v.Density) || slices.Min(v.Density) < 0 || !(utils.SumSlice(v.Density) > 0):
		return fmt.Errorf("%w: vdos density must be finite, non-negative and not all zero", knl.ErrBadInput)
	case !(v.BoundXS > 0) || !(v.MassAMU > 0):
		return fmt.Errorf("%w: vdos bound cross section and mass must be positive", knl.ErrBadInput)
	}
	return nil
}

// CreateScatteringKernel expands v into raw kernel grids. lux in [0, MaxLux]
// trades table size for accuracy. scale may be nil.
func CreateScatteringKernel(v *VDOSData, lux int, scale ScaleFunc) (*knl.KernelGrids, error) {
	if lux < 0 || lux > MaxLux {
		return nil, fmt.Errorf("%w: vdos lux level %d outside [0,%d]", knl.ErrBadInput, lux, MaxLux)
	}
	egrid, err := v.energies()
	if err != nil {
		return nil, err
	}
	if err := v.check(egrid); err != nil {
		return nil, err
	}
	if scale == nil {
		scale = func(int) float64 { return 1 }
	}
	settings := luxTable[lux]
	kT := constants.KBoltzmann * v.Temperature

	m := settings.betaPoints
	rho, de := resample(egrid, v.Density, m)
	dBeta := de / kT

	t1, lambda := onePhononKernel(rho, kT, dBeta)
	if !(lambda > 0) {
		return nil, fmt.Errorf("%w: vdos yields a vanishing Debye-Waller factor", knl.ErrBadInput)
	}

	n := settings.maxOrder
	orders := make([][]float64, n+1)
	orders[1] = t1
	for k := 2; k <= n; k++ {
		orders[k] = convolve(orders[k-1], t1, dBeta)
	}

	alphaMax := 2 * float64(n) / lambda
	alpha := append([]float64{0}, utils.Geomspace(alphaMax*1e-4, alphaMax, settings.alphaCount-1)...)

	nb := 2*n*m + 1
	beta := make([]float64, nb)
	for j := range beta {
		beta[j] = float64(j-n*m) * dBeta
	}

	factors := make([]float64, n+1)
	for k := 1; k <= n; k++ {
		factors[k] = scale(k)
		if !(factors[k] >= 0) {
			return nil, fmt.Errorf("%w: phonon order %d scale factor %g is negative", knl.ErrBadInput, k, factors[k])
		}
	}

	na := len(alpha)
	table := make([]float64, nb*na)
	for i, a := range alpha {
		al := a * lambda
		dw := math.Exp(-al)
		weight := dw
		for k := 1; k <= n; k++ {
			weight *= al / float64(k) // e^{-al} al^k / k!
			if factors[k] == 0 || weight == 0 {
				continue
			}
			tk := orders[k]
			offset := (n - k) * m
			for idx, val := range tk {
				table[(idx+offset)*na+i] += factors[k] * weight * val
			}
		}
	}

	return &knl.KernelGrids{
		Alpha:       alpha,
		Beta:        beta,
		SAB:         table,
		Temperature: v.Temperature,
		Type:        knl.SAB,
		BoundXS:     v.BoundXS,
		MassAMU:     v.MassAMU,
	}, nil
}

// resample maps the density onto m+1 uniform points from zero to the cutoff,
// following the Debye law rho ~ E^2 below the first tabulated energy, and
// normalizes it to unit area.
func resample(egrid, density []float64, m int) ([]float64, float64) {
	emin, emax := egrid[0], egrid[len(egrid)-1]
	de := emax / float64(m)
	rho := make([]float64, m+1)
	for k := range rho {
		e := float64(k) * de
		if e < emin {
			rho[k] = density[0] * (e / emin) * (e / emin)
		} else {
			rho[k] = utils.Interpolate(egrid, density, e)
		}
	}
	area := 0.
	for k := 1; k <= m; k++ {
		area += (rho[k] + rho[k-1]) * 0.5 * de
	}
	for k := range rho {
		rho[k] /= area
	}
	return rho, de
}

// onePhononKernel returns T1 on the symmetric grid -m..m (index k+m) and the
// Debye-Waller integral lambda.
func onePhononKernel(rho []float64, kT, dBeta float64) ([]float64, float64) {
	m := len(rho) - 1
	t1 := make([]float64, 2*m+1)
	for k := 1; k <= m; k++ {
		b := float64(k) * dBeta
		// P(b) exp(-b/2) for energy loss and gain, using 1/(2 sinh(b/2)) = exp(-b/2)/(1-exp(-b))
		common := rho[k] * kT / (b * -math.Expm1(-b))
		t1[m+k] = common * math.Exp(-b)
		t1[m-k] = common
	}
	// rho ~ E^2 near zero makes P finite at beta = 0
	t1[m] = t1[m-1] * -math.Expm1(-dBeta) / dBeta

	lambda := 0.
	for k := 1; k < len(t1); k++ {
		lambda += (t1[k] + t1[k-1]) * 0.5 * dBeta
	}
	for k := range t1 {
		t1[k] /= lambda
	}
	return t1, lambda
}

// convolve returns (a * b)(beta) * dBeta on the grid where len = len(a)+len(b)-1.
func convolve(a, b []float64, dBeta float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv * dBeta
		}
	}
	return out
}
