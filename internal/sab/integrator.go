package sab

import (
	"math"

	"github.com/wildstyl3r/bzscope/internal/utils"
)

// Integrator holds per-beta-column prefix integrals of S over alpha. S is taken
// as piecewise linear in alpha and zero outside the table.
type Integrator struct {
	data   *Data
	prefix []float64 // prefix[j*len(Alpha)+i] = int_{alpha_0}^{alpha_i} S(alpha, beta_j) dalpha
}

func NewIntegrator(d *Data) *Integrator {
	na := len(d.Alpha)
	in := &Integrator{data: d, prefix: make([]float64, len(d.SAB))}
	for j := range d.Beta {
		row := in.prefix[j*na : (j+1)*na]
		for i := 1; i < na; i++ {
			row[i] = row[i-1] + (d.Alpha[i]-d.Alpha[i-1])*(d.at(i-1, j)+d.at(i, j))*0.5
		}
	}
	return in
}

// cumulative returns int_{alpha_0}^{x} S(alpha, beta_j) dalpha.
func (in *Integrator) cumulative(j int, x float64) float64 {
	d := in.data
	na := len(d.Alpha)
	if x <= d.Alpha[0] {
		return 0
	}
	if x >= d.Alpha[na-1] {
		return in.prefix[j*na+na-1]
	}
	i := utils.SearchInterval(d.Alpha, x)
	h := d.Alpha[i+1] - d.Alpha[i]
	p := in.prefix[j*na+i]
	if h <= 0 {
		return p
	}
	s0, s1 := d.at(i, j), d.at(i+1, j)
	t := x - d.Alpha[i]
	return p + s0*t + 0.5*(s1-s0)/h*t*t
}

func (in *Integrator) columnIntegral(j int, a, b float64) float64 {
	if b <= a {
		return 0
	}
	return max(0, in.cumulative(j, b)-in.cumulative(j, a))
}

// alphaLimits returns the kinematically allowed alpha range for incident energy
// e and energy transfer beta, ok is false when the final energy is negative.
func (in *Integrator) alphaLimits(e, beta float64) (lo, hi float64, ok bool) {
	d := in.data
	ef := e + beta*d.KT
	if ef < 0 {
		return 0, 0, false
	}
	s := math.Sqrt(e) + math.Sqrt(ef)
	norm := 1. / (d.MassRatio * d.KT)
	diff := e - ef
	lo = diff * diff / (s * s) * norm
	hi = s * s * norm
	return lo, hi, true
}

// betaWeights fills w[j] with the alpha integral over the allowed range at beta_j.
func (in *Integrator) betaWeights(e float64, w []float64) {
	for j, beta := range in.data.Beta {
		lo, hi, ok := in.alphaLimits(e, beta)
		if !ok {
			w[j] = 0
			continue
		}
		w[j] = in.columnIntegral(j, lo, hi)
	}
}

// CrossSectionAt evaluates sigma(e) = boundXS * A kT / (4 e) * int dbeta int dalpha S
// directly from the table.
func (in *Integrator) CrossSectionAt(e float64) float64 {
	if !(e > 0) {
		return 0
	}
	d := in.data
	w := make([]float64, len(d.Beta))
	in.betaWeights(e, w)
	return d.BoundXS * d.MassRatio * d.KT / (4 * e) * utils.Trapezoid(d.Beta, w)
}
