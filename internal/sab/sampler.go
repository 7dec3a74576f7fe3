package sab

import (
	"math"

	"github.com/wildstyl3r/bzscope/internal/rng"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

const maxSampleAttempts = 100

// Sampler draws (alpha, beta) pairs from S restricted to the kinematically
// allowed region at the incident energy.
type Sampler struct {
	in  *Integrator
	ext Extender
}

func NewSampler(in *Integrator, ext Extender) *Sampler {
	return &Sampler{in: in, ext: ext}
}

// Sample returns the final energy and the cosine of the scattering angle.
func (s *Sampler) Sample(r rng.Stream, e float64) (eFinal, mu float64) {
	d := s.in.data
	if e > d.Emax {
		return s.ext.Sample(r, e)
	}
	if !(e > 0) {
		return e, 1
	}
	nb := len(d.Beta)
	w := make([]float64, nb)
	s.in.betaWeights(e, w)

	cum := make([]float64, nb)
	for j := 1; j < nb; j++ {
		cum[j] = cum[j-1] + (d.Beta[j]-d.Beta[j-1])*(w[j-1]+w[j])*0.5
	}
	total := cum[nb-1]
	if !(total > 0) {
		return e, 1
	}

	for range maxSampleAttempts {
		target := r.Generate() * total
		j := utils.SearchInterval(cum, target)
		h := d.Beta[j+1] - d.Beta[j]
		if h <= 0 {
			continue
		}
		x := min(h, utils.LinearDensityInverse(w[j], (w[j+1]-w[j])/h, target-cum[j]))
		beta := d.Beta[j] + x

		t := x / h
		lower, upper := (1-t)*w[j], t*w[j+1]
		col := j
		if r.Generate()*(lower+upper) < upper {
			col = j + 1
		}

		lo, hi, ok := s.in.alphaLimits(e, beta)
		if !ok {
			continue
		}
		alpha, ok := s.sampleAlpha(r, col, lo, hi)
		if !ok {
			continue
		}
		return kinematics(e, beta, alpha, d.KT, d.MassRatio, r)
	}
	return e, 1
}

func (s *Sampler) sampleAlpha(r rng.Stream, j int, lo, hi float64) (float64, bool) {
	d := s.in.data
	na := len(d.Alpha)
	lo = max(lo, d.Alpha[0])
	hi = min(hi, d.Alpha[na-1])
	fLo := s.in.cumulative(j, lo)
	width := s.in.cumulative(j, hi) - fLo
	if !(width > 0) {
		return 0, false
	}
	target := fLo + r.Generate()*width
	row := s.in.prefix[j*na : (j+1)*na]
	i := utils.SearchInterval(row, target)
	h := d.Alpha[i+1] - d.Alpha[i]
	s0, s1 := d.at(i, j), d.at(i+1, j)
	var x float64
	if h > 0 {
		x = min(h, utils.LinearDensityInverse(s0, (s1-s0)/h, target-row[i]))
	}
	return min(hi, max(lo, d.Alpha[i]+x)), true
}

func kinematics(e, beta, alpha, kT, massRatio float64, r rng.Stream) (float64, float64) {
	ef := max(0, e+beta*kT)
	if ef == 0 {
		return 0, 1 - 2*r.Generate()
	}
	mu := (e + ef - alpha*massRatio*kT) / (2 * math.Sqrt(e*ef))
	return ef, max(-1, min(1, mu))
}
