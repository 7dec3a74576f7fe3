package sab

import (
	"github.com/wildstyl3r/bzscope/internal/knl"
	"github.com/wildstyl3r/bzscope/internal/rng"
)

// Scatter is a queryable scattering process built from one kernel. It is
// immutable and safe for concurrent use given one stream per goroutine.
type Scatter struct {
	data    *Data
	xs      *XSProvider
	sampler *Sampler
}

// NewScatter standardizes k, integrates it on the energy grid and prepares the
// sampler. The kernel's tables are consumed.
func NewScatter(k *knl.Kernel, opts GridOptions, ext Extender) (*Scatter, error) {
	d, err := Standardize(k)
	if err != nil {
		return nil, err
	}
	if ext == nil {
		ext = NullExtender{}
	}
	in := NewIntegrator(d)
	return &Scatter{
		data:    d,
		xs:      NewXSProvider(in, opts, ext),
		sampler: NewSampler(in, ext),
	}, nil
}

func (s *Scatter) CrossSection(e float64) float64 {
	return s.xs.CrossSection(e)
}

func (s *Scatter) Sample(r rng.Stream, e float64) (eFinal, mu float64) {
	return s.sampler.Sample(r, e)
}

func (s *Scatter) Emax() float64 {
	return s.data.Emax
}

func (s *Scatter) Temperature() float64 {
	return s.data.Temperature
}

func (s *Scatter) EnergyGrid() (energies, xs []float64) {
	return s.xs.EnergyGrid()
}
