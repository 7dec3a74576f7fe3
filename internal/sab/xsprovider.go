package sab

import (
	"math"

	"github.com/wildstyl3r/bzscope/internal/constants"
	"github.com/wildstyl3r/bzscope/internal/rng"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

// GridOptions controls the energy grid on which cross sections are tabulated.
type GridOptions struct {
	Points int
	Emin   float64 // [eV]
}

func DefaultGridOptions() GridOptions {
	return GridOptions{Points: 300, Emin: constants.MinEnergyGrid}
}

// Extender defines scattering above the tabulated energy range.
type Extender interface {
	CrossSection(e float64) float64
	Sample(r rng.Stream, e float64) (eFinal, mu float64)
}

// NullExtender contributes nothing beyond the table.
type NullExtender struct{}

func (NullExtender) CrossSection(float64) float64 { return 0 }

func (NullExtender) Sample(_ rng.Stream, e float64) (float64, float64) { return e, 1 }

// XSProvider interpolates cross sections tabulated on a log-spaced energy grid.
type XSProvider struct {
	energyGrid []float64 // [eV]
	xs         []float64 // [b]
	ext        Extender
}

func NewXSProvider(in *Integrator, opts GridOptions, ext Extender) *XSProvider {
	emax := in.data.Emax
	emin := opts.Emin
	if !(emin > 0) || emin >= emax {
		emin = emax * 1e-3
	}
	points := max(opts.Points, 2)
	p := &XSProvider{
		energyGrid: utils.Geomspace(emin, emax, points),
		xs:         make([]float64, points),
		ext:        ext,
	}
	for i, e := range p.energyGrid {
		p.xs[i] = in.CrossSectionAt(e)
	}
	return p
}

func (p *XSProvider) Emax() float64 {
	return p.energyGrid[len(p.energyGrid)-1]
}

func (p *XSProvider) CrossSection(e float64) float64 {
	switch {
	case !(e > 0):
		return 0
	case e > p.Emax():
		return p.ext.CrossSection(e)
	case e < p.energyGrid[0]:
		return p.xs[0] * math.Sqrt(p.energyGrid[0]/e)
	}
	return utils.Interpolate(p.energyGrid, p.xs, e)
}

// EnergyGrid returns copies of the tabulation grid and values.
func (p *XSProvider) EnergyGrid() (energies, xs []float64) {
	return append([]float64(nil), p.energyGrid...), append([]float64(nil), p.xs...)
}
