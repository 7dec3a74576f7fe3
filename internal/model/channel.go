package model

import (
	"fmt"

	"github.com/wildstyl3r/bzscope/internal/info"
	"github.com/wildstyl3r/bzscope/internal/knl"
	"github.com/wildstyl3r/bzscope/internal/rng"
	"github.com/wildstyl3r/bzscope/internal/sab"
	"github.com/wildstyl3r/bzscope/internal/vdos"
)

// Process is a queryable scattering contribution.
type Process interface {
	CrossSection(e float64) float64 // [b]
	Sample(r rng.Stream, e float64) (eFinal, mu float64)
}

// Channel is one weighted scattering contribution of a composition.
type Channel struct {
	Fraction float64
	Label    string
	process  Process
}

func (c *Channel) CrossSection(e float64) float64 {
	return c.Fraction * c.process.CrossSection(e)
}

// Emax returns the tabulated energy limit when the process has one.
func (c *Channel) Emax() float64 {
	if s, ok := c.process.(interface{ Emax() float64 }); ok {
		return s.Emax()
	}
	return 0
}

// customChannel builds the weight-one channel from the parsed custom section.
func customChannel(section info.Section, opts Options) (*Channel, error) {
	k, err := knl.ParseAndValidate(section, opts.Policy)
	if err != nil {
		return nil, err
	}
	s, err := sab.NewScatter(k, opts.Grid, sab.NullExtender{})
	if err != nil {
		return nil, err
	}
	return &Channel{Fraction: 1, Label: opts.Policy.Section, process: s}, nil
}

// dynamicChannel builds the channel of one material constituent. Only phonon
// spectra are supported; the one-phonon term is reduced to its incoherent part.
func dynamicChannel(di info.DynamicInfo, opts Options) (*Channel, error) {
	switch di := di.(type) {
	case *info.VDOS:
		atom := di.Atom()
		scatt := atom.ScatteringXS()
		if !(scatt > 0) {
			return nil, fmt.Errorf("%w: element %s has no scattering cross section", ErrBadInput, atom.Symbol)
		}
		oneFraction := atom.IncoherentXS / scatt
		scale := func(order int) float64 {
			if order == 1 {
				return oneFraction
			}
			return 1
		}
		grids, err := vdos.CreateScatteringKernel(&vdos.VDOSData{
			EGrid:       di.EGrid,
			Density:     di.Density,
			Temperature: di.Temperature(),
			BoundXS:     scatt,
			MassAMU:     atom.MassAMU,
		}, opts.VDOSLux, scale)
		if err != nil {
			return nil, fmt.Errorf("vdos of %s: %w", atom.Symbol, err)
		}
		policy := opts.Policy
		policy.Section = "@DYNINFO " + atom.Symbol
		policy.Emax = 0
		k, err := knl.Validate(grids, policy)
		if err != nil {
			return nil, err
		}
		s, err := sab.NewScatter(k, opts.Grid, sab.NullExtender{})
		if err != nil {
			return nil, err
		}
		return &Channel{Fraction: di.Fraction(), Label: "vdos " + atom.Symbol, process: s}, nil
	}
	return nil, fmt.Errorf("%w: %s dynamics of %s", ErrUnsupported, di.Kind(), di.Atom().Symbol)
}
