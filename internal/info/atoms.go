package info

import (
	"math"

	"github.com/wildstyl3r/bzscope/internal/constants"
)

// AtomData holds the neutron properties of one element or isotope.
type AtomData struct {
	Symbol       string
	MassAMU      float64 // [u]
	CohScatLen   float64 // [fm]
	IncoherentXS float64 // [b]
	AbsorptionXS float64 // [b] at 2200 m/s
}

func (a AtomData) CoherentXS() float64 {
	return 4 * math.Pi * a.CohScatLen * a.CohScatLen * constants.Fm2ToBarn
}

// ScatteringXS is the total bound scattering cross section.
func (a AtomData) ScatteringXS() float64 {
	return a.CoherentXS() + a.IncoherentXS
}

var builtinAtoms = map[string]AtomData{
	"H":  {Symbol: "H", MassAMU: 1.00794, CohScatLen: -3.7390, IncoherentXS: 80.26, AbsorptionXS: 0.3326},
	"D":  {Symbol: "D", MassAMU: 2.01410178, CohScatLen: 6.671, IncoherentXS: 2.05, AbsorptionXS: 0.000519},
	"C":  {Symbol: "C", MassAMU: 12.0107, CohScatLen: 6.6460, IncoherentXS: 0.001, AbsorptionXS: 0.0035},
	"N":  {Symbol: "N", MassAMU: 14.0067, CohScatLen: 9.36, IncoherentXS: 0.5, AbsorptionXS: 1.9},
	"O":  {Symbol: "O", MassAMU: 15.9994, CohScatLen: 5.803, IncoherentXS: 0.0008, AbsorptionXS: 0.00019},
	"Al": {Symbol: "Al", MassAMU: 26.9815386, CohScatLen: 3.449, IncoherentXS: 0.0082, AbsorptionXS: 0.231},
	"Si": {Symbol: "Si", MassAMU: 28.0855, CohScatLen: 4.1491, IncoherentXS: 0.004, AbsorptionXS: 0.171},
	"Bi": {Symbol: "Bi", MassAMU: 208.9804, CohScatLen: 8.532, IncoherentXS: 0.0084, AbsorptionXS: 0.0338},
	"Zn": {Symbol: "Zn", MassAMU: 65.38, CohScatLen: 5.680, IncoherentXS: 0.077, AbsorptionXS: 1.11},
}

// LookupAtom returns the builtin data for an element symbol.
func LookupAtom(symbol string) (AtomData, bool) {
	a, ok := builtinAtoms[symbol]
	return a, ok
}
