package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/wildstyl3r/bzscope/internal/constants"
)

type UnitClass int

const (
	Energy UnitClass = iota
	Wavelength
)

var unitToEV = map[string]float64{
	"eV":  1,    // [eV]
	"meV": 1e-3, // [eV]
}

var classesOfUnits = map[string]UnitClass{
	"eV":  Energy,
	"meV": Energy,
	"Aa":  Wavelength,
}

var unitsInClass = map[UnitClass][]string{
	Energy:     {"meV", "eV"},
	Wavelength: {"Aa"},
}

const defaultUnit = "eV"

func checkUnit(unit string) (string, error) {
	if unit == "" {
		return defaultUnit, nil
	}
	if _, some := classesOfUnits[unit]; !some {
		var known []string
		for _, units := range unitsInClass {
			known = append(known, units...)
		}
		slices.Sort(known)
		return "", fmt.Errorf("unknown energy unit %q, expected one of %v", unit, known)
	}
	return unit, nil
}

// ToEV converts a kinetic energy or neutron wavelength given in unit into eV.
func ToEV(v float64, unit string) float64 {
	if classesOfUnits[unit] == Wavelength {
		if v == 0 {
			return math.Inf(1)
		}
		return constants.WavelengthToEnergy / (v * v)
	}
	return v * unitToEV[unit]
}

// FromEV is the inverse of ToEV.
func FromEV(e float64, unit string) float64 {
	if classesOfUnits[unit] == Wavelength {
		if !(e > 0) {
			return math.Inf(1)
		}
		return math.Sqrt(constants.WavelengthToEnergy / e)
	}
	return e / unitToEV[unit]
}
