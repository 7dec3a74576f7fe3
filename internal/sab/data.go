package sab

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/bzscope/internal/constants"
	"github.com/wildstyl3r/bzscope/internal/knl"
)

// Data is a kernel in standard form: plain S(alpha,beta) with beta as the
// slow index, together with its physical scalars.
type Data struct {
	Alpha []float64
	Beta  []float64
	SAB   []float64

	Temperature float64 // [K]
	KT          float64 // [eV]
	BoundXS     float64 // [b]
	MassRatio   float64 // target mass over neutron mass
	Emax        float64 // [eV]
}

func (d *Data) at(ialpha, ibeta int) float64 {
	return d.SAB[ibeta*len(d.Alpha)+ialpha]
}

// Standardize converts a validated kernel into plain S(alpha,beta) form, taking
// ownership of its tables.
func Standardize(k *knl.Kernel) (*Data, error) {
	d := &Data{
		Alpha:       k.Alpha,
		Beta:        k.Beta,
		SAB:         k.SAB,
		Temperature: k.Temperature,
		KT:          constants.KBoltzmann * k.Temperature,
		BoundXS:     k.BoundXS,
		MassRatio:   k.MassAMU / constants.NeutronMassAMU,
		Emax:        k.SuggestedEmax,
	}
	na := len(d.Alpha)
	switch k.Type {
	case knl.SAB:
	case knl.ScaledSAB:
		for j, beta := range d.Beta {
			f := math.Exp(-0.5 * beta)
			for i := range na {
				d.SAB[j*na+i] *= f
			}
		}
	case knl.ScaledSymSAB:
		d.Beta, d.SAB = unfoldSymmetric(d.Alpha, d.Beta, d.SAB)
	default:
		return nil, fmt.Errorf("%w: kernel encoding %v cannot be standardized", knl.ErrBadInput, k.Type)
	}
	k.Alpha, k.Beta, k.SAB = nil, nil, nil
	return d, nil
}

// unfoldSymmetric extends a table given for beta >= 0 to negative beta and
// removes the exp(beta/2) scaling.
func unfoldSymmetric(alpha, beta, table []float64) ([]float64, []float64) {
	na, nb := len(alpha), len(beta)
	skip := 0
	if beta[0] == 0 {
		skip = 1
	}
	nfull := 2*nb - skip
	fullBeta := make([]float64, 0, nfull)
	fullTable := make([]float64, 0, nfull*na)
	for j := nb - 1; j >= skip; j-- {
		fullBeta = append(fullBeta, -beta[j])
		f := math.Exp(0.5 * beta[j])
		for i := range na {
			fullTable = append(fullTable, table[j*na+i]*f)
		}
	}
	for j := range nb {
		fullBeta = append(fullBeta, beta[j])
		f := math.Exp(-0.5 * beta[j])
		for i := range na {
			fullTable = append(fullTable, table[j*na+i]*f)
		}
	}
	return fullBeta, fullTable
}
