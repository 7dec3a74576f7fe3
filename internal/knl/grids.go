package knl

// KnlType tags how the values of a kernel table are encoded.
type KnlType int

const (
	Unspecified KnlType = iota
	SAB                 // plain S(alpha,beta)
	ScaledSAB           // S'(alpha,beta) = S(alpha,beta)*exp(beta/2)
	ScaledSymSAB        // as ScaledSAB, even in beta and given for beta >= 0 only
)

func (t KnlType) String() string {
	switch t {
	case SAB:
		return "sab"
	case ScaledSAB:
		return "sab_scaled"
	case ScaledSymSAB:
		return "sab_scaled_sym"
	}
	return "unspecified"
}

const unsetTemperature = -1.

// KernelGrids accumulates the tables of one kernel description. The sab table
// is stored with beta as the slow index: S(alpha_i, beta_j) = SAB[j*len(Alpha)+i].
type KernelGrids struct {
	Alpha       []float64
	Beta        []float64
	SAB         []float64
	Temperature float64 // [K]
	Type        KnlType
	BoundXS     float64 // [b]
	MassAMU     float64 // [u]
}

func NewKernelGrids() *KernelGrids {
	return &KernelGrids{Temperature: unsetTemperature}
}

func (g *KernelGrids) HasTemperature() bool {
	return g.Temperature != unsetTemperature
}

// Kernel is a validated kernel description with consistent grid sizes and a
// conservative suggested maximum energy, ready for standardization.
type Kernel struct {
	Alpha         []float64
	Beta          []float64
	SAB           []float64
	Type          KnlType
	Temperature   float64 // [K]
	BoundXS       float64 // [b]
	MassAMU       float64 // [u]
	SuggestedEmax float64 // [eV]
}

func (k *Kernel) At(ialpha, ibeta int) float64 {
	return k.SAB[ibeta*len(k.Alpha)+ialpha]
}
