package info

// DynamicInfo describes the dynamics of one atom species of a material. The set
// of implementations is closed: *VDOS, *VDOSDebye, *FreeGas, *Sterile, *ScatKnl.
type DynamicInfo interface {
	Fraction() float64
	Atom() AtomData
	Temperature() float64 // [K]
	Kind() string

	dynamicInfo()
}

type diBase struct {
	fraction    float64
	atom        AtomData
	temperature float64
}

func (d *diBase) Fraction() float64    { return d.fraction }
func (d *diBase) Atom() AtomData       { return d.atom }
func (d *diBase) Temperature() float64 { return d.temperature }
func (d *diBase) dynamicInfo()         {}

// VDOS carries a tabulated phonon density of states.
type VDOS struct {
	diBase
	EGrid   []float64 // [eV]
	Density []float64
}

// VDOSDebye is an idealized Debye spectrum.
type VDOSDebye struct {
	diBase
	DebyeTemperature float64 // [K]
}

type FreeGas struct{ diBase }

// Sterile marks atoms without inelastic scattering.
type Sterile struct{ diBase }

// ScatKnl carries a directly tabulated kernel as token lines.
type ScatKnl struct {
	diBase
	Lines Section
}

func (*VDOS) Kind() string      { return "vdos" }
func (*VDOSDebye) Kind() string { return "vdosdebye" }
func (*FreeGas) Kind() string   { return "freegas" }
func (*Sterile) Kind() string   { return "sterile" }
func (*ScatKnl) Kind() string   { return "scatknl" }

func NewVDOS(fraction float64, atom AtomData, temperature float64, egrid, density []float64) *VDOS {
	return &VDOS{diBase: diBase{fraction: fraction, atom: atom, temperature: temperature}, EGrid: egrid, Density: density}
}

func NewVDOSDebye(fraction float64, atom AtomData, temperature, debyeTemperature float64) *VDOSDebye {
	return &VDOSDebye{diBase: diBase{fraction: fraction, atom: atom, temperature: temperature}, DebyeTemperature: debyeTemperature}
}

func NewFreeGas(fraction float64, atom AtomData, temperature float64) *FreeGas {
	return &FreeGas{diBase{fraction: fraction, atom: atom, temperature: temperature}}
}

func NewSterile(fraction float64, atom AtomData, temperature float64) *Sterile {
	return &Sterile{diBase{fraction: fraction, atom: atom, temperature: temperature}}
}

func NewScatKnl(fraction float64, atom AtomData, temperature float64, lines Section) *ScatKnl {
	return &ScatKnl{diBase: diBase{fraction: fraction, atom: atom, temperature: temperature}, Lines: lines}
}
