package knl

import "github.com/wildstyl3r/bzscope/internal/constants"

type fieldKind int

const (
	alphaField fieldKind = iota
	betaField
	tableField
	temperatureField
)

// Field describes what a field-name token switches the parser to.
type Field struct {
	kind     fieldKind
	encoding KnlType
}

func AlphaGrid() Field { return Field{kind: alphaField} }
func BetaGrid() Field { return Field{kind: betaField} }
func Temperature() Field { return Field{kind: temperatureField} }
func Table(t KnlType) Field { return Field{kind: tableField, encoding: t} }

// FieldTable maps recognized field-name tokens to their targets.
type FieldTable map[string]Field

var DefaultFields = FieldTable{
	"alphagrid":   AlphaGrid(),
	"betagrid":    BetaGrid(),
	"sab":         Table(SAB),
	"sab_scaled":  Table(ScaledSAB),
	"temperature": Temperature(),
}

// Policy parameterizes parsing and validation of one kernel description.
type Policy struct {
	Section string // label used in error messages, e.g. "@CUSTOM_BZSCOPE"
	Fields  FieldTable

	// Emax > 0 is an explicit suggested maximum energy, otherwise it is derived
	// from the grids and clamped to EmaxCeiling, which never exceeds
	// constants.DefaultEmaxCeiling.
	Emax        float64 // [eV]
	EmaxCeiling float64 // [eV]

	BoundXS float64 // [b]
	MassAMU float64 // [u]
}

func DefaultPolicy(section string) Policy {
	return Policy{
		Section:     section,
		Fields:      DefaultFields,
		EmaxCeiling: constants.DefaultEmaxCeiling,
		BoundXS:     1.,
		MassAMU:     1.,
	}
}
