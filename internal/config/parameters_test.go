package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/bzscope/internal/constants"
)

func writeConfig(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

const tomlConfig = `
OutputDir = "out"
EnergyUnit = "meV"
Energies = [1.0, 25.3]
Seed = 7

[Materials.water]
File = "water.ncmat"
VDOSLux = 1

[Materials.mat10]
File = "/data/m10.ncmat"
Energies = [5.0]

[Materials.mat2]
File = "m2.ncmat"
EmaxCeiling = 10.0
Emax = 2.5
`

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "run.toml", tomlConfig)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out", c.OutputDir)
	assert.Equal(t, "meV", c.EnergyUnit)
	assert.Equal(t, []string{"mat2", "mat10", "water"}, c.MaterialNames())

	water := c.Materials["water"]
	assert.Equal(t, filepath.Join(filepath.Dir(path), "water.ncmat"), water.File)
	assert.Equal(t, 1, water.VDOSLux)
	assert.Equal(t, []float64{1, 25.3}, water.Energies)
	assert.Equal(t, int64(7), water.Seed)
	assert.Equal(t, 10000, water.Samples)
	assert.Equal(t, 100., water.EmaxCeiling)
	assert.Equal(t, 300, water.EnergyGridPoints)

	ev := c.EnergiesEV(water)
	require.Len(t, ev, 2)
	assert.InDelta(t, 1e-3, ev[0], 1e-15)
	assert.InDelta(t, 0.0253, ev[1], 1e-15)

	m10 := c.Materials["mat10"]
	assert.Equal(t, "/data/m10.ncmat", m10.File)
	assert.Equal(t, []float64{5}, m10.Energies)
	assert.Equal(t, 3, m10.VDOSLux)

	opts := c.Materials["mat2"]
	modelOpts := opts.Options()
	assert.Equal(t, 2.5, modelOpts.Policy.Emax)
	assert.Equal(t, 10., modelOpts.Policy.EmaxCeiling)
	assert.Equal(t, 3, modelOpts.VDOSLux)
	assert.Equal(t, 300, modelOpts.Grid.Points)
	assert.Equal(t, 1e-5, modelOpts.Grid.Emin)
	require.NotNil(t, modelOpts.Producer)
}

const yamlConfig = `
energy_unit: Aa
threads: 2
make_dir: true
energies: [1.8]
materials:
  ice:
    file: ice.ncmat
    seed: 3
  m2:
    file: m2.ncmat
    energies: [4.0]
    emax: 0.5
    samples: 50
`

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", yamlConfig)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Aa", c.EnergyUnit)
	assert.Equal(t, 2, c.Threads)
	assert.True(t, c.MakeDir)
	assert.Equal(t, []string{"ice", "m2"}, c.MaterialNames())

	ice := c.Materials["ice"]
	assert.Equal(t, filepath.Join(filepath.Dir(path), "ice.ncmat"), ice.File)
	assert.Equal(t, []float64{1.8}, ice.Energies)
	assert.Equal(t, int64(3), ice.Seed)
	assert.Equal(t, 10000, ice.Samples)
	ev := c.EnergiesEV(ice)
	assert.InDelta(t, constants.WavelengthToEnergy/(1.8*1.8), ev[0], 1e-15)

	m2 := c.Materials["m2"]
	assert.Equal(t, []float64{4}, m2.Energies)
	assert.Equal(t, 0.5, m2.Emax)
	assert.Equal(t, 50, m2.Samples)
	assert.Equal(t, int64(1), m2.Seed)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		text     string
		contains string
	}{
		{"no materials", "a.toml", `EnergyUnit = "eV"`, "no materials"},
		{"unknown unit", "a.toml", "EnergyUnit = \"keV\"\n[Materials.a]\nFile = \"a\"\n", `unknown energy unit "keV"`},
		{"bad parameters", "a.toml", "[Materials.a]\nFile = \"a\"\nVDOSLux = 9\nEnergies = [-1.0]\n", `material "a"`},
		{"missing file", "a.toml", "[Materials.a]\nEnergies = [1.0]\n", "File is not set"},
		{"ceiling above limit", "a.toml", "[Materials.a]\nFile = \"a\"\nEmaxCeiling = 1000.0\n", "EmaxCeiling 1000 outside"},
		{"emax above ceiling", "a.yml", "materials:\n  a:\n    file: a\n    emax: 200\n", "Emax 200"},
		{"malformed toml", "a.toml", "[Materials.a\n", "unable to decode"},
		{"malformed yaml", "a.yaml", "materials: [\n", "unable to decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(writeConfig(t, tt.file, tt.text))
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestUnits(t *testing.T) {
	tests := []struct {
		unit  string
		value float64
		ev    float64
	}{
		{"eV", 0.0253, 0.0253},
		{"meV", 25.3, 0.0253},
		{"Aa", 1.798, constants.WavelengthToEnergy / (1.798 * 1.798)},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.InDelta(t, tt.ev, ToEV(tt.value, tt.unit), 1e-15)
			assert.InDelta(t, tt.value, FromEV(tt.ev, tt.unit), 1e-12)
		})
	}
	assert.True(t, math.IsInf(ToEV(0, "Aa"), 1))
	assert.True(t, math.IsInf(FromEV(0, "Aa"), 1))

	unit, err := checkUnit("")
	require.NoError(t, err)
	assert.Equal(t, "eV", unit)
	_, err = checkUnit("J")
	require.Error(t, err)
}
