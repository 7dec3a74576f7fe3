package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/facette/natsort"
	"gopkg.in/yaml.v3"

	"github.com/wildstyl3r/bzscope/internal/constants"
	"github.com/wildstyl3r/bzscope/internal/model"
	"github.com/wildstyl3r/bzscope/internal/rng"
	"github.com/wildstyl3r/bzscope/internal/sab"
	"github.com/wildstyl3r/bzscope/internal/vdos"
)

type Config struct {
	OutputDir       string                     `yaml:"output_dir"`
	EnergyUnit      string                     `yaml:"energy_unit"`
	MakeDir         bool                       `yaml:"make_dir"`
	Threads         int                        `yaml:"threads"`
	Materials       map[string]ModelParameters `yaml:"materials"`
	ModelParameters `yaml:",inline"`

	defined func(path ...string) bool
}

type ModelParameters struct {
	File             string    `yaml:"file"`
	Energies         []float64 `yaml:"energies"` // in EnergyUnit
	VDOSLux          int       `yaml:"vdos_lux"`
	Emax             float64   `yaml:"emax"`         // [eV], 0 derives it from the kernel
	EmaxCeiling      float64   `yaml:"emax_ceiling"` // [eV]
	EnergyGridPoints int       `yaml:"energy_grid_points"`
	EnergyGridMin    float64   `yaml:"energy_grid_min"` // [eV]
	Seed             int64     `yaml:"seed"`
	Samples          int       `yaml:"samples"`

	_verbose bool
}

var defaultValues = map[string]any{
	"Energies":         []float64{0.001, 0.0253, 0.1},
	"VDOSLux":          3,
	"EmaxCeiling":      100.,
	"EnergyGridPoints": 300,
	"EnergyGridMin":    1e-5,
	"Seed":             int64(1),
	"Samples":          10000,
}

// Load reads a run configuration from TOML, or from YAML when the file has a
// .yaml or .yml extension. Material values fall back to global ones and then
// to defaults. Relative material paths are resolved against the config file.
func Load(path string) (*Config, error) {
	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", path, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", path, err)
		}
		config.defined = yamlDefined(raw)
	default:
		meta, err := toml.DecodeFile(path, &config)
		if err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", path, err)
		}
		config.defined = meta.IsDefined
	}

	unit, err := checkUnit(config.EnergyUnit)
	if err != nil {
		return nil, err
	}
	config.EnergyUnit = unit
	if len(config.Materials) == 0 {
		return nil, errors.New("no materials provided")
	}

	dir := filepath.Dir(path)
	for name, mp := range config.Materials {
		if err := mp.unify(name, &config); err != nil {
			return nil, err
		}
		if mp.File != "" && !filepath.IsAbs(mp.File) {
			mp.File = filepath.Join(dir, mp.File)
		}
		config.Materials[name] = mp
	}
	return &config, nil
}

// MaterialNames returns the configured materials in natural order.
func (c *Config) MaterialNames() []string {
	names := make([]string, 0, len(c.Materials))
	for name := range c.Materials {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natsort.Compare(names[i], names[j]) })
	return names
}

// EnergiesEV returns the material's energies converted from the config unit.
func (c *Config) EnergiesEV(mp ModelParameters) []float64 {
	energies := make([]float64, len(mp.Energies))
	for i, v := range mp.Energies {
		energies[i] = ToEV(v, c.EnergyUnit)
	}
	return energies
}

func (p *ModelParameters) Verbose() bool {
	return p._verbose
}

func (p *ModelParameters) SetVerbosity(verbose bool) {
	p._verbose = verbose
}

// Options converts the parameters into model construction options.
func (p *ModelParameters) Options() model.Options {
	opts := model.DefaultOptions()
	opts.VDOSLux = p.VDOSLux
	opts.Policy.Emax = p.Emax
	opts.Policy.EmaxCeiling = p.EmaxCeiling
	opts.Grid = sab.GridOptions{Points: p.EnergyGridPoints, Emin: p.EnergyGridMin}
	opts.Producer = rng.NewProducer(p.Seed)
	return opts
}

/*
field value priority:
1. material
2. global
3. default
*/
func (p *ModelParameters) unify(name string, config *Config) error {
	local := reflect.ValueOf(p).Elem()
	global := reflect.ValueOf(&config.ModelParameters).Elem()
	localType := local.Type()
	for i := range local.NumField() {
		field := localType.Field(i)
		if !field.IsExported() {
			continue
		}
		switch {
		case config.defined("Materials", name, field.Name):
		case config.defined(field.Name):
			local.Field(i).Set(global.Field(i))
		default:
			if v, some := defaultValues[field.Name]; some {
				local.Field(i).Set(reflect.ValueOf(v))
			}
		}
	}
	return p.check(name)
}

func (p *ModelParameters) check(name string) error {
	var problems []string
	if p.File == "" {
		problems = append(problems, "File is not set")
	}
	if len(p.Energies) == 0 {
		problems = append(problems, "Energies is empty")
	}
	for _, e := range p.Energies {
		if !(e > 0) {
			problems = append(problems, fmt.Sprintf("energy %g is not positive", e))
		}
	}
	if p.VDOSLux < 0 || p.VDOSLux > vdos.MaxLux {
		problems = append(problems, fmt.Sprintf("VDOSLux %d outside [0,%d]", p.VDOSLux, vdos.MaxLux))
	}
	if !(p.EmaxCeiling > 0) || p.EmaxCeiling > constants.DefaultEmaxCeiling {
		problems = append(problems, fmt.Sprintf("EmaxCeiling %g outside (0,%g]", p.EmaxCeiling, constants.DefaultEmaxCeiling))
	}
	if p.Emax < 0 || p.Emax > p.EmaxCeiling {
		problems = append(problems, fmt.Sprintf("Emax %g outside [0,EmaxCeiling]", p.Emax))
	}
	if p.EnergyGridPoints < 2 {
		problems = append(problems, "EnergyGridPoints must be at least 2")
	}
	if !(p.EnergyGridMin > 0) {
		problems = append(problems, "EnergyGridMin must be positive")
	}
	if p.Samples <= 0 {
		problems = append(problems, "Samples must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("material %q: %s", name, strings.Join(problems, "; "))
	}
	return nil
}

func yamlKey(field string) string {
	for _, t := range []reflect.Type{reflect.TypeOf(ModelParameters{}), reflect.TypeOf(Config{})} {
		if f, some := t.FieldByName(field); some {
			if tag, _, _ := strings.Cut(f.Tag.Get("yaml"), ","); tag != "" {
				return tag
			}
		}
	}
	return field
}

// yamlDefined mirrors toml.MetaData.IsDefined for a decoded YAML document.
func yamlDefined(raw map[string]any) func(path ...string) bool {
	return func(path ...string) bool {
		var node any = raw
		for i, key := range path {
			m, ok := node.(map[string]any)
			if !ok {
				return false
			}
			if i != 1 || path[0] != "Materials" {
				key = yamlKey(key)
			}
			if node, ok = m[key]; !ok {
				return false
			}
		}
		return true
	}
}
