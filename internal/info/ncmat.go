package info

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/wildstyl3r/bzscope/internal/knl"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

const DefaultTemperature = 293.15 // [K]

const customPrefix = "CUSTOM_"

var dynInfoKeys = map[string]struct{}{
	"element": {}, "fraction": {}, "type": {},
	"vdos_egrid": {}, "vdos_density": {}, "debye_temp": {},
	"alphagrid": {}, "betagrid": {}, "sab": {}, "sab_scaled": {}, "temperature": {},
}

type rawSection struct {
	name  string
	line  int
	lines Section
}

// LoadFile reads an NCMAT-style material file.
func LoadFile(path string) (*Material, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening material file: %w", err)
	}
	defer file.Close()
	return Load(file, utils.GetFilename(path))
}

// Load reads NCMAT-style text: a "NCMAT" header line followed by @SECTION
// blocks. @TEMPERATURE, @ATOMDB, @DYNINFO and @CUSTOM_<NAME> are interpreted,
// other sections are skipped. '#' starts a comment.
func Load(r io.Reader, name string) (*Material, error) {
	sections, err := scanSections(r)
	if err != nil {
		return nil, err
	}

	m := NewMaterial(name, DefaultTemperature)
	atoms := map[string]AtomData{}
	var dyninfos []rawSection
	for _, s := range sections {
		switch {
		case s.name == "TEMPERATURE":
			if m.Temperature, err = parseTemperature(s); err != nil {
				return nil, err
			}
		case s.name == "ATOMDB":
			if err := parseAtomDB(s, atoms); err != nil {
				return nil, err
			}
		case s.name == "DYNINFO":
			dyninfos = append(dyninfos, s)
		case strings.HasPrefix(s.name, customPrefix):
			m.AddCustomSection(strings.TrimPrefix(s.name, customPrefix), s.lines)
		}
	}

	total := 0.
	for _, s := range dyninfos {
		di, err := parseDynInfo(s, atoms, m.Temperature)
		if err != nil {
			return nil, err
		}
		total += di.Fraction()
		m.AddDynamicInfo(di)
	}
	if len(dyninfos) > 0 && math.Abs(total-1) > 1e-6 {
		return nil, fmt.Errorf("%w: @DYNINFO fractions sum to %g instead of 1", knl.ErrBadInput, total)
	}
	return m, nil
}

func scanSections(r io.Reader) ([]rawSection, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var sections []rawSection
	headerSeen := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if !headerSeen {
			if !strings.HasPrefix(parts[0], "NCMAT") {
				return nil, fmt.Errorf("%w: line %d: material data must start with an NCMAT header", knl.ErrBadInput, lineNo)
			}
			headerSeen = true
			continue
		}
		if strings.HasPrefix(parts[0], "@") {
			if len(parts) != 1 || len(parts[0]) == 1 {
				return nil, fmt.Errorf("%w: line %d: malformed section header %q", knl.ErrBadInput, lineNo, line)
			}
			sections = append(sections, rawSection{name: parts[0][1:], line: lineNo})
			continue
		}
		if len(sections) == 0 {
			return nil, fmt.Errorf("%w: line %d: data outside of any section", knl.ErrBadInput, lineNo)
		}
		last := &sections[len(sections)-1]
		last.lines = append(last.lines, parts)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading material data: %w", err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("%w: empty material data", knl.ErrBadInput)
	}
	return sections, nil
}

func parseTemperature(s rawSection) (float64, error) {
	if len(s.lines) != 1 || len(s.lines[0]) != 1 {
		return 0, fmt.Errorf("%w: @TEMPERATURE (line %d) must hold a single value", knl.ErrBadInput, s.line)
	}
	t, err := strconv.ParseFloat(s.lines[0][0], 64)
	if err != nil || !(t > 0) {
		return 0, fmt.Errorf("%w: invalid @TEMPERATURE value %q", knl.ErrBadInput, s.lines[0][0])
	}
	return t, nil
}

// parseAtomDB reads lines of the form "<symbol> <mass>u <b>fm <incoh>b <abs>b".
func parseAtomDB(s rawSection, atoms map[string]AtomData) error {
	for _, parts := range s.lines {
		if len(parts) != 5 {
			return fmt.Errorf("%w: @ATOMDB entry %q should have 5 fields", knl.ErrBadInput, strings.Join(parts, " "))
		}
		var values [4]float64
		for i, unit := range []string{"u", "fm", "b", "b"} {
			field := parts[i+1]
			v, err := strconv.ParseFloat(strings.TrimSuffix(field, unit), 64)
			if err != nil || !strings.HasSuffix(field, unit) {
				return fmt.Errorf("%w: @ATOMDB value %q for %s should be a number with unit %q", knl.ErrBadInput, field, parts[0], unit)
			}
			values[i] = v
		}
		if !(values[0] > 0) || values[2] < 0 || values[3] < 0 {
			return fmt.Errorf("%w: @ATOMDB entry for %s has invalid values", knl.ErrBadInput, parts[0])
		}
		atoms[parts[0]] = AtomData{
			Symbol:       parts[0],
			MassAMU:      values[0],
			CohScatLen:   values[1],
			IncoherentXS: values[2],
			AbsorptionXS: values[3],
		}
	}
	return nil
}

func parseDynInfo(s rawSection, atoms map[string]AtomData, temperature float64) (DynamicInfo, error) {
	fields := map[string][]string{}
	var order []string
	var key string
	for _, parts := range s.lines {
		if _, isKey := dynInfoKeys[parts[0]]; isKey {
			key = parts[0]
			if _, dup := fields[key]; dup {
				return nil, fmt.Errorf("%w: @DYNINFO (line %d) repeats keyword %q", knl.ErrBadInput, s.line, key)
			}
			order = append(order, key)
			fields[key] = append([]string{}, parts[1:]...)
			continue
		}
		if key == "" {
			return nil, fmt.Errorf("%w: @DYNINFO (line %d) has unknown keyword %q", knl.ErrBadInput, s.line, parts[0])
		}
		fields[key] = append(fields[key], parts...)
	}

	single := func(name string) (string, error) {
		v := fields[name]
		if len(v) != 1 {
			return "", fmt.Errorf("%w: @DYNINFO (line %d) needs exactly one %q value", knl.ErrBadInput, s.line, name)
		}
		return v[0], nil
	}
	symbol, err := single("element")
	if err != nil {
		return nil, err
	}
	atom, ok := atoms[symbol]
	if !ok {
		if atom, ok = LookupAtom(symbol); !ok {
			return nil, fmt.Errorf("%w: no atom data for element %q", knl.ErrBadInput, symbol)
		}
	}
	fractionText, err := single("fraction")
	if err != nil {
		return nil, err
	}
	fraction, err := parseFraction(fractionText)
	if err != nil {
		return nil, err
	}
	kind, err := single("type")
	if err != nil {
		return nil, err
	}
	if _, ok := fields["temperature"]; ok && kind != "scatknl" {
		text, err := single("temperature")
		if err != nil {
			return nil, err
		}
		if temperature, err = strconv.ParseFloat(text, 64); err != nil || !(temperature > 0) {
			return nil, fmt.Errorf("%w: invalid @DYNINFO temperature %q", knl.ErrBadInput, text)
		}
	}

	switch kind {
	case "vdos":
		egrid, err := floats(fields["vdos_egrid"], "vdos_egrid")
		if err != nil {
			return nil, err
		}
		density, err := floats(fields["vdos_density"], "vdos_density")
		if err != nil {
			return nil, err
		}
		return NewVDOS(fraction, atom, temperature, egrid, density), nil
	case "vdosdebye":
		text, err := single("debye_temp")
		if err != nil {
			return nil, err
		}
		td, err := strconv.ParseFloat(text, 64)
		if err != nil || !(td > 0) {
			return nil, fmt.Errorf("%w: invalid debye_temp %q", knl.ErrBadInput, text)
		}
		return NewVDOSDebye(fraction, atom, temperature, td), nil
	case "freegas":
		return NewFreeGas(fraction, atom, temperature), nil
	case "sterile":
		return NewSterile(fraction, atom, temperature), nil
	case "scatknl":
		var lines Section
		for _, k := range order {
			switch k {
			case "element", "fraction", "type":
				continue
			}
			lines = append(lines, append([]string{k}, fields[k]...))
		}
		return NewScatKnl(fraction, atom, temperature, lines), nil
	}
	return nil, fmt.Errorf("%w: unknown @DYNINFO type %q", knl.ErrBadInput, kind)
}

// parseFraction accepts decimals and ratios such as "2/3".
func parseFraction(text string) (float64, error) {
	var v float64
	var err error
	if num, den, isRatio := strings.Cut(text, "/"); isRatio {
		var a, b float64
		a, err = strconv.ParseFloat(num, 64)
		if err == nil {
			b, err = strconv.ParseFloat(den, 64)
		}
		if err == nil && b != 0 {
			v = a / b
		}
	} else {
		v, err = strconv.ParseFloat(text, 64)
	}
	if err != nil || !(v > 0) || v > 1 {
		return 0, fmt.Errorf("%w: fraction %q must be in (0,1]", knl.ErrBadInput, text)
	}
	return v, nil
}

func floats(tokens []string, name string) ([]float64, error) {
	values := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s value %q", knl.ErrBadInput, name, t)
		}
		values = append(values, v)
	}
	return values, nil
}
