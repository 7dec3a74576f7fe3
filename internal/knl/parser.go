package knl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the token lines of a kernel section into a KernelGrids accumulator.
//
// Field-name tokens switch the target grid, plain numbers are appended to it and
// "<value>r<count>" appends value count times. "temperature" takes the next token
// on its line as a scalar and discards the rest of the line.
func Parse(lines [][]string, p Policy) (*KernelGrids, error) {
	g := NewKernelGrids()
	g.BoundXS = p.BoundXS
	g.MassAMU = p.MassAMU

	var target *[]float64
	for l, line := range lines {
		for t := 0; t < len(line); t++ {
			token := line[t]
			if field, isField := p.Fields[token]; isField {
				switch field.kind {
				case alphaField:
					target = &g.Alpha
				case betaField:
					target = &g.Beta
				case tableField:
					target = &g.SAB
					g.Type = field.encoding
				case temperatureField:
					if t+1 >= len(line) {
						return nil, fmt.Errorf("%w: missing value after %q on line %d of the %s section", ErrBadInput, token, l+1, p.Section)
					}
					v, err := strconv.ParseFloat(line[t+1], 64)
					if err != nil {
						return nil, fmt.Errorf("%w: invalid %s value %q on line %d of the %s section", ErrBadInput, token, line[t+1], l+1, p.Section)
					}
					g.Temperature = v
					target = nil
					t = len(line)
				}
				continue
			}

			values, err := parseNumeric(token)
			if err != nil {
				return nil, fmt.Errorf("%w: %v on line %d of the %s section", ErrBadInput, err, l+1, p.Section)
			}
			if target == nil {
				return nil, fmt.Errorf("%w: number %q on line %d of the %s section does not follow a field name", ErrBadInput, token, l+1, p.Section)
			}
			*target = append(*target, values...)
		}
	}
	return g, nil
}

const maxRepeat = 1 << 24

// parseNumeric expands a literal or a run-length token. Only tokens that are not
// field names reach here, so a field name containing 'r' is never split.
func parseNumeric(token string) ([]float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	switch {
	case err == nil:
		return []float64{v}, nil
	case errors.Is(err, strconv.ErrRange):
		return nil, fmt.Errorf("number %q is out of range", token)
	}
	sep := strings.IndexByte(token, 'r')
	if sep < 0 {
		return nil, fmt.Errorf("unknown field name %q", token)
	}
	valuePart, countPart := token[:sep], token[sep+1:]
	v, err = strconv.ParseFloat(valuePart, 64)
	if errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("invalid repeat token %q (value %q is out of range)", token, valuePart)
	}
	if err != nil {
		return nil, fmt.Errorf("unknown field name or invalid repeat token %q (cannot parse value %q)", token, valuePart)
	}
	if countPart == "" || strings.TrimLeft(countPart, "0123456789") != "" {
		return nil, fmt.Errorf("invalid repeat token %q (cannot parse count %q)", token, countPart)
	}
	n, err := strconv.Atoi(countPart)
	if err != nil || n > maxRepeat {
		return nil, fmt.Errorf("invalid repeat token %q (cannot parse count %q)", token, countPart)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values, nil
}
