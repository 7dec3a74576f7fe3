package main

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/wildstyl3r/bzscope/internal/constants"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

type output struct {
	name        string
	fileSuffix  string
	columnNames []string // "%s" is replaced with the energy unit
}

var xsOutput = output{
	name:        "Cross sections",
	fileSuffix:  "xs",
	columnNames: []string{"material", "E (%s)", "xs (b)"},
}

var sampleOutput = output{
	name:        "Sampled means",
	fileSuffix:  "sampled",
	columnNames: []string{"material", "E (%s)", "<E'> (%s)", "<mu>"},
}

func (o output) columns(unit string) []string {
	columns := make([]string, len(o.columnNames))
	for i, c := range o.columnNames {
		if strings.Contains(c, "%") {
			c = fmt.Sprintf(c, unit)
		}
		columns[i] = c
	}
	return columns
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

const curvePoints = 80

func crossSectionCurve(bm builtModel) string {
	emax := 0.
	for _, ch := range bm.model.Channels() {
		emax = max(emax, ch.Emax())
	}
	emin := max(bm.parameters.EnergyGridMin, constants.MinEnergyGrid)
	if !(emax > emin) {
		emax = emin * 10
	}
	energies := utils.Geomspace(emin, emax, curvePoints)
	xs := make([]float64, len(energies))
	for i, e := range energies {
		xs[i] = bm.model.CrossSection(e)
	}
	peak := utils.Argmax(xs)
	return asciigraph.Plot(xs,
		asciigraph.Height(10),
		asciigraph.Width(curvePoints),
		asciigraph.Caption(fmt.Sprintf("%s: xs (b), log E from %.3g to %.3g eV, peak %.4g b at %.3g eV",
			bm.name, emin, emax, xs[peak], energies[peak])))
}

const histogramBins = 60

func energyHistogram(values []float64, caption string) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := slices.Min(values), slices.Max(values)
	counts := make([]float64, histogramBins)
	width := (hi - lo) / histogramBins
	for _, v := range values {
		bin := 0
		if width > 0 {
			bin = min(histogramBins-1, int(math.Floor((v-lo)/width)))
		}
		counts[bin]++
	}
	return asciigraph.Plot(counts,
		asciigraph.Height(8),
		asciigraph.Width(histogramBins),
		asciigraph.Caption(fmt.Sprintf("%s [%.3g, %.3g]", caption, lo, hi)))
}
