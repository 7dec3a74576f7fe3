// Package plugin is the boundary seen by the host: applicability, construction
// and a self-test.
package plugin

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wildstyl3r/bzscope/internal/info"
	"github.com/wildstyl3r/bzscope/internal/model"
	"github.com/wildstyl3r/bzscope/internal/rng"
)

const Name = model.Name

func IsApplicable(in info.Info) bool {
	return model.IsApplicable(in)
}

func CreateFromInfo(in info.Info, opts model.Options) (*model.PhysicsModel, error) {
	return model.CreateFromInfo(in, opts)
}

// Msg writes one line prefixed with the plugin name.
func Msg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s: "+format+"\n", append([]any{Name}, args...)...)
}

// SelfTestMaterial is an in-memory material with one phonon spectrum and a
// small custom kernel.
func SelfTestMaterial() *info.Material {
	m := info.NewMaterial("selftest", 300)
	al, _ := info.LookupAtom("Al")
	m.AddDynamicInfo(info.NewVDOS(1, al, 300,
		[]float64{0.005, 0.04},
		[]float64{1, 2, 3, 4, 5, 4, 2, 1}))
	m.AddCustomSection(Name, info.Section{
		{"temperature", "300"},
		{"alphagrid", "0.0", "0.5", "1.0", "2.0"},
		{"betagrid", "-2.0", "-1.0", "0.0", "1.0", "2.0"},
		{"sab", "0.05r4"},
		{"0.1r4"},
		{"0.2r4"},
		{"0.1r4"},
		{"0.05r4"},
	})
	return m
}

// CustomPluginTest builds the self-test material and checks the basic promises
// of the model: applicability, non-negative cross sections, sampled outcomes
// within physical bounds.
func CustomPluginTest(w io.Writer) error {
	mat := SelfTestMaterial()
	if !IsApplicable(mat) {
		return errors.New("self-test material is not applicable")
	}
	opts := model.DefaultOptions()
	opts.VDOSLux = 0
	opts.Producer = rng.NewProducer(12345)
	m, err := CreateFromInfo(mat, opts)
	if err != nil {
		return fmt.Errorf("self-test construction failed: %w", err)
	}
	Msg(w, "created model with %d channels", len(m.Channels()))

	r := rng.NewStream(2024)
	for _, e := range []float64{1e-4, 0.0253, 0.1, 1.} {
		xs := m.CrossSection(e)
		if !(xs >= 0) || math.IsInf(xs, 0) {
			return fmt.Errorf("cross section %g b at %g eV", xs, e)
		}
		ev := m.SampleScatteringEvent(r, e)
		if !(ev.EkinFinal >= 0) || ev.Mu < -1 || ev.Mu > 1 {
			return fmt.Errorf("sampled invalid event (%g eV, mu=%g) at %g eV", ev.EkinFinal, ev.Mu, e)
		}
		Msg(w, "E=%g eV: xs=%g b, sampled E'=%g eV mu=%g", e, xs, ev.EkinFinal, ev.Mu)
	}
	Msg(w, "self-test passed")
	return nil
}
