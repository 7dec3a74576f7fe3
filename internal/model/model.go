// Package model assembles scattering channels described by a material into a
// weighted composite process and exposes it to the host.
package model

import (
	"fmt"

	"github.com/wildstyl3r/bzscope/internal/info"
	"github.com/wildstyl3r/bzscope/internal/knl"
	"github.com/wildstyl3r/bzscope/internal/rng"
	"github.com/wildstyl3r/bzscope/internal/sab"
	"github.com/wildstyl3r/bzscope/internal/vdos"
)

const (
	Name    = "BZSCOPE"
	Section = "@CUSTOM_" + Name
)

var (
	ErrBadInput    = knl.ErrBadInput
	ErrUnsupported = knl.ErrUnsupported
)

type Options struct {
	Policy   knl.Policy
	VDOSLux  int
	Grid     sab.GridOptions
	Producer rng.Producer // source of the model's default stream
}

func DefaultOptions() Options {
	return Options{
		Policy:   knl.DefaultPolicy(Section),
		VDOSLux:  3,
		Grid:     sab.DefaultGridOptions(),
		Producer: rng.NewProducer(1),
	}
}

// ScatEvent is the outcome of one scattering.
type ScatEvent struct {
	EkinFinal float64 // [eV]
	Mu        float64 // cosine of the scattering angle
}

// PhysicsModel is the immutable composite built from one material.
type PhysicsModel struct {
	composition *Composition
}

// IsApplicable reports whether the material has dynamics and a custom section
// of this model. Repeated sections are rejected later by CreateFromInfo.
func IsApplicable(in info.Info) bool {
	return in.HasDynamicInfo() && in.CountCustomSections(Name) > 0
}

// CreateFromInfo parses the custom section, builds one channel for it and one
// for every constituent, and assembles them. No model is returned on error.
func CreateFromInfo(in info.Info, opts Options) (*PhysicsModel, error) {
	if n := in.CountCustomSections(Name); n != 1 {
		return nil, fmt.Errorf("%w: expected exactly one %s section, found %d", ErrBadInput, Section, n)
	}
	section, err := in.CustomSection(Name, 0)
	if err != nil {
		return nil, err
	}
	if opts.Policy.Fields == nil {
		opts.Policy = knl.DefaultPolicy(Section)
	}
	if opts.VDOSLux < 0 || opts.VDOSLux > vdos.MaxLux {
		return nil, fmt.Errorf("%w: vdos lux level %d outside [0,%d]", ErrBadInput, opts.VDOSLux, vdos.MaxLux)
	}
	if opts.Producer == nil {
		opts.Producer = rng.NewProducer(1)
	}

	first, err := customChannel(section, opts)
	if err != nil {
		return nil, err
	}
	channels := []*Channel{first}
	for _, di := range in.DynamicInfoList() {
		ch, err := dynamicChannel(di, opts)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return &PhysicsModel{
		composition: NewComposition(channels, rng.Locked(opts.Producer.Produce())),
	}, nil
}

// CrossSection returns the total cross section at kinetic energy e.
func (m *PhysicsModel) CrossSection(e float64) float64 {
	return m.composition.CrossSection(e)
}

// SampleScatteringEvent draws one outcome at kinetic energy e. A nil stream
// uses the model's own stream, which is safe for concurrent use.
func (m *PhysicsModel) SampleScatteringEvent(r rng.Stream, e float64) ScatEvent {
	ef, mu := m.composition.Sample(r, e)
	return ScatEvent{EkinFinal: ef, Mu: mu}
}

// Channels returns copies of the model's channels in construction order.
func (m *PhysicsModel) Channels() []Channel {
	channels := make([]Channel, len(m.composition.channels))
	for i, ch := range m.composition.channels {
		channels[i] = *ch
	}
	return channels
}
