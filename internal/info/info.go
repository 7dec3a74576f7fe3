// Package info describes materials as seen by scattering models: their
// per-species dynamics and any custom configuration sections.
package info

import (
	"fmt"

	"github.com/wildstyl3r/bzscope/internal/knl"
)

// Section is the body of a configuration block: lines of whitespace-separated tokens.
type Section [][]string

// Info is the material description consumed by scattering models.
type Info interface {
	HasDynamicInfo() bool
	CountCustomSections(name string) int
	// CustomSection returns the index-th section called @CUSTOM_<name>.
	CustomSection(name string, index int) (Section, error)
	DynamicInfoList() []DynamicInfo
}

// Material is an in-memory Info.
type Material struct {
	Name        string
	Temperature float64 // [K]
	Dynamics    []DynamicInfo
	custom      map[string][]Section
}

func NewMaterial(name string, temperature float64) *Material {
	return &Material{Name: name, Temperature: temperature, custom: map[string][]Section{}}
}

func (m *Material) AddDynamicInfo(di DynamicInfo) {
	m.Dynamics = append(m.Dynamics, di)
}

func (m *Material) AddCustomSection(name string, s Section) {
	if m.custom == nil {
		m.custom = map[string][]Section{}
	}
	m.custom[name] = append(m.custom[name], s)
}

func (m *Material) HasDynamicInfo() bool {
	return len(m.Dynamics) > 0
}

func (m *Material) CountCustomSections(name string) int {
	return len(m.custom[name])
}

func (m *Material) CustomSection(name string, index int) (Section, error) {
	sections := m.custom[name]
	if index < 0 || index >= len(sections) {
		return nil, fmt.Errorf("%w: no @CUSTOM_%s section #%d (found %d)", knl.ErrBadInput, name, index, len(sections))
	}
	return sections[index], nil
}

func (m *Material) DynamicInfoList() []DynamicInfo {
	return m.Dynamics
}
