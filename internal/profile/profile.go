// Package profile defines the fixed speed/quality presets handed to the
// external transcriber.
package profile

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
)

// Preset names.
const (
	UltraFast = "ultra_fast"
	Fast      = "fast"
	Balanced  = "balanced"
)

// ErrUnknown is returned when a preset name does not exist.
var ErrUnknown = errors.New("unknown profile")

// Profile is an immutable bundle of transcriber tuning parameters plus the
// seconds-per-MB coefficient used for time estimates. The coefficient is a
// calibrated guess, not a measurement; config may override it per preset.
type Profile struct {
	Name                      string
	Model                     string
	Threads                   int
	ChunkLength               int
	Temperature               float64
	BeamSize                  int
	BestOf                    int
	NoSpeechThreshold         float64
	CompressionRatioThreshold float64
	SecondsPerMB              float64
}

// Registry is the fixed preset table. It is populated once at construction
// and never mutated afterwards.
type Registry struct {
	profiles map[string]Profile
	order    []string
}

// NewRegistry builds the three built-in presets. Thread counts derive from
// the host CPU count: ultra_fast uses every core, fast and balanced leave
// one and two cores free respectively.
func NewRegistry() *Registry {
	cpus := runtime.NumCPU()
	if cpus < 1 {
		cpus = 4
	}
	presets := []Profile{
		{
			Name:                      UltraFast,
			Model:                     "tiny",
			Threads:                   cpus,
			ChunkLength:               10,
			Temperature:               0.0,
			BeamSize:                  1,
			BestOf:                    1,
			NoSpeechThreshold:         0.3,
			CompressionRatioThreshold: 2.4,
			SecondsPerMB:              0.5,
		},
		{
			Name:                      Fast,
			Model:                     "base",
			Threads:                   maxInt(1, cpus-1),
			ChunkLength:               15,
			Temperature:               0.1,
			BeamSize:                  2,
			BestOf:                    2,
			NoSpeechThreshold:         0.4,
			CompressionRatioThreshold: 2.2,
			SecondsPerMB:              1.0,
		},
		{
			Name:                      Balanced,
			Model:                     "small",
			Threads:                   maxInt(1, cpus-2),
			ChunkLength:               20,
			Temperature:               0.2,
			BeamSize:                  3,
			BestOf:                    3,
			NoSpeechThreshold:         0.5,
			CompressionRatioThreshold: 2.0,
			SecondsPerMB:              2.0,
		},
	}
	registry := &Registry{profiles: make(map[string]Profile, len(presets))}
	for _, preset := range presets {
		registry.profiles[preset.Name] = preset
		registry.order = append(registry.order, preset.Name)
	}
	return registry
}

// OverrideSecondsPerMB replaces estimate coefficients for the named presets.
// Unknown names fail so config typos surface instead of silently using the
// built-in coefficient.
func (r *Registry) OverrideSecondsPerMB(overrides map[string]float64) error {
	for name, secondsPerMB := range overrides {
		preset, ok := r.profiles[name]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknown, name)
		}
		if secondsPerMB <= 0 {
			return fmt.Errorf("seconds per MB for %q must be positive", name)
		}
		preset.SecondsPerMB = secondsPerMB
		r.profiles[name] = preset
	}
	return nil
}

// Select returns the named preset.
func (r *Registry) Select(name string) (Profile, error) {
	preset, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return preset, nil
}

// Default returns the fast preset.
func (r *Registry) Default() Profile {
	return r.profiles[Fast]
}

// Names lists the preset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// All returns the presets in declaration order (fastest first).
func (r *Registry) All() []Profile {
	profiles := make([]Profile, 0, len(r.order))
	for _, name := range r.order {
		profiles = append(profiles, r.profiles[name])
	}
	return profiles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
