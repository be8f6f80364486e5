// Package param defines the six user parameters of the widener and a
// lock-free store the audio path can snapshot once per block.
package param

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrUnknownParameter is returned when a parameter name does not match any Spec.
var ErrUnknownParameter = errors.New("unknown parameter")

// ID indexes a parameter.
type ID int

// Parameter identifiers in persisted order.
const (
	WidthLow ID = iota
	FreqLowMid
	WidthMid
	FreqMidHigh
	WidthHigh
	Volume

	// Count is the number of parameters.
	Count
)

// Spec describes one parameter: its persisted name, plain-value range,
// default, step size and skew. A skew below 1 gives the lower part of the
// range more travel in normalised space.
type Spec struct {
	ID      ID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Step    float64
	Skew    float64
}

var specs = [Count]Spec{
	{WidthLow, NameWidthLow, "", WidthMin, WidthMax, WidthDefault, WidthStep, 1},
	{FreqLowMid, NameFreqLowMid, "Hz", FreqLowMidMin, FreqLowMidMax, FreqLowMidDefault, FreqStep, FreqSkew},
	{WidthMid, NameWidthMid, "", WidthMin, WidthMax, WidthDefault, WidthStep, 1},
	{FreqMidHigh, NameFreqMidHigh, "Hz", FreqMidHighMin, FreqMidHighMax, FreqMidHighDefault, FreqStep, FreqSkew},
	{WidthHigh, NameWidthHigh, "", WidthMin, WidthMax, WidthDefault, WidthStep, 1},
	{Volume, NameVolume, "dB", VolumeMin, VolumeMax, VolumeDefault, VolumeStep, 1},
}

// Specs returns all parameter specs in persisted order.
func Specs() []Spec {
	out := make([]Spec, Count)
	copy(out, specs[:])
	return out
}

// SpecOf returns the spec for id. It panics on an out-of-range id.
func SpecOf(id ID) Spec {
	return specs[id]
}

// Lookup finds a spec by its persisted name.
func Lookup(name string) (Spec, error) {
	for _, s := range specs {
		if s.Name == name {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

// Clamp limits plain to [Min, Max].
func (s Spec) Clamp(plain float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, plain))
}

// Snap rounds plain to the nearest step above Min and clamps the result.
func (s Spec) Snap(plain float64) float64 {
	if s.Step <= 0 {
		return s.Clamp(plain)
	}
	steps := math.Round((plain - s.Min) / s.Step)
	return s.Clamp(s.Min + steps*s.Step)
}

// Normalize maps a plain value to [0, 1] applying the skew.
func (s Spec) Normalize(plain float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	proportion := (s.Clamp(plain) - s.Min) / (s.Max - s.Min)
	if s.Skew > 0 && s.Skew != 1 {
		proportion = math.Pow(proportion, s.Skew)
	}
	return proportion
}

// Denormalize maps a normalised value back to the plain range, undoing the
// skew. Input outside [0, 1] is clamped.
func (s Spec) Denormalize(normalized float64) float64 {
	n := math.Max(0, math.Min(1, normalized))
	if s.Skew > 0 && s.Skew != 1 && n > 0 {
		n = math.Exp(math.Log(n) / s.Skew)
	}
	return s.Min + n*(s.Max-s.Min)
}

// Values is a snapshot of all six parameters in plain units.
type Values struct {
	WidthLow    float64
	FreqLowMid  float64
	WidthMid    float64
	FreqMidHigh float64
	WidthHigh   float64
	VolumeDB    float64
}

// Defaults returns the default snapshot.
func Defaults() Values {
	return Values{
		WidthLow:    WidthDefault,
		FreqLowMid:  FreqLowMidDefault,
		WidthMid:    WidthDefault,
		FreqMidHigh: FreqMidHighDefault,
		WidthHigh:   WidthDefault,
		VolumeDB:    VolumeDefault,
	}
}

// Get returns the value for id.
func (v Values) Get(id ID) float64 {
	switch id {
	case WidthLow:
		return v.WidthLow
	case FreqLowMid:
		return v.FreqLowMid
	case WidthMid:
		return v.WidthMid
	case FreqMidHigh:
		return v.FreqMidHigh
	case WidthHigh:
		return v.WidthHigh
	case Volume:
		return v.VolumeDB
	}
	return 0
}

// With returns a copy of v with id replaced.
func (v Values) With(id ID, value float64) Values {
	switch id {
	case WidthLow:
		v.WidthLow = value
	case FreqLowMid:
		v.FreqLowMid = value
	case WidthMid:
		v.WidthMid = value
	case FreqMidHigh:
		v.FreqMidHigh = value
	case WidthHigh:
		v.WidthHigh = value
	case Volume:
		v.VolumeDB = value
	}
	return v
}

// Source provides parameter snapshots to the audio path.
type Source interface {
	Load() Values
}

// Set is a lock-free parameter store. Writers (UI, automation, presets) and
// the audio reader may run on different goroutines; each parameter is
// individually atomic, so a snapshot may mix old and new values across
// parameters.
type Set struct {
	values [Count]atomic.Uint64
}

// NewSet returns a Set holding the defaults.
func NewSet() *Set {
	s := &Set{}
	s.Store(Defaults())
	return s
}

// Set stores a plain value for id, clamped to the spec range.
func (s *Set) Set(id ID, plain float64) {
	s.values[id].Store(math.Float64bits(specs[id].Clamp(plain)))
}

// Get returns the plain value for id.
func (s *Set) Get(id ID) float64 {
	return math.Float64frombits(s.values[id].Load())
}

// SetNormalized stores a host-style normalised value, snapped to the step.
func (s *Set) SetNormalized(id ID, normalized float64) {
	spec := specs[id]
	s.Set(id, spec.Snap(spec.Denormalize(normalized)))
}

// Normalized returns the normalised value for id.
func (s *Set) Normalized(id ID) float64 {
	return specs[id].Normalize(s.Get(id))
}

// SetByName stores a plain value by persisted name.
func (s *Set) SetByName(name string, plain float64) error {
	spec, err := Lookup(name)
	if err != nil {
		return err
	}
	s.Set(spec.ID, plain)
	return nil
}

// GetByName returns a plain value by persisted name.
func (s *Set) GetByName(name string) (float64, error) {
	spec, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return s.Get(spec.ID), nil
}

// Load returns a snapshot of all parameters.
func (s *Set) Load() Values {
	var v Values
	for id := range Count {
		v = v.With(id, s.Get(id))
	}
	return v
}

// Store writes every field of v.
func (s *Set) Store(v Values) {
	for id := range Count {
		s.Set(id, v.Get(id))
	}
}

// Reset restores the defaults.
func (s *Set) Reset() {
	s.Store(Defaults())
}
