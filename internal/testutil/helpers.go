// Package testutil provides reusable test helpers for the widener packages:
// tolerance assertions, deterministic test signals and steady-state gain
// measurement.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-4
	DBTolerance      = 0.05
)

// settleFraction is the share of a measurement signal skipped before RMS is
// taken, so IIR start-up transients do not bias the result.
const settleFraction = 2

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertSlicesInDelta verifies that two slices match element-wise.
func AssertSlicesInDelta(t *testing.T, expected, actual []float64, delta float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if math.Abs(expected[i]-actual[i]) > delta {
			return assert.Fail(t, "slices differ",
				"index %d: expected %g, got %g (delta %g)", i, expected[i], actual[i], delta)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// Sine returns n samples of a sine at freq Hz with the given amplitude and phase.
func Sine(n int, freq, amplitude, phase float64, sampleRate int) []float64 {
	out := make([]float64, n)
	omega := 2 * math.Pi * freq / float64(sampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(omega*float64(i)+phase)
	}
	return out
}

// Impulse returns a unit impulse of length n.
func Impulse(n int) []float64 {
	out := make([]float64, n)
	if n > 0 {
		out[0] = 1
	}
	return out
}

// Noise returns deterministic uniform noise in [-amplitude, amplitude].
func Noise(n int, amplitude float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// RMS returns the root mean square of s.
func RMS(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// Energy returns the sum of squares of s.
func Energy(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return sum
}

// Apply runs process over input and returns the outputs.
func Apply(input []float64, process func(float64) float64) []float64 {
	out := make([]float64, len(input))
	for i, v := range input {
		out[i] = process(v)
	}
	return out
}

// ToneGain feeds a one second sine at freq through process and returns the
// steady-state output/input RMS ratio.
func ToneGain(process func(float64) float64, freq float64, sampleRate int) float64 {
	in := Sine(sampleRate, freq, 1, 0, sampleRate)
	out := Apply(in, process)
	start := len(in) / settleFraction
	return RMS(out[start:]) / RMS(in[start:])
}

// ToDB converts a linear magnitude to decibels.
func ToDB(gain float64) float64 {
	return 20 * math.Log10(gain)
}
