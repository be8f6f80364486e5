package filter

import (
	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// AllPass is a first-order all-pass section:
//
//	H(z) = (a1 + z⁻¹) / (1 + a1·z⁻¹)
//
// Magnitude is unity at every frequency; phase goes from 0 at DC to -π at
// Nyquist and passes -π/2 at the tuned frequency. An untuned section
// (a1 = 0) is a one-sample delay.
type AllPass[F simdops.Float] struct {
	sampleRate int
	a1         F
	d          F // x[n-1] - a1·y[n-1]
}

// NewAllPass creates a first-order all-pass section for the given sample rate.
func NewAllPass[F simdops.Float](sampleRate int) (*AllPass[F], error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	ap := &AllPass[F]{}
	ap.Init(sampleRate)
	return ap, nil
}

// Init records the sample rate and clears the history.
func (a *AllPass[F]) Init(sampleRate int) {
	a.sampleRate = sampleRate
	a.Reset()
}

// SetFrequency tunes the section so its phase passes -90° at frequency.
// Does nothing while the sample rate is unset.
func (a *AllPass[F]) SetFrequency(frequency float64) {
	if a.sampleRate <= 0 {
		return
	}
	a.a1 = F(AllPassCoefficient(frequency, a.sampleRate))
}

// SetCoefficient sets a1 directly.
func (a *AllPass[F]) SetCoefficient(a1 float64) {
	a.a1 = F(a1)
}

// Coefficient returns the current a1.
func (a *AllPass[F]) Coefficient() float64 {
	return float64(a.a1)
}

// Process filters one sample.
func (a *AllPass[F]) Process(in F) F {
	y := a.a1*in + a.d
	a.d = in - a.a1*y
	return y
}

// Reset clears the history, keeping the coefficient.
func (a *AllPass[F]) Reset() {
	a.d = 0
}

// AllPassCoefficient returns a1 = (tan(πf/fs) - 1) / (tan(πf/fs) + 1).
func AllPassCoefficient(frequency float64, sampleRate int) float64 {
	t := prewarp(frequency, sampleRate)
	return (t - 1) / (t + 1)
}
