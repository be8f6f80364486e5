// Package filter implements the IIR building blocks of the band splitter:
// first and second order all-pass sections and Linkwitz-Riley crossovers.
//
// Every filter owns its delay-line history and is meant to serve exactly one
// audio channel. Coefficients are a pure function of the sample rate and the
// target frequency (and Q where applicable) and are recomputed on every
// SetFrequency call.
//
// Constructors reject non-positive sample rates. The zero value of each
// filter is still usable: until Init is called SetFrequency is a silent
// no-op and the previous coefficients are held.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// ErrInvalidSampleRate is returned by constructors when the sample rate is not positive.
var ErrInvalidSampleRate = errors.New("invalid sample rate")

// Crossover splits one input into matched low-pass and high-pass outputs.
// ProcessLP and ProcessHP must both be called once per input sample, with
// the same input, to keep the two branches in step.
type Crossover[F simdops.Float] interface {
	Init(sampleRate int)
	SetFrequency(frequency float64)
	ProcessLP(in F) F
	ProcessHP(in F) F
	Reset()
}

// PhaseShifter is a unity-gain section used to re-align a band that went
// through fewer crossover stages than its siblings.
type PhaseShifter[F simdops.Float] interface {
	Init(sampleRate int)
	SetFrequency(frequency float64)
	Process(in F) F
	Reset()
}

// validateSampleRate checks a constructor argument.
func validateSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	return nil
}

// prewarp returns tan(π·f/fs), the bilinear-transform frequency warping term.
func prewarp(frequency float64, sampleRate int) float64 {
	return math.Tan(math.Pi * frequency / float64(sampleRate))
}
