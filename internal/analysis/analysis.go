// Package analysis measures the widener offline: impulse and frequency
// responses of the band splitter, level meters and stereo correlation.
// It backs the analysis command and the spectral assertions in tests; the
// audio path never calls it.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Bin is one frequency point of a response.
type Bin struct {
	Freq        float64 // Hz
	MagnitudeDB float64
	Phase       float64 // radians, wrapped to (-π, π]
}

// ImpulseResponse feeds a unit impulse followed by n-1 zeros to process
// and returns its output in float64.
func ImpulseResponse[F simdops.Float](n int, process func(F) F) []float64 {
	out := make([]float64, n)
	for i := range out {
		var x F
		if i == 0 {
			x = 1
		}
		out[i] = float64(process(x))
	}
	return out
}

// Spectrum returns the one-sided frequency response of an impulse response:
// len(ir)/2+1 bins from DC to Nyquist.
func Spectrum(ir []float64, sampleRate int) []Bin {
	if len(ir) == 0 {
		return nil
	}
	fft := fourier.NewFFT(len(ir))
	coeffs := fft.Coefficients(nil, ir)

	bins := make([]Bin, len(coeffs))
	for i, c := range coeffs {
		bins[i] = Bin{
			Freq:        fft.Freq(i) * float64(sampleRate),
			MagnitudeDB: param.GainToDecibels(cmplx.Abs(c)),
			Phase:       cmplx.Phase(c),
		}
	}
	return bins
}

// At returns the bin nearest to freq. bins must be sorted by frequency.
func At(bins []Bin, freq float64) Bin {
	if len(bins) == 0 {
		return Bin{}
	}
	best := bins[0]
	for _, b := range bins[1:] {
		if math.Abs(b.Freq-freq) < math.Abs(best.Freq-freq) {
			best = b
		}
	}
	return best
}

// MaxDeviationDB returns the largest |MagnitudeDB| among bins in [lo, hi] Hz.
// For a response that should be flat this is its ripple.
func MaxDeviationDB(bins []Bin, lo, hi float64) float64 {
	var worst float64
	for _, b := range bins {
		if b.Freq < lo || b.Freq > hi {
			continue
		}
		worst = math.Max(worst, math.Abs(b.MagnitudeDB))
	}
	return worst
}

// MelGrid returns n frequencies between fmin and fmax spaced evenly on the
// mel scale. n < 2 yields just fmin.
func MelGrid(n int, fmin, fmax float64) []float64 {
	if n < 2 {
		return []float64{fmin}
	}
	lo := param.FrequencyToMel(fmin)
	hi := param.FrequencyToMel(fmax)
	step := (hi - lo) / float64(n-1)

	out := make([]float64, n)
	for i := range out {
		out[i] = param.MelToFrequency(lo + float64(i)*step)
	}
	out[n-1] = fmax
	return out
}
