package filter

import (
	"math"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// ButterworthQ is the Q of a second-order Butterworth section (1/√2).
// An LR4 low-pass/high-pass pair sums to a second-order all-pass with this Q.
const ButterworthQ = math.Sqrt2 / 2

// AllPass2 is a second-order all-pass section (RBJ cookbook form):
//
//	H(z) = (c0 + c1·z⁻¹ + z⁻²) / (1 + c1·z⁻¹ + c0·z⁻²)
//
// Phase passes -180° at the tuned frequency; Q sets how fast it turns.
type AllPass2[F simdops.Float] struct {
	sampleRate int
	q          float64
	c0, c1     F

	x1, x2 F
	y1, y2 F
}

// NewAllPass2 creates a second-order all-pass section with the given Q.
func NewAllPass2[F simdops.Float](sampleRate int, q float64) (*AllPass2[F], error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	ap := &AllPass2[F]{q: q}
	ap.Init(sampleRate)
	return ap, nil
}

// Init records the sample rate and clears the history.
func (a *AllPass2[F]) Init(sampleRate int) {
	a.sampleRate = sampleRate
	a.Reset()
}

// SetFrequency retunes the section keeping the current Q (Butterworth if unset).
func (a *AllPass2[F]) SetFrequency(frequency float64) {
	q := a.q
	if q <= 0 {
		q = ButterworthQ
	}
	a.SetFrequencyQ(frequency, q)
}

// SetFrequencyQ retunes the section. Does nothing while the sample rate is unset.
func (a *AllPass2[F]) SetFrequencyQ(frequency, q float64) {
	if a.sampleRate <= 0 {
		return
	}
	a.q = q
	c0, c1 := AllPass2Coefficients(frequency, q, a.sampleRate)
	a.c0 = F(c0)
	a.c1 = F(c1)
}

// Coefficients returns the normalised (c0, c1) pair.
func (a *AllPass2[F]) Coefficients() (c0, c1 float64) {
	return float64(a.c0), float64(a.c1)
}

// Process filters one sample.
func (a *AllPass2[F]) Process(in F) F {
	y := a.c0*(in-a.y2) + a.c1*(a.x1-a.y1) + a.x2

	a.x2 = a.x1
	a.x1 = in
	a.y2 = a.y1
	a.y1 = y

	return y
}

// Reset clears the history, keeping the coefficients.
func (a *AllPass2[F]) Reset() {
	a.x1, a.x2 = 0, 0
	a.y1, a.y2 = 0, 0
}

// AllPass2Coefficients returns the normalised coefficients of a second-order
// all-pass at frequency with quality factor q.
func AllPass2Coefficients(frequency, q float64, sampleRate int) (c0, c1 float64) {
	w := 2 * math.Pi * frequency / float64(sampleRate)
	alpha := math.Sin(w) / (2 * q)
	norm := 1 + alpha

	c0 = (1 - alpha) / norm
	c1 = -2 * math.Cos(w) / norm
	return c0, c1
}
