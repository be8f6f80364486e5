package filter

import (
	"math"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// LR2Coefficients is the coefficient set of a second-order Linkwitz-Riley
// crossover. Both outputs share the feedback pair (same poles); only the
// feedforward taps differ.
type LR2Coefficients struct {
	B1, B2 float64
	LP     [3]float64
	HP     [3]float64
}

// DesignLR2 derives LR2 coefficients with a prewarped bilinear transform:
//
//	wc = 2πf, k = wc / tan(πf/fs), den = k² + wc² + 2·wc·k
func DesignLR2(frequency float64, sampleRate int) LR2Coefficients {
	wc := 2 * math.Pi * frequency
	wc2 := wc * wc
	k := wc / prewarp(frequency, sampleRate)
	k2 := k * k
	wck2 := 2 * wc * k
	den := k2 + wc2 + wck2

	return LR2Coefficients{
		B1: (2*wc2 - 2*k2) / den,
		B2: (k2 + wc2 - wck2) / den,
		LP: [3]float64{wc2 / den, 2 * wc2 / den, wc2 / den},
		HP: [3]float64{k2 / den, -2 * k2 / den, k2 / den},
	}
}

// section is one transposed direct-form II biquad sharing its feedback pair
// with a sibling section.
type section[F simdops.Float] struct {
	a0, a1, a2 F
	s0, s1     F
}

func (b *section[F]) process(in, b1, b2 F) F {
	y := b.a0*in + b.s0
	b.s0 = b.a1*in - b1*y + b.s1
	b.s1 = b.a2*in - b2*y
	return y
}

// LR2 is a second-order Linkwitz-Riley crossover (two cascaded first-order
// Butterworth poles). ProcessHP returns the polarity-inverted high-pass so
// that ProcessLP(x) + ProcessHP(x) is a first-order all-pass of x.
type LR2[F simdops.Float] struct {
	sampleRate int
	coeffs     LR2Coefficients
	b1, b2     F
	lp, hp     section[F]
}

// NewLR2 creates an LR2 crossover at frequency.
func NewLR2[F simdops.Float](sampleRate int, frequency float64) (*LR2[F], error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	c := &LR2[F]{}
	c.Init(sampleRate)
	c.SetFrequency(frequency)
	return c, nil
}

// Init records the sample rate and clears both branches.
func (c *LR2[F]) Init(sampleRate int) {
	c.sampleRate = sampleRate
	c.Reset()
}

// SetFrequency recomputes the coefficients. Does nothing while the sample
// rate is unset.
func (c *LR2[F]) SetFrequency(frequency float64) {
	if c.sampleRate <= 0 {
		return
	}
	c.coeffs = DesignLR2(frequency, c.sampleRate)
	c.b1 = F(c.coeffs.B1)
	c.b2 = F(c.coeffs.B2)
	c.lp.a0, c.lp.a1, c.lp.a2 = F(c.coeffs.LP[0]), F(c.coeffs.LP[1]), F(c.coeffs.LP[2])
	c.hp.a0, c.hp.a1, c.hp.a2 = F(c.coeffs.HP[0]), F(c.coeffs.HP[1]), F(c.coeffs.HP[2])
}

// Coefficients returns the coefficient set in use.
func (c *LR2[F]) Coefficients() LR2Coefficients {
	return c.coeffs
}

// ProcessLP returns the low-pass output for one sample.
func (c *LR2[F]) ProcessLP(in F) F {
	return c.lp.process(in, c.b1, c.b2)
}

// ProcessHP returns the inverted high-pass output for one sample.
func (c *LR2[F]) ProcessHP(in F) F {
	return -c.hp.process(in, c.b1, c.b2)
}

// Reset clears both branches, keeping the coefficients.
func (c *LR2[F]) Reset() {
	c.lp.s0, c.lp.s1 = 0, 0
	c.hp.s0, c.hp.s1 = 0, 0
}
