package filter

import (
	"math"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// LR4Coefficients holds one second-order Butterworth section, not the
// fourth-order filter: a Linkwitz-Riley branch is this section applied twice.
// B1 and B2 are the feedback terms of the section's denominator
// 1 + B1·z⁻¹ + B2·z⁻². DirectForm expands the square.
type LR4Coefficients struct {
	B1, B2 float64
	LP     [3]float64
	HP     [3]float64
}

// LR4DirectForm is a fourth-order branch written as a single recursion:
//
//	y[n] = Σ LP[i]·x[n-i] - Σ B[j]·y[n-1-j]
//
// with i in 0..4 and j in 0..3, likewise for HP.
type LR4DirectForm struct {
	B  [4]float64
	LP [5]float64
	HP [5]float64
}

// DirectForm squares the section into fourth-order coefficients. LR4 itself
// still runs the two cascaded sections.
func (c LR4Coefficients) DirectForm() LR4DirectForm {
	b := square([3]float64{1, c.B1, c.B2})
	return LR4DirectForm{
		B:  [4]float64{b[1], b[2], b[3], b[4]},
		LP: square(c.LP),
		HP: square(c.HP),
	}
}

// square multiplies a second-order polynomial in z⁻¹ by itself.
func square(p [3]float64) [5]float64 {
	return [5]float64{
		p[0] * p[0],
		2 * p[0] * p[1],
		p[1]*p[1] + 2*p[0]*p[2],
		2 * p[1] * p[2],
		p[2] * p[2],
	}
}

// DesignLR4 derives the Butterworth section of an LR4 crossover with the same
// prewarped bilinear construction as DesignLR2:
//
//	den = k² + √2·wc·k + wc²
func DesignLR4(frequency float64, sampleRate int) LR4Coefficients {
	wc := 2 * math.Pi * frequency
	wc2 := wc * wc
	k := wc / prewarp(frequency, sampleRate)
	k2 := k * k
	cross := math.Sqrt2 * wc * k
	den := k2 + cross + wc2

	return LR4Coefficients{
		B1: (2*wc2 - 2*k2) / den,
		B2: (k2 - cross + wc2) / den,
		LP: [3]float64{wc2 / den, 2 * wc2 / den, wc2 / den},
		HP: [3]float64{k2 / den, -2 * k2 / den, k2 / den},
	}
}

// LR4 is a fourth-order Linkwitz-Riley crossover. Its outputs are in phase,
// so no inversion is applied: ProcessLP(x) + ProcessHP(x) is a second-order
// all-pass of x with Q = 1/√2.
//
// Each branch runs as two cascaded biquads rather than one fourth-order
// recursion so that low crossover points stay accurate in float32.
type LR4[F simdops.Float] struct {
	sampleRate int
	coeffs     LR4Coefficients
	b1, b2     F
	lp, hp     [2]section[F]
}

// NewLR4 creates an LR4 crossover at frequency.
func NewLR4[F simdops.Float](sampleRate int, frequency float64) (*LR4[F], error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	c := &LR4[F]{}
	c.Init(sampleRate)
	c.SetFrequency(frequency)
	return c, nil
}

// Init records the sample rate and clears both branches.
func (c *LR4[F]) Init(sampleRate int) {
	c.sampleRate = sampleRate
	c.Reset()
}

// SetFrequency recomputes the coefficients. Does nothing while the sample
// rate is unset.
func (c *LR4[F]) SetFrequency(frequency float64) {
	if c.sampleRate <= 0 {
		return
	}
	c.coeffs = DesignLR4(frequency, c.sampleRate)
	c.b1 = F(c.coeffs.B1)
	c.b2 = F(c.coeffs.B2)
	for i := range c.lp {
		c.lp[i].a0, c.lp[i].a1, c.lp[i].a2 = F(c.coeffs.LP[0]), F(c.coeffs.LP[1]), F(c.coeffs.LP[2])
		c.hp[i].a0, c.hp[i].a1, c.hp[i].a2 = F(c.coeffs.HP[0]), F(c.coeffs.HP[1]), F(c.coeffs.HP[2])
	}
}

// Coefficients returns the section coefficients in use.
func (c *LR4[F]) Coefficients() LR4Coefficients {
	return c.coeffs
}

// ProcessLP returns the low-pass output for one sample.
func (c *LR4[F]) ProcessLP(in F) F {
	return c.lp[1].process(c.lp[0].process(in, c.b1, c.b2), c.b1, c.b2)
}

// ProcessHP returns the high-pass output for one sample.
func (c *LR4[F]) ProcessHP(in F) F {
	return c.hp[1].process(c.hp[0].process(in, c.b1, c.b2), c.b1, c.b2)
}

// Reset clears both branches, keeping the coefficients.
func (c *LR4[F]) Reset() {
	for i := range c.lp {
		c.lp[i].s0, c.lp[i].s1 = 0, 0
		c.hp[i].s0, c.hp[i].s1 = 0, 0
	}
}
