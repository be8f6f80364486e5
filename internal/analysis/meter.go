package analysis

import (
	"math"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// RMS returns the root mean square level of x.
func RMS[F simdops.Float](x []F) float64 {
	if len(x) == 0 {
		return 0
	}
	ops := simdops.For[F]()
	return math.Sqrt(float64(ops.DotProductUnsafe(x, x)) / float64(len(x)))
}

// Peak returns the largest absolute sample of x.
func Peak[F simdops.Float](x []F) float64 {
	return float64(simdops.Peak(x))
}

// Correlation returns the normalised correlation of two channels in [-1, 1]:
// 1 for identical channels, -1 for polarity-inverted ones, 0 for unrelated
// or silent input. Only the common length is considered.
func Correlation[F simdops.Float](l, r []F) float64 {
	n := min(len(l), len(r))
	if n == 0 {
		return 0
	}
	l, r = l[:n], r[:n]

	ops := simdops.For[F]()
	lr := float64(ops.DotProductUnsafe(l, r))
	ll := float64(ops.DotProductUnsafe(l, l))
	rr := float64(ops.DotProductUnsafe(r, r))

	den := math.Sqrt(ll * rr)
	if den == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, lr/den))
}

// StereoMeter accumulates correlation and level statistics of a stereo
// stream block by block.
type StereoMeter struct {
	lr, ll, rr float64
	sumL, sumR float64
	peak       float64
	frames     int
}

// AddPlanar accumulates one block of planar samples.
func AddPlanar[F simdops.Float](m *StereoMeter, l, r []F) {
	n := min(len(l), len(r))
	if n == 0 {
		return
	}
	l, r = l[:n], r[:n]

	ops := simdops.For[F]()
	m.lr += float64(ops.DotProductUnsafe(l, r))
	m.ll += float64(ops.DotProductUnsafe(l, l))
	m.rr += float64(ops.DotProductUnsafe(r, r))
	m.sumL += float64(ops.Sum(l))
	m.sumR += float64(ops.Sum(r))
	m.peak = math.Max(m.peak, math.Max(Peak(l), Peak(r)))
	m.frames += n
}

// Frames returns the number of frames accumulated.
func (m *StereoMeter) Frames() int {
	return m.frames
}

// Correlation returns the running correlation.
func (m *StereoMeter) Correlation() float64 {
	den := math.Sqrt(m.ll * m.rr)
	if den == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, m.lr/den))
}

// RMS returns the running RMS level of both channels together.
func (m *StereoMeter) RMS() float64 {
	if m.frames == 0 {
		return 0
	}
	return math.Sqrt((m.ll + m.rr) / float64(2*m.frames))
}

// DC returns the mean of each channel, its DC offset.
func (m *StereoMeter) DC() (left, right float64) {
	if m.frames == 0 {
		return 0, 0
	}
	return m.sumL / float64(m.frames), m.sumR / float64(m.frames)
}

// Peak returns the largest absolute sample seen.
func (m *StereoMeter) Peak() float64 {
	return m.peak
}

// Width returns the side-to-mid energy ratio: 0 for mono, 1 for unrelated
// channels of equal level, and +Inf for pure side content.
func (m *StereoMeter) Width() float64 {
	mid := m.ll + m.rr + 2*m.lr
	side := m.ll + m.rr - 2*m.lr
	if mid <= 0 {
		if side <= 0 {
			return 0
		}
		return math.Inf(1)
	}
	return side / mid
}
