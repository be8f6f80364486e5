package wavio

import (
	"math"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// MaxValue returns the full-scale integer value for a PCM bit depth.
func MaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// Deinterleave converts interleaved integer samples into preallocated planes,
// scaling by invMaxVal.
func Deinterleave[F simdops.Float](data []int, planes [][]F, frames int, invMaxVal float64) {
	channels := len(planes)

	// Fast path for stereo
	if channels == stereoChannels {
		l, r := planes[0], planes[1]
		for i := range frames {
			idx := i * stereoChannels
			l[i] = F(float64(data[idx]) * invMaxVal)
			r[i] = F(float64(data[idx+1]) * invMaxVal)
		}
		return
	}

	for i := range frames {
		base := i * channels
		for ch := range channels {
			planes[ch][i] = F(float64(data[base+ch]) * invMaxVal)
		}
	}
}

// Interleave converts planes into interleaved integer samples, clamping to
// [-1, 1] and rounding to the nearest step.
func Interleave[F simdops.Float](planes [][]F, frames int, dst []int, maxVal float64) {
	channels := len(planes)
	for i := range frames {
		base := i * channels
		for ch := range channels {
			dst[base+ch] = int(math.Round(clamp(float64(planes[ch][i])) * maxVal))
		}
	}
}

func clamp(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
