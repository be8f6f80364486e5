package engine

import (
	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// midAttenuation is the mid reduction per unit of width above 1.
var midAttenuation = 1 - param.DecibelsToGain(midAttenuationDB)

// Width holds the mid and side gains derived from a band width.
type Width struct {
	Mid  float64
	Side float64
}

// NewWidth applies the width law.
//
// Narrowing (w < 1) raises the mid gain up to 1.5 at w = 0 to make up for the
// lost side energy. Widening (w > 1) lowers it by up to 8 dB at w = 2. The
// side gain is w itself.
func NewWidth(w float64) Width {
	mid := unityWidth - midAttenuation*(w-unityWidth)
	if w < unityWidth {
		mid = unityWidth + (unityWidth-w)*midBoostFactor
	}
	return Width{Mid: mid, Side: w}
}

// MidSide encodes l and r as mid = l+r and side = l-r, applies the gains and
// decodes back. The result is twice the true level; the engine halves the
// recombined bands once instead of once per band.
func MidSide[F simdops.Float](l, r, midGain, sideGain F) (outL, outR F) {
	m := midGain * (l + r)
	s := sideGain * (l - r)
	return m + s, m - s
}
