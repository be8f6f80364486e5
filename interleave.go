package widener

import "github.com/tphakala/go-audio-widener/internal/simdops"

func interleave[F simdops.Float](left, right []F) []F {
	n := min(len(left), len(right))
	out := make([]F, n*stereoChannels)
	simdops.For[F]().Interleave2(out, left[:n], right[:n])
	return out
}

func deinterleave[F simdops.Float](interleaved []F) (left, right []F) {
	n := len(interleaved) / stereoChannels
	left = make([]F, n)
	right = make([]F, n)
	simdops.Deinterleave2(left, right, interleaved)
	return left, right
}
