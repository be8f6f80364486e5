// Package engine implements the three-band mid/side width processor.
//
// An Engine owns one band Splitter per stereo channel. At the start of every
// processed block it reads a parameter snapshot, retunes the splitters and
// derives per-band mid/side gains. It then splits both channels sample by
// sample, applies the width law to each band pair, sums the bands and
// applies the output gain in place.
//
// Engines are not safe for concurrent use. Distinct engines are independent.
package engine

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-widener/internal/filter"
	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// ErrInvalidSampleRate is returned by Prepare for a non-positive sample rate.
var ErrInvalidSampleRate = filter.ErrInvalidSampleRate

// ErrNilSource is returned by New when no parameter source is given.
var ErrNilSource = errors.New("nil parameter source")

// Engine is the multiband stereo width processor. Type parameter F selects
// the sample precision of the filter state and the processed buffers.
type Engine[F simdops.Float] struct {
	ops        *simdops.Ops[F]
	source     param.Source
	splitters  [stereoChannels]*Splitter[F]
	sampleRate int
	smoothing  bool

	last    param.Values
	hasLast bool
}

// New creates an engine reading its parameters from source.
func New[F simdops.Float](source param.Source, slope Slope) (*Engine[F], error) {
	if source == nil {
		return nil, ErrNilSource
	}
	e := &Engine[F]{
		ops:    simdops.For[F](),
		source: source,
	}
	for ch := range e.splitters {
		e.splitters[ch] = NewSplitter[F](slope)
	}
	return e, nil
}

// SetSmoothing enables per-block linear ramps of the width and output gains
// from the previous block's values to the current ones.
func (e *Engine[F]) SetSmoothing(enabled bool) {
	e.smoothing = enabled
}

// Smoothing reports whether gain ramps are enabled.
func (e *Engine[F]) Smoothing() bool {
	return e.smoothing
}

// Slope returns the crossover family in use.
func (e *Engine[F]) Slope() Slope {
	return e.splitters[channelLeft].Slope()
}

// Prepare (re)initialises both splitters for sampleRate, clears all filter
// history and forgets the cached parameters. It may be called repeatedly.
func (e *Engine[F]) Prepare(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	e.sampleRate = sampleRate
	for _, s := range e.splitters {
		s.Init(sampleRate)
	}
	e.hasLast = false
	return nil
}

// SampleRate returns the prepared sample rate, 0 before Prepare.
func (e *Engine[F]) SampleRate() int {
	return e.sampleRate
}

// Reset clears filter history and the cached parameters, keeping the sample rate.
func (e *Engine[F]) Reset() {
	for _, s := range e.splitters {
		s.Reset()
	}
	e.hasLast = false
}

// LastParams returns the snapshot used by the most recent block and whether
// any block has been processed since Prepare or Reset.
func (e *Engine[F]) LastParams() (param.Values, bool) {
	return e.last, e.hasLast
}

// ProcessInterleaved processes an interleaved buffer in place. Buffers with
// a channel count other than two, and calls made before Prepare, leave buf
// untouched.
func (e *Engine[F]) ProcessInterleaved(buf []F, channels int) {
	if channels != stereoChannels || e.sampleRate <= 0 {
		return
	}
	frames := len(buf) / stereoChannels
	if frames == 0 {
		return
	}
	buf = buf[:frames*stereoChannels]

	g := e.beginBlock(frames)
	for i := range frames {
		l, r := e.frame(buf[2*i], buf[2*i+1], &g)
		buf[2*i] = l
		buf[2*i+1] = r
	}
	e.finishBlock(&g, buf)
}

// ProcessPlanar processes one slice per channel in place. Anything other
// than exactly two channels is left untouched. Only the frames present in
// both channels are processed.
func (e *Engine[F]) ProcessPlanar(chans [][]F) {
	if len(chans) != stereoChannels || e.sampleRate <= 0 {
		return
	}
	left, right := chans[channelLeft], chans[channelRight]
	frames := min(len(left), len(right))
	if frames == 0 {
		return
	}

	g := e.beginBlock(frames)
	for i := range frames {
		left[i], right[i] = e.frame(left[i], right[i], &g)
	}
	e.finishBlock(&g, left[:frames])
	e.finishBlock(&g, right[:frames])
}

// beginBlock snapshots the parameters, retunes the splitters and builds the
// block gains. Frequencies are pushed every block whether or not they moved.
func (e *Engine[F]) beginBlock(frames int) blockGains[F] {
	p := e.source.Load()
	for _, s := range e.splitters {
		s.SetFrequencies(p.FreqLowMid, p.FreqMidHigh)
	}

	target := gainsFor(p)
	start := target
	if e.smoothing && e.hasLast {
		start = gainsFor(e.last)
	}
	e.last = p
	e.hasLast = true

	return newBlockGains[F](start, target, frames)
}

// frame splits one stereo frame, applies the per-band width and sums the
// bands. Without ramps the output gain is left to finishBlock.
func (e *Engine[F]) frame(l, r F, g *blockGains[F]) (F, F) {
	lowL, midL, highL := e.splitters[channelLeft].Process(l)
	lowR, midR, highR := e.splitters[channelRight].Process(r)

	bl := g.low.next()
	bm := g.mid.next()
	bh := g.high.next()

	oLowL, oLowR := MidSide(lowL, lowR, bl.mid, bl.side)
	oMidL, oMidR := MidSide(midL, midR, bm.mid, bm.side)
	oHighL, oHighR := MidSide(highL, highR, bh.mid, bh.side)

	outL := oLowL + oMidL + oHighL
	outR := oLowR + oMidR + oHighR
	if g.ramping {
		out := g.out.step()
		return outL * out, outR * out
	}
	return outL, outR
}

// finishBlock applies a constant output gain with the SIMD scaler.
func (e *Engine[F]) finishBlock(g *blockGains[F], buf []F) {
	if g.ramping {
		return
	}
	e.ops.Scale(buf, buf, g.out.value)
}

// gains are the per-block targets derived from one parameter snapshot.
type gains struct {
	low, mid, high Width
	out            float64
}

func gainsFor(p param.Values) gains {
	return gains{
		low:  NewWidth(p.WidthLow),
		mid:  NewWidth(p.WidthMid),
		high: NewWidth(p.WidthHigh),
		out:  outputNormalisation * param.DecibelsToGain(p.VolumeDB),
	}
}

// ramp moves linearly from its start value to the target over one block,
// reaching the target on the last frame.
type ramp[F simdops.Float] struct {
	value F
	inc   F
}

func newRamp[F simdops.Float](from, to float64, frames int) ramp[F] {
	if frames <= 0 || from == to {
		return ramp[F]{value: F(to)}
	}
	inc := (to - from) / float64(frames)
	return ramp[F]{value: F(from), inc: F(inc)}
}

func (r *ramp[F]) step() F {
	r.value += r.inc
	return r.value
}

// bandRamp ramps one band's mid and side gains.
type bandRamp[F simdops.Float] struct {
	midRamp, sideRamp ramp[F]
}

type bandGain[F simdops.Float] struct {
	mid, side F
}

func (b *bandRamp[F]) next() bandGain[F] {
	return bandGain[F]{mid: b.midRamp.step(), side: b.sideRamp.step()}
}

// blockGains holds every gain used while processing one block.
type blockGains[F simdops.Float] struct {
	low, mid, high bandRamp[F]
	out            ramp[F]
	ramping        bool
}

func newBlockGains[F simdops.Float](from, to gains, frames int) blockGains[F] {
	band := func(a, b Width) bandRamp[F] {
		return bandRamp[F]{
			midRamp:  newRamp[F](a.Mid, b.Mid, frames),
			sideRamp: newRamp[F](a.Side, b.Side, frames),
		}
	}
	return blockGains[F]{
		low:     band(from.low, to.low),
		mid:     band(from.mid, to.mid),
		high:    band(from.high, to.high),
		out:     newRamp[F](from.out, to.out, frames),
		ramping: from != to,
	}
}
