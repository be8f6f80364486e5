package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/simdops"
	"github.com/tphakala/go-audio-widener/internal/testutil"
)

const (
	testBlockFrames = 512
	unityTolerance  = 1e-3
)

func newTestEngine[F simdops.Float](t *testing.T, slope Slope) (*Engine[F], *param.Set) {
	t.Helper()
	set := param.NewSet()
	e, err := New[F](set, slope)
	require.NoError(t, err)
	require.NoError(t, e.Prepare(testSampleRate))
	return e, set
}

// interleave builds an interleaved stereo buffer.
func interleave(l, r []float64) []float64 {
	out := make([]float64, 2*len(l))
	for i := range l {
		out[2*i] = l[i]
		out[2*i+1] = r[i]
	}
	return out
}

// processInBlocks runs buf through e in blocks of testBlockFrames frames.
func processInBlocks(e *Engine[float64], buf []float64) {
	step := testBlockFrames * stereoChannels
	for off := 0; off < len(buf); off += step {
		end := min(off+step, len(buf))
		e.ProcessInterleaved(buf[off:end], stereoChannels)
	}
}

func TestNew_NilSource(t *testing.T) {
	e, err := New[float64](nil, SlopeLR2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilSource))
	assert.Nil(t, e)
}

func TestPrepare_InvalidSampleRate(t *testing.T) {
	e, err := New[float64](param.NewSet(), SlopeLR2)
	require.NoError(t, err)

	for _, sr := range []int{0, -44100} {
		err := e.Prepare(sr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidSampleRate))
	}
	assert.Zero(t, e.SampleRate())
}

func TestProcess_BeforePrepareIsPassthrough(t *testing.T) {
	e, err := New[float64](param.NewSet(), SlopeLR2)
	require.NoError(t, err)

	buf := testutil.Noise(256, 1, testNoiseSeed)
	orig := append([]float64(nil), buf...)
	e.ProcessInterleaved(buf, stereoChannels)
	assert.Equal(t, orig, buf)
}

func TestProcess_NonStereoIsPassthrough(t *testing.T) {
	e, set := newTestEngine[float64](t, SlopeLR2)
	set.Set(param.WidthMid, 2)
	set.Set(param.Volume, 12)

	t.Run("interleaved_mono", func(t *testing.T) {
		buf := testutil.Noise(300, 1, testNoiseSeed)
		orig := append([]float64(nil), buf...)
		e.ProcessInterleaved(buf, 1)
		assert.Equal(t, orig, buf)
	})

	t.Run("interleaved_surround", func(t *testing.T) {
		buf := testutil.Noise(600, 1, testNoiseSeed)
		orig := append([]float64(nil), buf...)
		e.ProcessInterleaved(buf, 6)
		assert.Equal(t, orig, buf)
	})

	t.Run("planar_three_channels", func(t *testing.T) {
		chans := [][]float64{
			testutil.Noise(100, 1, 1),
			testutil.Noise(100, 1, 2),
			testutil.Noise(100, 1, 3),
		}
		orig := make([][]float64, len(chans))
		for i := range chans {
			orig[i] = append([]float64(nil), chans[i]...)
		}
		e.ProcessPlanar(chans)
		assert.Equal(t, orig, chans)
	})

	_, seen := e.LastParams()
	assert.False(t, seen, "passthrough must not consume a parameter snapshot")
}

func TestProcess_UnityWidthIsBandSum(t *testing.T) {
	for _, slope := range []Slope{SlopeLR2, SlopeLR4} {
		t.Run(slope.String(), func(t *testing.T) {
			e, _ := newTestEngine[float64](t, slope)

			left := testutil.Noise(testLength, 0.5, 1)
			right := testutil.Noise(testLength, 0.5, 2)
			buf := interleave(left, right)
			processInBlocks(e, buf)

			refL := NewSplitter[float64](slope)
			refR := NewSplitter[float64](slope)
			for _, s := range []*Splitter[float64]{refL, refR} {
				s.Init(testSampleRate)
				s.SetFrequencies(param.FreqLowMidDefault, param.FreqMidHighDefault)
			}
			for i := range left {
				lo, mi, hi := refL.Process(left[i])
				require.InDelta(t, lo+mi+hi, buf[2*i], identityTolerance, "left frame %d", i)
				lo, mi, hi = refR.Process(right[i])
				require.InDelta(t, lo+mi+hi, buf[2*i+1], identityTolerance, "right frame %d", i)
			}
		})
	}
}

func TestProcess_FlatMagnitudeAtUnityWidth(t *testing.T) {
	for _, slope := range []Slope{SlopeLR2, SlopeLR4} {
		for _, freq := range []float64{50, 440, 1000, 3520, 10000} {
			e, _ := newTestEngine[float64](t, slope)
			in := testutil.Sine(testSampleRate, freq, 0.5, 0, testSampleRate)
			buf := interleave(in, in)
			processInBlocks(e, buf)

			out := make([]float64, len(in))
			for i := range out {
				out[i] = buf[2*i]
			}
			half := len(in) / 2
			gain := testutil.RMS(out[half:]) / testutil.RMS(in[half:])
			assert.InDelta(t, 1.0, gain, unityTolerance, "%s at %.0f Hz", slope, freq)
		}
	}
}

func TestProcess_MonoInputStaysMono(t *testing.T) {
	e, set := newTestEngine[float64](t, SlopeLR2)
	set.Set(param.WidthLow, 0.2)
	set.Set(param.WidthMid, 1.7)
	set.Set(param.WidthHigh, 2)

	mono := testutil.Noise(testLength, 0.5, testNoiseSeed)
	buf := interleave(mono, mono)
	processInBlocks(e, buf)

	for i := range mono {
		require.InDelta(t, buf[2*i], buf[2*i+1], 1e-12, "frame %d", i)
	}
}

func TestProcess_ZeroWidthCollapsesToMono(t *testing.T) {
	e, set := newTestEngine[float64](t, SlopeLR4)
	for _, id := range []param.ID{param.WidthLow, param.WidthMid, param.WidthHigh} {
		set.Set(id, 0)
	}

	buf := interleave(testutil.Noise(testLength, 0.5, 1), testutil.Noise(testLength, 0.5, 2))
	processInBlocks(e, buf)

	for i := 0; i < len(buf); i += 2 {
		require.InDelta(t, buf[i], buf[i+1], 1e-12, "frame %d", i/2)
	}
}

func TestProcess_WidthScalesSide(t *testing.T) {
	// Pure side input (r = -l) has no mid, so the output is w·side per band.
	e, set := newTestEngine[float64](t, SlopeLR2)
	for _, id := range []param.ID{param.WidthLow, param.WidthMid, param.WidthHigh} {
		set.Set(id, 2)
	}
	ref, _ := newTestEngine[float64](t, SlopeLR2)

	side := testutil.Noise(testLength, 0.25, testNoiseSeed)
	neg := make([]float64, len(side))
	for i := range side {
		neg[i] = -side[i]
	}
	wide := interleave(side, neg)
	unity := interleave(side, neg)
	processInBlocks(e, wide)
	processInBlocks(ref, unity)

	testutil.AssertSlicesInDelta(t, scaleCopy(unity, 2), wide, 1e-12)
}

func TestProcess_Volume(t *testing.T) {
	e, set := newTestEngine[float64](t, SlopeLR2)
	set.Set(param.Volume, 20*math.Log10(2))
	ref, _ := newTestEngine[float64](t, SlopeLR2)

	in := interleave(testutil.Noise(testLength, 0.25, 1), testutil.Noise(testLength, 0.25, 2))
	loud := append([]float64(nil), in...)
	plain := append([]float64(nil), in...)
	processInBlocks(e, loud)
	processInBlocks(ref, plain)

	testutil.AssertSlicesInDelta(t, scaleCopy(plain, 2), loud, 1e-12)
}

func TestProcess_PlanarMatchesInterleaved(t *testing.T) {
	ei, _ := newTestEngine[float64](t, SlopeLR4)
	ep, _ := newTestEngine[float64](t, SlopeLR4)

	left := testutil.Noise(testBlockFrames, 0.5, 1)
	right := testutil.Noise(testBlockFrames, 0.5, 2)
	buf := interleave(left, right)
	ei.ProcessInterleaved(buf, stereoChannels)

	l := append([]float64(nil), left...)
	r := append([]float64(nil), right...)
	ep.ProcessPlanar([][]float64{l, r})

	for i := range l {
		assert.InDelta(t, buf[2*i], l[i], 1e-15)
		assert.InDelta(t, buf[2*i+1], r[i], 1e-15)
	}
}

func TestProcess_PlanarUnequalLengths(t *testing.T) {
	e, _ := newTestEngine[float64](t, SlopeLR2)
	l := testutil.Noise(64, 0.5, 1)
	r := testutil.Noise(32, 0.5, 2)
	tail := append([]float64(nil), l[32:]...)

	e.ProcessPlanar([][]float64{l, r})
	assert.Equal(t, tail, l[32:], "frames beyond the shorter channel are untouched")
}

// Peak output allowed while both crossovers sweep under a full-scale sine,
// relative to the input peak. Retuning a cascade of recursive sections
// every block leaves transients that grow with filter order.
var sweepPeakRatio = map[Slope]float64{
	SlopeLR2: 1.2,
	SlopeLR4: 1.3,
}

func TestProcess_SweepIsStable(t *testing.T) {
	const seconds = 4
	frames := seconds * testSampleRate
	blocks := frames / testBlockFrames
	lm := param.SpecOf(param.FreqLowMid)
	mh := param.SpecOf(param.FreqMidHigh)

	for _, slope := range []Slope{SlopeLR2, SlopeLR4} {
		for _, freq := range []float64{60, 220, 1000, 2500, 5000, 12000} {
			t.Run(fmt.Sprintf("%s/%gHz", slope, freq), func(t *testing.T) {
				e, set := newTestEngine[float64](t, slope)

				sine := testutil.Sine(frames, freq, 1, 0, testSampleRate)
				in := interleave(sine, sine)
				inputPeak := simdops.Peak(in)
				require.InDelta(t, 1, inputPeak, 1e-3)

				buf := append([]float64(nil), in...)
				for b := range blocks {
					pos := float64(b) / float64(blocks-1)
					set.Set(param.FreqLowMid, lm.Denormalize(pos))
					set.Set(param.FreqMidHigh, mh.Denormalize(pos))
					off := b * testBlockFrames * stereoChannels
					e.ProcessInterleaved(buf[off:off+testBlockFrames*stereoChannels], stereoChannels)
				}

				testutil.AssertNoNaNOrInf(t, buf)
				assert.LessOrEqual(t, simdops.Peak(buf), sweepPeakRatio[slope]*inputPeak)
			})
		}
	}
}

func TestProcess_SmoothingRampsToTarget(t *testing.T) {
	smooth, setS := newTestEngine[float64](t, SlopeLR2)
	smooth.SetSmoothing(true)
	hard, setH := newTestEngine[float64](t, SlopeLR2)
	assert.True(t, smooth.Smoothing())

	first := interleave(testutil.Noise(testBlockFrames, 0.5, 1), testutil.Noise(testBlockFrames, 0.5, 2))
	a := append([]float64(nil), first...)
	b := append([]float64(nil), first...)
	smooth.ProcessInterleaved(a, stereoChannels)
	hard.ProcessInterleaved(b, stereoChannels)
	testutil.AssertSlicesInDelta(t, b, a, 1e-12, "first block has nothing to ramp from")

	setS.Set(param.Volume, 20*math.Log10(2))
	setH.Set(param.Volume, 20*math.Log10(2))

	second := interleave(testutil.Noise(testBlockFrames, 0.5, 3), testutil.Noise(testBlockFrames, 0.5, 4))
	a = append([]float64(nil), second...)
	b = append([]float64(nil), second...)
	smooth.ProcessInterleaved(a, stereoChannels)
	hard.ProcessInterleaved(b, stereoChannels)

	from := outputNormalisation
	to := outputNormalisation * param.DecibelsToGain(20*math.Log10(2))
	firstGain := from + (to-from)/testBlockFrames

	assert.InDelta(t, b[0]*firstGain/to, a[0], 1e-12)
	assert.InDelta(t, b[1]*firstGain/to, a[1], 1e-12)
	last := len(a) - 2
	assert.InDelta(t, b[last], a[last], 1e-12)
	assert.InDelta(t, b[last+1], a[last+1], 1e-12)
}

func TestReset_ClearsState(t *testing.T) {
	e, _ := newTestEngine[float64](t, SlopeLR4)
	fresh, _ := newTestEngine[float64](t, SlopeLR4)

	e.ProcessInterleaved(testutil.Noise(1024, 0.5, 9), stereoChannels)
	p, seen := e.LastParams()
	assert.True(t, seen)
	assert.Equal(t, param.Defaults(), p)

	e.Reset()
	_, seen = e.LastParams()
	assert.False(t, seen)

	in := testutil.Noise(1024, 0.5, 10)
	a := append([]float64(nil), in...)
	b := append([]float64(nil), in...)
	e.ProcessInterleaved(a, stereoChannels)
	fresh.ProcessInterleaved(b, stereoChannels)
	assert.Equal(t, b, a)
}

func TestPrepare_Idempotent(t *testing.T) {
	e, _ := newTestEngine[float64](t, SlopeLR2)
	require.NoError(t, e.Prepare(testSampleRate))
	require.NoError(t, e.Prepare(testSampleRate))
	fresh, _ := newTestEngine[float64](t, SlopeLR2)

	in := testutil.Noise(1024, 0.5, 11)
	a := append([]float64(nil), in...)
	b := append([]float64(nil), in...)
	e.ProcessInterleaved(a, stereoChannels)
	fresh.ProcessInterleaved(b, stereoChannels)
	assert.Equal(t, b, a)
}

func TestEngine_Float32TracksFloat64(t *testing.T) {
	e64, set64 := newTestEngine[float64](t, SlopeLR4)
	e32, set32 := newTestEngine[float32](t, SlopeLR4)
	for _, s := range []*param.Set{set64, set32} {
		s.Set(param.WidthLow, 0.3)
		s.Set(param.WidthHigh, 1.6)
	}

	in := interleave(testutil.Noise(testLength, 0.5, 1), testutil.Noise(testLength, 0.5, 2))
	in32 := make([]float32, len(in))
	for i, v := range in {
		in32[i] = float32(v)
	}

	e64.ProcessInterleaved(in, stereoChannels)
	e32.ProcessInterleaved(in32, stereoChannels)

	for i := range in {
		if !assert.InDelta(t, in[i], float64(in32[i]), testutil.Float32Tolerance*10, "sample %d", i) {
			return
		}
	}
}

func scaleCopy(s []float64, g float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v * g
	}
	return out
}

func BenchmarkEngine_ProcessInterleaved(b *testing.B) {
	benchmarks := []struct {
		name  string
		slope Slope
	}{
		{"LR2", SlopeLR2},
		{"LR4", SlopeLR4},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			e, err := New[float32](param.NewSet(), bm.slope)
			if err != nil {
				b.Fatal(err)
			}
			if err := e.Prepare(testSampleRate); err != nil {
				b.Fatal(err)
			}
			buf := make([]float32, testBlockFrames*stereoChannels)
			for i := range buf {
				buf[i] = float32(math.Sin(float64(i) * 0.01))
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(buf) * 4))
			for b.Loop() {
				e.ProcessInterleaved(buf, stereoChannels)
			}
		})
	}
}
