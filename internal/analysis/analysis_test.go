package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-widener/internal/engine"
	"github.com/tphakala/go-audio-widener/internal/filter"
	"github.com/tphakala/go-audio-widener/internal/testutil"
)

const (
	testSampleRate = 48000
	testIRLength   = 16384

	flatToleranceDB = 1e-6
)

func TestImpulseResponse_Delay(t *testing.T) {
	var ap filter.AllPass[float32] // untuned: one-sample delay
	ir := ImpulseResponse(8, ap.Process)
	assert.Equal(t, []float64{0, 1, 0, 0, 0, 0, 0, 0}, ir)
}

func TestSpectrum_BinLayout(t *testing.T) {
	ir := testutil.Impulse(1024)
	bins := Spectrum(ir, testSampleRate)

	require.Len(t, bins, 513)
	assert.InDelta(t, 0, bins[0].Freq, 0)
	assert.InDelta(t, testSampleRate/2, bins[len(bins)-1].Freq, 1e-9)
	for _, b := range bins {
		assert.InDelta(t, 0, b.MagnitudeDB, 1e-9)
	}
	assert.Nil(t, Spectrum(nil, testSampleRate))
}

func TestSpectrum_SplitterSumIsFlat(t *testing.T) {
	for _, slope := range []engine.Slope{engine.SlopeLR2, engine.SlopeLR4} {
		t.Run(slope.String(), func(t *testing.T) {
			s := engine.NewSplitter[float64](slope)
			s.Init(testSampleRate)
			s.SetFrequencies(440, 3520.5)

			ir := ImpulseResponse(testIRLength, func(x float64) float64 {
				lo, mi, hi := s.Process(x)
				return lo + mi + hi
			})
			bins := Spectrum(ir, testSampleRate)
			assert.Less(t, MaxDeviationDB(bins, 20, 20000), flatToleranceDB)
		})
	}
}

func TestSpectrum_CrossoverAt6dB(t *testing.T) {
	xo, err := filter.NewLR4[float64](testSampleRate, 1000)
	require.NoError(t, err)

	bins := Spectrum(ImpulseResponse(testIRLength, xo.ProcessLP), testSampleRate)
	// 16384-point grid at 48 kHz puts a bin within 1.5 Hz of 1 kHz.
	b := At(bins, 1000)
	assert.InDelta(t, -6.02, b.MagnitudeDB, 0.05)
	assert.InDelta(t, 0, At(bins, 20).MagnitudeDB, 0.01)
}

func TestAt(t *testing.T) {
	bins := []Bin{{Freq: 0}, {Freq: 100}, {Freq: 200}}
	assert.InDelta(t, 100, At(bins, 130).Freq, 0)
	assert.InDelta(t, 200, At(bins, 1e6).Freq, 0)
	assert.Equal(t, Bin{}, At(nil, 5))
}

func TestMelGrid(t *testing.T) {
	grid := MelGrid(24, 20, 20000)
	require.Len(t, grid, 24)
	assert.InDelta(t, 20, grid[0], 1e-9)
	assert.InDelta(t, 20000, grid[len(grid)-1], 0)
	for i := 1; i < len(grid); i++ {
		assert.Greater(t, grid[i], grid[i-1])
	}
	assert.Equal(t, []float64{100}, MelGrid(1, 100, 200))
}

func TestConvolver_MatchesRecursiveFilter(t *testing.T) {
	// A linear system must equal convolution with its own impulse response.
	xo, err := filter.NewLR2[float64](testSampleRate, 1000)
	require.NoError(t, err)
	ir := ImpulseResponse(4096, xo.ProcessLP)
	xo.Reset()

	c := NewConvolver(ir)
	require.NotNil(t, c)
	assert.Equal(t, 4096, c.KernelLen())

	noise := testutil.Noise(10000, 1, 3)
	want := testutil.Apply(noise, xo.ProcessLP)
	got := make([]float64, len(noise))
	c.Filter(got, noise)

	testutil.AssertSlicesInDelta(t, want, got, 1e-9)
}

func TestConvolver_ShortKernel(t *testing.T) {
	c := NewConvolver([]float64{0.5, 0.5})
	in := []float64{1, 2, 3, 4}
	out := make([]float64, len(in))
	c.Filter(out, in)
	testutil.AssertSlicesInDelta(t, []float64{0.5, 1.5, 2.5, 3.5}, out, 1e-12)

	assert.Nil(t, NewConvolver(nil))
}

func TestRMSAndPeak(t *testing.T) {
	sine := testutil.Sine(48000, 1000, 1, 0, testSampleRate)
	assert.InDelta(t, 1/math.Sqrt2, RMS(sine), 1e-6)
	assert.InDelta(t, 1, Peak(sine), 1e-3)

	f32 := []float32{0.5, -0.75, 0.25}
	assert.InDelta(t, 0.75, Peak(f32), 0)
	assert.Zero(t, RMS([]float64{}))
}

func TestCorrelation(t *testing.T) {
	a := testutil.Noise(4096, 1, 1)
	b := testutil.Noise(4096, 1, 2)
	neg := make([]float64, len(a))
	for i := range a {
		neg[i] = -a[i]
	}

	assert.InDelta(t, 1, Correlation(a, a), 1e-12)
	assert.InDelta(t, -1, Correlation(a, neg), 1e-12)
	assert.InDelta(t, 0, Correlation(a, b), 0.05)
	assert.Zero(t, Correlation(a, make([]float64, len(a))))
	assert.Zero(t, Correlation([]float64{}, a))
}

func TestStereoMeter(t *testing.T) {
	var m StereoMeter
	a := testutil.Noise(1000, 0.5, 1)
	AddPlanar(&m, a[:500], a[:500])
	AddPlanar(&m, a[500:], a[500:])

	assert.Equal(t, 1000, m.Frames())
	assert.InDelta(t, 1, m.Correlation(), 1e-12)
	assert.InDelta(t, 0, m.Width(), 1e-12)
	assert.InDelta(t, testutil.RMS(a), m.RMS(), 1e-12)
	assert.InDelta(t, Peak(a), m.Peak(), 0)

	var side StereoMeter
	neg := make([]float32, 100)
	pos := make([]float32, 100)
	for i := range pos {
		pos[i] = float32(i%7) / 10
		neg[i] = -pos[i]
	}
	AddPlanar(&side, pos, neg)
	assert.True(t, math.IsInf(side.Width(), 1))

	var empty StereoMeter
	l, r := empty.DC()
	assert.Zero(t, l)
	assert.Zero(t, r)
	assert.Zero(t, empty.Width())
	assert.Zero(t, empty.RMS())
	assert.Zero(t, empty.Correlation())
}

func TestStereoMeter_DC(t *testing.T) {
	const offset = 0.25
	noise := testutil.Noise(1000, 0.5, 3)
	l := make([]float32, len(noise))
	r := make([]float32, len(noise))
	var mean float64
	for i, v := range noise {
		l[i] = float32(v + offset)
		r[i] = -0.1
		mean += float64(l[i])
	}
	mean /= float64(len(l))

	var m StereoMeter
	AddPlanar(&m, l[:300], r[:300])
	AddPlanar(&m, l[300:], r[300:])

	dcL, dcR := m.DC()
	assert.InDelta(t, mean, dcL, 1e-6)
	assert.InDelta(t, offset, dcL, 0.05)
	assert.InDelta(t, -0.1, dcR, 1e-6)
}
