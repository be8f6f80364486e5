package widener

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestIndependentProcessorsParallel checks that processors sharing nothing
// give the same result on separate goroutines as sequentially.
func TestIndependentProcessorsParallel(t *testing.T) {
	const workers = 8

	inputs := make([][]float64, workers)
	want := make([][]float64, workers)
	for i := range workers {
		inputs[i] = stereoNoise(6000, uint64(100+i))
		want[i] = append([]float64(nil), inputs[i]...)

		p, err := NewWithParams(testSampleRate, SlopeLR4, widthParams(i))
		require.NoError(t, err)
		p.ProcessInterleaved(want[i], 2)
	}

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			p, err := NewWithParams(testSampleRate, SlopeLR4, widthParams(i))
			if err != nil {
				return err
			}
			p.ProcessInterleaved(inputs[i], 2)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := range workers {
		assert.Equal(t, want[i], inputs[i], "worker %d", i)
	}
}

func widthParams(i int) Params {
	p := DefaultParams()
	p.WidthLow = float64(i%3) * 0.5
	p.WidthHigh = 2 - float64(i%5)*0.25
	return p
}

// TestParamWritesDuringProcessing runs a control goroutine hammering the
// parameter set while the audio goroutine processes. Run with -race.
func TestParamWritesDuringProcessing(t *testing.T) {
	set := NewParamSet()
	p, err := New(&Config{SampleRate: testSampleRate, Params: set, Smoothing: true, BlockSize: 64})
	require.NoError(t, err)

	g, ctx := errgroup.WithContext(context.Background())
	var done atomic.Bool

	g.Go(func() error {
		for i := 0; !done.Load(); i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			set.SetNormalized(ParamWidthMid, float64(i%100)/100)
			set.SetNormalized(ParamFreqLowMid, float64(i%17)/17)
			set.Set(ParamVolume, float64(i%12)-6)
		}
		return nil
	})

	g.Go(func() error {
		defer done.Store(true)
		buf := make([]float64, 64*2)
		for block := range 2000 {
			copy(buf, stereoNoise(64, uint64(block)))
			p.ProcessInterleaved(buf, 2)
			for _, v := range buf {
				if math.IsNaN(v) {
					t.Errorf("NaN in block %d", block)
					return nil
				}
			}
		}
		return nil
	})

	require.NoError(t, g.Wait())
	last, ok := p.LastParams()
	require.True(t, ok)
	assert.GreaterOrEqual(t, last.WidthMid, 0.0)
	assert.LessOrEqual(t, last.WidthMid, 2.0)
}
