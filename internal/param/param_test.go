package param

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestSpecs_Order(t *testing.T) {
	names := []string{"Low", "FreqLM", "Mid", "FreqMH", "High", "Volume"}
	specs := Specs()
	require.Len(t, specs, len(names))
	for i, s := range specs {
		assert.Equal(t, names[i], s.Name)
		assert.Equal(t, ID(i), s.ID)
		assert.GreaterOrEqual(t, s.Default, s.Min, s.Name)
		assert.LessOrEqual(t, s.Default, s.Max, s.Name)
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("FreqMH")
	require.NoError(t, err)
	assert.Equal(t, FreqMidHigh, s.ID)
	assert.InDelta(t, 3520.5, s.Default, 0)

	_, err = Lookup("Width")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownParameter))
	assert.Contains(t, err.Error(), "Width")
}

func TestSpec_NormalizeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		id    ID
		plain float64
	}{
		{"width_min", WidthLow, 0},
		{"width_mid", WidthMid, 1.37},
		{"freq_lm_default", FreqLowMid, 440},
		{"freq_mh_top", FreqMidHigh, 7040},
		{"volume_negative", Volume, -6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SpecOf(tt.id)
			n := s.Normalize(tt.plain)
			assert.GreaterOrEqual(t, n, 0.0)
			assert.LessOrEqual(t, n, 1.0)
			assert.InDelta(t, tt.plain, s.Denormalize(n), 1e-9)
		})
	}
}

func TestSpec_SkewFavoursLowEnd(t *testing.T) {
	s := SpecOf(FreqLowMid)
	mid := s.Denormalize(0.5)

	// With skew 0.4 half travel lands well below the arithmetic centre.
	linearCentre := (s.Min + s.Max) / 2
	assert.Less(t, mid, linearCentre)
	assert.InDelta(t, s.Min+(s.Max-s.Min)*math.Pow(0.5, 1/FreqSkew), mid, tolerance)
}

func TestSpec_Snap(t *testing.T) {
	assert.InDelta(t, 1.23, SpecOf(WidthLow).Snap(1.2349), tolerance)
	assert.InDelta(t, 441, SpecOf(FreqLowMid).Snap(440.6), tolerance)
	assert.InDelta(t, 2, SpecOf(WidthHigh).Snap(5), tolerance)
	assert.InDelta(t, -18, SpecOf(Volume).Snap(-40), tolerance)
}

func TestSet_DefaultsAndClamp(t *testing.T) {
	s := NewSet()
	assert.Equal(t, Defaults(), s.Load())

	s.Set(WidthMid, 3)
	s.Set(FreqLowMid, 10)
	s.Set(Volume, 30)

	v := s.Load()
	assert.InDelta(t, WidthMax, v.WidthMid, 0)
	assert.InDelta(t, FreqLowMidMin, v.FreqLowMid, 0)
	assert.InDelta(t, VolumeMax, v.VolumeDB, 0)

	s.Reset()
	assert.Equal(t, Defaults(), s.Load())
}

func TestSet_ByName(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.SetByName("High", 1.5))

	got, err := s.GetByName("High")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 0)

	err = s.SetByName("Bogus", 1)
	assert.True(t, errors.Is(err, ErrUnknownParameter))
	_, err = s.GetByName("Bogus")
	assert.True(t, errors.Is(err, ErrUnknownParameter))
}

func TestSet_Normalized(t *testing.T) {
	s := NewSet()
	s.SetNormalized(Volume, 1)
	assert.InDelta(t, VolumeMax, s.Get(Volume), tolerance)

	s.SetNormalized(WidthLow, 0.5)
	assert.InDelta(t, 1.0, s.Get(WidthLow), tolerance)
	assert.InDelta(t, 0.5, s.Normalized(WidthLow), tolerance)
}

func TestValues_WithGet(t *testing.T) {
	v := Defaults()
	for id := range Count {
		v = v.With(id, float64(id)+0.5)
	}
	for id := range Count {
		assert.InDelta(t, float64(id)+0.5, v.Get(id), 0)
	}
}

func TestSet_ConcurrentAccess(t *testing.T) {
	s := NewSet()
	var wg sync.WaitGroup

	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				s.Set(WidthLow, float64((i+w)%200)/100)
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				v := s.Load()
				assert.GreaterOrEqual(t, v.WidthLow, WidthMin)
				assert.LessOrEqual(t, v.WidthLow, WidthMax)
			}
		}()
	}
	wg.Wait()
}
