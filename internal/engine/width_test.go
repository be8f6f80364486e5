package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWidth(t *testing.T) {
	minus8dB := math.Pow(10, -8.0/20)
	atten := 1 - minus8dB

	tests := []struct {
		name  string
		width float64
		mid   float64
		side  float64
	}{
		{"mono", 0, 1.5, 0},
		{"half", 0.5, 1.25, 0.5},
		{"unity", 1, 1, 1},
		{"one_and_half", 1.5, 1 - atten/2, 1.5},
		{"double", 2, minus8dB, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWidth(tt.width)
			assert.InDelta(t, tt.mid, w.Mid, 1e-12)
			assert.InDelta(t, tt.side, w.Side, 0)
		})
	}
}

func TestNewWidth_ContinuousAtUnity(t *testing.T) {
	below := NewWidth(1 - 1e-9)
	above := NewWidth(1 + 1e-9)
	assert.InDelta(t, below.Mid, above.Mid, 1e-8)
}

func TestMidSide_Unity(t *testing.T) {
	l, r := MidSide(0.3, -0.7, 1.0, 1.0)
	assert.InDelta(t, 0.6, l, 1e-15)
	assert.InDelta(t, -1.4, r, 1e-15)
}

func TestMidSide_Mono(t *testing.T) {
	w := NewWidth(0)
	l, r := MidSide(float32(0.3), float32(-0.7), float32(w.Mid), float32(w.Side))
	assert.Equal(t, l, r)
	assert.InDelta(t, 1.5*(0.3-0.7), float64(l), 1e-6)
}
