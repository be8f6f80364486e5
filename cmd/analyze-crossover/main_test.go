package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-audio-widener/internal/analysis"
	"github.com/tphakala/go-audio-widener/internal/engine"
	"github.com/tphakala/go-audio-widener/internal/param"
)

func TestMeasureBands(t *testing.T) {
	for _, slope := range []engine.Slope{engine.SlopeLR2, engine.SlopeLR4} {
		t.Run(slope.String(), func(t *testing.T) {
			bands := measureBands(defaultRate, slope, param.FreqLowMidDefault, param.FreqMidHighDefault)

			assert.Len(t, bands.sumIR, impulseLength)
			assert.Less(t, analysis.MaxDeviationDB(bands.sum, gridMinFreq, defaultRate/2*nyquistGuard), 0.01)

			// Linkwitz-Riley bands cross at -6 dB.
			assert.InDelta(t, -6.02, analysis.At(bands.low, param.FreqLowMidDefault).MagnitudeDB, 0.1)

			// Each band dominates away from the corners.
			assert.Greater(t, analysis.At(bands.low, 50).MagnitudeDB, analysis.At(bands.mid, 50).MagnitudeDB)
			assert.Greater(t, analysis.At(bands.mid, 1200).MagnitudeDB, analysis.At(bands.low, 1200).MagnitudeDB)
			assert.Greater(t, analysis.At(bands.high, 12000).MagnitudeDB, analysis.At(bands.mid, 12000).MagnitudeDB)
		})
	}
}

func TestVerifyLinearity(t *testing.T) {
	bands := measureBands(defaultRate, engine.SlopeLR4, 200, 4000)
	assert.Less(t, verifyLinearity(defaultRate, engine.SlopeLR4, 200, 4000, bands.sumIR), -80.0)
}
