// Command analyze-crossover prints the magnitude response of each band of
// the three-way splitter and of their sum, plus the width law gains.
//
//	analyze-crossover -rate 48000 -freqlm 200 -freqmh 4000 -slope 4
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/tphakala/go-audio-widener/internal/analysis"
	"github.com/tphakala/go-audio-widener/internal/engine"
	"github.com/tphakala/go-audio-widener/internal/param"
)

const (
	defaultRate   = 48000
	defaultPoints = 24
	impulseLength = 1 << 15 // FFT size; about 0.7 Hz resolution at 48 kHz

	gridMinFreq  = 20.0
	nyquistGuard = 0.9 // ignore the top of the band where bilinear warping dominates

	widthSteps = 8

	verifyLength = 1 << 16
	verifySeed   = 7
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rate := flag.Int("rate", defaultRate, "Sample rate in Hz")
	freqLM := flag.Float64("freqlm", param.FreqLowMidDefault, "Low/mid crossover in Hz")
	freqMH := flag.Float64("freqmh", param.FreqMidHighDefault, "Mid/high crossover in Hz")
	slopeFlag := flag.Int("slope", 2, "Crossover slope: 2 or 4")
	points := flag.Int("points", defaultPoints, "Frequencies to print, mel spaced")
	verify := flag.Bool("verify", false, "Check the measured response against direct processing of noise")
	flag.Parse()

	slope := engine.SlopeLR2
	switch *slopeFlag {
	case 2:
	case 4:
		slope = engine.SlopeLR4
	default:
		return fmt.Errorf("unknown slope %d (want 2 or 4)", *slopeFlag)
	}
	if *rate <= 0 {
		return fmt.Errorf("%w: %d", engine.ErrInvalidSampleRate, *rate)
	}

	// Clamp the corners the same way the parameter set would.
	lm := param.SpecOf(param.FreqLowMid).Clamp(*freqLM)
	mh := param.SpecOf(param.FreqMidHigh).Clamp(*freqMH)

	bands := measureBands(*rate, slope, lm, mh)

	fmt.Println("=== Band Splitter Response ===")
	fmt.Printf("  Sample rate: %d Hz\n", *rate)
	fmt.Printf("  Slope: %s\n", slope)
	fmt.Printf("  Crossovers: %.1f Hz, %.1f Hz\n\n", lm, mh)

	nyquist := float64(*rate) / 2
	top := nyquist * nyquistGuard

	fmt.Printf("%10s %9s %9s %9s %9s\n", "Freq (Hz)", "Low dB", "Mid dB", "High dB", "Sum dB")
	for _, f := range analysis.MelGrid(*points, gridMinFreq, top) {
		fmt.Printf("%10.1f %9.2f %9.2f %9.2f %9.3f\n", f,
			analysis.At(bands.low, f).MagnitudeDB,
			analysis.At(bands.mid, f).MagnitudeDB,
			analysis.At(bands.high, f).MagnitudeDB,
			analysis.At(bands.sum, f).MagnitudeDB)
	}

	fmt.Println("\nAt the crossover corners:")
	fmt.Printf("  %.1f Hz: low %.2f dB, mid %.2f dB\n", lm,
		analysis.At(bands.low, lm).MagnitudeDB, analysis.At(bands.mid, lm).MagnitudeDB)
	fmt.Printf("  %.1f Hz: mid %.2f dB, high %.2f dB\n", mh,
		analysis.At(bands.mid, mh).MagnitudeDB, analysis.At(bands.high, mh).MagnitudeDB)
	fmt.Printf("\nSum ripple %.0f-%.0f Hz: %.4f dB\n", gridMinFreq, top,
		analysis.MaxDeviationDB(bands.sum, gridMinFreq, top))

	if *verify {
		errDB := verifyLinearity(*rate, slope, lm, mh, bands.sumIR)
		fmt.Printf("Prediction error on noise: %.1f dB\n", errDB)
	}

	fmt.Println("\n=== Width Law ===")
	fmt.Printf("%7s %9s %9s %9s\n", "Width", "Mid", "Side", "Mid dB")
	for i := 0; i <= widthSteps; i++ {
		w := param.WidthMax * float64(i) / widthSteps
		g := engine.NewWidth(w)
		fmt.Printf("%7.2f %9.4f %9.4f %9.2f\n", w, g.Mid, g.Side, param.GainToDecibels(g.Mid))
	}
	return nil
}

type bandResponses struct {
	low, mid, high, sum []analysis.Bin
	sumIR               []float64
}

// measureBands runs an impulse through a splitter and returns the spectrum
// of every band and of their sum.
func measureBands(rate int, slope engine.Slope, lowMid, midHigh float64) bandResponses {
	s := engine.NewSplitter[float64](slope)
	s.Init(rate)
	s.SetFrequencies(lowMid, midHigh)

	low := make([]float64, 0, impulseLength)
	mid := make([]float64, 0, impulseLength)
	high := make([]float64, 0, impulseLength)
	sum := analysis.ImpulseResponse(impulseLength, func(x float64) float64 {
		l, m, h := s.Process(x)
		low = append(low, l)
		mid = append(mid, m)
		high = append(high, h)
		return l + m + h
	})

	return bandResponses{
		low:  analysis.Spectrum(low, rate),
		mid:  analysis.Spectrum(mid, rate),
		high: analysis.Spectrum(high, rate),
		sum:  analysis.Spectrum(sum, rate),

		sumIR: sum,
	}
}

// verifyLinearity runs noise through a fresh splitter and through the
// measured impulse response of the band sum, and returns the residual
// energy relative to the output in dB.
func verifyLinearity(rate int, slope engine.Slope, lowMid, midHigh float64, ir []float64) float64 {
	s := engine.NewSplitter[float64](slope)
	s.Init(rate)
	s.SetFrequencies(lowMid, midHigh)

	rng := rand.New(rand.NewPCG(verifySeed, verifySeed))
	noise := make([]float64, verifyLength)
	direct := make([]float64, verifyLength)
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
		l, m, h := s.Process(noise[i])
		direct[i] = l + m + h
	}

	predicted := make([]float64, verifyLength)
	analysis.NewConvolver(ir).Filter(predicted, noise)

	var residual, energy float64
	for i := range direct {
		d := direct[i] - predicted[i]
		residual += d * d
		energy += direct[i] * direct[i]
	}
	return param.GainToDecibels(math.Sqrt(residual / energy))
}
