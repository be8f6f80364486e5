package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	widener "github.com/tphakala/go-audio-widener"
	"github.com/tphakala/go-audio-widener/internal/analysis"
)

func main() {
	var (
		sampleRate = flag.Int("rate", defaultSampleRate, "Sample rate in Hz")
		slopeFlag  = flag.Int("slope", defaultSlope, "Crossover slope: 2 or 4")
		fast       = flag.Bool("fast", false, "Use float32 filters")
		low        = flag.Float64("low", 1, "Low band width")
		mid        = flag.Float64("mid", 1, "Mid band width")
		high       = flag.Float64("high", 1, "High band width")
		demo       = flag.Bool("demo", false, "Run a demonstration")
	)
	flag.Parse()

	if *demo {
		runDemo()
		return
	}

	slope := widener.SlopeLR2
	if *slopeFlag == 4 {
		slope = widener.SlopeLR4
	}
	precision := widener.PrecisionFloat64
	if *fast {
		precision = widener.PrecisionFloat32
	}

	params := widener.NewParamSet()
	params.Set(widener.ParamWidthLow, *low)
	params.Set(widener.ParamWidthMid, *mid)
	params.Set(widener.ParamWidthHigh, *high)

	proc, err := widener.New(&widener.Config{
		SampleRate: *sampleRate,
		Slope:      slope,
		Precision:  precision,
		Params:     params,
	})
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	info := proc.Info()
	fmt.Printf("Processor created:\n")
	fmt.Printf("  Sample rate: %d Hz\n", info.SampleRate)
	fmt.Printf("  Slope: %s\n", info.Slope)
	fmt.Printf("  Precision: %s\n", info.Precision)
	fmt.Printf("  Block size: %d frames\n", info.BlockSize)
	fmt.Printf("  Latency: %d frames\n", info.Latency)
	fmt.Printf("  SIMD: %s\n", info.SIMDType)

	fmt.Println("\nProcessing test signal...")
	buf := generateTestSignal(testSignalFrames, *sampleRate)
	before := measure(buf)
	proc.ProcessInterleaved(buf, stereoChannels)
	after := measure(buf)

	v := params.Load()
	fmt.Printf("Widths: low %.2f, mid %.2f, high %.2f\n", v.WidthLow, v.WidthMid, v.WidthHigh)
	fmt.Printf("Correlation: %+.3f -> %+.3f\n", before.Correlation(), after.Correlation())
	fmt.Printf("Side/mid:    %.3f -> %.3f\n", before.Width(), after.Width())
	fmt.Printf("RMS:         %.3f -> %.3f\n", before.RMS(), after.RMS())
}

// generateTestSignal returns interleaved stereo with a shared bass tone and
// a different tone on each side.
func generateTestSignal(frames, sampleRate int) []float64 {
	buf := make([]float64, frames*stereoChannels)
	w := 2 * math.Pi / float64(sampleRate)

	for i := range frames {
		t := float64(i)
		common := math.Sin(w * testCommonFreq * t)
		buf[2*i] = testAmplitude * (common + math.Sin(w*testLeftFreq*t))
		buf[2*i+1] = testAmplitude * (common + math.Sin(w*testRightFreq*t))
	}
	return buf
}

func measure(interleaved []float64) *analysis.StereoMeter {
	var m analysis.StereoMeter
	l, r := widener.DeinterleaveFromStereo(interleaved)
	analysis.AddPlanar(&m, l, r)
	return &m
}

func runDemo() {
	fmt.Println("=== Go Audio Widener Demo ===")

	// Demo 1: Width settings
	fmt.Println("1. Width Settings")
	fmt.Println("-----------------")

	widths := []struct {
		low, mid, high float64
		name           string
	}{
		{1, 1, 1, "Unchanged"},
		{0, 0, 0, "Mono"},
		{0, 1, 1, "Mono bass"},
		{1, 1.2, 1.6, "Wide top"},
		{2, 2, 2, "Double side"},
	}

	for _, w := range widths {
		p := widener.DefaultParams()
		p.WidthLow, p.WidthMid, p.WidthHigh = w.low, w.mid, w.high

		proc, err := widener.NewWithParams(sampleRateDAT, widener.SlopeLR4, p)
		if err != nil {
			fmt.Printf("  %s: Error - %v\n", w.name, err)
			continue
		}
		buf := generateTestSignal(testSignalFrames, sampleRateDAT)
		proc.ProcessInterleaved(buf, stereoChannels)
		m := measure(buf)
		fmt.Printf("  %-12s correlation %+.3f, side/mid %.3f\n", w.name, m.Correlation(), m.Width())
	}

	// Demo 2: Performance characteristics
	fmt.Println("\n2. Performance Characteristics")
	fmt.Println("------------------------------")

	rates := []int{sampleRateCD, sampleRateDAT, sampleRateHiRes}
	for _, rate := range rates {
		for _, slope := range []widener.Slope{widener.SlopeLR2, widener.SlopeLR4} {
			for _, precision := range []widener.Precision{widener.PrecisionFloat64, widener.PrecisionFloat32} {
				proc, err := widener.New(&widener.Config{SampleRate: rate, Slope: slope, Precision: precision})
				if err != nil {
					continue
				}
				buf := generateTestSignal(rate, rate)
				start := time.Now()
				proc.ProcessInterleaved(buf, stereoChannels)
				elapsed := time.Since(start)
				fmt.Printf("  %6d Hz %s %s: 1s of audio in %v (%.0fx realtime)\n",
					rate, slope, precision, elapsed.Round(time.Microsecond), 1/elapsed.Seconds())
			}
		}
	}

	// Demo 3: Channel handling
	fmt.Println("\n3. Channel Handling")
	fmt.Println("-------------------")

	for _, ch := range []int{monoChannels, stereoChannels} {
		proc, err := widener.NewStereo(sampleRateDAT)
		if err != nil {
			continue
		}
		proc.Params().Set(widener.ParamWidthHigh, 2)
		buf := make([]float64, ch*testSignalFrames)
		for i := range buf {
			buf[i] = testAmplitude * math.Sin(float64(i))
		}
		orig := append([]float64(nil), buf...)
		proc.ProcessInterleaved(buf, ch)

		changed := 0
		for i := range buf {
			if buf[i] != orig[i] {
				changed++
			}
		}
		fmt.Printf("  %d channel(s): %d of %d samples changed\n", ch, changed, len(buf))
	}

	fmt.Println("\n=== Demo Complete ===")
}
