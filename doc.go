// Package widener provides a three-band mid/side stereo width processor in
// pure Go.
//
// Each channel is split into low, mid and high bands by two cascaded
// Linkwitz-Riley crossovers. The low band runs through an all-pass matched
// to the upper crossover, so the three bands recombine with a flat magnitude
// response. Every band pair is converted to mid/side, its side level is set
// by the band's width and its mid level follows a fixed law, then the bands
// are summed and the output volume applied.
//
// # Features
//
//   - Independent width for low, mid and high bands (0 = mono, 1 = unchanged, 2 = extra wide)
//   - Adjustable low/mid (80-880 Hz) and mid/high (1760-7040 Hz) corners
//   - 12 dB/oct (LR2) or 24 dB/oct (LR4) band splitting
//   - float32 or float64 filter precision, with SIMD gain scaling via github.com/tphakala/simd
//   - Lock-free parameter store safe to write while audio is processed
//   - Optional per-block gain ramps to avoid zipper noise on automation
//   - Zero latency, no allocation on the processing path
//
// # Quick Start
//
// For simple one-shot processing:
//
//	params := widener.DefaultParams()
//	params.WidthHigh = 1.5
//	outL, outR, err := widener.ProcessStereo(left, right, widener.RateDAT, params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming with a reusable processor:
//
//	p, err := widener.New(&widener.Config{
//	    SampleRate: 48000,
//	    Slope:      widener.SlopeLR4,
//	    Smoothing:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Parameters may change from another goroutine.
//	p.Params().Set(widener.ParamWidthLow, 0)
//
//	for chunk := range audioChunks {
//	    p.ProcessInterleaved(chunk, 2) // in place
//	}
//
// # Width Law
//
// For a band width w in [0, 2] the side signal is scaled by w. The mid
// signal is lifted by up to 1.5x as the band narrows toward mono and pulled
// down by up to 8 dB as it widens past 1. At w = 1 the band passes through
// untouched.
//
// # Parameters
//
// Parameters are stored in a [ParamSet] and read once per block. They can be
// set by plain value ([ParamSet.Set]), by host-style normalised value
// ([ParamSet.SetNormalized]) or by persisted name ([ParamSet.SetByName]):
// "Low", "FreqLM", "Mid", "FreqMH", "High" and "Volume".
//
// # Stereo Only
//
// The processor only alters two-channel audio. Buffers with any other
// channel count are passed through unchanged.
//
// # Thread Safety
//
// A [Processor] must not be used for processing from several goroutines at
// once. Separate processors are independent. A [ParamSet] may be shared and
// written from any goroutine.
package widener
