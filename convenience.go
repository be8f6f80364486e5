package widener

import (
	"errors"
	"fmt"
	"io"

	"github.com/tphakala/go-audio-widener/internal/wavio"
)

// NewStereo creates a float64 processor with default parameters.
func NewStereo(sampleRate int) (*Processor, error) {
	return New(&Config{SampleRate: sampleRate})
}

// NewFloat32 creates a float32 processor with default parameters.
func NewFloat32(sampleRate int) (*Processor, error) {
	return New(&Config{SampleRate: sampleRate, Precision: PrecisionFloat32})
}

// NewWithParams creates a float64 processor whose parameters start at params.
func NewWithParams(sampleRate int, slope Slope, params Params) (*Processor, error) {
	set := NewParamSet()
	set.Store(params)
	return New(&Config{SampleRate: sampleRate, Slope: slope, Params: set})
}

// ProcessStereo is a convenience function for one-shot processing of a
// planar stereo signal. The inputs are left untouched; the outputs are as
// long as the shorter input.
func ProcessStereo(left, right []float64, sampleRate int, params Params) (leftOut, rightOut []float64, err error) {
	p, err := NewWithParams(sampleRate, SlopeLR2, params)
	if err != nil {
		return nil, nil, err
	}
	n := min(len(left), len(right))
	leftOut = append([]float64(nil), left[:n]...)
	rightOut = append([]float64(nil), right[:n]...)
	p.ProcessPlanar([][]float64{leftOut, rightOut})
	return leftOut, rightOut, nil
}

// ProcessStereoFloat32 is the float32 equivalent of ProcessStereo. The
// filters run in float32 as well.
func ProcessStereoFloat32(left, right []float32, sampleRate int, params Params) (leftOut, rightOut []float32, err error) {
	set := NewParamSet()
	set.Store(params)
	p, err := New(&Config{SampleRate: sampleRate, Precision: PrecisionFloat32, Params: set})
	if err != nil {
		return nil, nil, err
	}
	n := min(len(left), len(right))
	leftOut = append([]float32(nil), left[:n]...)
	rightOut = append([]float32(nil), right[:n]...)
	p.ProcessPlanarFloat32([][]float32{leftOut, rightOut})
	return leftOut, rightOut, nil
}

// ProcessFile reads a PCM WAV file, processes it and writes the result to
// outPath at the same bit depth. cfg.SampleRate is taken from the input
// file. Files that are not stereo are copied unchanged. It returns the number
// of frames written.
func ProcessFile(inPath, outPath string, cfg Config) (int64, error) {
	r, err := wavio.Open[float64](inPath, wavio.DefaultBlockFrames)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	cfg.SampleRate = r.SampleRate
	p, err := New(&cfg)
	if err != nil {
		return 0, err
	}

	w, err := wavio.Create[float64](outPath, r.SampleRate, r.BitDepth, r.Channels)
	if err != nil {
		return 0, err
	}

	for {
		planes, frames, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = w.Close()
			return w.TotalFrames, err
		}
		p.ProcessPlanar(planes)
		if err := w.Write(planes, frames); err != nil {
			_ = w.Close()
			return w.TotalFrames, err
		}
	}

	if err := w.Close(); err != nil {
		return w.TotalFrames, fmt.Errorf("%s: %w", outPath, err)
	}
	return w.TotalFrames, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float64) []float64 {
	return interleave(left, right)
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	return deinterleave(interleaved)
}

// InterleaveToStereoFloat32 is the float32 equivalent of InterleaveToStereo.
func InterleaveToStereoFloat32(left, right []float32) []float32 {
	return interleave(left, right)
}

// DeinterleaveFromStereoFloat32 is the float32 equivalent of
// DeinterleaveFromStereo.
func DeinterleaveFromStereoFloat32(interleaved []float32) (left, right []float32) {
	return deinterleave(interleaved)
}
