package analysis

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Convolver applies a fixed FIR kernel (typically a measured impulse
// response) with FFT overlap-save. It is used to predict the output of a
// linear system from its impulse response.
type Convolver struct {
	fft       *fourier.FFT
	fftSize   int
	blockSize int
	kernelLen int
	scale     float64 // 1/fftSize, gonum's inverse transform does not normalise

	kernelFFT   []complex128
	signalBlock []float64
	signalFFT   []complex128
	productFFT  []complex128
	ifftResult  []float64
}

// NewConvolver prepares a convolver for kernel. It returns nil for an empty kernel.
func NewConvolver(kernel []float64) *Convolver {
	kernelLen := len(kernel)
	if kernelLen == 0 {
		return nil
	}

	fftSize := minFFTSize
	for fftSize < 2*kernelLen {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)
	padded := make([]float64, fftSize)
	copy(padded, kernel)
	kernelFFT := fft.Coefficients(nil, padded)

	bins := fftSize/2 + 1
	return &Convolver{
		fft:         fft,
		fftSize:     fftSize,
		blockSize:   fftSize - kernelLen + 1,
		kernelLen:   kernelLen,
		scale:       1.0 / float64(fftSize),
		kernelFFT:   kernelFFT,
		signalBlock: make([]float64, fftSize),
		signalFFT:   make([]complex128, bins),
		productFFT:  make([]complex128, bins),
		ifftResult:  make([]float64, fftSize),
	}
}

// KernelLen returns the kernel length.
func (c *Convolver) KernelLen() int {
	return c.kernelLen
}

// Filter writes the causal convolution of signal with the kernel to dst:
//
//	dst[n] = Σ kernel[k]·signal[n-k], 0 ≤ n < len(signal)
//
// Samples before the start of signal are taken as zero. dst must be at least
// as long as signal.
func (c *Convolver) Filter(dst, signal []float64) {
	n := len(signal)
	if len(dst) < n {
		return
	}
	overlap := c.kernelLen - 1

	for out := 0; out < n; out += c.blockSize {
		// Block covers signal[out-overlap : out-overlap+fftSize].
		clear(c.signalBlock)
		start := out - overlap
		for i := range c.fftSize {
			j := start + i
			if j < 0 {
				continue
			}
			if j >= n {
				break
			}
			c.signalBlock[i] = signal[j]
		}

		c.signalFFT = c.fft.Coefficients(c.signalFFT, c.signalBlock)
		c128.Mul(c.productFFT, c.signalFFT, c.kernelFFT)
		c.ifftResult = c.fft.Sequence(c.ifftResult, c.productFFT)
		f64.Scale(c.ifftResult, c.ifftResult, c.scale)

		valid := min(c.blockSize, n-out)
		copy(dst[out:out+valid], c.ifftResult[overlap:overlap+valid])
	}
}
