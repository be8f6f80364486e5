package widener

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-widener/internal/engine"
	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/simdops"
	"github.com/tphakala/go-audio-widener/internal/wavio"
	"github.com/tphakala/simd/cpu"
)

// Common errors returned by the widener.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid widener configuration")

	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = engine.ErrInvalidSampleRate

	// ErrUnknownParameter indicates a parameter name outside the six known ones.
	ErrUnknownParameter = param.ErrUnknownParameter

	// ErrUnsupportedFormat indicates a WAV file the file helpers cannot handle.
	ErrUnsupportedFormat = wavio.ErrUnsupportedFormat
)

// Slope selects the crossover family used to split the bands.
type Slope = engine.Slope

const (
	// SlopeLR2 uses 12 dB/oct Linkwitz-Riley crossovers.
	SlopeLR2 = engine.SlopeLR2

	// SlopeLR4 uses 24 dB/oct Linkwitz-Riley crossovers.
	SlopeLR4 = engine.SlopeLR4
)

// Precision selects the sample type used inside the filters.
type Precision int

const (
	// PrecisionFloat64 keeps filter state in float64.
	PrecisionFloat64 Precision = iota

	// PrecisionFloat32 keeps filter state in float32. Faster, and accurate
	// enough for playback; LR4 corners near the bottom of the range lose a
	// little flatness.
	PrecisionFloat32
)

// String returns the sample type name.
func (p Precision) String() string {
	switch p {
	case PrecisionFloat64:
		return "float64"
	case PrecisionFloat32:
		return "float32"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// Params is a snapshot of the six widener parameters in plain units.
type Params = param.Values

// ParamSet is a lock-free parameter store shared between a control thread
// and the audio path.
type ParamSet = param.Set

// ParamID identifies one parameter.
type ParamID = param.ID

// Parameter identifiers.
const (
	ParamWidthLow    = param.WidthLow
	ParamFreqLowMid  = param.FreqLowMid
	ParamWidthMid    = param.WidthMid
	ParamFreqMidHigh = param.FreqMidHigh
	ParamWidthHigh   = param.WidthHigh
	ParamVolume      = param.Volume
)

// NewParamSet returns a parameter set holding the defaults.
func NewParamSet() *ParamSet {
	return param.NewSet()
}

// DefaultParams returns the default parameter snapshot.
func DefaultParams() Params {
	return param.Defaults()
}

// Config holds widener configuration.
type Config struct {
	// SampleRate is the stream sample rate in Hz.
	SampleRate int

	// Slope selects 12 or 24 dB/oct band splitting. Zero means SlopeLR2.
	Slope Slope

	// Precision selects the filter sample type. Buffers of the other type
	// are converted block by block.
	Precision Precision

	// Smoothing ramps width and volume changes linearly across each block
	// instead of switching at block boundaries.
	Smoothing bool

	// BlockSize is the number of frames processed per parameter snapshot.
	// Set to 0 to use DefaultBlockSize.
	BlockSize int

	// Params is the parameter store the processor reads from. A nil value
	// gets a fresh set holding the defaults.
	Params *ParamSet
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}
	if c.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate above %d Hz", ErrInvalidConfig, maxSampleRate)
	}
	if !c.Slope.Valid() {
		return fmt.Errorf("%w: unknown slope %d", ErrInvalidConfig, int(c.Slope))
	}
	if c.Precision != PrecisionFloat64 && c.Precision != PrecisionFloat32 {
		return fmt.Errorf("%w: unknown precision %d", ErrInvalidConfig, int(c.Precision))
	}
	if c.BlockSize < 0 || c.BlockSize > maxBlockSize {
		return fmt.Errorf("%w: block size must be 0-%d frames", ErrInvalidConfig, maxBlockSize)
	}
	return nil
}

// Processor applies three-band stereo width to audio buffers in place.
//
// A Processor is not safe for concurrent processing calls. Its ParamSet may
// be written from any goroutine while processing runs.
type Processor struct {
	cfg    Config
	params *ParamSet

	eng64 *engine.Engine[float64]
	eng32 *engine.Engine[float32]

	// conversion scratch, one plane per channel
	scratch64 [stereoChannels][]float64
	scratch32 [stereoChannels][]float32
}

// New creates a processor prepared for cfg.SampleRate.
func New(cfg *Config) (*Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Params == nil {
		c.Params = param.NewSet()
	}

	p := &Processor{cfg: c, params: c.Params}

	var err error
	switch c.Precision {
	case PrecisionFloat32:
		p.eng32, err = newEngine[float32](c)
	default:
		p.eng64, err = newEngine[float64](c)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newEngine[F simdops.Float](c Config) (*engine.Engine[F], error) {
	e, err := engine.New[F](c.Params, c.Slope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	e.SetSmoothing(c.Smoothing)
	if err := e.Prepare(c.SampleRate); err != nil {
		return nil, err
	}
	return e, nil
}

// Params returns the parameter store read at each block.
func (p *Processor) Params() *ParamSet {
	return p.params
}

// Config returns the effective configuration, with defaults filled in.
func (p *Processor) Config() Config {
	return p.cfg
}

// SampleRate returns the prepared sample rate.
func (p *Processor) SampleRate() int {
	return p.cfg.SampleRate
}

// Prepare reinitialises the filters for a new sample rate and clears all
// history.
func (p *Processor) Prepare(sampleRate int) error {
	var err error
	if p.eng32 != nil {
		err = p.eng32.Prepare(sampleRate)
	} else {
		err = p.eng64.Prepare(sampleRate)
	}
	if err != nil {
		return err
	}
	p.cfg.SampleRate = sampleRate
	return nil
}

// Reset clears filter history, keeping the sample rate and parameters.
func (p *Processor) Reset() {
	if p.eng32 != nil {
		p.eng32.Reset()
		return
	}
	p.eng64.Reset()
}

// LastParams returns the parameter snapshot used by the most recent block.
func (p *Processor) LastParams() (Params, bool) {
	if p.eng32 != nil {
		return p.eng32.LastParams()
	}
	return p.eng64.LastParams()
}

// ProcessInterleaved processes interleaved float64 samples in place.
// Only stereo (channels == 2) is altered; other layouts pass through.
func (p *Processor) ProcessInterleaved(buf []float64, channels int) {
	if channels != stereoChannels {
		return
	}
	if p.eng64 != nil {
		runInterleaved(p.eng64, buf, p.cfg.BlockSize, nil)
		return
	}
	p.scratch32[0] = runInterleaved(p.eng32, buf, p.cfg.BlockSize, p.scratch32[0])
}

// ProcessInterleavedFloat32 is like ProcessInterleaved for float32 samples.
func (p *Processor) ProcessInterleavedFloat32(buf []float32, channels int) {
	if channels != stereoChannels {
		return
	}
	if p.eng32 != nil {
		runInterleaved(p.eng32, buf, p.cfg.BlockSize, nil)
		return
	}
	p.scratch64[0] = runInterleaved(p.eng64, buf, p.cfg.BlockSize, p.scratch64[0])
}

// ProcessPlanar processes one float64 slice per channel in place.
// Only two-channel input is altered.
func (p *Processor) ProcessPlanar(chans [][]float64) {
	if len(chans) != stereoChannels {
		return
	}
	if p.eng64 != nil {
		runPlanar(p.eng64, chans, p.cfg.BlockSize, nil)
		return
	}
	p.scratch32 = runPlanar(p.eng32, chans, p.cfg.BlockSize, &p.scratch32)
}

// ProcessPlanarFloat32 is like ProcessPlanar for float32 samples.
func (p *Processor) ProcessPlanarFloat32(chans [][]float32) {
	if len(chans) != stereoChannels {
		return
	}
	if p.eng32 != nil {
		runPlanar(p.eng32, chans, p.cfg.BlockSize, nil)
		return
	}
	p.scratch64 = runPlanar(p.eng64, chans, p.cfg.BlockSize, &p.scratch64)
}

// runInterleaved feeds buf to eng in blocks of at most blockFrames frames.
// When F differs from the engine type each block is converted through
// scratch, which is grown as needed and returned.
func runInterleaved[F, G simdops.Float](eng *engine.Engine[G], buf []F, blockFrames int, scratch []G) []G {
	step := blockFrames * stereoChannels
	for start := 0; start < len(buf); start += step {
		chunk := buf[start:min(start+step, len(buf))]
		if native, ok := any(chunk).([]G); ok {
			eng.ProcessInterleaved(native, stereoChannels)
			continue
		}
		scratch = convert(scratch, chunk)
		eng.ProcessInterleaved(scratch, stereoChannels)
		// An odd trailing sample is not processed; leave the caller's value.
		for i, v := range scratch[:len(chunk)&^1] {
			chunk[i] = F(v)
		}
	}
	return scratch
}

// runPlanar is the planar counterpart of runInterleaved. A nil scratch means
// F and G are the same type.
func runPlanar[F, G simdops.Float](eng *engine.Engine[G], chans [][]F, blockFrames int, scratch *[stereoChannels][]G) [stereoChannels][]G {
	left, right := chans[0], chans[1]
	frames := min(len(left), len(right))

	var planes [stereoChannels][]G
	if scratch != nil {
		planes = *scratch
	}
	var view [stereoChannels][]G
	for start := 0; start < frames; start += blockFrames {
		end := min(start+blockFrames, frames)
		l, r := left[start:end], right[start:end]

		nl, okL := any(l).([]G)
		nr, okR := any(r).([]G)
		if okL && okR {
			view[0], view[1] = nl, nr
			eng.ProcessPlanar(view[:])
			continue
		}

		planes[0] = convert(planes[0], l)
		planes[1] = convert(planes[1], r)
		view[0], view[1] = planes[0], planes[1]
		eng.ProcessPlanar(view[:])
		for i := range l {
			l[i] = F(planes[0][i])
			r[i] = F(planes[1][i])
		}
	}
	return planes
}

// convert copies src into dst, reusing dst's storage when it is big enough.
func convert[F, G simdops.Float](dst []G, src []F) []G {
	if cap(dst) < len(src) {
		dst = make([]G, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = G(v)
	}
	return dst
}

// Info describes a processor's configuration and runtime.
type Info struct {
	// SampleRate is the prepared sample rate in Hz.
	SampleRate int

	// Slope is the crossover family.
	Slope Slope

	// Precision is the filter sample type.
	Precision Precision

	// BlockSize is the number of frames per parameter snapshot.
	BlockSize int

	// Smoothing reports whether gain ramps are enabled.
	Smoothing bool

	// Latency is the processing latency in frames. The filters are
	// recursive with no lookahead, so this is always 0.
	Latency int

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// Info returns information about p.
func (p *Processor) Info() Info {
	return Info{
		SampleRate: p.cfg.SampleRate,
		Slope:      p.cfg.Slope,
		Precision:  p.cfg.Precision,
		BlockSize:  p.cfg.BlockSize,
		Smoothing:  p.cfg.Smoothing,
		SIMDType:   cpu.Info(),
	}
}
