// Package wavio reads and writes PCM WAV files as planar float blocks.
//
// Integer PCM samples are scaled to [-1, 1] on read and clamped back to the
// integer range on write. 16, 24 and 32-bit PCM are supported.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-audio-widener/internal/simdops"
)

var (
	// ErrInvalidFile is returned when the input is not a readable WAV file.
	ErrInvalidFile = errors.New("invalid WAV file")

	// ErrUnsupportedFormat is returned for bit depths or channel counts the
	// reader or writer cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

// Info describes a WAV stream.
type Info struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	TotalFrames int64 // 0 if unknown
}

// Reader decodes a WAV file block by block into planar buffers of type F.
type Reader[F simdops.Float] struct {
	Info

	file      *os.File
	decoder   *wav.Decoder
	intBuffer *audio.IntBuffer
	planes    [][]F
	views     [][]F
	invMaxVal float64
}

// Open opens path and validates its format. blockFrames sets how many frames
// each Read returns at most; values ≤ 0 select DefaultBlockFrames.
func Open[F simdops.Float](path string, blockFrames int) (*Reader[F], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	r, err := NewReader[F](f, blockFrames)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.file = f
	return r, nil
}

// NewReader wraps an already open stream. Close does not close rs unless it
// was opened by Open.
func NewReader[F simdops.Float](rs io.ReadSeeker, blockFrames int) (*Reader[F], error) {
	if blockFrames <= 0 {
		blockFrames = DefaultBlockFrames
	}

	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}

	format := decoder.Format()
	info := Info{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(decoder.BitDepth),
	}
	if err := validate(info); err != nil {
		return nil, err
	}
	if d, err := decoder.Duration(); err == nil {
		info.TotalFrames = int64(d.Seconds() * float64(info.SampleRate))
	}

	planes := make([][]F, info.Channels)
	for ch := range planes {
		planes[ch] = make([]F, blockFrames)
	}

	return &Reader[F]{
		Info:    info,
		decoder: decoder,
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, blockFrames*info.Channels),
			Format: format,
		},
		planes:    planes,
		views:     make([][]F, info.Channels),
		invMaxVal: 1 / MaxValue(info.BitDepth),
	}, nil
}

// Read decodes the next block. It returns planar views valid until the next
// call and the number of frames in them. At end of stream it returns 0 frames
// and io.EOF.
func (r *Reader[F]) Read() ([][]F, int, error) {
	r.intBuffer.Data = r.intBuffer.Data[:cap(r.intBuffer.Data)]
	n, err := r.decoder.PCMBuffer(r.intBuffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("failed to read audio data: %w", err)
	}
	frames := n / r.Channels
	if frames == 0 {
		return nil, 0, io.EOF
	}

	Deinterleave(r.intBuffer.Data[:frames*r.Channels], r.planes, frames, r.invMaxVal)

	for ch := range r.views {
		r.views[ch] = r.planes[ch][:frames]
	}
	return r.views, frames, nil
}

// Close closes the underlying file if Open created it.
func (r *Reader[F]) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Writer encodes planar float blocks to a WAV file.
type Writer[F simdops.Float] struct {
	Info

	file      *os.File
	encoder   *wav.Encoder
	intBuffer *audio.IntBuffer
	maxVal    float64
}

// Create creates path and prepares a PCM encoder.
func Create[F simdops.Float](path string, sampleRate, bitDepth, channels int) (*Writer[F], error) {
	info := Info{SampleRate: sampleRate, Channels: channels, BitDepth: bitDepth}
	if err := validate(info); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer[F]{
		Info:    info,
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormat),
		intBuffer: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		maxVal: MaxValue(bitDepth),
	}, nil
}

// Write encodes frames from planes. Samples outside [-1, 1] are clamped.
func (w *Writer[F]) Write(planes [][]F, frames int) error {
	if len(planes) != w.Channels {
		return fmt.Errorf("%w: got %d channels, writer has %d", ErrUnsupportedFormat, len(planes), w.Channels)
	}
	need := frames * w.Channels
	if cap(w.intBuffer.Data) < need {
		w.intBuffer.Data = make([]int, need)
	}
	w.intBuffer.Data = w.intBuffer.Data[:need]

	Interleave(planes, frames, w.intBuffer.Data, w.maxVal)
	if err := w.encoder.Write(w.intBuffer); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	w.TotalFrames += int64(frames)
	return nil
}

// Close finalises the WAV header and closes the file.
func (w *Writer[F]) Close() error {
	encErr := w.encoder.Close()
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("failed to finalise WAV header: %w", encErr)
	}
	return fileErr
}

func validate(info Info) error {
	switch info.BitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		return fmt.Errorf("%w: %d-bit", ErrUnsupportedFormat, info.BitDepth)
	}
	if info.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, info.Channels)
	}
	if info.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, info.SampleRate)
	}
	return nil
}
