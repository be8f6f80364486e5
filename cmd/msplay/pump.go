package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	widener "github.com/tphakala/go-audio-widener"
	"github.com/tphakala/go-audio-widener/internal/simdops"
	"github.com/tphakala/go-audio-widener/internal/wavio"
)

const (
	bytesPerSample = 2
	int16Max       = 32767
	stereoChannels = 2
)

// pump moves audio from a WAV reader through a widener stream and hands it
// out as 16-bit little-endian PCM. Feed runs on one goroutine and Read on
// another.
type pump struct {
	ctx       context.Context
	stream    *widener.Stream
	highWater int // processed samples queued before Feed waits

	produced chan struct{}
	consumed chan struct{}
	finished atomic.Bool

	interleaved []float32
	samples     []float32
}

func newPump(ctx context.Context, stream *widener.Stream, highWater int) *pump {
	return &pump{
		ctx:       ctx,
		stream:    stream,
		highWater: max(highWater, 1),
		produced:  make(chan struct{}, 1),
		consumed:  make(chan struct{}, 1),
	}
}

// notify wakes the other side without blocking.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Feed decodes src until EOF, writing into the stream. It waits while the
// stream holds highWater processed samples or more.
func (p *pump) Feed(src *wavio.Reader[float32]) error {
	defer func() {
		p.finished.Store(true)
		notify(p.produced)
	}()

	if src.Channels != stereoChannels {
		return fmt.Errorf("%w: %d channels, need stereo", wavio.ErrUnsupportedFormat, src.Channels)
	}
	ops := simdops.For[float32]()

	for {
		planes, n, err := src.Read()
		if errors.Is(err, io.EOF) {
			p.stream.Flush()
			return nil
		}
		if err != nil {
			return err
		}

		if cap(p.interleaved) < n*stereoChannels {
			p.interleaved = make([]float32, n*stereoChannels)
		}
		block := p.interleaved[:n*stereoChannels]
		ops.Interleave2(block, planes[0][:n], planes[1][:n])

		for p.stream.Buffered() >= p.highWater {
			select {
			case <-p.ctx.Done():
				return p.ctx.Err()
			case <-p.consumed:
			}
		}
		p.stream.Write(block)
		notify(p.produced)
	}
}

// Read implements io.Reader for the audio player. It blocks until processed
// audio is available and returns io.EOF once Feed has finished and the
// stream is drained, or the context is cancelled.
func (p *pump) Read(buf []byte) (int, error) {
	want := len(buf) / bytesPerSample
	if want == 0 {
		return 0, nil
	}
	if cap(p.samples) < want {
		p.samples = make([]float32, want)
	}
	samples := p.samples[:want]

	for {
		if n := p.stream.Read(samples); n > 0 {
			encodeInt16(buf, samples[:n])
			notify(p.consumed)
			return n * bytesPerSample, nil
		}
		if p.finished.Load() && p.stream.Buffered() == 0 {
			return 0, io.EOF
		}
		select {
		case <-p.ctx.Done():
			return 0, io.EOF
		case <-p.produced:
		}
	}
}

// encodeInt16 writes samples to buf as clamped 16-bit little-endian PCM.
func encodeInt16(buf []byte, samples []float32) {
	for i, v := range samples {
		s := int16(math.Round(math.Max(-1, math.Min(1, float64(v))) * int16Max))
		binary.LittleEndian.PutUint16(buf[bytesPerSample*i:], uint16(s))
	}
}
