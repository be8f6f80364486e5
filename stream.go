package widener

import (
	"github.com/tphakala/go-audio-widener/internal/pipeline"
)

// Stream feeds interleaved stereo float32 audio to a Processor in fixed
// BlockSize blocks, whatever sizes the caller writes. Parameter snapshots
// then land on the same frame boundaries no matter how the input was
// chunked.
//
// One goroutine may Write (and Flush) while another Reads. Reset must not
// race with either.
type Stream struct {
	proc  *Processor
	in    *pipeline.RingBuffer[float32]
	out   *pipeline.RingBuffer[float32]
	block []float32
}

// NewStream creates a stream around a new processor built from cfg.
func NewStream(cfg *Config) (*Stream, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	samples := p.cfg.BlockSize * stereoChannels
	return &Stream{
		proc:  p,
		in:    pipeline.NewRingBuffer[float32](samples),
		out:   pipeline.NewRingBuffer[float32](samples * streamQueueBlocks),
		block: make([]float32, samples),
	}, nil
}

// Processor returns the underlying processor.
func (s *Stream) Processor() *Processor {
	return s.proc
}

// Write queues interleaved samples and processes every complete block.
func (s *Stream) Write(interleaved []float32) {
	s.in.Write(interleaved)
	for s.in.Available() >= len(s.block) {
		s.in.Read(s.block)
		s.proc.ProcessInterleavedFloat32(s.block, stereoChannels)
		s.out.Write(s.block)
	}
}

// Flush processes whatever whole frames are still queued as a short block.
// An odd trailing sample stays queued.
func (s *Stream) Flush() {
	n := s.in.Available() &^ 1
	if n == 0 {
		return
	}
	short := s.block[:n]
	s.in.Read(short)
	s.proc.ProcessInterleavedFloat32(short, stereoChannels)
	s.out.Write(short)
}

// Read moves processed samples into dst and returns how many it moved.
func (s *Stream) Read(dst []float32) int {
	return s.out.Read(dst)
}

// Buffered returns the number of processed samples waiting to be read.
func (s *Stream) Buffered() int {
	return s.out.Available()
}

// Pending returns the number of input samples waiting for a full block.
func (s *Stream) Pending() int {
	return s.in.Available()
}

// Reset drops all queued audio and clears the filter history.
func (s *Stream) Reset() {
	s.in.Clear()
	s.out.Clear()
	s.proc.Reset()
}
