package engine

import (
	"fmt"

	"github.com/tphakala/go-audio-widener/internal/filter"
	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// Slope selects the crossover family used by a Splitter.
type Slope int

const (
	// SlopeLR2 uses 12 dB/oct Linkwitz-Riley crossovers with a first-order
	// all-pass compensating the low band.
	SlopeLR2 Slope = iota

	// SlopeLR4 uses 24 dB/oct Linkwitz-Riley crossovers with a second-order
	// all-pass (Q = 1/√2) compensating the low band.
	SlopeLR4
)

// String returns the slope name.
func (s Slope) String() string {
	switch s {
	case SlopeLR2:
		return "LR2"
	case SlopeLR4:
		return "LR4"
	default:
		return fmt.Sprintf("Slope(%d)", int(s))
	}
}

// Valid reports whether s names a known slope.
func (s Slope) Valid() bool {
	return s == SlopeLR2 || s == SlopeLR4
}

// Splitter divides one channel into low, mid and high bands.
//
// The input first goes through the low/mid crossover. Its high output is
// split again at the mid/high corner. The low band skipped that second
// crossover, so it runs through an all-pass tuned to the mid/high corner
// instead; this gives all three bands the same phase and their plain sum
// has a flat magnitude response.
type Splitter[F simdops.Float] struct {
	slope      Slope
	lowMid     filter.Crossover[F]
	midHigh    filter.Crossover[F]
	compensate filter.PhaseShifter[F]
}

// NewSplitter creates an unprepared splitter. Unknown slopes fall back to LR2.
func NewSplitter[F simdops.Float](slope Slope) *Splitter[F] {
	s := &Splitter[F]{slope: slope}
	switch slope {
	case SlopeLR4:
		s.lowMid = &filter.LR4[F]{}
		s.midHigh = &filter.LR4[F]{}
		s.compensate = &filter.AllPass2[F]{}
	default:
		s.slope = SlopeLR2
		s.lowMid = &filter.LR2[F]{}
		s.midHigh = &filter.LR2[F]{}
		s.compensate = &filter.AllPass[F]{}
	}
	return s
}

// Slope returns the crossover family in use.
func (s *Splitter[F]) Slope() Slope {
	return s.slope
}

// Init prepares every stage for sampleRate and clears their history.
func (s *Splitter[F]) Init(sampleRate int) {
	s.lowMid.Init(sampleRate)
	s.midHigh.Init(sampleRate)
	s.compensate.Init(sampleRate)
}

// SetFrequencies retunes the crossovers. The compensator follows the
// mid/high corner.
func (s *Splitter[F]) SetFrequencies(lowMid, midHigh float64) {
	s.lowMid.SetFrequency(lowMid)
	s.midHigh.SetFrequency(midHigh)
	s.compensate.SetFrequency(midHigh)
}

// Process splits one sample.
func (s *Splitter[F]) Process(in F) (low, mid, high F) {
	low = s.lowMid.ProcessLP(in)
	rest := s.lowMid.ProcessHP(in)

	mid = s.midHigh.ProcessLP(rest)
	high = s.midHigh.ProcessHP(rest)

	low = s.compensate.Process(low)
	return low, mid, high
}

// Reset clears the history of every stage.
func (s *Splitter[F]) Reset() {
	s.lowMid.Reset()
	s.midHigh.Reset()
	s.compensate.Reset()
}
