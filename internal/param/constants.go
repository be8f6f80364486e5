package param

// Persisted parameter names.
const (
	NameWidthLow    = "Low"
	NameFreqLowMid  = "FreqLM"
	NameWidthMid    = "Mid"
	NameFreqMidHigh = "FreqMH"
	NameWidthHigh   = "High"
	NameVolume      = "Volume"
)

// Band width range. 1 leaves the band untouched, 0 collapses it to mono and
// 2 doubles the side level.
const (
	WidthMin     = 0.0
	WidthMax     = 2.0
	WidthDefault = 1.0
	WidthStep    = 0.01
)

// Crossover frequency ranges in Hz. The low/mid corner tops out at A5, the
// mid/high corner spans A6 to A8.
const (
	FreqLowMidMin      = 80.0
	FreqLowMidMax      = 880.0
	FreqLowMidDefault  = 440.0
	FreqMidHighMin     = 1760.0
	FreqMidHighMax     = 7040.0
	FreqMidHighDefault = 3520.5
	FreqStep           = 1.0
	FreqSkew           = 0.4
)

// Output volume range in dB.
const (
	VolumeMin     = -18.0
	VolumeMax     = 18.0
	VolumeDefault = 0.0
	VolumeStep    = 0.1
)

// MinusInfinityDB is the level at and below which gain is treated as silence.
const MinusInfinityDB = -100.0

// Reference pitch used by NoteToFrequency.
const (
	ReferenceFrequency = 440.0
	SemitonesPerOctave = 12.0
)

// Mel scale constants (O'Shaughnessy).
const (
	melScale  = 2595.0
	melCorner = 700.0
)
