package param

import "math"

// DecibelsToGain converts decibels to a linear gain. Levels at or below
// MinusInfinityDB give 0.
func DecibelsToGain(db float64) float64 {
	if db <= MinusInfinityDB {
		return 0
	}
	return math.Pow(10, db/20)
}

// GainToDecibels converts a linear gain to decibels, floored at MinusInfinityDB.
func GainToDecibels(gain float64) float64 {
	if gain <= 0 {
		return MinusInfinityDB
	}
	return math.Max(MinusInfinityDB, 20*math.Log10(gain))
}

// FrequencyToMel converts Hz to mel.
func FrequencyToMel(freq float64) float64 {
	return melScale * math.Log10(1+freq/melCorner)
}

// MelToFrequency converts mel to Hz.
func MelToFrequency(mel float64) float64 {
	return melCorner * (math.Pow(10, mel/melScale) - 1)
}

// NoteToFrequency returns the frequency of a note n semitones away from A4.
func NoteToFrequency(n float64) float64 {
	return ReferenceFrequency * math.Pow(2, n/SemitonesPerOctave)
}
