package wavio

// DefaultBlockFrames is the number of frames decoded per Read unless the
// caller asks otherwise.
const DefaultBlockFrames = 65536

const (
	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// WAVE_FORMAT_PCM
	pcmFormat = 1

	stereoChannels = 2
)
