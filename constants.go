package widener

// Common sample rates.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000
)

// DefaultBlockSize is the number of frames processed per parameter snapshot
// unless Config.BlockSize says otherwise.
const DefaultBlockSize = 512

const (
	stereoChannels = 2

	maxSampleRate = 768000
	maxBlockSize  = 1 << 16

	// initial output queue of a Stream, in blocks
	streamQueueBlocks = 4
)
