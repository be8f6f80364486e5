package engine

// Width law constants.
const (
	// midAttenuationDB is how far the mid component drops when a band is
	// pushed to the maximum width of 2.
	midAttenuationDB = -8.0

	// unityWidth leaves a band untouched.
	unityWidth = 1.0

	// midBoostFactor scales the mid boost applied as a band narrows:
	// width 0 gives 1.5x mid.
	midBoostFactor = 0.5

	// outputNormalisation undoes the factor 2 introduced by the unnormalised
	// mid/side encode/decode.
	outputNormalisation = 0.5
)

// Stereo layout.
const (
	stereoChannels = 2
	channelLeft    = 0
	channelRight   = 1
)
