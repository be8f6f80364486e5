package main

// Default command-line flag values
const (
	defaultSampleRate = 48000
	defaultSlope      = 2
)

// Test signal parameters
const (
	testSignalFrames = 48000 // one second at the default rate
	testLeftFreq     = 440.0
	testRightFreq    = 660.0
	testCommonFreq   = 110.0 // shared by both channels
	testAmplitude    = 0.3
)

// Demo sample rates
const (
	sampleRateCD    = 44100
	sampleRateDAT   = 48000
	sampleRateHiRes = 96000
)

// Demo channel configurations
const (
	monoChannels   = 1
	stereoChannels = 2
)
