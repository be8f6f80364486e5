package preset

import "github.com/tphakala/go-audio-widener/internal/param"

var builtins = map[string]map[string]float64{
	"default": {
		param.NameWidthLow:    param.WidthDefault,
		param.NameFreqLowMid:  param.FreqLowMidDefault,
		param.NameWidthMid:    param.WidthDefault,
		param.NameFreqMidHigh: param.FreqMidHighDefault,
		param.NameWidthHigh:   param.WidthDefault,
		param.NameVolume:      param.VolumeDefault,
	},
	// Mono below 150 Hz, untouched above.
	"mono-bass": {
		param.NameWidthLow:   0,
		param.NameFreqLowMid: 150,
		param.NameWidthMid:   1,
		param.NameWidthHigh:  1,
	},
	"wide-top": {
		param.NameWidthLow:    1,
		param.NameWidthMid:    1.2,
		param.NameFreqMidHigh: 5000,
		param.NameWidthHigh:   1.6,
	},
	"mono": {
		param.NameWidthLow:  0,
		param.NameWidthMid:  0,
		param.NameWidthHigh: 0,
	},
}
