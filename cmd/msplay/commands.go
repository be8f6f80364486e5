package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/preset"
)

// paramFlags maps command line flags and control words to parameter names.
var paramFlags = map[string]string{
	"low":    param.NameWidthLow,
	"mid":    param.NameWidthMid,
	"high":   param.NameWidthHigh,
	"freqlm": param.NameFreqLowMid,
	"freqmh": param.NameFreqMidHigh,
	"volume": param.NameVolume,
}

// applyCommand handles one control line and returns a status message.
//
//	low 0.5        set a parameter (flag names or persisted names)
//	preset mono    apply a built-in preset or preset file
//	reset          restore the defaults
//	show           print the current values
func applyCommand(set *param.Set, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch fields[0] {
	case "show":
		return formatValues(set.Load()), nil
	case "reset":
		set.Reset()
		return formatValues(set.Load()), nil
	case "preset":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: preset NAME")
		}
		p, err := preset.Resolve(fields[1])
		if err != nil {
			return "", err
		}
		if err := p.Apply(set); err != nil {
			return "", err
		}
		return formatValues(set.Load()), nil
	}

	if len(fields) != 2 {
		return "", fmt.Errorf("usage: PARAM VALUE")
	}
	name := fields[0]
	if mapped, ok := paramFlags[name]; ok {
		name = mapped
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", fmt.Errorf("invalid value %q: %w", fields[1], err)
	}
	if err := set.SetByName(name, v); err != nil {
		return "", err
	}
	got, _ := set.GetByName(name)
	return fmt.Sprintf("%s = %g", name, got), nil
}

func formatValues(v param.Values) string {
	return fmt.Sprintf("low %.2f, mid %.2f, high %.2f, crossovers %.0f/%.0f Hz, volume %+.1f dB",
		v.WidthLow, v.WidthMid, v.WidthHigh, v.FreqLowMid, v.FreqMidHigh, v.VolumeDB)
}

// readCommands applies control lines from r until it is exhausted.
func readCommands(r io.Reader, set *param.Set) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		msg, err := applyCommand(set, scanner.Text())
		if err != nil {
			log.Printf("error: %v", err)
			continue
		}
		if msg != "" {
			log.Println(msg)
		}
	}
}
