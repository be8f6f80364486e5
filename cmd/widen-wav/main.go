// Command widen-wav applies three-band stereo width to WAV files.
//
// Usage:
//
//	widen-wav -low 0 -high 1.5 input.wav output.wav
//	widen-wav -preset mono-bass -slope 4 input.wav output.wav
//	widen-wav -preset my.yaml -fast input.wav output.wav      # float32 filters
//	widen-wav -outdir wide/ -j 4 a.wav b.wav c.wav            # batch mode
//
// Parameter flags override the preset. Files that are not stereo are
// copied unchanged.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/preset"
)

const (
	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	minRequiredArgs = 2
	minBatchArgs    = 1
)

// paramFlags maps command line flags to persisted parameter names.
var paramFlags = map[string]string{
	"low":    param.NameWidthLow,
	"mid":    param.NameWidthMid,
	"high":   param.NameWidthHigh,
	"freqlm": param.NameFreqLowMid,
	"freqmh": param.NameFreqMidHigh,
	"volume": param.NameVolume,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Float64("low", param.WidthDefault, "Low band width (0 = mono, 1 = unchanged, 2 = double side)")
	flag.Float64("mid", param.WidthDefault, "Mid band width")
	flag.Float64("high", param.WidthDefault, "High band width")
	flag.Float64("freqlm", param.FreqLowMidDefault, "Low/mid crossover in Hz (80-880)")
	flag.Float64("freqmh", param.FreqMidHighDefault, "Mid/high crossover in Hz (1760-7040)")
	flag.Float64("volume", param.VolumeDefault, "Output volume in dB (-18 to 18)")
	presetRef := flag.String("preset", "default", "Built-in preset name or YAML preset file")
	savePreset := flag.String("save-preset", "", "Write the effective parameters to this YAML file")
	listPresets := flag.Bool("list-presets", false, "List built-in presets and exit")
	slope := flag.String("slope", "2", "Crossover slope: 2 (12 dB/oct) or 4 (24 dB/oct)")
	fast := flag.Bool("fast", false, "Use float32 filters (faster, sufficient for 16-bit audio)")
	block := flag.Int("block", 0, "Frames per parameter update (0 = library default)")
	smooth := flag.Bool("smooth", false, "Ramp gain changes across each block")
	outDir := flag.String("outdir", "", "Batch mode: write every input file into this directory")
	jobs := flag.Int("j", runtime.NumCPU(), "Batch mode: files processed concurrently")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	if *listPresets {
		for _, name := range preset.Names() {
			fmt.Println(name)
		}
		return nil
	}

	args := flag.Args()
	batch := *outDir != ""
	if (batch && len(args) < minBatchArgs) || (!batch && len(args) < minRequiredArgs) {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [options] -outdir DIR input.wav...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -low 0 mix.wav mix_monobass.wav     # Mono low end\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -high 1.6 -freqmh 5000 in.wav out.wav # Wider top end\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -preset mono in.wav out.wav          # Fold to mono\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	sl, err := parseSlope(*slope)
	if err != nil {
		return err
	}
	params, err := buildParams(*presetRef, explicitOverrides(flag.CommandLine))
	if err != nil {
		return err
	}
	if *savePreset != "" {
		name := strings.TrimSuffix(filepath.Base(*savePreset), filepath.Ext(*savePreset))
		if err := preset.Capture(name, params).Save(*savePreset); err != nil {
			return err
		}
	}

	opts := options{
		slope:     sl,
		fast:      *fast,
		blockSize: *block,
		smoothing: *smooth,
		params:    params,
		verbose:   *verbose,
	}

	if *verbose {
		v := params.Load()
		log.Printf("Preset: %s", *presetRef)
		log.Printf("Widths: low %.2f, mid %.2f, high %.2f", v.WidthLow, v.WidthMid, v.WidthHigh)
		log.Printf("Crossovers: %.0f Hz, %.1f Hz (%s)", v.FreqLowMid, v.FreqMidHigh, sl)
		log.Printf("Volume: %+.1f dB", v.VolumeDB)
		if *fast {
			log.Printf("Precision: float32 (fast mode)")
		} else {
			log.Printf("Precision: float64 (high precision)")
		}
	}

	var jobsList []job
	if batch {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, in := range args {
			jobsList = append(jobsList, job{input: in, output: outputPathFor(*outDir, in)})
		}
	} else {
		jobsList = []job{{input: args[0], output: args[1]}}
	}

	start := time.Now()
	results, err := runJobs(context.Background(), jobsList, opts, *jobs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, st := range results {
		printSummary(st)
	}
	if len(results) > 1 {
		var total float64
		for _, st := range results {
			total += st.seconds()
		}
		fmt.Printf("%d files, %.1fs of audio in %.2fs (%.1fx realtime)\n",
			len(results), total, elapsed.Seconds(), total/elapsed.Seconds())
	}
	return nil
}

func printSummary(st *widenStats) {
	fmt.Printf("Widened %s -> %s\n", filepath.Base(st.input), filepath.Base(st.output))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d frames (%.2fs)\n",
		st.sampleRate, st.channels, st.bitDepth, st.frames, st.seconds())
	if st.channels != stereoChannels {
		fmt.Printf("  not stereo, copied unchanged\n")
		return
	}
	fmt.Printf("  Correlation: %+.3f -> %+.3f, side/mid: %.3f -> %.3f\n",
		st.in.Correlation(), st.out.Correlation(), st.in.Width(), st.out.Width())
	fmt.Printf("  Peak: %.3f -> %.3f\n", st.in.Peak(), st.out.Peak())
	inL, inR := st.in.DC()
	outL, outR := st.out.DC()
	fmt.Printf("  DC: %+.5f/%+.5f -> %+.5f/%+.5f\n", inL, inR, outL, outR)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		st.elapsed.Seconds(), st.seconds()/st.elapsed.Seconds())
}
