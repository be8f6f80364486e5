package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"time"

	widener "github.com/tphakala/go-audio-widener"
	"github.com/tphakala/go-audio-widener/internal/analysis"
	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/preset"
	"github.com/tphakala/go-audio-widener/internal/simdops"
	"github.com/tphakala/go-audio-widener/internal/wavio"
	"golang.org/x/sync/errgroup"
)

const stereoChannels = 2

// options are the processing settings shared by every file.
type options struct {
	slope     widener.Slope
	fast      bool
	blockSize int
	smoothing bool
	params    *widener.ParamSet
	verbose   bool
}

// job is one input/output file pair.
type job struct {
	input  string
	output string
}

// widenStats summarises one processed file.
type widenStats struct {
	input, output string
	sampleRate    int
	channels      int
	bitDepth      int
	frames        int64
	elapsed       time.Duration

	// stereo meters before and after processing
	in, out analysis.StereoMeter
}

func (s *widenStats) seconds() float64 {
	if s.sampleRate == 0 {
		return 0
	}
	return float64(s.frames) / float64(s.sampleRate)
}

// parseSlope accepts "2"/"4" or "lr2"/"lr4".
func parseSlope(s string) (widener.Slope, error) {
	switch s {
	case "2", "lr2", "LR2":
		return widener.SlopeLR2, nil
	case "4", "lr4", "LR4":
		return widener.SlopeLR4, nil
	default:
		return 0, fmt.Errorf("unknown slope %q (want 2 or 4)", s)
	}
}

// explicitOverrides returns the parameter flags the user actually set, keyed
// by persisted parameter name.
func explicitOverrides(fs *flag.FlagSet) map[string]float64 {
	out := make(map[string]float64)
	fs.Visit(func(f *flag.Flag) {
		name, ok := paramFlags[f.Name]
		if !ok {
			return
		}
		if v, err := strconv.ParseFloat(f.Value.String(), 64); err == nil {
			out[name] = v
		}
	})
	return out
}

// buildParams starts from the defaults, applies the preset and then the
// explicit overrides.
func buildParams(presetRef string, overrides map[string]float64) (*widener.ParamSet, error) {
	set := param.NewSet()
	if presetRef != "" {
		p, err := preset.Resolve(presetRef)
		if err != nil {
			return nil, err
		}
		if err := p.Apply(set); err != nil {
			return nil, err
		}
	}
	if len(overrides) > 0 {
		if err := (&preset.Preset{Name: "flags", Params: overrides}).Apply(set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// outputPathFor places input's base name in dir.
func outputPathFor(dir, input string) string {
	return filepath.Join(dir, filepath.Base(input))
}

// runJobs processes every job, at most limit at a time. Results keep the
// order of jobs.
func runJobs(ctx context.Context, jobs []job, opts options, limit int) ([]*widenStats, error) {
	results := make([]*widenStats, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st, err := widenFile(j, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", j.input, err)
			}
			results[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// widenFile dispatches on the requested precision.
func widenFile(j job, opts options) (*widenStats, error) {
	if opts.fast {
		return widenFileGeneric[float32](j, opts)
	}
	return widenFileGeneric[float64](j, opts)
}

func widenFileGeneric[F simdops.Float](j job, opts options) (stats *widenStats, err error) {
	start := time.Now()

	// 1. Open and validate input
	input, err := wavio.Open[F](j.input, wavio.DefaultBlockFrames)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if opts.verbose {
		log.Printf("%s: %d Hz, %d channels, %d-bit", j.input, input.SampleRate, input.Channels, input.BitDepth)
	}

	// 2. Create processor
	precision := widener.PrecisionFloat64
	if opts.fast {
		precision = widener.PrecisionFloat32
	}
	proc, err := widener.New(&widener.Config{
		SampleRate: input.SampleRate,
		Slope:      opts.slope,
		Precision:  precision,
		Smoothing:  opts.smoothing,
		BlockSize:  opts.blockSize,
		Params:     opts.params,
	})
	if err != nil {
		return nil, err
	}
	process := planarProcessor[F](proc)

	// 3. Create output writer
	output, err := wavio.Create[F](j.output, input.SampleRate, input.BitDepth, input.Channels)
	if err != nil {
		return nil, err
	}
	// Capture close errors on the success path; the header is written on close.
	defer func() {
		if closeErr := output.Close(); err == nil && closeErr != nil {
			stats, err = nil, closeErr
		}
	}()

	stats = &widenStats{
		input:      j.input,
		output:     j.output,
		sampleRate: input.SampleRate,
		channels:   input.Channels,
		bitDepth:   input.BitDepth,
	}
	stereo := input.Channels == stereoChannels
	progress := newProgressTracker(j.input, input.TotalFrames, opts.verbose)

	// 4. Main processing loop
	for {
		planes, n, err := input.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if stereo {
			analysis.AddPlanar(&stats.in, planes[0], planes[1])
			process(planes)
			analysis.AddPlanar(&stats.out, planes[0], planes[1])
		}

		if err := output.Write(planes, n); err != nil {
			return nil, err
		}
		stats.frames += int64(n)
		progress.reportIfNeeded(stats.frames)
	}

	stats.elapsed = time.Since(start)
	return stats, nil
}

// planarProcessor picks the processor method matching F.
func planarProcessor[F simdops.Float](p *widener.Processor) func([][]F) {
	var fn any = p.ProcessPlanar
	var zero F
	if _, ok := any(zero).(float32); ok {
		fn = p.ProcessPlanarFloat32
	}
	return fn.(func([][]F))
}

// progressTracker handles progress reporting.
type progressTracker struct {
	name         string
	totalFrames  int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(name string, totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		name:        name,
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("%s: %d%%", p.name, progress)
		p.lastProgress = progress
	}
}
