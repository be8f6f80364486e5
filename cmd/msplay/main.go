// Command msplay plays a stereo WAV file through the widener.
//
// Parameters can be changed while playing by typing lines on stdin:
//
//	low 0        mono bass
//	high 1.8     wider top
//	preset mono  apply a preset
//	show         print the current values
//
// Usage:
//
//	msplay -preset wide-top -slope 4 song.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/oto"
	widener "github.com/tphakala/go-audio-widener"
	"github.com/tphakala/go-audio-widener/internal/param"
	"github.com/tphakala/go-audio-widener/internal/preset"
	"github.com/tphakala/go-audio-widener/internal/wavio"
	"golang.org/x/sync/errgroup"
)

const (
	bufferSizeInBytes = 8192
	queueBlocks       = 8 // processed blocks held ahead of the player
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Float64("low", param.WidthDefault, "Initial low band width")
	flag.Float64("mid", param.WidthDefault, "Initial mid band width")
	flag.Float64("high", param.WidthDefault, "Initial high band width")
	flag.Float64("freqlm", param.FreqLowMidDefault, "Initial low/mid crossover in Hz")
	flag.Float64("freqmh", param.FreqMidHighDefault, "Initial mid/high crossover in Hz")
	flag.Float64("volume", param.VolumeDefault, "Initial output volume in dB")
	presetRef := flag.String("preset", "default", "Built-in preset name or YAML preset file")
	slopeFlag := flag.Int("slope", 2, "Crossover slope: 2 or 4")
	block := flag.Int("block", 0, "Frames per parameter update (0 = library default)")
	smooth := flag.Bool("smooth", true, "Ramp gain changes across each block")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	slope := widener.SlopeLR2
	if *slopeFlag == 4 {
		slope = widener.SlopeLR4
	}

	params := param.NewSet()
	p, err := preset.Resolve(*presetRef)
	if err != nil {
		return err
	}
	if err := p.Apply(params); err != nil {
		return err
	}
	var applyErr error
	flag.Visit(func(f *flag.Flag) {
		if _, ok := paramFlags[f.Name]; ok && applyErr == nil {
			_, applyErr = applyCommand(params, f.Name+" "+f.Value.String())
		}
	})
	if applyErr != nil {
		return applyErr
	}

	src, err := wavio.Open[float32](flag.Arg(0), wavio.DefaultBlockFrames)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	stream, err := widener.NewStream(&widener.Config{
		SampleRate: src.SampleRate,
		Slope:      slope,
		Precision:  widener.PrecisionFloat32,
		Smoothing:  *smooth,
		BlockSize:  *block,
		Params:     params,
	})
	if err != nil {
		return err
	}
	blockSize := stream.Processor().Config().BlockSize

	ctx, cancel := context.WithCancel(context.Background())
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		select {
		case sig := <-signalCh:
			log.Printf("Caught signal %s: shutting down...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	otoContext, err := oto.NewContext(src.SampleRate, stereoChannels, bytesPerSample, bufferSizeInBytes)
	if err != nil {
		return err
	}
	defer func() { _ = otoContext.Close() }()

	log.Printf("Playing %s: %d Hz, %d-bit, %s", flag.Arg(0), src.SampleRate, src.BitDepth, slope)
	log.Println(formatValues(params.Load()))

	// stdin cannot be interrupted; this goroutine ends with the process.
	go readCommands(os.Stdin, params)

	g, ctx := errgroup.WithContext(ctx)
	pp := newPump(ctx, stream, blockSize*stereoChannels*queueBlocks)
	g.Go(func() error {
		return pp.Feed(src)
	})
	g.Go(func() error {
		return play(otoContext, pp)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// play copies r to a new player until r returns io.EOF.
func play(c *oto.Context, r io.Reader) error {
	player := c.NewPlayer()
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()

	if _, err := io.CopyBuffer(player, r, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	return nil
}
