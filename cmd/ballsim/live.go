package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/audio"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/gui"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/viz"
)

const liveLogFile = "ballsim.log"

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, variantArg(args))
	if err != nil {
		return err
	}
	switch cfg.Dims() {
	case 2:
		return live[mgl64.Vec2](cfg)
	default:
		return live[mgl64.Vec3](cfg)
	}
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, variantArg(args))
	if err != nil {
		return err
	}
	switch cfg.Dims() {
	case 2:
		return window[mgl64.Vec2](cfg)
	default:
		return window[mgl64.Vec3](cfg)
	}
}

func live[V dynamo.Vector[V]](cfg *config.Config) error {
	s, err := experiment.BuildWithMetrics[V](cfg, cfg.Seed)
	if err != nil {
		return err
	}
	stopSound := attachSound(s)
	defer stopSound()

	clock := liveClock(cfg)
	if plain {
		return runPlain(s, clock, cfg.FPS)
	}

	// The full-screen view owns the terminal; keep logs out of it.
	f, err := os.OpenFile(liveLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(f)
		defer func() {
			log.SetOutput(os.Stderr)
			f.Close()
		}()
	}

	return viz.Run(s, viz.Options{
		Title:   cfg.Variant,
		FPS:     cfg.FPS,
		Clock:   clock,
		Theme:   theme,
		GIFPath: fmt.Sprintf("%s.gif", cfg.Variant),
	})
}

func window[V dynamo.Vector[V]](cfg *config.Config) error {
	s, err := experiment.BuildWithMetrics[V](cfg, cfg.Seed)
	if err != nil {
		return err
	}
	stopSound := attachSound(s)
	defer stopSound()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = gui.Run(ctx, s, gui.Options{Title: "ballsim: " + cfg.Variant, FPS: int32(cfg.FPS)})
	if err == context.Canceled {
		return nil
	}
	return err
}

// attachSound starts the audio device when --sound is set. A missing device
// only costs the sound.
func attachSound[V dynamo.Vector[V]](s *sim.Simulation[V]) func() {
	if !sound {
		return func() {}
	}
	p := audio.NewProcessor()
	if err := p.Start(); err != nil {
		log.Warn("sound disabled", "err", err)
		return func() {}
	}
	s.AddObserver(audio.Observer[V](p))
	return p.Stop
}

// liveClock reads wall-clock time unless --fixed-dt asks for cfg.Dt per frame.
func liveClock(cfg *config.Config) sim.Clock {
	var clock sim.Clock = sim.NewWallClock()
	if fixedDt {
		clock = sim.FixedClock{Dt: cfg.Dt}
	}
	if speed != 1 {
		clock = sim.ScaledClock{Clock: clock, Scale: speed}
	}
	return clock
}

// pacedPlatform releases one frame per tick and asks to close once ctx is
// done.
type pacedPlatform struct {
	ctx    context.Context
	ticker *time.Ticker
}

func (p *pacedPlatform) Poll() sim.Input {
	select {
	case <-p.ctx.Done():
		return sim.Input{Close: true}
	case <-p.ticker.C:
		return sim.Input{}
	}
}

func runPlain[V dynamo.Vector[V]](s *sim.Simulation[V], clock sim.Clock, fps int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	renderer := viz.NewTextRenderer[V](os.Stdout, 1)
	platform := &pacedPlatform{ctx: ctx, ticker: ticker}
	if err := s.Run(context.Background(), platform, clock, renderer); err != nil {
		return err
	}
	fmt.Printf("closed after %d frames, %d collisions\n", s.FrameCount(), s.Collisions())
	return nil
}
