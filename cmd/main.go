package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/richinsley/goshaderplane/config"
	"github.com/richinsley/goshaderplane/glfwcontext"
	"github.com/richinsley/goshaderplane/graphics"
	"github.com/richinsley/goshaderplane/headless"
	"github.com/richinsley/goshaderplane/loop"
	"github.com/richinsley/goshaderplane/options"
	"github.com/richinsley/goshaderplane/recorder"
	"github.com/richinsley/goshaderplane/renderer"
	"github.com/richinsley/goshaderplane/session"
	"github.com/richinsley/goshaderplane/viewport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Shader plane viewer/recorder")
		flag.PrintDefaults()
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *opts.ConfigPath != "" {
		c, err := config.Load(*opts.ConfigPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *opts.ConfigPath).Msg("config load failed")
		}
		cfg = c
	}
	opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)

	if *opts.WriteConfig != "" {
		if err := config.Save(*opts.WriteConfig, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *opts.WriteConfig).Msg("config save failed")
		}
		log.Info().Str("path", *opts.WriteConfig).Msg("config written")
		return
	}

	if err := run(cfg, *opts.Record); err != nil {
		log.Fatal().Err(err).Msg("goshaderplane failed")
	}
}

func run(cfg *config.Config, record bool) error {
	table, err := cfg.PaletteTable()
	if err != nil {
		return fmt.Errorf("palette table: %w", err)
	}
	sopts := session.DefaultOptions()
	sopts.PaletteTable = table
	sopts.Defaults = cfg.Defaults()
	sopts.PaletteMode = cfg.Palette.Mode
	sopts.Damping = cfg.Damping
	sopts.Log = log.With().Str("component", "session").Logger()

	if record && cfg.Record.Headless {
		surface, err := headless.New(cfg.Window.Width, cfg.Window.Height)
		if err != nil {
			return fmt.Errorf("failed to create headless surface: %w", err)
		}
		r, err := renderer.New(surface, log.With().Str("component", "renderer").Logger())
		if err != nil {
			surface.Shutdown()
			return err
		}
		return runRecord(cfg, sopts, surface, r)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	wc := glfwcontext.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Visible:    !record,
		VSync:      cfg.Window.VSync && !record,
		PixelRatio: cfg.Window.PixelRatio,
	}
	if record && wc.PixelRatio == 0 {
		// Recordings are sized in window units unless asked otherwise.
		wc.PixelRatio = 1
	}
	win, err := glfwcontext.New(wc)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	r, err := renderer.New(win, log.With().Str("component", "renderer").Logger())
	if err != nil {
		win.Shutdown()
		return err
	}

	if record {
		return runRecord(cfg, sopts, win, r)
	}
	return runInteractive(sopts, win, r)
}

func runInteractive(sopts session.Options, win *glfwcontext.Context, r *renderer.Renderer) error {
	s, err := session.New(sopts, win, r)
	if err != nil {
		r.Shutdown()
		return err
	}
	defer s.Close()
	bindPanelKeys(win, s.Panel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("interrupted")
		return nil
	}
	return err
}

func runRecord(cfg *config.Config, sopts session.Options, win graphics.Host, r *renderer.Renderer) error {
	w, h := win.Size()
	st := viewport.State{Width: w, Height: h, PixelRatio: viewport.ClampPixelRatio(win.PixelRatio())}
	bw, bh := st.DrawingBufferSize()

	enc, err := recorder.Start(recorder.Config{
		Width:      bw,
		Height:     bh,
		FPS:        cfg.Record.FPS,
		Output:     cfg.Record.Output,
		Codec:      cfg.Record.Codec,
		FFMPEGPath: cfg.Record.FFMPEGPath,
	}, log.With().Str("component", "recorder").Logger())
	if err != nil {
		r.Shutdown()
		return err
	}

	step := &loop.FixedStep{FPS: cfg.Record.FPS, Frames: cfg.Record.Frames()}
	capture := recorder.NewCapture(win, step, r.ReadFrame, enc)

	s, err := session.New(sopts, capture, r)
	if err != nil {
		enc.Close()
		r.Shutdown()
		return err
	}
	defer s.Close()

	log.Info().Int("frames", step.Frames).Int("fps", step.FPS).Msg("starting offscreen render loop")
	runErr := s.Run(context.Background())
	encErr := enc.Close()
	if err := errors.Join(runErr, capture.Err(), encErr); err != nil {
		return err
	}
	log.Info().Int("frames", capture.Frames()).Str("output", cfg.Record.Output).Msg("successfully rendered")
	return nil
}
