// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/einkrefresh/config"
	"github.com/GermanBionicSystems/einkrefresh/einksim"
	"github.com/GermanBionicSystems/einkrefresh/frame"
	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"github.com/GermanBionicSystems/einkrefresh/waveshare2in13v4"
)

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Draw a sequence of frames, letting the policy pick the refresh depth",
		Args:  cobra.NoArgs,
	}
	flags := cmd.Flags()

	verbose := flags.CountP("v", "v", "Log level")
	cfgPath := flags.StringP("config", "c", "", "YAML configuration file")
	mode := flags.String("mode", "", "Update mode: disabled or interval")
	interval := flags.Int("interval", 0, "Partial refreshes between full refreshes, 0 for never")
	panel := flags.String("panel", "", "Panel: sim or hat")
	frames := flags.Int("frames", 0, "Number of frames to draw")
	period := flags.Duration("period", 0, "Delay between frames")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if *cfgPath != "" {
			var err error
			if cfg, err = config.Load(*cfgPath); err != nil {
				return fmt.Errorf("config: %w", err)
			}
		}
		if flags.Changed("mode") {
			cfg.Mode = *mode
		}
		if flags.Changed("interval") {
			cfg.Interval = *interval
		}
		if flags.Changed("panel") {
			cfg.Panel = *panel
		}
		if flags.Changed("frames") {
			cfg.Frames = *frames
		}
		if flags.Changed("period") {
			cfg.Period = *period
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := log.New(io.Discard, "", log.LstdFlags)
		if *verbose > 0 {
			logger.SetOutput(os.Stderr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return run(ctx, cfg, logger)
	}

	return cmd
}

// panelDev is what the run loop needs from a panel.
type panelDev interface {
	display.Drawer
	refresh.Driver
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	dev, closer, err := openPanel(cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	return drive(ctx, cfg, dev, logger)
}

// drive draws cfg.Frames frames on dev. The first frame follows a forced full
// refresh; the policy picks the depth of every later one.
func drive(ctx context.Context, cfg *config.Config, dev panelDev, logger *log.Logger) error {
	opts, err := cfg.RefreshOpts()
	if err != nil {
		return err
	}
	opts.OnError = func(err error) {
		logger.Printf("refresh depth: %v", err)
	}
	ctrl := refresh.New(dev, opts)
	logger.Printf("%s on %s", ctrl, dev)

	b := dev.Bounds()
	h := b.Dy()
	if cfg.Panel == config.PanelSim {
		h = 40
	}
	size := h
	if b.Dx() < size {
		size = b.Dx()
	}
	r, err := frame.New(b.Dx(), h, float64(size)/6)
	if err != nil {
		return err
	}
	var srcPt image.Point
	if cfg.Panel == config.PanelSim {
		srcPt = image.Pt(0, r.BarY())
	}

	for i := 0; i < cfg.Frames; i++ {
		if i == 0 {
			// Start from a clean screen.
			ctrl.ForceRefresh(refresh.Full)
		} else {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(cfg.Period):
			}
			ctrl.PrepareNextUpdate()
		}

		st := ctrl.State()
		logger.Printf("frame %d: counter %d/%d", i, st.Counter, st.Interval)

		if err := dev.Draw(b, r.Render(i, st), srcPt); err != nil {
			return fmt.Errorf("draw frame %d: %w", i, err)
		}
	}

	return nil
}

func openPanel(cfg *config.Config, logger *log.Logger) (panelDev, func(), error) {
	switch cfg.Panel {
	case config.PanelSim:
		dev := einksim.New(&einksim.Opts{Width: cfg.Width})
		return dev, func() { _ = dev.Halt() }, nil

	case config.PanelHat:
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		b, err := spireg.Open("")
		if err != nil {
			return nil, nil, err
		}
		dev, err := waveshare2in13v4.NewHat(b, &waveshare2in13v4.EPD2in13v4)
		if err != nil {
			b.Close()
			return nil, nil, fmt.Errorf("failed to initialize driver: %w", err)
		}
		if err := dev.Init(); err != nil {
			b.Close()
			return nil, nil, fmt.Errorf("failed to initialize display: %w", err)
		}
		closer := func() {
			if err := dev.Sleep(); err != nil {
				logger.Printf("sleep: %v", err)
			}
			b.Close()
		}
		return dev, closer, nil

	default:
		return nil, nil, fmt.Errorf("unknown panel %q", cfg.Panel)
	}
}
