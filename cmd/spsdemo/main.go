package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "cmd/spsdemo/scene.toml", "scene file (.toml, .yaml or .yml)")
	frames := flag.Int("frames", -1, "frames to run, overriding the scene file; 0 runs until interrupted")
	useTerm := flag.Bool("term", false, "draw the scene in the terminal")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *frames >= 0 {
		cfg.Loop.Frames = *frames
	}
	level := cfg.Logging.Level
	if *debug {
		level = "debug"
	}

	var logger sps.Logger = sps.NewNopLogger()
	// Console logging would tear the terminal view.
	if !*useTerm {
		zl, err := sps.NewDevelopmentLogger(cfg.Logging.Prefix, level)
		if err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()
		logger = zl
	}

	app, err := newScene(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Dispose()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *useTerm {
		return runTerminal(ctx, app, cfg)
	}
	return runHeadless(ctx, app, cfg, logger)
}
