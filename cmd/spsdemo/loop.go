package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/config"
	"github.com/gekko3d/sps/core"
	"github.com/gekko3d/sps/term"
)

const statsEvery = 120

func runHeadless(ctx context.Context, app *sps.App, cfg *config.Config, logger sps.Logger) error {
	start := time.Now()
	frames := cfg.Loop.Frames
loop:
	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		if err := app.Step(); err != nil {
			return err
		}
		if logger.DebugEnabled() && app.Frame()%statsEvery == 0 {
			logger.Debugf("frame %d after %s", app.Frame(), time.Since(start).Round(time.Millisecond))
		}
	}

	registry, _ := sps.Resource[sps.ParticleRegistry](app)
	logger.Infof("ran %d frames in %s", app.Frame(), time.Since(start).Round(time.Millisecond))
	printStats(registry, app.Frame())
	return nil
}

func runTerminal(ctx context.Context, app *sps.App, cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	cam, _ := sps.Resource[core.Camera](app)
	registry, _ := sps.Resource[sps.ParticleRegistry](app)
	renderer := term.NewRenderer(cam)
	status := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(screen, events, done)

	step := cfg.Loop.FixedStep
	if step <= 0 {
		step = time.Second / 60
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for n := 0; cfg.Loop.Frames <= 0 || n < cfg.Loop.Frames; {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if err := app.Step(); err != nil {
				return err
			}
			n++
			screen.Clear()
			drawn := renderer.Draw(screen, registry.Pools()...)
			renderer.DrawText(screen, 0, 0, fmt.Sprintf(" frame %d  cells %d  q quits ", app.Frame(), drawn), status)
			screen.Show()
		}
	}
	return nil
}

// pumpEvents forwards screen events until the screen is finalized or done is
// closed.
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
