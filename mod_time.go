package sps

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
	// Fixed, when non-zero, replaces the measured frame delta.
	Fixed time.Duration
}

type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App) {
	app.AddResources(&Time{
		Time:  time.Now(),
		Dt:    0,
		Fixed: mod.FixedStep,
	})
	app.UseSystem(System(timeSystem).InStage(PreUpdate))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	if timeResource.Fixed > 0 {
		timeResource.Dt = timeResource.Fixed
	} else {
		timeResource.Dt = now.Sub(timeResource.Time)
	}
	timeResource.Time = now
	timeResource.Frame++
}
