package sims

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/config"
	"github.com/gekko3d/sps/shape"
)

var ErrUnknownSimulation = errors.New("unknown simulation")

// NewPool builds and returns the pool described by pc.
func NewPool(pc config.PoolConfig, logger sps.Logger) (sps.Stepper, error) {
	color, err := config.ParseColor(pc.Color)
	if err != nil {
		return nil, err
	}

	switch pc.Simulation {
	case "scatter":
		s := NewScatter(pc.Param("half_extent", 10), pc.Seed)
		s.SpinSpeed = pc.Param("spin", s.SpinSpeed)
		s.Color = color
		return stepper(build[ScatterProps](s, pc, logger))
	case "fountain":
		f := NewFountain(pc.Seed)
		f.Speed = pc.Param("speed", f.Speed)
		f.Spread = pc.Param("spread", f.Spread)
		f.Gravity = pc.Param("gravity", f.Gravity)
		f.Boundary = pc.Param("boundary", f.Boundary)
		f.Floor = pc.Param("floor", f.Floor)
		f.MinLife = pc.Param("min_life", f.MinLife)
		f.MaxLife = pc.Param("max_life", f.MaxLife)
		f.Color = color
		f.EndColor = color
		f.EndColor[3] = 0
		return stepper(build[FountainProps](f, pc, logger))
	case "orbit":
		o := NewOrbit(int(pc.Param("planets", 3)))
		o.PlanetRadius = pc.Param("planet_radius", o.PlanetRadius)
		o.MoonRadius = pc.Param("moon_radius", o.MoonRadius)
		o.Speed = pc.Param("speed", o.Speed)
		o.Color = color
		return stepper(build[OrbitProps](o, pc, logger))
	case "wave":
		cols := int(pc.Param("columns", math32.Ceil(math32.Sqrt(float32(pc.Count)))))
		w := NewWave(cols)
		w.Spacing = pc.Param("spacing", w.Spacing)
		w.Amplitude = pc.Param("amplitude", w.Amplitude)
		w.Frequency = pc.Param("frequency", w.Frequency)
		w.High = color
		return stepper(build[WaveProps](w, pc, logger))
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSimulation, pc.Simulation)
}

func stepper[E any](p *sps.Pool[E], err error) (sps.Stepper, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

func build[E any](sim sps.Simulation[E], pc config.PoolConfig, logger sps.Logger) (*sps.Pool[E], error) {
	tpl, ok := shape.ByName(pc.Shape, pc.ShapeSize)
	if !ok {
		return nil, fmt.Errorf("%w: unknown shape %q", sps.ErrInvalidShape, pc.Shape)
	}
	opts := []sps.Option{
		sps.WithName(pc.Name),
		sps.WithLogger(logger),
		sps.WithDepthSort(pc.DepthSort),
	}
	if pc.ClockStep != 0 {
		opts = append(opts, sps.WithClockStep(pc.ClockStep))
	}
	if pc.Windowed {
		opts = append(opts, sps.WithWindow(pc.Window))
	}

	pool := sps.NewPool[E](sim, opts...)
	if _, err := pool.AddShape(tpl, pc.Count); err != nil {
		return nil, fmt.Errorf("pool %s: %w", pc.Name, err)
	}
	if err := pool.Build(); err != nil {
		return nil, fmt.Errorf("pool %s: %w", pc.Name, err)
	}
	return pool, nil
}
