package sims

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/sps"
	"github.com/go-gl/mathgl/mgl32"
)

type WaveProps struct {
	Phase float32
}

// Wave lays particles out on a grid in the XZ plane and moves each one
// vertically by Amplitude*sin(K + phase). It reads the clock phase K, which
// only advances once the scheduler completes a pass, so windowed pools show a
// coherent surface.
type Wave struct {
	Columns   int
	Spacing   float32
	Amplitude float32
	Frequency float32 // phase offset per grid step
	Low       mgl32.Vec4
	High      mgl32.Vec4
}

func NewWave(columns int) *Wave {
	return &Wave{
		Columns:   max(columns, 1),
		Spacing:   1,
		Amplitude: 1,
		Frequency: 0.4,
		Low:       mgl32.Vec4{0.1, 0.2, 0.8, 1},
		High:      white,
	}
}

func (w *Wave) Initialize(p sps.Particle[WaveProps], shapeIndex int) (sps.Particle[WaveProps], error) {
	cols := max(w.Columns, 1)
	col, row := shapeIndex%cols, shapeIndex/cols
	offset := float32(cols-1) * w.Spacing * 0.5
	p.Position = mgl32.Vec3{float32(col)*w.Spacing - offset, 0, float32(row)*w.Spacing - offset}
	p.Props.Phase = float32(col+row) * w.Frequency
	return w.Update(p, sps.Clock{})
}

func (w *Wave) Update(p sps.Particle[WaveProps], clock sps.Clock) (sps.Particle[WaveProps], error) {
	h := math32.Sin(clock.K + p.Props.Phase)
	p.Position[1] = w.Amplitude * h
	p.Color = lerpColor(w.Low, w.High, (h+1)*0.5)
	return p, nil
}

func (w *Wave) Recycle(p sps.Particle[WaveProps]) (sps.Particle[WaveProps], error) {
	p.Position[1] = 0
	return p, nil
}
