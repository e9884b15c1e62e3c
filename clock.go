package sps

import "time"

// Clock is the simulation time handed to Update hooks. Elapsed and Frame
// advance every frame; K advances by Step only when the scheduler completes a
// full pass over the pool, so windowed pools stay visually coherent.
type Clock struct {
	Elapsed time.Duration
	Dt      time.Duration
	Frame   uint64
	Cycle   uint64
	K       float32
	Step    float32
}

func NewClock(step float32) Clock {
	return Clock{Step: step}
}

func (c *Clock) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	c.Dt = dt
	c.Elapsed += dt
	c.Frame++
}

func (c *Clock) CompleteCycle() {
	c.Cycle++
	c.K += c.Step
}

func (c Clock) Seconds() float32 {
	return float32(c.Elapsed.Seconds())
}

func (c Clock) DtSeconds() float32 {
	return float32(c.Dt.Seconds())
}
