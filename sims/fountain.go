package sims

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/gekko3d/sps"
	"github.com/go-gl/mathgl/mgl32"
)

type FountainProps struct {
	Age  float32 // seconds since the last recycle
	Life float32
}

// Fountain throws particles up from the pool origin under gravity. A particle
// is recycled to y=0 when it rises above Boundary, falls below Floor, or
// outlives its life.
type Fountain struct {
	Speed    float32 // initial upward speed
	Spread   float32 // horizontal speed range
	Gravity  float32
	Boundary float32
	Floor    float32
	MinLife  float32
	MaxLife  float32
	Color    mgl32.Vec4
	EndColor mgl32.Vec4

	rng *rand.Rand
}

func NewFountain(seed int64) *Fountain {
	return &Fountain{
		Speed:    8,
		Spread:   2,
		Gravity:  9.8,
		Boundary: 12,
		Floor:    0,
		MinLife:  1.5,
		MaxLife:  3,
		Color:    white,
		EndColor: mgl32.Vec4{1, 1, 1, 0},
		rng:      newRand(seed),
	}
}

// Initialize launches the particle and advances it along its arc by a random
// share of its life so the first frames are not a single burst.
func (f *Fountain) Initialize(p sps.Particle[FountainProps], shapeIndex int) (sps.Particle[FountainProps], error) {
	p, err := f.Recycle(p)
	if err != nil {
		return p, err
	}
	t := between(f.rng, 0, p.Props.Life*0.5)
	g := mgl32.Vec3{0, -f.Gravity, 0}
	p.Position = p.Position.Add(p.Velocity.Mul(t)).Add(g.Mul(0.5 * t * t))
	p.Velocity = p.Velocity.Add(g.Mul(t))
	p.Props.Age = t
	if p.Position.Y() < f.Floor {
		return f.Recycle(p)
	}
	return p, nil
}

func (f *Fountain) Update(p sps.Particle[FountainProps], clock sps.Clock) (sps.Particle[FountainProps], error) {
	dt := clock.DtSeconds()
	p.Velocity[1] -= f.Gravity * dt
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Props.Age += dt

	if p.Position.Y() > f.Boundary || p.Position.Y() < f.Floor || p.Props.Age >= p.Props.Life {
		return f.Recycle(p)
	}

	p.Color = lerpColor(f.Color, f.EndColor, p.Props.Age/p.Props.Life)
	// Tumble along the direction of travel.
	p.Rotation[0] = math32.Atan2(p.Velocity.Y(), math32.Hypot(p.Velocity.X(), p.Velocity.Z()))
	return p, nil
}

func (f *Fountain) Recycle(p sps.Particle[FountainProps]) (sps.Particle[FountainProps], error) {
	p.Position = mgl32.Vec3{}
	p.Velocity = mgl32.Vec3{
		between(f.rng, -f.Spread, f.Spread),
		f.Speed * between(f.rng, 0.75, 1),
		between(f.rng, -f.Spread, f.Spread),
	}
	p.Rotation[1] = math32.Atan2(p.Velocity.X(), p.Velocity.Z())
	s := between(f.rng, 0.5, 1)
	p.Scaling = mgl32.Vec3{s, s, s}
	p.Color = f.Color
	p.Props = FountainProps{Life: between(f.rng, f.MinLife, max(f.MinLife, f.MaxLife))}
	if p.Props.Life <= 0 {
		p.Props.Life = 1
	}
	return p, nil
}
