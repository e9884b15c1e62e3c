package sims

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/gekko3d/sps"
	"github.com/go-gl/mathgl/mgl32"
)

type ScatterProps struct {
	Spin mgl32.Vec3 // radians per second around each axis
}

// Scatter places particles uniformly in the cube [-HalfExtent, HalfExtent]^3
// and spins them slowly in place.
type Scatter struct {
	HalfExtent float32
	SpinSpeed  float32
	Color      mgl32.Vec4

	rng *rand.Rand
}

func NewScatter(halfExtent float32, seed int64) *Scatter {
	return &Scatter{
		HalfExtent: halfExtent,
		SpinSpeed:  1,
		Color:      white,
		rng:        newRand(seed),
	}
}

func (s *Scatter) Initialize(p sps.Particle[ScatterProps], shapeIndex int) (sps.Particle[ScatterProps], error) {
	p, err := s.Recycle(p)
	if err != nil {
		return p, err
	}
	p.Rotation = mgl32.Vec3{
		between(s.rng, 0, 2*math32.Pi),
		between(s.rng, 0, 2*math32.Pi),
		between(s.rng, 0, 2*math32.Pi),
	}
	return p, nil
}

func (s *Scatter) Update(p sps.Particle[ScatterProps], clock sps.Clock) (sps.Particle[ScatterProps], error) {
	p.Rotation = p.Rotation.Add(p.Props.Spin.Mul(clock.DtSeconds()))
	return p, nil
}

// Recycle scatters the particle to a new random position.
func (s *Scatter) Recycle(p sps.Particle[ScatterProps]) (sps.Particle[ScatterProps], error) {
	h := s.HalfExtent
	p.Position = mgl32.Vec3{between(s.rng, -h, h), between(s.rng, -h, h), between(s.rng, -h, h)}
	p.Props.Spin = mgl32.Vec3{
		between(s.rng, -s.SpinSpeed, s.SpinSpeed),
		between(s.rng, -s.SpinSpeed, s.SpinSpeed),
		between(s.rng, -s.SpinSpeed, s.SpinSpeed),
	}
	shade := between(s.rng, 0.6, 1)
	p.Color = mgl32.Vec4{s.Color[0] * shade, s.Color[1] * shade, s.Color[2] * shade, s.Color[3]}
	return p, nil
}
