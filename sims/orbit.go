package sims

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/sps"
	"github.com/go-gl/mathgl/mgl32"
)

type Body int

const (
	Sun Body = iota
	Planet
	Moon
)

type OrbitProps struct {
	Body   Body
	Radius float32
	Speed  float32 // radians per second
	Phase  float32
}

// Orbit arranges a shape group as a small solar system built on parent links:
// the first particle is the sun, the next Planets particles orbit it, and every
// remaining particle orbits one of the planets, dealt round-robin.
type Orbit struct {
	Planets      int
	PlanetRadius float32 // orbit spacing between consecutive planets
	MoonRadius   float32
	Speed        float32
	SunScale     float32
	PlanetScale  float32
	MoonScale    float32
	Color        mgl32.Vec4
}

func NewOrbit(planets int) *Orbit {
	return &Orbit{
		Planets:      max(planets, 1),
		PlanetRadius: 4,
		MoonRadius:   1.5,
		Speed:        1,
		SunScale:     2,
		PlanetScale:  0.6,
		MoonScale:    0.4,
		Color:        white,
	}
}

// Count is the number of particles for the given moons per planet.
func (o *Orbit) Count(moonsPerPlanet int) int {
	return 1 + o.Planets + o.Planets*max(moonsPerPlanet, 0)
}

func (o *Orbit) Initialize(p sps.Particle[OrbitProps], shapeIndex int) (sps.Particle[OrbitProps], error) {
	base := p.Index - shapeIndex
	planets := max(o.Planets, 1)

	switch {
	case shapeIndex == 0:
		p.ClearParent()
		p.Props = OrbitProps{Body: Sun, Speed: o.Speed * 0.2}
		p.Scaling = mgl32.Vec3{o.SunScale, o.SunScale, o.SunScale}
		p.Color = o.Color
	case shapeIndex <= planets:
		k := shapeIndex - 1
		p.SetParent(base)
		p.Props = OrbitProps{
			Body:   Planet,
			Radius: o.PlanetRadius * float32(k+1) / o.SunScale,
			Speed:  o.Speed / float32(k+1),
			Phase:  2 * math32.Pi * float32(k) / float32(planets),
		}
		p.Scaling = mgl32.Vec3{o.PlanetScale, o.PlanetScale, o.PlanetScale}
		p.Color = mgl32.Vec4{o.Color[0] * 0.8, o.Color[1] * 0.8, o.Color[2], o.Color[3]}
	default:
		m := shapeIndex - 1 - planets
		k, ring := m%planets, m/planets
		p.SetParent(base + 1 + k)
		p.Props = OrbitProps{
			Body:   Moon,
			Radius: o.MoonRadius * float32(ring+1) / (o.SunScale * o.PlanetScale),
			Speed:  o.Speed * 3,
			Phase:  float32(ring) * 0.7,
		}
		p.Scaling = mgl32.Vec3{o.MoonScale, o.MoonScale, o.MoonScale}
		p.Color = mgl32.Vec4{o.Color[0] * 0.6, o.Color[1] * 0.6, o.Color[2] * 0.6, o.Color[3]}
	}
	return o.Update(p, sps.Clock{})
}

// Update places the particle on its circle for the elapsed time. Radii are
// divided by the accumulated parent scale at Initialize so they read in world
// units; body scales are relative to the parent.
func (o *Orbit) Update(p sps.Particle[OrbitProps], clock sps.Clock) (sps.Particle[OrbitProps], error) {
	a := p.Props.Phase + p.Props.Speed*clock.Seconds()
	if p.Props.Body == Sun {
		p.Rotation[1] = a
		return p, nil
	}
	sin, cos := math32.Sincos(a)
	p.Position = mgl32.Vec3{p.Props.Radius * cos, 0, p.Props.Radius * sin}
	p.Rotation[1] = -a
	return p, nil
}

func (o *Orbit) Recycle(p sps.Particle[OrbitProps]) (sps.Particle[OrbitProps], error) {
	return o.Update(p, sps.Clock{})
}
