package sps

import (
	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
)

// NoParent marks a particle positioned relative to the pool origin.
const NoParent = -1

// Particle is one record of a Pool. E is the simulation-defined extension
// carried in Props.
//
// Index, ShapeID and ShapeIndex belong to the pool: values written to them by
// hooks are discarded.
type Particle[E any] struct {
	Index      int
	ShapeID    int
	ShapeIndex int

	Position mgl32.Vec3
	// Rotation holds Euler angles in radians: yaw (Y), pitch (X), roll (Z).
	Rotation mgl32.Vec3
	// Quaternion overrides Rotation when it is not the zero quaternion.
	Quaternion mgl32.Quat
	Scaling    mgl32.Vec3
	Color      mgl32.Vec4

	Pivot              mgl32.Vec3
	TranslateFromPivot bool

	// Velocity is not read by the pool.
	Velocity mgl32.Vec3

	ParentID int

	// Alive particles receive Update calls. Invisible ones are emitted collapsed.
	Alive   bool
	Visible bool

	Props E
}

func newParticle[E any](index, shapeID, shapeIndex int) Particle[E] {
	return Particle[E]{
		Index:      index,
		ShapeID:    shapeID,
		ShapeIndex: shapeIndex,
		Scaling:    mgl32.Vec3{1, 1, 1},
		Color:      mgl32.Vec4{1, 1, 1, 1},
		ParentID:   NoParent,
		Alive:      true,
		Visible:    true,
	}
}

func (p *Particle[E]) HasParent() bool {
	return p.ParentID != NoParent
}

func (p *Particle[E]) SetParent(index int) {
	p.ParentID = index
}

func (p *Particle[E]) ClearParent() {
	p.ParentID = NoParent
}

// RotationQuat resolves the particle's orientation.
func (p *Particle[E]) RotationQuat() mgl32.Quat {
	if p.Quaternion != (mgl32.Quat{}) {
		return p.Quaternion.Normalize()
	}
	return core.EulerToQuat(p.Rotation)
}

func (p *Particle[E]) Transform() core.Transform {
	return core.Transform{
		Position:           p.Position,
		Rotation:           p.RotationQuat(),
		Scale:              p.Scaling,
		Pivot:              p.Pivot,
		TranslateFromPivot: p.TranslateFromPivot,
	}
}

// LocalMatrix is the particle's transform relative to its parent.
func (p *Particle[E]) LocalMatrix() mgl32.Mat4 {
	tr := p.Transform()
	return tr.Matrix()
}
