package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the local placement of one particle relative to its parent
// (or to the pool origin when it has none).
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Pivot    mgl32.Vec3
	// TranslateFromPivot places Position at the pivot rather than at the shape origin.
	TranslateFromPivot bool
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the local matrix: pivot-adjusted translate, then rotate, then scale.
//
//	M = T(position + back) * R * S * T(-pivot)
//
// where back is the scaled pivot unless TranslateFromPivot is set.
func (t *Transform) Matrix() mgl32.Mat4 {
	translation := t.Position
	if !t.TranslateFromPivot {
		translation = translation.Add(MulElem(t.Pivot, t.Scale))
	}

	translate := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	unpivot := mgl32.Translate3D(-t.Pivot.X(), -t.Pivot.Y(), -t.Pivot.Z())

	return translate.Mul4(rotate).Mul4(scale).Mul4(unpivot)
}

// EulerToQuat converts yaw (Y), pitch (X), roll (Z) angles in radians to a
// quaternion, applied in that order.
func EulerToQuat(rot mgl32.Vec3) mgl32.Quat {
	yaw := mgl32.QuatRotate(rot.Y(), mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(rot.X(), mgl32.Vec3{1, 0, 0})
	roll := mgl32.QuatRotate(rot.Z(), mgl32.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// MulElem multiplies two vectors component-wise.
func MulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

// Translation extracts the translation column of an affine matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// Collapse keeps the translation of m and scales everything else to zero.
func Collapse(m mgl32.Mat4) mgl32.Mat4 {
	return mgl32.Translate3D(m[12], m[13], m[14]).Mul4(mgl32.Scale3D(0, 0, 0))
}
