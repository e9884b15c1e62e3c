package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformPivot(t *testing.T) {
	// Rotate 90 degrees around Y about a pivot at (1,0,0).
	tr := NewTransform()
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	tr.Pivot = mgl32.Vec3{1, 0, 0}

	// The pivot itself stays put.
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.Matrix())
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, p, "pivot moved to %v", p)

	// The shape origin swings around the pivot: (0,0,0) -> (1,0,1).
	o := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, tr.Matrix())
	assertVec3Near(t, mgl32.Vec3{1, 0, 1}, o, "origin at %v", o)

	// Translating from the pivot drops the back-translation.
	tr.TranslateFromPivot = true
	p = mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.Matrix())
	assertVec3Near(t, mgl32.Vec3{0, 0, 0}, p, "pivot at %v", p)
}

func TestEulerToQuatOrder(t *testing.T) {
	// Yaw alone rotates +X towards -Z.
	q := EulerToQuat(mgl32.Vec3{0, mgl32.DegToRad(90), 0})
	v := q.Rotate(mgl32.Vec3{1, 0, 0})
	assertVec3Near(t, mgl32.Vec3{0, 0, -1}, v, "got %v", v)

	// Zero angles are the identity.
	ident := EulerToQuat(mgl32.Vec3{})
	assert.InDelta(t, 1, ident.W, 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 0}, ident.V[:], 1e-6)
}

func TestPackInstance(t *testing.T) {
	world := mgl32.Translate3D(1, 2, 3)
	inst := PackInstance(world, mgl32.Vec4{0.5, 0.25, 1, 1})

	assert.Equal(t, float32(1), inst.Model[12])
	assert.Equal(t, float32(3), inst.Model[14])
	assert.Equal(t, [4]float32{0.5, 0.25, 1, 1}, inst.Color)

	flat := AppendFloats(nil, inst, inst)
	assert.Len(t, flat, 2*InstanceFloats)
	assert.Equal(t, float32(0.25), flat[InstanceFloats+17])
}

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, msgAndArgs...)
}
