package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the view the depth sorter and renderers look through. Y is up.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // radians
	Near     float32
	Far      float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 2, 20},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     mgl32.DegToRad(60),
		Near:     0.1,
		Far:      500,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	f := c.Target.Sub(c.Position)
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Orbit places the camera on a circle of the given radius around Target,
// at yaw radians around the up axis and the given height above the target.
func (c *Camera) Orbit(yaw, radius, height float32) {
	c.Position = mgl32.Vec3{
		c.Target.X() + radius*float32(math.Sin(float64(yaw))),
		c.Target.Y() + height,
		c.Target.Z() + radius*float32(math.Cos(float64(yaw))),
	}
}

// Depth returns the camera-space depth of a world position: distance along
// the view direction, positive in front of the camera.
func Depth(view mgl32.Mat4, pos mgl32.Vec3) float32 {
	return -view.Mul4x1(pos.Vec4(1)).Z()
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with the normal pointing inside.
func ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4

	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	w := row(3)
	planes[0] = w.Add(row(0))
	planes[1] = w.Sub(row(0))
	planes[2] = w.Add(row(1))
	planes[3] = w.Sub(row(1))
	// OpenGL-style -1..1 depth range
	planes[4] = w.Add(row(2))
	planes[5] = w.Sub(row(2))

	for i := 0; i < 6; i++ {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}

	return planes
}

// PointInFrustum reports whether p lies inside all six planes.
func PointInFrustum(p mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		if plane.Vec3().Dot(p)+plane.W() < 0 {
			return false
		}
	}
	return true
}
