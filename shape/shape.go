// Package shape builds the primitive shape templates particles are stamped from.
package shape

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
)

// builder accumulates flat-shaded faces. center is any interior point of the
// convex solid; triangles are wound so their normal points away from it.
type builder struct {
	center mgl32.Vec3
	tpl    sps.ShapeTemplate
}

func newBuilder(name string, center mgl32.Vec3) *builder {
	return &builder{
		center: center,
		tpl:    sps.NewShapeTemplate(name, nil, nil),
	}
}

func (b *builder) vertex(p, n mgl32.Vec3, uv mgl32.Vec2) uint32 {
	b.tpl.Positions = append(b.tpl.Positions, p)
	b.tpl.Normals = append(b.tpl.Normals, n)
	b.tpl.UVs = append(b.tpl.UVs, uv)
	return uint32(len(b.tpl.Positions) - 1)
}

func (b *builder) triangle(p0, p1, p2 mgl32.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Dot(p0.Sub(b.center)) < 0 {
		p1, p2 = p2, p1
		n = n.Mul(-1)
	}
	n = n.Normalize()
	i0 := b.vertex(p0, n, mgl32.Vec2{0, 0})
	i1 := b.vertex(p1, n, mgl32.Vec2{1, 0})
	i2 := b.vertex(p2, n, mgl32.Vec2{0.5, 1})
	b.tpl.Indices = append(b.tpl.Indices, i0, i1, i2)
}

// quad adds the rectangle c±u±v facing u×v.
func (b *builder) quad(c, u, v mgl32.Vec3) {
	n := u.Cross(v).Normalize()
	i0 := b.vertex(c.Sub(u).Sub(v), n, mgl32.Vec2{0, 0})
	i1 := b.vertex(c.Add(u).Sub(v), n, mgl32.Vec2{1, 0})
	i2 := b.vertex(c.Add(u).Add(v), n, mgl32.Vec2{1, 1})
	i3 := b.vertex(c.Sub(u).Add(v), n, mgl32.Vec2{0, 1})
	b.tpl.Indices = append(b.tpl.Indices, i0, i1, i2, i0, i2, i3)
}

// Point is a single vertex, for particles drawn as sprites or glyphs.
func Point() sps.ShapeTemplate {
	return sps.NewShapeTemplate("point", []mgl32.Vec3{{0, 0, 0}}, nil)
}

// Quad is a size x size square in the XY plane facing +Z.
func Quad(size float32) sps.ShapeTemplate {
	h := size * 0.5
	b := newBuilder("quad", mgl32.Vec3{0, 0, -1})
	b.quad(mgl32.Vec3{}, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, h, 0})
	return b.tpl
}

// Box is an axis-aligned box centered on the origin with 24 vertices so every
// face gets its own normal.
func Box(sizeX, sizeY, sizeZ float32) sps.ShapeTemplate {
	h := mgl32.Vec3{sizeX * 0.5, sizeY * 0.5, sizeZ * 0.5}
	b := newBuilder("box", mgl32.Vec3{})
	faces := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	for _, f := range faces {
		b.quad(core.MulElem(f.n, h), core.MulElem(f.u, h), core.MulElem(f.v, h))
	}
	return b.tpl
}

// Cube is Box(size, size, size).
func Cube(size float32) sps.ShapeTemplate {
	t := Box(size, size, size)
	t.Name = "cube"
	return t
}

// Tetrahedron is a regular tetrahedron inscribed in a cube of edge size.
func Tetrahedron(size float32) sps.ShapeTemplate {
	h := size * 0.5
	v := []mgl32.Vec3{
		{h, h, h}, {h, -h, -h}, {-h, h, -h}, {-h, -h, h},
	}
	b := newBuilder("tetrahedron", mgl32.Vec3{})
	b.triangle(v[0], v[1], v[2])
	b.triangle(v[0], v[1], v[3])
	b.triangle(v[0], v[2], v[3])
	b.triangle(v[1], v[2], v[3])
	return b.tpl
}

// Pyramid has a square base of edge size on y=0 and its apex at y=height.
func Pyramid(size, height float32) sps.ShapeTemplate {
	h := size * 0.5
	b := newBuilder("pyramid", mgl32.Vec3{0, height / 4, 0})
	b.quad(mgl32.Vec3{}, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, 0, h})

	apex := mgl32.Vec3{0, height, 0}
	base := []mgl32.Vec3{{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h}}
	for i := range base {
		b.triangle(base[i], base[(i+1)%len(base)], apex)
	}
	return b.tpl
}

// Disc is a triangle fan of radius in the XY plane facing +Z.
func Disc(radius float32, segments int) sps.ShapeTemplate {
	segments = max(segments, 3)
	b := newBuilder("disc", mgl32.Vec3{0, 0, -1})
	n := mgl32.Vec3{0, 0, 1}
	center := b.vertex(mgl32.Vec3{}, n, mgl32.Vec2{0.5, 0.5})
	for i := 0; i < segments; i++ {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		c, s := math32.Cos(a), math32.Sin(a)
		b.vertex(mgl32.Vec3{radius * c, radius * s, 0}, n, mgl32.Vec2{0.5 + 0.5*c, 0.5 + 0.5*s})
	}
	for i := 0; i < segments; i++ {
		next := (i+1)%segments + 1
		b.tpl.Indices = append(b.tpl.Indices, center, uint32(i+1), uint32(next))
	}
	return b.tpl
}

// ByName returns the primitive called name sized by size. ok is false for
// unknown names.
func ByName(name string, size float32) (sps.ShapeTemplate, bool) {
	switch name {
	case "point":
		return Point(), true
	case "quad", "plane":
		return Quad(size), true
	case "box":
		return Box(size, size, size), true
	case "cube":
		return Cube(size), true
	case "tetrahedron", "tetra":
		return Tetrahedron(size), true
	case "pyramid":
		return Pyramid(size, size), true
	case "disc":
		return Disc(size*0.5, 12), true
	}
	return sps.ShapeTemplate{}, false
}
