package sps

import (
	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
)

// vertexBuffers holds the baked geometry of every particle: each particle's
// shape vertices transformed by its world matrix, laid out consecutively.
type vertexBuffers struct {
	positions []float32 // xyz
	normals   []float32 // xyz
	colors    []float32 // rgba
	uvs       []float32 // uv
	indices   []uint32
	offsets   []int // first vertex of each particle
}

func (b *vertexBuffers) vertexCount() int {
	return len(b.positions) / 3
}

func (b *vertexBuffers) build(shapes []shapeEntry, n int) {
	total := 0
	indexCount := 0
	for _, s := range shapes {
		total += s.rng.Len() * s.template.VertexCount()
		indexCount += s.rng.Len() * len(s.template.Indices)
	}

	b.positions = make([]float32, total*3)
	b.normals = make([]float32, total*3)
	b.colors = make([]float32, total*4)
	b.uvs = make([]float32, total*2)
	b.indices = make([]uint32, 0, indexCount)
	b.offsets = make([]int, n)

	v := 0
	for _, s := range shapes {
		tpl := s.template
		for i := s.rng.Start; i < s.rng.End; i++ {
			b.offsets[i] = v
			for _, idx := range tpl.Indices {
				b.indices = append(b.indices, uint32(v)+idx)
			}
			for k, uv := range tpl.UVs {
				b.uvs[(v+k)*2] = uv.X()
				b.uvs[(v+k)*2+1] = uv.Y()
			}
			v += tpl.VertexCount()
		}
	}
}

// refresh rewrites the vertices of the particles in r.
func (b *vertexBuffers) refresh(src bufferSource, r IndexRange) {
	if len(b.offsets) == 0 {
		return
	}
	computeTransform, computeColor := src.computeFlags()
	if !computeTransform && !computeColor {
		return
	}
	for i := max(r.Start, 0); i < min(r.End, len(b.offsets)); i++ {
		tpl := src.template(i)
		off := b.offsets[i]
		visible := src.VisibleAt(i)

		if computeTransform {
			world := src.World(i)
			if !visible {
				world = core.Collapse(world)
			}
			normalMat := world.Mat3().Inv().Transpose()
			for k, pos := range tpl.Positions {
				w := mgl32.TransformCoordinate(pos, world)
				copy(b.positions[(off+k)*3:], w[:])
				if len(tpl.Normals) > 0 {
					n := normalMat.Mul3x1(tpl.Normals[k])
					if l := n.Len(); l > 0 {
						n = n.Mul(1 / l)
					}
					copy(b.normals[(off+k)*3:], n[:])
				}
			}
		}

		if computeColor {
			c := src.ColorAt(i)
			for k := range tpl.Positions {
				copy(b.colors[(off+k)*4:], c[:])
			}
		}
	}
}

// bufferSource is what refresh needs from a pool.
type bufferSource interface {
	World(i int) mgl32.Mat4
	ColorAt(i int) mgl32.Vec4
	VisibleAt(i int) bool
	template(i int) *ShapeTemplate
	computeFlags() (transform, color bool)
}

func (p *Pool[E]) template(i int) *ShapeTemplate {
	return &p.shapes[p.particles[i].ShapeID].template
}

func (p *Pool[E]) computeFlags() (transform, color bool) {
	return p.ComputeTransform, p.ComputeColor
}

// Positions returns the baked vertex positions (xyz per vertex). The slice is
// owned by the pool and rewritten by Resolve.
func (p *Pool[E]) Positions() []float32 { return p.buffers.positions }

// Normals returns the baked vertex normals (xyz per vertex).
func (p *Pool[E]) Normals() []float32 { return p.buffers.normals }

// Colors returns per-vertex colors (rgba per vertex).
func (p *Pool[E]) Colors() []float32 { return p.buffers.colors }

// UVs returns per-vertex texture coordinates copied from the shape templates.
func (p *Pool[E]) UVs() []float32 { return p.buffers.uvs }

// Indices returns the triangle indices of the whole pool.
func (p *Pool[E]) Indices() []uint32 { return p.buffers.indices }

// VertexOffset returns the first vertex of particle i in the baked buffers.
func (p *Pool[E]) VertexOffset(i int) (int, error) {
	if err := p.usable(); err != nil {
		return 0, err
	}
	if err := p.checkIndex(i); err != nil {
		return 0, err
	}
	return p.buffers.offsets[i], nil
}
