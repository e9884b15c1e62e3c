package sps

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ShapeTemplate is the geometry blueprint particles are stamped from.
// The pool keeps its own copy; the caller's slices are never mutated.
type ShapeTemplate struct {
	ID        string
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

func NewShapeTemplate(name string, positions []mgl32.Vec3, indices []uint32) ShapeTemplate {
	return ShapeTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
}

func (t ShapeTemplate) VertexCount() int {
	return len(t.Positions)
}

func (t ShapeTemplate) Validate() error {
	n := len(t.Positions)
	if n == 0 {
		return fmt.Errorf("%w: %q has no vertices", ErrInvalidShape, t.Name)
	}
	if len(t.Normals) != 0 && len(t.Normals) != n {
		return fmt.Errorf("%w: %q has %d normals for %d vertices", ErrInvalidShape, t.Name, len(t.Normals), n)
	}
	if len(t.UVs) != 0 && len(t.UVs) != n {
		return fmt.Errorf("%w: %q has %d uvs for %d vertices", ErrInvalidShape, t.Name, len(t.UVs), n)
	}
	for _, idx := range t.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: %q index %d out of %d vertices", ErrInvalidShape, t.Name, idx, n)
		}
	}
	return nil
}

func (t ShapeTemplate) clone() ShapeTemplate {
	c := t
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Positions = append([]mgl32.Vec3(nil), t.Positions...)
	c.Normals = append([]mgl32.Vec3(nil), t.Normals...)
	c.UVs = append([]mgl32.Vec2(nil), t.UVs...)
	c.Indices = append([]uint32(nil), t.Indices...)
	return c
}

// IndexRange is the half-open particle index interval [Start, End).
type IndexRange struct {
	Start int
	End   int
}

func Range(start, end int) IndexRange {
	return IndexRange{Start: start, End: end}
}

func (r IndexRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r IndexRange) Empty() bool {
	return r.Len() == 0
}

func (r IndexRange) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Union returns the smallest range covering both.
func (r IndexRange) Union(o IndexRange) IndexRange {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return IndexRange{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

func (r IndexRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

type shapeEntry struct {
	template ShapeTemplate
	rng      IndexRange
}
