package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/core"
	"github.com/gekko3d/sps/shape"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r     rune
	style tcell.Style
}

type fakeCanvas struct {
	w, h  int
	cells map[[2]int]cell
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, cells: make(map[[2]int]cell)}
}

func (f *fakeCanvas) Size() (int, int) { return f.w, f.h }

func (f *fakeCanvas) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = cell{primary, style}
}

type placed struct {
	pos   mgl32.Vec3
	color mgl32.Vec4
	hide  bool
}

func poolOf(t *testing.T, ps ...placed) *sps.Pool[struct{}] {
	t.Helper()
	sim := sps.Hooks[struct{}]{
		InitializeFn: func(p sps.Particle[struct{}], shapeIndex int) (sps.Particle[struct{}], error) {
			p.Position = ps[p.Index].pos
			p.Color = ps[p.Index].color
			p.Visible = !ps[p.Index].hide
			return p, nil
		},
	}
	pool := sps.NewPool[struct{}](sim)
	_, err := pool.AddShape(shape.Point(), len(ps))
	require.NoError(t, err)
	require.NoError(t, pool.Build())
	return pool
}

func frontCamera() *core.Camera {
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.Target = mgl32.Vec3{}
	return cam
}

func TestRenderer_CenterParticle(t *testing.T) {
	red := mgl32.Vec4{1, 0, 0, 1}
	pool := poolOf(t, placed{pos: mgl32.Vec3{}, color: red})
	r := NewRenderer(frontCamera())
	c := newFakeCanvas(40, 20)

	require.Equal(t, 1, r.Draw(c, pool))
	got, ok := c.cells[[2]int{20, 10}]
	require.True(t, ok, "cells: %v", c.cells)
	assert.Equal(t, '█', got.r)
	assert.Equal(t, r.Style(red), got.style)
}

func TestRenderer_CullsAndHides(t *testing.T) {
	white := mgl32.Vec4{1, 1, 1, 1}
	pool := poolOf(t,
		placed{pos: mgl32.Vec3{0, 0, 20}, color: white},  // behind the camera
		placed{pos: mgl32.Vec3{500, 0, 0}, color: white}, // off to the side
		placed{pos: mgl32.Vec3{}, color: white, hide: true},
		placed{pos: mgl32.Vec3{}, color: mgl32.Vec4{1, 1, 1, 0}},
	)
	r := NewRenderer(frontCamera())
	c := newFakeCanvas(40, 20)
	assert.Equal(t, 0, r.Draw(c, pool))
	assert.Empty(t, c.cells)
}

func TestRenderer_NearestWins(t *testing.T) {
	near := mgl32.Vec4{0, 1, 0, 1}
	far := mgl32.Vec4{0, 0, 1, 1}
	// Index order draws the near particle first; the far one must not overwrite it.
	pool := poolOf(t,
		placed{pos: mgl32.Vec3{0, 0, 2}, color: near},
		placed{pos: mgl32.Vec3{0, 0, -5}, color: far},
	)
	r := NewRenderer(frontCamera())
	c := newFakeCanvas(40, 20)

	assert.Equal(t, 1, r.Draw(c, pool))
	assert.Equal(t, r.Style(near), c.cells[[2]int{20, 10}].style)
}

func TestRenderer_Glyphs(t *testing.T) {
	r := NewRenderer(frontCamera())
	_, ok := r.Glyph(0)
	assert.False(t, ok)
	g, _ := r.Glyph(0.01)
	assert.Equal(t, '.', g)
	g, _ = r.Glyph(0.5)
	assert.Equal(t, '*', g)
	g, _ = r.Glyph(3)
	assert.Equal(t, '█', g)
}

func TestRenderer_DrawText(t *testing.T) {
	r := NewRenderer(frontCamera())
	c := newFakeCanvas(5, 2)
	r.DrawText(c, 2, 1, "frame", tcell.StyleDefault)
	assert.Len(t, c.cells, 3)
	assert.Equal(t, 'f', c.cells[[2]int{2, 1}].r)
	assert.Equal(t, 'a', c.cells[[2]int{4, 1}].r)

	r.DrawText(c, 0, 5, "off", tcell.StyleDefault)
	assert.Len(t, c.cells, 3)
}
