// Package term draws particle pools into a character-cell terminal through tcell.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mattn/go-runewidth"
)

// Canvas is the part of tcell.Screen the renderer draws to.
type Canvas interface {
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

var _ Canvas = tcell.Screen(nil)

// DefaultGlyphs go from faint to opaque.
var DefaultGlyphs = []rune{'.', ':', '+', '*', '#', '█'}

// Renderer projects particle translations through a camera and plots one
// glyph per particle. Nearer particles win when two land on the same cell.
type Renderer struct {
	Camera     *core.Camera
	Glyphs     []rune
	Background tcell.Color
	// CellAspect is the height of a terminal cell over its width.
	CellAspect float32

	depth  []float32
	width  int
	height int
}

func NewRenderer(cam *core.Camera) *Renderer {
	return &Renderer{
		Camera:     cam,
		Glyphs:     DefaultGlyphs,
		Background: tcell.ColorBlack,
		CellAspect: 2,
	}
}

// Style is the cell style used for a particle of color c.
func (r *Renderer) Style(c mgl32.Vec4) tcell.Style {
	return tcell.StyleDefault.
		Background(r.Background).
		Foreground(tcell.NewRGBColor(channel(c[0]), channel(c[1]), channel(c[2])))
}

// Glyph picks the rune for alpha; ok is false for fully transparent particles.
func (r *Renderer) Glyph(alpha float32) (rune, bool) {
	if alpha <= 0 || len(r.Glyphs) == 0 {
		return 0, false
	}
	i := int(min(alpha, 1)*float32(len(r.Glyphs)-1) + 0.5)
	return r.Glyphs[i], true
}

// Draw plots every visible particle of pools and returns how many cells were written.
func (r *Renderer) Draw(c Canvas, pools ...sps.Stepper) int {
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return 0
	}
	r.reset(w, h)

	aspect := float32(w) / (float32(h) * r.CellAspect)
	vp := r.Camera.ProjectionMatrix(aspect).Mul4(r.Camera.ViewMatrix())
	planes := core.ExtractFrustum(vp)

	drawn := 0
	for _, pool := range pools {
		for _, i := range pool.DrawOrder() {
			if !pool.VisibleAt(i) {
				continue
			}
			color := pool.ColorAt(i)
			glyph, ok := r.Glyph(color[3])
			if !ok {
				continue
			}
			pos := core.Translation(pool.World(i))
			if !core.PointInFrustum(pos, planes) {
				continue
			}
			x, y, z, ok := r.project(vp, pos)
			if !ok {
				continue
			}
			cell := y*r.width + x
			if z >= r.depth[cell] {
				continue
			}
			r.depth[cell] = z
			c.SetContent(x, y, glyph, nil, r.Style(color))
			drawn++
		}
	}
	return drawn
}

// DrawText writes s on row y starting at column x, clipped to the canvas.
func (r *Renderer) DrawText(c Canvas, x, y int, s string, style tcell.Style) {
	w, h := c.Size()
	if y < 0 || y >= h {
		return
	}
	for _, ch := range s {
		if x >= w {
			return
		}
		if x >= 0 {
			c.SetContent(x, y, ch, nil, style)
		}
		x += max(runewidth.RuneWidth(ch), 1)
	}
}

func (r *Renderer) reset(w, h int) {
	r.width, r.height = w, h
	n := w * h
	if cap(r.depth) < n {
		r.depth = make([]float32, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = 2
	}
}

// project maps a world position to a cell and its NDC depth.
func (r *Renderer) project(vp mgl32.Mat4, pos mgl32.Vec3) (x, y int, z float32, ok bool) {
	clip := vp.Mul4x1(pos.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int((ndc.X() + 1) * 0.5 * float32(r.width))
	y = int((1 - ndc.Y()) * 0.5 * float32(r.height))
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0, 0, 0, false
	}
	return x, y, ndc.Z(), true
}

func channel(v float32) int32 {
	return int32(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}
