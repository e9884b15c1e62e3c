package sps

import (
	"github.com/gekko3d/sps/core"
)

// DrawOrder returns the order particles should be drawn in: back to front
// when depth sorting is enabled, index order otherwise. The slice is owned by
// the pool.
func (p *Pool[E]) DrawOrder() []int {
	return p.drawOrder
}

// Emit appends one packed instance per visible particle to dst, in draw order.
func (p *Pool[E]) Emit(dst []core.ParticleInstance) []core.ParticleInstance {
	for _, i := range p.drawOrder {
		q := &p.particles[i]
		if !q.Visible {
			continue
		}
		dst = append(dst, core.PackInstance(p.world[i], q.Color))
	}
	return dst
}

// EmitRange appends one instance per particle of r in index order, invisible
// ones collapsed, for renderers that patch the dirty slots of an index-ordered
// instance buffer.
func (p *Pool[E]) EmitRange(dst []core.ParticleInstance, r IndexRange) ([]core.ParticleInstance, error) {
	if err := p.usable(); err != nil {
		return dst, err
	}
	if err := p.checkRange(r); err != nil {
		return dst, err
	}
	for i := r.Start; i < r.End; i++ {
		q := &p.particles[i]
		world := p.world[i]
		if !q.Visible {
			world = core.Collapse(world)
		}
		dst = append(dst, core.PackInstance(world, q.Color))
	}
	return dst, nil
}
