package sps

// Simulation supplies the lifecycle hooks of a pool. Each hook receives one
// particle by value and returns its replacement; the pool writes the result
// back only when the hook succeeds.
type Simulation[E any] interface {
	// Initialize runs once per particle at Build time, in ascending index order.
	// shapeIndex is the particle's position inside its shape group.
	Initialize(p Particle[E], shapeIndex int) (Particle[E], error)
	// Update runs for every alive particle in the scheduled window. It must
	// depend only on the particle's own state and the clock.
	Update(p Particle[E], clock Clock) (Particle[E], error)
	// Recycle restarts a particle's life. It is called by Update implementations
	// and by Pool.Recycle.
	Recycle(p Particle[E]) (Particle[E], error)
}

// BeforeUpdater is implemented by simulations that need a callback before
// each update pass.
type BeforeUpdater interface {
	BeforeUpdate(r IndexRange, clock Clock) error
}

// AfterUpdater is implemented by simulations that need a callback after
// each successful update pass.
type AfterUpdater interface {
	AfterUpdate(r IndexRange, clock Clock) error
}

// Hooks adapts plain functions to Simulation. Nil hooks are the identity.
type Hooks[E any] struct {
	InitializeFn func(p Particle[E], shapeIndex int) (Particle[E], error)
	UpdateFn     func(p Particle[E], clock Clock) (Particle[E], error)
	RecycleFn    func(p Particle[E]) (Particle[E], error)
}

func (h Hooks[E]) Initialize(p Particle[E], shapeIndex int) (Particle[E], error) {
	if h.InitializeFn == nil {
		return p, nil
	}
	return h.InitializeFn(p, shapeIndex)
}

func (h Hooks[E]) Update(p Particle[E], clock Clock) (Particle[E], error) {
	if h.UpdateFn == nil {
		return p, nil
	}
	return h.UpdateFn(p, clock)
}

func (h Hooks[E]) Recycle(p Particle[E]) (Particle[E], error) {
	if h.RecycleFn == nil {
		return p, nil
	}
	return h.RecycleFn(p)
}
