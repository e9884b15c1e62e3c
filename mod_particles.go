package sps

import (
	"fmt"

	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Stepper is the type-erased view of a Pool the frame loop and renderers use.
type Stepper interface {
	ID() uuid.UUID
	Name() string
	Capacity() int
	Clock() Clock
	Bounds() (minB, maxB mgl32.Vec3, ok bool)
	Step(frame FrameContext) (StepResult, error)
	DrawOrder() []int
	World(i int) mgl32.Mat4
	ColorAt(i int) mgl32.Vec4
	VisibleAt(i int) bool
	Dispose()
}

var _ Stepper = (*Pool[struct{}])(nil)

// FailurePolicy decides what the frame loop does when a pool's hooks fail.
type FailurePolicy int

const (
	// SkipFrame logs the failure and steps the pool again next frame.
	SkipFrame FailurePolicy = iota
	// StopPool logs the failure and stops stepping that pool.
	StopPool
	// Halt fails the frame.
	Halt
)

// ParticleRegistry is the resource holding the pools stepped every frame.
type ParticleRegistry struct {
	Policy FailurePolicy

	pools  []Stepper
	failed map[uuid.UUID]error
	last   map[uuid.UUID]StepResult
}

func NewParticleRegistry(policy FailurePolicy) *ParticleRegistry {
	return &ParticleRegistry{
		Policy: policy,
		failed: make(map[uuid.UUID]error),
		last:   make(map[uuid.UUID]StepResult),
	}
}

func (r *ParticleRegistry) Add(pools ...Stepper) {
	r.pools = append(r.pools, pools...)
}

func (r *ParticleRegistry) Pools() []Stepper {
	return r.pools
}

// Remove disposes the pool with id and stops stepping it.
func (r *ParticleRegistry) Remove(id uuid.UUID) bool {
	for i, p := range r.pools {
		if p.ID() == id {
			p.Dispose()
			r.pools = append(r.pools[:i], r.pools[i+1:]...)
			delete(r.failed, id)
			delete(r.last, id)
			return true
		}
	}
	return false
}

// LastResult is the result of the pool's latest successful step.
func (r *ParticleRegistry) LastResult(id uuid.UUID) (StepResult, bool) {
	res, ok := r.last[id]
	return res, ok
}

// Err returns the failure that stopped the pool under StopPool.
func (r *ParticleRegistry) Err(id uuid.UUID) error {
	return r.failed[id]
}

func (r *ParticleRegistry) Dispose() {
	for _, p := range r.pools {
		p.Dispose()
	}
	r.pools = nil
}

// ParticlesModule steps every registered pool once per frame in the Update stage.
type ParticlesModule struct {
	Pools  []Stepper
	Policy FailurePolicy
}

func (m ParticlesModule) Install(app *App) {
	registry := NewParticleRegistry(m.Policy)
	registry.Add(m.Pools...)
	app.AddResources(registry)

	if _, ok := Resource[Time](app); !ok {
		TimeModule{}.Install(app)
	}
	if _, ok := Resource[core.Camera](app); !ok {
		app.AddResources(core.NewCamera())
	}

	app.UseSystem(System(particlesSystem).InStage(Update))
}

func particlesSystem(app *App, registry *ParticleRegistry, t *Time, cam *core.Camera) error {
	frame := FrameContext{Dt: t.Dt, View: cam.ViewMatrix()}
	log := app.Logger()

	for _, pool := range registry.pools {
		id := pool.ID()
		if registry.failed[id] != nil {
			continue
		}
		res, err := pool.Step(frame)
		if err != nil {
			switch registry.Policy {
			case Halt:
				return fmt.Errorf("pool %s: %w", pool.Name(), err)
			case StopPool:
				registry.failed[id] = err
				log.Errorf("pool %s stopped: %v", pool.Name(), err)
			default:
				log.Warnf("pool %s skipped frame %d: %v", pool.Name(), app.Frame(), err)
			}
			continue
		}
		registry.last[id] = res
		if log.DebugEnabled() && res.Tick.CycleCompleted {
			log.Debugf("pool %s completed cycle at frame %d", pool.Name(), app.Frame())
		}
	}
	return nil
}
