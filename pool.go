package sps

import (
	"fmt"
	"time"

	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type poolConfig struct {
	name             string
	logger           Logger
	maxCapacity      int
	scheduler        *Scheduler
	depthSort        bool
	computeColor     bool
	computeTransform bool
	clockStep        float32
	origin           mgl32.Mat4
}

type Option func(*poolConfig)

func WithName(name string) Option {
	return func(c *poolConfig) { c.name = name }
}

func WithLogger(l Logger) Option {
	return func(c *poolConfig) { c.logger = l }
}

// WithMaxCapacity sets a ceiling on the total particle count; zero means none.
func WithMaxCapacity(n int) Option {
	return func(c *poolConfig) { c.maxCapacity = n }
}

func WithScheduler(s *Scheduler) Option {
	return func(c *poolConfig) { c.scheduler = s }
}

// WithWindow selects windowed updates of window w (w+1 particles per frame).
func WithWindow(w int) Option {
	return func(c *poolConfig) { c.scheduler = NewWindowedScheduler(w) }
}

// WithDepthSort enables back-to-front draw ordering on every Step.
func WithDepthSort(enabled bool) Option {
	return func(c *poolConfig) { c.depthSort = enabled }
}

func WithComputeColor(enabled bool) Option {
	return func(c *poolConfig) { c.computeColor = enabled }
}

func WithComputeTransform(enabled bool) Option {
	return func(c *poolConfig) { c.computeTransform = enabled }
}

// WithClockStep sets how far Clock.K advances per completed cycle.
func WithClockStep(step float32) Option {
	return func(c *poolConfig) { c.clockStep = step }
}

func WithOrigin(origin mgl32.Mat4) Option {
	return func(c *poolConfig) { c.origin = origin }
}

// FrameContext carries the per-frame inputs of Step.
type FrameContext struct {
	Dt   time.Duration
	View mgl32.Mat4
}

// StepResult summarizes one Step.
type StepResult struct {
	Tick       Tick
	Scheduled  int
	Recomputed int
	Cycles     []*HierarchyCycleError
}

// Pool is a fixed-capacity, index-addressed particle container. It is not
// safe for concurrent use.
type Pool[E any] struct {
	id   uuid.UUID
	name string

	// ComputeColor and ComputeTransform gate the derived vertex buffers and
	// world matrices. Clearing them freezes what the renderer sees.
	ComputeColor     bool
	ComputeTransform bool
	// Origin is the base transform of unparented particles.
	Origin mgl32.Mat4

	sim         Simulation[E]
	logger      Logger
	scheduler   *Scheduler
	resolver    *Resolver
	sorter      *DepthSorter
	clock       Clock
	maxCapacity int

	shapes   []shapeEntry
	reserved int

	particles []Particle[E]
	parents   []int
	world     []mgl32.Mat4
	drawOrder []int
	buffers   vertexBuffers

	dirty   IndexRange
	pending IndexRange
	staged  []stagedWrite[E]

	built    bool
	disposed bool
}

func NewPool[E any](sim Simulation[E], opts ...Option) *Pool[E] {
	cfg := poolConfig{
		computeColor:     true,
		computeTransform: true,
		clockStep:        1,
		origin:           mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = NewNopLogger()
	}
	if cfg.scheduler == nil {
		cfg.scheduler = NewScheduler()
	}
	if sim == nil {
		sim = Hooks[E]{}
	}

	p := &Pool[E]{
		id:               uuid.New(),
		name:             cfg.name,
		ComputeColor:     cfg.computeColor,
		ComputeTransform: cfg.computeTransform,
		Origin:           cfg.origin,
		sim:              sim,
		logger:           cfg.logger,
		scheduler:        cfg.scheduler,
		resolver:         NewResolver(cfg.logger),
		clock:            NewClock(cfg.clockStep),
		maxCapacity:      cfg.maxCapacity,
	}
	if cfg.depthSort {
		p.sorter = &DepthSorter{}
	}
	if p.name == "" {
		p.name = p.id.String()[:8]
	}
	return p
}

func (p *Pool[E]) ID() uuid.UUID         { return p.id }
func (p *Pool[E]) Name() string          { return p.name }
func (p *Pool[E]) Built() bool           { return p.built }
func (p *Pool[E]) Clock() Clock          { return p.clock }
func (p *Pool[E]) Scheduler() *Scheduler { return p.scheduler }
func (p *Pool[E]) DepthSort() bool       { return p.sorter != nil }

// Capacity is the number of particles; before Build it is the number reserved.
func (p *Pool[E]) Capacity() int {
	if p.built {
		return len(p.particles)
	}
	return p.reserved
}

// AddShape reserves count contiguous indices stamped from tpl.
func (p *Pool[E]) AddShape(tpl ShapeTemplate, count int) (IndexRange, error) {
	if p.disposed {
		return IndexRange{}, ErrDisposed
	}
	if p.built {
		return IndexRange{}, fmt.Errorf("%w: pool %s is already built", ErrCapacityExceeded, p.name)
	}
	if count <= 0 {
		return IndexRange{}, fmt.Errorf("%w: count %d for %q", ErrInvalidShape, count, tpl.Name)
	}
	if err := tpl.Validate(); err != nil {
		return IndexRange{}, err
	}
	if p.maxCapacity > 0 && p.reserved+count > p.maxCapacity {
		return IndexRange{}, fmt.Errorf("%w: %d + %d exceeds ceiling %d", ErrCapacityExceeded, p.reserved, count, p.maxCapacity)
	}

	rng := Range(p.reserved, p.reserved+count)
	p.shapes = append(p.shapes, shapeEntry{template: tpl.clone(), rng: rng})
	p.reserved += count
	return rng, nil
}

// Build materializes the particles and render buffers and runs Initialize
// over every particle. Building again reallocates everything: ranges and
// indices held from before must be fetched again.
func (p *Pool[E]) Build() error {
	if p.disposed {
		return ErrDisposed
	}
	if p.built {
		p.logger.Warnf("pool %s rebuilt; previously held indices are invalid", p.name)
	}

	n := p.reserved
	particles := make([]Particle[E], n)
	parents := make([]int, n)
	for shapeID, s := range p.shapes {
		for k := 0; k < s.rng.Len(); k++ {
			idx := s.rng.Start + k
			particles[idx] = newParticle[E](idx, shapeID, k)
		}
	}
	for i := range parents {
		parents[i] = NoParent
	}

	p.built = false
	p.particles = particles
	p.parents = parents
	p.world = make([]mgl32.Mat4, n)
	p.drawOrder = make([]int, n)
	for i := range p.drawOrder {
		p.drawOrder[i] = i
		p.world[i] = p.Origin
	}

	for i := range p.particles {
		q, err := p.sim.Initialize(p.particles[i], p.particles[i].ShapeIndex)
		if err != nil {
			p.particles, p.parents, p.world, p.drawOrder = nil, nil, nil, nil
			return &HookError{Hook: "initialize", Index: i, Err: err}
		}
		if err := p.writeBack(i, q); err != nil {
			p.particles, p.parents, p.world, p.drawOrder = nil, nil, nil, nil
			return err
		}
	}

	p.built = true
	p.resolver.Invalidate()
	p.scheduler.Reset()
	p.buffers.build(p.shapes, n)

	all := Range(0, n)
	p.pending = all
	p.Resolve()
	p.dirty = all

	p.logger.Debugf("pool %s built: %d particles from %d shapes, %d vertices", p.name, n, len(p.shapes), p.buffers.vertexCount())
	return nil
}

func (p *Pool[E]) usable() error {
	if p.disposed {
		return ErrDisposed
	}
	if !p.built {
		return ErrNotBuilt
	}
	return nil
}

func (p *Pool[E]) checkIndex(i int) error {
	if i < 0 || i >= len(p.particles) {
		return invalidIndex("particle %d outside pool of %d", i, len(p.particles))
	}
	return nil
}

func (p *Pool[E]) checkRange(r IndexRange) error {
	if r.Start < 0 || r.End > len(p.particles) || r.Start > r.End {
		return invalidIndex("range %v outside pool of %d", r, len(p.particles))
	}
	return nil
}

// writeBack stores q at i, keeping the identity fields owned by the pool.
func (p *Pool[E]) writeBack(i int, q Particle[E]) error {
	if err := p.checkParent(i, q); err != nil {
		return err
	}
	p.commit(i, q)
	return nil
}

func (p *Pool[E]) checkParent(i int, q Particle[E]) error {
	if q.ParentID != NoParent && (q.ParentID < 0 || q.ParentID >= len(p.particles)) {
		return invalidIndex("particle %d parent %d outside pool of %d", i, q.ParentID, len(p.particles))
	}
	return nil
}

func (p *Pool[E]) commit(i int, q Particle[E]) {
	cur := &p.particles[i]
	q.Index, q.ShapeID, q.ShapeIndex = cur.Index, cur.ShapeID, cur.ShapeIndex
	if p.parents[i] != q.ParentID {
		p.parents[i] = q.ParentID
		p.resolver.Invalidate()
	}
	*cur = q
}

func (p *Pool[E]) touch(r IndexRange) {
	p.dirty = p.dirty.Union(r)
	p.pending = p.pending.Union(r)
}

type stagedWrite[E any] struct {
	index    int
	particle Particle[E]
}

// apply runs f over r and stages the results. An invalid parent anywhere in
// the pass discards every staged write. A hook error keeps the writes of the
// indices before it.
func (p *Pool[E]) apply(r IndexRange, hook string, skipDead bool, f func(Particle[E]) (Particle[E], error)) error {
	staged := p.staged[:0]
	defer func() { p.staged = staged[:0] }()

	for i := r.Start; i < r.End; i++ {
		if skipDead && !p.particles[i].Alive {
			continue
		}
		q, err := f(p.particles[i])
		if err != nil {
			p.commitStaged(staged)
			p.touch(Range(r.Start, i))
			return &HookError{Hook: hook, Index: i, Err: err}
		}
		if err := p.checkParent(i, q); err != nil {
			return err
		}
		staged = append(staged, stagedWrite[E]{index: i, particle: q})
	}
	p.commitStaged(staged)
	p.touch(r)
	return nil
}

func (p *Pool[E]) commitStaged(staged []stagedWrite[E]) {
	for _, w := range staged {
		p.commit(w.index, w.particle)
	}
}

// ForEach applies f to every particle in r in ascending index order, writing
// each result back in place. An invalid range mutates nothing.
func (p *Pool[E]) ForEach(r IndexRange, f func(Particle[E]) (Particle[E], error)) error {
	if err := p.usable(); err != nil {
		return err
	}
	if err := p.checkRange(r); err != nil {
		return err
	}
	return p.apply(r, "forEach", false, f)
}

// Update runs the Update hook over the alive particles of r.
func (p *Pool[E]) Update(r IndexRange) error {
	if err := p.usable(); err != nil {
		return err
	}
	if err := p.checkRange(r); err != nil {
		return err
	}
	if b, ok := p.sim.(BeforeUpdater); ok {
		if err := b.BeforeUpdate(r, p.clock); err != nil {
			return &HookError{Hook: "beforeUpdate", Index: r.Start, Err: err}
		}
	}
	clock := p.clock
	err := p.apply(r, "update", true, func(q Particle[E]) (Particle[E], error) {
		return p.sim.Update(q, clock)
	})
	if err != nil {
		return err
	}
	if a, ok := p.sim.(AfterUpdater); ok {
		if err := a.AfterUpdate(r, p.clock); err != nil {
			return &HookError{Hook: "afterUpdate", Index: r.End - 1, Err: err}
		}
	}
	return nil
}

// Recycle runs the Recycle hook for particle i.
func (p *Pool[E]) Recycle(i int) error {
	if err := p.usable(); err != nil {
		return err
	}
	if err := p.checkIndex(i); err != nil {
		return err
	}
	return p.apply(Range(i, i+1), "recycle", false, func(q Particle[E]) (Particle[E], error) {
		parent := q.ParentID
		q, err := p.sim.Recycle(q)
		q.ParentID = parent
		return q, err
	})
}

func (p *Pool[E]) Particle(i int) (Particle[E], error) {
	if err := p.usable(); err != nil {
		return Particle[E]{}, err
	}
	if err := p.checkIndex(i); err != nil {
		return Particle[E]{}, err
	}
	return p.particles[i], nil
}

// SetParticle overwrites the state of particle i from scene code.
func (p *Pool[E]) SetParticle(i int, q Particle[E]) error {
	if err := p.usable(); err != nil {
		return err
	}
	if err := p.checkIndex(i); err != nil {
		return err
	}
	if err := p.writeBack(i, q); err != nil {
		return err
	}
	p.touch(Range(i, i+1))
	return nil
}

// SetParent links child to parent (or NoParent) and invalidates the cached order.
func (p *Pool[E]) SetParent(child, parent int) error {
	if err := p.usable(); err != nil {
		return err
	}
	if err := p.checkIndex(child); err != nil {
		return err
	}
	q := p.particles[child]
	q.ParentID = parent
	return p.SetParticle(child, q)
}

// Particles returns a copy of every particle.
func (p *Pool[E]) Particles() []Particle[E] {
	return append([]Particle[E](nil), p.particles...)
}

// World returns the world matrix of particle i. It panics when i is out of range.
func (p *Pool[E]) World(i int) mgl32.Mat4 {
	return p.world[i]
}

// ColorAt returns the color of particle i. It panics when i is out of range.
func (p *Pool[E]) ColorAt(i int) mgl32.Vec4 {
	return p.particles[i].Color
}

// VisibleAt reports whether particle i is drawn. It panics when i is out of range.
func (p *Pool[E]) VisibleAt(i int) bool {
	return p.particles[i].Visible
}

func (p *Pool[E]) ShapeCount() int {
	return len(p.shapes)
}

// Shape returns a copy of the template of shapeID and its index range.
func (p *Pool[E]) Shape(shapeID int) (ShapeTemplate, IndexRange, error) {
	if shapeID < 0 || shapeID >= len(p.shapes) {
		return ShapeTemplate{}, IndexRange{}, invalidIndex("shape %d of %d", shapeID, len(p.shapes))
	}
	s := p.shapes[shapeID]
	return s.template.clone(), s.rng, nil
}

// Dirty is the union of ranges written since the last ConsumeDirty.
func (p *Pool[E]) Dirty() IndexRange {
	return p.dirty
}

// ConsumeDirty returns and clears the dirty range.
func (p *Pool[E]) ConsumeDirty() IndexRange {
	d := p.dirty
	p.dirty = IndexRange{}
	return d
}

// Resolve recomputes world transforms of particles written since the last
// Resolve, and of their descendants, then refreshes the vertex buffers.
func (p *Pool[E]) Resolve() ResolveResult {
	if !p.built {
		return ResolveResult{}
	}
	pending := p.pending
	p.pending = IndexRange{}

	var res ResolveResult
	if p.ComputeTransform {
		res = p.resolver.resolve(poolHierarchy[E]{p}, p.parents, p.Origin, p.world, pending)
		p.dirty = p.dirty.Union(res.Affected)
	}
	p.buffers.refresh(p, pending.Union(res.Affected))
	return res
}

// Sort recomputes the draw order for view when depth sorting is enabled.
func (p *Pool[E]) Sort(view mgl32.Mat4) {
	if p.sorter == nil || !p.built {
		return
	}
	copy(p.drawOrder, p.sorter.Sort(p.world, view))
}

// Step runs one frame: pick the scheduled range, update it, resolve
// transforms, advance the clock phase on a completed cycle, and sort.
func (p *Pool[E]) Step(frame FrameContext) (StepResult, error) {
	if err := p.usable(); err != nil {
		return StepResult{}, err
	}
	p.clock.Tick(frame.Dt)
	tick := p.scheduler.Next(len(p.particles))
	res := StepResult{Tick: tick, Scheduled: tick.Range.Len()}

	err := p.Update(tick.Range)
	// The scheduler has already moved on, failed or not.
	if tick.CycleCompleted {
		p.clock.CompleteCycle()
	}
	if err != nil {
		return res, err
	}
	rr := p.Resolve()
	res.Recomputed = rr.Recomputed
	res.Cycles = rr.Cycles
	p.Sort(frame.View)
	return res, nil
}

// Bounds returns the world-space box around the translations of visible
// particles. ok is false when nothing is visible.
func (p *Pool[E]) Bounds() (minB, maxB mgl32.Vec3, ok bool) {
	for i := range p.particles {
		if !p.particles[i].Visible {
			continue
		}
		t := core.Translation(p.world[i])
		if !ok {
			minB, maxB, ok = t, t, true
			continue
		}
		for k := 0; k < 3; k++ {
			minB[k] = min(minB[k], t[k])
			maxB[k] = max(maxB[k], t[k])
		}
	}
	return minB, maxB, ok
}

// Dispose releases the pool's memory; the pool is unusable afterwards.
func (p *Pool[E]) Dispose() {
	if p.disposed {
		return
	}
	p.logger.Debugf("pool %s disposed", p.name)
	p.disposed = true
	p.built = false
	p.particles, p.parents, p.world, p.drawOrder = nil, nil, nil, nil
	p.shapes = nil
	p.buffers = vertexBuffers{}
}

type poolHierarchy[E any] struct {
	p *Pool[E]
}

func (h poolHierarchy[E]) Len() int { return len(h.p.particles) }

func (h poolHierarchy[E]) Parent(i int) int { return h.p.parents[i] }

func (h poolHierarchy[E]) Local(i int) mgl32.Mat4 {
	return h.p.particles[i].LocalMatrix()
}
