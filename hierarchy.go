package sps

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Hierarchy is the view of a pool the Resolver composes transforms over.
type Hierarchy interface {
	Len() int
	Parent(i int) int
	Local(i int) mgl32.Mat4
}

// ResolveResult describes one Resolve call.
type ResolveResult struct {
	Recomputed int
	Affected   IndexRange
	// Cycles is non-empty only on the call that (re)computed the order.
	Cycles []*HierarchyCycleError
}

const (
	unvisited uint8 = iota
	onPath
	done
)

// Resolver composes world transforms along parent links. The parent-first
// order is computed once and cached until Invalidate.
type Resolver struct {
	logger Logger

	order  []int
	broken []bool
	cycles []*HierarchyCycleError
	valid  bool

	state []uint8
	path  []int
	stale []bool
}

func NewResolver(logger Logger) *Resolver {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Resolver{logger: logger}
}

func (r *Resolver) Invalidate() {
	r.valid = false
}

func (r *Resolver) Valid() bool {
	return r.valid
}

// Order returns the cached parent-first visiting order, recomputing it if
// needed. Cycle members are reported once per recomputation and treated as
// roots. Parents outside [0, len(parents)) are treated as roots.
func (r *Resolver) Order(parents []int) ([]int, []*HierarchyCycleError) {
	n := len(parents)
	if r.valid && len(r.order) == n {
		return r.order, nil
	}

	r.order = resize(r.order, n)[:0]
	r.broken = resize(r.broken, n)
	r.state = resize(r.state, n)
	clear(r.broken)
	clear(r.state)
	r.cycles = r.cycles[:0]

	for i := 0; i < n; i++ {
		if r.state[i] == done {
			continue
		}
		r.path = r.path[:0]
		j := i
		for {
			if r.state[j] == done {
				break
			}
			if r.state[j] == onPath {
				k := len(r.path) - 1
				for r.path[k] != j {
					k--
				}
				members := append([]int(nil), r.path[k:]...)
				for _, m := range members {
					r.broken[m] = true
				}
				r.cycles = append(r.cycles, &HierarchyCycleError{Members: members})
				break
			}
			r.state[j] = onPath
			r.path = append(r.path, j)
			p := parents[j]
			if p < 0 || p >= n {
				break
			}
			j = p
		}
		// The path runs child to ancestor; emit it ancestor first.
		for k := len(r.path) - 1; k >= 0; k-- {
			r.state[r.path[k]] = done
			r.order = append(r.order, r.path[k])
		}
	}

	r.valid = true
	for _, c := range r.cycles {
		r.logger.Warnf("%v; resolving members as roots", c)
	}
	return r.order, r.cycles
}

// EffectiveParent is the parent used for composition: NoParent for roots,
// cycle members and out-of-range links. Only meaningful after Order.
func (r *Resolver) EffectiveParent(parents []int, i int) int {
	p := parents[i]
	if p < 0 || p >= len(parents) || (i < len(r.broken) && r.broken[i]) {
		return NoParent
	}
	return p
}

// Resolve recomputes world[i] = world[parent] * local(i) for every particle in
// touched and every descendant of a recomputed particle. Roots use origin as
// their base.
func (r *Resolver) Resolve(h Hierarchy, origin mgl32.Mat4, world []mgl32.Mat4, touched IndexRange) ResolveResult {
	n := h.Len()
	parents := make([]int, n)
	for i := range parents {
		parents[i] = h.Parent(i)
	}
	return r.resolve(h, parents, origin, world, touched)
}

func (r *Resolver) resolve(h Hierarchy, parents []int, origin mgl32.Mat4, world []mgl32.Mat4, touched IndexRange) ResolveResult {
	var res ResolveResult
	wasValid := r.valid && len(r.order) == len(parents)
	order, cycles := r.Order(parents)
	if !wasValid {
		res.Cycles = append(res.Cycles, cycles...)
	}

	r.stale = resize(r.stale, len(parents))
	clear(r.stale)

	lo, hi := len(parents), -1
	for _, i := range order {
		p := r.EffectiveParent(parents, i)
		if !touched.Contains(i) && (p == NoParent || !r.stale[p]) {
			continue
		}
		base := origin
		if p != NoParent {
			base = world[p]
		}
		world[i] = base.Mul4(h.Local(i))
		r.stale[i] = true
		res.Recomputed++
		lo = min(lo, i)
		hi = max(hi, i)
	}
	if hi >= lo {
		res.Affected = Range(lo, hi+1)
	}
	return res
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
