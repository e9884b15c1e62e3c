package sps

import (
	"cmp"
	"slices"

	"github.com/gekko3d/sps/core"
	"github.com/go-gl/mathgl/mgl32"
)

// DepthSorter orders particles back to front for alpha blending. It keeps its
// scratch buffers between calls.
type DepthSorter struct {
	depth []float32
	order []int
}

// Sort returns indices ordered by descending camera-space depth of each world
// matrix's translation. Ties keep index order. The returned slice is reused by
// the next call.
func (s *DepthSorter) Sort(world []mgl32.Mat4, view mgl32.Mat4) []int {
	s.depth = resize(s.depth, len(world))
	for i := range world {
		s.depth[i] = core.Depth(view, core.Translation(world[i]))
	}
	return s.SortDepths(s.depth)
}

// SortDepths orders indices of depths farthest first.
func (s *DepthSorter) SortDepths(depths []float32) []int {
	s.order = resize(s.order, len(depths))
	for i := range s.order {
		s.order[i] = i
	}
	slices.SortStableFunc(s.order, func(a, b int) int {
		return cmp.Compare(depths[b], depths[a])
	})
	return s.order
}
