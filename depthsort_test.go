package sps

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthSorter_SortDepths(t *testing.T) {
	var s DepthSorter
	assert.Equal(t, []int{1, 2, 0}, s.SortDepths([]float32{1, 5, 3}))
	assert.Equal(t, []int{1, 0, 2, 3}, s.SortDepths([]float32{2, 4, 2, 2}))
	assert.Empty(t, s.SortDepths(nil))
}

func depthSim(zs ...float32) Hooks[struct{}] {
	return Hooks[struct{}]{
		InitializeFn: func(p Particle[struct{}], shapeIndex int) (Particle[struct{}], error) {
			p.Position = mgl32.Vec3{0, 0, zs[p.Index]}
			return p, nil
		},
	}
}

func TestPool_DepthSortedDrawOrder(t *testing.T) {
	pool := NewPool[struct{}](depthSim(-1, -5, -3), WithDepthSort(true))
	_, _ = pool.AddShape(pointTemplate(), 3)
	require.NoError(t, pool.Build())

	_, err := pool.Step(FrameContext{View: mgl32.Ident4()})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, pool.DrawOrder())

	instances := pool.Emit(nil)
	require.Len(t, instances, 3)
	assert.Equal(t, float32(-5), instances[0].Model[14])
	assert.Equal(t, float32(-1), instances[2].Model[14])

	// Looking from the other side reverses the order.
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, -20}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	pool.Sort(view)
	assert.Equal(t, []int{0, 2, 1}, pool.DrawOrder())
}

func TestPool_DepthSortDisabledKeepsIndexOrder(t *testing.T) {
	pool := NewPool[struct{}](depthSim(-1, -5, -3))
	_, _ = pool.AddShape(pointTemplate(), 3)
	require.NoError(t, pool.Build())
	assert.False(t, pool.DepthSort())

	_, err := pool.Step(FrameContext{View: mgl32.Ident4()})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, pool.DrawOrder())
}
