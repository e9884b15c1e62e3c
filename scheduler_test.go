package sps

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_FullPass(t *testing.T) {
	s := NewScheduler()
	for i := 0; i < 3; i++ {
		tick := s.Next(10)
		assert.Equal(t, Range(0, 10), tick.Range)
		assert.True(t, tick.CycleCompleted)
	}
	assert.Equal(t, uint64(3), s.Cycles())
	assert.Equal(t, 1, s.TicksPerCycle(10))
	assert.Equal(t, "full", s.Mode().String())
}

func TestScheduler_WindowedCoverage(t *testing.T) {
	cases := []struct {
		n, w int
	}{
		{1, 0}, {10, 0}, {10, 1}, {10, 3}, {10, 9}, {10, 20}, {1000, 99}, {7, 2},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("n=%d/w=%d", c.n, c.w), func(t *testing.T) {
			s := NewWindowedScheduler(c.w)
			ticks := s.TicksPerCycle(c.n)
			assert.Equal(t, (c.n+c.w)/(c.w+1), ticks)

			// Two full cycles: each index exactly once per cycle.
			for cycle := 0; cycle < 2; cycle++ {
				visits := make([]int, c.n)
				for k := 0; k < ticks; k++ {
					tick := s.Next(c.n)
					assert.LessOrEqual(t, tick.Range.Len(), c.w+1)
					for i := tick.Range.Start; i < tick.Range.End; i++ {
						visits[i]++
					}
					assert.Equal(t, k == ticks-1, tick.CycleCompleted, "tick %d", k)
				}
				for i, v := range visits {
					require.Equal(t, 1, v, "index %d in cycle %d", i, cycle)
				}
			}
			assert.Equal(t, uint64(2), s.Cycles())
			assert.Equal(t, 0, s.Cursor())
		})
	}
}

func TestScheduler_ShortFinalWindow(t *testing.T) {
	s := NewWindowedScheduler(3)
	assert.Equal(t, Range(0, 4), s.Next(10).Range)
	assert.Equal(t, Range(4, 8), s.Next(10).Range)
	last := s.Next(10)
	assert.Equal(t, Range(8, 10), last.Range)
	assert.True(t, last.CycleCompleted)
	assert.Equal(t, Range(0, 4), s.Next(10).Range)
}

func TestScheduler_CursorAndEdges(t *testing.T) {
	s := NewWindowedScheduler(-4)
	assert.Equal(t, 0, s.Window())
	assert.Equal(t, "windowed", s.Mode().String())

	s = NewWindowedScheduler(2)
	err := s.SetCursor(10, 10)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	assert.Error(t, s.SetCursor(-1, 10))

	require.NoError(t, s.SetCursor(8, 10))
	tick := s.Next(10)
	assert.Equal(t, Range(8, 10), tick.Range)
	assert.True(t, tick.CycleCompleted)

	// Capacity shrank below the cursor.
	require.NoError(t, s.SetCursor(6, 10))
	assert.Equal(t, Range(0, 3), s.Next(4).Range)

	empty := s.Next(0)
	assert.True(t, empty.Range.Empty())
	assert.True(t, empty.CycleCompleted)

	s.Reset()
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, uint64(0), s.Cycles())
}

func TestPool_ClockAdvancesOncePerCycle(t *testing.T) {
	var seen []float32
	sim := Hooks[struct{}]{
		UpdateFn: func(p Particle[struct{}], clock Clock) (Particle[struct{}], error) {
			if p.Index == 0 {
				seen = append(seen, clock.K)
			}
			return p, nil
		},
	}
	pool := NewPool[struct{}](sim, WithWindow(4), WithClockStep(0.5))
	_, _ = pool.AddShape(pointTemplate(), 10)
	require.NoError(t, pool.Build())

	frame := FrameContext{Dt: 16 * time.Millisecond, View: mgl32.Ident4()}
	completed := 0
	for i := 0; i < 6; i++ {
		res, err := pool.Step(frame)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Scheduled)
		if res.Tick.CycleCompleted {
			completed++
		}
	}

	assert.Equal(t, 3, completed)
	assert.Equal(t, []float32{0, 0.5, 1}, seen)
	assert.Equal(t, float32(1.5), pool.Clock().K)
	assert.Equal(t, uint64(3), pool.Clock().Cycle)
	assert.Equal(t, uint64(6), pool.Clock().Frame)
	assert.Equal(t, 96*time.Millisecond, pool.Clock().Elapsed)
}

func TestPool_ClockFollowsSchedulerAfterFailedTick(t *testing.T) {
	failed := false
	sim := Hooks[struct{}]{
		UpdateFn: func(p Particle[struct{}], clock Clock) (Particle[struct{}], error) {
			if p.Index == 5 && !failed {
				failed = true
				return p, errors.New("boom")
			}
			return p, nil
		},
	}
	pool := NewPool[struct{}](sim, WithWindow(2), WithClockStep(1))
	_, _ = pool.AddShape(pointTemplate(), 6)
	require.NoError(t, pool.Build())

	frame := FrameContext{Dt: 16 * time.Millisecond, View: mgl32.Ident4()}
	var errs int
	for i := 0; i < 4; i++ {
		res, err := pool.Step(frame)
		if err != nil {
			errs++
			assert.True(t, res.Tick.CycleCompleted)
			var hookErr *HookError
			require.ErrorAs(t, err, &hookErr)
			assert.Equal(t, 5, hookErr.Index)
		}
	}

	assert.Equal(t, 1, errs)
	assert.Equal(t, uint64(2), pool.Scheduler().Cycles())
	assert.Equal(t, pool.Scheduler().Cycles(), pool.Clock().Cycle)
	assert.Equal(t, float32(2), pool.Clock().K)
}
