package sps

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/gekko3d/sps/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_AddResources(t *testing.T) {
	app := NewApp()

	resource1 := NewMockResource1("Resource1")
	app.AddResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.AddResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.AddResources(resource2)
	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Equal(t, "Resource2", got.name)

	assert.Panics(t, func() { app.AddResources(MockResource1{}) })
}

func TestApp_SystemInjectionAndStages(t *testing.T) {
	app := NewApp()
	res := NewMockResource1("")
	app.AddResources(res)

	var calls []string
	app.UseStage(Stage{Name: "Late"}, AfterStage(Render))
	app.UseStage(Stage{Name: "Early"}, BeforeStage(PreUpdate))
	app.UseSystem(System(func(r *MockResource1) { calls = append(calls, "update:"+r.name) }))
	app.UseSystem(System(func(a *App, r *MockResource1) { r.name = fmt.Sprint(a.Frame()) }).InStage(Stage{Name: "Early"}))
	app.UseSystem(System(func() { calls = append(calls, "late") }).InStage(Stage{Name: "Late"}))

	require.NoError(t, app.Step())
	require.NoError(t, app.Step())
	assert.Equal(t, []string{"update:0", "late", "update:1", "late"}, calls)
	assert.Equal(t, uint64(2), app.Frame())
}

func TestApp_SystemErrorsAndMissingDependencies(t *testing.T) {
	boom := errors.New("boom")
	app := NewApp()
	app.UseSystem(System(func() error { return boom }).InStage(PostUpdate))

	err := app.Step()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage PostUpdate")
	assert.Equal(t, uint64(0), app.Frame())

	assert.Panics(t, func() { System(42) })
	assert.Panics(t, func() { System(func() int { return 0 }) })

	missing := NewApp()
	missing.UseSystem(System(func(r *MockResource2) {}))
	assert.Panics(t, func() { _ = missing.Step() })
}

func TestApp_RunStopsOnContextAndFrames(t *testing.T) {
	app := NewApp().UseModules(TimeModule{FixedStep: 10 * time.Millisecond})
	require.NoError(t, app.Run(context.Background(), 3))
	assert.Equal(t, uint64(3), app.Frame())

	tm, ok := Resource[Time](app)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, tm.Dt)
	assert.Equal(t, uint64(3), tm.Frame)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, app.Run(ctx, 0), context.Canceled)
}

func failingPool(t *testing.T, name string, calls *int, err error) *Pool[struct{}] {
	t.Helper()
	sim := Hooks[struct{}]{
		UpdateFn: func(p Particle[struct{}], clock Clock) (Particle[struct{}], error) {
			*calls++
			return p, err
		},
	}
	pool := NewPool[struct{}](sim, WithName(name))
	_, _ = pool.AddShape(pointTemplate(), 1)
	require.NoError(t, pool.Build())
	return pool
}

func TestParticlesModule_Policies(t *testing.T) {
	boom := errors.New("boom")

	t.Run("skip frame", func(t *testing.T) {
		log := newRecordLogger()
		var calls, okCalls int
		bad := failingPool(t, "bad", &calls, boom)
		good := failingPool(t, "good", &okCalls, nil)

		app := NewApp().AddResources(log).UseModules(ParticlesModule{Pools: []Stepper{bad, good}})
		require.NoError(t, app.Run(context.Background(), 3))

		assert.Equal(t, 3, calls)
		assert.Equal(t, 3, okCalls)
		assert.Equal(t, 3, log.count("warn", "pool bad skipped frame"))

		registry, ok := Resource[ParticleRegistry](app)
		require.True(t, ok)
		_, ok = registry.LastResult(bad.ID())
		assert.False(t, ok)
		res, ok := registry.LastResult(good.ID())
		require.True(t, ok)
		assert.Equal(t, 1, res.Scheduled)
	})

	t.Run("stop pool", func(t *testing.T) {
		log := newRecordLogger()
		var calls int
		bad := failingPool(t, "bad", &calls, boom)

		app := NewApp().AddResources(log).UseModules(ParticlesModule{Pools: []Stepper{bad}, Policy: StopPool})
		require.NoError(t, app.Run(context.Background(), 3))

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, log.count("error", "pool bad stopped"))
		registry, _ := Resource[ParticleRegistry](app)
		assert.ErrorIs(t, registry.Err(bad.ID()), boom)
	})

	t.Run("halt", func(t *testing.T) {
		var calls int
		bad := failingPool(t, "bad", &calls, boom)

		app := NewApp().UseModules(ParticlesModule{Pools: []Stepper{bad}, Policy: Halt})
		err := app.Step()
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		var hookErr *HookError
		require.ErrorAs(t, err, &hookErr)
		assert.Equal(t, "update", hookErr.Hook)
	})
}

func TestParticlesModule_DefaultsAndDispose(t *testing.T) {
	var calls int
	pool := failingPool(t, "p", &calls, nil)
	cam := core.NewCamera()
	cam.Position[2] = 42

	app := NewApp().AddResources(cam).UseModules(ParticlesModule{Pools: []Stepper{pool}})
	require.NoError(t, app.Step())

	got, ok := Resource[core.Camera](app)
	require.True(t, ok)
	assert.Same(t, cam, got)
	_, ok = Resource[Time](app)
	assert.True(t, ok)

	registry, _ := Resource[ParticleRegistry](app)
	assert.Len(t, registry.Pools(), 1)
	assert.True(t, registry.Remove(pool.ID()))
	assert.False(t, registry.Remove(pool.ID()))
	assert.Empty(t, registry.Pools())
	assert.False(t, pool.Built())

	app.Dispose()
}
