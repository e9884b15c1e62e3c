package sps

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App)
}

// Disposer is implemented by resources released when the App is disposed.
type Disposer interface {
	Dispose()
}

// App is the frame loop hosting particle pools: every Step runs the systems
// of each stage in order.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	modules   []Module
	built     bool
	frame     uint64
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range []Stage{PreUpdate, Update, PostUpdate, PreRender, Render} {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) UseModules(modules ...Module) *App {
	app.modules = append(app.modules, modules...)
	return app
}

// AddResources registers pointer resources by their element type. Adding two
// resources of the same type panics.
func (app *App) AddResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s is not a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type T registered on app.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}

func (app *App) Frame() uint64 {
	return app.frame
}

func (app *App) build() {
	if app.built {
		return
	}
	app.built = true
	// Modules may append more modules while installing.
	for i := 0; i < len(app.modules); i++ {
		app.modules[i].Install(app)
	}
}

// Step runs one frame through every stage. The first failing system stops the frame.
func (app *App) Step() error {
	app.build()
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			if err := app.callSystem(system); err != nil {
				return fmt.Errorf("stage %s: %w", stage.Name, err)
			}
		}
	}
	app.frame++
	return nil
}

// Run steps until ctx is done, a system fails, or frames frames ran.
// frames <= 0 runs until ctx is done.
func (app *App) Run(ctx context.Context, frames int) error {
	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := app.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Dispose releases every resource implementing Disposer.
func (app *App) Dispose() {
	for _, r := range app.resources {
		if d, ok := r.(Disposer); ok {
			d.Dispose()
		}
	}
}

var (
	typeOfApp   = reflect.TypeOf(App{})
	typeOfError = reflect.TypeOf((*error)(nil)).Elem()
)

// callSystem resolves the system's pointer arguments from the app and its
// resources. A system may return nothing or an error.
func (app *App) callSystem(system systemFn) error {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(app.dependencyError(systemType, systemValue, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfApp {
			args[i] = reflect.ValueOf(app)
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			panic(app.dependencyError(systemType, systemValue, argType))
		}
	}

	out := systemValue.Call(args)
	if len(out) == 1 && systemType.Out(0) == typeOfError && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func (app *App) dependencyError(systemType reflect.Type, systemValue reflect.Value, argType reflect.Type) string {
	return fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
}
