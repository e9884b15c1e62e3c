package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gekko3d/sps"
	"github.com/gekko3d/sps/config"
	"github.com/gekko3d/sps/core"
	"github.com/gekko3d/sps/sims"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraRig turns the camera around its target.
type cameraRig struct {
	Speed  float32
	Yaw    float32
	Radius float32
	Height float32
}

func newScene(cfg *config.Config, logger sps.Logger) (*sps.App, error) {
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3(cfg.Camera.Position)
	cam.Target = mgl32.Vec3(cfg.Camera.Target)
	cam.FovY = mgl32.DegToRad(cfg.Camera.FovY)

	offset := cam.Position.Sub(cam.Target)
	rig := &cameraRig{
		Speed:  cfg.Camera.OrbitSpeed,
		Radius: mgl32.Vec2{offset.X(), offset.Z()}.Len(),
		Height: offset.Y(),
	}

	pools := make([]sps.Stepper, 0, len(cfg.Pools))
	for _, pc := range cfg.Pools {
		pool, err := sims.NewPool(pc, logger)
		if err != nil {
			for _, p := range pools {
				p.Dispose()
			}
			return nil, err
		}
		logger.Infof("pool %s: %s x%d (%s)", pool.Name(), pc.Simulation, pool.Capacity(), schedule(pc))
		pools = append(pools, pool)
	}

	app := sps.NewApp().
		AddResources(logger, cam, rig).
		UseModules(
			sps.TimeModule{FixedStep: cfg.Loop.FixedStep},
			sps.ParticlesModule{Pools: pools, Policy: policy(cfg.Loop.OnFailure)},
		)
	app.UseSystem(sps.System(cameraRigSystem).InStage(sps.PreUpdate))
	return app, nil
}

func cameraRigSystem(t *sps.Time, rig *cameraRig, cam *core.Camera) {
	if rig.Speed == 0 {
		return
	}
	rig.Yaw += rig.Speed * float32(t.Dt.Seconds())
	cam.Orbit(rig.Yaw, rig.Radius, rig.Height)
}

func policy(name string) sps.FailurePolicy {
	switch name {
	case "stop":
		return sps.StopPool
	case "halt":
		return sps.Halt
	}
	return sps.SkipFrame
}

func schedule(pc config.PoolConfig) string {
	if pc.Windowed {
		return fmt.Sprintf("window %d", pc.Window)
	}
	return "full pass"
}

func printStats(registry *sps.ParticleRegistry, frames uint64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "pool\tparticles\tcycles\tK\tbounds\n")
	for _, p := range registry.Pools() {
		bounds := "-"
		if lo, hi, ok := p.Bounds(); ok {
			bounds = fmt.Sprintf("(%.1f %.1f %.1f)..(%.1f %.1f %.1f)", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
		}
		status := ""
		if err := registry.Err(p.ID()); err != nil {
			status = " stopped"
		}
		clock := p.Clock()
		fmt.Fprintf(w, "%s%s\t%d\t%d\t%.2f\t%s\n", p.Name(), status, p.Capacity(), clock.Cycle, clock.K, bounds)
	}
	fmt.Fprintf(w, "frames\t%d\n", frames)
	_ = w.Flush()
}
