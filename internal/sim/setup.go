package sim

import (
	"context"
	"math/rand"

	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/config"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/render"
	"github.com/san-kum/spherelab/internal/scene"
)

// FromConfig spawns the spheres for cfg.Seed and builds their bodies.
func FromConfig(cfg *config.Config, sign *control.Sign) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := scene.Spawn(rand.New(rand.NewSource(cfg.Seed)), cfg.Count)
	if err != nil {
		return nil, err
	}
	return NewScene(store, cfg.Params(), control.NewRadialImpulse(cfg.ImpulseScale), sign)
}

// NewHeadless builds a driver that syncs through a render bridge but draws
// nothing. A non-positive frame count runs until ctx ends.
func NewHeadless(sc *Scene, frames int) (*Driver, error) {
	u := render.NewUniforms(sc.Store.Len())
	bridge, err := render.NewBridge(sc.Store, sc.World, sc.Handles, camera.Default(1), u)
	if err != nil {
		return nil, err
	}
	sched := Scheduler(SchedulerFunc(func(ctx context.Context) bool { return ctx.Err() == nil }))
	if frames > 0 {
		sched = Frames(frames)
	}
	return NewDriver(sc, bridge, Headless, sched), nil
}
