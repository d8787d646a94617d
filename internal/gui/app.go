package gui

import (
	"context"
	"fmt"
	"log"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/spherelab/internal/audio"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/config"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/envmap"
	"github.com/san-kum/spherelab/internal/gpu"
	"github.com/san-kum/spherelab/internal/metrics"
	"github.com/san-kum/spherelab/internal/render"
	"github.com/san-kum/spherelab/internal/sim"
)

func init() {
	// raylib and GL calls must stay on the main thread
	runtime.LockOSThread()
}

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColRepel   = rl.NewColor(255, 170, 0, 255)
)

const telemetryCapacity = 200

type App struct {
	Config   *config.Config
	Sign     *control.Sign
	Scene    *sim.Scene
	Screen   *camera.Screen
	Orbit    *camera.Orbit
	Uniforms *render.Uniforms
	Bridge   *render.Bridge
	Program  *gpu.SphereProgram
	Driver   *sim.Driver
	Font     rl.Font
	Audio    *audio.Player

	keys      *control.KeyTracker
	envSlot   envmap.Slot
	envTex    rl.Texture2D
	last      dynamo.Snapshot
	Telemetry []float64
}

func initWindow(w config.WindowConfig) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	rl.SetTargetFPS(int32(w.FPS))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the scene and GPU program for an open window. Any mismatch
// between the shader arrays and the scene fails here, before the first
// frame.
func NewApp(cfg *config.Config, sign *control.Sign) (*App, error) {
	sc, err := sim.FromConfig(cfg, sign)
	if err != nil {
		return nil, err
	}

	if err := gpu.Init(); err != nil {
		return nil, err
	}
	program, err := gpu.NewSphereProgram(sc.Store.Len())
	if err != nil {
		return nil, err
	}

	screen := camera.NewScreen(rl.GetScreenWidth(), rl.GetScreenHeight(), rl.GetWindowScaleDPI().X)
	uniforms := render.NewUniforms(program.Count)
	bridge, err := render.NewBridge(sc.Store, sc.World, sc.Handles, screen.Camera, uniforms)
	if err != nil {
		program.Delete()
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Sign:      sign,
		Scene:     sc,
		Screen:    screen,
		Orbit:     camera.NewOrbit(screen.Camera),
		Uniforms:  uniforms,
		Bridge:    bridge,
		Program:   program,
		Font:      loadFont(),
		keys:      control.NewKeyTracker(),
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
	a.Driver = sim.NewDriver(sc, bridge, sim.RendererFunc(a.Render), sim.SchedulerFunc(a.next))
	a.Driver.AddObserver(a)

	if cfg.EnvMap != "" {
		envmap.LoadAsync(cfg.EnvMap, &a.envSlot)
	}
	if cfg.Audio {
		// the window still runs without sound
		if a.Audio, err = audio.Start(audio.NewSynth()); err != nil {
			log.Printf("audio disabled: %v", err)
		}
	}
	return a, nil
}

// Run opens the window and blocks until it is closed, ctx ends or a frame
// fails.
func Run(ctx context.Context, cfg *config.Config, sign *control.Sign) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	initWindow(cfg.Window)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, sign)
	if err != nil {
		return err
	}
	defer app.Close()

	_, err = app.Driver.Run(ctx)
	return err
}

func (a *App) Close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
	if a.envTex.ID != 0 {
		rl.UnloadTexture(a.envTex)
	}
	a.Program.Delete()
}

func (a *App) OnFrame(s dynamo.Snapshot) {
	a.last = s
	e := metrics.Kinetic(s)
	if a.Audio != nil {
		a.Audio.SetPhysics(e, s.Sign)
	}
	a.Telemetry = append(a.Telemetry, e)
	if len(a.Telemetry) > telemetryCapacity {
		a.Telemetry = a.Telemetry[1:]
	}
}

// next runs after the frame is presented. raylib has polled input by
// then, so key state, resize and camera motion are applied here for the
// following frame.
func (a *App) next(ctx context.Context) bool {
	if ctx.Err() != nil || rl.WindowShouldClose() {
		return false
	}

	a.keys.Poll(rlKeys{}, a.Sign)

	if rl.IsWindowResized() {
		a.Screen.Resize(rl.GetScreenWidth(), rl.GetScreenHeight(), rl.GetWindowScaleDPI().X)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		a.Orbit.Rotate(d.X, d.Y, a.Screen.Viewport.Height)
	}
	a.Orbit.Zoom(rl.GetMouseWheelMove())
	a.Orbit.Update(a.Screen.Camera)

	a.installEnvMap()
	return true
}

func (a *App) installEnvMap() {
	r, ok := a.envSlot.Take()
	if !ok {
		return
	}
	if r.Err != nil {
		log.Printf("env map %s: %v", r.Path, r.Err)
		return
	}
	img := rl.NewImageFromImage(r.Image)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	rl.SetTextureWrap(tex, rl.WrapRepeat)

	a.envTex = tex
	a.Uniforms.SetEnvMap(tex.ID)
	fmt.Printf("env map %s loaded (%dx%d)\n", r.Path, tex.Width, tex.Height)
}

type rlKeys struct{}

func (rlKeys) PressedKey() int32      { return rl.GetKeyPressed() }
func (rlKeys) IsKeyUp(key int32) bool { return rl.IsKeyUp(key) }
