package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/config"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/physics"
	"github.com/san-kum/spherelab/internal/scene"
)

func newScene(t *testing.T, centers []mgl64.Vec3, radii []float64, sign *control.Sign) *Scene {
	t.Helper()
	store, err := scene.NewStore(centers, radii)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := NewScene(store, physics.DefaultParams(), control.NewRadialImpulse(control.DefaultScale), sign)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

type countingRenderer struct{ calls int }

func (c *countingRenderer) Render(uint64) error {
	c.calls++
	return nil
}

type failingStepper struct{ err error }

func (f failingStepper) Step() error { return f.err }

type syncFunc func(frame uint64) error

func (f syncFunc) Sync(frame uint64) error { return f(frame) }

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		Idle:      "idle",
		Stepping:  "stepping",
		Syncing:   "syncing",
		Rendering: "rendering",
		Scheduled: "scheduled",
		Phase(99): "unknown",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Errorf("Phase(%d) = %q, want %q", p, p.String(), want)
		}
	}
}

func TestFrame_PhaseOrder(t *testing.T) {
	sc := newScene(t, []mgl64.Vec3{{1, 0, 0}}, []float64{0.5}, &control.Sign{})
	d, err := NewHeadless(sc, 3)
	if err != nil {
		t.Fatal(err)
	}

	var got []Phase
	d.Trace(func(_ uint64, p Phase) { got = append(got, p) })

	if _, err := d.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []Phase{Stepping, Syncing, Rendering, Scheduled, Idle}
	if len(got) != 3*len(want) {
		t.Fatalf("got %d phase changes, want %d", len(got), 3*len(want))
	}
	for i, p := range got {
		if p != want[i%len(want)] {
			t.Fatalf("phase %d = %s, want %s", i, p, want[i%len(want)])
		}
	}
	if d.Phase() != Idle {
		t.Errorf("driver left in %s", d.Phase())
	}
}

func TestRun_FrameCount(t *testing.T) {
	sc := newScene(t, []mgl64.Vec3{{1, 0, 0}, {-2, 0, 0}}, []float64{0.5, 0.5}, &control.Sign{})
	d, err := NewHeadless(sc, 10)
	if err != nil {
		t.Fatal(err)
	}
	d.KeepEvery(5)

	res, err := d.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Frames != 10 || d.Frames() != 10 {
		t.Errorf("frames = %d (driver %d), want 10", res.Frames, d.Frames())
	}
	if len(res.Snapshots) != 2 {
		t.Errorf("kept %d snapshots, want 2", len(res.Snapshots))
	}
}

func TestRun_StepErrorAborts(t *testing.T) {
	sc := newScene(t, []mgl64.Vec3{{1, 0, 0}}, []float64{0.5}, &control.Sign{})
	r := &countingRenderer{}
	d := NewDriver(sc, syncFunc(func(uint64) error { return nil }), r, Frames(100))
	d.SetStepper(failingStepper{err: dynamo.ErrUnstable})

	res, err := d.Run(context.Background())

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("err = %v, want *SimulationError", err)
	}
	if simErr.Phase != "stepping" || simErr.Frame != 1 {
		t.Errorf("error at frame %d phase %s", simErr.Frame, simErr.Phase)
	}
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Error("cause not preserved")
	}
	if r.calls != 0 {
		t.Errorf("renderer called %d times after step failure", r.calls)
	}
	if res.Frames != 0 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_SyncErrorSkipsRender(t *testing.T) {
	sc := newScene(t, []mgl64.Vec3{{1, 0, 0}}, []float64{0.5}, &control.Sign{})
	r := &countingRenderer{}
	boom := errors.New("boom")
	d := NewDriver(sc, syncFunc(func(frame uint64) error {
		if frame == 3 {
			return boom
		}
		return nil
	}), r, Frames(100))

	_, err := d.Run(context.Background())

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Phase != "syncing" || simErr.Frame != 3 {
		t.Fatalf("err = %v", err)
	}
	if r.calls != 2 {
		t.Errorf("renderer called %d times, want 2", r.calls)
	}
}

func TestRun_ContextCancelStops(t *testing.T) {
	sc := newScene(t, []mgl64.Vec3{{1, 0, 0}}, []float64{0.5}, &control.Sign{})
	d, err := NewHeadless(sc, 0)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Trace(func(frame uint64, p Phase) {
		if frame == 5 && p == Rendering {
			cancel()
		}
	})

	res, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("cancel should stop cleanly, got %v", err)
	}
	if res.Frames != 5 {
		t.Errorf("frames = %d, want 5", res.Frames)
	}
}

func TestTwoBodyAttraction(t *testing.T) {
	sc := newScene(t,
		[]mgl64.Vec3{{-3, 0, 0}, {3, 0, 0}},
		[]float64{1, 1},
		&control.Sign{},
	)
	d, err := NewHeadless(sc, 0)
	if err != nil {
		t.Fatal(err)
	}

	dist := func() float64 {
		return sc.Store.Sphere(0).Center().Sub(sc.Store.Sphere(1).Center()).Len()
	}

	prev := dist()
	touched := false
	for i := 0; i < 600 && !touched; i++ {
		if _, _, err := d.Frame(context.Background()); err != nil {
			t.Fatalf("frame %d: %v", i+1, err)
		}
		cur := dist()
		if math.IsNaN(cur) || math.IsInf(cur, 0) {
			t.Fatalf("frame %d: non-finite distance", i+1)
		}
		if cur >= prev {
			t.Fatalf("frame %d: distance %f did not decrease from %f", i+1, cur, prev)
		}
		touched = cur <= 2+1e-9
		prev = cur
	}
	if !touched {
		t.Errorf("spheres never met, final distance %f", prev)
	}
}

func TestOriginBodyStaysPut(t *testing.T) {
	for _, v := range []float64{control.Attract, control.Repel} {
		sign := &control.Sign{}
		sign.Set(v)
		sc := newScene(t, []mgl64.Vec3{{0, 0, 0}}, []float64{1}, sign)
		d, err := NewHeadless(sc, 120)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := d.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if c := sc.Store.Sphere(0).Center(); c.Len() != 0 {
			t.Errorf("sign %v: origin body moved to %v", v, c)
		}
	}
}

func TestSignDeterminism(t *testing.T) {
	run := func() []dynamo.Snapshot {
		cfg := config.DefaultConfig()
		cfg.Seed = 9
		sign := &control.Sign{}
		sc, err := FromConfig(cfg, sign)
		if err != nil {
			t.Fatal(err)
		}
		d, err := NewHeadless(sc, 90)
		if err != nil {
			t.Fatal(err)
		}
		d.KeepEvery(1)
		d.Trace(func(frame uint64, p Phase) {
			if p != Idle {
				return
			}
			switch frame {
			case 20:
				sign.Press()
			case 50:
				sign.Release()
			}
		})
		res, err := d.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res.Snapshots
	}

	a, b := run(), run()
	if len(a) != len(b) || len(a) != 90 {
		t.Fatalf("snapshot counts %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Sign != b[i].Sign {
			t.Fatalf("frame %d: sign %v vs %v", i+1, a[i].Sign, b[i].Sign)
		}
		for j := range a[i].Centers {
			if a[i].Centers[j] != b[i].Centers[j] {
				t.Fatalf("frame %d: centers diverged", i+1)
			}
		}
	}
	if a[30].Sign != control.Repel || a[70].Sign != control.Attract {
		t.Errorf("sign schedule not applied: %v %v", a[30].Sign, a[70].Sign)
	}
}

func TestFromConfig_CountMismatch(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Count = 4
	if _, err := FromConfig(cfg, &control.Sign{}); !errors.Is(err, dynamo.ErrConfigMismatch) {
		t.Errorf("err = %v, want ErrConfigMismatch", err)
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*Driver, error) {
		cfg := config.DefaultConfig()
		cfg.Seed = seed
		sc, err := FromConfig(cfg, &control.Sign{})
		if err != nil {
			return nil, err
		}
		return NewHeadless(sc, 30)
	}

	results, err := NewEnsemble(build, 4, 100).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Frames != 30 {
			t.Errorf("run %d: %d frames", i, r.Frames)
		}
	}
}

func TestEnsemble_BuildError(t *testing.T) {
	boom := errors.New("boom")
	build := func(seed int64) (*Driver, error) { return nil, boom }

	if _, err := NewEnsemble(build, 2, 0).Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
