package render

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/physics"
	"github.com/san-kum/spherelab/internal/scene"
)

type fakeBodies struct {
	pos []mgl64.Vec3
}

func (f *fakeBodies) Translation(h physics.Handle) mgl64.Vec3 { return f.pos[h] }

func setup(t *testing.T, n int) (*scene.Store, *fakeBodies, []physics.Handle) {
	t.Helper()
	centers := make([]mgl64.Vec3, n)
	radii := make([]float64, n)
	handles := make([]physics.Handle, n)
	for i := range centers {
		centers[i] = mgl64.Vec3{float64(i), 0, 0}
		radii[i] = 0.5 + float64(i)*0.05
		handles[i] = physics.Handle(i)
	}
	store, err := scene.NewStore(centers, radii)
	if err != nil {
		t.Fatal(err)
	}
	return store, &fakeBodies{pos: append([]mgl64.Vec3(nil), centers...)}, handles
}

func TestNewBridge_CapacityMismatch(t *testing.T) {
	store, bodies, handles := setup(t, 4)
	cam := camera.Default(1)

	_, err := NewBridge(store, bodies, handles, cam, NewUniforms(5))
	if !errors.Is(err, dynamo.ErrConfigMismatch) {
		t.Errorf("capacity 5 for 4 spheres: err = %v, want ErrConfigMismatch", err)
	}

	_, err = NewBridge(store, bodies, handles[:3], cam, NewUniforms(4))
	if !errors.Is(err, dynamo.ErrConfigMismatch) {
		t.Errorf("3 handles for 4 spheres: err = %v, want ErrConfigMismatch", err)
	}
}

func TestNewBridge_WritesRadii(t *testing.T) {
	store, bodies, handles := setup(t, 3)
	u := NewUniforms(3)
	if _, err := NewBridge(store, bodies, handles, camera.Default(1), u); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if u.Radii[i] != float32(store.Sphere(i).Radius()) {
			t.Errorf("radius[%d] = %f, want %f", i, u.Radii[i], store.Sphere(i).Radius())
		}
	}
}

func TestSync_OrderStable(t *testing.T) {
	store, bodies, handles := setup(t, scene.Count)
	u := NewUniforms(scene.Count)
	b, err := NewBridge(store, bodies, handles, camera.Default(1), u)
	if err != nil {
		t.Fatal(err)
	}

	for frame := uint64(1); frame <= 50; frame++ {
		for i := range bodies.pos {
			bodies.pos[i] = mgl64.Vec3{float64(i), float64(frame), -float64(i)}
		}
		if err := b.Sync(frame); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		for i := 0; i < scene.Count; i++ {
			want := [3]float32{float32(i), float32(frame), -float32(i)}
			if u.Centers[i] != want {
				t.Fatalf("frame %d: center[%d] = %v, want %v", frame, i, u.Centers[i], want)
			}
			if store.Sphere(i).Center() != bodies.pos[i] {
				t.Fatalf("frame %d: store center[%d] not committed", frame, i)
			}
		}
		if u.Frame != frame {
			t.Errorf("frame counter = %d, want %d", u.Frame, frame)
		}
	}
}

func TestSync_Atomic(t *testing.T) {
	tests := []struct {
		name string
		bad  mgl64.Vec3
	}{
		{"nan", mgl64.Vec3{math.NaN(), 0, 0}},
		{"inf", mgl64.Vec3{0, math.Inf(-1), 0}},
		{"float32 overflow", mgl64.Vec3{0, 0, 1e300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, bodies, handles := setup(t, 6)
			u := NewUniforms(6)
			b, err := NewBridge(store, bodies, handles, camera.Default(1), u)
			if err != nil {
				t.Fatal(err)
			}
			if err := b.Sync(1); err != nil {
				t.Fatal(err)
			}
			beforeU := append([][3]float32(nil), u.Centers...)
			beforeS := store.Spheres()

			for i := range bodies.pos {
				bodies.pos[i] = bodies.pos[i].Add(mgl64.Vec3{1, 1, 1})
			}
			bodies.pos[4] = tt.bad

			err = b.Sync(2)
			if !errors.Is(err, dynamo.ErrInvalidState) {
				t.Fatalf("err = %v, want ErrInvalidState", err)
			}
			if u.Frame != 1 {
				t.Errorf("frame counter advanced to %d", u.Frame)
			}
			for i := range beforeU {
				if u.Centers[i] != beforeU[i] {
					t.Errorf("uniform center %d changed", i)
				}
				if store.Sphere(i).Center() != beforeS[i].Center() {
					t.Errorf("store center %d changed", i)
				}
			}
		})
	}
}

func TestSync_CameraMatrices(t *testing.T) {
	store, bodies, handles := setup(t, 2)
	cam := camera.Default(4.0 / 3.0)
	u := NewUniforms(2)
	b, err := NewBridge(store, bodies, handles, cam, u)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Sync(1); err != nil {
		t.Fatal(err)
	}
	f := cam.Frame()
	if u.ProjectionInverse != f.ProjectionInverse || u.CameraWorld != f.World {
		t.Error("camera matrices not copied")
	}
}

func TestUniforms_EnvMap(t *testing.T) {
	u := NewUniforms(1)
	if u.HasEnvMap {
		t.Error("new uniforms report an env map")
	}
	u.SetEnvMap(7)
	if !u.HasEnvMap || u.EnvMap != 7 {
		t.Errorf("after SetEnvMap(7): %d %v", u.EnvMap, u.HasEnvMap)
	}
	u.SetEnvMap(0)
	if u.HasEnvMap {
		t.Error("SetEnvMap(0) left env map present")
	}
}

func TestUniforms_FlatCenters(t *testing.T) {
	u := NewUniforms(2)
	u.Centers[0] = [3]float32{1, 2, 3}
	u.Centers[1] = [3]float32{4, 5, 6}
	got := u.FlatCenters()
	want := []float32{1, 2, 3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flat = %v, want %v", got, want)
		}
	}
}
