package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/dynamo"
)

func vecAlmostEqual(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestStep_EmptyWorldIsNoop(t *testing.T) {
	w := NewWorld(DefaultParams())
	if err := w.Step(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if w.Steps() != 0 || w.Time() != 0 {
		t.Errorf("empty world advanced: steps=%d time=%f", w.Steps(), w.Time())
	}
}

func TestCreateBody_HandlesFollowCreationOrder(t *testing.T) {
	w := NewWorld(DefaultParams())
	for i := 0; i < 5; i++ {
		h, err := w.CreateBody(mgl64.Vec3{float64(i) * 10, 0, 0}, 1, 1)
		if err != nil {
			t.Fatalf("CreateBody failed: %v", err)
		}
		if int(h) != i {
			t.Errorf("handle %d issued for body %d", h, i)
		}
	}
	if w.Len() != 5 {
		t.Errorf("expected 5 bodies, got %d", w.Len())
	}
}

func TestCreateBody_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		center mgl64.Vec3
		mass   float64
		radius float64
	}{
		{"zero mass", mgl64.Vec3{}, 0, 1},
		{"negative radius", mgl64.Vec3{}, 1, -1},
		{"infinite mass", mgl64.Vec3{}, math.Inf(1), 1},
		{"NaN center", mgl64.Vec3{math.NaN(), 0, 0}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(DefaultParams())
			if _, err := w.CreateBody(tt.center, tt.mass, tt.radius); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestApplyImpulse_ChangesVelocityByInverseMass(t *testing.T) {
	w := NewWorld(DefaultParams())
	h, _ := w.CreateBody(mgl64.Vec3{}, 4, 1)

	if err := w.ApplyImpulse(h, mgl64.Vec3{2, 0, -4}); err != nil {
		t.Fatalf("ApplyImpulse failed: %v", err)
	}
	if !vecAlmostEqual(w.Velocity(h), mgl64.Vec3{0.5, 0, -1}, 1e-12) {
		t.Errorf("velocity = %v, want (0.5, 0, -1)", w.Velocity(h))
	}
	if !vecAlmostEqual(w.Translation(h), mgl64.Vec3{}, 0) {
		t.Error("impulse moved the body before a step")
	}
}

func TestApplyImpulse_Errors(t *testing.T) {
	w := NewWorld(DefaultParams())
	h, _ := w.CreateBody(mgl64.Vec3{}, 1, 1)

	if err := w.ApplyImpulse(Handle(3), mgl64.Vec3{1, 0, 0}); !errors.Is(err, dynamo.ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
	if err := w.ApplyImpulse(h, mgl64.Vec3{math.NaN(), 0, 0}); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestStep_FreeDriftWithoutGravity(t *testing.T) {
	p := DefaultParams()
	w := NewWorld(p)
	h, _ := w.CreateBody(mgl64.Vec3{1, 2, 3}, 1, 0.5)
	_ = w.ApplyImpulse(h, mgl64.Vec3{0.6, 0, 0})

	for i := 0; i < 60; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	if !vecAlmostEqual(w.Translation(h), mgl64.Vec3{1.6, 2, 3}, 1e-9) {
		t.Errorf("translation = %v, want (1.6, 2, 3)", w.Translation(h))
	}
	if math.Abs(w.Time()-1.0) > 1e-9 {
		t.Errorf("time = %f, want 1.0", w.Time())
	}
}

func TestStep_Gravity(t *testing.T) {
	p := DefaultParams()
	p.Gravity = mgl64.Vec3{0, -9.81, 0}
	w := NewWorld(p)
	h, _ := w.CreateBody(mgl64.Vec3{}, 1, 1)

	_ = w.Step()
	if math.Abs(w.Velocity(h).Y()+9.81*p.Timestep) > 1e-12 {
		t.Errorf("velocity.y = %f after one step", w.Velocity(h).Y())
	}
}

func TestStep_LinearDamping(t *testing.T) {
	p := DefaultParams()
	p.LinearDamping = 2
	w := NewWorld(p)
	h, _ := w.CreateBody(mgl64.Vec3{}, 1, 1)
	_ = w.ApplyImpulse(h, mgl64.Vec3{1, 0, 0})

	prev := w.Velocity(h).Len()
	for i := 0; i < 10; i++ {
		_ = w.Step()
		cur := w.Velocity(h).Len()
		if cur >= prev {
			t.Fatalf("speed did not decrease: %f -> %f", prev, cur)
		}
		prev = cur
	}
}

func headOn(t *testing.T, restitution float64) (*World, Handle, Handle) {
	t.Helper()
	p := DefaultParams()
	p.Restitution = restitution
	w := NewWorld(p)
	a, _ := w.CreateBody(mgl64.Vec3{-1.05, 0, 0}, 1, 1)
	b, _ := w.CreateBody(mgl64.Vec3{1.05, 0, 0}, 1, 1)
	_ = w.ApplyImpulse(a, mgl64.Vec3{1, 0, 0})
	_ = w.ApplyImpulse(b, mgl64.Vec3{-1, 0, 0})
	return w, a, b
}

func TestStep_ElasticHeadOnSwapsVelocities(t *testing.T) {
	w, a, b := headOn(t, 1)

	touched := false
	for i := 0; i < 30; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if w.Contacts() > 0 {
			touched = true
		}
	}

	if !touched {
		t.Fatal("bodies never collided")
	}
	if !vecAlmostEqual(w.Velocity(a), mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("velocity a = %v, want (-1, 0, 0)", w.Velocity(a))
	}
	if !vecAlmostEqual(w.Velocity(b), mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("velocity b = %v, want (1, 0, 0)", w.Velocity(b))
	}
}

func TestStep_InelasticHeadOnStops(t *testing.T) {
	w, a, b := headOn(t, 0)

	for i := 0; i < 30; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	if w.Velocity(a).Len() > 1e-9 || w.Velocity(b).Len() > 1e-9 {
		t.Errorf("expected rest, got va=%v vb=%v", w.Velocity(a), w.Velocity(b))
	}
	gap := w.Translation(b).Sub(w.Translation(a)).Len()
	if gap < 2-0.05 {
		t.Errorf("bodies interpenetrate: center distance %f", gap)
	}
}

func TestStep_CollisionConservesMomentum(t *testing.T) {
	p := DefaultParams()
	p.Restitution = 0.5
	w := NewWorld(p)
	a, _ := w.CreateBody(mgl64.Vec3{-2, 0.3, 0}, 2, 1)
	b, _ := w.CreateBody(mgl64.Vec3{1, 0, 0.1}, 1, 0.8)
	_ = w.ApplyImpulse(a, mgl64.Vec3{4, 0, 0})

	before := w.Velocity(a).Mul(2).Add(w.Velocity(b).Mul(1))
	for i := 0; i < 120; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	after := w.Velocity(a).Mul(2).Add(w.Velocity(b).Mul(1))

	if !vecAlmostEqual(before, after, 1e-9) {
		t.Errorf("momentum changed: %v -> %v", before, after)
	}
}

func TestStep_GlancingContactSpinsBodies(t *testing.T) {
	w := NewWorld(DefaultParams())
	a, _ := w.CreateBody(mgl64.Vec3{-2, 0.5, 0}, 1, 1)
	b, _ := w.CreateBody(mgl64.Vec3{0, -0.5, 0}, 1, 1)
	_ = w.ApplyImpulse(a, mgl64.Vec3{3, 0, 0})

	for i := 0; i < 60; i++ {
		_ = w.Step()
	}

	if w.AngularVelocity(a).Len() == 0 && w.AngularVelocity(b).Len() == 0 {
		t.Error("expected friction to produce spin")
	}
	q := w.Rotation(a)
	if math.Abs(q.Len()-1) > 1e-9 {
		t.Errorf("rotation not normalized: |q| = %f", q.Len())
	}
}

func TestStep_CoincidentCentersStayFinite(t *testing.T) {
	w := NewWorld(DefaultParams())
	a, _ := w.CreateBody(mgl64.Vec3{}, 1, 1)
	b, _ := w.CreateBody(mgl64.Vec3{}, 1, 1)

	for i := 0; i < 30; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if w.Translation(a) == w.Translation(b) {
		t.Error("coincident bodies were not separated")
	}
}

func TestStep_DivergenceReportsUnstable(t *testing.T) {
	w := NewWorld(DefaultParams())
	h, _ := w.CreateBody(mgl64.Vec3{}, 1, 1)
	_ = w.ApplyImpulse(h, mgl64.Vec3{math.MaxFloat64, 0, 0})
	_ = w.ApplyImpulse(h, mgl64.Vec3{math.MaxFloat64, 0, 0})

	err := w.Step()
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero timestep", func(p *Params) { p.Timestep = 0 }},
		{"restitution above one", func(p *Params) { p.Restitution = 1.5 }},
		{"negative friction", func(p *Params) { p.Friction = -1 }},
		{"negative damping", func(p *Params) { p.LinearDamping = -1 }},
		{"no iterations", func(p *Params) { p.Iterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
