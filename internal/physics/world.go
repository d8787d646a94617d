package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/dynamo"
)

const DefaultTimestep = 1.0 / 60.0

type Params struct {
	Gravity       mgl64.Vec3
	Timestep      float64
	Restitution   float64
	Friction      float64
	LinearDamping float64
	Iterations    int
	// Slop is the penetration depth left uncorrected to avoid jitter.
	Slop float64
	// Correction is the fraction of remaining penetration pushed out per step.
	Correction float64
}

func DefaultParams() Params {
	return Params{
		Timestep:   DefaultTimestep,
		Friction:   0.5,
		Iterations: 4,
		Slop:       0.005,
		Correction: 0.8,
	}
}

func (p Params) Validate() error {
	if !(p.Timestep > 0) {
		return fmt.Errorf("timestep must be positive, got %f", p.Timestep)
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		return fmt.Errorf("restitution must be in [0, 1], got %f", p.Restitution)
	}
	if p.Friction < 0 {
		return fmt.Errorf("friction must be non-negative, got %f", p.Friction)
	}
	if p.LinearDamping < 0 {
		return fmt.Errorf("linear damping must be non-negative, got %f", p.LinearDamping)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("solver iterations must be at least 1, got %d", p.Iterations)
	}
	return nil
}

// Handle identifies a body. Handles are issued in creation order starting
// at zero.
type Handle int

// Ball is a sphere collider centered on its body.
type Ball struct {
	Radius float64
}

type body struct {
	position   mgl64.Vec3
	velocity   mgl64.Vec3
	rotation   mgl64.Quat
	angular    mgl64.Vec3
	mass       float64
	invMass    float64
	invInertia float64
	collider   Ball
}

type World struct {
	params   Params
	bodies   []body
	contacts []contact
	time     float64
	steps    uint64
}

func NewWorld(p Params) *World {
	return &World{params: p}
}

func (w *World) Params() Params { return w.params }
func (w *World) Len() int       { return len(w.bodies) }
func (w *World) Time() float64  { return w.time }
func (w *World) Steps() uint64  { return w.steps }

// Contacts reports how many sphere pairs touched during the last step.
func (w *World) Contacts() int { return len(w.contacts) }

// CreateBody registers a dynamic body at center with a ball collider of the
// given radius. The collider is never resized.
func (w *World) CreateBody(center mgl64.Vec3, mass, radius float64) (Handle, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return 0, fmt.Errorf("mass must be positive, got %v", mass)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return 0, fmt.Errorf("radius must be positive, got %v", radius)
	}
	if !finite(center) {
		return 0, fmt.Errorf("center %v: %w", center, dynamo.ErrInvalidState)
	}

	inertia := 0.4 * mass * radius * radius
	w.bodies = append(w.bodies, body{
		position:   center,
		rotation:   mgl64.QuatIdent(),
		mass:       mass,
		invMass:    1 / mass,
		invInertia: 1 / inertia,
		collider:   Ball{Radius: radius},
	})
	return Handle(len(w.bodies) - 1), nil
}

func (w *World) Translation(h Handle) mgl64.Vec3     { return w.bodies[h].position }
func (w *World) Velocity(h Handle) mgl64.Vec3        { return w.bodies[h].velocity }
func (w *World) AngularVelocity(h Handle) mgl64.Vec3 { return w.bodies[h].angular }
func (w *World) Rotation(h Handle) mgl64.Quat        { return w.bodies[h].rotation }
func (w *World) Mass(h Handle) float64               { return w.bodies[h].mass }
func (w *World) Collider(h Handle) Ball              { return w.bodies[h].collider }

// ApplyImpulse changes the body's linear momentum by j.
func (w *World) ApplyImpulse(h Handle, j mgl64.Vec3) error {
	if h < 0 || int(h) >= len(w.bodies) {
		return fmt.Errorf("handle %d: %w", h, dynamo.ErrUnknownBody)
	}
	if !finite(j) {
		return fmt.Errorf("impulse %v on body %d: %w", j, h, dynamo.ErrInvalidState)
	}
	b := &w.bodies[h]
	b.velocity = b.velocity.Add(j.Mul(b.invMass))
	return nil
}

// Step advances the world by one fixed timestep. A world without bodies is
// left untouched.
func (w *World) Step() error {
	if len(w.bodies) == 0 {
		return nil
	}
	dt := w.params.Timestep

	damp := 1 / (1 + dt*w.params.LinearDamping)
	for i := range w.bodies {
		b := &w.bodies[i]
		b.velocity = b.velocity.Add(w.params.Gravity.Mul(dt)).Mul(damp)
	}

	w.contacts = w.detect(w.contacts[:0])
	w.solveVelocities()

	for i := range w.bodies {
		b := &w.bodies[i]
		b.position = b.position.Add(b.velocity.Mul(dt))
		b.rotation = integrateRotation(b.rotation, b.angular, dt)
	}

	w.correctPositions()

	for i := range w.bodies {
		b := &w.bodies[i]
		if !finite(b.position) || !finite(b.velocity) || !finite(b.angular) {
			return fmt.Errorf("body %d at step %d: %w", i, w.steps, dynamo.ErrUnstable)
		}
	}

	w.time += dt
	w.steps++
	return nil
}

func integrateRotation(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	if omega.Len() == 0 {
		return q
	}
	spin := mgl64.Quat{W: 0, V: omega}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
