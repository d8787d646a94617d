package sim

import (
	"fmt"

	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/physics"
	"github.com/san-kum/spherelab/internal/scene"
)

// Scene ties the sphere records to their rigid bodies and the force policy.
// Handles[i] is the body created for Store.Sphere(i).
type Scene struct {
	Store   *scene.Store
	World   *physics.World
	Handles []physics.Handle
	Policy  *control.RadialImpulse
	Sign    *control.Sign
}

// NewScene creates one body per sphere in store order.
func NewScene(store *scene.Store, params physics.Params, policy *control.RadialImpulse, sign *control.Sign) (*Scene, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w := physics.NewWorld(params)
	handles := make([]physics.Handle, store.Len())
	for i := range handles {
		sp := store.Sphere(i)
		h, err := w.CreateBody(sp.Center(), sp.Mass(), sp.Radius())
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		handles[i] = h
	}
	return &Scene{Store: store, World: w, Handles: handles, Policy: policy, Sign: sign}, nil
}

// Step reads the sign once, applies the impulse to every body and then
// advances the world, so the impulse is integrated in the same step.
func (s *Scene) Step() error {
	if err := s.Policy.Apply(s.World, s.Handles, s.Sign.Value()); err != nil {
		return err
	}
	return s.World.Step()
}

// Snapshot reads the committed centers from the store.
func (s *Scene) Snapshot(frame uint64) dynamo.Snapshot {
	vel := make(dynamo.State, len(s.Handles)*3)
	for i, h := range s.Handles {
		v := s.World.Velocity(h)
		vel[i*3], vel[i*3+1], vel[i*3+2] = v[0], v[1], v[2]
	}
	return dynamo.Snapshot{
		Frame:      frame,
		Time:       s.World.Time(),
		Sign:       s.Sign.Value(),
		Centers:    s.Store.Centers(),
		Velocities: vel,
		Radii:      s.Store.Radii(),
		Masses:     s.Store.Masses(),
		Contacts:   s.World.Contacts(),
	}
}
