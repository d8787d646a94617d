package control

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/physics"
)

// DefaultScale is the impulse per unit distance from the origin.
const DefaultScale = 0.1

// Body is the part of the physics world the policy touches.
type Body interface {
	Translation(h physics.Handle) mgl64.Vec3
	ApplyImpulse(h physics.Handle, j mgl64.Vec3) error
}

// RadialImpulse pushes every body along its position vector. The force law
// is a visual effect, not gravity: magnitude grows with distance from the
// origin and a body at the origin receives nothing.
type RadialImpulse struct {
	Scale float64
}

func NewRadialImpulse(scale float64) *RadialImpulse {
	return &RadialImpulse{Scale: scale}
}

func (r *RadialImpulse) Impulse(p mgl64.Vec3, sign float64) mgl64.Vec3 {
	return p.Mul(sign * r.Scale)
}

// Apply reads each body's position and applies P·(sign·Scale). The same
// sign is used for every body.
func (r *RadialImpulse) Apply(w Body, handles []physics.Handle, sign float64) error {
	for _, h := range handles {
		if err := w.ApplyImpulse(h, r.Impulse(w.Translation(h), sign)); err != nil {
			return fmt.Errorf("radial impulse: %w", err)
		}
	}
	return nil
}
