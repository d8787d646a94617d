package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/scene"
	"github.com/san-kum/spherelab/internal/sim"
)

// Perturb copies the store with sphere i moved by eps along x.
func Perturb(s *scene.Store, i int, eps float64) (*scene.Store, error) {
	if i < 0 || i >= s.Len() {
		return nil, fmt.Errorf("sphere %d of %d: %w", i, s.Len(), dynamo.ErrUnknownBody)
	}
	centers := make([]mgl64.Vec3, s.Len())
	for j, sp := range s.Spheres() {
		centers[j] = sp.Center()
	}
	centers[i] = centers[i].Add(mgl64.Vec3{eps, 0, 0})
	return scene.NewStore(centers, s.Radii())
}

// Separation is the euclidean distance between the body positions of two
// scenes, taken over all coordinates.
func Separation(a, b *sim.Scene) float64 {
	sum := 0.0
	for i := range a.Handles {
		d := a.World.Translation(a.Handles[i]).Sub(b.World.Translation(b.Handles[i]))
		sum += d.Dot(d)
	}
	return math.Sqrt(sum)
}

// Lyapunov steps both scenes for the given number of frames and returns
// ln(d(T)/d(0))/T, the finite-time exponent of their separation.
func Lyapunov(ctx context.Context, a, b *sim.Scene, frames int) (float64, error) {
	if len(a.Handles) != len(b.Handles) {
		return 0, fmt.Errorf("%d and %d bodies: %w", len(a.Handles), len(b.Handles), dynamo.ErrDimensionMismatch)
	}
	d0 := Separation(a, b)
	if d0 == 0 {
		return 0, fmt.Errorf("scenes start at the same state: %w", dynamo.ErrInvalidState)
	}

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := a.Step(); err != nil {
			return 0, err
		}
		if err := b.Step(); err != nil {
			return 0, err
		}
	}

	t := a.World.Time()
	if t == 0 {
		return 0, nil
	}
	d := Separation(a, b)
	if d == 0 {
		return math.Inf(-1), nil
	}
	return math.Log(d/d0) / t, nil
}
