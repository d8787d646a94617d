package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/dynamo"
)

const (
	// Count is the number of spheres in the scene. The fragment shader is
	// compiled with the same value.
	Count = 13

	MinRadius = 0.5
	MaxRadius = 1.5

	// CubeSide is the edge length of the spawn cube centered at the origin.
	CubeSide = 5.0
)

// Mass returns the mass of a unit-density ball of radius r.
func Mass(r float64) float64 {
	return 4.0 / 3.0 * math.Pi * r * r * r
}

// Sphere is one record of the store. The center is only ever replaced
// through Store.SetCenters.
type Sphere struct {
	center mgl64.Vec3
	radius float64
	mass   float64
}

func (s Sphere) Center() mgl64.Vec3 { return s.center }
func (s Sphere) Radius() float64    { return s.radius }
func (s Sphere) Mass() float64      { return s.mass }

// Store holds the spheres in creation order. Its length is fixed.
type Store struct {
	spheres []Sphere
}

func NewStore(centers []mgl64.Vec3, radii []float64) (*Store, error) {
	if len(centers) != len(radii) {
		return nil, fmt.Errorf("%d centers, %d radii: %w", len(centers), len(radii), dynamo.ErrDimensionMismatch)
	}
	spheres := make([]Sphere, len(centers))
	for i := range centers {
		r := radii[i]
		if !(r > 0) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %v", i, r)
		}
		if !finite(centers[i]) {
			return nil, fmt.Errorf("sphere %d: %w", i, dynamo.ErrInvalidState)
		}
		spheres[i] = Sphere{center: centers[i], radius: r, mass: Mass(r)}
	}
	return &Store{spheres: spheres}, nil
}

func (s *Store) Len() int { return len(s.spheres) }

func (s *Store) Sphere(i int) Sphere { return s.spheres[i] }

// Spheres returns a copy of every record.
func (s *Store) Spheres() []Sphere {
	out := make([]Sphere, len(s.spheres))
	copy(out, s.spheres)
	return out
}

func (s *Store) Centers() dynamo.State {
	st := make(dynamo.State, len(s.spheres)*3)
	for i, sp := range s.spheres {
		st[i*3] = sp.center[0]
		st[i*3+1] = sp.center[1]
		st[i*3+2] = sp.center[2]
	}
	return st
}

func (s *Store) Radii() []float64 {
	out := make([]float64, len(s.spheres))
	for i, sp := range s.spheres {
		out[i] = sp.radius
	}
	return out
}

func (s *Store) Masses() []float64 {
	out := make([]float64, len(s.spheres))
	for i, sp := range s.spheres {
		out[i] = sp.mass
	}
	return out
}

// SetCenters replaces every center. Either all N are written or, on error,
// none are.
func (s *Store) SetCenters(centers []mgl64.Vec3) error {
	if len(centers) != len(s.spheres) {
		return fmt.Errorf("set %d centers on %d spheres: %w", len(centers), len(s.spheres), dynamo.ErrDimensionMismatch)
	}
	for i, c := range centers {
		if !finite(c) {
			return fmt.Errorf("sphere %d center %v: %w", i, c, dynamo.ErrInvalidState)
		}
	}
	for i, c := range centers {
		s.spheres[i].center = c
	}
	return nil
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
