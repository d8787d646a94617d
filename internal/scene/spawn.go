package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Spawn samples n centers uniformly in the spawn cube and n radii uniformly
// in [MinRadius, MaxRadius).
func Spawn(rng *rand.Rand, n int) (*Store, error) {
	half := CubeSide / 2
	centers := make([]mgl64.Vec3, n)
	for i := range centers {
		centers[i] = mgl64.Vec3{
			rng.Float64()*CubeSide - half,
			rng.Float64()*CubeSide - half,
			rng.Float64()*CubeSide - half,
		}
	}
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = MinRadius + rng.Float64()*(MaxRadius-MinRadius)
	}
	return NewStore(centers, radii)
}
