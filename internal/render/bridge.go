package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/physics"
	"github.com/san-kum/spherelab/internal/scene"
)

type Bodies interface {
	Translation(h physics.Handle) mgl64.Vec3
}

type CameraSource interface {
	Frame() camera.Frame
}

// Bridge copies body positions from the physics world into the store and
// the shader uniforms. Index i always refers to the i-th created body.
type Bridge struct {
	store    *scene.Store
	bodies   Bodies
	handles  []physics.Handle
	camera   CameraSource
	uniforms *Uniforms

	centers []mgl64.Vec3
	packed  [][3]float32
}

func NewBridge(store *scene.Store, bodies Bodies, handles []physics.Handle, cam CameraSource, u *Uniforms) (*Bridge, error) {
	n := store.Len()
	if u.Capacity() != n {
		return nil, fmt.Errorf("uniform capacity %d, store holds %d spheres: %w", u.Capacity(), n, dynamo.ErrConfigMismatch)
	}
	if len(handles) != n {
		return nil, fmt.Errorf("%d body handles for %d spheres: %w", len(handles), n, dynamo.ErrConfigMismatch)
	}

	b := &Bridge{
		store:    store,
		bodies:   bodies,
		handles:  append([]physics.Handle(nil), handles...),
		camera:   cam,
		uniforms: u,
		centers:  make([]mgl64.Vec3, n),
		packed:   make([][3]float32, n),
	}
	// radii never change after startup
	for i := 0; i < n; i++ {
		u.Radii[i] = float32(store.Sphere(i).Radius())
	}
	return b, nil
}

func (b *Bridge) Uniforms() *Uniforms { return b.uniforms }

// Sync reads every body translation and commits the whole set. If any
// position cannot be represented, neither the store nor the uniforms are
// touched.
func (b *Bridge) Sync(frame uint64) error {
	for i, h := range b.handles {
		p := b.bodies.Translation(h)
		for _, x := range p {
			if math.IsNaN(x) || math.Abs(x) > math.MaxFloat32 {
				return fmt.Errorf("body %d at %v: %w", i, p, dynamo.ErrInvalidState)
			}
		}
		b.centers[i] = p
		b.packed[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
	}

	if err := b.store.SetCenters(b.centers); err != nil {
		return err
	}

	u := b.uniforms
	copy(u.Centers, b.packed)
	f := b.camera.Frame()
	u.ProjectionInverse = f.ProjectionInverse
	u.CameraWorld = f.World
	u.Frame = frame
	return nil
}
