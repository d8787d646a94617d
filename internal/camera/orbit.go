package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultDamping     = 0.05
	DefaultRotateSpeed = 1.0
	DefaultZoomSpeed   = 0.95
	minPolar           = 1e-3
)

// Orbit rotates the camera around its target on a sphere and eases
// pending motion out over several frames.
type Orbit struct {
	Damping     float32
	RotateSpeed float32
	ZoomSpeed   float32
	MinDistance float32
	MaxDistance float32

	theta, phi, radius float32
	dTheta, dPhi       float32
	scale              float32
}

func NewOrbit(c *Perspective) *Orbit {
	o := &Orbit{
		Damping:     DefaultDamping,
		RotateSpeed: DefaultRotateSpeed,
		ZoomSpeed:   DefaultZoomSpeed,
		MinDistance: 1,
		MaxDistance: c.Far / 2,
		scale:       1,
	}
	o.sync(c)
	return o
}

func (o *Orbit) sync(c *Perspective) {
	off := c.Position.Sub(c.Target)
	o.radius = off.Len()
	if o.radius == 0 {
		o.radius = 1
	}
	o.theta = float32(math.Atan2(float64(off.X()), float64(off.Z())))
	o.phi = float32(math.Acos(float64(mgl32.Clamp(off.Y()/o.radius, -1, 1))))
}

// Rotate queues a drag of dx,dy pixels on a viewport of the given height.
func (o *Orbit) Rotate(dx, dy float32, height int) {
	if height <= 0 {
		return
	}
	h := float32(height)
	o.dTheta -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.dPhi -= 2 * math.Pi * dy / h * o.RotateSpeed
}

// Zoom queues wheel movement; positive values move closer.
func (o *Orbit) Zoom(wheel float32) {
	if wheel == 0 {
		return
	}
	o.scale *= float32(math.Pow(float64(o.ZoomSpeed), float64(wheel)))
}

func (o *Orbit) Distance() float32 { return o.radius }

// Update moves the camera by the damped share of queued motion. With
// nothing queued the camera is left untouched.
func (o *Orbit) Update(c *Perspective) {
	if o.dTheta == 0 && o.dPhi == 0 && o.scale == 1 {
		return
	}
	o.theta += o.dTheta * o.Damping
	o.phi += o.dPhi * o.Damping
	o.phi = mgl32.Clamp(o.phi, minPolar, math.Pi-minPolar)

	o.radius = mgl32.Clamp(o.radius*o.scale, o.MinDistance, o.MaxDistance)
	o.scale = 1

	o.dTheta *= 1 - o.Damping
	o.dPhi *= 1 - o.Damping

	sinPhi := float32(math.Sin(float64(o.phi)))
	off := mgl32.Vec3{
		o.radius * sinPhi * float32(math.Sin(float64(o.theta))),
		o.radius * float32(math.Cos(float64(o.phi))),
		o.radius * sinPhi * float32(math.Cos(float64(o.theta))),
	}
	c.Position = c.Target.Add(off)
	c.UpdateWorld()
}
