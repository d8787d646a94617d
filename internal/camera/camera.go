package camera

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultFOV  = 75
	DefaultNear = 0.1
	DefaultFar  = 100
)

var (
	DefaultPosition = mgl32.Vec3{-3, 0, -6}
	DefaultTarget   = mgl32.Vec3{0, 0, 0}
	up              = mgl32.Vec3{0, 1, 0}
)

// Frame is what the renderer needs to rebuild a view ray per pixel:
// clip space -> view space -> world space.
type Frame struct {
	ProjectionInverse mgl32.Mat4
	World             mgl32.Mat4
}

// Perspective is a pinhole camera looking from Position at Target.
type Perspective struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3

	projection    mgl32.Mat4
	projectionInv mgl32.Mat4
	world         mgl32.Mat4
}

func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: DefaultPosition,
		Target:   DefaultTarget,
	}
	c.UpdateProjection()
	c.UpdateWorld()
	return c
}

func Default(aspect float32) *Perspective {
	return NewPerspective(DefaultFOV, aspect, DefaultNear, DefaultFar)
}

func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	c.projectionInv = c.projection.Inv()
}

func (c *Perspective) UpdateWorld() {
	view := mgl32.LookAtV(c.Position, c.Target, up)
	c.world = view.Inv()
}

func (c *Perspective) LookAt(target mgl32.Vec3) {
	c.Target = target
	c.UpdateWorld()
}

func (c *Perspective) Projection() mgl32.Mat4 { return c.projection }
func (c *Perspective) View() mgl32.Mat4       { return c.world.Inv() }

func (c *Perspective) Frame() Frame {
	return Frame{ProjectionInverse: c.projectionInv, World: c.world}
}
