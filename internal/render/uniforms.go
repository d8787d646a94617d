package render

import "github.com/go-gl/mathgl/mgl32"

// Uniforms is the CPU-side copy of everything the sphere shader reads.
// The arrays have a fixed capacity and are rewritten in full every frame.
type Uniforms struct {
	Centers           [][3]float32
	Radii             []float32
	ProjectionInverse mgl32.Mat4
	CameraWorld       mgl32.Mat4

	// EnvMap is a texture handle owned by the host. Zero means absent.
	EnvMap    uint32
	HasEnvMap bool

	Frame uint64
}

func NewUniforms(capacity int) *Uniforms {
	return &Uniforms{
		Centers:           make([][3]float32, capacity),
		Radii:             make([]float32, capacity),
		ProjectionInverse: mgl32.Ident4(),
		CameraWorld:       mgl32.Ident4(),
	}
}

func (u *Uniforms) Capacity() int { return len(u.Centers) }

// SetEnvMap installs a texture handle. Passing zero clears it.
func (u *Uniforms) SetEnvMap(id uint32) {
	u.EnvMap = id
	u.HasEnvMap = id != 0
}

// FlatCenters returns the centers as x,y,z triples for a vec3 array upload.
func (u *Uniforms) FlatCenters() []float32 {
	out := make([]float32, 0, len(u.Centers)*3)
	for _, c := range u.Centers {
		out = append(out, c[0], c[1], c[2])
	}
	return out
}
