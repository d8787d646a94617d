package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/render"
)

// Init loads GL function pointers for the current context. Call it once
// after the window exists.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to init opengl: %v", err)
	}
	return nil
}

type SphereProgram struct {
	ID    uint32
	VAO   uint32
	Count int

	locProjInv int32
	locWorld   int32
	locCenters int32
	locRadii   int32
	locEnvMap  int32
	locHasEnv  int32
}

// NewSphereProgram compiles the ray-sphere program for count spheres and
// checks that the linked program really holds that many.
func NewSphereProgram(count int) (*SphereProgram, error) {
	vert, frag, err := Sources(count)
	if err != nil {
		return nil, err
	}
	id, err := createRenderProgram(vert, frag)
	if err != nil {
		return nil, err
	}

	p := &SphereProgram{ID: id, Count: count}
	p.locProjInv = uniformLocation(id, uniformProjectionInverse)
	p.locWorld = uniformLocation(id, uniformCameraWorld)
	p.locCenters = uniformLocation(id, uniformCenters)
	p.locRadii = uniformLocation(id, uniformRadii)
	p.locEnvMap = uniformLocation(id, uniformEnvMap)
	p.locHasEnv = uniformLocation(id, uniformHasEnvMap)

	capacity, err := p.Capacity()
	if err != nil {
		p.Delete()
		return nil, err
	}
	if err := checkCapacity(capacity, count); err != nil {
		p.Delete()
		return nil, err
	}

	gl.GenVertexArrays(1, &p.VAO)
	return p, nil
}

// Capacity reports the length of the sphere arrays in the linked program.
// Centers and radii must agree.
func (p *SphereProgram) Capacity() (int, error) {
	var n int32
	gl.GetProgramiv(p.ID, gl.ACTIVE_UNIFORMS, &n)

	sizes := map[string]int{}
	buf := make([]uint8, 256)
	for i := uint32(0); i < uint32(n); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(p.ID, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		sizes[baseName(string(buf[:length]))] = int(size)
	}

	centers, ok := sizes[uniformCenters]
	if !ok {
		return 0, fmt.Errorf("uniform %q not active: %w", uniformCenters, dynamo.ErrConfigMismatch)
	}
	if radii := sizes[uniformRadii]; radii != centers {
		return 0, fmt.Errorf("uniform %q holds %d, %q holds %d: %w",
			uniformCenters, centers, uniformRadii, radii, dynamo.ErrConfigMismatch)
	}
	return centers, nil
}

// Draw uploads every uniform and covers the viewport with one triangle.
func (p *SphereProgram) Draw(u *render.Uniforms, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(p.ID)

	gl.UniformMatrix4fv(p.locProjInv, 1, false, &u.ProjectionInverse[0])
	gl.UniformMatrix4fv(p.locWorld, 1, false, &u.CameraWorld[0])

	n := int32(u.Capacity())
	if n > 0 {
		flat := u.FlatCenters()
		gl.Uniform3fv(p.locCenters, n, &flat[0])
		gl.Uniform1fv(p.locRadii, n, &u.Radii[0])
	}

	if u.HasEnvMap {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, u.EnvMap)
		gl.Uniform1i(p.locEnvMap, 0)
		gl.Uniform1i(p.locHasEnv, 1)
	} else {
		gl.Uniform1i(p.locHasEnv, 0)
	}

	gl.BindVertexArray(p.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (p *SphereProgram) Delete() {
	if p.VAO != 0 {
		gl.DeleteVertexArrays(1, &p.VAO)
	}
	gl.DeleteProgram(p.ID)
}

func checkCapacity(capacity, want int) error {
	if capacity != want {
		return fmt.Errorf("shader holds %d spheres, scene has %d: %w", capacity, want, dynamo.ErrConfigMismatch)
	}
	return nil
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}

func createRenderProgram(vert, frag string) (uint32, error) {
	vShader, err := compileShader(vert, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vShader)

	fShader, err := compileShader(frag, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vShader)
	gl.AttachShader(program, fShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link render program: %v", log)
	}
	return program, nil
}
