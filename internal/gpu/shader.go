package gpu

import (
	_ "embed"
	"fmt"
	"strings"
)

const glslVersion = "#version 330 core"

//go:embed shaders/sphere.vert
var vertexBody string

//go:embed shaders/sphere.frag
var fragmentBody string

// Uniform names shared with the fragment shader.
const (
	uniformProjectionInverse = "projectionMatrixInverse"
	uniformCameraWorld       = "cameraMatrixWorld"
	uniformCenters           = "centers"
	uniformRadii             = "radiuses"
	uniformEnvMap            = "envMap"
	uniformHasEnvMap         = "hasEnvMap"
)

// Sources returns the vertex and fragment shader sources with the sphere
// array length fixed at compile time.
func Sources(count int) (string, string, error) {
	if count < 1 {
		return "", "", fmt.Errorf("sphere count must be positive, got %d", count)
	}
	vert := glslVersion + "\n" + vertexBody
	frag := fmt.Sprintf("%s\n#define COUNT %d\n%s", glslVersion, count, fragmentBody)
	return vert, frag, nil
}

// baseName strips the "[0]" suffix drivers report for array uniforms.
func baseName(name string) string {
	name = strings.TrimRight(name, "\x00")
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
