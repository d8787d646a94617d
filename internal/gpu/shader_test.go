package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/spherelab/internal/dynamo"
)

func TestSources_DefinesCount(t *testing.T) {
	vert, frag, err := Sources(13)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(vert, glslVersion+"\n") || !strings.HasPrefix(frag, glslVersion+"\n") {
		t.Error("version directive must come first")
	}
	if !strings.Contains(frag, "#define COUNT 13\n") {
		t.Error("fragment shader missing COUNT define")
	}
	for _, name := range []string{uniformProjectionInverse, uniformCameraWorld, uniformCenters, uniformRadii, uniformEnvMap, uniformHasEnvMap} {
		if !strings.Contains(frag, name) {
			t.Errorf("fragment shader does not declare %q", name)
		}
	}
}

func TestSources_RejectsEmpty(t *testing.T) {
	if _, _, err := Sources(0); err == nil {
		t.Error("expected error for zero spheres")
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"centers[0]":     "centers",
		"radiuses":       "radiuses",
		"envMap\x00\x00": "envMap",
	}
	for in, want := range tests {
		if got := baseName(in); got != want {
			t.Errorf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckCapacity(t *testing.T) {
	if err := checkCapacity(13, 13); err != nil {
		t.Errorf("matching capacity: %v", err)
	}
	if err := checkCapacity(12, 13); !errors.Is(err, dynamo.ErrConfigMismatch) {
		t.Errorf("err = %v, want ErrConfigMismatch", err)
	}
}
