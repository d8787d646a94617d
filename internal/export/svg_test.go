package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed svg: %q", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
}

func TestFrameSVG(t *testing.T) {
	s := dynamo.Snapshot{
		Centers: dynamo.NewState([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}}),
		Radii:   []float64{1, 0.5, 0.5},
	}
	svg := FrameSVG(camera.Default(1), s, 200, 200)

	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 spheres, got %d", n)
	}
	if !strings.Contains(svg, `width="200"`) {
		t.Error("missing width")
	}
}

func TestFrameSVGEmpty(t *testing.T) {
	svg := FrameSVG(camera.Default(1), dynamo.Snapshot{}, 100, 50)
	if strings.Contains(svg, "<circle") {
		t.Error("empty snapshot should draw no spheres")
	}
}

func TestTrackSVG(t *testing.T) {
	frames := make([]dynamo.Snapshot, 5)
	for i := range frames {
		frames[i].Centers = dynamo.NewState([]mgl64.Vec3{{float64(i), 0, float64(i * i)}})
	}

	svg := TrackSVG(frames, 0, 100, 100, "#ff0000")
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("stroke color not applied")
	}
	if n := strings.Count(svg, " L"); n != 4 {
		t.Errorf("expected 4 segments, got %d", n)
	}

	if TrackSVG(frames, 3, 100, 100, "#fff") != "" {
		t.Error("unknown body should give empty output")
	}
	if TrackSVG(frames[:1], 0, 100, 100, "#fff") != "" {
		t.Error("single frame should give empty output")
	}
}
