package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/dynamo"
)

// Disc is a sphere projected onto the canvas, in dots.
type Disc struct {
	X, Y, R int
	Depth   float32
}

// Project maps each sphere in the snapshot onto a canvas of w by h dots.
// Spheres behind the camera are dropped. The result is ordered far to near.
func Project(cam *camera.Perspective, s dynamo.Snapshot, w, h int) []Disc {
	vp := cam.Projection().Mul4(cam.View())
	focal := cam.Projection().At(1, 1)

	discs := make([]Disc, 0, s.Centers.Bodies())
	for i := 0; i < s.Centers.Bodies(); i++ {
		c := s.Centers.Vec(i)
		clip := vp.Mul4x1(mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), 1})
		if clip.W() <= 0 {
			continue
		}
		ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
		r := 0.0
		if i < len(s.Radii) {
			r = s.Radii[i]
		}
		discs = append(discs, Disc{
			X:     int((ndcX + 1) / 2 * float32(w)),
			Y:     int((1 - ndcY) / 2 * float32(h)),
			R:     int(float32(r) * focal / clip.W() * float32(h) / 2),
			Depth: clip.W(),
		})
	}
	sort.SliceStable(discs, func(i, j int) bool { return discs[i].Depth > discs[j].Depth })
	return discs
}

// DrawScene clears the canvas and outlines every sphere.
func DrawScene(c *Canvas, cam *camera.Perspective, s dynamo.Snapshot) {
	c.Clear()
	w, h := c.Dots()
	for _, d := range Project(cam, s, w, h) {
		c.DrawCircle(d.X, d.Y, d.R)
	}
}
