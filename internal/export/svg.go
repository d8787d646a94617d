package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a braille canvas to SVG, one circle per set dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	var sb strings.Builder
	header(&sb, int(float64(w)*scale), int(float64(h)*scale))
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameSVG draws the spheres of one snapshot as seen by cam, far to near,
// with nearer spheres brighter.
func FrameSVG(cam *camera.Perspective, s dynamo.Snapshot, width, height int) string {
	discs := viz.Project(cam, s, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	near, far := float32(0), float32(0)
	if len(discs) > 0 {
		far, near = discs[0].Depth, discs[len(discs)-1].Depth
	}
	for _, d := range discs {
		shade := 1.0
		if far > near {
			shade = 1 - 0.6*float64((d.Depth-near)/(far-near))
		}
		g := int(40 + 200*shade)
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="rgb(%d,%d,%d)" stroke="#ffffff" stroke-opacity="0.3"/>`+"\n",
			d.X, d.Y, d.R, g/3, g, g/2)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrackSVG plots the x/z path of one sphere over the frames, seen from
// above. It returns "" for fewer than two frames or an unknown body.
func TrackSVG(frames []dynamo.Snapshot, body, width, height int, strokeColor string) string {
	points := make([][2]float64, 0, len(frames))
	for _, f := range frames {
		if body < 0 || body >= f.Centers.Bodies() {
			return ""
		}
		c := f.Centers.Vec(body)
		points = append(points, [2]float64{c[0], c[2]})
	}
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, p := range points {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x := (p[0] - minX) / rangeX * float64(width)
		y := float64(height) - (p[1]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
