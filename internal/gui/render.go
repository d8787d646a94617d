package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/spherelab/internal/control"
)

// Render draws the spheres with the ray-cast program, then the HUD on top.
func (a *App) Render(frame uint64) error {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	// flush raylib's batch before raw GL calls
	rl.DrawRenderBatchActive()
	w, h := a.Screen.Viewport.Framebuffer()
	a.Program.Draw(a.Uniforms, w, h)

	a.DrawHUD()
	rl.EndDrawing()
	return nil
}

func (a *App) DrawHUD() {
	a.drawText("spherelab", 30, 30, 24, ColSelect)

	status, col := "ATTRACT", ColAccent
	if a.last.Sign == control.Repel {
		status, col = "REPEL", ColRepel
	}
	right := a.Screen.Viewport.Width - 130
	a.drawText(status, right, 30, 16, col)

	bottom := a.Screen.Viewport.Height - 40
	a.drawText(fmt.Sprintf("%d FPS  frame %d  contacts %d", rl.GetFPS(), a.last.Frame, a.last.Contacts), 30, bottom, 14, ColTextDim)
	a.drawText("HOLD ANY KEY: REPEL   DRAG: ORBIT   WHEEL: ZOOM", right-420, bottom, 14, ColTextDim)
	if !a.Uniforms.HasEnvMap && a.Config.EnvMap != "" {
		a.drawText("loading environment...", 30, 60, 14, ColTextDim)
	}

	a.DrawTelemetry()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots recent kinetic energy as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, a.Screen.Viewport.Height-120
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
