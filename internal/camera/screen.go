package camera

// Viewport is the drawable area in window units and the device pixel ratio.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float32
}

func (v Viewport) Framebuffer() (int, int) {
	r := v.PixelRatio
	if r <= 0 {
		r = 1
	}
	return int(float32(v.Width) * r), int(float32(v.Height) * r)
}

func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Screen ties the camera aspect to the viewport. Resize never touches
// physics or body state.
type Screen struct {
	Camera   *Perspective
	Viewport Viewport
}

func NewScreen(width, height int, pixelRatio float32) *Screen {
	vp := Viewport{Width: width, Height: height, PixelRatio: pixelRatio}
	return &Screen{Camera: Default(vp.Aspect()), Viewport: vp}
}

// Resize applies new dimensions and reports whether anything changed.
// Calling it again with the same values is a no-op.
func (s *Screen) Resize(width, height int, pixelRatio float32) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	next := Viewport{Width: width, Height: height, PixelRatio: pixelRatio}
	if next == s.Viewport {
		return false
	}
	s.Viewport = next
	s.Camera.Aspect = next.Aspect()
	s.Camera.UpdateProjection()
	return true
}
