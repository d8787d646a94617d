package envmap

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync/atomic"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Result is the outcome of one load: an image or the reason there is none.
type Result struct {
	Path  string
	Image image.Image
	Err   error
}

// Slot hands one loaded environment map from a loader goroutine to the
// render thread. The zero value is empty.
type Slot struct {
	p atomic.Pointer[Result]
}

func (s *Slot) Publish(r Result) {
	s.p.Store(&r)
}

// Take returns the published result once. Later calls report false until
// something is published again.
func (s *Slot) Take() (Result, bool) {
	r := s.p.Swap(nil)
	if r == nil {
		return Result{}, false
	}
	return *r, true
}

// Load decodes an equirectangular image from disk. PNG, JPEG, BMP, TIFF and
// WebP are recognised.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%s image %s is empty", format, path)
	}
	return img, nil
}

// LoadAsync loads path on its own goroutine and publishes into slot. There
// is no cancellation; the result is published exactly once.
func LoadAsync(path string, slot *Slot) {
	go func() {
		img, err := Load(path)
		slot.Publish(Result{Path: path, Image: img, Err: err})
	}()
}
