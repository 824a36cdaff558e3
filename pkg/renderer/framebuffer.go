package renderer

import (
	"image"
	"image/color"

	"github.com/pvera/blocktracer/pkg/core"
)

// Framebuffer is a reusable linear-color pixel buffer. Resize keeps the
// backing storage when the new frame fits, so steady-state rendering
// allocates nothing.
type Framebuffer struct {
	Width  int
	Height int
	pixels []core.Vec3
}

// NewFramebuffer creates a framebuffer of the given dimensions, clamped
// to at least one pixel each way.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize adjusts the buffer to the given dimensions. Shrinking or
// matching reuses the existing storage; only growth reallocates.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = max(1, width)
	fb.Height = max(1, height)

	needed := fb.Width * fb.Height
	if cap(fb.pixels) < needed {
		fb.pixels = make([]core.Vec3, needed)
	} else {
		fb.pixels = fb.pixels[:needed]
		for i := range fb.pixels {
			fb.pixels[i] = core.Vec3{}
		}
	}
}

// Set writes one pixel. Out-of-bounds coordinates are ignored.
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.pixels[y*fb.Width+x] = c
}

// At reads one pixel. Out-of-bounds coordinates read as black.
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return core.Vec3{}
	}
	return fb.pixels[y*fb.Width+x]
}

// ToRGBA converts the linear buffer to an 8-bit image, clamping each
// channel to [0,1].
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.pixels[y*fb.Width+x].Clamp(0, 1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}
