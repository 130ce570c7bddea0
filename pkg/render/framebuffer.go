// Package render draws a facet session into a software framebuffer that the
// terminal and window frontends both display.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/taigrr/facet/pkg/math3d"
)

// Framebuffer is a 2D array of pixels. In the terminal each cell shows two
// vertically stacked pixels through a half-block character.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Resize reallocates the pixel buffer when the size changes. It reports
// whether anything changed.
func (fb *Framebuffer) Resize(width, height int) bool {
	if width == fb.Width && height == fb.Height {
		return false
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]color.RGBA, width*height)
	return true
}

// Aspect returns width over height, or 1 for an empty buffer.
func (fb *Framebuffer) Aspect() float64 {
	if fb.Height <= 0 {
		return 1
	}
	return float64(fb.Width) / float64(fb.Height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	bresenham(x0, y0, x1, y1, func(x, y int, _ float64) {
		fb.SetPixel(x, y, c)
	})
}

// bresenham visits every pixel of the line and passes how far along it is,
// from 0 at (x0, y0) to 1 at (x1, y1).
func bresenham(x0, y0, x1, y1 int, plot func(x, y int, t float64)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	steps := max(dx, -dy)
	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		plot(x0, y0, t)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyRGBA(img.Pix)
	return img
}

// CopyRGBA writes the pixels as packed RGBA bytes into dst, which must hold
// at least 4*Width*Height bytes.
func (fb *Framebuffer) CopyRGBA(dst []byte) {
	for i, p := range fb.Pixels {
		j := i * 4
		dst[j+0] = p.R
		dst[j+1] = p.G
		dst[j+2] = p.B
		dst[j+3] = p.A
	}
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors used by the viewer.
var (
	ColorBlack     = color.RGBA{0, 0, 0, 255}
	ColorWhite     = color.RGBA{255, 255, 255, 255}
	ColorHighlight = color.RGBA{255, 214, 10, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// FromVec3 converts a color with channels in [0, 1] to RGBA, clamping each
// channel.
func FromVec3(c math3d.Vec3) color.RGBA {
	return RGB(channel(c.X), channel(c.Y), channel(c.Z))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
