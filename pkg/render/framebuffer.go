// Package render implements the flatshade software pipeline: vertex
// transform, primitive assembly, triangle rasterization, fragment shading and
// a depth-tested framebuffer.
package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// Framebuffer is a grid of depth-tested color cells.
//
// Framebuffer coordinates have y growing upward: row 0 is the bottom row of
// the presented image. Composite performs the flip.
type Framebuffer struct {
	width  int
	height int
	cells  []FragColor // Row-major, len = width*height

	clearColor Color
	mainColor  Color
	light      math3d.Vec3
	blank      FragColor
	dirty      bool
}

// NewFramebuffer creates a cleared framebuffer with a black clear color, a
// white main color and a light pointing down +Z.
// Non-positive dimensions are raised to 1.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		width:      max(width, 1),
		height:     max(height, 1),
		clearColor: ColorBlack,
		mainColor:  ColorWhite,
		light:      math3d.V3(0, 0, 1),
	}
	fb.blank = FragColor{Color: fb.clearColor, Depth: MaxDepth}
	fb.cells = make([]FragColor, fb.width*fb.height)
	fb.Clear()
	return fb
}

// Width returns the framebuffer width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the framebuffer height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// ClearColor returns the color cells are reset to by Clear.
func (fb *Framebuffer) ClearColor() Color { return fb.clearColor }

// MainColor returns the base color handed to the rasterizer.
func (fb *Framebuffer) MainColor() Color { return fb.mainColor }

// Light returns the light direction.
func (fb *Framebuffer) Light() math3d.Vec3 { return fb.light }

// Dirty reports whether any fragment has been written since the last clear.
func (fb *Framebuffer) Dirty() bool { return fb.dirty }

// SetClearColor sets the clear color. It takes effect on the next Clear.
func (fb *Framebuffer) SetClearColor(c Color) {
	fb.clearColor = c
	fb.blank = FragColor{Color: c, Depth: MaxDepth}
}

// SetMainColor sets the base color used for rasterized fragments.
func (fb *Framebuffer) SetMainColor(c Color) {
	fb.mainColor = c
}

// SetLight sets the light direction. It does not need to be normalized.
func (fb *Framebuffer) SetLight(l math3d.Vec3) {
	fb.light = l
}

// SetSize reallocates the grid to width x height (truncated toward zero) and
// clears it. Prior contents are lost. A truncated size below 1 returns
// ErrInvalidSize and leaves the framebuffer untouched.
func (fb *Framebuffer) SetSize(width, height float64) error {
	w, h := int(width), int(height)
	if w < 1 || h < 1 {
		return fmt.Errorf("set size %vx%v: %w", width, height, ErrInvalidSize)
	}
	fb.width, fb.height = w, h
	fb.cells = make([]FragColor, w*h)
	fb.Clear()
	return nil
}

// Clear resets every cell to the clear color at maximum depth.
func (fb *Framebuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(fb.cells)
	if n > 0 {
		fb.cells[0] = fb.blank
		for i := 1; i < n; i *= 2 {
			copy(fb.cells[i:], fb.cells[:i])
		}
	}
	fb.dirty = false
}

// Point writes a fragment if it is strictly nearer than the stored cell.
// Equal depths keep the existing cell. Writes outside the grid are rejected
// with ErrOutOfBounds.
func (fb *Framebuffer) Point(f Fragment) error {
	_, err := fb.write(f)
	return err
}

// write performs the depth-tested write and reports whether the cell changed.
func (fb *Framebuffer) write(f Fragment) (bool, error) {
	if f.X < 0 || f.X >= fb.width || f.Y < 0 || f.Y >= fb.height {
		return false, fmt.Errorf("point (%d, %d) in %dx%d: %w", f.X, f.Y, fb.width, fb.height, ErrOutOfBounds)
	}
	cell := &fb.cells[f.Y*fb.width+f.X]
	if f.Depth < cell.Depth {
		*cell = FragColor{Color: f.Color, Depth: f.Depth}
		fb.dirty = true
		return true, nil
	}
	return false, nil
}

// At returns the cell at (x, y).
func (fb *Framebuffer) At(x, y int) (FragColor, error) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return FragColor{}, fmt.Errorf("at (%d, %d) in %dx%d: %w", x, y, fb.width, fb.height, ErrOutOfBounds)
	}
	return fb.cells[y*fb.width+x], nil
}

// Composite copies every cell color onto dst, flipping vertically so that
// framebuffer row 0 lands on the bottom row of dst. The destination is treated
// as opaque: alpha is written as 255. Pixels outside dst's bounds are skipped.
func (fb *Framebuffer) Composite(dst draw.Image) {
	b := dst.Bounds()
	w := min(fb.width, b.Dx())
	rgba, fast := dst.(*image.RGBA)

	for y := range fb.height {
		dy := fb.height - 1 - y
		if dy >= b.Dy() {
			continue
		}
		row := fb.cells[y*fb.width : y*fb.width+w]

		if fast {
			off := rgba.PixOffset(b.Min.X, b.Min.Y+dy)
			pix := rgba.Pix[off : off+w*4 : off+w*4]
			for x, cell := range row {
				pix[x*4+0] = cell.Color.R
				pix[x*4+1] = cell.Color.G
				pix[x*4+2] = cell.Color.B
				pix[x*4+3] = 255
			}
			continue
		}

		for x, cell := range row {
			c := cell.Color
			c.A = 255
			dst.Set(b.Min.X+x, b.Min.Y+dy, c)
		}
	}
}

// ToImage composites the framebuffer into a new image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	fb.Composite(img)
	return img
}
