package render

import (
	"image"

	uv "github.com/charmbracelet/ultraviolet"
)

// Display is the presentation surface a TerminalRenderer draws on.
// *uv.Terminal satisfies it.
type Display interface {
	Draw(d uv.Drawable)
	Display() error
}

// TerminalRenderer presents a framebuffer on a terminal using half-block
// characters: each cell shows two framebuffer rows, the upper one as the
// foreground of ▀ and the lower one as the background.
type TerminalRenderer struct {
	display Display
	cols    int
	rows    int
	img     *image.RGBA // Upright composite of the last rendered frame
}

// NewTerminalRenderer creates a renderer for a cols x rows terminal.
func NewTerminalRenderer(display Display, cols, rows int) *TerminalRenderer {
	cols, rows = max(cols, 1), max(rows, 1)
	return &TerminalRenderer{
		display: display,
		cols:    cols,
		rows:    rows,
		img:     image.NewRGBA(image.Rect(0, 0, cols, rows*2)),
	}
}

// FramebufferSize returns the framebuffer size matching the terminal:
// one pixel per column, two per row.
func (r *TerminalRenderer) FramebufferSize() (width, height int) {
	return r.cols, r.rows * 2
}

// Render composites fb and queues it for display.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Composite(r.img)
	r.display.Draw(r)
}

// Flush writes the queued frame to the terminal.
func (r *TerminalRenderer) Flush() error {
	return r.display.Display()
}

// Draw implements uv.Drawable.
func (r *TerminalRenderer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y && row < r.rows; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.cols; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: r.img.RGBAAt(col, topY),
					Bg: r.img.RGBAAt(col, botY),
				},
			})
		}
	}
}
