package render

import (
	"errors"
	"image"
	"testing"

	"github.com/taigrr/flatshade/pkg/math3d"
)

func TestNewFramebuffer(t *testing.T) {
	fb := NewFramebuffer(4, 3)

	if fb.Width() != 4 || fb.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", fb.Width(), fb.Height())
	}
	if fb.ClearColor() != ColorBlack {
		t.Errorf("clear color = %v, want black", fb.ClearColor())
	}
	if fb.MainColor() != ColorWhite {
		t.Errorf("main color = %v, want white", fb.MainColor())
	}
	if fb.Light() != math3d.V3(0, 0, 1) {
		t.Errorf("light = %v, want (0, 0, 1)", fb.Light())
	}
	for y := range 3 {
		for x := range 4 {
			cell, err := fb.At(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if cell.Color != ColorBlack || cell.Depth != MaxDepth {
				t.Errorf("cell (%d, %d) = %+v, want cleared", x, y, cell)
			}
		}
	}
}

func TestNewFramebufferMinimumSize(t *testing.T) {
	fb := NewFramebuffer(0, -5)
	if fb.Width() != 1 || fb.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", fb.Width(), fb.Height())
	}
}

func TestPointDepthTest(t *testing.T) {
	red, green, blue := ColorRed, ColorGreen, ColorBlue
	near := Fragment{X: 1, Y: 1, Color: red, Depth: 0.2}
	mid := Fragment{X: 1, Y: 1, Color: green, Depth: 0.5}
	far := Fragment{X: 1, Y: 1, Color: blue, Depth: 0.9}

	orders := map[string][]Fragment{
		"near first":   {near, mid, far},
		"far first":    {far, mid, near},
		"middle first": {mid, far, near},
		"interleaved":  {far, near, mid},
	}

	for name, frags := range orders {
		t.Run(name, func(t *testing.T) {
			fb := NewFramebuffer(3, 3)
			for _, f := range frags {
				if err := fb.Point(f); err != nil {
					t.Fatal(err)
				}
			}
			cell, _ := fb.At(1, 1)
			if cell.Color != red || cell.Depth != 0.2 {
				t.Errorf("cell = %+v, want red at 0.2", cell)
			}
		})
	}
}

func TestPointEqualDepthKeepsExisting(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	_ = fb.Point(Fragment{X: 0, Y: 0, Color: ColorRed, Depth: 0.5})
	_ = fb.Point(Fragment{X: 0, Y: 0, Color: ColorGreen, Depth: 0.5})

	cell, _ := fb.At(0, 0)
	if cell.Color != ColorRed {
		t.Errorf("color = %v, want first write to survive a tie", cell.Color)
	}
}

func TestPointOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(4, 4)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x at width", 4, 0},
		{"y at height", 0, 4},
		{"far away", 100, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := fb.Point(Fragment{X: tc.x, Y: tc.y, Color: ColorRed, Depth: 0})
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("err = %v, want ErrOutOfBounds", err)
			}
			if _, err := fb.At(tc.x, tc.y); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("At err = %v, want ErrOutOfBounds", err)
			}
		})
	}
	if fb.Dirty() {
		t.Error("rejected writes marked the framebuffer dirty")
	}
}

func TestClear(t *testing.T) {
	fb := NewFramebuffer(5, 3)
	for y := range 3 {
		for x := range 5 {
			_ = fb.Point(Fragment{X: x, Y: y, Color: ColorRed, Depth: 0.1})
		}
	}
	if !fb.Dirty() {
		t.Fatal("framebuffer not dirty after writes")
	}

	fb.SetClearColor(ColorBlue)
	fb.Clear()

	if fb.Dirty() {
		t.Error("framebuffer dirty after clear")
	}
	for y := range 3 {
		for x := range 5 {
			cell, _ := fb.At(x, y)
			if cell.Color != ColorBlue || cell.Depth != MaxDepth {
				t.Errorf("cell (%d, %d) = %+v after clear", x, y, cell)
			}
		}
	}
}

func TestSetSize(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	_ = fb.Point(Fragment{X: 1, Y: 1, Color: ColorRed, Depth: 0})

	if err := fb.SetSize(6.9, 3.2); err != nil {
		t.Fatal(err)
	}
	if fb.Width() != 6 || fb.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", fb.Width(), fb.Height())
	}
	cell, _ := fb.At(1, 1)
	if cell.Color != ColorBlack || cell.Depth != MaxDepth {
		t.Errorf("cell = %+v, want cleared after resize", cell)
	}
	if err := fb.Point(Fragment{X: 5, Y: 2, Depth: 0}); err != nil {
		t.Errorf("write inside new bounds: %v", err)
	}
}

func TestSetSizeInvalid(t *testing.T) {
	fb := NewFramebuffer(3, 3)

	for _, size := range [][2]float64{{0, 3}, {3, 0}, {0.9, 5}, {-2, 4}} {
		if err := fb.SetSize(size[0], size[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("SetSize(%v, %v) err = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
	if fb.Width() != 3 || fb.Height() != 3 {
		t.Errorf("size = %dx%d, want unchanged 3x3", fb.Width(), fb.Height())
	}
}

func TestCompositeFlipsVertically(t *testing.T) {
	fb := NewFramebuffer(2, 3)
	_ = fb.Point(Fragment{X: 0, Y: 0, Color: RGBA(255, 0, 0, 10), Depth: 0})
	_ = fb.Point(Fragment{X: 1, Y: 2, Color: ColorGreen, Depth: 0})

	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	fb.Composite(img)

	if got := img.RGBAAt(0, 2); got != RGBA(255, 0, 0, 255) {
		t.Errorf("bottom-left = %v, want opaque red", got)
	}
	if got := img.RGBAAt(1, 0); got != ColorGreen {
		t.Errorf("top-right = %v, want green", got)
	}
	if got := img.RGBAAt(0, 0); got != ColorBlack {
		t.Errorf("top-left = %v, want black", got)
	}
}

func TestCompositeGenericImage(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	_ = fb.Point(Fragment{X: 1, Y: 0, Color: ColorBlue, Depth: 0})

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	fb.Composite(img)

	if got := img.NRGBAAt(1, 1); got.B != 255 || got.A != 255 || got.R != 0 {
		t.Errorf("bottom-right = %v, want opaque blue", got)
	}
}

func TestCompositeSmallerDestination(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	_ = fb.Point(Fragment{X: 0, Y: 3, Color: ColorRed, Depth: 0})

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	fb.Composite(img)

	if got := img.RGBAAt(0, 0); got != ColorRed {
		t.Errorf("top-left = %v, want red", got)
	}
}

func TestToImage(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetClearColor(RGBA(10, 20, 30, 0))
	fb.Clear()

	img := fb.ToImage()
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1); got != RGBA(10, 20, 30, 255) {
		t.Errorf("pixel = %v, want opaque clear color", got)
	}
}
