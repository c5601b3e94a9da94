package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for output paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageFormat is an output file format.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatWebP
	FormatTGA
)

func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatTGA:
		return "tga"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (ImageFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".tga":
		return FormatTGA, nil
	default:
		return 0, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}

// EncodeImage writes img to w in the given format.
func EncodeImage(w io.Writer, format ImageFormat, img image.Image) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	}
	return fmt.Errorf("%v: %w", format, ErrUnsupportedFormat)
}

// SaveImage writes img to path, choosing the encoder from the extension.
func SaveImage(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeImage(f, format, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return f.Close()
}

// SaveAnimation writes frames as a looping animated WebP, each shown for delay.
func SaveAnimation(path string, frames []image.Image, delay time.Duration) error {
	if format, err := FormatFromPath(path); err != nil {
		return err
	} else if format != FormatWebP {
		return fmt.Errorf("animation needs .webp, got %s: %w", format, ErrUnsupportedFormat)
	}
	if len(frames) == 0 {
		return errors.New("animation has no frames")
	}

	ms := uint(max(delay.Milliseconds(), 1))
	ani := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i := range ani.Durations {
		ani.Durations[i] = ms
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode webp animation: %w", err)
	}
	return f.Close()
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping pixels hard-edged. Factors below 2 return img unchanged.
func Upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
