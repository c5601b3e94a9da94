// Package config holds the viewer and snapshot settings, loaded from a JSON
// file and overridden by command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/flatshade/pkg/math3d"
	"github.com/taigrr/flatshade/pkg/render"
)

// ErrInvalid is returned for settings that fail validation or parsing.
var ErrInvalid = errors.New("invalid config")

// Config holds all render settings.
type Config struct {
	// Output size in pixels (snapshot only; the viewer follows the terminal)
	Width  int
	Height int
	FPS    int

	// Shading
	Background render.Color
	MainColor  render.Color
	Light      math3d.Vec3

	// Camera
	FOV            float64 // Vertical field of view in degrees
	CameraDistance float64
	SpinSpeed      float64 // Radians per frame around Y

	// Snapshot output
	Output string
	Frames int
	Scale  int
}

// Default returns the settings of the classic spinning model: black
// background, white model, light along +Z, 45 degree FOV, camera 5 units
// away and 2 degrees of spin per frame.
func Default() Config {
	return Config{
		Width:          640,
		Height:         480,
		FPS:            30,
		Background:     render.ColorBlack,
		MainColor:      render.ColorWhite,
		Light:          math3d.V3(0, 0, 1),
		FOV:            45,
		CameraDistance: 5,
		SpinSpeed:      math3d.Radians(2),
		Frames:         1,
		Scale:          1,
	}
}

// file is the JSON layout. Colors and vectors are written as "R,G,B[,A]" and
// "x,y,z" strings; absent fields keep their defaults.
type file struct {
	Width          *int     `json:"width"`
	Height         *int     `json:"height"`
	FPS            *int     `json:"fps"`
	Background     *string  `json:"background"`
	MainColor      *string  `json:"main_color"`
	Light          *string  `json:"light"`
	FOV            *float64 `json:"fov"`
	CameraDistance *float64 `json:"camera_distance"`
	SpinSpeed      *float64 `json:"spin_speed"`
	Output         *string  `json:"output"`
	Frames         *int     `json:"frames"`
	Scale          *int     `json:"scale"`
}

// Load reads a JSON config file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := Default()
	if err := cfg.apply(f); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(f file) error {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setInt(&c.Width, f.Width)
	setInt(&c.Height, f.Height)
	setInt(&c.FPS, f.FPS)
	setInt(&c.Frames, f.Frames)
	setInt(&c.Scale, f.Scale)
	setFloat(&c.FOV, f.FOV)
	setFloat(&c.CameraDistance, f.CameraDistance)
	setFloat(&c.SpinSpeed, f.SpinSpeed)
	if f.Output != nil {
		c.Output = *f.Output
	}

	var err error
	if f.Background != nil {
		if c.Background, err = ParseColor(*f.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	if f.MainColor != nil {
		if c.MainColor, err = ParseColor(*f.MainColor); err != nil {
			return fmt.Errorf("main_color: %w", err)
		}
	}
	if f.Light != nil {
		if c.Light, err = ParseVec3(*f.Light); err != nil {
			return fmt.Errorf("light: %w", err)
		}
	}
	return nil
}

// Validate checks that the settings can drive a render.
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("size %dx%d must be positive: %w", c.Width, c.Height, ErrInvalid)
	case c.FPS < 1 || c.FPS > 240:
		return fmt.Errorf("fps %d outside 1..240: %w", c.FPS, ErrInvalid)
	case c.Frames < 1:
		return fmt.Errorf("frames %d must be at least 1: %w", c.Frames, ErrInvalid)
	case c.Scale < 1 || c.Scale > 16:
		return fmt.Errorf("scale %d outside 1..16: %w", c.Scale, ErrInvalid)
	case c.Light.IsZero():
		return fmt.Errorf("light direction is zero: %w", ErrInvalid)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("fov %v outside (0, 180): %w", c.FOV, ErrInvalid)
	case c.CameraDistance <= 0:
		return fmt.Errorf("camera distance %v must be positive: %w", c.CameraDistance, ErrInvalid)
	}
	return nil
}

// ParseColor parses "R,G,B" or "R,G,B,A" with channels in 0..255.
// A missing alpha is 255.
func ParseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return render.Color{}, fmt.Errorf("color %q: want R,G,B[,A]: %w", s, ErrInvalid)
	}

	ch := [4]uint8{3: 255}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return render.Color{}, fmt.Errorf("color %q: channel %q not in 0..255: %w", s, p, ErrInvalid)
		}
		ch[i] = uint8(v)
	}
	return render.RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// ParseVec3 parses "x,y,z".
func ParseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("vector %q: want x,y,z: %w", s, ErrInvalid)
	}

	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return math3d.Vec3{}, fmt.Errorf("vector %q: component %q: %w", s, p, ErrInvalid)
		}
		c[i] = v
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// FormatColor is the inverse of ParseColor. Opaque colors omit alpha.
func FormatColor(c render.Color) string {
	if c.A == 255 {
		return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

// FormatVec3 is the inverse of ParseVec3.
func FormatVec3(v math3d.Vec3) string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + "," +
		strconv.FormatFloat(v.Y, 'g', -1, 64) + "," +
		strconv.FormatFloat(v.Z, 'g', -1, 64)
}
