package render

import (
	"math"
	"testing"
)

func saturate(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

func TestSaturatingAddAllInputs(t *testing.T) {
	for a := range 256 {
		for b := range 256 {
			c1 := RGBA(uint8(a), uint8(b), uint8(255-a), uint8(a))
			c2 := RGBA(uint8(b), uint8(a), uint8(b), uint8(255-b))
			got := SaturatingAdd(c1, c2)
			want := RGBA(
				saturate(a+b),
				saturate(b+a),
				saturate(255-a+b),
				saturate(a+255-b),
			)
			if got != want {
				t.Fatalf("SaturatingAdd(%v, %v) = %v, want %v", c1, c2, got, want)
			}
		}
	}
}

func TestSaturatingAddOverflow(t *testing.T) {
	got := SaturatingAdd(RGBA(200, 10, 0, 255), RGBA(200, 20, 0, 1))
	want := RGBA(255, 30, 0, 255)
	if got != want {
		t.Errorf("SaturatingAdd = %v, want %v", got, want)
	}
}

func TestScale(t *testing.T) {
	for f := 0.0; f <= 2.0; f += 0.05 {
		for v := range 256 {
			c := RGBA(uint8(v), uint8(255-v), uint8(v/2), 255)
			got := Scale(c, f)
			want := RGBA(
				saturate(int(math.Trunc(float64(v)*f))),
				saturate(int(math.Trunc(float64(255-v)*f))),
				saturate(int(math.Trunc(float64(v/2)*f))),
				saturate(int(math.Trunc(255*f))),
			)
			if got != want {
				t.Fatalf("Scale(%v, %v) = %v, want %v", c, f, got, want)
			}
		}
	}
}

func TestScaleEdgeCases(t *testing.T) {
	c := RGB(100, 200, 255)

	tests := []struct {
		name string
		f    float64
		want Color
	}{
		{"zero", 0, RGBA(0, 0, 0, 0)},
		{"identity", 1, c},
		{"half truncates", 0.5, RGBA(50, 100, 127, 127)},
		{"negative", -1, RGBA(0, 0, 0, 0)},
		{"nan", math.NaN(), RGBA(0, 0, 0, 0)},
		{"saturates", 10, RGBA(255, 255, 255, 255)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Scale(c, tc.f); got != tc.want {
				t.Errorf("Scale(%v, %v) = %v, want %v", c, tc.f, got, tc.want)
			}
		})
	}
}

func TestNewColorClamps(t *testing.T) {
	if got := NewColor(-20, 128, 300); got != RGB(0, 128, 255) {
		t.Errorf("NewColor = %v", got)
	}
	if got := NewColorA(1, 2, 3, 999); got != RGBA(1, 2, 3, 255) {
		t.Errorf("NewColorA = %v", got)
	}
}

func TestColorEqual(t *testing.T) {
	if !ColorEqual(RGBA(1, 2, 3, 4), RGBA(1, 2, 3, 4)) {
		t.Error("identical colors should be equal")
	}
	if ColorEqual(RGBA(1, 2, 3, 4), RGBA(1, 2, 3, 5)) {
		t.Error("colors differing in alpha should not be equal")
	}
}
