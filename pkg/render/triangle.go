package render

import (
	"fmt"
	"math"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// edge holds the coefficients of the edge function A*x + B*y + C for the
// directed edge a -> b. The value is positive for points left of the edge,
// which for a counterclockwise triangle (y up) is the interior.
type edge struct {
	A, B, C float64
	owns    bool // Pixels exactly on the edge belong to this triangle
}

// newEdge builds the edge a -> b.
//
// Fill convention: top-left as seen on the presented image. Framebuffer y
// grows upward, so for counterclockwise triangles the owning edges are left
// edges (heading down) and the bottom edge (heading right), which is the
// top edge once the image is flipped for display.
func newEdge(ax, ay, bx, by float64) edge {
	dx, dy := bx-ax, by-ay
	return edge{
		A:    ay - by,
		B:    bx - ax,
		C:    ax*by - bx*ay,
		owns: dy < 0 || (dy == 0 && dx > 0),
	}
}

func (e edge) eval(x, y float64) float64 {
	return e.A*x + e.B*y + e.C
}

// covers applies the fill convention to an edge value.
func (e edge) covers(w float64) bool {
	return w > 0 || (w == 0 && e.owns)
}

// EdgeFunction returns twice the signed area of the triangle (a, b, p).
// It is positive when p lies to the left of a -> b.
func EdgeFunction(a, b, p math3d.Vec3) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// FlatIntensity returns the light intensity shared by every fragment of a
// triangle: the dot product of the normalized average of the vertex normals
// with the normalized light direction, clamped at zero.
func FlatIntensity(n0, n1, n2, light math3d.Vec3) float64 {
	n := n0.Add(n1).Add(n2).Normalize()
	l := light.Normalize()
	if n.IsZero() || l.IsZero() {
		return 0
	}
	return math.Max(0, n.Dot(l))
}

// RasterizeTriangle emits one fragment per pixel covered by the screen-space
// triangle (v0, v1, v2), clipped to [0, width) x [0, height).
//
// Pixels are sampled at integer coordinates. Depth is interpolated from the
// vertex z values with barycentric weights; all fragments carry base as their
// color and the triangle's FlatIntensity. Both windings are rasterized.
// Zero-area or non-finite triangles return ErrDegenerateTriangle.
func RasterizeTriangle(v0, v1, v2 Vertex, width, height int, light math3d.Vec3, base Color) ([]Fragment, error) {
	p0, p1, p2 := v0.Position, v1.Position, v2.Position

	if !finite(p0) || !finite(p1) || !finite(p2) {
		return nil, fmt.Errorf("non-finite vertex: %w", ErrDegenerateTriangle)
	}

	area := EdgeFunction(p0, p1, p2)
	if area == 0 {
		return nil, fmt.Errorf("zero area: %w", ErrDegenerateTriangle)
	}
	if area < 0 {
		// Rewind clockwise triangles so edge ownership is always evaluated
		// on counterclockwise edges.
		p1, p2 = p2, p1
		area = -area
	}

	// Bounding box, clamped to the screen before converting to int: screen
	// coordinates near the camera plane can exceed the int range.
	fMinX := math.Max(0, math.Ceil(min3(p0.X, p1.X, p2.X)))
	fMaxX := math.Min(float64(width-1), math.Floor(max3(p0.X, p1.X, p2.X)))
	fMinY := math.Max(0, math.Ceil(min3(p0.Y, p1.Y, p2.Y)))
	fMaxY := math.Min(float64(height-1), math.Floor(max3(p0.Y, p1.Y, p2.Y)))

	if fMinX > fMaxX || fMinY > fMaxY {
		return nil, nil
	}
	minX, maxX := int(fMinX), int(fMaxX)
	minY, maxY := int(fMinY), int(fMaxY)

	// Edge i is opposite vertex i, so its value is vertex i's weight.
	e0 := newEdge(p1.X, p1.Y, p2.X, p2.Y)
	e1 := newEdge(p2.X, p2.Y, p0.X, p0.Y)
	e2 := newEdge(p0.X, p0.Y, p1.X, p1.Y)
	invArea := 1.0 / area

	intensity := FlatIntensity(v0.Normal, v1.Normal, v2.Normal, light)

	frags := make([]Fragment, 0, (maxX-minX+1)*(maxY-minY+1)/2+1)
	for y := minY; y <= maxY; y++ {
		py := float64(y)
		for x := minX; x <= maxX; x++ {
			px := float64(x)

			w0 := e0.eval(px, py)
			if !e0.covers(w0) {
				continue
			}
			w1 := e1.eval(px, py)
			if !e1.covers(w1) {
				continue
			}
			w2 := e2.eval(px, py)
			if !e2.covers(w2) {
				continue
			}

			z := (w0*p0.Z + w1*p1.Z + w2*p2.Z) * invArea

			frags = append(frags, Fragment{
				X:         x,
				Y:         y,
				Color:     base,
				Depth:     z,
				Intensity: intensity,
			})
		}
	}

	return frags, nil
}

func finite(v math3d.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
