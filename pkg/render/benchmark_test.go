package render

import (
	"image"
	"math"
	"testing"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// sphereVertices tessellates a rough sphere into a flat triangle stream.
func sphereVertices(rings, segments int) []Vertex {
	point := func(r, s int) math3d.Vec3 {
		theta := float64(r) / float64(rings) * math.Pi
		phi := float64(s) / float64(segments) * 2 * math.Pi
		return math3d.V3(
			math.Sin(theta)*math.Cos(phi),
			math.Cos(theta),
			math.Sin(theta)*math.Sin(phi),
		)
	}

	var out []Vertex
	for r := range rings {
		for s := range segments {
			a, b := point(r, s), point(r+1, s)
			c, d := point(r+1, s+1), point(r, s+1)
			for _, p := range []math3d.Vec3{a, b, c, a, c, d} {
				out = append(out, Vertex{Position: p, Normal: p, Color: ColorWhite})
			}
		}
	}
	return out
}

func BenchmarkClear(b *testing.B) {
	fb := NewFramebuffer(320, 200)

	for b.Loop() {
		fb.Clear()
	}
}

func BenchmarkRasterizeTriangle(b *testing.B) {
	v0, v1, v2 := vtx(10, 10, 0.5), vtx(150, 30, 0.5), vtx(60, 180, 0.5)
	light := math3d.V3(0, 0, 1)

	for b.Loop() {
		_, _ = RasterizeTriangle(v0, v1, v2, 320, 200, light, ColorWhite)
	}
}

func BenchmarkPipelineSphere(b *testing.B) {
	fb := NewFramebuffer(160, 96)
	p := NewPipeline(fb)
	cam := NewCamera()
	cam.SetDistance(3)
	verts := sphereVertices(16, 32)

	angle := 0.0
	for b.Loop() {
		angle += 0.01
		p.SetUniform(cam.Uniform(math3d.RotateY(angle), fb.Width(), fb.Height()))
		_, _ = p.Render(verts)
	}
}

func BenchmarkComposite(b *testing.B) {
	fb := NewFramebuffer(160, 96)
	img := image.NewRGBA(image.Rect(0, 0, 160, 96))

	for b.Loop() {
		fb.Composite(img)
	}
}
