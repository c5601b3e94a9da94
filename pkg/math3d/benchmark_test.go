package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkVertexChain(b *testing.B) {
	// projection * view * model, as built once per frame
	model := RotateY(0.5)
	view := LookAt(V3(0, 0, 5), Zero3(), Up())
	proj := Perspective(Radians(45), 16.0/9.0, 0.1, 100)
	mvp := proj.Mul(view).Mul(model)
	vp := Viewport(1920, 1080)
	p := V4(0.3, -0.2, 0.1, 1)

	for b.Loop() {
		ndc, _ := mvp.MulVec4(p).PerspectiveDivide()
		_ = vp.MulPoint(ndc)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}
