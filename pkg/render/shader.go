package render

import (
	"fmt"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// Uniform holds the per-frame transform matrices. The pipeline only reads it.
type Uniform struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4
}

// IdentityUniform returns a Uniform whose four matrices are the identity.
func IdentityUniform() Uniform {
	id := math3d.Identity()
	return Uniform{Model: id, View: id, Projection: id, Viewport: id}
}

// VertexShader maps a model-space vertex to screen space.
//
// The position goes through projection*view*model, is divided by w and then
// mapped by the viewport matrix. The normal is transformed by the upper 3x3 of
// the model matrix alone and normalized, so lighting happens in world space.
// The color is passed through.
func VertexShader(v Vertex, u Uniform) (Vertex, error) {
	mvp := u.Projection.Mul(u.View).Mul(u.Model)
	return transformVertex(v, mvp, u)
}

// transformVertex is VertexShader with a precomputed projection*view*model.
func transformVertex(v Vertex, mvp math3d.Mat4, u Uniform) (Vertex, error) {
	clip := mvp.MulVec4(math3d.V4FromV3(v.Position, 1))
	ndc, ok := clip.PerspectiveDivide()
	if !ok {
		return Vertex{}, fmt.Errorf("vertex %v: %w", v.Position, ErrZeroW)
	}
	screen := u.Viewport.MulVec4(math3d.V4FromV3(ndc, 1))

	return Vertex{
		Position: screen.Vec3(),
		Normal:   u.Model.MulVec3Dir(v.Normal).Normalize(),
		Color:    v.Color,
	}, nil
}

// FragmentShaderFunc is a pure per-fragment shading step.
type FragmentShaderFunc func(Fragment) Fragment

// FragmentShader attenuates the fragment color by its light intensity.
// Position and depth are unchanged.
func FragmentShader(f Fragment) Fragment {
	f.Color = Scale(f.Color, f.Intensity)
	return f
}
