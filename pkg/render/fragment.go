package render

import (
	"errors"
	"math"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// Pipeline contract violations. Stages wrap these with context; match them
// with errors.Is.
var (
	ErrOutOfBounds        = errors.New("framebuffer write out of bounds")
	ErrInvalidSize        = errors.New("invalid framebuffer size")
	ErrVertexCount        = errors.New("vertex count does not match primitive size")
	ErrUnknownPrimitive   = errors.New("unknown primitive type")
	ErrZeroW              = errors.New("zero clip-space w")
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)

// Vertex is a pipeline vertex. Before the vertex stage Position is in model
// space; after it, Position is in screen space and Normal is a unit world-space
// normal.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    Color
}

// Fragment is a candidate framebuffer write produced by rasterization.
type Fragment struct {
	X, Y      int     // Pixel coordinates, y grows upward
	Color     Color   // Color before shading
	Depth     float64 // Interpolated screen-space z, smaller is nearer
	Intensity float64 // Flat light intensity of the source triangle
}

// FragColor is one framebuffer cell.
type FragColor struct {
	Color Color
	Depth float64
}

// MaxDepth is the depth of a cleared cell. Any finite fragment depth passes
// the depth test against it.
const MaxDepth = math.MaxFloat64
