package render

import (
	"fmt"
	"sync"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// PrimitiveKind selects how a flat vertex stream is grouped and rasterized.
type PrimitiveKind int

const (
	PrimitiveTriangles PrimitiveKind = iota // Consecutive triples
)

// String returns the primitive kind name.
func (k PrimitiveKind) String() string {
	if k == PrimitiveTriangles {
		return "triangles"
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

// Primitive is one assembled vertex group.
type Primitive struct {
	Kind     PrimitiveKind
	First    int      // Index of the first source vertex
	Vertices []Vertex // Screen-space vertices, len fixed by Kind
}

// RasterTarget is what a topology needs to know about the destination when
// rasterizing.
type RasterTarget struct {
	Width, Height int
	Light         math3d.Vec3
	Base          Color
}

// Topology is the assembly and rasterization strategy of a primitive kind.
type Topology interface {
	// Assemble groups vertices into primitives, preserving input order.
	Assemble(vertices []Vertex) ([]Primitive, error)
	// Rasterize converts one assembled primitive into fragments.
	Rasterize(p Primitive, target RasterTarget) ([]Fragment, error)
}

var (
	topologyMu sync.RWMutex
	topologies = map[PrimitiveKind]Topology{
		PrimitiveTriangles: triangleTopology{},
	}
)

// RegisterTopology installs or replaces the strategy for kind.
func RegisterTopology(kind PrimitiveKind, t Topology) {
	topologyMu.Lock()
	defer topologyMu.Unlock()
	topologies[kind] = t
}

// LookupTopology returns the strategy registered for kind.
func LookupTopology(kind PrimitiveKind) (Topology, error) {
	topologyMu.RLock()
	defer topologyMu.RUnlock()
	t, ok := topologies[kind]
	if !ok {
		return nil, fmt.Errorf("%v: %w", kind, ErrUnknownPrimitive)
	}
	return t, nil
}

// Assemble groups transformed vertices into primitives of the given kind.
// Unknown kinds return no primitives and ErrUnknownPrimitive.
func Assemble(kind PrimitiveKind, vertices []Vertex) ([]Primitive, error) {
	t, err := LookupTopology(kind)
	if err != nil {
		return nil, err
	}
	return t.Assemble(vertices)
}

type triangleTopology struct{}

func (triangleTopology) Assemble(vertices []Vertex) ([]Primitive, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("triangles need a multiple of 3 vertices, got %d: %w", len(vertices), ErrVertexCount)
	}
	prims := make([]Primitive, 0, len(vertices)/3)
	for i := 0; i < len(vertices); i += 3 {
		prims = append(prims, Primitive{
			Kind:     PrimitiveTriangles,
			First:    i,
			Vertices: vertices[i : i+3 : i+3],
		})
	}
	return prims, nil
}

func (triangleTopology) Rasterize(p Primitive, target RasterTarget) ([]Fragment, error) {
	if len(p.Vertices) != 3 {
		return nil, fmt.Errorf("triangle with %d vertices: %w", len(p.Vertices), ErrVertexCount)
	}
	return RasterizeTriangle(p.Vertices[0], p.Vertices[1], p.Vertices[2],
		target.Width, target.Height, target.Light, target.Base)
}
