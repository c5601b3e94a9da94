// Package models loads triangle meshes and flattens them into vertex streams
// for the flatshade pipeline.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/flatshade/pkg/math3d"
	"github.com/taigrr/flatshade/pkg/render"
)

// NoNormal marks a face corner without a normal index.
const NoNormal = -1

// ErrIndexOutOfRange is returned when a face refers past the end of the
// position or normal list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Mesh is an indexed triangle mesh. Positions and normals are indexed
// separately, like OBJ.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Normals   []math3d.Vec3
	Faces     []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is one triangle. Indices are 0-based.
type Face struct {
	V [3]int // Indices into Mesh.Positions
	N [3]int // Indices into Mesh.Normals, NoNormal when absent
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]
	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Normalize moves the mesh so its bounding box is centered on the origin and
// scales it uniformly so the largest dimension equals size.
// Normals are unaffected by a uniform scale.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	center := m.Center()
	ext := m.Size()
	largest := max(ext.X, ext.Y, ext.Z)

	k := 1.0
	if largest > 0 {
		k = size / largest
	}
	for i, p := range m.Positions {
		m.Positions[i] = p.Sub(center).Scale(k)
	}
	m.CalculateBounds()
}

// CalculateNormals gives every face that lacks a normal index its geometric
// face normal. Faces that already have normals are left alone. It returns the
// number of faces updated.
func (m *Mesh) CalculateNormals() int {
	updated := 0
	for i := range m.Faces {
		f := &m.Faces[i]
		if f.N[0] != NoNormal && f.N[1] != NoNormal && f.N[2] != NoNormal {
			continue
		}
		if !m.validPositions(f.V) {
			continue
		}

		v0 := m.Positions[f.V[0]]
		v1 := m.Positions[f.V[1]]
		v2 := m.Positions[f.V[2]]
		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		idx := len(m.Normals)
		m.Normals = append(m.Normals, normal)
		f.N = [3]int{idx, idx, idx}
		updated++
	}
	return updated
}

func (m *Mesh) validPositions(v [3]int) bool {
	for _, i := range v {
		if i < 0 || i >= len(m.Positions) {
			return false
		}
	}
	return true
}

// VertexArray flattens the faces into a triangle stream of 3 vertices per
// face, in face order. Corners without a normal get a zero normal. Any index
// outside its list returns ErrIndexOutOfRange.
func (m *Mesh) VertexArray() ([]render.Vertex, error) {
	out := make([]render.Vertex, 0, len(m.Faces)*3)
	for fi, f := range m.Faces {
		for c := range 3 {
			vi, ni := f.V[c], f.N[c]
			if vi < 0 || vi >= len(m.Positions) {
				return nil, fmt.Errorf("face %d position %d of %d: %w", fi, vi, len(m.Positions), ErrIndexOutOfRange)
			}

			v := render.Vertex{Position: m.Positions[vi], Color: render.ColorWhite}
			switch {
			case ni == NoNormal:
			case ni < 0 || ni >= len(m.Normals):
				return nil, fmt.Errorf("face %d normal %d of %d: %w", fi, ni, len(m.Normals), ErrIndexOutOfRange)
			default:
				v.Normal = m.Normals[ni]
			}
			out = append(out, v)
		}
	}
	return out, nil
}
