package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/flatshade/pkg/math3d"
)

// ErrMalformed is returned for OBJ records that cannot be parsed.
var ErrMalformed = errors.New("malformed obj")

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads the geometry of an OBJ stream: v, vn and f records.
//
// Face corners may be written as v, v/t, v//n or v/t/n. Indices are 1-based;
// negative indices count back from the latest record. Polygons with more than
// three corners are split into a triangle fan. Texture coordinates, groups,
// materials and other records are ignored. Faces without normals get face
// normals.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	var corners [][2]int
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			mesh.Positions = append(mesh.Positions, v)

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", line, err)
			}
			mesh.Normals = append(mesh.Normals, n)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with %d corners: %w", line, len(fields)-1, ErrMalformed)
			}
			corners = corners[:0]
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(mesh.Positions), len(mesh.Normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: face corner %q: %w", line, tok, err)
				}
				corners = append(corners, c)
			}
			for i := 1; i+1 < len(corners); i++ {
				a, b, c := corners[0], corners[i], corners[i+1]
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{a[0], b[0], c[0]},
					N: [3]int{a[1], b[1], c[1]},
				})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateNormals()
	mesh.CalculateBounds()
	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d: %w", len(fields), ErrMalformed)
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseCorner returns the 0-based position and normal indices of a face
// corner. The normal index is NoNormal when the corner has none.
func parseCorner(tok string, positions, normals int) ([2]int, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return [2]int{}, ErrMalformed
	}

	v, err := resolveIndex(parts[0], positions)
	if err != nil {
		return [2]int{}, err
	}
	n := NoNormal
	if len(parts) == 3 && parts[2] != "" {
		if n, err = resolveIndex(parts[2], normals); err != nil {
			return [2]int{}, err
		}
	}
	return [2]int{v, n}, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && count+i >= 0:
		return count + i, nil
	}
	return 0, fmt.Errorf("index %d with %d records: %w", i, count, ErrIndexOutOfRange)
}
