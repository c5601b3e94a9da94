package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedModel is returned by Load for unknown file extensions.
var ErrUnsupportedModel = errors.New("unsupported model format")

// Load reads a mesh, choosing the loader from the file extension:
// .obj, .glb or .gltf.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedModel)
	}
}
