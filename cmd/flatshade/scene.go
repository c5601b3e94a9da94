package main

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/flatshade/pkg/config"
	"github.com/taigrr/flatshade/pkg/math3d"
	"github.com/taigrr/flatshade/pkg/models"
	"github.com/taigrr/flatshade/pkg/render"
)

// modelSize is the largest dimension a loaded model is scaled to.
const modelSize = 2.0

// loadVertices loads a model, centers it, fits it to modelSize and flattens
// it into a triangle stream.
func loadVertices(path string, logger *slog.Logger) ([]render.Vertex, error) {
	mesh, err := models.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	mesh.Normalize(modelSize)

	verts, err := mesh.VertexArray()
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	logger.Info("loaded model",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())
	return verts, nil
}

// scene is one model drawn through one pipeline and camera.
type scene struct {
	verts    []render.Vertex
	fb       *render.Framebuffer
	pipeline *render.Pipeline
	camera   *render.Camera
}

func newScene(cfg config.Config, verts []render.Vertex, width, height int, logger *slog.Logger) *scene {
	fb := render.NewFramebuffer(width, height)
	fb.SetClearColor(cfg.Background)
	fb.SetMainColor(cfg.MainColor)
	fb.SetLight(cfg.Light)
	fb.Clear()

	camera := render.NewCamera()
	camera.SetFOV(math3d.Radians(cfg.FOV))
	camera.SetDistance(cfg.CameraDistance)

	return &scene{
		verts:    verts,
		fb:       fb,
		pipeline: render.NewPipeline(fb, render.WithLogger(logger)),
		camera:   camera,
	}
}

// resize reallocates the framebuffer.
func (s *scene) resize(width, height int) error {
	return s.fb.SetSize(float64(width), float64(height))
}

// render clears the framebuffer and draws the model with the given transform.
func (s *scene) render(model math3d.Mat4) (render.FrameStats, error) {
	s.pipeline.SetUniform(s.camera.Uniform(model, s.fb.Width(), s.fb.Height()))
	return s.pipeline.Render(s.verts)
}
