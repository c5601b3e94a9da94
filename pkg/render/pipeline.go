package render

import (
	"errors"
	"fmt"
	"log/slog"
)

// FrameStats counts what happened during one Draw call.
type FrameStats struct {
	Vertices   int // Input vertices
	Primitives int // Primitives rasterized
	Fragments  int // Fragments shaded
	Written    int // Fragments that passed the depth test
	Degenerate int // Primitives skipped for zero area
	ZeroW      int // Primitives skipped because a vertex had w == 0
}

// Pipeline is the render context: the framebuffer, the current uniforms and
// the stage configuration. Create it once, update its uniforms every frame.
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	fb      *Framebuffer
	uniform Uniform
	kind    PrimitiveKind
	shader  FragmentShaderFunc
	logger  *slog.Logger

	// Scratch buffers reused between frames
	transformed []Vertex
	invalid     []bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger used for skipped primitives. The default
// discards everything.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPrimitive selects the primitive kind the vertex stream is assembled as.
func WithPrimitive(kind PrimitiveKind) PipelineOption {
	return func(p *Pipeline) {
		p.kind = kind
	}
}

// WithFragmentShader replaces the default FragmentShader.
func WithFragmentShader(fn FragmentShaderFunc) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.shader = fn
		}
	}
}

// NewPipeline creates a pipeline drawing into fb with identity uniforms,
// triangle assembly and the intensity fragment shader.
func NewPipeline(fb *Framebuffer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fb:      fb,
		uniform: IdentityUniform(),
		kind:    PrimitiveTriangles,
		shader:  FragmentShader,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Framebuffer returns the pipeline's framebuffer.
func (p *Pipeline) Framebuffer() *Framebuffer { return p.fb }

// Uniform returns the current uniforms.
func (p *Pipeline) Uniform() Uniform { return p.uniform }

// SetUniform replaces the uniforms used by subsequent draws.
func (p *Pipeline) SetUniform(u Uniform) { p.uniform = u }

// Render clears the framebuffer and draws vertices.
func (p *Pipeline) Render(vertices []Vertex) (FrameStats, error) {
	p.fb.Clear()
	return p.Draw(vertices)
}

// Draw runs the vertex stage over vertices, assembles primitives, rasterizes
// them against the framebuffer's size, light and main color, shades every
// fragment and writes it with the depth test, in emission order.
//
// Degenerate primitives and primitives with a zero-w vertex are skipped and
// counted. A vertex count that does not fit the primitive kind or a write
// outside the framebuffer aborts the frame. An unknown primitive kind draws
// nothing and returns ErrUnknownPrimitive.
func (p *Pipeline) Draw(vertices []Vertex) (FrameStats, error) {
	stats := FrameStats{Vertices: len(vertices)}

	topo, err := LookupTopology(p.kind)
	if err != nil {
		p.logger.Warn("skipping frame", "primitive", p.kind, "error", err)
		return stats, err
	}

	// 1. Vertex shader
	transformed, invalid := p.scratch(len(vertices))
	u := p.uniform
	mvp := u.Projection.Mul(u.View).Mul(u.Model)
	for i, v := range vertices {
		tv, err := transformVertex(v, mvp, u)
		if err != nil {
			invalid[i] = true
			continue
		}
		transformed[i] = tv
	}

	// 2. Primitive assembly
	prims, err := topo.Assemble(transformed)
	if err != nil {
		return stats, fmt.Errorf("assemble %v: %w", p.kind, err)
	}

	// 3. Rasterization, 4. fragment shader and depth-tested write
	target := RasterTarget{
		Width:  p.fb.Width(),
		Height: p.fb.Height(),
		Light:  p.fb.Light(),
		Base:   p.fb.MainColor(),
	}
	for i, prim := range prims {
		if prim.First < 0 || prim.First+len(prim.Vertices) > len(invalid) {
			return stats, fmt.Errorf("primitive %d spans vertices [%d, %d) of %d: %w",
				i, prim.First, prim.First+len(prim.Vertices), len(invalid), ErrVertexCount)
		}
		if hasInvalid(invalid[prim.First : prim.First+len(prim.Vertices)]) {
			stats.ZeroW++
			p.logger.Debug("skipping primitive", "index", i, "error", ErrZeroW)
			continue
		}

		frags, err := topo.Rasterize(prim, target)
		if errors.Is(err, ErrDegenerateTriangle) {
			stats.Degenerate++
			p.logger.Debug("skipping primitive", "index", i, "error", err)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("rasterize primitive %d: %w", i, err)
		}
		stats.Primitives++

		for _, f := range frags {
			stats.Fragments++
			written, err := p.fb.write(p.shader(f))
			if err != nil {
				return stats, fmt.Errorf("primitive %d: %w", i, err)
			}
			if written {
				stats.Written++
			}
		}
	}

	return stats, nil
}

func (p *Pipeline) scratch(n int) ([]Vertex, []bool) {
	if cap(p.transformed) < n {
		p.transformed = make([]Vertex, n)
		p.invalid = make([]bool, n)
	}
	p.transformed = p.transformed[:n]
	p.invalid = p.invalid[:n]
	clear(p.invalid)
	return p.transformed, p.invalid
}

func hasInvalid(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}
