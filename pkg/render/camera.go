package render

import (
	"github.com/taigrr/flatshade/pkg/math3d"
)

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Position math3d.Vec3 // Eye position in world space
	Target   math3d.Vec3 // Point the camera looks at
	Up       math3d.Vec3 // Up direction

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera at (0, 0, 5) looking at the origin with a 45
// degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		Target:      math3d.Zero3(),
		Up:          math3d.Up(),
		FOV:         math3d.Radians(45),
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}

// SetDistance moves the camera along its view direction so that it sits d
// units from the target.
func (c *Camera) SetDistance(d float64) {
	dir := c.Position.Sub(c.Target).Normalize()
	if dir.IsZero() {
		dir = math3d.V3(0, 0, 1)
	}
	c.SetPosition(c.Target.Add(dir.Scale(d)))
}

// Zoom changes the distance to the target by delta, clamped to [minDist, maxDist].
func (c *Camera) Zoom(delta, minDist, maxDist float64) {
	d := c.Distance() + delta
	d = max(minDist, min(maxDist, d))
	c.SetDistance(d)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// Uniform builds the frame uniforms for a width x height target.
// The camera's aspect ratio is updated to match.
func (c *Camera) Uniform(model math3d.Mat4, width, height int) Uniform {
	if aspect := float64(width) / float64(max(height, 1)); aspect != c.AspectRatio {
		c.SetAspectRatio(aspect)
	}
	return Uniform{
		Model:      model,
		View:       c.ViewMatrix(),
		Projection: c.ProjectionMatrix(),
		Viewport:   math3d.Viewport(float64(width), float64(height)),
	}
}
