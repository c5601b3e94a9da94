package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	minDistance = 1.0
	maxDistance = 20.0

	// maxPitch keeps the model from tipping over the poles.
	maxPitch = math.Pi / 2
)

// spinAxis is one rotation angle whose velocity decays to rest through a
// critically damped spring.
type spinAxis struct {
	Angle    float64
	Velocity float64
	accel    float64
	spring   harmonica.Spring
}

func newSpinAxis(fps int) spinAxis {
	return spinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *spinAxis) update() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// orbit is the user-controlled view layered on the automatic spin: pitch and
// yaw driven by impulses, and a camera distance that eases toward its target.
type orbit struct {
	Pitch, Yaw spinAxis

	distance   float64
	distVel    float64
	target     float64
	distSpring harmonica.Spring

	fps    int
	home   float64
	lo, hi float64 // Zoom range, widened to include home
}

func newOrbit(fps int, distance float64) *orbit {
	o := &orbit{
		fps:        fps,
		home:       distance,
		lo:         min(minDistance, distance),
		hi:         max(maxDistance, distance),
		distSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	o.Reset()
	return o
}

// Impulse adds angular velocity in radians per frame.
func (o *orbit) Impulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Zoom moves the target distance by delta, clamped to [minDistance,
// maxDistance] or to the home distance when that lies outside.
func (o *orbit) Zoom(delta float64) {
	o.target = min(max(o.target+delta, o.lo), o.hi)
}

// Update advances one frame.
func (o *orbit) Update() {
	o.Pitch.update()
	if o.Pitch.Angle > maxPitch || o.Pitch.Angle < -maxPitch {
		o.Pitch.Angle = math.Copysign(maxPitch, o.Pitch.Angle)
		o.Pitch.Velocity, o.Pitch.accel = 0, 0
	}
	o.Yaw.update()
	o.distance, o.distVel = o.distSpring.Update(o.distance, o.distVel, o.target)
}

// Distance is the current eased camera distance.
func (o *orbit) Distance() float64 { return o.distance }

// Reset returns to no rotation at the home distance.
func (o *orbit) Reset() {
	o.Pitch = newSpinAxis(o.fps)
	o.Yaw = newSpinAxis(o.fps)
	o.distance, o.distVel, o.target = o.home, 0, o.home
}
