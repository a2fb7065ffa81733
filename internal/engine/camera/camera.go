// Package camera provides the fixed preview camera and the turntable that
// spins the ring in front of it.
package camera

import (
	gomath "math"

	"github.com/Faultbox/wordsring/pkg/math"
)

// Camera is a fixed perspective camera.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3

	// Vertical field of view in degrees.
	FovY float32

	Near float32
	Far  float32
}

// NewCamera returns the stock preview camera, slightly above the ring and
// looking just below its centre.
func NewCamera() *Camera {
	return &Camera{
		Position: math.Vec3{X: 0, Y: 10, Z: 60},
		Target:   math.Vec3{X: 0, Y: -1, Z: 0},
		FovY:     30,
		Near:     1,
		Far:      1000,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, math.Vec3{X: 0, Y: 1, Z: 0})
}

// ProjectionMatrix returns the projection for a viewport aspect ratio.
func (c *Camera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	fov := float32(float64(c.FovY) * gomath.Pi / 180)
	return math.Perspective(fov, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}
