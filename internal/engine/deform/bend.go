// Package deform wraps flat extruded text around a cylinder.
package deform

import (
	gomath "math"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
)

// Bend maps a flat, origin-centred text mesh onto the outer surface of a
// cylinder of the given radius around the Y axis and returns the result as
// a new mesh. The input is not modified.
//
// Every vertex is pushed out by radius along Z, then its horizontal offset
// is turned into an angle θ = x/radius so arc length along the surface
// matches the flat width. Depth stays radial. Normals are recomputed.
//
// Nothing is clamped: text wider than the half circumference overlaps
// itself (see Overflows). NaN coordinates propagate.
func Bend(flat *mesh.Mesh, radius float32) *mesh.Mesh {
	out := flat.Clone()
	if out == nil {
		return &mesh.Mesh{}
	}

	r := float64(radius)
	for i := range out.Vertices {
		p := &out.Vertices[i].Position
		x := float64(p[0])
		z := float64(p[2]) + r

		sin, cos := gomath.Sincos(x / r)
		p[0] = float32(z * sin)
		p[2] = float32(z * cos)
	}

	out.ComputeVertexNormals()
	out.ComputeBounds()
	return out
}

// MaxWrapAngle returns the largest absolute wrap angle, in radians, that a
// mesh with the given flat bounds reaches on a cylinder of radius.
func MaxWrapAngle(flat mesh.Bounds, radius float32) float64 {
	extent := gomath.Max(gomath.Abs(float64(flat.Min[0])), gomath.Abs(float64(flat.Max[0])))
	return extent / float64(radius)
}

// Overflows reports whether bending would wrap past a half turn in either
// direction, at which point the two ends of the text meet behind the ring.
func Overflows(flat mesh.Bounds, radius float32) bool {
	return MaxWrapAngle(flat, radius) > gomath.Pi
}
