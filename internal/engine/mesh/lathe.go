package mesh

import gomath "math"

// Lathe revolves a profile polyline of (radius, y) points around the Y axis.
// Each profile segment gets its own ring of vertices so creases between
// segments stay sharp after ComputeVertexNormals. Faces point to the right
// of the walking direction in the (radius, y) plane, so a closed
// cross-section walked counter-clockwise yields outward normals.
func Lathe(profile [][2]float32, segments int) *Mesh {
	if len(profile) < 2 || segments < 3 {
		return &Mesh{}
	}

	m := &Mesh{}
	cols := segments + 1

	for p := 0; p+1 < len(profile); p++ {
		a, b := profile[p], profile[p+1]
		base := uint32(len(m.Vertices))

		for row, pt := range [2][2]float32{a, b} {
			for s := 0; s < cols; s++ {
				u := float32(s) / float32(segments)
				theta := float64(u) * 2 * gomath.Pi
				sin, cos := gomath.Sincos(theta)
				m.Vertices = append(m.Vertices, Vertex{
					Position: [3]float32{pt[0] * float32(sin), pt[1], pt[0] * float32(cos)},
					TexCoord: [2]float32{u, float32(row)},
				})
			}
		}

		for s := 0; s < segments; s++ {
			i0 := base + uint32(s)
			i1 := i0 + 1
			j0 := base + uint32(cols+s)
			j1 := j0 + 1
			m.Indices = append(m.Indices, i0, i1, j1, i0, j1, j0)
		}
	}

	m.ComputeVertexNormals()
	m.ComputeBounds()
	return m
}
