// Package mesh provides the indexed triangle mesh shared by the text,
// deformation, and ring shell builders.
package mesh

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds triangle geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// emptyBounds is the starting value for bounds accumulation.
func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
		Bounds:   m.Bounds,
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Indices, m.Indices)
	return out
}

// Append merges other into m, rebasing its indices.
func (m *Mesh) Append(other *Mesh) {
	if other.IsEmpty() {
		return
	}
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
	m.ComputeBounds()
}

// ComputeBounds recalculates the bounding box from the vertex positions.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	b := emptyBounds()
	for i := range m.Vertices {
		updateBounds(&b, m.Vertices[i].Position)
	}
	m.Bounds = b
}

// Center translates the mesh so its bounding box is centred on the origin
// on all three axes. Returns the offset that was subtracted.
func (m *Mesh) Center() [3]float32 {
	m.ComputeBounds()
	c := m.Bounds.Center()
	m.Translate(-c[0], -c[1], -c[2])
	return c
}

// Translate moves every vertex by (x, y, z).
func (m *Mesh) Translate(x, y, z float32) {
	for i := range m.Vertices {
		m.Vertices[i].Position[0] += x
		m.Vertices[i].Position[1] += y
		m.Vertices[i].Position[2] += z
	}
	m.Bounds.Min = [3]float32{m.Bounds.Min[0] + x, m.Bounds.Min[1] + y, m.Bounds.Min[2] + z}
	m.Bounds.Max = [3]float32{m.Bounds.Max[0] + x, m.Bounds.Max[1] + y, m.Bounds.Max[2] + z}
}

func updateBounds(b *Bounds, p [3]float32) {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] {
			b.Min[axis] = p[axis]
		}
		if p[axis] > b.Max[axis] {
			b.Max[axis] = p[axis]
		}
	}
}
