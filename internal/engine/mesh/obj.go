package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// OBJWriter streams several meshes into one Wavefront OBJ document.
type OBJWriter struct {
	w      *bufio.Writer
	offset uint32
}

// NewOBJWriter creates an OBJ writer on w.
func NewOBJWriter(w io.Writer) *OBJWriter {
	return &OBJWriter{w: bufio.NewWriter(w)}
}

// Add writes m as a named object translated by the given offset.
func (o *OBJWriter) Add(name string, m *Mesh, offset [3]float32) error {
	if m.IsEmpty() {
		return nil
	}
	if _, err := fmt.Fprintf(o.w, "o %s\n", name); err != nil {
		return err
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(o.w, "v %g %g %g\n", v.Position[0]+offset[0], v.Position[1]+offset[1], v.Position[2]+offset[2])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(o.w, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Indices[i] + o.offset + 1
		b := m.Indices[i+1] + o.offset + 1
		c := m.Indices[i+2] + o.offset + 1
		fmt.Fprintf(o.w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	o.offset += uint32(len(m.Vertices))
	return nil
}

// Flush writes any buffered output.
func (o *OBJWriter) Flush() error {
	return o.w.Flush()
}
