package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
)

var (
	ErrMalformedShell      = errors.New("malformed shell geometry")
	ErrUnsupportedFaceType = errors.New("unsupported face type")
)

// Face type bits of the legacy JSON geometry format.
const (
	faceQuad = 1 << iota
	faceMaterial
	faceUV
	faceVertexUV
	faceNormal
	faceVertexNormal
	faceColor
	faceVertexColor
)

type legacyGeometry struct {
	Scale    *float64    `json:"scale"`
	Vertices []float32   `json:"vertices"`
	Normals  []float32   `json:"normals"`
	UVs      [][]float32 `json:"uvs"`
	Faces    []int       `json:"faces"`
}

// DecodeLegacyJSON reads a legacy three.js JSON geometry. Each face corner
// becomes its own vertex so per-corner normals and UVs survive. Normals are
// recomputed unless every face carries its own.
func DecodeLegacyJSON(r io.Reader) (*mesh.Mesh, error) {
	var g legacyGeometry
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedShell, err)
	}
	if len(g.Vertices)%3 != 0 || len(g.Normals)%3 != 0 {
		return nil, fmt.Errorf("%w: coordinate count not a multiple of 3", ErrMalformedShell)
	}

	scale := float32(1)
	if g.Scale != nil && *g.Scale != 0 {
		scale = float32(1 / *g.Scale)
	}

	d := decoder{g: &g, scale: scale}
	if err := d.run(); err != nil {
		return nil, err
	}

	m := d.m
	if m.IsEmpty() {
		return nil, fmt.Errorf("%w: no faces", ErrMalformedShell)
	}
	if d.missingNormals {
		m.ComputeVertexNormals()
	}
	m.ComputeBounds()
	return m, nil
}

// LoadLegacyFile decodes a legacy JSON geometry from disk.
func LoadLegacyFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shell file: %w", err)
	}
	defer f.Close()

	m, err := DecodeLegacyJSON(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}

type decoder struct {
	g              *legacyGeometry
	scale          float32
	pos            int
	m              *mesh.Mesh
	missingNormals bool
}

func (d *decoder) next() (int, error) {
	if d.pos >= len(d.g.Faces) {
		return 0, fmt.Errorf("%w: face data truncated at %d", ErrMalformedShell, d.pos)
	}
	v := d.g.Faces[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) take(n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		v, err := d.next()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) run() error {
	d.m = &mesh.Mesh{}
	layers := len(d.g.UVs)
	nverts := len(d.g.Vertices) / 3

	for face := 0; d.pos < len(d.g.Faces); face++ {
		typ, err := d.next()
		if err != nil {
			return err
		}
		if typ < 0 || typ > 0xff {
			return fmt.Errorf("%w: face %d type %d", ErrUnsupportedFaceType, face, typ)
		}

		n := 3
		if typ&faceQuad != 0 {
			n = 4
		}
		verts, err := d.take(n)
		if err != nil {
			return err
		}
		for _, v := range verts {
			if v < 0 || v >= nverts {
				return fmt.Errorf("%w: face %d vertex index %d out of range", ErrMalformedShell, face, v)
			}
		}

		if typ&faceMaterial != 0 {
			if _, err := d.next(); err != nil {
				return err
			}
		}
		if typ&faceUV != 0 {
			if _, err := d.take(layers); err != nil {
				return err
			}
		}

		var uvs []int
		if typ&faceVertexUV != 0 {
			for l := 0; l < layers; l++ {
				idx, err := d.take(n)
				if err != nil {
					return err
				}
				if l == 0 {
					uvs = idx
				}
			}
		}

		var faceN []int
		if typ&faceNormal != 0 {
			i, err := d.next()
			if err != nil {
				return err
			}
			faceN = []int{i, i, i, i}[:n]
		}
		if typ&faceVertexNormal != 0 {
			if faceN, err = d.take(n); err != nil {
				return err
			}
		}

		if typ&faceColor != 0 {
			if _, err := d.next(); err != nil {
				return err
			}
		}
		if typ&faceVertexColor != 0 {
			if _, err := d.take(n); err != nil {
				return err
			}
		}

		if err := d.emit(verts, uvs, faceN); err != nil {
			return fmt.Errorf("face %d: %w", face, err)
		}
	}
	return nil
}

// emit appends one face, splitting quads into (a, b, d) and (b, c, d).
func (d *decoder) emit(verts, uvs, normals []int) error {
	if normals == nil {
		d.missingNormals = true
	}
	base := uint32(len(d.m.Vertices))
	for i, v := range verts {
		vx := mesh.Vertex{Position: [3]float32{
			d.g.Vertices[v*3] * d.scale,
			d.g.Vertices[v*3+1] * d.scale,
			d.g.Vertices[v*3+2] * d.scale,
		}}
		if uvs != nil {
			layer := d.g.UVs[0]
			if uvs[i] < 0 || uvs[i]*2+1 >= len(layer) {
				return fmt.Errorf("%w: uv index %d out of range", ErrMalformedShell, uvs[i])
			}
			vx.TexCoord = [2]float32{layer[uvs[i]*2], layer[uvs[i]*2+1]}
		}
		if normals != nil {
			ni := normals[i]
			if ni < 0 || ni*3+2 >= len(d.g.Normals) {
				return fmt.Errorf("%w: normal index %d out of range", ErrMalformedShell, ni)
			}
			vx.Normal = [3]float32{d.g.Normals[ni*3], d.g.Normals[ni*3+1], d.g.Normals[ni*3+2]}
		}
		d.m.Vertices = append(d.m.Vertices, vx)
	}

	if len(verts) == 4 {
		d.m.Indices = append(d.m.Indices, base, base+1, base+3, base+1, base+2, base+3)
	} else {
		d.m.Indices = append(d.m.Indices, base, base+1, base+2)
	}
	return nil
}
