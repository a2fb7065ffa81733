package text

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
)

// ErrNoGlyphs is returned when the text contains nothing drawable.
var ErrNoGlyphs = errors.New("text has no drawable glyphs")

// Options controls text extrusion.
type Options struct {
	// Size is the em height in scene units.
	Size float32
	// Depth is the extrusion thickness along Z.
	Depth float32
	// CurveSegments is the number of straight steps per outline curve.
	CurveSegments int
}

// DefaultOptions matches the stock engraving look.
func DefaultOptions() Options {
	return Options{
		Size:          2,
		Depth:         1,
		CurveSegments: 4,
	}
}

// glyph is a triangulated glyph in font units, before placement.
type glyph struct {
	pts      []point
	tris     []uint32
	contours [][]point
}

// Builder extrudes text with one font. It caches triangulated glyphs and is
// safe for concurrent use.
type Builder struct {
	font *sfnt.Font
	opts Options
	upem float64

	mu     sync.Mutex
	glyphs map[sfnt.GlyphIndex]*glyph
}

// NewBuilder creates a builder for the font.
func NewBuilder(f *sfnt.Font, opts Options) *Builder {
	if opts.CurveSegments < 1 {
		opts.CurveSegments = 1
	}
	return &Builder{
		font:   f,
		opts:   opts,
		upem:   float64(f.UnitsPerEm()),
		glyphs: make(map[sfnt.GlyphIndex]*glyph),
	}
}

// Options returns the builder's extrusion options.
func (b *Builder) Options() Options {
	return b.opts
}

// Build returns the extruded, origin-centred mesh for a single line of text.
func (b *Builder) Build(s string) (*mesh.Mesh, error) {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(b.upem * 64)
	scale := float64(b.opts.Size) / b.upem
	depth := b.opts.Depth

	out := &mesh.Mesh{}
	var pen fixed.Int26_6
	var prev sfnt.GlyphIndex
	hasPrev := false

	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		gid, err := b.font.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index for %q: %w", r, err)
		}

		if hasPrev {
			if k, err := b.font.Kern(&buf, prev, gid, ppem, font.HintingNone); err == nil {
				pen += k
			}
		}

		g, err := b.glyph(&buf, gid, ppem)
		if err != nil {
			return nil, fmt.Errorf("outline for %q: %w", r, err)
		}
		emitGlyph(out, g, float64(pen)/64, scale, depth)

		adv, err := b.font.GlyphAdvance(&buf, gid, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("advance for %q: %w", r, err)
		}
		pen += adv
		prev, hasPrev = gid, true
	}

	if out.IsEmpty() {
		return nil, ErrNoGlyphs
	}

	out.Center()
	out.ComputeVertexNormals()
	return out, nil
}

// glyph returns the cached triangulation for gid, building it on first use.
func (b *Builder) glyph(buf *sfnt.Buffer, gid sfnt.GlyphIndex, ppem fixed.Int26_6) (*glyph, error) {
	b.mu.Lock()
	g, ok := b.glyphs[gid]
	b.mu.Unlock()
	if ok {
		return g, nil
	}

	segs, err := b.font.LoadGlyph(buf, gid, ppem, nil)
	if err != nil {
		return nil, err
	}

	g = &glyph{}
	for _, sh := range classify(flatten(segs, b.opts.CurveSegments)) {
		pts, tris, holes := triangulate(sh.outer, sh.holes)
		base := uint32(len(g.pts))
		g.pts = append(g.pts, pts...)
		for _, t := range tris {
			g.tris = append(g.tris, base+t)
		}
		// Walls only for contours the caps were cut around.
		g.contours = append(g.contours, sh.outer)
		g.contours = append(g.contours, holes...)
	}

	b.mu.Lock()
	b.glyphs[gid] = g
	b.mu.Unlock()
	return g, nil
}

// emitGlyph appends front cap, back cap, and side walls for g placed at pen.
func emitGlyph(m *mesh.Mesh, g *glyph, pen, scale float64, depth float32) {
	place := func(p point, z float32) [3]float32 {
		return [3]float32{float32((p.X + pen) * scale), float32(p.Y * scale), z}
	}

	// Front cap at z=depth faces +Z.
	base := uint32(len(m.Vertices))
	for _, p := range g.pts {
		m.Vertices = append(m.Vertices, mesh.Vertex{Position: place(p, depth)})
	}
	m.Indices = append(m.Indices, offset(g.tris, base, false)...)

	// Back cap at z=0 faces -Z.
	base = uint32(len(m.Vertices))
	for _, p := range g.pts {
		m.Vertices = append(m.Vertices, mesh.Vertex{Position: place(p, 0)})
	}
	m.Indices = append(m.Indices, offset(g.tris, base, true)...)

	// Walls: one quad per contour edge with its own vertices so the
	// silhouette stays crisp.
	for _, c := range g.contours {
		for i := range c {
			a, b := c[i], c[(i+1)%len(c)]
			base = uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices,
				mesh.Vertex{Position: place(a, 0), TexCoord: [2]float32{0, 0}},
				mesh.Vertex{Position: place(b, 0), TexCoord: [2]float32{1, 0}},
				mesh.Vertex{Position: place(b, depth), TexCoord: [2]float32{1, 1}},
				mesh.Vertex{Position: place(a, depth), TexCoord: [2]float32{0, 1}},
			)
			m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
		}
	}
}

func offset(tris []uint32, base uint32, flip bool) []uint32 {
	out := make([]uint32, len(tris))
	for i := 0; i+2 < len(tris); i += 3 {
		if flip {
			out[i], out[i+1], out[i+2] = base+tris[i], base+tris[i+2], base+tris[i+1]
		} else {
			out[i], out[i+1], out[i+2] = base+tris[i], base+tris[i+1], base+tris[i+2]
		}
	}
	return out
}
