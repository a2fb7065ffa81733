package text

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
)

func triangleArea(pts []point, tris []uint32) float64 {
	var sum float64
	for i := 0; i+2 < len(tris); i += 3 {
		sum += cross(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]) / 2
	}
	return sum
}

func TestTriangulateSquare(t *testing.T) {
	square := []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	pts, tris, _ := triangulate(square, nil)
	if len(tris) != 6 {
		t.Fatalf("square produced %d indices, want 6", len(tris))
	}
	if got := triangleArea(pts, tris); gomath.Abs(got-100) > 1e-9 {
		t.Errorf("area = %v, want 100", got)
	}
}

func TestTriangulateWithHole(t *testing.T) {
	outer := []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	hole := []point{{3, 3}, {3, 7}, {7, 7}, {7, 3}} // clockwise
	pts, tris, cut := triangulate(outer, [][]point{hole})
	if len(cut) != 1 {
		t.Fatalf("cut %d holes, want 1", len(cut))
	}

	if got := triangleArea(pts, tris); gomath.Abs(got-84) > 1e-9 {
		t.Errorf("area = %v, want 84", got)
	}
	for i := 0; i+2 < len(tris); i += 3 {
		if cross(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]) <= 0 {
			t.Errorf("triangle %d is not counter-clockwise", i/3)
		}
	}
}

func TestTriangulateDropsUnbridgeableHole(t *testing.T) {
	outer := []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	inside := []point{{3, 3}, {3, 7}, {7, 7}, {7, 3}}
	// Outside the outer ring: every bridge would cross its right edge.
	stray := []point{{20, 3}, {20, 7}, {22, 7}, {22, 3}}

	pts, tris, cut := triangulate(outer, [][]point{stray, inside})
	if len(cut) != 1 || &cut[0][0] != &inside[0] {
		t.Fatalf("cut = %v, want only the inside hole", cut)
	}
	if got := triangleArea(pts, tris); gomath.Abs(got-84) > 1e-9 {
		t.Errorf("area = %v, want 84", got)
	}
	for _, i := range tris {
		if pts[i].X >= 20 {
			t.Fatalf("triangle uses vertex %v of the dropped hole", pts[i])
		}
	}
}

func TestTriangulateConcave(t *testing.T) {
	// L shape
	outer := []point{{0, 0}, {6, 0}, {6, 2}, {2, 2}, {2, 6}, {0, 6}}
	pts, tris, _ := triangulate(outer, nil)
	if got := triangleArea(pts, tris); gomath.Abs(got-20) > 1e-9 {
		t.Errorf("area = %v, want 20", got)
	}
}

func TestClassifyNesting(t *testing.T) {
	outer := []point{{0, 0}, {0, 10}, {10, 10}, {10, 0}} // clockwise on purpose
	hole := []point{{3, 3}, {7, 3}, {7, 7}, {3, 7}}     // counter-clockwise on purpose
	island := []point{{4, 4}, {6, 4}, {6, 6}, {4, 6}}

	shapes := classify([][]point{hole, outer, island})
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}
	var big *shape
	for i := range shapes {
		if len(shapes[i].holes) > 0 {
			big = &shapes[i]
		}
	}
	if big == nil {
		t.Fatal("hole was not attached to the outer contour")
	}
	if signedArea(big.outer) <= 0 {
		t.Error("outer contour should be counter-clockwise")
	}
	if signedArea(big.holes[0]) >= 0 {
		t.Error("hole should be clockwise")
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]point{{0, 0}, {0, 0}, {1, 0}, {1, 1}, {0, 0}})
	if len(got) != 3 {
		t.Errorf("dedupe = %v, want 3 points", got)
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	f, err := DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont: %v", err)
	}
	return NewBuilder(f, DefaultOptions())
}

func TestBuildCentredAndExtruded(t *testing.T) {
	b := newTestBuilder(t)
	m, err := b.Build("A")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("empty mesh for A")
	}

	c := m.Bounds.Center()
	for axis, v := range c {
		if gomath.Abs(float64(v)) > 1e-4 {
			t.Errorf("axis %d centre = %v, want 0", axis, v)
		}
	}
	size := m.Bounds.Size()
	if gomath.Abs(float64(size[2]-1)) > 1e-5 {
		t.Errorf("depth = %v, want 1", size[2])
	}
	// Capital height of a 2-unit em is somewhat under 2.
	if size[1] < 1 || size[1] > 2 {
		t.Errorf("glyph height = %v, want between 1 and 2", size[1])
	}
}

func TestBuildCapsCoverGlyphArea(t *testing.T) {
	b := newTestBuilder(t)
	m, err := b.Build("O")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Sum projected area of triangles facing +Z; the counter of O must be
	// excluded, so this is well below the bounding box area.
	var front float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		bb := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		n := mesh.Cross(
			[3]float32{bb[0] - a[0], bb[1] - a[1], bb[2] - a[2]},
			[3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]},
		)
		if n[2] > 0 && a[2] > 0 {
			front += float64(n[2]) / 2
		}
	}
	size := m.Bounds.Size()
	box := float64(size[0] * size[1])
	if front <= 0 || front > 0.8*box {
		t.Errorf("front cap area %v out of range for box %v", front, box)
	}
}

func TestBuildWidthGrowsWithText(t *testing.T) {
	b := newTestBuilder(t)
	short, err := b.Build("AB")
	if err != nil {
		t.Fatal(err)
	}
	long, err := b.Build("ABABAB")
	if err != nil {
		t.Fatal(err)
	}
	if long.Bounds.Size()[0] <= 2*short.Bounds.Size()[0] {
		t.Errorf("width %v should exceed twice %v", long.Bounds.Size()[0], short.Bounds.Size()[0])
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := newTestBuilder(t)
	first, err := b.Build("Ring")
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build("Ring")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Vertices) != len(second.Vertices) {
		t.Fatalf("vertex counts differ: %d vs %d", len(first.Vertices), len(second.Vertices))
	}
	for i := range first.Vertices {
		if first.Vertices[i] != second.Vertices[i] {
			t.Fatalf("vertex %d differs between builds", i)
		}
	}
}

func TestBuildNoGlyphs(t *testing.T) {
	b := newTestBuilder(t)
	for _, s := range []string{"", "   ", "\t"} {
		if _, err := b.Build(s); !errors.Is(err, ErrNoGlyphs) {
			t.Errorf("Build(%q) error = %v, want ErrNoGlyphs", s, err)
		}
	}
}
