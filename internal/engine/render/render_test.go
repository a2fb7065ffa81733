package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/wordsring/internal/engine/mesh"
	"github.com/Faultbox/wordsring/internal/engine/scene"
	"github.com/Faultbox/wordsring/pkg/math"
)

func triangle() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []mesh.Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestDefaultLighting(t *testing.T) {
	l := DefaultLighting()
	if l.FogNear != 55 || l.FogFar != 150 {
		t.Errorf("fog = %v..%v, want 55..150", l.FogNear, l.FogFar)
	}
	if l.LightPos != [3]float32{10, 0, 50} {
		t.Errorf("light position = %v", l.LightPos)
	}
}

func TestMaterialFor(t *testing.T) {
	silver := materialFor(scene.MaterialSilver)
	dark := materialFor(scene.MaterialDark)

	if silver.reflectivity == 0 {
		t.Error("silver should reflect the environment")
	}
	if dark.reflectivity != 0 {
		t.Error("dark band should not reflect")
	}
	if dark.color[0] >= silver.color[0] {
		t.Errorf("dark color %v should be darker than %v", dark.color, silver.color)
	}
	if silver.shininess != 80 {
		t.Errorf("silver shininess = %v, want 80", silver.shininess)
	}
}

func TestNodeMatrixOffsetThenRotate(t *testing.T) {
	n := &scene.Node{Offset: [3]float32{0, 1.1, 0}}
	m := nodeMatrix(math.RotateY(1.3), n)

	got := m.TransformPoint([3]float32{0, 0, 0})
	if got[1] != 1.1 || abs(got[0]) > 1e-6 || abs(got[2]) > 1e-6 {
		t.Errorf("origin maps to %v, want (0, 1.1, 0)", got)
	}
}

func TestSyncPlan(t *testing.T) {
	kept, added, dropped := triangle(), triangle(), triangle()
	have := map[*mesh.Mesh]*gpuMesh{
		kept:    {},
		dropped: {},
	}
	nodes := []*scene.Node{
		{Name: "band", Mesh: kept},
		{Name: "line1", Mesh: added},
		{Name: "dup", Mesh: added},
		{Name: "empty", Mesh: &mesh.Mesh{}},
		{Name: "nil"},
	}

	add, drop := syncPlan(have, nodes)
	if len(add) != 1 || add[0] != added {
		t.Errorf("add = %v, want only the new mesh", add)
	}
	if len(drop) != 1 || drop[0] != dropped {
		t.Errorf("drop = %v, want only the detached mesh", drop)
	}
}

func TestFlipRows(t *testing.T) {
	// Two rows, bottom row first as GL returns them.
	pixels := []byte{
		1, 1, 1, 255,
		2, 2, 2, 255,
	}
	img := flipRows(pixels, 1, 2)
	if img.Pix[0] != 2 || img.Pix[4] != 1 {
		t.Errorf("rows not flipped: %v", img.Pix)
	}
}

func TestSavePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[0] = 200
	img.Pix[3] = 255

	path, err := SavePNG(img, dir, "ring")
	if err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "ring_") {
		t.Errorf("unexpected path %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	if r, _, _, _ := got.At(0, 0).RGBA(); r>>8 != 200 {
		t.Errorf("pixel red = %d, want 200", r>>8)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
