package camera

import (
	gomath "math"
	"testing"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func TestTurntableSpinsWhenIdle(t *testing.T) {
	tt := NewTurntable()
	for i := 0; i < 10; i++ {
		tt.Step()
	}
	if !near(tt.Angle, -0.1) {
		t.Errorf("angle after 10 frames = %v, want -0.1", tt.Angle)
	}
}

func TestTurntableDragPausesSpin(t *testing.T) {
	tt := NewTurntable()
	tt.BeginDrag(100, 200)
	tt.Step()
	tt.DragTo(150, 180)
	tt.Step()

	if !tt.Dragging() {
		t.Fatal("expected drag in progress")
	}
	if !near(tt.Angle, 0.5) {
		t.Errorf("angle = %v, want 0.5 from a 50px drag", tt.Angle)
	}
	if !near(tt.Tilt, -0.2) {
		t.Errorf("tilt = %v, want -0.2 from a 20px upward drag", tt.Tilt)
	}

	tt.DragTo(150, 190)
	if !near(tt.Tilt, -0.1) {
		t.Errorf("tilt = %v, want -0.1 after moving back down 10px", tt.Tilt)
	}

	tt.EndDrag()
	tt.DragTo(500, 500) // ignored
	tt.Step()
	if !near(tt.Angle, 0.49) {
		t.Errorf("angle = %v, want spin to resume", tt.Angle)
	}
	if !near(tt.Tilt, -0.1) {
		t.Errorf("tilt = %v, should be kept after the drag", tt.Tilt)
	}
}

func TestCameraProjectsTarget(t *testing.T) {
	c := NewCamera()
	vp := c.ViewProjection(16.0 / 9.0)

	p := vp.TransformPoint([3]float32{c.Target.X, c.Target.Y, c.Target.Z})
	if !near(p[0], 0) || !near(p[1], 0) {
		t.Errorf("target projects to %v, want screen centre", p)
	}
	if p[2] <= -1 || p[2] >= 1 {
		t.Errorf("target depth %v outside clip range", p[2])
	}
}

func TestTurntableModelMatrix(t *testing.T) {
	tt := NewTurntable()
	tt.Angle = float32(gomath.Pi / 2)
	p := tt.ModelMatrix().TransformPoint([3]float32{1, 0, 0})
	if !near(p[0], 0) || !near(p[1], 0) || !near(abs32(p[2]), 1) {
		t.Errorf("rotated point = %v", p)
	}
}

func TestTurntableModelMatrixTilts(t *testing.T) {
	tt := NewTurntable()
	tt.Tilt = float32(gomath.Pi / 2)
	// The ring axis (Y) tips towards the camera on +Z.
	p := tt.ModelMatrix().TransformPoint([3]float32{0, 1, 0})
	if !near(p[0], 0) || !near(p[1], 0) || !near(p[2], 1) {
		t.Errorf("tilted axis = %v, want (0,0,1)", p)
	}

	// Spin happens about the ring's own axis before the tilt.
	tt.Angle = float32(gomath.Pi / 2)
	p = tt.ModelMatrix().TransformPoint([3]float32{1, 0, 0})
	if !near(p[0], 0) || !near(abs32(p[1]), 1) || !near(p[2], 0) {
		t.Errorf("spun then tilted point = %v", p)
	}
}

func abs32(v float32) float32 {
	return float32(gomath.Abs(float64(v)))
}
