package camera

import "github.com/Faultbox/wordsring/pkg/math"

// Turntable spins the model about Y. It turns by SpinSpeed every frame
// unless the user is dragging. A drag drives the angle horizontally and
// tilts the model about X vertically.
type Turntable struct {
	Angle float32 // radians about Y
	Tilt  float32 // radians about X

	SpinSpeed       float32 // radians per frame
	DragSensitivity float32 // radians per pixel

	dragging     bool
	lastX, lastY float32
}

// NewTurntable creates a turntable with the stock speeds.
func NewTurntable() *Turntable {
	return &Turntable{
		SpinSpeed:       -0.01,
		DragSensitivity: 0.01,
	}
}

// Step advances one frame.
func (t *Turntable) Step() {
	if !t.dragging {
		t.Angle += t.SpinSpeed
	}
}

// BeginDrag starts a drag at pointer (x, y).
func (t *Turntable) BeginDrag(x, y float32) {
	t.dragging = true
	t.lastX, t.lastY = x, y
}

// DragTo moves an active drag to pointer (x, y).
func (t *Turntable) DragTo(x, y float32) {
	if !t.dragging {
		return
	}
	t.HandleDrag(x-t.lastX, y-t.lastY)
	t.lastX, t.lastY = x, y
}

// HandleDrag applies a pointer delta: x turns, y tilts.
func (t *Turntable) HandleDrag(deltaX, deltaY float32) {
	t.Angle += deltaX * t.DragSensitivity
	t.Tilt += deltaY * t.DragSensitivity
}

// EndDrag releases the drag; spinning resumes on the next Step. The tilt
// is kept.
func (t *Turntable) EndDrag() {
	t.dragging = false
}

// Dragging reports whether a drag is active.
func (t *Turntable) Dragging() bool {
	return t.dragging
}

// ModelMatrix spins about Y first, then tilts about X.
func (t *Turntable) ModelMatrix() math.Mat4 {
	return math.RotateX(t.Tilt).Mul(math.RotateY(t.Angle))
}
