package app

import (
	"testing"

	"github.com/Faultbox/wordsring/internal/ring"
)

func TestEditor(t *testing.T) {
	h := newHarness(t, &fakeSource{})
	h.start(ring.Configuration{Size: 15})
	e := NewEditor(h.s)

	e.Type("Ab")
	e.Type("c")
	e.Toggle()
	e.Type("caf\u00e9")
	e.Backspace()

	want := ring.Configuration{Line1: "Abc", Line2: "caf", Size: 15}
	if got := h.s.Configuration(); got != want {
		t.Errorf("configuration = %+v, want %+v", got, want)
	}
	if e.Active() != ring.Line2 {
		t.Errorf("active = %v, want line2", e.Active())
	}

	e.Grow()
	e.Grow()
	e.Shrink()
	if got := h.s.Configuration().Size; got != 16 {
		t.Errorf("size = %d, want 16", got)
	}

	e.Clear()
	if got := h.s.Configuration(); got.Line1 != "" || got.Line2 != "" || got.Size != 16 {
		t.Errorf("after Clear = %+v", got)
	}
	if e.Active() != ring.Line1 {
		t.Error("Clear should reactivate line1")
	}

	// Backspace on an empty line is a no-op.
	e.Backspace()
	if got := h.s.Configuration().Line1; got != "" {
		t.Errorf("line1 = %q", got)
	}
}
