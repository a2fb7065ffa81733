package ring

import (
	"errors"
	"testing"
)

func TestModeOf(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
		want Mode
	}{
		{"both empty", Configuration{Size: 15}, ModeOneLine},
		{"only line2", Configuration{Line2: "X", Size: 15}, ModeOneLine},
		{"only line1", Configuration{Line1: "A", Size: 15}, ModeOneLine},
		{"both set", Configuration{Line1: "A", Line2: "B", Size: 15}, ModeTwoLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeOf(tt.cfg); got != tt.want {
				t.Errorf("ModeOf(%+v) = %v, want %v", tt.cfg, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	decomposed := Configuration{Line1: "cafe\u0301\n", Size: 15}
	got := decomposed.Normalize()
	if got.Line1 != "caf\u00e9" {
		t.Errorf("Normalize line1 = %q, want %q", got.Line1, "caf\u00e9")
	}
}

func TestSizesSortedAndValid(t *testing.T) {
	sizes := Sizes()
	if len(sizes) == 0 {
		t.Fatal("no sizes")
	}
	for i, s := range sizes {
		if !s.Valid() {
			t.Errorf("size %d reported invalid", s)
		}
		if i > 0 && sizes[i-1] >= s {
			t.Errorf("sizes not ascending at %d: %v", i, sizes)
		}
	}
	if !DefaultSize.Valid() {
		t.Error("default size must be valid")
	}
}

func TestStep(t *testing.T) {
	sizes := Sizes()
	first, last := sizes[0], sizes[len(sizes)-1]

	if got := SizeIndex(15).Step(1); got != 16 {
		t.Errorf("Step(+1) from 15 = %d, want 16", got)
	}
	if got := first.Step(-3); got != first {
		t.Errorf("Step below first = %d, want %d", got, first)
	}
	if got := last.Step(5); got != last {
		t.Errorf("Step above last = %d, want %d", got, last)
	}
	if got := SizeIndex(999).Step(0); got != DefaultSize {
		t.Errorf("unknown size Step(0) = %d, want default", got)
	}
}

func TestDimensions(t *testing.T) {
	layout := DefaultLayout()
	dims, err := layout.Dimensions(15)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if dims.Inner != 8.9 {
		t.Errorf("inner radius = %v, want 8.9", dims.Inner)
	}
	if diff := dims.Engrave - dims.Inner - layout.EngraveOffset; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("engrave offset = %v, want %v", dims.Engrave-dims.Inner, layout.EngraveOffset)
	}
	if dims.Band <= dims.Inner || dims.Band >= dims.Engrave {
		t.Errorf("band radius %v should sit between inner %v and engrave %v", dims.Band, dims.Inner, dims.Engrave)
	}

	if _, err := layout.Dimensions(0); !errors.Is(err, ErrUnknownSize) {
		t.Errorf("expected ErrUnknownSize, got %v", err)
	}
}

func TestLineOffset(t *testing.T) {
	layout := DefaultLayout()
	if got := layout.LineOffset(Line1, ModeOneLine); got != 0 {
		t.Errorf("one-line offset = %v, want 0", got)
	}
	if got := layout.LineOffset(Line1, ModeTwoLine); got != 1.1 {
		t.Errorf("line1 two-line offset = %v, want 1.1", got)
	}
	if got := layout.LineOffset(Line2, ModeTwoLine); got != -1.3 {
		t.Errorf("line2 two-line offset = %v, want -1.3", got)
	}
}

func TestKeyOf(t *testing.T) {
	a := KeyOf(Configuration{Line1: "A", Size: 15})
	b := KeyOf(Configuration{Line1: "A", Line2: "B", Size: 15})
	if a == b {
		t.Errorf("one-line and two-line keys must differ: %v", a)
	}
	if a.String() != "15/one-line" {
		t.Errorf("key string = %q", a.String())
	}
}
