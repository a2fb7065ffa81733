package ring

import "fmt"

// Layout holds the fixed offsets that place the engraving relative to the
// ring shell.
type Layout struct {
	// EngraveOffset is how far the text cylinder sits beyond the inner radius.
	EngraveOffset float32
	// BandOffset is the radius offset of the dark inner band.
	BandOffset float32
	// Line1Offset and Line2Offset are vertical placements in two-line mode.
	Line1Offset float32
	Line2Offset float32
}

// DefaultLayout matches the stock ring meshes.
func DefaultLayout() Layout {
	return Layout{
		EngraveOffset: 1.85,
		BandOffset:    1.7,
		Line1Offset:   1.1,
		Line2Offset:   -1.3,
	}
}

// Dimensions are the radii derived for one ring size.
type Dimensions struct {
	Inner   float32
	Band    float32
	Engrave float32
}

// Dimensions returns the radii for a size.
func (l Layout) Dimensions(s SizeIndex) (Dimensions, error) {
	d, ok := Diameter(s)
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %d", ErrUnknownSize, int(s))
	}
	inner := d / 2
	return Dimensions{
		Inner:   inner,
		Band:    inner + l.BandOffset,
		Engrave: inner + l.EngraveOffset,
	}, nil
}

// LineOffset returns the vertical placement of a line.
func (l Layout) LineOffset(line Line, mode Mode) float32 {
	if mode != ModeTwoLine {
		return 0
	}
	if line == Line2 {
		return l.Line2Offset
	}
	return l.Line1Offset
}
