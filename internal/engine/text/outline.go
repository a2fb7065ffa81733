package text

import (
	gomath "math"
	"sort"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// shape is one filled region of a glyph: an outer contour and its holes.
type shape struct {
	outer []point
	holes [][]point
}

func toPoint(p fixed.Point26_6) point {
	// sfnt outlines grow downward; flip to Y up.
	return point{X: float64(p.X) / 64, Y: -float64(p.Y) / 64}
}

// flatten converts glyph segments into closed polylines, subdividing each
// curve into the given number of straight steps.
func flatten(segments sfnt.Segments, steps int) [][]point {
	if steps < 1 {
		steps = 1
	}

	var contours [][]point
	var cur []point

	closeContour := func() {
		cur = dedupe(cur)
		if len(cur) >= 3 && gomath.Abs(signedArea(cur)) > 1e-6 {
			contours = append(contours, cur)
		}
		cur = nil
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			cur = append(cur, toPoint(seg.Args[0]))

		case sfnt.SegmentOpLineTo:
			cur = append(cur, toPoint(seg.Args[0]))

		case sfnt.SegmentOpQuadTo:
			if len(cur) == 0 {
				continue
			}
			p0 := cur[len(cur)-1]
			p1, p2 := toPoint(seg.Args[0]), toPoint(seg.Args[1])
			for k := 1; k <= steps; k++ {
				t := float64(k) / float64(steps)
				mt := 1 - t
				cur = append(cur, point{
					X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
					Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
				})
			}

		case sfnt.SegmentOpCubeTo:
			if len(cur) == 0 {
				continue
			}
			p0 := cur[len(cur)-1]
			p1, p2, p3 := toPoint(seg.Args[0]), toPoint(seg.Args[1]), toPoint(seg.Args[2])
			for k := 1; k <= steps; k++ {
				t := float64(k) / float64(steps)
				mt := 1 - t
				a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
				cur = append(cur, point{
					X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
					Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
				})
			}
		}
	}
	closeContour()

	return contours
}

// dedupe removes consecutive duplicates and a closing point equal to the start.
func dedupe(c []point) []point {
	if len(c) == 0 {
		return c
	}
	out := c[:1]
	for _, p := range c[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// classify groups contours into filled shapes using nesting depth, so it
// does not depend on the winding convention of the font format. Outer
// contours come back counter-clockwise and holes clockwise.
func classify(contours [][]point) []shape {
	type entry struct {
		pts   []point
		area  float64
		depth int
	}
	entries := make([]entry, len(contours))
	for i, c := range contours {
		entries[i] = entry{pts: c, area: gomath.Abs(signedArea(c))}
	}
	for i := range entries {
		probe := entries[i].pts[0]
		for j := range entries {
			if i != j && entries[j].area > entries[i].area && contains(entries[j].pts, probe) {
				entries[i].depth++
			}
		}
	}

	var outers []int
	for i := range entries {
		if entries[i].depth%2 == 0 {
			if signedArea(entries[i].pts) < 0 {
				entries[i].pts = reversed(entries[i].pts)
			}
			outers = append(outers, i)
		} else if signedArea(entries[i].pts) > 0 {
			entries[i].pts = reversed(entries[i].pts)
		}
	}
	// Smallest enclosing outer wins, so sort by area ascending.
	sort.SliceStable(outers, func(a, b int) bool { return entries[outers[a]].area < entries[outers[b]].area })

	shapes := make([]shape, len(outers))
	slot := make(map[int]int, len(outers))
	for n, i := range outers {
		shapes[n].outer = entries[i].pts
		slot[i] = n
	}

	for i := range entries {
		if entries[i].depth%2 == 0 {
			continue
		}
		probe := entries[i].pts[0]
		for _, o := range outers {
			if entries[o].depth == entries[i].depth-1 && entries[o].area > entries[i].area && contains(entries[o].pts, probe) {
				n := slot[o]
				shapes[n].holes = append(shapes[n].holes, entries[i].pts)
				break
			}
		}
	}
	return shapes
}
