package text

import (
	gomath "math"
	"sort"
)

// point is a 2D outline coordinate in font units.
type point struct {
	X, Y float64
}

func cross(o, a, b point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// signedArea is positive for counter-clockwise contours (Y up).
func signedArea(c []point) float64 {
	var sum float64
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

func reversed(c []point) []point {
	out := make([]point, len(c))
	for i := range c {
		out[len(c)-1-i] = c[i]
	}
	return out
}

// contains is an even-odd point in polygon test.
func contains(c []point, p point) bool {
	inside := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// triangulate fills a counter-clockwise outer contour with clockwise holes.
// It returns the combined vertex list, triangle indices into it wound
// counter-clockwise, and the holes that were cut. A hole that cannot be
// bridged to the outer ring is left out of all three.
func triangulate(outer []point, holes [][]point) ([]point, []uint32, [][]point) {
	pts := append([]point(nil), outer...)
	ring := make([]int, len(outer))
	for i := range ring {
		ring[i] = i
	}

	type holeRing struct {
		src  []point
		idx  []int
		maxX float64
		m    int // position in idx of the rightmost vertex
	}
	pending := make([]holeRing, 0, len(holes))
	for _, h := range holes {
		hr := holeRing{src: h, maxX: gomath.Inf(-1)}
		for i, p := range h {
			hr.idx = append(hr.idx, len(pts))
			pts = append(pts, p)
			if p.X > hr.maxX {
				hr.maxX = p.X
				hr.m = i
			}
		}
		pending = append(pending, hr)
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].maxX > pending[j].maxX })

	var cut [][]point
	for len(pending) > 0 {
		h := pending[0]
		pending = pending[1:]

		others := make([][]int, 0, len(pending)+1)
		others = append(others, h.idx)
		for _, o := range pending {
			others = append(others, o.idx)
		}

		m := h.idx[h.m]
		at := bridgeVertex(pts, ring, others, m)
		if at < 0 {
			// No visible vertex; drop the hole rather than corrupt the ring.
			continue
		}
		cut = append(cut, h.src)

		merged := make([]int, 0, len(ring)+len(h.idx)+2)
		merged = append(merged, ring[:at+1]...)
		for k := 0; k <= len(h.idx); k++ {
			merged = append(merged, h.idx[(h.m+k)%len(h.idx)])
		}
		merged = append(merged, ring[at])
		merged = append(merged, ring[at+1:]...)
		ring = merged
	}

	return pts, earClip(pts, ring), cut
}

// bridgeVertex picks the ring position closest to hole vertex m that can be
// joined to it without crossing any edge.
func bridgeVertex(pts []point, ring []int, holes [][]int, m int) int {
	mp := pts[m]
	best := -1
	bestDist := gomath.Inf(1)

	for pos, vi := range ring {
		p := pts[vi]
		d := (p.X-mp.X)*(p.X-mp.X) + (p.Y-mp.Y)*(p.Y-mp.Y)
		if d >= bestDist {
			continue
		}
		prev := pts[ring[(pos+len(ring)-1)%len(ring)]]
		next := pts[ring[(pos+1)%len(ring)]]
		if !locallyInside(prev, p, next, mp) {
			continue
		}
		if crossesAny(pts, ring, p, mp) {
			continue
		}
		blocked := false
		for _, h := range holes {
			if crossesAny(pts, h, p, mp) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		best, bestDist = pos, d
	}
	return best
}

// locallyInside reports whether q lies in the interior wedge at corner b of
// a counter-clockwise ring a→b→c.
func locallyInside(a, b, c, q point) bool {
	if cross(a, b, c) >= 0 {
		return cross(a, b, q) >= 0 && cross(b, c, q) >= 0
	}
	return cross(a, b, q) >= 0 || cross(b, c, q) >= 0
}

// crossesAny reports whether segment p–q properly crosses an edge of the
// closed ring. Edges touching p or q are ignored.
func crossesAny(pts []point, ring []int, p, q point) bool {
	for i := range ring {
		a := pts[ring[i]]
		b := pts[ring[(i+1)%len(ring)]]
		if a == p || a == q || b == p || b == q {
			continue
		}
		if segmentsIntersect(p, q, a, b) {
			return true
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func onSegment(a, b, p point) bool {
	return gomath.Min(a.X, b.X) <= p.X && p.X <= gomath.Max(a.X, b.X) &&
		gomath.Min(a.Y, b.Y) <= p.Y && p.Y <= gomath.Max(a.Y, b.Y)
}

// earClip triangulates a simple (possibly bridged) counter-clockwise ring.
func earClip(pts []point, ring []int) []uint32 {
	const eps = 1e-9

	ring = append([]int(nil), ring...)
	tris := make([]uint32, 0, 3*len(ring))

	start := 0
	for len(ring) > 3 {
		n := len(ring)
		clipped := false

		for k := 0; k < n; k++ {
			i := (start + k) % n
			ia, ib, ic := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			a, b, c := pts[ia], pts[ib], pts[ic]

			area := cross(a, b, c)
			if gomath.Abs(area) <= eps {
				// Collinear or repeated corner: drop it without a triangle.
				ring = append(ring[:i], ring[i+1:]...)
				start = i
				clipped = true
				break
			}
			if area < 0 || !isEar(pts, ring, a, b, c) {
				continue
			}
			tris = append(tris, uint32(ia), uint32(ib), uint32(ic))
			ring = append(ring[:i], ring[i+1:]...)
			start = i
			clipped = true
			break
		}

		if !clipped {
			// Numerically stuck: clip the most convex corner anyway.
			best, bestArea := 0, gomath.Inf(-1)
			for i := range ring {
				a := pts[ring[(i+n-1)%n]]
				c := pts[ring[(i+1)%n]]
				if area := cross(a, pts[ring[i]], c); area > bestArea {
					best, bestArea = i, area
				}
			}
			if bestArea > 0 {
				tris = append(tris, uint32(ring[(best+n-1)%n]), uint32(ring[best]), uint32(ring[(best+1)%n]))
			}
			ring = append(ring[:best], ring[best+1:]...)
			start = best
		}
		if start >= len(ring) {
			start = 0
		}
	}

	if len(ring) == 3 && cross(pts[ring[0]], pts[ring[1]], pts[ring[2]]) > eps {
		tris = append(tris, uint32(ring[0]), uint32(ring[1]), uint32(ring[2]))
	}
	return tris
}

func isEar(pts []point, ring []int, a, b, c point) bool {
	for _, vi := range ring {
		p := pts[vi]
		if p == a || p == b || p == c {
			continue
		}
		if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
			return false
		}
	}
	return true
}
