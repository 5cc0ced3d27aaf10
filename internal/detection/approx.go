package detection

import "math"

// ApproxPolyDP simplifies the closed contour c with the Douglas-Peucker
// algorithm. Every point of c lies within epsilon of the returned polygon.
//
// # Algorithm
//
//  1. Split the closed curve at two far-apart points: b is the point farthest
//     from c[0], a is the point farthest from b.
//  2. Simplify the arcs a->b and b->a independently. Each arc keeps its
//     endpoints and, recursively, the point farthest from the chord while that
//     distance exceeds epsilon.
//  3. Walk the result once more and drop any vertex within epsilon of the
//     chord joining its neighbours, which removes a split point that landed
//     in the middle of a straight side.
//
// Contours of two points or fewer are returned unchanged.
func ApproxPolyDP(c Contour, epsilon float64) Contour {
	n := len(c)
	if n <= 2 {
		out := make(Contour, n)
		copy(out, c)
		return out
	}

	b := farthestFrom(c, c[0])
	a := farthestFrom(c, c[b])
	if a == b {
		return Contour{c[a]}
	}

	first := arc(c, a, b)
	second := arc(c, b, a)

	poly := make(Contour, 0, 16)
	poly = append(poly, simplifyArc(first, epsilon)...)
	s := simplifyArc(second, epsilon)
	// Both arcs share their endpoints; skip the duplicates.
	poly = append(poly[:len(poly)-1], s[:len(s)-1]...)

	return dropFlatVertices(poly, epsilon)
}

// farthestFrom returns the index of the point of c farthest from p. Ties
// resolve to the lowest index.
func farthestFrom(c Contour, p Point) int {
	best, bestDist := 0, -1
	for i, q := range c {
		dx, dy := q.X-p.X, q.Y-p.Y
		if d := dx*dx + dy*dy; d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// arc returns the points of the closed contour c from index i to index j
// inclusive, walking forward and wrapping around.
func arc(c Contour, i, j int) Contour {
	n := len(c)
	length := (j-i+n)%n + 1
	out := make(Contour, length)
	for k := 0; k < length; k++ {
		out[k] = c[(i+k)%n]
	}
	return out
}

// simplifyArc runs Douglas-Peucker on an open polyline, always keeping both
// endpoints.
func simplifyArc(pts Contour, epsilon float64) Contour {
	last := len(pts) - 1
	keep := make([]bool, len(pts))
	keep[0], keep[last] = true, true

	type span struct{ from, to int }
	stack := []span{{0, last}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist, index := -1.0, -1
		for k := s.from + 1; k < s.to; k++ {
			if d := lineDistance(pts[k], pts[s.from], pts[s.to]); d > maxDist {
				maxDist, index = d, k
			}
		}
		if index < 0 || maxDist <= epsilon {
			continue
		}
		keep[index] = true
		stack = append(stack, span{s.from, index}, span{index, s.to})
	}

	out := make(Contour, 0, len(pts))
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// dropFlatVertices removes, in a single pass, vertices of the closed polygon
// that lie within epsilon of the line through their neighbours.
func dropFlatVertices(poly Contour, epsilon float64) Contour {
	out := make(Contour, 0, len(poly))
	out = append(out, poly...)

	for i := 0; i < len(out) && len(out) > 2; {
		prev := out[(i-1+len(out))%len(out)]
		next := out[(i+1)%len(out)]
		if lineDistance(out[i], prev, next) <= epsilon {
			out = append(out[:i], out[i+1:]...)
			continue
		}
		i++
	}
	return out
}

// lineDistance returns the distance from p to the infinite line through a and
// b, or to a itself when a and b coincide.
func lineDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return distance(p, a)
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / length
}
