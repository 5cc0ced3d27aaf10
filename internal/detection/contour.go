package detection

import (
	"image"
)

// neighbors lists the 8 neighbour offsets in clockwise order (y grows
// downward), starting east.
var neighbors = [8]Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
}

const dirWest = 4

// binaryImage is a zero-origin foreground mask.
type binaryImage struct {
	width, height int
	pix           []bool
}

func newBinaryImage(edges *image.Gray) *binaryImage {
	b := edges.Bounds()
	bin := &binaryImage{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]bool, b.Dx()*b.Dy()),
	}
	for y := 0; y < bin.height; y++ {
		row := edges.Pix[edges.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < bin.width; x++ {
			bin.pix[y*bin.width+x] = row[x] != 0
		}
	}
	return bin
}

// at reports whether (x, y) is foreground. Pixels outside the image are
// background.
func (b *binaryImage) at(x, y int) bool {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	return b.pix[y*b.width+x]
}

// FindContours returns the outer boundary of every connected foreground
// region of edges that is not enclosed by another region.
//
// Any non-zero pixel is foreground. Foreground is 8-connected and background
// 4-connected, so a region drawn inside the hole of another region is
// internal and is not reported, and neither are the boundaries of holes.
//
// # Algorithm
//
//  1. Label the 8-connected foreground components with an iterative flood fill.
//  2. Flood the background reachable from the image frame (4-connected). A
//     component is external when the pixel directly above its first pixel in
//     raster order belongs to that outside background.
//  3. Trace each external component's outer border with Suzuki-Abe border
//     following, starting from its first raster pixel.
//  4. Compress the traced chain: points inside straight horizontal, vertical
//     or diagonal runs are dropped, leaving only the run endpoints.
//
// Contours are returned in raster order of their starting pixel. A
// single-pixel component yields a one-point contour.
func FindContours(edges *image.Gray) []Contour {
	bin := newBinaryImage(edges)
	if bin.width == 0 || bin.height == 0 {
		return nil
	}

	starts := labelComponents(bin)
	outside := floodOutside(bin)

	contours := make([]Contour, 0, len(starts))
	for _, s := range starts {
		if s.Y > 0 && !outside[(s.Y-1)*bin.width+s.X] {
			continue
		}
		contours = append(contours, compressChain(traceBorder(bin, s)))
	}
	return contours
}

// labelComponents labels the 8-connected foreground components of bin and
// returns the first pixel of each component in raster order.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow on
// large components.
func labelComponents(bin *binaryImage) []Point {
	labels := make([]int32, len(bin.pix))
	var starts []Point
	var next int32

	stack := make([]Point, 0, 256)
	for y := 0; y < bin.height; y++ {
		for x := 0; x < bin.width; x++ {
			i := y*bin.width + x
			if !bin.pix[i] || labels[i] != 0 {
				continue
			}

			next++
			starts = append(starts, Point{X: x, Y: y})
			labels[i] = next
			stack = append(stack[:0], Point{X: x, Y: y})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				for _, d := range neighbors {
					nx, ny := p.X+d.X, p.Y+d.Y
					if !bin.at(nx, ny) {
						continue
					}
					n := ny*bin.width + nx
					if labels[n] != 0 {
						continue
					}
					labels[n] = next
					stack = append(stack, Point{X: nx, Y: ny})
				}
			}
		}
	}
	return starts
}

// floodOutside marks the background pixels 4-connected to the image frame.
func floodOutside(bin *binaryImage) []bool {
	outside := make([]bool, len(bin.pix))
	stack := make([]Point, 0, 256)

	push := func(x, y int) {
		i := y*bin.width + x
		if bin.pix[i] || outside[i] {
			return
		}
		outside[i] = true
		stack = append(stack, Point{X: x, Y: y})
	}

	for x := 0; x < bin.width; x++ {
		push(x, 0)
		push(x, bin.height-1)
	}
	for y := 0; y < bin.height; y++ {
		push(0, y)
		push(bin.width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X > 0 {
			push(p.X-1, p.Y)
		}
		if p.X < bin.width-1 {
			push(p.X+1, p.Y)
		}
		if p.Y > 0 {
			push(p.X, p.Y-1)
		}
		if p.Y < bin.height-1 {
			push(p.X, p.Y+1)
		}
	}
	return outside
}

// traceBorder follows the outer border of the component whose first raster
// pixel is s and returns every border pixel in traversal order.
func traceBorder(bin *binaryImage, s Point) Contour {
	// Search clockwise from the west neighbour, which is background because s
	// is the first pixel of its component.
	first := -1
	for k := 0; k < 8; k++ {
		d := (dirWest + k) % 8
		if bin.at(s.X+neighbors[d].X, s.Y+neighbors[d].Y) {
			first = d
			break
		}
	}
	if first < 0 {
		return Contour{s}
	}

	i1 := Point{X: s.X + neighbors[first].X, Y: s.Y + neighbors[first].Y}
	p2, p3 := i1, s

	var contour Contour
	for {
		d2 := direction(p3, p2)

		// Counterclockwise from the neighbour after p2. Always terminates
		// because p2 itself is foreground.
		var p4 Point
		for k := 1; k <= 8; k++ {
			d := (d2 - k + 8) % 8
			q := Point{X: p3.X + neighbors[d].X, Y: p3.Y + neighbors[d].Y}
			if bin.at(q.X, q.Y) {
				p4 = q
				break
			}
		}

		contour = append(contour, p3)
		if p4 == s && p3 == i1 {
			return contour
		}
		p2, p3 = p3, p4
	}
}

// direction returns the index in neighbors of the step from a to b, which
// must be 8-adjacent.
func direction(a, b Point) int {
	dx, dy := b.X-a.X, b.Y-a.Y
	for i, d := range neighbors {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return 0
}

// compressChain removes points whose incoming and outgoing steps are equal,
// treating the contour as closed.
func compressChain(c Contour) Contour {
	n := len(c)
	if n <= 2 {
		return c
	}

	out := make(Contour, 0, n/2+1)
	for i := 0; i < n; i++ {
		prev := c[(i-1+n)%n]
		cur := c[i]
		next := c[(i+1)%n]
		if cur.X-prev.X == next.X-cur.X && cur.Y-prev.Y == next.Y-cur.Y {
			continue
		}
		out = append(out, cur)
	}
	if len(out) == 0 {
		// A closed chain always turns somewhere; keep the input if it did not.
		return c
	}
	return out
}
