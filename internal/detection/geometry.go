package detection

import (
	"image"
	"math"
	"slices"
	"sort"
)

// ContourArea returns the area enclosed by c using the shoelace formula.
// The result is always non-negative, whatever the orientation of c.
func ContourArea(c Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(float64(sum)) / 2
}

// ArcLength returns the length of c as a closed curve, including the segment
// from the last point back to the first.
func ArcLength(c Contour) float64 {
	n := len(c)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		length += distance(c[i], c[(i+1)%n])
	}
	return length
}

// Moments holds the zeroth and first order spatial moments of the region
// enclosed by a contour.
type Moments struct {
	M00 float64 // area
	M10 float64
	M01 float64
}

// ComputeMoments computes the area moments of the polygon c with Green's
// theorem. Moments are normalized to a counterclockwise orientation so M00
// is never negative.
func ComputeMoments(c Contour) Moments {
	n := len(c)
	if n < 3 {
		return Moments{}
	}

	var a00, a10, a01 float64
	prev := c[n-1]
	for _, p := range c {
		dxy := float64(prev.X*p.Y - p.X*prev.Y)
		a00 += dxy
		a10 += dxy * float64(prev.X+p.X)
		a01 += dxy * float64(prev.Y+p.Y)
		prev = p
	}

	m := Moments{M00: a00 / 2, M10: a10 / 6, M01: a01 / 6}
	if m.M00 < 0 {
		m.M00, m.M10, m.M01 = -m.M00, -m.M10, -m.M01
	}
	return m
}

// Centroid returns (M10/M00, M01/M00) truncated to integer pixels. ok is false
// when M00 is zero.
func (m Moments) Centroid() (Point, bool) {
	if m.M00 == 0 {
		return Point{}, false
	}
	return Point{X: int(m.M10 / m.M00), Y: int(m.M01 / m.M00)}, true
}

// BoundingRect returns the smallest axis-aligned rectangle containing every
// point of c. Max is exclusive, so a single point has a 1x1 rectangle.
func BoundingRect(c Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// ContourCentroid returns the area centroid of c, falling back to the center
// of its bounding rectangle when the enclosed area is zero.
func ContourCentroid(c Contour) Point {
	if p, ok := ComputeMoments(c).Centroid(); ok {
		return p
	}
	r := BoundingRect(c)
	return Point{X: r.Min.X + r.Dx()/2, Y: r.Min.Y + r.Dy()/2}
}

// Circularity returns 4*pi*area/perimeter^2, which is 1 for a circle and
// smaller for every other shape. It is 0 when perimeter is 0.
func Circularity(area, perimeter float64) float64 {
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// ConvexHull returns the convex hull of pts in counterclockwise order (with y
// pointing down this is clockwise on screen), without collinear points.
//
// Uses Andrew's monotone chain algorithm.
func ConvexHull(pts Contour) Contour {
	if len(pts) < 3 {
		return uniquePoints(pts)
	}

	sorted := make(Contour, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	sorted = slices.Compact(sorted)
	if len(sorted) < 3 {
		return sorted
	}

	hull := make(Contour, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// RotatedRect is a rectangle at an arbitrary orientation.
type RotatedRect struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`

	// Angle is the direction of the Width side in degrees, in [0, 180).
	Angle float64 `json:"angle"`
}

// Aspect returns max(Width, Height) / min(Width, Height), or 0 when either
// side is 0.
func (r RotatedRect) Aspect() float64 {
	if r.Width == 0 || r.Height == 0 {
		return 0
	}
	return math.Max(r.Width, r.Height) / math.Min(r.Width, r.Height)
}

// MinAreaRect returns the minimum-area rectangle enclosing pts.
//
// The optimal rectangle has one side collinear with an edge of the convex
// hull, so every hull edge direction is tried and the smallest box kept.
// Degenerate inputs give zero-sized sides: a single point has Width and
// Height 0, collinear points have Height 0.
func MinAreaRect(pts Contour) RotatedRect {
	hull := ConvexHull(pts)
	switch len(hull) {
	case 0:
		return RotatedRect{}
	case 1:
		return RotatedRect{CenterX: float64(hull[0].X), CenterY: float64(hull[0].Y)}
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)
	n := len(hull)
	for i := 0; i < n; i++ {
		a, b := hull[i], hull[(i+1)%n]
		ex, ey := float64(b.X-a.X), float64(b.Y-a.Y)
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		ux, uy := ex/length, ey/length // along the edge
		vx, vy := -uy, ux              // normal

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			px, py := float64(p.X-a.X), float64(p.Y-a.Y)
			u := px*ux + py*uy
			v := px*vx + py*vy
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		w, h := maxU-minU, maxV-minV
		if area := w * h; area < bestArea {
			bestArea = area
			cu, cv := (minU+maxU)/2, (minV+maxV)/2
			angle := math.Atan2(uy, ux) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			if angle >= 180 {
				angle -= 180
			}
			best = RotatedRect{
				CenterX: float64(a.X) + cu*ux + cv*vx,
				CenterY: float64(a.Y) + cu*uy + cv*vy,
				Width:   w,
				Height:  h,
				Angle:   angle,
			}
		}
	}
	return best
}

// cross returns the z component of (a-o) x (b-o).
func cross(o, a, b Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

func uniquePoints(pts Contour) Contour {
	out := make(Contour, 0, len(pts))
	for _, p := range pts {
		dup := false
		for _, q := range out {
			if p == q {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// round2 rounds v to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
