package detection

import (
	"sort"
)

// Classify computes the metrics of a single contour and assigns it a kind.
//
// ok is false when the enclosed area is below opts.MinArea; nothing else
// rejects a contour.
//
// # Rules
//
// The contour is simplified with ApproxPolyDP using
// epsilon = opts.ApproxFactor * perimeter, and the vertex count V decides:
//
//   - V = 3: Triangle
//   - V = 4: Square when the aspect ratio of the polygon's minimum-area
//     rectangle is within 1 +/- opts.SquareTolerance, Rectangle otherwise
//     (a degenerate rectangle has aspect 0 and is a Rectangle)
//   - V = 5: Pentagon
//   - otherwise: Circle. When opts.MinCircularity is positive the contour
//     must also reach that circularity, or it is Unidentified.
//
// A non-positive ApproxFactor or SquareTolerance falls back to
// DefaultApproxFactor or DefaultSquareTolerance.
func Classify(c Contour, opts Options) (Detection, bool) {
	if opts.ApproxFactor <= 0 {
		opts.ApproxFactor = DefaultApproxFactor
	}
	if opts.SquareTolerance <= 0 {
		opts.SquareTolerance = DefaultSquareTolerance
	}

	area := ContourArea(c)
	if area < opts.MinArea {
		return Detection{}, false
	}

	perimeter := ArcLength(c)
	poly := ApproxPolyDP(c, opts.ApproxFactor*perimeter)
	circularity := Circularity(area, perimeter)

	d := Detection{
		Contour:     c,
		Vertices:    len(poly),
		Circularity: round2(circularity),
	}

	var kind ShapeKind
	switch len(poly) {
	case 3:
		kind = Triangle
	case 4:
		d.Aspect = MinAreaRect(poly).Aspect()
		if d.Aspect >= 1-opts.SquareTolerance && d.Aspect <= 1+opts.SquareTolerance {
			kind = Square
		} else {
			kind = Rectangle
		}
		d.Aspect = round2(d.Aspect)
	case 5:
		kind = Pentagon
	default:
		kind = Circle
		if opts.MinCircularity > 0 && circularity < opts.MinCircularity {
			kind = Unidentified
		}
	}

	d.Shape = DetectedShape{
		Kind:      kind,
		Area:      round2(area),
		Perimeter: round2(perimeter),
		Centroid:  ContourCentroid(c),
	}
	return d, true
}

// ClassifyContours classifies every contour and returns the accepted
// detections sorted by area, largest first. Equal areas keep the order of
// contours.
func ClassifyContours(contours []Contour, opts Options) []Detection {
	detections := make([]Detection, 0, len(contours))
	for _, c := range contours {
		if d, ok := Classify(c, opts); ok {
			detections = append(detections, d)
		}
	}

	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].Shape.Area > detections[j].Shape.Area
	})
	return detections
}
