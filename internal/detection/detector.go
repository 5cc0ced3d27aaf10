package detection

import (
	"image"

	"github.com/ironsheep/shape-analyzer-mcp/internal/imaging"
)

// Defaults used when the caller does not override them.
const (
	DefaultLowThreshold    = 50
	DefaultHighThreshold   = 150
	DefaultMinArea         = 100.0
	DefaultApproxFactor    = 0.02
	DefaultSquareTolerance = 0.05
)

// Options holds the tunable parameters of Detect.
type Options struct {
	// LowThreshold and HighThreshold are the hysteresis bounds of the edge
	// extractor. Keep LowThreshold below HighThreshold; swapped values are
	// tolerated.
	LowThreshold  int `json:"threshold_low"`
	HighThreshold int `json:"threshold_high"`

	// MinArea discards contours enclosing fewer square pixels.
	MinArea float64 `json:"min_area"`

	// ApproxFactor scales the perimeter into the Douglas-Peucker tolerance.
	ApproxFactor float64 `json:"approx_factor"`

	// SquareTolerance is the allowed deviation of the aspect ratio from 1 for
	// a quadrilateral to count as a square.
	SquareTolerance float64 `json:"square_tolerance"`

	// MinCircularity, when positive, is the circularity a contour with six or
	// more vertices needs to be reported as a Circle. Zero disables the check.
	MinCircularity float64 `json:"min_circularity,omitempty"`
}

// DefaultOptions returns thresholds 50/150, a minimum area of 100 and the
// standard classification tolerances.
func DefaultOptions() Options {
	return Options{
		LowThreshold:    DefaultLowThreshold,
		HighThreshold:   DefaultHighThreshold,
		MinArea:         DefaultMinArea,
		ApproxFactor:    DefaultApproxFactor,
		SquareTolerance: DefaultSquareTolerance,
	}
}

// Result is the output of one Detect call.
type Result struct {
	// Annotated is a copy of the input with outlines and labels drawn on it.
	Annotated *image.RGBA

	// Edges is the binary edge map: 255 on edges, 0 elsewhere.
	Edges *image.Gray

	// Detections are sorted by area, largest first.
	Detections []Detection
}

// Shapes returns the metrics records of r.Detections in the same order.
func (r *Result) Shapes() []DetectedShape {
	shapes := make([]DetectedShape, len(r.Detections))
	for i, d := range r.Detections {
		shapes[i] = d.Shape
	}
	return shapes
}

// Detect runs the full pipeline on img: preprocessing, edge extraction,
// external contour discovery, classification and annotation.
//
// The only error is one wrapping imaging.ErrInvalidImage, returned before any
// processing when img is nil or empty. Detect holds no state between calls
// and never modifies img, so it may be called concurrently.
//
// Example:
//
//	res, err := detection.Detect(img, detection.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, s := range res.Shapes() {
//	    fmt.Println(s.Kind, s.Area)
//	}
func Detect(img image.Image, opts Options) (*Result, error) {
	gray, err := imaging.Preprocess(img)
	if err != nil {
		return nil, err
	}

	edges := imaging.ExtractEdges(gray, opts.LowThreshold, opts.HighThreshold)
	detections := ClassifyContours(FindContours(edges), opts)

	return &Result{
		Annotated:  Annotate(img, detections, DefaultAnnotationStyle()),
		Edges:      edges,
		Detections: detections,
	}, nil
}
