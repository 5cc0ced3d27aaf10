package detection

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"
)

// ShapeKind is the classification assigned to a detected contour.
type ShapeKind int

const (
	// Unidentified is assigned when no other kind applies. With the default
	// options it is never produced: every contour that is not a triangle,
	// quadrilateral or pentagon is reported as a Circle.
	Unidentified ShapeKind = iota
	Triangle
	Square
	Rectangle
	Pentagon
	Circle
)

var shapeKindNames = [...]string{
	Unidentified: "Unidentified",
	Triangle:     "Triangle",
	Square:       "Square",
	Rectangle:    "Rectangle",
	Pentagon:     "Pentagon",
	Circle:       "Circle",
}

// String returns the display name of the kind, e.g. "Triangle".
func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeKindNames[k]
}

// MarshalJSON encodes the kind as its display name.
func (k ShapeKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts a display name, case-insensitively.
func (k *ShapeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseShapeKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseShapeKind returns the kind with the given display name.
func ParseShapeKind(s string) (ShapeKind, error) {
	for i, name := range shapeKindNames {
		if strings.EqualFold(name, s) {
			return ShapeKind(i), nil
		}
	}
	return Unidentified, fmt.Errorf("unknown shape kind %q", s)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// ImagePoint converts p to an image.Point.
func (p Point) ImagePoint() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

// Contour is an ordered, implicitly closed sequence of boundary points.
type Contour []Point

// DetectedShape is the metrics record emitted for one classified contour.
type DetectedShape struct {
	// Kind is the classification of the contour.
	Kind ShapeKind `json:"shape"`

	// Area is the enclosed area in square pixels, rounded to 2 decimals.
	Area float64 `json:"area"`

	// Perimeter is the closed contour length in pixels, rounded to 2 decimals.
	Perimeter float64 `json:"perimeter"`

	// Centroid is the area centroid, truncated to integer pixels.
	Centroid Point `json:"centroid"`
}

// Detection pairs a DetectedShape with the geometry it was computed from.
// The contour is kept so that annotation can draw the outline.
type Detection struct {
	Shape DetectedShape `json:"shape"`

	// Contour is the compressed boundary that was classified.
	Contour Contour `json:"-"`

	// Vertices is the vertex count of the simplified polygon.
	Vertices int `json:"vertices"`

	// Aspect is the side ratio of the minimum-area rectangle. Only set for
	// four-vertex polygons.
	Aspect float64 `json:"aspect,omitempty"`

	// Circularity is 4*pi*area/perimeter^2, 1.0 for a perfect circle.
	Circularity float64 `json:"circularity"`
}
