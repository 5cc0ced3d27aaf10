// Package detection finds and classifies simple geometric shapes in images.
//
// It recognizes triangles, squares, rectangles, pentagons and circles using
// classical contour analysis only. There is no learned model and no color
// segmentation: shapes are found from the outlines in an edge map.
//
// # Pipeline
//
// Detect chains the stages together:
//
//  1. Preprocess: grayscale conversion and 5x5 Gaussian smoothing (package imaging)
//  2. Edge extraction: Canny style gradient thresholding with hysteresis (package imaging)
//  3. Contour discovery: outer borders of the connected edge regions (FindContours)
//  4. Classification: area filter, Douglas-Peucker simplification, vertex
//     count and minimum-area rectangle rules (Classify)
//  5. Annotation: outlines and labels drawn on a copy of the input (Annotate)
//
// Each stage is exported on its own so it can be tested and reused
// independently. Annotation is kept out of Classify so that classification
// never touches pixels.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Inputs with a non-zero origin are analyzed as if they started at (0, 0),
// and every returned coordinate is relative to the image's top-left pixel.
//
// # Results
//
// Areas and perimeters are in pixels and rounded to two decimals. Centroids
// are truncated to integer pixels. Results are sorted by area, largest first,
// with ties kept in contour discovery order.
//
// # Limitations
//
// These algorithms work best on clean, high-contrast images:
//   - Diagrams with solid lines and fills
//   - Images without heavy compression artifacts
//   - Shapes that do not touch or overlap
//
// Any outline that simplifies to six or more vertices is reported as a
// Circle unless Options.MinCircularity is set.
package detection
