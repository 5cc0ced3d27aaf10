// Package imaging provides the image loading and pixel-level stages of the
// shape analyzer.
//
// It covers decoding and caching of image files, conversion to grayscale,
// Gaussian smoothing and Canny edge extraction. Higher level stages (contour
// tracing, polygon approximation, classification) live in the detection
// package and consume the *image.Gray values produced here.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Images returned by Preprocess and ExtractEdges always have their origin at
// (0, 0), even when the input image does not.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and never modifies its input, so the same image can be analyzed
// from several goroutines at once.
//
// # Error Handling
//
// Nil images and images with a zero dimension are rejected with an error
// wrapping ErrInvalidImage. Decoding failures are reported the same way so
// callers can test for a bad input with errors.Is.
package imaging
