package imaging

import (
	"fmt"
	"image"
)

// EdgeValue is the intensity of an edge pixel in images produced by
// ExtractEdges. Non-edge pixels are 0.
const EdgeValue = 255

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EdgeDetect runs the preprocessing and edge extraction stages on img and
// returns the edge map as a base64 PNG.
//
// Recommended starting points:
//   - Clean diagrams: thresholdLow=50, thresholdHigh=150
//   - Photographs: thresholdLow=100, thresholdHigh=200
//   - Noisy images: thresholdLow=75, thresholdHigh=175
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	gray, err := Preprocess(img)
	if err != nil {
		return nil, err
	}
	edges := ExtractEdges(gray, thresholdLow, thresholdHigh)

	encoded, err := EncodePNGBase64(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	b := edges.Bounds()
	return &EdgeDetectResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		EdgePixels:  CountEdgePixels(edges),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// ExtractEdges computes a binary edge map from a smoothed grayscale image.
//
// # Algorithm
//
//  1. Gradient: 3x3 Sobel operators, magnitude = |Gx| + |Gy| on the 0-255
//     intensity scale. Border pixels replicate their nearest neighbour.
//  2. Non-maximum suppression: a pixel survives only if its magnitude is a
//     local maximum along the gradient direction quantized to 0, 45, 90 or
//     135 degrees. Ties are resolved towards the lower/left neighbour so that
//     a symmetric step produces a one pixel wide edge.
//  3. Gap bridging: where two edges meet at a sharp apex, step 2 can leave a
//     gap of a pixel or two between their ends. A loose line end is joined
//     to the nearest surviving pixel within gapRadius that it does not
//     already reach inside that window, provided the gradient along the
//     joining segment stays strong (see bridgeGaps).
//  4. Hysteresis: pixels above thresholdHigh are strong edges. Pixels above
//     thresholdLow become edges when they are 8-connected, directly or
//     through other such pixels, to a strong edge. Everything else is
//     suppressed.
//
// If thresholdLow is greater than thresholdHigh the two are swapped.
//
// The returned image has the same size as gray with its origin at (0, 0).
// Edge pixels are EdgeValue, all others 0. Pixels on the image border are
// never edges.
//
// Raising either threshold never adds edge pixels: suppression and gap
// bridging do not depend on the thresholds, a higher thresholdHigh only
// removes seeds and a higher thresholdLow only removes candidates.
func ExtractEdges(gray *image.Gray, thresholdLow, thresholdHigh int) *image.Gray {
	if thresholdLow > thresholdHigh {
		thresholdLow, thresholdHigh = thresholdHigh, thresholdLow
	}

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width < 3 || height < 3 {
		return result
	}

	at := func(x, y int) int {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return int(gray.Pix[gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)])
	}

	// Gradient magnitude and quantized direction.
	magnitude := make([]int, width*height)
	direction := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p00, p10, p20 := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			p01, p21 := at(x-1, y), at(x+1, y)
			p02, p12, p22 := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			gx := (p20 + 2*p21 + p22) - (p00 + 2*p01 + p02)
			gy := (p02 + 2*p12 + p22) - (p00 + 2*p10 + p20)

			i := y*width + x
			magnitude[i] = abs(gx) + abs(gy)
			direction[i] = quantizeDirection(gx, gy)
		}
	}

	// Non-maximum suppression. Border pixels stay at zero.
	suppressed := make([]int, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag == 0 {
				continue
			}
			d := directionSteps[direction[i]]
			before := magnitude[(y-d.Y)*width+(x-d.X)]
			after := magnitude[(y+d.Y)*width+(x+d.X)]
			if mag > before && mag >= after {
				suppressed[i] = mag
			}
		}
	}

	bridgeGaps(suppressed, magnitude, width, height)

	// Hysteresis: grow edges from strong seeds through weak candidates.
	stack := make([]int, 0, 256)
	for i, mag := range suppressed {
		if mag > thresholdHigh {
			result.Pix[i/width*result.Stride+i%width] = EdgeValue
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				n := ny*width + nx
				off := ny*result.Stride + nx
				if result.Pix[off] == EdgeValue || suppressed[n] <= thresholdLow {
					continue
				}
				result.Pix[off] = EdgeValue
				stack = append(stack, n)
			}
		}
	}

	return result
}

// gapRadius is the largest distance, per axis, between two line ends that
// bridgeGaps joins.
const gapRadius = 3

// ring lists the 8 neighbour offsets clockwise from east.
var ring = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

// bridgeGaps joins loose line ends of the non-maximum suppressed map in
// place. Pixels are visited in raster order. For each line end, the
// surviving pixels 8-connected to it inside the (2*gapRadius+1) square
// window around it are flooded first; the nearest survivor in the window
// that the flood did not reach becomes the target. The Bresenham segment
// between the two is restored with its gradient magnitudes when none of its
// pixels falls below half the magnitude of the weaker endpoint.
//
// Border pixels are never touched.
func bridgeGaps(suppressed, magnitude []int, width, height int) {
	const side = 2*gapRadius + 1
	var seen [side * side]bool
	stack := make([]image.Point, 0, side*side)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			if suppressed[i] == 0 || !isLineEnd(suppressed, width, x, y) {
				continue
			}

			x0, y0 := max(1, x-gapRadius), max(1, y-gapRadius)
			x1, y1 := min(width-2, x+gapRadius), min(height-2, y+gapRadius)
			local := func(px, py int) int {
				return (py-y+gapRadius)*side + px - x + gapRadius
			}

			seen = [side * side]bool{}
			seen[local(x, y)] = true
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range ring {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < x0 || ny < y0 || nx > x1 || ny > y1 {
						continue
					}
					if seen[local(nx, ny)] || suppressed[ny*width+nx] == 0 {
						continue
					}
					seen[local(nx, ny)] = true
					stack = append(stack, image.Pt(nx, ny))
				}
			}

			target, best := image.Point{}, -1
			for ty := y0; ty <= y1; ty++ {
				for tx := x0; tx <= x1; tx++ {
					if seen[local(tx, ty)] || suppressed[ty*width+tx] == 0 {
						continue
					}
					dx, dy := tx-x, ty-y
					if d := dx*dx + dy*dy; best < 0 || d < best {
						target, best = image.Pt(tx, ty), d
					}
				}
			}
			if best < 0 {
				continue
			}

			floor := min(magnitude[i], magnitude[target.Y*width+target.X]) / 2
			path := linePoints(image.Pt(x, y), target)
			path = path[1 : len(path)-1]
			strong := true
			for _, p := range path {
				if magnitude[p.Y*width+p.X] < floor {
					strong = false
					break
				}
			}
			if !strong {
				continue
			}
			for _, p := range path {
				if j := p.Y*width + p.X; suppressed[j] == 0 {
					suppressed[j] = magnitude[j]
				}
			}
		}
	}
}

// isLineEnd reports whether the pixel at (x, y) has one or two surviving
// neighbours and they sit next to each other on the ring.
func isLineEnd(suppressed []int, width, x, y int) bool {
	count, runs := 0, 0
	prev := suppressed[(y+ring[7].Y)*width+x+ring[7].X] > 0
	for _, d := range ring {
		on := suppressed[(y+d.Y)*width+x+d.X] > 0
		if on {
			count++
			if !prev {
				runs++
			}
		}
		prev = on
	}
	return count > 0 && count <= 2 && runs == 1
}

// linePoints returns the Bresenham line from a to b, both included.
func linePoints(a, b image.Point) []image.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	pts := make([]image.Point, 0, dx-dy+1)
	err := dx + dy
	for p := a; ; {
		pts = append(pts, p)
		if p == b {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

// CountEdgePixels returns the number of non-zero pixels in edges.
func CountEdgePixels(edges *image.Gray) int {
	b := edges.Bounds()
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := edges.Pix[edges.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != 0 {
				count++
			}
		}
	}
	return count
}

// Quantized gradient directions used by non-maximum suppression.
const (
	dirHorizontal uint8 = iota // gradient along x, edge runs vertically
	dirDiagonal                // gradient along (1,1)
	dirVertical                // gradient along y, edge runs horizontally
	dirAntiDiagonal            // gradient along (-1,1)
)

var directionSteps = [4]image.Point{
	dirHorizontal:   {X: 1, Y: 0},
	dirDiagonal:     {X: 1, Y: 1},
	dirVertical:     {X: 0, Y: 1},
	dirAntiDiagonal: {X: -1, Y: 1},
}

// tan(22.5°) and tan(67.5°) scaled by 1<<15 so the sector test stays in
// integer arithmetic.
const (
	tan22Fixed = 13573
	tan67Fixed = 79109
)

// quantizeDirection maps a gradient vector to one of the four directions.
func quantizeDirection(gx, gy int) uint8 {
	ax := abs(gx)
	ay := abs(gy) << 15
	switch {
	case ay <= ax*tan22Fixed:
		return dirHorizontal
	case ay >= ax*tan67Fixed:
		return dirVertical
	}
	if (gx < 0) == (gy < 0) {
		return dirDiagonal
	}
	return dirAntiDiagonal
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
