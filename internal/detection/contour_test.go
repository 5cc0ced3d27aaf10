package detection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMask returns a blank edge map of the given size.
func newMask(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}

func fillRect(m *image.Gray, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			m.Pix[m.PixOffset(x, y)] = 255
		}
	}
}

func outlineRect(m *image.Gray, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		m.Pix[m.PixOffset(x, y1)] = 255
		m.Pix[m.PixOffset(x, y2)] = 255
	}
	for y := y1; y <= y2; y++ {
		m.Pix[m.PixOffset(x1, y)] = 255
		m.Pix[m.PixOffset(x2, y)] = 255
	}
}

func TestFindContours_Empty(t *testing.T) {
	assert.Empty(t, FindContours(newMask(20, 20)))
	assert.Empty(t, FindContours(newMask(0, 0)))
}

func TestFindContours_SinglePixel(t *testing.T) {
	m := newMask(10, 10)
	m.Pix[m.PixOffset(4, 6)] = 255

	contours := FindContours(m)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{X: 4, Y: 6}}, contours[0])
}

func TestFindContours_Block(t *testing.T) {
	m := newMask(10, 10)
	fillRect(m, 5, 5, 6, 6)

	contours := FindContours(m)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{5, 5}, {5, 6}, {6, 6}, {6, 5}}, contours[0])
	assert.Equal(t, 1.0, ContourArea(contours[0]))
}

func TestFindContours_OutlineCompressedToCorners(t *testing.T) {
	m := newMask(40, 30)
	outlineRect(m, 10, 10, 29, 19)

	contours := FindContours(m)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{10, 10}, {10, 19}, {29, 19}, {29, 10}}, contours[0])
	assert.Equal(t, 171.0, ContourArea(contours[0]))
}

func TestFindContours_NestedIsNotReported(t *testing.T) {
	m := newMask(60, 60)
	outlineRect(m, 5, 5, 54, 54)
	fillRect(m, 20, 20, 30, 30)
	outlineRect(m, 35, 35, 45, 45)

	contours := FindContours(m)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{5, 5}, {5, 54}, {54, 54}, {54, 5}}, contours[0])
}

func TestFindContours_SeparateRegions(t *testing.T) {
	m := newMask(50, 30)
	fillRect(m, 30, 2, 40, 8)
	fillRect(m, 2, 10, 12, 20)

	contours := FindContours(m)
	require.Len(t, contours, 2)

	// Raster order of the first pixel.
	assert.Equal(t, Point{30, 2}, contours[0][0])
	assert.Equal(t, Point{2, 10}, contours[1][0])
	assert.Equal(t, 60.0, ContourArea(contours[0]))
	assert.Equal(t, 100.0, ContourArea(contours[1]))
}

func TestFindContours_TouchingBorder(t *testing.T) {
	m := newMask(20, 20)
	fillRect(m, 0, 0, 19, 3)

	contours := FindContours(m)
	require.Len(t, contours, 1)
	assert.Equal(t, 57.0, ContourArea(contours[0]))
}

func TestFindContours_Line(t *testing.T) {
	m := newMask(20, 10)
	for x := 3; x <= 12; x++ {
		m.Pix[m.PixOffset(x, 4)] = 255
	}

	contours := FindContours(m)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{3, 4}, {12, 4}}, contours[0])
	assert.Equal(t, 0.0, ContourArea(contours[0]))
}

func TestFindContours_DiagonalConnectivity(t *testing.T) {
	m := newMask(10, 10)
	m.Pix[m.PixOffset(2, 2)] = 255
	m.Pix[m.PixOffset(3, 3)] = 255
	m.Pix[m.PixOffset(4, 4)] = 255

	contours := FindContours(m)
	require.Len(t, contours, 1, "diagonal pixels form one 8-connected region")
	assert.Equal(t, Contour{{2, 2}, {4, 4}}, contours[0])
}

func TestFindContours_NonZeroOrigin(t *testing.T) {
	m := newMask(40, 40)
	outlineRect(m, 15, 15, 24, 24)
	sub := m.SubImage(image.Rect(10, 10, 30, 30)).(*image.Gray)

	contours := FindContours(sub)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{5, 5}, {5, 14}, {14, 14}, {14, 5}}, contours[0])
}

func TestCompressChain(t *testing.T) {
	assert.Equal(t, Contour{{1, 1}}, compressChain(Contour{{1, 1}}))
	assert.Equal(t, Contour{{0, 0}, {1, 1}}, compressChain(Contour{{0, 0}, {1, 1}}))

	chain := Contour{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}, {1, 0}}
	assert.Equal(t, Contour{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, compressChain(chain))
}
