package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// SmoothingKernelSize is the side length of the Gaussian kernel applied by
// Preprocess.
const SmoothingKernelSize = 5

// Preprocess converts img to a single-channel grayscale image of the same size
// and smooths it with a 5x5 Gaussian kernel.
//
// The returned image always has its origin at (0, 0). The input is never
// modified. A 1x1 image yields a single-pixel result.
func Preprocess(img image.Image) (*image.Gray, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	return Smooth(Grayscale(img), SmoothingKernelSize), nil
}

// Grayscale converts img to luminance using ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B).
//
// Images with transparency are composited onto white first, so a fully
// transparent pixel reads as 255 whatever its color channels hold.
func Grayscale(img image.Image) *image.Gray {
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		ib := img.Bounds()
		img = imaging.Overlay(imaging.New(ib.Dx(), ib.Dy(), color.White), img, image.Point{}, 1.0)
	}

	src := imaging.Grayscale(img)
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		dstRow := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			// All three channels carry the same luminance value.
			dstRow[x] = srcRow[x*4]
		}
	}
	return gray
}

// Smooth applies a size x size Gaussian blur to gray. Pixels outside the image
// are treated as copies of the nearest edge pixel.
func Smooth(gray *image.Gray, size int) *image.Gray {
	weights := GaussianKernel(size)
	kernel := convolution.NewKernel(size, size)
	copy(kernel.Matrix, weights)

	blurred := convolution.Convolve(gray, kernel, &convolution.Options{Bias: 0, Wrap: false})

	b := blurred.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := blurred.Pix[blurred.PixOffset(b.Min.X, b.Min.Y+y):]
		dstRow := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = srcRow[x*4]
		}
	}
	return out
}

// GaussianKernel returns a normalized size x size Gaussian kernel in row-major
// order.
//
// The standard deviation is derived from the kernel size with
// sigma = 0.3*((size-1)*0.5 - 1) + 0.8, which gives sigma = 1.1 for the 5x5
// kernel used by Preprocess.
func GaussianKernel(size int) []float64 {
	if size < 1 {
		size = 1
	}
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2

	row := make([]float64, size)
	var sum float64
	for i := range row {
		d := float64(i - half)
		row[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += row[i]
	}
	for i := range row {
		row[i] /= sum
	}

	kernel := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			kernel[y*size+x] = row[y] * row[x]
		}
	}
	return kernel
}
