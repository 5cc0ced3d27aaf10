// Package samples renders the synthetic test images used to exercise the
// shape detector: solid black shapes on an 800x600 white canvas.
package samples

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/ironsheep/shape-analyzer-mcp/internal/imaging"
)

// Canvas size of every sample image.
const (
	Width  = 800
	Height = 600
)

// Sample is a named generator.
type Sample struct {
	// Name is the file name the sample is written under.
	Name string

	// Render draws the sample.
	Render func() *image.RGBA
}

// All returns every sample in a fixed order.
func All() []Sample {
	return []Sample{
		{Name: "shapes_simple.png", Render: Simple},
		{Name: "shapes_many.png", Render: Many},
		{Name: "shapes_overlap.png", Render: Overlap},
	}
}

// Simple draws one of each kind: a triangle, a square rotated by 30 degrees,
// a 2:1 rectangle, a pentagon and a circle of radius 70.
func Simple() *image.RGBA {
	dc := newCanvas()

	fillPolygon(dc, [][2]float64{{100, 150}, {40, 300}, {160, 300}})

	// 120x120 square centered at (300, 220).
	dc.Push()
	dc.RotateAbout(gg.Radians(30), 300, 220)
	dc.DrawRectangle(240, 160, 120, 120)
	dc.Fill()
	dc.Pop()

	dc.DrawRectangle(420, 140, 201, 121)
	dc.Fill()

	fillPolygon(dc, [][2]float64{{100, 420}, {60, 480}, {100, 540}, {180, 540}, {220, 480}})

	dc.DrawCircle(520, 440, 70)
	dc.Fill()

	return dc.Image().(*image.RGBA)
}

// Many draws a grid of circles every 100 pixels starting at (50, 50), with
// radius (x+y)%40+10.
func Many() *image.RGBA {
	dc := newCanvas()
	for x := 50; x < 750; x += 100 {
		for y := 50; y < 550; y += 100 {
			r := float64((x+y)%40 + 10)
			dc.DrawCircle(float64(x), float64(y), r)
			dc.Fill()
		}
	}
	return dc.Image().(*image.RGBA)
}

// Overlap draws a rectangle with a white disc punched into it next to a
// rotated ellipse.
func Overlap() *image.RGBA {
	dc := newCanvas()

	dc.DrawRectangle(100, 100, 351, 301)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(300, 250, 140)
	dc.Fill()
	dc.SetRGB(0, 0, 0)

	dc.Push()
	dc.RotateAbout(gg.Radians(30), 600, 350)
	dc.DrawEllipse(600, 350, 120, 80)
	dc.Fill()
	dc.Pop()

	return dc.Image().(*image.RGBA)
}

// WriteAll renders every sample into dir and returns the written paths.
func WriteAll(dir string) ([]string, error) {
	var paths []string
	for _, s := range All() {
		path := filepath.Join(dir, s.Name)
		if err := imaging.Save(s.Render(), path); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", s.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func newCanvas() *gg.Context {
	dc := gg.NewContext(Width, Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	return dc
}

func fillPolygon(dc *gg.Context, pts [][2]float64) {
	dc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.ClosePath()
	dc.Fill()
}
