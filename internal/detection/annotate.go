package detection

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"
)

var labelFont *truetype.Font

func init() {
	var err error
	labelFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// AnnotationStyle controls how detections are drawn by Annotate.
type AnnotationStyle struct {
	// OutlineColor is the hex color of the contour outline.
	OutlineColor string `json:"outline_color"`

	// LabelColor is the hex color of the text labels.
	LabelColor string `json:"label_color"`

	// LineWidth is the outline stroke width in pixels.
	LineWidth float64 `json:"line_width"`

	// FontSize is the label size in points.
	FontSize float64 `json:"font_size"`

	// LabelOffset is added to the centroid to place the kind label. The
	// metrics label is drawn MetricsSpacing pixels below it.
	LabelOffset    image.Point `json:"label_offset"`
	MetricsSpacing int         `json:"metrics_spacing"`
}

// DefaultAnnotationStyle returns a green outline with blue labels placed left
// of the centroid.
func DefaultAnnotationStyle() AnnotationStyle {
	return AnnotationStyle{
		OutlineColor:   "#00FF00",
		LabelColor:     "#0000FF",
		LineWidth:      2,
		FontSize:       14,
		LabelOffset:    image.Pt(-40, -5),
		MetricsSpacing: 20,
	}
}

// Annotate returns a copy of img with the outline and labels of every
// detection drawn on it. img itself is never modified.
//
// Each detection gets two labels: the shape kind, and "A:<area> P:<perimeter>"
// with both values rounded to integers. The copy has its origin at (0, 0);
// with no detections it is pixel-identical to img.
func Annotate(img image.Image, detections []Detection, style AnnotationStyle) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	if len(detections) == 0 {
		return out
	}

	def := DefaultAnnotationStyle()
	outline := parseColor(style.OutlineColor, def.OutlineColor)
	label := parseColor(style.LabelColor, def.LabelColor)
	if style.LineWidth <= 0 {
		style.LineWidth = def.LineWidth
	}
	if style.FontSize <= 0 {
		style.FontSize = def.FontSize
	}

	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: style.FontSize}))

	for _, d := range detections {
		drawContour(dc, d.Contour, outline, style.LineWidth)

		x := float64(d.Shape.Centroid.X + style.LabelOffset.X)
		y := float64(d.Shape.Centroid.Y + style.LabelOffset.Y)
		dc.SetColor(label)
		dc.DrawString(d.Shape.Kind.String(), x, y)
		dc.DrawString(MetricsLabel(d.Shape), x, y+float64(style.MetricsSpacing))
	}
	return out
}

// MetricsLabel formats the area and perimeter of s for display.
func MetricsLabel(s DetectedShape) string {
	return fmt.Sprintf("A:%.0f P:%.0f", s.Area, s.Perimeter)
}

func drawContour(dc *gg.Context, c Contour, col color.Color, width float64) {
	if len(c) < 2 {
		return
	}
	dc.SetColor(col)
	dc.SetLineWidth(width)
	// Pixel centers sit at +0.5.
	dc.MoveTo(float64(c[0].X)+0.5, float64(c[0].Y)+0.5)
	for _, p := range c[1:] {
		dc.LineTo(float64(p.X)+0.5, float64(p.Y)+0.5)
	}
	dc.ClosePath()
	dc.Stroke()
}

// parseColor parses a hex color, falling back to fallback when s is empty or
// malformed.
func parseColor(s, fallback string) color.Color {
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}
