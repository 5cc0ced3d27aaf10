// Package report renders detected shapes for people and for other programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
)

// Format selects how shapes are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// NoShapesHint is printed instead of an empty table.
const NoShapesHint = "No shapes detected. Try lowering the edge thresholds or the minimum area."

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, csv or json)", s)
}

// Summary is the machine-readable form of a detection run.
type Summary struct {
	Source string                    `json:"source,omitempty"`
	Count  int                       `json:"count"`
	Shapes []detection.DetectedShape `json:"shapes"`
}

// NewSummary wraps shapes for JSON output. A nil slice is reported as empty.
func NewSummary(source string, shapes []detection.DetectedShape) Summary {
	if shapes == nil {
		shapes = []detection.DetectedShape{}
	}
	return Summary{Source: source, Count: len(shapes), Shapes: shapes}
}

// Write renders shapes to w in the requested format.
func Write(w io.Writer, format Format, source string, shapes []detection.DetectedShape) error {
	var out string
	switch format {
	case FormatTable:
		out = fmt.Sprintf("Detected objects: %d\n", len(shapes))
		if len(shapes) == 0 {
			out += NoShapesHint + "\n"
		} else {
			out += Table(shapes) + "\n"
		}
	case FormatCSV:
		out = CSV(shapes) + "\n"
	case FormatJSON:
		b, err := json.MarshalIndent(NewSummary(source, shapes), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode shapes: %w", err)
		}
		out = string(b) + "\n"
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Table renders shapes as a text table with a 1-based row number.
func Table(shapes []detection.DetectedShape) string {
	return newWriter(shapes).Render()
}

// CSV renders shapes as comma-separated values with a header row.
func CSV(shapes []detection.DetectedShape) string {
	return newWriter(shapes).RenderCSV()
}

func newWriter(shapes []detection.DetectedShape) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Shape", "Area", "Perimeter", "Centroid X", "Centroid Y"})
	for i, s := range shapes {
		t.AppendRow(table.Row{
			i + 1,
			s.Kind.String(),
			fmt.Sprintf("%.2f", s.Area),
			fmt.Sprintf("%.2f", s.Perimeter),
			s.Centroid.X,
			s.Centroid.Y,
		})
	}
	return t
}
