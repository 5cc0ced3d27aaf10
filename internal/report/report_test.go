package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
)

func sampleShapes() []detection.DetectedShape {
	return []detection.DetectedShape{
		{Kind: detection.Rectangle, Area: 20200.5, Perimeter: 604, Centroid: detection.Point{X: 200, Y: 150}},
		{Kind: detection.Triangle, Area: 9000, Perimeter: 442.31, Centroid: detection.Point{X: 100, Y: 250}},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "CSV", "json"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	out := Table(sampleShapes())
	assert.Contains(t, out, "Rectangle")
	assert.Contains(t, out, "20200.50")
	assert.Contains(t, out, "442.31")
	assert.Less(t, strings.Index(out, "Rectangle"), strings.Index(out, "Triangle"))
}

func TestCSV(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(CSV(sampleShapes())), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1,Rectangle,20200.50,604.00,200,150", lines[1])
	assert.Equal(t, "2,Triangle,9000.00,442.31,100,250", lines[2])
}

func TestWrite_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, "blank.png", nil))
	assert.Contains(t, buf.String(), "Detected objects: 0")
	assert.Contains(t, buf.String(), NoShapesHint)
}

func TestWrite_TableCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, "x.png", sampleShapes()))
	assert.Contains(t, buf.String(), "Detected objects: 2")
	assert.NotContains(t, buf.String(), NoShapesHint)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, "shapes.png", sampleShapes()))

	var got struct {
		Source string `json:"source"`
		Count  int    `json:"count"`
		Shapes []struct {
			Shape string  `json:"shape"`
			Area  float64 `json:"area"`
		} `json:"shapes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "shapes.png", got.Source)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "Rectangle", got.Shapes[0].Shape)
	assert.Equal(t, 9000.0, got.Shapes[1].Area)
}

func TestWrite_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, "", nil))
	assert.Contains(t, buf.String(), `"shapes": []`)
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), "", nil))
}
