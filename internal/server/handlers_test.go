package server

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
	"github.com/ironsheep/shape-analyzer-mcp/internal/imaging"
	"github.com/ironsheep/shape-analyzer-mcp/internal/report"
	"github.com/ironsheep/shape-analyzer-mcp/internal/samples"
)

// createTestImageFile writes a uniform PNG into a temp dir and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to save image: %v", err)
	}
	return path
}

// createSampleFile writes the mixed shapes sample and returns its path.
func createSampleFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shapes_simple.png")
	if err := imaging.Save(samples.Simple(), path); err != nil {
		t.Fatalf("failed to save sample: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: paramsJSON})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool response
// into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil, "")
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info imaging.ImageInfo
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache: got %d entries, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New(nil, "")
	imgPath := createTestImageFile(t, 64, 32, color.White)

	var dims imaging.DimensionsResult
	decodeToolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 64 || dims.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_EdgeDetect(t *testing.T) {
	s := New(nil, "")
	imgPath := createSampleFile(t)

	var res imaging.EdgeDetectResult
	decodeToolResult(t, callTool(t, s, "image_edge_detect", map[string]interface{}{"path": imgPath}), &res)

	if res.Width != samples.Width || res.Height != samples.Height {
		t.Errorf("dimensions: got %dx%d", res.Width, res.Height)
	}
	if res.EdgePixels == 0 {
		t.Error("expected edge pixels in the sample")
	}
	if res.ImageBase64 == "" {
		t.Error("expected an encoded edge map")
	}
}

func TestHandleToolsCall_ShapesDetect(t *testing.T) {
	s := New(nil, "")
	imgPath := createSampleFile(t)

	var res ShapesDetectResult
	decodeToolResult(t, callTool(t, s, "shapes_detect", map[string]interface{}{"path": imgPath}), &res)

	if res.Count != 5 || len(res.Shapes) != 5 {
		t.Fatalf("count: got %d (%d shapes), want 5", res.Count, len(res.Shapes))
	}
	for i := 1; i < len(res.Shapes); i++ {
		if res.Shapes[i].Area > res.Shapes[i-1].Area {
			t.Errorf("shapes not sorted by area at %d", i)
		}
	}
	if res.AnnotatedBase64 != "" || res.EdgesBase64 != "" {
		t.Error("images should be omitted unless requested")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestHandleToolsCall_ShapesDetectIncludeImages(t *testing.T) {
	s := New(nil, "")
	imgPath := createSampleFile(t)

	var res ShapesDetectResult
	decodeToolResult(t, callTool(t, s, "shapes_detect", map[string]interface{}{
		"path":           imgPath,
		"include_images": true,
	}), &res)

	if res.AnnotatedBase64 == "" || res.EdgesBase64 == "" {
		t.Error("expected both images")
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime type: got %q", res.MimeType)
	}
}

func TestHandleToolsCall_ShapesDetectBlank(t *testing.T) {
	s := New(nil, "")
	imgPath := createTestImageFile(t, 120, 90, color.White)

	var res ShapesDetectResult
	decodeToolResult(t, callTool(t, s, "shapes_detect", map[string]interface{}{"path": imgPath}), &res)

	if res.Count != 0 {
		t.Errorf("count: got %d, want 0", res.Count)
	}
	if res.Shapes == nil {
		t.Error("shapes should be an empty list, not null")
	}
	if res.Message != report.NoShapesHint {
		t.Errorf("message: got %q", res.Message)
	}
}

func TestHandleToolsCall_ShapesDetectWarnings(t *testing.T) {
	s := New(nil, "")
	imgPath := createSampleFile(t)

	var res ShapesDetectResult
	decodeToolResult(t, callTool(t, s, "shapes_detect", map[string]interface{}{
		"path":           imgPath,
		"threshold_low":  500,
		"threshold_high": 20,
		"min_area":       0,
	}), &res)

	// low out of range, high out of range, swapped, min_area out of range
	if len(res.Warnings) != 4 {
		t.Errorf("warnings: got %v, want 4 entries", res.Warnings)
	}
}

func TestDetectArgs_Options(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name string
		args detectArgs
		want detection.Options
	}{
		{"defaults", detectArgs{}, detection.DefaultOptions()},
		{
			"overrides",
			detectArgs{ThresholdLow: 30, ThresholdHigh: 90, MinArea: &zero, MinCircularity: 0.8},
			func() detection.Options {
				o := detection.DefaultOptions()
				o.LowThreshold, o.HighThreshold, o.MinArea, o.MinCircularity = 30, 90, 0, 0.8
				return o
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.args.options(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdvisories_DefaultsAreQuiet(t *testing.T) {
	if w := advisories(detection.DefaultOptions()); len(w) != 0 {
		t.Errorf("unexpected advisories: %v", w)
	}
}

func TestHandleToolsCall_ShapesExport(t *testing.T) {
	s := New(nil, "")
	imgPath := createSampleFile(t)
	outDir := t.TempDir()
	annotated := filepath.Join(outDir, "out", "annotated.png")
	edges := filepath.Join(outDir, "out", "edges.png")

	var res ShapesExportResult
	decodeToolResult(t, callTool(t, s, "shapes_export", map[string]interface{}{
		"path":              imgPath,
		"output_path":       annotated,
		"edges_output_path": edges,
	}), &res)

	if res.Count != 5 {
		t.Errorf("count: got %d, want 5", res.Count)
	}
	for _, p := range []string{annotated, edges} {
		img, err := imaging.Open(p)
		if err != nil {
			t.Fatalf("failed to open %s: %v", p, err)
		}
		if img.Bounds().Dx() != samples.Width {
			t.Errorf("%s: width %d", p, img.Bounds().Dx())
		}
	}
}

func TestHandleToolsCall_ShapesExportMissingOutput(t *testing.T) {
	s := New(nil, "")
	resp := callTool(t, s, "shapes_export", map[string]interface{}{"path": createSampleFile(t)})

	if resp.Error == nil || resp.Error.Code != CodeToolFailed {
		t.Fatalf("expected tool failure, got %+v", resp)
	}
}

func TestHandleToolsCall_ShapesBatch(t *testing.T) {
	s := New(nil, "")
	dir := t.TempDir()
	if _, err := samples.WriteAll(dir); err != nil {
		t.Fatalf("failed to write samples: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	var res ShapesBatchResult
	decodeToolResult(t, callTool(t, s, "shapes_batch", map[string]interface{}{"dir": dir}), &res)

	if len(res.Files) != 4 {
		t.Fatalf("files: got %d, want 4", len(res.Files))
	}
	if res.Failed != 1 {
		t.Errorf("failed: got %d, want 1", res.Failed)
	}
	if res.Files[0].Error == "" {
		t.Error("broken.jpg should report an error")
	}
	for _, f := range res.Files[1:] {
		if f.Error != "" {
			t.Errorf("%s: %s", f.Path, f.Error)
		}
		if _, err := os.Stat(f.AnnotatedPath); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
}

func TestHandleToolsCall_GenerateSamples(t *testing.T) {
	s := New(nil, "")
	dir := filepath.Join(t.TempDir(), "samples")

	var res struct {
		Files []string `json:"files"`
	}
	decodeToolResult(t, callTool(t, s, "shapes_generate_samples", map[string]interface{}{"output_dir": dir}), &res)

	if len(res.Files) != len(samples.All()) {
		t.Fatalf("files: got %v", res.Files)
	}
	for _, f := range res.Files {
		if !strings.HasPrefix(f, dir) {
			t.Errorf("%s is outside %s", f, dir)
		}
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := New(nil, "")

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantCode int
	}{
		{"unknown tool", "image_crop", map[string]interface{}{}, CodeToolFailed},
		{"missing file", "shapes_detect", map[string]interface{}{"path": "/nonexistent/x.png"}, CodeToolFailed},
		{"wrong argument type", "shapes_detect", map[string]interface{}{"path": 42}, CodeToolFailed},
		{"missing dir", "shapes_batch", map[string]interface{}{}, CodeToolFailed},
		{"missing samples dir", "shapes_generate_samples", map[string]interface{}{}, CodeToolFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error response")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code: got %d, want %d", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil, "")
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Fatalf("expected invalid params, got %+v", resp)
	}
}
