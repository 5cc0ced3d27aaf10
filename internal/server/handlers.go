package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/shape-analyzer-mcp/internal/batch"
	"github.com/ironsheep/shape-analyzer-mcp/internal/detection"
	"github.com/ironsheep/shape-analyzer-mcp/internal/imaging"
	"github.com/ironsheep/shape-analyzer-mcp/internal/report"
	"github.com/ironsheep/shape-analyzer-mcp/internal/samples"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "shapes_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warnw("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Pipeline stages
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "shapes_detect":
		return s.handleShapesDetect(args)
	case "shapes_export":
		return s.handleShapesExport(args)

	// Offline helpers
	case "shapes_batch":
		return s.handleShapesBatch(args)
	case "shapes_generate_samples":
		return s.handleGenerateSamples(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pipeline Handlers ===

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = detection.DefaultLowThreshold
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = detection.DefaultHighThreshold
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}

// detectArgs carries the tuning parameters shared by the detection tools.
// MinArea is a pointer so that an explicit 0 keeps every contour.
type detectArgs struct {
	Path           string   `json:"path"`
	ThresholdLow   int      `json:"threshold_low"`
	ThresholdHigh  int      `json:"threshold_high"`
	MinArea        *float64 `json:"min_area"`
	MinCircularity float64  `json:"min_circularity"`
}

func (a detectArgs) options() detection.Options {
	opts := detection.DefaultOptions()
	if a.ThresholdLow != 0 {
		opts.LowThreshold = a.ThresholdLow
	}
	if a.ThresholdHigh != 0 {
		opts.HighThreshold = a.ThresholdHigh
	}
	if a.MinArea != nil {
		opts.MinArea = *a.MinArea
	}
	opts.MinCircularity = a.MinCircularity
	return opts
}

// Useful parameter ranges. Values outside them are accepted but rarely give
// good results.
const (
	lowThresholdMin  = 10
	lowThresholdMax  = 300
	highThresholdMin = 50
	highThresholdMax = 400
	minAreaMin       = 10
	minAreaMax       = 5000
)

// advisories lists the parameters of opts that fall outside their useful
// range.
func advisories(opts detection.Options) []string {
	var warnings []string
	if opts.LowThreshold < lowThresholdMin || opts.LowThreshold > lowThresholdMax {
		warnings = append(warnings, fmt.Sprintf("threshold_low %d is outside the useful range %d-%d",
			opts.LowThreshold, lowThresholdMin, lowThresholdMax))
	}
	if opts.HighThreshold < highThresholdMin || opts.HighThreshold > highThresholdMax {
		warnings = append(warnings, fmt.Sprintf("threshold_high %d is outside the useful range %d-%d",
			opts.HighThreshold, highThresholdMin, highThresholdMax))
	}
	if opts.LowThreshold > opts.HighThreshold {
		warnings = append(warnings, "threshold_low is above threshold_high; the values are swapped")
	}
	if opts.MinArea < minAreaMin || opts.MinArea > minAreaMax {
		warnings = append(warnings, fmt.Sprintf("min_area %.0f is outside the useful range %d-%d",
			opts.MinArea, minAreaMin, minAreaMax))
	}
	return warnings
}

// detect loads the image named by a and runs the detector on it.
func (s *Server) detect(a detectArgs) (*detection.Result, []string, error) {
	opts := a.options()
	warnings := advisories(opts)
	for _, w := range warnings {
		s.logger.Warnw("unusual detection parameter", "path", a.Path, "advice", w)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	res, err := detection.Detect(img, opts)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Infow("shapes detected", "path", a.Path, "count", len(res.Detections))
	return res, warnings, nil
}

// ShapesDetectResult is returned by the shapes_detect tool.
type ShapesDetectResult struct {
	Count    int                       `json:"count"`
	Shapes   []detection.DetectedShape `json:"shapes"`
	Message  string                    `json:"message,omitempty"`
	Warnings []string                  `json:"warnings,omitempty"`

	// Base64-encoded PNGs, present when include_images is set.
	AnnotatedBase64 string `json:"annotated_base64,omitempty"`
	EdgesBase64     string `json:"edges_base64,omitempty"`
	MimeType        string `json:"mime_type,omitempty"`
}

type shapesDetectArgs struct {
	detectArgs
	IncludeImages bool `json:"include_images"`
}

func (s *Server) handleShapesDetect(args json.RawMessage) (interface{}, error) {
	var a shapesDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, warnings, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}

	summary := report.NewSummary(a.Path, res.Shapes())
	out := &ShapesDetectResult{
		Count:    summary.Count,
		Shapes:   summary.Shapes,
		Warnings: warnings,
	}
	if out.Count == 0 {
		out.Message = report.NoShapesHint
	}

	if a.IncludeImages {
		if out.AnnotatedBase64, err = imaging.EncodePNGBase64(res.Annotated); err != nil {
			return nil, err
		}
		if out.EdgesBase64, err = imaging.EncodePNGBase64(res.Edges); err != nil {
			return nil, err
		}
		out.MimeType = "image/png"
	}
	return out, nil
}

// ShapesExportResult is returned by the shapes_export tool.
type ShapesExportResult struct {
	Count         int      `json:"count"`
	AnnotatedPath string   `json:"annotated_path"`
	EdgesPath     string   `json:"edges_path,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

type shapesExportArgs struct {
	detectArgs
	OutputPath      string `json:"output_path"`
	EdgesOutputPath string `json:"edges_output_path"`
}

func (s *Server) handleShapesExport(args json.RawMessage) (interface{}, error) {
	var a shapesExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	res, warnings, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}

	if err := imaging.Save(res.Annotated, a.OutputPath); err != nil {
		return nil, err
	}
	if a.EdgesOutputPath != "" {
		if err := imaging.Save(res.Edges, a.EdgesOutputPath); err != nil {
			return nil, err
		}
	}

	return &ShapesExportResult{
		Count:         len(res.Detections),
		AnnotatedPath: a.OutputPath,
		EdgesPath:     a.EdgesOutputPath,
		Warnings:      warnings,
	}, nil
}

// === Offline Helper Handlers ===

// BatchFileResult summarizes one file of a shapes_batch run.
type BatchFileResult struct {
	Path          string `json:"path"`
	Count         int    `json:"count"`
	AnnotatedPath string `json:"annotated_path,omitempty"`
	EdgesPath     string `json:"edges_path,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ShapesBatchResult is returned by the shapes_batch tool.
type ShapesBatchResult struct {
	Files  []BatchFileResult `json:"files"`
	Failed int               `json:"failed"`
}

type shapesBatchArgs struct {
	Dir           string   `json:"dir"`
	OutDir        string   `json:"out_dir"`
	ThresholdLow  int      `json:"threshold_low"`
	ThresholdHigh int      `json:"threshold_high"`
	MinArea       *float64 `json:"min_area"`
}

func (s *Server) handleShapesBatch(args json.RawMessage) (interface{}, error) {
	var a shapesBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	opts := detectArgs{
		ThresholdLow:  a.ThresholdLow,
		ThresholdHigh: a.ThresholdHigh,
		MinArea:       a.MinArea,
	}.options()

	runner := batch.NewRunner(batch.Config{Options: opts, OutDir: a.OutDir}, s.logger)
	reports, err := runner.Run(context.Background(), a.Dir)
	if reports == nil && err != nil {
		return nil, err
	}

	out := &ShapesBatchResult{Files: make([]BatchFileResult, len(reports))}
	for i, rep := range reports {
		out.Files[i] = BatchFileResult{
			Path:          rep.Path,
			Count:         len(rep.Shapes),
			AnnotatedPath: rep.AnnotatedPath,
			EdgesPath:     rep.EdgesPath,
		}
		if rep.Err != nil {
			out.Files[i].Error = rep.Err.Error()
			out.Failed++
		}
	}
	return out, nil
}

type generateSamplesArgs struct {
	OutputDir string `json:"output_dir"`
}

func (s *Server) handleGenerateSamples(args json.RawMessage) (interface{}, error) {
	var a generateSamplesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}
	paths, err := samples.WriteAll(a.OutputDir)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"files": paths}, nil
}
