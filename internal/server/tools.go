package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectionProperties returns the schema shared by every tool that runs the
// detector.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"threshold_low": map[string]interface{}{
			"type":        "integer",
			"description": "Lower hysteresis threshold of the edge detector (default 50, useful range 10-300)",
			"default":     50,
		},
		"threshold_high": map[string]interface{}{
			"type":        "integer",
			"description": "Upper hysteresis threshold of the edge detector (default 150, useful range 50-400)",
			"default":     150,
		},
		"min_area": map[string]interface{}{
			"type":        "number",
			"description": "Ignore contours enclosing fewer square pixels (default 100, useful range 10-5000)",
			"default":     100,
		},
		"min_circularity": map[string]interface{}{
			"type":        "number",
			"description": "Optional. When set, outlines with six or more vertices need at least this circularity (4*pi*area/perimeter^2) to be reported as Circle; others are Unidentified",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	detectProps := detectionProperties()
	detectProps["include_images"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also return the annotated image and the edge map as base64 PNG (default false)",
		"default":     false,
	}

	exportProps := detectionProperties()
	exportProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Where to write the annotated PNG",
	}
	exportProps["edges_output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path for the edge map PNG",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pipeline stages
		{
			Name:        "image_edge_detect",
			Description: "Return the binary edge map used for shape detection (grayscale, 5x5 Gaussian blur, Canny with hysteresis). Use it to tune thresholds before detecting shapes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low threshold for Canny edge detection (default 50)",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High threshold for Canny edge detection (default 150)",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "shapes_detect",
			Description: "Detect and classify triangles, squares, rectangles, pentagons and circles. Returns area, perimeter and centroid per shape, sorted by area (largest first).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "shapes_export",
			Description: "Detect shapes and write the annotated image (outlines and labels) as PNG, optionally with the edge map.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": exportProps,
				"required":   []string{"path", "output_path"},
			},
		},

		// Offline helpers
		{
			Name:        "shapes_batch",
			Description: "Run shape detection over every PNG/JPEG in a directory, writing <name>_annotated.png and <name>_edges.png for each.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory containing the images",
					},
					"out_dir": map[string]interface{}{
						"type":        "string",
						"description": "Output directory (default <dir>/annotated)",
					},
					"threshold_low":  detectProps["threshold_low"],
					"threshold_high": detectProps["threshold_high"],
					"min_area":       detectProps["min_area"],
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "shapes_generate_samples",
			Description: "Write synthetic sample images (shapes_simple.png, shapes_many.png, shapes_overlap.png) into a directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write the samples into",
					},
				},
				"required": []string{"output_dir"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
