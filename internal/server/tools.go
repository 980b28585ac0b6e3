package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and pixel count. The decoded image is cached for later scans and renders.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Scan Operations
		{
			Name:        "colors_scan",
			Description: "Start counting every distinct exact color (including alpha) in an image. Returns immediately; progress is reported through notifications/progress when a progress token is given, and completion through notifications/message. If a scan or render is already running the request is ignored and started is false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional rectangle to scan instead of the whole image",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
							"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
							"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
							"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"progress_token": map[string]interface{}{
						"type":        []string{"string", "integer"},
						"description": "Optional token echoed in progress notifications. _meta.progressToken is honored as well.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "colors_cancel",
			Description: "Ask the running scan to stop at its next pixel. The colors counted so far become the current histogram.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "colors_status",
			Description: "Report whether a scan or render is running and the outcome of the most recent scan.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "colors_histogram",
			Description: "Return the current color histogram: each distinct color with its pixel count and share. Fails while a scan is running.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of colors to return. 0 returns all. Defaults to the configured histogram_limit",
					},
					"sort": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"first_seen", "count"},
						"description": "first_seen keeps the order colors were met during the scan; count puts the most frequent first",
						"default":     "first_seen",
					},
				},
			},
		},

		// Chart Operations
		{
			Name:        "colors_render",
			Description: "Lay out the current histogram as a radial chart with one equal-angle wedge per distinct color, drawn over the scanned image. Returns the wedges and, optionally, the chart as PNG. If a scan is running the render is skipped and the previously drawn wedges are returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Chart width and height in pixels. Defaults to the configured chart_size",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional background image. Defaults to the last scanned image",
					},
					"include_png": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the chart as an image content block",
						"default":     true,
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute path to also write the PNG to",
					},
					"progress_token": map[string]interface{}{
						"type":        []string{"string", "integer"},
						"description": "Optional token echoed in progress notifications",
					},
				},
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
