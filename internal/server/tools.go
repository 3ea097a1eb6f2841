package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgs is the schema of tools that take no arguments.
func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// sizeProps returns width/height properties with the given defaults.
func sizeProps(defWidth, defHeight, minSize int) map[string]interface{} {
	return map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Output width in pixels",
			"default":     defWidth,
			"minimum":     minSize,
			"maximum":     maxImageSize,
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Output height in pixels",
			"default":     defHeight,
			"minimum":     minSize,
			"maximum":     maxImageSize,
		},
	}
}

func withStill(props map[string]interface{}) map[string]interface{} {
	props["still_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional absolute path to a still frame (PNG, JPEG, GIF, TIFF or BMP) drawn underneath",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	heatmapProps := withStill(sizeProps(defaultHeatmapWidth, defaultHeatmapHeight, 1))
	heatmapProps["opacity"] = map[string]interface{}{
		"type":        "number",
		"description": "Heat layer opacity over the still frame (0-1). Default 0.85",
		"default":     0.85,
		"minimum":     0,
		"maximum":     1,
	}

	sampleProps := sizeProps(defaultHeatmapWidth, defaultHeatmapHeight, 1)
	sampleProps["x"] = map[string]interface{}{
		"type":        "integer",
		"description": "X coordinate in the heatmap (0-based)",
	}
	sampleProps["y"] = map[string]interface{}{
		"type":        "integer",
		"description": "Y coordinate in the heatmap (0-based)",
	}

	return []Tool{
		// Video
		{
			Name:        "video_load",
			Description: "Register a video file for analysis. The file is checked by extension and size but never decoded. Clears any previous results.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the video file (mp4, m4v, mov, webm, mkv, avi)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "still_info",
			Description: "Load a still frame and return its dimensions and format. Stills are used as backdrops by heatmap_render and detections_render.",
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

		// Playback
		{
			Name:        "analysis_start",
			Description: "Start or resume analysis. Frames advance in the background at the configured frame rate until the last frame.",
			InputSchema: noArgs(),
		},
		{
			Name:        "analysis_pause",
			Description: "Pause analysis, keeping the current frame.",
			InputSchema: noArgs(),
		},
		{
			Name:        "analysis_stop",
			Description: "Stop analysis and rewind to the first frame. The heatmap history and count timeline are kept.",
			InputSchema: noArgs(),
		},
		{
			Name:        "analysis_reset",
			Description: "Drop the video and every result.",
			InputSchema: noArgs(),
		},
		{
			Name:        "analysis_step",
			Description: "Analyze the next frames synchronously and return the updated statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"frames": map[string]interface{}{
						"type":        "integer",
						"description": "Number of frames to analyze. Default 1",
						"default":     1,
						"minimum":     1,
						"maximum":     maxStepFrames,
					},
				},
			},
		},
		{
			Name:        "analysis_stats",
			Description: "Current and peak people count, mean count, frame progress and density level.",
			InputSchema: noArgs(),
		},

		// Renders
		{
			Name:        "heatmap_render",
			Description: "Render the density heatmap of the last analyzed frames as base64-encoded PNG, optionally over a still frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": heatmapProps,
			},
		},
		{
			Name:        "heatmap_sample",
			Description: "Return the accumulated heat, normalized value and rendered color at one heatmap pixel.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sampleProps,
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "detections_render",
			Description: "Render the current frame's detection boxes as base64-encoded PNG, optionally over a still frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withStill(sizeProps(defaultHeatmapWidth, defaultHeatmapHeight, 1)),
			},
		},
		{
			Name:        "count_chart",
			Description: "Render the per-frame people count as a base64-encoded PNG line chart.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sizeProps(defaultChartWidth, defaultChartHeight, minChartSize),
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
