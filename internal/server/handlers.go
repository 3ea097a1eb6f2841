package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/crowd-density-mcp/internal/detection"
	"github.com/ironsheep/crowd-density-mcp/internal/heatmap"
	"github.com/ironsheep/crowd-density-mcp/internal/logging"
	"github.com/ironsheep/crowd-density-mcp/internal/session"
)

// Argument limits and defaults.
const (
	maxImageSize         = 4096
	maxStepFrames        = 300
	defaultHeatmapWidth  = 640
	defaultHeatmapHeight = 360
	defaultChartWidth    = 800
	defaultChartHeight   = 300
	minChartSize         = 100
)

// errUnknownTool is returned by executeTool for names it does not serve.
var errUnknownTool = errors.New("unknown tool")

// paramsError marks arguments that could not be decoded.
type paramsError struct{ err error }

func (e *paramsError) Error() string { return e.err.Error() }
func (e *paramsError) Unwrap() error { return e.err }

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "video_load", "heatmap_render").
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
// Undecodable arguments and unknown tools return -32602. Validation and
// execution errors return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log := logging.FromContext(ctx, s.log).WithField("tool", params.Name)
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var pe *paramsError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &pe), errors.Is(err, errUnknownTool):
			log.WithError(err).Warn("invalid tool call")
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		case errors.As(err, &ve):
			log.WithError(err).Warn("invalid tool arguments")
			return s.errorResponse(req.ID, codeToolFailed, "Invalid arguments", validationMessage(ve))
		default:
			log.WithError(err).Warn("tool failed")
			return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
		}
	}
	log.Debug("tool completed")

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Video
	case "video_load":
		return s.handleVideoLoad(args)
	case "still_info":
		return s.handleStillInfo(args)

	// Playback
	case "analysis_start":
		return s.handleAnalysisStart(ctx)
	case "analysis_pause":
		return s.sessionStats(s.session.Pause())
	case "analysis_stop":
		return s.sessionStats(s.session.Stop())
	case "analysis_reset":
		s.session.Reset()
		return s.session.Stats(), nil
	case "analysis_step":
		return s.handleAnalysisStep(args)
	case "analysis_stats":
		return s.session.Stats(), nil

	// Renders
	case "heatmap_render":
		return s.handleHeatmapRender(ctx, args)
	case "heatmap_sample":
		return s.handleHeatmapSample(args)
	case "detections_render":
		return s.handleDetectionsRender(ctx, args)
	case "count_chart":
		return s.handleCountChart(args)

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// decodeArgs unmarshals args into dst and validates it. Empty arguments
// leave dst at its zero value.
func (s *Server) decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(bytes.TrimSpace(args)) > 0 && !bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		if err := json.Unmarshal(args, dst); err != nil {
			return &paramsError{err: err}
		}
	}
	return s.validate.Struct(dst)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders validation failures one per field.
func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func (s *Server) sessionStats(err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return s.session.Stats(), nil
}

// === Video Handlers ===

type pathArgs struct {
	Path string `json:"path" validate:"required"`
}

type videoLoadResult struct {
	Video *session.Video `json:"video"`
	Stats session.Stats  `json:"stats"`
}

func (s *Server) handleVideoLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.session.LoadVideo(a.Path)
	if err != nil {
		return nil, err
	}
	return &videoLoadResult{Video: v, Stats: s.session.Stats()}, nil
}

func (s *Server) handleStillInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.stills.LoadInfo(a.Path)
}

// === Playback Handlers ===

func (s *Server) handleAnalysisStart(ctx context.Context) (interface{}, error) {
	// The loop outlives this request, so it hangs off the connection context.
	if err := s.session.Start(s.baseCtx); err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.log).Info("analysis loop started")
	return s.session.Stats(), nil
}

type analysisStepArgs struct {
	Frames int `json:"frames" validate:"omitempty,min=1,max=300"`
}

type analysisStepResult struct {
	Processed int           `json:"processed"`
	Stats     session.Stats `json:"stats"`
}

func (s *Server) handleAnalysisStep(args json.RawMessage) (interface{}, error) {
	var a analysisStepArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Frames == 0 {
		a.Frames = 1
	}
	n, err := s.session.Step(a.Frames)
	if err != nil {
		return nil, err
	}
	return &analysisStepResult{Processed: n, Stats: s.session.Stats()}, nil
}

// === Render Handlers ===

type renderArgs struct {
	Width     int      `json:"width" validate:"omitempty,min=1,max=4096"`
	Height    int      `json:"height" validate:"omitempty,min=1,max=4096"`
	StillPath string   `json:"still_path"`
	Opacity   *float64 `json:"opacity" validate:"omitempty,min=0,max=1"`
}

func (s *Server) sizeOrDefault(width, height int) (int, int) {
	if width == 0 {
		width = s.cfg.HeatmapWidth
	}
	if height == 0 {
		height = s.cfg.HeatmapHeight
	}
	return width, height
}

type renderResult struct {
	*heatmap.ImageResult
	HistoryFrames int    `json:"history_frames"`
	Frame         int    `json:"frame"`
	StillPath     string `json:"still_path,omitempty"`
}

func (s *Server) loadStill(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	return s.stills.Load(path)
}

func (s *Server) encode(ctx context.Context, tool string, img image.Image) (*heatmap.ImageResult, error) {
	res, err := heatmap.EncodePNG(img)
	if err != nil {
		traceID := logging.ErrorWithTraceID(logging.FromContext(ctx, s.log), logging.Fields{
			"tool":  tool,
			"error": err.Error(),
		}, "failed to encode render")
		return nil, fmt.Errorf("failed to encode image (trace %s): %w", traceID, err)
	}
	return res, nil
}

func (s *Server) handleHeatmapRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h := s.sizeOrDefault(a.Width, a.Height)
	still, err := s.loadStill(a.StillPath)
	if err != nil {
		return nil, err
	}

	snap := s.session.Snapshot()
	var img image.Image
	if still != nil {
		opacity := heatmap.DefaultOpacity
		if a.Opacity != nil {
			opacity = *a.Opacity
		}
		img = s.renderer.RenderOver(still, snap.History, w, h, opacity)
	} else {
		img = s.renderer.Render(snap.History, w, h)
	}

	res, err := s.encode(ctx, "heatmap_render", img)
	if err != nil {
		return nil, err
	}
	return &renderResult{
		ImageResult:   res,
		HistoryFrames: len(snap.History),
		Frame:         snap.Stats.Frame,
		StillPath:     a.StillPath,
	}, nil
}

type heatmapSampleArgs struct {
	X      int `json:"x" validate:"min=0"`
	Y      int `json:"y" validate:"min=0"`
	Width  int `json:"width" validate:"omitempty,min=1,max=4096"`
	Height int `json:"height" validate:"omitempty,min=1,max=4096"`
}

func (s *Server) handleHeatmapSample(args json.RawMessage) (interface{}, error) {
	var a heatmapSampleArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h := s.sizeOrDefault(a.Width, a.Height)
	return heatmap.Sample(s.session.Snapshot().History, w, h, a.X, a.Y)
}

type detectionsRenderResult struct {
	*heatmap.ImageResult
	Count     int             `json:"count"`
	Boxes     []detection.Box `json:"boxes"`
	StillPath string          `json:"still_path,omitempty"`
}

func (s *Server) handleDetectionsRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h := s.sizeOrDefault(a.Width, a.Height)
	still, err := s.loadStill(a.StillPath)
	if err != nil {
		return nil, err
	}

	snap := s.session.Snapshot()
	res, err := s.encode(ctx, "detections_render", detection.RenderBoxes(snap.Boxes, w, h, still))
	if err != nil {
		return nil, err
	}
	boxes := snap.Boxes
	if boxes == nil {
		boxes = []detection.Box{}
	}
	return &detectionsRenderResult{
		ImageResult: res,
		Count:       len(boxes),
		Boxes:       boxes,
		StillPath:   a.StillPath,
	}, nil
}

type countChartArgs struct {
	Width  int `json:"width" validate:"omitempty,min=100,max=4096"`
	Height int `json:"height" validate:"omitempty,min=100,max=4096"`
}

func (s *Server) handleCountChart(args json.RawMessage) (interface{}, error) {
	var a countChartArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = defaultChartWidth
	}
	if a.Height == 0 {
		a.Height = defaultChartHeight
	}

	data, err := s.session.CountChart(a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return &heatmap.ImageResult{
		Width:       a.Width,
		Height:      a.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
