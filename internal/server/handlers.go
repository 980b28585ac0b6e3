package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/samber/lo"

	"github.com/ironsheep/color-wheel-mcp/internal/chart"
	"github.com/ironsheep/color-wheel-mcp/internal/imaging"
	"github.com/ironsheep/color-wheel-mcp/internal/progress"
	"github.com/ironsheep/color-wheel-mcp/internal/scan"
	"github.com/ironsheep/color-wheel-mcp/internal/wheel"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "colors_scan", "colors_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries request metadata such as the client's progress token.
	Meta *RequestMeta `json:"_meta,omitempty"`
}

// RequestMeta is the _meta object of a request.
type RequestMeta struct {
	ProgressToken interface{} `json:"progressToken,omitempty"`
}

// imageResult is implemented by tool results that carry a picture. The
// picture is returned as an MCP image content block next to the JSON text.
type imageResult interface {
	picture() (data []byte, mimeType string)
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	var token interface{}
	if params.Meta != nil {
		token = params.Meta.ProgressToken
	}

	result, err := s.executeTool(params.Name, params.Arguments, token)
	if err != nil {
		s.log.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if img, ok := result.(imageResult); ok {
		if data, mime := img.picture(); len(data) > 0 {
			content = append(content, map[string]interface{}{
				"type":     "image",
				"data":     base64.StdEncoding.EncodeToString(data),
				"mimeType": mime,
			})
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// token is the progress token from the request's _meta, if any.
func (s *Server) executeTool(name string, args json.RawMessage, token interface{}) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	case "colors_scan":
		return s.handleColorsScan(args, token)
	case "colors_cancel":
		return s.handleColorsCancel()
	case "colors_status":
		return s.handleColorsStatus()
	case "colors_histogram":
		return s.handleColorsHistogram(args)

	case "colors_render":
		return s.handleColorsRender(args, token)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// progressParams is the payload of notifications/progress.
type progressParams struct {
	ProgressToken interface{} `json:"progressToken"`
	Progress      int         `json:"progress"`
	Total         int         `json:"total"`
	Message       string      `json:"message,omitempty"`
}

func (s *Server) notifyProgress(token interface{}, op string, e progress.Event) {
	if token == nil {
		return
	}
	s.notify("notifications/progress", progressParams{
		ProgressToken: token,
		Progress:      e.Percent,
		Total:         100,
		Message:       fmt.Sprintf("%s %d%% after %s", op, e.Percent, e.Elapsed.Round(time.Millisecond)),
	})
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Scan Handlers ===

// scanRun is the scan currently in flight. It is created and cleared on the
// loop goroutine.
type scanRun struct {
	path          string
	token         *scan.Token
	progressToken interface{}
}

// regionArgs is a pixel rectangle: (x1,y1) inclusive, (x2,y2) exclusive.
type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type colorsScanArgs struct {
	Path          string      `json:"path"`
	Region        *regionArgs `json:"region"`
	ProgressToken interface{} `json:"progress_token"`
}

type colorsScanResult struct {
	Started bool   `json:"started"`
	Path    string `json:"path"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Reason  string `json:"reason,omitempty"`
}

func (s *Server) handleColorsScan(args json.RawMessage, metaToken interface{}) (interface{}, error) {
	var a colorsScanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	buf, err := s.cache.LoadBuffer(a.Path)
	if err != nil {
		return nil, err
	}
	if r := a.Region; r != nil {
		buf, err = buf.Sub(image.Rect(r.X1, r.Y1, r.X2, r.Y2))
		if err != nil {
			return nil, err
		}
	}

	run := &scanRun{path: a.Path, token: &scan.Token{}, progressToken: a.ProgressToken}
	if run.progressToken == nil {
		run.progressToken = metaToken
	}

	// Both callbacks run on the scan goroutine; they only hand over to the loop.
	sink := func(e progress.Event) {
		s.mail.post(func() { s.scanProgress(run, e) })
	}
	done := func(res wheel.Result) {
		s.mail.post(func() { s.scanFinished(run, res) })
	}

	started, err := s.wheel.Start(buf, run.token.Requested, sink, done)
	if err != nil {
		return nil, err
	}

	result := &colorsScanResult{Started: started, Path: a.Path, Width: buf.Width, Height: buf.Height}
	if !started {
		result.Reason = "busy"
		return result, nil
	}
	s.scan = run
	s.log.Info("scan started", "path", a.Path, "width", buf.Width, "height", buf.Height)
	return result, nil
}

func (s *Server) scanProgress(run *scanRun, e progress.Event) {
	s.notifyProgress(run.progressToken, "scan", e)
	if e.Final() && e.Colors != nil {
		s.log.Debug("scan reported final histogram", "path", run.path, "distinct", e.Colors.Len())
	}
}

// scanMessage is the data of the notifications/message sent when a scan ends.
type scanMessage struct {
	Message   string `json:"message"`
	Path      string `json:"path"`
	Completed bool   `json:"completed"`
	Pixels    int    `json:"pixels"`
	Distinct  int    `json:"distinct"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func (s *Server) scanFinished(run *scanRun, res wheel.Result) {
	if s.scan == run {
		s.scan = nil
	}
	s.lastPath = run.path

	s.notify("notifications/message", map[string]interface{}{
		"level":  "info",
		"logger": "color-wheel",
		"data": scanMessage{
			Message:   "colors_scan finished",
			Path:      run.path,
			Completed: res.Completed,
			Pixels:    res.Pixels,
			Distinct:  res.Distinct,
			ElapsedMS: res.Elapsed.Milliseconds(),
		},
	})
}

type colorsCancelResult struct {
	CancelRequested bool   `json:"cancel_requested"`
	Path            string `json:"path,omitempty"`
}

func (s *Server) handleColorsCancel() (interface{}, error) {
	if !s.cancelScan("colors_cancel") {
		return &colorsCancelResult{}, nil
	}
	return &colorsCancelResult{CancelRequested: true, Path: s.scan.path}, nil
}

type colorsStatusResult struct {
	Busy      bool   `json:"busy"`
	Scanning  string `json:"scanning,omitempty"`
	Scanned   bool   `json:"scanned"`
	Path      string `json:"path,omitempty"`
	Completed bool   `json:"completed"`
	Pixels    int    `json:"pixels"`
	Distinct  int    `json:"distinct"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func (s *Server) handleColorsStatus() (interface{}, error) {
	res, ok := s.wheel.LastResult()
	status := &colorsStatusResult{
		Busy:      s.wheel.Busy(),
		Scanned:   ok,
		Path:      s.lastPath,
		Completed: res.Completed,
		Pixels:    res.Pixels,
		Distinct:  res.Distinct,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if s.scan != nil {
		status.Scanning = s.scan.path
	}
	return status, nil
}

type colorsHistogramArgs struct {
	Limit *int   `json:"limit"`
	Sort  string `json:"sort"`
}

func (s *Server) handleColorsHistogram(args json.RawMessage) (interface{}, error) {
	var a colorsHistogramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	limit := s.cfg.HistogramLimit
	if a.Limit != nil {
		limit = *a.Limit
	}

	h, err := s.wheel.Histogram()
	if err != nil {
		return nil, err
	}
	return imaging.Report(h, limit, a.Sort)
}

// === Chart Handlers ===

type colorsRenderArgs struct {
	Size          int         `json:"size"`
	Path          string      `json:"path"`
	IncludePNG    *bool       `json:"include_png"`
	Output        string      `json:"output"`
	ProgressToken interface{} `json:"progress_token"`
}

// wedgeInfo is a wedge in report form.
type wedgeInfo struct {
	Start float64 `json:"start"` // Degrees clockwise from 3 o'clock
	Span  float64 `json:"span"`  // Degrees
	Color string  `json:"color"` // #RRGGBB, or #AARRGGBB when not opaque
}

type colorsRenderResult struct {
	Skipped    bool        `json:"skipped"`
	Size       int         `json:"size"`
	Wedges     []wedgeInfo `json:"wedges"`
	Background string      `json:"background,omitempty"`
	Output     string      `json:"output,omitempty"`

	png []byte
}

func (r *colorsRenderResult) picture() ([]byte, string) {
	return r.png, "image/png"
}

func (s *Server) handleColorsRender(args json.RawMessage, metaToken interface{}) (interface{}, error) {
	var a colorsRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = s.cfg.ChartSize
	}
	if a.Size < 16 || a.Size > 8192 || s.style.BorderWidth*2 >= float64(a.Size) {
		return nil, fmt.Errorf("invalid chart size %d", a.Size)
	}
	includePNG := a.IncludePNG == nil || *a.IncludePNG
	token := a.ProgressToken
	if token == nil {
		token = metaToken
	}

	target := chart.Viewport(a.Size, s.style)
	// Rendering runs on the loop goroutine, so progress is written directly.
	wedges, ran := s.wheel.Render(target, func(e progress.Event) {
		s.notifyProgress(token, "render", e)
	})

	result := &colorsRenderResult{
		Skipped: !ran,
		Size:    a.Size,
		Wedges: lo.Map(wedges, func(w chart.Wedge, _ int) wedgeInfo {
			return wedgeInfo{Start: w.Start, Span: w.Span, Color: w.Color.Hex()}
		}),
	}

	if !includePNG && a.Output == "" {
		return result, nil
	}

	display, bg, err := s.background(a.Path, target)
	if err != nil {
		return nil, err
	}
	result.Background = bg

	var b bytes.Buffer
	if err := chart.EncodePNG(&b, display, wedges, a.Size, s.style); err != nil {
		return nil, err
	}
	if a.Output != "" {
		if err := os.WriteFile(a.Output, b.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write chart: %w", err)
		}
		result.Output = a.Output
	}
	if includePNG {
		result.png = b.Bytes()
	}
	return result, nil
}

// background loads the image drawn behind the wedges: path if given,
// otherwise the last scanned image. A missing last image is not an error.
func (s *Server) background(path string, target image.Rectangle) (image.Image, string, error) {
	explicit := path != ""
	if !explicit {
		path = s.lastPath
	}
	if path == "" {
		return nil, "", nil
	}

	img, err := s.cache.Load(path)
	if err != nil {
		if explicit {
			return nil, "", err
		}
		s.log.Warn("background image unavailable", "path", path, "error", err)
		return nil, "", nil
	}
	display, err := imaging.Display(img, target.Dx(), target.Dy())
	if err != nil {
		return nil, "", err
	}
	return display, path, nil
}
