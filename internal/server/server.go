package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/color-wheel-mcp/internal/chart"
	"github.com/ironsheep/color-wheel-mcp/internal/config"
	"github.com/ironsheep/color-wheel-mcp/internal/imaging"
	"github.com/ironsheep/color-wheel-mcp/internal/wheel"
)

// Server handles MCP protocol communication.
//
// All request handling and all writes to the output happen on the goroutine
// running Serve. Scans run in the background and post their progress back
// to that goroutine through a mailbox.
type Server struct {
	cache   *imaging.ImageCache
	wheel   *wheel.Wheel
	cfg     config.Config
	style   chart.Style
	log     *slog.Logger
	version string

	mail *mailbox
	enc  *json.Encoder

	// Owned by the loop goroutine.
	scan     *scanRun
	lastPath string
}

// Options configures a Server. The zero value uses config.Defaults and
// discards log output.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a new MCP server instance.
func New(opts Options) (*Server, error) {
	cfg := config.Defaults()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	style, err := cfg.Style()
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	version := opts.Version
	if version == "" {
		version = "0.1.0"
	}

	return &Server{
		cache:   imaging.NewImageCache(),
		wheel:   wheel.New(log.With("component", "wheel")),
		cfg:     cfg,
		style:   style,
		log:     log,
		version: version,
		mail:    newMailbox(),
		enc:     json.NewEncoder(io.Discard),
	}, nil
}

// Serve reads newline-delimited requests from in and writes responses and
// notifications to out.
//
// At EOF on in, Serve keeps running until a scan in flight has finished and
// its notifications are written. When ctx is done the scan is cancelled
// instead, and Serve returns once its terminal progress event is out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.enc = json.NewEncoder(out)
	defer s.mail.close()

	readDone := make(chan error, 1)
	go func() {
		readDone <- s.read(in)
	}()

	var readErr error
	reading := true
	stop := ctx.Done()
	for reading || s.scan != nil {
		select {
		case <-stop:
			stop = nil
			reading = false
			s.cancelScan("shutdown")
		case <-s.mail.ready:
			s.runPending()
		case readErr = <-readDone:
			readDone = nil
			reading = false
			// Requests read before EOF are still answered.
			s.runPending()
		}
	}
	s.runPending()
	return readErr
}

func (s *Server) runPending() {
	for _, fn := range s.mail.drain() {
		fn()
	}
}

// cancelScan asks the scan in flight, if any, to stop.
func (s *Server) cancelScan(reason string) bool {
	if s.scan == nil {
		return false
	}
	s.log.Info("scan cancel requested", "path", s.scan.path, "reason", reason)
	s.scan.token.Cancel()
	return true
}

// read runs on its own goroutine and posts each request to the loop.
func (s *Server) read(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "error", err)
			continue
		}

		s.mail.post(func() { s.dispatch(&req) })
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func (s *Server) dispatch(req *MCPRequest) {
	s.log.Debug("request", "method", req.Method, "id", req.ID)
	if resp := s.handleRequest(req); resp != nil {
		s.write(resp)
	}
}

func (s *Server) write(v interface{}) {
	if err := s.enc.Encode(v); err != nil {
		s.log.Error("failed to encode message", "error", err)
	}
}

func (s *Server) notify(method string, params interface{}) {
	s.write(&MCPNotification{JSONRPC: "2.0", Method: method, Params: params})
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized", "notifications/cancelled":
		// Client notifications, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"logging": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "color-wheel-mcp",
				"version": s.version,
			},
		},
	}
}

