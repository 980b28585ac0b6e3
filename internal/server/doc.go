// Package server implements the MCP (Model Context Protocol) server for color
// histogram tools.
//
// This package provides a JSON-RPC 2.0 server that scans images for their
// distinct colors and draws the result as a radial chart with one
// equal-angle wedge per color.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - colors_scan: Start a background color scan
//   - colors_cancel: Stop the running scan
//   - colors_status: Scan state and last outcome
//   - colors_histogram: Current colors with counts
//   - colors_render: Equal-angle wedges, optionally as PNG
//
// # Concurrency
//
// One goroutine (the loop) handles every request and owns stdout. A scan
// runs on its own goroutine; its progress events and completion are posted
// to the loop's mailbox and written out in the order they were produced:
//
//	notifications/progress {progressToken, progress: 0..100, total: 100}
//	notifications/message  {level: "info", data: {message: "colors_scan finished", ...}}
//
// Exactly one progress notification with progress 100 ends each scan, also
// when it was cancelled. A scan and a render never run at the same time:
// colors_scan answers started=false while the wheel is busy, and
// colors_render answers skipped=true with the previous wedges.
//
// At EOF on stdin the server stays up until a running scan finishes and its
// notifications are written. Cancelling the Serve context stops the scan
// early; its terminal notifications are still written before Serve returns.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv, err := server.New(server.Options{Config: &cfg, Logger: log})
//	if err != nil {
//	    return err
//	}
//	return srv.Serve(ctx, os.Stdin, os.Stdout)
package server
