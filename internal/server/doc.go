// Package server implements the MCP (Model Context Protocol) server for crowd
// density analysis.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Video:
//   - video_load: Register a video by path
//   - still_info: Inspect a still frame used as a render backdrop
//
// Playback:
//   - analysis_start, analysis_pause, analysis_stop, analysis_reset
//   - analysis_step: Advance frames synchronously
//   - analysis_stats: Counts, progress and density level
//
// Renders:
//   - heatmap_render: Density heatmap PNG
//   - heatmap_sample: Heat and color at one pixel
//   - detections_render: Current detection boxes PNG
//   - count_chart: Count per frame line chart PNG
//
// # Error Handling
//
// Errors are JSON-RPC error responses:
//   - -32700: the line is not JSON
//   - -32601: unknown method
//   - -32602: undecodable params or arguments, or an unknown tool
//   - -32000: argument validation failures and tool execution failures
//
// # Usage
//
//	srv := server.New(server.Options{Config: cfg, Logger: logger})
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal(err)
//	}
package server
