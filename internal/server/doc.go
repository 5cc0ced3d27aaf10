// Package server implements the MCP (Model Context Protocol) server for shape
// analysis.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: stderr, through the zap logger passed to New
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Pipeline Stages:
//   - image_edge_detect: Binary edge map used by the detector
//   - shapes_detect: Classified shapes with area, perimeter and centroid
//   - shapes_export: Write the annotated image (and optionally the edge map)
//
// Offline Helpers:
//   - shapes_batch: Detect shapes in every image of a directory
//   - shapes_generate_samples: Write the synthetic sample images
//
// # Errors
//
// Malformed request lines yield -32700 with a null id, unknown methods -32601,
// undecodable tools/call params -32602 and any tool failure -32000 with the
// underlying error text in the data field.
//
// # Caching
//
// Decoded images are cached by path for the lifetime of the server, so
// repeated tool calls on the same file skip decoding.
package server
