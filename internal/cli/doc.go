// Package cli implements the shape-analyzer-mcp command line.
//
//	shape-analyzer-mcp                  serve MCP over stdio (same as "serve")
//	shape-analyzer-mcp detect <image>   print shape metrics as table, csv or json
//	shape-analyzer-mcp batch <dir>      annotate every image in a directory
//	shape-analyzer-mcp samples [dir]    write the synthetic sample images
//
// The --log-level flag, or SHAPE_MCP_LOG_LEVEL when the flag is absent,
// controls the zap logger that writes to stderr.
package cli
