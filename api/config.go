// Package api provides the HTTP API server for reference data, the layout
// checker, the budget allocator, metrics and the MCP endpoint.
package api

import "github.com/gruhabuddy/gruha/api/mcp"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Dispatcher answers the MCP design tools. When nil the MCP endpoint
	// serves an empty tool list.
	Dispatcher mcp.Dispatcher
}
