// Package mcp implements the Model Context Protocol server for cloudapp.
//
// The server exposes drop operations as tools so MCP clients can list,
// inspect, bookmark and trash drops with the account the CLI is configured
// with.
package mcp
