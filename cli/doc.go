// Package cli implements the cloudapp command-line interface.
//
// The cli package provides:
// - Configuration from flags, the environment, .env files and the stored login
// - Commands to list, create, change and delete drops
// - Terminal output of drops
// - The MCP server command
package cli
