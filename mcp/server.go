package mcp

import (
	"github.com/ka2n/cloudapp/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients
var Version = "0.0.1"

// Server represents the MCP server for cloudapp
type Server struct {
	server *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(service *api.Service) *Server {
	s := server.NewMCPServer("cloudapp", Version)

	registerTools(s, service)

	return &Server{
		server: s,
	}
}

// Run starts the MCP server
func (s *Server) Run() error {
	return server.ServeStdio(s.server)
}

// registerTools registers all available tools with the MCP server
func registerTools(s *server.MCPServer, service *api.Service) {
	tools := InitTools(service)
	s.AddTools(tools...)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}
