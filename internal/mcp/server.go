// Package mcp exposes the daemon's decoration controls as MCP tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/chromesync/internal/ipc"
)

const (
	ServerName    = "chromesync"
	ServerVersion = "0.1.0"
)

// Client is the part of the IPC client the tools use.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	SetFlag(flag string, enabled bool) (*ipc.StatusData, error)
	Center() (*ipc.StatusData, error)
	Recreate() (*ipc.StatusData, error)
}

var _ Client = (*ipc.Client)(nil)

// Server is the MCP server for chromesync.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Client
}

// NewServer creates a new MCP server that forwards tool calls to the daemon.
func NewServer(client Client) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_decoration",
		Description: "Report the managed window's decoration flags, what its custom chrome shows (title bar, background, maximize glyph, center button) and its window state.",
	}, s.handleGetDecoration)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_decoration",
		Description: "Set one decoration flag of the managed window. Native failures are reported as warnings; the flag itself is always updated.",
	}, s.handleSetDecoration)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "center_window",
		Description: "Center the managed window on the usable area of its monitor. Fails while the window is maximized or full screen.",
	}, s.handleCenterWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "recreate_window",
		Description: "Destroy and recreate the managed window. The new native handle is registered again and the current flags are re-applied to it.",
	}, s.handleRecreateWindow)
}
