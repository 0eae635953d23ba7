package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCounter", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCounter workout tracker. Read the live rep counting session and the history of finished bicep curl and squat workouts."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetHistorySummary, Handler: h.getHistorySummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resSession, Handler: h.session},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resSession = mcp.NewResource(
	"repcounter://session",
	"Live Session",
	mcp.WithResourceDescription("The running workout: exercise, reps, stage, calories and elapsed time"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"repcounter://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The five most recently finished workouts"),
	mcp.WithMIMEType("application/json"),
)
