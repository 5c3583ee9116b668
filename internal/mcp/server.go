// Package mcp exposes the exercise catalog to agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gavinmead/trainer/internal/exercise"
)

// New creates an MCP server with all tools and resources registered.
func New(mgr *exercise.Manager, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Trainer", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Trainer exercise catalog server. List, look up, save, and delete exercises. Names are matched case-insensitively."),
	)

	h := &handlers{mgr: mgr, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExercise, Handler: h.getExercise},
		server.ServerTool{Tool: toolSaveExercise, Handler: h.saveExercise},
		server.ServerTool{Tool: toolDeleteExercise, Handler: h.deleteExercise},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	mgr *exercise.Manager
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"trainer://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises in the catalog with names, descriptions, and equipment types"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.mgr.List(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make([]exerciseView, 0, len(exercises))
	for _, e := range exercises {
		catalog = append(catalog, toExerciseView(e))
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
