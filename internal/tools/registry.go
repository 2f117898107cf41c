// Package tools implements the MCP tool surface over the PowerPoint
// dispatch core. Handlers marshal parameters, run a single callable on
// the executor's worker thread, and serialize the owned result to JSON.
// No COM object ever crosses back to the protocol layer.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pptmcp/internal/dispatch"
)

// ToolDef pairs a tool definition with its handler.
type ToolDef struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Deps carries what every tool group needs.
type Deps struct {
	Exec *dispatch.Executor
	Log  *zap.Logger
}

// All returns every tool the server registers.
func All(d Deps) []ToolDef {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	var defs []ToolDef
	defs = append(defs, appTools(d)...)
	defs = append(defs, presentationTools(d)...)
	defs = append(defs, slideTools(d)...)
	defs = append(defs, shapeTools(d)...)
	defs = append(defs, textTools(d)...)
	defs = append(defs, tableTools(d)...)
	defs = append(defs, chartTools(d)...)
	defs = append(defs, mediaTools(d)...)
	defs = append(defs, sectionTools(d)...)
	defs = append(defs, propertyTools(d)...)
	defs = append(defs, exportTools(d)...)
	defs = append(defs, slideshowTools(d)...)
	return defs
}
