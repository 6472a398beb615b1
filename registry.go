package main

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registry errors
var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrUnknownTool   = errors.New("unknown tool")
)

// ToolDefinition pairs a tool schema with its handler
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Registry is the fixed set of tools this server exposes. It is built once
// at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	order []string
	defs  map[string]ToolDefinition
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]ToolDefinition)}
}

// Register adds a tool definition, preserving registration order
func (r *Registry) Register(def ToolDefinition) error {
	name := def.Tool.Name
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.order = append(r.order, name)
	r.defs[name] = def
	return nil
}

// List returns all tool definitions in registration order
func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Lookup returns the definition for the named tool
func (r *Registry) Lookup(name string) (ToolDefinition, error) {
	def, ok := r.defs[name]
	if !ok {
		return ToolDefinition{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return def, nil
}

// Attach installs every registered tool on the MCP server, wrapping each
// handler in the logging and authentication middleware.
func (r *Registry) Attach(mcpServer *server.MCPServer, logger Logger) {
	for _, def := range r.List() {
		mcpServer.AddTool(def.Tool, wrapHandlerWithLogger(def.Handler, def.Tool.Name, logger))
		logger.Info("Registered tool: %s", def.Tool.Name)
	}
}
