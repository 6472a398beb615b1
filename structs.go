package main

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

// GeminiServer dispatches tool calls to the Gemini API. Handlers are
// stateless; each invocation validates, builds a request, calls upstream
// once, and translates the outcome into a single text result.
type GeminiServer struct {
	config *Config
	client *GeminiClient

	// imageClient fetches caller-supplied image URLs, separate from the
	// API client so tests can stub the two endpoints independently.
	imageClient *http.Client
}

// NewGeminiServer creates the Gemini tool dispatcher from configuration
func NewGeminiServer(config *Config) *GeminiServer {
	return &GeminiServer{
		config:      config,
		client:      NewGeminiClient(config.GeminiAPIKey, config.GeminiBaseURL, config.HTTPTimeout),
		imageClient: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// ErrorGeminiServer answers every tool call with a fixed error message.
// Used when the server is in degraded mode due to initialization errors.
type ErrorGeminiServer struct {
	errorMessage string
}

// handleErrorResponse returns the initialization error regardless of which
// tool is called
func (s *ErrorGeminiServer) handleErrorResponse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		logger.Info("Tool '%s' called in error mode", req.Params.Name)
	}
	return mcp.NewToolResultError(s.errorMessage), nil
}
