package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// newToolRegistry builds the registry binding each tool schema to the
// given handler set. The handler for a tool name is looked up so the
// degraded-mode server can reuse the same schemas.
func newToolRegistry(handlers map[string]server.ToolHandlerFunc) (*Registry, error) {
	registry := NewRegistry()

	tools := []mcp.Tool{
		GeminiChatTool,
		GeminiAnalyzeImageTool,
		GeminiListModelsTool,
		GeminiCountTokensTool,
	}

	for _, tool := range tools {
		handler, ok := handlers[tool.Name]
		if !ok {
			return nil, fmt.Errorf("no handler for tool %s", tool.Name)
		}
		if err := registry.Register(ToolDefinition{Tool: tool, Handler: handler}); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// setupGeminiServer creates the dispatcher and registers its tools
func setupGeminiServer(ctx context.Context, mcpServer *server.MCPServer, config *Config) error {
	logger, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		return fmt.Errorf("logger not found in context")
	}

	geminiSvc := NewGeminiServer(config)

	registry, err := newToolRegistry(map[string]server.ToolHandlerFunc{
		GeminiChatTool.Name:         geminiSvc.ChatHandler,
		GeminiAnalyzeImageTool.Name: geminiSvc.AnalyzeImageHandler,
		GeminiListModelsTool.Name:   geminiSvc.ListModelsHandler,
		GeminiCountTokensTool.Name:  geminiSvc.CountTokensHandler,
	})
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	registry.Attach(mcpServer, logger)

	if config.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; tool calls will return a configuration error")
	}

	logger.Info("Default model: %s (temperature %.2f, max tokens %d)",
		config.GeminiModel, config.GeminiTemperature, config.GeminiMaxTokens)
	logger.Info("Safety threshold: %s", config.SafetyThreshold)

	if config.GeminiSystemPrompt != "" {
		logger.Info("Using system prompt: %s", truncateForLog(config.GeminiSystemPrompt, 50))
	}

	return nil
}

// handleStartupError handles initialization errors by setting up an error
// server that reports the failure on every tool call.
func handleStartupError(ctx context.Context, err error) {
	logger, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		logger = NewLogger(LevelError)
	}

	logger.Error("Initialization error: %v", err)

	mcpServer := server.NewMCPServer(
		"gemini-mcp",
		"1.0.0",
	)

	errorServer := &ErrorGeminiServer{errorMessage: err.Error()}
	registerErrorTools(mcpServer, errorServer, logger)

	logger.Info("Starting Gemini MCP server in degraded mode")
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("Server error in degraded mode: %v", err)
		os.Exit(1)
	}
}

// registerErrorTools registers the full tool set with the error handler so
// clients still see the same tool surface in degraded mode.
func registerErrorTools(mcpServer *server.MCPServer, errorServer *ErrorGeminiServer, logger Logger) {
	registry, err := newToolRegistry(map[string]server.ToolHandlerFunc{
		GeminiChatTool.Name:         errorServer.handleErrorResponse,
		GeminiAnalyzeImageTool.Name: errorServer.handleErrorResponse,
		GeminiListModelsTool.Name:   errorServer.handleErrorResponse,
		GeminiCountTokensTool.Name:  errorServer.handleErrorResponse,
	})
	if err != nil {
		logger.Error("Failed to build error tool registry: %v", err)
		return
	}

	registry.Attach(mcpServer, logger)
	logger.Info("Registered error handlers for all tools")
}

// enforceHTTPAuth checks for authentication on HTTP requests and logs user
// info. It returns an error if authentication fails.
func enforceHTTPAuth(ctx context.Context, resourceType, resourceName string, logger Logger) error {
	if httpMethod, ok := ctx.Value(httpMethodKey).(string); !ok || httpMethod == "" {
		return nil // Not an HTTP request, so no auth check needed
	}

	if authError := getAuthError(ctx); authError != "" {
		logger.Warn("Authentication failed for %s '%s': %s", resourceType, resourceName, authError)
		return fmt.Errorf("authentication required: %s", authError)
	}

	if isAuthenticated(ctx) {
		userID, username, role := getUserInfo(ctx)
		logger.Info("%s '%s' called by authenticated user %s (%s) with role %s",
			resourceType, resourceName, username, userID, role)
	}

	return nil
}

// wrapHandlerWithLogger creates a middleware wrapper for logging and
// authentication around a tool handler
func wrapHandlerWithLogger(handler server.ToolHandlerFunc, toolName string, logger Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger.Info("Calling tool '%s'...", toolName)

		if err := enforceHTTPAuth(ctx, "tool", toolName, logger); err != nil {
			return createErrorResult(err.Error()), nil
		}

		if _, ok := ctx.Value(loggerKey).(Logger); !ok {
			ctx = context.WithValue(ctx, loggerKey, logger)
		}

		resp, err := handler(ctx, req)

		if err != nil {
			logger.Error("Tool '%s' failed: %v", toolName, err)
		} else {
			logger.Info("Tool '%s' completed successfully", toolName)
		}

		return resp, err
	}
}
